package dashboard

import (
	"sync"
)

// FrameBroadcaster раздаёт последний JPEG-кадр подписчикам MJPEG.
type FrameBroadcaster struct {
	mu      sync.Mutex
	clients map[int]chan []byte
	nextID  int
	latest  []byte
}

func NewFrameBroadcaster() *FrameBroadcaster {
	return &FrameBroadcaster{clients: make(map[int]chan []byte)}
}

// Subscribe добавляет клиента; если кадр уже есть, он приходит сразу.
func (fb *FrameBroadcaster) Subscribe() (int, <-chan []byte) {
	fb.mu.Lock()
	defer fb.mu.Unlock()

	id := fb.nextID
	fb.nextID++
	ch := make(chan []byte, 2)
	if fb.latest != nil {
		ch <- fb.latest
	}
	fb.clients[id] = ch
	return id, ch
}

// Unsubscribe удаляет клиента.
func (fb *FrameBroadcaster) Unsubscribe(id int) {
	fb.mu.Lock()
	defer fb.mu.Unlock()

	if ch, ok := fb.clients[id]; ok {
		close(ch)
		delete(fb.clients, id)
	}
}

// Publish рассылает кадр; медленный клиент пропускает кадры.
func (fb *FrameBroadcaster) Publish(frame []byte) {
	fb.mu.Lock()
	defer fb.mu.Unlock()

	fb.latest = frame
	for _, ch := range fb.clients {
		select {
		case ch <- frame:
		default:
		}
	}
}

// Latest возвращает последний кадр или nil.
func (fb *FrameBroadcaster) Latest() []byte {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return fb.latest
}

// Clients возвращает число подписчиков.
func (fb *FrameBroadcaster) Clients() int {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return len(fb.clients)
}
