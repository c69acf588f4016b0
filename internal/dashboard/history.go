package dashboard

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"annadata/internal/domain/entity"
	"annadata/internal/domain/port"
)

// historyDebounce склеивает серию записей в журнал в одно перечитывание.
const historyDebounce = 200 * time.Millisecond

// HistoryWatcher следит за каталогом журнала и перечитывает хвост при изменениях.
type HistoryWatcher struct {
	results port.ResultLog
	path    string
	rows    int
	onLoad  func([]entity.HistoryRow)
	log     *zap.Logger

	fsWatcher *fsnotify.Watcher
	done      chan struct{}
	stopOnce  sync.Once

	debounceMu sync.Mutex
	debounce   *time.Timer
}

// NewHistoryWatcher создаёт наблюдателя за файлом path; onLoad получает свежий хвост.
func NewHistoryWatcher(results port.ResultLog, path string, rows int,
	onLoad func([]entity.HistoryRow), log *zap.Logger) (*HistoryWatcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &HistoryWatcher{
		results:   results,
		path:      filepath.Clean(path),
		rows:      rows,
		onLoad:    onLoad,
		log:       log,
		fsWatcher: fsWatcher,
		done:      make(chan struct{}),
	}, nil
}

// Start загружает историю и начинает следить за каталогом журнала.
// Каталог создаётся, если его ещё нет: журнал появляется с первой записью.
func (w *HistoryWatcher) Start() error {
	dir := filepath.Dir(w.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	if err := w.fsWatcher.Add(dir); err != nil {
		return err
	}

	w.Reload()
	go w.processEvents()
	return nil
}

// Stop прекращает наблюдение.
func (w *HistoryWatcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.done)
		_ = w.fsWatcher.Close()

		w.debounceMu.Lock()
		if w.debounce != nil {
			w.debounce.Stop()
		}
		w.debounceMu.Unlock()
	})
}

// Reload перечитывает хвост журнала.
func (w *HistoryWatcher) Reload() {
	rows, err := w.results.Tail(context.Background(), w.rows)
	if err != nil {
		w.log.Warn("reload history", zap.String("path", w.path), zap.Error(err))
		return
	}
	w.onLoad(rows)
}

func (w *HistoryWatcher) processEvents() {
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			w.log.Warn("history watcher error", zap.Error(err))
		}
	}
}

func (w *HistoryWatcher) handleEvent(event fsnotify.Event) {
	if filepath.Clean(event.Name) != w.path {
		return
	}
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
		return
	}

	w.debounceMu.Lock()
	defer w.debounceMu.Unlock()

	if w.debounce != nil {
		w.debounce.Stop()
	}
	w.debounce = time.AfterFunc(historyDebounce, func() {
		select {
		case <-w.done:
			return
		default:
		}
		w.Reload()
	})
}
