package dashboard

import (
	"sync"
	"time"

	"annadata/internal/domain/entity"
)

// Предупреждения о камере.
const (
	WarnOpenStream = "Could not open video stream. Check URL and ensure the camera is active."
	WarnStreamLost = "Connection to camera lost. Stopping."
)

// Labels: последние подписи по листу и сорнякам.
type Labels struct {
	Leaf string
	Weed string
}

// InitialLabels: подписи до первого обработанного кадра.
var InitialLabels = Labels{Leaf: LabelNA, Weed: LabelNA}

// Badge: подпись и её цвет.
type Badge struct {
	Label string `json:"label"`
	Tone  Tone   `json:"tone"`
}

func badge(label string) Badge {
	return Badge{Label: label, Tone: ToneOf(label)}
}

// Snapshot: копия состояния для отрисовки.
type Snapshot struct {
	Monitoring    bool                `json:"monitoring"`
	CameraURL     string              `json:"camera_url"`
	Leaf          Badge               `json:"leaf"`
	Weed          Badge               `json:"weed"`
	Fertility     *Badge              `json:"fertility,omitempty"`
	Warning       string              `json:"warning,omitempty"`
	LastProcessed string              `json:"last_processed,omitempty"`
	History       []entity.HistoryRow `json:"history"`
}

// State: потокобезопасная ячейка состояния дашборда.
// Пишут семплер, воркер инференса и HTTP-обработчики; читает отрисовка.
type State struct {
	mu            sync.RWMutex
	monitoring    bool
	cameraURL     string
	labels        Labels
	fertility     string
	warning       string
	lastProcessed time.Time
	history       []entity.HistoryRow

	onChange func()
}

// NewState создаёт состояние; onChange вызывается после каждого изменения.
func NewState(onChange func()) *State {
	return &State{labels: InitialLabels, onChange: onChange}
}

func (s *State) update(fn func()) {
	s.mu.Lock()
	fn()
	s.mu.Unlock()
	if s.onChange != nil {
		s.onChange()
	}
}

// SetOnChange заменяет обработчик изменений.
func (s *State) SetOnChange(fn func()) {
	s.mu.Lock()
	s.onChange = fn
	s.mu.Unlock()
}

// StartMonitoring отмечает запуск мониторинга камеры url.
func (s *State) StartMonitoring(url string) {
	s.update(func() {
		s.monitoring = true
		s.cameraURL = url
		s.warning = ""
		s.labels = InitialLabels
	})
}

// StopMonitoring останавливает мониторинг с необязательным предупреждением.
func (s *State) StopMonitoring(warning string) {
	s.update(func() {
		s.monitoring = false
		s.warning = warning
	})
}

// SetLabels сохраняет результат обработки кадра.
func (s *State) SetLabels(l Labels, at time.Time) {
	s.update(func() {
		s.labels = l
		s.lastProcessed = at
	})
}

// SetFertility сохраняет последнюю оценку плодородия.
func (s *State) SetFertility(label string) {
	s.update(func() { s.fertility = label })
}

// SetHistory заменяет таблицу истории.
func (s *State) SetHistory(rows []entity.HistoryRow) {
	cp := append([]entity.HistoryRow(nil), rows...)
	s.update(func() { s.history = cp })
}

// Labels возвращает текущие подписи.
func (s *State) Labels() Labels {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.labels
}

// Monitoring сообщает, идёт ли мониторинг.
func (s *State) Monitoring() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.monitoring
}

// Snapshot возвращает копию состояния.
func (s *State) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := Snapshot{
		Monitoring: s.monitoring,
		CameraURL:  s.cameraURL,
		Leaf:       badge(s.labels.Leaf),
		Weed:       badge(s.labels.Weed),
		Warning:    s.warning,
		History:    append([]entity.HistoryRow{}, s.history...),
	}
	if s.fertility != "" {
		b := badge(s.fertility)
		snap.Fertility = &b
	}
	if !s.lastProcessed.IsZero() {
		snap.LastProcessed = s.lastProcessed.Format(entity.TimestampLayout)
	}
	return snap
}
