// Package geo выдаёт координаты для записей журнала.
package geo

import (
	"math"
	"math/rand"
	"sync"

	"annadata/internal/domain/entity"
	"annadata/internal/domain/port"
)

// Границы моковой области (окрестности поля под Ченнаи).
const (
	MinLatitude  = 12.8
	MaxLatitude  = 13.2
	MinLongitude = 80.0
	MaxLongitude = 80.3
)

// MockLocator выдаёт случайные координаты внутри фиксированной области.
// Реального GPS у стенда нет.
type MockLocator struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewMockLocator создаёт локатор с заданным seed
func NewMockLocator(seed int64) *MockLocator {
	return &MockLocator{rnd: rand.New(rand.NewSource(seed))}
}

// Locate возвращает координату, округлённую до 6 знаков
func (l *MockLocator) Locate() entity.Coordinate {
	l.mu.Lock()
	lat := MinLatitude + l.rnd.Float64()*(MaxLatitude-MinLatitude)
	lon := MinLongitude + l.rnd.Float64()*(MaxLongitude-MinLongitude)
	l.mu.Unlock()

	return entity.Coordinate{
		Latitude:  round6(lat),
		Longitude: round6(lon),
	}
}

func round6(v float64) float64 {
	return math.Round(v*1e6) / 1e6
}

var _ port.Locator = (*MockLocator)(nil)
