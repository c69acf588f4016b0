package app

import (
	"context"
	"errors"
	"image"
	"io"
	"sync"

	"annadata/internal/domain/entity"
)

type fakeDetector struct {
	boxes []entity.Detection
	err   error
	calls int
}

func (f *fakeDetector) Detect(ctx context.Context, img image.Image) ([]entity.Detection, error) {
	f.calls++
	return f.boxes, f.err
}

type fakeClassifier struct {
	class int
	err   error
	calls int
}

func (f *fakeClassifier) Classify(ctx context.Context, img image.Image) (int, error) {
	f.calls++
	return f.class, f.err
}

type fakeFertility struct {
	available bool
	class     int
	err       error
}

func (f *fakeFertility) Available() bool { return f.available }

func (f *fakeFertility) Predict(features []float64) (int, error) {
	if len(features) != 5 {
		return 0, errors.New("want 5 features")
	}
	return f.class, f.err
}

type memoryLog struct {
	mu        sync.Mutex
	entries   []entity.LogEntry
	appendErr error
}

func (m *memoryLog) Append(ctx context.Context, e entity.LogEntry) error {
	if m.appendErr != nil {
		return m.appendErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, e)
	return nil
}

func (m *memoryLog) Tail(ctx context.Context, n int) ([]entity.HistoryRow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rows := make([]entity.HistoryRow, 0, len(m.entries))
	for _, e := range m.entries {
		r := e.Record()
		rows = append(rows, entity.HistoryRow{Timestamp: r[0], Type: r[1], Result: r[2], Latitude: r[3], Longitude: r[4]})
	}
	if len(rows) > n {
		rows = rows[len(rows)-n:]
	}
	return rows, nil
}

func (m *memoryLog) Export(ctx context.Context, w io.Writer) error {
	_, err := io.WriteString(w, "Timestamp,Type,Result,Latitude,Longitude\n")
	return err
}

type fixedLocator struct{}

func (fixedLocator) Locate() entity.Coordinate {
	return entity.Coordinate{Latitude: 13.0, Longitude: 80.1}
}
