package dashboard

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"annadata/internal/domain/entity"
	"annadata/internal/infrastructure/storage"
)

type rowsSink struct {
	mu   sync.Mutex
	rows []entity.HistoryRow
	hits int
}

func (s *rowsSink) set(rows []entity.HistoryRow) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = rows
	s.hits++
}

func (s *rowsSink) get() ([]entity.HistoryRow, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rows, s.hits
}

func TestHistoryWatcher_ReloadsOnAppend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results", "result.csv")
	results := storage.NewCSVResultLog(path)
	sink := &rowsSink{}

	w, err := NewHistoryWatcher(results, path, 2, sink.set, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, w.Start())
	t.Cleanup(w.Stop)

	rows, hits := sink.get()
	require.Equal(t, 1, hits)
	require.Empty(t, rows)

	for _, result := range []string{"Blast", "Blight", "Brown_Spot"} {
		require.NoError(t, results.Append(context.Background(), entity.LogEntry{
			Timestamp: time.Now(),
			Type:      entity.EventLeafDisease,
			Result:    result,
			Latitude:  13,
			Longitude: 80.1,
		}))
	}

	require.Eventually(t, func() bool {
		rows, _ := sink.get()
		return len(rows) == 2 && rows[1].Result == "Brown_Spot"
	}, 3*time.Second, 20*time.Millisecond)
	rows, _ = sink.get()
	require.Equal(t, "Blight", rows[0].Result)
}

func TestHistoryWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "result.csv")
	sink := &rowsSink{}

	w, err := NewHistoryWatcher(storage.NewCSVResultLog(path), path, 8, sink.set, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, w.Start())
	t.Cleanup(w.Stop)

	require.NoError(t, writeSnapshot(filepath.Join(dir, "temp_frame.jpg"), []byte("jpeg")))
	time.Sleep(3 * historyDebounce)

	_, hits := sink.get()
	require.Equal(t, 1, hits)
}
