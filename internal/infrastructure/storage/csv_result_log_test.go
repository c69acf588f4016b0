package storage

import (
	"bytes"
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"annadata/internal/domain/entity"
)

func newEntry(event entity.EventType, result string) entity.LogEntry {
	return entity.LogEntry{
		Timestamp: time.Date(2025, 1, 2, 3, 4, 5, 0, time.Local),
		Type:      event,
		Result:    result,
		Latitude:  12.9,
		Longitude: 80.1,
	}
}

func readRecords(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return records
}

func TestCSVResultLog_AppendKeepsPreviousEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results", "result.csv")
	log := NewCSVResultLog(path)
	ctx := context.Background()

	require.NoError(t, log.Append(ctx, newEntry(entity.EventLeafDisease, entity.DiseaseBlast)))
	require.NoError(t, log.Append(ctx, newEntry(entity.EventWeed, entity.WeedDetectedResult)))

	records := readRecords(t, path)
	require.Len(t, records, 3)
	require.Equal(t, []string{"Timestamp", "Type", "Result", "Latitude", "Longitude"}, records[0])
	require.Equal(t, "Leaf_Disease", records[1][1])
	require.Equal(t, "Blast", records[1][2])
	require.Equal(t, "Weed", records[2][1])
}

func TestCSVResultLog_HeaderWrittenForEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "result.csv")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	log := NewCSVResultLog(path)
	require.NoError(t, log.Append(context.Background(), newEntry(entity.EventSoilFertility, entity.FertilityHigh)))

	records := readRecords(t, path)
	require.Len(t, records, 2)
	require.Equal(t, entity.LogHeader, records[0])
}

func TestCSVResultLog_ConcurrentAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "result.csv")
	log := NewCSVResultLog(path)
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- log.Append(ctx, newEntry(entity.EventWeed, entity.WeedDetectedResult))
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	records := readRecords(t, path)
	require.Len(t, records, 21)
	for _, rec := range records[1:] {
		require.Len(t, rec, 5)
	}
}

func TestCSVResultLog_Tail(t *testing.T) {
	path := filepath.Join(t.TempDir(), "result.csv")
	log := NewCSVResultLog(path)
	ctx := context.Background()

	rows, err := log.Tail(ctx, 8)
	require.NoError(t, err)
	require.Empty(t, rows)

	for _, label := range []string{"a", "b", "c"} {
		require.NoError(t, log.Append(ctx, newEntry(entity.EventLeafDisease, label)))
	}

	rows, err = log.Tail(ctx, 2)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, "b", rows[0].Result)
	require.Equal(t, "c", rows[1].Result)
	require.Equal(t, "2025-01-02 03:04:05", rows[1].Timestamp)

	rows, err = log.Tail(ctx, 10)
	require.NoError(t, err)
	require.Len(t, rows, 3)
}

func TestCSVResultLog_TailReadsColumnsByName(t *testing.T) {
	path := filepath.Join(t.TempDir(), "result.csv")
	content := "Type,Timestamp,Result\nWeed,2024-05-06 07:08:09,WEED_DETECTED\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	rows, err := NewCSVResultLog(path).Tail(context.Background(), 8)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, "Weed", rows[0].Type)
	require.Equal(t, "2024-05-06 07:08:09", rows[0].Timestamp)
	require.Empty(t, rows[0].Latitude)
}

func TestCSVResultLog_Export(t *testing.T) {
	path := filepath.Join(t.TempDir(), "result.csv")
	log := NewCSVResultLog(path)
	ctx := context.Background()

	var buf bytes.Buffer
	require.ErrorIs(t, log.Export(ctx, &buf), ErrLogNotFound)

	require.NoError(t, log.Append(ctx, newEntry(entity.EventSoilFertility, entity.FertilityLow)))
	require.NoError(t, log.Export(ctx, &buf))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	require.Equal(t, "Low Fertility", records[1][2])
}
