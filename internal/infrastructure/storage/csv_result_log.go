package storage

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"annadata/internal/domain/entity"
	"annadata/internal/domain/port"
)

// ErrLogNotFound возвращается, когда журнал ещё не создан
var ErrLogNotFound = errors.New("result log does not exist yet")

// CSVResultLog журнал результатов в CSV-файле
type CSVResultLog struct {
	mu   sync.Mutex
	path string
}

// NewCSVResultLog создаёт журнал по пути path (файл создаётся при первой записи)
func NewCSVResultLog(path string) *CSVResultLog {
	return &CSVResultLog{path: path}
}

// Path возвращает путь к файлу журнала
func (l *CSVResultLog) Path() string {
	return l.path
}

// Append дописывает запись, при первой записи добавляет заголовок
func (l *CSVResultLog) Append(ctx context.Context, entry entity.LogEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if dir := filepath.Dir(l.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create log dir: %w", err)
		}
	}

	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open result log: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat result log: %w", err)
	}

	w := csv.NewWriter(f)
	if info.Size() == 0 {
		if err := w.Write(entity.LogHeader); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}
	if err := w.Write(entry.Record()); err != nil {
		return fmt.Errorf("write entry: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush result log: %w", err)
	}
	return nil
}

// Tail возвращает последние n строк; отсутствующий файл: пустая история
func (l *CSVResultLog) Tail(ctx context.Context, n int) ([]entity.HistoryRow, error) {
	rows, err := l.readAll(ctx)
	if errors.Is(err, ErrLogNotFound) {
		return []entity.HistoryRow{}, nil
	}
	if err != nil {
		return nil, err
	}
	if n >= 0 && len(rows) > n {
		rows = rows[len(rows)-n:]
	}
	return rows, nil
}

// Export пишет весь журнал в w в формате CSV
func (l *CSVResultLog) Export(ctx context.Context, w io.Writer) error {
	rows, err := l.readAll(ctx)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(entity.LogHeader); err != nil {
		return err
	}
	for _, r := range rows {
		if err := cw.Write([]string{r.Timestamp, r.Type, r.Result, r.Latitude, r.Longitude}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func (l *CSVResultLog) readAll(ctx context.Context) ([]entity.HistoryRow, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	l.mu.Lock()
	data, err := os.ReadFile(l.path)
	l.mu.Unlock()
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrLogNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read result log: %w", err)
	}

	return parseHistory(data)
}

// parseHistory разбирает CSV по именам колонок заголовка
func parseHistory(data []byte) ([]entity.HistoryRow, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse result log: %w", err)
	}
	if len(records) == 0 {
		return []entity.HistoryRow{}, nil
	}

	index := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		index[name] = i
	}
	field := func(rec []string, name string) string {
		i, ok := index[name]
		if !ok || i >= len(rec) {
			return ""
		}
		return rec[i]
	}

	rows := make([]entity.HistoryRow, 0, len(records)-1)
	for _, rec := range records[1:] {
		rows = append(rows, entity.HistoryRow{
			Timestamp: field(rec, "Timestamp"),
			Type:      field(rec, "Type"),
			Result:    field(rec, "Result"),
			Latitude:  field(rec, "Latitude"),
			Longitude: field(rec, "Longitude"),
		})
	}
	return rows, nil
}

// Проверка реализации интерфейса
var _ port.ResultLog = (*CSVResultLog)(nil)
