package port

import (
	"context"
	"io"

	"annadata/internal/domain/entity"
)

// ResultLog интерфейс журнала результатов
type ResultLog interface {
	// Append дописывает запись в конец журнала
	Append(ctx context.Context, entry entity.LogEntry) error

	// Tail возвращает последние n строк журнала
	Tail(ctx context.Context, n int) ([]entity.HistoryRow, error)

	// Export пишет журнал целиком в w в формате CSV
	Export(ctx context.Context, w io.Writer) error
}

// Locator интерфейс источника координат для записей журнала
type Locator interface {
	Locate() entity.Coordinate
}
