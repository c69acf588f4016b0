package port

import (
	"context"
	"image"

	"annadata/internal/domain/entity"
)

// ObjectDetector интерфейс детектора листьев и сорняков
type ObjectDetector interface {
	// Detect возвращает рамки, найденные на изображении
	Detect(ctx context.Context, img image.Image) ([]entity.Detection, error)
}
