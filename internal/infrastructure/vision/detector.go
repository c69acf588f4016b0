//go:build gocv
// +build gocv

package vision

import (
	"context"
	"image"

	"annadata/internal/domain/entity"
	"annadata/internal/domain/port"
)

// YOLODetector: детектор листьев/сорняков на ONNX-экспорте YOLOv8.
type YOLODetector struct {
	Size          int
	ConfThreshold float32
	IoUThreshold  float32

	net *onnxNet
}

// NewYOLODetector загружает веса детектора.
func NewYOLODetector(modelPath string) (*YOLODetector, error) {
	net, err := loadONNX(modelPath)
	if err != nil {
		return nil, err
	}
	return &YOLODetector{
		Size:          DefaultDetectorSize,
		ConfThreshold: DefaultConfThreshold,
		IoUThreshold:  DefaultIoUThreshold,
		net:           net,
	}, nil
}

// Detect вписывает кадр в вход модели и возвращает рамки после NMS.
func (d *YOLODetector) Detect(ctx context.Context, img image.Image) ([]entity.Detection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	tensor, lb := LetterboxTensor(img, d.Size)
	out, shape, err := d.net.forward(tensor, []int{1, 3, d.Size, d.Size})
	if err != nil {
		return nil, err
	}
	return DecodeYOLO(out, shape, lb, d.ConfThreshold, d.IoUThreshold)
}

// Close освобождает сеть.
func (d *YOLODetector) Close() error {
	return d.net.close()
}

var _ port.ObjectDetector = (*YOLODetector)(nil)
