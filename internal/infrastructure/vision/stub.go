//go:build !gocv
// +build !gocv

package vision

import (
	"context"
	"errors"
	"image"

	"annadata/internal/domain/entity"
	"annadata/internal/domain/port"
)

// ErrGocvDisabled возвращается заглушками при сборке без тега gocv.
var ErrGocvDisabled = errors.New("gocv build tag is not enabled")

// YOLODetector: заглушка детектора (без OpenCV).
type YOLODetector struct {
	Size          int
	ConfThreshold float32
	IoUThreshold  float32
}

// NewYOLODetector создаёт детектор-заглушку; путь к модели не читается.
func NewYOLODetector(modelPath string) (*YOLODetector, error) {
	_ = modelPath
	return &YOLODetector{
		Size:          DefaultDetectorSize,
		ConfThreshold: DefaultConfThreshold,
		IoUThreshold:  DefaultIoUThreshold,
	}, nil
}

// Detect возвращает ошибку, если сборка без тега gocv.
func (d *YOLODetector) Detect(ctx context.Context, img image.Image) ([]entity.Detection, error) {
	_ = ctx
	_ = img
	return nil, ErrGocvDisabled
}

// Close ничего не делает.
func (d *YOLODetector) Close() error { return nil }

// ResNetClassifier: заглушка классификатора (без OpenCV).
type ResNetClassifier struct {
	Size int
	Mean [3]float32
	Std  [3]float32
}

// NewResNetClassifier создаёт классификатор-заглушку.
func NewResNetClassifier(modelPath string) (*ResNetClassifier, error) {
	_ = modelPath
	return &ResNetClassifier{Size: DefaultClassifierSize, Mean: ImageNetMean, Std: ImageNetStd}, nil
}

// Classify возвращает ошибку, если сборка без тега gocv.
func (c *ResNetClassifier) Classify(ctx context.Context, img image.Image) (int, error) {
	_ = ctx
	_ = img
	return 0, ErrGocvDisabled
}

// Close ничего не делает.
func (c *ResNetClassifier) Close() error { return nil }

// OpenCapture недоступен без OpenCV.
func OpenCapture(url string) (port.FrameSource, error) {
	_ = url
	return nil, ErrGocvDisabled
}

var (
	_ port.ObjectDetector = (*YOLODetector)(nil)
	_ port.LeafClassifier = (*ResNetClassifier)(nil)
)
