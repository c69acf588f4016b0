//go:build gocv
// +build gocv

package vision

import (
	"context"
	"errors"
	"image"

	"annadata/internal/domain/port"
)

// ResNetClassifier: классификатор болезней листа (ResNet-34, ONNX).
type ResNetClassifier struct {
	Size int
	Mean [3]float32
	Std  [3]float32

	net *onnxNet
}

// NewResNetClassifier загружает веса классификатора.
func NewResNetClassifier(modelPath string) (*ResNetClassifier, error) {
	net, err := loadONNX(modelPath)
	if err != nil {
		return nil, err
	}
	return &ResNetClassifier{
		Size: DefaultClassifierSize,
		Mean: ImageNetMean,
		Std:  ImageNetStd,
		net:  net,
	}, nil
}

// Classify возвращает индекс класса с наибольшим логитом.
func (c *ResNetClassifier) Classify(ctx context.Context, img image.Image) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	tensor := ClassifierTensor(img, c.Size, c.Mean, c.Std)
	logits, _, err := c.net.forward(tensor, []int{1, 3, c.Size, c.Size})
	if err != nil {
		return 0, err
	}
	idx := ArgMax(logits)
	if idx < 0 {
		return 0, errors.New("classifier returned no logits")
	}
	return idx, nil
}

// Close освобождает сеть.
func (c *ResNetClassifier) Close() error {
	return c.net.close()
}

var _ port.LeafClassifier = (*ResNetClassifier)(nil)
