package port

import (
	"context"
	"image"
)

// LeafClassifier интерфейс классификатора болезней листа
type LeafClassifier interface {
	// Classify возвращает индекс класса в таблице entity.DiseaseLabels
	Classify(ctx context.Context, img image.Image) (int, error)
}

// FertilityModel интерфейс модели плодородия (скейлер + классификатор)
type FertilityModel interface {
	// Available сообщает, удалось ли загрузить модель при старте
	Available() bool

	// Predict возвращает индекс класса в таблице entity.FertilityLabels
	Predict(features []float64) (int, error)
}
