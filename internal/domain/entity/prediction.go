package entity

import (
	"errors"
	"fmt"
)

// ErrClassOutOfRange возвращается, когда модель выдала индекс вне таблицы меток.
var ErrClassOutOfRange = errors.New("class index out of range")

// Метки болезней листа в порядке выходов классификатора.
const (
	DiseaseBlast     = "Blast"
	DiseaseBlight    = "Blight"
	DiseaseBrownSpot = "Brown_Spot"
	DiseaseHealthy   = "Healthy"

	// DiseaseNotApplicable отдаётся, когда на снимке нет листа.
	DiseaseNotApplicable = "N/A"
)

// DiseaseLabels: таблица меток классификатора листа.
var DiseaseLabels = []string{DiseaseBlast, DiseaseBlight, DiseaseBrownSpot, DiseaseHealthy}

// Метки плодородия в порядке классов модели (0=Low, 1=Medium, 2=High).
const (
	FertilityLow    = "Low Fertility"
	FertilityMedium = "Medium Fertility"
	FertilityHigh   = "High Fertility"

	FertilityModelNotAvailable = "Model Not Available"
	FertilityError             = "Error"
)

// FertilityLabels: таблица меток модели плодородия.
var FertilityLabels = []string{FertilityLow, FertilityMedium, FertilityHigh}

// DiseaseLabel переводит индекс класса в метку болезни.
func DiseaseLabel(idx int) (string, error) {
	return lookupLabel(DiseaseLabels, idx)
}

// FertilityLabel переводит индекс класса в метку плодородия.
func FertilityLabel(idx int) (string, error) {
	return lookupLabel(FertilityLabels, idx)
}

func lookupLabel(labels []string, idx int) (string, error) {
	if idx < 0 || idx >= len(labels) {
		return "", fmt.Errorf("%w: %d (have %d classes)", ErrClassOutOfRange, idx, len(labels))
	}
	return labels[idx], nil
}

// Статусы ответа предсказания плодородия.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// FertilityResult: ответ /predict_fertility/.
type FertilityResult struct {
	Status    string `json:"status"`
	Fertility string `json:"fertility"`
	Details   string `json:"details,omitempty"`
}

// LeafDiagnosis: ответ /classify_leaf/.
type LeafDiagnosis struct {
	Filename     string `json:"filename"`
	Disease      string `json:"disease"`
	LeafDetected bool   `json:"leaf_detected"`
}

// WeedReport: ответ /detect_weed/.
type WeedReport struct {
	Filename     string `json:"filename"`
	WeedDetected bool   `json:"weed_detected"`
}
