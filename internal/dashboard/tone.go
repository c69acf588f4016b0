package dashboard

import "annadata/internal/domain/entity"

// Tone: цвет бейджа статуса.
type Tone string

const (
	ToneOK      Tone = "ok"
	ToneWarn    Tone = "warn"
	ToneAlert   Tone = "alert"
	ToneNeutral Tone = "neutral"
)

// Подписи бейджей на дашборде.
const (
	LabelNoLeaf      = "No Leaf Detected"
	LabelNA          = entity.DiseaseNotApplicable
	LabelDetected    = "Detected"
	LabelNotDetected = "Not Detected"
)

// ToneOf выбирает цвет для подписи: здоровое зелёным, отсутствие данных
// оранжевым, находки и оценки плодородия красным.
func ToneOf(label string) Tone {
	switch label {
	case entity.DiseaseHealthy, LabelNotDetected:
		return ToneOK
	case LabelNA, LabelNoLeaf:
		return ToneWarn
	case LabelDetected, entity.DiseaseBrownSpot, entity.DiseaseBlight, "Rust",
		entity.FertilityLow, entity.FertilityMedium, entity.FertilityHigh:
		return ToneAlert
	default:
		return ToneNeutral
	}
}
