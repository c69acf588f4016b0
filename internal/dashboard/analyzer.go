package dashboard

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"annadata/internal/domain/entity"
)

// Inference: вызовы сервиса, нужные анализатору кадров.
type Inference interface {
	ClassifyLeaf(ctx context.Context, frame []byte) (*entity.LeafDiagnosis, error)
	DetectWeed(ctx context.Context, frame []byte) (*entity.WeedReport, error)
}

// Analyzer превращает кадр в подписи листа и сорняков.
type Analyzer struct {
	api Inference
	log *zap.Logger
}

func NewAnalyzer(api Inference, log *zap.Logger) *Analyzer {
	return &Analyzer{api: api, log: log}
}

// Analyze проверяет лист, а если он найден, то и сорняки.
// Неудачный вызов листа сбрасывает обе подписи в N/A;
// ответ сорняков с ошибочным статусом оставляет прежнюю подпись,
// а сбой соединения сбрасывает обе.
func (a *Analyzer) Analyze(ctx context.Context, frame []byte, prev Labels) Labels {
	leaf, err := a.api.ClassifyLeaf(ctx, frame)
	if err != nil {
		a.log.Warn("classify leaf call failed", zap.Error(err))
		return Labels{Leaf: LabelNA, Weed: LabelNA}
	}
	if !leaf.LeafDetected {
		return Labels{Leaf: LabelNoLeaf, Weed: LabelNA}
	}

	next := Labels{Leaf: leaf.Disease, Weed: prev.Weed}
	weed, err := a.api.DetectWeed(ctx, frame)
	if err != nil {
		a.log.Warn("detect weed call failed", zap.Error(err))
		var statusErr *StatusError
		if errors.As(err, &statusErr) {
			return next
		}
		return Labels{Leaf: LabelNA, Weed: LabelNA}
	}
	if weed.WeedDetected {
		next.Weed = LabelDetected
	} else {
		next.Weed = LabelNotDetected
	}
	return next
}
