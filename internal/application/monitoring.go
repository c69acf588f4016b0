package app

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"time"

	"go.uber.org/zap"

	"annadata/internal/domain/entity"
	"annadata/internal/domain/port"
	"annadata/internal/metrics"
)

// Ошибки конфигурации сервиса.
var (
	ErrDetectorNotConfigured   = errors.New("detector is not configured")
	ErrClassifierNotConfigured = errors.New("classifier is not configured")
)

// Сообщение для недоступной модели плодородия.
const fertilityMissingDetails = "Fertility model or scaler file is missing."

// MonitoringDeps: зависимости сервиса мониторинга.
type MonitoringDeps struct {
	Detector   port.ObjectDetector
	Classifier port.LeafClassifier
	Fertility  port.FertilityModel
	Results    port.ResultLog
	Locator    port.Locator
	Metrics    *metrics.Metrics
	Logger     *zap.Logger
	Now        func() time.Time
}

// MonitoringService выполняет предсказания и ведёт журнал результатов.
type MonitoringService struct {
	detector   port.ObjectDetector
	classifier port.LeafClassifier
	fertility  port.FertilityModel
	results    port.ResultLog
	locator    port.Locator
	metrics    *metrics.Metrics
	log        *zap.Logger
	now        func() time.Time
}

// NewMonitoringService собирает сервис; пустые Logger и Now заменяются значениями по умолчанию.
func NewMonitoringService(deps MonitoringDeps) *MonitoringService {
	s := &MonitoringService{
		detector:   deps.Detector,
		classifier: deps.Classifier,
		fertility:  deps.Fertility,
		results:    deps.Results,
		locator:    deps.Locator,
		metrics:    deps.Metrics,
		log:        deps.Logger,
		now:        deps.Now,
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// PredictFertility классифицирует плодородие почвы.
// Ошибки не поднимаются наверх, а превращаются в ответ со статусом error.
func (s *MonitoringService) PredictFertility(ctx context.Context, sample entity.SoilSample) entity.FertilityResult {
	if s.fertility == nil || !s.fertility.Available() {
		s.metrics.Prediction("predict_fertility", "unavailable")
		return entity.FertilityResult{
			Status:    entity.StatusError,
			Fertility: entity.FertilityModelNotAvailable,
			Details:   fertilityMissingDetails,
		}
	}

	label, err := s.predictFertility(ctx, sample)
	if err != nil {
		s.log.Error("fertility prediction failed", zap.Error(err))
		s.metrics.Prediction("predict_fertility", "error")
		return entity.FertilityResult{
			Status:    entity.StatusError,
			Fertility: entity.FertilityError,
			Details:   err.Error(),
		}
	}

	s.metrics.Prediction("predict_fertility", "ok")
	return entity.FertilityResult{Status: entity.StatusSuccess, Fertility: label}
}

func (s *MonitoringService) predictFertility(ctx context.Context, sample entity.SoilSample) (string, error) {
	start := time.Now()
	class, err := s.fertility.Predict(sample.Features())
	s.metrics.ObserveInference("fertility", time.Since(start))
	if err != nil {
		return "", err
	}
	label, err := entity.FertilityLabel(class)
	if err != nil {
		return "", err
	}
	if err := s.record(ctx, entity.EventSoilFertility, label); err != nil {
		return "", err
	}
	return label, nil
}

// ClassifyLeaf сначала проверяет детектором, есть ли на снимке лист,
// и только потом запускает классификатор болезней.
func (s *MonitoringService) ClassifyLeaf(ctx context.Context, filename string, img image.Image) (*entity.LeafDiagnosis, error) {
	boxes, err := s.detect(ctx, img)
	if err != nil {
		s.metrics.Prediction("classify_leaf", "error")
		return nil, err
	}
	if len(boxes) == 0 {
		s.metrics.Prediction("classify_leaf", "no_leaf")
		return &entity.LeafDiagnosis{
			Filename:     filename,
			Disease:      entity.DiseaseNotApplicable,
			LeafDetected: false,
		}, nil
	}
	if s.classifier == nil {
		s.metrics.Prediction("classify_leaf", "error")
		return nil, ErrClassifierNotConfigured
	}

	start := time.Now()
	class, err := s.classifier.Classify(ctx, img)
	s.metrics.ObserveInference("classifier", time.Since(start))
	if err != nil {
		s.metrics.Prediction("classify_leaf", "error")
		return nil, fmt.Errorf("classify leaf: %w", err)
	}
	disease, err := entity.DiseaseLabel(class)
	if err != nil {
		s.metrics.Prediction("classify_leaf", "error")
		return nil, err
	}

	if disease != entity.DiseaseHealthy {
		if err := s.record(ctx, entity.EventLeafDisease, disease); err != nil {
			return nil, err
		}
	}

	s.metrics.Prediction("classify_leaf", "ok")
	return &entity.LeafDiagnosis{Filename: filename, Disease: disease, LeafDetected: true}, nil
}

// DetectWeed сообщает, нашёл ли детектор хотя бы одну рамку.
func (s *MonitoringService) DetectWeed(ctx context.Context, filename string, img image.Image) (*entity.WeedReport, error) {
	boxes, err := s.detect(ctx, img)
	if err != nil {
		s.metrics.Prediction("detect_weed", "error")
		return nil, err
	}

	detected := len(boxes) > 0
	if detected {
		if err := s.record(ctx, entity.EventWeed, entity.WeedDetectedResult); err != nil {
			return nil, err
		}
	}

	s.metrics.Prediction("detect_weed", "ok")
	return &entity.WeedReport{Filename: filename, WeedDetected: detected}, nil
}

// History возвращает последние n записей журнала.
func (s *MonitoringService) History(ctx context.Context, n int) ([]entity.HistoryRow, error) {
	return s.results.Tail(ctx, n)
}

// ExportHistory пишет весь журнал в w.
func (s *MonitoringService) ExportHistory(ctx context.Context, w io.Writer) error {
	return s.results.Export(ctx, w)
}

// ModelStatus: какие модели загружены.
type ModelStatus struct {
	Detector   bool `json:"detector"`
	Classifier bool `json:"classifier"`
	Fertility  bool `json:"fertility"`
}

// Models возвращает состояние моделей.
func (s *MonitoringService) Models() ModelStatus {
	return ModelStatus{
		Detector:   s.detector != nil,
		Classifier: s.classifier != nil,
		Fertility:  s.fertility != nil && s.fertility.Available(),
	}
}

func (s *MonitoringService) detect(ctx context.Context, img image.Image) ([]entity.Detection, error) {
	if s.detector == nil {
		return nil, ErrDetectorNotConfigured
	}
	start := time.Now()
	boxes, err := s.detector.Detect(ctx, img)
	s.metrics.ObserveInference("detector", time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("detect objects: %w", err)
	}
	return boxes, nil
}

// record пишет событие в журнал с моковыми координатами.
func (s *MonitoringService) record(ctx context.Context, event entity.EventType, result string) error {
	if s.results == nil {
		return nil
	}

	entry := entity.LogEntry{
		Timestamp: s.now(),
		Type:      event,
		Result:    result,
	}
	if s.locator != nil {
		c := s.locator.Locate()
		entry.Latitude, entry.Longitude = c.Latitude, c.Longitude
	}

	if err := s.results.Append(ctx, entry); err != nil {
		return fmt.Errorf("append result log: %w", err)
	}
	s.metrics.LogEntry(string(event))
	s.log.Info("result logged", zap.String("type", string(event)), zap.String("result", result))
	return nil
}
