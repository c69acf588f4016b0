package container

import (
	"errors"
	"io"
	"time"

	"go.uber.org/zap"

	"annadata/config"
	app "annadata/internal/application"
	"annadata/internal/domain/port"
	"annadata/internal/infrastructure/fertility"
	"annadata/internal/infrastructure/geo"
	"annadata/internal/infrastructure/storage"
	"annadata/internal/infrastructure/vision"
	"annadata/internal/metrics"
)

type Container struct {
	UserService       *app.UserService
	MonitoringService *app.MonitoringService
	Results           *storage.CSVResultLog
	Metrics           *metrics.Metrics

	closers []io.Closer
}

// Models: загруженные модели; nil-поле означает, что модель недоступна.
type Models struct {
	Detector   port.ObjectDetector
	Classifier port.LeafClassifier
	Fertility  port.FertilityModel
}

func New(models Models, results *storage.CSVResultLog, locator port.Locator, m *metrics.Metrics, log *zap.Logger) *Container {
	monitoring := app.NewMonitoringService(app.MonitoringDeps{
		Detector:   models.Detector,
		Classifier: models.Classifier,
		Fertility:  models.Fertility,
		Results:    results,
		Locator:    locator,
		Metrics:    m,
		Logger:     log,
	})

	c := &Container{
		UserService:       app.NewUserService(storage.NewMemoryUserRepository()),
		MonitoringService: monitoring,
		Results:           results,
		Metrics:           m,
	}
	for _, model := range []any{models.Detector, models.Classifier} {
		if closer, ok := model.(io.Closer); ok {
			c.closers = append(c.closers, closer)
		}
	}
	return c
}

// Build загружает модели по путям из конфигурации и собирает сервисы.
// Ошибки загрузки не фатальны: соответствующие эндпоинты отвечают ошибкой.
func Build(cfg *config.Config, log *zap.Logger) *Container {
	var models Models

	if det, err := vision.NewYOLODetector(cfg.DetectorModel); err != nil {
		log.Warn("detector model not loaded", zap.String("path", cfg.DetectorModel), zap.Error(err))
	} else {
		models.Detector = det
	}

	if clf, err := vision.NewResNetClassifier(cfg.ClassifierModel); err != nil {
		log.Warn("classifier model not loaded", zap.String("path", cfg.ClassifierModel), zap.Error(err))
	} else {
		models.Classifier = clf
	}

	fert, err := fertility.LoadOrUnavailable(cfg.FertilityModel, cfg.FertilityScaler)
	if err != nil {
		log.Warn("fertility model not loaded",
			zap.String("model", cfg.FertilityModel),
			zap.String("scaler", cfg.FertilityScaler),
			zap.Error(err))
	}
	models.Fertility = fert

	results := storage.NewCSVResultLog(cfg.ResultCSV)
	locator := geo.NewMockLocator(time.Now().UnixNano())

	return New(models, results, locator, metrics.New(), log)
}

// Close освобождает загруженные сети.
func (c *Container) Close() error {
	var errs []error
	for _, closer := range c.closers {
		if err := closer.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
