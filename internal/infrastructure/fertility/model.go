// Package fertility загружает модель плодородия почвы: стандартизатор
// признаков и логистическую регрессию, экспортированные в YAML.
package fertility

import (
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"annadata/internal/domain/port"
)

// ErrModelUnavailable возвращается моделью-заглушкой, если файлы не загрузились
var ErrModelUnavailable = errors.New("fertility model is not available")

// Scaler: параметры StandardScaler: x' = (x - mean) / scale.
type Scaler struct {
	Mean  []float64 `yaml:"mean"`
	Scale []float64 `yaml:"scale"`
}

// LogisticRegression: параметры обученной логистической регрессии.
type LogisticRegression struct {
	Classes   []int       `yaml:"classes"`
	Coef      [][]float64 `yaml:"coef"`
	Intercept []float64   `yaml:"intercept"`
}

// Model: готовая к предсказанию пара стандартизатор + регрессия
type Model struct {
	scaler Scaler
	clf    LogisticRegression
}

// New проверяет согласованность параметров и собирает модель
func New(scaler Scaler, clf LogisticRegression) (*Model, error) {
	n := len(scaler.Mean)
	if n == 0 {
		return nil, errors.New("scaler has no features")
	}
	if len(scaler.Scale) != n {
		return nil, fmt.Errorf("scaler scale has %d values, mean has %d", len(scaler.Scale), n)
	}
	if len(clf.Coef) == 0 {
		return nil, errors.New("classifier has no coefficients")
	}
	for i, row := range clf.Coef {
		if len(row) != n {
			return nil, fmt.Errorf("coef row %d has %d values, want %d", i, len(row), n)
		}
	}
	if len(clf.Intercept) != len(clf.Coef) {
		return nil, fmt.Errorf("intercept has %d values, want %d", len(clf.Intercept), len(clf.Coef))
	}

	// Бинарная регрессия хранит одну строку коэффициентов на два класса.
	wantClasses := len(clf.Coef)
	if wantClasses == 1 {
		wantClasses = 2
	}
	if len(clf.Classes) == 0 {
		clf.Classes = make([]int, wantClasses)
		for i := range clf.Classes {
			clf.Classes[i] = i
		}
	}
	if len(clf.Classes) != wantClasses {
		return nil, fmt.Errorf("classifier lists %d classes, want %d", len(clf.Classes), wantClasses)
	}

	return &Model{scaler: scaler, clf: clf}, nil
}

// Load читает модель и стандартизатор из YAML-файлов
func Load(modelPath, scalerPath string) (*Model, error) {
	var clf LogisticRegression
	if err := loadYAML(modelPath, &clf); err != nil {
		return nil, err
	}
	var scaler Scaler
	if err := loadYAML(scalerPath, &scaler); err != nil {
		return nil, err
	}
	return New(scaler, clf)
}

// LoadOrUnavailable загружает модель, а при ошибке возвращает заглушку.
// Отсутствие файлов не должно мешать старту сервиса.
func LoadOrUnavailable(modelPath, scalerPath string) (port.FertilityModel, error) {
	m, err := Load(modelPath, scalerPath)
	if err != nil {
		return Unavailable{Reason: err}, err
	}
	return m, nil
}

func loadYAML(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse YAML from %s: %w", path, err)
	}
	return nil
}

// Available всегда true для загруженной модели
func (m *Model) Available() bool { return true }

// Transform стандартизирует вектор признаков
func (m *Model) Transform(features []float64) ([]float64, error) {
	if len(features) != len(m.scaler.Mean) {
		return nil, fmt.Errorf("got %d features, model expects %d", len(features), len(m.scaler.Mean))
	}
	out := make([]float64, len(features))
	for i, v := range features {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("feature %d is not a finite number", i)
		}
		scale := m.scaler.Scale[i]
		if scale == 0 {
			scale = 1
		}
		out[i] = (v - m.scaler.Mean[i]) / scale
	}
	return out, nil
}

// DecisionFunction возвращает линейные оценки классов для стандартизированного вектора
func (m *Model) DecisionFunction(scaled []float64) []float64 {
	scores := make([]float64, len(m.clf.Coef))
	for c, row := range m.clf.Coef {
		s := m.clf.Intercept[c]
		for i, w := range row {
			s += w * scaled[i]
		}
		scores[c] = s
	}
	return scores
}

// Predict стандартизирует признаки и возвращает метку класса
func (m *Model) Predict(features []float64) (int, error) {
	scaled, err := m.Transform(features)
	if err != nil {
		return 0, err
	}
	scores := m.DecisionFunction(scaled)

	if len(scores) == 1 {
		if scores[0] > 0 {
			return m.clf.Classes[1], nil
		}
		return m.clf.Classes[0], nil
	}

	best := 0
	for i := 1; i < len(scores); i++ {
		if scores[i] > scores[best] {
			best = i
		}
	}
	return m.clf.Classes[best], nil
}

// Unavailable: модель-заглушка, когда файлы не загрузились при старте
type Unavailable struct {
	Reason error
}

// Available всегда false
func (Unavailable) Available() bool { return false }

// Predict всегда возвращает ErrModelUnavailable
func (u Unavailable) Predict([]float64) (int, error) {
	if u.Reason != nil {
		return 0, fmt.Errorf("%w: %v", ErrModelUnavailable, u.Reason)
	}
	return 0, ErrModelUnavailable
}

var (
	_ port.FertilityModel = (*Model)(nil)
	_ port.FertilityModel = Unavailable{}
)
