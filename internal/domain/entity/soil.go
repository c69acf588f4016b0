package entity

// SoilSample: показания почвенного датчика для одного запроса.
type SoilSample struct {
	N  float64 `json:"n"`
	P  float64 `json:"p"`
	K  float64 `json:"k"`
	PH float64 `json:"ph"`
	EC float64 `json:"ec"`
}

// Range: допустимый диапазон показаний датчика.
type Range struct {
	Min, Max float64
}

// Contains сообщает, лежит ли значение в диапазоне (границы включены).
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// Clamp прижимает значение к границам диапазона.
func (r Range) Clamp(v float64) float64 {
	if v < r.Min {
		return r.Min
	}
	if v > r.Max {
		return r.Max
	}
	return v
}

// Диапазоны датчиков, на которых обучалась модель плодородия.
var (
	NitrogenRange     = Range{Min: 6, Max: 383}
	PhosphorusRange   = Range{Min: 3, Max: 125}
	PotassiumRange    = Range{Min: 11, Max: 887}
	PHRange           = Range{Min: 1.0, Max: 12.0}
	ConductivityRange = Range{Min: 0.1, Max: 0.95}
)

// DefaultSoilSample: стартовые значения формы на дашборде.
var DefaultSoilSample = SoilSample{N: 150, P: 50, K: 200, PH: 7.0, EC: 0.5}

// Features возвращает вектор признаков в порядке n, p, k, ph, ec.
func (s SoilSample) Features() []float64 {
	return []float64{s.N, s.P, s.K, s.PH, s.EC}
}

// InRange проверяет все показания по документированным диапазонам.
func (s SoilSample) InRange() bool {
	return NitrogenRange.Contains(s.N) &&
		PhosphorusRange.Contains(s.P) &&
		PotassiumRange.Contains(s.K) &&
		PHRange.Contains(s.PH) &&
		ConductivityRange.Contains(s.EC)
}

// Clamped возвращает копию с показаниями, прижатыми к диапазонам.
func (s SoilSample) Clamped() SoilSample {
	return SoilSample{
		N:  NitrogenRange.Clamp(s.N),
		P:  PhosphorusRange.Clamp(s.P),
		K:  PotassiumRange.Clamp(s.K),
		PH: PHRange.Clamp(s.PH),
		EC: ConductivityRange.Clamp(s.EC),
	}
}
