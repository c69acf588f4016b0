// Package metrics держит Prometheus-метрики сервиса и дашборда.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics: набор коллекторов со своим реестром.
// Все методы допускают nil-получатель, чтобы тесты могли обходиться без метрик.
type Metrics struct {
	registry *prometheus.Registry

	predictions *prometheus.CounterVec
	inference   *prometheus.HistogramVec
	logEntries  *prometheus.CounterVec

	framesRead    prometheus.Counter
	framesDropped prometheus.Counter
	apiCalls      *prometheus.CounterVec
}

// New создаёт реестр и регистрирует все коллекторы.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		predictions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "annadata_predictions_total",
			Help: "Predictions served, by operation and outcome",
		}, []string{"operation", "outcome"}),
		inference: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "annadata_inference_seconds",
			Help:    "Model forward pass latency",
			Buckets: prometheus.ExponentialBuckets(0.005, 2, 12),
		}, []string{"model"}),
		logEntries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "annadata_result_log_entries_total",
			Help: "Entries appended to the result log, by event type",
		}, []string{"type"}),
		framesRead: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "annadata_dashboard_frames_read_total",
			Help: "Frames read from the camera",
		}),
		framesDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "annadata_dashboard_frames_dropped_total",
			Help: "Sampled frames skipped because inference was still running",
		}),
		apiCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "annadata_dashboard_api_calls_total",
			Help: "Calls from the dashboard to the inference service",
		}, []string{"endpoint", "outcome"}),
	}

	m.registry.MustRegister(
		m.predictions,
		m.inference,
		m.logEntries,
		m.framesRead,
		m.framesDropped,
		m.apiCalls,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Prediction учитывает результат операции предсказания.
func (m *Metrics) Prediction(operation, outcome string) {
	if m == nil {
		return
	}
	m.predictions.WithLabelValues(operation, outcome).Inc()
}

// ObserveInference записывает время прогона модели.
func (m *Metrics) ObserveInference(model string, d time.Duration) {
	if m == nil {
		return
	}
	m.inference.WithLabelValues(model).Observe(d.Seconds())
}

// LogEntry учитывает запись в журнал результатов.
func (m *Metrics) LogEntry(eventType string) {
	if m == nil {
		return
	}
	m.logEntries.WithLabelValues(eventType).Inc()
}

// FrameRead учитывает прочитанный кадр.
func (m *Metrics) FrameRead() {
	if m == nil {
		return
	}
	m.framesRead.Inc()
}

// FrameDropped учитывает кадр, пропущенный из-за занятого инференса.
func (m *Metrics) FrameDropped() {
	if m == nil {
		return
	}
	m.framesDropped.Inc()
}

// APICall учитывает обращение дашборда к сервису.
func (m *Metrics) APICall(endpoint, outcome string) {
	if m == nil {
		return
	}
	m.apiCalls.WithLabelValues(endpoint, outcome).Inc()
}

// Handler возвращает HTTP-обработчик /metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
