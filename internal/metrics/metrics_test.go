package metrics

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMetrics_Exposition(t *testing.T) {
	m := New()
	m.Prediction("classify_leaf", "ok")
	m.ObserveInference("detector", 20*time.Millisecond)
	m.LogEntry("Weed")
	m.FrameRead()
	m.FrameDropped()
	m.APICall("classify_leaf", "error")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)

	text := string(body)
	require.Contains(t, text, `annadata_predictions_total{operation="classify_leaf",outcome="ok"} 1`)
	require.Contains(t, text, `annadata_result_log_entries_total{type="Weed"} 1`)
	require.Contains(t, text, "annadata_inference_seconds_bucket")
	require.Contains(t, text, "annadata_dashboard_frames_read_total 1")
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	m.Prediction("x", "y")
	m.ObserveInference("x", time.Second)
	m.LogEntry("x")
	m.FrameRead()
	m.FrameDropped()
	m.APICall("x", "y")
}
