package dashboard

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"annadata/internal/domain/entity"
	"annadata/internal/metrics"
)

func newTestClient(baseURL string) *Client {
	return NewClient(ClientConfig{
		BaseURL:          baseURL,
		LeafTimeout:      time.Second,
		WeedTimeout:      time.Second,
		FertilityTimeout: 200 * time.Millisecond,
	}, metrics.New())
}

func TestClient_ClassifyAndDetect(t *testing.T) {
	api := &fakeAPI{
		leaf: entity.LeafDiagnosis{Filename: "frame.jpg", Disease: "Blight", LeafDetected: true},
		weed: entity.WeedReport{Filename: "frame.jpg", WeedDetected: true},
	}
	c := newTestClient(api.server(t).URL)

	leaf, err := c.ClassifyLeaf(context.Background(), []byte("jpeg"))
	require.NoError(t, err)
	require.Equal(t, "Blight", leaf.Disease)
	require.True(t, leaf.LeafDetected)

	weed, err := c.DetectWeed(context.Background(), []byte("jpeg"))
	require.NoError(t, err)
	require.True(t, weed.WeedDetected)
}

func TestClient_BadStatus(t *testing.T) {
	api := &fakeAPI{leafStatus: http.StatusInternalServerError}
	c := newTestClient(api.server(t).URL)

	_, err := c.ClassifyLeaf(context.Background(), []byte("jpeg"))
	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	require.Equal(t, http.StatusInternalServerError, statusErr.Code)
}

func TestClient_PredictFertility(t *testing.T) {
	api := &fakeAPI{fertility: entity.FertilityResult{Status: "success", Fertility: "Low Fertility"}}
	c := newTestClient(api.server(t).URL)

	sample := entity.SoilSample{N: 150, P: 50, K: 200, PH: 7, EC: 0.5}
	res, err := c.PredictFertility(context.Background(), sample)
	require.NoError(t, err)
	require.Equal(t, "Low Fertility", res.Fertility)

	api.lastSoilMu.Lock()
	require.Equal(t, sample, api.lastSoil)
	api.lastSoilMu.Unlock()
}

func TestClient_FertilityTimeout(t *testing.T) {
	api := &fakeAPI{handlerDelay: time.Second}
	c := newTestClient(api.server(t).URL)

	res, err := c.PredictFertility(context.Background(), entity.DefaultSoilSample)
	require.Error(t, err)

	text, ok := FertilityMessage(res, err)
	require.False(t, ok)
	require.Contains(t, text, "Connection error: ")
}

func TestFertilityMessage(t *testing.T) {
	text, ok := FertilityMessage(&entity.FertilityResult{Fertility: "High Fertility"}, nil)
	require.True(t, ok)
	require.Equal(t, "High Fertility", text)

	text, ok = FertilityMessage(&entity.FertilityResult{}, nil)
	require.True(t, ok)
	require.Equal(t, "Error", text)

	text, ok = FertilityMessage(nil, &StatusError{Endpoint: "/predict_fertility/", Code: 503})
	require.False(t, ok)
	require.Equal(t, MsgFertilityBusy, text)

	text, ok = FertilityMessage(nil, errors.New("dial tcp: refused"))
	require.False(t, ok)
	require.Equal(t, "Connection error: dial tcp: refused", text)
}
