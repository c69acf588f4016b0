package dashboard

import (
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"annadata/internal/domain/entity"
	"annadata/internal/domain/port"
)

// fakeAPI поднимает сервис инференса с заданными ответами.
type fakeAPI struct {
	leafStatus   int
	leaf         entity.LeafDiagnosis
	weedStatus   int
	weed         entity.WeedReport
	fertStatus   int
	fertility    entity.FertilityResult
	leafCalls    atomic.Int32
	weedCalls    atomic.Int32
	lastSoil     entity.SoilSample
	lastSoilMu   sync.Mutex
	handlerDelay time.Duration
}

func (f *fakeAPI) server(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/classify_leaf/", func(w http.ResponseWriter, r *http.Request) {
		f.leafCalls.Add(1)
		time.Sleep(f.handlerDelay)
		if _, _, err := r.FormFile("file"); err != nil {
			w.WriteHeader(http.StatusUnprocessableEntity)
			return
		}
		writeStatusJSON(w, f.leafStatus, f.leaf)
	})
	mux.HandleFunc("/detect_weed/", func(w http.ResponseWriter, r *http.Request) {
		f.weedCalls.Add(1)
		writeStatusJSON(w, f.weedStatus, f.weed)
	})
	mux.HandleFunc("/predict_fertility/", func(w http.ResponseWriter, r *http.Request) {
		var s entity.SoilSample
		_ = json.NewDecoder(r.Body).Decode(&s)
		f.lastSoilMu.Lock()
		f.lastSoil = s
		f.lastSoilMu.Unlock()
		time.Sleep(f.handlerDelay)
		writeStatusJSON(w, f.fertStatus, f.fertility)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func writeStatusJSON(w http.ResponseWriter, status int, v any) {
	if status == 0 {
		status = http.StatusOK
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func solidImage(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{G: 160, A: 255})
		}
	}
	return img
}

// fakeSource отдаёт один и тот же кадр, пока не исчерпан лимит.
type fakeSource struct {
	img    image.Image
	limit  int32
	reads  atomic.Int32
	closed atomic.Bool
}

func (s *fakeSource) Read() (image.Image, error) {
	n := s.reads.Add(1)
	if s.limit > 0 && n > s.limit {
		return nil, errors.New("stream ended")
	}
	return s.img, nil
}

func (s *fakeSource) Close() error {
	s.closed.Store(true)
	return nil
}

func openerFor(src port.FrameSource) port.FrameSourceOpener {
	return func(string) (port.FrameSource, error) { return src, nil }
}

func failingOpener(string) (port.FrameSource, error) {
	return nil, errors.New("connection refused")
}
