package dashboard

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// idleFrameAfter: через сколько без кадров отдаётся заглушка.
const idleFrameAfter = 5 * time.Second

// placeholderJPEG рисует серый кадр «нет сигнала».
func placeholderJPEG() ([]byte, error) {
	img := image.NewRGBA(image.Rect(0, 0, 640, 360))
	fill := color.RGBA{R: 38, G: 50, B: 56, A: 255}
	for y := 0; y < 360; y++ {
		for x := 0; x < 640; x++ {
			img.SetRGBA(x, y, fill)
		}
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 70}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// streamMJPEG пишет кадры из канала как multipart/x-mixed-replace, пока клиент подключён.
func streamMJPEG(ctx context.Context, w http.ResponseWriter, frames <-chan []byte, log *zap.Logger) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	placeholder, err := placeholderJPEG()
	if err != nil {
		http.Error(w, "Failed to render frame", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "multipart/x-mixed-replace; boundary=frame")
	w.Header().Set("Cache-Control", "no-cache")

	idle := time.NewTimer(0)
	defer idle.Stop()

	for {
		var data []byte
		select {
		case <-ctx.Done():
			return
		case frame, ok := <-frames:
			if !ok {
				return
			}
			data = frame
		case <-idle.C:
			data = placeholder
		}
		idle.Reset(idleFrameAfter)

		if _, err := w.Write([]byte("--frame\r\nContent-Type: image/jpeg\r\n\r\n")); err != nil {
			log.Debug("mjpeg client disconnected", zap.Error(err))
			return
		}
		if _, err := w.Write(data); err != nil {
			log.Debug("mjpeg client disconnected", zap.Error(err))
			return
		}
		if _, err := w.Write([]byte("\r\n")); err != nil {
			log.Debug("mjpeg client disconnected", zap.Error(err))
			return
		}
		flusher.Flush()
	}
}
