//go:build gocv
// +build gocv

package vision

import (
	"errors"
	"fmt"
	"image"
	"sync"

	"gocv.io/x/gocv"

	"annadata/internal/domain/port"
)

// ErrStreamEnded возвращается, когда камера перестала отдавать кадры.
var ErrStreamEnded = errors.New("video stream ended")

// Capture: источник кадров OpenCV VideoCapture (RTSP, HTTP-поток, файл).
type Capture struct {
	mu  sync.Mutex
	cap *gocv.VideoCapture
	buf gocv.Mat
}

// OpenCapture открывает поток камеры по URL.
func OpenCapture(url string) (port.FrameSource, error) {
	vc, err := gocv.VideoCaptureFile(url)
	if err != nil {
		return nil, fmt.Errorf("open video stream: %w", err)
	}
	if !vc.IsOpened() {
		vc.Close()
		return nil, fmt.Errorf("open video stream %s: not opened", url)
	}
	// Минимальный буфер, чтобы не отставать от живой картинки.
	vc.Set(gocv.VideoCaptureBufferSize, 1)
	return &Capture{cap: vc, buf: gocv.NewMat()}, nil
}

// Read читает следующий кадр и конвертирует его в image.Image.
func (c *Capture) Read() (image.Image, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ok := c.cap.Read(&c.buf); !ok || c.buf.Empty() {
		return nil, ErrStreamEnded
	}
	img, err := c.buf.ToImage()
	if err != nil {
		return nil, fmt.Errorf("convert frame: %w", err)
	}
	return img, nil
}

// Close закрывает поток.
func (c *Capture) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.buf.Close()
	return c.cap.Close()
}

var _ port.FrameSource = (*Capture)(nil)
