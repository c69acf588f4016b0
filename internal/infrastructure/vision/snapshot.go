package vision

import (
	"context"
	"fmt"
	"image"
	"io"
	"net/http"
	"strings"
	"time"

	"annadata/internal/domain/port"
)

// maxSnapshotBytes ограничивает размер одного снимка с камеры.
const maxSnapshotBytes = 16 << 20

// SnapshotSource опрашивает камеру, отдающую одиночные JPEG по HTTP
// (например, /shot.jpg у приложения IP Webcam).
type SnapshotSource struct {
	url    string
	client *http.Client
}

// NewSnapshotSource создаёт источник снимков с таймаутом на запрос.
func NewSnapshotSource(url string, timeout time.Duration) *SnapshotSource {
	return &SnapshotSource{url: url, client: &http.Client{Timeout: timeout}}
}

// Read скачивает и декодирует очередной снимок.
func (s *SnapshotSource) Read() (image.Image, error) {
	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, s.url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch snapshot: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch snapshot: unexpected status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxSnapshotBytes))
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	img, _, err := DecodeImage(data)
	return img, err
}

// Close ничего не держит.
func (s *SnapshotSource) Close() error { return nil }

// IsSnapshotURL сообщает, указывает ли URL на одиночный снимок.
func IsSnapshotURL(url string) bool {
	u := strings.ToLower(url)
	if i := strings.IndexAny(u, "?#"); i >= 0 {
		u = u[:i]
	}
	return (strings.HasPrefix(u, "http://") || strings.HasPrefix(u, "https://")) &&
		(strings.HasSuffix(u, ".jpg") || strings.HasSuffix(u, ".jpeg"))
}

// OpenSource выбирает источник по URL: снимки по HTTP или поток OpenCV.
// Пробный кадр читается сразу, чтобы недоступная камера обнаружилась при старте.
func OpenSource(url string) (port.FrameSource, error) {
	if IsSnapshotURL(url) {
		src := NewSnapshotSource(url, 3*time.Second)
		if _, err := src.Read(); err != nil {
			return nil, err
		}
		return src, nil
	}
	return OpenCapture(url)
}

var _ port.FrameSource = (*SnapshotSource)(nil)
var _ port.FrameSourceOpener = OpenSource
