package dashboard

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/image/draw"

	"annadata/internal/domain/port"
	"annadata/internal/metrics"
)

// ErrAlreadyStopped возвращается Stop, если мониторинг не идёт.
var ErrAlreadyStopped = errors.New("monitoring is not running")

// SamplerConfig: параметры чтения и обработки кадров.
type SamplerConfig struct {
	MaxFPS          int
	ProcessInterval time.Duration
	FrameWidth      int
	SnapshotPath    string
	JPEGQuality     int
}

// Sampler читает кадры камеры в фоне, публикует их в MJPEG и раз
// в ProcessInterval передаёт кадр воркеру инференса.
type Sampler struct {
	cfg      SamplerConfig
	open     port.FrameSourceOpener
	frames   *FrameBroadcaster
	state    *State
	analyzer *Analyzer
	metrics  *metrics.Metrics
	log      *zap.Logger
	now      func() time.Time

	mu      sync.Mutex
	session *session
}

type session struct {
	cancel context.CancelFunc
	done   chan struct{}
}

func NewSampler(cfg SamplerConfig, open port.FrameSourceOpener, frames *FrameBroadcaster,
	state *State, analyzer *Analyzer, m *metrics.Metrics, log *zap.Logger) *Sampler {
	if cfg.MaxFPS <= 0 {
		cfg.MaxFPS = 15
	}
	if cfg.ProcessInterval <= 0 {
		cfg.ProcessInterval = 3 * time.Second
	}
	if cfg.JPEGQuality <= 0 {
		cfg.JPEGQuality = 80
	}
	return &Sampler{
		cfg:      cfg,
		open:     open,
		frames:   frames,
		state:    state,
		analyzer: analyzer,
		metrics:  m,
		log:      log,
		now:      time.Now,
	}
}

// Start открывает камеру и запускает чтение кадров.
// Предыдущий сеанс останавливается. Ошибка открытия останавливает мониторинг с предупреждением.
func (s *Sampler) Start(url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopLocked()

	src, err := s.open(url)
	if err != nil {
		s.log.Warn("open camera", zap.String("url", url), zap.Error(err))
		s.state.StopMonitoring(WarnOpenStream)
		return fmt.Errorf("open camera: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	sess := &session{cancel: cancel, done: make(chan struct{})}
	s.session = sess

	s.state.StartMonitoring(url)
	s.log.Info("monitoring started", zap.String("url", url))

	jobs := make(chan []byte, 1)
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		s.read(ctx, src, jobs)
	}()
	go func() {
		defer wg.Done()
		s.infer(ctx, jobs)
	}()
	go func() {
		wg.Wait()
		if err := src.Close(); err != nil {
			s.log.Warn("close camera", zap.Error(err))
		}
		close(sess.done)
	}()

	return nil
}

// Stop останавливает мониторинг и ждёт завершения горутин.
func (s *Sampler) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session == nil {
		return ErrAlreadyStopped
	}
	s.stopLocked()
	s.state.StopMonitoring("")
	s.log.Info("monitoring stopped")
	return nil
}

func (s *Sampler) stopLocked() {
	if s.session == nil {
		return
	}
	s.session.cancel()
	<-s.session.done
	s.session = nil
}

// read читает кадры с частотой MaxFPS. Ошибка чтения завершает сеанс.
func (s *Sampler) read(ctx context.Context, src port.FrameSource, jobs chan<- []byte) {
	ticker := time.NewTicker(time.Second / time.Duration(s.cfg.MaxFPS))
	defer ticker.Stop()

	var lastProcessed time.Time
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		img, err := src.Read()
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			s.log.Warn("read frame", zap.Error(err))
			s.state.StopMonitoring(WarnStreamLost)
			s.detach(ctx)
			return
		}
		s.metrics.FrameRead()

		frame, err := EncodeFrame(img, s.cfg.FrameWidth, s.cfg.JPEGQuality)
		if err != nil {
			s.log.Warn("encode frame", zap.Error(err))
			continue
		}
		s.frames.Publish(frame)

		now := s.now()
		if now.Sub(lastProcessed) < s.cfg.ProcessInterval {
			continue
		}
		lastProcessed = now
		select {
		case jobs <- frame:
		default:
			s.metrics.FrameDropped()
		}
	}
}

// infer обрабатывает кадры по одному; кадр не ждёт в очереди дольше одного цикла.
func (s *Sampler) infer(ctx context.Context, jobs <-chan []byte) {
	for {
		select {
		case <-ctx.Done():
			return
		case frame := <-jobs:
			if s.cfg.SnapshotPath != "" {
				if err := writeSnapshot(s.cfg.SnapshotPath, frame); err != nil {
					s.log.Warn("write frame snapshot", zap.Error(err))
				}
			}
			labels := s.analyzer.Analyze(ctx, frame, s.state.Labels())
			if ctx.Err() != nil {
				return
			}
			s.state.SetLabels(labels, s.now())
		}
	}
}

// detach завершает сеанс изнутри после потери камеры.
func (s *Sampler) detach(ctx context.Context) {
	go func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.session != nil && ctx.Err() == nil {
			s.session.cancel()
			<-s.session.done
			s.session = nil
		}
	}()
}

// Running сообщает, идёт ли сеанс чтения.
func (s *Sampler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session != nil
}

// EncodeFrame уменьшает кадр до ширины maxWidth (если он шире) и кодирует в JPEG.
func EncodeFrame(img image.Image, maxWidth, quality int) ([]byte, error) {
	img = fitWidth(img, maxWidth)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

func fitWidth(img image.Image, maxWidth int) image.Image {
	b := img.Bounds()
	if maxWidth <= 0 || b.Dx() <= maxWidth {
		return img
	}
	h := b.Dy() * maxWidth / b.Dx()
	if h < 1 {
		h = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, maxWidth, h))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

// writeSnapshot атомарно заменяет файл последнего отправленного кадра.
func writeSnapshot(path string, frame []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, frame, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
