// Package dashboard: веб-дашборд оператора: живой кадр с камеры,
// статусы листа и сорняков, история журнала и форма плодородия.
package dashboard

import (
	"bytes"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"annadata/internal/api/rest"
	"annadata/internal/domain/entity"
	"annadata/internal/domain/port"
	"annadata/internal/infrastructure/storage"
	"annadata/internal/metrics"
)

// Config: параметры дашборда.
type Config struct {
	Sampler     SamplerConfig
	Client      ClientConfig
	ResultCSV   string
	HistoryRows int
}

// Server собирает состояние, семплер, историю и HTTP-маршруты.
type Server struct {
	cfg     Config
	state   *State
	frames  *FrameBroadcaster
	sampler *Sampler
	client  *Client
	hub     *Hub
	history *HistoryWatcher
	results *storage.CSVResultLog
	metrics *metrics.Metrics
	log     *zap.Logger
}

// New создаёт дашборд; open открывает источник кадров по URL камеры.
func New(cfg Config, open port.FrameSourceOpener, m *metrics.Metrics, log *zap.Logger) (*Server, error) {
	if cfg.HistoryRows <= 0 {
		cfg.HistoryRows = 8
	}

	s := &Server{
		cfg:     cfg,
		frames:  NewFrameBroadcaster(),
		client:  NewClient(cfg.Client, m),
		results: storage.NewCSVResultLog(cfg.ResultCSV),
		metrics: m,
		log:     log,
	}
	s.state = NewState(nil)
	s.hub = NewHub(s.state, log)
	s.state.SetOnChange(s.hub.Broadcast)

	analyzer := NewAnalyzer(s.client, log)
	s.sampler = NewSampler(cfg.Sampler, open, s.frames, s.state, analyzer, m, log)

	history, err := NewHistoryWatcher(s.results, cfg.ResultCSV, cfg.HistoryRows, s.state.SetHistory, log)
	if err != nil {
		return nil, err
	}
	s.history = history
	return s, nil
}

// Start запускает наблюдение за журналом.
func (s *Server) Start() error {
	return s.history.Start()
}

// Close останавливает семплер и наблюдатель.
func (s *Server) Close() {
	_ = s.sampler.Stop()
	s.history.Stop()
}

// State возвращает ячейку состояния.
func (s *Server) State() *State { return s.state }

// Handler возвращает маршруты дашборда.
func (s *Server) Handler() http.Handler {
	r := gin.New()
	r.Use(rest.RequestID(), rest.Logger(s.log), rest.Recovery(s.log))

	r.GET("/", s.handleIndex)
	r.GET("/stream", s.handleStream)
	r.GET("/ws", gin.WrapF(s.hub.ServeWS))

	api := r.Group("/api")
	api.GET("/status", s.handleStatus)
	api.POST("/monitor/start", s.handleMonitorStart)
	api.POST("/monitor/stop", s.handleMonitorStop)
	api.POST("/fertility", s.handleFertility)
	api.GET("/history", s.handleHistory)
	api.GET("/history/download", s.handleHistoryDownload)

	if s.metrics != nil {
		r.GET("/metrics", gin.WrapH(s.metrics.Handler()))
	}
	return r
}

func (s *Server) handleIndex(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(indexHTML))
}

func (s *Server) handleStream(c *gin.Context) {
	id, frames := s.frames.Subscribe()
	defer s.frames.Unsubscribe(id)
	streamMJPEG(c.Request.Context(), c.Writer, frames, s.log)
}

func (s *Server) handleStatus(c *gin.Context) {
	c.JSON(http.StatusOK, s.state.Snapshot())
}

type monitorStartRequest struct {
	URL string `json:"url" binding:"required"`
}

func (s *Server) handleMonitorStart(c *gin.Context) {
	var req monitorStartRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.URL) == "" {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": "url is required"})
		return
	}

	if err := s.sampler.Start(strings.TrimSpace(req.URL)); err != nil {
		c.JSON(http.StatusBadGateway, s.state.Snapshot())
		return
	}
	c.JSON(http.StatusOK, s.state.Snapshot())
}

func (s *Server) handleMonitorStop(c *gin.Context) {
	if err := s.sampler.Stop(); err != nil && !errors.Is(err, ErrAlreadyStopped) {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}
	c.JSON(http.StatusOK, s.state.Snapshot())
}

// handleFertility зажимает показания в диапазоны датчиков и пересылает в сервис.
func (s *Server) handleFertility(c *gin.Context) {
	var sample entity.SoilSample
	if err := c.ShouldBindJSON(&sample); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
		return
	}

	res, err := s.client.PredictFertility(c.Request.Context(), sample.Clamped())
	text, ok := FertilityMessage(res, err)
	if !ok {
		s.log.Warn("fertility request failed", zap.Error(err))
		c.JSON(http.StatusOK, gin.H{"error": text})
		return
	}

	s.state.SetFertility(text)
	c.JSON(http.StatusOK, gin.H{"fertility": text, "tone": ToneOf(text)})
}

func (s *Server) handleHistory(c *gin.Context) {
	c.JSON(http.StatusOK, s.state.Snapshot().History)
}

func (s *Server) handleHistoryDownload(c *gin.Context) {
	var buf bytes.Buffer
	err := s.results.Export(c.Request.Context(), &buf)
	if errors.Is(err, storage.ErrLogNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"detail": "no results recorded yet"})
		return
	}
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+rest.DownloadFilename)
	c.Data(http.StatusOK, "text/csv", buf.Bytes())
}

// StartMonitoring запускает чтение камеры url.
func (s *Server) StartMonitoring(url string) error {
	return s.sampler.Start(url)
}
