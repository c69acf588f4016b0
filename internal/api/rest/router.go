// Package rest: HTTP-интерфейс сервиса инференса на gin.
package rest

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"annadata/internal/metrics"
)

// RouterConfig: параметры роутера.
type RouterConfig struct {
	CORSOrigins []string
	HistoryRows int
}

// NewRouter регистрирует маршруты сервиса.
func NewRouter(cfg RouterConfig, monitor Monitor, m *metrics.Metrics, log *zap.Logger) *gin.Engine {
	r := gin.New()
	r.MaxMultipartMemory = maxUploadBytes
	r.Use(RequestID(), Logger(log), Recovery(log), cors.New(corsConfig(cfg.CORSOrigins)))

	historyRows := cfg.HistoryRows
	if historyRows <= 0 {
		historyRows = 8
	}
	h := &handlers{monitor: monitor, historyRows: historyRows, log: log}

	r.GET("/", h.root)
	r.POST("/predict_fertility/", h.predictFertility)
	r.POST("/classify_leaf/", h.classifyLeaf)
	r.POST("/detect_weed/", h.detectWeed)
	r.GET("/history/", h.history)
	r.GET("/history/download/", h.downloadHistory)
	r.GET("/healthz", h.healthz)
	if m != nil {
		r.GET("/metrics", gin.WrapH(m.Handler()))
	}

	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	cfg.AllowHeaders = []string{"Origin", "Content-Type", RequestIDHeader}
	cfg.ExposeHeaders = []string{RequestIDHeader, "Content-Disposition"}

	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}
