package rest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	app "annadata/internal/application"
	"annadata/internal/domain/entity"
	"annadata/internal/infrastructure/storage"
	"annadata/internal/infrastructure/vision"
)

const welcomeMessage = "Welcome to the Agricultural Monitoring API"

// DownloadFilename: имя файла при выгрузке журнала.
const DownloadFilename = "analysis_results.csv"

// maxUploadBytes ограничивает размер загружаемого изображения.
const maxUploadBytes = 32 << 20

// Monitor: операции сервиса мониторинга, нужные обработчикам.
type Monitor interface {
	PredictFertility(ctx context.Context, sample entity.SoilSample) entity.FertilityResult
	ClassifyLeaf(ctx context.Context, filename string, img image.Image) (*entity.LeafDiagnosis, error)
	DetectWeed(ctx context.Context, filename string, img image.Image) (*entity.WeedReport, error)
	History(ctx context.Context, n int) ([]entity.HistoryRow, error)
	ExportHistory(ctx context.Context, w io.Writer) error
	Models() app.ModelStatus
}

var _ Monitor = (*app.MonitoringService)(nil)

// soilRequest: тело /predict_fertility/; указатели отличают ноль от пропуска.
type soilRequest struct {
	N  *float64 `json:"n" binding:"required"`
	P  *float64 `json:"p" binding:"required"`
	K  *float64 `json:"k" binding:"required"`
	PH *float64 `json:"ph" binding:"required"`
	EC *float64 `json:"ec" binding:"required"`
}

func (r soilRequest) sample() entity.SoilSample {
	return entity.SoilSample{N: *r.N, P: *r.P, K: *r.K, PH: *r.PH, EC: *r.EC}
}

type handlers struct {
	monitor     Monitor
	historyRows int
	log         *zap.Logger
}

func (h *handlers) root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": welcomeMessage})
}

func (h *handlers) predictFertility(c *gin.Context) {
	var req soilRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
		return
	}
	c.JSON(http.StatusOK, h.monitor.PredictFertility(c.Request.Context(), req.sample()))
}

func (h *handlers) classifyLeaf(c *gin.Context) {
	filename, img, ok := h.readImage(c)
	if !ok {
		return
	}
	res, err := h.monitor.ClassifyLeaf(c.Request.Context(), filename, img)
	if err != nil {
		h.fail(c, fmt.Errorf("classify leaf: %w", err))
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *handlers) detectWeed(c *gin.Context) {
	filename, img, ok := h.readImage(c)
	if !ok {
		return
	}
	res, err := h.monitor.DetectWeed(c.Request.Context(), filename, img)
	if err != nil {
		h.fail(c, fmt.Errorf("detect weed: %w", err))
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *handlers) history(c *gin.Context) {
	limit := h.historyRows
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": "limit must be a positive integer"})
			return
		}
		limit = n
	}

	rows, err := h.monitor.History(c.Request.Context(), limit)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (h *handlers) downloadHistory(c *gin.Context) {
	var buf bytes.Buffer
	err := h.monitor.ExportHistory(c.Request.Context(), &buf)
	if errors.Is(err, storage.ErrLogNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"detail": "no results recorded yet"})
		return
	}
	if err != nil {
		h.fail(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+DownloadFilename)
	c.Data(http.StatusOK, "text/csv", buf.Bytes())
}

func (h *handlers) healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "models": h.monitor.Models()})
}

// readImage достаёт поле file и декодирует изображение.
// Нет поля: 422, не картинка, 400.
func (h *handlers) readImage(c *gin.Context) (string, image.Image, bool) {
	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": "field 'file' is required"})
		return "", nil, false
	}

	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return "", nil, false
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxUploadBytes))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return "", nil, false
	}

	img, _, err := vision.DecodeImage(data)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return "", nil, false
	}
	return fh.Filename, img, true
}

func (h *handlers) fail(c *gin.Context, err error) {
	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
}
