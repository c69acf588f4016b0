package dashboard

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"annadata/internal/domain/entity"
	"annadata/internal/metrics"
)

// Сообщения формы плодородия.
const (
	MsgFertilityBusy      = "Failed to get prediction. Server might be busy."
	msgConnectionErrorFmt = "Connection error: %v"
)

// ClientConfig: адрес сервиса инференса и таймауты вызовов.
type ClientConfig struct {
	BaseURL          string
	LeafTimeout      time.Duration
	WeedTimeout      time.Duration
	FertilityTimeout time.Duration
}

// Client ходит в сервис инференса по HTTP.
type Client struct {
	cfg     ClientConfig
	http    *http.Client
	metrics *metrics.Metrics
}

// NewClient создаёт клиента; таймауты задаются на каждый вызов через контекст.
func NewClient(cfg ClientConfig, m *metrics.Metrics) *Client {
	return &Client{cfg: cfg, http: &http.Client{}, metrics: m}
}

// StatusError: ответ сервиса с кодом, отличным от 200.
type StatusError struct {
	Endpoint string
	Code     int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: unexpected status %d", e.Endpoint, e.Code)
}

// ClassifyLeaf отправляет JPEG-кадр в /classify_leaf/.
func (c *Client) ClassifyLeaf(ctx context.Context, frame []byte) (*entity.LeafDiagnosis, error) {
	var out entity.LeafDiagnosis
	if err := c.upload(ctx, "/classify_leaf/", c.cfg.LeafTimeout, frame, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DetectWeed отправляет JPEG-кадр в /detect_weed/.
func (c *Client) DetectWeed(ctx context.Context, frame []byte) (*entity.WeedReport, error) {
	var out entity.WeedReport
	if err := c.upload(ctx, "/detect_weed/", c.cfg.WeedTimeout, frame, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// PredictFertility пересылает показания почвы в /predict_fertility/.
func (c *Client) PredictFertility(ctx context.Context, sample entity.SoilSample) (*entity.FertilityResult, error) {
	body, err := json.Marshal(sample)
	if err != nil {
		return nil, err
	}

	ctx, cancel := withTimeout(ctx, c.cfg.FertilityTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/predict_fertility/", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	var out entity.FertilityResult
	if err := c.do(req, "/predict_fertility/", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) upload(ctx context.Context, endpoint string, timeout time.Duration, frame []byte, out any) error {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", "frame.jpg")
	if err != nil {
		return err
	}
	if _, err := fw.Write(frame); err != nil {
		return err
	}
	if err := mw.Close(); err != nil {
		return err
	}

	ctx, cancel := withTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+endpoint, &body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return c.do(req, endpoint, out)
}

func (c *Client) do(req *http.Request, endpoint string, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		c.metrics.APICall(endpoint, "network_error")
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		c.metrics.APICall(endpoint, "bad_status")
		return &StatusError{Endpoint: endpoint, Code: resp.StatusCode}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		c.metrics.APICall(endpoint, "bad_body")
		return fmt.Errorf("%s: decode response: %w", endpoint, err)
	}
	c.metrics.APICall(endpoint, "ok")
	return nil
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

// FertilityMessage сводит ответ формы плодородия к одной строке.
// ok=false означает, что строку нужно показать как ошибку.
func FertilityMessage(res *entity.FertilityResult, err error) (text string, ok bool) {
	if err != nil {
		if _, isStatus := err.(*StatusError); isStatus {
			return MsgFertilityBusy, false
		}
		return fmt.Sprintf(msgConnectionErrorFmt, err), false
	}
	if res.Fertility == "" {
		return entity.FertilityError, true
	}
	return res.Fertility, true
}
