package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config: настройки всех трёх процессов: сервиса, дашборда и бота.
type Config struct {
	HTTPAddr      string
	DashboardAddr string
	APIURL        string

	ResultCSV       string
	FrameSnapshot   string
	DetectorModel   string
	ClassifierModel string
	FertilityModel  string
	FertilityScaler string

	MaxFPS           int
	ProcessInterval  time.Duration
	FrameWidth       int
	LeafTimeout      time.Duration
	WeedTimeout      time.Duration
	FertilityTimeout time.Duration
	HistoryRows      int

	TelegramToken string

	LogLevel    string
	LogFile     string
	CORSOrigins []string
}

func Load() (*Config, error) {
	// Загружаем .env файл (игнорируем ошибку если файла нет)
	_ = godotenv.Load()

	r := envReader{}
	cfg := &Config{
		HTTPAddr:      r.str("HTTP_ADDR", ":8000"),
		DashboardAddr: r.str("DASHBOARD_ADDR", ":8501"),
		APIURL:        strings.TrimRight(r.str("API_URL", "http://127.0.0.1:8000"), "/"),

		ResultCSV:       r.str("RESULT_CSV", "results/result.csv"),
		FrameSnapshot:   r.str("FRAME_SNAPSHOT", "results/temp_frame.jpg"),
		DetectorModel:   r.str("DETECTOR_MODEL", "models/weed.onnx"),
		ClassifierModel: r.str("CLASSIFIER_MODEL", "models/leaf_resnet.onnx"),
		FertilityModel:  r.str("FERTILITY_MODEL", "models/fertility_model.yaml"),
		FertilityScaler: r.str("FERTILITY_SCALER", "models/fertility_scaler.yaml"),

		MaxFPS:           r.positiveInt("MAX_FPS", 15),
		ProcessInterval:  r.duration("PROCESS_INTERVAL", 3*time.Second),
		FrameWidth:       r.positiveInt("FRAME_WIDTH", 900),
		LeafTimeout:      r.duration("LEAF_TIMEOUT", 3*time.Second),
		WeedTimeout:      r.duration("WEED_TIMEOUT", 3*time.Second),
		FertilityTimeout: r.duration("FERTILITY_TIMEOUT", 5*time.Second),
		HistoryRows:      r.positiveInt("HISTORY_ROWS", 8),

		TelegramToken: os.Getenv("TELEGRAM_TOKEN"),

		LogLevel:    r.str("LOG_LEVEL", "info"),
		LogFile:     os.Getenv("LOG_FILE"),
		CORSOrigins: splitList(r.str("CORS_ORIGINS", "*")),
	}

	if r.err != nil {
		return nil, r.err
	}
	return cfg, nil
}

// envReader читает переменные окружения и запоминает первую ошибку разбора.
type envReader struct {
	err error
}

func (r *envReader) str(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return def
}

func (r *envReader) positiveInt(key string, def int) int {
	raw, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(raw) == "" {
		return def
	}
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err == nil && v <= 0 {
		err = fmt.Errorf("must be positive")
	}
	if err != nil {
		r.fail(fmt.Errorf("config: %s=%q: %w", key, raw, err))
		return def
	}
	return v
}

// duration принимает как "3s", так и число секунд ("3", "0.5").
func (r *envReader) duration(key string, def time.Duration) time.Duration {
	raw, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(raw) == "" {
		return def
	}
	raw = strings.TrimSpace(raw)

	d, err := time.ParseDuration(raw)
	if err != nil {
		secs, ferr := strconv.ParseFloat(raw, 64)
		if ferr != nil {
			r.fail(fmt.Errorf("config: %s=%q: %w", key, raw, err))
			return def
		}
		d = time.Duration(secs * float64(time.Second))
	}
	if d <= 0 {
		r.fail(fmt.Errorf("config: %s=%q: must be positive", key, raw))
		return def
	}
	return d
}

func (r *envReader) fail(err error) {
	if r.err == nil {
		r.err = err
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
