package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())
	for _, key := range []string{"HTTP_ADDR", "API_URL", "MAX_FPS", "PROCESS_INTERVAL", "CORS_ORIGINS", "HISTORY_ROWS"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, ":8000", cfg.HTTPAddr)
	require.Equal(t, "http://127.0.0.1:8000", cfg.APIURL)
	require.Equal(t, 15, cfg.MaxFPS)
	require.Equal(t, 3*time.Second, cfg.ProcessInterval)
	require.Equal(t, 8, cfg.HistoryRows)
	require.Equal(t, []string{"*"}, cfg.CORSOrigins)
}

func TestLoad_Overrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("API_URL", "http://api:9000/")
	t.Setenv("PROCESS_INTERVAL", "1.5")
	t.Setenv("FERTILITY_TIMEOUT", "250ms")
	t.Setenv("MAX_FPS", "30")
	t.Setenv("CORS_ORIGINS", "http://a.local, http://b.local")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "http://api:9000", cfg.APIURL)
	require.Equal(t, 1500*time.Millisecond, cfg.ProcessInterval)
	require.Equal(t, 250*time.Millisecond, cfg.FertilityTimeout)
	require.Equal(t, 30, cfg.MaxFPS)
	require.Equal(t, []string{"http://a.local", "http://b.local"}, cfg.CORSOrigins)
}

func TestLoad_InvalidValues(t *testing.T) {
	chdir(t, t.TempDir())

	cases := map[string]string{
		"MAX_FPS":          "fast",
		"HISTORY_ROWS":     "0",
		"LEAF_TIMEOUT":     "soon",
		"PROCESS_INTERVAL": "-1s",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)
			_, err := Load()
			require.ErrorContains(t, err, key)
		})
	}
}

// chdir switches the working directory for the duration of the test
// (equivalent of testing.T.Chdir, unavailable before Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { require.NoError(t, os.Chdir(prev)) })
}
