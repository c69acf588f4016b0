package container

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"annadata/config"
	"annadata/internal/domain/entity"
)

func TestBuild_MissingFertilityFilesDegrades(t *testing.T) {
	dir := t.TempDir()
	cfg := &config.Config{
		ResultCSV:       filepath.Join(dir, "result.csv"),
		DetectorModel:   filepath.Join(dir, "weed.onnx"),
		ClassifierModel: filepath.Join(dir, "leaf.onnx"),
		FertilityModel:  filepath.Join(dir, "missing_model.yaml"),
		FertilityScaler: filepath.Join(dir, "missing_scaler.yaml"),
	}

	c := Build(cfg, zap.NewNop())
	t.Cleanup(func() { _ = c.Close() })

	got := c.MonitoringService.PredictFertility(context.Background(), entity.DefaultSoilSample)
	require.Equal(t, entity.StatusError, got.Status)
	require.Equal(t, entity.FertilityModelNotAvailable, got.Fertility)
	require.False(t, c.MonitoringService.Models().Fertility)
	require.Equal(t, cfg.ResultCSV, c.Results.Path())

	user, err := c.UserService.BeginCheck(context.Background(), 1, 1)
	require.NoError(t, err)
	require.Equal(t, entity.StateAwaitingPhoto, user.State)
}
