package cli

import (
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"annadata/internal/api/rest"
	"annadata/internal/dashboard"
	"annadata/internal/infrastructure/vision"
	"annadata/internal/metrics"
)

var (
	dashboardAddr   string
	dashboardCamera string
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Run the operator dashboard that samples a field camera",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := setup()
		if err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()

		if cmd.Flags().Changed("addr") {
			cfg.DashboardAddr = dashboardAddr
		}

		gin.SetMode(gin.ReleaseMode)
		srv, err := dashboard.New(dashboard.Config{
			Sampler: dashboard.SamplerConfig{
				MaxFPS:          cfg.MaxFPS,
				ProcessInterval: cfg.ProcessInterval,
				FrameWidth:      cfg.FrameWidth,
				SnapshotPath:    cfg.FrameSnapshot,
			},
			Client: dashboard.ClientConfig{
				BaseURL:          cfg.APIURL,
				LeafTimeout:      cfg.LeafTimeout,
				WeedTimeout:      cfg.WeedTimeout,
				FertilityTimeout: cfg.FertilityTimeout,
			},
			ResultCSV:   cfg.ResultCSV,
			HistoryRows: cfg.HistoryRows,
		}, vision.OpenSource, metrics.New(), log)
		if err != nil {
			return err
		}
		if err := srv.Start(); err != nil {
			return err
		}
		defer srv.Close()

		if dashboardCamera != "" {
			if err := srv.StartMonitoring(dashboardCamera); err != nil {
				log.Warn("camera not started", zap.String("url", dashboardCamera), zap.Error(err))
			}
		}

		log.Info("dashboard ready", zap.String("api", cfg.APIURL))
		ctx, stop := signalContext()
		defer stop()
		return rest.Serve(ctx, cfg.DashboardAddr, srv.Handler(), log)
	},
}

func init() {
	dashboardCmd.Flags().StringVar(&dashboardAddr, "addr", ":8501", "listen address (overrides DASHBOARD_ADDR)")
	dashboardCmd.Flags().StringVar(&dashboardCamera, "camera", "", "start monitoring this camera URL right away")
}
