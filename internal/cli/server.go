package cli

import (
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"annadata/internal/api/rest"
	"annadata/internal/container"
)

var serverAddr string

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Run the inference HTTP service",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := setup()
		if err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()

		if cmd.Flags().Changed("addr") {
			cfg.HTTPAddr = serverAddr
		}

		gin.SetMode(gin.ReleaseMode)
		c := container.Build(cfg, log)
		defer func() {
			if err := c.Close(); err != nil {
				log.Warn("close models", zap.Error(err))
			}
		}()

		log.Info("models", zap.Any("status", c.MonitoringService.Models()),
			zap.String("result_log", c.Results.Path()))

		router := rest.NewRouter(rest.RouterConfig{
			CORSOrigins: cfg.CORSOrigins,
			HistoryRows: cfg.HistoryRows,
		}, c.MonitoringService, c.Metrics, log)

		ctx, stop := signalContext()
		defer stop()
		return rest.Serve(ctx, cfg.HTTPAddr, router, log)
	},
}

func init() {
	serverCmd.Flags().StringVar(&serverAddr, "addr", ":8000", "listen address (overrides HTTP_ADDR)")
}
