// Package cli: команды annadata: сервис инференса, дашборд и бот.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"annadata/config"
	"annadata/internal/logger"
)

var rootCmd = &cobra.Command{
	Use:   "annadata",
	Short: "Agricultural field monitoring: soil fertility, leaf disease and weed detection",
	Long: `annadata runs the inference service, the operator dashboard that samples a
field camera, and a Telegram bot front end. All three share one result log.`,
	SilenceUsage: true,
}

// Execute запускает CLI.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(botCmd)
	rootCmd.AddCommand(dashboardCmd)
	rootCmd.AddCommand(serverCmd)
}

// setup читает конфигурацию и собирает логгер.
func setup() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	log, err := logger.New(logger.Config{Level: cfg.LogLevel, File: cfg.LogFile})
	if err != nil {
		return nil, nil, fmt.Errorf("init logger: %w", err)
	}
	return cfg, log, nil
}

// signalContext отменяется по SIGINT/SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
