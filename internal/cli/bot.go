package cli

import (
	"errors"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"annadata/internal/api/telegram"
	"annadata/internal/container"
)

var botCmd = &cobra.Command{
	Use:   "bot",
	Short: "Run the Telegram bot front end",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := setup()
		if err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()

		if cfg.TelegramToken == "" {
			return errors.New("TELEGRAM_TOKEN is required")
		}

		c := container.Build(cfg, log)
		defer func() {
			if err := c.Close(); err != nil {
				log.Warn("close models", zap.Error(err))
			}
		}()

		bot, err := telegram.NewBot(cfg.TelegramToken, c, cfg.HistoryRows, log)
		if err != nil {
			return err
		}

		ctx, stop := signalContext()
		defer stop()

		log.Info("bot is running")
		return bot.Run(ctx)
	},
}
