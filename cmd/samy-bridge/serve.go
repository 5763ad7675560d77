package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/samy-vision/samy-bridge/internal/app"
)

const defaultWatchFile = "samy-input.txt"

var (
	flagAddr  string
	flagWatch bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the relay server",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, logger, err := loadConfig()
		if err != nil {
			return err
		}

		if flagAddr != "" {
			cfg.Addr = flagAddr
		}
		if flagWatch && cfg.WatchFile == "" {
			cfg.WatchFile = defaultWatchFile
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		application := app.New(cfg, logger)
		if err := application.Run(ctx); err != nil {
			logger.Error().Err(err).Msg("server exited with error")
			return err
		}
		logger.Info().Msg("server stopped")
		return nil
	},
}

func init() {
	serveCmd.Flags().StringVar(&flagAddr, "addr", "", "HTTP listen address (overrides config)")
	serveCmd.Flags().BoolVar(&flagWatch, "watch", false, "enable the file trigger even when watch_file is unset")
	rootCmd.AddCommand(serveCmd)
}
