package main

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/samy-vision/samy-bridge/internal/config"
	"github.com/samy-vision/samy-bridge/internal/log"
)

var (
	flagConfig   string
	flagLogLevel string
)

var rootCmd = &cobra.Command{
	Use:           "samy-bridge",
	Short:         "Real-time avatar presence relay",
	Long:          "samy-bridge relays avatar state events (speak, emotion, idle) to connected viewers and optionally pipes spoken text to a local text-to-speech command.",
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to config file")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "log level (debug, info, warn, error)")
}

// loadConfig resolves config and builds the logger, honoring the
// log-level flag over the file value.
func loadConfig() (config.Config, *zerolog.Logger, error) {
	bootstrap := log.New("info")

	cfg, path, err := config.Load(bootstrap, flagConfig)
	if err != nil {
		return cfg, bootstrap, err
	}

	if flagLogLevel != "" {
		cfg.LogLevel = flagLogLevel
	}

	logger := log.New(cfg.LogLevel)
	logger.Debug().Str("config", path).Msg("configuration loaded")
	return cfg, logger, nil
}
