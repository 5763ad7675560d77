package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/samy-vision/samy-bridge/internal/log"
	"github.com/samy-vision/samy-bridge/internal/speech"
)

var (
	flagDirect bool
	flagRelay  bool
	flagURL    string
)

var sayCmd = &cobra.Command{
	Use:   "say <text>...",
	Short: "Speak text via the relay, falling back to direct invocation",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig()
		if err != nil {
			return err
		}

		text := strings.TrimSpace(strings.Join(args, " "))
		if text == "" {
			return errors.New("empty text")
		}
		if flagDirect && flagRelay {
			return errors.New("--direct and --relay are mutually exclusive")
		}

		url := cfg.ControlURL
		if flagURL != "" {
			url = flagURL
		}

		direct := func() error {
			if cfg.SpeechCommand == "" {
				return errors.New("speech_command is not configured")
			}
			speaker := speech.NewCommandSpeaker(cfg.SpeechCommand, nil, cfg.SpeechTimeout, log.Component(logger, "speech"))
			return speaker.Speak(cmd.Context(), text)
		}

		if flagDirect {
			return direct()
		}

		err = sendToRelay(cmd.Context(), url, text)
		if err == nil {
			logger.Info().Str("url", url).Msg("sent to relay")
			return nil
		}
		if flagRelay {
			return fmt.Errorf("relay unreachable: %w", err)
		}

		logger.Warn().Err(err).Msg("relay unreachable, speaking directly")
		return direct()
	},
}

func init() {
	sayCmd.Flags().BoolVar(&flagDirect, "direct", false, "invoke the speech command directly, skipping the relay")
	sayCmd.Flags().BoolVar(&flagRelay, "relay", false, "require the relay; fail instead of falling back")
	sayCmd.Flags().StringVar(&flagURL, "url", "", "control-plane base URL (overrides config)")
	rootCmd.AddCommand(sayCmd)
}

// sendToRelay posts the text to the control-plane /speak endpoint.
func sendToRelay(ctx context.Context, baseURL, text string) error {
	body, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, strings.TrimRight(baseURL, "/")+"/speak", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("relay returned HTTP %d", resp.StatusCode)
	}
	return nil
}
