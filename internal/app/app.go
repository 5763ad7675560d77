package app

import (
	"context"
	stdhttp "net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/samy-vision/samy-bridge/internal/config"
	"github.com/samy-vision/samy-bridge/internal/core"
	"github.com/samy-vision/samy-bridge/internal/emotion"
	"github.com/samy-vision/samy-bridge/internal/log"
	"github.com/samy-vision/samy-bridge/internal/proto"
	"github.com/samy-vision/samy-bridge/internal/speech"
	transporthttp "github.com/samy-vision/samy-bridge/internal/transport/http"
	"github.com/samy-vision/samy-bridge/internal/watcher"
)

// App wires together the hub, transports, and optional file trigger.
type App struct {
	cfg             config.Config
	server          *stdhttp.Server
	shutdownTimeout time.Duration
	hub             *core.Hub
	speaker         speech.Speaker
	log             *zerolog.Logger
}

// New constructs the application with provided configuration.
func New(cfg config.Config, logger *zerolog.Logger) *App {
	var speaker speech.Speaker = speech.NopSpeaker{}
	if cfg.SpeechCommand != "" {
		cmdSpeaker := speech.NewCommandSpeaker(cfg.SpeechCommand, nil, cfg.SpeechTimeout, log.Component(logger, "speech"))
		if !cmdSpeaker.Available() {
			logger.Warn().Str("command", cfg.SpeechCommand).Msg("speech command not found on PATH; invocations will fail quietly")
		}
		speaker = cmdSpeaker
	} else {
		logger.Info().Msg("speech execution disabled")
	}

	hub := core.NewHub(core.Config{
		SpeakRate: cfg.SpeakRate,
		IdleFloor: cfg.IdleFloor,
	}, speaker, log.Component(logger, "hub"))

	server := transporthttp.NewServer(hub, cfg, log.Component(logger, "http"))

	return &App{
		cfg:             cfg,
		server:          server,
		shutdownTimeout: cfg.ShutdownTimeout,
		hub:             hub,
		speaker:         speaker,
		log:             logger,
	}
}

// Hub exposes the broadcast hub, mainly for tests.
func (a *App) Hub() *core.Hub {
	return a.hub
}

// Run starts the hub, the HTTP server, and the optional file trigger,
// and blocks until context cancellation or fatal error.
func (a *App) Run(ctx context.Context) error {
	go a.hub.Run(ctx)

	if a.cfg.WatchFile != "" {
		w, err := watcher.New(a.cfg.WatchFile, a.speakFromFile, log.Component(a.log, "watcher"))
		if err != nil {
			return err
		}
		defer w.Close()
	}

	serverErr := make(chan error, 1)
	go func() {
		if err := a.server.ListenAndServe(); err != nil && err != stdhttp.ErrServerClosed {
			serverErr <- err
			return
		}
		serverErr <- nil
	}()

	a.log.Info().Str("addr", a.cfg.Addr).Msg("relay listening")

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
		defer cancel()

		a.log.Info().Msg("shutting down http server")
		if err := a.server.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return <-serverErr
	}
}

// speakFromFile handles one trigger-file write: the text is classified,
// broadcast to viewers, and spoken aloud, mirroring the relay path.
func (a *App) speakFromFile(text string) {
	mood, intensity := emotion.Classify(text)
	a.hub.Broadcast(proto.Speak(text, mood, intensity))

	go func() {
		if err := a.speaker.Speak(context.Background(), text); err != nil {
			a.log.Error().Err(err).Msg("speech command failed")
		}
	}()
}
