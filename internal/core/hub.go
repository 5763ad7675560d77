package core

import (
	"context"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/samy-vision/samy-bridge/internal/proto"
	"github.com/samy-vision/samy-bridge/internal/speech"
)

// Default auto-idle timing: the avatar returns to rest after roughly
// the time it takes to speak the text, never sooner than the floor.
const (
	DefaultSpeakRate = 50 * time.Millisecond
	DefaultIdleFloor = time.Second
)

// Config tunes the hub's auto-idle timing.
type Config struct {
	// SpeakRate is the per-rune speaking duration used to size the
	// auto-idle delay.
	SpeakRate time.Duration
	// IdleFloor is the minimum auto-idle delay on every speak path.
	IdleFloor time.Duration
}

// Hub fans relay events out to every connected client and owns the
// live client set. All mutation flows through the Run loop, so the
// set is never touched from two goroutines.
type Hub struct {
	register   chan *Client
	unregister chan *Client
	broadcasts chan *proto.Message

	speaker speech.Speaker
	log     *zerolog.Logger

	speakRate time.Duration
	idleFloor time.Duration

	done chan struct{}
}

// NewHub creates a hub. A nil speaker disables speech execution.
func NewHub(cfg Config, speaker speech.Speaker, logger *zerolog.Logger) *Hub {
	if cfg.SpeakRate <= 0 {
		cfg.SpeakRate = DefaultSpeakRate
	}
	if cfg.IdleFloor <= 0 {
		cfg.IdleFloor = DefaultIdleFloor
	}
	if speaker == nil {
		speaker = speech.NopSpeaker{}
	}
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcasts: make(chan *proto.Message, 32),
		speaker:    speaker,
		log:        logger,
		speakRate:  cfg.SpeakRate,
		idleFloor:  cfg.IdleFloor,
		done:       make(chan struct{}),
	}
}

// Run processes registrations and broadcasts until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	clients := make(map[*Client]struct{})

	for {
		select {
		case <-ctx.Done():
			return
		case c := <-h.register:
			clients[c] = struct{}{}
			// Initial state so a fresh viewer renders something
			// before the first broadcast. Best-effort.
			deliver(c, proto.IdleWithMood(proto.MoodCalm))
			h.log.Info().Str("client_id", c.ID).Int("clients", len(clients)).Msg("client connected")
		case c := <-h.unregister:
			if _, ok := clients[c]; !ok {
				continue
			}
			delete(clients, c)
			h.log.Info().Str("client_id", c.ID).Int("clients", len(clients)).Msg("client disconnected")
		case msg := <-h.broadcasts:
			for c := range clients {
				deliver(c, msg)
			}
			if msg.IsSpeak() {
				h.scheduleIdle(msg.Text)
			}
		}
	}
}

// deliver queues an event for one client without blocking the loop.
// A slow client loses the event, not its connection.
func deliver(c *Client, msg *proto.Message) {
	select {
	case c.Events <- msg:
	default:
	}
}

// RegisterClient adds a client to the live set.
func (h *Hub) RegisterClient(c *Client) {
	select {
	case h.register <- c:
	case <-h.done:
	}
}

// UnregisterClient removes a client. Unregistering a client that was
// already removed is a no-op.
func (h *Hub) UnregisterClient(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// Broadcast queues an event for delivery to every live client,
// including the client it originated from. Safe to call from any
// goroutine; a no-op once the hub has stopped.
func (h *Hub) Broadcast(msg *proto.Message) {
	select {
	case h.broadcasts <- msg:
	case <-h.done:
	}
}

// HandleClientMessage relays a raw payload received from a client.
// Malformed payloads are logged and discarded; the connection stays
// open. A speak event with non-empty text additionally fires the
// speech side effect, decoupled from delivery.
func (h *Hub) HandleClientMessage(c *Client, raw []byte) {
	msg, err := proto.Decode(raw)
	if err != nil {
		h.log.Warn().Err(err).Str("client_id", c.ID).Msg("discarding malformed message")
		return
	}

	if msg.IsSpeak() && msg.Text != "" {
		h.speakAsync(msg.Text)
	}

	h.Broadcast(msg)
}

// speakAsync runs the speech command in the background. Failures are
// logged and surfaced nowhere else.
func (h *Hub) speakAsync(text string) {
	go func() {
		if err := h.speaker.Speak(context.Background(), text); err != nil {
			h.log.Error().Err(err).Msg("speech command failed")
		}
	}()
}

// scheduleIdle arms a one-shot return-to-rest broadcast sized to the
// utterance. Timers from overlapping speaks are independent and are
// not superseded by a newer speak; the redundant idle broadcasts are
// idempotent for viewers.
func (h *Hub) scheduleIdle(text string) {
	d := h.speakDuration(text)
	time.AfterFunc(d, func() {
		h.Broadcast(proto.Idle())
	})
}

func (h *Hub) speakDuration(text string) time.Duration {
	d := time.Duration(utf8.RuneCountInString(text)) * h.speakRate
	if d < h.idleFloor {
		d = h.idleFloor
	}
	return d
}
