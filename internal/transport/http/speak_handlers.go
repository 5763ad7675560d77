package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/samy-vision/samy-bridge/internal/core"
	"github.com/samy-vision/samy-bridge/internal/emotion"
	"github.com/samy-vision/samy-bridge/internal/proto"
)

// SpeakHandlers injects speak events into the hub for callers that do
// not hold a live relay connection.
type SpeakHandlers struct {
	hub *core.Hub
	log *zerolog.Logger
}

// NewSpeakHandlers creates the control-plane handlers.
func NewSpeakHandlers(hub *core.Hub, logger *zerolog.Logger) *SpeakHandlers {
	return &SpeakHandlers{hub: hub, log: logger}
}

// SpeakRequest represents the /speak request body. Emotion and
// intensity are optional; the classifier fills in whichever the
// caller leaves out.
type SpeakRequest struct {
	Text      string     `json:"text"`
	Emotion   proto.Mood `json:"emotion"`
	Intensity *float64   `json:"intensity"`
}

// SpeakResponse represents a successful /speak response body.
type SpeakResponse struct {
	Success bool `json:"success"`
}

// ErrorResponse represents an error response body.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Speak handles the control-plane speak request.
// POST /speak
func (h *SpeakHandlers) Speak(c *gin.Context) {
	var req SpeakRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Debug().Err(err).Msg("invalid speak request")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	if req.Emotion != "" && !req.Emotion.Valid() {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "unknown emotion"})
		return
	}

	// Classify the raw text, before the legacy placeholder applies.
	mood, score := emotion.Classify(req.Text)
	if req.Emotion != "" {
		mood = req.Emotion
	}
	intensity := score
	if req.Intensity != nil {
		intensity = proto.ClampIntensity(*req.Intensity)
	}

	text := req.Text
	if text == "" {
		text = "Test"
	}

	h.hub.Broadcast(proto.Speak(text, mood, intensity))

	h.log.Info().
		Int("text_len", len(text)).
		Str("emotion", string(mood)).
		Float64("intensity", intensity).
		Msg("speak injected via control plane")

	c.JSON(http.StatusOK, SpeakResponse{Success: true})
}
