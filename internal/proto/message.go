package proto

import (
	"encoding/json"
	"fmt"
)

// Message types exchanged over the relay.
const (
	TypeIdle    = "idle"
	TypeSpeak   = "speak"
	TypeEmotion = "emotion"
)

// Mood is the discrete emotional state driving presentation.
type Mood string

const (
	MoodCalm      Mood = "calm"
	MoodCurious   Mood = "curious"
	MoodEnergetic Mood = "energetic"
)

// Valid reports whether m is one of the known moods.
func (m Mood) Valid() bool {
	switch m {
	case MoodCalm, MoodCurious, MoodEnergetic:
		return true
	}
	return false
}

// Message is one relay event on the wire: idle, speak, or emotion.
// Intensity is a pointer so an absent value stays distinguishable
// from an explicit 0.
type Message struct {
	Type      string   `json:"type"`
	Text      string   `json:"text,omitempty"`
	Emotion   Mood     `json:"emotion,omitempty"`
	Intensity *float64 `json:"intensity,omitempty"`
}

// Idle returns the baseline resting event.
func Idle() *Message {
	return &Message{Type: TypeIdle}
}

// IdleWithMood returns the resting event carrying an explicit mood,
// used as the initial state sent to a freshly connected client.
func IdleWithMood(mood Mood) *Message {
	return &Message{Type: TypeIdle, Emotion: mood}
}

// Speak returns an utterance event with its intensity clamped.
func Speak(text string, mood Mood, intensity float64) *Message {
	v := ClampIntensity(intensity)
	return &Message{Type: TypeSpeak, Text: text, Emotion: mood, Intensity: &v}
}

// EmotionChange returns a mood update without speech.
func EmotionChange(mood Mood) *Message {
	return &Message{Type: TypeEmotion, Emotion: mood}
}

// ClampIntensity bounds v to [0, 1].
func ClampIntensity(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Decode parses a raw wire payload into a Message. It rejects
// payloads that are not JSON, carry an unknown type, or carry an
// unknown emotion; a present intensity is clamped in place.
func Decode(raw []byte) (*Message, error) {
	var msg Message
	if err := json.Unmarshal(raw, &msg); err != nil {
		return nil, fmt.Errorf("parse message: %w", err)
	}

	switch msg.Type {
	case TypeIdle, TypeSpeak, TypeEmotion:
	default:
		return nil, fmt.Errorf("unknown message type %q", msg.Type)
	}

	if msg.Emotion != "" && !msg.Emotion.Valid() {
		return nil, fmt.Errorf("unknown emotion %q", msg.Emotion)
	}

	if msg.Intensity != nil {
		v := ClampIntensity(*msg.Intensity)
		msg.Intensity = &v
	}

	return &msg, nil
}

// IntensityOrDefault returns the message intensity, or def when the
// sender left it unspecified.
func (m *Message) IntensityOrDefault(def float64) float64 {
	if m.Intensity == nil {
		return def
	}
	return *m.Intensity
}

// IsSpeak reports whether m is an utterance event.
func (m *Message) IsSpeak() bool {
	return m.Type == TypeSpeak
}
