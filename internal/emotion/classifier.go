// Package emotion derives a mood and an expressiveness score from raw
// utterance text. Classification is pure and never fails; it exists so
// that senders which do not supply an emotion still drive the avatar
// with something plausible.
package emotion

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/samy-vision/samy-bridge/internal/proto"
)

const (
	baseIntensity = 0.5
	maxIntensity  = 1.0
)

var (
	energeticGlyphs = "!⚡🔥💪"
	curiousGlyphs   = "?🤔💡"

	energeticTokens = regexp.MustCompile(`(?i)excit|incroyable|super|génial|wow`)
	curiousTokens   = regexp.MustCompile(`(?i)pourquoi|comment|quoi|question|intéressant`)
)

// Classify maps text to a mood and an intensity in [0, 1].
func Classify(text string) (proto.Mood, float64) {
	return DetectMood(text), Intensity(text)
}

// DetectMood picks the mood by priority: energetic beats curious beats
// the calm default.
func DetectMood(text string) proto.Mood {
	if strings.ContainsAny(text, energeticGlyphs) || energeticTokens.MatchString(text) {
		return proto.MoodEnergetic
	}
	if strings.ContainsAny(text, curiousGlyphs) || curiousTokens.MatchString(text) {
		return proto.MoodCurious
	}
	return proto.MoodCalm
}

// Intensity scores expressiveness from length and punctuation,
// starting at 0.5 and clamped to 1.0. Length is counted in runes.
func Intensity(text string) float64 {
	intensity := baseIntensity

	length := utf8.RuneCountInString(text)
	if length > 100 {
		intensity += 0.2
	}
	if length > 200 {
		intensity += 0.1
	}

	exclamations := float64(strings.Count(text, "!"))
	questions := float64(strings.Count(text, "?"))

	intensity += min(exclamations*0.1, 0.3)
	intensity += min(questions*0.05, 0.2)

	return min(intensity, maxIntensity)
}
