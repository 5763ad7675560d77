// Package speech invokes the external text-to-speech command. The
// utterance text is always passed as a single argv element, never
// interpolated into a shell string.
package speech

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// DefaultTimeout bounds a single synthesis run. Long utterances at
// normal speaking rate stay well under this.
const DefaultTimeout = 2 * time.Minute

// Speaker turns text into an external speech side effect. The caller
// decides whether a failure is retried, logged, or ignored.
type Speaker interface {
	Speak(ctx context.Context, text string) error
}

// CommandSpeaker runs a configured command with the text appended as
// the final argument.
type CommandSpeaker struct {
	command string
	args    []string
	timeout time.Duration
	log     *zerolog.Logger
}

// NewCommandSpeaker builds a speaker around the given command and
// fixed leading arguments.
func NewCommandSpeaker(command string, args []string, timeout time.Duration, logger *zerolog.Logger) *CommandSpeaker {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &CommandSpeaker{
		command: command,
		args:    args,
		timeout: timeout,
		log:     logger,
	}
}

// Available reports whether the command resolves on PATH.
func (s *CommandSpeaker) Available() bool {
	_, err := exec.LookPath(s.command)
	return err == nil
}

// Speak runs the command synchronously. Empty text is a no-op.
func (s *CommandSpeaker) Speak(ctx context.Context, text string) error {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	args := append(append([]string(nil), s.args...), text)
	cmd := exec.CommandContext(ctx, s.command, args...)

	s.log.Debug().
		Str("command", s.command).
		Int("text_len", len(text)).
		Msg("running speech command")

	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s failed: %w (output: %s)", s.command, err, strings.TrimSpace(string(output)))
	}
	return nil
}

// NopSpeaker is used when speech execution is disabled.
type NopSpeaker struct{}

func (NopSpeaker) Speak(context.Context, string) error { return nil }
