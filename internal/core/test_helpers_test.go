package core

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/samy-vision/samy-bridge/internal/proto"
)

func testLogger() *zerolog.Logger {
	l := zerolog.New(nil)
	return &l
}

func mustEvent(t *testing.T, ch <-chan *proto.Message, typ string) *proto.Message {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		select {
		case msg := <-ch:
			if msg == nil {
				continue
			}
			if msg.Type == typ {
				return msg
			}
		default:
			time.Sleep(5 * time.Millisecond)
		}
	}
	t.Fatalf("expected %q event not received", typ)
	return nil
}

func mustNoEvent(t *testing.T, ch <-chan *proto.Message, within time.Duration) {
	t.Helper()

	select {
	case msg := <-ch:
		t.Fatalf("unexpected event %+v", msg)
	case <-time.After(within):
	}
}

// recordingSpeaker captures texts passed to Speak.
type recordingSpeaker struct {
	mu    sync.Mutex
	texts []string
	err   error
}

func (s *recordingSpeaker) Speak(_ context.Context, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.texts = append(s.texts, text)
	return s.err
}

func (s *recordingSpeaker) spoken() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.texts...)
}

func (s *recordingSpeaker) waitForText(t *testing.T, want string) {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		for _, text := range s.spoken() {
			if text == want {
				return
			}
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("speech command never received %q (got %v)", want, s.spoken())
}
