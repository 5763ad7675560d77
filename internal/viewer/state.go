// Package viewer holds the client-side view of the avatar: a reducer
// folding received relay events into renderable state, and a
// reconnecting relay client feeding it. The rendering layer itself
// lives outside this repository.
package viewer

import (
	"sync"
	"time"
	"unicode/utf8"

	"github.com/samy-vision/samy-bridge/internal/proto"
)

// Defaults mirror the relay's timing: viewers self-time their return
// to idle even if the hub's own idle broadcast is lost.
const (
	DefaultSpeakRate = 50 * time.Millisecond
	DefaultIdleFloor = time.Second
	DefaultBackoff   = 3 * time.Second
)

// State is the renderable avatar state.
type State struct {
	Mood       proto.Mood
	IsSpeaking bool
	Intensity  float64
	LastText   string
	Connected  bool
}

// ReducerConfig tunes the reducer's local idle timing.
type ReducerConfig struct {
	SpeakRate time.Duration
	IdleFloor time.Duration
	// OnChange, when set, observes every state transition.
	OnChange func(State)
}

// Reducer turns a stream of relay events plus connectivity changes
// into view state. Safe for concurrent use; the local idle timers
// fire on their own goroutines.
type Reducer struct {
	mu    sync.Mutex
	state State

	speakRate time.Duration
	idleFloor time.Duration
	onChange  func(State)
}

// NewReducer builds a reducer starting calm, idle, and disconnected.
func NewReducer(cfg ReducerConfig) *Reducer {
	if cfg.SpeakRate <= 0 {
		cfg.SpeakRate = DefaultSpeakRate
	}
	if cfg.IdleFloor <= 0 {
		cfg.IdleFloor = DefaultIdleFloor
	}
	return &Reducer{
		state:     State{Mood: proto.MoodCalm},
		speakRate: cfg.SpeakRate,
		idleFloor: cfg.IdleFloor,
		onChange:  cfg.OnChange,
	}
}

// State returns a snapshot of the current view state.
func (r *Reducer) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// HandleOpen records a live transport.
func (r *Reducer) HandleOpen() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state.Connected = true
	r.notify()
}

// HandleClose records a lost transport. The avatar keeps its mood;
// speaking state is left to the pending idle timer.
func (r *Reducer) HandleClose() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state.Connected = false
	r.notify()
}

// Apply folds one received event into the state.
func (r *Reducer) Apply(msg *proto.Message) {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch msg.Type {
	case proto.TypeSpeak:
		r.state.IsSpeaking = true
		r.state.Intensity = msg.IntensityOrDefault(0.5)
		r.state.LastText = msg.Text
		// Local reversion, independent of and redundant with the
		// hub's own auto-idle broadcast; both land on the same state.
		r.scheduleIdleLocked(msg.Text)
	case proto.TypeEmotion:
		if msg.Emotion.Valid() {
			r.state.Mood = msg.Emotion
		}
	case proto.TypeIdle:
		r.state.IsSpeaking = false
		r.state.Intensity = 0
	}
	r.notify()
}

func (r *Reducer) scheduleIdleLocked(text string) {
	d := time.Duration(utf8.RuneCountInString(text)) * r.speakRate
	if d < r.idleFloor {
		d = r.idleFloor
	}
	time.AfterFunc(d, func() {
		r.Apply(proto.Idle())
	})
}

// notify runs with the lock held; observers must not call back in.
func (r *Reducer) notify() {
	if r.onChange != nil {
		r.onChange(r.state)
	}
}
