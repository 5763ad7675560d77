package config

import "time"

// Config holds relay configuration values.
type Config struct {
	Addr              string        `mapstructure:"addr" yaml:"addr"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout" yaml:"read_header_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
	LogLevel          string        `mapstructure:"log_level" yaml:"log_level"`

	// SpeechCommand is the external text-to-speech command. Empty
	// disables speech execution entirely.
	SpeechCommand string        `mapstructure:"speech_command" yaml:"speech_command"`
	SpeechTimeout time.Duration `mapstructure:"speech_timeout" yaml:"speech_timeout"`

	// SpeakRate is the per-character speaking duration used to size
	// auto-idle delays; IdleFloor is their minimum on every path.
	SpeakRate time.Duration `mapstructure:"speak_rate" yaml:"speak_rate"`
	IdleFloor time.Duration `mapstructure:"idle_floor" yaml:"idle_floor"`

	// WatchFile enables file-trigger mode when non-empty: text written
	// to this file is spoken and broadcast, then the file is truncated.
	WatchFile string `mapstructure:"watch_file" yaml:"watch_file"`

	// ControlURL is where the say command reaches the control plane.
	ControlURL string `mapstructure:"control_url" yaml:"control_url"`
}

// Default returns configuration with reasonable starter defaults.
func Default() Config {
	return Config{
		Addr:              ":8080",
		ReadHeaderTimeout: 5 * time.Second,
		ShutdownTimeout:   5 * time.Second,
		LogLevel:          "info",
		SpeechCommand:     "say13",
		SpeechTimeout:     2 * time.Minute,
		SpeakRate:         50 * time.Millisecond,
		IdleFloor:         time.Second,
		ControlURL:        "http://localhost:8080",
	}
}
