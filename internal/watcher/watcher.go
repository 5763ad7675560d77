// Package watcher implements file-trigger mode: text written to a
// designated file becomes a speak event, after which the file is
// truncated.
package watcher

import (
	"fmt"
	"os"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// Watcher tails one trigger file for writes.
type Watcher struct {
	path    string
	fsw     *fsnotify.Watcher
	onText  func(text string)
	log     *zerolog.Logger
	done    chan struct{}
	stopped chan struct{}
}

// New creates a watcher on path, creating the file if it does not
// exist. onText receives the trimmed content of every non-empty write.
func New(path string, onText func(text string), logger *zerolog.Logger) (*Watcher, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := os.WriteFile(path, nil, 0o644); err != nil {
			return nil, fmt.Errorf("create trigger file: %w", err)
		}
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("fsnotify: %w", err)
	}
	if err := fsw.Add(path); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", path, err)
	}

	w := &Watcher{
		path:    path,
		fsw:     fsw,
		onText:  onText,
		log:     logger,
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	go w.loop()

	logger.Info().Str("path", path).Msg("watching trigger file")
	return w, nil
}

func (w *Watcher) loop() {
	defer close(w.stopped)

	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if event.Has(fsnotify.Write) {
				w.consume()
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.log.Warn().Err(err).Msg("watch error")
		}
	}
}

// consume reads the trigger file and empties it. The truncation
// itself raises a write event carrying empty content, which is
// ignored by the trim check.
func (w *Watcher) consume() {
	data, err := os.ReadFile(w.path)
	if err != nil {
		w.log.Warn().Err(err).Str("path", w.path).Msg("read trigger file")
		return
	}

	text := strings.TrimSpace(string(data))
	if text == "" {
		return
	}

	if err := os.WriteFile(w.path, nil, 0o644); err != nil {
		w.log.Warn().Err(err).Str("path", w.path).Msg("truncate trigger file")
	}

	w.log.Info().Int("text_len", len(text)).Msg("trigger file written")
	w.onText(text)
}

// Close stops the watch loop and releases the fsnotify handle.
func (w *Watcher) Close() error {
	close(w.done)
	err := w.fsw.Close()
	<-w.stopped
	return err
}
