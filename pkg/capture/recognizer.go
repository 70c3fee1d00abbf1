package capture

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/haivivi/huaxiazi/pkg/audio/pcm"
)

// DefaultMaxDuration caps a recording when ModelRecognizer.MaxDuration is
// zero.
const DefaultMaxDuration = time.Minute

var _ Recognizer = (*ModelRecognizer)(nil)

// ModelRecognizer records from an AudioSource until stopped and sends the
// recording, wrapped as WAV, to a Transcriber.
type ModelRecognizer struct {
	// Open opens the audio source for one session. Required.
	Open func() (AudioSource, error)

	// Transcriber converts the recording to text. Required.
	Transcriber Transcriber

	// Format is the source layout. The zero value is pcm.L16Mono16K.
	Format pcm.Format

	// MaxDuration stops recording automatically. Defaults to
	// DefaultMaxDuration.
	MaxDuration time.Duration

	Logger *slog.Logger

	mu     sync.Mutex
	active *session
	last   chan Transcript
}

type session struct {
	stopOnce sync.Once
	stop     chan struct{}
}

func (r *ModelRecognizer) logger() *slog.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return slog.Default()
}

// Start opens the source and begins recording in the background. ctx bounds
// the whole session including transcription.
func (r *ModelRecognizer) Start(ctx context.Context) error {
	if r.Open == nil || r.Transcriber == nil {
		return errors.New("capture: recognizer not configured")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.active != nil {
		return ErrBusy
	}
	src, err := r.Open()
	if err != nil {
		return fmt.Errorf("capture: open source: %w", err)
	}
	s := &session{stop: make(chan struct{})}
	done := make(chan Transcript, 1)
	r.active = s
	r.last = done
	r.logger().Debug("capture start", "language", Language)
	go r.run(ctx, s, src, done)
	return nil
}

// Stop ends the running session's recording.
func (r *ModelRecognizer) Stop() error {
	r.mu.Lock()
	s := r.active
	r.mu.Unlock()
	if s == nil {
		return ErrNotRunning
	}
	s.stopOnce.Do(func() { close(s.stop) })
	return nil
}

// Done returns the transcript channel of the most recent session, or nil
// before the first Start.
func (r *ModelRecognizer) Done() <-chan Transcript {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.last
}

func (r *ModelRecognizer) run(ctx context.Context, s *session, src AudioSource, done chan<- Transcript) {
	t := r.record(ctx, s, src)
	r.mu.Lock()
	r.active = nil
	r.mu.Unlock()
	if t.Err != nil {
		r.logger().Debug("capture finished", "err", t.Err)
	} else {
		r.logger().Debug("capture finished", "chars", len([]rune(t.Text)))
	}
	done <- t
}

func (r *ModelRecognizer) record(ctx context.Context, s *session, src AudioSource) Transcript {
	f := r.Format
	limit := r.MaxDuration
	if limit <= 0 {
		limit = DefaultMaxDuration
	}
	maxBytes := int(f.BytesInDuration(limit))

	var audio []byte
	err := func() error {
		defer src.Close()
		for len(audio) < maxBytes {
			select {
			case <-s.stop:
				return nil
			case <-ctx.Done():
				return fmt.Errorf("%w: %v", ErrCanceled, ctx.Err())
			default:
			}
			frame, err := src.ReadFrame()
			if errors.Is(err, io.EOF) {
				return nil
			}
			if err != nil {
				return fmt.Errorf("capture: read: %w", err)
			}
			audio = append(audio, frame...)
		}
		return nil
	}()
	if err != nil {
		return Transcript{Err: err}
	}
	if len(audio) == 0 {
		return Transcript{Err: ErrCanceled}
	}

	wav := pcm.WAV(audio[:len(audio)/2*2], f.SampleRate(), f.Channels())
	text, err := r.Transcriber.Transcribe(ctx, wav)
	if err != nil {
		return Transcript{Err: err}
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return Transcript{Err: ErrNoSpeech}
	}
	return Transcript{Text: text}
}
