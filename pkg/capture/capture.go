// Package capture records speech from a microphone and turns it into
// Mandarin text.
//
// Recognition is always performed for Mandarin (zh-CN), whatever dialect
// is selected for translation: captured text is the source side of a
// translation.
package capture

import (
	"context"
	"errors"
)

// Language is the recognition language.
const Language = "zh-CN"

var (
	// ErrCanceled is reported when a session ends without usable audio:
	// stopped before any frame arrived or cancelled through its context.
	ErrCanceled = errors.New("capture: canceled")

	// ErrBusy is returned by Start while a session is already running.
	ErrBusy = errors.New("capture: session already running")

	// ErrNotRunning is returned by Stop when no session is running.
	ErrNotRunning = errors.New("capture: no session running")

	// ErrNoSpeech is reported when the recording transcribes to nothing.
	ErrNoSpeech = errors.New("capture: no speech recognized")
)

// Transcript is the single outcome of a capture session.
type Transcript struct {
	Text string
	Err  error
}

// Recognizer is a start/stop speech capture capability. Each session
// delivers exactly one Transcript on the channel returned by Done.
type Recognizer interface {
	// Start begins a session. It fails with ErrBusy if one is running.
	Start(ctx context.Context) error
	// Stop ends recording; the transcript follows on Done.
	Stop() error
	// Done returns the channel of the most recently started session.
	Done() <-chan Transcript
}

// AudioSource yields little-endian 16-bit PCM frames. ReadFrame blocks until
// a frame is available and returns io.EOF when the source is exhausted.
type AudioSource interface {
	ReadFrame() ([]byte, error)
	Close() error
}

// Transcriber turns a WAV recording into text.
type Transcriber interface {
	Transcribe(ctx context.Context, wav []byte) (string, error)
}
