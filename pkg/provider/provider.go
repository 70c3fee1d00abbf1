// Package provider talks to the remote models behind translation, speech
// synthesis and transcription.
//
// Two backends are available: Gemini (google.golang.org/genai) and OpenAI
// (github.com/openai/openai-go). Both build their requests with the
// translate and synth packages and report every network or service failure
// as a *TransportError.
package provider

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/googleapis/gax-go/v2/apierror"

	"github.com/haivivi/huaxiazi/pkg/dialect"
	"github.com/haivivi/huaxiazi/pkg/translate"
)

// Translator translates text into or out of a dialect.
type Translator interface {
	Translate(ctx context.Context, text string, d dialect.Dialect, mode dialect.Mode) (translate.Result, error)
}

// Synthesizer renders text as dialect speech. The returned payload is
// base64 text wrapping 16-bit mono PCM at 24 kHz.
type Synthesizer interface {
	GenerateSpeech(ctx context.Context, text string, d dialect.Dialect) (string, error)
}

// Transcriber turns a WAV recording into Mandarin text.
type Transcriber interface {
	Transcribe(ctx context.Context, wav []byte) (string, error)
}

// Provider is a backend offering all three capabilities.
type Provider interface {
	Translator
	Synthesizer
	Transcriber
}

// ErrTransport matches every *TransportError.
var ErrTransport = errors.New("provider: transport error")

// TransportError reports a failed call to a remote model: the network, the
// service or a timeout.
type TransportError struct {
	Provider string
	Op       string
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("provider: %s %s: %v", e.Provider, e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Is reports ErrTransport as a match.
func (e *TransportError) Is(target error) bool { return target == ErrTransport }

func transportError(provider, op string, err error) error {
	if e, ok := err.(*apierror.APIError); ok {
		if u := e.Unwrap(); u != nil {
			err = u
		}
	}
	return &TransportError{Provider: provider, Op: op, Err: err}
}

// withTimeout bounds ctx by d when d is positive.
func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

func falseSchema() *jsonschema.Schema {
	return &jsonschema.Schema{Not: &jsonschema.Schema{}}
}
