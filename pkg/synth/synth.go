// Package synth builds speech-synthesis requests and extracts the inline
// audio payload from the model's multi-part reply.
//
// The synthesis service exposes generic prebuilt voices only, so the dialect
// is conveyed through the instruction text: the request names the dialect
// and its region and asks for that region's accent, tones and prosody.
package synth

import (
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/haivivi/huaxiazi/pkg/audio/pcm"
	"github.com/haivivi/huaxiazi/pkg/dialect"
	"github.com/haivivi/huaxiazi/pkg/encoding"
)

// DefaultVoice is the prebuilt voice used when none is configured.
const DefaultVoice = "Kore"

// OutputFormat is the format of the audio the service returns.
const OutputFormat = pcm.L16Mono24K

var (
	// ErrEmptyInput is returned when the text to synthesize is blank.
	ErrEmptyInput = errors.New("synth: empty input")

	// ErrNoAudioPayload is returned when a reply carries no inline audio.
	ErrNoAudioPayload = errors.New("synth: no audio payload")
)

// Request is a speech-synthesis request.
type Request struct {
	Dialect dialect.Dialect
	Text    string

	// Prompt is the dialect-aware instruction sent as the only text part.
	Prompt string

	// Voice is the prebuilt voice name.
	Voice string
}

// NewRequest builds a request with DefaultVoice.
func NewRequest(text string, d dialect.Dialect) (*Request, error) {
	return NewRequestWithVoice(text, d, DefaultVoice)
}

// NewRequestWithVoice builds a request for the given prebuilt voice.
func NewRequestWithVoice(text string, d dialect.Dialect, voice string) (*Request, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyInput
	}
	if !d.Valid() {
		return nil, fmt.Errorf("synth: %w: %d", dialect.ErrUnknownDialect, int(d))
	}
	if voice == "" {
		voice = DefaultVoice
	}
	return &Request{
		Dialect: d,
		Text:    text,
		Prompt:  instruction(text, d),
		Voice:   voice,
	}, nil
}

func instruction(text string, d dialect.Dialect) string {
	return fmt.Sprintf(
		"Read the following Chinese dialect text aloud as a native speaker of %s from %s. "+
			"Use the authentic local accent, the dialect's own tones and tone sandhi, and its natural rhythm and prosody; "+
			"do not read it in standard Mandarin. Text: %s",
		d.Label(), d.Region(), text,
	)
}

// Contents returns the single user turn carrying the instruction.
func (r *Request) Contents() []*genai.Content {
	return []*genai.Content{
		{Role: "user", Parts: []*genai.Part{genai.NewPartFromText(r.Prompt)}},
	}
}

// Config returns an audio-only generation config with the request's voice.
func (r *Request) Config() *genai.GenerateContentConfig {
	return &genai.GenerateContentConfig{
		ResponseModalities: []string{string(genai.ModalityAudio)},
		SpeechConfig: &genai.SpeechConfig{
			VoiceConfig: &genai.VoiceConfig{
				PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{VoiceName: r.Voice},
			},
		},
	}
}

// ExtractAudio returns the first inline payload of the first candidate,
// base64 encoded. It fails with ErrNoAudioPayload when there is no
// candidate, no content or no part with inline data.
func ExtractAudio(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("%w: no candidates", ErrNoAudioPayload)
	}
	c := resp.Candidates[0]
	if c == nil || c.Content == nil {
		return "", fmt.Errorf("%w: no content", ErrNoAudioPayload)
	}
	for _, p := range c.Content.Parts {
		if p == nil || p.InlineData == nil || len(p.InlineData.Data) == 0 {
			continue
		}
		return encoding.StdBase64Data(p.InlineData.Data).String(), nil
	}
	return "", fmt.Errorf("%w: no inline data in %d parts", ErrNoAudioPayload, len(c.Content.Parts))
}
