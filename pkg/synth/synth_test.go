package synth

import (
	"encoding/base64"
	"errors"
	"strings"
	"testing"

	"google.golang.org/genai"

	"github.com/haivivi/huaxiazi/pkg/dialect"
)

func TestNewRequest(t *testing.T) {
	req, err := NewRequest("食咗飯未啊", dialect.Cantonese)
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	if req.Voice != DefaultVoice {
		t.Errorf("Voice = %q, want %q", req.Voice, DefaultVoice)
	}
	for _, want := range []string{"食咗飯未啊", dialect.Cantonese.Label(), dialect.Cantonese.Region(), "accent", "tones", "prosody"} {
		if !strings.Contains(req.Prompt, want) {
			t.Errorf("Prompt missing %q: %s", want, req.Prompt)
		}
	}

	cfg := req.Config()
	if len(cfg.ResponseModalities) != 1 || cfg.ResponseModalities[0] != string(genai.ModalityAudio) {
		t.Errorf("ResponseModalities = %v", cfg.ResponseModalities)
	}
	if got := cfg.SpeechConfig.VoiceConfig.PrebuiltVoiceConfig.VoiceName; got != DefaultVoice {
		t.Errorf("VoiceName = %q", got)
	}

	contents := req.Contents()
	if len(contents) != 1 || len(contents[0].Parts) != 1 || contents[0].Parts[0].Text != req.Prompt {
		t.Errorf("Contents = %+v", contents)
	}
}

func TestNewRequest_Errors(t *testing.T) {
	if _, err := NewRequest("  ", dialect.Hakka); !errors.Is(err, ErrEmptyInput) {
		t.Errorf("blank text error = %v", err)
	}
	if _, err := NewRequest("你好", dialect.Dialect(42)); !errors.Is(err, dialect.ErrUnknownDialect) {
		t.Errorf("invalid dialect error = %v", err)
	}
	req, err := NewRequestWithVoice("你好", dialect.Jin, "")
	if err != nil || req.Voice != DefaultVoice {
		t.Errorf("empty voice should fall back to default, got %v, %v", req, err)
	}
}

func TestExtractAudio(t *testing.T) {
	pcmBytes := []byte{0x01, 0x00, 0xff, 0x7f}
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{
				{Text: "here you go"},
				{InlineData: &genai.Blob{MIMEType: "audio/L16;codec=pcm;rate=24000", Data: pcmBytes}},
				{InlineData: &genai.Blob{MIMEType: "audio/L16", Data: []byte{9, 9}}},
			}},
		}},
	}
	got, err := ExtractAudio(resp)
	if err != nil {
		t.Fatalf("ExtractAudio: %v", err)
	}
	if want := base64.StdEncoding.EncodeToString(pcmBytes); got != want {
		t.Errorf("ExtractAudio = %q, want %q", got, want)
	}
}

func TestExtractAudio_NoPayload(t *testing.T) {
	tests := []struct {
		name string
		resp *genai.GenerateContentResponse
	}{
		{"nil response", nil},
		{"no candidates", &genai.GenerateContentResponse{}},
		{"nil content", &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{}}}},
		{"text only", &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{{Text: "sorry"}}},
		}}}},
		{"second candidate only", &genai.GenerateContentResponse{Candidates: []*genai.Candidate{
			{Content: &genai.Content{Parts: []*genai.Part{{Text: "sorry"}}}},
			{Content: &genai.Content{Parts: []*genai.Part{{InlineData: &genai.Blob{Data: []byte{1, 2}}}}}},
		}}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ExtractAudio(tc.resp)
			if !errors.Is(err, ErrNoAudioPayload) {
				t.Fatalf("ExtractAudio error = %v, want ErrNoAudioPayload", err)
			}
			if got != "" {
				t.Errorf("ExtractAudio returned %q alongside the error", got)
			}
		})
	}
}
