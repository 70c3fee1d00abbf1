package provider

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/haivivi/huaxiazi/pkg/dialect"
	"github.com/haivivi/huaxiazi/pkg/synth"
	"github.com/haivivi/huaxiazi/pkg/translate"
)

func newTestOpenAI(t *testing.T, h http.Handler) *OpenAI {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	o, err := NewOpenAI(OpenAIConfig{APIKey: "test", BaseURL: srv.URL + "/v1/"})
	if err != nil {
		t.Fatal(err)
	}
	return o
}

func chatResponse(content string) string {
	b, _ := json.Marshal(map[string]any{
		"id":      "chatcmpl-1",
		"object":  "chat.completion",
		"created": 1,
		"model":   DefaultOpenAIModel,
		"choices": []map[string]any{{
			"index":         0,
			"finish_reason": "stop",
			"message":       map[string]any{"role": "assistant", "content": content},
		}},
	})
	return string(b)
}

func TestOpenAI_Translate(t *testing.T) {
	var body map[string]any
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/chat/completions", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&body)
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, chatResponse(`{"translatedText":"你食咗饭未呀？","phonetic":"nei5","meaning":"问候","dialectName":"粤语"}`))
	})
	o := newTestOpenAI(t, mux)

	got, err := o.Translate(context.Background(), "你吃饭了吗？", dialect.Cantonese, dialect.ToDialect)
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if got.TranslatedText != "你食咗饭未呀？" {
		t.Errorf("Translate = %+v", got)
	}

	rf, _ := body["response_format"].(map[string]any)
	if rf["type"] != "json_schema" {
		t.Fatalf("response_format = %v", body["response_format"])
	}
	js, _ := rf["json_schema"].(map[string]any)
	if js["strict"] != true {
		t.Errorf("strict = %v", js["strict"])
	}
	schema, _ := js["schema"].(map[string]any)
	if schema["additionalProperties"] != false {
		t.Errorf("additionalProperties = %v", schema["additionalProperties"])
	}
	msgs, _ := body["messages"].([]any)
	if len(msgs) != 2 {
		t.Errorf("messages = %d", len(msgs))
	}
}

func TestOpenAI_TranslateMalformed(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/chat/completions", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, chatResponse(`{"translatedText":"x"}`))
	})
	o := newTestOpenAI(t, mux)
	_, err := o.Translate(context.Background(), "hi", dialect.Cantonese, dialect.ToDialect)
	if !errors.Is(err, translate.ErrMalformedResponse) {
		t.Errorf("err = %v", err)
	}
}

func TestOpenAI_TransportError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		io.WriteString(w, `{"error":{"message":"boom","type":"server_error"}}`)
	})
	o := newTestOpenAI(t, mux)

	_, err := o.Translate(context.Background(), "hi", dialect.Cantonese, dialect.ToDialect)
	var te *TransportError
	if !errors.As(err, &te) || te.Provider != "openai" {
		t.Errorf("translate err = %v", err)
	}
	if _, err := o.GenerateSpeech(context.Background(), "hi", dialect.Cantonese); !errors.Is(err, ErrTransport) {
		t.Errorf("speech err = %v", err)
	}
	if _, err := o.Transcribe(context.Background(), []byte("RIFF")); !errors.Is(err, ErrTransport) {
		t.Errorf("transcribe err = %v", err)
	}
}

func TestOpenAI_GenerateSpeech(t *testing.T) {
	pcmData := []byte{0x10, 0x00, 0xf0, 0xff}
	var body map[string]any
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/audio/speech", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&body)
		w.Header().Set("Content-Type", "application/octet-stream")
		w.Write(pcmData)
	})
	o := newTestOpenAI(t, mux)

	got, err := o.GenerateSpeech(context.Background(), "侬好", dialect.Shanghainese)
	if err != nil {
		t.Fatalf("GenerateSpeech: %v", err)
	}
	if got != base64.StdEncoding.EncodeToString(pcmData) {
		t.Errorf("payload = %q", got)
	}
	if body["response_format"] != "pcm" || body["input"] != "侬好" || body["voice"] != DefaultOpenAIVoice {
		t.Errorf("request = %v", body)
	}
	if instr, _ := body["instructions"].(string); !strings.Contains(instr, "上海") && !strings.Contains(instr, dialect.Shanghainese.Label()) {
		t.Errorf("instructions = %q", instr)
	}
}

func TestOpenAI_GenerateSpeechEmpty(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/audio/speech", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/octet-stream")
	})
	o := newTestOpenAI(t, mux)
	if _, err := o.GenerateSpeech(context.Background(), "hi", dialect.Cantonese); !errors.Is(err, synth.ErrNoAudioPayload) {
		t.Errorf("err = %v, want ErrNoAudioPayload", err)
	}
}

func TestOpenAI_Transcribe(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/audio/transcriptions", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if r.FormValue("language") != "zh" {
			http.Error(w, "language", http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"text":" 你好 "}`)
	})
	o := newTestOpenAI(t, mux)
	got, err := o.Transcribe(context.Background(), []byte("RIFF....WAVE"))
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
	if got != "你好" {
		t.Errorf("Transcribe = %q", got)
	}
}

func TestNewOpenAI_RequiresKey(t *testing.T) {
	if _, err := NewOpenAI(OpenAIConfig{}); err == nil {
		t.Error("expected error")
	}
}
