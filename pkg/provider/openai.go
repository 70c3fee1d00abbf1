package provider

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/packages/param"

	"github.com/haivivi/huaxiazi/pkg/dialect"
	"github.com/haivivi/huaxiazi/pkg/encoding"
	"github.com/haivivi/huaxiazi/pkg/synth"
	"github.com/haivivi/huaxiazi/pkg/translate"
)

// Default OpenAI model names.
const (
	DefaultOpenAIModel           = "gpt-4o-mini"
	DefaultOpenAISpeechModel     = "gpt-4o-mini-tts"
	DefaultOpenAITranscribeModel = "gpt-4o-mini-transcribe"
	DefaultOpenAIVoice           = "alloy"
)

const oaiFinishReasonStop = "stop"

var _ Provider = (*OpenAI)(nil)

// OpenAI implements Provider on the OpenAI API or a compatible endpoint.
// Speech is requested as raw PCM, which the API delivers as 24 kHz 16-bit
// mono.
type OpenAI struct {
	Client *openai.Client

	Model           string
	SpeechModel     string
	TranscribeModel string
	Voice           string

	// Timeout bounds each call when positive.
	Timeout time.Duration

	Parser translate.Parser
	Logger *slog.Logger
}

// OpenAIConfig configures NewOpenAI.
type OpenAIConfig struct {
	APIKey          string
	BaseURL         string
	Model           string
	SpeechModel     string
	TranscribeModel string
	Voice           string
	Timeout         time.Duration
	RepairJSON      bool
	Logger          *slog.Logger
}

// NewOpenAI creates an OpenAI provider.
func NewOpenAI(cfg OpenAIConfig) (*OpenAI, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("provider: openai api key is required")
	}
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey), option.WithMaxRetries(0)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	client := openai.NewClient(opts...)
	return &OpenAI{
		Client:          &client,
		Model:           cfg.Model,
		SpeechModel:     cfg.SpeechModel,
		TranscribeModel: cfg.TranscribeModel,
		Voice:           cfg.Voice,
		Timeout:         cfg.Timeout,
		Parser:          translate.Parser{Repair: cfg.RepairJSON},
		Logger:          cfg.Logger,
	}, nil
}

func (o *OpenAI) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}

func orDefault(v, def string) string {
	if v != "" {
		return v
	}
	return def
}

// Translate implements Translator with a strict json_schema response format.
func (o *OpenAI) Translate(ctx context.Context, text string, d dialect.Dialect, mode dialect.Mode) (translate.Result, error) {
	req, err := translate.NewRequest(text, d, mode)
	if err != nil {
		return translate.Result{}, err
	}
	params := openai.ChatCompletionNewParams{
		Model: orDefault(o.Model, DefaultOpenAIModel),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(req.SystemInstruction),
			openai.UserMessage(req.Prompt),
		},
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{
				JSONSchema: openai.ResponseFormatJSONSchemaJSONSchemaParam{
					Name:        "dialect_translation",
					Description: param.NewOpt("方言翻译结果"),
					Schema:      strictSchema(),
					Strict:      param.NewOpt(true),
				},
			},
		},
	}

	ctx, cancel := withTimeout(ctx, o.Timeout)
	defer cancel()
	start := time.Now()
	resp, err := o.Client.Chat.Completions.New(ctx, params)
	if err != nil {
		return translate.Result{}, transportError("openai", "translate", err)
	}
	o.logger().Debug("openai call", "op", "translate", "model", params.Model, "elapsed", time.Since(start))

	if len(resp.Choices) == 0 {
		return translate.Result{}, &translate.ParseError{Reason: "no choices"}
	}
	choice := resp.Choices[0]
	if choice.Message.Refusal != "" {
		return translate.Result{}, &translate.ParseError{Reason: "refused: " + choice.Message.Refusal}
	}
	if choice.FinishReason != oaiFinishReasonStop {
		o.logger().Warn("unexpected finish reason", "reason", choice.FinishReason)
	}
	return o.Parser.Parse(choice.Message.Content)
}

// strictSchema adapts the reply schema for OpenAI strict structured output,
// which requires additionalProperties: false on objects.
func strictSchema() any {
	s := translate.Schema()
	s.AdditionalProperties = falseSchema()
	return s
}

// GenerateSpeech implements Synthesizer.
func (o *OpenAI) GenerateSpeech(ctx context.Context, text string, d dialect.Dialect) (string, error) {
	req, err := synth.NewRequestWithVoice(text, d, orDefault(o.Voice, DefaultOpenAIVoice))
	if err != nil {
		return "", err
	}

	ctx, cancel := withTimeout(ctx, o.Timeout)
	defer cancel()
	start := time.Now()
	resp, err := o.Client.Audio.Speech.New(ctx, openai.AudioSpeechNewParams{
		Model:          openai.SpeechModel(orDefault(o.SpeechModel, DefaultOpenAISpeechModel)),
		Input:          req.Text,
		Instructions:   param.NewOpt(req.Prompt),
		Voice:          openai.AudioSpeechNewParamsVoice(req.Voice),
		ResponseFormat: openai.AudioSpeechNewParamsResponseFormatPCM,
	})
	if err != nil {
		return "", transportError("openai", "speech", err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", transportError("openai", "speech", err)
	}
	o.logger().Debug("openai call", "op", "speech", "bytes", len(data), "elapsed", time.Since(start))
	if len(data) == 0 {
		return "", fmt.Errorf("%w: empty response body", synth.ErrNoAudioPayload)
	}
	return encoding.StdBase64Data(data).String(), nil
}

// Transcribe implements Transcriber with the audio transcription endpoint.
func (o *OpenAI) Transcribe(ctx context.Context, wav []byte) (string, error) {
	ctx, cancel := withTimeout(ctx, o.Timeout)
	defer cancel()
	resp, err := o.Client.Audio.Transcriptions.New(ctx, openai.AudioTranscriptionNewParams{
		File:     openai.File(bytes.NewReader(wav), "speech.wav", "audio/wav"),
		Model:    openai.AudioModel(orDefault(o.TranscribeModel, DefaultOpenAITranscribeModel)),
		Language: param.NewOpt("zh"),
	})
	if err != nil {
		return "", transportError("openai", "transcribe", err)
	}
	return strings.TrimSpace(resp.Text), nil
}
