package provider

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/jsonschema-go/jsonschema"
	"google.golang.org/genai"

	"github.com/haivivi/huaxiazi/pkg/dialect"
	"github.com/haivivi/huaxiazi/pkg/synth"
	"github.com/haivivi/huaxiazi/pkg/translate"
)

// Default Gemini model names.
const (
	DefaultGeminiModel       = "gemini-3-flash-preview"
	DefaultGeminiSpeechModel = "gemini-2.5-flash-preview-tts"
)

const transcribeInstruction = "请把这段录音逐字转写为简体中文（普通话）文字。只输出转写内容，不要添加任何解释或标点以外的符号。"

// ContentGenerator is the subset of *genai.Models used by Gemini.
type ContentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

var _ Provider = (*Gemini)(nil)

// Gemini implements Provider on the Gemini API.
type Gemini struct {
	Models ContentGenerator

	// Model is used for translation and transcription.
	Model string
	// SpeechModel is used for speech synthesis.
	SpeechModel string
	// Voice is the prebuilt voice name; synth.DefaultVoice if empty.
	Voice string

	// Timeout bounds each call when positive.
	Timeout time.Duration

	// Parser parses translation replies.
	Parser translate.Parser

	Logger *slog.Logger
}

// GeminiConfig configures NewGemini.
type GeminiConfig struct {
	APIKey      string
	Model       string
	SpeechModel string
	Voice       string
	Timeout     time.Duration
	RepairJSON  bool
	Logger      *slog.Logger
}

// NewGemini creates a Gemini provider with a genai client for the Gemini
// API.
func NewGemini(ctx context.Context, cfg GeminiConfig) (*Gemini, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("provider: gemini api key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("provider: create genai client: %w", err)
	}
	return &Gemini{
		Models:      client.Models,
		Model:       cfg.Model,
		SpeechModel: cfg.SpeechModel,
		Voice:       cfg.Voice,
		Timeout:     cfg.Timeout,
		Parser:      translate.Parser{Repair: cfg.RepairJSON},
		Logger:      cfg.Logger,
	}, nil
}

func (g *Gemini) logger() *slog.Logger {
	if g.Logger != nil {
		return g.Logger
	}
	return slog.Default()
}

func (g *Gemini) model() string {
	if g.Model != "" {
		return g.Model
	}
	return DefaultGeminiModel
}

func (g *Gemini) speechModel() string {
	if g.SpeechModel != "" {
		return g.SpeechModel
	}
	return DefaultGeminiSpeechModel
}

func (g *Gemini) generate(ctx context.Context, op, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	ctx, cancel := withTimeout(ctx, g.Timeout)
	defer cancel()
	start := time.Now()
	resp, err := g.Models.GenerateContent(ctx, model, contents, cfg)
	if err != nil {
		g.logger().Debug("gemini call failed", "op", op, "model", model, "elapsed", time.Since(start), "err", err)
		return nil, transportError("gemini", op, err)
	}
	g.logger().Debug("gemini call", "op", op, "model", model, "elapsed", time.Since(start))
	return resp, nil
}

// Translate implements Translator.
func (g *Gemini) Translate(ctx context.Context, text string, d dialect.Dialect, mode dialect.Mode) (translate.Result, error) {
	req, err := translate.NewRequest(text, d, mode)
	if err != nil {
		return translate.Result{}, err
	}
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{Parts: []*genai.Part{genai.NewPartFromText(req.SystemInstruction)}},
		ResponseMIMEType:  "application/json",
		ResponseSchema:    geminiConvSchema(translate.Schema()),
	}
	contents := []*genai.Content{{Role: "user", Parts: []*genai.Part{genai.NewPartFromText(req.Prompt)}}}
	resp, err := g.generate(ctx, "translate", g.model(), contents, cfg)
	if err != nil {
		return translate.Result{}, err
	}
	return g.Parser.Parse(responseText(resp))
}

// GenerateSpeech implements Synthesizer.
func (g *Gemini) GenerateSpeech(ctx context.Context, text string, d dialect.Dialect) (string, error) {
	req, err := synth.NewRequestWithVoice(text, d, g.Voice)
	if err != nil {
		return "", err
	}
	resp, err := g.generate(ctx, "speech", g.speechModel(), req.Contents(), req.Config())
	if err != nil {
		return "", err
	}
	return synth.ExtractAudio(resp)
}

// Transcribe implements Transcriber. The recording is sent as an inline WAV
// part.
func (g *Gemini) Transcribe(ctx context.Context, wav []byte) (string, error) {
	contents := []*genai.Content{{
		Role: "user",
		Parts: []*genai.Part{
			genai.NewPartFromText(transcribeInstruction),
			genai.NewPartFromBytes(wav, "audio/wav"),
		},
	}}
	resp, err := g.generate(ctx, "transcribe", g.model(), contents, nil)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(responseText(resp)), nil
}

// responseText concatenates the text parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	c := resp.Candidates[0]
	if c == nil || c.Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, p := range c.Content.Parts {
		if p != nil && p.Text != "" && !p.Thought {
			sb.WriteString(p.Text)
		}
	}
	return sb.String()
}

func geminiConvSchema(schema *jsonschema.Schema) *genai.Schema {
	if schema == nil {
		return nil
	}

	enums := make([]string, 0, len(schema.Enum))
	for _, v := range schema.Enum {
		enums = append(enums, fmt.Sprintf("%v", v))
	}

	gs := genai.Schema{
		Format:           schema.Format,
		Description:      schema.Description,
		Enum:             enums,
		Items:            geminiConvSchema(schema.Items),
		Required:         schema.Required,
		PropertyOrdering: schema.PropertyOrder,
	}
	if n := len(schema.Properties); n > 0 {
		gs.Properties = make(map[string]*genai.Schema, n)
		for k, prop := range schema.Properties {
			gs.Properties[k] = geminiConvSchema(prop)
		}
	}
	switch schema.Type {
	case "object":
		gs.Type = genai.TypeObject
	case "array":
		gs.Type = genai.TypeArray
	case "string":
		gs.Type = genai.TypeString
	case "number":
		gs.Type = genai.TypeNumber
	case "integer":
		gs.Type = genai.TypeInteger
	case "boolean":
		gs.Type = genai.TypeBoolean
	}
	return &gs
}
