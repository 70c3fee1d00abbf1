package config

import (
	"errors"
	"fmt"
	"os"
	"time"
)

// Service file names.
const (
	ServiceApp     = "app"
	ServiceGemini  = "gemini"
	ServiceOpenAI  = "openai"
	ServiceStorage = "storage"
)

// Provider names accepted in app.yaml.
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// App is app.yaml.
type App struct {
	// Provider is "gemini" (default) or "openai".
	Provider string `yaml:"provider,omitempty"`

	// Dialect and Mode are the default selection.
	Dialect string `yaml:"dialect,omitempty"`
	Mode    string `yaml:"mode,omitempty"`

	// DataDir holds the history store and local clips.
	DataDir string `yaml:"data_dir,omitempty"`

	// RepairJSON lets the parser repair malformed model output.
	RepairJSON bool `yaml:"repair_json,omitempty"`

	// OutputRate and Stereo set the playback device layout.
	OutputRate int  `yaml:"output_rate,omitempty"`
	Stereo     bool `yaml:"stereo,omitempty"`

	// Gain scales playback volume; 0 means unity.
	Gain float32 `yaml:"gain,omitempty"`

	// MaxListen bounds one capture session, e.g. "30s".
	MaxListen string `yaml:"max_listen,omitempty"`
}

// Model is gemini.yaml or openai.yaml.
type Model struct {
	APIKey          string `yaml:"api_key,omitempty"`
	BaseURL         string `yaml:"base_url,omitempty"`
	Model           string `yaml:"model,omitempty"`
	TTSModel        string `yaml:"tts_model,omitempty"`
	TranscribeModel string `yaml:"transcribe_model,omitempty"`
	Voice           string `yaml:"voice,omitempty"`

	// Timeout is the per-request timeout in seconds.
	Timeout int `yaml:"timeout,omitempty"`
}

// RequestTimeout returns Timeout as a duration.
func (m Model) RequestTimeout() time.Duration {
	return time.Duration(m.Timeout) * time.Second
}

// Storage is storage.yaml.
type Storage struct {
	// Kind is "local" (default) or "s3".
	Kind string `yaml:"kind,omitempty"`

	// Dir is the local archive root; defaults to <data_dir>/clips.
	Dir string `yaml:"dir,omitempty"`

	Bucket    string `yaml:"bucket,omitempty"`
	Prefix    string `yaml:"prefix,omitempty"`
	Region    string `yaml:"region,omitempty"`
	Endpoint  string `yaml:"endpoint,omitempty"`
	AccessKey string `yaml:"access_key,omitempty"`
	SecretKey string `yaml:"secret_key,omitempty"`
	PathStyle bool   `yaml:"path_style,omitempty"`
}

// Settings is the merged configuration of one context.
type Settings struct {
	Context string  `yaml:"context,omitempty"`
	App     App     `yaml:"app"`
	Gemini  Model   `yaml:"gemini"`
	OpenAI  Model   `yaml:"openai"`
	Storage Storage `yaml:"storage"`
}

// LoadSettings reads every service file of contextDir. Missing files leave
// their section zero; an empty contextDir yields all defaults. API keys
// fall back to GEMINI_API_KEY and OPENAI_API_KEY.
func LoadSettings(name, contextDir string) (*Settings, error) {
	s := &Settings{Context: name}
	if contextDir != "" {
		if err := loadOptional(contextDir, ServiceApp, &s.App); err != nil {
			return nil, err
		}
		if err := loadOptional(contextDir, ServiceGemini, &s.Gemini); err != nil {
			return nil, err
		}
		if err := loadOptional(contextDir, ServiceOpenAI, &s.OpenAI); err != nil {
			return nil, err
		}
		if err := loadOptional(contextDir, ServiceStorage, &s.Storage); err != nil {
			return nil, err
		}
	}
	if s.Gemini.APIKey == "" {
		s.Gemini.APIKey = os.Getenv("GEMINI_API_KEY")
	}
	if s.OpenAI.APIKey == "" {
		s.OpenAI.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if s.App.Provider == "" {
		s.App.Provider = ProviderGemini
	}
	switch s.App.Provider {
	case ProviderGemini, ProviderOpenAI:
	default:
		return nil, fmt.Errorf("app.provider: unknown provider %q", s.App.Provider)
	}
	switch s.Storage.Kind {
	case "", "local", "s3":
	default:
		return nil, fmt.Errorf("storage.kind: unknown kind %q", s.Storage.Kind)
	}
	return s, nil
}

// MaxListenDuration parses App.MaxListen; zero when unset.
func (s *Settings) MaxListenDuration() (time.Duration, error) {
	if s.App.MaxListen == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s.App.MaxListen)
	if err != nil {
		return 0, fmt.Errorf("app.max_listen: %w", err)
	}
	return d, nil
}

func loadOptional[T any](contextDir, service string, dst *T) error {
	v, err := LoadService[T](contextDir, service)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	*dst = *v
	return nil
}
