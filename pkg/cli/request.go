package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadRequest loads a YAML or JSON file into v.
func LoadRequest(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}
	return ParseRequest(data, path, v)
}

// ParseRequest parses data by file extension, trying YAML then JSON when
// the extension is unknown.
func ParseRequest(data []byte, filename string, v any) error {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, v); err != nil {
			return fmt.Errorf("failed to parse YAML: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, v); err != nil {
			return fmt.Errorf("failed to parse JSON: %w", err)
		}
	default:
		if err := yaml.Unmarshal(data, v); err != nil {
			if err2 := json.Unmarshal(data, v); err2 != nil {
				return fmt.Errorf("failed to parse file (tried YAML and JSON)")
			}
		}
	}
	return nil
}

// Batch is a file of phrases to translate in one run.
//
//	dialect: cantonese
//	mode: to-dialect
//	phrases:
//	  - 你吃饭了吗
//	  - 今天天气很好
type Batch struct {
	Dialect string   `yaml:"dialect" json:"dialect"`
	Mode    string   `yaml:"mode" json:"mode"`
	Phrases []string `yaml:"phrases" json:"phrases"`
}

// LoadBatch reads a batch file. Blank phrases are dropped.
func LoadBatch(path string) (*Batch, error) {
	var b Batch
	if err := LoadRequest(path, &b); err != nil {
		return nil, err
	}
	phrases := b.Phrases[:0]
	for _, p := range b.Phrases {
		if strings.TrimSpace(p) != "" {
			phrases = append(phrases, p)
		}
	}
	b.Phrases = phrases
	if len(b.Phrases) == 0 {
		return nil, fmt.Errorf("%s: no phrases", path)
	}
	return &b, nil
}
