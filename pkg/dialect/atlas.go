package dialect

import (
	_ "embed"
	"errors"
	"fmt"
	"sync"

	"github.com/goccy/go-yaml"
)

// ErrAtlasNotFound is returned by LookupAtlas for unknown entry names.
var ErrAtlasNotFound = errors.New("dialect: atlas entry not found")

// AtlasItem describes one dialect family. Immutable reference data.
type AtlasItem struct {
	Name           string   `yaml:"name" json:"name"`
	Dialect        Dialect  `yaml:"dialect" json:"dialect"`
	Region         string   `yaml:"region" json:"region"`
	Description    string   `yaml:"description" json:"description"`
	ClassicPhrase  string   `yaml:"classic_phrase" json:"classicPhrase"`
	ClassicMeaning string   `yaml:"classic_meaning" json:"classicMeaning"`
	Features       []string `yaml:"features" json:"features"`
	History        string   `yaml:"history" json:"history"`
}

//go:embed atlas.yaml
var atlasYAML []byte

var (
	atlasOnce  sync.Once
	atlasItems []AtlasItem
	atlasErr   error
)

func loadAtlas() ([]AtlasItem, error) {
	atlasOnce.Do(func() {
		var items []AtlasItem
		if err := yaml.Unmarshal(atlasYAML, &items); err != nil {
			atlasErr = fmt.Errorf("dialect: parse atlas: %w", err)
			return
		}
		atlasItems = items
	})
	return atlasItems, atlasErr
}

// Atlas returns a copy of the static atlas table.
func Atlas() []AtlasItem {
	items, err := loadAtlas()
	if err != nil {
		// The table is embedded at build time; a parse failure is a bug.
		panic(err)
	}
	out := make([]AtlasItem, len(items))
	for i, it := range items {
		it.Features = append([]string(nil), it.Features...)
		out[i] = it
	}
	return out
}

// LookupAtlas returns the atlas entry with the given name.
func LookupAtlas(name string) (AtlasItem, error) {
	for _, it := range Atlas() {
		if it.Name == name {
			return it, nil
		}
	}
	return AtlasItem{}, fmt.Errorf("%w: %q", ErrAtlasNotFound, name)
}
