package cli

import (
	"os"
	"path/filepath"
)

// Paths is the on-disk layout of one context's data.
//
//	<base>/
//	├── kv/      history and profile store
//	└── clips/   archived speech clips
type Paths struct {
	// Base is the data root.
	Base string
}

// NewPaths returns the layout rooted at dir. An empty dir selects
// os.UserCacheDir()/<app>/<context>.
func NewPaths(app, context, dir string) (*Paths, error) {
	if dir != "" {
		return &Paths{Base: dir}, nil
	}
	cache, err := os.UserCacheDir()
	if err != nil {
		return nil, err
	}
	if context == "" {
		context = "default"
	}
	return &Paths{Base: filepath.Join(cache, app, context)}, nil
}

// KVDir returns the key-value store directory.
func (p *Paths) KVDir() string {
	return filepath.Join(p.Base, "kv")
}

// ClipsDir returns the clip archive directory.
func (p *Paths) ClipsDir() string {
	return filepath.Join(p.Base, "clips")
}

// EnsureKVDir creates the key-value store directory.
func (p *Paths) EnsureKVDir() error {
	return os.MkdirAll(p.KVDir(), 0755)
}

// EnsureClipsDir creates the clip archive directory.
func (p *Paths) EnsureClipsDir() error {
	return os.MkdirAll(p.ClipsDir(), 0755)
}
