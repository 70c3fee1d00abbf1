// Package archive saves synthesized speech clips as WAV files.
//
// Clips are laid out as <dialect code>/<yyyymmdd>/<id>.wav in a
// storage.FileStore, so a bucket or directory can be browsed by dialect and
// day without an index.
package archive

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/haivivi/huaxiazi/pkg/audio/pcm"
	"github.com/haivivi/huaxiazi/pkg/dialect"
	"github.com/haivivi/huaxiazi/pkg/encoding"
	"github.com/haivivi/huaxiazi/pkg/storage"
)

// PayloadFormat is the layout of base64 speech payloads accepted by
// SavePayload.
const PayloadFormat = pcm.L16Mono24K

const (
	dayLayout = "20060102"
	ext       = ".wav"
)

// ErrNotClip is returned by ParsePath for paths outside the clip layout.
var ErrNotClip = errors.New("archive: not a clip path")

// Clip describes one archived clip.
type Clip struct {
	ID      string          `json:"id" yaml:"id"`
	Dialect dialect.Dialect `json:"dialect" yaml:"dialect"`
	Day     string          `json:"day" yaml:"day"`
	Path    string          `json:"path" yaml:"path"`
	Size    int64           `json:"size,omitempty" yaml:"size,omitempty"`
}

// Archive writes clips to a FileStore.
type Archive struct {
	Store storage.FileStore

	// Now dates new clips. Defaults to time.Now.
	Now func() time.Time

	Logger *slog.Logger
}

// New returns an archive over store.
func New(store storage.FileStore) *Archive {
	return &Archive{Store: store}
}

func (a *Archive) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

func (a *Archive) logger() *slog.Logger {
	if a.Logger != nil {
		return a.Logger
	}
	return slog.Default()
}

// ClipPath returns the storage path for a clip.
func ClipPath(d dialect.Dialect, day time.Time, id string) string {
	return path.Join(d.Code(), day.Format(dayLayout), id+ext)
}

// ParsePath recovers the clip fields from a storage path.
func ParsePath(p string) (Clip, error) {
	parts := strings.Split(p, "/")
	if len(parts) != 3 || !strings.HasSuffix(parts[2], ext) {
		return Clip{}, fmt.Errorf("%w: %q", ErrNotClip, p)
	}
	d, err := dialect.Parse(parts[0])
	if err != nil {
		return Clip{}, fmt.Errorf("%w: %q", ErrNotClip, p)
	}
	if _, err := time.Parse(dayLayout, parts[1]); err != nil {
		return Clip{}, fmt.Errorf("%w: %q", ErrNotClip, p)
	}
	return Clip{
		ID:      strings.TrimSuffix(parts[2], ext),
		Dialect: d,
		Day:     parts[1],
		Path:    p,
	}, nil
}

// Save writes buf as a WAV clip for dialect d.
func (a *Archive) Save(ctx context.Context, d dialect.Dialect, buf *pcm.Buffer) (Clip, error) {
	if !d.Valid() {
		return Clip{}, fmt.Errorf("archive: %w: %d", dialect.ErrUnknownDialect, int(d))
	}
	var wav bytes.Buffer
	if err := buf.WriteWAV(&wav); err != nil {
		return Clip{}, err
	}
	day := a.now()
	id := uuid.NewString()
	p := ClipPath(d, day, id)
	if err := storage.Put(ctx, a.Store, p, wav.Bytes()); err != nil {
		return Clip{}, fmt.Errorf("archive: save %s: %w", p, err)
	}
	a.logger().Debug("clip saved", "path", p, "bytes", wav.Len(), "duration", buf.Duration())
	return Clip{ID: id, Dialect: d, Day: day.Format(dayLayout), Path: p, Size: int64(wav.Len())}, nil
}

// SavePayload decodes a base64 speech payload and saves it as a clip.
func (a *Archive) SavePayload(ctx context.Context, d dialect.Dialect, payload string) (Clip, error) {
	data, err := encoding.DecodeBase64(payload)
	if err != nil {
		return Clip{}, fmt.Errorf("archive: %w", err)
	}
	buf, err := PayloadFormat.Decode(data)
	if err != nil {
		return Clip{}, fmt.Errorf("archive: %w", err)
	}
	return a.Save(ctx, d, buf)
}

// List returns the clips of dialect d, or of every dialect when d is zero.
// Files that do not follow the clip layout are skipped.
func (a *Archive) List(ctx context.Context, d dialect.Dialect) ([]Clip, error) {
	prefix := ""
	if d != 0 {
		if !d.Valid() {
			return nil, fmt.Errorf("archive: %w: %d", dialect.ErrUnknownDialect, int(d))
		}
		prefix = d.Code() + "/"
	}
	objs, err := a.Store.List(ctx, prefix)
	if err != nil {
		return nil, fmt.Errorf("archive: list: %w", err)
	}
	clips := make([]Clip, 0, len(objs))
	for _, o := range objs {
		c, err := ParsePath(o.Path)
		if err != nil {
			a.logger().Debug("skipping foreign file", "path", o.Path)
			continue
		}
		c.Size = o.Size
		clips = append(clips, c)
	}
	return clips, nil
}

// Open opens an archived clip for reading.
func (a *Archive) Open(ctx context.Context, p string) (io.ReadCloser, error) {
	if _, err := ParsePath(p); err != nil {
		return nil, err
	}
	return a.Store.Read(ctx, p)
}

// Delete removes an archived clip.
func (a *Archive) Delete(ctx context.Context, p string) error {
	if _, err := ParsePath(p); err != nil {
		return err
	}
	return a.Store.Delete(ctx, p)
}
