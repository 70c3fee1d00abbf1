// Package session holds the state of one translation session and
// orchestrates translation, speech, capture and persistence.
//
// The Controller owns the current result, the in-flight flags, the selected
// dialect and direction, the history and the profile. Every action is a
// single blocking call. Overlapping translations are neither queued nor
// cancelled: whichever completes last becomes the current result.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/haivivi/huaxiazi/pkg/audio/player"
	"github.com/haivivi/huaxiazi/pkg/capture"
	"github.com/haivivi/huaxiazi/pkg/dialect"
	"github.com/haivivi/huaxiazi/pkg/kv"
	"github.com/haivivi/huaxiazi/pkg/translate"
)

var (
	// ErrNoResult is returned by SpeakCurrent when nothing is displayed.
	ErrNoResult = errors.New("session: no current result")

	// ErrNoRecognizer is returned by StartListening without a Recognizer.
	ErrNoRecognizer = errors.New("session: speech capture unavailable")
)

// Translator produces a translation result.
type Translator interface {
	Translate(ctx context.Context, text string, d dialect.Dialect, mode dialect.Mode) (translate.Result, error)
}

// Synthesizer produces a base64 speech payload.
type Synthesizer interface {
	GenerateSpeech(ctx context.Context, text string, d dialect.Dialect) (string, error)
}

// AudioPlayer starts playback of a speech payload.
type AudioPlayer interface {
	Play(ctx context.Context, payload string) (*player.Playback, error)
}

// Config configures a Controller.
type Config struct {
	Translator  Translator
	Synthesizer Synthesizer
	Player      AudioPlayer

	// Recognizer enables StartListening. Optional.
	Recognizer capture.Recognizer

	// Store persists history and profile. Defaults to an in-memory store.
	Store kv.Store

	// Dialect and Mode are the initial selection. Defaults are Cantonese
	// and ToDialect.
	Dialect dialect.Dialect
	Mode    dialect.Mode

	// Notices overrides notice display times; zero fields use defaults.
	Notices NoticeDurations

	// Clipboard receives copied text. Optional.
	Clipboard func(text string) error

	// OnNotice is called outside the controller lock for every notice.
	OnNotice func(Notice)

	// Now defaults to time.Now.
	Now func() time.Time

	Logger *slog.Logger
}

// State is a snapshot of the controller.
type State struct {
	Dialect   dialect.Dialect   `json:"dialect" yaml:"dialect"`
	Mode      dialect.Mode      `json:"mode" yaml:"mode"`
	Input     string            `json:"input" yaml:"input"`
	Result    *translate.Result `json:"result,omitempty" yaml:"result,omitempty"`
	Loading   bool              `json:"loading" yaml:"loading"`
	Speaking  bool              `json:"speaking" yaml:"speaking"`
	Listening bool              `json:"listening" yaml:"listening"`
	History   []HistoryItem     `json:"history" yaml:"history"`
	Profile   Profile           `json:"profile" yaml:"profile"`
	Notice    *Notice           `json:"notice,omitempty" yaml:"notice,omitempty"`
}

// Controller is the session state machine. It is safe for concurrent use.
type Controller struct {
	cfg     Config
	store   kv.Store
	log     *slog.Logger
	now     func() time.Time
	notices NoticeDurations

	mu        sync.Mutex
	dialect   dialect.Dialect
	mode      dialect.Mode
	input     string
	result    *translate.Result
	loading   int
	speaking  int
	listening bool
	history   []HistoryItem
	profile   Profile
	notice    *Notice
}

// New creates a controller and loads persisted history and profile.
// Missing records yield an empty history and the default profile; corrupt
// records are logged and replaced by the same defaults.
func New(ctx context.Context, cfg Config) (*Controller, error) {
	if cfg.Dialect == 0 {
		cfg.Dialect = dialect.Cantonese
	}
	if !cfg.Dialect.Valid() {
		return nil, fmt.Errorf("session: %w: %d", dialect.ErrUnknownDialect, int(cfg.Dialect))
	}
	if cfg.Mode == "" {
		cfg.Mode = dialect.ToDialect
	}
	if !cfg.Mode.Valid() {
		return nil, fmt.Errorf("session: %w: %q", dialect.ErrUnknownMode, string(cfg.Mode))
	}
	c := &Controller{
		cfg:     cfg,
		store:   cfg.Store,
		log:     cfg.Logger,
		now:     cfg.Now,
		notices: mergeDurations(cfg.Notices),
		dialect: cfg.Dialect,
		mode:    cfg.Mode,
		profile: DefaultProfile(),
	}
	if c.store == nil {
		c.store = kv.NewMemory()
	}
	if c.log == nil {
		c.log = slog.Default()
	}
	if c.now == nil {
		c.now = time.Now
	}
	c.load(ctx)
	return c, nil
}

func mergeDurations(d NoticeDurations) NoticeDurations {
	def := DefaultNoticeDurations()
	if d.TranslateFailed > 0 {
		def.TranslateFailed = d.TranslateFailed
	}
	if d.SpeechFailed > 0 {
		def.SpeechFailed = d.SpeechFailed
	}
	if d.Copied > 0 {
		def.Copied = d.Copied
	}
	return def
}

// Translate translates text with the current selection. Blank text returns
// ErrEmptyInput without contacting the model. On success the result becomes
// current and is prepended to the history. On failure a notice is shown
// and the previous result is kept.
func (c *Controller) Translate(ctx context.Context, text string) (translate.Result, error) {
	if translate.Blank(text) {
		return translate.Result{}, translate.ErrEmptyInput
	}
	c.mu.Lock()
	d, mode := c.dialect, c.mode
	c.loading++
	c.mu.Unlock()

	start := c.now()
	res, err := c.cfg.Translator.Translate(ctx, text, d, mode)

	c.mu.Lock()
	c.loading--
	if err != nil {
		n := c.setNotice(NoticeTranslateFailed, c.notices.TranslateFailed)
		c.mu.Unlock()
		c.log.Warn("translate failed", "dialect", d.Code(), "mode", mode, "err", err)
		c.emit(n)
		return translate.Result{}, err
	}
	current := res
	c.result = &current
	c.history = prepend(c.history, newHistoryItem(res, text, d, mode, c.now()))
	c.saveHistory(ctx)
	c.mu.Unlock()

	c.log.Debug("translated", "dialect", d.Code(), "mode", mode, "elapsed", c.now().Sub(start))
	return res, nil
}

// TranslateInput translates the current input text.
func (c *Controller) TranslateInput(ctx context.Context) (translate.Result, error) {
	c.mu.Lock()
	text := c.input
	c.mu.Unlock()
	return c.Translate(ctx, text)
}

// Speak synthesizes text in the selected dialect and starts playback. It
// returns once playback has started. Any failure shows a notice.
func (c *Controller) Speak(ctx context.Context, text string) (*player.Playback, error) {
	c.mu.Lock()
	d := c.dialect
	c.mu.Unlock()
	return c.speak(ctx, text, d)
}

// SpeakCurrent speaks the translated text of the current result.
func (c *Controller) SpeakCurrent(ctx context.Context) (*player.Playback, error) {
	c.mu.Lock()
	res, d := c.result, c.dialect
	c.mu.Unlock()
	if res == nil {
		return nil, ErrNoResult
	}
	return c.speak(ctx, res.TranslatedText, d)
}

// SpeakAtlas speaks the classic phrase of the named atlas entry in that
// entry's own dialect.
func (c *Controller) SpeakAtlas(ctx context.Context, name string) (*player.Playback, error) {
	item, err := dialect.LookupAtlas(name)
	if err != nil {
		return nil, err
	}
	return c.speak(ctx, item.ClassicPhrase, item.Dialect)
}

func (c *Controller) speak(ctx context.Context, text string, d dialect.Dialect) (*player.Playback, error) {
	if translate.Blank(text) {
		return nil, translate.ErrEmptyInput
	}
	c.mu.Lock()
	c.speaking++
	c.mu.Unlock()

	pb, err := c.play(ctx, text, d)

	c.mu.Lock()
	c.speaking--
	if err != nil {
		n := c.setNotice(NoticeSpeechFailed, c.notices.SpeechFailed)
		c.mu.Unlock()
		c.log.Warn("speech failed", "dialect", d.Code(), "err", err)
		c.emit(n)
		return nil, err
	}
	c.mu.Unlock()
	return pb, nil
}

func (c *Controller) play(ctx context.Context, text string, d dialect.Dialect) (*player.Playback, error) {
	payload, err := c.cfg.Synthesizer.GenerateSpeech(ctx, text, d)
	if err != nil {
		return nil, err
	}
	return c.cfg.Player.Play(ctx, payload)
}

// StartListening clears the input and starts speech capture. The returned
// channel receives the transcript after it has been applied: a successful
// transcript becomes the input text.
func (c *Controller) StartListening(ctx context.Context) (<-chan capture.Transcript, error) {
	rec := c.cfg.Recognizer
	if rec == nil {
		return nil, ErrNoRecognizer
	}
	c.mu.Lock()
	c.input = ""
	c.listening = true
	c.mu.Unlock()

	if err := rec.Start(ctx); err != nil {
		c.mu.Lock()
		c.listening = false
		c.mu.Unlock()
		return nil, err
	}
	done := rec.Done()
	out := make(chan capture.Transcript, 1)
	go func() {
		t := <-done
		c.mu.Lock()
		c.listening = false
		if t.Err == nil {
			c.input = t.Text
		}
		c.mu.Unlock()
		if t.Err != nil && !errors.Is(t.Err, capture.ErrCanceled) {
			c.log.Warn("speech capture failed", "err", t.Err)
		}
		out <- t
	}()
	return out, nil
}

// StopListening ends speech capture.
func (c *Controller) StopListening() error {
	if c.cfg.Recognizer == nil {
		return ErrNoRecognizer
	}
	return c.cfg.Recognizer.Stop()
}

// SetInput replaces the input text.
func (c *Controller) SetInput(text string) {
	c.mu.Lock()
	c.input = text
	c.mu.Unlock()
}

// SetDialect changes the selected dialect and clears the current result.
func (c *Controller) SetDialect(d dialect.Dialect) error {
	if !d.Valid() {
		return fmt.Errorf("session: %w: %d", dialect.ErrUnknownDialect, int(d))
	}
	c.mu.Lock()
	c.dialect = d
	c.result = nil
	c.mu.Unlock()
	return nil
}

// SetMode changes the translation direction and clears the current result.
func (c *Controller) SetMode(m dialect.Mode) error {
	if !m.Valid() {
		return fmt.Errorf("session: %w: %q", dialect.ErrUnknownMode, string(m))
	}
	c.mu.Lock()
	c.mode = m
	c.result = nil
	c.mu.Unlock()
	return nil
}

// Result returns the current result, if any.
func (c *Controller) Result() (translate.Result, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.result == nil {
		return translate.Result{}, false
	}
	return *c.result, true
}

// History returns the saved translations, newest first.
func (c *Controller) History() []HistoryItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]HistoryItem(nil), c.history...)
}

// ClearHistory removes all history items and the persisted record.
func (c *Controller) ClearHistory(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.history = nil
	if err := c.store.Delete(ctx, KeyHistory); err != nil {
		return fmt.Errorf("session: clear history: %w", err)
	}
	return nil
}

// Profile returns the user profile.
func (c *Controller) Profile() Profile {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.profile
}

// UpdateProfile sets one profile field and persists the profile.
func (c *Controller) UpdateProfile(ctx context.Context, field, value string) (Profile, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p := c.profile
	if err := p.Set(field, value); err != nil {
		return c.profile, err
	}
	c.profile = p
	if err := kv.Save(context.WithoutCancel(ctx), c.store, KeyProfile, p); err != nil {
		c.log.Warn("save profile failed", "err", err)
	}
	return p, nil
}

// Copy hands text to the clipboard and shows the copied notice.
func (c *Controller) Copy(text string) error {
	if c.cfg.Clipboard != nil {
		if err := c.cfg.Clipboard(text); err != nil {
			c.log.Warn("copy failed", "err", err)
			return err
		}
	}
	c.mu.Lock()
	n := c.setNotice(NoticeCopied, c.notices.Copied)
	c.mu.Unlock()
	c.emit(n)
	return nil
}

// Notice returns the visible notice, or nil once it has expired.
func (c *Controller) Notice() *Notice {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.visibleNotice()
}

func (c *Controller) visibleNotice() *Notice {
	if c.notice == nil || !c.now().Before(c.notice.Expires) {
		return nil
	}
	n := *c.notice
	return &n
}

// Snapshot returns a copy of the whole state.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := State{
		Dialect:   c.dialect,
		Mode:      c.mode,
		Input:     c.input,
		Loading:   c.loading > 0,
		Speaking:  c.speaking > 0,
		Listening: c.listening,
		History:   append([]HistoryItem(nil), c.history...),
		Profile:   c.profile,
		Notice:    c.visibleNotice(),
	}
	if c.result != nil {
		r := *c.result
		s.Result = &r
	}
	return s
}

// setNotice replaces the current notice. Callers hold c.mu and pass the
// returned value to emit after unlocking.
func (c *Controller) setNotice(msg string, ttl time.Duration) Notice {
	n := Notice{Message: msg, TTL: ttl, Expires: c.now().Add(ttl)}
	c.notice = &n
	return n
}

func (c *Controller) emit(n Notice) {
	if c.cfg.OnNotice != nil {
		c.cfg.OnNotice(n)
	}
}
