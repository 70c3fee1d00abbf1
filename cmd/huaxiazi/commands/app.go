package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aymanbagabas/go-osc52/v2"
	"github.com/spf13/cobra"

	"github.com/haivivi/huaxiazi/cmd/huaxiazi/internal/config"
	"github.com/haivivi/huaxiazi/pkg/archive"
	"github.com/haivivi/huaxiazi/pkg/audio/player"
	"github.com/haivivi/huaxiazi/pkg/audio/resampler"
	"github.com/haivivi/huaxiazi/pkg/capture"
	"github.com/haivivi/huaxiazi/pkg/cli"
	"github.com/haivivi/huaxiazi/pkg/dialect"
	"github.com/haivivi/huaxiazi/pkg/kv"
	"github.com/haivivi/huaxiazi/pkg/provider"
	"github.com/haivivi/huaxiazi/pkg/session"
	"github.com/haivivi/huaxiazi/pkg/storage"
)

const appName = "huaxiazi"

// Test hooks. Each replaces the corresponding live dependency when set.
var (
	testProvider provider.Provider
	testKV       kv.Store
	testSinks    player.SinkFactory
	testSource   func() (capture.AudioSource, error)
	testClock    func() time.Time
)

// appOptions selects the optional parts of an app.
type appOptions struct {
	// dialect and mode override the context defaults when set.
	dialect string
	mode    string

	// outFile writes playback to a WAV file instead of the audio device.
	outFile string

	// save archives every synthesized clip.
	save bool

	// offline skips the model provider for commands that only read local
	// state.
	offline bool
}

// app wires one command invocation: configuration, provider, persistence,
// playback and the session controller.
type app struct {
	settings *config.Settings
	paths    *cli.Paths
	log      *slog.Logger
	provider provider.Provider
	store    kv.Store
	archive  *archive.Archive
	ctrl     *session.Controller
	out      io.Writer
	errOut   io.Writer

	// saved collects clips archived during this run.
	saved []archive.Clip

	closers []func() error
}

func openApp(cmd *cobra.Command, opts appOptions) (_ *app, err error) {
	ctx := cmd.Context()
	s, err := loadSettings()
	if err != nil {
		return nil, err
	}
	paths, err := cli.NewPaths(appName, s.Context, s.App.DataDir)
	if err != nil {
		return nil, fmt.Errorf("data dir: %w", err)
	}
	a := &app{
		settings: s,
		paths:    paths,
		log:      slog.Default(),
		out:      cmd.OutOrStdout(),
		errOut:   cmd.ErrOrStderr(),
	}
	defer func() {
		if err != nil {
			a.Close()
		}
	}()

	if !opts.offline {
		if a.provider, err = newProvider(ctx, s, a.log); err != nil {
			return nil, err
		}
	}
	if a.store, err = a.openStore(); err != nil {
		return nil, err
	}

	d, mode, err := selection(s, opts)
	if err != nil {
		return nil, err
	}

	var synth session.Synthesizer = a.provider
	if opts.save && !opts.offline {
		if a.archive, err = a.openArchive(ctx); err != nil {
			return nil, err
		}
		synth = &archivingSynth{Synthesizer: a.provider, archive: a.archive, app: a}
	}

	cfg := session.Config{
		Store:     a.store,
		Dialect:   d,
		Mode:      mode,
		Clipboard: a.copyToTerminal,
		OnNotice:  a.printNotice,
		Now:       testClock,
		Logger:    a.log,
	}
	if !opts.offline {
		maxListen, err := s.MaxListenDuration()
		if err != nil {
			return nil, err
		}
		cfg.Translator = a.provider
		cfg.Synthesizer = synth
		cfg.Player = &player.Player{
			Sinks:  a.sinks(opts.outFile),
			Output: resampler.Format{SampleRate: s.App.OutputRate, Stereo: s.App.Stereo},
			Gain:   s.App.Gain,
			Logger: a.log,
		}
		cfg.Recognizer = &capture.ModelRecognizer{
			Open:        a.audioSource,
			Transcriber: a.provider,
			MaxDuration: maxListen,
			Logger:      a.log,
		}
	}
	a.ctrl, err = session.New(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// Close releases the store and any other resources.
func (a *app) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	a.closers = nil
	return errors.Join(errs...)
}

func loadSettings() (*config.Settings, error) {
	cfg, err := GetConfig()
	if err != nil {
		return nil, err
	}
	name, dir, err := cfg.ResolveContext(contextName)
	if err != nil {
		return nil, err
	}
	return config.LoadSettings(name, dir)
}

func selection(s *config.Settings, opts appOptions) (dialect.Dialect, dialect.Mode, error) {
	d, mode := dialect.Cantonese, dialect.ToDialect
	var err error
	if v := firstNonEmpty(opts.dialect, s.App.Dialect); v != "" {
		if d, err = dialect.Parse(v); err != nil {
			return 0, "", err
		}
	}
	if v := firstNonEmpty(opts.mode, s.App.Mode); v != "" {
		if mode, err = dialect.ParseMode(v); err != nil {
			return 0, "", err
		}
	}
	return d, mode, nil
}

func firstNonEmpty(vs ...string) string {
	for _, v := range vs {
		if v != "" {
			return v
		}
	}
	return ""
}

func newProvider(ctx context.Context, s *config.Settings, log *slog.Logger) (provider.Provider, error) {
	if testProvider != nil {
		return testProvider, nil
	}
	switch s.App.Provider {
	case config.ProviderOpenAI:
		return provider.NewOpenAI(provider.OpenAIConfig{
			APIKey:          s.OpenAI.APIKey,
			BaseURL:         s.OpenAI.BaseURL,
			Model:           s.OpenAI.Model,
			SpeechModel:     s.OpenAI.TTSModel,
			TranscribeModel: s.OpenAI.TranscribeModel,
			Voice:           s.OpenAI.Voice,
			Timeout:         s.OpenAI.RequestTimeout(),
			RepairJSON:      s.App.RepairJSON,
			Logger:          log,
		})
	default:
		return provider.NewGemini(ctx, provider.GeminiConfig{
			APIKey:      s.Gemini.APIKey,
			Model:       s.Gemini.Model,
			SpeechModel: s.Gemini.TTSModel,
			Voice:       s.Gemini.Voice,
			Timeout:     s.Gemini.RequestTimeout(),
			RepairJSON:  s.App.RepairJSON,
			Logger:      log,
		})
	}
}

func (a *app) openStore() (kv.Store, error) {
	if testKV != nil {
		return testKV, nil
	}
	if ephemeral {
		return kv.NewMemory(), nil
	}
	if err := a.paths.EnsureKVDir(); err != nil {
		return nil, err
	}
	store, err := kv.NewBadger(kv.BadgerOptions{Dir: a.paths.KVDir(), Logger: a.log})
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, store.Close)
	return store, nil
}

func (a *app) openArchive(ctx context.Context) (*archive.Archive, error) {
	fs, err := openFileStore(ctx, a.settings, a.paths)
	if err != nil {
		return nil, err
	}
	ar := archive.New(fs)
	ar.Logger = a.log
	if testClock != nil {
		ar.Now = testClock
	}
	return ar, nil
}

// openFileStore builds the clip archive backend from storage.yaml.
func openFileStore(_ context.Context, s *config.Settings, paths *cli.Paths) (storage.FileStore, error) {
	st := s.Storage
	if st.Kind != "s3" {
		dir := st.Dir
		if dir == "" {
			if err := paths.EnsureClipsDir(); err != nil {
				return nil, err
			}
			dir = paths.ClipsDir()
		}
		return storage.NewLocal(dir)
	}
	if st.Bucket == "" {
		return nil, errors.New("storage.bucket is required for s3")
	}
	opts := s3.Options{
		Region:       firstNonEmpty(st.Region, "us-east-1"),
		UsePathStyle: st.PathStyle,
	}
	if st.Endpoint != "" {
		opts.BaseEndpoint = aws.String(st.Endpoint)
	}
	if st.AccessKey != "" {
		opts.Credentials = aws.NewCredentialsCache(aws.CredentialsProviderFunc(
			func(context.Context) (aws.Credentials, error) {
				return aws.Credentials{
					AccessKeyID:     st.AccessKey,
					SecretAccessKey: st.SecretKey,
					Source:          appName + " storage.yaml",
				}, nil
			}))
	}
	return storage.NewS3(s3.New(opts), st.Bucket, st.Prefix), nil
}

// sinks opens the audio device on first playback only.
func (a *app) sinks(outFile string) player.SinkFactory {
	if outFile != "" {
		return player.WAVFile(outFile)
	}
	if testSinks != nil {
		return testSinks
	}
	return player.SinkFunc(func(rate, channels int) (player.Sink, error) {
		f, err := deviceSinks()
		if err != nil {
			return nil, err
		}
		return f.OpenSink(rate, channels)
	})
}

func (a *app) audioSource() (capture.AudioSource, error) {
	if testSource != nil {
		return testSource()
	}
	return deviceSource()
}

// copyToTerminal places text on the clipboard of the controlling terminal
// through an OSC 52 escape sequence.
func (a *app) copyToTerminal(text string) error {
	_, err := osc52.New(text).WriteTo(a.errOut)
	return err
}

func (a *app) printNotice(n session.Notice) {
	cli.PrintWarning(a.errOut, "%s", n.Message)
}

// archivingSynth saves every synthesized payload before handing it on.
// Archive failures are reported but never fail the speech request.
type archivingSynth struct {
	session.Synthesizer
	archive *archive.Archive
	app     *app
}

func (s *archivingSynth) GenerateSpeech(ctx context.Context, text string, d dialect.Dialect) (string, error) {
	payload, err := s.Synthesizer.GenerateSpeech(ctx, text, d)
	if err != nil {
		return "", err
	}
	clip, err := s.archive.SavePayload(ctx, d, payload)
	if err != nil {
		s.app.log.Warn("archive clip failed", "dialect", d.Code(), "err", err)
		return payload, nil
	}
	s.app.saved = append(s.app.saved, clip)
	return payload, nil
}
