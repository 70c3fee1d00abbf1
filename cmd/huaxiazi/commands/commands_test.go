package commands

import (
	"bytes"
	"context"
	"encoding/binary"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/haivivi/huaxiazi/cmd/huaxiazi/internal/config"
	"github.com/haivivi/huaxiazi/pkg/audio/player"
	"github.com/haivivi/huaxiazi/pkg/capture"
	"github.com/haivivi/huaxiazi/pkg/dialect"
	"github.com/haivivi/huaxiazi/pkg/encoding"
	"github.com/haivivi/huaxiazi/pkg/kv"
	"github.com/haivivi/huaxiazi/pkg/translate"
)

type fakeProvider struct {
	mu         sync.Mutex
	translated []string
	spoken     []string
}

func (p *fakeProvider) Translate(_ context.Context, text string, d dialect.Dialect, mode dialect.Mode) (translate.Result, error) {
	p.mu.Lock()
	p.translated = append(p.translated, text)
	p.mu.Unlock()
	return translate.Result{
		TranslatedText: "译:" + text,
		Phonetic:       "nei5 hou2",
		Meaning:        string(mode),
		DialectName:    d.Label(),
	}, nil
}

func (p *fakeProvider) GenerateSpeech(_ context.Context, text string, _ dialect.Dialect) (string, error) {
	p.mu.Lock()
	p.spoken = append(p.spoken, text)
	p.mu.Unlock()
	// 10 ms of a ramp at 24 kHz.
	pcm := make([]byte, 480)
	for i := 0; i < 240; i++ {
		binary.LittleEndian.PutUint16(pcm[i*2:], uint16(i*100))
	}
	return encoding.StdBase64Data(pcm).String(), nil
}

func (p *fakeProvider) Transcribe(_ context.Context, wav []byte) (string, error) {
	return "你好", nil
}

type countingSink struct {
	mu      *sync.Mutex
	samples *int
}

func (s countingSink) Write(samples []int16) error {
	s.mu.Lock()
	*s.samples += len(samples)
	s.mu.Unlock()
	return nil
}

func (s countingSink) Close() error { return nil }

type frameSource struct {
	frames int
}

func (s *frameSource) ReadFrame() ([]byte, error) {
	if s.frames == 0 {
		return nil, io.EOF
	}
	s.frames--
	return make([]byte, 640), nil
}

func (s *frameSource) Close() error { return nil }

type testEnv struct {
	dir      string
	provider *fakeProvider
	played   int
	mu       sync.Mutex
}

func (e *testEnv) playedSamples() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.played
}

// setupTestEnv points the CLI at a temp config dir and replaces the model
// provider, the store and the audio device with fakes.
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	e := &testEnv{dir: t.TempDir(), provider: &fakeProvider{}}
	t.Setenv(config.EnvDir, e.dir)

	testProvider = e.provider
	testKV = kv.NewMemory()
	testSinks = player.SinkFunc(func(rate, channels int) (player.Sink, error) {
		return countingSink{mu: &e.mu, samples: &e.played}, nil
	})
	testSource = func() (capture.AudioSource, error) { return &frameSource{frames: 3}, nil }
	t.Cleanup(func() {
		testProvider = nil
		testKV = nil
		testSinks = nil
		testSource = nil
	})
	return e
}

// setupDataContext creates and selects a context whose data dir is a temp
// dir, so archived clips stay inside the test.
func setupDataContext(t *testing.T) string {
	t.Helper()
	data := t.TempDir()
	mustRun(t, "config", "add-context", "test")
	mustRun(t, "config", "set", "test", "app", "data_dir", data)
	mustRun(t, "config", "use-context", "test")
	return data
}

func runCmd(t *testing.T, args ...string) (stdout, stderr string, exitCode int) {
	return runCmdIn(t, strings.NewReader(""), args...)
}

func runCmdIn(t *testing.T, stdin io.Reader, args ...string) (stdout, stderr string, exitCode int) {
	t.Helper()

	globalConfig = nil
	configLoadErr = nil

	var outBuf, errBuf bytes.Buffer
	rootCmd.SetOut(&outBuf)
	rootCmd.SetErr(&errBuf)
	rootCmd.SetIn(stdin)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()

	stdout = outBuf.String()
	stderr = errBuf.String()
	if err != nil {
		exitCode = 1
		stderr += err.Error()
	}

	resetFlags(rootCmd)
	listenTranslate = false
	return
}

func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	stdout, stderr, code := runCmd(t, args...)
	if code != 0 {
		t.Fatalf("%v: exit %d: %s", args, code, stderr)
	}
	return stdout
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		f.Changed = false
		f.Value.Set(f.DefValue)
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}

func TestTranslateCard(t *testing.T) {
	e := setupTestEnv(t)

	stdout := mustRun(t, "translate", "-d", "sichuanese", "你在", "做什么")
	if !strings.Contains(stdout, "译:你在 做什么") {
		t.Errorf("card missing translation:\n%s", stdout)
	}
	if !strings.Contains(stdout, dialect.Sichuanese.Label()) {
		t.Errorf("card missing dialect label:\n%s", stdout)
	}
	if len(e.provider.translated) != 1 {
		t.Errorf("translated %d times", len(e.provider.translated))
	}
}

func TestTranslateJSONAndHistory(t *testing.T) {
	setupTestEnv(t)

	stdout := mustRun(t, "translate", "-o", "json", "-m", "mandarin", "食咗飯未")
	if !strings.Contains(stdout, `"translatedText": "译:食咗飯未"`) {
		t.Errorf("json output = %s", stdout)
	}
	if !strings.Contains(stdout, `"mode": "TO_MANDARIN"`) {
		t.Errorf("mode missing: %s", stdout)
	}

	mustRun(t, "translate", "第二句")
	stdout = mustRun(t, "history", "-o", "json", "-q", ".[0].originalText")
	if strings.TrimSpace(stdout) != `"第二句"` {
		t.Errorf("newest history item = %s", stdout)
	}
	stdout = mustRun(t, "history", "-o", "json", "-q", "length")
	if strings.TrimSpace(stdout) != "2" {
		t.Errorf("history length = %s", stdout)
	}
	stdout = mustRun(t, "history")
	if !strings.Contains(stdout, "TRANSLATION") || !strings.Contains(stdout, "译:第二句") {
		t.Errorf("history table:\n%s", stdout)
	}
}

func TestTranslateEmptyInput(t *testing.T) {
	e := setupTestEnv(t)

	_, stderr, code := runCmd(t, "translate", "  ")
	if code == 0 {
		t.Fatal("expected failure for blank input")
	}
	if !strings.Contains(stderr, translate.ErrEmptyInput.Error()) {
		t.Errorf("stderr = %s", stderr)
	}
	if len(e.provider.translated) != 0 {
		t.Error("blank input reached the provider")
	}
}

func TestTranslateUnknownDialect(t *testing.T) {
	setupTestEnv(t)

	_, stderr, code := runCmd(t, "translate", "-d", "klingon", "你好")
	if code == 0 || !strings.Contains(stderr, "unknown dialect") {
		t.Errorf("exit %d, stderr = %s", code, stderr)
	}
}

func TestTranslateBatch(t *testing.T) {
	e := setupTestEnv(t)

	path := filepath.Join(t.TempDir(), "phrases.yaml")
	batch := "dialect: hakka\nphrases:\n  - 你好\n  - \"  \"\n  - 谢谢\n"
	if err := os.WriteFile(path, []byte(batch), 0644); err != nil {
		t.Fatal(err)
	}
	stdout := mustRun(t, "translate", "-f", path, "-o", "json", "-q", "[.[].dialect] | unique")
	if !strings.Contains(stdout, `"hakka"`) {
		t.Errorf("dialects = %s", stdout)
	}
	if len(e.provider.translated) != 2 {
		t.Errorf("translated %v", e.provider.translated)
	}
}

func TestTranslateSpeakToFile(t *testing.T) {
	e := setupTestEnv(t)

	out := filepath.Join(t.TempDir(), "speech.wav")
	mustRun(t, "translate", "--speak", "--out", out, "你好")
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if len(data) <= 44 || string(data[:4]) != "RIFF" {
		t.Errorf("not a WAV file: %d bytes", len(data))
	}
	if len(e.provider.spoken) != 1 || e.provider.spoken[0] != "译:你好" {
		t.Errorf("spoken = %v", e.provider.spoken)
	}
}

func TestSpeakSaveAndClips(t *testing.T) {
	e := setupTestEnv(t)
	data := setupDataContext(t)

	_, stderr, code := runCmd(t, "speak", "--save", "-d", "cantonese", "你好")
	if code != 0 {
		t.Fatalf("speak: %s", stderr)
	}
	if e.playedSamples() != 240 {
		t.Errorf("played %d samples, want 240", e.playedSamples())
	}
	if !strings.Contains(stderr, "Saved cantonese/") {
		t.Errorf("stderr = %s", stderr)
	}

	stdout := mustRun(t, "clips", "-o", "json", "-q", ".[0].path")
	clip := strings.Trim(strings.TrimSpace(stdout), `"`)
	if !strings.HasPrefix(clip, "cantonese/") || !strings.HasSuffix(clip, ".wav") {
		t.Fatalf("clip path = %q", clip)
	}
	if _, err := os.Stat(filepath.Join(data, "clips", filepath.FromSlash(clip))); err != nil {
		t.Errorf("clip not on disk: %v", err)
	}

	exported := filepath.Join(t.TempDir(), "out.wav")
	mustRun(t, "clips", "export", clip, exported)
	if b, err := os.ReadFile(exported); err != nil || string(b[:4]) != "RIFF" {
		t.Errorf("export: %v", err)
	}

	mustRun(t, "clips", "rm", clip)
	stdout = mustRun(t, "clips")
	if !strings.Contains(stdout, "No clips") {
		t.Errorf("after rm:\n%s", stdout)
	}
}

func TestSpeakLastTranslation(t *testing.T) {
	e := setupTestEnv(t)

	mustRun(t, "translate", "-d", "hokkien", "吃饱了吗")
	mustRun(t, "speak")
	if len(e.provider.spoken) != 1 || e.provider.spoken[0] != "译:吃饱了吗" {
		t.Errorf("spoken = %v", e.provider.spoken)
	}
}

func TestListenTranslate(t *testing.T) {
	setupTestEnv(t)

	// A stdin that never delivers keeps the recording running until the
	// source is exhausted.
	r, w := io.Pipe()
	defer w.Close()
	stdout, stderr, code := runCmdIn(t, r, "listen", "--translate", "-o", "json")
	if code != 0 {
		t.Fatalf("listen: %s", stderr)
	}
	if !strings.Contains(stdout, `"text": "你好"`) || !strings.Contains(stdout, `"translatedText": "译:你好"`) {
		t.Errorf("listen output = %s", stdout)
	}
}

func TestHistoryClear(t *testing.T) {
	setupTestEnv(t)

	mustRun(t, "translate", "你好")
	mustRun(t, "history", "clear")
	stdout := mustRun(t, "history")
	if !strings.Contains(stdout, "No history") {
		t.Errorf("history after clear:\n%s", stdout)
	}
}

func TestHistoryFilter(t *testing.T) {
	setupTestEnv(t)

	mustRun(t, "translate", "-d", "gan", "一")
	mustRun(t, "translate", "-d", "jin", "二")
	mustRun(t, "translate", "-d", "gan", "三")
	stdout := mustRun(t, "history", "-d", "gan", "-n", "1", "-o", "json", "-q", "map(.originalText)")
	if strings.Join(strings.Fields(stdout), "") != `["三"]` {
		t.Errorf("filtered history = %s", stdout)
	}
}

func TestProfile(t *testing.T) {
	setupTestEnv(t)

	stdout := mustRun(t, "profile")
	if !strings.Contains(stdout, "乡音守护人") {
		t.Errorf("default profile:\n%s", stdout)
	}

	mustRun(t, "profile", "set", "nickname", "阿强")
	stdout = mustRun(t, "profile", "-o", "json", "-q", ".nickname")
	if strings.TrimSpace(stdout) != `"阿强"` {
		t.Errorf("nickname = %s", stdout)
	}

	_, stderr, code := runCmd(t, "profile", "set", "shoe_size", "42")
	if code == 0 || !strings.Contains(stderr, "unknown profile field") {
		t.Errorf("exit %d, stderr = %s", code, stderr)
	}
}

func TestDialects(t *testing.T) {
	setupTestEnv(t)

	stdout := mustRun(t, "dialects", "-o", "json", "-q", "length")
	if strings.TrimSpace(stdout) != "15" {
		t.Errorf("dialect count = %s", stdout)
	}
	stdout = mustRun(t, "dialects")
	if !strings.Contains(stdout, "cantonese") || !strings.Contains(stdout, "CATEGORY") {
		t.Errorf("dialects table:\n%s", stdout)
	}
}

func TestAtlas(t *testing.T) {
	e := setupTestEnv(t)

	entry := dialect.Atlas()[0]
	stdout := mustRun(t, "atlas")
	if !strings.Contains(stdout, entry.Name) {
		t.Errorf("atlas list:\n%s", stdout)
	}
	stdout = mustRun(t, "atlas", "show", entry.Name)
	if !strings.Contains(stdout, entry.ClassicPhrase) {
		t.Errorf("atlas card:\n%s", stdout)
	}
	mustRun(t, "atlas", "speak", entry.Name)
	if len(e.provider.spoken) != 1 || e.provider.spoken[0] != entry.ClassicPhrase {
		t.Errorf("spoken = %v", e.provider.spoken)
	}

	_, _, code := runCmd(t, "atlas", "show", "不存在")
	if code == 0 {
		t.Error("expected failure for unknown entry")
	}
}

func TestConfigContexts(t *testing.T) {
	setupTestEnv(t)

	stdout := mustRun(t, "config", "list-contexts")
	if !strings.Contains(stdout, "No contexts") {
		t.Errorf("empty list:\n%s", stdout)
	}

	mustRun(t, "config", "add-context", "dev")
	_, stderr, code := runCmd(t, "config", "add-context", "dev")
	if code == 0 || !strings.Contains(stderr, "already exists") {
		t.Errorf("duplicate: exit %d, %s", code, stderr)
	}

	mustRun(t, "config", "use-context", "dev")
	if got := strings.TrimSpace(mustRun(t, "config", "current-context")); got != "dev" {
		t.Errorf("current-context = %q", got)
	}

	mustRun(t, "config", "set", "dev", "app", "gain", "0.5")
	mustRun(t, "config", "set", "dev", "app", "repair_json", "true")
	stdout = mustRun(t, "config", "set", "dev", "gemini", "api_key", "AIzaSyExample1234")
	if strings.Contains(stdout, "AIzaSyExample1234") {
		t.Errorf("api key printed in clear: %s", stdout)
	}
	if got := strings.TrimSpace(mustRun(t, "config", "get", "dev", "app", "gain")); got != "0.5" {
		t.Errorf("gain = %q", got)
	}

	s, err := config.LoadSettings("dev", filepath.Join(os.Getenv(config.EnvDir), "contexts", "dev"))
	if err != nil {
		t.Fatal(err)
	}
	if s.App.Gain != 0.5 || !s.App.RepairJSON || s.Gemini.APIKey != "AIzaSyExample1234" {
		t.Errorf("settings = %+v", s)
	}

	stdout = mustRun(t, "config", "list-contexts")
	if !strings.Contains(stdout, "*") || !strings.Contains(stdout, "app, gemini") {
		t.Errorf("list:\n%s", stdout)
	}

	mustRun(t, "config", "delete-context", "dev")
	if got := mustRun(t, "config", "current-context"); !strings.Contains(got, "No current context") {
		t.Errorf("current after delete = %q", got)
	}
}

func TestConfigInvalidNames(t *testing.T) {
	setupTestEnv(t)
	mustRun(t, "config", "add-context", "dev")

	for _, args := range [][]string{
		{"config", "set", "dev", "../x", "k", "v"},
		{"config", "set", "dev", ".hidden", "k", "v"},
		{"config", "set", "missing", "app", "k", "v"},
		{"config", "get", "dev", "app", "nothing"},
	} {
		if _, _, code := runCmd(t, args...); code == 0 {
			t.Errorf("%v: expected failure", args)
		}
	}
}

func TestUnknownContext(t *testing.T) {
	setupTestEnv(t)

	_, stderr, code := runCmd(t, "-c", "nowhere", "translate", "你好")
	if code == 0 || !strings.Contains(stderr, "not found") {
		t.Errorf("exit %d, stderr = %s", code, stderr)
	}
}

func TestBadOutputFormat(t *testing.T) {
	setupTestEnv(t)

	if _, _, code := runCmd(t, "dialects", "-o", "xml"); code == 0 {
		t.Error("expected failure for unknown output format")
	}
}

func TestVersion(t *testing.T) {
	setupTestEnv(t)

	stdout := mustRun(t, "version")
	if !strings.Contains(stdout, "huaxiazi") {
		t.Fatalf("expected 'huaxiazi', got: %s", stdout)
	}
	stdout = mustRun(t, "version", "-o", "json")
	if !strings.Contains(stdout, `"version"`) {
		t.Fatalf("expected JSON, got: %s", stdout)
	}
}

func TestConfigValue(t *testing.T) {
	tests := []struct {
		in   string
		want any
	}{
		{"true", true},
		{"false", false},
		{"24000", int64(24000)},
		{"0.8", 0.8},
		{"sk-abc", "sk-abc"},
		{"1e5", "1e5"},
		{"NaN", "NaN"},
		{"", ""},
	}
	for _, tc := range tests {
		if got := configValue(tc.in); got != tc.want {
			t.Errorf("configValue(%q) = %#v, want %#v", tc.in, got, tc.want)
		}
	}
}
