package commands

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/haivivi/huaxiazi/pkg/cli"
	"github.com/haivivi/huaxiazi/pkg/translate"
)

var (
	translateDialect string
	translateMode    string
	translateFile    string
	translateSpeak   bool
	translateCopy    bool
	translateSave    bool
	translateOut     string
)

var translateCmd = &cobra.Command{
	Use:     "translate [text...]",
	Aliases: []string{"t"},
	Short:   "Translate between Mandarin and a regional dialect",
	Long: `Translate text into a regional dialect, or dialect text into Mandarin.

The result carries the translation, a phonetic annotation and a short
explanation, and is saved to the history.

Examples:
  huaxiazi translate 今天天气很好
  huaxiazi translate -d sichuanese --speak 你在做什么
  huaxiazi translate -d cantonese -m mandarin 食咗飯未
  huaxiazi translate -f phrases.yaml -o json
  huaxiazi translate -o json -q .result.phonetic 谢谢`,
	RunE: runTranslate,
}

func runTranslate(cmd *cobra.Command, args []string) error {
	opts := appOptions{
		dialect: translateDialect,
		mode:    translateMode,
		outFile: translateOut,
		save:    translateSave,
	}
	phrases := []string{strings.Join(args, " ")}
	if translateFile != "" {
		if len(args) > 0 {
			return errors.New("give either text arguments or --file, not both")
		}
		b, err := cli.LoadBatch(translateFile)
		if err != nil {
			return err
		}
		opts.dialect = firstNonEmpty(opts.dialect, b.Dialect)
		opts.mode = firstNonEmpty(opts.mode, b.Mode)
		phrases = b.Phrases
	}

	a, err := openApp(cmd, opts)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()
	var (
		results []translation
		failed  int
	)
	for _, text := range phrases {
		res, err := a.ctrl.Translate(ctx, text)
		if err != nil {
			if len(phrases) == 1 || errors.Is(err, translate.ErrEmptyInput) {
				return err
			}
			failed++
			a.log.Warn("translate failed", "input", text, "err", err)
			continue
		}
		st := a.ctrl.Snapshot()
		t := translation{Input: text, Dialect: st.Dialect, Mode: st.Mode, Result: res}
		results = append(results, t)

		if tableOutput() {
			printCard(cmd.OutOrStdout(), resultCard(t))
		}
		if translateSpeak {
			if err := speakAndWait(cmd, a, res.TranslatedText); err != nil {
				return err
			}
		}
	}

	if translateCopy && len(results) > 0 {
		if err := a.ctrl.Copy(results[len(results)-1].Result.TranslatedText); err != nil {
			return fmt.Errorf("copy: %w", err)
		}
	}

	if !tableOutput() {
		var v any = results
		if len(results) == 1 && translateFile == "" {
			v = results[0]
		}
		if err := output(cmd, v); err != nil {
			return err
		}
	}
	printSavedClips(cmd, a)
	if failed > 0 {
		return fmt.Errorf("%d of %d phrases failed", failed, len(phrases))
	}
	return nil
}

func init() {
	f := translateCmd.Flags()
	f.StringVarP(&translateDialect, "dialect", "d", "", "dialect code or label (default: app.dialect or cantonese)")
	f.StringVarP(&translateMode, "mode", "m", "", "direction: to-dialect or to-mandarin")
	f.StringVarP(&translateFile, "file", "f", "", "YAML batch file with dialect, mode and phrases")
	f.BoolVar(&translateSpeak, "speak", false, "speak each translation")
	f.BoolVar(&translateCopy, "copy", false, "copy the last translation to the clipboard")
	f.BoolVar(&translateSave, "save", false, "archive spoken clips")
	f.StringVar(&translateOut, "out", "", "write speech to a WAV file instead of the audio device")

	rootCmd.AddCommand(translateCmd)
}
