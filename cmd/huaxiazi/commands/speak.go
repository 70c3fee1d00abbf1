package commands

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/haivivi/huaxiazi/pkg/cli"
)

var (
	speakDialect string
	speakSave    bool
	speakOut     string
)

var speakCmd = &cobra.Command{
	Use:   "speak [text...]",
	Short: "Speak text with a regional accent",
	Long: `Synthesize text in the voice of a regional speaker and play it.

Without text, the most recent translation of the history is spoken in
its own dialect.

Examples:
  huaxiazi speak -d hokkien 食饱未
  huaxiazi speak --out hello.wav 你好
  huaxiazi speak --save -d shanghainese 侬好`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd, appOptions{
			dialect: speakDialect,
			outFile: speakOut,
			save:    speakSave,
		})
		if err != nil {
			return err
		}
		defer a.Close()

		text := strings.Join(args, " ")
		if text == "" {
			if h := a.ctrl.History(); len(h) > 0 {
				text = h[0].TranslatedText
				if speakDialect == "" {
					if err := a.ctrl.SetDialect(h[0].Dialect); err != nil {
						return err
					}
				}
			}
		}
		if err := speakAndWait(cmd, a, text); err != nil {
			return err
		}
		if speakOut != "" {
			cli.PrintSuccess(cmd.ErrOrStderr(), "Wrote %s", speakOut)
		}
		printSavedClips(cmd, a)
		return nil
	},
}

// speakAndWait speaks text with the current dialect and blocks until
// playback ends.
func speakAndWait(cmd *cobra.Command, a *app, text string) error {
	pb, err := a.ctrl.Speak(cmd.Context(), text)
	if err != nil {
		return err
	}
	a.log.Debug("playing", "duration", cli.FormatDuration(pb.Duration()))
	return pb.Wait()
}

func printSavedClips(cmd *cobra.Command, a *app) {
	for _, c := range a.saved {
		cli.PrintInfo(cmd.ErrOrStderr(), "Saved %s (%s)", c.Path, cli.FormatBytes(c.Size))
	}
}

func init() {
	f := speakCmd.Flags()
	f.StringVarP(&speakDialect, "dialect", "d", "", "dialect code or label")
	f.BoolVar(&speakSave, "save", false, "archive the clip")
	f.StringVar(&speakOut, "out", "", "write a WAV file instead of playing")

	rootCmd.AddCommand(speakCmd)
}
