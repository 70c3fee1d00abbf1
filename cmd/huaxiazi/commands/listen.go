package commands

import (
	"bufio"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/haivivi/huaxiazi/pkg/capture"
	"github.com/haivivi/huaxiazi/pkg/cli"
)

var (
	listenDialect   string
	listenMode      string
	listenTranslate bool
	listenSpeak     bool
)

type transcript struct {
	Text        string       `json:"text" yaml:"text"`
	Translation *translation `json:"translation,omitempty" yaml:"translation,omitempty"`
}

var listenCmd = &cobra.Command{
	Use:   "listen",
	Short: "Capture Mandarin speech from the microphone",
	Long: `Record from the default input device until Enter is pressed (or the
app.max_listen limit is reached) and transcribe the recording as Mandarin.

Examples:
  huaxiazi listen
  huaxiazi listen --translate -d cantonese
  huaxiazi listen --translate --speak -d hakka`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd, appOptions{dialect: listenDialect, mode: listenMode})
		if err != nil {
			return err
		}
		defer a.Close()

		ctx := cmd.Context()
		done, err := a.ctrl.StartListening(ctx)
		if err != nil {
			return err
		}
		cli.PrintInfo(cmd.ErrOrStderr(), "Listening... press Enter to stop.")

		go func() {
			r := bufio.NewReader(cmd.InOrStdin())
			if _, err := r.ReadString('\n'); err != nil {
				a.log.Debug("stdin closed", "err", err)
			}
			if err := a.ctrl.StopListening(); err != nil && !errors.Is(err, capture.ErrNotRunning) {
				a.log.Warn("stop listening", "err", err)
			}
		}()

		t := <-done
		if t.Err != nil {
			return t.Err
		}
		out := transcript{Text: t.Text}
		if !listenTranslate {
			if tableOutput() {
				fmt.Fprintln(cmd.OutOrStdout(), t.Text)
				return nil
			}
			return output(cmd, out)
		}

		res, err := a.ctrl.TranslateInput(ctx)
		if err != nil {
			return err
		}
		st := a.ctrl.Snapshot()
		out.Translation = &translation{Input: t.Text, Dialect: st.Dialect, Mode: st.Mode, Result: res}
		if tableOutput() {
			printCard(cmd.OutOrStdout(), resultCard(*out.Translation))
		} else if err := output(cmd, out); err != nil {
			return err
		}
		if listenSpeak {
			return speakAndWait(cmd, a, res.TranslatedText)
		}
		return nil
	},
}

func init() {
	f := listenCmd.Flags()
	f.StringVarP(&listenDialect, "dialect", "d", "", "dialect code or label")
	f.StringVarP(&listenMode, "mode", "m", "", "direction: to-dialect or to-mandarin")
	f.BoolVar(&listenTranslate, "translate", false, "translate the transcript")
	f.BoolVar(&listenSpeak, "speak", false, "speak the translation (implies --translate)")

	listenCmd.PreRun = func(cmd *cobra.Command, args []string) {
		if listenSpeak {
			listenTranslate = true
		}
	}
	rootCmd.AddCommand(listenCmd)
}
