package commands

import (
	"github.com/spf13/cobra"

	"github.com/haivivi/huaxiazi/pkg/dialect"
)

var atlasSave bool

var atlasCmd = &cobra.Command{
	Use:   "atlas",
	Short: "Browse the dialect atlas",
	Long: `Browse the dialect atlas: one entry per dialect family with a classic
phrase, its meaning, notable features and a short history.

Examples:
  huaxiazi atlas
  huaxiazi atlas show 粤语
  huaxiazi atlas speak 闽南语`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return output(cmd, atlasTable(dialect.Atlas()))
	},
}

var atlasShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Show one atlas entry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		it, err := dialect.LookupAtlas(args[0])
		if err != nil {
			return err
		}
		if tableOutput() {
			printCard(cmd.OutOrStdout(), atlasCard(it))
			return nil
		}
		return output(cmd, it)
	},
}

var atlasSpeakCmd = &cobra.Command{
	Use:   "speak <name>",
	Short: "Speak the classic phrase of an atlas entry in its own dialect",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := dialect.LookupAtlas(args[0]); err != nil {
			return err
		}
		a, err := openApp(cmd, appOptions{save: atlasSave})
		if err != nil {
			return err
		}
		defer a.Close()

		pb, err := a.ctrl.SpeakAtlas(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if err := pb.Wait(); err != nil {
			return err
		}
		printSavedClips(cmd, a)
		return nil
	},
}

func init() {
	atlasSpeakCmd.Flags().BoolVar(&atlasSave, "save", false, "archive the clip")
	atlasCmd.AddCommand(atlasShowCmd)
	atlasCmd.AddCommand(atlasSpeakCmd)

	rootCmd.AddCommand(atlasCmd)
}
