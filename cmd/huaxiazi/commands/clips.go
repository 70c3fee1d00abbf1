package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/haivivi/huaxiazi/pkg/archive"
	"github.com/haivivi/huaxiazi/pkg/cli"
	"github.com/haivivi/huaxiazi/pkg/dialect"
)

var clipsDialect string

var clipsCmd = &cobra.Command{
	Use:   "clips",
	Short: "List archived speech clips",
	Long: `Manage speech clips saved with --save. Clips live in the local data
directory or in an S3 bucket, depending on storage.yaml, as
<dialect>/<yyyymmdd>/<id>.wav.

Examples:
  huaxiazi clips
  huaxiazi clips -d cantonese
  huaxiazi clips export cantonese/20260101/abc.wav hello.wav
  huaxiazi clips rm cantonese/20260101/abc.wav`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var d dialect.Dialect
		if clipsDialect != "" {
			var err error
			if d, err = dialect.Parse(clipsDialect); err != nil {
				return err
			}
		}
		ar, err := openClipArchive(cmd)
		if err != nil {
			return err
		}
		clips, err := ar.List(cmd.Context(), d)
		if err != nil {
			return err
		}
		if len(clips) == 0 && tableOutput() {
			fmt.Fprintln(cmd.OutOrStdout(), "No clips archived.")
			return nil
		}
		return output(cmd, clipTable(clips))
	},
}

var clipsExportCmd = &cobra.Command{
	Use:   "export <path> <file>",
	Short: "Copy an archived clip to a local WAV file (- for stdout)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ar, err := openClipArchive(cmd)
		if err != nil {
			return err
		}
		r, err := ar.Open(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		defer r.Close()

		if args[1] == "-" {
			_, err := io.Copy(cmd.OutOrStdout(), r)
			return err
		}
		data, err := io.ReadAll(r)
		if err != nil {
			return err
		}
		if err := cli.OutputBytes(data, args[1]); err != nil {
			return err
		}
		cli.PrintSuccess(cmd.ErrOrStderr(), "Exported %s (%s)", args[1], cli.FormatBytes(int64(len(data))))
		return nil
	},
}

var clipsRmCmd = &cobra.Command{
	Use:   "rm <path...>",
	Short: "Delete archived clips",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ar, err := openClipArchive(cmd)
		if err != nil {
			return err
		}
		for _, p := range args {
			if err := ar.Delete(cmd.Context(), p); err != nil {
				return fmt.Errorf("%s: %w", p, err)
			}
			cli.PrintSuccess(cmd.OutOrStdout(), "Deleted %s", p)
		}
		return nil
	},
}

func openClipArchive(cmd *cobra.Command) (*archive.Archive, error) {
	s, err := loadSettings()
	if err != nil {
		return nil, err
	}
	paths, err := cli.NewPaths(appName, s.Context, s.App.DataDir)
	if err != nil {
		return nil, err
	}
	fs, err := openFileStore(cmd.Context(), s, paths)
	if err != nil {
		return nil, err
	}
	return archive.New(fs), nil
}

func init() {
	clipsCmd.Flags().StringVarP(&clipsDialect, "dialect", "d", "", "only list this dialect")
	clipsCmd.AddCommand(clipsExportCmd)
	clipsCmd.AddCommand(clipsRmCmd)

	rootCmd.AddCommand(clipsCmd)
}
