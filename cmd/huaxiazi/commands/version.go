package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/haivivi/huaxiazi/cmd/huaxiazi/internal/build"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !tableOutput() {
			return output(cmd, build.Get())
		}
		w := cmd.OutOrStdout()
		fmt.Fprintln(w, build.String())
		if verbose {
			fmt.Fprintf(w, "  go:     %s\n", build.Get().Go)
			if cfg, err := GetConfig(); err == nil {
				fmt.Fprintf(w, "  config: %s\n", cfg.Dir)
			} else {
				fmt.Fprintf(w, "  config: (unavailable: %v)\n", err)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
