package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/haivivi/huaxiazi/pkg/cli"
	"github.com/haivivi/huaxiazi/pkg/dialect"
	"github.com/haivivi/huaxiazi/pkg/session"
)

var (
	historyLimit   int
	historyDialect string
)

var historyCmd = &cobra.Command{
	Use:     "history",
	Aliases: []string{"h"},
	Short:   "Show saved translations, newest first",
	Long: `Show saved translations, newest first. At most 50 are kept.

Examples:
  huaxiazi history
  huaxiazi history -n 5 -d cantonese
  huaxiazi history -o json -q '.[0].translatedText'
  huaxiazi history clear`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var filter dialect.Dialect
		if historyDialect != "" {
			d, err := dialect.Parse(historyDialect)
			if err != nil {
				return err
			}
			filter = d
		}

		a, err := openApp(cmd, appOptions{offline: true})
		if err != nil {
			return err
		}
		defer a.Close()

		items := make([]session.HistoryItem, 0)
		for _, it := range a.ctrl.History() {
			if filter != 0 && it.Dialect != filter {
				continue
			}
			if historyLimit > 0 && len(items) >= historyLimit {
				break
			}
			items = append(items, it)
		}
		if len(items) == 0 && tableOutput() {
			fmt.Fprintln(cmd.OutOrStdout(), "No history yet.")
			return nil
		}
		return output(cmd, historyTable(items))
	},
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all saved translations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd, appOptions{offline: true})
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.ctrl.ClearHistory(cmd.Context()); err != nil {
			return err
		}
		cli.PrintSuccess(cmd.OutOrStdout(), "History cleared.")
		return nil
	},
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 0, "show at most n items")
	historyCmd.Flags().StringVarP(&historyDialect, "dialect", "d", "", "only show this dialect")
	historyCmd.AddCommand(historyClearCmd)

	rootCmd.AddCommand(historyCmd)
}
