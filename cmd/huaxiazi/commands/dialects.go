package commands

import (
	"github.com/spf13/cobra"

	"github.com/haivivi/huaxiazi/pkg/dialect"
)

var dialectsCmd = &cobra.Command{
	Use:   "dialects",
	Short: "List supported dialects",
	Long: `List supported dialects grouped by region. The code column is what
--dialect and app.dialect accept; the Chinese label works as well.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var rows dialectTable
		for _, c := range dialect.Categories() {
			for _, d := range c.Dialects {
				rows = append(rows, dialectRow{
					Code:         d.Code(),
					Label:        d.Label(),
					Region:       d.Region(),
					Category:     c.Name,
					Romanization: d.Romanization(),
				})
			}
		}
		return output(cmd, rows)
	},
}

func init() {
	rootCmd.AddCommand(dialectsCmd)
}
