package commands

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/haivivi/huaxiazi/pkg/cli"
	"github.com/haivivi/huaxiazi/pkg/session"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show the profile card",
	Long: `Show or edit the profile card.

Fields: ` + strings.Join(session.ProfileFields, ", ") + `

Examples:
  huaxiazi profile
  huaxiazi profile set nickname 阿强
  huaxiazi profile set hometown 广东佛山`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd, appOptions{offline: true})
		if err != nil {
			return err
		}
		defer a.Close()
		return printProfile(cmd, a.ctrl.Profile())
	},
}

var profileSetCmd = &cobra.Command{
	Use:   "set <field> <value...>",
	Short: "Change one profile field",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd, appOptions{offline: true})
		if err != nil {
			return err
		}
		defer a.Close()

		p, err := a.ctrl.UpdateProfile(cmd.Context(), args[0], strings.Join(args[1:], " "))
		if err != nil {
			return err
		}
		if tableOutput() {
			cli.PrintSuccess(cmd.ErrOrStderr(), "Profile updated.")
		}
		return printProfile(cmd, p)
	},
}

func printProfile(cmd *cobra.Command, p session.Profile) error {
	if tableOutput() {
		printCard(cmd.OutOrStdout(), profileCard(p))
		return nil
	}
	return output(cmd, p)
}

func init() {
	profileCmd.AddCommand(profileSetCmd)
	rootCmd.AddCommand(profileCmd)
}
