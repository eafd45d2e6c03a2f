package cli

import "github.com/spf13/cobra"

var disableCmd = &cobra.Command{
	Use:   "disable <app>",
	Short: "Disable app by name in config.yaml (takes effect on next serve)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setEnabled(args[0], false)
	},
}

func init() {
	disableCmd.ValidArgsFunction = appNames
	rootCmd.AddCommand(disableCmd)
}
