package cli

import (
	"fmt"
	"strings"

	"github.com/davarch/ci-dashboard/internal/infrastructure/config"
	"github.com/spf13/cobra"
)

var enableCmd = &cobra.Command{
	Use:   "enable <app>",
	Short: "Enable app by name in config.yaml (takes effect on next serve)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setEnabled(args[0], true)
	},
}

func init() {
	enableCmd.ValidArgsFunction = appNames
	rootCmd.AddCommand(enableCmd)
}

func setEnabled(name string, enabled bool) error {
	verb := "disabled"
	if enabled {
		verb = "enabled"
	}

	changed, err := config.SetEnabled(cfgPath, name, enabled)
	if err != nil {
		return err
	}

	if !changed {
		fmt.Printf("no change (app %q already %s or not found)\n", name, verb)
		return nil
	}

	fmt.Printf("%s: %s\n", verb, name)
	return nil
}

// appNames completes app names from the config file.
func appNames(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	cfg, _ := config.Load(cfgPath)

	out := make([]string, 0, len(cfg.Apps))
	for _, a := range cfg.Apps {
		if strings.HasPrefix(a.Name, toComplete) {
			out = append(out, a.Name)
		}
	}

	return out, cobra.ShellCompDirectiveNoFileComp
}
