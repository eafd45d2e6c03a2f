package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/davarch/ci-dashboard/internal/infrastructure/config"
	"github.com/spf13/cobra"
)

var (
	listOnlyEnabled  bool
	listOnlyDisabled bool
	listJSON         bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List apps from config.yaml",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgPath)
		if err != nil {
			return err
		}

		items := make([]config.App, 0, len(cfg.Apps))
		for _, a := range cfg.Apps {
			if listOnlyEnabled && !a.Enabled {
				continue
			}
			if listOnlyDisabled && a.Enabled {
				continue
			}
			items = append(items, a)
		}

		if listJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(items)
		}

		workflows := cfg.Workflows()
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		_, _ = fmt.Fprintln(w, "NAME\tREPO\tWORKFLOW\tENABLED")
		for _, a := range items {
			wf := workflows[a.Name]
			if wf == "" {
				wf = a.Name + "-builds.yml"
			}
			_, _ = fmt.Fprintf(w, "%s\t%s/%s\t%s\t%t\n", a.Name, cfg.GitHub.Owner, a.Name, wf, a.Enabled)
		}
		_ = w.Flush()
		return nil
	},
}

func init() {
	listCmd.Flags().BoolVar(&listOnlyEnabled, "enabled", false, "show only enabled apps")
	listCmd.Flags().BoolVar(&listOnlyDisabled, "disabled", false, "show only disabled apps")
	listCmd.Flags().BoolVar(&listJSON, "json", false, "print JSON")

	listCmd.PreRunE = func(cmd *cobra.Command, args []string) error {
		if listOnlyEnabled && listOnlyDisabled {
			return fmt.Errorf("flags --enabled and --disabled are mutually exclusive")
		}
		return nil
	}

	rootCmd.AddCommand(listCmd)
}
