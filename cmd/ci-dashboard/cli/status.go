package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/davarch/ci-dashboard/internal/domain"
	"github.com/davarch/ci-dashboard/internal/infrastructure/config"
	"github.com/davarch/ci-dashboard/internal/infrastructure/logging"
	"github.com/spf13/cobra"
)

var statusJSON bool

var statusCmd = &cobra.Command{
	Use:   "status [app]",
	Short: "Query gh once and print per-platform status",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgPath)
		if err != nil {
			return err
		}
		log := logging.New(cfg.Log.Level, cfg.Log.Format)
		defer func() { _ = log.Sync() }()

		d := wire(log, cfg)
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		var set domain.StatusSet
		if len(args) == 1 {
			snap, err := d.agg.GetOne(ctx, args[0])
			if err != nil {
				return err
			}
			set = domain.StatusSet{{App: args[0], Snapshot: snap}}
		} else {
			set = d.agg.GetAll(ctx)
		}

		if statusJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(set)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		_, _ = fmt.Fprintln(w, "APP\tIOS\tAAB\tAMAZON\tWINDOWS")
		for _, e := range set {
			_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", e.App,
				cell(e.Snapshot.IOS), cell(e.Snapshot.AAB), cell(e.Snapshot.Amazon), cell(e.Snapshot.Windows))
		}
		return w.Flush()
	},
}

func cell(s domain.Slot) string {
	if s.RunID == nil {
		return string(s.Status)
	}
	return fmt.Sprintf("%s (#%d)", s.Status, *s.RunID)
}

func init() {
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "print JSON")
	statusCmd.ValidArgsFunction = appNames
	rootCmd.AddCommand(statusCmd)
}
