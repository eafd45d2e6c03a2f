package cli

import (
	"context"
	"encoding/json"
	"os"

	"github.com/davarch/ci-dashboard/internal/application"
	"github.com/davarch/ci-dashboard/internal/infrastructure/config"
	"github.com/davarch/ci-dashboard/internal/infrastructure/logging"
	"github.com/spf13/cobra"
)

var triggerAll bool

var triggerCmd = &cobra.Command{
	Use:   "trigger [app] <all|ios|aab|amazon|windows>",
	Short: "Dispatch a build workflow for one app, or every app with --all",
	Args: func(cmd *cobra.Command, args []string) error {
		if triggerAll {
			return cobra.ExactArgs(1)(cmd, args)
		}
		return cobra.ExactArgs(2)(cmd, args)
	},
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

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")

		if triggerAll {
			res, err := d.triggers.TriggerBulk(ctx, args[0])
			if err != nil {
				return err
			}
			return enc.Encode(res)
		}

		res, err := d.triggers.Trigger(ctx, args[0], args[1])
		if err != nil {
			return err
		}
		if err := enc.Encode(res); err != nil {
			return err
		}
		if !res.Success {
			os.Exit(2)
		}
		return nil
	},
}

func init() {
	triggerCmd.Flags().BoolVar(&triggerAll, "all", false, "trigger every enabled app")
	triggerCmd.ValidArgsFunction = func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		targets := []string{application.TargetAll, "ios", "aab", "amazon", "windows"}
		if triggerAll || len(args) == 1 {
			return targets, cobra.ShellCompDirectiveNoFileComp
		}
		if len(args) == 0 {
			return appNames(cmd, args, toComplete)
		}
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	rootCmd.AddCommand(triggerCmd)
}
