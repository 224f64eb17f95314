package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zeusync/mudstate/internal/injector"
)

func newMigrateCmd(app func() *injector.App) *cobra.Command {
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "migrate <file>",
		Short: "Upgrade a saved world document to the current schema",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ld := app().Loader
			out := cmd.OutOrStdout()
			if !dryRun {
				if err := ld.MigrateFile(cmd.Context(), args[0]); err != nil {
					return err
				}
				fmt.Fprintf(out, "migrated %s\n", args[0])
				return nil
			}

			plan, err := ld.PlanFile(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if len(plan.Steps) == 0 {
				fmt.Fprintln(out, "steps: none")
			} else {
				fmt.Fprintf(out, "steps: %s\n", strings.Join(plan.Steps, ", "))
			}
			if len(plan.Patch) > 0 {
				fmt.Fprintln(out, plan.Patch.String())
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the migration plan and patch without writing")
	return cmd
}
