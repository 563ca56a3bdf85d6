package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dfsync/dfsync/internal/logging"
	"github.com/dfsync/dfsync/internal/manager"
)

func newUpdateCmd() *cobra.Command {
	var peers []string
	var workers int
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "update <table>",
		Short: "Reconcile a table against its registered peer replicas",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			location := args[0]

			m := manager.New(workers)
			if err := m.Register(location); err != nil {
				return err
			}
			for _, p := range peers {
				if err := m.Register(p); err != nil {
					return err
				}
			}

			if dryRun {
				plans, err := m.Plan(cmd.Context())
				if err != nil {
					return err
				}
				for _, p := range plans {
					fmt.Fprintf(cmd.OutOrStdout(), "%s: %s -> %s\n", p.Name, p.SourceLocation, p.DestLocation)
				}
				return nil
			}

			report, err := m.Update(cmd.Context())
			if err != nil {
				return err
			}
			for _, f := range report.Failures {
				logging.Errorf(nil, "failed to update %q at %s: %v", f.Name, f.Destination, f.Err)
			}
			if len(report.Failures) > 0 {
				return fmt.Errorf("%d entries failed to synchronize", len(report.Failures))
			}
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&peers, "peer", nil, "additional registered table locations to reconcile against")
	cmd.Flags().IntVar(&workers, "workers", manager.DefaultWorkers, "number of parallel copy workers")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the planned copies without executing them")
	return cmd
}
