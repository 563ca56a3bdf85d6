package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dfsync/dfsync/internal/logging"
	"github.com/dfsync/dfsync/internal/manager"
)

// newReplicateCmd is a thin convenience composing Manager.Register with
// Manager.Update: register one or more remote locations against <table>
// and immediately reconcile (spec §6 documents the subcommand but names
// no core operation of its own).
func newReplicateCmd() *cobra.Command {
	var workers int

	cmd := &cobra.Command{
		Use:   "replicate <table> <remote-location>...",
		Short: "Register one or more remote table locations and reconcile immediately",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			location, remotes := args[0], args[1:]

			m := manager.New(workers)
			if err := m.Register(location); err != nil {
				return err
			}
			for _, r := range remotes {
				if err := m.Register(r); err != nil {
					return err
				}
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
	cmd.Flags().IntVar(&workers, "workers", manager.DefaultWorkers, "number of parallel copy workers")
	return cmd
}
