package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dfsync/dfsync/internal/table"
)

func newDisplayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "display <table>",
		Short: "Print a table's entries, sorted by name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			location := args[0]
			t, err := table.Read(cmd.Context(), location)
			if err != nil {
				return err
			}

			if t.Description != "" {
				fmt.Fprintln(cmd.OutOrStdout(), t.Description)
			}
			for _, fi := range t.Entries() {
				fmt.Fprintf(cmd.OutOrStdout(), "%-24s %-50s %12.3f %s\n",
					fi.Name, fi.Path, fi.Marks.Timestamp, fi.Marks.Fingerprint)
			}
			return nil
		},
	}
	return cmd
}
