package main

import (
	"github.com/spf13/cobra"

	"github.com/dfsync/dfsync/internal/table"
)

func newRemoveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remove <name-or-regex> <table>",
		Short: "Delete every entry matching a name or regular expression",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			pattern, location := args[0], args[1]

			t, err := table.Read(cmd.Context(), location)
			if err != nil {
				return err
			}
			t, err = t.Remove(pattern)
			if err != nil {
				return err
			}
			return table.Write(cmd.Context(), t, location, false)
		},
	}
	return cmd
}
