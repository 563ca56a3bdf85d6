package main

import (
	"github.com/spf13/cobra"

	"github.com/dfsync/dfsync/internal/table"
)

func newAddFromDirCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add_from_dir <dir> <table>",
		Short: "Register every regular file in a local directory",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, location := args[0], args[1]

			t, err := table.Read(cmd.Context(), location)
			if err != nil {
				return err
			}
			t, err = table.AddFromDir(t, dir)
			if err != nil {
				return err
			}
			return table.Write(cmd.Context(), t, location, false)
		},
	}
	return cmd
}
