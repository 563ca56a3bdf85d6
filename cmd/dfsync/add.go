package main

import (
	"github.com/spf13/cobra"

	"github.com/dfsync/dfsync/internal/table"
	"github.com/dfsync/dfsync/internal/transport"
)

func newAddCmd() *cobra.Command {
	var bare bool
	var remote string

	cmd := &cobra.Command{
		Use:   "add <name> <path> <table>",
		Short: "Register one file into a table",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, path, location := args[0], args[1], args[2]

			composed, err := transport.ComposePath(path, remote, bare)
			if err != nil {
				return err
			}

			t, err := table.Read(cmd.Context(), location)
			if err != nil {
				return err
			}

			var fi table.FileInfo
			if bare {
				fi, err = table.NewBareFileInfo(name, composed)
			} else {
				fi, err = table.NewFileInfo(name, composed)
			}
			if err != nil {
				return err
			}

			t = t.Add(fi)
			return table.Write(cmd.Context(), t, location, false)
		},
	}
	cmd.Flags().BoolVar(&bare, "bare", false, "register without stamping local content marks")
	cmd.Flags().StringVar(&remote, "remote", "", "remote prefix (user@host or root://host) to compose path against")
	return cmd
}
