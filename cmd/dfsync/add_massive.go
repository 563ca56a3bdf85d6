package main

import (
	"github.com/spf13/cobra"

	"github.com/dfsync/dfsync/internal/table"
	"github.com/dfsync/dfsync/internal/transport"
	"github.com/dfsync/dfsync/internal/worker"
)

func newAddMassiveCmd() *cobra.Command {
	var files []string
	var nproc int
	var remote string

	cmd := &cobra.Command{
		Use:   "add_massive <table>",
		Short: "Register many files into a table in parallel",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			location := args[0]

			t, err := table.Read(cmd.Context(), location)
			if err != nil {
				return err
			}

			pool := worker.New(nproc, nproc)
			for _, f := range files {
				f := f
				pool.Submit(func() (any, error) {
					composed, err := transport.ComposePath(f, remote, false)
					if err != nil {
						return nil, err
					}
					name := table.BaseNameNoExt(f)
					return table.NewFileInfo(name, composed)
				})
			}
			results, err := pool.Process()
			if err != nil {
				return err
			}
			for r := range results {
				t = t.Add(r.(table.FileInfo))
			}

			return table.Write(cmd.Context(), t, location, false)
		},
	}
	cmd.Flags().StringSliceVar(&files, "files", nil, "comma-separated list of file paths to register")
	cmd.Flags().IntVar(&nproc, "nproc", 4, "number of parallel workers")
	cmd.Flags().StringVar(&remote, "remote", "", "remote prefix (user@host or root://host) to compose each path against")
	return cmd
}
