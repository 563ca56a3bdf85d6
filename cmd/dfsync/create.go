package main

import (
	"github.com/spf13/cobra"

	"github.com/dfsync/dfsync/internal/table"
)

func newCreateCmd() *cobra.Command {
	var description string

	cmd := &cobra.Command{
		Use:   "create <table>",
		Short: "Create a new, empty table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			location := args[0]
			t := table.New(description)
			return table.Write(cmd.Context(), t, location, true)
		},
	}
	cmd.Flags().StringVar(&description, "description", "", "free-form description stored with the table")
	return cmd
}
