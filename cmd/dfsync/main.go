// Command dfsync is the CLI front end for the table and synchronization
// core (spec §1: out of core scope, but the contract §6 fixes is
// implemented here in full). Every subcommand takes a protocol-qualified
// `table` argument and exits non-zero with an error on stderr on failure,
// mirroring the teacher's cmd/<name>/<name>.go + root cmd.Root convention.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/dfsync/dfsync/internal/config"
	"github.com/dfsync/dfsync/internal/logging"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "dfsync:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:           "dfsync",
		Short:         "Synchronize named file replicas across local, SSH, and XRootD hosts",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	cfg := config.RegisterFlags(root.PersistentFlags())
	root.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if verbose {
			logging.SetLevel(slog.LevelDebug)
		}
		cfg.Apply()
	}

	root.AddCommand(
		newCreateCmd(),
		newAddCmd(),
		newAddMassiveCmd(),
		newAddFromDirCmd(),
		newDisplayCmd(),
		newUpdateCmd(),
		newRemoveCmd(),
		newReplicateCmd(),
	)
	return root
}
