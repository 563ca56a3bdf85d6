// Package config resolves the process-wide tunables the core has no
// business defaulting on its own: the scoped temp-directory root and the
// XRootD tool's path/timeout (plus a default parallel worker count, which
// is not bound to a flag here). The CLI owns no environment variables by
// contract (spec §6 "Environment"), so those tunables are surfaced only
// as pflag-bound flags, in the teacher's
// spf13/pflag convention (fs/hash/hash_test.go binds hash.Type the same
// way, as a pflag.Value).
package config

import (
	"time"

	"github.com/spf13/pflag"

	"github.com/dfsync/dfsync/internal/manager"
	"github.com/dfsync/dfsync/internal/transport"
)

// Config holds every process tunable dfsync reads from flags, plus the
// default Workers value, which RegisterFlags does not bind to a flag.
type Config struct {
	Workers      int
	TempDir      string
	XrdcpPath    string
	XrdcpTimeout time.Duration
}

// Default returns the zero-value-free defaults used when no flags override
// them.
func Default() Config {
	return Config{
		Workers:      manager.DefaultWorkers,
		XrdcpPath:    "xrdcp",
		XrdcpTimeout: 5 * time.Minute,
	}
}

// RegisterFlags binds fs's process-wide flags to a fresh Config seeded with
// Default, returning the Config for later use once fs has been parsed.
// Workers is deliberately not registered here: each subcommand that starts
// a worker pool (update, add_massive, replicate) exposes its own
// --workers/--nproc flag, since the right worker count is a per-operation
// choice, not a process-wide one.
func RegisterFlags(fs *pflag.FlagSet) *Config {
	cfg := Default()
	fs.StringVar(&cfg.TempDir, "temp-dir", cfg.TempDir, "parent directory for scoped staging/working copies (default: OS temp dir)")
	fs.StringVar(&cfg.XrdcpPath, "xrdcp-path", cfg.XrdcpPath, "path to the xrdcp executable used for XRootD transfers")
	fs.DurationVar(&cfg.XrdcpTimeout, "xrdcp-timeout", cfg.XrdcpTimeout, "timeout applied to each xrdcp invocation")
	return &cfg
}

// Apply pushes the resolved tunables into the packages that consult them.
// Call once after flag parsing, before any table or transport operation.
func (c Config) Apply() {
	transport.SetTempDirRoot(c.TempDir)
	transport.SetXrdcpPath(c.XrdcpPath)
	transport.SetXrdcpTimeout(c.XrdcpTimeout)
}
