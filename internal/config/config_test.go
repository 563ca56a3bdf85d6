package config

import (
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dfsync/dfsync/internal/transport"
)

func TestRegisterFlagsDefaults(t *testing.T) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	cfg := RegisterFlags(fs)

	assert.Equal(t, "xrdcp", cfg.XrdcpPath)
	assert.Equal(t, 5*time.Minute, cfg.XrdcpTimeout)
	assert.Equal(t, "", cfg.TempDir)
}

func TestRegisterFlagsParsesOverrides(t *testing.T) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	cfg := RegisterFlags(fs)

	require.NoError(t, fs.Parse([]string{
		"--xrdcp-path=/usr/local/bin/xrdcp",
		"--xrdcp-timeout=30s",
		"--temp-dir=/var/tmp/dfsync",
	}))

	assert.Equal(t, "/usr/local/bin/xrdcp", cfg.XrdcpPath)
	assert.Equal(t, 30*time.Second, cfg.XrdcpTimeout)
	assert.Equal(t, "/var/tmp/dfsync", cfg.TempDir)
}

func TestApplyPushesIntoTransport(t *testing.T) {
	defer transport.SetTempDirRoot("")
	defer transport.SetXrdcpPath("xrdcp")
	defer transport.SetXrdcpTimeout(5 * time.Minute)

	cfg := Config{
		TempDir:      "/custom/tmp",
		XrdcpPath:    "/opt/xrootd/bin/xrdcp",
		XrdcpTimeout: 2 * time.Minute,
	}
	cfg.Apply()

	assert.Equal(t, "/custom/tmp", transport.TempDirRoot())
}
