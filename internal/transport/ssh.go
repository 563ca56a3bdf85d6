package transport

import (
	"context"
	"io"
	"net"
	"os"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/agent"

	"github.com/dfsync/dfsync/internal/logging"
	"github.com/dfsync/dfsync/internal/xerrors"
)

// sshClients caches one *sftp.Client per user@host pair for the life of the
// process, mirroring the teacher's connection-pool-per-Fs pattern
// (backend/sftp/sftp.go's f.pool) but keyed globally since our dispatcher
// has no long-lived per-remote object.
var (
	sshClientsMu sync.Mutex
	sshClients   = map[string]*sftp.Client{}
)

const sshDialTimeout = 15 * time.Second

// dialSFTP returns a cached (or freshly dialed) *sftp.Client for user@host.
// Auth is taken from the running ssh-agent only — spec §1 assumes
// credentials are preconfigured at the transport layer.
func dialSFTP(user, host string) (*sftp.Client, error) {
	key := user + "@" + host

	sshClientsMu.Lock()
	defer sshClientsMu.Unlock()

	if c, ok := sshClients[key]; ok {
		return c, nil
	}

	sock := os.Getenv("SSH_AUTH_SOCK")
	if sock == "" {
		return nil, errors.Wrap(xerrors.TransferError, "SSH_AUTH_SOCK not set; ssh-agent is required")
	}
	agentConn, err := net.Dial("unix", sock)
	if err != nil {
		return nil, errors.Wrapf(xerrors.TransferError, "connect to ssh-agent: %v", err)
	}
	agentClient := agent.NewClient(agentConn)

	config := &ssh.ClientConfig{
		User:            user,
		Auth:            []ssh.AuthMethod{ssh.PublicKeysCallback(agentClient.Signers)},
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         sshDialTimeout,
	}

	addr := host
	if _, _, err := net.SplitHostPort(host); err != nil {
		addr = net.JoinHostPort(host, "22")
	}

	logging.Debugf(nil, "dialing ssh %s@%s", user, host)
	conn, err := ssh.Dial("tcp", addr, config)
	if err != nil {
		return nil, errors.Wrapf(xerrors.TransferError, "dial %s: %v", addr, err)
	}

	client, err := sftp.NewClient(conn)
	if err != nil {
		conn.Close()
		return nil, errors.Wrapf(xerrors.TransferError, "sftp handshake with %s: %v", addr, err)
	}

	sshClients[key] = client
	return client, nil
}

// copySSH copies between any combination of local and SSH endpoints where at
// least one side is SSH.
func copySSH(ctx context.Context, src, dst string) error {
	reader, closeReader, err := openSSHReader(src)
	if err != nil {
		return err
	}
	defer closeReader()

	tmp := dst + ".dfsync-tmp"
	writer, finalize, err := openSSHWriter(tmp, dst)
	if err != nil {
		return err
	}

	if _, err := io.Copy(writer, reader); err != nil {
		writer.Close()
		return errors.Wrapf(xerrors.TransferError, "copy %s -> %s: %v", src, dst, err)
	}
	if err := writer.Close(); err != nil {
		return errors.Wrapf(xerrors.TransferError, "close %s: %v", tmp, err)
	}
	return finalize()
}

func openSSHReader(path string) (io.Reader, func(), error) {
	if Classify(path) == Local {
		f, err := os.Open(path)
		if err != nil {
			return nil, nil, errors.Wrapf(xerrors.IOError, "open %s: %v", path, err)
		}
		return f, func() { f.Close() }, nil
	}
	user, host, remote, _ := sshSplit(path)
	client, err := dialSFTP(user, host)
	if err != nil {
		return nil, nil, err
	}
	f, err := client.Open(remote)
	if err != nil {
		return nil, nil, errors.Wrapf(xerrors.TransferError, "open %s: %v", path, err)
	}
	return f, func() { f.Close() }, nil
}

// openSSHWriter opens tmp for writing (the staging name for dst) and
// returns a finalize func that performs the atomic rename into place once
// writing succeeds.
func openSSHWriter(tmp, dst string) (io.WriteCloser, func() error, error) {
	if Classify(dst) == Local {
		f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
		if err != nil {
			return nil, nil, errors.Wrapf(xerrors.IOError, "create %s: %v", tmp, err)
		}
		finalize := func() error {
			now := time.Now()
			os.Chtimes(tmp, now, now)
			if err := os.Rename(tmp, dst); err != nil {
				os.Remove(tmp)
				return errors.Wrapf(xerrors.IOError, "replace %s: %v", dst, err)
			}
			return nil
		}
		return f, finalize, nil
	}

	user, host, remoteDst, _ := sshSplit(dst)
	_, _, remoteTmp, _ := sshSplit(tmp)
	client, err := dialSFTP(user, host)
	if err != nil {
		return nil, nil, err
	}
	f, err := client.Create(remoteTmp)
	if err != nil {
		return nil, nil, errors.Wrapf(xerrors.TransferError, "create %s: %v", tmp, err)
	}
	finalize := func() error {
		if err := client.Rename(remoteTmp, remoteDst); err != nil {
			client.Remove(remoteTmp)
			return errors.Wrapf(xerrors.TransferError, "replace %s: %v", dst, err)
		}
		return nil
	}
	return f, finalize, nil
}

// closeSSHClients releases every cached SFTP connection. Intended for
// process shutdown / test teardown.
func closeSSHClients() {
	sshClientsMu.Lock()
	defer sshClientsMu.Unlock()
	for key, c := range sshClients {
		c.Close()
		delete(sshClients, key)
	}
}
