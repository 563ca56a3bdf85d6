package transport

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyExclusive(t *testing.T) {
	cases := []struct {
		path string
		want Kind
	}{
		{"/abs/local/path", Local},
		{"relative/path", Local},
		{"user@host:/path", SSH},
		{"root://host//path", XRootD},
		{"u.ser-1@my-host.example.com:/a/b", SSH},
	}
	for _, c := range cases {
		t.Run(c.path, func(t *testing.T) {
			assert.Equal(t, c.want, Classify(c.path))
		})
	}
}

func TestLocalPathStripsProtocol(t *testing.T) {
	assert.Equal(t, "/a/b", LocalPath("/a/b"))
	assert.Equal(t, "/a/b", LocalPath("user@host:/a/b"))
	assert.Equal(t, "/a/b", LocalPath("root://host//a/b"))
}

func TestAvailableLocalPathLocal(t *testing.T) {
	dir := t.TempDir()
	f := filepath.Join(dir, "a.txt")
	require.NoError(t, os.WriteFile(f, []byte("hello"), 0o644))

	got, ok := AvailableLocalPath(f)
	assert.True(t, ok)
	assert.Equal(t, f, got)

	_, ok = AvailableLocalPath(filepath.Join(dir, "missing.txt"))
	assert.False(t, ok)
}

func TestAvailableLocalPathXRootDNeverLocal(t *testing.T) {
	_, ok := AvailableLocalPath("root://anyhost//a/b")
	assert.False(t, ok)
}

func TestAvailableLocalPathSSHMatchesThisHost(t *testing.T) {
	dir := t.TempDir()
	f := filepath.Join(dir, "a.txt")
	require.NoError(t, os.WriteFile(f, []byte("hello"), 0o644))

	me, err := os.Hostname()
	require.NoError(t, err)

	got, ok := AvailableLocalPath("user@" + me + ":" + f)
	assert.True(t, ok)
	assert.Equal(t, f, got)

	_, ok = AvailableLocalPath("user@definitely-not-this-host.invalid:" + f)
	assert.False(t, ok)
}

func TestComposePathSSH(t *testing.T) {
	got, err := ComposePath("files/file1.txt", "user@h/", true)
	require.NoError(t, err)
	assert.Equal(t, "user@h:/files/file1.txt", got)
}

func TestComposePathXRootD(t *testing.T) {
	got, err := ComposePath("/files/file1.txt", "root://host", true)
	require.NoError(t, err)
	assert.Equal(t, "root://host//files/file1.txt", got)
	assert.Equal(t, "/files/file1.txt", LocalPath(got))
}

func TestComposePathNoRemoteRequiresLocal(t *testing.T) {
	dir := t.TempDir()
	f := filepath.Join(dir, "a.txt")
	require.NoError(t, os.WriteFile(f, []byte("x"), 0o644))

	got, err := ComposePath(f, "", false)
	require.NoError(t, err)
	assert.Equal(t, f, got)

	_, err = ComposePath(filepath.Join(dir, "missing.txt"), "", false)
	require.Error(t, err)
}

func TestComposePathBareSkipsLocalCheck(t *testing.T) {
	got, err := ComposePath("/no/such/file", "", true)
	require.NoError(t, err)
	assert.Equal(t, "/no/such/file", got)
}
