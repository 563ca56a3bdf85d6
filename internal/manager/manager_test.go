package manager

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dfsync/dfsync/internal/table"
)

func writeTable(t *testing.T, loc string, tbl table.Table) {
	t.Helper()
	require.NoError(t, table.Write(context.Background(), tbl, loc, true))
}

// sshSelf composes an SSH-grammar path pointing at a real local file on
// this host, so AvailableLocalPath resolves it and reconciliation refreshes
// it locally. A copy to such a path still goes through the SFTP client, so
// a test that transfers to it needs an ssh-agent and an SSH server on this
// host.
func sshSelf(t *testing.T, path string) string {
	t.Helper()
	me, err := os.Hostname()
	require.NoError(t, err)
	return "user@" + me + ":" + path
}

// Entries are reconciled using each replica's *current* on-disk state
// (spec §4.7 step 3a refreshes every reachable replica before deciding),
// so tests control authority via real mtimes rather than fabricated marks.
func touchWithContent(t *testing.T, path, content string, age time.Duration) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	stamp := time.Now().Add(-age)
	require.NoError(t, os.Chtimes(path, stamp, stamp))
}

func TestReconcileTwoHostNewerWins(t *testing.T) {
	dir := t.TempDir()

	srcFile := filepath.Join(dir, "src", "x.txt")
	dstFile := filepath.Join(dir, "dst", "x.txt")
	touchWithContent(t, srcFile, "AAAA", 0)         // newest
	touchWithContent(t, dstFile, "BBBB", time.Hour) // older

	fi1, err := table.NewFileInfo("x", srcFile)
	require.NoError(t, err)
	fi2, err := table.NewFileInfo("x", sshSelf(t, dstFile))
	require.NoError(t, err)

	t1Loc := filepath.Join(dir, "t1.db")
	t2Loc := filepath.Join(dir, "t2.db")
	writeTable(t, t1Loc, table.FromFiles([]table.FileInfo{fi1}, ""))
	writeTable(t, t2Loc, table.FromFiles([]table.FileInfo{fi2}, ""))

	m := New(2)
	require.NoError(t, m.Register(t1Loc))
	require.NoError(t, m.Register(t2Loc))

	report, err := m.Update(context.Background())
	require.NoError(t, err)
	assert.Empty(t, report.Failures)

	got, err := os.ReadFile(dstFile)
	require.NoError(t, err)
	assert.Equal(t, "AAAA", string(got))

	t2After, err := table.Read(context.Background(), t2Loc)
	require.NoError(t, err)
	after, ok := t2After.Get("x")
	require.True(t, ok)
	assert.NotEqual(t, "none", after.Marks.Fingerprint)
}

func TestReconcileSentinelSourceIgnored(t *testing.T) {
	dir := t.TempDir()

	t1File := filepath.Join(dir, "t1", "y.txt")
	t2File := filepath.Join(dir, "t2", "y.txt")
	require.NoError(t, os.MkdirAll(filepath.Dir(t1File), 0o755))
	touchWithContent(t, t2File, "new-content", 0)

	bareFI, err := table.NewBareFileInfo("y", t1File)
	require.NoError(t, err)
	realFI, err := table.NewFileInfo("y", t2File)
	require.NoError(t, err)

	t1Loc := filepath.Join(dir, "t1.db")
	t2Loc := filepath.Join(dir, "t2.db")
	writeTable(t, t1Loc, table.FromFiles([]table.FileInfo{bareFI}, ""))
	writeTable(t, t2Loc, table.FromFiles([]table.FileInfo{realFI}, ""))

	m := New(2)
	require.NoError(t, m.Register(t1Loc))
	require.NoError(t, m.Register(t2Loc))

	report, err := m.Update(context.Background())
	require.NoError(t, err)
	assert.Empty(t, report.Failures)

	got, err := os.ReadFile(t1File)
	require.NoError(t, err)
	assert.Equal(t, "new-content", string(got))

	unchanged, err := os.ReadFile(t2File)
	require.NoError(t, err)
	assert.Equal(t, "new-content", string(unchanged))
}

func TestReconcileSkipsWhenInSync(t *testing.T) {
	dir := t.TempDir()
	f1 := filepath.Join(dir, "z1.txt")
	f2 := filepath.Join(dir, "z2.txt")
	require.NoError(t, os.WriteFile(f1, []byte("same"), 0o644))
	require.NoError(t, os.WriteFile(f2, []byte("same"), 0o644))

	fi1, err := table.NewFileInfoFromFields("z", f1, table.FileMarks{Timestamp: 10, Fingerprint: "same-fp"})
	require.NoError(t, err)
	fi2, err := table.NewFileInfoFromFields("z", f2, table.FileMarks{Timestamp: 20, Fingerprint: "same-fp"})
	require.NoError(t, err)

	plans := reconcileName([]loadedTable{
		{location: "t1", t: table.FromFiles([]table.FileInfo{fi1}, "")},
		{location: "t2", t: table.FromFiles([]table.FileInfo{fi2}, "")},
	}, "z")
	assert.Empty(t, plans)
}

func TestAvailableTableNoLocalReplica(t *testing.T) {
	m := New(1)
	require.NoError(t, m.Register("root://some-remote-host//t.db"))

	_, _, err := m.AvailableTable(context.Background())
	require.Error(t, err)
}

func TestMassiveIngestAddFromDir(t *testing.T) {
	dir := t.TempDir()
	for i := 0; i < 12; i++ {
		name := filepath.Join(dir, "file"+string(rune('a'+i))+".dat")
		require.NoError(t, os.WriteFile(name, []byte("content"), 0o644))
	}

	tbl, err := table.AddFromDir(table.New(""), dir)
	require.NoError(t, err)
	assert.Equal(t, 12, tbl.Len())
}
