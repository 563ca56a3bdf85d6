package editor

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithRemoteWorkingCopyLocalPassthrough(t *testing.T) {
	dir := t.TempDir()
	loc := filepath.Join(dir, "t.db")
	require.NoError(t, os.WriteFile(loc, []byte("content"), 0o644))

	var seen string
	err := WithRemoteWorkingCopy(context.Background(), loc, false, func(working string) error {
		seen = working
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, loc, seen)
}

func TestWithRemoteWorkingCopyLocalCreateMakesParent(t *testing.T) {
	dir := t.TempDir()
	loc := filepath.Join(dir, "nested", "t.db")

	err := WithRemoteWorkingCopy(context.Background(), loc, true, func(working string) error {
		return os.WriteFile(working, []byte("fresh"), 0o644)
	})
	require.NoError(t, err)

	data, err := os.ReadFile(loc)
	require.NoError(t, err)
	assert.Equal(t, "fresh", string(data))
}

func TestWithRemoteWorkingCopyPropagatesMutatorError(t *testing.T) {
	dir := t.TempDir()
	loc := filepath.Join(dir, "t.db")
	require.NoError(t, os.WriteFile(loc, []byte("content"), 0o644))

	boom := errors.New("boom")
	err := WithRemoteWorkingCopy(context.Background(), loc, false, func(working string) error {
		return boom
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
}
