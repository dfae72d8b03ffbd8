package restyutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFilesystemOutput(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "dump")
	err := os.MkdirAll(dir, 0777)
	require.NoError(t, err)
	err = os.WriteFile(filepath.Join(dir, "stale"), []byte("old"), 0600)
	require.NoError(t, err)

	out, err := NewFilesystemOutput(dir)
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, "stale"))
	require.True(t, os.IsNotExist(err))

	out.Write("1", "---- REQUEST ----")
	contents, err := os.ReadFile(filepath.Join(dir, "1"))
	require.NoError(t, err)
	require.Equal(t, "---- REQUEST ----", string(contents))
}
