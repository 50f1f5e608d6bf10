package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDataDirHonorsOverride(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("TWEAKPANEL_DATA_DIR", dir)

	assert.Equal(t, dir, DataDir())
	assert.Equal(t, filepath.Join(dir, "tweaks.json"), DataFile("tweaks.json"))
}

func TestWriteAndReadDataFile(t *testing.T) {
	t.Setenv("TWEAKPANEL_DATA_DIR", t.TempDir())

	require.NoError(t, WriteDataFile("nested/tweaks.json", []byte("payload"), 0o644))
	data, err := ReadDataFile("nested/tweaks.json")
	require.NoError(t, err)
	assert.Equal(t, "payload", string(data))
}

func TestReadDataFileMissing(t *testing.T) {
	t.Setenv("TWEAKPANEL_DATA_DIR", t.TempDir())

	_, err := ReadDataFile("absent.json")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestReadDataFileMigratesLegacyFile(t *testing.T) {
	dataDir := t.TempDir()
	t.Setenv("TWEAKPANEL_DATA_DIR", dataDir)

	cwd, err := os.Getwd()
	require.NoError(t, err)
	workDir := t.TempDir()
	require.NoError(t, os.Chdir(workDir))
	t.Cleanup(func() { os.Chdir(cwd) })

	// An old working-directory file moves into the data dir on first read.
	require.NoError(t, os.WriteFile(filepath.Join(workDir, "legacy.json"), []byte("old"), 0o644))

	data, err := ReadDataFile("legacy.json")
	require.NoError(t, err)
	assert.Equal(t, "old", string(data))

	migrated, err := os.ReadFile(filepath.Join(dataDir, "legacy.json"))
	require.NoError(t, err)
	assert.Equal(t, "old", string(migrated))
}
