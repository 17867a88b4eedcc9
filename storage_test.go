package treasure

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalFileSystemRoundTrip(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "data.s")
	fs := &localFileSystem{}

	require.NoError(t, fs.WriteFile(tmpFile, []byte("label:\n")))
	data, err := fs.ReadFile(tmpFile)
	require.NoError(t, err)
	assert.Equal(t, "label:\n", string(data))

	_, err = fs.ReadFile(filepath.Join(t.TempDir(), "missing.s"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestMemFileSystem(t *testing.T) {
	fs := NewMemFileSystem(map[string]string{"a.s": "a:\n"})

	data, err := fs.ReadFile("a.s")
	require.NoError(t, err)
	assert.Equal(t, "a:\n", string(data))

	// Returned slices are copies.
	data[0] = 'x'
	again, err := fs.ReadFile("a.s")
	require.NoError(t, err)
	assert.Equal(t, "a:\n", string(again))

	buf := []byte("b:\n")
	require.NoError(t, fs.WriteFile("b.s", buf))
	buf[0] = 'x'
	data, err = fs.ReadFile("b.s")
	require.NoError(t, err)
	assert.Equal(t, "b:\n", string(data))

	_, err = fs.ReadFile("c.s")
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestFileOptionsOverrideProjectFileSystem(t *testing.T) {
	p := NewProject(ProjectOptions{
		NumTreasures: testNumTreasures,
		LogLevel:     "NOOP",
		FileSystem:   NewMemFileSystem(map[string]string{"main.s": testSource}),
	})
	other := NewMemFileSystem(map[string]string{"main.s": "other:\n"})

	d, err := p.Open(FileOptions{FilePath: "main.s", FileSystem: other})
	require.NoError(t, err)
	assert.Equal(t, []string{"other:"}, d.Lines())
}
