package testutil

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileExists(t *testing.T) {
	assert.False(t, FileExists("/non/existent/file"))

	p := WriteFile(t, CreateTempDir(t), "f.txt", "x")
	assert.True(t, FileExists(p))
}

func TestEnsureDir(t *testing.T) {
	dir := filepath.Join(CreateTempDir(t), "nested", "dir")

	require.NoError(t, EnsureDir(dir))
	assert.True(t, FileExists(dir))
	require.NoError(t, EnsureDir(dir))
}
