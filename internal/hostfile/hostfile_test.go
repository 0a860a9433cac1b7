package hostfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeHostfile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "hostfile")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	t.Run("plain host list", func(t *testing.T) {
		path := writeHostfile(t, "node01\nnode02\nnode03\n")
		hf, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, []string{"node01", "node02", "node03"}, hf.Hosts())
		assert.Equal(t, 3, hf.Len())
		assert.Equal(t, path, hf.Path())
		assert.False(t, hf.IsLocal())
	})

	t.Run("comments and blank lines are skipped", func(t *testing.T) {
		path := writeHostfile(t, "# rack 4\nnode01\n\n  # spare\n  node02  \n")
		hf, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, []string{"node01", "node02"}, hf.Hosts())
	})

	t.Run("empty file means localhost", func(t *testing.T) {
		path := writeHostfile(t, "\n# nothing here\n")
		hf, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, []string{"localhost"}, hf.Hosts())
	})

	t.Run("missing file is an error", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "does-not-exist"))
		assert.ErrorContains(t, err, "reading hostfile")
	})
}

func TestLocalhost(t *testing.T) {
	hf := Localhost()
	assert.True(t, hf.IsLocal())
	assert.Equal(t, "", hf.Path())
	assert.Equal(t, 1, hf.Len())

	var nilHf *Hostfile
	assert.True(t, nilHf.IsLocal())
	assert.Equal(t, []string{"localhost"}, nilHf.Hosts())
}
