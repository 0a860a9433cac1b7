package stage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func TestEnvTracking(t *testing.T) {
	t.Run("LD_PRELOAD stays out of the base view", func(t *testing.T) {
		env := NewEnv()
		env.Set("PATH", "/opt/adios2/bin")
		env.Set("LD_PRELOAD", "/opt/hermes/libhermes.so")

		assert.Equal(t, map[string]string{"PATH": "/opt/adios2/bin"}, env.Base())
		assert.Equal(t, map[string]string{
			"PATH":       "/opt/adios2/bin",
			"LD_PRELOAD": "/opt/hermes/libhermes.so",
		}, env.Modified())
	})

	t.Run("prepend joins with colon", func(t *testing.T) {
		env := NewEnv()
		env.Set("PATH", "/usr/bin")
		env.Prepend("PATH", "/opt/mpi/bin")
		assert.Equal(t, "/opt/mpi/bin:/usr/bin", env.Base()["PATH"])

		env.Prepend("LD_PRELOAD", "/a.so")
		env.Prepend("LD_PRELOAD", "/b.so")
		assert.Equal(t, "/b.so:/a.so", env.Modified()["LD_PRELOAD"])
		_, inBase := env.Base()["LD_PRELOAD"]
		assert.False(t, inBase)
	})

	t.Run("views are copies", func(t *testing.T) {
		env := NewEnv()
		env.Set("A", "1")
		m := env.Base()
		m["A"] = "2"
		assert.Equal(t, "1", env.Base()["A"])
	})
}

func TestBaseEnsureDirs(t *testing.T) {
	root := t.TempDir()
	b := &Base{
		ConfigDir:  filepath.Join(root, "config", "sim"),
		SharedDir:  filepath.Join(root, "shared", "sim"),
		PrivateDir: filepath.Join(root, "private", "sim"),
	}
	require.NoError(t, b.EnsureDirs())
	for _, dir := range []string{b.ConfigDir, b.SharedDir, b.PrivateDir} {
		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}

	// Repeat is idempotent.
	require.NoError(t, b.EnsureDirs())
}

func TestBaseExecInfo(t *testing.T) {
	menu := CommonMenu()
	cfg, err := menu.Resolve(map[string]cty.Value{
		"ppn":         cty.NumberIntVal(8),
		"hide_output": cty.True,
	})
	require.NoError(t, err)

	b := &Base{Cfg: cfg}
	b.Env().Set("ADIOS2_CONFIG", "/shared/adios2.xml")

	info := b.ExecInfo(16)
	assert.Equal(t, 16, info.Nprocs)
	assert.Equal(t, 8, info.Ppn)
	assert.True(t, info.HideOutput)
	assert.Equal(t, "/shared/adios2.xml", info.Env["ADIOS2_CONFIG"])
}

func TestCommonMenuDefaults(t *testing.T) {
	cfg, err := CommonMenu().Resolve(nil)
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.Int("ppn"))
	assert.Equal(t, 0, cfg.Int("sleep"))
	assert.False(t, cfg.Bool("hide_output"))
	assert.False(t, cfg.Has("hostfile"))
}
