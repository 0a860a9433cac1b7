package hclload

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

const workflowScript = `
pipeline "gray-scott-workflow" {
  pkg "gray_scott" "sim" {
    nprocs = 4
    steps  = 500
    output = "/shared/gs.bp"
  }

  pkg "pdf_calc" "analysis" {
    nprocs      = 2
    input_file  = "/shared/gs.bp"
    output_file = "/shared/pdf.bp"
    nbins       = 100
  }
}
`

func writeScript(t *testing.T, name, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadSingleFile(t *testing.T) {
	path := writeScript(t, "workflow.hcl", workflowScript)

	scripts, err := Load(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, scripts, 1)

	script := scripts[0]
	assert.Equal(t, "gray-scott-workflow", script.Name)
	require.Len(t, script.Pkgs, 2)

	sim := script.Pkgs[0]
	assert.Equal(t, "gray_scott", sim.Type)
	assert.Equal(t, "sim", sim.ID)
	// cty numbers from HCL carry higher-precision big.Floats, so compare
	// with RawEquals rather than deep equality.
	assert.True(t, sim.Args["nprocs"].RawEquals(cty.NumberIntVal(4)))
	assert.Equal(t, cty.StringVal("/shared/gs.bp"), sim.Args["output"])

	analysis := script.Pkgs[1]
	assert.Equal(t, "pdf_calc", analysis.Type)
	assert.Equal(t, "analysis", analysis.ID)
	assert.True(t, analysis.Args["nbins"].RawEquals(cty.NumberIntVal(100)))
}

func TestLoadDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.hcl"), []byte(`
pipeline "one" {
  pkg "pdf_calc" "analysis" {
    input_file  = "in.bp"
    output_file = "out.bp"
  }
}
`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.hcl"), []byte(`
pipeline "two" {}
`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644))

	scripts, err := Load(context.Background(), dir)
	require.NoError(t, err)
	require.Len(t, scripts, 2)
	assert.Equal(t, "one", scripts[0].Name)
	assert.Equal(t, "two", scripts[1].Name)
}

func TestLoadErrors(t *testing.T) {
	t.Run("duplicate pkg ids rejected", func(t *testing.T) {
		path := writeScript(t, "dup.hcl", `
pipeline "wf" {
  pkg "pdf_calc" "analysis" {}
  pkg "pdf_calc" "analysis" {}
}
`)
		_, err := Load(context.Background(), path)
		assert.ErrorContains(t, err, `duplicate package id "analysis"`)
	})

	t.Run("invalid syntax rejected", func(t *testing.T) {
		path := writeScript(t, "bad.hcl", `pipeline "wf" {`)
		_, err := Load(context.Background(), path)
		assert.ErrorContains(t, err, "parsing")
	})

	t.Run("missing path", func(t *testing.T) {
		_, err := Load(context.Background(), filepath.Join(t.TempDir(), "nope"))
		assert.ErrorContains(t, err, "accessing")
	})

	t.Run("directory without scripts", func(t *testing.T) {
		_, err := Load(context.Background(), t.TempDir())
		assert.ErrorContains(t, err, "no .hcl pipeline scripts")
	})

	t.Run("non-hcl file", func(t *testing.T) {
		path := writeScript(t, "workflow.yaml", "pipelines: []")
		_, err := Load(context.Background(), path)
		assert.ErrorContains(t, err, "not an .hcl pipeline script")
	})
}
