package cli

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func runCLI(t *testing.T, root string, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	err := Execute(append([]string{"--config-root", root}, args...), &buf)
	return buf.String(), err
}

func TestParseArgs(t *testing.T) {
	vals, err := parseArgs([]string{"nprocs=2", "output_file=out.bp"})
	require.NoError(t, err)
	assert.Equal(t, cty.StringVal("2"), vals["nprocs"])
	assert.Equal(t, cty.StringVal("out.bp"), vals["output_file"])

	_, err = parseArgs([]string{"nprocs"})
	assert.Error(t, err)

	_, err = parseArgs([]string{"=2"})
	assert.Error(t, err)
}

func TestInvalidLogLevel(t *testing.T) {
	_, err := runCLI(t, t.TempDir(), "--log-level", "loud", "pkg", "list")
	require.Error(t, err)
	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 2, exitErr.Code)
}

func TestPkgList(t *testing.T) {
	out, err := runCLI(t, t.TempDir(), "pkg", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "gray_scott")
	assert.Contains(t, out, "pdf_calc")
}

func TestPkgHelp(t *testing.T) {
	out, err := runCLI(t, t.TempDir(), "pkg", "help", "pdf_calc")
	require.NoError(t, err)
	assert.Contains(t, out, "input_file")
	assert.Contains(t, out, "required")
	assert.Contains(t, out, "nbins")

	_, err = runCLI(t, t.TempDir(), "pkg", "help", "no_such_pkg")
	assert.Error(t, err)
}

func TestPipelineCommands(t *testing.T) {
	root := t.TempDir()

	_, err := runCLI(t, root, "init")
	require.NoError(t, err)
	require.FileExists(t, filepath.Join(root, "jarvis.yaml"))

	_, err = runCLI(t, root, "pipeline", "create", "demo")
	require.NoError(t, err)

	// create made "demo" current, so append needs no name.
	_, err = runCLI(t, root, "pipeline", "append", "pdf_calc",
		"input_file=gs-output.bp", "output_file=pdf-output.bp", "nbins=100")
	require.NoError(t, err)

	out, err := runCLI(t, root, "pipeline", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "pipeline demo")
	assert.Contains(t, out, "demo.pdf_calc (pdf_calc): pending")

	_, err = runCLI(t, root, "pipeline", "configure")
	require.NoError(t, err)

	_, err = runCLI(t, root, "pipeline", "clean")
	require.NoError(t, err)

	_, err = runCLI(t, root, "pipeline", "destroy")
	require.NoError(t, err)
}

func TestAppendRequiresParams(t *testing.T) {
	root := t.TempDir()
	_, err := runCLI(t, root, "pipeline", "create", "demo")
	require.NoError(t, err)

	_, err = runCLI(t, root, "pipeline", "append", "pdf_calc")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "input_file")
	assert.Contains(t, err.Error(), "output_file")
}

func TestPipelineNameRequired(t *testing.T) {
	_, err := runCLI(t, t.TempDir(), "pipeline", "status")
	require.Error(t, err)
	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 2, exitErr.Code)
}
