package shell

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iowarp/jarvis/internal/hostfile"
)

func TestMpiCmd(t *testing.T) {
	t.Run("bare local launch", func(t *testing.T) {
		cmd := MpiCmd(MPICH, "pdf_calc gs-output.bp pdf-output.bp 100", ExecInfo{Nprocs: 2})
		assert.Equal(t, "mpirun -n 2 pdf_calc gs-output.bp pdf-output.bp 100", cmd)
	})

	t.Run("mpich flag spelling", func(t *testing.T) {
		hf := loadHostfile(t, "node01\nnode02\n")
		cmd := MpiCmd(MPICH, "adios2-gray-scott settings.json", ExecInfo{Nprocs: 8, Ppn: 4, Hostfile: hf})
		assert.Equal(t, "mpirun -n 8 -ppn 4 -f "+hf.Path()+" adios2-gray-scott settings.json", cmd)
	})

	t.Run("openmpi flag spelling", func(t *testing.T) {
		hf := loadHostfile(t, "node01\n")
		cmd := MpiCmd(OpenMPI, "adios2-gray-scott settings.json", ExecInfo{Nprocs: 8, Ppn: 4, Hostfile: hf})
		assert.Equal(t, "mpirun -n 8 --npernode 4 --hostfile "+hf.Path()+" adios2-gray-scott settings.json", cmd)
	})

	t.Run("intel and cray use mpich spelling", func(t *testing.T) {
		info := ExecInfo{Nprocs: 4, Ppn: 2}
		assert.Equal(t, "mpirun -n 4 -ppn 2 app", MpiCmd(IntelMPI, "app", info))
		assert.Equal(t, "mpirun -n 4 -ppn 2 app", MpiCmd(CrayMPICH, "app", info))
	})

	t.Run("localhost hostfile emits no flag", func(t *testing.T) {
		cmd := MpiCmd(MPICH, "app", ExecInfo{Nprocs: 2, Hostfile: hostfile.Localhost()})
		assert.Equal(t, "mpirun -n 2 app", cmd)
	})
}

func TestClassifyMPI(t *testing.T) {
	cases := []struct {
		name    string
		output  string
		want    MPIFlavor
		matched bool
	}{
		{"mpich", "HYDRA build details:\n    Version: 4.1.2 (MPICH)", MPICH, true},
		{"openmpi", "mpiexec (OpenRTE) 4.1.4", OpenMPI, true},
		{"openmpi brand", "Open MPI 5.0.0", OpenMPI, true},
		{"intel", "Intel(R) MPI Library for Linux* OS, Version 2021.9", IntelMPI, true},
		{"cray", "mpiexec version 8.1.25", CrayMPICH, true},
		{"unknown defaults to mpich", "some vendor launcher v1", MPICH, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, matched := ClassifyMPI(tc.output)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, tc.matched, matched)
		})
	}
}

func TestRun(t *testing.T) {
	ctx := context.Background()

	t.Run("collects output", func(t *testing.T) {
		res, err := Run(ctx, "echo hello world", ExecInfo{HideOutput: true, CollectOutput: true})
		require.NoError(t, err)
		assert.Equal(t, "hello world\n", res.Stdout)
		assert.Equal(t, 0, res.ExitCode)
	})

	t.Run("missing binary fails at launch", func(t *testing.T) {
		_, err := Run(ctx, "definitely-not-a-real-binary --flag", ExecInfo{})
		require.ErrorIs(t, err, ErrBinaryNotFound)
	})

	t.Run("non-zero exit surfaces status verbatim", func(t *testing.T) {
		res, err := Run(ctx, "false", ExecInfo{HideOutput: true})
		var statusErr *StatusError
		require.ErrorAs(t, err, &statusErr)
		assert.Equal(t, 1, statusErr.Code)
		assert.Equal(t, 1, res.ExitCode)
	})

	t.Run("empty command line rejected", func(t *testing.T) {
		_, err := Run(ctx, "   ", ExecInfo{})
		assert.ErrorContains(t, err, "empty command line")
	})
}

func TestRm(t *testing.T) {
	ctx := context.Background()

	dir := t.TempDir()
	target := filepath.Join(dir, "out.bp")
	require.NoError(t, os.MkdirAll(filepath.Join(target, "data"), 0o755))

	require.NoError(t, Rm(ctx, target))
	_, err := os.Stat(target)
	assert.True(t, os.IsNotExist(err))

	// Removing again is a no-op, not an error.
	require.NoError(t, Rm(ctx, target))
	require.NoError(t, Rm(ctx, ""))
}

func loadHostfile(t *testing.T, content string) *hostfile.Hostfile {
	t.Helper()
	path := filepath.Join(t.TempDir(), "hosts")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	hf, err := hostfile.Load(path)
	require.NoError(t, err)
	return hf
}
