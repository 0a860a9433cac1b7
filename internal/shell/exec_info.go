// Package shell launches the external binaries a pipeline stage wraps. It
// covers local process execution and MPI command-line construction; the
// parallelism itself lives inside the launched binaries.
package shell

import (
	"errors"
	"fmt"

	"github.com/iowarp/jarvis/internal/hostfile"
)

// ErrBinaryNotFound distinguishes a missing executable on PATH from a launch
// that ran and failed.
var ErrBinaryNotFound = errors.New("binary not found on PATH")

// StatusError carries the verbatim exit status of an external process. It is
// never retried at this layer; the workflow host decides what to do with it.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("process exited with status %d", e.Code)
}

// ExecInfo describes how a command should be launched. The zero value runs
// the command locally in the current directory with the inherited
// environment, streaming its output.
type ExecInfo struct {
	// Env entries are appended to the inherited environment.
	Env map[string]string

	// Cwd is the working directory for the child, "" for the current one.
	Cwd string

	// Nprocs and Ppn shape the MPI launch line. Ppn 0 emits no
	// processes-per-node flag, leaving placement to the MPI runtime.
	Nprocs int
	Ppn    int

	// Hostfile, when it has a backing path, is passed to the MPI launcher.
	Hostfile *hostfile.Hostfile

	// HideOutput suppresses streaming of the child's stdout/stderr.
	HideOutput bool

	// CollectOutput buffers the child's stdout/stderr into the Result.
	CollectOutput bool
}

// Result is the outcome of one launched process.
type Result struct {
	Cmd      string
	ExitCode int
	Stdout   string
	Stderr   string
}
