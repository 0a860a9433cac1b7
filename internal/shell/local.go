package shell

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/iowarp/jarvis/internal/ctxlog"
)

// Run executes a constructed command line locally and waits for it to
// finish. The command line is whitespace-split; the invocations built by this
// tool are plain paths and numbers, never shell syntax. Context cancellation
// kills the child, which is the only cancellation this layer supports.
//
// A non-zero exit returns the populated Result together with a *StatusError
// so callers can surface the status verbatim.
func Run(ctx context.Context, cmdline string, info ExecInfo) (*Result, error) {
	logger := ctxlog.FromContext(ctx)

	fields := strings.Fields(cmdline)
	if len(fields) == 0 {
		return nil, errors.New("empty command line")
	}

	bin, err := exec.LookPath(fields[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrBinaryNotFound, fields[0])
	}

	cmd := exec.CommandContext(ctx, bin, fields[1:]...)
	cmd.Dir = info.Cwd
	cmd.Env = mergedEnv(info.Env)

	var outBuf, errBuf bytes.Buffer
	cmd.Stdout = outputWriter(os.Stdout, &outBuf, info)
	cmd.Stderr = outputWriter(os.Stderr, &errBuf, info)

	logger.Debug("Launching process.", "cmd", cmdline)
	res := &Result{Cmd: cmdline}
	runErr := cmd.Run()
	res.Stdout = outBuf.String()
	res.Stderr = errBuf.String()

	if runErr != nil {
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
			logger.Debug("Process exited non-zero.", "cmd", fields[0], "status", res.ExitCode)
			return res, &StatusError{Code: res.ExitCode}
		}
		return res, fmt.Errorf("launching %s: %w", fields[0], runErr)
	}

	logger.Debug("Process exited cleanly.", "cmd", fields[0])
	return res, nil
}

func outputWriter(stream io.Writer, buf *bytes.Buffer, info ExecInfo) io.Writer {
	switch {
	case info.CollectOutput && info.HideOutput:
		return buf
	case info.CollectOutput:
		return io.MultiWriter(stream, buf)
	case info.HideOutput:
		return io.Discard
	default:
		return stream
	}
}

func mergedEnv(extra map[string]string) []string {
	if len(extra) == 0 {
		return nil // inherit as-is
	}
	env := os.Environ()
	for k, v := range extra {
		env = append(env, k+"="+v)
	}
	return env
}
