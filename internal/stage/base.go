package stage

import (
	"context"
	"time"

	"github.com/iowarp/jarvis/internal/ctxlog"
	"github.com/iowarp/jarvis/internal/hostfile"
	"github.com/iowarp/jarvis/internal/paramspec"
	"github.com/iowarp/jarvis/internal/shell"
)

// Base carries the state shared by every package instance. Package
// implementations embed it and read from it during their lifecycle hooks.
type Base struct {
	// PipelineName and PkgID identify the instance; GlobalID is
	// "<pipeline>.<pkg>" and appears in logs.
	PipelineName string
	PkgID        string
	GlobalID     string

	// ConfigDir holds generated stage files (settings, templates).
	// SharedDir is on the cluster-visible filesystem; PrivateDir is local.
	ConfigDir  string
	SharedDir  string
	PrivateDir string

	// Cfg is the resolved parameter set. The engine fills it from the
	// menu-resolved arguments when the package is instantiated.
	Cfg *paramspec.Config

	// MPI is the detected launcher flavor for command construction.
	MPI shell.MPIFlavor

	// Hostfile is the effective hostfile: the package's own override, else
	// the pipeline's, else the global default.
	Hostfile *hostfile.Hostfile

	env *Env
}

// EnsureDirs creates the package's three working directories.
func (b *Base) EnsureDirs() error {
	for _, dir := range []string{b.ConfigDir, b.SharedDir, b.PrivateDir} {
		if dir == "" {
			continue
		}
		if err := shell.Mkdir(dir); err != nil {
			return err
		}
	}
	return nil
}

// Env returns the package's tracked environment, creating it on first use.
func (b *Base) Env() *Env {
	if b.env == nil {
		b.env = NewEnv()
	}
	return b.env
}

// ExecInfo assembles the launch description for this package from its
// resolved configuration and tracked environment.
func (b *Base) ExecInfo(nprocs int) shell.ExecInfo {
	info := shell.ExecInfo{
		Env:      b.Env().Modified(),
		Nprocs:   nprocs,
		Hostfile: b.Hostfile,
	}
	if b.Cfg != nil {
		info.Ppn = b.Cfg.Int("ppn")
		info.HideOutput = b.Cfg.Bool("hide_output")
	}
	return info
}

// Sleep pauses for the configured post-start settle time, honoring context
// cancellation.
func (b *Base) Sleep(ctx context.Context) {
	if b.Cfg == nil {
		return
	}
	secs := b.Cfg.Int("sleep")
	if secs <= 0 {
		return
	}
	ctxlog.FromContext(ctx).Info("Sleeping after stage start.", "pkg", b.GlobalID, "seconds", secs)
	select {
	case <-ctx.Done():
	case <-time.After(time.Duration(secs) * time.Second):
	}
}
