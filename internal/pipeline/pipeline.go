// Package pipeline is the engine that drives package lifecycles. A pipeline
// is an ordered list of package instances; stages run one at a time and hand
// off through the shared filesystem, so there is no dependency graph and no
// in-tool parallelism.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/zclconf/go-cty/cty"

	"github.com/iowarp/jarvis/internal/config"
	"github.com/iowarp/jarvis/internal/ctxlog"
	"github.com/iowarp/jarvis/internal/hclload"
	"github.com/iowarp/jarvis/internal/hostfile"
	"github.com/iowarp/jarvis/internal/paramspec"
	"github.com/iowarp/jarvis/internal/registry"
	"github.com/iowarp/jarvis/internal/shell"
	"github.com/iowarp/jarvis/internal/stage"
)

// Entry is one package instance in the pipeline, in execution order.
type Entry struct {
	Type string
	ID   string

	def  *registry.Definition
	Cfg  *paramspec.Config
	Base *stage.Base
	Inst stage.Lifecycle
}

// Pipeline holds the ordered package list and the context they run in.
type Pipeline struct {
	Name string

	// MPI is the launcher flavor packages format their commands for. The
	// CLI sets it from shell.DetectMPI; it defaults to MPICH.
	MPI shell.MPIFlavor

	// Hostfile is the pipeline-wide hostfile; packages may override it
	// with their own `hostfile` parameter.
	Hostfile *hostfile.Hostfile

	cfg  *config.Config
	reg  *registry.Registry
	pkgs []*Entry
}

// New returns an empty pipeline bound to the global configuration and the
// package registry.
func New(name string, cfg *config.Config, reg *registry.Registry) *Pipeline {
	return &Pipeline{Name: name, cfg: cfg, reg: reg}
}

// Create makes the pipeline's directory trees and persists its (empty)
// state. Creating an existing pipeline is not an error; directories and
// state are simply refreshed.
func (p *Pipeline) Create(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)
	for _, dir := range []string{
		p.cfg.PipelineDir(p.Name),
		p.cfg.PipelineSharedDir(p.Name),
		p.cfg.PipelinePrivateDir(p.Name),
	} {
		if err := shell.Mkdir(dir); err != nil {
			return err
		}
	}
	logger.Info("Created pipeline.", "pipeline", p.Name, "dir", p.cfg.PipelineDir(p.Name))
	return p.Save()
}

// Append validates args against the package type's menu and adds the
// instance to the end of the pipeline. Validation failures reject the append
// before anything is persisted — missing required parameters never reach a
// launch attempt.
func (p *Pipeline) Append(ctx context.Context, pkgType, pkgID string, args map[string]cty.Value) error {
	logger := ctxlog.FromContext(ctx)

	if pkgID == "" {
		pkgID = pkgType
	}
	for _, existing := range p.pkgs {
		if existing.ID == pkgID {
			return fmt.Errorf("pipeline %q already has a package with id %q", p.Name, pkgID)
		}
	}

	def, err := p.reg.Lookup(pkgType)
	if err != nil {
		return err
	}
	cfg, err := def.Menu.Resolve(args)
	if err != nil {
		return fmt.Errorf("configuring %s.%s: %w", p.Name, pkgID, err)
	}

	entry := &Entry{Type: pkgType, ID: pkgID, def: def, Cfg: cfg}
	p.instantiate(entry)
	p.pkgs = append(p.pkgs, entry)
	logger.Info("Appended package.", "pipeline", p.Name, "pkg", pkgID, "type", pkgType)
	return nil
}

// AppendScript appends every pkg declaration of a loaded script in order.
func (p *Pipeline) AppendScript(ctx context.Context, script *hclload.Script) error {
	for _, decl := range script.Pkgs {
		if err := p.Append(ctx, decl.Type, decl.ID, decl.Args); err != nil {
			return err
		}
	}
	return nil
}

// Entries returns the package entries in execution order.
func (p *Pipeline) Entries() []*Entry {
	return p.pkgs
}

func (p *Pipeline) instantiate(entry *Entry) {
	base := &stage.Base{
		PipelineName: p.Name,
		PkgID:        entry.ID,
		GlobalID:     p.Name + "." + entry.ID,
		ConfigDir:    p.cfg.PkgConfigDir(p.Name, entry.ID),
		SharedDir:    p.cfg.PkgSharedDir(p.Name, entry.ID),
		PrivateDir:   p.cfg.PkgPrivateDir(p.Name, entry.ID),
		Cfg:          entry.Cfg,
		MPI:          p.MPI,
	}
	entry.Base = base
	entry.Inst = entry.def.New(base)
}

// Configure runs every package's Configure hook in order. The first failure
// aborts; nothing is started afterwards.
func (p *Pipeline) Configure(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)
	for _, entry := range p.pkgs {
		entry.Base.MPI = p.MPI
		if err := p.resolveHostfile(entry); err != nil {
			return err
		}
		if err := entry.Base.EnsureDirs(); err != nil {
			return err
		}
		logger.Info("Configuring package.", "pkg", entry.Base.GlobalID)
		if err := entry.Inst.Configure(ctx, entry.Cfg); err != nil {
			return fmt.Errorf("configuring %s: %w", entry.Base.GlobalID, err)
		}
	}
	return nil
}

// resolveHostfile applies the package-level hostfile override, falling back
// to the pipeline-wide hostfile.
func (p *Pipeline) resolveHostfile(entry *Entry) error {
	if path := entry.Cfg.Str("hostfile"); path != "" {
		hf, err := hostfile.Load(path)
		if err != nil {
			return fmt.Errorf("package %s: %w", entry.Base.GlobalID, err)
		}
		entry.Base.Hostfile = hf
		return nil
	}
	entry.Base.Hostfile = p.Hostfile
	return nil
}

// Start runs every package's Start hook in order, waiting for each
// application to finish before moving on. A non-zero stage aborts the run;
// the exit status is surfaced verbatim, never retried.
func (p *Pipeline) Start(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)
	for _, entry := range p.pkgs {
		entry.Base.MPI = p.MPI
		if entry.Base.Hostfile == nil {
			if err := p.resolveHostfile(entry); err != nil {
				return err
			}
		}
		logger.Info("Starting package.", "pkg", entry.Base.GlobalID, "kind", entry.def.Kind.String())
		if err := entry.Inst.Start(ctx); err != nil {
			return fmt.Errorf("package %s failed: %w", entry.Base.GlobalID, err)
		}
		entry.Base.Sleep(ctx)
	}
	return nil
}

// Stop runs Stop hooks in reverse order so consumers go down before
// producers.
func (p *Pipeline) Stop(ctx context.Context) error {
	var errs []error
	for i := len(p.pkgs) - 1; i >= 0; i-- {
		entry := p.pkgs[i]
		if err := entry.Inst.Stop(ctx); err != nil {
			errs = append(errs, fmt.Errorf("stopping %s: %w", entry.Base.GlobalID, err))
		}
	}
	return errors.Join(errs...)
}

// Kill forcibly terminates every package, best effort.
func (p *Pipeline) Kill(ctx context.Context) error {
	var errs []error
	for _, entry := range p.pkgs {
		if err := entry.Inst.Kill(ctx); err != nil {
			errs = append(errs, fmt.Errorf("killing %s: %w", entry.Base.GlobalID, err))
		}
	}
	return errors.Join(errs...)
}

// Clean removes every package's generated artifacts. All packages are
// visited even when one fails; clean must stay usable on a half-broken tree.
func (p *Pipeline) Clean(ctx context.Context) error {
	var errs []error
	for _, entry := range p.pkgs {
		if err := entry.Inst.Clean(ctx); err != nil {
			errs = append(errs, fmt.Errorf("cleaning %s: %w", entry.Base.GlobalID, err))
		}
	}
	return errors.Join(errs...)
}

// Destroy cleans every package and then removes the pipeline's directory
// trees, including its persisted state.
func (p *Pipeline) Destroy(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)
	if err := p.Clean(ctx); err != nil {
		return err
	}
	for _, dir := range []string{
		p.cfg.PipelineDir(p.Name),
		p.cfg.PipelineSharedDir(p.Name),
		p.cfg.PipelinePrivateDir(p.Name),
	} {
		if err := os.RemoveAll(dir); err != nil {
			return fmt.Errorf("removing %s: %w", dir, err)
		}
	}
	logger.Info("Destroyed pipeline.", "pipeline", p.Name)
	return nil
}

// Status returns one formatted line per package.
func (p *Pipeline) Status(ctx context.Context) []string {
	lines := make([]string, 0, len(p.pkgs))
	for _, entry := range p.pkgs {
		lines = append(lines, fmt.Sprintf("%s (%s): %s",
			entry.Base.GlobalID, entry.Type, entry.Inst.Status(ctx)))
	}
	return lines
}
