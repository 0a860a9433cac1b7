// Package grayscott adapts the external Gray-Scott reaction-diffusion
// simulator (the adios2-gray-scott binary) into a pipeline stage. The
// adapter's whole job is translation: resolved parameters become a settings
// file, an ADIOS2 engine configuration, and an MPI launch line.
package grayscott

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/zclconf/go-cty/cty"

	"github.com/iowarp/jarvis/internal/ctxlog"
	"github.com/iowarp/jarvis/internal/paramspec"
	"github.com/iowarp/jarvis/internal/registry"
	"github.com/iowarp/jarvis/internal/shell"
	"github.com/iowarp/jarvis/internal/stage"
)

const binName = "adios2-gray-scott"

// fullRunSteps replaces the short default step count when full_run is set.
const fullRunSteps = 10000

// Module implements registry.Module for this package type.
type Module struct{}

// Register registers the gray_scott package type.
func (m *Module) Register(r *registry.Registry) {
	r.Register(&registry.Definition{
		Type:        "gray_scott",
		Kind:        stage.Application,
		Description: "Gray-Scott reaction-diffusion simulation (producer stage)",
		Menu:        menu(),
		New: func(base *stage.Base) stage.Lifecycle {
			return &Pkg{Base: base}
		},
	})
}

func menu() paramspec.Menu {
	return paramspec.Menu{
		{Name: "L", Msg: "Grid edge length (domain is L^3)", Type: cty.Number, Default: cty.NumberIntVal(32)},
		{Name: "steps", Msg: "Number of simulation steps", Type: cty.Number, Default: cty.NumberIntVal(100)},
		{Name: "plotgap", Msg: "Steps between output writes", Type: cty.Number, Default: cty.NumberIntVal(10)},
		{Name: "nprocs", Msg: "Number of MPI processes", Type: cty.Number, Default: cty.NumberIntVal(4)},
		{Name: "engine", Msg: "ADIOS2 output engine", Type: cty.String, Default: cty.StringVal("BP4"), Choices: []string{"BP4", "BP5", "SST"}},
		{Name: "output", Msg: "Output data path (.bp)", Type: cty.String, Required: true},
		{Name: "checkpoint", Msg: "Checkpoint output path, empty disables checkpointing", Type: cty.String},
		{Name: "full_run", Msg: "Run the full-length simulation instead of a short one", Type: cty.Bool, Default: cty.False},
		{Name: "Du", Msg: "Diffusion coefficient of U", Type: cty.Number, Default: cty.NumberFloatVal(0.2)},
		{Name: "Dv", Msg: "Diffusion coefficient of V", Type: cty.Number, Default: cty.NumberFloatVal(0.1)},
		{Name: "F", Msg: "Feed rate of U", Type: cty.Number, Default: cty.NumberFloatVal(0.01)},
		{Name: "k", Msg: "Kill rate of V", Type: cty.Number, Default: cty.NumberFloatVal(0.05)},
		{Name: "dt", Msg: "Timestep", Type: cty.Number, Default: cty.NumberFloatVal(2.0)},
		{Name: "noise", Msg: "Noise amplitude", Type: cty.Number, Default: cty.NumberFloatVal(1e-7)},
	}
}

// Pkg is the simulation stage adapter. It shares its Base with the engine,
// which fills in the launch context before Configure runs.
type Pkg struct {
	*stage.Base
}

// settingsPath and adiosPath are fixed locations under the package config
// directory, so a later process can rebuild the launch line without
// reconfiguring.
func (p *Pkg) settingsPath() string { return filepath.Join(p.ConfigDir, "settings.json") }
func (p *Pkg) adiosPath() string    { return filepath.Join(p.ConfigDir, "adios2.xml") }

// Configure validates parameters and writes the simulator's settings file
// plus the ADIOS2 engine configuration into the package config directory.
func (p *Pkg) Configure(ctx context.Context, cfg *paramspec.Config) error {
	p.Cfg = cfg
	if cfg.Str("output") == "" {
		return fmt.Errorf("%w: output", paramspec.ErrMissingParam)
	}

	if err := writeAdiosConfig(p.adiosPath(), cfg.Str("engine")); err != nil {
		return err
	}
	if err := writeSettings(p.settingsPath(), p.adiosPath(), cfg); err != nil {
		return err
	}

	// The simulator does not create parent directories for its output.
	if dir := filepath.Dir(cfg.Str("output")); dir != "." {
		if err := shell.Mkdir(dir); err != nil {
			return err
		}
	}

	ctxlog.FromContext(ctx).Info("Wrote simulation settings.",
		"pkg", p.GlobalID, "settings", p.settingsPath(), "engine", cfg.Str("engine"))
	return nil
}

// LaunchCmd is the constructed MPI launch line for this stage.
func (p *Pkg) LaunchCmd() string {
	return shell.MpiCmd(p.MPI, binName+" "+p.settingsPath(), p.ExecInfo(p.Cfg.Int("nprocs")))
}

// Start launches the simulator and blocks until it exits. The exit status is
// surfaced verbatim; retrying is the workflow host's call.
func (p *Pkg) Start(ctx context.Context) error {
	_, err := shell.Run(ctx, p.LaunchCmd(), p.ExecInfo(p.Cfg.Int("nprocs")))
	return err
}

// Stop is a no-op: the simulation runs to completion.
func (p *Pkg) Stop(ctx context.Context) error { return nil }

// Kill is a no-op for the same reason.
func (p *Pkg) Kill(ctx context.Context) error { return nil }

// Clean removes the simulation's output artifacts.
func (p *Pkg) Clean(ctx context.Context) error {
	if err := shell.Rm(ctx, p.Cfg.Str("output")); err != nil {
		return err
	}
	return shell.Rm(ctx, p.Cfg.Str("checkpoint"))
}

// Status reports whether the output artifact exists yet.
func (p *Pkg) Status(ctx context.Context) string {
	if p.Cfg == nil {
		return "unconfigured"
	}
	if _, err := os.Stat(p.Cfg.Str("output")); err == nil {
		return "complete"
	}
	return "pending"
}
