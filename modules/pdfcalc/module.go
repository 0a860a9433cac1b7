// Package pdfcalc adapts the external PDF calculator into a pipeline stage.
// The pdf_calc binary reads Gray-Scott output and computes the probability
// distribution function of each 2D slice of the U and V variables; this
// adapter only builds its command line:
//
//	mpirun -n <nprocs> pdf_calc <input_file> <output_file> <nbins> [YES]
package pdfcalc

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/zclconf/go-cty/cty"

	"github.com/iowarp/jarvis/internal/paramspec"
	"github.com/iowarp/jarvis/internal/registry"
	"github.com/iowarp/jarvis/internal/shell"
	"github.com/iowarp/jarvis/internal/stage"
)

const binName = "pdf_calc"

// Module implements registry.Module for this package type.
type Module struct{}

// Register registers the pdf_calc package type.
func (m *Module) Register(r *registry.Registry) {
	r.Register(&registry.Definition{
		Type:        "pdf_calc",
		Kind:        stage.Application,
		Description: "PDF analysis of Gray-Scott simulation output (consumer stage)",
		Menu:        menu(),
		New: func(base *stage.Base) stage.Lifecycle {
			return &Pkg{Base: base}
		},
	})
}

func menu() paramspec.Menu {
	return paramspec.Menu{
		{Name: "nprocs", Msg: "Number of MPI processes", Type: cty.Number, Default: cty.NumberIntVal(2)},
		{Name: "input_file", Msg: "Input file from the Gray-Scott simulation", Type: cty.String, Required: true},
		{Name: "output_file", Msg: "Output file for the PDF analysis results", Type: cty.String, Required: true},
		{Name: "nbins", Msg: "Number of bins for the PDF calculation", Type: cty.Number, Default: cty.NumberIntVal(1000)},
		{Name: "output_inputdata", Msg: "Also write the original variables into the output", Type: cty.Bool, Default: cty.False},
	}
}

// Pkg is the analysis stage adapter. It shares its Base with the engine,
// which fills in the launch context before Configure runs.
type Pkg struct {
	*stage.Base
}

// Configure validates the required file paths. It fails before any launch is
// attempted when either path is absent.
func (p *Pkg) Configure(ctx context.Context, cfg *paramspec.Config) error {
	p.Cfg = cfg

	var missing []string
	if cfg.Str("input_file") == "" {
		missing = append(missing, "input_file")
	}
	if cfg.Str("output_file") == "" {
		missing = append(missing, "output_file")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", paramspec.ErrMissingParam, strings.Join(missing, ", "))
	}
	return nil
}

// command is the bare binary invocation, before the MPI prefix. The trailing
// YES token is the upstream binary's spelling for "emit the input data too".
func (p *Pkg) command() string {
	cmd := fmt.Sprintf("%s %s %s %d",
		binName, p.Cfg.Str("input_file"), p.Cfg.Str("output_file"), p.Cfg.Int("nbins"))
	if p.Cfg.Bool("output_inputdata") {
		cmd += " YES"
	}
	return cmd
}

// LaunchCmd is the constructed MPI launch line for this stage.
func (p *Pkg) LaunchCmd() string {
	return shell.MpiCmd(p.MPI, p.command(), p.ExecInfo(p.Cfg.Int("nprocs")))
}

// Start launches pdf_calc and blocks until it exits. A non-zero exit is
// surfaced verbatim to the caller, never retried here.
func (p *Pkg) Start(ctx context.Context) error {
	_, err := shell.Run(ctx, p.LaunchCmd(), p.ExecInfo(p.Cfg.Int("nprocs")))
	return err
}

// Stop is a no-op: pdf_calc runs to completion.
func (p *Pkg) Stop(ctx context.Context) error { return nil }

// Kill is a no-op for the same reason.
func (p *Pkg) Kill(ctx context.Context) error { return nil }

// Clean removes the analysis output artifact.
func (p *Pkg) Clean(ctx context.Context) error {
	return shell.Rm(ctx, p.Cfg.Str("output_file"))
}

// Status reports whether the analysis output exists yet.
func (p *Pkg) Status(ctx context.Context) string {
	if p.Cfg == nil {
		return "unconfigured"
	}
	if _, err := os.Stat(p.Cfg.Str("output_file")); err == nil {
		return "complete"
	}
	return "pending"
}
