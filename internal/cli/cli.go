// Package cli wires the jarvis command tree. Commands operate on the global
// configuration, the builtin package registry, and saved pipelines.
package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/zclconf/go-cty/cty"

	"github.com/iowarp/jarvis/internal/config"
	"github.com/iowarp/jarvis/internal/ctxlog"
	"github.com/iowarp/jarvis/internal/hostfile"
	"github.com/iowarp/jarvis/internal/pipeline"
	"github.com/iowarp/jarvis/internal/registry"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// state carries everything a command needs once the root flags are parsed.
type state struct {
	outW io.Writer

	configRoot string
	logLevel   string
	logFormat  string
	hostfile   string

	// root is the resolved configuration root once setup has run.
	root string

	cfg *config.Config
	reg *registry.Registry
	ctx context.Context
}

// Execute parses args and runs the selected command. It is the whole CLI;
// main only translates its error into an exit code.
func Execute(args []string, outW io.Writer) error {
	s := &state{outW: outW}

	root := &cobra.Command{
		Use:           "jarvis",
		Short:         "Producer-consumer scientific workflow launcher",
		Long:          "jarvis configures and launches external simulation and analysis binaries\nas stages of a producer-consumer workflow.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return s.setup()
		},
	}
	root.SetOut(outW)
	root.SetErr(outW)

	pf := root.PersistentFlags()
	pf.StringVar(&s.configRoot, "config-root", "", "Configuration root (default ~/.jarvis or JARVIS_CONFIG_ROOT)")
	pf.StringVar(&s.logLevel, "log-level", "info", "Logging level: 'debug', 'info', 'warn', or 'error'")
	pf.StringVar(&s.logFormat, "log-format", "text", "Log output format: 'text' or 'json'")
	pf.StringVar(&s.hostfile, "hostfile", "", "Hostfile for MPI launches (overrides the configured default)")

	root.AddCommand(newInitCmd(s))
	root.AddCommand(newPipelineCmd(s))
	root.AddCommand(newPkgCmd(s))

	root.SetArgs(args)
	return root.Execute()
}

// setup validates the root flags and builds the shared command state.
func (s *state) setup() error {
	level := strings.ToLower(s.logLevel)
	switch level {
	case "debug", "info", "warn", "error":
	default:
		return &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}
	format := strings.ToLower(s.logFormat)
	if format != "text" && format != "json" {
		return &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logger := newLogger(level, format, s.outW)
	s.ctx = ctxlog.WithLogger(context.Background(), logger)

	s.root = s.configRoot
	if s.root == "" {
		s.root = config.DefaultRoot()
	}
	cfg, err := config.Load(s.root)
	if err != nil {
		return &ExitError{Code: 2, Message: err.Error()}
	}
	if s.hostfile != "" {
		cfg.Hostfile = s.hostfile
	}
	s.cfg = cfg

	s.reg = registry.New()
	for _, mod := range coreModules {
		mod.Register(s.reg)
	}
	logger.Debug("CLI state prepared.", "config_root", s.root, "package_types", len(s.reg.Types()))
	return nil
}

// pipelineName resolves the pipeline a command operates on: the positional
// argument if given, otherwise the configured current pipeline.
func (s *state) pipelineName(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	if s.cfg.CurrentPipeline != "" {
		return s.cfg.CurrentPipeline, nil
	}
	return "", fmt.Errorf("no pipeline named and no current pipeline set")
}

// loadPipeline loads a saved pipeline and attaches the effective hostfile.
func (s *state) loadPipeline(name string) (*pipeline.Pipeline, error) {
	p, err := pipeline.Load(name, s.cfg, s.reg)
	if err != nil {
		return nil, err
	}
	if err := s.attachHostfile(p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *state) attachHostfile(p *pipeline.Pipeline) error {
	if s.cfg.Hostfile == "" {
		p.Hostfile = hostfile.Localhost()
		return nil
	}
	hf, err := hostfile.Load(s.cfg.Hostfile)
	if err != nil {
		return err
	}
	p.Hostfile = hf
	return nil
}

// parseArgs turns trailing key=value arguments into package configuration
// values. Everything is a string here; menu resolution converts to the
// declared types.
func parseArgs(args []string) (map[string]cty.Value, error) {
	out := make(map[string]cty.Value, len(args))
	for _, arg := range args {
		key, val, ok := strings.Cut(arg, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("malformed argument %q, want key=value", arg)
		}
		out[key] = cty.StringVal(val)
	}
	return out, nil
}
