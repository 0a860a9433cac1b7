package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/iowarp/jarvis/internal/ctxlog"
	"github.com/iowarp/jarvis/internal/hclload"
	"github.com/iowarp/jarvis/internal/pipeline"
	"github.com/iowarp/jarvis/internal/shell"
)

func newInitCmd(s *state) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the configuration root and persist defaults",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := s.cfg.Save(s.root); err != nil {
				return &ExitError{Code: 1, Message: err.Error()}
			}
			ctxlog.FromContext(s.ctx).Info("Initialized configuration.", "root", s.root)
			return nil
		},
	}
}

func newPipelineCmd(s *state) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "pipeline",
		Aliases: []string{"ppl"},
		Short:   "Create, build, and drive pipelines",
	}
	cmd.AddCommand(
		newPipelineCreateCmd(s),
		newPipelineAppendCmd(s),
		newPipelineLoadCmd(s),
		newPipelineLifecycleCmd(s, "configure", "Write per-package configuration and generated files",
			func(p *pipeline.Pipeline) func() error { return func() error { return p.Configure(s.ctx) } }),
		newPipelineLifecycleCmd(s, "run", "Configure and start every package in order",
			func(p *pipeline.Pipeline) func() error { return func() error { return p.Run(s.ctx) } }),
		newPipelineLifecycleCmd(s, "start", "Start every package in order",
			func(p *pipeline.Pipeline) func() error { return func() error { return p.Start(s.ctx) } }),
		newPipelineLifecycleCmd(s, "stop", "Stop packages in reverse order",
			func(p *pipeline.Pipeline) func() error { return func() error { return p.Stop(s.ctx) } }),
		newPipelineLifecycleCmd(s, "kill", "Forcibly terminate every package",
			func(p *pipeline.Pipeline) func() error { return func() error { return p.Kill(s.ctx) } }),
		newPipelineLifecycleCmd(s, "clean", "Remove package output data",
			func(p *pipeline.Pipeline) func() error { return func() error { return p.Clean(s.ctx) } }),
		newPipelineDestroyCmd(s),
		newPipelineStatusCmd(s),
	)
	return cmd
}

func newPipelineCreateCmd(s *state) *cobra.Command {
	return &cobra.Command{
		Use:   "create <name>",
		Short: "Create an empty pipeline and make it current",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			p := pipeline.New(name, s.cfg, s.reg)
			if err := p.Create(s.ctx); err != nil {
				return &ExitError{Code: 1, Message: err.Error()}
			}
			s.cfg.CurrentPipeline = name
			if err := s.cfg.Save(s.root); err != nil {
				return &ExitError{Code: 1, Message: err.Error()}
			}
			return nil
		},
	}
}

func newPipelineAppendCmd(s *state) *cobra.Command {
	var pkgID string
	cmd := &cobra.Command{
		Use:   "append <pkg_type> [key=value ...]",
		Short: "Append a package to the current pipeline",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, err := s.pipelineName(nil)
			if err != nil {
				return &ExitError{Code: 2, Message: err.Error()}
			}
			p, err := s.loadPipeline(name)
			if err != nil {
				return &ExitError{Code: 1, Message: err.Error()}
			}
			pkgType := args[0]
			vals, err := parseArgs(args[1:])
			if err != nil {
				return &ExitError{Code: 2, Message: err.Error()}
			}
			id := pkgID
			if id == "" {
				id = pkgType
			}
			if err := p.Append(s.ctx, pkgType, id, vals); err != nil {
				return &ExitError{Code: 1, Message: err.Error()}
			}
			if err := p.Save(); err != nil {
				return &ExitError{Code: 1, Message: err.Error()}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&pkgID, "id", "", "Package instance id (default: the package type)")
	return cmd
}

func newPipelineLoadCmd(s *state) *cobra.Command {
	return &cobra.Command{
		Use:   "load <script.hcl | dir>",
		Short: "Create pipelines from a script file or directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			scripts, err := hclload.Load(s.ctx, args[0])
			if err != nil {
				return &ExitError{Code: 2, Message: err.Error()}
			}
			for _, script := range scripts {
				p := pipeline.New(script.Name, s.cfg, s.reg)
				if err := p.Create(s.ctx); err != nil {
					return &ExitError{Code: 1, Message: err.Error()}
				}
				if err := p.AppendScript(s.ctx, script); err != nil {
					return &ExitError{Code: 1, Message: err.Error()}
				}
				if err := p.Save(); err != nil {
					return &ExitError{Code: 1, Message: err.Error()}
				}
				s.cfg.CurrentPipeline = script.Name
			}
			if err := s.cfg.Save(s.root); err != nil {
				return &ExitError{Code: 1, Message: err.Error()}
			}
			return nil
		},
	}
}

// newPipelineLifecycleCmd builds the commands that share the load-then-act
// shape: resolve the pipeline name, load its saved state, run one lifecycle
// phase across it.
func newPipelineLifecycleCmd(s *state, use, short string, phase func(*pipeline.Pipeline) func() error) *cobra.Command {
	return &cobra.Command{
		Use:   use + " [name]",
		Short: short,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := s.openPipeline(args)
			if err != nil {
				return err
			}
			if use == "run" || use == "start" {
				p.MPI = shell.DetectMPI(s.ctx)
			}
			if err := phase(p)(); err != nil {
				return &ExitError{Code: 1, Message: err.Error()}
			}
			return nil
		},
	}
}

func newPipelineDestroyCmd(s *state) *cobra.Command {
	return &cobra.Command{
		Use:   "destroy [name]",
		Short: "Clean package data and delete the pipeline",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := s.openPipeline(args)
			if err != nil {
				return err
			}
			if err := p.Destroy(s.ctx); err != nil {
				return &ExitError{Code: 1, Message: err.Error()}
			}
			if s.cfg.CurrentPipeline == p.Name {
				s.cfg.CurrentPipeline = ""
				if err := s.cfg.Save(s.root); err != nil {
					return &ExitError{Code: 1, Message: err.Error()}
				}
			}
			return nil
		},
	}
}

func newPipelineStatusCmd(s *state) *cobra.Command {
	return &cobra.Command{
		Use:   "status [name]",
		Short: "Report per-package status",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := s.openPipeline(args)
			if err != nil {
				return err
			}
			fmt.Fprintf(s.outW, "pipeline %s\n", p.Name)
			for _, line := range p.Status(s.ctx) {
				fmt.Fprintf(s.outW, "  %s\n", line)
			}
			return nil
		},
	}
}

// openPipeline is the shared front half of every lifecycle command.
func (s *state) openPipeline(args []string) (*pipeline.Pipeline, error) {
	name, err := s.pipelineName(args)
	if err != nil {
		return nil, &ExitError{Code: 2, Message: err.Error()}
	}
	p, err := s.loadPipeline(name)
	if err != nil {
		return nil, &ExitError{Code: 1, Message: err.Error()}
	}
	return p, nil
}
