package pipeline

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/iowarp/jarvis/internal/config"
	"github.com/iowarp/jarvis/internal/paramspec"
	"github.com/iowarp/jarvis/internal/registry"
)

// stateFile is the persisted pipeline definition, stored as
// <pipeline dir>/pipeline.yaml.
type stateFile struct {
	Name string     `yaml:"name"`
	Pkgs []pkgState `yaml:"pkgs"`
}

type pkgState struct {
	Type   string         `yaml:"pkg_type"`
	ID     string         `yaml:"pkg_id"`
	Config map[string]any `yaml:"config"`
}

func statePath(cfg *config.Config, name string) string {
	return filepath.Join(cfg.PipelineDir(name), "pipeline.yaml")
}

// Save persists the pipeline definition and each package's resolved
// configuration.
func (p *Pipeline) Save() error {
	state := stateFile{Name: p.Name}
	for _, entry := range p.pkgs {
		state.Pkgs = append(state.Pkgs, pkgState{
			Type:   entry.Type,
			ID:     entry.ID,
			Config: entry.Cfg.Plain(),
		})
	}

	data, err := yaml.Marshal(&state)
	if err != nil {
		return fmt.Errorf("marshalling pipeline %q: %w", p.Name, err)
	}
	path := statePath(p.cfg, p.Name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating pipeline dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// Load reads a previously saved pipeline. Persisted configs re-enter through
// each package menu, so a state file edited by hand is validated the same
// way fresh arguments are.
func Load(name string, cfg *config.Config, reg *registry.Registry) (*Pipeline, error) {
	path := statePath(cfg, name)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading pipeline %q: %w", name, err)
	}

	var state stateFile
	if err := yaml.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	p := New(name, cfg, reg)
	for _, ps := range state.Pkgs {
		def, err := reg.Lookup(ps.Type)
		if err != nil {
			return nil, fmt.Errorf("pipeline %q: %w", name, err)
		}
		args, err := paramspec.GoValues(ps.Config)
		if err != nil {
			return nil, fmt.Errorf("pipeline %q, pkg %q: %w", name, ps.ID, err)
		}
		resolved, err := def.Menu.Resolve(args)
		if err != nil {
			return nil, fmt.Errorf("pipeline %q, pkg %q: %w", name, ps.ID, err)
		}
		entry := &Entry{Type: ps.Type, ID: ps.ID, def: def, Cfg: resolved}
		p.instantiate(entry)
		p.pkgs = append(p.pkgs, entry)
	}
	return p, nil
}

// Exists reports whether a pipeline with the given name has been saved.
func Exists(name string, cfg *config.Config) bool {
	_, err := os.Stat(statePath(cfg, name))
	return err == nil
}
