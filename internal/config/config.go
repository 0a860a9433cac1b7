// Package config holds the global tool state: where pipelines live on disk,
// the default hostfile, and which pipeline is current. It is loaded from a
// YAML file with JARVIS_-prefixed environment overrides layered on top.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	yamlparser "github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"gopkg.in/yaml.v3"
)

// Config is the persistent global configuration.
type Config struct {
	// ConfigRoot holds pipeline definitions and per-package configuration.
	ConfigRoot string `koanf:"config_root" yaml:"config_root"`

	// SharedRoot is a filesystem visible to every node; stage handoff files
	// and generated settings live under it.
	SharedRoot string `koanf:"shared_root" yaml:"shared_root"`

	// PrivateRoot is node-local scratch space.
	PrivateRoot string `koanf:"private_root" yaml:"private_root"`

	// Hostfile is the default hostfile path for MPI launches. Empty means
	// launch on this node only.
	Hostfile string `koanf:"hostfile" yaml:"hostfile,omitempty"`

	// CurrentPipeline names the pipeline that commands operate on when no
	// explicit name is given.
	CurrentPipeline string `koanf:"current_pipeline" yaml:"current_pipeline,omitempty"`
}

// DefaultRoot returns the default configuration root, honoring
// JARVIS_CONFIG_ROOT before falling back to ~/.jarvis.
func DefaultRoot() string {
	if root := os.Getenv("JARVIS_CONFIG_ROOT"); root != "" {
		return root
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".jarvis"
	}
	return filepath.Join(home, ".jarvis")
}

func defaults(root string) *Config {
	return &Config{
		ConfigRoot:  filepath.Join(root, "config"),
		SharedRoot:  filepath.Join(root, "shared"),
		PrivateRoot: filepath.Join(root, "private"),
	}
}

// Load reads the global configuration from <root>/jarvis.yaml, then applies
// JARVIS_* environment overrides (e.g. JARVIS_HOSTFILE). A missing file is
// fine: defaults apply until `jarvis init` persists them.
func Load(root string) (*Config, error) {
	if root == "" {
		root = DefaultRoot()
	}

	k := koanf.New(".")
	path := filepath.Join(root, "jarvis.yaml")
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yamlparser.Parser()); err != nil {
			return nil, fmt.Errorf("loading %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("JARVIS_", ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, "JARVIS_")), "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("loading environment overrides: %w", err)
	}

	cfg := defaults(root)
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling configuration: %w", err)
	}
	return cfg, nil
}

// Save persists the configuration to <root>/jarvis.yaml.
func (c *Config) Save(root string) error {
	if root == "" {
		root = DefaultRoot()
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return fmt.Errorf("creating config root: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling configuration: %w", err)
	}
	path := filepath.Join(root, "jarvis.yaml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// PipelineDir is where a pipeline's definition and package configs live.
func (c *Config) PipelineDir(pipeline string) string {
	return filepath.Join(c.ConfigRoot, "pipelines", pipeline)
}

// PipelineSharedDir is a pipeline's slice of the shared filesystem.
func (c *Config) PipelineSharedDir(pipeline string) string {
	return filepath.Join(c.SharedRoot, pipeline)
}

// PipelinePrivateDir is a pipeline's node-local scratch directory.
func (c *Config) PipelinePrivateDir(pipeline string) string {
	return filepath.Join(c.PrivateRoot, pipeline)
}

// PkgConfigDir is where one package's resolved configuration and generated
// files are stored.
func (c *Config) PkgConfigDir(pipeline, pkgID string) string {
	return filepath.Join(c.PipelineDir(pipeline), "packages", pkgID)
}

// PkgSharedDir is one package's shared working directory.
func (c *Config) PkgSharedDir(pipeline, pkgID string) string {
	return filepath.Join(c.PipelineSharedDir(pipeline), pkgID)
}

// PkgPrivateDir is one package's private working directory.
func (c *Config) PkgPrivateDir(pipeline, pkgID string) string {
	return filepath.Join(c.PipelinePrivateDir(pipeline), pkgID)
}
