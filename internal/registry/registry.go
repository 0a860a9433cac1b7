// Package registry maps package type names to their definitions: kind,
// parameter menu, and factory. Builtin packages self-register through the
// Module interface at startup.
package registry

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/iowarp/jarvis/internal/paramspec"
	"github.com/iowarp/jarvis/internal/stage"
)

// Module is the interface all builtin package modules implement to be
// registered.
type Module interface {
	Register(r *Registry)
}

// Factory builds a package instance around its shared base state.
type Factory func(base *stage.Base) stage.Lifecycle

// Definition describes one registrable package type.
type Definition struct {
	// Type is the name used in pipeline scripts, e.g. "pdf_calc".
	Type        string
	Kind        stage.Kind
	Description string

	// Menu is the package's own parameter menu; the common menu is merged
	// in at registration.
	Menu paramspec.Menu

	New Factory
}

// Registry holds the package definitions for a single application instance.
type Registry struct {
	defs map[string]*Definition
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{defs: make(map[string]*Definition)}
}

// Register adds a definition. Registering the same type twice is a
// programmer error and panics.
func (r *Registry) Register(def *Definition) {
	if _, exists := r.defs[def.Type]; exists {
		panic(fmt.Sprintf("package type '%s' already registered", def.Type))
	}
	if def.New == nil {
		panic(fmt.Sprintf("package type '%s' registered without a factory", def.Type))
	}
	slog.Debug("Registering package type.", "type", def.Type, "kind", def.Kind.String())
	def.Menu = def.Menu.Merge(stage.CommonMenu())
	r.defs[def.Type] = def
}

// Lookup returns the definition for a package type.
func (r *Registry) Lookup(pkgType string) (*Definition, error) {
	def, ok := r.defs[pkgType]
	if !ok {
		return nil, fmt.Errorf("unknown package type '%s'", pkgType)
	}
	return def, nil
}

// Types returns the registered type names in sorted order.
func (r *Registry) Types() []string {
	types := make([]string, 0, len(r.defs))
	for t := range r.defs {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}
