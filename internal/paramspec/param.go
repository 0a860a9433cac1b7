// Package paramspec defines the typed parameter menus that package types
// expose to the configurator. A menu declares every parameter a package
// understands: its cty type, its default, whether it is required, and any
// fixed choice set. Resolving a menu against user arguments is the single
// validation point of the whole tool; anything that survives Resolve is safe
// to hand to command-line construction.
package paramspec

import (
	"errors"

	"github.com/zclconf/go-cty/cty"
)

// Sentinel errors for the configuration failure taxonomy. They fire during
// Resolve, before any external process is launched.
var (
	ErrMissingParam = errors.New("missing required parameter")
	ErrUnknownParam = errors.New("unknown parameter")
	ErrBadValue     = errors.New("invalid parameter value")
)

// Param declares a single configurable parameter.
type Param struct {
	// Name is the key used in pipeline scripts and CLI overrides.
	Name string

	// Msg is the one-line help text shown by `jarvis pkg help`.
	Msg string

	// Type is the declared cty type. Arguments are converted to it; values
	// that cannot convert fail resolution.
	Type cty.Type

	// Default is applied when the argument is absent. cty.NilVal means no
	// default; combined with Required it makes the parameter mandatory.
	Default cty.Value

	// Required marks parameters that must be supplied by the user.
	Required bool

	// Choices restricts a string parameter to a fixed set when non-empty.
	Choices []string
}

// Menu is an ordered list of parameter declarations. Order matters only for
// help output; lookup is by name.
type Menu []Param

// Find returns the declaration for name, or nil if the menu does not have it.
func (m Menu) Find(name string) *Param {
	for i := range m {
		if m[i].Name == name {
			return &m[i]
		}
	}
	return nil
}

// Merge returns a menu containing m followed by every parameter of other not
// already declared in m. Package menus are merged with the common menu this
// way, so a package may shadow a common parameter's default.
func (m Menu) Merge(other Menu) Menu {
	out := make(Menu, len(m), len(m)+len(other))
	copy(out, m)
	for _, p := range other {
		if m.Find(p.Name) == nil {
			out = append(out, p)
		}
	}
	return out
}
