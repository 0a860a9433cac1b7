package paramspec

import (
	"math/big"
	"sort"

	"github.com/zclconf/go-cty/cty"
)

// Config is a resolved parameter set. Every value in it has already been
// converted to the type its menu declared, so the typed accessors do not
// return errors; asking for a parameter the menu never declared is a
// programmer error and panics.
type Config struct {
	values map[string]cty.Value
}

// Has reports whether name resolved to a value (supplied or defaulted).
func (c *Config) Has(name string) bool {
	v, ok := c.values[name]
	return ok && !v.IsNull()
}

// Str returns a string parameter. Absent optional parameters return "".
func (c *Config) Str(name string) string {
	v, ok := c.values[name]
	if !ok || v.IsNull() {
		return ""
	}
	mustType(name, v, cty.String)
	return v.AsString()
}

// Int returns a numeric parameter truncated to int. Absent optional
// parameters return 0.
func (c *Config) Int(name string) int {
	v, ok := c.values[name]
	if !ok || v.IsNull() {
		return 0
	}
	mustType(name, v, cty.Number)
	n, _ := v.AsBigFloat().Int64()
	return int(n)
}

// Float returns a numeric parameter as float64.
func (c *Config) Float(name string) float64 {
	v, ok := c.values[name]
	if !ok || v.IsNull() {
		return 0
	}
	mustType(name, v, cty.Number)
	f, _ := v.AsBigFloat().Float64()
	return f
}

// Bool returns a boolean parameter. Absent optional parameters return false.
func (c *Config) Bool(name string) bool {
	v, ok := c.values[name]
	if !ok || v.IsNull() {
		return false
	}
	mustType(name, v, cty.Bool)
	return v.True()
}

// Names returns the resolved parameter names in sorted order.
func (c *Config) Names() []string {
	names := make([]string, 0, len(c.values))
	for name := range c.values {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Plain converts the resolved values back to plain Go values for YAML
// persistence. Numbers come back as int64 when they are integral, float64
// otherwise.
func (c *Config) Plain() map[string]any {
	out := make(map[string]any, len(c.values))
	for name, v := range c.values {
		if v.IsNull() {
			continue
		}
		switch v.Type() {
		case cty.String:
			out[name] = v.AsString()
		case cty.Bool:
			out[name] = v.True()
		case cty.Number:
			bf := v.AsBigFloat()
			if n, acc := bf.Int64(); acc == big.Exact {
				out[name] = n
			} else {
				f, _ := bf.Float64()
				out[name] = f
			}
		}
	}
	return out
}

func mustType(name string, v cty.Value, want cty.Type) {
	if !v.Type().Equals(want) {
		panic("paramspec: parameter " + name + " accessed as " + want.FriendlyName() +
			" but resolved as " + v.Type().FriendlyName())
	}
}
