package paramspec

import (
	"fmt"
	"sort"
	"strings"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// Resolve validates args against the menu and produces the resolved
// configuration. It rejects unknown names, converts every value to its
// declared type, enforces choice sets, applies defaults, and reports all
// missing required parameters at once.
func (m Menu) Resolve(args map[string]cty.Value) (*Config, error) {
	values := make(map[string]cty.Value, len(m))

	for name := range args {
		if m.Find(name) == nil {
			return nil, fmt.Errorf("%w: %q", ErrUnknownParam, name)
		}
	}

	var missing []string
	for _, p := range m {
		raw, ok := args[p.Name]
		if !ok || raw.IsNull() {
			if p.Required {
				missing = append(missing, p.Name)
				continue
			}
			if p.Default != cty.NilVal {
				values[p.Name] = p.Default
			}
			continue
		}

		val, err := convert.Convert(raw, p.Type)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrBadValue, p.Name, err)
		}
		if len(p.Choices) > 0 {
			if err := checkChoice(&p, val); err != nil {
				return nil, err
			}
		}
		values[p.Name] = val
	}

	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, fmt.Errorf("%w: %s", ErrMissingParam, strings.Join(missing, ", "))
	}

	return &Config{values: values}, nil
}

func checkChoice(p *Param, val cty.Value) error {
	s := val.AsString()
	for _, c := range p.Choices {
		if s == c {
			return nil
		}
	}
	return fmt.Errorf("%w: %q must be one of %s, got %q",
		ErrBadValue, p.Name, strings.Join(p.Choices, "|"), s)
}

// GoValues lifts a plain Go map (typically unmarshalled from a persisted YAML
// state file) into cty values suitable for Resolve.
func GoValues(in map[string]any) (map[string]cty.Value, error) {
	out := make(map[string]cty.Value, len(in))
	for name, v := range in {
		ty, err := gocty.ImpliedType(v)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrBadValue, name, err)
		}
		val, err := gocty.ToCtyValue(v, ty)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrBadValue, name, err)
		}
		out[name] = val
	}
	return out, nil
}
