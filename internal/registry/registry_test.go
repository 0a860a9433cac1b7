package registry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"

	"github.com/iowarp/jarvis/internal/paramspec"
	"github.com/iowarp/jarvis/internal/stage"
)

type noopPkg struct{ *stage.Base }

func (p *noopPkg) Configure(ctx context.Context, cfg *paramspec.Config) error {
	p.Cfg = cfg
	return nil
}
func (p *noopPkg) Start(ctx context.Context) error   { return nil }
func (p *noopPkg) Stop(ctx context.Context) error    { return nil }
func (p *noopPkg) Kill(ctx context.Context) error    { return nil }
func (p *noopPkg) Clean(ctx context.Context) error   { return nil }
func (p *noopPkg) Status(ctx context.Context) string { return "unknown" }

func noopDef(name string) *Definition {
	return &Definition{
		Type: name,
		Kind: stage.Application,
		Menu: paramspec.Menu{
			{Name: "output", Msg: "output path", Type: cty.String, Required: true},
		},
		New: func(base *stage.Base) stage.Lifecycle {
			return &noopPkg{Base: base}
		},
	}
}

func TestRegisterAndLookup(t *testing.T) {
	r := New()
	r.Register(noopDef("noop"))

	def, err := r.Lookup("noop")
	require.NoError(t, err)
	assert.Equal(t, "noop", def.Type)

	// The common menu was merged into the package menu.
	assert.NotNil(t, def.Menu.Find("ppn"))
	assert.NotNil(t, def.Menu.Find("output"))

	_, err = r.Lookup("nope")
	assert.ErrorContains(t, err, "unknown package type")
}

func TestRegisterDuplicatePanics(t *testing.T) {
	r := New()
	r.Register(noopDef("noop"))
	assert.PanicsWithValue(t, "package type 'noop' already registered", func() {
		r.Register(noopDef("noop"))
	})
}

func TestRegisterWithoutFactoryPanics(t *testing.T) {
	r := New()
	def := noopDef("noop")
	def.New = nil
	assert.Panics(t, func() { r.Register(def) })
}

func TestTypesSorted(t *testing.T) {
	r := New()
	r.Register(noopDef("pdf_calc"))
	r.Register(noopDef("gray_scott"))
	assert.Equal(t, []string{"gray_scott", "pdf_calc"}, r.Types())
}
