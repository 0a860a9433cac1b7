// Package stage defines the lifecycle contract every pipeline package
// implements and the shared state each package instance carries: identity,
// working directories, tracked environment, and hostfile resolution.
package stage

import (
	"context"

	"github.com/zclconf/go-cty/cty"

	"github.com/iowarp/jarvis/internal/paramspec"
)

// Kind distinguishes run-to-completion applications from long-running
// services. Applications return from Start when the external process exits;
// services return once the process is up and are torn down by Stop.
type Kind int

const (
	Application Kind = iota
	Service
)

func (k Kind) String() string {
	if k == Service {
		return "service"
	}
	return "application"
}

// Lifecycle is the hook set the pipeline engine drives, in order: Configure
// validates parameters and derives stage-specific files before anything is
// launched; Start spawns the external process; Clean removes generated
// artifacts. Stop and Kill are no-ops for applications.
type Lifecycle interface {
	Configure(ctx context.Context, cfg *paramspec.Config) error
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
	Kill(ctx context.Context) error
	Clean(ctx context.Context) error
	Status(ctx context.Context) string
}

// CommonMenu returns the parameters every package accepts in addition to its
// own menu.
func CommonMenu() paramspec.Menu {
	return paramspec.Menu{
		{Name: "sleep", Msg: "Seconds to wait after the stage starts", Type: cty.Number, Default: cty.NumberIntVal(0)},
		{Name: "hide_output", Msg: "Hide stage process output", Type: cty.Bool, Default: cty.False},
		{Name: "hostfile", Msg: "Hostfile overriding the pipeline default", Type: cty.String},
		{Name: "ppn", Msg: "Processes per node, 0 lets MPI decide", Type: cty.Number, Default: cty.NumberIntVal(0)},
	}
}
