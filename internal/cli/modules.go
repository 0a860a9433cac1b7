package cli

import (
	"github.com/iowarp/jarvis/internal/registry"
	"github.com/iowarp/jarvis/modules/grayscott"
	"github.com/iowarp/jarvis/modules/pdfcalc"
)

// coreModules lists every builtin package adapter. New adapters are added
// here and nowhere else.
var coreModules = []registry.Module{
	&grayscott.Module{},
	&pdfcalc.Module{},
}
