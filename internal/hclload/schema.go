package hclload

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
)

// pipelineBlock is a `pipeline "<name>" { ... }` block in a script.
type pipelineBlock struct {
	Name string      `hcl:"name,label"`
	Pkgs []*pkgBlock `hcl:"pkg,block"`
}

// pkgBlock is a `pkg "<type>" "<id>" { ... }` block. Its body holds the
// package's arguments as plain attributes; validation against the package
// menu happens later, in the registry's terms.
type pkgBlock struct {
	Type string   `hcl:"type,label"`
	ID   string   `hcl:"id,label"`
	Body hcl.Body `hcl:",remain"`
}

// fileRoot decodes all top-level blocks of one script file.
type fileRoot struct {
	Pipelines []*pipelineBlock `hcl:"pipeline,block"`
}

// Script is the decoded, format-agnostic form of one pipeline declaration.
type Script struct {
	Name string
	Pkgs []*PkgDecl
}

// PkgDecl is one package instance declaration within a script. Order in the
// script is execution order.
type PkgDecl struct {
	Type string
	ID   string
	Args map[string]cty.Value
}
