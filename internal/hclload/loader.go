// Package hclload reads pipeline scripts. A script declares one or more
// pipelines, each an ordered list of pkg blocks whose attributes become the
// package's configuration arguments.
package hclload

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"

	"github.com/iowarp/jarvis/internal/ctxlog"
)

// Load reads every .hcl file under path (a single file or a directory) and
// returns the declared pipelines. Pkg arguments are evaluated as literals;
// pipeline scripts have no variables or functions.
func Load(ctx context.Context, path string) ([]*Script, error) {
	logger := ctxlog.FromContext(ctx)

	files, err := findScripts(path)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no .hcl pipeline scripts found under %s", path)
	}
	logger.Debug("Discovered pipeline scripts.", "count", len(files))

	parser := hclparse.NewParser()
	var scripts []*Script

	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("parsing %s: %w", file, diags)
		}

		var root fileRoot
		if diags := gohcl.DecodeBody(hclFile.Body, nil, &root); diags.HasErrors() {
			return nil, fmt.Errorf("decoding %s: %w", file, diags)
		}

		for _, pb := range root.Pipelines {
			script, err := translatePipeline(pb)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", file, err)
			}
			scripts = append(scripts, script)
		}
	}

	logger.Debug("Pipeline scripts loaded.", "pipelines", len(scripts))
	return scripts, nil
}

func translatePipeline(pb *pipelineBlock) (*Script, error) {
	script := &Script{Name: pb.Name}
	seen := make(map[string]struct{})

	for _, pkg := range pb.Pkgs {
		if _, dup := seen[pkg.ID]; dup {
			return nil, fmt.Errorf("pipeline %q: duplicate package id %q", pb.Name, pkg.ID)
		}
		seen[pkg.ID] = struct{}{}

		args, err := evalArgs(pkg)
		if err != nil {
			return nil, fmt.Errorf("pipeline %q, pkg %q: %w", pb.Name, pkg.ID, err)
		}
		script.Pkgs = append(script.Pkgs, &PkgDecl{Type: pkg.Type, ID: pkg.ID, Args: args})
	}
	return script, nil
}

func evalArgs(pkg *pkgBlock) (map[string]cty.Value, error) {
	attrs, diags := pkg.Body.JustAttributes()
	if diags.HasErrors() {
		return nil, diags
	}
	args := make(map[string]cty.Value, len(attrs))
	for name, attr := range attrs {
		val, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return nil, fmt.Errorf("argument %q: %w", name, diags)
		}
		args[name] = val
	}
	return args, nil
}

// findScripts returns every .hcl file at or under path, sorted by WalkDir's
// lexical order so script discovery is deterministic.
func findScripts(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("accessing %s: %w", path, err)
	}

	if !info.IsDir() {
		if !strings.HasSuffix(path, ".hcl") {
			return nil, fmt.Errorf("%s is not an .hcl pipeline script", path)
		}
		return []string{path}, nil
	}

	var files []string
	err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), ".hcl") {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}
