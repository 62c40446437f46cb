package build

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rno-g/rnobuild/formula"
	"github.com/rno-g/rnobuild/mod/module"
)

var (
	// ErrMissingDependency indicates a dependency that has neither a
	// recipe nor a known install prefix.
	ErrMissingDependency = errors.New("missing dependency")

	// ErrCycle indicates recipes that depend on each other.
	ErrCycle = errors.New("dependency cycle")
)

// probes lists the executables whose location reveals the prefix of an
// external dependency.
var probes = map[string][]string{
	"cmake":       {"cmake"},
	"python":      {"python3", "python"},
	"py-pybind11": {"pybind11-config"},
	"root":        {"root-config"},
}

// node is one package of a resolved build graph.
type node struct {
	spec    *formula.Spec
	recipe  formula.Recipe // nil for externals
	version formula.Version
	matrix  string
}

func (n *node) external() bool { return n.recipe == nil }

// Request selects the package to build.
type Request struct {
	Name string

	// Version defaults to the first version the recipe declares.
	Version string

	// Variants are written "+name", "~name" or "name=value".
	Variants []string

	// Prefix overrides the install prefix of the requested package.
	Prefix string
}

// resolver walks recipes depth first and lists packages dependencies first.
type resolver struct {
	b     *Builder
	nodes map[string]*node
	stack []string
	order []*node
}

// resolve returns the build graph of req in build order; the requested
// package is last.
func (b *Builder) resolve(req Request) ([]*node, error) {
	r := &resolver{b: b, nodes: make(map[string]*node)}
	if _, err := r.visit(req.Name, req.Version, req.Variants, true); err != nil {
		return nil, err
	}
	if req.Prefix != "" {
		root := r.order[len(r.order)-1]
		abs, err := filepath.Abs(req.Prefix)
		if err != nil {
			return nil, err
		}
		root.spec.Prefix = formula.Prefix(abs)
	}
	return r.order, nil
}

func (r *resolver) visit(name, version string, variants []string, root bool) (*node, error) {
	if n, ok := r.nodes[name]; ok {
		return n, nil
	}
	for i, s := range r.stack {
		if s == name {
			cycle := append(append([]string{}, r.stack[i:]...), name)
			return nil, fmt.Errorf("%w: %s", ErrCycle, strings.Join(cycle, " -> "))
		}
	}

	rec, err := r.b.registry.Lookup(name)
	if err != nil {
		if root {
			return nil, err
		}
		return r.external(name)
	}

	info := rec.Info()
	ver, err := pickVersion(info, version)
	if err != nil {
		return nil, err
	}
	vals, err := formula.ParseVariants(info, variants)
	if err != nil {
		return nil, err
	}
	spec := &formula.Spec{
		Name:     name,
		Version:  ver.Name,
		Variants: vals,
		Deps:     make(map[string]*formula.Spec),
	}

	r.stack = append(r.stack, name)
	for _, d := range info.ActiveDeps(spec) {
		dep, err := r.visit(d.Name, "", nil, false)
		if err != nil {
			return nil, err
		}
		spec.Deps[d.Name] = dep.spec
	}
	r.stack = r.stack[:len(r.stack)-1]

	m := formula.MatrixOf(spec)
	n := &node{spec: spec, recipe: rec, version: ver, matrix: m.String()}
	prefix, err := r.b.installDir(name, ver.Name, m.DirName())
	if err != nil {
		return nil, err
	}
	spec.Prefix = formula.Prefix(prefix)
	r.nodes[name] = n
	r.order = append(r.order, n)
	return n, nil
}

func (r *resolver) external(name string) (*node, error) {
	prefix, err := r.b.externalPrefix(name)
	if err != nil {
		return nil, err
	}
	n := &node{spec: &formula.Spec{Name: name, Prefix: formula.Prefix(prefix)}}
	r.nodes[name] = n
	r.order = append(r.order, n)
	return n, nil
}

func pickVersion(info *formula.Info, name string) (formula.Version, error) {
	if name == "" {
		if len(info.Versions) == 0 {
			return formula.Version{}, &formula.RecipeError{Recipe: info.Name, Err: formula.ErrVersionNotFound}
		}
		return info.Versions[0], nil
	}
	return info.Version(name)
}

// externalPrefix returns the install prefix of a dependency without a
// recipe: the configured one, or the parent of the directory holding one
// of its executables.
func (b *Builder) externalPrefix(name string) (string, error) {
	if prefix, ok := b.externals[name]; ok && prefix != "" {
		return prefix, nil
	}
	for _, exe := range probes[name] {
		path, err := b.lookPath(exe)
		if err != nil || path == "" {
			continue
		}
		return filepath.Dir(filepath.Dir(path)), nil
	}
	return "", fmt.Errorf("%w: %s (add it to externals in the config)", ErrMissingDependency, name)
}

// sourceDir returns where the sources of name@version are fetched to.
func (b *Builder) sourceDir(name, version string) (string, error) {
	escaped, err := module.EscapePath(name)
	if err != nil {
		return "", err
	}
	return filepath.Join(b.layout.SourceDir(), escaped+"@"+version), nil
}
