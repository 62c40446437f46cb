package formula

import (
	"slices"

	"github.com/rno-g/rnobuild/pkgs/buildsys"
)

// -----------------------------------------------------------------------------

// Recipe describes how to fetch, configure, build and install one external
// library. The hooks are called in order SetupBuildEnv, Build, Install and
// each runs to completion before the next one starts.
type Recipe interface {
	// Info returns the declarative part of the recipe.
	Info() *Info

	// SetupBuildEnv computes the environment handed to every build tool
	// invocation of Build and Install. It must not start the build and must
	// return the same Env when called twice with the same spec and prefix.
	SetupBuildEnv(ctx *Context, spec *Spec, prefix Prefix) (buildsys.Env, error)

	// Build compiles the sources found in ctx.SourceDir.
	Build(ctx *Context, spec *Spec, prefix Prefix) error

	// Install copies the build artifacts into prefix.
	Install(ctx *Context, spec *Spec, prefix Prefix) error
}

// Info is the metadata of a recipe.
type Info struct {
	Name        string
	Description string
	Homepage    string
	Git         string

	// Versions lists the fetchable versions, preferred first.
	Versions     []Version
	Dependencies []Dependency
	Variants     []Variant
}

// Version maps a version label to the source-control branch providing it.
type Version struct {
	Name   string
	Branch string
}

// DepType classifies when a dependency is needed.
type DepType string

const (
	DepBuild DepType = "build"
	DepLink  DepType = "link"
	DepRun   DepType = "run"
)

// Dependency declares that a recipe needs another package.
type Dependency struct {
	Name  string
	Types []DepType
	// When restricts the dependency to specs satisfying a variant condition
	// such as "+python". Empty means always.
	When string
}

// Is reports whether d has type t.
func (d Dependency) Is(t DepType) bool {
	return slices.Contains(d.Types, t)
}

// DefaultTypes is the classification used when a dependency lists none.
var DefaultTypes = []DepType{DepBuild, DepLink}

// TypesOrDefault returns d.Types, or DefaultTypes when empty.
func (d Dependency) TypesOrDefault() []DepType {
	if len(d.Types) == 0 {
		return DefaultTypes
	}
	return d.Types
}

// Version returns the version named name. An empty name selects the
// preferred version.
func (i *Info) Version(name string) (Version, error) {
	if len(i.Versions) == 0 {
		return Version{}, &RecipeError{Recipe: i.Name, Err: ErrVersionNotFound}
	}
	if name == "" {
		return i.Versions[0], nil
	}
	for _, v := range i.Versions {
		if v.Name == name {
			return v, nil
		}
	}
	return Version{}, &RecipeError{Recipe: i.Name + "@" + name, Err: ErrVersionNotFound}
}

// ActiveDeps returns the dependencies that apply to spec.
func (i *Info) ActiveDeps(spec *Spec) []Dependency {
	deps := make([]Dependency, 0, len(i.Dependencies))
	for _, d := range i.Dependencies {
		if spec.Satisfies(d.When) {
			deps = append(deps, d)
		}
	}
	return deps
}

// VariantOf returns the declared variant called name.
func (i *Info) VariantOf(name string) (Variant, bool) {
	idx := slices.IndexFunc(i.Variants, func(v Variant) bool { return v.Name == name })
	if idx < 0 {
		return Variant{}, false
	}
	return i.Variants[idx], true
}

// -----------------------------------------------------------------------------
