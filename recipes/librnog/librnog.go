// Package librnog is the recipe of librno-g, the C++ hardware-interface
// library of the RNO-G experiment.
package librnog

import (
	"github.com/rno-g/rnobuild/formula"
	"github.com/rno-g/rnobuild/pkgs/buildsys"
	"github.com/rno-g/rnobuild/pkgs/buildsys/makefile"
	"github.com/rno-g/rnobuild/pkgs/toolchain"
)

// Name is the recipe name.
const Name = "librno-g"

// Recipe builds librno-g with its own Makefile.
type Recipe struct{}

var _ formula.Recipe = (*Recipe)(nil)

// New returns the librno-g recipe.
func New() *Recipe { return &Recipe{} }

func (*Recipe) Info() *formula.Info {
	return &formula.Info{
		Name:        Name,
		Description: "C++ library used by the RNO-G experiment.",
		Homepage:    "https://github.com/RNO-G/librno-g",
		Git:         "https://github.com/RNO-G/librno-g.git",
		Versions: []formula.Version{
			{Name: "master", Branch: "master"},
		},
		Dependencies: []formula.Dependency{
			{Name: "zlib", Types: []formula.DepType{formula.DepBuild, formula.DepLink}},
			{Name: "py-pybind11", Types: []formula.DepType{formula.DepBuild}},
			{Name: "python", Types: []formula.DepType{formula.DepBuild}},
		},
	}
}

// SetupBuildEnv exports the compiler pair and the search paths of zlib.
func (*Recipe) SetupBuildEnv(ctx *formula.Context, spec *formula.Spec, prefix formula.Prefix) (buildsys.Env, error) {
	cc, err := toolchain.ResolveCompilers(ctx.Lookup, ctx.LookPath)
	if err != nil {
		return buildsys.Env{}, err
	}
	env := spec.UseDeps(buildsys.Env{})
	return env.With("CC", cc.CC).With("CXX", cc.CXX), nil
}

// Build runs "make".
func (*Recipe) Build(ctx *formula.Context, spec *formula.Spec, prefix formula.Prefix) error {
	return makefile.New(ctx).Build()
}

// Install runs "make install PREFIX=<prefix>".
func (*Recipe) Install(ctx *formula.Context, spec *formula.Spec, prefix formula.Prefix) error {
	m := makefile.New(ctx)
	m.InstallDir(prefix.String())
	m.Var("PREFIX", prefix.String())
	return m.Install()
}
