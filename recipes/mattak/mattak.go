// Package mattak is the recipe of mattak, the C++ data-format library of
// the RNO-G experiment, with its optional ROOT readers and Python bindings.
package mattak

import (
	"errors"
	"os"

	"github.com/rno-g/rnobuild/formula"
	"github.com/rno-g/rnobuild/pkgs/buildsys"
	"github.com/rno-g/rnobuild/pkgs/buildsys/cmake"
	"github.com/rno-g/rnobuild/pkgs/buildsys/makefile"
	"github.com/rno-g/rnobuild/pkgs/toolchain"
)

// Name is the recipe name.
const Name = "mattak"

// Variables exported to the build.
const (
	EnvInstallDir   = "RNO_G_INSTALL_DIR"
	EnvCMakeFlags   = "CMAKE_FLAGS"
	EnvCMakeArgs    = "CMAKE_ARGS"
	EnvPybind11Dir  = "pybind11_DIR"
	EnvSitePackages = "PYTHON_SITE_PACKAGES"
)

// Drivers selectable with the driver variant.
const (
	DriverMake  = "make"
	DriverCMake = "cmake"
)

// Recipe builds mattak, by default through the Makefile wrapper that ships
// with it, or by driving CMake directly with driver=cmake.
type Recipe struct{}

var _ formula.Recipe = (*Recipe)(nil)

// New returns the mattak recipe.
func New() *Recipe { return &Recipe{} }

func (*Recipe) Info() *formula.Info {
	return &formula.Info{
		Name:        Name,
		Description: "C++ library used by the RNO-G experiment.",
		Homepage:    "https://github.com/RNO-G/mattak",
		Git:         "https://github.com/RNO-G/mattak.git",
		Versions: []formula.Version{
			{Name: "main", Branch: "main"},
		},
		Dependencies: []formula.Dependency{
			{Name: "cmake", Types: []formula.DepType{formula.DepBuild}},
			{Name: "root", Types: []formula.DepType{formula.DepBuild, formula.DepLink, formula.DepRun}, When: "+root"},
			{Name: "py-pybind11", Types: []formula.DepType{formula.DepBuild}, When: "+python"},
			{Name: "python", Types: []formula.DepType{formula.DepBuild, formula.DepRun}, When: "+python"},
			{Name: "librno-g", Types: []formula.DepType{formula.DepBuild, formula.DepLink}, When: "+librnog"},
		},
		Variants: []formula.Variant{
			{Name: "root", Default: "true", Description: "Build the ROOT based readers"},
			{Name: "python", Default: "true", Description: "Build the pybind11 Python bindings"},
			{Name: "librnog", Default: "true", Description: "Read raw data through librno-g"},
			{Name: "driver", Default: DriverMake, Values: []string{DriverMake, DriverCMake}, Description: "Build through the Makefile wrapper or CMake directly"},
		},
	}
}

// SetupBuildEnv exports the install dir, CMake flags, compilers and, with
// +python, the pybind11 CMake dir and the interpreter's site-packages.
func (*Recipe) SetupBuildEnv(ctx *formula.Context, spec *formula.Spec, prefix formula.Prefix) (buildsys.Env, error) {
	cc, err := toolchain.ResolveCompilers(ctx.Lookup, ctx.LookPath)
	if err != nil {
		return buildsys.Env{}, err
	}
	env := spec.UseDeps(buildsys.Env{}).
		With(EnvInstallDir, prefix.String()).
		With("CC", cc.CC).
		With("CXX", cc.CXX)
	if spec.Enabled("librnog") {
		env = env.With(EnvCMakeFlags, "-DLIBRNO_G_SUPPORT=ON")
	}
	if !spec.Enabled("python") {
		return env, nil
	}

	interp, err := toolchain.Query(ctx, ctx.Runner, pythonOf(ctx, spec))
	if err != nil {
		return buildsys.Env{}, err
	}
	pybind11, err := spec.Dep("py-pybind11")
	if err != nil {
		return buildsys.Env{}, err
	}
	site, err := interp.SitePackages()
	if err != nil {
		return buildsys.Env{}, err
	}
	pybind11Dir := toolchain.Pybind11CMakeDir(pybind11.Prefix.Lib(), interp)
	return env.
		With(EnvCMakeArgs, "-D"+EnvPybind11Dir+"="+pybind11Dir).
		With(EnvPybind11Dir, pybind11Dir).
		With(EnvSitePackages, site), nil
}

// pythonOf returns the interpreter of the python dependency when it is
// installed under a known prefix, otherwise the configured interpreter.
func pythonOf(ctx *formula.Context, spec *formula.Spec) string {
	if py, err := spec.Dep("python"); err == nil && py.Prefix != "" {
		exe := py.Prefix.Join("bin", "python3")
		if fi, err := os.Stat(exe); err == nil && !fi.IsDir() {
			return exe
		}
	}
	if ctx.Python != "" {
		return ctx.Python
	}
	return "python3"
}

func (r *Recipe) Build(ctx *formula.Context, spec *formula.Spec, prefix formula.Prefix) error {
	if spec.Variant("driver") == DriverCMake {
		c, err := r.cmake(ctx, spec, prefix)
		if err != nil {
			return err
		}
		if err := c.Configure(); err != nil {
			return err
		}
		return c.Build()
	}
	return makefile.New(ctx).Build()
}

func (r *Recipe) Install(ctx *formula.Context, spec *formula.Spec, prefix formula.Prefix) error {
	if spec.Variant("driver") == DriverCMake {
		c, err := r.cmake(ctx, spec, prefix)
		if err != nil {
			return err
		}
		return c.Install()
	}
	m := makefile.New(ctx)
	m.InstallDir(prefix.String())
	return m.Install()
}

var errNoCMakeLists = errors.New("CMakeLists.txt not found in source tree")

func (*Recipe) cmake(ctx *formula.Context, spec *formula.Spec, prefix formula.Prefix) (*cmake.CMake, error) {
	if ctx.Project != nil && !ctx.Project.Exists("CMakeLists.txt") {
		return nil, errNoCMakeLists
	}
	c := cmake.New(ctx)
	c.InstallDir(prefix.String())
	c.BuildType("Release")
	c.DefinePath("CMAKE_C_COMPILER", ctx.Env.Value("CC"))
	c.DefinePath("CMAKE_CXX_COMPILER", ctx.Env.Value("CXX"))
	c.DefineBool("LIBRNO_G_SUPPORT", spec.Enabled("librnog"))
	if dir := ctx.Env.Value(EnvPybind11Dir); dir != "" {
		c.DefinePath(EnvPybind11Dir, dir)
	}
	if site := ctx.Env.Value(EnvSitePackages); site != "" {
		c.DefinePath(EnvSitePackages, site)
	}
	return c, nil
}
