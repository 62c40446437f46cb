// Package cmake wraps the cmake configure/build/install workflow.
package cmake

import (
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/rno-g/rnobuild/formula"
	"github.com/rno-g/rnobuild/pkgs/buildsys"
)

type defineValue struct {
	value    string
	typeName string
}

// CMake wraps common CMake build steps with chainable configuration.
type CMake struct {
	ctx        *formula.Context
	sourceDir  string
	buildDir   string
	installDir string
	generator  string
	buildType  string
	defines    map[string]defineValue
	env        buildsys.Env
}

var _ buildsys.BuildSystem = (*CMake)(nil)

// New creates a CMake helper building ctx.SourceDir out of tree in
// <source>/build, with the environment prepared by SetupBuildEnv.
func New(ctx *formula.Context) *CMake {
	return &CMake{
		ctx:       ctx,
		sourceDir: ctx.SourceDir,
		buildDir:  filepath.Join(ctx.SourceDir, "build"),
		defines:   map[string]defineValue{},
		env:       ctx.Env,
	}
}

func (c *CMake) Source(dir string) {
	c.sourceDir = dir
}

func (c *CMake) InstallDir(dir string) {
	c.installDir = dir
}

// BuildDir overrides the build directory.
func (c *CMake) BuildDir(dir string) *CMake {
	c.buildDir = dir
	return c
}

func (c *CMake) Generator(name string) *CMake {
	c.generator = name
	return c
}

func (c *CMake) BuildType(name string) *CMake {
	c.buildType = name
	return c
}

// Define adds a -D<key>:STRING=<value> definition.
func (c *CMake) Define(key, value string) *CMake {
	c.defines[key] = defineValue{value: value, typeName: "STRING"}
	return c
}

// DefinePath adds a -D<key>:PATH=<value> definition.
func (c *CMake) DefinePath(key, value string) *CMake {
	c.defines[key] = defineValue{value: value, typeName: "PATH"}
	return c
}

// DefineBool adds a -D<key>:BOOL=ON/OFF definition.
func (c *CMake) DefineBool(key string, value bool) *CMake {
	if value {
		c.defines[key] = defineValue{value: "ON", typeName: "BOOL"}
		return c
	}
	c.defines[key] = defineValue{value: "OFF", typeName: "BOOL"}
	return c
}

func (c *CMake) Env(key, value string) {
	c.env = c.env.With(key, value)
}

// Use makes the dependency installed at prefix visible to CMake and the
// compilers.
func (c *CMake) Use(prefix string) {
	c.env = buildsys.UseDependency(c.env, prefix)
}

// Environ returns the environment commands run with.
func (c *CMake) Environ() buildsys.Env { return c.env }

// Configure runs "cmake -S <source> -B <build>" with all configured options.
// Extra args are appended at the end.
func (c *CMake) Configure(args ...string) error {
	if err := os.MkdirAll(c.buildDir, 0o755); err != nil {
		return err
	}
	return c.run(c.ConfigureArgs(args...))
}

// ConfigureArgs returns the arguments Configure passes to cmake.
func (c *CMake) ConfigureArgs(args ...string) []string {
	cmakeArgs := []string{"-S", c.sourceDir, "-B", c.buildDir}
	if c.generator != "" {
		cmakeArgs = append(cmakeArgs, "-G", c.generator)
	}
	if c.installDir != "" {
		c.DefinePath("CMAKE_INSTALL_PREFIX", c.installDir)
	}
	if c.buildType != "" {
		c.Define("CMAKE_BUILD_TYPE", c.buildType)
	}
	cmakeArgs = append(cmakeArgs, c.definesArgs()...)
	return append(cmakeArgs, args...)
}

// Build runs "cmake --build <build>" with optional extra arguments.
func (c *CMake) Build(args ...string) error {
	cmdArgs := []string{"--build", c.buildDir}
	if c.buildType != "" {
		cmdArgs = append(cmdArgs, "--config", c.buildType)
	}
	if c.ctx != nil && c.ctx.Jobs > 0 {
		cmdArgs = append(cmdArgs, "--parallel", strconv.Itoa(c.ctx.Jobs))
	}
	cmdArgs = append(cmdArgs, args...)
	return c.run(cmdArgs)
}

// Install runs "cmake --install <build>" with optional extra arguments.
func (c *CMake) Install(args ...string) error {
	cmdArgs := []string{"--install", c.buildDir}
	if c.installDir != "" {
		cmdArgs = append(cmdArgs, "--prefix", c.installDir)
	}
	cmdArgs = append(cmdArgs, args...)
	return c.run(cmdArgs)
}

// OutputDir returns the install dir if set, otherwise the build dir.
func (c *CMake) OutputDir() string {
	if c.installDir != "" {
		return c.installDir
	}
	return c.buildDir
}

func (c *CMake) definesArgs() []string {
	if len(c.defines) == 0 {
		return nil
	}
	keys := make([]string, 0, len(c.defines))
	for k := range c.defines {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	args := make([]string, 0, len(keys))
	for _, k := range keys {
		def := c.defines[k]
		if def.typeName != "" {
			args = append(args, "-D"+k+":"+def.typeName+"="+def.value)
			continue
		}
		args = append(args, "-D"+k+"="+def.value)
	}
	return args
}

func (c *CMake) run(args []string) error {
	return c.ctx.Runner.Run(c.ctx, buildsys.Command{
		Name: "cmake",
		Args: args,
		Dir:  c.sourceDir,
		Env:  c.env,
	})
}
