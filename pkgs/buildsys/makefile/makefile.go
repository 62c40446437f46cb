// Package makefile drives plain Makefile builds: "make" followed by
// "make install".
package makefile

import (
	"strconv"

	"github.com/rno-g/rnobuild/formula"
	"github.com/rno-g/rnobuild/pkgs/buildsys"
)

// Make drives Makefile-based builds.
type Make struct {
	ctx        *formula.Context
	sourceDir  string
	installDir string
	env        buildsys.Env
	vars       []string
}

var _ buildsys.BuildSystem = (*Make)(nil)

// New returns a Make building in ctx.SourceDir with the environment
// prepared by the recipe's SetupBuildEnv hook.
func New(ctx *formula.Context) *Make {
	return &Make{
		ctx:       ctx,
		sourceDir: ctx.SourceDir,
		env:       ctx.Env,
	}
}

// Source overrides the source directory.
func (m *Make) Source(dir string) { m.sourceDir = dir }

// InstallDir sets the directory reported by OutputDir. It does not reach
// the Makefile; pass it with Var when the Makefile expects one.
func (m *Make) InstallDir(dir string) { m.installDir = dir }

// Env sets key=value for every command spawned later by m.
func (m *Make) Env(key, value string) { m.env = m.env.With(key, value) }

// Var adds a NAME=value make variable to every invocation.
func (m *Make) Var(key, value string) { m.vars = append(m.vars, key+"="+value) }

// Use makes the dependency installed at prefix visible to the build.
func (m *Make) Use(prefix string) { m.env = buildsys.UseDependency(m.env, prefix) }

// Environ returns the environment commands run with.
func (m *Make) Environ() buildsys.Env { return m.env }

// Configure is a no-op: Makefile projects have no configure step.
func (m *Make) Configure(args ...string) error { return nil }

// Build runs "make" with optional extra arguments.
func (m *Make) Build(args ...string) error {
	return m.run(args)
}

// Install runs "make install" with optional extra arguments appended.
func (m *Make) Install(args ...string) error {
	return m.run(append([]string{"install"}, args...))
}

// OutputDir returns installDir if set, otherwise the source dir.
func (m *Make) OutputDir() string {
	if m.installDir != "" {
		return m.installDir
	}
	return m.sourceDir
}

// Args returns the full make argument list for the given targets.
func (m *Make) Args(targets ...string) []string {
	args := make([]string, 0, len(targets)+len(m.vars)+1)
	if m.ctx != nil && m.ctx.Jobs > 0 {
		args = append(args, "-j"+strconv.Itoa(m.ctx.Jobs))
	}
	args = append(args, targets...)
	return append(args, m.vars...)
}

func (m *Make) run(targets []string) error {
	return m.ctx.Runner.Run(m.ctx, buildsys.Command{
		Name: "make",
		Args: m.Args(targets...),
		Dir:  m.sourceDir,
		Env:  m.env,
	})
}
