package formula

import (
	"context"
	"os"

	"github.com/rno-g/rnobuild/pkgs/buildsys"
	"golang.org/x/sys/execabs"
)

// Context is what the hosting runtime hands to every lifecycle hook.
type Context struct {
	context.Context

	// Runner launches build tools. Hooks never start processes on their own.
	Runner buildsys.Runner

	// SourceDir is the root of the fetched sources.
	SourceDir string

	// Project reads files below SourceDir.
	Project *Project

	// Env is the environment returned by SetupBuildEnv. The runtime sets it
	// before calling Build and Install.
	Env buildsys.Env

	// Lookup returns user overrides such as CC and CXX. Defaults to
	// os.LookupEnv.
	Lookup func(key string) (string, bool)

	// LookPath searches PATH for an executable.
	LookPath func(file string) (string, error)

	// Python is the interpreter used for binding builds. Defaults to "python3".
	Python string

	// Jobs is the requested build parallelism; 0 lets the tool decide.
	Jobs int
}

// NewContext returns a Context with default probes.
func NewContext(ctx context.Context, runner buildsys.Runner, sourceDir string) *Context {
	return &Context{
		Context:   ctx,
		Runner:    runner,
		SourceDir: sourceDir,
		Project:   &Project{DirFS: os.DirFS(sourceDir)},
		Lookup:    os.LookupEnv,
		LookPath:  execabs.LookPath,
		Python:    "python3",
	}
}

// Run executes a build tool in the source directory with c.Env.
func (c *Context) Run(name string, args ...string) error {
	return c.Runner.Run(c, buildsys.Command{
		Name: name,
		Args: args,
		Dir:  c.SourceDir,
		Env:  c.Env,
	})
}
