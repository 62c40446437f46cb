// Package build resolves, fetches, builds and installs recipes together
// with their dependencies.
package build

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/qiniu/x/log"
	"github.com/rno-g/rnobuild/formula"
	"github.com/rno-g/rnobuild/internal/env"
	"github.com/rno-g/rnobuild/internal/vcs"
	"github.com/rno-g/rnobuild/pkgs/buildsys"
	"golang.org/x/sys/execabs"
)

// Options configures a Builder.
type Options struct {
	Registry *formula.Registry
	Fetcher  vcs.Fetcher
	Runner   buildsys.Runner

	// WorkDir defaults to env.WorkDir().
	WorkDir string

	// Externals maps dependencies without a recipe to their prefix.
	Externals map[string]string

	Python string
	Jobs   int

	// Force rebuilds packages found in the build cache.
	Force bool

	Lookup   func(key string) (string, bool)
	LookPath func(file string) (string, error)
}

type Builder struct {
	registry  *formula.Registry
	fetcher   vcs.Fetcher
	runner    buildsys.Runner
	layout    env.Layout
	externals map[string]string
	python    string
	jobs      int
	force     bool
	lookup    func(key string) (string, bool)
	lookPath  func(file string) (string, error)
}

// Result describes one package of a finished build.
type Result struct {
	Name    string
	Version string
	Prefix  formula.Prefix

	// Env is what SetupBuildEnv returned; empty for externals.
	Env buildsys.Env

	Commit   string
	Cached   bool
	External bool
}

// NewBuilder creates a Builder and its work directory.
func NewBuilder(opts Options) (*Builder, error) {
	if opts.Registry == nil {
		return nil, errors.New("build: no recipe registry")
	}
	workDir := opts.WorkDir
	if workDir == "" {
		dir, err := env.WorkDir()
		if err != nil {
			return nil, err
		}
		workDir = dir
	}
	b := &Builder{
		registry:  opts.Registry,
		fetcher:   opts.Fetcher,
		runner:    opts.Runner,
		layout:    env.Layout{Root: workDir},
		externals: opts.Externals,
		python:    opts.Python,
		jobs:      opts.Jobs,
		force:     opts.Force,
		lookup:    opts.Lookup,
		lookPath:  opts.LookPath,
	}
	if b.fetcher == nil {
		b.fetcher = vcs.NewGitFetcher()
	}
	if b.runner == nil {
		b.runner = buildsys.NewExecRunner()
	}
	if b.lookup == nil {
		b.lookup = os.LookupEnv
	}
	if b.lookPath == nil {
		b.lookPath = execabs.LookPath
	}
	if err := b.layout.Ensure(); err != nil {
		return nil, err
	}
	return b, nil
}

// WorkDir returns the root of the builder's work directory.
func (b *Builder) WorkDir() string { return b.layout.Root }

// Resolve returns the specs of req and its dependencies in build order.
func (b *Builder) Resolve(req Request) ([]*formula.Spec, error) {
	nodes, err := b.resolve(req)
	if err != nil {
		return nil, err
	}
	specs := make([]*formula.Spec, len(nodes))
	for i, n := range nodes {
		specs[i] = n.spec
	}
	return specs, nil
}

// Build builds and installs req after its dependencies, reusing cached
// installs unless the builder is forced. Results are in build order.
func (b *Builder) Build(ctx context.Context, req Request) ([]Result, error) {
	nodes, err := b.resolve(req)
	if err != nil {
		return nil, err
	}
	results := make([]Result, 0, len(nodes))
	for _, n := range nodes {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		if n.external() {
			log.Debugf("using external %s at %s", n.spec.Name, n.spec.Prefix)
			results = append(results, Result{Name: n.spec.Name, Prefix: n.spec.Prefix, External: true})
			continue
		}
		res, err := b.build(ctx, n)
		if err != nil {
			return results, err
		}
		results = append(results, res)
	}
	return results, nil
}

func (b *Builder) build(ctx context.Context, n *node) (Result, error) {
	spec := n.spec
	res := Result{Name: spec.Name, Version: spec.Version, Prefix: spec.Prefix}

	cache, err := b.loadCache(spec.Name)
	if err != nil {
		return res, err
	}
	if entry, ok := cache.get(spec.Version, n.matrix); ok && !b.force && b.cacheValid(entry, spec) {
		log.Infof("%s: up to date in %s", spec, spec.Prefix)
		res.Env = envOf(entry.Env)
		res.Commit = entry.Commit
		res.Cached = true
		return res, nil
	}

	srcDir, err := b.sourceDir(spec.Name, spec.Version)
	if err != nil {
		return res, err
	}
	info := n.recipe.Info()
	log.Infof("%s: fetching %s (%s)", spec, info.Git, n.version.Branch)
	commit, err := b.fetcher.Fetch(ctx, info.Git, n.version.Branch, srcDir)
	if err != nil {
		return res, &formula.RecipeError{Recipe: spec.Name, Err: err}
	}
	res.Commit = commit

	fctx := b.newContext(ctx, srcDir)
	buildEnv, err := n.recipe.SetupBuildEnv(fctx, spec, spec.Prefix)
	if err != nil {
		return res, &formula.PhaseError{Phase: formula.PhaseSetup, Package: spec.Name, Err: err}
	}
	fctx.Env = buildEnv
	res.Env = buildEnv

	if err := os.MkdirAll(spec.Prefix.String(), 0o755); err != nil {
		return res, err
	}
	log.Infof("%s: building", spec)
	if err := n.recipe.Build(fctx, spec, spec.Prefix); err != nil {
		return res, &formula.PhaseError{Phase: formula.PhaseBuild, Package: spec.Name, Err: err}
	}
	log.Infof("%s: installing to %s", spec, spec.Prefix)
	if err := n.recipe.Install(fctx, spec, spec.Prefix); err != nil {
		return res, &formula.PhaseError{Phase: formula.PhaseInstall, Package: spec.Name, Err: err}
	}

	cache.set(spec.Version, n.matrix, &buildEntry{
		Prefix:    spec.Prefix.String(),
		Commit:    commit,
		Env:       buildEnv.Map(),
		BuildTime: time.Now(),
	})
	if err := b.saveCache(spec.Name, cache); err != nil {
		return res, err
	}
	return res, nil
}

// cacheValid reports whether entry still describes an install of spec.
func (b *Builder) cacheValid(entry *buildEntry, spec *formula.Spec) bool {
	if entry.Prefix != spec.Prefix.String() {
		return false
	}
	fi, err := os.Stat(entry.Prefix)
	return err == nil && fi.IsDir()
}

// SetupEnv resolves req and returns the environment its recipe would
// build with, without fetching or building anything.
func (b *Builder) SetupEnv(ctx context.Context, req Request) (buildsys.Env, error) {
	nodes, err := b.resolve(req)
	if err != nil {
		return buildsys.Env{}, err
	}
	root := nodes[len(nodes)-1]
	srcDir, err := b.sourceDir(root.spec.Name, root.spec.Version)
	if err != nil {
		return buildsys.Env{}, err
	}
	buildEnv, err := root.recipe.SetupBuildEnv(b.newContext(ctx, srcDir), root.spec, root.spec.Prefix)
	if err != nil {
		return buildsys.Env{}, &formula.PhaseError{Phase: formula.PhaseSetup, Package: root.spec.Name, Err: err}
	}
	return buildEnv, nil
}

// Fetch resolves req and fetches the sources of the requested package
// only, into dir or the default source directory if dir is empty.
func (b *Builder) Fetch(ctx context.Context, req Request, dir string) (string, string, error) {
	rec, err := b.registry.Lookup(req.Name)
	if err != nil {
		return "", "", err
	}
	info := rec.Info()
	ver, err := pickVersion(info, req.Version)
	if err != nil {
		return "", "", err
	}
	if dir == "" {
		if dir, err = b.sourceDir(req.Name, ver.Name); err != nil {
			return "", "", err
		}
	}
	commit, err := b.fetcher.Fetch(ctx, info.Git, ver.Branch, dir)
	if err != nil {
		return "", "", &formula.RecipeError{Recipe: req.Name, Err: err}
	}
	return dir, commit, nil
}

func (b *Builder) newContext(ctx context.Context, srcDir string) *formula.Context {
	fctx := formula.NewContext(ctx, b.runner, srcDir)
	fctx.Lookup = b.lookup
	fctx.LookPath = b.lookPath
	fctx.Jobs = b.jobs
	if b.python != "" {
		fctx.Python = b.python
	}
	return fctx
}

func envOf(m map[string]string) buildsys.Env {
	e := buildsys.Env{}
	for k, v := range m {
		e = e.With(k, v)
	}
	return e
}
