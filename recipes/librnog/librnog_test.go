package librnog

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/rno-g/rnobuild/formula"
	"github.com/rno-g/rnobuild/pkgs/buildsys"
)

type recordRunner struct {
	cmds []buildsys.Command
}

func (r *recordRunner) Run(_ context.Context, cmd buildsys.Command) error {
	r.cmds = append(r.cmds, cmd)
	return nil
}

func (r *recordRunner) Output(_ context.Context, cmd buildsys.Command) ([]byte, error) {
	r.cmds = append(r.cmds, cmd)
	return nil, nil
}

func newContext(t *testing.T, r buildsys.Runner) *formula.Context {
	t.Helper()
	ctx := formula.NewContext(context.Background(), r, t.TempDir())
	ctx.Lookup = func(string) (string, bool) { return "", false }
	ctx.LookPath = func(file string) (string, error) {
		if file == "gcc" || file == "g++" {
			return "/usr/bin/" + file, nil
		}
		return "", exec.ErrNotFound
	}
	return ctx
}

func TestInfo(t *testing.T) {
	info := New().Info()
	if info.Name != Name {
		t.Errorf("Name = %q, want %q", info.Name, Name)
	}
	if _, err := info.Version("master"); err != nil {
		t.Errorf("Version(master): %v", err)
	}
	want := map[string][]formula.DepType{
		"zlib":        {formula.DepBuild, formula.DepLink},
		"py-pybind11": {formula.DepBuild},
		"python":      {formula.DepBuild},
	}
	if len(info.Dependencies) != len(want) {
		t.Fatalf("got %d dependencies, want %d", len(info.Dependencies), len(want))
	}
	for _, d := range info.Dependencies {
		types, ok := want[d.Name]
		if !ok {
			t.Errorf("unexpected dependency %q", d.Name)
			continue
		}
		for _, typ := range types {
			if !d.Is(typ) {
				t.Errorf("%s is not a %s dependency", d.Name, typ)
			}
		}
	}
}

func TestSetupBuildEnv(t *testing.T) {
	zlib := t.TempDir()
	spec := &formula.Spec{
		Name:    Name,
		Version: "master",
		Deps: map[string]*formula.Spec{
			"zlib": {Name: "zlib", Prefix: formula.Prefix(zlib)},
		},
	}
	for _, sub := range []string{"include", "lib"} {
		if err := os.MkdirAll(filepath.Join(zlib, sub), 0o755); err != nil {
			t.Fatal(err)
		}
	}

	env, err := New().SetupBuildEnv(newContext(t, &recordRunner{}), spec, "/opt/lib")
	if err != nil {
		t.Fatalf("SetupBuildEnv: %v", err)
	}
	if env.Value("CC") != "/usr/bin/gcc" || env.Value("CXX") != "/usr/bin/g++" {
		t.Errorf("compilers = %q/%q", env.Value("CC"), env.Value("CXX"))
	}
	if got := env.Value("CMAKE_PREFIX_PATH"); got != zlib {
		t.Errorf("CMAKE_PREFIX_PATH = %q, want %q", got, zlib)
	}
}

func TestBuildInstall(t *testing.T) {
	r := &recordRunner{}
	ctx := newContext(t, r)
	spec := &formula.Spec{Name: Name, Version: "master"}
	rec := New()

	env, err := rec.SetupBuildEnv(ctx, spec, "/opt/lib")
	if err != nil {
		t.Fatal(err)
	}
	ctx.Env = env
	if err := rec.Build(ctx, spec, "/opt/lib"); err != nil {
		t.Fatal(err)
	}
	if err := rec.Install(ctx, spec, "/opt/lib"); err != nil {
		t.Fatal(err)
	}

	want := []string{"make", "make install PREFIX=/opt/lib"}
	if len(r.cmds) != len(want) {
		t.Fatalf("got %d commands, want %d", len(r.cmds), len(want))
	}
	for i, cmd := range r.cmds {
		if cmd.String() != want[i] {
			t.Errorf("command %d = %q, want %q", i, cmd, want[i])
		}
		if cmd.Dir != ctx.SourceDir {
			t.Errorf("command %q ran in %q, want %q", cmd, cmd.Dir, ctx.SourceDir)
		}
		if cmd.Env.Value("CC") != "/usr/bin/gcc" {
			t.Errorf("command %q launched without CC", cmd)
		}
	}
}
