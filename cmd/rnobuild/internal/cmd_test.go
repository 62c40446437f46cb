package internal

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rno-g/rnobuild/formula"
	"github.com/rno-g/rnobuild/internal/build"
)

func TestParseRequest(t *testing.T) {
	tests := []struct {
		args        []string
		wantName    string
		wantVersion string
		wantErr     error
	}{
		{[]string{"mattak"}, "mattak", "", nil},
		{[]string{"mattak@main", "~python", "driver=cmake"}, "mattak", "main", nil},
		{[]string{"librno-g@master"}, "librno-g", "master", nil},
		{[]string{"mattak", "+nope"}, "mattak", "", formula.ErrUnknownVariant},
		{[]string{"mattak", "driver=ninja"}, "mattak", "", formula.ErrInvalidVariant},
		{[]string{"root@6.30"}, "root", "6.30", formula.ErrRecipeNotFound},
	}

	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			req, err := parseRequest(tt.args)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("parseRequest(%q) error = %v, want %v", tt.args, err, tt.wantErr)
			}
			if req.Name != tt.wantName || req.Version != tt.wantVersion {
				t.Errorf("parseRequest(%q) = %s@%s, want %s@%s", tt.args, req.Name, req.Version, tt.wantName, tt.wantVersion)
			}
		})
	}

	if _, err := parseRequest([]string{"@main"}); err == nil {
		t.Error("parseRequest(@main) succeeded")
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestListCommand(t *testing.T) {
	out, err := execute(t, "list")
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 || !strings.HasPrefix(lines[0], "librno-g") || !strings.HasPrefix(lines[1], "mattak") {
		t.Errorf("list output:\n%s", out)
	}
}

func TestInfoCommand(t *testing.T) {
	out, err := execute(t, "info", "mattak")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		"Git:      https://github.com/RNO-G/mattak.git",
		"main         branch main",
		"driver       [make] (make, cmake)",
		"Configurations: 16",
		"librno-g     (build, link) when +librnog",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("info output lacks %q:\n%s", want, out)
		}
	}

	if _, err := execute(t, "info", "nope"); !errors.Is(err, formula.ErrRecipeNotFound) {
		t.Errorf("info nope error = %v", err)
	}
}

func TestInstallRejectsBadVariant(t *testing.T) {
	t.Setenv("RNOBUILD_WORK_DIR", t.TempDir())
	_, err := execute(t, "install", "mattak", "+nope", "--config", filepath.Join(t.TempDir(), "none.yaml"))
	if !errors.Is(err, formula.ErrUnknownVariant) {
		t.Errorf("install error = %v, want ErrUnknownVariant", err)
	}
}

type stubFetcher string

func (s stubFetcher) Fetch(context.Context, string, string, string) (string, error) {
	return string(s), nil
}

func TestSourceFetcher(t *testing.T) {
	f := sourceFetcher{git: "https://github.com/RNO-G/mattak.git", local: stubFetcher("local"), next: stubFetcher("git")}
	ctx := context.Background()

	if got, _ := f.Fetch(ctx, "https://github.com/RNO-G/mattak.git", "main", ""); got != "local" {
		t.Errorf("mattak fetched by %s", got)
	}
	if got, _ := f.Fetch(ctx, "https://github.com/RNO-G/librno-g.git", "master", ""); got != "git" {
		t.Errorf("librno-g fetched by %s", got)
	}
}

func TestPrintResults(t *testing.T) {
	prefix := t.TempDir()
	pcDir := filepath.Join(prefix, "lib", "pkgconfig")
	if err := os.MkdirAll(pcDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(pcDir, "mattak.pc"), []byte("Name: mattak\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	printResults(&out, []build.Result{
		{Name: "zlib", Prefix: "/usr", External: true},
		{Name: "librno-g", Prefix: "/work/librno-g", Cached: true},
		{Name: "mattak", Prefix: formula.Prefix(prefix)},
	})
	for _, want := range []string{
		"zlib         external  /usr",
		"librno-g     cached    /work/librno-g",
		"mattak       installed " + prefix,
		"pkg-config modules: mattak",
	} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output lacks %q:\n%s", want, out.String())
		}
	}
}

func TestPkgConfigNamesNoDir(t *testing.T) {
	if names := pkgConfigNames(t.TempDir()); len(names) != 0 {
		t.Errorf("pkgConfigNames() = %v, want none", names)
	}
}

func TestOutputResultDir(t *testing.T) {
	src := t.TempDir()
	if err := os.WriteFile(filepath.Join(src, "libmattak.so"), []byte("ELF"), 0o644); err != nil {
		t.Fatal(err)
	}
	dest := filepath.Join(t.TempDir(), "out")
	if err := outputResult(src, dest); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(dest, "libmattak.so")); err != nil {
		t.Errorf("output dir not written: %v", err)
	}
}

func TestConfigCommand(t *testing.T) {
	work := t.TempDir()
	t.Setenv("RNOBUILD_WORK_DIR", work)
	path := filepath.Join(t.TempDir(), "rnobuild", "config.yaml")
	t.Cleanup(func() { configPath, configInit = "", false })

	out, err := execute(t, "config", "--config", path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "work_dir: "+work) {
		t.Errorf("config output lacks work_dir:\n%s", out)
	}

	if _, err := execute(t, "config", "--config", path, "--init"); err != nil {
		t.Fatalf("config --init: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "python: python3") {
		t.Errorf("written config:\n%s", data)
	}

	if _, err := execute(t, "config", "--config", path, "--init"); err == nil {
		t.Error("config --init overwrote an existing file")
	}
}
