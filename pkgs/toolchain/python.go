package toolchain

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rno-g/rnobuild/pkgs/buildsys"
	"golang.org/x/mod/semver"
)

// ErrNoSitePackages is returned when the interpreter reports no
// site-packages directory.
var ErrNoSitePackages = errors.New("interpreter reported no site-packages directory")

// queryScript prints the interpreter facts as a single JSON object.
const queryScript = `import json, site, sys, sysconfig; ` +
	`print(json.dumps({"executable": sys.executable, ` +
	`"version": "%d.%d.%d" % tuple(sys.version_info[:3]), ` +
	`"site_packages": site.getsitepackages() if hasattr(site, "getsitepackages") else [], ` +
	`"purelib": sysconfig.get_paths()["purelib"]}))`

// Interpreter holds what a Python interpreter reports about itself.
type Interpreter struct {
	Executable       string   `json:"executable"`
	Version          string   `json:"version"`
	SitePackagesDirs []string `json:"site_packages"`
	Purelib          string   `json:"purelib"`
}

// Query runs python and decodes its self description.
func Query(ctx context.Context, r buildsys.Runner, python string) (*Interpreter, error) {
	out, err := r.Output(ctx, buildsys.Command{
		Name: python,
		Args: []string{"-c", queryScript},
	})
	if err != nil {
		return nil, fmt.Errorf("query interpreter %s: %w", python, err)
	}
	return ParseQuery(out)
}

// ParseQuery decodes the output of the interpreter query.
func ParseQuery(out []byte) (*Interpreter, error) {
	var interp Interpreter
	if err := json.Unmarshal(out, &interp); err != nil {
		return nil, fmt.Errorf("decode interpreter query: %w", err)
	}
	if !semver.IsValid("v" + interp.Version) {
		return nil, fmt.Errorf("decode interpreter query: invalid version %q", interp.Version)
	}
	return &interp, nil
}

// MajorMinor returns the "X.Y" part of the interpreter version.
func (i *Interpreter) MajorMinor() string {
	return strings.TrimPrefix(semver.MajorMinor("v"+i.Version), "v")
}

// SitePackages returns the first site-packages directory the interpreter
// reports, falling back to its purelib path.
func (i *Interpreter) SitePackages() (string, error) {
	for _, dir := range i.SitePackagesDirs {
		if dir != "" {
			return dir, nil
		}
	}
	if i.Purelib != "" {
		return i.Purelib, nil
	}
	return "", ErrNoSitePackages
}

// PackageDir returns <libDir>/python<X.Y>/site-packages.
func (i *Interpreter) PackageDir(libDir string) string {
	return filepath.Join(libDir, "python"+i.MajorMinor(), "site-packages")
}

// Pybind11CMakeDir returns the directory holding pybind11Config.cmake for a
// pybind11 installed with its Python package under libDir.
func Pybind11CMakeDir(libDir string, i *Interpreter) string {
	return filepath.Join(i.PackageDir(libDir), "pybind11", "share", "cmake", "pybind11")
}
