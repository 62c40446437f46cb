// Package env locates the per-user directories rnobuild works in.
package env

import (
	"os"
	"path/filepath"
)

// AppName names the per-user directories.
const AppName = "rnobuild"

// WorkDir returns the default work directory under the user cache dir.
func WorkDir() (string, error) {
	userCacheDir, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(userCacheDir, AppName), nil
}

// ConfigFile returns the default path of config.yaml.
func ConfigFile() (string, error) {
	userConfigDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(userConfigDir, AppName, "config.yaml"), nil
}

// Layout is the directory structure below a work directory:
//
//	workDir/
//	  source/<escaped>@<version>/      # fetched sources
//	  install/
//	    <escaped>/.cache.json          # build cache
//	    <escaped>@<version>-<matrix>/  # install prefix
type Layout struct {
	Root string
}

// SourceDir is where sources of all packages are fetched to.
func (l Layout) SourceDir() string { return filepath.Join(l.Root, "source") }

// InstallDir is where all packages are installed to.
func (l Layout) InstallDir() string { return filepath.Join(l.Root, "install") }

// Ensure creates the layout's directories with owner-only permissions.
func (l Layout) Ensure() error {
	for _, dir := range []string{l.SourceDir(), l.InstallDir()} {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return err
		}
	}
	return nil
}
