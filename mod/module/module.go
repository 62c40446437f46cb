// Package module defines the module.Version type along with support code.
package module

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// A Version (for clients, a module.Version) represents a specific version
// of a package identified by its recipe name.
type Version struct {
	Path    string // Recipe name, e.g. "mattak"
	Version string // Version label, e.g. "main"
}

// String returns "path@version", or just path when the version is empty.
func (v Version) String() string {
	if v.Version == "" {
		return v.Path
	}
	return v.Path + "@" + v.Version
}

// Parse splits "name@version" into a Version. The last '@' separates the
// version, so names containing '@' are kept intact.
func Parse(arg string) (Version, error) {
	if arg == "" {
		return Version{}, errors.New("empty package argument")
	}
	i := strings.LastIndexByte(arg, '@')
	if i < 0 {
		return Version{Path: arg}, nil
	}
	if i == 0 {
		return Version{}, fmt.Errorf("invalid package argument %q: missing name", arg)
	}
	return Version{Path: arg[:i], Version: arg[i+1:]}, nil
}

// EscapePath returns the escaped form of the given package path as a valid
// file system path. It fails if the path is invalid.
func EscapePath(path string) (escaped string, err error) {
	return filepath.Localize(path)
}
