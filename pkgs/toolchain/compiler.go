// Package toolchain locates the tools a recipe builds with: the C and C++
// compilers and the Python interpreter targeted by binding builds.
package toolchain

import (
	"errors"
	"fmt"

	"golang.org/x/sys/execabs"
)

// ErrCompilerNotFound is returned when neither an override nor a PATH
// search yields a compiler.
var ErrCompilerNotFound = errors.New("compiler not found")

// Search order when no override is given.
var (
	CCandidates   = []string{"cc", "gcc", "clang"}
	CXXCandidates = []string{"c++", "g++", "clang++"}
)

// Compilers is a resolved C/C++ compiler pair.
type Compilers struct {
	CC  string
	CXX string
}

// LookupFunc returns the value of an override variable.
type LookupFunc func(key string) (string, bool)

// LookPathFunc searches for an executable, like exec.LookPath.
type LookPathFunc func(file string) (string, error)

// ResolveCompilers picks the C compiler from the CC override and the C++
// compiler from the CXX override. A missing or empty override falls back to
// the first candidate found by lookPath. A nil lookPath uses
// execabs.LookPath.
func ResolveCompilers(lookup LookupFunc, lookPath LookPathFunc) (Compilers, error) {
	if lookPath == nil {
		lookPath = execabs.LookPath
	}
	cc, err := resolve("CC", CCandidates, lookup, lookPath)
	if err != nil {
		return Compilers{}, err
	}
	cxx, err := resolve("CXX", CXXCandidates, lookup, lookPath)
	if err != nil {
		return Compilers{}, err
	}
	return Compilers{CC: cc, CXX: cxx}, nil
}

func resolve(key string, candidates []string, lookup LookupFunc, lookPath LookPathFunc) (string, error) {
	if lookup != nil {
		if v, ok := lookup(key); ok && v != "" {
			return v, nil
		}
	}
	for _, name := range candidates {
		if path, err := lookPath(name); err == nil && path != "" {
			return path, nil
		}
	}
	return "", fmt.Errorf("%s: %w (tried %v)", key, ErrCompilerNotFound, candidates)
}
