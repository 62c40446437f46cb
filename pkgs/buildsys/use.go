package buildsys

import (
	"os"
	"path/filepath"
	"runtime"
)

// ListSep is the separator of PATH-style variables on this platform.
var ListSep = func() string {
	if runtime.GOOS == "windows" {
		return ";"
	}
	return ":"
}()

// UseDependency returns env extended so that compilers, CMake and
// pkg-config find headers, libraries and .pc files of the dependency
// installed at root. Only directories that exist are added.
func UseDependency(env Env, root string) Env {
	includeDir := filepath.Join(root, "include")
	libDir := filepath.Join(root, "lib")
	pkgconfigDir := filepath.Join(libDir, "pkgconfig")

	if isDir(pkgconfigDir) {
		env = env.Prepend("PKG_CONFIG_PATH", pkgconfigDir, ListSep)
	}
	if isDir(root) {
		env = env.Prepend("CMAKE_PREFIX_PATH", root, ListSep)
	}
	if isDir(includeDir) {
		env = env.Prepend("CMAKE_INCLUDE_PATH", includeDir, ListSep)
	}
	if isDir(libDir) {
		env = env.Prepend("CMAKE_LIBRARY_PATH", libDir, ListSep)
	}

	if runtime.GOOS == "windows" {
		if isDir(includeDir) {
			env = env.Prepend("INCLUDE", includeDir, ListSep)
		}
		if isDir(libDir) {
			env = env.Prepend("LIB", libDir, ListSep)
		}
		return env
	}
	if isDir(includeDir) {
		env = env.AppendFlag("CPPFLAGS", "-I"+includeDir)
	}
	if isDir(libDir) {
		env = env.AppendFlag("LDFLAGS", "-L"+libDir)
	}
	return env
}

func isDir(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.IsDir()
}
