// Package buildsys holds what the build tool drivers share: the immutable
// build environment, the command runner and the BuildSystem lifecycle.
package buildsys

// BuildSystem captures shared capabilities of build helpers (make, CMake).
// It keeps the common lifecycle and env setup; implementations add their own extras.
type BuildSystem interface {
	// Use makes the dependency installed at prefix visible to the build.
	Use(prefix string)

	// Basic paths.
	Source(dir string)
	InstallDir(dir string)

	// Environment helper. Values only reach commands spawned by this BuildSystem.
	Env(key, val string)

	// Lifecycle.
	Configure(args ...string) error
	Build(args ...string) error
	Install(args ...string) error

	// Where artifacts land.
	OutputDir() string
}
