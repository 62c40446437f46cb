package formula

import (
	"errors"
	"fmt"
)

var (
	// ErrRecipeNotFound indicates no recipe is registered under a name.
	ErrRecipeNotFound = errors.New("recipe not found")

	// ErrVersionNotFound indicates a recipe does not provide a version.
	ErrVersionNotFound = errors.New("version not found")

	// ErrUnknownVariant indicates a variant that the recipe does not declare.
	ErrUnknownVariant = errors.New("unknown variant")

	// ErrInvalidVariant indicates a variant value outside its allowed set.
	ErrInvalidVariant = errors.New("invalid variant value")

	// ErrDependencyNotResolved indicates a hook asked for a dependency
	// that is not part of its spec.
	ErrDependencyNotResolved = errors.New("dependency not resolved")
)

// RecipeError wraps an error with the recipe it concerns.
type RecipeError struct {
	Recipe string
	Err    error
}

func (e *RecipeError) Error() string {
	return fmt.Sprintf("%s: %v", e.Recipe, e.Err)
}

func (e *RecipeError) Unwrap() error {
	return e.Err
}

// Phase names a lifecycle hook.
type Phase string

const (
	PhaseSetup   Phase = "setup"
	PhaseBuild   Phase = "build"
	PhaseInstall Phase = "install"
)

// PhaseError reports a failed lifecycle hook.
type PhaseError struct {
	Phase   Phase
	Package string
	Err     error
}

func (e *PhaseError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Phase, e.Package, e.Err)
}

func (e *PhaseError) Unwrap() error {
	return e.Err
}
