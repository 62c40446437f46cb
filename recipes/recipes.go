// Package recipes collects the recipes this repository ships.
package recipes

import (
	"github.com/rno-g/rnobuild/formula"
	"github.com/rno-g/rnobuild/recipes/librnog"
	"github.com/rno-g/rnobuild/recipes/mattak"
)

// Default returns a registry holding every shipped recipe.
func Default() *formula.Registry {
	return formula.NewRegistry(
		librnog.New(),
		mattak.New(),
	)
}
