// Package recipe reads and rewrites conda-forge recipe files. Both the newer
// recipe.yaml format and the older Jinja-templated meta.yaml are supported.
// Rewrites are line-oriented on purpose: the files contain templating a YAML
// round-trip would destroy, and diffs must stay minimal for review.
package recipe

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
)

// Variant identifies which recipe file format a feedstock uses.
type Variant int

const (
	// RecipeYAML is the newer recipe/recipe.yaml format.
	RecipeYAML Variant = iota
	// MetaYAML is the older Jinja-templated recipe/meta.yaml format.
	MetaYAML
)

// String implements fmt.Stringer.
func (v Variant) String() string {
	if v == RecipeYAML {
		return "recipe.yaml"
	}
	return "meta.yaml"
}

// Path returns the recipe file path relative to the feedstock root.
func (v Variant) Path() string {
	return filepath.Join("recipe", v.String())
}

// ErrNotFound is returned when a feedstock has neither recipe file.
var ErrNotFound = errors.New("no recipe file found")

var (
	recipeVersionRE = regexp.MustCompile(`(?m)^(\s*version:\s*)([0-9][0-9.]*)`)
	metaVersionRE   = regexp.MustCompile(`({%\s*set\s+version\s*=\s*["'])([^"']+)(["']\s*%})`)
)

// Detect returns which recipe variant the feedstock at dir uses.
func Detect(dir string) (Variant, error) {
	if _, err := os.Stat(filepath.Join(dir, RecipeYAML.Path())); err == nil {
		return RecipeYAML, nil
	}
	if _, err := os.Stat(filepath.Join(dir, MetaYAML.Path())); err == nil {
		return MetaYAML, nil
	}
	return 0, fmt.Errorf("%w in %s", ErrNotFound, dir)
}

// CurrentVersion extracts the pinned version from the feedstock's recipe
// file. It tries recipe.yaml first and falls back to meta.yaml. An existing
// recipe without a recognizable version line yields an empty version and no
// error; the caller decides how to handle the missing pin.
func CurrentVersion(dir string) (string, Variant, error) {
	variant, err := Detect(dir)
	if err != nil {
		return "", 0, err
	}

	content, err := os.ReadFile(filepath.Join(dir, variant.Path()))
	if err != nil {
		return "", variant, err
	}

	switch variant {
	case RecipeYAML:
		if m := recipeVersionRE.FindSubmatch(content); m != nil {
			return string(m[2]), variant, nil
		}
	case MetaYAML:
		if m := metaVersionRE.FindSubmatch(content); m != nil {
			return string(m[2]), variant, nil
		}
	}
	return "", variant, nil
}
