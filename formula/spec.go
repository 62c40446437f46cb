package formula

import (
	"fmt"
	"maps"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/rno-g/rnobuild/pkgs/buildsys"
)

// -----------------------------------------------------------------------------

// Prefix is an installation prefix. Recipes treat it as opaque apart from
// the conventional sub-directories.
type Prefix string

func (p Prefix) String() string { return string(p) }

// Join joins elem onto the prefix.
func (p Prefix) Join(elem ...string) string {
	return filepath.Join(append([]string{string(p)}, elem...)...)
}

// Lib returns <prefix>/lib.
func (p Prefix) Lib() string { return p.Join("lib") }

// Include returns <prefix>/include.
func (p Prefix) Include() string { return p.Join("include") }

// Bin returns <prefix>/bin.
func (p Prefix) Bin() string { return p.Join("bin") }

// -----------------------------------------------------------------------------

// Variant is a build option of a recipe. A variant without Values is
// boolean and its Default is "true" or "false".
type Variant struct {
	Name        string
	Default     string
	Values      []string
	Description string
}

// IsBool reports whether v is a boolean variant.
func (v Variant) IsBool() bool {
	return len(v.Values) == 0
}

func (v Variant) check(val string) error {
	if v.IsBool() {
		if _, err := strconv.ParseBool(val); err != nil {
			return fmt.Errorf("%w: %s=%s", ErrInvalidVariant, v.Name, val)
		}
		return nil
	}
	if !slices.Contains(v.Values, val) {
		return fmt.Errorf("%w: %s=%s (want one of %s)", ErrInvalidVariant, v.Name, val, strings.Join(v.Values, ", "))
	}
	return nil
}

// ParseVariants turns command line variant arguments into a complete
// variant assignment for info, filling in defaults. Accepted forms are
// "+name", "~name" and "name=value".
func ParseVariants(info *Info, args []string) (map[string]string, error) {
	vals := make(map[string]string, len(info.Variants))
	for _, v := range info.Variants {
		vals[v.Name] = v.Default
	}
	for _, arg := range args {
		var name, val string
		switch {
		case strings.HasPrefix(arg, "+"):
			name, val = arg[1:], "true"
		case strings.HasPrefix(arg, "~"):
			name, val = arg[1:], "false"
		default:
			var ok bool
			if name, val, ok = strings.Cut(arg, "="); !ok {
				return nil, fmt.Errorf("%w: %q", ErrInvalidVariant, arg)
			}
		}
		v, ok := info.VariantOf(name)
		if !ok {
			return nil, &RecipeError{Recipe: info.Name, Err: fmt.Errorf("%w: %s", ErrUnknownVariant, name)}
		}
		if err := v.check(val); err != nil {
			return nil, &RecipeError{Recipe: info.Name, Err: err}
		}
		if v.IsBool() {
			b, _ := strconv.ParseBool(val)
			val = strconv.FormatBool(b)
		}
		vals[name] = val
	}
	return vals, nil
}

// -----------------------------------------------------------------------------

// Spec is the concrete request a recipe's hooks operate on: one version of
// one package with its variants and resolved dependencies.
type Spec struct {
	Name     string
	Version  string
	Variants map[string]string

	// Prefix is where the package is (to be) installed.
	Prefix Prefix

	// Deps holds the resolved active dependencies by name.
	Deps map[string]*Spec
}

// Enabled reports whether the boolean variant name is on.
func (s *Spec) Enabled(name string) bool {
	b, _ := strconv.ParseBool(s.Variants[name])
	return b
}

// Variant returns the value of the variant name.
func (s *Spec) Variant(name string) string {
	return s.Variants[name]
}

// Satisfies reports whether s matches cond. cond is "" (always), "+name",
// "~name" or "name=value".
func (s *Spec) Satisfies(cond string) bool {
	switch {
	case cond == "":
		return true
	case strings.HasPrefix(cond, "+"):
		return s.Enabled(cond[1:])
	case strings.HasPrefix(cond, "~"):
		return !s.Enabled(cond[1:])
	}
	name, val, ok := strings.Cut(cond, "=")
	return ok && s.Variants[name] == val
}

// Dep returns the resolved dependency name.
func (s *Spec) Dep(name string) (*Spec, error) {
	if d, ok := s.Deps[name]; ok {
		return d, nil
	}
	return nil, &RecipeError{Recipe: s.Name, Err: fmt.Errorf("%w: %s", ErrDependencyNotResolved, name)}
}

// String renders s like "mattak@main+python~root driver=make".
func (s *Spec) String() string {
	var sb strings.Builder
	sb.WriteString(s.Name)
	if s.Version != "" {
		sb.WriteString("@" + s.Version)
	}
	var values []string
	for _, k := range slices.Sorted(maps.Keys(s.Variants)) {
		switch v := s.Variants[k]; v {
		case "true":
			sb.WriteString("+" + k)
		case "false":
			sb.WriteString("~" + k)
		default:
			values = append(values, k+"="+v)
		}
	}
	for _, kv := range values {
		sb.WriteString(" " + kv)
	}
	return sb.String()
}

// UseDeps returns env extended with the include, library, pkg-config and
// CMake search paths of every resolved dependency that has a prefix,
// visited in name order.
func (s *Spec) UseDeps(env buildsys.Env) buildsys.Env {
	for _, name := range slices.Sorted(maps.Keys(s.Deps)) {
		if d := s.Deps[name]; d.Prefix != "" {
			env = buildsys.UseDependency(env, d.Prefix.String())
		}
	}
	return env
}
