package formula

import (
	"runtime"
	"sort"
	"strings"
)

// Matrix describes the build configurations of a package: the platform it
// is built for (Require) and its variant values (Options).
type Matrix struct {
	Require map[string][]string
	Options map[string][]string
}

// MatrixOf returns the single-configuration matrix of spec on the host
// platform.
func MatrixOf(spec *Spec) Matrix {
	m := Matrix{
		Require: map[string][]string{
			"os":   {runtime.GOOS},
			"arch": {runtime.GOARCH},
		},
	}
	if len(spec.Variants) > 0 {
		m.Options = make(map[string][]string, len(spec.Variants))
		for k, v := range spec.Variants {
			m.Options[k] = []string{k + "." + v}
		}
	}
	return m
}

// VariantMatrix returns the matrix of every configuration info can be
// built in on the host platform.
func VariantMatrix(info *Info) Matrix {
	m := MatrixOf(&Spec{})
	if len(info.Variants) > 0 {
		m.Options = make(map[string][]string, len(info.Variants))
		for _, v := range info.Variants {
			values := v.Values
			if v.IsBool() {
				values = []string{"false", "true"}
			}
			for _, val := range values {
				m.Options[v.Name] = append(m.Options[v.Name], v.Name+"."+val)
			}
		}
	}
	return m
}

// Combinations returns all cartesian product combinations of the matrix.
// Keys are sorted alphabetically, and combinations are built layer by layer.
// Require fields are joined with "-", then combined with options using "|".
func (m *Matrix) Combinations() []string {
	cartesian := func(kvs map[string][]string) []string {
		if len(kvs) == 0 {
			return nil
		}

		keys := make([]string, 0, len(kvs))
		for k := range kvs {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		result := make([]string, len(kvs[keys[0]]))
		copy(result, kvs[keys[0]])

		for i := 1; i < len(keys); i++ {
			values := kvs[keys[i]]
			newResult := make([]string, 0, len(result)*len(values))
			for _, prev := range result {
				for _, v := range values {
					newResult = append(newResult, prev+"-"+v)
				}
			}
			result = newResult
		}
		return result
	}

	requireCombos := cartesian(m.Require)
	optionsCombos := cartesian(m.Options)

	if len(requireCombos) == 0 {
		return optionsCombos
	}
	if len(optionsCombos) == 0 {
		return requireCombos
	}

	result := make([]string, 0, len(requireCombos)*len(optionsCombos))
	for _, req := range requireCombos {
		for _, opt := range optionsCombos {
			result = append(result, req+"|"+opt)
		}
	}
	return result
}

// CombinationCount returns the total number of cartesian product combinations.
func (m *Matrix) CombinationCount() int {
	countPart := func(kvs map[string][]string) int {
		if len(kvs) == 0 {
			return 0
		}
		count := 1
		for _, v := range kvs {
			count *= len(v)
		}
		return count
	}

	requireCount := countPart(m.Require)
	optionsCount := countPart(m.Options)

	if requireCount == 0 {
		return optionsCount
	}
	if optionsCount == 0 {
		return requireCount
	}
	return requireCount * optionsCount
}

// DirName returns String with the "|" separator replaced by "+", so the
// result can name a directory that build tools expand unquoted in a shell.
func (m *Matrix) DirName() string {
	return strings.ReplaceAll(m.String(), "|", "+")
}

// String returns the first combination, which for a matrix built by
// MatrixOf is its only one. It is used to key install directories.
func (m *Matrix) String() string {
	combos := m.Combinations()
	if len(combos) == 0 {
		return ""
	}
	return combos[0]
}
