package buildsys

import (
	"maps"
	"slices"
	"sort"
	"strings"
)

// Env is an immutable set of environment variables handed to a build tool.
// The zero value is an empty environment. Every modifier returns a new Env
// and leaves the receiver untouched.
type Env struct {
	vars map[string]string
}

// NewEnv returns an Env holding the given key/value pairs.
// It panics if kv has an odd length.
func NewEnv(kv ...string) Env {
	if len(kv)%2 != 0 {
		panic("buildsys: NewEnv called with odd number of arguments")
	}
	if len(kv) == 0 {
		return Env{}
	}
	vars := make(map[string]string, len(kv)/2)
	for i := 0; i < len(kv); i += 2 {
		vars[kv[i]] = kv[i+1]
	}
	return Env{vars: vars}
}

// With returns a copy of e with key set to val.
func (e Env) With(key, val string) Env {
	vars := make(map[string]string, len(e.vars)+1)
	maps.Copy(vars, e.vars)
	vars[key] = val
	return Env{vars: vars}
}

// WithAll returns a copy of e with every variable of other set on top.
func (e Env) WithAll(other Env) Env {
	if len(other.vars) == 0 {
		return e
	}
	vars := make(map[string]string, len(e.vars)+len(other.vars))
	maps.Copy(vars, e.vars)
	maps.Copy(vars, other.vars)
	return Env{vars: vars}
}

// Prepend returns a copy of e with value prepended to the PATH-style
// variable key, using sep as the list separator.
func (e Env) Prepend(key, value, sep string) Env {
	if cur, ok := e.vars[key]; ok && cur != "" {
		value += sep + cur
	}
	return e.With(key, value)
}

// AppendFlag returns a copy of e with flag appended to the space separated
// variable key.
func (e Env) AppendFlag(key, flag string) Env {
	if cur, ok := e.vars[key]; ok && cur != "" {
		flag = strings.TrimSpace(cur + " " + flag)
	}
	return e.With(key, flag)
}

// Get returns the value of key.
func (e Env) Get(key string) (string, bool) {
	v, ok := e.vars[key]
	return v, ok
}

// Value returns the value of key, or "" if unset.
func (e Env) Value(key string) string {
	return e.vars[key]
}

// Keys returns the variable names in sorted order.
func (e Env) Keys() []string {
	return slices.Sorted(maps.Keys(e.vars))
}

// Len returns the number of variables.
func (e Env) Len() int {
	return len(e.vars)
}

// Equal reports whether e and other hold exactly the same variables.
func (e Env) Equal(other Env) bool {
	return maps.Equal(e.vars, other.vars)
}

// Map returns a copy of the variables.
func (e Env) Map() map[string]string {
	return maps.Clone(e.vars)
}

// Environ returns base with every variable of e replaced or appended,
// sorted by key. base is in os.Environ form and is not modified.
func (e Env) Environ(base []string) []string {
	envMap := make(map[string]string, len(base)+len(e.vars))
	for _, kv := range base {
		if k, v, ok := strings.Cut(kv, "="); ok {
			envMap[k] = v
		}
	}
	maps.Copy(envMap, e.vars)
	keys := make([]string, 0, len(envMap))
	for k := range envMap {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, k+"="+envMap[k])
	}
	return out
}

// String renders e as sorted KEY=VALUE lines.
func (e Env) String() string {
	var sb strings.Builder
	for _, k := range e.Keys() {
		sb.WriteString(k)
		sb.WriteByte('=')
		sb.WriteString(e.vars[k])
		sb.WriteByte('\n')
	}
	return sb.String()
}
