// Package config resolves the deployment parameters of one generation run.
//
// A run starts from an optional base mapping loaded from a JSON or YAML file
// and layers individually supplied override values on top. Overrides win over
// file values key by key. The merged Values are validated against a
// params.Spec before anything is rendered.
package config

import (
	"sort"

	"github.com/deepalert/makegen/internal/params"
)

// Values maps parameter names to their values. A resolved Values is never
// mutated after Resolve returns it.
type Values map[string]params.Value

// Get returns the value for name.
func (v Values) Get(name string) (params.Value, bool) {
	val, ok := v[name]
	return val, ok
}

// Has reports whether name is set.
func (v Values) Has(name string) bool {
	_, ok := v[name]
	return ok
}

// Keys returns the parameter names in lexical order.
func (v Values) Keys() []string {
	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return keys
}

// Clone returns a shallow copy. Values are immutable so this is a full copy.
func (v Values) Clone() Values {
	out := make(Values, len(v))
	for k, val := range v {
		out[k] = val
	}

	return out
}

// Resolve merges overrides into base and validates the result against spec.
//
// Every entry of base seeds the result. For each parameter in spec, a value
// present in overrides replaces whatever base supplied; overrides for names
// outside spec are ignored. Neither input is modified.
func Resolve(base, overrides Values, spec params.Spec) (Values, error) {
	result := base.Clone()

	for _, p := range spec.All() {
		if val, ok := overrides[p.Name]; ok {
			result[p.Name] = val
		}
	}

	if err := validateRequired(result, spec); err != nil {
		return nil, err
	}

	if err := validateValues(result, spec); err != nil {
		return nil, err
	}

	return result, nil
}
