package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/deepalert/makegen/internal/errors"
	"github.com/deepalert/makegen/internal/params"
)

// LoadFile reads a mapping of parameter names to string or integer values.
// Files ending in .yml or .yaml are decoded as YAML, everything else as JSON.
// Parameters of the default table must hold a string or an integer; other
// keys may hold anything and are kept only when they are scalars.
func LoadFile(fs afero.Fs, path string) (Values, error) {
	return LoadFileFor(fs, path, params.Default())
}

// LoadFileFor is LoadFile checking the parameters of spec.
func LoadFileFor(fs afero.Fs, path string, spec params.Spec) (Values, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, errors.MalformedConfigFile(path, err)
	}

	var raw map[string]interface{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yml", ".yaml":
		raw, err = decodeYAML(data)
	default:
		raw, err = decodeJSON(data)
	}
	if err != nil {
		return nil, errors.MalformedConfigFile(path, err)
	}

	values, err := toValues(raw, spec)
	if err != nil {
		return nil, errors.MalformedConfigFile(path, err)
	}

	return values, nil
}

func decodeJSON(data []byte) (map[string]interface{}, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw map[string]interface{}
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, fmt.Errorf("top level must be an object")
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return nil, fmt.Errorf("unexpected data after top-level object")
	}

	return raw, nil
}

func decodeYAML(data []byte) (map[string]interface{}, error) {
	var raw map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	if raw == nil {
		raw = map[string]interface{}{}
	}

	return raw, nil
}

func toValues(raw map[string]interface{}, spec params.Spec) (Values, error) {
	values := make(Values, len(raw))

	for key, v := range raw {
		val, err := toValue(v)
		if err != nil {
			if _, known := spec.Lookup(key); known {
				return nil, fmt.Errorf("key %q: %w", key, err)
			}
			// never rendered
			continue
		}
		values[key] = val
	}

	return values, nil
}

func toValue(v interface{}) (params.Value, error) {
	switch x := v.(type) {
	case string:
		return params.String(x), nil
	case json.Number:
		n, err := x.Int64()
		if err != nil {
			return params.Value{}, fmt.Errorf("%s is not an integer", x)
		}
		return params.Int(n), nil
	case int:
		return params.Int(int64(x)), nil
	case int64:
		return params.Int(x), nil
	case uint64:
		if x > math.MaxInt64 {
			return params.Value{}, fmt.Errorf("%d overflows int64", x)
		}
		return params.Int(int64(x)), nil
	default:
		return params.Value{}, fmt.Errorf("unsupported value type %T, want string or integer", v)
	}
}
