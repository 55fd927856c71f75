package config

import (
	"strings"

	"github.com/deepalert/makegen/internal/errors"
	"github.com/deepalert/makegen/internal/params"
)

// validateRequired fails on the first required parameter, in spec order,
// that is missing from values.
func validateRequired(values Values, spec params.Spec) error {
	for _, p := range spec.Required() {
		if !values.Has(p.Name) {
			return errors.MissingRequiredParameter(p.Name)
		}
	}

	return nil
}

// validateValues checks the kind of every spec parameter present in values,
// coercing numeric strings for integer parameters in place. Values outside
// the spec are left untouched since they are never rendered.
func validateValues(values Values, spec params.Spec) error {
	for _, p := range spec.All() {
		val, ok := values[p.Name]
		if !ok {
			continue
		}

		converted, err := val.As(p.Kind)
		if err != nil {
			return errors.InvalidParameterValue(p.Name, "expected "+p.Kind.String()+", "+err.Error())
		}

		if strings.ContainsAny(converted.String(), "\r\n") {
			return errors.InvalidParameterValue(p.Name, "value must not contain line breaks")
		}

		values[p.Name] = converted
	}

	return nil
}
