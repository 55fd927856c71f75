// Package params holds the static table of deployment parameters and the
// typed values they carry.
//
// A parameter is either required (generation fails without it) or optional
// (it only contributes to the deploy override clause when present). Values
// are a small tagged union of string and integer so that callers handle both
// kinds explicitly instead of passing interface{} around.
package params

import (
	"fmt"
	"strconv"
)

// Kind identifies the type of a parameter value.
type Kind int

const (
	KindString Kind = iota
	KindInt
)

// String returns the string representation of the kind
func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInt:
		return "integer"
	default:
		return "unknown"
	}
}

// Value is a string or integer parameter value. The zero Value is the empty
// string.
type Value struct {
	kind Kind
	str  string
	num  int64
}

// String creates a string value.
func String(s string) Value {
	return Value{kind: KindString, str: s}
}

// Int creates an integer value.
func Int(n int64) Value {
	return Value{kind: KindInt, num: n}
}

// Kind returns the kind of the value.
func (v Value) Kind() Kind {
	return v.kind
}

// Int returns the integer held by v. ok is false for string values.
func (v Value) Int() (n int64, ok bool) {
	if v.kind != KindInt {
		return 0, false
	}

	return v.num, true
}

// String returns the literal text of the value, integers in base 10.
func (v Value) String() string {
	switch v.kind {
	case KindInt:
		return strconv.FormatInt(v.num, 10)
	default:
		return v.str
	}
}

// Quoted returns the value wrapped in double quotes, as written into make
// variable bindings.
func (v Value) Quoted() string {
	return `"` + v.String() + `"`
}

// As converts v to kind k. Strings holding a base-10 integer convert to
// KindInt; integers always convert to KindString.
func (v Value) As(k Kind) (Value, error) {
	if v.kind == k {
		return v, nil
	}

	switch k {
	case KindString:
		return String(v.String()), nil
	case KindInt:
		n, err := strconv.ParseInt(v.str, 10, 64)
		if err != nil {
			return Value{}, fmt.Errorf("%q is not an integer", v.str)
		}

		return Int(n), nil
	default:
		return Value{}, fmt.Errorf("unknown kind %d", k)
	}
}

// Parameter names a deployment parameter and the kind of value it takes.
type Parameter struct {
	Name string
	Kind Kind
}

// Spec lists the required and optional parameters in rendering order. The
// two lists are disjoint.
type Spec struct {
	required []Parameter
	optional []Parameter
}

// NewSpec builds a Spec. It panics if a name appears twice, since parameter
// tables are program constants.
func NewSpec(required, optional []Parameter) Spec {
	seen := make(map[string]bool, len(required)+len(optional))
	for _, p := range append(append([]Parameter{}, required...), optional...) {
		if seen[p.Name] {
			panic(fmt.Sprintf("params: duplicate parameter %q", p.Name))
		}
		seen[p.Name] = true
	}

	return Spec{
		required: append([]Parameter(nil), required...),
		optional: append([]Parameter(nil), optional...),
	}
}

// Required returns a copy of the required parameters.
func (s Spec) Required() []Parameter {
	return append([]Parameter(nil), s.required...)
}

// Optional returns a copy of the optional parameters.
func (s Spec) Optional() []Parameter {
	return append([]Parameter(nil), s.optional...)
}

// All returns the required parameters followed by the optional ones.
func (s Spec) All() []Parameter {
	all := make([]Parameter, 0, len(s.required)+len(s.optional))
	all = append(all, s.required...)

	return append(all, s.optional...)
}

// Lookup finds a parameter by name.
func (s Spec) Lookup(name string) (Parameter, bool) {
	for _, p := range s.All() {
		if p.Name == name {
			return p, true
		}
	}

	return Parameter{}, false
}

// IsRequired reports whether name is a required parameter.
func (s Spec) IsRequired(name string) bool {
	for _, p := range s.required {
		if p.Name == name {
			return true
		}
	}

	return false
}

var defaultSpec = NewSpec(
	[]Parameter{
		{Name: "StackName", Kind: KindString},
		{Name: "Region", Kind: KindString},
		{Name: "CodeS3Bucket", Kind: KindString},
		{Name: "CodeS3Prefix", Kind: KindString},
	},
	[]Parameter{
		{Name: "LambdaRoleArn", Kind: KindString},
		{Name: "StepFunctionRoleArn", Kind: KindString},
		{Name: "ReviewerLambdaArn", Kind: KindString},
		{Name: "InspectionDelay", Kind: KindInt},
		{Name: "ReviewDelay", Kind: KindInt},
	},
)

// Default returns the parameter table of the serverless stack.
func Default() Spec {
	return defaultSpec
}
