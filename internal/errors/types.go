// Package errors defines the error taxonomy shared by every makegen stage.
//
// All generation errors are fatal at the layer that raises them. Each one
// carries the offending parameter name or path in its Context so the CLI can
// tell the user exactly what to correct before re-running.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorType represents different categories of errors.
type ErrorType string

const (
	ErrorTypeValidation ErrorType = "validation"
	ErrorTypeIO         ErrorType = "io"
	ErrorTypeConfig     ErrorType = "config"
	ErrorTypeInternal   ErrorType = "internal"
)

// Error codes.
const (
	CodeMissingRequiredParameter = "MISSING_REQUIRED_PARAMETER"
	CodeInvalidParameterValue    = "INVALID_PARAMETER_VALUE"
	CodeInvalidSourceRoot        = "INVALID_SOURCE_ROOT"
	CodeMalformedConfigFile      = "MALFORMED_CONFIG_FILE"
	CodeEmitFailed               = "EMIT_FAILED"
	CodeRenderFailed             = "RENDER_FAILED"
)

// Context keys.
const (
	ContextParameter = "parameter"
	ContextPath      = "path"
	ContextSection   = "section"
)

// MakegenError is a structured error type with context.
type MakegenError struct {
	Type    ErrorType
	Code    string
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error implements the error interface.
func (e *MakegenError) Error() string {
	var parts []string

	if e.Code != "" {
		parts = append(parts, fmt.Sprintf("[%s]", e.Code))
	}

	parts = append(parts, e.Message)

	result := strings.Join(parts, " ")

	if e.Cause != nil {
		result += fmt.Sprintf(": %v", e.Cause)
	}

	return result
}

// Unwrap returns the underlying cause error.
func (e *MakegenError) Unwrap() error {
	return e.Cause
}

// Is reports whether target has the same type and code.
func (e *MakegenError) Is(target error) bool {
	var t *MakegenError
	if errors.As(target, &t) {
		return e.Type == t.Type && e.Code == t.Code
	}

	return false
}

// WithContext adds context information to the error.
func (e *MakegenError) WithContext(key string, value interface{}) *MakegenError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value

	return e
}

// Sentinels for errors.Is comparisons. They match any error of the same code.
var (
	ErrMissingRequiredParameter = &MakegenError{Type: ErrorTypeValidation, Code: CodeMissingRequiredParameter}
	ErrInvalidParameterValue    = &MakegenError{Type: ErrorTypeValidation, Code: CodeInvalidParameterValue}
	ErrInvalidSourceRoot        = &MakegenError{Type: ErrorTypeIO, Code: CodeInvalidSourceRoot}
	ErrMalformedConfigFile      = &MakegenError{Type: ErrorTypeConfig, Code: CodeMalformedConfigFile}
	ErrEmitFailed               = &MakegenError{Type: ErrorTypeIO, Code: CodeEmitFailed}
	ErrRenderFailed             = &MakegenError{Type: ErrorTypeInternal, Code: CodeRenderFailed}
)

// MissingRequiredParameter reports a required parameter absent after merging.
func MissingRequiredParameter(name string) *MakegenError {
	return (&MakegenError{
		Type:    ErrorTypeValidation,
		Code:    CodeMissingRequiredParameter,
		Message: fmt.Sprintf("parameter %q is required, but not found", name),
	}).WithContext(ContextParameter, name)
}

// InvalidParameterValue reports a parameter whose value cannot be rendered.
func InvalidParameterValue(name, reason string) *MakegenError {
	return (&MakegenError{
		Type:    ErrorTypeValidation,
		Code:    CodeInvalidParameterValue,
		Message: fmt.Sprintf("parameter %q is invalid: %s", name, reason),
	}).WithContext(ContextParameter, name)
}

// InvalidSourceRoot reports a scan root that is missing or not a directory.
func InvalidSourceRoot(path string, cause error) *MakegenError {
	return (&MakegenError{
		Type:    ErrorTypeIO,
		Code:    CodeInvalidSourceRoot,
		Message: fmt.Sprintf("source root %q is not a readable directory", path),
		Cause:   cause,
	}).WithContext(ContextPath, path)
}

// MalformedConfigFile reports a config file that cannot be read or decoded.
func MalformedConfigFile(path string, cause error) *MakegenError {
	return (&MakegenError{
		Type:    ErrorTypeConfig,
		Code:    CodeMalformedConfigFile,
		Message: fmt.Sprintf("config file %q is malformed", path),
		Cause:   cause,
	}).WithContext(ContextPath, path)
}

// EmitFailed reports a failure writing the generated artifact.
func EmitFailed(dest string, cause error) *MakegenError {
	return (&MakegenError{
		Type:    ErrorTypeIO,
		Code:    CodeEmitFailed,
		Message: fmt.Sprintf("failed to write %q", dest),
		Cause:   cause,
	}).WithContext(ContextPath, dest)
}

// RenderFailed reports a template execution failure in one section.
func RenderFailed(section string, cause error) *MakegenError {
	return (&MakegenError{
		Type:    ErrorTypeInternal,
		Code:    CodeRenderFailed,
		Message: fmt.Sprintf("failed to render %s section", section),
		Cause:   cause,
	}).WithContext(ContextSection, section)
}

// Parameter returns the parameter name carried by err, if any.
func Parameter(err error) (string, bool) {
	return contextString(err, ContextParameter)
}

// Path returns the filesystem path carried by err, if any.
func Path(err error) (string, bool) {
	return contextString(err, ContextPath)
}

func contextString(err error, key string) (string, bool) {
	var me *MakegenError
	if !errors.As(err, &me) {
		return "", false
	}
	v, ok := me.Context[key].(string)

	return v, ok
}

// Code returns the makegen error code of err, or "" for foreign errors.
func Code(err error) string {
	var me *MakegenError
	if errors.As(err, &me) {
		return me.Code
	}

	return ""
}
