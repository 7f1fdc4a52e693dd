package gen

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for common failure cases.
var (
	// ErrInvalidSchema indicates a declaration with missing required input.
	ErrInvalidSchema = errors.New("narrator: invalid schema")
	// ErrUnresolvedReference indicates a type that could not be resolved.
	ErrUnresolvedReference = errors.New("narrator: unresolved reference")
	// ErrMissingConfig indicates a configuration error.
	ErrMissingConfig = errors.New("narrator: missing configuration")
	// ErrDanglingReference indicates a registry lookup of a descriptor that
	// was never created. It is a programming error and aborts the run.
	ErrDanglingReference = errors.New("narrator: dangling reference")
	// ErrGenerationFailed indicates a rendering or writing failure.
	ErrGenerationFailed = errors.New("narrator: code generation failed")
)

// SchemaError represents a declaration with missing required input.
type SchemaError struct {
	Type    string // Table or record name
	Field   string // Column name (if applicable)
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *SchemaError) Error() string {
	var b strings.Builder
	b.WriteString("narrator: schema error")
	writeLocation(&b, e.Type, e.Field)
	writeDetail(&b, e.Message, e.Cause)
	return b.String()
}

// Unwrap returns the underlying error.
func (e *SchemaError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches the sentinel error for SchemaError.
func (e *SchemaError) Is(target error) bool {
	return target == ErrInvalidSchema
}

// NewSchemaError creates a new SchemaError.
func NewSchemaError(typeName, fieldName, message string, cause error) *SchemaError {
	return &SchemaError{
		Type:    typeName,
		Field:   fieldName,
		Message: message,
		Cause:   cause,
	}
}

// ReferenceError represents a column type that refers to a declaration
// the schema does not contain.
type ReferenceError struct {
	Type  string // Table or record name
	Field string // Column name
	Ref   string // Qualified name of the missing declaration
}

// Error implements the error interface.
func (e *ReferenceError) Error() string {
	var b strings.Builder
	b.WriteString("narrator: unresolved reference")
	if e.Ref != "" {
		b.WriteString(" to ")
		b.WriteString(e.Ref)
	}
	writeLocation(&b, e.Type, e.Field)
	return b.String()
}

// Is reports whether the target matches the sentinel error for ReferenceError.
func (e *ReferenceError) Is(target error) bool {
	return target == ErrUnresolvedReference
}

// NewReferenceError creates a new ReferenceError.
func NewReferenceError(typeName, fieldName, ref string) *ReferenceError {
	return &ReferenceError{
		Type:  typeName,
		Field: fieldName,
		Ref:   ref,
	}
}

// ConfigError represents a configuration error.
type ConfigError struct {
	Option  string
	Value   any
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("narrator: config error for %q (value: %v): %s", e.Option, e.Value, e.Message)
	}
	return fmt.Sprintf("narrator: config error for %q: %s", e.Option, e.Message)
}

// Is reports whether the target matches the sentinel error for ConfigError.
func (e *ConfigError) Is(target error) bool {
	return target == ErrMissingConfig
}

// NewConfigError creates a new ConfigError.
func NewConfigError(option string, value any, message string) *ConfigError {
	return &ConfigError{
		Option:  option,
		Value:   value,
		Message: message,
	}
}

// GenerationError represents a rendering or writing error.
type GenerationError struct {
	Phase   string // "render", "write", "flush"
	File    string
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *GenerationError) Error() string {
	var b strings.Builder
	b.WriteString("narrator: generation error")
	if e.Phase != "" {
		b.WriteString(" in phase ")
		b.WriteString(e.Phase)
	}
	if e.File != "" {
		b.WriteString(" (file: ")
		b.WriteString(e.File)
		b.WriteString(")")
	}
	writeDetail(&b, e.Message, e.Cause)
	return b.String()
}

// Unwrap returns the underlying error.
func (e *GenerationError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches the sentinel error for GenerationError.
func (e *GenerationError) Is(target error) bool {
	return target == ErrGenerationFailed
}

// NewGenerationError creates a new GenerationError.
func NewGenerationError(phase, file, message string, cause error) *GenerationError {
	return &GenerationError{
		Phase:   phase,
		File:    file,
		Message: message,
		Cause:   cause,
	}
}

// IsSchemaError reports whether the error is a SchemaError.
func IsSchemaError(err error) bool {
	var schemaErr *SchemaError
	return errors.As(err, &schemaErr)
}

// IsReferenceError reports whether the error is a ReferenceError.
func IsReferenceError(err error) bool {
	var refErr *ReferenceError
	return errors.As(err, &refErr)
}

// IsConfigError reports whether the error is a ConfigError.
func IsConfigError(err error) bool {
	var configErr *ConfigError
	return errors.As(err, &configErr)
}

// IsGenerationError reports whether the error is a GenerationError.
func IsGenerationError(err error) bool {
	var genErr *GenerationError
	return errors.As(err, &genErr)
}

// isTableFault reports whether err is isolated to the table that raised it.
func isTableFault(err error) bool {
	return errors.Is(err, ErrInvalidSchema) || errors.Is(err, ErrUnresolvedReference)
}

func writeLocation(b *strings.Builder, typ, field string) {
	if typ != "" {
		b.WriteString(" on type ")
		b.WriteString(typ)
	}
	if field != "" {
		b.WriteString(" field ")
		b.WriteString(field)
	}
}

func writeDetail(b *strings.Builder, msg string, cause error) {
	if msg != "" {
		b.WriteString(": ")
		b.WriteString(msg)
	}
	if cause != nil {
		b.WriteString(": ")
		b.WriteString(cause.Error())
	}
}
