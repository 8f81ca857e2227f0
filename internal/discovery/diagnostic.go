// SPDX-License-Identifier: MPL-2.0

package discovery

import (
	"errors"
	"fmt"
	"log/slog"
)

const (
	// SeverityWarning indicates a recoverable discovery warning.
	SeverityWarning Severity = "warning"
	// SeverityError indicates a non-fatal discovery error diagnostic.
	SeverityError Severity = "error"

	// CodeInvalidComponentName marks a directory whose name cannot become a namespace segment.
	CodeInvalidComponentName DiagnosticCode = "invalid_component_name"
	// CodeNestedComponentsIgnored marks a nested directory below the second level.
	CodeNestedComponentsIgnored DiagnosticCode = "nested_components_ignored"
	// CodeComponentUnreadable marks a component directory that could not be listed.
	CodeComponentUnreadable DiagnosticCode = "component_unreadable"
	// CodeAmbiguousInitializer marks a component with more than one initializer resource.
	CodeAmbiguousInitializer DiagnosticCode = "ambiguous_initializer"
)

var (
	// ErrInvalidSeverity is returned when a Severity is not one of the known values.
	ErrInvalidSeverity = errors.New("invalid diagnostic severity")
	// ErrInvalidDiagnosticCode is returned when a DiagnosticCode is not one of the known values.
	ErrInvalidDiagnosticCode = errors.New("invalid diagnostic code")
)

type (
	// Severity represents discovery diagnostic severity.
	Severity string

	// DiagnosticCode is a machine-readable diagnostic identifier.
	DiagnosticCode string

	// Diagnostic represents a structured discovery diagnostic that is returned
	// to callers (rather than written to stderr) for consistent rendering policy.
	Diagnostic struct {
		// Severity is the diagnostic level (warning or error).
		Severity Severity
		// Code is a machine-readable identifier (e.g., "nested_components_ignored").
		Code DiagnosticCode
		// Message is the human-readable description.
		Message string
		// Path is the file path associated with this diagnostic (optional).
		Path string
		// Cause is the underlying error (optional, for programmatic inspection).
		Cause error
	}

	// InvalidSeverityError is returned by Severity.IsValid.
	InvalidSeverityError struct {
		Value Severity
	}

	// InvalidDiagnosticCodeError is returned by DiagnosticCode.IsValid.
	InvalidDiagnosticCodeError struct {
		Value DiagnosticCode
	}
)

// IsValid reports whether s is a known severity.
func (s Severity) IsValid() (bool, []error) {
	switch s {
	case SeverityWarning, SeverityError:
		return true, nil
	default:
		return false, []error{&InvalidSeverityError{Value: s}}
	}
}

// IsValid reports whether c is a known diagnostic code.
func (c DiagnosticCode) IsValid() (bool, []error) {
	switch c {
	case CodeInvalidComponentName, CodeNestedComponentsIgnored, CodeComponentUnreadable, CodeAmbiguousInitializer:
		return true, nil
	default:
		return false, []error{&InvalidDiagnosticCodeError{Value: c}}
	}
}

// Level maps the severity to a log level. Unknown severities log as warnings.
func (d Diagnostic) Level() slog.Level {
	if d.Severity == SeverityError {
		return slog.LevelError
	}
	return slog.LevelWarn
}

// String returns a single-line rendering used by verbose logging.
func (d Diagnostic) String() string {
	if d.Path == "" {
		return fmt.Sprintf("%s [%s] %s", d.Severity, d.Code, d.Message)
	}
	return fmt.Sprintf("%s [%s] %s (%s)", d.Severity, d.Code, d.Message, d.Path)
}

// Error implements the error interface for InvalidSeverityError.
func (e *InvalidSeverityError) Error() string {
	return fmt.Sprintf("invalid diagnostic severity %q", e.Value)
}

// Unwrap returns ErrInvalidSeverity for errors.Is() compatibility.
func (e *InvalidSeverityError) Unwrap() error { return ErrInvalidSeverity }

// Error implements the error interface for InvalidDiagnosticCodeError.
func (e *InvalidDiagnosticCodeError) Error() string {
	return fmt.Sprintf("invalid diagnostic code %q", e.Value)
}

// Unwrap returns ErrInvalidDiagnosticCode for errors.Is() compatibility.
func (e *InvalidDiagnosticCodeError) Unwrap() error { return ErrInvalidDiagnosticCode }
