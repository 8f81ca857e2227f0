// SPDX-License-Identifier: MPL-2.0

package discovery

import (
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestSeverity_IsValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		severity Severity
		want     bool
	}{
		{SeverityWarning, true},
		{SeverityError, true},
		{"", false},
		{"WARNING", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.severity), func(t *testing.T) {
			t.Parallel()
			isValid, errs := tt.severity.IsValid()
			if isValid != tt.want {
				t.Errorf("Severity(%q).IsValid() = %v, want %v", tt.severity, isValid, tt.want)
			}
			if !tt.want {
				if len(errs) == 0 || !errors.Is(errs[0], ErrInvalidSeverity) {
					t.Errorf("expected ErrInvalidSeverity, got %v", errs)
				}
			}
		})
	}
}

func TestDiagnosticCode_IsValid(t *testing.T) {
	t.Parallel()

	for _, code := range []DiagnosticCode{
		CodeInvalidComponentName, CodeNestedComponentsIgnored,
		CodeComponentUnreadable, CodeAmbiguousInitializer,
	} {
		if ok, errs := code.IsValid(); !ok || len(errs) != 0 {
			t.Errorf("%q.IsValid() = %v, %v", code, ok, errs)
		}
	}

	ok, errs := DiagnosticCode("command_not_found").IsValid()
	if ok || len(errs) == 0 || !errors.Is(errs[0], ErrInvalidDiagnosticCode) {
		t.Errorf("unknown code IsValid() = %v, %v", ok, errs)
	}
}

func TestDiagnostic_String(t *testing.T) {
	t.Parallel()

	d := Diagnostic{Severity: SeverityWarning, Code: CodeNestedComponentsIgnored, Message: "too deep", Path: "/x"}
	if got := d.String(); got != "warning [nested_components_ignored] too deep (/x)" {
		t.Errorf("String() = %q", got)
	}
	d.Path = ""
	if got := d.String(); strings.Contains(got, "(") {
		t.Errorf("String() without path = %q", got)
	}
}

func TestDiagnostic_Level(t *testing.T) {
	t.Parallel()

	tests := []struct {
		severity Severity
		want     slog.Level
	}{
		{SeverityWarning, slog.LevelWarn},
		{SeverityError, slog.LevelError},
		{Severity("fatal"), slog.LevelWarn},
	}
	for _, tt := range tests {
		if got := (Diagnostic{Severity: tt.severity}).Level(); got != tt.want {
			t.Errorf("Level(%q) = %v, want %v", tt.severity, got, tt.want)
		}
	}
}
