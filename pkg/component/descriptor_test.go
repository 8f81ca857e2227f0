// SPDX-License-Identifier: MPL-2.0

package component

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"pgregory.net/rapid"
)

func TestNameFromPath(t *testing.T) {
	t.Parallel()

	root := filepath.FromSlash("/app/components")
	tests := []struct {
		name string
		rel  string
		want string
	}{
		{"top level", "clients", "Clients"},
		{"nested", "clients/_components/billing", "Clients::Billing"},
		{"underscores", "tax_reports", "TaxReports"},
		{"hyphens", "tax-reports", "TaxReports"},
		{"mixed case kept", "HTTPApi", "HTTPApi"},
		{"nested underscores", "accounting/_components/sales_tax", "Accounting::SalesTax"},
		{"digits inside", "v2_api", "V2Api"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := NameFromPath(root, filepath.Join(root, filepath.FromSlash(tt.rel)), "_components")
			if err != nil {
				t.Fatalf("NameFromPath(%q) returned error: %v", tt.rel, err)
			}
			if got != tt.want {
				t.Errorf("NameFromPath(%q) = %q, want %q", tt.rel, got, tt.want)
			}
		})
	}
}

func TestNameFromPath_Invalid(t *testing.T) {
	t.Parallel()

	root := filepath.FromSlash("/app/components")
	tests := []struct {
		name string
		dir  string
	}{
		{"root itself", root},
		{"outside root", filepath.FromSlash("/app/other")},
		{"leading digit", filepath.Join(root, "9lives")},
		{"dot prefix", filepath.Join(root, ".hidden")},
		{"space", filepath.Join(root, "two words")},
		{"only marker", filepath.Join(root, "_components")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := NameFromPath(root, tt.dir, "_components")
			if err == nil {
				t.Fatalf("NameFromPath(%q) should fail", tt.dir)
			}
			if !errors.Is(err, ErrInvalidName) {
				t.Errorf("error should wrap ErrInvalidName, got: %v", err)
			}
		})
	}
}

func TestCamelizeSegment_Property(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(t *rapid.T) {
		seg := rapid.StringMatching(`[a-z][a-z0-9]{0,6}([_-][a-z0-9]{1,4}){0,3}`).Draw(t, "segment")

		got, err := CamelizeSegment(seg)
		if err != nil {
			t.Fatalf("CamelizeSegment(%q) returned error: %v", seg, err)
		}
		if strings.ContainsAny(got, "_-") {
			t.Fatalf("CamelizeSegment(%q) = %q still contains separators", seg, got)
		}
		if got[0] < 'A' || got[0] > 'Z' {
			t.Fatalf("CamelizeSegment(%q) = %q does not start upper-case", seg, got)
		}
		again, err := CamelizeSegment(got)
		if err != nil || again != got {
			t.Fatalf("CamelizeSegment is not idempotent: %q -> %q -> %q (%v)", seg, got, again, err)
		}
	})
}

func TestSplitName(t *testing.T) {
	t.Parallel()

	if got := SplitName(""); got != nil {
		t.Errorf("SplitName(\"\") = %v, want nil", got)
	}
	got := SplitName("Clients/Billing::Taxes")
	want := []string{"Clients", "Billing", "Taxes"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("SplitName() = %v, want %v", got, want)
	}
	if n := NormalizeName("Clients/Billing"); n != "Clients::Billing" {
		t.Errorf("NormalizeName() = %q", n)
	}
}

func TestDescriptor(t *testing.T) {
	t.Parallel()

	d := Descriptor{Name: "Clients::Billing", Parent: "Clients"}
	if !d.Nested() {
		t.Error("descriptor with parent should be nested")
	}
	if d.HasInitializer() {
		t.Error("descriptor without initializer path reports one")
	}
	if got := d.DefaultHandle(); got != "Clients::Billing::Initializer" {
		t.Errorf("DefaultHandle() = %q", got)
	}
	if len(d.Segments()) != 2 {
		t.Errorf("Segments() = %v", d.Segments())
	}
}

func TestValidHandleName(t *testing.T) {
	t.Parallel()

	valid := []string{"Clients::Initializer", "A", "Clients::Billing::Initializer", "V2"}
	invalid := []string{"", "clients", "Clients::", "::Clients", "Clients:Billing", "Clients::billing", "Clients/Billing"}

	for _, name := range valid {
		if !ValidHandleName(name) {
			t.Errorf("ValidHandleName(%q) = false, want true", name)
		}
	}
	for _, name := range invalid {
		if ValidHandleName(name) {
			t.Errorf("ValidHandleName(%q) = true, want false", name)
		}
	}
}

func TestErrors(t *testing.T) {
	t.Parallel()

	nf := &NotFoundError{Name: "Missing"}
	if !errors.Is(nf, ErrComponentNotFound) || !strings.Contains(nf.Error(), "Missing") {
		t.Errorf("unexpected NotFoundError: %v", nf)
	}

	mi := &MalformedInitializerError{Component: "Clients", Expected: "Clients::Initializer", Resource: "/x/component.cue"}
	if !errors.Is(mi, ErrMalformedInitializer) {
		t.Error("MalformedInitializerError should wrap ErrMalformedInitializer")
	}
	if !strings.Contains(mi.Error(), "Clients::Initializer") {
		t.Errorf("message should name the expected handle: %s", mi.Error())
	}

	nc := &NameCollisionError{Name: "TaxReports", FirstPath: "/a/tax_reports", SecondPath: "/a/tax-reports"}
	if !errors.Is(nc, ErrNameCollision) {
		t.Error("NameCollisionError should wrap ErrNameCollision")
	}
	for _, want := range []string{"TaxReports", "/a/tax_reports", "/a/tax-reports"} {
		if !strings.Contains(nc.Error(), want) {
			t.Errorf("collision message missing %q: %s", want, nc.Error())
		}
	}
}
