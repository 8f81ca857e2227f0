// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"errors"
	"strings"
	"testing"
)

const testSchema = `
#Entry: {
	name:     string
	weight:   int | *1
	enabled?: bool
	tags?: [...string]
}
`

type testEntry struct {
	Name    string   `json:"name"`
	Weight  int      `json:"weight"`
	Enabled bool     `json:"enabled,omitempty"`
	Tags    []string `json:"tags,omitempty"`
}

func TestParseAndDecode(t *testing.T) {
	t.Run("defaults applied", func(t *testing.T) {
		got, err := ParseAndDecode[testEntry]([]byte(testSchema), []byte(`name: "billing"`), "#Entry")
		if err != nil {
			t.Fatalf("ParseAndDecode() returned error: %v", err)
		}
		if got.Name != "billing" || got.Weight != 1 {
			t.Errorf("decoded %+v", got)
		}
	})

	t.Run("closed definition rejects unknown fields", func(t *testing.T) {
		_, err := ParseAndDecode[testEntry]([]byte(testSchema), []byte("name: \"x\"\nbogus: 1"), "#Entry",
			WithFilename("component.cue"))
		if err == nil {
			t.Fatal("expected error for unknown field")
		}
		if !strings.HasPrefix(err.Error(), "component.cue:") {
			t.Errorf("error should be prefixed with file name: %v", err)
		}
	})

	t.Run("type mismatch reports path", func(t *testing.T) {
		_, err := ParseAndDecode[testEntry]([]byte(testSchema), []byte(`name: "x", tags: ["a", 2]`), "#Entry")
		if err == nil {
			t.Fatal("expected error for bad list element")
		}
		if !strings.Contains(err.Error(), "tags[1]") {
			t.Errorf("error should mention tags[1]: %v", err)
		}
	})

	t.Run("syntax error", func(t *testing.T) {
		if _, err := ParseAndDecode[testEntry]([]byte(testSchema), []byte(`name: `), "#Entry"); err == nil {
			t.Fatal("expected syntax error")
		}
	})

	t.Run("size limit", func(t *testing.T) {
		_, err := ParseAndDecode[testEntry]([]byte(testSchema), []byte(`name: "long enough"`), "#Entry", WithMaxFileSize(4))
		if err == nil || !strings.Contains(err.Error(), "exceeds maximum") {
			t.Errorf("expected size error, got %v", err)
		}
	})

	t.Run("missing definition", func(t *testing.T) {
		_, err := ParseAndDecode[testEntry]([]byte(testSchema), []byte(`name: "x"`), "#Missing")
		if err == nil || !strings.Contains(err.Error(), "internal error") {
			t.Errorf("expected internal error, got %v", err)
		}
	})
}

func TestDecodeMap_NonConcrete(t *testing.T) {
	m, err := DecodeMap([]byte(testSchema), []byte(`name: "x", enabled: true`), "#Entry", WithConcrete(false))
	if err != nil {
		t.Fatalf("DecodeMap() returned error: %v", err)
	}
	if m["name"] != "x" || m["enabled"] != true {
		t.Errorf("DecodeMap() = %v", m)
	}
}

func TestFormatPath(t *testing.T) {
	tests := map[string][]string{
		"":                 nil,
		"name":             {"name"},
		"paths.routes[0]":  {"paths", "routes", "0"},
		"reload.exclude[2]": {"reload", "exclude", "2"},
	}
	for want, in := range tests {
		if got := formatPath(in); got != want {
			t.Errorf("formatPath(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestFormatError_NonCUE(t *testing.T) {
	base := errors.New("plain")
	err := FormatError(base, "f.cue")
	if !errors.Is(err, base) || err.Error() != "f.cue: plain" {
		t.Errorf("FormatError() = %v", err)
	}
	if FormatError(nil, "f.cue") != nil {
		t.Error("FormatError(nil) should be nil")
	}
}
