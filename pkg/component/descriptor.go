// SPDX-License-Identifier: MPL-2.0

package component

import (
	"path/filepath"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	// Separator joins the segments of a hierarchical component name.
	Separator = "::"

	// InitializerSuffix is appended to a component name to form the default
	// handle name its initializer resource must resolve to.
	InitializerSuffix = "Initializer"
)

var (
	segmentPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]*$`)
	handlePattern  = regexp.MustCompile(`^[A-Z][A-Za-z0-9]*(::[A-Z][A-Za-z0-9]*)*$`)
)

// Descriptor identifies one discovered component.
type Descriptor struct {
	// Name is the hierarchical component name (e.g., "Clients::Billing").
	Name string
	// Path is the absolute path of the component directory.
	Path string
	// Parent is the name of the enclosing component for nested components.
	Parent string
	// Initializer is the absolute path of the initializer resource, or empty
	// when the component has none.
	Initializer string
}

// Nested reports whether the component was found under a parent's nested directory.
func (d Descriptor) Nested() bool {
	return d.Parent != ""
}

// HasInitializer reports whether an initializer resource was found.
func (d Descriptor) HasInitializer() bool {
	return d.Initializer != ""
}

// Segments returns the name split into its segments.
func (d Descriptor) Segments() []string {
	return SplitName(d.Name)
}

// DefaultHandle returns the handle name the initializer resource resolves to
// when it does not declare one explicitly.
func (d Descriptor) DefaultHandle() string {
	return DefaultHandleName(d.Name)
}

// DefaultHandleName returns "<name>::Initializer".
func DefaultHandleName(name string) string {
	return name + Separator + InitializerSuffix
}

// NameFromPath derives the component name for dir, which must be located
// under root. Every path segment equal to nestedDir is dropped and the
// remaining segments are camelized and joined with Separator:
//
//	root/clients                          -> Clients
//	root/clients/_components/billing      -> Clients::Billing
//	root/tax_reports                      -> TaxReports
func NameFromPath(root, dir, nestedDir string) (string, error) {
	rel, err := filepath.Rel(root, dir)
	if err != nil {
		return "", &InvalidNameError{Segment: dir, Path: dir}
	}
	rel = filepath.ToSlash(rel)
	if rel == "." || rel == ".." || strings.HasPrefix(rel, "../") {
		return "", &InvalidNameError{Segment: rel, Path: dir}
	}

	parts := strings.Split(rel, "/")
	names := make([]string, 0, len(parts))
	for _, part := range parts {
		if part == nestedDir {
			continue
		}
		seg, err := CamelizeSegment(part)
		if err != nil {
			return "", &InvalidNameError{Segment: part, Path: dir}
		}
		names = append(names, seg)
	}
	if len(names) == 0 {
		return "", &InvalidNameError{Segment: rel, Path: dir}
	}

	return strings.Join(names, Separator), nil
}

// CamelizeSegment converts one directory name into a name segment.
// Underscores and hyphens separate words; the first rune of every word is
// upper-cased and the rest is kept as written.
func CamelizeSegment(s string) (string, error) {
	if !segmentPattern.MatchString(s) {
		return "", &InvalidNameError{Segment: s}
	}

	words := strings.FieldsFunc(s, func(r rune) bool { return r == '_' || r == '-' })
	var sb strings.Builder
	for _, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		sb.WriteRune(unicode.ToUpper(r))
		sb.WriteString(w[size:])
	}

	out := sb.String()
	if out == "" {
		return "", &InvalidNameError{Segment: s}
	}
	if r, _ := utf8.DecodeRuneInString(out); unicode.IsDigit(r) {
		return "", &InvalidNameError{Segment: s}
	}
	return out, nil
}

// SplitName splits a hierarchical name on "::" or "/". Empty segments are
// preserved so callers can reject them.
func SplitName(name string) []string {
	if name == "" {
		return nil
	}
	return strings.Split(strings.ReplaceAll(name, "/", Separator), Separator)
}

// NormalizeName rewrites a "/" separated name to use Separator.
func NormalizeName(name string) string {
	return strings.Join(SplitName(name), Separator)
}

// ValidHandleName reports whether name is a well-formed handle name.
func ValidHandleName(name string) bool {
	return handlePattern.MatchString(name)
}
