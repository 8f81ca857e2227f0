// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable errors and Markdown guidance for the
// failures a component tree can run into (missing components, malformed
// initializers, name collisions, unreadable configuration).
//
// Library packages return plain typed errors; the CLI wraps them with an
// ErrorContext and, when the error maps to a known Id, renders the matching
// guidance with glamour.
package issue
