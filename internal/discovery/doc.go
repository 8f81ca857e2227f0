// SPDX-License-Identifier: MPL-2.0

// Package discovery scans a components root for component directories.
//
// Two levels are recognised: every immediate child of the root, and every
// immediate child of a parent's nested directory (by default "_components").
// Nothing deeper is scanned. Non-fatal problems are returned as Diagnostics
// so the CLI layer decides how to render them.
//
// File organization:
//   - diagnostic.go: Severity, DiagnosticCode and Diagnostic
//   - scan.go: Scan, ScanOptions and Result
package discovery
