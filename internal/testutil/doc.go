// SPDX-License-Identifier: MPL-2.0

// Package testutil holds test helpers that fail the test on error instead of
// returning it: environment management (MustSetenv), file system setup
// (MustMkdirAll, MustWriteFile) and the Tree builder for component layouts.
package testutil
