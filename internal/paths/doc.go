// SPDX-License-Identifier: MPL-2.0

// Package paths registers component directories with a host's path collections.
package paths
