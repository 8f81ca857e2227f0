// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the componentry CLI.
//
// The commands inspect and exercise a component tree the same way a host
// application would: list and describe show what discovery found, paths
// shows what the registrar hands to the host, boot runs a full init/ready
// cycle and watch keeps reloading it while files change.
package cmd
