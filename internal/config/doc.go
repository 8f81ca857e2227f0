// SPDX-License-Identifier: MPL-2.0

// Package config loads componentry settings using Viper with CUE as the file format.
//
// Settings come from, in increasing precedence: built-in defaults, the CUE
// file (an explicit --config path, or componentry.cue in the application
// root), and COMPONENTRY_* environment variables. The file is validated
// against the embedded config_schema.cue before it is merged.
package config
