// SPDX-License-Identifier: MPL-2.0

// Package manifest reads component initializer resources.
//
// An initializer resource names the registered handle that carries the
// component's hooks and may add metadata and extra paths. The same fields
// are accepted in CUE, TOML and YAML; the format is chosen by file extension.
package manifest
