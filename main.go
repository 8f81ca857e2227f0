// SPDX-License-Identifier: MPL-2.0

package main

import "github.com/invowk/componentry/cmd/componentry"

func main() {
	cmd.Execute()
}
