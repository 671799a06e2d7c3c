// SPDX-License-Identifier: GPL-3.0-only
package main

import "github.com/bascanada/auth0logs/cmd"

func main() {
	cmd.Execute()
}
