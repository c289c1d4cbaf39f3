// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		// cobra has already rendered the error at this point, so don't
		// print it a second time; see also:
		// https://github.com/spf13/cobra/issues/304
		osExit(1)
	}
}

// For CLI unit tests...
var osExit = os.Exit
