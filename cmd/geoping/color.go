// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package main

import "github.com/muesli/termenv"

var (
	spinnerStyle = termenv.Style{}.Foreground(termenv.ANSIYellow)
	goodStyle    = termenv.Style{}.Foreground(termenv.ANSIGreen)
	badStyle     = termenv.Style{}.Foreground(termenv.ANSIRed)
)
