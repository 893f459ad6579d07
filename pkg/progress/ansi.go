// Copyright 2025
// SPDX-License-Identifier: Apache-2.0

package progress

import "fmt"

// Cursor-control primitives as pure string producers, so the renderer can
// be exercised against a buffer instead of a live terminal.

// clearEOL erases from the cursor to the end of the line.
const clearEOL = "\x1b[K"

// cursorUp moves the cursor up n rows; n <= 0 produces nothing.
func cursorUp(n int) string {
	if n <= 0 {
		return ""
	}
	return fmt.Sprintf("\x1b[%dA", n)
}
