// Copyright (c) 2025 Martedit
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package terminal provides small terminal housekeeping helpers.
package terminal

import (
	"fmt"
	"math"
	"os"

	"golang.org/x/term"
)

// ClearPreviousLines removes previously printed text from the terminal,
// given its total character length. It accounts for line wrapping at the
// current terminal width, plus the extra line the Enter key produced, and
// clears each affected line with ANSI escapes.
//
// Used to clean up input prompts after the user has answered them, so
// requests and secrets do not linger above the program's output.
func ClearPreviousLines(textLength int) {
	termWidth := 80 // fallback when the size is unavailable
	if width, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && width > 0 {
		termWidth = width
	}

	totalLines := int(math.Ceil(float64(textLength) / float64(termWidth)))
	if totalLines < 1 {
		totalLines = 1
	}

	// After Enter the cursor sits on a fresh line below the input.
	linesToClear := totalLines + 1

	for i := 0; i < linesToClear; i++ {
		fmt.Print("\r\x1b[2K")
		if i < linesToClear-1 {
			fmt.Print("\x1b[1A")
		}
	}
}
