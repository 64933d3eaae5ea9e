// Copyright (c) 2025 Martedit
// Licensed under the MIT License. See LICENSE file in the project root for details.

package logging

import (
	"fmt"
	"os"
)

// PresentError formats an error for user display with masking.
func PresentError(context string, err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", context, Mask(err.Error()))
}

// Verbose reports whether verbose debug output is enabled via MARTEDIT_VERBOSE.
func Verbose() bool {
	return os.Getenv("MARTEDIT_VERBOSE") == "1"
}

// Debugf prints a masked debug line to stderr when verbose mode is enabled.
func Debugf(format string, args ...any) {
	if !Verbose() {
		return
	}
	fmt.Fprintln(os.Stderr, "[DEBUG] "+Mask(fmt.Sprintf(format, args...)))
}
