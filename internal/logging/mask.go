// Copyright (c) 2025 Martedit
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package logging provides utilities for secure logging and error presentation.
// It includes functions for masking sensitive information in log messages and
// formatting errors for user-friendly display while protecting credentials and secrets.
//
// The package helps ensure that sensitive data like API keys and tokens are not
// accidentally exposed in logs or error messages shown to users.
package logging

import (
	"regexp"
	"strings"
)

// reAPIKey also covers env-style pairs like GEMINI_API_KEY=... since the
// match is a case-insensitive substring.

var (
	reKeyParam = regexp.MustCompile(`(?i)([?&]key=)([A-Za-z0-9._-]+)`)
	reToken    = regexp.MustCompile(`(?i)(token=|bearer\s+)([A-Za-z0-9._-]+)`)
	reAPIKey   = regexp.MustCompile(`(?i)(apikey=|api_key=)([^\s;&]+)`)
	reGoogle   = regexp.MustCompile(`AIza[A-Za-z0-9._-]{10,}`)
)

// Mask replaces sensitive values in the input string with "*".
// Google API keys are masked wherever they appear, including inside
// request URLs that carry the key as a query parameter.
func Mask(s string) string {
	out := s
	out = reKeyParam.ReplaceAllString(out, "$1***")
	out = reToken.ReplaceAllString(out, "$1***")
	out = reAPIKey.ReplaceAllString(out, "$1***")
	out = reGoogle.ReplaceAllString(out, "***")
	return out
}

// MaskKey shortens an API key for display, keeping only the first four
// characters so a user can recognize which key is configured.
func MaskKey(key string) string {
	if len(key) <= 4 {
		return "****"
	}
	return key[:4] + strings.Repeat("*", 8)
}
