// Copyright (c) 2025 Martedit
// Licensed under the MIT License. See LICENSE file in the project root for details.

package logging

import (
	"strings"
	"testing"
)

func TestMask(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "API key in request URL",
			input:    "POST https://generativelanguage.googleapis.com/v1beta/models/gemini:generateContent?key=AIzaSyD4x8fakefakefake",
			expected: "POST https://generativelanguage.googleapis.com/v1beta/models/gemini:generateContent?key=***",
		},
		{
			name:     "bearer token",
			input:    "authorization: Bearer abc123xyz",
			expected: "authorization: Bearer ***",
		},
		{
			name:     "api_key parameter",
			input:    "api_key=sk_test_123456",
			expected: "api_key=***",
		},
		{
			name:     "bare google key",
			input:    "using AIzaSyD4x8fakefakefake for requests",
			expected: "using *** for requests",
		},
		{
			name:     "env assignment",
			input:    "GEMINI_API_KEY=whatever",
			expected: "GEMINI_API_KEY=***",
		},
		{
			name:     "plain text untouched",
			input:    "routing request to revenue mart",
			expected: "routing request to revenue mart",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Mask(tt.input)
			if result != tt.expected {
				t.Errorf("Mask() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestMaskKey(t *testing.T) {
	if got := MaskKey("AIzaSyD4x8"); !strings.HasPrefix(got, "AIza") || strings.Contains(got, "SyD4x8") {
		t.Errorf("MaskKey() = %q, want prefix kept and tail hidden", got)
	}
	if got := MaskKey("ab"); got != "****" {
		t.Errorf("MaskKey() short key = %q, want ****", got)
	}
}
