// Copyright (c) 2025 Martedit
// Licensed under the MIT License. See LICENSE file in the project root for details.

package llm

import (
	"os"
	"strings"

	apperrors "martedit/cli/internal/errors"
	"martedit/cli/internal/keychain"
)

// ResolveAPIKey returns the model API key from the environment or, failing
// that, the OS keychain. Resolution order: GEMINI_API_KEY, GOOGLE_API_KEY,
// keychain. A missing key is a startup fault.
func ResolveAPIKey() (string, error) {
	for _, env := range []string{"GEMINI_API_KEY", "GOOGLE_API_KEY"} {
		if v := strings.TrimSpace(os.Getenv(env)); v != "" {
			return v, nil
		}
	}

	if km, err := keychain.GetManager(); err == nil {
		if v, err := km.LoadAPIKey(); err == nil && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v), nil
		}
	}

	return "", apperrors.New(apperrors.StartupFault,
		"no API key configured; set GEMINI_API_KEY or run 'martedit auth'")
}
