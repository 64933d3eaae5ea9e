// Copyright (c) 2025 Martedit
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package llm provides the client for the external generative model endpoint.
// It defines the narrow contract the pipeline depends on and an HTTP-based
// implementation for the Gemini generateContent API. The model is treated as
// an opaque, non-deterministic collaborator: text in, text out, or a
// transport failure.
package llm

import "context"

// Client defines the model call the pipeline depends on.
// Implementations may call the real endpoint or provide fakes for tests.
type Client interface {
	// Invoke sends a system prompt and user payload to the model and
	// returns the raw reply text. Unreachable endpoint, timeout, or a
	// reply with no usable text fail with a transport_failure error.
	Invoke(ctx context.Context, systemPrompt, userPayload string) (string, error)
}
