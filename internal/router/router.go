// Copyright (c) 2025 Martedit
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package router selects which mart artifact a free-text request applies to.
// The choice is delegated to the model; the router only enforces that the
// answer names a registry member exactly. Ambiguity is reported, never
// resolved heuristically.
package router

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	apperrors "martedit/cli/internal/errors"
	"martedit/cli/internal/extract"
	"martedit/cli/internal/llm"
	"martedit/cli/internal/logging"
	"martedit/cli/internal/martmeta"
	"martedit/cli/internal/prompts"
)

// routePayload is the user payload for the routing prompt.
type routePayload struct {
	UserRequest string           `json:"user_request"`
	Marts       []martmeta.Entry `json:"marts"`
	// RejectedPath names a prior choice that was not a registry member,
	// set only on the orchestrator's single re-invoke.
	RejectedPath string `json:"rejected_path,omitempty"`
}

// Route asks the model to choose one registry entry for the request.
// invalidPrior, when non-empty, is carried into the prompt so the model
// knows its previous choice was rejected. A choice outside the registry
// is a routing_failure; no fallback is attempted here. The raw chosen
// value is returned alongside the error so the orchestrator can name it
// in its single amended re-invoke.
func Route(ctx context.Context, client llm.Client, reg *martmeta.Registry, request, invalidPrior string) (martmeta.Entry, string, error) {
	payload := routePayload{
		UserRequest:  request,
		Marts:        reg.Entries,
		RejectedPath: invalidPrior,
	}
	body, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return martmeta.Entry{}, "", apperrors.Wrap(apperrors.RoutingFailure, "marshal routing payload", err)
	}

	system := prompts.RouterSystem
	if invalidPrior != "" {
		system += fmt.Sprintf("\nYour previous choice %q is not in the catalog. Choose again; the only valid values are: %s\n",
			invalidPrior, strings.Join(reg.Paths(), ", "))
	}

	reply, err := client.Invoke(ctx, system, string(body))
	if err != nil {
		return martmeta.Entry{}, "", err
	}

	fields, err := extract.Extract(reply, "path")
	if err != nil {
		return martmeta.Entry{}, "", err
	}

	chosen := fields["path"]
	entry, ok := reg.Lookup(chosen)
	if !ok {
		return martmeta.Entry{}, chosen, apperrors.New(apperrors.RoutingFailure,
			fmt.Sprintf("model chose %q, which is not in the mart catalog", chosen))
	}

	logging.Debugf("router: request routed to %s", entry.Path)
	return entry, chosen, nil
}
