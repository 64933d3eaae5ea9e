// Copyright (c) 2025 Martedit
// Licensed under the MIT License. See LICENSE file in the project root for details.

package editor

import (
	"context"
	"encoding/json"
	"strings"

	apperrors "martedit/cli/internal/errors"
	"martedit/cli/internal/llm"
	"martedit/cli/internal/martmeta"
	"martedit/cli/internal/prompts"
)

// planPayload is the user payload for the planning prompt.
type planPayload struct {
	UserRequest string `json:"user_request"`
	TargetPath  string `json:"target_path"`
	OriginalSQL string `json:"original_sql"`
}

// Plan asks the model for a markdown change plan before any SQL is
// generated. The reply is prose for human review; nothing from a plan
// ever reaches the filesystem, so it bypasses extraction and validation.
func Plan(ctx context.Context, client llm.Client, entry martmeta.Entry, request, currentSQL string) (string, error) {
	body, err := json.Marshal(planPayload{
		UserRequest: request,
		TargetPath:  entry.Path,
		OriginalSQL: currentSQL,
	})
	if err != nil {
		return "", apperrors.Wrap(apperrors.EditFailure, "marshal plan payload", err)
	}

	reply, err := client.Invoke(ctx, prompts.PlannerSystem, string(body))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(reply), nil
}
