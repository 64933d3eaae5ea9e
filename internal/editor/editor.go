// Copyright (c) 2025 Martedit
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package editor asks the model for a replacement mart SQL and coerces the
// reply into a policy-compliant candidate. Replies that fail extraction or
// validation are retried with a repair prompt naming the violations, up to
// a small fixed bound; each retry is a paid model call. Transport faults
// are never retried here.
package editor

import (
	"context"
	"encoding/json"
	"fmt"

	apperrors "martedit/cli/internal/errors"
	"martedit/cli/internal/extract"
	"martedit/cli/internal/llm"
	"martedit/cli/internal/logging"
	"martedit/cli/internal/martmeta"
	"martedit/cli/internal/policy"
	"martedit/cli/internal/prompts"
)

// DefaultMaxAttempts bounds the edit loop when the caller passes 0.
const DefaultMaxAttempts = 2

// editPayload is the user payload for the editing prompt.
type editPayload struct {
	UserRequest string `json:"user_request"`
	TargetPath  string `json:"target_path"`
	OriginalSQL string `json:"original_sql"`
	// Repair fields, set from the second attempt on.
	RejectedSQL string   `json:"rejected_sql,omitempty"`
	Violations  []string `json:"violations,omitempty"`
}

// Attempt reports one edit attempt to an observer, for progress rendering.
type Attempt struct {
	Number     int
	Violations string // empty when the attempt passed
}

// Observer receives attempt-level progress. May be nil.
type Observer func(Attempt)

// Edit produces a validated replacement for the mart's SQL.
// It either returns a candidate whose policy verdict passed, or fails with
// edit_failure carrying the last violation set after maxAttempts tries.
func Edit(ctx context.Context, client llm.Client, entry martmeta.Entry, request, currentSQL string, maxAttempts int, obs Observer) (string, error) {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}

	system := prompts.EditorSystem + "\n" + policy.Statement()
	payload := editPayload{
		UserRequest: request,
		TargetPath:  entry.Path,
		OriginalSQL: currentSQL,
	}

	var lastReason string
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		body, err := json.Marshal(payload)
		if err != nil {
			return "", apperrors.Wrap(apperrors.EditFailure, "marshal edit payload", err)
		}

		reply, err := client.Invoke(ctx, system, string(body))
		if err != nil {
			// Transport faults are infrastructure, not content; never
			// conflated with validation failures and never retried here.
			return "", err
		}

		fields, err := extract.Extract(reply, "sql")
		if err != nil {
			lastReason = err.Error()
			logging.Debugf("editor: attempt %d failed extraction: %v", attempt, err)
			notify(obs, Attempt{Number: attempt, Violations: "malformed reply"})
			payload.RejectedSQL = reply
			payload.Violations = []string{"reply was not a JSON object with exactly the key \"sql\""}
			continue
		}

		candidate := fields["sql"]
		verdict := policy.Validate(candidate)
		if verdict.OK {
			notify(obs, Attempt{Number: attempt})
			return candidate, nil
		}

		lastReason = verdict.Describe()
		logging.Debugf("editor: attempt %d failed policy: %s", attempt, lastReason)
		notify(obs, Attempt{Number: attempt, Violations: lastReason})

		// The repair prompt carries the rejected candidate and every
		// violation, causally ordered on the latest attempt.
		payload.RejectedSQL = candidate
		payload.Violations = violationStrings(verdict)
	}

	return "", apperrors.New(apperrors.EditFailure,
		fmt.Sprintf("no compliant SQL after %d attempts; last failure: %s", maxAttempts, lastReason))
}

func violationStrings(v policy.Verdict) []string {
	out := make([]string, len(v.Violations))
	for i, viol := range v.Violations {
		out[i] = viol.String()
	}
	return out
}

func notify(obs Observer, a Attempt) {
	if obs != nil {
		obs(a)
	}
}
