// Copyright (c) 2025 Martedit
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package prompts holds the embedded system prompt templates for the model
// calls. Prompt text is configuration, not logic; it lives in markdown files
// compiled into the binary.
package prompts

import _ "embed"

var (
	//go:embed router_system.md
	RouterSystem string

	//go:embed editor_system.md
	EditorSystem string

	//go:embed planner_system.md
	PlannerSystem string
)
