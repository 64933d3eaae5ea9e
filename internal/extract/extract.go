// Copyright (c) 2025 Martedit
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package extract turns raw model replies into structured payloads.
// A reply is accepted only when it is a JSON object, either directly or
// inside a single fenced code block, carrying exactly the keys the caller
// requires. There is no best-effort key scraping: downstream validation
// depends on this boundary being strict.
package extract

import (
	"encoding/json"
	"fmt"
	"strings"

	apperrors "martedit/cli/internal/errors"
)

// Payload holds the string fields extracted from a model reply.
type Payload map[string]string

// Extract parses raw as a JSON object with exactly the required keys.
// It first attempts a direct parse of the whole text, then the inner
// content of the first fenced code block. Anything else fails with a
// malformed_response error carrying the original text for diagnostics.
func Extract(raw string, required ...string) (Payload, error) {
	trimmed := strings.TrimSpace(raw)

	candidates := []string{trimmed}
	if inner, ok := fencedBlock(trimmed); ok {
		candidates = append(candidates, inner)
	}

	for _, c := range candidates {
		fields, ok := parseObject(c)
		if !ok {
			continue
		}
		return checkKeys(fields, required, raw)
	}

	return nil, malformed(raw, "reply is not a JSON object")
}

// fencedBlock returns the inner content of the first ``` fence, if any.
// An optional language tag after the opening fence is skipped.
func fencedBlock(s string) (string, bool) {
	start := strings.Index(s, "```")
	if start == -1 {
		return "", false
	}
	rest := s[start+3:]
	if nl := strings.IndexByte(rest, '\n'); nl != -1 {
		// Drop the language tag line (e.g. "json")
		if tag := strings.TrimSpace(rest[:nl]); tag == "" || isFenceTag(tag) {
			rest = rest[nl+1:]
		}
	}
	end := strings.Index(rest, "```")
	if end == -1 {
		return "", false
	}
	return strings.TrimSpace(rest[:end]), true
}

func isFenceTag(tag string) bool {
	for _, r := range tag {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') {
			return false
		}
	}
	return true
}

// parseObject decodes s as a JSON object with string-typed values.
func parseObject(s string) (Payload, bool) {
	var rawFields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(s), &rawFields); err != nil {
		return nil, false
	}
	fields := make(Payload, len(rawFields))
	for k, v := range rawFields {
		var str string
		if err := json.Unmarshal(v, &str); err != nil {
			// Non-string values keep the raw JSON text; the key check
			// below decides whether the payload is acceptable at all.
			str = string(v)
		}
		fields[k] = str
	}
	return fields, true
}

// checkKeys enforces that fields carries exactly the required keys.
func checkKeys(fields Payload, required []string, raw string) (Payload, error) {
	for _, k := range required {
		if _, ok := fields[k]; !ok {
			return nil, malformed(raw, fmt.Sprintf("reply object is missing required key %q", k))
		}
	}
	if len(fields) != len(required) {
		extras := make([]string, 0, len(fields))
		for k := range fields {
			if !containsKey(required, k) {
				extras = append(extras, k)
			}
		}
		return nil, malformed(raw, fmt.Sprintf("reply object carries unexpected keys %v", extras))
	}
	return fields, nil
}

func containsKey(keys []string, k string) bool {
	for _, key := range keys {
		if key == k {
			return true
		}
	}
	return false
}

func malformed(raw, reason string) error {
	return apperrors.New(apperrors.MalformedResponse,
		fmt.Sprintf("%s; raw reply: %s", reason, snippet(raw)))
}

// snippet bounds the raw text carried in error messages.
func snippet(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > 400 {
		return s[:400] + "..."
	}
	return s
}
