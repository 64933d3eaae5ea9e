// Copyright (c) 2025 Martedit
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package policy decides whether generated SQL is structurally compliant
// with the declared safety policy. The checks are deliberately textual
// rather than a full SQL parse: the policy favors false positives over any
// bypass, so keyword matching applies everywhere in the text, string
// literals and aliases included.
package policy

import (
	"fmt"
	"regexp"
	"strings"
)

// ViolationKind is a machine-readable policy rule identifier.
type ViolationKind string

const (
	// NotAQuery means the statement does not start with SELECT or WITH.
	NotAQuery ViolationKind = "not_a_query"
	// MultiStatement means the text contains a semicolon anywhere.
	MultiStatement ViolationKind = "multi_statement"
	// ForbiddenKeyword means a denylisted token appears in the text.
	ForbiddenKeyword ViolationKind = "forbidden_keyword"
	// MissingLimit means the text has no LIMIT <integer> clause.
	MissingLimit ViolationKind = "missing_limit"
)

// Violation is one failed policy rule. Token is set for forbidden keywords.
type Violation struct {
	Kind  ViolationKind
	Token string
}

func (v Violation) String() string {
	if v.Token != "" {
		return fmt.Sprintf("%s(%s)", v.Kind, v.Token)
	}
	return string(v.Kind)
}

// Verdict is the binary outcome of validating one candidate.
// Violations are diagnostic only; a candidate never partially passes.
type Verdict struct {
	OK         bool
	Violations []Violation
}

// Describe renders the violation list for repair prompts and error output.
func (v Verdict) Describe() string {
	if v.OK {
		return "ok"
	}
	parts := make([]string, len(v.Violations))
	for i, viol := range v.Violations {
		parts[i] = viol.String()
	}
	return strings.Join(parts, ", ")
}

// forbiddenKeywords is the fixed denylist: DDL, DML, scripting, and
// privileged/export statements that must never appear in generated SQL.
var forbiddenKeywords = []string{
	// DDL
	"create", "alter", "drop", "truncate", "create or replace",
	// DML
	"insert", "update", "delete", "merge",
	// scripting / dynamic SQL
	"declare", "begin", "execute", "immediate",
	// permissions / exports / procedures
	"grant", "revoke", "export", "load", "copy", "call",
}

var (
	reStartToken = regexp.MustCompile(`(?i)^\s*(select|with)\b`)
	reLimit      = regexp.MustCompile(`(?i)\blimit\s+\d+\b`)

	// One word-boundary pattern per denylisted token, built once.
	reForbidden = buildForbiddenPatterns()
)

type keywordPattern struct {
	token string
	re    *regexp.Regexp
}

func buildForbiddenPatterns() []keywordPattern {
	out := make([]keywordPattern, 0, len(forbiddenKeywords))
	for _, kw := range forbiddenKeywords {
		// Multi-word tokens match across arbitrary whitespace.
		pattern := `(?i)\b` + strings.ReplaceAll(regexp.QuoteMeta(kw), " ", `\s+`) + `\b`
		out = append(out, keywordPattern{token: kw, re: regexp.MustCompile(pattern)})
	}
	return out
}

// Validate checks sql against every policy rule and reports all failures.
// It is a pure function: no I/O, no external calls.
func Validate(sql string) Verdict {
	var violations []Violation

	if !reStartToken.MatchString(sql) {
		violations = append(violations, Violation{Kind: NotAQuery})
	}

	if strings.Contains(sql, ";") {
		violations = append(violations, Violation{Kind: MultiStatement})
	}

	// All keyword matches are collected, not short-circuited, so a repair
	// prompt can report them together.
	for _, kp := range reForbidden {
		if kp.re.MatchString(sql) {
			violations = append(violations, Violation{Kind: ForbiddenKeyword, Token: kp.token})
		}
	}

	if !reLimit.MatchString(sql) {
		violations = append(violations, Violation{Kind: MissingLimit})
	}

	return Verdict{OK: len(violations) == 0, Violations: violations}
}

// Statement renders the policy as instructions for the editing prompt,
// so the model is told up front what the validator will enforce.
func Statement() string {
	var b strings.Builder
	b.WriteString("The SQL you return must satisfy every rule below:\n")
	b.WriteString("- It must be a single query starting with SELECT or WITH.\n")
	b.WriteString("- It must not contain any semicolon, anywhere.\n")
	b.WriteString("- It must not contain any of these keywords, not even inside strings or aliases: ")
	b.WriteString(strings.Join(forbiddenKeywords, ", "))
	b.WriteString(".\n")
	b.WriteString("- It must end with a LIMIT clause followed by an integer.\n")
	return b.String()
}
