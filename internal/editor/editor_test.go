// Copyright (c) 2025 Martedit
// Licensed under the MIT License. See LICENSE file in the project root for details.

package editor

import (
	"context"
	"strings"
	"testing"

	apperrors "martedit/cli/internal/errors"
	"martedit/cli/internal/martmeta"
)

// scriptedClient returns one reply per call, in order.
type scriptedClient struct {
	replies []string
	err     error
	calls   int
	users   []string
}

func (s *scriptedClient) Invoke(_ context.Context, _, user string) (string, error) {
	s.users = append(s.users, user)
	if s.err != nil {
		return "", s.err
	}
	if s.calls >= len(s.replies) {
		return s.replies[len(s.replies)-1], nil
	}
	reply := s.replies[s.calls]
	s.calls++
	return reply, nil
}

var testEntry = martmeta.Entry{
	Name: "revenue", Path: "marts/revenue_mart.sql", Description: "monthly revenue",
}

const currentSQL = "SELECT product, revenue FROM sales LIMIT 1000"

func TestEditFirstAttemptPasses(t *testing.T) {
	client := &scriptedClient{replies: []string{
		`{"sql": "SELECT product, revenue, revenue - cost AS gross_profit FROM sales LIMIT 1000"}`,
	}}
	sql, err := Edit(context.Background(), client, testEntry, "add gross profit", currentSQL, 2, nil)
	if err != nil {
		t.Fatalf("Edit() error: %v", err)
	}
	if !strings.Contains(sql, "gross_profit") {
		t.Errorf("Edit() = %q, want edited SQL", sql)
	}
	if client.calls != 1 {
		t.Errorf("Edit() calls = %d, want 1", client.calls)
	}
	// First attempt carries the request and the current SQL
	if !strings.Contains(client.users[0], "add gross profit") || !strings.Contains(client.users[0], currentSQL) {
		t.Error("edit payload missing request or original SQL")
	}
}

func TestEditRepairsAfterViolation(t *testing.T) {
	client := &scriptedClient{replies: []string{
		`{"sql": "DROP TABLE sales"}`,
		`{"sql": "SELECT product FROM sales LIMIT 100"}`,
	}}

	var attempts []Attempt
	sql, err := Edit(context.Background(), client, testEntry, "trim columns", currentSQL, 2,
		func(a Attempt) { attempts = append(attempts, a) })
	if err != nil {
		t.Fatalf("Edit() error: %v", err)
	}
	if sql != "SELECT product FROM sales LIMIT 100" {
		t.Errorf("Edit() = %q", sql)
	}

	// The repair prompt must name the violations and the rejected candidate
	repair := client.users[1]
	for _, want := range []string{"rejected_sql", "DROP TABLE sales", "forbidden_keyword(drop)"} {
		if !strings.Contains(repair, want) {
			t.Errorf("repair payload missing %q", want)
		}
	}

	if len(attempts) != 2 || attempts[0].Violations == "" || attempts[1].Violations != "" {
		t.Errorf("observer attempts = %+v", attempts)
	}
}

func TestEditExhaustionFails(t *testing.T) {
	client := &scriptedClient{replies: []string{
		`{"sql": "DROP TABLE sales"}`,
		`{"sql": "TRUNCATE sales"}`,
	}}
	_, err := Edit(context.Background(), client, testEntry, "whatever", currentSQL, 2, nil)
	if !apperrors.IsKind(err, apperrors.EditFailure) {
		t.Fatalf("Edit() error = %v, want edit_failure", err)
	}
	// The terminal error surfaces the last violation set
	if !strings.Contains(err.Error(), "truncate") {
		t.Errorf("Edit() error = %v, want last violations named", err)
	}
	if client.calls != 2 {
		t.Errorf("Edit() calls = %d, want exactly the retry bound", client.calls)
	}
}

func TestEditMalformedReplyConsumesAttempt(t *testing.T) {
	client := &scriptedClient{replies: []string{
		"Sure! Here is the new query: SELECT 1",
		`{"sql": "SELECT 1 LIMIT 1"}`,
	}}
	sql, err := Edit(context.Background(), client, testEntry, "whatever", currentSQL, 2, nil)
	if err != nil {
		t.Fatalf("Edit() error: %v", err)
	}
	if sql != "SELECT 1 LIMIT 1" {
		t.Errorf("Edit() = %q", sql)
	}
	if client.calls != 2 {
		t.Errorf("Edit() calls = %d, want 2", client.calls)
	}
}

func TestEditTransportFailureNotRetried(t *testing.T) {
	client := &scriptedClient{err: apperrors.New(apperrors.TransportFailure, "timeout")}
	_, err := Edit(context.Background(), client, testEntry, "whatever", currentSQL, 3, nil)
	if !apperrors.IsKind(err, apperrors.TransportFailure) {
		t.Fatalf("Edit() error = %v, want transport_failure", err)
	}
	if len(client.users) != 1 {
		t.Errorf("Edit() calls = %d, transport faults must not be retried", len(client.users))
	}
}

func TestPlan(t *testing.T) {
	client := &scriptedClient{replies: []string{"- add gross_profit column\n- keep LIMIT 1000\n"}}
	plan, err := Plan(context.Background(), client, testEntry, "add gross profit", currentSQL)
	if err != nil {
		t.Fatalf("Plan() error: %v", err)
	}
	if !strings.Contains(plan, "gross_profit") {
		t.Errorf("Plan() = %q", plan)
	}
	if !strings.Contains(client.users[0], currentSQL) {
		t.Error("plan payload missing original SQL")
	}
}
