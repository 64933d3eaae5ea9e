// Copyright (c) 2025 Martedit
// Licensed under the MIT License. See LICENSE file in the project root for details.

package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	apperrors "martedit/cli/internal/errors"
)

func newTestGemini(url string) *Gemini {
	return NewGemini(GeminiConfig{
		APIKey:          "test-key",
		BaseURL:         url,
		Model:           "gemini-2.0-flash-001",
		Temperature:     0,
		MaxOutputTokens: 2048,
	})
}

func TestGeminiInvoke(t *testing.T) {
	var gotBody geminiRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, "gemini-2.0-flash-001:generateContent") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("key") != "test-key" {
			t.Errorf("missing API key in query")
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"{\"path\": \"marts/revenue_mart.sql\"}"}]}}]}`))
	}))
	defer srv.Close()

	g := newTestGemini(srv.URL)
	text, err := g.Invoke(context.Background(), "system prompt", "user payload")
	if err != nil {
		t.Fatalf("Invoke() error: %v", err)
	}
	if !strings.Contains(text, "revenue_mart") {
		t.Errorf("Invoke() = %q, want routed path", text)
	}

	if gotBody.SystemInstruction == nil || gotBody.SystemInstruction.Parts[0].Text != "system prompt" {
		t.Error("system prompt not carried in systemInstruction")
	}
	if len(gotBody.Contents) != 1 || gotBody.Contents[0].Parts[0].Text != "user payload" {
		t.Error("user payload not carried in contents")
	}
}

func TestGeminiInvokeErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr apperrors.Kind
	}{
		{
			name:    "server error",
			status:  http.StatusInternalServerError,
			body:    `{"error":"boom"}`,
			wantErr: apperrors.TransportFailure,
		},
		{
			name:    "no candidates",
			status:  http.StatusOK,
			body:    `{"candidates":[]}`,
			wantErr: apperrors.TransportFailure,
		},
		{
			name:    "empty text",
			status:  http.StatusOK,
			body:    `{"candidates":[{"content":{"parts":[{"text":""}]}}]}`,
			wantErr: apperrors.TransportFailure,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			g := newTestGemini(srv.URL)
			if _, err := g.Invoke(context.Background(), "s", "u"); !apperrors.IsKind(err, tt.wantErr) {
				t.Errorf("Invoke() error = %v, want kind %s", err, tt.wantErr)
			}
		})
	}
}

func TestGeminiInvokeNoKey(t *testing.T) {
	g := NewGemini(GeminiConfig{Model: "gemini-2.0-flash-001"})
	if _, err := g.Invoke(context.Background(), "s", "u"); !apperrors.IsKind(err, apperrors.TransportFailure) {
		t.Errorf("Invoke() without key error = %v, want transport_failure", err)
	}
}
