// Copyright (c) 2025 Martedit
// Licensed under the MIT License. See LICENSE file in the project root for details.

package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	apperrors "martedit/cli/internal/errors"
	"martedit/cli/internal/logging"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// Gemini implements Client over the generateContent REST endpoint.
type Gemini struct {
	apiKey          string
	baseURL         string
	model           string
	temperature     float64
	maxOutputTokens int
	client          *http.Client
}

// GeminiConfig holds the generation settings for a Gemini client.
type GeminiConfig struct {
	APIKey          string
	BaseURL         string // defaults to the public Generative Language API
	Model           string
	Temperature     float64
	MaxOutputTokens int
	Timeout         time.Duration
}

// NewGemini creates a Gemini client with the given config.
func NewGemini(cfg GeminiConfig) *Gemini {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Gemini{
		apiKey:          cfg.APIKey,
		baseURL:         baseURL,
		model:           cfg.Model,
		temperature:     cfg.Temperature,
		maxOutputTokens: cfg.MaxOutputTokens,
		client:          &http.Client{Timeout: timeout},
	}
}

// Request/response shapes for the generateContent endpoint.
type geminiRequest struct {
	SystemInstruction *geminiContent       `json:"systemInstruction,omitempty"`
	Contents          []geminiContent      `json:"contents"`
	GenerationConfig  geminiGenerationConf `json:"generationConfig"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiGenerationConf struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// Invoke calls models/<model>:generateContent and returns the reply text.
func (g *Gemini) Invoke(ctx context.Context, systemPrompt, userPayload string) (string, error) {
	if g.apiKey == "" {
		return "", apperrors.New(apperrors.TransportFailure, "API key not configured")
	}

	reqBody := geminiRequest{
		SystemInstruction: &geminiContent{
			Parts: []geminiPart{{Text: systemPrompt}},
		},
		Contents: []geminiContent{
			{
				Role:  "user",
				Parts: []geminiPart{{Text: userPayload}},
			},
		},
		GenerationConfig: geminiGenerationConf{
			Temperature:     g.temperature,
			MaxOutputTokens: g.maxOutputTokens,
		},
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", apperrors.Wrap(apperrors.TransportFailure, "marshal model request", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", g.baseURL, g.model, g.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", apperrors.Wrap(apperrors.TransportFailure, "create model request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	logging.Debugf("llm: POST %s model=%s system_len=%d user_len=%d", url, g.model, len(systemPrompt), len(userPayload))

	resp, err := g.client.Do(req)
	if err != nil {
		return "", apperrors.Wrap(apperrors.TransportFailure, "model endpoint unreachable", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", apperrors.Wrap(apperrors.TransportFailure, "read model response", err)
	}

	if resp.StatusCode != http.StatusOK {
		msg := fmt.Sprintf("model endpoint returned status %d: %s", resp.StatusCode, truncate(string(body), 300))
		return "", apperrors.New(apperrors.TransportFailure, logging.Mask(msg))
	}

	var out geminiResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", apperrors.Wrap(apperrors.TransportFailure, "parse model response envelope", err)
	}
	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return "", apperrors.New(apperrors.TransportFailure, "model response missing candidates")
	}

	text := out.Candidates[0].Content.Parts[0].Text
	if text == "" {
		return "", apperrors.New(apperrors.TransportFailure, "model response missing text")
	}

	logging.Debugf("llm: reply_len=%d", len(text))
	return text, nil
}

// truncate returns first n characters of s, or entire s if shorter.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
