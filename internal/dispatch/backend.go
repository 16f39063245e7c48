// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package dispatch sends user turns to the network, applying the
// primary/fallback delivery strategy and classifying the result.
package dispatch

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/jeranaias/nitro-tui/internal/model"
)

// Configuration constants for the backend chat endpoint.
const (
	// DefaultBackendURL is the base URL for the primary chat backend.
	DefaultBackendURL = "https://api.nitrochat.dev"

	// DefaultBackendTimeout bounds the primary call so a hung backend
	// cannot delay fallback indefinitely.
	DefaultBackendTimeout = 30 * time.Second

	// MaxResponseSize is the maximum allowed response body size.
	MaxResponseSize = 4 * 1024 * 1024 // 4MB limit
)

// sharedHTTPClient is used for all dispatcher requests. Connection pooling
// reduces handshake overhead; per-request deadlines come from context, not
// the client, because the primary and fallback paths use different deadlines.
var sharedHTTPClient = &http.Client{
	Transport: &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
		TLSClientConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
		},
	},
}

// =============================================================================
// BACKEND CLIENT
// =============================================================================

// chatRequest is the backend chat payload.
type chatRequest struct {
	Message  string `json:"message"`
	Email    string `json:"email"`
	Model    string `json:"model"`
	Language string `json:"language"`
}

// BackendClient talks to the primary chat backend.
type BackendClient struct {
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
}

// NewBackendClient creates a backend client with defaults.
func NewBackendClient() *BackendClient {
	return &BackendClient{
		baseURL:    DefaultBackendURL,
		timeout:    DefaultBackendTimeout,
		httpClient: sharedHTTPClient,
	}
}

// WithBaseURL overrides the backend base URL.
func (c *BackendClient) WithBaseURL(base string) *BackendClient {
	if base != "" {
		c.baseURL = strings.TrimRight(base, "/")
	}
	return c
}

// WithTimeout overrides the per-request timeout.
func (c *BackendClient) WithTimeout(d time.Duration) *BackendClient {
	if d > 0 {
		c.timeout = d
	}
	return c
}

// WithHTTPClient overrides the HTTP client, used by tests.
func (c *BackendClient) WithHTTPClient(hc *http.Client) *BackendClient {
	if hc != nil {
		c.httpClient = hc
	}
	return c
}

// BaseURL returns the configured base URL.
func (c *BackendClient) BaseURL() string {
	return c.baseURL
}

// Chat submits one user message to the backend and classifies the response.
// Classification is total: transport errors become BackendHardFail, every
// HTTP response maps through classifyPrimary, and no error is returned.
func (c *BackendClient) Chat(ctx context.Context, userText, email, modelID string, lang model.Language) Outcome {
	reqBody := chatRequest{
		Message:  userText,
		Email:    email,
		Model:    modelID,
		Language: lang.String(),
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return Outcome{Kind: KindBackendHardFail, Reason: "marshal request: " + err.Error()}
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat", bytes.NewReader(bodyBytes))
	if err != nil {
		return Outcome{Kind: KindBackendHardFail, Reason: "create request: " + err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Outcome{Kind: KindBackendHardFail, Reason: "request failed: " + err.Error()}
	}
	defer resp.Body.Close()

	body, err := readLimited(resp.Body)
	if err != nil {
		return Outcome{Kind: KindBackendSoftFail, Reason: "read response: " + err.Error()}
	}

	return classifyPrimary(resp.StatusCode, body)
}

// readLimited reads a response body with a size cap so an oversized reply
// cannot exhaust memory.
func readLimited(r io.Reader) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(r, MaxResponseSize))
	if err != nil {
		return nil, err
	}
	return body, nil
}
