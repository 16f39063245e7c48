// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package dispatch sends user turns to the network, applying the
// primary/fallback delivery strategy and classifying the result.
package dispatch

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/jeranaias/nitro-tui/internal/model"
)

// Configuration constants for the direct fallback endpoint.
const (
	// DefaultFallbackURL is the public, unauthenticated text-generation
	// endpoint used when the backend cannot deliver.
	DefaultFallbackURL = "https://text.pollinations.ai"

	// DefaultFallbackTimeout bounds the fallback call. Tighter than the
	// primary deadline: by the time we get here the user has already waited.
	DefaultFallbackTimeout = 20 * time.Second
)

// =============================================================================
// FALLBACK CLIENT
// =============================================================================

// FallbackClient performs the direct text-generation call. The composed
// prompt (localized preamble plus the user text) travels URL-escaped as a
// single path segment; success is any 2xx with a plain-text body.
type FallbackClient struct {
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
}

// NewFallbackClient creates a fallback client with defaults.
func NewFallbackClient() *FallbackClient {
	return &FallbackClient{
		baseURL:    DefaultFallbackURL,
		timeout:    DefaultFallbackTimeout,
		httpClient: sharedHTTPClient,
	}
}

// WithBaseURL overrides the fallback base URL.
func (c *FallbackClient) WithBaseURL(base string) *FallbackClient {
	if base != "" {
		c.baseURL = strings.TrimRight(base, "/")
	}
	return c
}

// WithTimeout overrides the per-request timeout.
func (c *FallbackClient) WithTimeout(d time.Duration) *FallbackClient {
	if d > 0 {
		c.timeout = d
	}
	return c
}

// WithHTTPClient overrides the HTTP client, used by tests.
func (c *FallbackClient) WithHTTPClient(hc *http.Client) *FallbackClient {
	if hc != nil {
		c.httpClient = hc
	}
	return c
}

// ComposePrompt builds the raw prompt embedded in the request path.
func ComposePrompt(lang model.Language, userText string) string {
	return Preamble(lang) + "\nUser: " + userText + "\nAI:"
}

// Generate performs the direct fetch. Any transport error or non-2xx status
// is final: the outcome is DirectFetchFail carrying the localized apology,
// never an error.
func (c *FallbackClient) Generate(ctx context.Context, lang model.Language, userText string) Outcome {
	prompt := ComposePrompt(lang, userText)
	requestURL := c.baseURL + "/" + url.PathEscape(prompt)

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return Outcome{Kind: KindDirectFetchFail, Text: Apology(lang), Reason: "create request: " + err.Error()}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Outcome{Kind: KindDirectFetchFail, Text: Apology(lang), Reason: "request failed: " + err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Outcome{
			Kind:   KindDirectFetchFail,
			Text:   Apology(lang),
			Reason: "fallback returned " + strconv.Itoa(resp.StatusCode),
		}
	}

	body, err := readLimited(resp.Body)
	if err != nil {
		return Outcome{Kind: KindDirectFetchFail, Text: Apology(lang), Reason: "read response: " + err.Error()}
	}

	return Outcome{Kind: KindDirectFetch, Text: strings.TrimSpace(string(body))}
}
