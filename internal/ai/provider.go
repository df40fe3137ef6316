// Package ai connects the reference browser to a hosted language model.
//
// A [Provider] speaks one vendor's wire format. The [Assistant] builds the
// chat, shipment audit and record verification requests on top of a
// Provider and contains every failure: callers always receive an [Answer],
// never an error.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// Provider is the interface for hosted model backends.
type Provider interface {
	// Generate sends a request and blocks until the full response is
	// available or ctx is done.
	Generate(ctx context.Context, request Request) (*Response, error)
}

// Request is a single-turn generation request.
type Request struct {
	// System is the instruction prepended to the conversation.
	System string

	// Prompt is the user turn.
	Prompt string

	// Grounded enables web search grounding when the provider supports it.
	Grounded bool
}

// Response is the model's reply.
type Response struct {
	Text    string
	Sources []Source
}

// Source is a web page the model cited while grounding its answer.
type Source struct {
	Title string `json:"title"`
	URI   string `json:"uri"`
}

// ProviderError is returned when the model API responds with an error.
type ProviderError struct {
	// StatusCode is the HTTP status code.
	StatusCode int

	// Status is the provider-specific status string
	// (e.g., "INVALID_ARGUMENT", "RESOURCE_EXHAUSTED").
	Status string

	// Message is the human-readable error description.
	Message string
}

func (err *ProviderError) Error() string {
	if err.Status != "" {
		return fmt.Sprintf("provider error: HTTP %d: %s: %s", err.StatusCode, err.Status, err.Message)
	}
	return fmt.Sprintf("provider error: HTTP %d: %s", err.StatusCode, err.Message)
}

// IsRateLimited returns true if the error is a rate limit response (HTTP 429).
func (err *ProviderError) IsRateLimited() bool {
	return err.StatusCode == http.StatusTooManyRequests
}

// doProviderRequest marshals wireRequest as JSON, POSTs it to endpoint with
// the given headers, and returns the HTTP response. Returns a ProviderError
// for non-200 status codes.
//
// On success the caller is responsible for closing the response body.
// On error the body is already closed.
func doProviderRequest(ctx context.Context, httpClient *http.Client, endpoint string, headers map[string]string, wireRequest any, prefix string) (*http.Response, error) {
	body, err := json.Marshal(wireRequest)
	if err != nil {
		return nil, fmt.Errorf("%s: marshaling request: %w", prefix, err)
	}

	httpRequest, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%s: creating request: %w", prefix, err)
	}
	httpRequest.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		httpRequest.Header.Set(k, v)
	}

	httpResponse, err := httpClient.Do(httpRequest)
	if err != nil {
		return nil, fmt.Errorf("%s: sending request: %w", prefix, err)
	}

	if httpResponse.StatusCode != http.StatusOK {
		defer httpResponse.Body.Close()
		return nil, readProviderError(httpResponse)
	}

	return httpResponse, nil
}

// readProviderError parses an error body of the form
// {"error":{"code":400,"message":"...","status":"..."}}.
func readProviderError(httpResponse *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(httpResponse.Body, 4096))

	var wireError struct {
		Error struct {
			Status  string `json:"status"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if json.Unmarshal(body, &wireError) == nil && wireError.Error.Message != "" {
		return &ProviderError{
			StatusCode: httpResponse.StatusCode,
			Status:     wireError.Error.Status,
			Message:    wireError.Error.Message,
		}
	}

	return &ProviderError{
		StatusCode: httpResponse.StatusCode,
		Message:    string(body),
	}
}
