// Package validation submits the compliance transcript for review. The
// upstream collaborator is opaque: it answers a single plain-text
// string after a fixed delay, success or a generic failure line.
package validation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"sleighwatch/internal/logging"
	"sleighwatch/internal/transcript"
)

// Client calls the validation collaborator.
type Client struct {
	url        string
	httpClient *http.Client
}

// NewClient returns a client for the given endpoint. The HTTP client
// carries no timeout on purpose: the caller side has none either, so a
// hung validation leaves the session in drafting. Accepted risk — the
// upstream always answers after its fixed delay.
func NewClient(url string) *Client {
	return &Client{
		url:        url,
		httpClient: &http.Client{},
	}
}

type validateRequest struct {
	Messages []validateMessage `json:"messages"`
}

type validateMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Validate posts the transcript and returns the plain-text reply. A
// non-nil error means the failure path: the caller appends a failure
// line to the transcript and the session stays in drafting for retry.
func (c *Client) Validate(ctx context.Context, msgs []transcript.Message) (string, error) {
	reqBody := validateRequest{Messages: make([]validateMessage, 0, len(msgs))}
	for _, m := range msgs {
		reqBody.Messages = append(reqBody.Messages, validateMessage{
			Role:    string(m.Role),
			Content: m.Content,
		})
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal transcript: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.url, bytes.NewReader(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	logging.API("[validation] submitting transcript of %d messages", len(msgs))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logging.APIError("[validation] request failed: %v", err)
		return "", fmt.Errorf("validation request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read validation reply: %w", err)
	}
	reply := strings.TrimSpace(string(body))

	if resp.StatusCode != http.StatusOK {
		logging.APIWarn("[validation] rejected with status %d", resp.StatusCode)
		if reply == "" {
			reply = "validation service unavailable"
		}
		return "", fmt.Errorf("%s", reply)
	}

	logging.API("[validation] accepted")
	return reply, nil
}
