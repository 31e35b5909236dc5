package drafting

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"sleighwatch/internal/logging"
	"sleighwatch/internal/transcript"
)

// StreamMemo sends the transcript and returns channels of incremental
// content deltas. Both channels close when the stream ends; at most one
// error is delivered. An upstream error payload arrives here as an
// error value — callers surface it inline in the transcript and stay in
// drafting, it is never fatal.
func (c *Client) StreamMemo(ctx context.Context, msgs []transcript.Message) (<-chan string, <-chan error) {
	contentChan := make(chan string, 100)
	errorChan := make(chan error, 1)

	logging.API("[drafting] StreamMemo: starting stream model=%s messages=%d", c.model, len(msgs))

	go func() {
		defer close(contentChan)
		defer close(errorChan)

		// Auto-apply timeout if the context has no deadline.
		if _, hasDeadline := ctx.Deadline(); !hasDeadline {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, c.httpClient.Timeout)
			defer cancel()
		}

		startTime := time.Now()

		// Space out rapid-fire sends.
		c.mu.Lock()
		elapsed := time.Since(c.lastRequest)
		if elapsed < 100*time.Millisecond {
			time.Sleep(100*time.Millisecond - elapsed)
		}
		c.lastRequest = time.Now()
		c.mu.Unlock()

		reqBody := streamRequest{
			Model:    c.model,
			System:   systemPreamble,
			Messages: toWire(msgs),
			Tools:    toolCapabilities,
			Stream:   true,
		}

		jsonData, err := json.Marshal(reqBody)
		if err != nil {
			errorChan <- fmt.Errorf("failed to marshal request: %w", err)
			return
		}

		url := fmt.Sprintf("%s/draft:stream?alt=sse&key=%s", c.baseURL, c.apiKey)

		req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(jsonData))
		if err != nil {
			errorChan <- fmt.Errorf("failed to create request: %w", err)
			return
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "text/event-stream")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			logging.APIError("[drafting] StreamMemo: request failed after %v: %v", time.Since(startTime), err)
			errorChan <- fmt.Errorf("request failed: %w", err)
			return
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			body, _ := io.ReadAll(resp.Body)
			errorChan <- fmt.Errorf("drafting request failed with status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
			return
		}

		scanner := bufio.NewScanner(resp.Body)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

		scanDone := make(chan struct{})
		scanErrChan := make(chan error, 1)

		go func() {
			defer close(scanDone)
			for scanner.Scan() {
				line := scanner.Text()
				// SSE comment lines are transport keep-alives.
				if strings.HasPrefix(line, ":") {
					continue
				}
				if !strings.HasPrefix(line, "data:") {
					continue
				}
				data := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
				if data == "" {
					continue
				}
				if data == "[DONE]" {
					return
				}

				var chunk streamChunk
				if err := json.Unmarshal([]byte(data), &chunk); err != nil {
					continue
				}
				// Application-level keep-alive: no semantic content.
				if chunk.Type == "ping" {
					continue
				}
				if chunk.Error != nil {
					// Error payload ends the stream normally; it is
					// content for the transcript, not a protocol fault.
					scanErrChan <- fmt.Errorf("drafting service error: %s", chunk.Error.Message)
					return
				}
				if chunk.Delta == "" {
					continue
				}
				select {
				case contentChan <- chunk.Delta:
				case <-ctx.Done():
					return
				}
			}
			if err := scanner.Err(); err != nil {
				scanErrChan <- err
			}
		}()

		select {
		case <-scanDone:
			select {
			case err := <-scanErrChan:
				logging.APIError("[drafting] StreamMemo: stream error after %v: %v", time.Since(startTime), err)
				errorChan <- err
			default:
				logging.API("[drafting] StreamMemo: completed in %v", time.Since(startTime))
			}
		case <-ctx.Done():
			resp.Body.Close()
			<-scanDone
			logging.APIWarn("[drafting] StreamMemo: cancelled after %v", time.Since(startTime))
			errorChan <- ctx.Err()
		}
	}()

	return contentChan, errorChan
}
