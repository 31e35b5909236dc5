package drafting

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sleighwatch/internal/transcript"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewClient(Config{
		APIKey:  "test-key",
		BaseURL: srv.URL,
		Model:   "test-model",
		Timeout: 5 * time.Second,
	})
	require.NoError(t, err)
	return c
}

func sseHandler(lines ...string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		for _, line := range lines {
			fmt.Fprintf(w, "%s\n", line)
		}
	}
}

func collect(t *testing.T, content <-chan string, errs <-chan error) (string, error) {
	t.Helper()
	var sb strings.Builder
	for content != nil || errs != nil {
		select {
		case delta, ok := <-content:
			if !ok {
				content = nil
				continue
			}
			sb.WriteString(delta)
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			if err != nil {
				return sb.String(), err
			}
		case <-time.After(5 * time.Second):
			t.Fatal("stream did not terminate")
		}
	}
	return sb.String(), nil
}

func TestNewClient_RequiresAPIKey(t *testing.T) {
	_, err := NewClient(Config{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key")
}

func TestSharedIsLazySingleton(t *testing.T) {
	ResetShared()
	t.Cleanup(ResetShared)

	_, err := Shared(Config{})
	require.Error(t, err, "missing key must fail construction")

	a, err := Shared(Config{APIKey: "k"})
	require.NoError(t, err)
	b, err := Shared(Config{APIKey: "other"})
	require.NoError(t, err)
	assert.Same(t, a, b, "Shared must return the one process-wide client")
}

func TestStreamMemo_Deltas(t *testing.T) {
	c := newTestClient(t, sseHandler(
		`data: {"delta":"PART I: "}`,
		`data: {"delta":"the issue"}`,
		``,
		`data: [DONE]`,
	))

	content, errs := c.StreamMemo(context.Background(), []transcript.Message{
		{Role: transcript.RoleUser, Content: "draft it"},
	})
	got, err := collect(t, content, errs)
	require.NoError(t, err)
	assert.Equal(t, "PART I: the issue", got)
}

func TestStreamMemo_KeepAlivesIgnored(t *testing.T) {
	c := newTestClient(t, sseHandler(
		`: transport keep-alive`,
		`data: {"type":"ping"}`,
		`data: {"delta":"hello"}`,
		`data: {"type":"ping"}`,
		`data: [DONE]`,
	))

	content, errs := c.StreamMemo(context.Background(), nil)
	got, err := collect(t, content, errs)
	require.NoError(t, err)
	assert.Equal(t, "hello", got, "keep-alive frames must carry no content")
}

func TestStreamMemo_ErrorPayloadEndsStream(t *testing.T) {
	c := newTestClient(t, sseHandler(
		`data: {"delta":"partial "}`,
		`data: {"error":{"message":"internal drafting failure"}}`,
	))

	content, errs := c.StreamMemo(context.Background(), nil)
	got, err := collect(t, content, errs)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "internal drafting failure")
	assert.Equal(t, "partial ", got, "content before the error payload is kept")
}

func TestStreamMemo_HTTPErrorStatus(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	})

	content, errs := c.StreamMemo(context.Background(), nil)
	_, err := collect(t, content, errs)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestStreamMemo_Cancellation(t *testing.T) {
	release := make(chan struct{})
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "data: {\"delta\":\"x\"}\n")
		if f, ok := w.(http.Flusher); ok {
			f.Flush()
		}
		<-release // hold the stream open
	})
	t.Cleanup(func() { close(release) })

	ctx, cancel := context.WithCancel(context.Background())
	content, errs := c.StreamMemo(ctx, nil)

	// Wait for the first delta, then cancel mid-stream.
	select {
	case <-content:
	case <-time.After(5 * time.Second):
		t.Fatal("no delta before cancel")
	}
	cancel()

	_, err := collect(t, content, errs)
	require.ErrorIs(t, err, context.Canceled)
}

func TestStreamMemo_RequestShape(t *testing.T) {
	var gotPath, gotAccept string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAccept = r.Header.Get("Accept")
		sseHandler(`data: [DONE]`)(w, r)
	})

	content, errs := c.StreamMemo(context.Background(), []transcript.Message{
		{Role: transcript.RoleAssistant, Content: "incident"},
		{Role: transcript.RoleUser, Content: "draft"},
		{Role: transcript.RoleAssistant, Content: ""}, // streaming placeholder
	})
	_, err := collect(t, content, errs)
	require.NoError(t, err)

	assert.Equal(t, "/draft:stream", gotPath)
	assert.Equal(t, "text/event-stream", gotAccept)
}

func TestToWireDropsEmptyAssistantPlaceholder(t *testing.T) {
	wire := toWire([]transcript.Message{
		{Role: transcript.RoleAssistant, Content: "incident"},
		{Role: transcript.RoleUser, Content: "draft"},
		{Role: transcript.RoleAssistant, Content: ""},
	})
	require.Len(t, wire, 2)
	assert.Equal(t, "user", wire[1].Role)
}
