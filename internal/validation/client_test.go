package validation

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sleighwatch/internal/transcript"
)

func TestValidate_Success(t *testing.T) {
	var got validateRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		fmt.Fprint(w, "Memo accepted. Cleared to file.\n")
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	reply, err := c.Validate(context.Background(), []transcript.Message{
		{Role: transcript.RoleAssistant, Content: "PART I: issue"},
		{Role: transcript.RoleUser, Content: "validate"},
	})

	require.NoError(t, err)
	assert.Equal(t, "Memo accepted. Cleared to file.", reply)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "assistant", got.Messages[0].Role)
}

func TestValidate_FailureString(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Validation failed: PART II is missing.", http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	_, err := c.Validate(context.Background(), nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "PART II is missing")
}

func TestValidate_TransportError(t *testing.T) {
	c := NewClient("http://127.0.0.1:1") // nothing listens here
	_, err := c.Validate(context.Background(), nil)
	require.Error(t, err)
}

func TestValidate_ContextCancel(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-block
	}))
	defer srv.Close()
	defer close(block)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := NewClient(srv.URL)
	_, err := c.Validate(ctx, nil)
	require.Error(t, err)
}
