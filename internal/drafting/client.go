// Package drafting talks to the hosted drafting collaborator: it sends
// the compliance transcript and receives the memo as a token stream
// over SSE.
package drafting

import (
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"sleighwatch/internal/transcript"
)

// Config describes how to reach the collaborator. Built from
// config.LLMConfig at startup.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// systemPreamble is the fixed framing sent ahead of every transcript.
const systemPreamble = `You are North Pole compliance counsel. Draft formal
compliance memos as four labeled sections — PART I (Issue), PART II
(Facts), PART III (Analysis), PART IV (Recommended Actions) — followed
by a REFERENCES list, one source per line. Keep the tone of a federal
filing; the client is Santa Claus.`

// toolCapabilities are the external tool-capability identifiers the
// collaborator may use while drafting. Fixed set, sent verbatim.
var toolCapabilities = []string{"web_search", "regulation_lookup"}

// Client streams memo drafts from the collaborator.
type Client struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client

	mu          sync.Mutex
	lastRequest time.Time
}

// NewClient builds a client. The API credential is validated at
// construction time: an absent key is a configuration error, not a
// request-time surprise.
func NewClient(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("drafting: API key not configured")
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://generativelanguage.googleapis.com/v1beta"
	}
	model := cfg.Model
	if model == "" {
		model = "gemini-3-flash-preview"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Minute
	}
	return &Client{
		apiKey:  cfg.APIKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

var (
	sharedMu sync.Mutex
	shared   *Client
)

// Shared returns the process-wide client, constructing it lazily on
// first use. The client lives for the process; there is no teardown.
func Shared(cfg Config) (*Client, error) {
	sharedMu.Lock()
	defer sharedMu.Unlock()
	if shared != nil {
		return shared, nil
	}
	c, err := NewClient(cfg)
	if err != nil {
		return nil, err
	}
	shared = c
	return shared, nil
}

// ResetShared drops the process-wide client. Test hook.
func ResetShared() {
	sharedMu.Lock()
	defer sharedMu.Unlock()
	shared = nil
}

// wire types

type wireMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type streamRequest struct {
	Model    string        `json:"model"`
	System   string        `json:"system"`
	Messages []wireMessage `json:"messages"`
	Tools    []string      `json:"tools,omitempty"`
	Stream   bool          `json:"stream"`
}

// streamChunk is one SSE data payload. Keep-alive frames arrive as
// {"type":"ping"} and carry no content; an error payload replaces
// content and still ends the stream normally.
type streamChunk struct {
	Type  string `json:"type,omitempty"`
	Delta string `json:"delta,omitempty"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func toWire(msgs []transcript.Message) []wireMessage {
	out := make([]wireMessage, 0, len(msgs))
	for _, m := range msgs {
		// Trailing placeholder for the reply being streamed; the
		// collaborator should not see its own empty turn.
		if m.Role == transcript.RoleAssistant && m.Content == "" {
			continue
		}
		out = append(out, wireMessage{Role: string(m.Role), Content: m.Content})
	}
	return out
}
