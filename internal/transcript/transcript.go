// Package transcript models the ordered conversation that drives the
// drafting collaborator.
package transcript

// Role tags a transcript message with its author.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single role-tagged conversation entry.
type Message struct {
	Role    Role
	Content string
}

// Transcript is an append-only message sequence. It is cleared wholesale
// when a new compliance event starts or a session is submitted, never
// edited in the middle.
type Transcript struct {
	msgs []Message
}

// New returns an empty transcript.
func New() *Transcript {
	return &Transcript{}
}

// Append adds a message to the end.
func (t *Transcript) Append(role Role, content string) {
	t.msgs = append(t.msgs, Message{Role: role, Content: content})
}

// SetLastContent replaces the content of the final message. Used while
// a streamed assistant reply is still accumulating. No-op when empty.
func (t *Transcript) SetLastContent(content string) {
	if len(t.msgs) == 0 {
		return
	}
	t.msgs[len(t.msgs)-1].Content = content
}

// Messages returns a copy of the conversation, oldest first.
func (t *Transcript) Messages() []Message {
	out := make([]Message, len(t.msgs))
	copy(out, t.msgs)
	return out
}

// LatestAssistant returns the content of the most recent assistant
// message, if any.
func (t *Transcript) LatestAssistant() (string, bool) {
	for i := len(t.msgs) - 1; i >= 0; i-- {
		if t.msgs[i].Role == RoleAssistant {
			return t.msgs[i].Content, true
		}
	}
	return "", false
}

// Len returns the message count.
func (t *Transcript) Len() int {
	return len(t.msgs)
}

// Clear drops every message.
func (t *Transcript) Clear() {
	t.msgs = nil
}
