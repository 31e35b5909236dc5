package transcript

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendAndMessages(t *testing.T) {
	tr := New()
	tr.Append(RoleSystem, "preamble")
	tr.Append(RoleUser, "hello")
	tr.Append(RoleAssistant, "hi")

	msgs := tr.Messages()
	require.Len(t, msgs, 3)
	assert.Equal(t, RoleUser, msgs[1].Role)
	assert.Equal(t, "hi", msgs[2].Content)

	// Mutating the copy must not touch the transcript.
	msgs[0].Content = "changed"
	assert.Equal(t, "preamble", tr.Messages()[0].Content)
}

func TestLatestAssistant(t *testing.T) {
	tr := New()
	_, ok := tr.LatestAssistant()
	assert.False(t, ok)

	tr.Append(RoleAssistant, "first")
	tr.Append(RoleUser, "question")
	tr.Append(RoleAssistant, "second")

	got, ok := tr.LatestAssistant()
	require.True(t, ok)
	assert.Equal(t, "second", got)
}

func TestSetLastContent(t *testing.T) {
	tr := New()
	tr.SetLastContent("ignored on empty")
	assert.Zero(t, tr.Len())

	tr.Append(RoleAssistant, "")
	tr.SetLastContent("partial")
	tr.SetLastContent("partial + more")

	got, _ := tr.LatestAssistant()
	assert.Equal(t, "partial + more", got)
}

func TestClear(t *testing.T) {
	tr := New()
	tr.Append(RoleUser, "x")
	tr.Clear()
	assert.Zero(t, tr.Len())
	assert.Empty(t, tr.Messages())
}
