package ui

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"sleighwatch/internal/compliance"
	"sleighwatch/internal/transcript"
)

// Update is the single mutation point for all state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.feedView.Width = m.sidebarWidth() - 4
		m.feedView.Height = m.mapHeight() - 2
		m.input.SetWidth(m.sidebarWidth() - 4)
		return m, nil

	case frameMsg:
		return m.handleFrame(time.Time(msg))

	case complianceFireMsg:
		// Gating reads the remaining count fresh, never a cached copy.
		if m.session.TryStart(m.controller.Remaining()) {
			m.input.Reset()
		}
		return m, nil

	case streamDeltaMsg:
		return m.handleStreamDelta(string(msg))

	case streamDoneMsg:
		m.drafting = false
		m.cancelStream = nil
		return m, nil

	case streamErrMsg:
		return m.handleStreamErr(msg.err)

	case validationResultMsg:
		return m.handleValidationResult(msg)

	case sessionResetMsg:
		m.session.Reset()
		return m, nil

	case spinner.TickMsg:
		if m.drafting || m.validating {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

// handleFrame runs one autopilot tick and re-arms the frame timer.
func (m Model) handleFrame(now time.Time) (tea.Model, tea.Cmd) {
	dt := frameInterval
	if !m.lastFrame.IsZero() {
		dt = now.Sub(m.lastFrame)
	}
	m.lastFrame = now

	// Publish the compliance gate, then tick. The controller clamps dt
	// itself against stalls.
	m.controller.SetSuspended(m.session.Active())
	m.controller.Tick(dt)

	m.feedView.SetContent(m.renderFeed())
	m.feedView.GotoBottom()

	return m, m.frameCmd()
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.quitting = true
		return m, tea.Quit

	case "q":
		// Quit only outside text entry.
		if m.session.Stage() != compliance.StageDrafting && m.session.Stage() != compliance.StageReady {
			m.quitting = true
			return m, tea.Quit
		}

	case "enter":
		switch m.session.Stage() {
		case compliance.StageAlert:
			if m.session.BeginDrafting() {
				m.input.Focus()
				return m, nil
			}
		case compliance.StageDrafting:
			return m.handleSend()
		}

	case "ctrl+r":
		if m.session.Stage() == compliance.StageDrafting && !m.drafting && !m.validating {
			return m.startValidation()
		}

	case "ctrl+s":
		return m.handleSubmit()
	}

	if m.session.Stage() == compliance.StageDrafting {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

// handleSend starts a drafting stream for the typed message. One
// outstanding request at a time: sends while a stream is live are
// rejected up front.
func (m Model) handleSend() (tea.Model, tea.Cmd) {
	if m.drafting || m.validating {
		return m, nil
	}
	text := strings.TrimSpace(m.input.Value())
	if text == "" {
		return m, nil
	}

	client, err := m.draftingClient()
	if err != nil {
		m.statusErr = err.Error()
		return m, nil
	}
	m.statusErr = ""
	m.input.Reset()

	tr := m.session.Transcript()
	tr.Append(transcript.RoleUser, text)
	msgs := tr.Messages()
	tr.Append(transcript.RoleAssistant, "") // placeholder the stream fills

	ctx, cancel := context.WithCancel(context.Background())
	m.cancelStream = cancel
	m.streamContent, m.streamErrs = client.StreamMemo(ctx, msgs)
	m.drafting = true
	m.partial = ""

	return m, tea.Batch(m.spinner.Tick, waitForStream(m.streamContent, m.streamErrs))
}

// waitForStream forwards the next stream event into the Update loop and
// is re-issued after every delta.
func waitForStream(content <-chan string, errs <-chan error) tea.Cmd {
	return func() tea.Msg {
		select {
		case delta, ok := <-content:
			if !ok {
				// Content finished; the error channel resolves whether
				// this was a clean end.
				if err, ok := <-errs; ok && err != nil {
					return streamErrMsg{err: err}
				}
				return streamDoneMsg{}
			}
			return streamDeltaMsg(delta)
		case err, ok := <-errs:
			if ok && err != nil {
				return streamErrMsg{err: err}
			}
			return streamDoneMsg{}
		}
	}
}

func (m Model) handleStreamDelta(delta string) (tea.Model, tea.Cmd) {
	m.partial += delta
	m.session.Transcript().SetLastContent(m.partial)
	// Re-parse from scratch on every delta; parsing is idempotent.
	m.session.UpdateDraft(m.partial)
	return m, waitForStream(m.streamContent, m.streamErrs)
}

// handleStreamErr surfaces a stream failure inline in the conversation.
// The session stays in drafting and the operator can retry by sending
// another message.
func (m Model) handleStreamErr(err error) (tea.Model, tea.Cmd) {
	m.drafting = false
	m.cancelStream = nil

	if errors.Is(err, context.Canceled) {
		// Submission cancelled the stream; the transcript is already
		// cleared and must stay that way.
		return m, nil
	}

	inline := strings.TrimSpace(m.partial + "\n\n⚠ " + err.Error() + " — send again to retry.")
	m.session.Transcript().SetLastContent(inline)
	return m, nil
}

func (m Model) startValidation() (tea.Model, tea.Cmd) {
	m.validating = true
	msgs := m.session.Transcript().Messages()
	validator := m.validator
	m.events.Addf("Memo sent for validation...")

	return m, tea.Batch(m.spinner.Tick, func() tea.Msg {
		reply, err := validator.Validate(context.Background(), msgs)
		return validationResultMsg{reply: reply, err: err}
	})
}

// handleValidationResult appends whichever string came back as a new
// assistant entry; only the success path advances to ready.
func (m Model) handleValidationResult(msg validationResultMsg) (tea.Model, tea.Cmd) {
	m.validating = false
	if m.session.Stage() != compliance.StageDrafting {
		// Session moved on (e.g. reset) while the call was in flight.
		return m, nil
	}

	if msg.err != nil {
		m.session.Transcript().Append(transcript.RoleAssistant, "Validation failed: "+msg.err.Error())
		m.events.Addf("Validation rejected the memo — still drafting")
		return m, nil
	}

	m.session.Transcript().Append(transcript.RoleAssistant, msg.reply)
	m.session.MarkReady()
	return m, nil
}

// handleSubmit files the memo from ready. Any in-flight stream is
// cancelled explicitly before the transcript clears, so no partial
// stream state survives the submission.
func (m Model) handleSubmit() (tea.Model, tea.Cmd) {
	if m.session.Stage() != compliance.StageReady {
		return m, nil
	}

	if m.cancelStream != nil {
		m.cancelStream()
		m.cancelStream = nil
		m.drafting = false
	}
	m.partial = ""

	if !m.session.Submit() {
		return m, nil
	}
	m.input.Blur()

	return m, tea.Tick(m.session.ResetDelay(), func(time.Time) tea.Msg {
		return sessionResetMsg{}
	})
}
