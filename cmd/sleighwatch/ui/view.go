package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"sleighwatch/internal/compliance"
	"sleighwatch/internal/transcript"
)

// Layout constants. The map keeps a fixed aspect; the sidebar gets the
// remaining columns.
const (
	minWidth  = 60
	minHeight = 20
)

func (m Model) mapWidth() int {
	w := m.width * 3 / 5
	if w < 40 {
		w = 40
	}
	return w
}

func (m Model) mapHeight() int {
	h := m.height - 4 // header + footer + borders
	if h < 12 {
		h = 12
	}
	return h
}

func (m Model) sidebarWidth() int {
	w := m.width - m.mapWidth() - 4
	if w < 24 {
		w = 24
	}
	return w
}

// View renders the whole interface.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width > 0 && (m.width < minWidth || m.height < minHeight) {
		return m.styles.Warning.Render("terminal too small — need at least 60x20")
	}

	header := m.renderHeader()
	footer := m.renderFooter()

	mapView := m.styles.MapPane.Render(
		RenderMap(m.mapWidth(), m.mapHeight()-2, m.controller.Waypoints(), m.controller.Position(), m.styles))

	var sidebar string
	if m.session.Active() {
		sidebar = m.renderCompliancePanel()
	} else {
		sidebar = m.renderFeedPanel()
	}
	sidebar = m.styles.Sidebar.Width(m.sidebarWidth()).Height(m.mapHeight() - 2).Render(sidebar)

	body := lipgloss.JoinHorizontal(lipgloss.Top, mapView, sidebar)
	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

func (m Model) renderHeader() string {
	title := m.styles.Badge.Render("SLEIGHWATCH")
	remaining := fmt.Sprintf("  %d stops remaining", m.controller.Remaining())

	status := m.styles.StageIdle.Render("autopilot engaged")
	if m.session.Active() {
		status = m.styles.Alert.Render(
			fmt.Sprintf("GROUNDED — %s [%s]", m.session.Agency(), m.session.Stage()))
	} else if m.controller.Remaining() == 0 {
		status = m.styles.Success.Render("route complete — happy chrimbus")
	}

	return m.styles.Header.Width(m.width).Render(title + remaining + "   " + status)
}

func (m Model) renderFooter() string {
	var keys string
	switch m.session.Stage() {
	case compliance.StageIdle:
		keys = "q quit"
	case compliance.StageAlert:
		keys = "enter open drafting session • ctrl+c quit"
	case compliance.StageDrafting:
		keys = "enter send • ctrl+r validate memo • ctrl+c quit"
	case compliance.StageReady:
		keys = "ctrl+s submit compliance case • ctrl+c quit"
	case compliance.StageSubmitted:
		keys = "filing acknowledged..."
	}
	if m.statusErr != "" {
		keys += "   " + m.styles.Alert.Render(m.statusErr)
	}
	return m.styles.Footer.Render(keys)
}

func (m Model) renderFeedPanel() string {
	title := m.styles.Title.Render("Event feed")
	return title + "\n" + m.feedView.View()
}

func (m Model) renderFeed() string {
	entries := m.events.Entries()
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		lines = append(lines,
			m.styles.Muted.Render(e.At.Format("15:04:05"))+" "+m.styles.Body.Render(e.Text))
	}
	return strings.Join(lines, "\n")
}

// renderCompliancePanel shows the active session: agency, stage,
// conversation tail, memo progress and the input box.
func (m Model) renderCompliancePanel() string {
	var b strings.Builder

	b.WriteString(m.styles.Alert.Render("⚠ COMPLIANCE EVENT"))
	b.WriteString("\n")
	b.WriteString(m.styles.Title.Render(m.session.Agency()))
	b.WriteString("\n")
	b.WriteString(m.styles.Muted.Render("stage: ") + m.styles.Accent.Render(m.session.Stage().String()))
	b.WriteString("\n")
	b.WriteString(m.styles.RenderDivider(m.sidebarWidth() - 2))
	b.WriteString("\n")

	b.WriteString(m.renderConversation())

	if !m.session.Draft().Empty() {
		b.WriteString("\n")
		b.WriteString(m.renderDraftStatus())
	}

	switch m.session.Stage() {
	case compliance.StageDrafting:
		b.WriteString("\n")
		if m.drafting {
			b.WriteString(m.styles.Spinner.Render(m.spinner.View()) + m.styles.Muted.Render(" counsel is drafting..."))
		} else if m.validating {
			b.WriteString(m.styles.Spinner.Render(m.spinner.View()) + m.styles.Muted.Render(" validating memo..."))
		} else {
			b.WriteString(m.input.View())
		}
	case compliance.StageReady:
		b.WriteString("\n")
		b.WriteString(m.styles.Success.Render("Memo validated — ctrl+s to submit"))
	case compliance.StageSubmitted:
		b.WriteString("\n")
		b.WriteString(m.styles.Success.Render("✓ Filed. Resuming flight..."))
	}

	return b.String()
}

// renderConversation shows the last few transcript turns; the full
// history is not scrollable here, the memo matters more than scrollback.
func (m Model) renderConversation() string {
	msgs := m.session.Transcript().Messages()
	const tail = 4
	if len(msgs) > tail {
		msgs = msgs[len(msgs)-tail:]
	}

	width := m.sidebarWidth() - 6
	var b strings.Builder
	for _, msg := range msgs {
		content := truncateLines(msg.Content, 8)
		switch msg.Role {
		case transcript.RoleUser:
			b.WriteString(m.styles.Muted.Render("you") + "\n")
			b.WriteString(m.styles.UserMsg.Width(width).Render(content))
		default:
			b.WriteString(m.styles.Muted.Render("counsel") + "\n")
			b.WriteString(m.styles.AssistantMsg.Width(width).Render(m.renderMarkdown(content)))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// renderDraftStatus summarizes which memo sections have materialized in
// the parsed draft so far.
func (m Model) renderDraftStatus() string {
	d := m.session.Draft()
	mark := func(label string, filled bool) string {
		if filled {
			return m.styles.Success.Render("●" + label)
		}
		return m.styles.Muted.Render("○" + label)
	}
	return m.styles.Muted.Render("memo: ") +
		mark("I", d.Issue != "") + " " +
		mark("II", d.Facts != "") + " " +
		mark("III", d.Analysis != "") + " " +
		mark("IV", d.Actions != "") + " " +
		mark(fmt.Sprintf("refs:%d", len(d.References)), len(d.References) > 0)
}

func (m Model) renderMarkdown(content string) string {
	if m.renderer == nil {
		return content
	}
	out, err := m.renderer.Render(content)
	if err != nil {
		return content
	}
	return strings.TrimSpace(out)
}

func truncateLines(s string, n int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= n {
		return s
	}
	return strings.Join(lines[len(lines)-n:], "\n")
}
