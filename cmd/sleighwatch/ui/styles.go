// Package ui provides the interactive terminal interface for
// sleighwatch: the live map, the event feed, and the compliance
// drafting panel.
package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Palette. Night-flight dark theme; the terminal is assumed dark, which
// is what every ops console here runs.
var (
	ColorSky       = lipgloss.Color("#0b1226")
	ColorLand      = lipgloss.Color("#2f4a3a")
	ColorSnow      = lipgloss.Color("#e8edf5")
	ColorSleigh    = lipgloss.Color("#e53935")
	ColorWaypoint  = lipgloss.Color("#ffd54f")
	ColorDelivered = lipgloss.Color("#4db6ac")
	ColorMuted     = lipgloss.Color("#5a6a85")
	ColorBorder    = lipgloss.Color("#2a3850")
	ColorAccent    = lipgloss.Color("#8BC34A")
	ColorAlert     = lipgloss.Color("#e53935")
	ColorWarning   = lipgloss.Color("#FFC107")
	ColorInfo      = lipgloss.Color("#2196F3")
)

// Styles holds all the styled components.
type Styles struct {
	// Layout
	Header  lipgloss.Style
	Footer  lipgloss.Style
	MapPane lipgloss.Style
	Sidebar lipgloss.Style

	// Text
	Title  lipgloss.Style
	Body   lipgloss.Style
	Muted  lipgloss.Style
	Accent lipgloss.Style

	// Map glyphs
	Sky       lipgloss.Style
	Land      lipgloss.Style
	Sleigh    lipgloss.Style
	Waypoint  lipgloss.Style
	Delivered lipgloss.Style

	// Status
	Alert     lipgloss.Style
	Success   lipgloss.Style
	Warning   lipgloss.Style
	Info      lipgloss.Style
	Badge     lipgloss.Style
	StageIdle lipgloss.Style

	// Conversation
	UserMsg      lipgloss.Style
	AssistantMsg lipgloss.Style

	Spinner lipgloss.Style
}

// NewStyles creates the style set.
func NewStyles() Styles {
	return Styles{
		Header: lipgloss.NewStyle().
			Background(lipgloss.Color("#101F38")).
			Foreground(ColorSnow).
			Padding(0, 2).
			Bold(true),

		Footer: lipgloss.NewStyle().
			Foreground(ColorMuted).
			Padding(0, 2),

		MapPane: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder),

		Sidebar: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1),

		Title: lipgloss.NewStyle().
			Foreground(ColorSnow).
			Bold(true),

		Body: lipgloss.NewStyle().
			Foreground(ColorSnow),

		Muted: lipgloss.NewStyle().
			Foreground(ColorMuted),

		Accent: lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true),

		Sky:       lipgloss.NewStyle().Foreground(ColorSky),
		Land:      lipgloss.NewStyle().Foreground(ColorLand),
		Sleigh:    lipgloss.NewStyle().Foreground(ColorSleigh).Bold(true),
		Waypoint:  lipgloss.NewStyle().Foreground(ColorWaypoint),
		Delivered: lipgloss.NewStyle().Foreground(ColorDelivered),

		Alert: lipgloss.NewStyle().
			Foreground(ColorAlert).
			Bold(true),

		Success: lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true),

		Warning: lipgloss.NewStyle().
			Foreground(ColorWarning).
			Bold(true),

		Info: lipgloss.NewStyle().
			Foreground(ColorInfo),

		Badge: lipgloss.NewStyle().
			Background(ColorAccent).
			Foreground(lipgloss.Color("#101F38")).
			Padding(0, 1).
			Bold(true),

		StageIdle: lipgloss.NewStyle().
			Foreground(ColorMuted),

		UserMsg: lipgloss.NewStyle().
			Foreground(ColorSnow).
			PaddingLeft(2),

		AssistantMsg: lipgloss.NewStyle().
			Foreground(ColorSnow).
			PaddingLeft(2).
			BorderLeft(true).
			BorderStyle(lipgloss.ThickBorder()).
			BorderForeground(ColorAccent),

		Spinner: lipgloss.NewStyle().
			Foreground(ColorAccent),
	}
}

// RenderDivider returns a horizontal divider of the given width.
func (s Styles) RenderDivider(width int) string {
	if width <= 0 {
		return ""
	}
	return s.Muted.Render(strings.Repeat("─", width))
}
