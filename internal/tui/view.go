package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func (m *WatchModel) View() string {
	if !m.ready {
		return "Connecting to logtapd..."
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		m.vp.View(),
		m.renderStatusLine(),
	)
}

// renderBranding renders "logtap" with a green to light blue gradient.
func renderBranding() string {
	colors := []string{
		"#49E209", // Green (l)
		"#35DD2F", // (o)
		"#21D955", // (g)
		"#0DD47B", // (t)
		"#00D0A1", // (a)
		"#00CAC7", // (p)
	}

	chars := []string{"l", "o", "g", "t", "a", "p"}

	var result string
	for i, char := range chars {
		style := lipgloss.NewStyle().
			Background(ColorNavy).
			Foreground(lipgloss.Color(colors[i])).Bold(true)
		result += style.Render(char)
	}

	return result
}

// renderHeader renders the top bar: branding, stream source, and a
// connectivity dot.
func (m *WatchModel) renderHeader() string {
	baseStyle := lipgloss.NewStyle().
		Background(ColorNavy).
		Foreground(ColorWhite)

	var dot string
	if m.closed {
		dot = lipgloss.NewStyle().Background(ColorNavy).Foreground(ColorRed).Render("●")
	} else {
		dot = lipgloss.NewStyle().Background(ColorNavy).Foreground(ColorGreen).Render("●")
	}

	leftText := renderBranding() + baseStyle.Render("  "+m.source)
	rightText := dot

	leftWidth := lipgloss.Width(leftText)
	rightWidth := lipgloss.Width(rightText) + 1
	padWidth := m.width - leftWidth - rightWidth
	if padWidth < 0 {
		padWidth = 0
	}

	return leftText + baseStyle.Width(padWidth).Render("") + rightText + baseStyle.Render(" ")
}

// renderStatusLine renders the bottom bar: stream state on the left,
// key help in the center, and the received-line count on the right.
func (m *WatchModel) renderStatusLine() string {
	baseStyle := lipgloss.NewStyle().
		Background(ColorNavy).
		Foreground(ColorWhite)

	w := m.width
	narrow := w < 80

	var leftText string
	switch {
	case m.closed && m.closeErr != nil:
		leftText = fmt.Sprintf("stream error: %v", m.closeErr)
	case m.closed:
		leftText = "stream closed"
	case m.paused:
		leftText = fmt.Sprintf("⏸ Paused (%d held)", len(m.pending))
	default:
		leftText = "● Live"
	}

	var statusText string
	if narrow {
		statusText = "Space: Pause • c: Clear • q: Quit"
	} else {
		statusText = "↑↓: Scroll • PgUp/PgDn: Page • End: Latest • Space: Pause • c: Clear • q: Quit"
	}

	rightText := fmt.Sprintf("%d events", m.received)

	leftWidth := lipgloss.Width(leftText) + 2
	rightWidth := lipgloss.Width(rightText) + 2
	if leftWidth+rightWidth >= w {
		if w < 20 {
			return baseStyle.Width(w).Render(leftText)
		}
		statusText = ""
	}

	centerWidth := w - leftWidth - rightWidth
	if centerWidth < 0 {
		centerWidth = 0
	}

	if lipgloss.Width(statusText) > centerWidth {
		statusText = strings.TrimSpace(statusText[:max(0, centerWidth-1)])
	}

	leftPart := baseStyle.Align(lipgloss.Left).Width(leftWidth).Render(" " + leftText)
	centerPart := baseStyle.Align(lipgloss.Center).Width(centerWidth).Render(statusText)
	rightPart := baseStyle.Align(lipgloss.Right).Width(rightWidth).Render(rightText + " ")

	return lipgloss.JoinHorizontal(lipgloss.Top, leftPart, centerPart, rightPart)
}
