package tui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

const chromeHeight = 2 // header + status line

// Update handles messages.
func (m *WatchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.vp = viewport.New(msg.Width, msg.Height-chromeHeight)
			m.ready = true
		} else {
			m.vp.Width = msg.Width
			m.vp.Height = msg.Height - chromeHeight
		}
		m.refreshViewport()
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case lineMsg:
		m.received++
		if m.paused {
			m.pending = append(m.pending, string(msg))
		} else {
			m.appendLines(string(msg))
			m.refreshViewport()
		}
		return m, m.waitForLine()

	case streamClosedMsg:
		m.closed = true
		m.closeErr = msg.err
		return m, nil
	}

	return m, nil
}

func (m *WatchModel) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit), key.Matches(msg, m.keys.ForceQuit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Pause):
		m.paused = !m.paused
		if !m.paused && len(m.pending) > 0 {
			m.appendLines(m.pending...)
			m.pending = nil
		}
		m.refreshViewport()
		return m, nil

	case key.Matches(msg, m.keys.Clear):
		m.lines = nil
		m.pending = nil
		m.refreshViewport()
		return m, nil

	case key.Matches(msg, m.keys.Home):
		m.vp.GotoTop()
		return m, nil

	case key.Matches(msg, m.keys.End):
		m.vp.GotoBottom()
		return m, nil
	}

	// Everything else (arrows, paging, mouse wheel) is the viewport's.
	var cmd tea.Cmd
	m.vp, cmd = m.vp.Update(msg)
	return m, cmd
}
