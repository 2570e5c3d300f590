// Package tui implements the logtap-watch terminal viewer: a scrolling
// view over the event stream a subscribed control-socket connection
// delivers, with priority coloring and pause/scrollback.
package tui

import (
	"bufio"
	"errors"
	"io"
	"strings"

	"github.com/logtap/logtap/internal/logparse"
	"github.com/logtap/logtap/internal/model"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// lineMsg carries one event line read from the subscription stream.
type lineMsg string

// streamClosedMsg reports the subscription stream ending. A nil err is a
// clean close (the daemon went away or shed this subscriber).
type streamClosedMsg struct {
	err error
}

// WatchModel is the Bubble Tea model for the event stream viewer.
type WatchModel struct {
	keys     KeyMap
	vp       viewport.Model
	reader   *bufio.Reader
	source   string
	maxLines int

	lines    []string
	pending  []string
	paused   bool
	received uint64
	closed   bool
	closeErr error

	width  int
	height int
	ready  bool
}

// NewWatchModel creates a viewer reading event lines from r. source is
// shown in the header, typically the daemon socket path. maxLines bounds
// the scrollback buffer.
func NewWatchModel(r io.Reader, source string, maxLines int) *WatchModel {
	if maxLines <= 0 {
		maxLines = model.DefaultLineBuffer
	}
	return &WatchModel{
		keys:     DefaultKeyMap(),
		reader:   bufio.NewReader(r),
		source:   source,
		maxLines: maxLines,
	}
}

func (m *WatchModel) Init() tea.Cmd {
	return m.waitForLine()
}

// waitForLine blocks on the next stream line. Update re-issues it after
// every lineMsg, so exactly one read is outstanding at a time.
func (m *WatchModel) waitForLine() tea.Cmd {
	r := m.reader
	return func() tea.Msg {
		line, err := r.ReadString('\n')
		if line != "" {
			return lineMsg(strings.TrimRight(line, "\n"))
		}
		if err != nil && !errors.Is(err, io.EOF) {
			return streamClosedMsg{err: err}
		}
		return streamClosedMsg{}
	}
}

func (m *WatchModel) appendLines(lines ...string) {
	m.lines = append(m.lines, lines...)
	if over := len(m.lines) - m.maxLines; over > 0 {
		m.lines = m.lines[over:]
	}
}

// refreshViewport re-renders the buffer into the viewport, keeping the
// view pinned to the latest line unless the user scrolled away or paused.
func (m *WatchModel) refreshViewport() {
	if !m.ready {
		return
	}
	follow := m.vp.AtBottom() && !m.paused

	rendered := make([]string, len(m.lines))
	for i, line := range m.lines {
		rendered[i] = PriorityStyle(logparse.Priority(line)).Render(line)
	}
	m.vp.SetContent(strings.Join(rendered, "\n"))

	if follow {
		m.vp.GotoBottom()
	}
}
