// Package tui provides a Bubble Tea browser over captured command records.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/fakeyudi/cco/internal/session"
)

// ── Styles ────────────

// styles are built by New so that only the browser touches the renderer.
type styles struct {
	title, selectedRow, currentBadge, time, dim, separator, statusBar lipgloss.Style
}

func newStyles() styles {
	return styles{
		title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("62")).
			Padding(0, 2),
		selectedRow: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("237")),
		currentBadge: lipgloss.NewStyle().Foreground(lipgloss.Color("82")).Bold(true),
		time:         lipgloss.NewStyle().Foreground(lipgloss.Color("178")),
		dim:          lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		separator:    lipgloss.NewStyle().Foreground(lipgloss.Color("238")),
		statusBar: lipgloss.NewStyle().
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("245")).
			Padding(0, 1),
	}
}

// Action is what the user chose to do with the selected record.
type Action int

const (
	ActionNone Action = iota
	ActionCopy
	ActionPrint
)

// Result is the outcome of a browsing session.
type Result struct {
	Record session.Record
	Action Action
}

// ── Model ────────────────────

// Model is the root Bubble Tea model for the record browser.
type Model struct {
	records []session.Record
	current string // session id of the invoking terminal
	cursor  int
	offset  int
	preview viewport.Model
	width   int
	height  int
	ready   bool
	result  Result
	now     func() time.Time
	st      styles
}

// New creates a browser over records, newest first. current marks the
// invoking session's record.
func New(records []session.Record, current string) Model {
	return Model{records: records, current: current, now: time.Now, st: newStyles()}
}

// Result returns the user's choice once the program has exited.
func (m Model) Result() Result { return m.result }

// ── Bubble Tea interface ───────────────

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
				m.syncPreview()
			}
			return m, nil
		case "down", "j":
			if m.cursor < len(m.records)-1 {
				m.cursor++
				m.syncPreview()
			}
			return m, nil
		case "enter", "c":
			return m.choose(ActionCopy)
		case "p":
			return m.choose(ActionPrint)
		}
		var cmd tea.Cmd
		m.preview, cmd = m.preview.Update(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.preview = viewport.New(m.width, m.previewHeight())
		m.syncPreview()
		return m, nil
	}
	return m, nil
}

func (m Model) choose(a Action) (tea.Model, tea.Cmd) {
	if len(m.records) == 0 {
		return m, nil
	}
	m.result = Result{Record: m.records[m.cursor], Action: a}
	return m, tea.Quit
}

func (m Model) View() string {
	if !m.ready {
		return "Loading…"
	}

	title := m.st.title.Width(m.width).Render(fmt.Sprintf("  cco  %d captured sessions", len(m.records)))

	var rows []string
	if len(m.records) == 0 {
		rows = append(rows, m.st.dim.Render("  (no captured output)"))
	}
	for i := m.offset; i < len(m.records) && i < m.offset+m.listHeight(); i++ {
		rows = append(rows, m.renderRow(i))
	}
	list := strings.Join(rows, "\n")
	sep := m.st.separator.Render(strings.Repeat("─", max(m.width, 1)))

	hint := "  ↑/↓ select  enter copy  p print  pgup/pgdn scroll  q quit"
	pct := fmt.Sprintf("%3.0f%%", m.preview.ScrollPercent()*100)
	pad := m.width - lipgloss.Width(hint) - len(pct) - 2
	if pad < 1 {
		pad = 1
	}
	statusBar := m.st.statusBar.Width(m.width).Render(hint + strings.Repeat(" ", pad) + pct)

	return lipgloss.JoinVertical(lipgloss.Left, title, list, sep, m.preview.View(), statusBar)
}

// ── Layout ───────────────────

// listHeight is a third of the screen, at least one row.
func (m *Model) listHeight() int {
	h := (m.height - 3) / 3
	if n := len(m.records); n > 0 && n < h {
		h = n
	}
	return max(h, 1)
}

func (m *Model) previewHeight() int {
	// title(1) + separator(1) + statusBar(1) = 3 fixed rows
	return max(m.height-3-m.listHeight(), 1)
}

func (m *Model) syncPreview() {
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if h := m.listHeight(); m.cursor >= m.offset+h {
		m.offset = m.cursor - h + 1
	}
	if len(m.records) == 0 {
		m.preview.SetContent("")
		return
	}
	rec := m.records[m.cursor]
	m.preview.SetContent(m.st.time.Render("$ ") + rec.Command + "\n" + rec.Output)
	m.preview.GotoTop()
}

func (m *Model) renderRow(i int) string {
	rec := m.records[i]
	badge := "  "
	if rec.SessionID == m.current {
		badge = m.st.currentBadge.Render("● ")
	}
	age := humanize.RelTime(rec.Time(), m.now(), "ago", "from now")
	line := fmt.Sprintf("%s%-16s  %s", badge, m.st.time.Render(age), firstLine(rec.Command))
	if i == m.cursor {
		return m.st.selectedRow.Width(max(m.width-2, 1)).Render(line)
	}
	return line
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i] + " …"
	}
	return s
}

// Run starts the browser and returns the user's choice.
func Run(records []session.Record, current string) (Result, error) {
	p := tea.NewProgram(New(records, current), tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return Result{}, err
	}
	return final.(Model).Result(), nil
}
