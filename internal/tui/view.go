package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const debugPanelHeight = 8

// View renders the current view
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Loading..."
	}

	switch m.viewMode {
	case ViewModeHelp:
		return m.helpView()
	case ViewModeEntry:
		return m.dialog(m.entryView())
	case ViewModeConfirm:
		return m.dialog(m.confirmView())
	default:
		return m.mainView()
	}
}

// mainView renders header, list, optional debug panel and status bar
func (m Model) mainView() string {
	header := m.renderHeader()
	statusBar := m.renderStatusBar()

	// header (1 line), status bar (1 line), list border (2 lines)
	listHeight := m.height - 4
	var debug string
	if m.debug.IsEnabled() {
		listHeight -= debugPanelHeight
		debug = m.debug.Render(m.width, debugPanelHeight)
	}
	if listHeight < 1 {
		listHeight = 1
	}

	parts := []string{header, m.renderList(m.width, listHeight)}
	if debug != "" {
		parts = append(parts, debug)
	}
	parts = append(parts, statusBar)
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// renderHeader renders the title and the time display
func (m Model) renderHeader() string {
	title := TitleStyle.Render("FORGET ME NOT")
	clock := ClockStyle.Render(m.ctrl.Timestamp())

	gap := m.width - lipgloss.Width(title) - lipgloss.Width(clock) - 2
	if gap < 1 {
		gap = 1
	}
	return lipgloss.NewStyle().
		PaddingLeft(1).
		Render(title + strings.Repeat(" ", gap) + clock)
}

// renderList renders the visible window of tasks around the selection
func (m Model) renderList(width, height int) string {
	tasks := m.ctrl.Tasks()
	innerWidth := width - 4 // border and padding
	if innerWidth < 10 {
		innerWidth = 10
	}

	var lines []string
	if len(tasks) == 0 {
		lines = append(lines, EmptyStyle.Render("Nothing to remember yet. Press a to add a task."))
	} else {
		start, end := visibleWindow(len(tasks), m.selectedIndex, height)
		numWidth := len(strconv.Itoa(len(tasks)))
		for i := start; i < end; i++ {
			num := TaskIndexStyle.Render(fmt.Sprintf("%*d", numWidth, i+1))
			text := truncate(oneLine(tasks[i].Description), innerWidth-numWidth-5)
			if i == m.selectedIndex {
				lines = append(lines, num+TaskSelectedStyle.Render("▸ "+text))
			} else {
				lines = append(lines, num+TaskStyle.Render("  "+text))
			}
		}
	}

	for len(lines) < height {
		lines = append(lines, "")
	}

	return ListStyle.
		Width(width - 2).
		Render(strings.Join(lines, "\n"))
}

// visibleWindow returns the [start, end) slice of n rows that fits height
// and contains selected
func visibleWindow(n, selected, height int) (int, int) {
	if height <= 0 || n <= height {
		return 0, n
	}
	start := selected - height/2
	if start < 0 {
		start = 0
	}
	if start > n-height {
		start = n - height
	}
	return start, start + height
}

// renderStatusBar renders the task count, last action and key hints
func (m Model) renderStatusBar() string {
	mutedStyle := lipgloss.NewStyle().Foreground(ColorFgMuted)

	count := mutedStyle.Render("Tasks: " + strconv.Itoa(m.ctrl.Len()))

	var status string
	if m.status != "" {
		style := SuccessStyle
		if m.statusErr {
			style = ErrorStyle
		}
		status = mutedStyle.Render(" │ ") + style.Render(m.status)
	}

	hints := mutedStyle.Render(" │ ") + m.help.ShortHelpView(m.keys.ShortHelp())

	return StatusBarStyle.Render(count + status + hints)
}

// confirmView renders the delete confirmation with the task's full text
func (m Model) confirmView() string {
	p, ok := m.ctrl.Pending()
	if !ok {
		return ""
	}

	bodyWidth := m.width - 12
	if bodyWidth > 60 {
		bodyWidth = 60
	}
	if bodyWidth < 20 {
		bodyWidth = 20
	}

	title := DialogTitleStyle.Render("Delete task?")
	body := DialogBodyStyle.Width(bodyWidth).Render(p.Description)
	hints := m.help.ShortHelpView(dialogHelp{m.keys.Confirm, m.keys.Dismiss}.ShortHelp())

	return title + "\n\n" + body + "\n\n" + hints
}

// entryView renders the task entry screen
func (m Model) entryView() string {
	title := DialogTitleStyle.Render("New task")
	hints := m.help.ShortHelpView(dialogHelp{m.keys.Submit, m.keys.Cancel}.ShortHelp())
	return title + "\n\n" + m.entry.View() + "\n\n" + hints
}

// dialog centers content in a bordered box
func (m Model) dialog(content string) string {
	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		DialogStyle.Render(content),
	)
}

// helpView renders the help overlay
func (m Model) helpView() string {
	title := HelpTitleStyle.Render("Keyboard Shortcuts")

	h := m.help
	h.ShowAll = true
	content := title + "\n\n" + h.View(m.keys) + "\n\n" +
		HelpDescStyle.Render("Tasks are saved whenever the screen loses focus, is suspended or quits.") + "\n" +
		DimStyle.Render("Press ? or Esc to close")

	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		HelpStyle.Render(content),
	)
}
