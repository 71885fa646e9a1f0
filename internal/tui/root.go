package tui

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/clive/forget-me-not/internal/controller"
)

// ViewMode represents the current view
type ViewMode int

const (
	ViewModeList    ViewMode = iota // Task list
	ViewModeConfirm                 // Delete confirmation dialog
	ViewModeEntry                   // Task entry screen
	ViewModeHelp                    // Help overlay
)

// Messages

// screenStartMsg is the host's first lifecycle delivery
type screenStartMsg struct{}

// tickMsg is a time signal scheduled under a receiver generation
type tickMsg struct {
	gen uint64
	at  time.Time
}

// Options configures the root model
type Options struct {
	// TickInterval overrides the once-a-minute wall clock tick
	TickInterval time.Duration
	Debug        bool
	Logger       *slog.Logger
}

// Model is the root Bubble Tea model
type Model struct {
	// Terminal dimensions
	width  int
	height int

	// View state
	viewMode ViewMode
	ready    bool

	ctrl          *controller.Controller
	selectedIndex int

	// Task entry screen
	entry textinput.Model

	// Status line
	status    string
	statusErr bool

	tickInterval time.Duration
	logger       *slog.Logger

	keys  KeyMap
	help  help.Model
	debug DebugPanel

	quitting bool
}

// NewRootModel creates the screen around a controller in the Created state
func NewRootModel(ctrl *controller.Controller, opts Options) Model {
	ti := textinput.New()
	ti.Placeholder = "What do you need to remember?"
	ti.Prompt = "❯ "
	ti.PromptStyle = InputPromptStyle
	ti.CharLimit = 0 // No limit
	ti.Width = 50

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return Model{
		viewMode:     ViewModeList,
		ctrl:         ctrl,
		entry:        ti,
		tickInterval: opts.TickInterval,
		logger:       logger,
		keys:         DefaultKeyMap(),
		help:         help.New(),
		debug:        NewDebugPanel(opts.Debug),
	}
}

// Init asks for the first lifecycle transition. The controller is only
// touched from Update.
func (m Model) Init() tea.Cmd {
	return func() tea.Msg {
		return screenStartMsg{}
	}
}

// tickCmd schedules the next time signal for generation gen
func (m Model) tickCmd(gen uint64) tea.Cmd {
	fn := func(t time.Time) tea.Msg {
		return tickMsg{gen: gen, at: t}
	}
	if m.tickInterval > 0 {
		return tea.Tick(m.tickInterval, fn)
	}
	// Fires on the minute, like the system time tick
	return tea.Every(time.Minute, fn)
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.help.Width = msg.Width

		inputWidth := m.width - 16 // dialog border, padding and prompt
		if inputWidth > 70 {
			inputWidth = 70
		}
		if inputWidth < 10 {
			inputWidth = 10
		}
		m.entry.Width = inputWidth
		return m, nil

	case screenStartMsg:
		cmd := m.foreground("start")
		return m, cmd

	case tea.FocusMsg:
		// The entry screen owns the foreground while it is open
		if m.viewMode == ViewModeEntry {
			return m, nil
		}
		cmd := m.foreground("focus")
		return m, cmd

	case tea.BlurMsg:
		m.background("blur")
		return m, nil

	case tea.ResumeMsg:
		if m.viewMode == ViewModeEntry {
			return m, nil
		}
		cmd := m.foreground("resume")
		return m, cmd

	case tickMsg:
		if m.ctrl.Tick(msg.gen, msg.at) {
			return m, m.tickCmd(msg.gen)
		}
		// Stale or paused: let this tick stream end
		m.debug.AddEvent("tick", fmt.Sprintf("dropped gen=%d", msg.gen))
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Interrupt) {
			return m.quit()
		}

		switch m.viewMode {
		case ViewModeEntry:
			return m.updateEntry(msg)
		case ViewModeConfirm:
			return m.updateConfirm(msg)
		case ViewModeHelp:
			if key.Matches(msg, m.keys.Help, m.keys.Cancel, m.keys.Quit) {
				m.viewMode = ViewModeList
			}
			return m, nil
		default:
			return m.updateList(msg)
		}
	}

	return m, nil
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	n := m.ctrl.Len()

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()

	case key.Matches(msg, m.keys.Suspend):
		m.background("suspend")
		return m, tea.Suspend

	case key.Matches(msg, m.keys.Help):
		m.viewMode = ViewModeHelp

	case key.Matches(msg, m.keys.Up):
		if m.selectedIndex > 0 {
			m.selectedIndex--
		}

	case key.Matches(msg, m.keys.Down):
		if m.selectedIndex < n-1 {
			m.selectedIndex++
		}

	case key.Matches(msg, m.keys.Home):
		m.selectedIndex = 0

	case key.Matches(msg, m.keys.End):
		if n > 0 {
			m.selectedIndex = n - 1
		}

	case key.Matches(msg, m.keys.Add):
		return m.openEntry()

	case key.Matches(msg, m.keys.Select):
		if n == 0 {
			return m, nil
		}
		if _, err := m.ctrl.SelectTask(m.selectedIndex); err != nil {
			m.setError("select task", err)
			return m, nil
		}
		m.viewMode = ViewModeConfirm
	}

	return m, nil
}

func (m Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		t, err := m.ctrl.ConfirmDelete()
		m.viewMode = ViewModeList
		if err != nil {
			m.setError("delete task", err)
			break
		}
		m.setStatus("Deleted “" + truncate(t.Description, 40) + "”")
		m.clampSelection()

	case key.Matches(msg, m.keys.Dismiss):
		m.ctrl.DismissDelete()
		m.viewMode = ViewModeList
	}
	return m, nil
}

// openEntry launches the task entry screen; the list screen goes to the
// background until a result comes back
func (m Model) openEntry() (tea.Model, tea.Cmd) {
	if err := m.ctrl.LaunchEntry(); err != nil {
		m.setError("save tasks", err)
	}
	m.debug.AddEvent("lifecycle", "entry opened, "+m.ctrl.State().String())

	m.viewMode = ViewModeEntry
	m.entry.Reset()
	cmd := m.entry.Focus()
	return m, cmd
}

func (m Model) updateEntry(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		return m.closeEntry(controller.Canceled())

	case key.Matches(msg, m.keys.Submit):
		text := m.entry.Value()
		if text == "" {
			return m, nil
		}
		return m.closeEntry(controller.Success(text))
	}

	var cmd tea.Cmd
	m.entry, cmd = m.entry.Update(msg)
	return m, cmd
}

func (m Model) closeEntry(result controller.EntryResult) (tea.Model, tea.Cmd) {
	m.entry.Blur()
	m.viewMode = ViewModeList

	gen, err := m.ctrl.HandleEntryResult(result)
	if err != nil {
		m.setError("return from entry", err)
	} else if result.OK {
		m.setStatus("Added “" + truncate(result.Text, 40) + "”")
	}
	if result.OK && err == nil {
		m.selectedIndex = m.ctrl.Len() - 1
	}
	m.clampSelection()
	m.debug.AddEvent("lifecycle", fmt.Sprintf("entry closed ok=%v, %s", result.OK, m.ctrl.State()))

	if gen == 0 {
		return m, nil
	}
	return m, m.tickCmd(gen)
}

// foreground resumes the screen and starts a tick stream for the new
// receiver generation
func (m *Model) foreground(reason string) tea.Cmd {
	pending, hadPending := m.ctrl.Pending()
	gen, err := m.ctrl.Foreground()
	if err != nil {
		m.setError("restore tasks", err)
	}
	m.clampSelection()
	if m.viewMode == ViewModeConfirm {
		m.reselect(pending, hadPending)
	}
	m.debug.AddEvent("lifecycle", fmt.Sprintf("%s → %s gen=%d", reason, m.ctrl.State(), gen))
	m.logger.Debug("screen foregrounded", "reason", reason, "state", m.ctrl.State().String(), "tasks", m.ctrl.Len())

	if gen == 0 {
		return nil
	}
	return m.tickCmd(gen)
}

// reselect keeps an open delete confirmation across a restore, which
// clears the controller's selection. If the task is gone the dialog closes.
func (m *Model) reselect(p controller.PendingDelete, ok bool) {
	if _, still := m.ctrl.Pending(); still {
		return
	}
	if tasks := m.ctrl.Tasks(); ok && p.Index < len(tasks) && tasks[p.Index].Description == p.Description {
		if _, err := m.ctrl.SelectTask(p.Index); err == nil {
			m.selectedIndex = p.Index
			return
		}
	}
	m.viewMode = ViewModeList
	m.setStatus("Delete canceled, the task list changed")
}

// background pauses and stops the screen, persisting the list
func (m *Model) background(reason string) {
	if err := m.ctrl.Background(); err != nil {
		m.setError("save tasks", err)
	}
	m.debug.AddEvent("lifecycle", reason+" → "+m.ctrl.State().String())
	m.logger.Debug("screen backgrounded", "reason", reason, "state", m.ctrl.State().String())
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.background("quit")
	if err := m.ctrl.Destroy(); err != nil {
		m.logger.Warn("destroy screen", "error", err)
	}
	m.quitting = true
	return m, tea.Quit
}

func (m *Model) clampSelection() {
	n := m.ctrl.Len()
	if m.selectedIndex >= n {
		m.selectedIndex = n - 1
	}
	if m.selectedIndex < 0 {
		m.selectedIndex = 0
	}
}

func (m *Model) setStatus(s string) {
	m.status = s
	m.statusErr = false
}

func (m *Model) setError(op string, err error) {
	m.logger.Error(op, "error", err)
	m.status = op + ": " + err.Error()
	m.statusErr = true
}

// Helper functions
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}

// oneLine keeps multi-line descriptions on a single list row
func oneLine(s string) string {
	s = strings.ReplaceAll(s, "\r", " ")
	return strings.ReplaceAll(s, "\n", " ")
}
