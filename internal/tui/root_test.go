package tui

import (
	"io"
	"log/slog"
	"reflect"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/clive/forget-me-not/internal/clock"
	"github.com/clive/forget-me-not/internal/controller"
	"github.com/clive/forget-me-not/internal/lifecycle"
	"github.com/clive/forget-me-not/internal/prefs"
	"github.com/clive/forget-me-not/internal/taskstore"
)

var testNow = time.Date(2024, 6, 1, 9, 15, 0, 0, time.UTC)

// createTestModel returns a started, sized model over an in-memory store
// seeded with form
func createTestModel(t *testing.T, form string) (Model, *taskstore.Store) {
	t.Helper()
	store := taskstore.New(prefs.NewMemory())
	if form != "" {
		if err := store.Save(form); err != nil {
			t.Fatal(err)
		}
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctrl := controller.New(store, clock.NewReceiver(func() time.Time { return testNow }), logger)

	m := NewRootModel(ctrl, Options{Logger: logger, Debug: true})
	m = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	m = update(t, m, screenStartMsg{})
	return m, store
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(Model)
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, m Model, keys ...tea.KeyMsg) Model {
	t.Helper()
	for _, k := range keys {
		m = update(t, m, k)
	}
	return m
}

func listed(m Model) []string {
	var out []string
	for _, task := range m.ctrl.Tasks() {
		out = append(out, task.Description)
	}
	return out
}

func stored(t *testing.T, s *taskstore.Store) string {
	t.Helper()
	form, err := s.Load()
	if err != nil {
		t.Fatal(err)
	}
	return form
}

var (
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyEsc   = tea.KeyMsg{Type: tea.KeyEsc}
	keyDown  = tea.KeyMsg{Type: tea.KeyDown}
)

func TestInitRequestsStart(t *testing.T) {
	m := NewRootModel(controller.New(taskstore.New(prefs.NewMemory()), nil, nil), Options{})
	cmd := m.Init()
	if cmd == nil {
		t.Fatal("Init returned nil command")
	}
	if _, ok := cmd().(screenStartMsg); !ok {
		t.Error("Init command did not produce screenStartMsg")
	}
	if m.ctrl.State() != lifecycle.Created {
		t.Errorf("Init touched the controller: %s", m.ctrl.State())
	}
}

func TestStartRestoresAndSchedulesTick(t *testing.T) {
	store := taskstore.New(prefs.NewMemory())
	_ = store.Save("milk,eggs,")
	ctrl := controller.New(store, clock.NewReceiver(func() time.Time { return testNow }), nil)
	m := NewRootModel(ctrl, Options{})

	next, cmd := m.Update(screenStartMsg{})
	m = next.(Model)

	if cmd == nil {
		t.Error("start did not schedule a tick")
	}
	if got := listed(m); !reflect.DeepEqual(got, []string{"milk", "eggs"}) {
		t.Errorf("restored %q", got)
	}
	if m.ctrl.State() != lifecycle.Resumed {
		t.Errorf("state = %s", m.ctrl.State())
	}
	if m.ctrl.Timestamp() != "2024-06-01 09:15" {
		t.Errorf("timestamp = %q", m.ctrl.Timestamp())
	}
}

func TestAddTaskThroughEntryScreen(t *testing.T) {
	m, store := createTestModel(t, "first,")

	m = press(t, m, runes("a"))
	if m.viewMode != ViewModeEntry {
		t.Fatalf("viewMode = %d, want entry", m.viewMode)
	}
	if m.ctrl.State() != lifecycle.Stopped {
		t.Errorf("list screen state while entry open = %s, want stopped", m.ctrl.State())
	}

	m = press(t, m, runes("buy milk"))
	next, cmd := m.Update(keyEnter)
	m = next.(Model)

	if m.viewMode != ViewModeList {
		t.Errorf("viewMode = %d after submit", m.viewMode)
	}
	if cmd == nil {
		t.Error("returning from entry did not restart ticks")
	}
	if got := listed(m); !reflect.DeepEqual(got, []string{"first", "buy milk"}) {
		t.Errorf("after add = %q", got)
	}
	if m.selectedIndex != 1 {
		t.Errorf("selectedIndex = %d, want new task selected", m.selectedIndex)
	}

	m = press(t, m, runes("q"))
	if got := stored(t, store); got != "first,buy milk," {
		t.Errorf("persisted %q", got)
	}
	if m.ctrl.State() != lifecycle.Destroyed {
		t.Errorf("state after quit = %s", m.ctrl.State())
	}
}

func TestCanceledEntryLeavesList(t *testing.T) {
	m, _ := createTestModel(t, "a,b,")

	m = press(t, m, runes("a"), runes("never mind"), keyEsc)

	if m.viewMode != ViewModeList {
		t.Errorf("viewMode = %d after cancel", m.viewMode)
	}
	if got := listed(m); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("after cancel = %q", got)
	}
	if m.ctrl.State() != lifecycle.Resumed {
		t.Errorf("state after cancel = %s", m.ctrl.State())
	}
}

func TestEmptyEntryStaysOpen(t *testing.T) {
	m, _ := createTestModel(t, "")

	m = press(t, m, runes("a"), keyEnter)
	if m.viewMode != ViewModeEntry {
		t.Errorf("empty submit closed the entry screen")
	}

	m = press(t, m, runes(" "), keyEnter)
	if got := listed(m); !reflect.DeepEqual(got, []string{" "}) {
		t.Errorf("whitespace entry = %q", got)
	}
}

func TestDeleteWithConfirmation(t *testing.T) {
	m, _ := createTestModel(t, "a,b,c,")

	m = press(t, m, keyDown, keyEnter)
	if m.viewMode != ViewModeConfirm {
		t.Fatalf("viewMode = %d, want confirm", m.viewMode)
	}
	if !strings.Contains(m.View(), "Delete task?") {
		t.Error("confirmation dialog not rendered")
	}

	m = press(t, m, runes("y"))
	if got := listed(m); !reflect.DeepEqual(got, []string{"a", "c"}) {
		t.Errorf("after delete = %q", got)
	}
	if m.viewMode != ViewModeList {
		t.Errorf("viewMode = %d after confirm", m.viewMode)
	}
}

func TestConfirmationSurvivesFocusRoundTrip(t *testing.T) {
	m, store := createTestModel(t, "a,b,")

	m = press(t, m, keyDown, keyEnter)
	m = update(t, m, tea.BlurMsg{})
	m = update(t, m, tea.FocusMsg{})

	if m.viewMode != ViewModeConfirm {
		t.Fatalf("viewMode = %d after focus, want confirm", m.viewMode)
	}
	if p, ok := m.ctrl.Pending(); !ok || p.Description != "b" {
		t.Fatalf("pending = %+v, %v", p, ok)
	}

	m = press(t, m, runes("y"))
	if got := listed(m); !reflect.DeepEqual(got, []string{"a"}) {
		t.Errorf("after delete = %q (status %q)", got, m.status)
	}
	m = update(t, m, tea.BlurMsg{})
	if got := stored(t, store); got != "a," {
		t.Errorf("stored %q", got)
	}
}

func TestConfirmationClosesWhenTaskChanged(t *testing.T) {
	m, store := createTestModel(t, "a,b,")

	m = press(t, m, keyDown, keyEnter)
	m = update(t, m, tea.BlurMsg{})
	if err := store.Save("z,"); err != nil {
		t.Fatal(err)
	}
	m = update(t, m, tea.FocusMsg{})

	if m.viewMode != ViewModeList {
		t.Errorf("viewMode = %d, want list", m.viewMode)
	}
	if _, ok := m.ctrl.Pending(); ok {
		t.Error("pending delete survived a changed list")
	}
	if !strings.Contains(m.status, "Delete canceled") {
		t.Errorf("status = %q", m.status)
	}
	m = press(t, m, runes("y"))
	if got := listed(m); !reflect.DeepEqual(got, []string{"z"}) {
		t.Errorf("list = %q", got)
	}
}

func TestAddKeysOpenEntry(t *testing.T) {
	for _, k := range []string{"a", "+"} {
		m, _ := createTestModel(t, "")
		m = press(t, m, runes(k))
		if m.viewMode != ViewModeEntry {
			t.Errorf("%q: viewMode = %d, want entry", k, m.viewMode)
		}
	}
	m, _ := createTestModel(t, "")
	if m = press(t, m, runes("n")); m.viewMode != ViewModeList {
		t.Errorf("n in the list: viewMode = %d", m.viewMode)
	}
}

func TestDismissConfirmation(t *testing.T) {
	for _, k := range []tea.KeyMsg{runes("n"), keyEsc} {
		m, _ := createTestModel(t, "a,b,")
		m = press(t, m, keyEnter, k)

		if got := listed(m); !reflect.DeepEqual(got, []string{"a", "b"}) {
			t.Errorf("dismiss with %q changed list to %q", k.String(), got)
		}
		if _, ok := m.ctrl.Pending(); ok {
			t.Errorf("dismiss with %q left a pending delete", k.String())
		}
	}
}

func TestDeleteLastTaskClampsSelection(t *testing.T) {
	m, _ := createTestModel(t, "a,b,")
	m = press(t, m, runes("G"), keyEnter, runes("y"))
	if m.selectedIndex != 0 {
		t.Errorf("selectedIndex = %d, want 0", m.selectedIndex)
	}
	m = press(t, m, keyEnter, runes("y"))
	if m.ctrl.Len() != 0 || m.selectedIndex != 0 {
		t.Errorf("len %d selected %d", m.ctrl.Len(), m.selectedIndex)
	}
	// selecting on an empty list is a no-op
	m = press(t, m, keyEnter)
	if m.viewMode != ViewModeList {
		t.Errorf("empty list opened viewMode %d", m.viewMode)
	}
}

func TestBlurPersistsAndStopsTicks(t *testing.T) {
	m, store := createTestModel(t, "")
	m = press(t, m, runes("a"), runes("x"), keyEnter)
	gen := m.ctrl.Generation()

	m = update(t, m, tea.BlurMsg{})
	if got := stored(t, store); got != "x," {
		t.Errorf("blur persisted %q", got)
	}

	next, cmd := m.Update(tickMsg{gen: gen, at: testNow.Add(time.Hour)})
	m = next.(Model)
	if cmd != nil {
		t.Error("tick while blurred rescheduled itself")
	}
	if m.ctrl.Timestamp() != "2024-06-01 09:15" {
		t.Errorf("timestamp moved while blurred: %q", m.ctrl.Timestamp())
	}

	next, cmd = m.Update(tea.FocusMsg{})
	m = next.(Model)
	if cmd == nil {
		t.Error("focus did not start a new tick stream")
	}
	if m.ctrl.Generation() == gen {
		t.Error("focus did not register a new generation")
	}

	// the old stream's tick is stale now
	_, cmd = m.Update(tickMsg{gen: gen, at: testNow})
	if cmd != nil {
		t.Error("stale tick rescheduled itself")
	}

	next, cmd = m.Update(tickMsg{gen: m.ctrl.Generation(), at: testNow.Add(time.Minute)})
	m = next.(Model)
	if cmd == nil {
		t.Error("current tick did not reschedule")
	}
	if m.ctrl.Timestamp() != "2024-06-01 09:16" {
		t.Errorf("timestamp = %q", m.ctrl.Timestamp())
	}
}

func TestRepeatedFocusIsIdempotent(t *testing.T) {
	m, _ := createTestModel(t, "a,")
	gen := m.ctrl.Generation()

	next, cmd := m.Update(tea.FocusMsg{})
	m = next.(Model)
	if cmd != nil || m.ctrl.Generation() != gen {
		t.Error("focus while resumed started a second tick stream")
	}

	m = update(t, m, tea.BlurMsg{})
	m = update(t, m, tea.BlurMsg{})
	if m.ctrl.State() != lifecycle.Stopped {
		t.Errorf("state after double blur = %s", m.ctrl.State())
	}
}

func TestFocusIgnoredWhileEntryOpen(t *testing.T) {
	m, _ := createTestModel(t, "")
	m = press(t, m, runes("a"))

	m = update(t, m, tea.FocusMsg{})
	if m.ctrl.State() != lifecycle.Stopped {
		t.Errorf("focus during entry moved list screen to %s", m.ctrl.State())
	}
	m = update(t, m, tea.ResumeMsg{})
	if m.ctrl.State() != lifecycle.Stopped {
		t.Errorf("resume during entry moved list screen to %s", m.ctrl.State())
	}
}

func TestSuspendPersistsThenResume(t *testing.T) {
	m, store := createTestModel(t, "a,")
	m = press(t, m, runes("a"), runes("b"), keyEnter)

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlZ})
	m = next.(Model)
	if cmd == nil {
		t.Fatal("suspend returned no command")
	}
	if _, ok := cmd().(tea.SuspendMsg); !ok {
		t.Error("suspend command did not suspend the program")
	}
	if got := stored(t, store); got != "a,b," {
		t.Errorf("suspend persisted %q", got)
	}

	m = update(t, m, tea.ResumeMsg{})
	if m.ctrl.State() != lifecycle.Resumed {
		t.Errorf("state after resume = %s", m.ctrl.State())
	}
}

func TestCtrlCQuitsFromEntry(t *testing.T) {
	m, store := createTestModel(t, "a,")
	m = press(t, m, runes("a"), runes("half typed"))

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	m = next.(Model)
	if cmd == nil {
		t.Fatal("ctrl+c returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("ctrl+c did not quit")
	}
	if got := stored(t, store); got != "a," {
		t.Errorf("persisted %q", got)
	}
	if m.View() != "" {
		t.Error("view not cleared on quit")
	}
}

func TestHelpToggle(t *testing.T) {
	m, _ := createTestModel(t, "")
	m = press(t, m, runes("?"))
	if m.viewMode != ViewModeHelp {
		t.Fatalf("viewMode = %d, want help", m.viewMode)
	}
	if !strings.Contains(m.View(), "Keyboard Shortcuts") {
		t.Error("help not rendered")
	}
	m = press(t, m, runes("?"))
	if m.viewMode != ViewModeList {
		t.Errorf("help did not close")
	}
}

func TestMainViewShowsTasksAndClock(t *testing.T) {
	m, _ := createTestModel(t, "water plants,call home,")
	view := m.View()
	for _, want := range []string{"FORGET ME NOT", "2024-06-01 09:15", "water plants", "call home", "Tasks: 2"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestListNumbersAlignPastNine(t *testing.T) {
	m, _ := createTestModel(t, "a,b,c,d,e,f,g,h,i,j,")
	m = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 60})
	view := m.View()
	for _, want := range []string{" 1", "10", "Tasks: 10"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestVisibleWindow(t *testing.T) {
	tests := []struct {
		n, selected, height int
		start, end          int
	}{
		{3, 0, 10, 0, 3},
		{20, 0, 5, 0, 5},
		{20, 10, 5, 8, 13},
		{20, 19, 5, 15, 20},
	}
	for _, tt := range tests {
		start, end := visibleWindow(tt.n, tt.selected, tt.height)
		if start != tt.start || end != tt.end {
			t.Errorf("visibleWindow(%d, %d, %d) = %d, %d, want %d, %d",
				tt.n, tt.selected, tt.height, start, end, tt.start, tt.end)
		}
		if tt.selected < start || tt.selected >= end {
			t.Errorf("selection %d outside window", tt.selected)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("héllo wörld", 6); got != "héllo…" {
		t.Errorf("truncate = %q", got)
	}
	if got := truncate("short", 10); got != "short" {
		t.Errorf("truncate = %q", got)
	}
}
