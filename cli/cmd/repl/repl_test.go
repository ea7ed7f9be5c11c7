package repl

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/nengo/lang"
)

func newTestModel(t *testing.T, lines ...string) model {
	t.Helper()

	h := NewHistory("")
	for _, line := range lines {
		if err := h.Add(line, modeEval); err != nil {
			t.Fatal(err)
		}
	}

	now := time.Date(2024, time.February, 28, 15, 30, 0, 0, time.UTC)

	return newModel(context.Background(), Config{
		Options: []lang.Option{lang.WithClock(lang.FixedClock(now)), lang.WithLocation(time.UTC)},
	}, h)
}

func typeText(t *testing.T, m model, text string) model {
	t.Helper()

	for _, r := range text {
		next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		m = next.(model)
	}

	return m
}

func press(t *testing.T, m model, key tea.KeyType) (model, tea.Cmd) {
	t.Helper()

	next, cmd := m.Update(tea.KeyMsg{Type: key})

	return next.(model), cmd
}

func TestModel_CompletesKeyword(t *testing.T) {
	m := typeText(t, newTestModel(t), "n")

	if len(m.matches) != 1 || m.matches[0].Str != "now" {
		t.Fatalf("matches = %v, want [now]", m.matches)
	}

	m, _ = press(t, m, tea.KeyTab)

	if got := m.input.Value(); got != "now" {
		t.Errorf("input after Tab = %q, want %q", got, "now")
	}

	if m.matches != nil {
		t.Errorf("matches after completion = %v, want none", m.matches)
	}
}

func TestModel_CompletesLiteralFromHistory(t *testing.T) {
	m := newTestModel(t, "2020年9月8日 - 2020年3月4日")
	m = typeText(t, m, "now - 2020年3")

	found := false

	for _, match := range m.matches {
		if match.Str == "2020年3月4日" {
			found = true
		}
	}

	if !found {
		t.Fatalf("matches = %v, want 2020年3月4日 among them", m.matches)
	}
}

func TestModel_Preview(t *testing.T) {
	m := typeText(t, newTestModel(t), "2020年9月8日 + 4日")

	if want := "= 2020年9月12日"; m.hint != want {
		t.Errorf("hint = %q, want %q", m.hint, want)
	}

	if !strings.Contains(m.View(), "2020年9月12日") {
		t.Errorf("View() = %q, want preview", m.View())
	}

	m = typeText(t, m, " *")
	if m.hint != "" {
		t.Errorf("hint for incomplete input = %q, want empty", m.hint)
	}
}

func TestModel_Execute(t *testing.T) {
	m := typeText(t, newTestModel(t), "2020年9月8日 - 2020年3月4日")

	m, cmd := press(t, m, tea.KeyEnter)
	if cmd == nil {
		t.Fatal("Enter returned no command")
	}

	if got := m.input.Value(); got != "" {
		t.Errorf("input after Enter = %q, want empty", got)
	}

	if m.last != "2020年9月8日 - 2020年3月4日" {
		t.Errorf("last = %q", m.last)
	}

	if m.history.Len() != 1 {
		t.Errorf("history length = %d, want 1", m.history.Len())
	}

	if len(m.literals) != 2 {
		t.Errorf("literals = %q, want both dates", m.literals)
	}

	if view := m.tokensView(""); !strings.Contains(view, "2020年3月4日") {
		t.Errorf("tokensView() = %q, want postfix of last expression", view)
	}
}

func TestModel_ToggleMode(t *testing.T) {
	m := typeText(t, newTestModel(t), "now")

	m, _ = press(t, m, tea.KeyEsc)
	if m.mode != modeCtrl || m.input.Value() != "" {
		t.Fatalf("after Esc: mode = %d, input = %q", m.mode, m.input.Value())
	}

	m = typeText(t, m, "tok")
	if len(m.matches) == 0 || m.matches[0].Str != "tokens" {
		t.Errorf("ctrl matches = %v, want tokens first", m.matches)
	}

	m, _ = press(t, m, tea.KeyEsc) // dismisses nothing: not tab-cycling
	if m.mode != modeEval || m.input.Value() != "now" {
		t.Errorf("after second Esc: mode = %d, input = %q", m.mode, m.input.Value())
	}
}

func TestModel_HistoryNavigation(t *testing.T) {
	m := newTestModel(t, "1日", "2日")

	m, _ = press(t, m, tea.KeyUp)
	if got := m.input.Value(); got != "2日" {
		t.Errorf("Up = %q, want %q", got, "2日")
	}

	m, _ = press(t, m, tea.KeyUp)
	if got := m.input.Value(); got != "1日" {
		t.Errorf("Up Up = %q, want %q", got, "1日")
	}

	m, _ = press(t, m, tea.KeyDown)
	m, _ = press(t, m, tea.KeyDown)

	if got := m.input.Value(); got != "" || m.historyIdx != m.history.Len() {
		t.Errorf("past newest: input = %q, index = %d", got, m.historyIdx)
	}
}

func TestModel_Quit(t *testing.T) {
	m, cmd := press(t, newTestModel(t), tea.KeyCtrlD)
	if !m.quitting || cmd == nil {
		t.Errorf("Ctrl+D on empty input: quitting = %v", m.quitting)
	}

	if m.View() != "" {
		t.Errorf("View() after quit = %q, want empty", m.View())
	}
}
