package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/opptree/pkg/core/key"
	"github.com/matzehuels/opptree/pkg/core/record"
	rt "github.com/matzehuels/opptree/pkg/core/record/recordtest"
	"github.com/matzehuels/opptree/pkg/core/tree"
	"github.com/matzehuels/opptree/pkg/core/visible"
)

func browseModel(t *testing.T) BrowseModel {
	t.Helper()
	goals := []*record.Goal{
		rt.Goal("g1",
			rt.Opp("o1", rt.Sols("s", 10)...),
			rt.Opp("o2", rt.Sol("x", rt.Exp("e1"))),
		),
	}
	f := tree.Build(goals, nil, tree.Options{})
	// g1, o1, s-0, s-1, +8 more, o2, x, e1
	return NewBrowseModel(f, visible.Options{Cap: 2}, "")
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, m BrowseModel, keys ...string) BrowseModel {
	t.Helper()
	for _, k := range keys {
		next, _ := m.Update(keyMsg(k))
		bm, ok := next.(BrowseModel)
		if !ok {
			t.Fatalf("Update returned %T", next)
		}
		m = bm
	}
	return m
}

func selectedKey(t *testing.T, m BrowseModel) string {
	t.Helper()
	n, ok := m.Selected()
	if !ok {
		t.Fatal("nothing selected")
	}
	return n.Key
}

func TestBrowseModel_Navigate(t *testing.T) {
	m := browseModel(t)
	if m.Rows() != 8 {
		t.Fatalf("rows = %d, want 8", m.Rows())
	}

	m = press(t, m, "up")
	if m.Cursor != 0 {
		t.Errorf("cursor moved above first row: %d", m.Cursor)
	}
	m = press(t, m, "down", "j")
	if got := selectedKey(t, m); got != "solution:s-0" {
		t.Errorf("selected = %s, want solution:s-0", got)
	}
	m = press(t, m, "k")
	if got := selectedKey(t, m); got != "opportunity:o1" {
		t.Errorf("selected = %s, want opportunity:o1", got)
	}

	for range 20 {
		m = press(t, m, "down")
	}
	if m.Cursor != m.Rows()-1 {
		t.Errorf("cursor = %d, want last row %d", m.Cursor, m.Rows()-1)
	}
}

func TestBrowseModel_Collapse(t *testing.T) {
	m := press(t, browseModel(t), "down", "c")
	if !m.Collapsed["opportunity:o1"] {
		t.Fatal("o1 should be collapsed")
	}
	// g1, o1, o2, x, e1
	if m.Rows() != 5 {
		t.Errorf("rows = %d, want 5", m.Rows())
	}

	m = press(t, m, " ")
	if m.Collapsed["opportunity:o1"] || m.Rows() != 8 {
		t.Errorf("space should reopen o1: collapsed=%v rows=%d", m.Collapsed, m.Rows())
	}

	// leaves do not collapse
	m = press(t, m, "down", "c")
	if m.Rows() != 8 {
		t.Errorf("collapsing a leaf changed rows to %d", m.Rows())
	}
}

func TestBrowseModel_ExpandOverflow(t *testing.T) {
	m := press(t, browseModel(t), "down", "down", "down", "down")
	n, _ := m.Selected()
	if n.Kind != key.KindOverflow {
		t.Fatalf("selected %s, want the overflow node", n.Key)
	}

	m = press(t, m, "c")
	if !m.Expanded["opportunity:o1"] {
		t.Fatal("collapsing an overflow node should expand its parent")
	}
	if m.Rows() != 15 {
		t.Errorf("rows = %d, want 15", m.Rows())
	}

	m = press(t, m, "up", "e")
	if m.Expanded["solution:s-1"] != true {
		t.Errorf("e on a solution should expand it: %v", m.Expanded)
	}
}

func TestBrowseModel_Focus(t *testing.T) {
	m := press(t, browseModel(t), "down", "down", "down", "down", "down", "down", "enter")
	if m.Focus != "solution:x" {
		t.Fatalf("focus = %q, want solution:x", m.Focus)
	}
	if view := m.View(); !strings.Contains(view, "focus solution:x") {
		t.Errorf("view missing focus status:\n%s", view)
	}

	m = press(t, m, "f")
	if m.Focus != "" {
		t.Errorf("second f should clear focus, got %q", m.Focus)
	}
}

func TestBrowseModel_Quit(t *testing.T) {
	for _, k := range []string{"q", "esc", "ctrl+c"} {
		var msg tea.KeyMsg
		switch k {
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case "ctrl+c":
			msg = tea.KeyMsg{Type: tea.KeyCtrlC}
		default:
			msg = keyMsg(k)
		}
		_, cmd := browseModel(t).Update(msg)
		if cmd == nil {
			t.Errorf("%s: expected quit command", k)
			continue
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Errorf("%s: command did not quit", k)
		}
	}
}

func TestBrowseModel_WindowSize(t *testing.T) {
	next, _ := browseModel(t).Update(tea.WindowSizeMsg{Width: 80, Height: 8})
	if h := next.(BrowseModel).Height; h != 5 {
		t.Errorf("height = %d, want the minimum of 5", h)
	}
}
