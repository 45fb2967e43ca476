package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/shelfconv/pkg/macro"
	"github.com/matzehuels/shelfconv/pkg/netlist"
)

func testMacros() []*macro.Macro {
	return []*macro.Macro{
		{Name: "Mac_0", Width: 4, Height: 12, Instances: 2, Pins: []macro.Pin{{Name: "I0"}}},
		{Name: "Mac_1", Width: 8, Height: 12, Instances: 5},
		{Name: "Mac_2", Width: 10, Height: 10, Fixed: true, Instances: 1, Pins: []macro.Pin{
			{Name: "I0", Direction: netlist.Input},
			{Name: "O0", Direction: netlist.Output, Offset: netlist.Offset{X: 1.5}},
		}},
	}
}

func press(m tea.Model, keys ...string) tea.Model {
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		case "up":
			msg = tea.KeyMsg{Type: tea.KeyUp}
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		m, _ = m.Update(msg)
	}
	return m
}

func TestMacroListNavigation(t *testing.T) {
	m := press(newMacroListModel("demo", testMacros()), "down", "down", "down", "up")
	if got := m.(MacroListModel).Cursor; got != 1 {
		t.Errorf("Cursor = %d, want 1", got)
	}

	m = press(m, "up", "up")
	if got := m.(MacroListModel).Cursor; got != 0 {
		t.Errorf("Cursor = %d, want 0 at the top", got)
	}
}

func TestMacroListSort(t *testing.T) {
	tests := []struct {
		presses int
		want    []string
	}{
		{0, []string{"Mac_0", "Mac_1", "Mac_2"}},
		{1, []string{"Mac_1", "Mac_0", "Mac_2"}}, // instances
		{2, []string{"Mac_2", "Mac_1", "Mac_0"}}, // area
		{3, []string{"Mac_2", "Mac_0", "Mac_1"}}, // pins
		{4, []string{"Mac_0", "Mac_1", "Mac_2"}}, // back to declared
	}

	for _, tt := range tests {
		var m tea.Model = newMacroListModel("demo", testMacros())
		for range tt.presses {
			m = press(m, "s")
		}
		var got []string
		for _, x := range m.(MacroListModel).Macros {
			got = append(got, x.Name)
		}
		if strings.Join(got, ",") != strings.Join(tt.want, ",") {
			t.Errorf("after %d presses order = %v, want %v", tt.presses, got, tt.want)
		}
	}
}

func TestMacroListScrolls(t *testing.T) {
	var m tea.Model = newMacroListModel("demo", testMacros())
	m, _ = m.Update(tea.WindowSizeMsg{Width: 80, Height: 10}) // Height clamps to 5
	mm := m.(MacroListModel)
	mm.Height = 2
	m = press(mm, "down", "down")
	if got := m.(MacroListModel).Offset; got != 1 {
		t.Errorf("Offset = %d, want 1", got)
	}
}

func TestMacroListView(t *testing.T) {
	m := press(newMacroListModel("demo", testMacros()), "down", "down", "enter")
	view := m.View()
	for _, want := range []string{"Macros of demo", "Mac_2", "BLOCK", "Pins of Mac_2", "O0"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestMacroListQuit(t *testing.T) {
	_, cmd := newMacroListModel("demo", testMacros()).Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("q should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}

func TestRenderMacroTablePlain(t *testing.T) {
	out := renderMacroTable(testMacros(), -1, 0, 3)
	for _, want := range []string{"Macro", "Instances", "4 x 12", "CORE", "BLOCK"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q", want)
		}
	}
}
