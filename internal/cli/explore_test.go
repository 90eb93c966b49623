package cli

import (
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/graphplane/pkg/config"
	"github.com/matzehuels/graphplane/pkg/element"
	"github.com/matzehuels/graphplane/pkg/engine"
	"github.com/matzehuels/graphplane/pkg/scene"
)

func newTestExplorer(t *testing.T, body, output string) exploreModel {
	t.Helper()
	doc, err := scene.Unmarshal([]byte(body))
	if err != nil {
		t.Fatal(err)
	}
	run := engine.NewRunner(doc, nil, config.Default(), log.New(io.Discard))
	return newExploreModel(run, output)
}

func press(t *testing.T, m exploreModel, keys ...tea.KeyMsg) exploreModel {
	t.Helper()
	for _, k := range keys {
		next, _ := m.Update(k)
		m = next.(exploreModel)
	}
	return m
}

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestExploreStartsAtCenter(t *testing.T) {
	m := newTestExplorer(t, lineScene, "")
	if m.pointer.X != 0 || m.pointer.Y != 0 {
		t.Errorf("pointer = %v, want origin", m.pointer)
	}
	if len(m.selectable) != 1 || m.selectable[0] != "P" {
		t.Errorf("selectable = %v, want [P]", m.selectable)
	}
	if m.target == nil || m.target.ElementID != "l" {
		t.Errorf("target = %+v, want line l under the pointer", m.target)
	}
}

func TestExploreMoveKeys(t *testing.T) {
	m := newTestExplorer(t, lineScene, "")
	dx, dy := m.canvas().step()

	m = press(t, m, tea.KeyMsg{Type: tea.KeyRight}, runeKey('l'))
	if math.Abs(m.pointer.X-2*dx) > 1e-12 {
		t.Errorf("x = %v, want %v", m.pointer.X, 2*dx)
	}

	m = press(t, m, runeKey('k'))
	if math.Abs(m.pointer.Y-dy) > 1e-12 {
		t.Errorf("y = %v, want %v", m.pointer.Y, dy)
	}

	for range 200 {
		m = press(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	}
	if m.pointer.X != m.run.Doc.Axes.XMin {
		t.Errorf("x = %v, want clamped to %v", m.pointer.X, m.run.Doc.Axes.XMin)
	}
}

func TestExploreReleaseDragsSelectedPoint(t *testing.T) {
	m := newTestExplorer(t, lineScene, "")

	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if !strings.Contains(m.status, "tab selects") {
		t.Errorf("status = %q without selection", m.status)
	}

	m = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.selectedID() != "P" {
		t.Fatalf("selected = %q, want P", m.selectedID())
	}
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.err != nil {
		t.Fatalf("release: %v", m.err)
	}

	a, ok := m.run.Elements().Point("P").Anchor.(element.LineParam)
	if !ok || a.LineID != "l" || math.Abs(a.T-0.5) > 1e-9 {
		t.Errorf("anchor = %#v, want l at t=0.5", m.run.Elements().Point("P").Anchor)
	}
	if !strings.Contains(m.status, "snapped") {
		t.Errorf("status = %q", m.status)
	}

	m = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.selectedID() != "" {
		t.Errorf("tab past the last id selected %q", m.selectedID())
	}
}

func TestExploreSave(t *testing.T) {
	m := press(t, newTestExplorer(t, lineScene, ""), runeKey('s'))
	if m.status != "no --output file" {
		t.Errorf("status = %q", m.status)
	}

	out := filepath.Join(t.TempDir(), "out.json")
	m = press(t, newTestExplorer(t, lineScene, out), runeKey('s'))
	if m.err != nil {
		t.Fatalf("save: %v", m.err)
	}
	if m.saved != out {
		t.Errorf("saved = %q, want %q", m.saved, out)
	}
	if _, err := os.Stat(out); err != nil {
		t.Errorf("scene not written: %v", err)
	}
}

func TestExploreMouseAndResize(t *testing.T) {
	m := newTestExplorer(t, lineScene, "")

	next, _ := m.Update(tea.WindowSizeMsg{Width: 40, Height: 23})
	m = next.(exploreModel)
	if m.cols != 40 || m.rows != 20 {
		t.Fatalf("size = %dx%d, want 40x20", m.cols, m.rows)
	}

	next, _ = m.Update(tea.MouseMsg{X: 30, Y: 5, Action: tea.MouseActionMotion})
	m = next.(exploreModel)
	want := m.canvas().center(30, 5)
	if m.pointer != want {
		t.Errorf("pointer = %v, want %v", m.pointer, want)
	}

	next, _ = m.Update(tea.MouseMsg{X: 100, Y: 5, Action: tea.MouseActionMotion})
	m = next.(exploreModel)
	if m.pointer != want {
		t.Errorf("motion outside the canvas moved the pointer to %v", m.pointer)
	}
}

func TestExploreQuit(t *testing.T) {
	m := newTestExplorer(t, lineScene, "")
	for _, k := range []tea.KeyMsg{runeKey('q'), {Type: tea.KeyEsc}, {Type: tea.KeyCtrlC}} {
		_, cmd := m.Update(k)
		if cmd == nil {
			t.Fatalf("%s: no command", k)
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Errorf("%s did not quit", k)
		}
	}
}

func TestExploreView(t *testing.T) {
	m := newTestExplorer(t, lineScene, "")
	view := m.View()
	for _, want := range []string{"pointer (0, 0)", "line(l, t=0.5)", "q quit"} {
		if !strings.Contains(view, want) {
			t.Errorf("view does not contain %q", want)
		}
	}
}
