package cli

import (
	"fmt"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/graphplane/pkg/element"
	"github.com/matzehuels/graphplane/pkg/engine"
	"github.com/matzehuels/graphplane/pkg/geom"
	"github.com/matzehuels/graphplane/pkg/scene"
	"github.com/matzehuels/graphplane/pkg/snap"
)

// exploreCommand opens a scene in the interactive explorer.
func (c *CLI) exploreCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "explore <scene>",
		Short: "Move a pointer over a scene and preview snapping",
		Long: `Open a scene in an interactive terminal view.

Move the pointer with the arrow keys (or hjkl, or the mouse); the snap
target under the pointer is previewed on every move. Tab selects a point
or area; enter releases it at the pointer, exactly as a finished drag
would. Press s to write the scene to --output.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			run, err := c.openScene(cmd, args[0])
			if err != nil {
				return err
			}
			// Log lines would tear the alternate screen.
			run.Logger = log.New(io.Discard)

			p := tea.NewProgram(newExploreModel(run, output),
				tea.WithContext(cmd.Context()),
				tea.WithAltScreen(),
				tea.WithMouseAllMotion(),
			)
			final, err := p.Run()
			if err != nil {
				return err
			}
			if m, ok := final.(exploreModel); ok && m.saved != "" {
				printFile(cmd.ErrOrStderr(), m.saved)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "file written when pressing s")
	return cmd
}

// =============================================================================
// exploreModel - Interactive pointer over a scene
// =============================================================================

// Explorer styles
var (
	exploreSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	exploreDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	exploreErrorStyle    = lipgloss.NewStyle().Foreground(colorRed)
)

// chromeRows is the number of terminal rows below the canvas.
const chromeRows = 3

// exploreModel is the bubbletea model of the explorer. The pointer lives in
// graph space; the canvas is re-rasterized for every view.
type exploreModel struct {
	run    *engine.Runner
	output string

	cols, rows int
	pointer    geom.Point
	target     *snap.Target

	// selectable lists the ids of points and areas; selected indexes it,
	// -1 when nothing is selected.
	selectable []string
	selected   int

	status string
	err    error
	saved  string
}

func newExploreModel(run *engine.Runner, output string) exploreModel {
	var ids []string
	for _, e := range run.Elements().All() {
		switch e.ElementKind() {
		case element.KindPoint, element.KindArea:
			ids = append(ids, e.ElementID())
		}
	}
	axes := run.Doc.Axes
	m := exploreModel{
		run:        run,
		output:     output,
		cols:       80,
		rows:       24 - chromeRows,
		pointer:    geom.Pt((axes.XMin+axes.XMax)/2, (axes.YMin+axes.YMax)/2),
		selectable: ids,
		selected:   -1,
	}
	m.preview()
	return m
}

func (m exploreModel) Init() tea.Cmd {
	return nil
}

func (m exploreModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			m.move(0, 1)
		case "down", "j":
			m.move(0, -1)
		case "left", "h":
			m.move(-1, 0)
		case "right", "l":
			m.move(1, 0)
		case "tab":
			m.selectNext()
		case "enter", " ":
			m.release()
		case "s":
			m.save()
		}
	case tea.MouseMsg:
		if msg.Y >= m.rows || msg.X >= m.cols {
			break
		}
		m.pointer = m.canvas().center(msg.X, msg.Y)
		m.preview()
		if msg.Action == tea.MouseActionRelease && msg.Button == tea.MouseButtonLeft {
			m.release()
		}
	case tea.WindowSizeMsg:
		m.cols = max(msg.Width, 10)
		m.rows = max(msg.Height-chromeRows, 5)
	}
	return m, nil
}

func (m exploreModel) View() string {
	c := m.canvas()
	drawScene(c, m.run)
	if m.target != nil {
		c.set(m.target.Result.Coord, '◎', canvasTargetStyle)
	}
	c.set(m.pointer, '+', canvasPointerStyle)

	var b strings.Builder
	b.WriteString(c.String())
	b.WriteString("\n")

	b.WriteString("pointer " + formatPoint(m.pointer.X, m.pointer.Y))
	if m.target != nil {
		b.WriteString(fmt.Sprintf("  %s %s %s", iconArrow, m.target.Anchor,
			StyleDim.Render(fmt.Sprintf("d=%.3g", m.target.Result.Distance))))
	}
	b.WriteString("\n")

	if id := m.selectedID(); id != "" {
		b.WriteString("selected " + exploreSelectedStyle.Render(id) + "  ")
	}
	switch {
	case m.err != nil:
		b.WriteString(exploreErrorStyle.Render(m.err.Error()))
	case m.status != "":
		b.WriteString(m.status)
	}
	b.WriteString("\n")
	b.WriteString(exploreDimStyle.Render("←↑↓→ move  tab select  ⏎ release  s save  q quit"))
	return b.String()
}

func (m *exploreModel) canvas() *canvas {
	return newCanvas(m.cols, m.rows, m.run.Doc.Axes)
}

// move shifts the pointer by whole cells and refreshes the snap preview.
func (m *exploreModel) move(dc, dr int) {
	dx, dy := m.canvas().step()
	axes := m.run.Doc.Axes
	m.pointer = geom.Pt(
		geom.Clamp(m.pointer.X+float64(dc)*dx, axes.XMin, axes.XMax),
		geom.Clamp(m.pointer.Y+float64(dr)*dy, axes.YMin, axes.YMax),
	)
	m.preview()
}

// preview recomputes the snap target under the pointer. Elements anchored
// to the selection are never targets, matching what a release would do.
func (m *exploreModel) preview() {
	var exclude []string
	if id := m.selectedID(); id != "" {
		exclude = m.run.Dependents(id)
	}
	m.target = m.run.Snap(m.pointer, exclude...)
}

func (m *exploreModel) selectNext() {
	if len(m.selectable) == 0 {
		m.status = "nothing to select"
		return
	}
	m.selected++
	if m.selected >= len(m.selectable) {
		m.selected = -1
	}
	m.err = nil
	m.status = ""
	m.preview()
}

func (m *exploreModel) selectedID() string {
	if m.selected < 0 || m.selected >= len(m.selectable) {
		return ""
	}
	return m.selectable[m.selected]
}

// release finishes a drag of the selected element at the pointer.
func (m *exploreModel) release() {
	id := m.selectedID()
	m.err = nil
	if id == "" {
		m.status = "tab selects a point or area"
		return
	}

	e, _ := m.run.Elements().Get(id)
	switch e.(type) {
	case *element.Point:
		_, target, err := m.run.DragPoint(id, m.pointer)
		if err != nil {
			m.err = err
			return
		}
		if target != nil {
			m.status = fmt.Sprintf("%s snapped to %s", id, target.Anchor)
		} else {
			m.status = fmt.Sprintf("%s is free", id)
		}
	case *element.Area:
		out, err := m.run.DropArea(id, m.pointer)
		if err != nil {
			m.err = err
			return
		}
		m.status = fmt.Sprintf("%s: %s", id, out.Rule)
	}
	m.preview()
}

func (m *exploreModel) save() {
	m.err = nil
	if m.output == "" {
		m.status = "no --output file"
		return
	}
	if err := scene.WriteFile(m.run.Doc, m.output); err != nil {
		m.err = err
		return
	}
	m.saved = m.output
	m.status = "saved " + m.output
}
