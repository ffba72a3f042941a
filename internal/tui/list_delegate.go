package tui

import (
	"fmt"
	"io"
	"strings"

	"gardenmap/internal/mapview"
	"gardenmap/internal/model"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

type plantItem struct {
	plant    model.Plant
	selected bool // the plant shown in the detail pane
}

func (i plantItem) FilterValue() string { return i.plant.Name }
func (i plantItem) Title() string       { return i.plant.Name }
func (i plantItem) Description() string { return i.plant.ScientificName }

// plantDelegate renders one row per plant: colored marker dot, name, scientific name.
type plantDelegate struct {
	normal lipgloss.Style
	cursor lipgloss.Style
	sci    lipgloss.Style
}

func newPlantDelegate() plantDelegate {
	return plantDelegate{
		normal: lipgloss.NewStyle(),
		cursor: lipgloss.NewStyle().
			Foreground(colorSelectedFg).
			Background(colorSelectedBg).
			Bold(true),
		sci: styleMuted().Italic(true),
	}
}

func (d plantDelegate) Height() int  { return 1 }
func (d plantDelegate) Spacing() int { return 0 }
func (d plantDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

func (d plantDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	contentW := m.Width()
	it, ok := item.(plantItem)
	if !ok || contentW < 4 {
		fmt.Fprint(w, "")
		return
	}

	dot := lipgloss.NewStyle().Foreground(lipgloss.Color(mapview.MarkerHex(it.plant.Type))).Render("●")
	mark := " "
	if it.selected {
		mark = "›"
	}
	line := mark + dot + " " + it.plant.Name
	if it.plant.ScientificName != "" {
		line += " " + d.sci.Render(it.plant.ScientificName)
	}

	lineW := xansi.StringWidth(line)
	if lineW < contentW {
		line += strings.Repeat(" ", contentW-lineW)
	} else if lineW > contentW {
		line = xansi.Cut(line, 0, contentW)
	}

	style := d.normal
	if index == m.Index() {
		style = d.cursor
	}
	fmt.Fprint(w, style.Render(line))
}
