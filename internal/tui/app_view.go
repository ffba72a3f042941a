package tui

import (
	"fmt"
	"strings"

	"gardenmap/internal/filter"
	"gardenmap/internal/model"
	"gardenmap/internal/selection"

	"github.com/charmbracelet/lipgloss"
)

const browseHelp = "enter: open  /: search  t: type  f: filters  e: edit mode  n: add at +  a: add  E: edit  d: delete  hjkl: move +  shift+arrows: move plant  y: copy  q: quit"

// layout returns the list pane width and the body height between the header and footer.
func (m appModel) layout() (leftW, bodyH int) {
	leftW = m.width / 3
	if leftW < 24 {
		leftW = 24
	}
	if leftW > m.width-20 && m.width > 44 {
		leftW = m.width - 20
	}
	bodyH = m.height - 2
	if bodyH < 4 {
		bodyH = 4
	}
	return leftW, bodyH
}

func (m appModel) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	leftW, bodyH := m.layout()
	rightW := m.width - leftW - 1
	if rightW < 10 {
		rightW = 10
	}

	if m.confirm != nil {
		body := fmt.Sprintf("Delete %q? This cannot be undone.", m.confirm.name)
		modal := renderConfirmModal(m.width, "Delete plant", body, "Delete", "Keep", m.confirm.focus)
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal)
	}

	left := normalizePane(m.viewListPane(), leftW, bodyH)
	sep := normalizePane(strings.TrimRight(strings.Repeat("│\n", bodyH), "\n"), 1, bodyH)
	right := normalizePane(m.viewRightPane(rightW, bodyH), rightW, bodyH)

	body := lipgloss.JoinHorizontal(lipgloss.Top, left, sep, right)
	return strings.Join([]string{
		fitLine(m.viewHeader(), m.width),
		body,
		fitLine(m.viewFooter(), m.width),
	}, "\n")
}

func (m appModel) viewHeader() string {
	parts := []string{styleBadge().Render("Garden Map")}
	if m.sess.Selection.EditMode() {
		parts = append(parts, lipgloss.NewStyle().Bold(true).Foreground(colorAccent).Render("EDIT"))
		parts = append(parts, styleMuted().Render(m.sess.Map.Hint()))
	}
	if m.sess.Catalog.Busy() {
		parts = append(parts, styleMuted().Render("saving…"))
	}
	return strings.Join(parts, " ")
}

func (m appModel) viewFooter() string {
	if m.status != "" {
		if m.statusErr {
			return styleError().Render(m.status)
		}
		return m.status
	}
	return styleMuted().Render(browseHelp)
}

func (m appModel) viewListPane() string {
	var lines []string
	if m.sess.FilterPanelOpen() {
		typ := m.sess.Query().Type
		label := "All types"
		if typ != "" && typ != filter.AllTypes {
			label = model.Label(typ)
		}
		lines = append(lines, m.search.View(), styleMuted().Render("Type: ")+label)
	}

	res, _ := m.sess.Visible()
	lines = append(lines, lipgloss.NewStyle().Bold(true).Render(fmt.Sprintf("Plants (%d)", res.Count())))
	if res.Empty() {
		lines = append(lines, styleMuted().Render(res.Placeholder()))
	} else {
		lines = append(lines, m.list.View())
	}
	return strings.Join(lines, "\n")
}

func (m appModel) viewRightPane(w, h int) string {
	mapH := h / 2
	if mapH < 3 || m.form != nil {
		mapH = 3
	}
	mini := renderMiniMap(m.sess.Map.Markers(), m.cursor, w, mapH)
	coords := styleMuted().Render("+ " + coordinatesText(m.cursor))

	var below string
	st := m.sess.Selection.State()
	switch {
	case m.form != nil:
		below = m.form.view(w)
	case st.Mode == selection.Viewing && st.Plant != nil:
		below = renderMarkdown(plantMarkdown(*st.Plant), w)
	default:
		below = styleMuted().Render("Select a plant to see its details.")
	}
	return strings.Join([]string{mini, coords, "", below}, "\n")
}
