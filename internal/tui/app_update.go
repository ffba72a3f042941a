package tui

import (
	"errors"
	"fmt"

	"gardenmap/internal/filter"
	"gardenmap/internal/garden"
	"gardenmap/internal/mapview"
	"gardenmap/internal/model"
	"gardenmap/internal/selection"

	tea "github.com/charmbracelet/bubbletea"
)

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case catalogChangedMsg:
		m.sess.Reconcile()
		m.refreshList()
		m.syncForm()
		return m, waitForChange(m.changes)

	case tea.KeyMsg:
		switch {
		case msg.String() == "ctrl+c":
			return m, tea.Quit
		case m.confirm != nil:
			return m.updateConfirm(msg)
		case m.form != nil:
			return m.updateForm(msg)
		case m.searching:
			return m.updateSearch(msg)
		}
		return m.updateBrowse(msg)
	}
	return m, nil
}

func (m *appModel) resize() {
	leftW, bodyH := m.layout()
	listH := bodyH - 1
	if m.sess.FilterPanelOpen() {
		listH -= 2
	}
	if listH < 1 {
		listH = 1
	}
	m.list.SetSize(leftW, listH)
}

func (m appModel) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.status = ""
	switch msg.String() {
	case "q":
		return m, tea.Quit

	case "/":
		if !m.sess.FilterPanelOpen() {
			m.sess.ToggleFilterPanel()
			m.resize()
		}
		m.searching = true
		return m, m.search.Focus()

	case "t":
		m.sess.SetType(nextType(m.sess.Query().Type))
		m.refreshList()

	case "f":
		m.sess.ToggleFilterPanel()
		m.resize()

	case "enter":
		p, ok := m.selectedListPlant()
		if !ok {
			return m, nil
		}
		if _, err := m.sess.SelectFromList(p.ID); err != nil {
			m.setError(err)
		}
		m.cursor = p.Position
		m.refreshList()

	case "esc":
		m.sess.Selection.Close()
		m.refreshList()

	case "e":
		if m.sess.Selection.ToggleEditMode() {
			m.setStatus(mapview.EditModeHint)
		} else {
			m.setStatus("Edit mode off")
		}
		m.refreshList()

	case "n":
		if _, err := m.sess.Map.MapClick(m.cursor); err != nil {
			if errors.Is(err, mapview.ErrEditModeOff) {
				m.setError(fmt.Errorf("%w: press e to turn it on", err))
			} else {
				m.setError(err)
			}
			return m, nil
		}
		m.syncForm()

	case "a":
		m.sess.NewPlant()
		m.syncForm()

	case "E":
		if _, err := m.sess.EditSelected(); err != nil {
			m.setError(err)
			return m, nil
		}
		m.syncForm()

	case "d":
		st := m.sess.Selection.State()
		if st.Mode != selection.Viewing || st.Plant == nil {
			m.setError(errors.New("select a plant first"))
			return m, nil
		}
		m.confirm = &confirmModal{plantID: st.PlantID, name: st.Plant.Name}

	case "y":
		pos := m.cursor
		if st := m.sess.Selection.State(); st.Mode == selection.Viewing && st.Plant != nil {
			pos = st.Plant.Position
		}
		if err := copyToClipboard(coordinatesText(pos)); err != nil {
			m.setError(err)
			return m, nil
		}
		m.setStatus("Copied " + coordinatesText(pos))

	case "h":
		m.cursor.Lng -= cursorStep
	case "l":
		m.cursor.Lng += cursorStep
	case "k":
		m.cursor.Lat += cursorStep
	case "j":
		m.cursor.Lat -= cursorStep

	case "shift+left", "shift+right", "shift+up", "shift+down":
		m.drag(msg.String())

	default:
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}
	return m, nil
}

// drag nudges the viewed plant one step, the keyboard version of dragging its marker.
func (m *appModel) drag(key string) {
	st := m.sess.Selection.State()
	if st.Mode != selection.Viewing || st.Plant == nil {
		m.setError(errors.New("select a plant first"))
		return
	}
	pos := st.Plant.Position
	switch key {
	case "shift+left":
		pos.Lng -= cursorStep
	case "shift+right":
		pos.Lng += cursorStep
	case "shift+up":
		pos.Lat += cursorStep
	case "shift+down":
		pos.Lat -= cursorStep
	}
	if _, err := m.sess.Map.DragEnd(m.ctx, st.PlantID, pos); err != nil {
		m.setError(err)
		return
	}
	m.cursor = pos
	m.refreshList()
}

func (m appModel) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.search.SetValue("")
		m.sess.SetSearch("")
		m.searching = false
		m.search.Blur()
		m.refreshList()
		return m, nil
	case "enter", "tab":
		m.searching = false
		m.search.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.sess.SetSearch(m.search.Value())
	m.refreshList()
	return m, cmd
}

func (m appModel) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.sess.Selection.Cancel()
		m.form = nil
		m.refreshList()
		return m, nil
	case "tab", "down":
		m.form.move(1)
		return m, nil
	case "shift+tab", "up":
		m.form.move(-1)
		return m, nil
	case "ctrl+s":
		m.saveForm()
		return m, nil
	}
	return m, m.form.update(msg)
}

// saveForm persists the form. Any failure keeps the form open with the message inline.
func (m *appModel) saveForm() {
	p, err := m.form.plant()
	if err != nil {
		m.form.err = err
		return
	}
	saved, err := m.sess.Save(m.ctx, p)
	if err != nil {
		m.form.err = err
		return
	}
	m.form = nil
	m.cursor = saved.Position
	m.setStatus("Saved " + saved.Name)
	m.refreshList()
}

func (m appModel) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y":
		m.finishDelete(true)
	case "n", "esc", "q":
		m.finishDelete(false)
	case "tab", "shift+tab", "left", "right", "h", "l":
		m.confirm.toggleFocus()
	case "enter":
		m.finishDelete(m.confirm.focus == confirmFocusConfirm)
	}
	return m, nil
}

func (m *appModel) finishDelete(accept bool) {
	c := m.confirm
	m.confirm = nil
	ok, err := m.sess.Delete(m.ctx, c.plantID, garden.ConfirmFunc(func(model.Plant) bool { return accept }))
	switch {
	case err != nil:
		m.setError(err)
	case ok:
		m.setStatus("Deleted " + c.name)
	}
	m.refreshList()
}

// nextType cycles all → each plant type → all.
func nextType(cur string) string {
	types := model.PlantTypes()
	if cur == "" || cur == filter.AllTypes {
		return string(types[0])
	}
	for i, t := range types {
		if string(t) == cur && i+1 < len(types) {
			return string(types[i+1])
		}
	}
	return filter.AllTypes
}
