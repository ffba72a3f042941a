package tui

import (
	"context"

	"gardenmap/internal/garden"
	"gardenmap/internal/model"
	"gardenmap/internal/selection"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// cursorStep is how far one key press moves the map cursor or a dragged plant, in degrees.
const cursorStep = 0.0001

// catalogChangedMsg arrives when the catalog reloads, including changes made by other processes.
type catalogChangedMsg struct{}

type appModel struct {
	ctx  context.Context
	sess *garden.Session

	width  int
	height int

	list      list.Model
	search    textinput.Model
	searching bool

	// cursor is where "n" starts a new plant. It starts at the map center.
	cursor model.LatLng

	form    *plantForm
	confirm *confirmModal

	status    string
	statusErr bool

	changes <-chan struct{}
}

func newAppModel(ctx context.Context, sess *garden.Session, changes <-chan struct{}) appModel {
	l := list.New(nil, newPlantDelegate(), 0, 0)
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.SetShowPagination(false)

	search := textinput.New()
	search.Prompt = "Search: "
	search.Placeholder = "name or scientific name"
	search.CharLimit = 80

	m := appModel{
		ctx:     ctx,
		sess:    sess,
		list:    l,
		search:  search,
		cursor:  sess.Map.Viewport().Center,
		changes: changes,
	}
	m.refreshList()
	return m
}

func (m appModel) Init() tea.Cmd {
	return waitForChange(m.changes)
}

func waitForChange(ch <-chan struct{}) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return catalogChangedMsg{}
	}
}

// refreshList rebuilds the list from the filtered catalog, keeping the cursor on the same plant
// when it is still visible.
func (m *appModel) refreshList() {
	res, err := m.sess.Visible()
	if err != nil {
		m.setError(err)
	}

	var keep string
	if it, ok := m.list.SelectedItem().(plantItem); ok {
		keep = it.plant.ID
	}
	viewing := m.sess.Selection.State().PlantID

	items := make([]list.Item, 0, len(res.Plants))
	idx := 0
	for i, p := range res.Plants {
		items = append(items, plantItem{plant: p, selected: p.ID == viewing})
		if p.ID == keep {
			idx = i
		}
	}
	m.list.SetItems(items)
	if len(items) > 0 {
		m.list.Select(idx)
	}
}

// syncForm opens or closes the form to follow the selection state.
func (m *appModel) syncForm() {
	st := m.sess.Selection.State()
	creating := st.Creating()
	if !creating && st.Mode != selection.Editing {
		m.form = nil
		return
	}
	if m.form != nil && m.form.creating == creating && m.form.plantID == st.PlantID {
		return
	}
	draft, ok := m.sess.Draft()
	if !ok {
		m.form = nil
		return
	}
	m.form = newPlantForm(draft, creating)
}

func (m *appModel) setStatus(s string) {
	m.status = s
	m.statusErr = false
}

func (m *appModel) setError(err error) {
	if err == nil {
		return
	}
	m.status = err.Error()
	m.statusErr = true
}

func (m appModel) selectedListPlant() (model.Plant, bool) {
	it, ok := m.list.SelectedItem().(plantItem)
	if !ok {
		return model.Plant{}, false
	}
	return it.plant, true
}
