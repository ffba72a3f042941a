package tui

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"gardenmap/internal/garden"
	"gardenmap/internal/model"
	"gardenmap/internal/selection"
	"gardenmap/internal/store"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
)

var testDay = time.Date(2025, 5, 10, 0, 0, 0, 0, time.UTC)

func newTestModel(t *testing.T) (appModel, *store.MemoryStore) {
	t.Helper()
	plants, err := store.SeedPlants()
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	st := store.NewMemory(plants...)
	log := logrus.New()
	log.SetOutput(io.Discard)
	sess := garden.New(st,
		garden.WithLogger(log),
		garden.WithClock(func() time.Time { return testDay }),
		garden.WithIDGenerator(func() string { return "plant-new" }),
	)
	if err := sess.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	m := newAppModel(context.Background(), sess, nil)
	m = send(m, tea.WindowSizeMsg{Width: 140, Height: 45})
	return m, st
}

func send(m appModel, msg tea.Msg) appModel {
	mm, _ := m.Update(msg)
	return mm.(appModel)
}

func keys(m appModel, ks ...string) appModel {
	for _, k := range ks {
		m = send(m, keyMsg(k))
	}
	return m
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	case "shift+right":
		return tea.KeyMsg{Type: tea.KeyShiftRight}
	case "shift+up":
		return tea.KeyMsg{Type: tea.KeyShiftUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func storedCount(t *testing.T, st *store.MemoryStore) int {
	t.Helper()
	all, err := st.GetAll(context.Background())
	if err != nil {
		t.Fatalf("get all: %v", err)
	}
	return len(all)
}

func TestNewAtCursor_RequiresEditMode(t *testing.T) {
	m, _ := newTestModel(t)

	m = keys(m, "n")
	if m.form != nil {
		t.Fatalf("expected no form with edit mode off")
	}
	if !m.statusErr || !strings.Contains(m.status, "edit mode is off") {
		t.Fatalf("expected edit mode error, got %q", m.status)
	}
	if got := m.sess.Selection.State().Mode; got != selection.Idle {
		t.Fatalf("expected idle, got %v", got)
	}

	m = keys(m, "e", "n")
	if m.form == nil || !m.form.creating {
		t.Fatalf("expected a creating form after enabling edit mode")
	}
	if got := m.sess.Selection.State().Mode; got != selection.Placing {
		t.Fatalf("expected placing, got %v", got)
	}
	if got := m.form.value("lat"); got != "51.505" {
		t.Fatalf("expected the draft at the cursor, lat=%q", got)
	}
}

func TestForm_CreateSavesAndViews(t *testing.T) {
	m, st := newTestModel(t)
	m = keys(m, "e", "n", "O", "a", "k", "ctrl+s")

	if m.form != nil {
		t.Fatalf("expected form closed, err=%v", m.form.err)
	}
	if got := storedCount(t, st); got != 9 {
		t.Fatalf("expected 9 plants, got %d", got)
	}
	state := m.sess.Selection.State()
	if state.Mode != selection.Viewing || state.PlantID != "plant-new" {
		t.Fatalf("expected viewing plant-new, got %+v", state)
	}
	if !strings.Contains(m.status, "Saved Oak") {
		t.Fatalf("unexpected status %q", m.status)
	}
}

func TestForm_ValidationKeepsFormOpen(t *testing.T) {
	m, st := newTestModel(t)
	m = keys(m, "e", "n", "ctrl+s")

	if m.form == nil {
		t.Fatalf("expected form to stay open")
	}
	var ve model.ValidationError
	if !errors.As(m.form.err, &ve) || ve.Field != "name" {
		t.Fatalf("expected name validation error, got %v", m.form.err)
	}
	if got := storedCount(t, st); got != 8 {
		t.Fatalf("expected nothing saved, got %d plants", got)
	}

	m = keys(m, "esc")
	if m.form != nil {
		t.Fatalf("expected esc to close the form")
	}
	if got := m.sess.Selection.State().Mode; got != selection.Idle {
		t.Fatalf("expected idle after cancel, got %v", got)
	}
}

func TestForm_EditKeepsID(t *testing.T) {
	m, st := newTestModel(t)
	m = keys(m, "enter", "E")
	if m.form == nil || m.form.creating {
		t.Fatalf("expected an edit form")
	}
	m.form.set("notes", "pruned in March")
	m = keys(m, "ctrl+s")
	if m.form != nil {
		t.Fatalf("expected form closed, err=%v", m.form.err)
	}

	all, _ := st.GetAll(context.Background())
	if len(all) != 8 || all[0].ID != "plant-1" || all[0].Notes != "pruned in March" {
		t.Fatalf("unexpected stored plants: %+v", all[0])
	}
}

func TestDelete_ConfirmModal(t *testing.T) {
	m, st := newTestModel(t)
	m = keys(m, "enter", "d")
	if m.confirm == nil || m.confirm.plantID != "plant-1" {
		t.Fatalf("expected confirm modal for plant-1")
	}
	if !strings.Contains(m.View(), "Delete plant") {
		t.Fatalf("expected modal in view")
	}

	m = keys(m, "n")
	if m.confirm != nil {
		t.Fatalf("expected modal closed")
	}
	if got := storedCount(t, st); got != 8 {
		t.Fatalf("declined delete removed a plant: %d left", got)
	}
	if got := m.sess.Selection.State().Mode; got != selection.Viewing {
		t.Fatalf("expected still viewing, got %v", got)
	}

	m = keys(m, "d", "y")
	if got := storedCount(t, st); got != 7 {
		t.Fatalf("expected 7 plants, got %d", got)
	}
	if got := m.sess.Selection.State().Mode; got != selection.Idle {
		t.Fatalf("expected idle after delete, got %v", got)
	}
	if got := len(m.list.Items()); got != 7 {
		t.Fatalf("expected list to shrink, got %d", got)
	}
}

func TestDelete_EnterUsesFocus(t *testing.T) {
	m, st := newTestModel(t)
	m = keys(m, "enter", "d", "enter")
	if got := storedCount(t, st); got != 8 {
		t.Fatalf("cancel has initial focus; got %d plants", got)
	}
	m = keys(m, "d", "tab", "enter")
	if got := storedCount(t, st); got != 7 {
		t.Fatalf("expected delete after focusing confirm, got %d plants", got)
	}
}

func TestDrag_GatedByEditMode(t *testing.T) {
	m, st := newTestModel(t)
	m = keys(m, "enter")
	before := m.sess.Selection.State().Plant.Position

	m = keys(m, "shift+right")
	if !m.statusErr {
		t.Fatalf("expected an error with edit mode off")
	}
	all, _ := st.GetAll(context.Background())
	if all[0].Position != before {
		t.Fatalf("plant moved with edit mode off")
	}

	// Toggling edit mode closes the panel, so the plant is opened again.
	m = keys(m, "e")
	if got := m.sess.Selection.State().Mode; got != selection.Idle {
		t.Fatalf("expected edit mode toggle to close the panel, got %v", got)
	}
	m = keys(m, "enter", "shift+right", "shift+up")
	all, _ = st.GetAll(context.Background())
	want := model.LatLng{Lat: before.Lat + cursorStep, Lng: before.Lng + cursorStep}
	if all[0].Position != want {
		t.Fatalf("expected %+v, got %+v", want, all[0].Position)
	}
	if got := m.sess.Selection.State().Plant.Position; got != want {
		t.Fatalf("viewed snapshot not refreshed: %+v", got)
	}
}

func TestSearchAndTypeFilter(t *testing.T) {
	m, _ := newTestModel(t)
	m = keys(m, "/", "o", "a", "k", "enter")
	if m.searching {
		t.Fatalf("expected search to be committed")
	}
	if got := len(m.list.Items()); got != 1 {
		t.Fatalf("expected one match for oak, got %d", got)
	}

	m = keys(m, "/", "esc")
	if got := len(m.list.Items()); got != 8 {
		t.Fatalf("expected esc to clear search, got %d", got)
	}

	m = keys(m, "t")
	if got := m.sess.Query().Type; got != "tree" {
		t.Fatalf("expected tree, got %q", got)
	}
	for _, it := range m.list.Items() {
		if p := it.(plantItem).plant; p.Type != model.PlantTypeTree {
			t.Fatalf("unexpected %s in tree filter", p.Name)
		}
	}

	m = keys(m, "/", "z", "z", "z", "enter")
	if !strings.Contains(m.View(), "No plants found matching your criteria.") {
		t.Fatalf("expected placeholder in view")
	}
}

func TestCopyCoordinates(t *testing.T) {
	var got string
	old := copyToClipboard
	copyToClipboard = func(s string) error { got = s; return nil }
	t.Cleanup(func() { copyToClipboard = old })

	m, _ := newTestModel(t)
	m = keys(m, "enter", "y")
	pos := m.sess.Selection.State().Plant.Position
	if got != coordinatesText(pos) {
		t.Fatalf("expected %q copied, got %q", coordinatesText(pos), got)
	}
}

func TestCatalogChangeRefreshesList(t *testing.T) {
	m, st := newTestModel(t)
	ctx := context.Background()
	p := model.NewDraft("plant-ext", model.LatLng{Lat: 1, Lng: 1}, time.Now())
	p.Name = "Fig"
	if err := st.Insert(ctx, p); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := m.sess.Catalog.Reload(ctx); err != nil {
		t.Fatalf("reload: %v", err)
	}

	m = send(m, catalogChangedMsg{})
	if got := len(m.list.Items()); got != 9 {
		t.Fatalf("expected 9 items, got %d", got)
	}
	if !strings.Contains(m.View(), "Plants (9)") {
		t.Fatalf("expected count in view")
	}
}

func TestCatalogChangeClosesDeletedDetail(t *testing.T) {
	m, st := newTestModel(t)
	m = keys(m, "enter")
	sel := m.sess.Selection.State()
	if sel.Mode != selection.Viewing {
		t.Fatalf("expected viewing, got %s", sel.Mode)
	}
	if err := st.Delete(context.Background(), sel.PlantID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := m.sess.Catalog.Reload(context.Background()); err != nil {
		t.Fatalf("reload: %v", err)
	}

	m = send(m, catalogChangedMsg{})
	if got := m.sess.Selection.State().Mode; got != selection.Idle {
		t.Fatalf("expected idle after the viewed plant was removed elsewhere, got %s", got)
	}
}

func TestFilterPanelStartsClosed(t *testing.T) {
	m, _ := newTestModel(t)
	if m.sess.FilterPanelOpen() {
		t.Fatalf("expected filter panel closed on start")
	}
	m = keys(m, "/")
	if !m.sess.FilterPanelOpen() || !m.searching {
		t.Fatalf("expected / to open the filter panel and focus search")
	}
}

func TestNextType_Cycles(t *testing.T) {
	seen := map[string]bool{}
	cur := "all"
	for i := 0; i < len(model.PlantTypes())+1; i++ {
		cur = nextType(cur)
		seen[cur] = true
	}
	if cur != "all" {
		t.Fatalf("expected to wrap to all, got %q", cur)
	}
	if len(seen) != len(model.PlantTypes())+1 {
		t.Fatalf("expected every type once, got %v", seen)
	}
}
