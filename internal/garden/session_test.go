package garden

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"
	"time"

	"gardenmap/internal/filter"
	"gardenmap/internal/model"
	"gardenmap/internal/selection"
	"gardenmap/internal/store"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var today = time.Date(2025, 5, 10, 9, 30, 0, 0, time.UTC)

func newSession(t *testing.T, st store.PlantStore) *Session {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)
	n := 0
	s := New(st,
		WithLogger(log),
		WithClock(func() time.Time { return today }),
		WithIDGenerator(func() string { n++; return fmt.Sprintf("plant-test-%d", n) }),
	)
	require.NoError(t, s.Start(t.Context()))
	return s
}

func seeded(t *testing.T) *store.MemoryStore {
	t.Helper()
	plants, err := store.SeedPlants()
	require.NoError(t, err)
	return store.NewMemory(plants...)
}

func TestSave_CreateOak(t *testing.T) {
	ctx := context.Background()
	st := seeded(t)
	s := newSession(t, st)
	before, err := st.GetAll(ctx)
	require.NoError(t, err)

	s.Selection.SetEditMode(true)
	_, err = s.Map.MapClick(model.LatLng{Lat: 1, Lng: 1})
	require.NoError(t, err)

	draft, ok := s.Draft()
	require.True(t, ok)
	assert.Equal(t, model.PlantTypeOther, draft.Type)
	assert.Equal(t, model.Date("2025-05-10"), draft.PlantedDate)
	assert.Equal(t, 7, draft.WateringFrequency)

	draft.Name = "Oak"
	draft.Type = model.PlantTypeTree
	draft.WateringFrequency = 14
	draft.Height = 500
	draft.Spread = 400

	saved, err := s.Save(ctx, draft)
	require.NoError(t, err)
	assert.Equal(t, "plant-test-1", saved.ID)

	after, err := st.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, after, len(before)+1)
	last := after[len(after)-1]
	assert.Equal(t, "Oak", last.Name)
	assert.Equal(t, model.PlantTypeTree, last.Type)
	assert.Equal(t, model.LatLng{Lat: 1, Lng: 1}, last.Position)
	assert.Equal(t, 14, last.WateringFrequency)
	assert.Equal(t, 500, last.Height)
	assert.Equal(t, 400, last.Spread)

	state := s.Selection.State()
	assert.Equal(t, selection.Viewing, state.Mode)
	assert.Equal(t, saved.ID, state.PlantID)
}

func TestSave_UpdateKeepsID(t *testing.T) {
	ctx := context.Background()
	s := newSession(t, seeded(t))
	_, err := s.SelectFromList("plant-1")
	require.NoError(t, err)
	_, err = s.EditSelected()
	require.NoError(t, err)

	draft, ok := s.Draft()
	require.True(t, ok)
	draft.Notes = "pruned"
	draft.ID = "something-else"

	saved, err := s.Save(ctx, draft)
	require.NoError(t, err)
	assert.Equal(t, "plant-1", saved.ID)
	assert.Equal(t, "pruned", saved.Notes)
	assert.Equal(t, selection.Viewing, s.Selection.State().Mode)
}

func TestSave_ValidationKeepsFormOpen(t *testing.T) {
	ctx := context.Background()
	st := seeded(t)
	s := newSession(t, st)
	before := s.Catalog.Len()

	s.NewPlant()
	draft, ok := s.Draft()
	require.True(t, ok)
	assert.Equal(t, s.Map.Viewport().Center, draft.Position)

	_, err := s.Save(ctx, draft) // no name
	var ve model.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "name", ve.Field)
	assert.Equal(t, selection.Editing, s.Selection.State().Mode)
	assert.Equal(t, before, s.Catalog.Len())
}

func TestSave_WithoutForm(t *testing.T) {
	s := newSession(t, store.NewMemory())
	_, err := s.Save(context.Background(), model.Plant{Name: "x"})
	assert.ErrorIs(t, err, ErrNoForm)
}

type brokenInsert struct{ *store.MemoryStore }

func (brokenInsert) Insert(context.Context, model.Plant) error { return errors.New("disk full") }

func TestSave_StoreFailureKeepsForm(t *testing.T) {
	ctx := context.Background()
	s := newSession(t, brokenInsert{store.NewMemory()})
	s.Selection.SetEditMode(true)
	_, err := s.Map.MapClick(model.LatLng{Lat: 1, Lng: 1})
	require.NoError(t, err)
	draft, _ := s.Draft()
	draft.Name = "Oak"

	_, err = s.Save(ctx, draft)
	var se model.StoreError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, selection.Placing, s.Selection.State().Mode)
	assert.Zero(t, s.Catalog.Len())
}

func TestDelete_Declined(t *testing.T) {
	ctx := context.Background()
	st := seeded(t)
	s := newSession(t, st)
	before, _ := st.GetAll(ctx)

	var asked model.Plant
	deleted, err := s.Delete(ctx, "plant-2", ConfirmFunc(func(p model.Plant) bool {
		asked = p
		return false
	}))
	require.NoError(t, err)
	assert.False(t, deleted)
	assert.Equal(t, "plant-2", asked.ID)
	assert.NotEmpty(t, asked.Name)

	after, _ := st.GetAll(ctx)
	assert.Equal(t, before, after)
}

func TestDelete_Confirmed(t *testing.T) {
	ctx := context.Background()
	s := newSession(t, seeded(t))
	_, err := s.SelectFromList("plant-2")
	require.NoError(t, err)

	deleted, err := s.Delete(ctx, "plant-2", Confirmed)
	require.NoError(t, err)
	assert.True(t, deleted)
	_, ok := s.Catalog.Find("plant-2")
	assert.False(t, ok)
	assert.Equal(t, selection.Idle, s.Selection.State().Mode)

	deleted, err = s.Delete(ctx, "plant-2", Confirmed)
	require.NoError(t, err, "deleting twice is a no-op")
	assert.True(t, deleted)
}

func TestReconcile_FollowsExternalChanges(t *testing.T) {
	ctx := context.Background()
	st := seeded(t)
	s := newSession(t, st)
	_, err := s.SelectFromList("plant-1")
	require.NoError(t, err)

	p, ok := s.Catalog.Find("plant-1")
	require.True(t, ok)
	p.Name = "Renamed"
	require.NoError(t, st.Update(ctx, p))
	require.NoError(t, s.Catalog.Reload(ctx))

	got := s.Reconcile()
	assert.Equal(t, selection.Viewing, got.Mode)
	require.NotNil(t, got.Plant)
	assert.Equal(t, "Renamed", got.Plant.Name)

	require.NoError(t, st.Delete(ctx, "plant-1"))
	require.NoError(t, s.Catalog.Reload(ctx))
	assert.Equal(t, selection.Idle, s.Reconcile().Mode)
}

func TestStart_ReconcilesOnCatalogChange(t *testing.T) {
	ctx := context.Background()
	st := seeded(t)
	s := newSession(t, st)
	_, err := s.SelectFromList("plant-2")
	require.NoError(t, err)
	_, err = s.EditSelected()
	require.NoError(t, err)

	require.NoError(t, st.Delete(ctx, "plant-2"))
	require.NoError(t, s.Catalog.Reload(ctx))
	require.Eventually(t, func() bool {
		return s.Selection.State().Mode == selection.Idle
	}, time.Second, 5*time.Millisecond, "editing a plant deleted elsewhere closes the form")
}

func TestVisibleAndFilterPanel(t *testing.T) {
	s := newSession(t, seeded(t))
	res, err := s.Visible()
	require.NoError(t, err)
	assert.Equal(t, s.Catalog.Len(), res.Count())

	s.SetSearch("zzzz-no-such-plant")
	res, err = s.Visible()
	require.NoError(t, err)
	assert.Equal(t, filter.NoMatches, res.Placeholder())

	s.SetQuery(filter.Query{})
	assert.Equal(t, filter.AllTypes, s.Query().Type)

	assert.False(t, s.FilterPanelOpen(), "filter panel starts closed")
	assert.True(t, s.ToggleFilterPanel())
	assert.True(t, s.FilterPanelOpen())
	assert.False(t, s.ToggleFilterPanel())
}

func TestEditSelected_RequiresViewing(t *testing.T) {
	s := newSession(t, seeded(t))
	_, err := s.EditSelected()
	assert.ErrorIs(t, err, ErrNoForm)
	_, ok := s.Draft()
	assert.False(t, ok)
}
