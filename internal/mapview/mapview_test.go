package mapview

import (
	"context"
	"io"
	"testing"
	"time"

	"gardenmap/internal/catalog"
	"gardenmap/internal/model"
	"gardenmap/internal/selection"
	"gardenmap/internal/store"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingStore records Update calls so tests can assert that a gesture issued none.
type countingStore struct {
	*store.MemoryStore
	updates int
}

func (s *countingStore) Update(ctx context.Context, p model.Plant) error {
	s.updates++
	return s.MemoryStore.Update(ctx, p)
}

func plant(id string, typ model.PlantType, lat, lng float64) model.Plant {
	p := model.NewDraft(id, model.LatLng{Lat: lat, Lng: lng}, time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC))
	p.Name = "Plant " + id
	p.Type = typ
	return p
}

func newSurface(t *testing.T, plants ...model.Plant) (*Surface, *catalog.Catalog, *selection.Controller, *countingStore) {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)
	st := &countingStore{MemoryStore: store.NewMemory(plants...)}
	c := catalog.New(st, catalog.WithLogger(log))
	_, err := c.Load(context.Background())
	require.NoError(t, err)
	sel := selection.New()
	return New(c, sel, WithLogger(log)), c, sel, st
}

func TestMarkerColor(t *testing.T) {
	assert.Equal(t, "green", MarkerColor(model.PlantTypeTree))
	assert.Equal(t, "pink", MarkerColor(model.PlantTypeFlower))
	assert.Equal(t, "orange", MarkerColor(model.PlantTypeVegetable))
	assert.Equal(t, "red", MarkerColor(model.PlantTypeFruit))
	assert.Equal(t, "blue", MarkerColor(model.PlantTypeHerb))
	assert.Equal(t, "darkgreen", MarkerColor(model.PlantTypeShrub))
	assert.Equal(t, "greenyellow", MarkerColor(model.PlantTypeGrass))
	assert.Equal(t, "gray", MarkerColor(model.PlantTypeOther))
	assert.Equal(t, "gray", MarkerColor("cactus"))
	assert.Equal(t, "#808080", MarkerHex(model.PlantTypeOther))
}

func TestMarkers_OnePerPlant(t *testing.T) {
	s, _, sel, _ := newSurface(t,
		plant("a", model.PlantTypeTree, 1, 1),
		plant("b", model.PlantTypeHerb, 2, 2),
	)
	ms := s.Markers()
	require.Len(t, ms, 2)
	assert.Equal(t, "a", ms[0].ID)
	assert.Equal(t, "blue", ms[1].Color)
	assert.False(t, ms[0].Draggable)
	assert.False(t, ms[0].Selected)

	_, err := s.MarkerClick("b")
	require.NoError(t, err)
	sel.SetEditMode(false)
	ms = s.Markers()
	assert.True(t, ms[1].Selected)

	sel.SetEditMode(true)
	assert.True(t, s.Markers()[0].Draggable)
}

func TestDragEnd_MovesPlantInEditMode(t *testing.T) {
	s, c, sel, _ := newSurface(t, plant("oak", model.PlantTypeTree, 1, 1))
	sel.SetEditMode(true)

	_, err := s.DragEnd(context.Background(), "oak", model.LatLng{Lat: 2, Lng: 2})
	require.NoError(t, err)

	p, ok := c.Find("oak")
	require.True(t, ok)
	assert.Equal(t, model.LatLng{Lat: 2, Lng: 2}, p.Position)
	assert.Equal(t, "Plant oak", p.Name)
}

func TestDragEnd_BlockedWithoutEditMode(t *testing.T) {
	s, c, _, st := newSurface(t, plant("oak", model.PlantTypeTree, 1, 1))

	_, err := s.DragEnd(context.Background(), "oak", model.LatLng{Lat: 2, Lng: 2})
	assert.ErrorIs(t, err, ErrEditModeOff)
	assert.Zero(t, st.updates, "no store call may be issued")

	p, _ := c.Find("oak")
	assert.Equal(t, model.LatLng{Lat: 1, Lng: 1}, p.Position)
}

func TestDragEnd_RefreshesViewedSnapshot(t *testing.T) {
	s, _, sel, _ := newSurface(t,
		plant("oak", model.PlantTypeTree, 1, 1),
		plant("mint", model.PlantTypeHerb, 3, 3),
	)
	sel.SetEditMode(true)
	_, err := s.MarkerClick("oak")
	require.NoError(t, err)

	st, err := s.DragEnd(context.Background(), "oak", model.LatLng{Lat: 2, Lng: 2})
	require.NoError(t, err)
	assert.Equal(t, selection.Viewing, st.Mode)
	require.NotNil(t, st.Plant)
	assert.Equal(t, model.LatLng{Lat: 2, Lng: 2}, st.Plant.Position)

	// Dragging a different plant leaves the viewed snapshot alone.
	st, err = s.DragEnd(context.Background(), "mint", model.LatLng{Lat: 4, Lng: 4})
	require.NoError(t, err)
	assert.Equal(t, "oak", st.PlantID)
}

func TestDragEnd_UnknownPlant(t *testing.T) {
	s, _, sel, _ := newSurface(t)
	sel.SetEditMode(true)
	_, err := s.DragEnd(context.Background(), "ghost", model.LatLng{Lat: 2, Lng: 2})
	var nf model.NotFoundError
	assert.ErrorAs(t, err, &nf)
}

func TestMapClick(t *testing.T) {
	s, _, sel, _ := newSurface(t)
	pos := model.LatLng{Lat: 51.5, Lng: -0.1}

	st, err := s.MapClick(pos)
	assert.ErrorIs(t, err, ErrEditModeOff)
	assert.Equal(t, selection.Idle, st.Mode)

	sel.SetEditMode(true)
	st, err = s.MapClick(pos)
	require.NoError(t, err)
	assert.Equal(t, selection.Placing, st.Mode)
	assert.Equal(t, pos, st.Position)

	_, err = s.MapClick(model.LatLng{Lat: 200, Lng: 0})
	var ve model.ValidationError
	assert.ErrorAs(t, err, &ve)
}

func TestMarkerClick_AlwaysAllowed(t *testing.T) {
	s, _, sel, _ := newSurface(t, plant("oak", model.PlantTypeTree, 1, 1))
	for _, edit := range []bool{false, true} {
		sel.SetEditMode(edit)
		st, err := s.MarkerClick("oak")
		require.NoError(t, err)
		assert.Equal(t, selection.Viewing, st.Mode)
	}
	_, err := s.MarkerClick("ghost")
	assert.Error(t, err)
}

func TestHintAndViewport(t *testing.T) {
	s, _, sel, _ := newSurface(t)
	assert.Equal(t, DefaultViewport(), s.Viewport())
	assert.Empty(t, s.Hint())
	sel.ToggleEditMode()
	assert.Equal(t, EditModeHint, s.Hint())

	custom := New(nil, sel, WithViewport(Viewport{Center: model.LatLng{Lat: 10, Lng: 10}, Zoom: 3}))
	assert.Equal(t, 3, custom.Viewport().Zoom)
	ignored := New(nil, sel, WithViewport(Viewport{Zoom: 0}))
	assert.Equal(t, 17, ignored.Viewport().Zoom)
}

func TestBounds(t *testing.T) {
	_, _, ok := Bounds(nil)
	assert.False(t, ok)

	sw, ne, ok := Bounds([]Marker{
		{Position: model.LatLng{Lat: 1, Lng: 5}},
		{Position: model.LatLng{Lat: -2, Lng: 7}},
	})
	require.True(t, ok)
	assert.Equal(t, model.LatLng{Lat: -2, Lng: 5}, sw)
	assert.Equal(t, model.LatLng{Lat: 1, Lng: 7}, ne)
}
