// Package mapview turns the catalog into map markers and routes map gestures to the catalog and
// the selection controller.
package mapview

import (
	"context"
	"errors"
	"math"

	"gardenmap/internal/catalog"
	"gardenmap/internal/model"
	"gardenmap/internal/selection"

	"github.com/sirupsen/logrus"
)

// ErrEditModeOff rejects a gesture that needs edit mode.
var ErrEditModeOff = errors.New("edit mode is off")

// EditModeHint is shown over the map while edit mode is on.
const EditModeHint = "Edit mode: click the map to add a plant, drag markers to move them."

// Viewport is the map's initial camera.
type Viewport struct {
	Center model.LatLng `json:"center"`
	Zoom   int          `json:"zoom"`
}

func DefaultViewport() Viewport {
	return Viewport{Center: model.LatLng{Lat: 51.505, Lng: -0.09}, Zoom: 17}
}

type Marker struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	ScientificName string          `json:"scientificName"`
	Type           model.PlantType `json:"type"`
	Position       model.LatLng    `json:"position"`
	Color          string          `json:"color"`
	Hex            string          `json:"hex"`
	Selected       bool            `json:"selected"`
	Draggable      bool            `json:"draggable"`
}

type swatch struct{ name, hex string }

var palette = map[model.PlantType]swatch{
	model.PlantTypeTree:      {"green", "#008000"},
	model.PlantTypeFlower:    {"pink", "#FFC0CB"},
	model.PlantTypeVegetable: {"orange", "#FFA500"},
	model.PlantTypeFruit:     {"red", "#FF0000"},
	model.PlantTypeHerb:      {"blue", "#0000FF"},
	model.PlantTypeShrub:     {"darkgreen", "#006400"},
	model.PlantTypeGrass:     {"greenyellow", "#ADFF2F"},
}

var fallback = swatch{"gray", "#808080"}

// MarkerColor returns the CSS color name for t. Other and unknown types are gray.
func MarkerColor(t model.PlantType) string { return swatchFor(t).name }

// MarkerHex is MarkerColor as a #RRGGBB value, for renderers without named colors.
func MarkerHex(t model.PlantType) string { return swatchFor(t).hex }

func swatchFor(t model.PlantType) swatch {
	if s, ok := palette[t]; ok {
		return s
	}
	return fallback
}

// Surface is the map: one marker per catalog entry plus the click and drag gestures.
type Surface struct {
	catalog  *catalog.Catalog
	sel      *selection.Controller
	viewport Viewport
	log      logrus.FieldLogger
}

type Option func(*Surface)

func WithViewport(v Viewport) Option {
	return func(s *Surface) {
		if v.Center.Valid() && v.Zoom > 0 {
			s.viewport = v
		}
	}
}

func WithLogger(l logrus.FieldLogger) Option {
	return func(s *Surface) {
		if l != nil {
			s.log = l
		}
	}
}

func New(c *catalog.Catalog, sel *selection.Controller, opts ...Option) *Surface {
	s := &Surface{
		catalog:  c,
		sel:      sel,
		viewport: DefaultViewport(),
		log:      logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Surface) Viewport() Viewport { return s.viewport }

// Hint returns EditModeHint while edit mode is on and "" otherwise.
func (s *Surface) Hint() string {
	if s.sel.EditMode() {
		return EditModeHint
	}
	return ""
}

// Markers returns one marker per catalog entry, in catalog order.
func (s *Surface) Markers() []Marker {
	st := s.sel.State()
	edit := s.sel.EditMode()
	plants := s.catalog.Plants()
	out := make([]Marker, 0, len(plants))
	for _, p := range plants {
		sw := swatchFor(p.Type)
		out = append(out, Marker{
			ID:             p.ID,
			Name:           p.Name,
			ScientificName: p.ScientificName,
			Type:           p.Type,
			Position:       p.Position,
			Color:          sw.name,
			Hex:            sw.hex,
			Selected:       st.PlantID != "" && st.PlantID == p.ID,
			Draggable:      edit,
		})
	}
	return out
}

// MapClick starts placing a new plant at pos. It needs edit mode.
func (s *Surface) MapClick(pos model.LatLng) (selection.State, error) {
	if !s.sel.EditMode() {
		return s.sel.State(), ErrEditModeOff
	}
	if !pos.Valid() {
		return s.sel.State(), model.ValidationError{Field: "position", Reason: "invalid coordinates"}
	}
	s.log.WithFields(logrus.Fields{"lat": pos.Lat, "lng": pos.Lng}).Debug("map click")
	return s.sel.BeginCreate(pos), nil
}

// MarkerClick selects the plant behind a marker. It works with edit mode on or off.
func (s *Surface) MarkerClick(id string) (selection.State, error) {
	p, ok := s.catalog.Find(id)
	if !ok {
		return s.sel.State(), model.NotFoundError{Kind: "plant", ID: id}
	}
	return s.sel.Select(p), nil
}

// DragEnd moves id to pos. With edit mode off nothing reaches the catalog. When the moved plant
// is the one being viewed, the viewed snapshot is replaced with the stored record.
func (s *Surface) DragEnd(ctx context.Context, id string, pos model.LatLng) (selection.State, error) {
	if !s.sel.EditMode() {
		return s.sel.State(), ErrEditModeOff
	}
	if _, err := s.catalog.Reposition(ctx, id, pos); err != nil {
		return s.sel.State(), err
	}
	if p, ok := s.catalog.Find(id); ok {
		s.sel.Refresh(p)
	}
	s.log.WithFields(logrus.Fields{"plant": id, "lat": pos.Lat, "lng": pos.Lng}).Debug("marker moved")
	return s.sel.State(), nil
}

// Bounds returns the south-west and north-east corners enclosing every marker. ok is false when
// there are no markers.
func Bounds(markers []Marker) (sw, ne model.LatLng, ok bool) {
	if len(markers) == 0 {
		return model.LatLng{}, model.LatLng{}, false
	}
	sw = model.LatLng{Lat: math.Inf(1), Lng: math.Inf(1)}
	ne = model.LatLng{Lat: math.Inf(-1), Lng: math.Inf(-1)}
	for _, m := range markers {
		sw.Lat = math.Min(sw.Lat, m.Position.Lat)
		sw.Lng = math.Min(sw.Lng, m.Position.Lng)
		ne.Lat = math.Max(ne.Lat, m.Position.Lat)
		ne.Lng = math.Max(ne.Lng, m.Position.Lng)
	}
	return sw, ne, true
}
