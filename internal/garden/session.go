// Package garden composes the catalog, the selection controller, the map surface and the list
// filter into the operations the web and terminal front ends share.
package garden

import (
	"context"
	"errors"
	"sync"
	"time"

	"gardenmap/internal/catalog"
	"gardenmap/internal/filter"
	"gardenmap/internal/mapview"
	"gardenmap/internal/model"
	"gardenmap/internal/selection"
	"gardenmap/internal/store"

	"github.com/sirupsen/logrus"
)

// ErrNoForm is returned by Save when no form is open.
var ErrNoForm = errors.New("no plant form is open")

// Confirmer asks the user before a destructive action.
type Confirmer interface {
	Confirm(p model.Plant) bool
}

type ConfirmFunc func(p model.Plant) bool

func (f ConfirmFunc) Confirm(p model.Plant) bool { return f(p) }

// Confirmed is a Confirmer for callers that already asked (a --yes flag, a confirm=yes query).
var Confirmed Confirmer = ConfirmFunc(func(model.Plant) bool { return true })

type Session struct {
	Catalog   *catalog.Catalog
	Selection *selection.Controller
	Map       *mapview.Surface

	log   logrus.FieldLogger
	now   func() time.Time
	newID func() string

	mu         sync.Mutex
	query      filter.Query
	filterOpen bool
}

type Option func(*sessionOptions)

type sessionOptions struct {
	log      logrus.FieldLogger
	viewport *mapview.Viewport
	now      func() time.Time
	newID    func() string
}

func WithLogger(l logrus.FieldLogger) Option {
	return func(o *sessionOptions) { o.log = l }
}

func WithViewport(v mapview.Viewport) Option {
	return func(o *sessionOptions) { o.viewport = &v }
}

func WithClock(now func() time.Time) Option {
	return func(o *sessionOptions) { o.now = now }
}

func WithIDGenerator(next func() string) Option {
	return func(o *sessionOptions) { o.newID = next }
}

// New wires a session around st. Call Start before use.
func New(st store.PlantStore, opts ...Option) *Session {
	o := sessionOptions{
		log:   logrus.StandardLogger(),
		now:   time.Now,
		newID: store.NewPlantID,
	}
	for _, opt := range opts {
		opt(&o)
	}
	c := catalog.New(st, catalog.WithLogger(o.log))
	sel := selection.New()
	mapOpts := []mapview.Option{mapview.WithLogger(o.log)}
	if o.viewport != nil {
		mapOpts = append(mapOpts, mapview.WithViewport(*o.viewport))
	}
	return &Session{
		Catalog:   c,
		Selection: sel,
		Map:       mapview.New(c, sel, mapOpts...),
		log:       o.log,
		now:       o.now,
		newID:     o.newID,
		query:     filter.Query{Type: filter.AllTypes},
	}
}

// Start loads the catalog and keeps the selection in step with it until ctx is done.
func (s *Session) Start(ctx context.Context) error {
	plants, err := s.Catalog.Load(ctx)
	if err != nil {
		return err
	}
	s.log.WithField("plants", len(plants)).Info("garden loaded")
	changes, cancel := s.Catalog.Subscribe()
	go func() {
		defer cancel()
		for {
			select {
			case <-ctx.Done():
				return
			case <-changes:
				s.Reconcile()
			}
		}
	}()
	return nil
}

// Reconcile points the open panel at the cached plant it shows. A viewed plant picks up the
// cached copy; a viewed or edited plant that left the catalog returns the panel to idle.
func (s *Session) Reconcile() selection.State {
	st := s.Selection.State()
	if st.PlantID == "" || (st.Mode != selection.Viewing && st.Mode != selection.Editing) {
		return st
	}
	p, ok := s.Catalog.Find(st.PlantID)
	if !ok {
		s.log.WithField("plant", st.PlantID).Debug("selected plant left the catalog")
		return s.Selection.Deleted(st.PlantID)
	}
	s.Selection.Refresh(p)
	return s.Selection.State()
}

func (s *Session) Query() filter.Query {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.query
}

func (s *Session) SetQuery(q filter.Query) {
	if q.Type == "" {
		q.Type = filter.AllTypes
	}
	s.mu.Lock()
	s.query = q
	s.mu.Unlock()
}

func (s *Session) SetSearch(term string) {
	s.mu.Lock()
	s.query.Search = term
	s.mu.Unlock()
}

func (s *Session) SetType(typ string) {
	if typ == "" {
		typ = filter.AllTypes
	}
	s.mu.Lock()
	s.query.Type = typ
	s.mu.Unlock()
}

// Visible returns the catalog filtered by the current query.
func (s *Session) Visible() (filter.Result, error) {
	return s.Query().Apply(s.Catalog.Plants())
}

func (s *Session) FilterPanelOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filterOpen
}

func (s *Session) ToggleFilterPanel() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filterOpen = !s.filterOpen
	return s.filterOpen
}

// SelectFromList selects a plant from the list panel; it behaves like a marker click.
func (s *Session) SelectFromList(id string) (selection.State, error) {
	return s.Map.MarkerClick(id)
}

// NewPlant opens an empty form at the map center, without a map click.
func (s *Session) NewPlant() selection.State {
	return s.Selection.Edit(model.Plant{})
}

// EditSelected opens the form for the plant being viewed.
func (s *Session) EditSelected() (selection.State, error) {
	st := s.Selection.State()
	if st.Mode != selection.Viewing {
		return st, ErrNoForm
	}
	p, ok := s.Catalog.Find(st.PlantID)
	if !ok {
		s.Selection.Deleted(st.PlantID)
		return s.Selection.State(), model.NotFoundError{Kind: "plant", ID: st.PlantID}
	}
	return s.Selection.Edit(p), nil
}

// Draft returns the record the open form starts from: the stored plant when editing, or a
// defaulted new plant when creating. ok is false when no form is open.
func (s *Session) Draft() (model.Plant, bool) {
	st := s.Selection.State()
	switch {
	case st.Mode == selection.Placing:
		return model.NewDraft("", st.Position, s.now()), true
	case st.Mode == selection.Editing && st.PlantID == "":
		return model.NewDraft("", s.Map.Viewport().Center, s.now()), true
	case st.Mode == selection.Editing:
		p, ok := s.Catalog.Find(st.PlantID)
		return p, ok
	}
	return model.Plant{}, false
}

// Save persists the open form. Creating assigns a fresh id and inserts; editing updates the
// plant the form was opened for. On success the saved plant becomes the viewed plant. On failure
// the form stays open and the catalog is unchanged.
func (s *Session) Save(ctx context.Context, p model.Plant) (model.Plant, error) {
	st := s.Selection.State()
	if st.Mode != selection.Editing && st.Mode != selection.Placing {
		return model.Plant{}, ErrNoForm
	}

	var err error
	if st.Creating() {
		p.ID = s.newID()
		_, err = s.Catalog.Create(ctx, p)
	} else {
		p.ID = st.PlantID
		_, err = s.Catalog.Update(ctx, p)
	}
	if err != nil {
		return model.Plant{}, err
	}

	saved, ok := s.Catalog.Find(p.ID)
	if !ok {
		return model.Plant{}, model.NotFoundError{Kind: "plant", ID: p.ID}
	}
	s.Selection.Save(saved)
	s.log.WithFields(logrus.Fields{"plant": saved.ID, "created": st.Creating()}).Info("plant saved")
	return saved, nil
}

// Delete removes id after c confirms. A declined confirmation issues no store call and reports
// false.
func (s *Session) Delete(ctx context.Context, id string, c Confirmer) (bool, error) {
	p, ok := s.Catalog.Find(id)
	if !ok {
		p = model.Plant{ID: id}
	}
	if c == nil || !c.Confirm(p) {
		s.log.WithField("plant", id).Debug("delete declined")
		return false, nil
	}
	if _, err := s.Catalog.Remove(ctx, id); err != nil {
		return false, err
	}
	s.Selection.Deleted(id)
	s.log.WithField("plant", id).Info("plant deleted")
	return true, nil
}
