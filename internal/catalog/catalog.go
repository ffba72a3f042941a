// Package catalog keeps the in-memory plant list that every surface renders from and keeps it
// converged with a store.PlantStore.
package catalog

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"gardenmap/internal/model"
	"gardenmap/internal/store"

	"github.com/sirupsen/logrus"
)

// ErrBusy is returned when a mutation is attempted while another one is still in flight.
var ErrBusy = errors.New("catalog: another change is still being saved")

// Catalog is the authoritative plant list. Reads are served from the cache; every mutation
// persists first and then replaces the cache with a fresh GetAll, so the cache never holds a
// state the store has not confirmed.
type Catalog struct {
	store store.PlantStore
	log   logrus.FieldLogger

	mu     sync.RWMutex
	plants []model.Plant
	loaded bool

	// refreshMu orders GetAll+swap pairs so a slower read never lands after a newer one.
	refreshMu sync.Mutex
	// inflight is the single mutation slot.
	inflight atomic.Bool
	hub      *Hub
}

type Option func(*Catalog)

func WithLogger(l logrus.FieldLogger) Option {
	return func(c *Catalog) {
		if l != nil {
			c.log = l
		}
	}
}

func New(st store.PlantStore, opts ...Option) *Catalog {
	c := &Catalog{
		store: st,
		log:   logrus.StandardLogger(),
		hub:   NewHub(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Load fetches the full plant set and replaces the cache.
func (c *Catalog) Load(ctx context.Context) ([]model.Plant, error) {
	if err := c.refresh(ctx, "load"); err != nil {
		return nil, err
	}
	return c.Plants(), nil
}

// Plants returns a copy of the cached plant list in store order.
func (c *Catalog) Plants() []model.Plant {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]model.Plant, 0, len(c.plants))
	for _, p := range c.plants {
		out = append(out, p.Clone())
	}
	return out
}

func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.plants)
}

func (c *Catalog) Loaded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loaded
}

func (c *Catalog) Find(id string) (model.Plant, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, p := range c.plants {
		if p.ID == id {
			return p.Clone(), true
		}
	}
	return model.Plant{}, false
}

// Busy reports whether a mutation is in flight.
func (c *Catalog) Busy() bool { return c.inflight.Load() }

// Subscribe returns a channel that receives a ping after every cache replacement.
func (c *Catalog) Subscribe() (<-chan struct{}, func()) {
	return c.hub.Subscribe()
}

// Create validates p, inserts it and returns the refreshed plant set.
func (c *Catalog) Create(ctx context.Context, p model.Plant) ([]model.Plant, error) {
	if err := c.begin(); err != nil {
		return nil, err
	}
	defer c.end()

	p = model.Normalize(p)
	if err := model.Validate(p); err != nil {
		return nil, err
	}
	if _, exists := c.Find(p.ID); exists {
		return nil, model.ValidationError{Field: "id", Reason: "already in use: " + p.ID}
	}
	if err := c.store.Insert(ctx, p); err != nil {
		var ve model.ValidationError
		if errors.As(err, &ve) {
			return nil, ve
		}
		return nil, c.storeErr("insert", p.ID, err)
	}
	c.log.WithField("plant", p.ID).Debug("plant created")
	if err := c.refresh(ctx, "insert"); err != nil {
		return nil, err
	}
	return c.Plants(), nil
}

// Update validates p, replaces the stored record and returns the refreshed plant set.
// It fails with model.NotFoundError when the store has no record with p.ID.
func (c *Catalog) Update(ctx context.Context, p model.Plant) ([]model.Plant, error) {
	if err := c.begin(); err != nil {
		return nil, err
	}
	defer c.end()
	return c.update(ctx, p)
}

func (c *Catalog) update(ctx context.Context, p model.Plant) ([]model.Plant, error) {
	p = model.Normalize(p)
	if err := model.Validate(p); err != nil {
		return nil, err
	}
	if err := c.store.Update(ctx, p); err != nil {
		var nf model.NotFoundError
		if errors.As(err, &nf) {
			// The cache may still list it (external delete); converge before reporting.
			_ = c.refresh(ctx, "update")
			return nil, nf
		}
		var ve model.ValidationError
		if errors.As(err, &ve) {
			return nil, ve
		}
		return nil, c.storeErr("update", p.ID, err)
	}
	c.log.WithField("plant", p.ID).Debug("plant updated")
	if err := c.refresh(ctx, "update"); err != nil {
		return nil, err
	}
	return c.Plants(), nil
}

// Remove deletes id and returns the refreshed plant set. Removing an id that is already gone
// is not an error.
func (c *Catalog) Remove(ctx context.Context, id string) ([]model.Plant, error) {
	if err := c.begin(); err != nil {
		return nil, err
	}
	defer c.end()

	if err := c.store.Delete(ctx, id); err != nil {
		var nf model.NotFoundError
		if !errors.As(err, &nf) {
			return nil, c.storeErr("delete", id, err)
		}
		c.log.WithField("plant", id).Debug("delete of absent plant ignored")
	} else {
		c.log.WithField("plant", id).Debug("plant deleted")
	}
	if err := c.refresh(ctx, "delete"); err != nil {
		return nil, err
	}
	return c.Plants(), nil
}

// Reposition moves id to pos, leaving every other field untouched.
func (c *Catalog) Reposition(ctx context.Context, id string, pos model.LatLng) ([]model.Plant, error) {
	if err := c.begin(); err != nil {
		return nil, err
	}
	defer c.end()

	p, ok := c.Find(id)
	if !ok {
		return nil, model.NotFoundError{Kind: "plant", ID: id}
	}
	if !pos.Valid() {
		return nil, model.ValidationError{Field: "position", Reason: "invalid coordinates"}
	}
	p.Position = pos
	return c.update(ctx, p)
}

// Reload re-reads the store without mutating it, for changes made outside this process.
// It queues behind any refresh already running, so it never replaces a newer snapshot.
func (c *Catalog) Reload(ctx context.Context) error {
	return c.refresh(ctx, "reload")
}

// Watch reloads the catalog whenever the store reports an external change. It returns
// immediately when the store cannot watch.
func (c *Catalog) Watch(ctx context.Context) error {
	w, ok := c.store.(store.Watcher)
	if !ok {
		return nil
	}
	return w.Watch(ctx, func() {
		if err := c.Reload(ctx); err != nil {
			c.log.WithError(err).Warn("reload after external change failed")
		}
	})
}

func (c *Catalog) begin() error {
	if !c.inflight.CompareAndSwap(false, true) {
		return ErrBusy
	}
	return nil
}

func (c *Catalog) end() { c.inflight.Store(false) }

func (c *Catalog) refresh(ctx context.Context, op string) error {
	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()
	plants, err := c.store.GetAll(ctx)
	if err != nil {
		return c.storeErr("get all after "+op, "", err)
	}
	c.mu.Lock()
	c.plants = plants
	c.loaded = true
	c.mu.Unlock()
	c.hub.Broadcast()
	return nil
}

func (c *Catalog) storeErr(op, id string, err error) error {
	entry := c.log.WithError(err).WithField("op", op)
	if id != "" {
		entry = entry.WithField("plant", id)
	}
	entry.Error("plant store failure")
	return model.StoreError{Op: op, Err: err}
}
