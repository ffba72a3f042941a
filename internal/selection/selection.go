// Package selection tracks which plant the user is looking at, editing or placing.
package selection

import (
	"sync"

	"gardenmap/internal/model"
)

type Mode int

const (
	Idle Mode = iota
	Viewing
	Editing
	Placing
)

func (m Mode) String() string {
	switch m {
	case Viewing:
		return "viewing"
	case Editing:
		return "editing"
	case Placing:
		return "placing"
	default:
		return "idle"
	}
}

// State is a snapshot of the controller. Exactly one mode holds at a time.
//
//   - Viewing: PlantID and Plant (the snapshot the detail panel renders) are set.
//   - Editing: PlantID is the plant being edited, or "" when the form is creating a new plant.
//   - Placing: Position is where the new plant will go.
type State struct {
	Mode     Mode
	PlantID  string
	Plant    *model.Plant
	Position model.LatLng
}

// Creating reports whether a form is open for a plant that does not exist yet.
func (s State) Creating() bool {
	return s.Mode == Placing || (s.Mode == Editing && s.PlantID == "")
}

// Controller is the selection state machine plus the orthogonal edit-mode flag.
// It is safe for concurrent use.
type Controller struct {
	mu       sync.Mutex
	state    State
	editMode bool
}

func New() *Controller { return &Controller{} }

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot()
}

func (c *Controller) snapshot() State {
	st := c.state
	if st.Plant != nil {
		p := st.Plant.Clone()
		st.Plant = &p
	}
	return st
}

func (c *Controller) EditMode() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.editMode
}

// Select shows p in the detail panel, dismissing any open form.
func (c *Controller) Select(p model.Plant) State {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setViewing(p)
	return c.snapshot()
}

// Edit opens the form for p. A p with an empty ID opens the form for a new plant.
func (c *Controller) Edit(p model.Plant) State {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = State{Mode: Editing, PlantID: p.ID}
	return c.snapshot()
}

// BeginCreate starts placing a new plant at pos.
func (c *Controller) BeginCreate(pos model.LatLng) State {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = State{Mode: Placing, Position: pos}
	return c.snapshot()
}

// Save records that p was persisted from the open form; p becomes the viewed plant.
func (c *Controller) Save(p model.Plant) State {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setViewing(p)
	return c.snapshot()
}

// Cancel closes an open form. It does nothing unless Editing or Placing.
func (c *Controller) Cancel() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.Mode == Editing || c.state.Mode == Placing {
		c.state = State{}
	}
	return c.snapshot()
}

// Close dismisses the detail panel. It does nothing unless Viewing.
func (c *Controller) Close() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.Mode == Viewing {
		c.state = State{}
	}
	return c.snapshot()
}

// Deleted returns to Idle after id was removed, if id is what the panel shows or edits.
func (c *Controller) Deleted(id string) State {
	c.mu.Lock()
	defer c.mu.Unlock()
	if (c.state.Mode == Viewing || c.state.Mode == Editing) && c.state.PlantID == id {
		c.state = State{}
	}
	return c.snapshot()
}

// Refresh replaces the viewed snapshot when p is the plant being viewed, so the detail panel
// follows changes (such as a drag) without re-selecting. It reports whether it applied.
func (c *Controller) Refresh(p model.Plant) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.Mode != Viewing || c.state.PlantID != p.ID {
		return false
	}
	c.setViewing(p)
	return true
}

// ToggleEditMode flips edit mode and dismisses whatever panel was open.
func (c *Controller) ToggleEditMode() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.editMode = !c.editMode
	c.state = State{}
	return c.editMode
}

// SetEditMode is ToggleEditMode for callers that know the target value. Setting the current
// value is a no-op and leaves the panel open.
func (c *Controller) SetEditMode(on bool) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.editMode != on {
		c.editMode = on
		c.state = State{}
	}
	return c.editMode
}

func (c *Controller) setViewing(p model.Plant) {
	cp := p.Clone()
	c.state = State{Mode: Viewing, PlantID: p.ID, Plant: &cp}
}
