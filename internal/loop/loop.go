package loop

import (
	"fmt"
	"math"
	"sync"
)

// State is the controller's position in the marking cycle.
type State int

const (
	Unset State = iota
	AMarked
	Active
)

func (s State) String() string {
	switch s {
	case Unset:
		return "unset"
	case AMarked:
		return "a_marked"
	case Active:
		return "active"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Region is a snapshot of the loop. B is meaningful only when Active.
type Region struct {
	State State
	A     float64
	B     float64
}

// Active reports whether the region repeats.
func (r Region) Active() bool { return r.State == Active }

// Contains reports whether pos falls inside an active region.
func (r Region) Contains(pos float64) bool {
	return r.Active() && pos >= r.A && pos < r.B
}

// Length returns B-A for an active region and zero otherwise.
func (r Region) Length() float64 {
	if !r.Active() {
		return 0
	}
	return r.B - r.A
}

// Controller holds the loop region. Only user actions mutate it.
type Controller struct {
	mu     sync.Mutex
	region Region
}

// NewController returns an Unset controller.
func NewController() *Controller {
	return &Controller{}
}

// Mark advances the cycle at pos and returns the resulting region.
func (c *Controller) Mark(pos float64) Region {
	c.mu.Lock()
	defer c.mu.Unlock()
	if math.IsNaN(pos) {
		return c.region
	}
	switch c.region.State {
	case Unset:
		c.region = Region{State: AMarked, A: pos}
	case AMarked:
		a := c.region.A
		switch {
		case pos == a:
			// An empty region can never repeat.
		case pos < a:
			c.region = Region{State: Active, A: pos, B: a}
		default:
			c.region = Region{State: Active, A: a, B: pos}
		}
	case Active:
		c.region = Region{}
	}
	return c.region
}

// Set installs an active region directly. The points are ordered and an
// empty region clears the loop.
func (c *Controller) Set(a, b float64) Region {
	c.mu.Lock()
	defer c.mu.Unlock()
	if math.IsNaN(a) || math.IsNaN(b) || a == b {
		c.region = Region{}
		return c.region
	}
	if b < a {
		a, b = b, a
	}
	c.region = Region{State: Active, A: a, B: b}
	return c.region
}

// Clear returns to Unset.
func (c *Controller) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.region = Region{}
}

// Region returns the current region.
func (c *Controller) Region() Region {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.region
}

// Wrap reports the seek target when pos has reached the end of an active
// region.
func (c *Controller) Wrap(pos float64) (float64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.region.State != Active || pos < c.region.B {
		return 0, false
	}
	return c.region.A, true
}
