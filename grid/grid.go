// Package grid tracks which cubic cell of world space an entity occupies
// and tells subscribers when that cell changes.
package grid

import (
	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/logs"

	"precip-engine/core"
	"precip-engine/math"
	"precip-engine/scene"
)

const (
	// DefaultSize is the side length of one cell, in meters.
	DefaultSize = 10

	// NeighborhoodSize is the number of cells in the 3x3x3 block around a cell.
	NeighborhoodSize = 27

	ErrTypeNoTarget = "grid_no_target"
)

// Cell identifies one cubic region of world space.
type Cell = math.Vec3i

// Tracked is anything with a world position, typically the player or camera.
// Update only detects a nil interface, so a typed nil Target must handle a
// nil receiver itself (scene.FreeCamera does).
type Tracked interface {
	WorldPosition() math.Vec3
}

// CellOf quantizes p to the cell containing it. Floor division keeps
// negative coordinates in the right cell: x=-1 with size 10 is cell -1.
func CellOf(p math.Vec3, size float32) Cell {
	return Cell{
		X: math.FloorDiv(p.X, size),
		Y: math.FloorDiv(p.Y, size),
		Z: math.FloorDiv(p.Z, size),
	}
}

// CellCenter returns the center of cell c.
func CellCenter(c Cell, size float32) math.Vec3 {
	half := size * 0.5
	return math.Vec3{
		X: float32(c.X)*size + half,
		Y: float32(c.Y)*size + half,
		Z: float32(c.Z)*size + half,
	}
}

// Offsets lists the 27 neighbor offsets in {-1,0,1}³, x outermost and z
// innermost. Anything indexed by neighborhood position uses this order.
var Offsets = func() [NeighborhoodSize]Cell {
	var out [NeighborhoodSize]Cell
	i := 0
	for x := -1; x <= 1; x++ {
		for y := -1; y <= 1; y++ {
			for z := -1; z <= 1; z++ {
				out[i] = Cell{X: x, Y: y, Z: z}
				i++
			}
		}
	}
	return out
}()

// Neighborhood returns c and its 26 neighbors in Offsets order.
func Neighborhood(c Cell) [NeighborhoodSize]Cell {
	var out [NeighborhoodSize]Cell
	for i, off := range Offsets {
		out[i] = c.Add(off)
	}
	return out
}

// Handler follows a Tracked target and notifies subscribers whenever the
// target enters a different cell. It is driven once per frame through
// Update and is not safe for concurrent use.
type Handler struct {
	// Size is the side length of a cell. Must be > 0.
	Size float32

	// Target is the tracked entity. A nil target is logged and skipped.
	Target Tracked

	last     Cell
	tracking bool

	subs   []*Subscription
	nextID uint64
}

func NewHandler(size float32, target Tracked) *Handler {
	if size <= 0 {
		size = DefaultSize
	}
	return &Handler{
		Size:   size,
		Target: target,
	}
}

// Observe feeds a position into the state machine. It returns the new cell
// and true when the position maps to a different cell than the cached one,
// or when no cell has been cached yet.
func (h *Handler) Observe(p math.Vec3) (Cell, bool) {
	c := CellOf(p, h.Size)
	if h.tracking && c == h.last {
		return c, false
	}
	h.last = c
	h.tracking = true
	return c, true
}

// Current returns the cached cell, if any.
func (h *Handler) Current() (Cell, bool) {
	return h.last, h.tracking
}

// CellCenter returns the center of c using the handler's cell size.
func (h *Handler) CellCenter(c Cell) math.Vec3 {
	return CellCenter(c, h.Size)
}

// Update polls the target and broadcasts a cell change. Subscribers run
// synchronously, before Update returns.
func (h *Handler) Update(dt float32) {
	if h.Target == nil {
		instrumentMissingTarget()
		logs.Warn(errors.New("grid handler has no tracked target").
			WithType(ErrTypeNoTarget))
		return
	}

	c, changed := h.Observe(h.Target.WorldPosition())
	if !changed {
		return
	}
	instrumentCellChange()
	logs.WithTag("cell", c.String()).Info("tracked cell changed")
	h.notify(c)
}

func (h *Handler) notify(c Cell) {
	// Copy so subscribers can unsubscribe from inside the callback.
	subs := append([]*Subscription(nil), h.subs...)
	for _, s := range subs {
		if s.active {
			s.fn(c)
		}
	}
}

// Subscription is the handle returned by Subscribe.
type Subscription struct {
	id     uint64
	h      *Handler
	fn     func(Cell)
	active bool
}

// Subscribe registers fn to be called with the new cell on every change.
// Callbacks run in subscription order.
func (h *Handler) Subscribe(fn func(Cell)) *Subscription {
	h.nextID++
	s := &Subscription{id: h.nextID, h: h, fn: fn, active: true}
	h.subs = append(h.subs, s)
	return s
}

// Unsubscribe detaches the callback. Safe to call more than once and from
// inside a notification.
func (s *Subscription) Unsubscribe() {
	if s == nil || !s.active {
		return
	}
	s.active = false
	subs := s.h.subs
	for i, other := range subs {
		if other.id == s.id {
			s.h.subs = append(subs[:i:i], subs[i+1:]...)
			break
		}
	}
}

// Active reports whether the subscription still receives notifications.
func (s *Subscription) Active() bool {
	return s != nil && s.active
}

// Subscribers returns the number of live subscriptions.
func (h *Handler) Subscribers() int {
	return len(h.subs)
}

// Gizmos returns wire cubes for the 27 cells around the tracked cell. The
// center cell is green and slightly smaller so it stands out. Nothing is
// returned before the first cell is known.
func (h *Handler) Gizmos() []scene.Gizmo {
	if !h.tracking {
		return nil
	}
	out := make([]scene.Gizmo, 0, NeighborhoodSize)
	for i, c := range Neighborhood(h.last) {
		g := scene.Gizmo{
			Center: h.CellCenter(c),
			Size:   h.Size,
			Color:  core.ColorRed,
		}
		if Offsets[i] == (Cell{}) {
			g.Color = core.ColorGreen
			g.Size = h.Size * 0.95
		}
		out = append(out, g)
	}
	return out
}
