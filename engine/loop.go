// Package engine hosts the per-frame update loop that drives every
// component of the demo.
package engine

import (
	"fmt"

	"github.com/aukilabs/go-tooling/pkg/logs"

	"precip-engine/core"
	"precip-engine/math"
	"precip-engine/scene"
)

// Component is anything updated once per frame.
type Component interface {
	Update(dt float32)
}

// Enabler is implemented by components that take or release resources when
// they join or leave the loop.
type Enabler interface {
	OnEnable()
	OnDisable()
}

// GizmoSource is implemented by components that draw editor-only helpers.
type GizmoSource interface {
	Gizmos() []scene.Gizmo
}

// GizmoDrawer draws a wire cube.
type GizmoDrawer interface {
	DrawWireBox(center math.Vec3, size float32, color core.Color)
}

// Loop is a single-threaded, cooperative frame loop. Components are updated
// in registration order; a component's Update returns before the next one
// starts.
type Loop struct {
	// Gizmos enables the gizmo pass.
	Gizmos bool

	components []Component
	frame      uint64
	elapsed    float32
}

func NewLoop() *Loop {
	return &Loop{}
}

// Register appends c to the loop and enables it.
func (l *Loop) Register(c Component) {
	l.components = append(l.components, c)
	if e, ok := c.(Enabler); ok {
		e.OnEnable()
	}
	logs.WithTag("component", componentName(c)).
		WithTag("index", len(l.components)-1).
		Info("component registered")
}

// Tick runs one frame.
func (l *Loop) Tick(dt float32) {
	for _, c := range l.components {
		c.Update(dt)
	}
	l.frame++
	l.elapsed += dt
	instrumentFrame(dt)
}

// DrawGizmos hands every gizmo of every GizmoSource to d. It does nothing
// unless Gizmos is set.
func (l *Loop) DrawGizmos(d GizmoDrawer) {
	if !l.Gizmos {
		return
	}
	for _, c := range l.components {
		src, ok := c.(GizmoSource)
		if !ok {
			continue
		}
		for _, g := range src.Gizmos() {
			d.DrawWireBox(g.Center, g.Size, g.Color)
		}
	}
}

// Close disables the components in reverse registration order and empties
// the loop.
func (l *Loop) Close() {
	for i := len(l.components) - 1; i >= 0; i-- {
		if e, ok := l.components[i].(Enabler); ok {
			e.OnDisable()
		}
	}
	l.components = nil
}

// Len returns the number of registered components.
func (l *Loop) Len() int {
	return len(l.components)
}

// Frame returns the number of completed ticks.
func (l *Loop) Frame() uint64 {
	return l.frame
}

// Elapsed returns the sum of all tick deltas, in seconds.
func (l *Loop) Elapsed() float32 {
	return l.elapsed
}

func componentName(c Component) string {
	return fmt.Sprintf("%T", c)
}
