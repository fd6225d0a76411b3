// Package weather draws rain and snow as instanced point clouds around the
// cell a grid.Handler is tracking.
package weather

import (
	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/logs"

	"precip-engine/core"
	"precip-engine/grid"
	"precip-engine/math"
	"precip-engine/scene"
)

const (
	RainShader = "Hidden/Environment/Rain"
	SnowShader = "Hidden/Environment/Snow"

	// GridSizeProperty is the material float the shaders read the cell
	// size from.
	GridSizeProperty = "_GridSize"

	ErrTypeNoGrid = "weather_no_grid"
)

// InstancedDrawer submits one mesh drawn once per model matrix.
type InstancedDrawer interface {
	DrawMeshInstanced(mesh *scene.Mesh, mat *scene.Material, models []math.Mat4, opts scene.DrawOptions)
}

// Manager keeps one precipitation volume centered on each of the 27 cells
// around the tracked cell and draws them every frame.
type Manager struct {
	Grid   *grid.Handler
	Drawer InstancedDrawer
	Mesh   *MeshCache

	placements [grid.NeighborhoodSize]core.Transform
	models     [grid.NeighborhoodSize]math.Mat4
	rain, snow *scene.Material
	sub        *grid.Subscription
}

// NewManager creates a manager for h. Placements start out around cell
// (0,0,0) so there is always a full set to draw.
func NewManager(h *grid.Handler, drawer InstancedDrawer, mesh *MeshCache) *Manager {
	m := &Manager{
		Grid:   h,
		Drawer: drawer,
		Mesh:   mesh,
	}
	if m.Mesh == nil {
		m.Mesh = NewMeshCache(DefaultSubdivisions, nil)
	}
	m.OnGridChange(grid.Cell{})
	return m
}

// OnEnable subscribes to cell changes. If the handler already knows its
// cell the placements are refreshed right away instead of waiting for the
// next change.
func (m *Manager) OnEnable() {
	if m.Grid == nil || m.sub.Active() {
		return
	}
	m.sub = m.Grid.Subscribe(m.OnGridChange)
	if c, ok := m.Grid.Current(); ok {
		m.OnGridChange(c)
	}
}

// OnDisable drops the subscription taken by OnEnable.
func (m *Manager) OnDisable() {
	m.sub.Unsubscribe()
	m.sub = nil
}

// OnGridChange moves the placements to the neighborhood of c.
func (m *Manager) OnGridChange(c grid.Cell) {
	size := float32(grid.DefaultSize)
	if m.Grid != nil {
		size = m.Grid.Size
	}
	for i, n := range grid.Neighborhood(c) {
		t := core.NewTransform()
		t.Position = grid.CellCenter(n, size)
		m.placements[i] = t
	}
}

// Placements returns a copy of the current instance transforms, in
// neighborhood order. Rotation is identity and scale is one.
func (m *Manager) Placements() [grid.NeighborhoodSize]core.Transform {
	return m.placements
}

// Models returns the placements as model matrices, in the order they are
// drawn.
func (m *Manager) Models() [grid.NeighborhoodSize]math.Mat4 {
	var models [grid.NeighborhoodSize]math.Mat4
	for i, t := range m.placements {
		models[i] = t.GetMatrix()
	}
	return models
}

// Update draws rain then snow. The mesh is built on the first frame.
func (m *Manager) Update(dt float32) {
	if m.Grid == nil {
		logs.Warn(errors.New("precipitation manager has no grid handler").
			WithType(ErrTypeNoGrid))
		return
	}

	mesh, err := m.Mesh.Get()
	if err != nil {
		logs.Warn(errors.New("building precipitation mesh failed").Wrap(err))
		return
	}
	if m.Drawer == nil {
		return
	}

	m.models = m.Models()
	m.render(mesh, m.RainMaterial())
	m.render(mesh, m.SnowMaterial())
}

func (m *Manager) render(mesh *scene.Mesh, mat *scene.Material) {
	mat.SetFloat(GridSizeProperty, m.Grid.Size)
	m.Drawer.DrawMeshInstanced(mesh, mat, m.models[:], scene.DrawOptions{
		CastShadows:    false,
		UseLightProbes: false,
	})
	instrumentInstancesDrawn(mat.Name, len(m.models))
}

// RebuildMesh rebuilds the point mesh from the cache's current
// subdivisions.
func (m *Manager) RebuildMesh() error {
	_, err := m.Mesh.Rebuild()
	return err
}

// RainMaterial returns the rain material, creating it on first use.
func (m *Manager) RainMaterial() *scene.Material {
	if m.rain == nil {
		m.rain = scene.NewMaterial(RainShader)
	}
	return m.rain
}

// SnowMaterial returns the snow material, creating it on first use.
func (m *Manager) SnowMaterial() *scene.Material {
	if m.snow == nil {
		m.snow = scene.NewMaterial(SnowShader)
	}
	return m.snow
}
