package weather

import (
	"testing"

	"github.com/stretchr/testify/require"

	"precip-engine/grid"
	"precip-engine/math"
	"precip-engine/scene"
)

type draw struct {
	mesh     *scene.Mesh
	shader   string
	gridSize float32
	models   []math.Mat4
	opts     scene.DrawOptions
}

type recordingDrawer struct {
	draws []draw
}

func (d *recordingDrawer) DrawMeshInstanced(mesh *scene.Mesh, mat *scene.Material, models []math.Mat4, opts scene.DrawOptions) {
	size, _ := mat.GetFloat(GridSizeProperty)
	d.draws = append(d.draws, draw{
		mesh:     mesh,
		shader:   mat.Shader,
		gridSize: size,
		models:   append([]math.Mat4(nil), models...),
		opts:     opts,
	})
}

type point struct {
	p math.Vec3
}

func (pt *point) WorldPosition() math.Vec3 { return pt.p }

func newTestManager(target grid.Tracked) (*Manager, *grid.Handler, *recordingDrawer) {
	h := grid.NewHandler(10, target)
	d := &recordingDrawer{}
	m := NewManager(h, d, NewMeshCache(4, nil))
	return m, h, d
}

func TestInitialPlacements(t *testing.T) {
	m, _, _ := newTestManager(nil)

	p := m.Placements()
	require.Len(t, p, grid.NeighborhoodSize)
	require.Equal(t, math.NewVec3(-5, -5, -5), p[0].Position)
	require.Equal(t, math.NewVec3(5, 5, 5), p[13].Position)
	require.Equal(t, math.NewVec3(15, 15, 15), p[26].Position)
}

func TestPlacementsFollowGrid(t *testing.T) {
	target := &point{p: math.NewVec3(-1, 0, 0)}
	m, h, _ := newTestManager(target)
	m.OnEnable()

	h.Update(0)

	p := m.Placements()
	models := m.Models()
	cells := grid.Neighborhood(grid.Cell{X: -1})
	for i, c := range cells {
		want := grid.CellCenter(c, 10)
		require.Equal(t, want, p[i].Position)
		require.Equal(t, math.QuaternionIdentity(), p[i].Rotation)
		require.Equal(t, math.Vec3One, p[i].Scale)

		// Translation only.
		require.Equal(t, math.Mat4Translation(want), models[i])
		require.Equal(t, want, models[i].Translation())
	}

	first := m.Placements()
	target.p = math.NewVec3(-2, 3, 4)
	h.Update(0)
	require.Equal(t, first, m.Placements())

	target.p = math.NewVec3(25, 0, 0)
	h.Update(0)
	require.Equal(t, grid.CellCenter(grid.Cell{X: 2}, 10), m.Placements()[13].Position)
}

func TestEnableRefreshesWhenAlreadyTracking(t *testing.T) {
	target := &point{p: math.NewVec3(35, 0, 0)}
	m, h, _ := newTestManager(target)
	h.Update(0)

	require.Equal(t, math.NewVec3(5, 5, 5), m.Placements()[13].Position)

	m.OnEnable()
	require.Equal(t, math.NewVec3(35, 5, 5), m.Placements()[13].Position)
}

func TestDisableStopsFollowing(t *testing.T) {
	target := &point{}
	m, h, _ := newTestManager(target)
	m.OnEnable()
	h.Update(0)
	require.Equal(t, 1, h.Subscribers())

	m.OnDisable()
	m.OnDisable()
	require.Zero(t, h.Subscribers())

	target.p = math.NewVec3(100, 0, 0)
	h.Update(0)
	require.Equal(t, math.NewVec3(5, 5, 5), m.Placements()[13].Position)
}

func TestEnableTwiceSubscribesOnce(t *testing.T) {
	m, h, _ := newTestManager(&point{})
	m.OnEnable()
	m.OnEnable()
	require.Equal(t, 1, h.Subscribers())
}

func TestUpdateDrawsRainThenSnow(t *testing.T) {
	m, h, d := newTestManager(&point{})
	m.OnEnable()
	h.Update(0)

	m.Update(0.016)

	require.Len(t, d.draws, 2)
	require.Equal(t, RainShader, d.draws[0].shader)
	require.Equal(t, SnowShader, d.draws[1].shader)

	models := m.Models()
	for _, dr := range d.draws {
		require.Len(t, dr.models, grid.NeighborhoodSize)
		require.Equal(t, models[:], dr.models)
		require.Equal(t, float32(10), dr.gridSize)
		require.False(t, dr.opts.CastShadows)
		require.False(t, dr.opts.UseLightProbes)
		require.Equal(t, scene.DrawPoints, dr.mesh.DrawMode)
		require.Len(t, dr.mesh.Vertices, 25)
	}
	require.Same(t, d.draws[0].mesh, d.draws[1].mesh)
}

func TestUpdateBuildsMeshOnce(t *testing.T) {
	m, _, d := newTestManager(nil)
	require.False(t, m.Mesh.Ready())

	m.Update(0.016)
	m.Update(0.016)

	require.True(t, m.Mesh.Ready())
	require.Len(t, d.draws, 4)
	require.Same(t, d.draws[0].mesh, d.draws[3].mesh)
}

func TestMaterialsAreCreatedOnce(t *testing.T) {
	m, _, _ := newTestManager(nil)

	rain := m.RainMaterial()
	require.Same(t, rain, m.RainMaterial())
	require.Equal(t, scene.RenderQueueTransparent, rain.RenderQueue)
	require.True(t, rain.Instancing)

	snow := m.SnowMaterial()
	require.Same(t, snow, m.SnowMaterial())
	require.Equal(t, SnowShader, snow.Shader)
	require.Equal(t, 3000, snow.RenderQueue)
	require.True(t, snow.Instancing)
}

func TestRebuildMeshReleasesPrevious(t *testing.T) {
	var released int
	h := grid.NewHandler(10, nil)
	d := &recordingDrawer{}
	m := NewManager(h, d, NewMeshCache(4, func(*scene.Mesh) { released++ }))

	m.Update(0)
	before := d.draws[0].mesh

	require.NoError(t, m.RebuildMesh())
	require.Equal(t, 1, released)

	m.Update(0)
	after := d.draws[len(d.draws)-1].mesh
	require.NotSame(t, before, after)
	require.Equal(t, before.Vertices, after.Vertices)
}

func TestUpdateWithoutGridDrawsNothing(t *testing.T) {
	d := &recordingDrawer{}
	m := NewManager(nil, d, nil)
	m.Update(0)
	require.Empty(t, d.draws)
}
