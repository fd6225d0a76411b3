package weather

import (
	"path/filepath"
	"testing"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/stretchr/testify/require"

	"precip-engine/math"
	"precip-engine/scene"
)

func TestBuildPointMesh(t *testing.T) {
	tests := []struct {
		subdivisions int
		vertices     int
	}{
		{subdivisions: 2, vertices: 9},
		{subdivisions: 3, vertices: 16},
		{subdivisions: 200, vertices: 40401},
		{subdivisions: 255, vertices: 65536},
	}
	for _, tc := range tests {
		m, err := BuildPointMesh(tc.subdivisions)
		require.NoError(t, err)
		require.Len(t, m.Vertices, tc.vertices)
		require.Len(t, m.Indices, tc.vertices)
		require.LessOrEqual(t, m.VertexCount(), MaxVertices)
		require.Equal(t, scene.DrawPoints, m.DrawMode)
	}
}

func TestBuildPointMeshLayout(t *testing.T) {
	m, err := BuildPointMesh(2)
	require.NoError(t, err)

	require.Equal(t, math.Vec3{X: -0.5, Z: -0.5}, m.Vertices[0].Position)
	require.Equal(t, math.Vec2{}, m.Vertices[0].UV)

	// i=0, j=1
	require.Equal(t, math.Vec3{X: -0.5, Z: 0}, m.Vertices[1].Position)
	require.Equal(t, math.Vec2{X: 0, Y: 0.5}, m.Vertices[1].UV)

	require.Equal(t, math.Vec3{}, m.Vertices[4].Position)
	require.Equal(t, math.Vec3{X: 0.5, Z: 0.5}, m.Vertices[8].Position)
	require.Equal(t, math.Vec2{X: 1, Y: 1}, m.Vertices[8].UV)

	for i, idx := range m.Indices {
		require.Equal(t, uint32(i), idx)
	}
	for _, v := range m.Vertices {
		require.Zero(t, v.Position.Y)
		require.InDelta(t, v.UV.X-0.5, v.Position.X, 1e-6)
		require.InDelta(t, v.UV.Y-0.5, v.Position.Z, 1e-6)
	}
}

func TestBuildPointMeshBounds(t *testing.T) {
	m, err := BuildPointMesh(10)
	require.NoError(t, err)
	require.Equal(t, math.Vec3{}, m.Bounds.Center())
	require.Equal(t, math.Splat(500), m.Bounds.Size())
}

func TestBuildPointMeshRejectsSubdivisions(t *testing.T) {
	for _, s := range []int{-1, 0, 1, 256, 1000} {
		_, err := BuildPointMesh(s)
		require.Error(t, err)
		require.True(t, errors.IsType(err, ErrTypeSubdivisionsOutOfRange), "subdivisions %d", s)
	}
}

func TestBuildPointMeshIsDeterministic(t *testing.T) {
	a, err := BuildPointMesh(50)
	require.NoError(t, err)
	b, err := BuildPointMesh(50)
	require.NoError(t, err)
	require.Equal(t, a.Vertices, b.Vertices)
	require.Equal(t, a.Indices, b.Indices)
}

func TestClampSubdivisions(t *testing.T) {
	require.Equal(t, 2, ClampSubdivisions(-5))
	require.Equal(t, 2, ClampSubdivisions(1))
	require.Equal(t, 2, ClampSubdivisions(2))
	require.Equal(t, 200, ClampSubdivisions(200))
	require.Equal(t, 255, ClampSubdivisions(256))
	require.LessOrEqual(t, VertexCount(ClampSubdivisions(1<<20)), MaxVertices)
}

func TestMeshCache(t *testing.T) {
	var released []*scene.Mesh
	c := NewMeshCache(4, func(m *scene.Mesh) { released = append(released, m) })
	require.False(t, c.Ready())

	first, err := c.Get()
	require.NoError(t, err)
	require.True(t, c.Ready())
	firstID := c.ID()

	again, err := c.Get()
	require.NoError(t, err)
	require.Same(t, first, again)

	second, err := c.Rebuild()
	require.NoError(t, err)
	require.NotSame(t, first, second)
	require.NotEqual(t, firstID, c.ID())
	require.Equal(t, first.Vertices, second.Vertices)
	require.Equal(t, []*scene.Mesh{first}, released)

	c.Invalidate()
	require.False(t, c.Ready())
	require.Equal(t, []*scene.Mesh{first, second}, released)

	c.Invalidate()
	require.Len(t, released, 2)
}

func TestMeshCacheRebuildErrorKeepsMesh(t *testing.T) {
	c := NewMeshCache(8, nil)
	m, err := c.Get()
	require.NoError(t, err)

	c.Subdivisions = 1
	_, err = c.Rebuild()
	require.True(t, errors.IsType(err, ErrTypeSubdivisionsOutOfRange))

	cur, err := c.Get()
	require.NoError(t, err)
	require.Same(t, m, cur)
}

func TestMeshCacheLoad(t *testing.T) {
	built, err := BuildPointMesh(6)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "points.glb")
	require.NoError(t, scene.SaveMeshGLB(built, path))

	c := NewMeshCache(200, nil)
	require.NoError(t, c.Load(path))

	m, err := c.Get()
	require.NoError(t, err)
	require.Equal(t, scene.DrawPoints, m.DrawMode)
	require.Len(t, m.Vertices, 49)
	require.Equal(t, built.Indices, m.Indices)
	require.Equal(t, math.Vec3Zero, m.Bounds.Center())
	require.Equal(t, math.Splat(BoundsSize), m.Bounds.Size())
	for i := range built.Vertices {
		require.Equal(t, built.Vertices[i].Position, m.Vertices[i].Position)
		require.Equal(t, built.Vertices[i].UV, m.Vertices[i].UV)
	}
}

func TestMeshCacheLoadRejectsNonIdentityIndices(t *testing.T) {
	built, err := BuildPointMesh(2)
	require.NoError(t, err)
	built.Indices[0], built.Indices[1] = built.Indices[1], built.Indices[0]

	path := filepath.Join(t.TempDir(), "shuffled.glb")
	require.NoError(t, scene.SaveMeshGLB(built, path))

	c := NewMeshCache(4, nil)
	err = c.Load(path)
	require.Error(t, err)
	require.True(t, errors.IsType(err, ErrTypeMeshLoad))
	require.False(t, c.Ready())
}

func TestMeshCacheLoadRejectsMissingIndices(t *testing.T) {
	built, err := BuildPointMesh(2)
	require.NoError(t, err)
	built.Indices = nil

	path := filepath.Join(t.TempDir(), "unindexed.glb")
	require.NoError(t, scene.SaveMeshGLB(built, path))

	c := NewMeshCache(4, nil)
	require.True(t, errors.IsType(c.Load(path), ErrTypeMeshLoad))
}

func TestMeshCacheLoadMissingFile(t *testing.T) {
	c := NewMeshCache(4, nil)
	err := c.Load(filepath.Join(t.TempDir(), "missing.glb"))
	require.True(t, errors.IsType(err, ErrTypeMeshLoad))
	require.False(t, c.Ready())
}

func BenchmarkBuildPointMesh(b *testing.B) {
	for i := 0; i < b.N; i++ {
		BuildPointMesh(DefaultSubdivisions)
	}
}
