package weather

import (
	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/logs"
	"github.com/google/uuid"

	"precip-engine/math"
	"precip-engine/scene"
)

// MeshCache owns the point mesh shared by every precipitation draw. It starts
// empty and builds on first use. A rebuild replaces the mesh wholesale and
// hands the previous one to Release so its GPU buffers can be freed.
type MeshCache struct {
	Subdivisions int

	// Release is called with a mesh that is no longer in use. Optional.
	Release func(*scene.Mesh)

	mesh *scene.Mesh
	id   uuid.UUID
}

func NewMeshCache(subdivisions int, release func(*scene.Mesh)) *MeshCache {
	return &MeshCache{
		Subdivisions: subdivisions,
		Release:      release,
	}
}

// Get returns the cached mesh, building it if there is none.
func (c *MeshCache) Get() (*scene.Mesh, error) {
	if c.mesh != nil {
		return c.mesh, nil
	}
	return c.Rebuild()
}

// Rebuild builds a new mesh from the current Subdivisions and swaps it in.
// On error the previous mesh, if any, stays in place.
func (c *MeshCache) Rebuild() (*scene.Mesh, error) {
	m, err := BuildPointMesh(c.Subdivisions)
	if err != nil {
		return nil, err
	}
	c.replace(m)
	return m, nil
}

// Load seeds the cache from a baked point mesh on disk. The mesh must be a
// point mesh with an identity index list. Its bounds are reset to the fixed
// precipitation volume.
func (c *MeshCache) Load(path string) error {
	m, err := scene.LoadMeshGLB(path)
	if err != nil {
		return errors.New("loading precipitation mesh failed").
			WithType(ErrTypeMeshLoad).
			WithTag("path", path).
			Wrap(err)
	}
	if m.DrawMode != scene.DrawPoints {
		return errors.New("baked precipitation mesh is not a point mesh").
			WithType(ErrTypeMeshLoad).
			WithTag("path", path).
			WithTag("mode", m.DrawMode.String())
	}
	if m.VertexCount() > MaxVertices {
		return errors.New("baked precipitation mesh exceeds vertex limit").
			WithType(ErrTypeVertexLimit).
			WithTag("path", path).
			WithTag("vertices", m.VertexCount())
	}
	if !identityIndices(m) {
		return errors.New("baked precipitation mesh indices are not an identity list").
			WithType(ErrTypeMeshLoad).
			WithTag("path", path).
			WithTag("vertices", m.VertexCount()).
			WithTag("indices", len(m.Indices))
	}
	m.SetBounds(scene.NewAABB(math.Vec3Zero, math.Splat(BoundsSize)))
	c.replace(m)
	return nil
}

// Invalidate drops the cached mesh. The next Get rebuilds it.
func (c *MeshCache) Invalidate() {
	if c.mesh == nil {
		return
	}
	c.release(c.mesh)
	c.mesh = nil
	c.id = uuid.Nil
}

// Ready reports whether a mesh is cached.
func (c *MeshCache) Ready() bool {
	return c.mesh != nil
}

// ID identifies the cached mesh. It changes on every rebuild and is
// uuid.Nil when the cache is empty.
func (c *MeshCache) ID() uuid.UUID {
	return c.id
}

func (c *MeshCache) replace(m *scene.Mesh) {
	old := c.mesh
	c.mesh = m
	c.id = uuid.New()
	if old != nil {
		c.release(old)
	}

	instrumentMeshRebuild(m.VertexCount())
	logs.WithTag("mesh_id", c.id.String()).
		WithTag("vertices", m.VertexCount()).
		Info("precipitation mesh rebuilt")
}

func identityIndices(m *scene.Mesh) bool {
	if len(m.Indices) != len(m.Vertices) {
		return false
	}
	for i, idx := range m.Indices {
		if idx != uint32(i) {
			return false
		}
	}
	return true
}

func (c *MeshCache) release(m *scene.Mesh) {
	if c.Release != nil {
		c.Release(m)
	}
}
