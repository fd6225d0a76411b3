package weather

import (
	"github.com/aukilabs/go-tooling/pkg/errors"

	"precip-engine/core"
	"precip-engine/math"
	"precip-engine/scene"
)

const (
	MinSubdivisions     = 2
	MaxSubdivisions     = 255
	DefaultSubdivisions = 200

	// MaxVertices is the vertex limit of a mesh indexed with 16-bit indices.
	MaxVertices = 65536

	// BoundsSize is the side of the fixed bounding box given to the point
	// mesh. The shaders displace the points, so the real extent is unknown.
	BoundsSize = 500

	PointMeshName = "PrecipitationPoints"
)

const (
	ErrTypeSubdivisionsOutOfRange = "weather_subdivisions_out_of_range"
	ErrTypeVertexLimit            = "weather_vertex_limit"
	ErrTypeMeshLoad               = "weather_mesh_load"
)

// VertexCount returns the number of vertices a point mesh with the given
// subdivisions has.
func VertexCount(subdivisions int) int {
	n := subdivisions + 1
	return n * n
}

// ClampSubdivisions brings s into [MinSubdivisions, MaxSubdivisions].
func ClampSubdivisions(s int) int {
	if s < MinSubdivisions {
		return MinSubdivisions
	}
	if s > MaxSubdivisions {
		return MaxSubdivisions
	}
	return s
}

// BuildPointMesh builds a flat (subdivisions+1)² lattice of points on the XZ
// plane spanning [-0.5, 0.5]. Each vertex carries its normalized lattice
// coordinate as UV, which the shaders use to seed per-particle variation.
func BuildPointMesh(subdivisions int) (*scene.Mesh, error) {
	if subdivisions < MinSubdivisions || subdivisions > MaxSubdivisions {
		return nil, errors.New("precipitation mesh subdivisions out of range").
			WithType(ErrTypeSubdivisionsOutOfRange).
			WithTag("subdivisions", subdivisions).
			WithTag("min", MinSubdivisions).
			WithTag("max", MaxSubdivisions)
	}

	count := VertexCount(subdivisions)
	if count > MaxVertices {
		return nil, errors.New("precipitation mesh exceeds vertex limit").
			WithType(ErrTypeVertexLimit).
			WithTag("vertices", count).
			WithTag("limit", MaxVertices)
	}

	// Integer steps give exactly subdivisions+1 samples per axis. Stepping a
	// float accumulator can drop or add the last row.
	n := subdivisions + 1
	vertices := make([]core.Vertex, count)
	indices := make([]uint32, count)
	for i := 0; i < n; i++ {
		x01 := float32(i) / float32(subdivisions)
		for j := 0; j < n; j++ {
			y01 := float32(j) / float32(subdivisions)
			k := i*n + j
			vertices[k] = core.Vertex{
				Position: math.Vec3{X: x01 - 0.5, Z: y01 - 0.5},
				UV:       math.NewVec2(x01, y01),
				Color:    core.ColorWhite,
			}
			indices[k] = uint32(k)
		}
	}

	m := scene.CreateMeshFromData(PointMeshName, vertices, indices)
	m.DrawMode = scene.DrawPoints
	m.SetBounds(scene.NewAABB(math.Vec3Zero, math.Splat(BoundsSize)))
	return m, nil
}
