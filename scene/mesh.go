package scene

import (
	"precip-engine/core"
	"precip-engine/math"
)

// DrawMode controls the OpenGL primitive type used when rendering a mesh.
type DrawMode int

const (
	DrawTriangles DrawMode = iota // gl.TRIANGLES (default)
	DrawLines                     // gl.LINES, pairs of indices form line segments
	DrawPoints                    // gl.POINTS, every index is its own primitive
)

func (m DrawMode) String() string {
	switch m {
	case DrawLines:
		return "lines"
	case DrawPoints:
		return "points"
	default:
		return "triangles"
	}
}

// Mesh holds CPU-side vertex/index data.
// GPU upload is managed by the renderer backend.
type Mesh struct {
	Name     string
	Vertices []core.Vertex
	Indices  []uint32
	DrawMode DrawMode // defaults to DrawTriangles

	// Local-space bounds. Computed from the vertices by CreateMeshFromData
	// unless overridden with SetBounds.
	Bounds AABB

	// Material is used by DrawMesh; instanced draws take theirs explicitly.
	Material *Material

	// GPUData is set by the renderer backend (e.g. *opengl.GPUMesh).
	// Do not access directly; use the renderer's API.
	GPUData interface{}
}

// CreateMeshFromData builds a Mesh and pre-computes its local-space bounds.
func CreateMeshFromData(name string, vertices []core.Vertex, indices []uint32) *Mesh {
	m := &Mesh{
		Name:     name,
		Vertices: vertices,
		Indices:  indices,
	}
	if len(vertices) > 0 {
		m.Bounds = computeLocalAABB(vertices)
	}
	return m
}

// SetBounds replaces the computed bounds, e.g. to keep a mesh that is
// displaced in the vertex shader from ever being culled.
func (m *Mesh) SetBounds(b AABB) {
	m.Bounds = b
}

func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

// computeLocalAABB returns the tight AABB of the given vertex positions.
func computeLocalAABB(vertices []core.Vertex) AABB {
	out := AABB{Min: vertices[0].Position, Max: vertices[0].Position}
	for i := 1; i < len(vertices); i++ {
		out = out.Encapsulate(vertices[i].Position)
	}
	return out
}

// CreateUnitBoxWireframe creates a unit cube wireframe mesh (corners at ±0.5).
// Supply a model matrix that scales and translates it to draw any box.
func CreateUnitBoxWireframe() *Mesh {
	const h = 0.5

	var vertices []core.Vertex
	var indices []uint32

	addLine := func(a, b math.Vec3) {
		base := uint32(len(vertices))
		vertices = append(vertices,
			core.Vertex{Position: a, Normal: math.Vec3Up, Color: core.ColorWhite},
			core.Vertex{Position: b, Normal: math.Vec3Up, Color: core.ColorWhite},
		)
		indices = append(indices, base, base+1)
	}

	corner := func(x, y, z float32) math.Vec3 {
		return math.Vec3{X: x * h, Y: y * h, Z: z * h}
	}

	for _, y := range []float32{-1, 1} {
		addLine(corner(-1, y, -1), corner(1, y, -1))
		addLine(corner(1, y, -1), corner(1, y, 1))
		addLine(corner(1, y, 1), corner(-1, y, 1))
		addLine(corner(-1, y, 1), corner(-1, y, -1))
	}
	// Vertical edges
	for _, xz := range [][2]float32{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}} {
		addLine(corner(xz[0], -1, xz[1]), corner(xz[0], 1, xz[1]))
	}

	m := CreateMeshFromData("UnitBoxWireframe", vertices, indices)
	m.DrawMode = DrawLines
	return m
}

// CreateGrid builds a flat reference grid on the XZ plane, drawn as lines.
// cells is the number of cells along each axis, cellSize their side length.
// The grid is centered on the origin.
func CreateGrid(cellSize float32, cells int) *Mesh {
	if cells < 1 {
		cells = 1
	}
	half := cellSize * float32(cells) / 2

	var vertices []core.Vertex
	var indices []uint32

	gray := core.Color{R: 0.35, G: 0.35, B: 0.35, A: 1}
	addLine := func(a, b math.Vec3) {
		base := uint32(len(vertices))
		vertices = append(vertices,
			core.Vertex{Position: a, Normal: math.Vec3Up, Color: gray},
			core.Vertex{Position: b, Normal: math.Vec3Up, Color: gray},
		)
		indices = append(indices, base, base+1)
	}

	for i := 0; i <= cells; i++ {
		t := -half + float32(i)*cellSize
		addLine(math.Vec3{X: t, Z: -half}, math.Vec3{X: t, Z: half})
		addLine(math.Vec3{X: -half, Z: t}, math.Vec3{X: half, Z: t})
	}

	m := CreateMeshFromData("Grid", vertices, indices)
	m.DrawMode = DrawLines
	return m
}
