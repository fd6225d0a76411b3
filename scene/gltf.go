package scene

import (
	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"precip-engine/core"
	"precip-engine/math"
)

// SaveMeshGLB writes a single-mesh binary glTF containing positions, the
// first UV set and the index list. The draw mode is kept as the primitive
// mode, so point meshes round-trip as points.
func SaveMeshGLB(m *Mesh, path string) error {
	if m == nil || len(m.Vertices) == 0 {
		return errors.New("saving empty mesh").WithTag("path", path)
	}

	positions := make([][3]float32, len(m.Vertices))
	uvs := make([][2]float32, len(m.Vertices))
	for i, v := range m.Vertices {
		positions[i] = [3]float32{v.Position.X, v.Position.Y, v.Position.Z}
		uvs[i] = [2]float32{v.UV.X, v.UV.Y}
	}

	doc := gltf.NewDocument()
	prim := &gltf.Primitive{
		Mode: primitiveMode(m.DrawMode),
		Attributes: map[string]int{
			gltf.POSITION:   modeler.WritePosition(doc, positions),
			gltf.TEXCOORD_0: modeler.WriteTextureCoord(doc, uvs),
		},
	}
	if len(m.Indices) > 0 {
		prim.Indices = gltf.Index(modeler.WriteIndices(doc, m.Indices))
	}

	doc.Meshes = []*gltf.Mesh{{Name: m.Name, Primitives: []*gltf.Primitive{prim}}}
	doc.Nodes = []*gltf.Node{{Name: m.Name, Mesh: gltf.Index(0)}}
	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, 0)

	if err := gltf.SaveBinary(doc, path); err != nil {
		return errors.New("saving gltf failed").WithTag("path", path).Wrap(err)
	}
	return nil
}

// LoadMeshGLB reads the first primitive of the first mesh in a .glb/.gltf.
func LoadMeshGLB(path string) (*Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, errors.New("opening gltf failed").WithTag("path", path).Wrap(err)
	}
	if len(doc.Meshes) == 0 || len(doc.Meshes[0].Primitives) == 0 {
		return nil, errors.New("gltf has no mesh primitives").WithTag("path", path)
	}
	gm := doc.Meshes[0]
	prim := gm.Primitives[0]

	// Positions are required
	posIdx, ok := prim.Attributes[gltf.POSITION]
	if !ok {
		return nil, errors.New("gltf primitive has no POSITION attribute").WithTag("path", path)
	}
	positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
	if err != nil {
		return nil, errors.New("reading positions failed").WithTag("path", path).Wrap(err)
	}

	var uvs [][2]float32
	if idx, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
		uvs, err = modeler.ReadTextureCoord(doc, doc.Accessors[idx], nil)
		if err != nil {
			return nil, errors.New("reading uvs failed").WithTag("path", path).Wrap(err)
		}
	}

	verts := make([]core.Vertex, len(positions))
	for i, p := range positions {
		verts[i].Position = math.Vec3{X: p[0], Y: p[1], Z: p[2]}
		if i < len(uvs) {
			verts[i].UV = math.NewVec2(uvs[i][0], uvs[i][1])
		}
	}

	var indices []uint32
	if prim.Indices != nil {
		indices, err = modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
		if err != nil {
			return nil, errors.New("reading indices failed").WithTag("path", path).Wrap(err)
		}
	}

	m := CreateMeshFromData(gm.Name, verts, indices)
	m.DrawMode = drawMode(prim.Mode)
	return m, nil
}

func primitiveMode(m DrawMode) gltf.PrimitiveMode {
	switch m {
	case DrawPoints:
		return gltf.PrimitivePoints
	case DrawLines:
		return gltf.PrimitiveLines
	default:
		return gltf.PrimitiveTriangles
	}
}

func drawMode(m gltf.PrimitiveMode) DrawMode {
	switch m {
	case gltf.PrimitivePoints:
		return DrawPoints
	case gltf.PrimitiveLines:
		return DrawLines
	default:
		return DrawTriangles
	}
}
