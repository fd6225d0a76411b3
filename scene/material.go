package scene

import "precip-engine/core"

// RenderQueueTransparent is the queue used by blended effects drawn after
// opaque geometry.
const RenderQueueTransparent = 3000

// Material names a shader and carries the parameters it is drawn with.
// The backend resolves Shader to a compiled program on first use.
type Material struct {
	Name        string
	Shader      string
	Color       core.Color
	RenderQueue int
	Instancing  bool

	floats map[string]float32
}

// NewMaterial creates an instancing-enabled material for the given shader.
func NewMaterial(shader string) *Material {
	return &Material{
		Name:        shader,
		Shader:      shader,
		Color:       core.ColorWhite,
		RenderQueue: RenderQueueTransparent,
		Instancing:  true,
		floats:      make(map[string]float32),
	}
}

// SetFloat sets a named float parameter, e.g. "_GridSize".
func (m *Material) SetFloat(name string, v float32) {
	if m.floats == nil {
		m.floats = make(map[string]float32)
	}
	m.floats[name] = v
}

// GetFloat returns a named float parameter and whether it was set.
func (m *Material) GetFloat(name string) (float32, bool) {
	v, ok := m.floats[name]
	return v, ok
}

// DrawOptions are the per-draw switches passed with an instanced draw.
type DrawOptions struct {
	CastShadows    bool
	UseLightProbes bool
}
