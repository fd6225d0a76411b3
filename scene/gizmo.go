package scene

import (
	"precip-engine/core"
	"precip-engine/math"
)

// Gizmo is one editor-only wire cube.
type Gizmo struct {
	Center math.Vec3
	Size   float32
	Color  core.Color
}
