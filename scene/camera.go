package scene

import (
	"precip-engine/math"
)

// Camera represents a view camera
type Camera struct {
	Position    math.Vec3
	Rotation    math.Quaternion
	FOV         float32
	AspectRatio float32
	NearPlane   float32
	FarPlane    float32

	// Cached matrices
	viewMatrix       math.Mat4
	projectionMatrix math.Mat4
	dirty            bool
}

func NewCamera(fov, aspectRatio, nearPlane, farPlane float32) *Camera {
	return &Camera{
		Position:    math.Vec3Zero,
		Rotation:    math.QuaternionIdentity(),
		FOV:         fov,
		AspectRatio: aspectRatio,
		NearPlane:   nearPlane,
		FarPlane:    farPlane,
		dirty:       true,
	}
}

func (c *Camera) UpdateAspectRatio(width, height float32) {
	if height > 0 {
		c.AspectRatio = width / height
		c.dirty = true
	}
}

func (c *Camera) SetPosition(pos math.Vec3) {
	c.Position = pos
	c.dirty = true
}

func (c *Camera) SetRotation(rot math.Quaternion) {
	c.Rotation = rot
	c.dirty = true
}

// WorldPosition lets the camera be the entity a grid.Handler tracks.
func (c *Camera) WorldPosition() math.Vec3 {
	return c.Position
}

func (c *Camera) GetViewMatrix() math.Mat4 {
	if c.dirty {
		c.updateMatrices()
	}
	return c.viewMatrix
}

func (c *Camera) GetProjectionMatrix() math.Mat4 {
	if c.dirty {
		c.updateMatrices()
	}
	return c.projectionMatrix
}

func (c *Camera) GetForward() math.Vec3 {
	return c.Rotation.RotateVector(math.Vec3Front)
}

func (c *Camera) GetRight() math.Vec3 {
	return c.Rotation.RotateVector(math.Vec3Right)
}

func (c *Camera) GetUp() math.Vec3 {
	return c.Rotation.RotateVector(math.Vec3Up)
}

func (c *Camera) updateMatrices() {
	// The camera looks down its local +Z.
	c.viewMatrix = math.Mat4View(c.Position, c.GetRight(), c.GetUp(), c.GetForward())
	c.projectionMatrix = math.Mat4Perspective(c.FOV, c.AspectRatio, c.NearPlane, c.FarPlane)
	c.dirty = false
}
