package math

import "fmt"

// Vec3i is an integer triple, used for grid coordinates.
// Two values are equal iff all three components match, so == works.
type Vec3i struct {
	X, Y, Z int
}

func NewVec3i(x, y, z int) Vec3i {
	return Vec3i{X: x, Y: y, Z: z}
}

func (v Vec3i) Add(other Vec3i) Vec3i {
	return Vec3i{X: v.X + other.X, Y: v.Y + other.Y, Z: v.Z + other.Z}
}

// ToVec3 converts to floating point without scaling.
func (v Vec3i) ToVec3() Vec3 {
	return Vec3{X: float32(v.X), Y: float32(v.Y), Z: float32(v.Z)}
}

func (v Vec3i) String() string {
	return fmt.Sprintf("(%d, %d, %d)", v.X, v.Y, v.Z)
}
