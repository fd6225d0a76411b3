package math

import "math"

// Mat4 is stored [row][col] and used with row vectors (v * M), so the
// translation lives in row 3 and transforms compose left to right:
// model.Mul(view).Mul(proj).
type Mat4 [4][4]float32

func Mat4Identity() Mat4 {
	return Mat4{
		{1, 0, 0, 0},
		{0, 1, 0, 0},
		{0, 0, 1, 0},
		{0, 0, 0, 1},
	}
}

func (m Mat4) Mul(other Mat4) Mat4 {
	var result Mat4
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			for k := 0; k < 4; k++ {
				result[i][j] += m[i][k] * other[k][j]
			}
		}
	}
	return result
}

func (m Mat4) MulVec3(v Vec3) Vec3 {
	return v.ToVec4(1.0).MulMat(m).ToVec3DivW()
}

// Translation returns the translation row of an affine matrix.
func (m Mat4) Translation() Vec3 {
	return Vec3{X: m[3][0], Y: m[3][1], Z: m[3][2]}
}

func Mat4Translation(translation Vec3) Mat4 {
	m := Mat4Identity()
	m[3][0] = translation.X
	m[3][1] = translation.Y
	m[3][2] = translation.Z
	return m
}

func Mat4Scale(scale Vec3) Mat4 {
	m := Mat4Identity()
	m[0][0] = scale.X
	m[1][1] = scale.Y
	m[2][2] = scale.Z
	return m
}

// Mat4TRS composes scale, then rotation, then translation.
func Mat4TRS(translation Vec3, rotation Quaternion, scale Vec3) Mat4 {
	return Mat4Scale(scale).Mul(rotation.ToMat4()).Mul(Mat4Translation(translation))
}

func Mat4Perspective(fovY, aspect, near, far float32) Mat4 {
	tanHalfFovy := float32(math.Tan(float64(fovY) / 2))

	var m Mat4
	m[0][0] = 1 / (aspect * tanHalfFovy)
	m[1][1] = 1 / tanHalfFovy
	m[2][2] = -(far + near) / (far - near)
	m[2][3] = -1
	m[3][2] = -(2 * far * near) / (far - near)
	return m
}

// Mat4View builds a view matrix from a camera basis. World space is
// left-handed (+X right, +Y up, +Z forward); view space looks down -Z as
// OpenGL expects, so right stays right on screen.
func Mat4View(eye, right, up, forward Vec3) Mat4 {
	return Mat4{
		{right.X, up.X, -forward.X, 0},
		{right.Y, up.Y, -forward.Y, 0},
		{right.Z, up.Z, -forward.Z, 0},
		{-right.Dot(eye), -up.Dot(eye), forward.Dot(eye), 1},
	}
}
