package scene

import (
	"precip-engine/core"
	"precip-engine/math"
)

const (
	// MaxPitch keeps the free camera from flipping over the poles.
	MaxPitch = 89
)

// FreeCameraConfig holds the inspector-style tuning values.
type FreeCameraConfig struct {
	MoveSpeed   float32 // units/s
	MoveSpeedUp float32 // units/s while LeftShift is held
	TurnSpeed   float32 // degrees/s
}

func DefaultFreeCameraConfig() FreeCameraConfig {
	return FreeCameraConfig{
		MoveSpeed:   5,
		MoveSpeedUp: 20,
		TurnSpeed:   75,
	}
}

// FreeCameraState is the integrated orientation and position.
// Angles are degrees: X = pitch, Y = yaw, Z = roll.
type FreeCameraState struct {
	Position math.Vec3
	Angles   math.Vec3
}

// Rotation returns the orientation described by the state's angles.
func (s FreeCameraState) Rotation() math.Quaternion {
	return math.QuaternionFromYawPitch(s.Angles.Y, s.Angles.X)
}

// Step integrates one frame of input and returns the new state.
//
//	arrows up/down    pitch (clamped to ±MaxPitch)
//	arrows right/left yaw (wrapped, never clamped)
//	D/A, E/Q, W/S     strafe, rise, advance
//	LeftShift         switch to MoveSpeedUp
func (cfg FreeCameraConfig) Step(s FreeCameraState, keys core.KeyState, dt float32) FreeCameraState {
	turn := cfg.TurnSpeed * dt

	pitch := math.SignedDegrees(s.Angles.X) + core.Axis(keys, core.KeyUp, core.KeyDown)*turn
	s.Angles = math.Vec3{
		X: math.Clamp(pitch, -MaxPitch, MaxPitch),
		Y: math.WrapDegrees(s.Angles.Y + core.Axis(keys, core.KeyRight, core.KeyLeft)*turn),
		Z: 0,
	}

	basis := core.Transform{Rotation: s.Rotation()}
	side := basis.GetRight().Mul(core.Axis(keys, core.KeyD, core.KeyA))
	upDown := basis.GetUp().Mul(core.Axis(keys, core.KeyE, core.KeyQ))
	fwd := basis.GetForward().Mul(core.Axis(keys, core.KeyW, core.KeyS))

	speed := cfg.MoveSpeed
	if keys.IsKeyPressed(core.KeyLeftShift) {
		speed = cfg.MoveSpeedUp
	}
	s.Position = s.Position.Add(side.Add(upDown).Add(fwd).Mul(speed * dt))
	return s
}

// FreeCamera drives a render Camera from polled keys once per frame.
type FreeCamera struct {
	Config FreeCameraConfig
	State  FreeCameraState
	Keys   core.KeyState
	Camera *Camera
}

func NewFreeCamera(cfg FreeCameraConfig, keys core.KeyState, cam *Camera) *FreeCamera {
	fc := &FreeCamera{
		Config: cfg,
		Keys:   keys,
		Camera: cam,
	}
	if cam != nil {
		fc.State.Position = cam.Position
	}
	return fc
}

func (fc *FreeCamera) Update(dt float32) {
	if fc == nil || fc.Keys == nil {
		return
	}
	fc.State = fc.Config.Step(fc.State, fc.Keys, dt)
	fc.Apply()
}

// Apply copies the integrated state into the render camera.
func (fc *FreeCamera) Apply() {
	if fc.Camera == nil {
		return
	}
	fc.Camera.SetPosition(fc.State.Position)
	fc.Camera.SetRotation(fc.State.Rotation())
}

// WorldPosition lets the free camera be the entity a grid.Handler tracks.
// A nil camera reports the origin.
func (fc *FreeCamera) WorldPosition() math.Vec3 {
	if fc == nil {
		return math.Vec3Zero
	}
	return fc.State.Position
}
