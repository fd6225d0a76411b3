package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"precip-engine/core"
	"precip-engine/math"
)

type keys map[int]bool

func (k keys) IsKeyPressed(key int) bool { return k[key] }

func requireVec3(t *testing.T, want, got math.Vec3) {
	t.Helper()
	require.InDelta(t, want.X, got.X, 1e-4, "x")
	require.InDelta(t, want.Y, got.Y, 1e-4, "y")
	require.InDelta(t, want.Z, got.Z, 1e-4, "z")
}

func TestStepNoInput(t *testing.T) {
	cfg := DefaultFreeCameraConfig()
	s := FreeCameraState{Position: math.NewVec3(1, 2, 3), Angles: math.NewVec3(10, 20, 30)}

	got := cfg.Step(s, keys{}, 0.5)

	require.Equal(t, s.Position, got.Position)
	require.Equal(t, math.NewVec3(10, 20, 0), got.Angles)
}

func TestStepTranslation(t *testing.T) {
	cfg := DefaultFreeCameraConfig()

	tests := []struct {
		name string
		keys keys
		want math.Vec3
	}{
		{"forward", keys{core.KeyW: true}, math.NewVec3(0, 0, 5)},
		{"back", keys{core.KeyS: true}, math.NewVec3(0, 0, -5)},
		{"right", keys{core.KeyD: true}, math.NewVec3(5, 0, 0)},
		{"left", keys{core.KeyA: true}, math.NewVec3(-5, 0, 0)},
		{"up", keys{core.KeyE: true}, math.NewVec3(0, 5, 0)},
		{"down", keys{core.KeyQ: true}, math.NewVec3(0, -5, 0)},
		{"opposing keys cancel", keys{core.KeyW: true, core.KeyS: true}, math.Vec3{}},
		{"fast", keys{core.KeyW: true, core.KeyLeftShift: true}, math.NewVec3(0, 0, 20)},
		{"right shift is not fast", keys{core.KeyW: true, core.KeyRightShift: true}, math.NewVec3(0, 0, 5)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := cfg.Step(FreeCameraState{}, tc.keys, 1)
			requireVec3(t, tc.want, got.Position)
		})
	}
}

func TestStepMovesAlongYaw(t *testing.T) {
	cfg := DefaultFreeCameraConfig()
	s := FreeCameraState{Angles: math.NewVec3(0, 90, 0)}

	got := cfg.Step(s, keys{core.KeyW: true}, 1)
	requireVec3(t, math.NewVec3(5, 0, 0), got.Position)

	got = cfg.Step(s, keys{core.KeyD: true}, 1)
	requireVec3(t, math.NewVec3(0, 0, -5), got.Position)
}

func TestStepPitchUpLooksUp(t *testing.T) {
	cfg := DefaultFreeCameraConfig()
	s := FreeCameraState{Angles: math.NewVec3(30, 0, 0)}

	got := cfg.Step(s, keys{core.KeyW: true}, 1)
	assert.InDelta(t, 2.5, got.Position.Y, 1e-4)
	assert.Greater(t, got.Position.Z, float32(4))
}

func TestStepPitchClamped(t *testing.T) {
	cfg := DefaultFreeCameraConfig()
	s := FreeCameraState{}

	for i := 0; i < 100; i++ {
		s = cfg.Step(s, keys{core.KeyUp: true}, 0.1)
		require.LessOrEqual(t, s.Angles.X, float32(MaxPitch))
	}
	require.Equal(t, float32(MaxPitch), s.Angles.X)

	for i := 0; i < 100; i++ {
		s = cfg.Step(s, keys{core.KeyDown: true}, 0.1)
		require.GreaterOrEqual(t, s.Angles.X, float32(-MaxPitch))
	}
	require.Equal(t, float32(-MaxPitch), s.Angles.X)
}

func TestStepPitchClampedOnLargeDelta(t *testing.T) {
	cfg := DefaultFreeCameraConfig()
	got := cfg.Step(FreeCameraState{Angles: math.NewVec3(80, 0, 0)}, keys{core.KeyUp: true}, 10)
	require.Equal(t, float32(MaxPitch), got.Angles.X)
}

func TestStepYawWraps(t *testing.T) {
	cfg := DefaultFreeCameraConfig()

	got := cfg.Step(FreeCameraState{Angles: math.NewVec3(0, 350, 0)}, keys{core.KeyRight: true}, 1)
	require.InDelta(t, 65, got.Angles.Y, 1e-3)

	got = cfg.Step(FreeCameraState{Angles: math.NewVec3(0, 10, 0)}, keys{core.KeyLeft: true}, 1)
	require.InDelta(t, 295, got.Angles.Y, 1e-3)

	s := FreeCameraState{}
	for i := 0; i < 50; i++ {
		s = cfg.Step(s, keys{core.KeyRight: true}, 1)
		require.GreaterOrEqual(t, s.Angles.Y, float32(0))
		require.Less(t, s.Angles.Y, float32(360))
	}
}

func TestStepRollReset(t *testing.T) {
	cfg := DefaultFreeCameraConfig()
	got := cfg.Step(FreeCameraState{Angles: math.NewVec3(0, 0, 45)}, keys{}, 0)
	require.Zero(t, got.Angles.Z)
}

func TestStepZeroDelta(t *testing.T) {
	cfg := DefaultFreeCameraConfig()
	s := FreeCameraState{Position: math.NewVec3(1, 1, 1), Angles: math.NewVec3(5, 5, 0)}
	got := cfg.Step(s, keys{core.KeyW: true, core.KeyUp: true, core.KeyRight: true}, 0)
	require.Equal(t, s, got)
}

func TestFreeCameraDrivesCamera(t *testing.T) {
	cam := NewCamera(60, 1, 0.1, 100)
	cam.SetPosition(math.NewVec3(0, 1, 0))
	k := keys{core.KeyW: true}
	fc := NewFreeCamera(DefaultFreeCameraConfig(), k, cam)

	fc.Update(0.5)

	requireVec3(t, math.NewVec3(0, 1, 2.5), cam.Position)
	requireVec3(t, cam.Position, fc.WorldPosition())
	requireVec3(t, math.Vec3Front, cam.GetForward())
}

func TestFreeCameraWithoutKeys(t *testing.T) {
	cam := NewCamera(60, 1, 0.1, 100)
	fc := NewFreeCamera(DefaultFreeCameraConfig(), nil, cam)
	fc.Update(1)
	require.Equal(t, math.Vec3{}, cam.Position)
}

func TestNilFreeCamera(t *testing.T) {
	var fc *FreeCamera
	require.NotPanics(t, func() { fc.Update(1) })
	require.Equal(t, math.Vec3Zero, fc.WorldPosition())
}
