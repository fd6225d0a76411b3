package core

// KeyState reports whether a key is currently held down.
// *window.Window satisfies it; tests use a map-backed fake.
type KeyState interface {
	IsKeyPressed(key int) bool
}

// Key codes share GLFW's numbering so they can be passed straight to
// glfw.Window.GetKey.
const (
	KeyA          = 65
	KeyD          = 68
	KeyE          = 69
	KeyG          = 71
	KeyQ          = 81
	KeyR          = 82
	KeyS          = 83
	KeyW          = 87
	KeyEscape     = 256
	KeyRight      = 262
	KeyLeft       = 263
	KeyDown       = 264
	KeyUp         = 265
	KeyLeftShift  = 340
	KeyRightShift = 344
)

// Axis folds two opposing keys into -1, 0 or +1.
func Axis(keys KeyState, pos, neg int) float32 {
	var r float32
	if keys.IsKeyPressed(pos) {
		r++
	}
	if keys.IsKeyPressed(neg) {
		r--
	}
	return r
}
