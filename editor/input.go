package editor

import (
	"precip-engine/core"
)

// InputManager tracks keyboard state for the editor. Keys are polled from a
// core.KeyState once per frame so presses can be edge-triggered.
type InputManager struct {
	// Keys lists the key codes polled each frame.
	Keys []int

	// Modifiers
	ShiftDown bool

	keys     [512]bool
	keysPrev [512]bool

	source core.KeyState
}

// DefaultKeys are the keys the editor bindings use.
var DefaultKeys = []int{
	core.KeyEscape,
	core.KeyG,
	core.KeyR,
}

// NewInputManager creates an input manager polling source.
func NewInputManager(source core.KeyState) *InputManager {
	return &InputManager{
		Keys:   append([]int(nil), DefaultKeys...),
		source: source,
	}
}

// Update should be called once per frame to poll state
func (im *InputManager) Update() {
	copy(im.keysPrev[:], im.keys[:])

	im.ShiftDown = im.source.IsKeyPressed(core.KeyLeftShift) ||
		im.source.IsKeyPressed(core.KeyRightShift)

	for _, k := range im.Keys {
		if k >= 0 && k < len(im.keys) {
			im.keys[k] = im.source.IsKeyPressed(k)
		}
	}
}

// --- Key Queries ---

func (im *InputManager) IsKeyDown(key int) bool {
	if key < 0 || key >= len(im.keys) {
		return false
	}
	return im.keys[key]
}

// IsKeyPressed is true only on the frame the key goes down.
func (im *InputManager) IsKeyPressed(key int) bool {
	if key < 0 || key >= len(im.keys) {
		return false
	}
	return im.keys[key] && !im.keysPrev[key]
}

func (im *InputManager) IsKeyReleased(key int) bool {
	if key < 0 || key >= len(im.keys) {
		return false
	}
	return !im.keys[key] && im.keysPrev[key]
}
