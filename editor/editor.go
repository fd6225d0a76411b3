// Package editor binds developer actions to keys: rebuilding the
// precipitation mesh and toggling gizmos.
package editor

import (
	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/logs"

	"precip-engine/core"
	"precip-engine/engine"
)

const ErrTypeAction = "editor_action_failed"

// MeshRebuilder rebuilds a cached mesh on demand.
type MeshRebuilder interface {
	RebuildMesh() error
}

// Action is a developer command bound to a key.
type Action struct {
	Name string
	Key  int
	Run  func() error
}

// Editor runs key-bound actions. It is an engine component and should be
// registered before the components it acts on.
type Editor struct {
	Input   *InputManager
	Actions []Action

	// Quit is set once the quit key was pressed.
	Quit bool

	// Status info
	StatusText string
}

// NewEditor creates an editor with the default bindings: R rebuilds the
// precipitation mesh, G toggles the gizmo pass and Escape quits.
func NewEditor(keys core.KeyState, loop *engine.Loop, weather MeshRebuilder) *Editor {
	e := &Editor{
		Input:      NewInputManager(keys),
		StatusText: "Ready",
	}

	if weather != nil {
		e.Bind(Action{
			Name: "rebuild precipitation mesh",
			Key:  core.KeyR,
			Run:  weather.RebuildMesh,
		})
	}
	if loop != nil {
		e.Bind(Action{
			Name: "toggle gizmos",
			Key:  core.KeyG,
			Run: func() error {
				loop.Gizmos = !loop.Gizmos
				return nil
			},
		})
	}
	e.Bind(Action{
		Name: "quit",
		Key:  core.KeyEscape,
		Run: func() error {
			e.Quit = true
			return nil
		},
	})
	return e
}

// Bind adds an action and makes sure its key is polled.
func (e *Editor) Bind(a Action) {
	e.Actions = append(e.Actions, a)
	for _, k := range e.Input.Keys {
		if k == a.Key {
			return
		}
	}
	e.Input.Keys = append(e.Input.Keys, a.Key)
}

// Update processes one frame of editor logic
func (e *Editor) Update(deltaTime float32) {
	e.Input.Update()

	for _, a := range e.Actions {
		if e.Input.IsKeyPressed(a.Key) {
			e.run(a)
		}
	}
}

func (e *Editor) run(a Action) {
	if err := a.Run(); err != nil {
		e.StatusText = "Failed: " + a.Name
		logs.Warn(errors.New("editor action failed").
			WithType(ErrTypeAction).
			WithTag("action", a.Name).
			Wrap(err))
		return
	}
	e.StatusText = a.Name
	logs.WithTag("action", a.Name).Info("editor action")
}
