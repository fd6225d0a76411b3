package editor

import (
	"testing"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/stretchr/testify/require"

	"precip-engine/core"
	"precip-engine/engine"
)

type fakeKeys map[int]bool

func (k fakeKeys) IsKeyPressed(key int) bool { return k[key] }

type fakeRebuilder struct {
	calls int
	err   error
}

func (r *fakeRebuilder) RebuildMesh() error {
	r.calls++
	return r.err
}

func TestInputEdges(t *testing.T) {
	keys := fakeKeys{}
	im := NewInputManager(keys)

	im.Update()
	require.False(t, im.IsKeyDown(core.KeyR))
	require.False(t, im.IsKeyPressed(core.KeyR))

	keys[core.KeyR] = true
	im.Update()
	require.True(t, im.IsKeyDown(core.KeyR))
	require.True(t, im.IsKeyPressed(core.KeyR))

	im.Update()
	require.True(t, im.IsKeyDown(core.KeyR))
	require.False(t, im.IsKeyPressed(core.KeyR))

	keys[core.KeyR] = false
	im.Update()
	require.True(t, im.IsKeyReleased(core.KeyR))
	require.False(t, im.IsKeyDown(core.KeyR))
}

func TestInputIgnoresUnpolledAndInvalidKeys(t *testing.T) {
	keys := fakeKeys{core.KeyW: true}
	im := NewInputManager(keys)
	im.Update()

	require.False(t, im.IsKeyDown(core.KeyW))
	require.False(t, im.IsKeyDown(-1))
	require.False(t, im.IsKeyPressed(10000))
}

func TestInputShift(t *testing.T) {
	keys := fakeKeys{core.KeyRightShift: true}
	im := NewInputManager(keys)
	im.Update()
	require.True(t, im.ShiftDown)
}

func TestEditorRebuildOnPress(t *testing.T) {
	keys := fakeKeys{}
	r := &fakeRebuilder{}
	e := NewEditor(keys, engine.NewLoop(), r)

	keys[core.KeyR] = true
	e.Update(0.016)
	e.Update(0.016)
	e.Update(0.016)
	require.Equal(t, 1, r.calls)

	keys[core.KeyR] = false
	e.Update(0.016)
	keys[core.KeyR] = true
	e.Update(0.016)
	require.Equal(t, 2, r.calls)
	require.Equal(t, "rebuild precipitation mesh", e.StatusText)
}

func TestEditorRebuildFailureKeepsRunning(t *testing.T) {
	keys := fakeKeys{core.KeyR: true}
	r := &fakeRebuilder{err: errors.New("boom")}
	e := NewEditor(keys, nil, r)

	e.Update(0.016)
	require.Equal(t, 1, r.calls)
	require.Equal(t, "Failed: rebuild precipitation mesh", e.StatusText)
}

func TestEditorToggleGizmos(t *testing.T) {
	keys := fakeKeys{}
	loop := engine.NewLoop()
	e := NewEditor(keys, loop, nil)

	keys[core.KeyG] = true
	e.Update(0.016)
	require.True(t, loop.Gizmos)

	e.Update(0.016)
	require.True(t, loop.Gizmos)

	keys[core.KeyG] = false
	e.Update(0.016)
	keys[core.KeyG] = true
	e.Update(0.016)
	require.False(t, loop.Gizmos)
}

func TestEditorQuit(t *testing.T) {
	keys := fakeKeys{}
	e := NewEditor(keys, nil, nil)
	e.Update(0.016)
	require.False(t, e.Quit)

	keys[core.KeyEscape] = true
	e.Update(0.016)
	require.True(t, e.Quit)
}

func TestBindPollsNewKey(t *testing.T) {
	keys := fakeKeys{core.KeyQ: true}
	e := NewEditor(keys, nil, nil)

	fired := 0
	e.Bind(Action{Name: "custom", Key: core.KeyQ, Run: func() error {
		fired++
		return nil
	}})
	e.Update(0.016)
	require.Equal(t, 1, fired)
	require.NotContains(t, DefaultKeys, core.KeyQ)
}
