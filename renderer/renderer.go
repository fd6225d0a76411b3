// Package renderer is the frame-level drawing API used by the rest of the
// engine. It owns the camera matrices for the current frame and forwards
// draws to a GPU backend.
package renderer

import (
	"precip-engine/core"
	"precip-engine/math"
	"precip-engine/scene"
)

// Backend is the GPU side of the renderer. *opengl.Renderer implements it.
type Backend interface {
	SetViewport(width, height int)
	BeginFrame(clear core.Color)
	DrawMesh(mesh *scene.Mesh, mvp math.Mat4, tint core.Color)
	DrawMeshInstanced(mesh *scene.Mesh, mat *scene.Material, view, proj math.Mat4, models []math.Mat4, time float32)
	DrawWireBox(center math.Vec3, size float32, color core.Color, view, proj math.Mat4)
	ReleaseMesh(mesh *scene.Mesh)
	Destroy()
}

// Stats counts the work submitted during one frame.
type Stats struct {
	DrawCalls     int
	Instances     int
	Vertices      int
	Gizmos        int
	ShadowCasters int
}

// RenderEngine is the high-level renderer that drives the backend.
type RenderEngine struct {
	Camera     *scene.Camera
	ClearColor core.Color

	gl    Backend
	time  float32
	stats Stats
	last  Stats
}

func NewRenderEngine(backend Backend, camera *scene.Camera, width, height int) *RenderEngine {
	backend.SetViewport(width, height)
	return &RenderEngine{
		Camera:     camera,
		ClearColor: core.Color{R: 0.08, G: 0.09, B: 0.12, A: 1},
		gl:         backend,
	}
}

// BeginFrame advances the shader clock and clears the target. Stats of the
// previous frame become available through DrawStats.
func (re *RenderEngine) BeginFrame(dt float32) {
	re.time += dt
	re.last = re.stats
	re.stats = Stats{}
	re.gl.BeginFrame(re.ClearColor)
}

// matrices reads the camera at draw time so components updated earlier in
// the same frame are seen without lag.
func (re *RenderEngine) matrices() (view, proj math.Mat4) {
	if re.Camera == nil {
		return math.Mat4Identity(), math.Mat4Identity()
	}
	return re.Camera.GetViewMatrix(), re.Camera.GetProjectionMatrix()
}

// DrawMesh draws a mesh unlit at the given model transform.
func (re *RenderEngine) DrawMesh(mesh *scene.Mesh, model math.Mat4, tint core.Color) {
	if mesh == nil {
		return
	}
	view, proj := re.matrices()
	re.gl.DrawMesh(mesh, model.Mul(view).Mul(proj), tint)
	re.stats.DrawCalls++
	re.stats.Vertices += mesh.VertexCount()
}

// DrawMeshInstanced renders mesh once per model matrix in a single draw
// call.
func (re *RenderEngine) DrawMeshInstanced(mesh *scene.Mesh, mat *scene.Material, models []math.Mat4, opts scene.DrawOptions) {
	if mesh == nil || mat == nil || len(models) == 0 {
		return
	}
	view, proj := re.matrices()
	re.gl.DrawMeshInstanced(mesh, mat, view, proj, models, re.time)
	re.stats.DrawCalls++
	re.stats.Instances += len(models)
	re.stats.Vertices += mesh.VertexCount() * len(models)
	if opts.CastShadows {
		re.stats.ShadowCasters += len(models)
	}
}

// DrawWireBox draws one gizmo cube.
func (re *RenderEngine) DrawWireBox(center math.Vec3, size float32, color core.Color) {
	view, proj := re.matrices()
	re.gl.DrawWireBox(center, size, color, view, proj)
	re.stats.DrawCalls++
	re.stats.Gizmos++
}

// ReleaseMesh frees the GPU buffers of a mesh that will not be drawn again.
func (re *RenderEngine) ReleaseMesh(mesh *scene.Mesh) {
	re.gl.ReleaseMesh(mesh)
}

func (re *RenderEngine) Resize(width, height int) {
	re.gl.SetViewport(width, height)
	if re.Camera != nil {
		re.Camera.UpdateAspectRatio(float32(width), float32(height))
	}
}

// Time returns the shader clock, in seconds.
func (re *RenderEngine) Time() float32 {
	return re.time
}

// DrawStats returns the stats of the last completed frame.
func (re *RenderEngine) DrawStats() Stats {
	return re.last
}

// FrameStats returns the stats of the frame in progress.
func (re *RenderEngine) FrameStats() Stats {
	return re.stats
}

func (re *RenderEngine) Destroy() {
	re.gl.Destroy()
}
