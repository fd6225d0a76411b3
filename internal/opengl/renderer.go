package opengl

import (
	"fmt"
	"strings"
	"unsafe"

	"github.com/aukilabs/go-tooling/pkg/logs"
	gl "github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"precip-engine/core"
	"precip-engine/math"
	"precip-engine/scene"
)

// GPUMesh holds the OpenGL buffer objects for an uploaded mesh.
type GPUMesh struct {
	VAO         uint32
	VBO         uint32
	EBO         uint32
	IndexCount  int32
	HasIndices  bool
	InstanceVBO uint32 // per-instance data VBO (0 = not yet allocated)
	InstanceCap int    // capacity of InstanceVBO in instances
}

// Renderer is the OpenGL rendering backend.
type Renderer struct {
	// Unlit line program, used for gizmos and the floor grid
	program uint32
	mvpLoc  int32
	tintLoc int32
	wireBox *scene.Mesh

	// Precipitation programs keyed by shader name, compiled on first use
	precipitation map[string]*PrecipitationProgram

	viewportW int32
	viewportH int32

	gpuMeshes map[*scene.Mesh]*GPUMesh
}

// ── Shaders ───────────────────────────────────────────────────────────────────

const lineVertSrc = `
#version 410 core
layout(location = 0) in vec3 inPos;
layout(location = 3) in vec4 inColor;

uniform mat4 mvp;

out vec4 fragColor;

void main() {
    gl_Position = mvp * vec4(inPos, 1.0);
    fragColor   = inColor;
}
` + "\x00"

const lineFragSrc = `
#version 410 core
in vec4 fragColor;

uniform vec4 tint;

out vec4 outColor;

void main() {
    outColor = fragColor * tint;
}
` + "\x00"

// NewRenderer initializes OpenGL. A context must be current on the calling
// thread.
func NewRenderer() (*Renderer, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	version := gl.GoStr(gl.GetString(gl.VERSION))
	logs.WithTag("version", version).Info("opengl initialized")

	prog, err := newProgram(lineVertSrc, lineFragSrc)
	if err != nil {
		return nil, fmt.Errorf("line shader compile: %w", err)
	}

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Enable(gl.PROGRAM_POINT_SIZE)

	return &Renderer{
		program: prog,
		mvpLoc:  gl.GetUniformLocation(prog, gl.Str("mvp\x00")),
		tintLoc: gl.GetUniformLocation(prog, gl.Str("tint\x00")),
		wireBox: scene.CreateUnitBoxWireframe(),

		precipitation: make(map[string]*PrecipitationProgram),
		gpuMeshes:     make(map[*scene.Mesh]*GPUMesh),
	}, nil
}

// ── Viewport ──────────────────────────────────────────────────────────────────

func (r *Renderer) SetViewport(width, height int) {
	r.viewportW = int32(width)
	r.viewportH = int32(height)
	gl.Viewport(0, 0, int32(width), int32(height))
}

// BeginFrame clears the default framebuffer.
func (r *Renderer) BeginFrame(clear core.Color) {
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.ClearColor(clear.R, clear.G, clear.B, clear.A)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// ── DrawMesh ──────────────────────────────────────────────────────────────────

// DrawMesh draws a mesh unlit with its vertex colors multiplied by tint.
func (r *Renderer) DrawMesh(mesh *scene.Mesh, mvp math.Mat4, tint core.Color) {
	gpu := r.ensureUploaded(mesh)
	if gpu == nil {
		return
	}

	gl.UseProgram(r.program)
	gl.UniformMatrix4fv(r.mvpLoc, 1, false, (*float32)(unsafe.Pointer(&mvp[0][0])))
	gl.Uniform4f(r.tintLoc, tint.R, tint.G, tint.B, tint.A)

	primitive := primitiveOf(mesh.DrawMode)
	gl.BindVertexArray(gpu.VAO)
	if gpu.HasIndices {
		gl.DrawElements(primitive, gpu.IndexCount, gl.UNSIGNED_INT, nil)
	} else {
		gl.DrawArrays(primitive, 0, int32(len(mesh.Vertices)))
	}
	gl.BindVertexArray(0)
}

// DrawWireBox draws an axis-aligned wire cube of side size around center.
func (r *Renderer) DrawWireBox(center math.Vec3, size float32, color core.Color, view, proj math.Mat4) {
	model := mgl32.Translate3D(center.X, center.Y, center.Z).
		Mul4(mgl32.Scale3D(size, size, size))
	mvp := toMgl(proj).Mul4(toMgl(view)).Mul4(model)

	gpu := r.ensureUploaded(r.wireBox)
	if gpu == nil {
		return
	}

	gl.UseProgram(r.program)
	gl.UniformMatrix4fv(r.mvpLoc, 1, false, &mvp[0])
	gl.Uniform4f(r.tintLoc, color.R, color.G, color.B, color.A)

	gl.BindVertexArray(gpu.VAO)
	gl.DrawElements(gl.LINES, gpu.IndexCount, gl.UNSIGNED_INT, nil)
	gl.BindVertexArray(0)
}

// ── Instanced rendering ───────────────────────────────────────────────────────

// DrawMeshInstanced renders mesh len(models) times in a single GPU draw call
// with the precipitation program named by mat.Shader. time drives the
// shader animation.
//
// MVPs are computed on the CPU and streamed to the GPU via a dynamic
// per-instance VBO bound to attrib locations 6-13.
func (r *Renderer) DrawMeshInstanced(mesh *scene.Mesh, mat *scene.Material, view, proj math.Mat4, models []math.Mat4, time float32) {
	if len(models) == 0 {
		return
	}
	gpu := r.ensureUploaded(mesh)
	if gpu == nil {
		return
	}
	prog := r.precipitationProgram(mat.Shader)
	if prog == nil {
		return
	}

	// Build flat instance buffer: 32 float32 per instance (MVP mat4 + Model mat4).
	//   [0..15]  MVP   = models[i].Mul(view).Mul(proj)
	//   [16..31] Model = models[i]
	n := len(models)
	buf := make([]float32, n*32)
	for i, m := range models {
		mvp := m.Mul(view).Mul(proj)
		base := i * 32
		for col := 0; col < 4; col++ {
			for row := 0; row < 4; row++ {
				buf[base+col*4+row] = mvp[col][row]
				buf[base+16+col*4+row] = m[col][row]
			}
		}
	}
	r.uploadInstanceVBO(gpu, buf, n)

	gridSize, ok := mat.GetFloat("_GridSize")
	if !ok {
		gridSize = 10
	}
	prog.use(view.Mul(proj), gridSize, time, mat.Color)

	gl.BindVertexArray(gpu.VAO)
	if gpu.HasIndices {
		gl.DrawElementsInstanced(primitiveOf(mesh.DrawMode), gpu.IndexCount, gl.UNSIGNED_INT, nil, int32(n))
	} else {
		gl.DrawArraysInstanced(primitiveOf(mesh.DrawMode), 0, int32(len(mesh.Vertices)), int32(n))
	}
	gl.BindVertexArray(0)

	prog.done()
}

// precipitationProgram returns the compiled program for shader, compiling
// it on first use. Unknown shaders and compile failures are logged once and
// the draw is skipped.
func (r *Renderer) precipitationProgram(shader string) *PrecipitationProgram {
	if p, ok := r.precipitation[shader]; ok {
		return p
	}
	p, err := newPrecipitationProgram(shader)
	if err != nil {
		logs.Warn(err)
	}
	r.precipitation[shader] = p
	return p
}

// uploadInstanceVBO uploads buf to the per-mesh instance VBO, creating it
// and wiring attrib locations 6-13 into the VAO on first call.
func (r *Renderer) uploadInstanceVBO(gpu *GPUMesh, buf []float32, count int) {
	const stride = int32(32 * 4) // 32 float32 * 4 bytes = 128 bytes

	if gpu.InstanceVBO == 0 {
		gl.GenBuffers(1, &gpu.InstanceVBO)
		gl.BindVertexArray(gpu.VAO)
		gl.BindBuffer(gl.ARRAY_BUFFER, gpu.InstanceVBO)

		// MVP columns at locations 6-9
		for i := uint32(0); i < 4; i++ {
			gl.EnableVertexAttribArray(6 + i)
			gl.VertexAttribPointer(6+i, 4, gl.FLOAT, false, stride, gl.PtrOffset(int(i)*16))
			gl.VertexAttribDivisor(6+i, 1)
		}
		// Model columns at locations 10-13
		for i := uint32(0); i < 4; i++ {
			gl.EnableVertexAttribArray(10 + i)
			gl.VertexAttribPointer(10+i, 4, gl.FLOAT, false, stride, gl.PtrOffset(64+int(i)*16))
			gl.VertexAttribDivisor(10+i, 1)
		}
		gl.BindVertexArray(0)
	}

	byteSize := len(buf) * 4
	gl.BindBuffer(gl.ARRAY_BUFFER, gpu.InstanceVBO)
	if count > gpu.InstanceCap {
		gl.BufferData(gl.ARRAY_BUFFER, byteSize, gl.Ptr(buf), gl.DYNAMIC_DRAW)
		gpu.InstanceCap = count
	} else {
		gl.BufferSubData(gl.ARRAY_BUFFER, 0, byteSize, gl.Ptr(buf))
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
}

// ── Resource management ───────────────────────────────────────────────────────

// ReleaseMesh frees GPU buffers for the given mesh.
func (r *Renderer) ReleaseMesh(mesh *scene.Mesh) {
	if gpu, ok := r.gpuMeshes[mesh]; ok {
		gl.DeleteVertexArrays(1, &gpu.VAO)
		gl.DeleteBuffers(1, &gpu.VBO)
		if gpu.HasIndices {
			gl.DeleteBuffers(1, &gpu.EBO)
		}
		if gpu.InstanceVBO != 0 {
			gl.DeleteBuffers(1, &gpu.InstanceVBO)
		}
		delete(r.gpuMeshes, mesh)
		mesh.GPUData = nil
	}
}

// Destroy releases all GPU resources.
func (r *Renderer) Destroy() {
	for mesh := range r.gpuMeshes {
		r.ReleaseMesh(mesh)
	}
	for _, p := range r.precipitation {
		if p != nil {
			p.destroy()
		}
	}
	gl.DeleteProgram(r.program)
}

// ── Internal helpers ──────────────────────────────────────────────────────────

// ensureUploaded uploads vertex/index data if not already done.
func (r *Renderer) ensureUploaded(mesh *scene.Mesh) *GPUMesh {
	if gpu, ok := r.gpuMeshes[mesh]; ok {
		return gpu
	}
	if len(mesh.Vertices) == 0 {
		return nil
	}

	stride := int32(unsafe.Sizeof(core.Vertex{}))

	gpu := &GPUMesh{
		IndexCount: int32(len(mesh.Indices)),
		HasIndices: len(mesh.Indices) > 0,
	}

	gl.GenVertexArrays(1, &gpu.VAO)
	gl.GenBuffers(1, &gpu.VBO)
	gl.BindVertexArray(gpu.VAO)

	gl.BindBuffer(gl.ARRAY_BUFFER, gpu.VBO)
	gl.BufferData(gl.ARRAY_BUFFER,
		len(mesh.Vertices)*int(stride),
		gl.Ptr(mesh.Vertices),
		gl.STATIC_DRAW)

	var v core.Vertex
	posOff := int(unsafe.Offsetof(v.Position))
	normOff := int(unsafe.Offsetof(v.Normal))
	uvOff := int(unsafe.Offsetof(v.UV))
	colorOff := int(unsafe.Offsetof(v.Color))

	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, stride, gl.PtrOffset(posOff))

	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointer(1, 3, gl.FLOAT, false, stride, gl.PtrOffset(normOff))

	gl.EnableVertexAttribArray(2)
	gl.VertexAttribPointer(2, 2, gl.FLOAT, false, stride, gl.PtrOffset(uvOff))

	gl.EnableVertexAttribArray(3)
	gl.VertexAttribPointer(3, 4, gl.FLOAT, false, stride, gl.PtrOffset(colorOff))

	if gpu.HasIndices {
		gl.GenBuffers(1, &gpu.EBO)
		gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, gpu.EBO)
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER,
			len(mesh.Indices)*4,
			gl.Ptr(mesh.Indices),
			gl.STATIC_DRAW)
	}

	gl.BindVertexArray(0)

	r.gpuMeshes[mesh] = gpu
	mesh.GPUData = gpu
	return gpu
}

func primitiveOf(mode scene.DrawMode) uint32 {
	switch mode {
	case scene.DrawLines:
		return gl.LINES
	case scene.DrawPoints:
		return gl.POINTS
	default:
		return gl.TRIANGLES
	}
}

// toMgl converts a row-vector matrix to mathgl's column-vector form. The
// memory layouts coincide, so this is a straight copy.
func toMgl(m math.Mat4) mgl32.Mat4 {
	var out mgl32.Mat4
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			out[row*4+col] = m[row][col]
		}
	}
	return out
}

// ── Shader helpers ────────────────────────────────────────────────────────────

func newProgram(vertSrc, fragSrc string) (uint32, error) {
	vert, err := compileShader(vertSrc, gl.VERTEX_SHADER)
	if err != nil {
		return 0, fmt.Errorf("vertex: %w", err)
	}
	frag, err := compileShader(fragSrc, gl.FRAGMENT_SHADER)
	if err != nil {
		return 0, fmt.Errorf("fragment: %w", err)
	}

	prog := gl.CreateProgram()
	gl.AttachShader(prog, vert)
	gl.AttachShader(prog, frag)
	gl.LinkProgram(prog)

	var status int32
	gl.GetProgramiv(prog, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(prog, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen+1))
		gl.GetProgramInfoLog(prog, logLen, nil, gl.Str(log))
		return 0, fmt.Errorf("link failed: %v", log)
	}

	gl.DeleteShader(vert)
	gl.DeleteShader(frag)
	return prog, nil
}

func compileShader(src string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csrc, free := gl.Strs(src)
	gl.ShaderSource(shader, 1, csrc, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen+1))
		gl.GetShaderInfoLog(shader, logLen, nil, gl.Str(log))
		return 0, fmt.Errorf("compile failed: %v", log)
	}
	return shader, nil
}
