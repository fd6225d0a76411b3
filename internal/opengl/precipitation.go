package opengl

import (
	"unsafe"

	"github.com/aukilabs/go-tooling/pkg/errors"
	gl "github.com/go-gl/gl/v4.1-core/gl"

	"precip-engine/core"
	"precip-engine/math"
)

const ErrTypeUnknownShader = "opengl_unknown_shader"

// ── Precipitation shaders ────────────────────────────────────────────────────

// Shared vertex stage. Each point of the flat lattice becomes one particle
// inside a gridSize cube centered on the instance's cell. The lattice UV
// seeds a per-particle phase so neighbouring points fall out of step.
const precipitationVertHeader = `
#version 410 core
layout(location = 0)  in vec3 inPos;
layout(location = 2)  in vec2 inUV;
layout(location = 10) in vec4 iModel0;
layout(location = 11) in vec4 iModel1;
layout(location = 12) in vec4 iModel2;
layout(location = 13) in vec4 iModel3;

uniform mat4  vp;
uniform float gridSize;
uniform float time;

out float fragFade;

float hash(vec2 p) {
    return fract(sin(dot(p, vec2(12.9898, 78.233))) * 43758.5453);
}
`

const rainVertSrc = precipitationVertHeader + `
void main() {
    mat4 model = mat4(iModel0, iModel1, iModel2, iModel3);
    float seed  = hash(inUV);
    float speed = 8.0 + seed * 4.0;
    float fall  = fract(seed - time * speed / gridSize);

    vec3 local = vec3(inPos.x * gridSize, (fall - 0.5) * gridSize, inPos.z * gridSize);
    vec4 world = model * vec4(local, 1.0);
    gl_Position  = vp * world;
    gl_PointSize = clamp(40.0 / gl_Position.w, 1.0, 4.0);
    fragFade = smoothstep(0.0, 0.1, fall) * smoothstep(1.0, 0.9, fall);
}
` + "\x00"

const snowVertSrc = precipitationVertHeader + `
void main() {
    mat4 model = mat4(iModel0, iModel1, iModel2, iModel3);
    float seed  = hash(inUV);
    float speed = 0.8 + seed * 0.6;
    float fall  = fract(seed - time * speed / gridSize);
    float sway  = sin(time * 1.3 + seed * 6.2831) * 0.4;

    vec3 local = vec3(inPos.x * gridSize + sway, (fall - 0.5) * gridSize, inPos.z * gridSize + sway * 0.5);
    vec4 world = model * vec4(local, 1.0);
    gl_Position  = vp * world;
    gl_PointSize = clamp(80.0 / gl_Position.w, 1.5, 8.0);
    fragFade = smoothstep(0.0, 0.1, fall) * smoothstep(1.0, 0.9, fall);
}
` + "\x00"

// Rain: thin vertical streak inside the point sprite.
const rainFragSrc = `
#version 410 core
in float fragFade;

uniform vec4 tint;

out vec4 outColor;

void main() {
    vec2 p = gl_PointCoord - vec2(0.5);
    float streak = clamp(1.0 - abs(p.x) * 6.0, 0.0, 1.0);
    outColor = vec4(tint.rgb * vec3(0.7, 0.8, 1.0), tint.a * 0.5 * streak * fragFade);
}
` + "\x00"

// Snow: soft circle, alpha rolls off quadratically at the edge.
const snowFragSrc = `
#version 410 core
in float fragFade;

uniform vec4 tint;

out vec4 outColor;

void main() {
    float d = length(gl_PointCoord - vec2(0.5)) * 2.0;
    float a = clamp(1.0 - d * d, 0.0, 1.0);
    outColor = vec4(tint.rgb, tint.a * 0.9 * a * fragFade);
}
` + "\x00"

var precipitationSources = map[string][2]string{
	"Hidden/Environment/Rain": {rainVertSrc, rainFragSrc},
	"Hidden/Environment/Snow": {snowVertSrc, snowFragSrc},
}

// ── PrecipitationProgram ─────────────────────────────────────────────────────

// PrecipitationProgram is one compiled rain or snow shader with its uniform
// locations. Programs are created lazily by Renderer.DrawMeshInstanced.
type PrecipitationProgram struct {
	Name string

	prog        uint32
	vpLoc       int32
	gridSizeLoc int32
	timeLoc     int32
	tintLoc     int32
}

func newPrecipitationProgram(shader string) (*PrecipitationProgram, error) {
	src, ok := precipitationSources[shader]
	if !ok {
		return nil, errors.New("unknown precipitation shader").
			WithType(ErrTypeUnknownShader).
			WithTag("shader", shader)
	}
	prog, err := newProgram(src[0], src[1])
	if err != nil {
		return nil, errors.New("precipitation shader compile failed").
			WithTag("shader", shader).
			Wrap(err)
	}
	return &PrecipitationProgram{
		Name:        shader,
		prog:        prog,
		vpLoc:       gl.GetUniformLocation(prog, gl.Str("vp\x00")),
		gridSizeLoc: gl.GetUniformLocation(prog, gl.Str("gridSize\x00")),
		timeLoc:     gl.GetUniformLocation(prog, gl.Str("time\x00")),
		tintLoc:     gl.GetUniformLocation(prog, gl.Str("tint\x00")),
	}, nil
}

// use binds the program and sets the per-draw state: transparent blending,
// depth test on, depth write off.
func (p *PrecipitationProgram) use(vp math.Mat4, gridSize, time float32, tint core.Color) {
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	gl.DepthMask(false)

	gl.UseProgram(p.prog)
	gl.UniformMatrix4fv(p.vpLoc, 1, false, (*float32)(unsafe.Pointer(&vp[0][0])))
	gl.Uniform1f(p.gridSizeLoc, gridSize)
	gl.Uniform1f(p.timeLoc, time)
	gl.Uniform4f(p.tintLoc, tint.R, tint.G, tint.B, tint.A)
}

// done restores the render state changed by use.
func (p *PrecipitationProgram) done() {
	gl.DepthMask(true)
	gl.Disable(gl.BLEND)
}

func (p *PrecipitationProgram) destroy() {
	gl.DeleteProgram(p.prog)
}
