package opengl

import (
	"fmt"
	"strings"

	gl "github.com/go-gl/gl/v4.1-core/gl"

	glutil "github.com/Michaelangel007/convector/internal/opengl"
)

// Renderer is the OpenGL presentation backend for cmd/convector-view: it
// owns one texture (the render kernel's latest RGBA8 output) and blits it
// full screen every frame with a single triangle, the simplest draw call
// that covers the viewport without a vertex buffer. This replaces the
// engine's original mesh-upload/MVP-transform Renderer, which has nothing
// left to draw once the path tracer is producing finished pixels on the CPU
// instead of handing the GPU a 3D scene to rasterize (see DESIGN.md).
type Renderer struct {
	program  uint32
	texLoc   int32
	vao      uint32
	texture  uint32
}

// vertex shader: a full-screen triangle generated from the vertex ID, no
// vertex buffer needed (gl_VertexID covers the three corners).
const vertSrc = `
#version 410 core
out vec2 uv;

void main() {
    vec2 pos = vec2((gl_VertexID << 1) & 2, gl_VertexID & 2);
    uv = vec2(pos.x, 1.0 - pos.y);
    gl_Position = vec4(pos * 2.0 - 1.0, 0.0, 1.0);
}
` + "\x00"

// fragment shader: plain texture sample, no lighting (the kernel already
// shaded every pixel).
const fragSrc = `
#version 410 core
in vec2 uv;
out vec4 outColor;
uniform sampler2D tex;

void main() {
    outColor = texture(tex, uv);
}
` + "\x00"

// NewRenderer initialises OpenGL. Must be called after the GLFW window
// context is made current.
func NewRenderer() (*Renderer, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	version := gl.GoStr(gl.GetString(gl.VERSION))
	fmt.Printf("OpenGL version: %s\n", version)

	prog, err := newProgram(vertSrc, fragSrc)
	if err != nil {
		return nil, fmt.Errorf("shader compile: %w", err)
	}

	var vao uint32
	gl.GenVertexArrays(1, &vao)

	return &Renderer{
		program: prog,
		texLoc:  gl.GetUniformLocation(prog, gl.Str("tex\x00")),
		vao:     vao,
	}, nil
}

// SetViewport resizes the OpenGL viewport.
func (r *Renderer) SetViewport(width, height int) {
	gl.Viewport(0, 0, int32(width), int32(height))
}

// DrawBitmap uploads the kernel's latest row-major RGBA8 frame and blits it
// full screen.
func (r *Renderer) DrawBitmap(width, height int, pixels []byte) error {
	id, err := glutil.UploadOrUpdate(r.texture, width, height, pixels)
	if err != nil {
		return err
	}
	r.texture = id

	gl.Clear(gl.COLOR_BUFFER_BIT)
	gl.UseProgram(r.program)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, r.texture)
	gl.Uniform1i(r.texLoc, 0)
	gl.BindVertexArray(r.vao)
	gl.DrawArrays(gl.TRIANGLES, 0, 3)
	gl.BindVertexArray(0)
	return nil
}

// Destroy releases all GPU resources.
func (r *Renderer) Destroy() {
	glutil.DeleteTexture(r.texture)
	gl.DeleteVertexArrays(1, &r.vao)
	gl.DeleteProgram(r.program)
}

// ── shader helpers ────────────────────────────────────────────────────────────

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
