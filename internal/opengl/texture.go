// Package opengl adapts the engine's OpenGL texture-upload and shader-link
// helpers into the single operation cmd/convector-view needs every frame:
// push a freshly rendered RGBA8 bitmap to a GPU texture and blit it full
// screen. Mesh upload, material binding, and the rest of the engine's
// rasterization pipeline have no SPEC_FULL.md component to serve (the path
// tracer already produced the final pixels on the CPU) and were dropped;
// see DESIGN.md.
package opengl

import (
	"fmt"

	gl "github.com/go-gl/gl/v4.1-core/gl"
)

// UploadOrUpdate pushes pixels (row-major RGBA8, width*height*4 bytes) to a
// GPU texture, creating one on first call (id == 0) and respecifying it on
// every later call — the render kernel's output is the same size every
// frame, so TexSubImage2D would work too, but TexImage2D keeps this helper
// correct even if the viewport is resized between frames.
func UploadOrUpdate(id uint32, width, height int, pixels []byte) (uint32, error) {
	if len(pixels) < width*height*4 {
		return id, fmt.Errorf("opengl: pixel buffer too small for %dx%d", width, height)
	}

	if id == 0 {
		gl.GenTextures(1, &id)
		gl.BindTexture(gl.TEXTURE_2D, id)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	} else {
		gl.BindTexture(gl.TEXTURE_2D, id)
	}

	gl.TexImage2D(
		gl.TEXTURE_2D,
		0,
		gl.RGBA,
		int32(width),
		int32(height),
		0,
		gl.RGBA,
		gl.UNSIGNED_BYTE,
		gl.Ptr(pixels),
	)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	return id, nil
}

// DeleteTexture frees a GPU texture previously returned by UploadOrUpdate.
func DeleteTexture(id uint32) {
	if id == 0 {
		return
	}
	gl.DeleteTextures(1, &id)
}
