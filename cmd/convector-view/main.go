// Command convector-view is the optional interactive viewer: a GLFW window
// that re-renders the scene through render.Kernel.RenderPatchU8 on a worker
// pool every frame and blits the result with package opengl (SPEC_FULL.md
// §14). Camera kinematics are out of scope (spec.md §1); movement here is a
// minimal WASD pan adapted from the engine's editor/input.go key-polling
// idiom, not a full orbit/fly controller. This binary only ever calls into
// render.Kernel's exported methods — it is a consumer of the core, not part
// of it.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/Michaelangel007/convector/bvh"
	"github.com/Michaelangel007/convector/core"
	"github.com/Michaelangel007/convector/geom"
	"github.com/Michaelangel007/convector/internal/logx"
	"github.com/Michaelangel007/convector/material"
	"github.com/Michaelangel007/convector/mesh"
	glrender "github.com/Michaelangel007/convector/opengl"
	"github.com/Michaelangel007/convector/render"
)

const panSpeed = 2.0 // world units/second

func main() {
	var (
		objPath  = flag.String("obj", "", "path to a Wavefront .obj mesh")
		gltfPath = flag.String("gltf", "", "path to a glTF mesh")
		width    = flag.Uint("width", 512, "viewport width, must be a multiple of 16")
		height   = flag.Uint("height", 512, "viewport height, must be a multiple of 4")
		workers  = flag.Int("workers", runtime.NumCPU(), "number of render workers")
	)
	flag.Parse()

	if err := run(*objPath, *gltfPath, uint32(*width), uint32(*height), *workers); err != nil {
		fmt.Fprintln(os.Stderr, "convector-view:", err)
		os.Exit(1)
	}
}

func run(objPath, gltfPath string, width, height uint32, workers int) error {
	if (objPath == "") == (gltfPath == "") {
		return fmt.Errorf("exactly one of -obj or -gltf must be set")
	}

	triangles, err := loadTriangles(objPath, gltfPath)
	if err != nil {
		return err
	}
	tree, stats := bvh.Build(triangles)
	logx.Infof("scene ready: %d nodes, %.2f tris/leaf", stats.NumNodes, stats.TrianglesPerLeaf)

	config := core.DefaultWindowConfig()
	config.Width, config.Height = int(width), int(height)
	window, err := core.NewWindow(config)
	if err != nil {
		return fmt.Errorf("open window: %w", err)
	}
	defer window.Destroy()

	renderer, err := glrender.NewRenderer()
	if err != nil {
		return fmt.Errorf("init opengl: %w", err)
	}
	defer renderer.Destroy()
	renderer.SetViewport(int(width), int(height))

	position := geom.Vec3{X: 0, Y: -4, Z: 0.5}
	scene := render.Scene{
		BVH:    tree,
		Camera: render.NewCamera(position, geom.QuaternionIdentity()),
		BRDF:   material.Diffuse{Reflectance: 0.5},
	}
	kernel := render.NewKernel(scene, width, height)

	bitmap := make([]byte, 4*width*height)
	gbuffer := make([]byte, 4*width*height)
	ctx := context.Background()

	var frame uint32
	last := time.Now()
	for !window.ShouldClose() {
		now := time.Now()
		dt := float32(now.Sub(last).Seconds())
		last = now

		position = position.Add(panDelta(window, dt))
		kernel.Scene.Camera = render.NewCamera(position, geom.QuaternionIdentity())

		if err := kernel.RenderFrameU8(ctx, bitmap, gbuffer, frame, workers); err != nil {
			return err
		}

		if err := renderer.DrawBitmap(int(width), int(height), bitmap); err != nil {
			return fmt.Errorf("draw: %w", err)
		}
		window.SwapBuffers()
		window.PollEvents()
		frame++
	}
	return nil
}

// panDelta reads WASD key state and returns the camera's frame-time
// displacement in the XY ground plane, grounded on the engine's
// editor/input.go key-polling pattern (Window.IsKeyPressed), trimmed to the
// one axis pair a fixed-height viewer needs.
func panDelta(window *core.Window, dt float32) geom.Vec3 {
	var dx, dy float32
	if window.IsKeyPressed(core.KeyW) {
		dy += 1
	}
	if window.IsKeyPressed(core.KeyS) {
		dy -= 1
	}
	if window.IsKeyPressed(core.KeyD) {
		dx += 1
	}
	if window.IsKeyPressed(core.KeyA) {
		dx -= 1
	}
	return geom.Vec3{X: dx * panSpeed * dt, Y: dy * panSpeed * dt}
}

func loadTriangles(objPath, gltfPath string) ([]geom.Triangle, error) {
	matIndex := geom.NewMaterialIndex(false, 0)
	if objPath != "" {
		m, err := mesh.LoadOBJ(objPath, matIndex)
		if err != nil {
			return nil, err
		}
		return mesh.ToTriangles(m), nil
	}
	m, err := mesh.LoadGLTF(gltfPath, matIndex)
	if err != nil {
		return nil, err
	}
	return mesh.ToTriangles(m), nil
}
