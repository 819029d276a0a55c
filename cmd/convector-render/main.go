// Command convector-render is the headless demo CLI: it loads a mesh, builds
// a BVH, accumulates a fixed number of frames through the render kernel, and
// writes the tonemapped result to disk (SPEC_FULL.md §13). It is an external
// collaborator around the core packages, not part of them — it never reaches
// past render.Kernel's exported surface.
package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/deepteams/webp"

	"github.com/Michaelangel007/convector/bvh"
	"github.com/Michaelangel007/convector/geom"
	"github.com/Michaelangel007/convector/internal/logx"
	"github.com/Michaelangel007/convector/material"
	"github.com/Michaelangel007/convector/mesh"
	"github.com/Michaelangel007/convector/render"
)

const defaultBrightness = 2.0

func main() {
	var (
		objPath  = flag.String("obj", "", "path to a Wavefront .obj mesh")
		gltfPath = flag.String("gltf", "", "path to a glTF mesh")
		width    = flag.Uint("width", 512, "output width in pixels, must be a multiple of 16")
		height   = flag.Uint("height", 512, "output height in pixels, must be a multiple of 4")
		frames   = flag.Uint("frames", 8, "number of frames to accumulate")
		out      = flag.String("out", "render.webp", "output image path (.webp or .png)")
		workers  = flag.Int("workers", runtime.NumCPU(), "number of render workers")
	)
	flag.Parse()

	if err := run(*objPath, *gltfPath, uint32(*width), uint32(*height), uint32(*frames), *out, *workers); err != nil {
		fmt.Fprintln(os.Stderr, "convector-render:", err)
		os.Exit(1)
	}
}

func run(objPath, gltfPath string, width, height, frameCount uint32, out string, workers int) error {
	if (objPath == "") == (gltfPath == "") {
		return fmt.Errorf("exactly one of -obj or -gltf must be set")
	}

	triangles, err := loadTriangles(objPath, gltfPath)
	if err != nil {
		return err
	}

	tree, stats := bvh.Build(triangles)
	logx.Infof("scene ready: %d nodes, %.2f tris/leaf", stats.NumNodes, stats.TrianglesPerLeaf)

	scene := render.Scene{
		BVH:    tree,
		Camera: render.NewCamera(geom.Vec3{X: 0, Y: -4, Z: 0.5}, geom.QuaternionIdentity()),
		BRDF:   material.Diffuse{Reflectance: 0.5},
	}
	kernel := render.NewKernel(scene, width, height)

	buf := render.NewAccumulationBuffer(width, height)
	gbuffer := make([]byte, 4*width*height)

	ctx := context.Background()
	start := time.Now()
	for frame := uint32(0); frame < frameCount; frame++ {
		if err := kernel.RenderFrame(ctx, buf, gbuffer, frame, workers); err != nil {
			return fmt.Errorf("render frame %d: %w", frame, err)
		}
	}
	logx.Infof("rendered %d frames in %s", frameCount, time.Since(start))

	bitmap := render.BufferToBitmap(buf, frameCount, defaultBrightness)
	return writeImage(out, bitmap, width, height)
}

func loadTriangles(objPath, gltfPath string) ([]geom.Triangle, error) {
	matIndex := geom.NewMaterialIndex(false, 0)
	switch {
	case objPath != "":
		m, err := mesh.LoadOBJ(objPath, matIndex)
		if err != nil {
			return nil, err
		}
		return mesh.ToTriangles(m), nil
	default:
		m, err := mesh.LoadGLTF(gltfPath, matIndex)
		if err != nil {
			return nil, err
		}
		return mesh.ToTriangles(m), nil
	}
}

// writeImage encodes bitmap (row-major RGBA8, width*height*4 bytes) to path,
// dispatching on its extension: .webp goes through deepteams/webp, anything
// else falls back to stdlib image/png (spec.md §13).
func writeImage(path string, bitmap []byte, width, height uint32) error {
	img := &image.NRGBA{
		Pix:    bitmap,
		Stride: 4 * int(width),
		Rect:   image.Rect(0, 0, int(width), int(height)),
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output %q: %w", path, err)
	}
	defer f.Close()

	if strings.EqualFold(filepath.Ext(path), ".webp") {
		if err := webp.Encode(f, img, webp.DefaultOptions()); err != nil {
			return fmt.Errorf("encode webp: %w", err)
		}
		return nil
	}
	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}
