// Package render implements the tile-based path tracer kernel: pixel-packet
// generation, path integration against a Scene, HDR accumulation, and
// conversion to the 8-bit bitmap and G-buffer outputs.
package render

import (
	"math"

	"github.com/Michaelangel007/convector/geom"
	"github.com/Michaelangel007/convector/internal/lane"
	"github.com/Michaelangel007/convector/internal/prng"
	"github.com/Michaelangel007/convector/material"
)

// MaxBounces is the path length budget per spec.md §4.6.
const MaxBounces = 5

// Kernel owns the scene and the fixed viewport dimensions it renders into.
// Width and Height must be multiples of 16 and 4 respectively (spec.md §4.6,
// §7); NewKernel panics otherwise, since a mismatched viewport is a
// programmer error, not a recoverable one.
type Kernel struct {
	Scene  Scene
	Width  uint32
	Height uint32
}

// NewKernel validates the viewport dimensions and returns a ready-to-use
// kernel. The check lives here (rather than only inside RenderPatchU8 and
// AccumulatePatch) so a
// caller gets the panic as early as possible, matching spec.md §7's
// "programmer errors ... panics acceptable" for a malformed viewport.
func NewKernel(scene Scene, width, height uint32) Kernel {
	requireDims(width, height)
	return Kernel{Scene: scene, Width: width, Height: height}
}

func requireDims(width, height uint32) {
	if width%16 != 0 {
		panic("render: width must be a multiple of 16")
	}
	if height%4 != 0 {
		panic("render: height must be a multiple of 4")
	}
}

// PixelData is the per-pixel result of path integration: the accumulated
// color plus the first-bounce G-buffer attributes (spec.md §4.6 step 5).
type PixelData struct {
	Color    geom.PVec3
	TexIndex lane.F32x8
	U, V     lane.F32x8
	Fresnel  lane.F32x8
}

// pixelCoords16x4 returns, for the 16x4 block whose bottom-left pixel is
// (xb, yb), the 8 packets' screen-space (x, y) coordinates with one extra
// sub-pixel jitter sample per axis for antialiasing (a SUPPLEMENTED FEATURE,
// see SPEC_FULL.md §11). Ported term-for-term from
// original_source/src/renderer.rs's get_pixel_coords_16x4: packet p covers
// the 4x2 sub-block at column group 4*(p/2), row group 2*(p%2); lane l within
// a packet is column l%4, row l/4.
func (k Kernel) pixelCoords16x4(xb, yb uint32, rng *prng.Source) (xs, ys [8]lane.F32x8) {
	scale := 2.0 / float32(k.Width)
	halfW := float32(k.Width) * 0.5
	halfH := float32(k.Height) * 0.5

	for p := 0; p < 8; p++ {
		groupShift := float32(4 * (p / 2))
		rowShift := float32(0)
		if p%2 == 1 {
			rowShift = 2
		}

		baseX := lane.Generate(func(l int) float32 {
			localX := float32(l % 4)
			return scale * (groupShift + localX + float32(xb) - halfW)
		})
		baseY := lane.Generate(func(l int) float32 {
			localY := float32(l / 4)
			return scale * (rowShift + localY + float32(yb) - halfH)
		})

		jitterX := rng.SampleLane()
		jitterY := rng.SampleLane()
		xs[p] = jitterX.MulAdd(lane.Broadcast(scale), baseX)
		ys[p] = jitterY.MulAdd(lane.Broadcast(scale), baseY)
	}
	return xs, ys
}

// blockPixelOffset returns the (dx, dy) offset within a 16x4 block of lane l
// of packet p, the inverse of the layout pixelCoords16x4 encodes; used to
// scatter a rendered packet into the row-major output bitmap.
func blockPixelOffset(p, l int) (dx, dy int) {
	groupShift := 4 * (p / 2)
	rowShift := 0
	if p%2 == 1 {
		rowShift = 2
	}
	return groupShift + l%4, rowShift + l/4
}

// renderBlock16x4 renders the 8 ray packets covering a 16x4 block.
func (k Kernel) renderBlock16x4(xb, yb uint32, rng *prng.Source) [8]PixelData {
	xs, ys := k.pixelCoords16x4(xb, yb, rng)
	var out [8]PixelData
	for p := 0; p < 8; p++ {
		out[p] = k.renderPixels(xs[p], ys[p], rng)
	}
	return out
}

// renderPixels implements spec.md §4.6's path integration loop for one
// 8-lane ray packet.
func (k Kernel) renderPixels(x, y lane.F32x8, rng *prng.Source) PixelData {
	ray := k.Scene.Camera.GetRay(x, y)

	color := geom.PVec3{X: lane.Broadcast(1), Y: lane.Broadcast(1), Z: lane.Broadcast(1)}
	hitEmissive := lane.Zero()
	terminated := lane.MaskFalse()

	var texIndex, fresnel, u, v lane.F32x8

	for bounce := 0; bounce < MaxBounces; bounce++ {
		isect := k.Scene.BVH.IntersectNearest(ray, geom.NoIntersection())
		hitEmissive = isect.Material

		if isect.Material.SignMask().All() {
			break
		}

		weight, _, bounceRay := material.ContinuePath(k.Scene.BRDF, isect.Material, isect, rng)
		color = geom.PVec3{
			X: color.X.Mul(weight.X),
			Y: color.Y.Mul(weight.Y),
			Z: color.Z.Mul(weight.Z),
		}

		if bounce == 0 {
			texIndex = lane.Generate(func(i int) float32 {
				return float32(geom.MaterialIndexFromLane(isect.Material.Lane(i)).TextureIndex())
			})
			u, v = isect.U, isect.V
			fresnel = fresnelSchlick(ray.Direction, isect.Normal)
		}

		// A lane that has ever hit an emissive surface stays terminated for
		// the rest of the loop (the active mask accumulates, it never clears,
		// matching spec.md §4.6's "ray.active OR isect.material"); its ray is
		// frozen at the point of emission rather than kept bouncing off it.
		terminated = terminated.Or(isect.Material.SignMask())
		ray = geom.NewPacketRay(
			ray.Origin.Pick(bounceRay.Origin, terminated),
			ray.Direction.Pick(bounceRay.Direction, terminated),
		)
	}

	sky := material.SkyIntensity(ray.Direction)
	color = geom.PVec3{X: color.X.Mul(sky.X), Y: color.Y.Mul(sky.Y), Z: color.Z.Mul(sky.Z)}

	zero := geom.PVec3{}
	color = zero.Pick(color, hitEmissive.SignMask().Not())

	return PixelData{Color: color, TexIndex: texIndex, U: u, V: v, Fresnel: fresnel}
}

// fresnelSchlick computes Schlick's approximation of the Fresnel reflectance
// for a dielectric surface (F0 = 0.04, the common stand-in for non-metals),
// carried alongside the G-buffer for a downstream consumer to blend in
// specular highlights (spec.md §1 "Fresnel factors" output; §9's open
// question about an unfinished glass-material flag is this kernel's
// resolution of it: the factor is always computed and handed off, never
// applied to color here).
func fresnelSchlick(incident, normal geom.PVec3) lane.F32x8 {
	cosTheta := lane.Zero().Sub(incident.Dot(normal)).Max(lane.Zero())
	f0 := lane.Broadcast(0.04)
	one := lane.Broadcast(1)
	oneMinusCos := one.Sub(cosTheta)
	p5 := oneMinusCos.Mul(oneMinusCos)
	p5 = p5.Mul(p5).Mul(oneMinusCos)
	return one.Sub(f0).MulAdd(p5, f0)
}

// RenderPatchU8 renders every 16x4 block of a patch directly into an 8-bit
// RGBA bitmap plus its G-buffer, with no cross-frame accumulation — the fast
// path the optional live viewer uses (spec.md §4.6, mirroring
// original_source/src/renderer.rs's render_patch_u8, generalized from a
// square patch_width to independent width/height so the tile grid can cover
// a viewport whose height isn't a multiple of the patch width).
func (k Kernel) RenderPatchU8(bitmap, gbuffer []byte, x, y, patchWidth, patchHeight, frame uint32) {
	requirePatch(patchWidth, patchHeight, k.Width, k.Height)
	rng := prng.New(x, y, frame)

	w := patchWidth / 16
	h := patchHeight / 4
	for i := uint32(0); i < w; i++ {
		for j := uint32(0); j < h; j++ {
			xb, yb := x+i*16, y+j*4
			data := k.renderBlock16x4(xb, yb, rng)
			k.storeColor16x4(bitmap, xb, yb, data)
			k.storeGBuffer16x4(gbuffer, xb, yb, data)
		}
	}
}

func requirePatch(patchWidth, patchHeight, width, height uint32) {
	if patchWidth%16 != 0 {
		panic("render: patch width must be a multiple of 16")
	}
	if patchHeight%4 != 0 {
		panic("render: patch height must be a multiple of 4")
	}
	requireDims(width, height)
}

// storeColor16x4 scatters a rendered 16x4 block's colors into a row-major
// RGBA8 bitmap, multiplying by a fixed brightness factor the way
// store_pixels_color_16x4 does for the non-accumulating preview path.
func (k Kernel) storeColor16x4(bitmap []byte, xb, yb uint32, data [8]PixelData) {
	const brightness = 2.0
	for p := 0; p < 8; p++ {
		for l := 0; l < lane.Width; l++ {
			dx, dy := blockPixelOffset(p, l)
			px, py := xb+uint32(dx), yb+uint32(dy)
			c := data[p].Color.Lane(l)
			off := 4 * (py*k.Width + px)
			bitmap[off+0] = toByte(c.X * brightness)
			bitmap[off+1] = toByte(c.Y * brightness)
			bitmap[off+2] = toByte(c.Z * brightness)
			bitmap[off+3] = 255
		}
	}
}

// storeGBuffer16x4 scatters a rendered 16x4 block's UV/Fresnel/texture-index
// attributes into the G-buffer (spec.md §6).
func (k Kernel) storeGBuffer16x4(gbuffer []byte, xb, yb uint32, data [8]PixelData) {
	for p := 0; p < 8; p++ {
		for l := 0; l < lane.Width; l++ {
			dx, dy := blockPixelOffset(p, l)
			px, py := xb+uint32(dx), yb+uint32(dy)
			off := 4 * (py*k.Width + px)
			pix := GBufferPixel(data[p].U[l], data[p].V[l], data[p].Fresnel[l], uint8(data[p].TexIndex[l]))
			copy(gbuffer[off:off+4], pix[:])
		}
	}
}

// GBufferPixel packs a texture UV, Fresnel factor, and texture index into one
// RGBA8 pixel per spec.md §6: R/G are the wrapping fractional U/V, B is the
// clamped Fresnel factor, and A carries the texture index in its high 3 bits
// (out-of-range indices are masked to 0-7 per spec.md §7 "unknown texture
// indices select texture 0").
func GBufferPixel(u, v, fresnel float32, texIndex uint8) [4]byte {
	wrapU := u - float32(math.Floor(float64(u)))
	wrapV := v - float32(math.Floor(float64(v)))
	return [4]byte{
		toByte(wrapU),
		toByte(wrapV),
		toByte(fresnel),
		(texIndex & 0x7) << 5,
	}
}

func toByte(v float32) byte {
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	return byte(v*255.0 + 0.5)
}
