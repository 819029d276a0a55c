package render

import (
	"github.com/Michaelangel007/convector/geom"
	"github.com/Michaelangel007/convector/internal/lane"
	"github.com/Michaelangel007/convector/internal/prng"
)

// AccumulationBuffer holds HDR radiance for every pixel, laid out as
// (Width/16)*(Height/4) tiles of 8 packets each (spec.md §3 "Accumulation
// buffer"). It is recreated on resize and otherwise mutated only through
// AccumulatePatch, one disjoint tile per call.
type AccumulationBuffer struct {
	Width, Height uint32
	Tiles         [][8]geom.PVec3
}

// NewAccumulationBuffer allocates a zeroed HDR buffer for the given viewport.
func NewAccumulationBuffer(width, height uint32) *AccumulationBuffer {
	requireDims(width, height)
	w, h := width/16, height/4
	return &AccumulationBuffer{Width: width, Height: height, Tiles: make([][8]geom.PVec3, w*h)}
}

// AccumulatePatch renders a patch and adds its contribution into the HDR
// buffer without dividing by sample count (spec.md §4.6 "Accumulation"),
// also refreshing the G-buffer for the patch (filled per-frame, not
// accumulated, since texture coordinates don't benefit from blending).
func (k Kernel) AccumulatePatch(buf *AccumulationBuffer, gbuffer []byte, x, y, patchWidth, patchHeight, frame uint32) {
	requirePatch(patchWidth, patchHeight, k.Width, k.Height)
	rng := prng.New(x, y, frame)

	tilesWide := k.Width / 16
	w := patchWidth / 16
	h := patchHeight / 4
	for i := uint32(0); i < w; i++ {
		for j := uint32(0); j < h; j++ {
			xb, yb := x+i*16, y+j*4
			data := k.renderBlock16x4(xb, yb, rng)

			tileIndex := (y/4+j)*tilesWide + (x/16 + i)
			tile := buf.Tiles[tileIndex]
			for p := 0; p < 8; p++ {
				tile[p] = tile[p].Add(data[p].Color)
			}
			buf.Tiles[tileIndex] = tile

			k.storeGBuffer16x4(gbuffer, xb, yb, data)
		}
	}
}

// BufferToBitmap divides the accumulated radiance by the sample count,
// applies the brightness factor, clamps to [0, 1], and un-transposes the
// tiled packet layout into a row-major RGBA8 bitmap (spec.md §6).
func BufferToBitmap(buf *AccumulationBuffer, samples uint32, brightness float32) []byte {
	bitmap := make([]byte, 4*buf.Width*buf.Height)
	factor := lane.Broadcast(brightness / float32(samples))

	tilesWide := buf.Width / 16
	for tileIndex, tile := range buf.Tiles {
		ti := uint32(tileIndex)
		tileX := (ti % tilesWide) * 16
		tileY := (ti / tilesWide) * 4

		for p := 0; p < 8; p++ {
			c := geom.PVec3{
				X: tile[p].X.Mul(factor),
				Y: tile[p].Y.Mul(factor),
				Z: tile[p].Z.Mul(factor),
			}
			for l := 0; l < lane.Width; l++ {
				dx, dy := blockPixelOffset(p, l)
				px, py := tileX+uint32(dx), tileY+uint32(dy)
				v := c.Lane(l)
				off := 4 * (py*buf.Width + px)
				bitmap[off+0] = toByte(v.X)
				bitmap[off+1] = toByte(v.Y)
				bitmap[off+2] = toByte(v.Z)
				bitmap[off+3] = 255
			}
		}
	}
	return bitmap
}
