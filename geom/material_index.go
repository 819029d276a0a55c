package geom

import "github.com/Michaelangel007/convector/internal/lane"

// MaterialIndex packs per-surface material information into a single 32-bit
// value, the same encoding the renderer core uses: bit 31 (the sign bit)
// marks the material emissive, and bits 0-2 hold a texture index (0-7).
type MaterialIndex uint32

func NewMaterialIndex(emissive bool, textureIndex uint8) MaterialIndex {
	var bits uint32
	if emissive {
		bits |= 1 << 31
	}
	bits |= uint32(textureIndex) & 0x7
	return MaterialIndex(bits)
}

func (m MaterialIndex) Emissive() bool { return m&0x80000000 != 0 }

func (m MaterialIndex) TextureIndex() uint8 { return uint8(m & 0x7) }

// Lane bit-casts the material index into a float32, the representation a
// lane.F32x8 carries it in through the traversal and shading pipeline. This
// is a bit-cast, not a numeric conversion: the integer bit pattern becomes
// the float32's bit pattern unchanged.
func (m MaterialIndex) Lane() float32 { return lane.BitcastFromU32(uint32(m)) }

// MaterialIndexFromLane reverses Lane.
func MaterialIndexFromLane(f float32) MaterialIndex { return MaterialIndex(lane.BitcastToU32(f)) }
