// Package prng implements the renderer's deterministic per-tile random
// number stream: every tile's samples are a pure function of its pixel
// coordinate and frame number, so repeated frames (and therefore repeated
// accumulation passes) are reproducible.
package prng

import (
	"encoding/binary"

	"github.com/dchest/siphash"
	"github.com/Michaelangel007/convector/internal/lane"
)

// Source is a counter-based random stream seeded from a tile's (x, y, frame)
// coordinate via SipHash, then advanced with a splitmix64 step per draw.
type Source struct {
	state uint64
}

// New seeds a stream for the tile at (x, y) on the given frame. Keying
// through SipHash (rather than e.g. simply concatenating the bits) ensures
// nearby tiles and consecutive frames produce streams with no visible
// correlation.
func New(x, y, frame uint32) *Source {
	var buf [12]byte
	binary.LittleEndian.PutUint32(buf[0:4], x)
	binary.LittleEndian.PutUint32(buf[4:8], y)
	binary.LittleEndian.PutUint32(buf[8:12], frame)
	seed := siphash.Hash64(uint64(x)<<32|uint64(y), uint64(frame), buf[:])
	return &Source{state: seed}
}

func (s *Source) next() uint64 {
	// splitmix64: cheap, well-distributed enough for path tracing samples.
	s.state += 0x9e3779b97f4a7c15
	z := s.state
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}

// SampleUnit draws one uniform float32 in [0, 1).
func (s *Source) SampleUnit() float32 {
	const scale = 1.0 / (1 << 24)
	return float32(s.next()>>40) * scale
}

// SampleLane draws 8 independent uniform values in [0, 1), one per lane,
// advancing the stream once per lane.
func (s *Source) SampleLane() lane.F32x8 {
	var r lane.F32x8
	for i := 0; i < lane.Width; i++ {
		r[i] = s.SampleUnit()
	}
	return r
}

// SampleLanePair draws two independent lane-wide uniform samples, the shape
// the cosine-weighted hemisphere sampler in the material package consumes.
func (s *Source) SampleLanePair() (lane.F32x8, lane.F32x8) {
	return s.SampleLane(), s.SampleLane()
}
