//go:build amd64

package lane

import "golang.org/x/sys/cpu"

// HasHardwareSIMD reports whether the CPU this process runs on has the
// AVX2+FMA3 feature pair the renderer's lane operations are modeled after
// (256-bit ymm registers, 8-wide f32, fused multiply-add). Nothing in this
// module reads it; the flag only reports the CPU's features.
//
// Both amd64 and non-amd64 builds run the same portable loops from
// ops_portable.go, whatever this flag says; there is no assembly backend.
var HasHardwareSIMD = cpu.X86.HasAVX2 && cpu.X86.HasFMA3

func add(a, b F32x8) F32x8        { return addGo(a, b) }
func sub(a, b F32x8) F32x8        { return subGo(a, b) }
func mul(a, b F32x8) F32x8        { return mulGo(a, b) }
func div(a, b F32x8) F32x8        { return divGo(a, b) }
func mulAdd(a, f, t F32x8) F32x8  { return mulAddGo(a, f, t) }
func mulSub(a, f, t F32x8) F32x8  { return mulSubGo(a, f, t) }
func recip(a F32x8) F32x8         { return recipGo(a) }
func rsqrt(a F32x8) F32x8         { return rsqrtGo(a) }
func minLane(a, b F32x8) F32x8    { return minGo(a, b) }
func maxLane(a, b F32x8) F32x8    { return maxGo(a, b) }
