//go:build !amd64

package lane

// HasHardwareSIMD is always false outside amd64: there is no AVX2/FMA3 to
// gate on, so the portable per-lane loops are the only backend.
const HasHardwareSIMD = false

func add(a, b F32x8) F32x8       { return addGo(a, b) }
func sub(a, b F32x8) F32x8       { return subGo(a, b) }
func mul(a, b F32x8) F32x8       { return mulGo(a, b) }
func div(a, b F32x8) F32x8       { return divGo(a, b) }
func mulAdd(a, f, t F32x8) F32x8 { return mulAddGo(a, f, t) }
func mulSub(a, f, t F32x8) F32x8 { return mulSubGo(a, f, t) }
func recip(a F32x8) F32x8        { return recipGo(a) }
func rsqrt(a F32x8) F32x8        { return rsqrtGo(a) }
func minLane(a, b F32x8) F32x8   { return minGo(a, b) }
func maxLane(a, b F32x8) F32x8   { return maxGo(a, b) }
