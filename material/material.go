// Package material determines how light bounces off a surface: the sky
// background color, and the diffuse BRDF that continues a path after it hits
// a non-emissive surface.
package material

import (
	"github.com/Michaelangel007/convector/geom"
	"github.com/Michaelangel007/convector/internal/lane"
	"github.com/Michaelangel007/convector/internal/prng"
)

// SkyIntensity returns the background color for rays that escape the scene,
// a cheap directional gradient rather than a physically based sky model.
func SkyIntensity(rayDirection geom.PVec3) geom.PVec3 {
	up := geom.PVec3{X: lane.Zero(), Y: lane.Broadcast(1), Z: lane.Broadcast(1)}
	half := lane.Broadcast(0.5)
	d := rayDirection.Dot(up).MulAdd(half, half)
	return geom.PVec3{
		X: d,
		Y: d.Mul(d),
		Z: d.Mul(d).Mul(d),
	}
}

// BRDF abstracts the surface scattering model a material uses, so new
// models can be dropped in without touching ContinuePath.
type BRDF interface {
	// Sample draws an outgoing direction about the surface normal n.
	Sample(n geom.PVec3, rng *prng.Source) geom.PVec3

	// PDF returns the probability density of sampling wi given normal n.
	PDF(n, wi geom.PVec3) lane.F32x8

	// Value returns the BRDF's reflectance for the given normal and outgoing
	// direction (the incoming direction does not affect a diffuse BRDF, and
	// is therefore not a parameter here).
	Value(n, wi geom.PVec3) lane.F32x8
}

// Diffuse is a Lambertian BRDF sampled with cosine-weighted importance
// sampling, so that Value(n, wi) / PDF(n, wi) reduces to a constant
// reflectance and the cosine term in the rendering equation cancels exactly.
type Diffuse struct {
	Reflectance float32
}

func (d Diffuse) Sample(n geom.PVec3, rng *prng.Source) geom.PVec3 {
	u, v := rng.SampleLanePair()

	// Concentric-disk-free cosine sampling: standard polar form.
	two := lane.Broadcast(2)
	one := lane.Broadcast(1)
	pi := lane.Broadcast(3.14159265)

	radius := sqrtLane(u)
	theta := two.Mul(pi).Mul(v)

	localX := radius.Mul(cosLane(theta))
	localY := radius.Mul(sinLane(theta))
	localZ := sqrtLane(one.Sub(u))

	return tangentToWorld(n, localX, localY, localZ)
}

func (d Diffuse) PDF(n, wi geom.PVec3) lane.F32x8 {
	cosTheta := n.Dot(wi)
	zero := lane.Zero()
	invPi := lane.Broadcast(1.0 / 3.14159265)
	clamped := cosTheta.Max(zero)
	return clamped.Mul(invPi)
}

func (d Diffuse) Value(n, wi geom.PVec3) lane.F32x8 {
	invPi := lane.Broadcast(1.0 / 3.14159265)
	return lane.Broadcast(d.Reflectance).Mul(invPi)
}

// ContinuePath decides, for every lane, whether the path terminates at an
// emissive surface or continues with a diffuse bounce. It returns the
// multiplicative weight to apply to the accumulated color, a mask of lanes
// that should keep tracing, and the bounce ray for those lanes.
func ContinuePath(brdf BRDF, materialLane lane.F32x8, isect geom.PacketIntersection, rng *prng.Source) (weight geom.PVec3, continueMask lane.Mask8, bounce geom.PacketRay) {
	continueMask = materialLane.SignMask().Not()

	wi := brdf.Sample(isect.Normal, rng)
	pdf := brdf.PDF(isect.Normal, wi)
	value := brdf.Value(isect.Normal, wi)

	// cosine/pdf cancels for cosine-weighted sampling, leaving value/pdf*cos
	// as a constant reflectance; compute it generally so a future
	// non-cosine-weighted BRDF still works.
	cosTheta := isect.Normal.Dot(wi).Max(lane.Zero())
	factor := value.Mul(cosTheta).Div(pdf.Max(lane.Broadcast(1e-6)))
	weight = geom.PVec3{X: factor, Y: factor, Z: factor}

	origin := PVec3AdvanceEpsilon(isect.Position, wi)
	bounce = geom.NewPacketRay(origin, wi)
	return weight, continueMask, bounce
}

// PVec3AdvanceEpsilon nudges a hit position along the new bounce direction
// to avoid immediately re-intersecting the same surface.
func PVec3AdvanceEpsilon(position, direction geom.PVec3) geom.PVec3 {
	epsilon := lane.Broadcast(1e-5)
	return geom.PVec3{
		X: direction.X.MulAdd(epsilon, position.X),
		Y: direction.Y.MulAdd(epsilon, position.Y),
		Z: direction.Z.MulAdd(epsilon, position.Z),
	}
}

// tangentToWorld builds an orthonormal basis around n and transforms the
// local-space direction (localX, localY, localZ) into world space. The
// basis is built the branch-heavy way (per lane, since it needs a
// lane-varying "most perpendicular axis" choice); this is the one place in
// the shading path that is not branch-free, matching where the engine's own
// vector math accepts per-component work for basis construction.
func tangentToWorld(n geom.PVec3, localX, localY, localZ lane.F32x8) geom.PVec3 {
	var result geom.PVec3
	for i := 0; i < lane.Width; i++ {
		normal := n.Lane(i)
		tangent, bitangent := orthonormalBasis(normal)
		dir := tangent.Mul(localX[i]).Add(bitangent.Mul(localY[i])).Add(normal.Mul(localZ[i]))
		result.X[i], result.Y[i], result.Z[i] = dir.X, dir.Y, dir.Z
	}
	return result
}

func orthonormalBasis(n geom.Vec3) (geom.Vec3, geom.Vec3) {
	var up geom.Vec3
	if n.Z < 0.999 && n.Z > -0.999 {
		up = geom.Vec3{X: 0, Y: 0, Z: 1}
	} else {
		up = geom.Vec3{X: 1, Y: 0, Z: 0}
	}
	tangent := up.Cross(n).Normalize()
	bitangent := n.Cross(tangent)
	return tangent, bitangent
}

func sqrtLane(a lane.F32x8) lane.F32x8 {
	var r lane.F32x8
	for i := range r {
		r[i] = sqrt32(a[i])
	}
	return r
}

func cosLane(a lane.F32x8) lane.F32x8 {
	var r lane.F32x8
	for i := range r {
		r[i] = cos32(a[i])
	}
	return r
}

func sinLane(a lane.F32x8) lane.F32x8 {
	var r lane.F32x8
	for i := range r {
		r[i] = sin32(a[i])
	}
	return r
}
