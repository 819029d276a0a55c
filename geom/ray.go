package geom

import "github.com/Michaelangel007/convector/internal/lane"

// Ray is a single ray, grounded on the engine's editor/raycast.go Ray type.
type Ray struct {
	Origin, Direction Vec3
}

// AdvanceEpsilon nudges the ray's origin along its direction, used to avoid
// immediately re-intersecting the surface a bounce just left.
func (r Ray) AdvanceEpsilon() Ray {
	return Ray{Origin: r.Origin.Add(r.Direction.Mul(1e-5)), Direction: r.Direction}
}

// PacketRay holds 8 rays in structure-of-arrays form, plus the precomputed
// reciprocal direction the AABB slab test consumes every traversal step.
type PacketRay struct {
	Origin       PVec3
	Direction    PVec3
	InvDirection PVec3
}

func NewPacketRay(origin, direction PVec3) PacketRay {
	return PacketRay{
		Origin:       origin,
		Direction:    direction,
		InvDirection: PVec3{X: direction.X.Recip(), Y: direction.Y.Recip(), Z: direction.Z.Recip()},
	}
}

// GeneratePacketRay builds a packet ray by evaluating f for each of the 8
// lanes. This is a transpose; avoid it in the traversal inner loop.
func GeneratePacketRay(f func(i int) Ray) PacketRay {
	origin := GeneratePVec3(func(i int) Vec3 { return f(i).Origin })
	direction := GeneratePVec3(func(i int) Vec3 { return f(i).Direction })
	return NewPacketRay(origin, direction)
}

// AdvanceEpsilon nudges every ray's origin along its direction by a small
// constant, mirroring Ray.AdvanceEpsilon across all 8 lanes at once.
func (r PacketRay) AdvanceEpsilon() PacketRay {
	epsilon := lane.Broadcast(1e-5)
	origin := PVec3{
		X: r.Direction.X.MulAdd(epsilon, r.Origin.X),
		Y: r.Direction.Y.MulAdd(epsilon, r.Origin.Y),
		Z: r.Direction.Z.MulAdd(epsilon, r.Origin.Z),
	}
	return NewPacketRay(origin, r.Direction)
}

// PacketIntersection carries the nearest-hit state for 8 rays through BVH
// traversal and shading: position, normal, parametric distance, and the
// (bit-packed) material index of the surface hit.
type PacketIntersection struct {
	Position PVec3
	Normal   PVec3
	Distance lane.F32x8
	Material lane.F32x8
	U, V     lane.F32x8
}

// NoIntersection returns the "nothing hit yet" sentinel: distance is
// MaxFloat32 broadcast across all lanes, chosen over +Inf so that later
// multiplies against the distance (e.g. advancing a ray) stay finite instead
// of propagating NaN through 0*Inf. Material carries the emissive bit so a
// ray that never hits anything reads as having escaped into the (emissive)
// sky rather than having struck a degenerate diffuse surface: the bounce loop
// terminates on it and its accumulated color, now multiplied by the sky
// color, survives the final "zero out the non-emissive lanes" pass.
func NoIntersection() PacketIntersection {
	far := lane.Broadcast(math32Max)
	sky := lane.Broadcast(NewMaterialIndex(true, 0).Lane())
	return PacketIntersection{Distance: far, Material: sky}
}

const math32Max = 3.4028235e38

// Pick selects, per lane, i's fields where mask is true and o's where false.
func (i PacketIntersection) Pick(o PacketIntersection, mask lane.Mask8) PacketIntersection {
	return PacketIntersection{
		Position: i.Position.Pick(o.Position, mask),
		Normal:   i.Normal.Pick(o.Normal, mask),
		Distance: lane.Pick(o.Distance, i.Distance, mask),
		Material: lane.Pick(o.Material, i.Material, mask),
		U:        lane.Pick(o.U, i.U, mask),
		V:        lane.Pick(o.V, i.V, mask),
	}
}
