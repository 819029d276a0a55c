package geom

import (
	"math"

	"github.com/Michaelangel007/convector/internal/lane"
)

// AABB is an axis-aligned bounding box, grounded on the engine's editor/raycast.go
// AABB plus the BVH builder's need for surface-area and enclose operations.
type AABB struct {
	Min, Max Vec3
}

// EmptyAABB returns a box that contains nothing; folding it with Encapsulate
// against any point or box yields that point or box unchanged.
func EmptyAABB() AABB {
	inf := float32(math.MaxFloat32)
	return AABB{
		Min: Vec3{X: inf, Y: inf, Z: inf},
		Max: Vec3{X: -inf, Y: -inf, Z: -inf},
	}
}

func (b AABB) Origin() Vec3 { return b.Min }

func (b AABB) Size() Vec3 { return b.Max.Sub(b.Min) }

func (b AABB) Center() Vec3 { return b.Min.Add(b.Max).Mul(0.5) }

// Area returns the box's surface area, used directly by the SAH cost model.
func (b AABB) Area() float32 {
	s := b.Size()
	return 2 * (s.X*s.Y + s.Y*s.Z + s.Z*s.X)
}

// Encapsulate returns the smallest box containing both b and p.
func (b AABB) Encapsulate(p Vec3) AABB {
	return AABB{Min: b.Min.Min(p), Max: b.Max.Max(p)}
}

// Union returns the smallest box containing both b and o.
func (b AABB) Union(o AABB) AABB {
	return AABB{Min: b.Min.Min(o.Min), Max: b.Max.Max(o.Max)}
}

// EnclosePoints builds the smallest AABB containing every point given.
func EnclosePoints(points []Vec3) AABB {
	b := EmptyAABB()
	for _, p := range points {
		b = b.Encapsulate(p)
	}
	return b
}

// EncloseAABBs builds the smallest AABB containing every box given.
func EncloseAABBs(boxes []AABB) AABB {
	b := EmptyAABB()
	for _, o := range boxes {
		b = b.Union(o)
	}
	return b
}

// Coord returns the min/max extent of the box along the given axis.
func (b AABB) Coord(a Axis) (lo, hi float32) { return b.Min.Coord(a), b.Max.Coord(a) }

// PacketAABB is an AABB broadcast across all 8 lanes, intersected against a
// packet of rays in the BVH traversal inner loop.
type PacketAABB struct {
	Min, Max PVec3
}

func BroadcastAABB(b AABB) PacketAABB {
	return PacketAABB{Min: BroadcastVec3(b.Min), Max: BroadcastVec3(b.Max)}
}

// Intersect performs the slab test against a packet of rays carrying
// precomputed reciprocal directions, returning the near distance per lane and
// a mask of lanes that actually hit within [0, currentNearest].
func (b PacketAABB) Intersect(ray PacketRay, currentNearest lane.F32x8) (near lane.F32x8, hit lane.Mask8) {
	t1 := b.Min.X.Sub(ray.Origin.X).Mul(ray.InvDirection.X)
	t2 := b.Max.X.Sub(ray.Origin.X).Mul(ray.InvDirection.X)
	tminX, tmaxX := t1.Min(t2), t1.Max(t2)

	t3 := b.Min.Y.Sub(ray.Origin.Y).Mul(ray.InvDirection.Y)
	t4 := b.Max.Y.Sub(ray.Origin.Y).Mul(ray.InvDirection.Y)
	tminY, tmaxY := t3.Min(t4), t3.Max(t4)

	t5 := b.Min.Z.Sub(ray.Origin.Z).Mul(ray.InvDirection.Z)
	t6 := b.Max.Z.Sub(ray.Origin.Z).Mul(ray.InvDirection.Z)
	tminZ, tmaxZ := t5.Min(t6), t5.Max(t6)

	tmin := tminX.Max(tminY).Max(tminZ)
	tmax := tmaxX.Min(tmaxY).Min(tmaxZ)

	zero := lane.Zero()
	hitMask := tmax.Geq(zero).And(tmax.Geq(tmin)).And(currentNearest.Geq(tmin))
	return tmin, hitMask
}

// IsFurtherAwayThan reports, per lane, whether the ray misses the box within
// [0, dist]: the negation of Intersect's hit mask. BVH traversal does not
// call it; it makes the same test through Intersect's currentNearest.
func (b PacketAABB) IsFurtherAwayThan(ray PacketRay, dist lane.F32x8) lane.Mask8 {
	_, hit := b.Intersect(ray, dist)
	return hit.Not()
}
