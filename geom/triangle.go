package geom

import "github.com/Michaelangel007/convector/internal/lane"

// Triangle is a single triangle with a bit-packed material index attached to
// each vertex's slot in the BVH's triangle list.
type Triangle struct {
	V0, V1, V2 Vec3
	Material   MaterialIndex
}

func (t Triangle) Barycenter() Vec3 {
	return t.V0.Add(t.V1).Add(t.V2).Mul(1.0 / 3.0)
}

func (t Triangle) Bounds() AABB {
	return EnclosePoints([]Vec3{t.V0, t.V1, t.V2})
}

func (t Triangle) Normal() Vec3 {
	return t.V1.Sub(t.V0).Cross(t.V2.Sub(t.V0)).Normalize()
}

const triangleEpsilon = 1e-7

// Intersect implements Möller-Trumbore ray-triangle intersection for a single
// ray, mirroring the engine's scalar editor/raycast.go routine.
func (t Triangle) Intersect(r Ray) (dist float32, u, v float32, hit bool) {
	edge1 := t.V1.Sub(t.V0)
	edge2 := t.V2.Sub(t.V0)
	h := r.Direction.Cross(edge2)
	a := edge1.Dot(h)
	if a > -triangleEpsilon && a < triangleEpsilon {
		return 0, 0, 0, false
	}

	f := 1.0 / a
	s := r.Origin.Sub(t.V0)
	uu := f * s.Dot(h)
	if uu < 0 || uu > 1 {
		return 0, 0, 0, false
	}

	q := s.Cross(edge1)
	vv := f * r.Direction.Dot(q)
	if vv < 0 || uu+vv > 1 {
		return 0, 0, 0, false
	}

	tt := f * edge2.Dot(q)
	return tt, uu, vv, tt > triangleEpsilon
}

// PacketTriangle is a triangle broadcast across 8 lanes so one intersection
// test can be applied to a whole ray packet at once.
type PacketTriangle struct {
	V0, V1, V2 PVec3
	Material   lane.F32x8
}

func BroadcastTriangle(t Triangle) PacketTriangle {
	return PacketTriangle{
		V0:       BroadcastVec3(t.V0),
		V1:       BroadcastVec3(t.V1),
		V2:       BroadcastVec3(t.V2),
		Material: lane.Broadcast(t.Material.Lane()),
	}
}

// IntersectPacket runs Möller-Trumbore against all 8 rays in the packet at
// once and folds any closer hit into isect, branch-free.
func (pt PacketTriangle) IntersectPacket(ray PacketRay, isect PacketIntersection) PacketIntersection {
	edge1 := pt.V1.Sub(pt.V0)
	edge2 := pt.V2.Sub(pt.V0)
	h := ray.Direction.Cross(edge2)
	a := edge1.Dot(h)

	eps := lane.Broadcast(triangleEpsilon)
	negEps := lane.Broadcast(-triangleEpsilon)
	notParallel := a.Leq(negEps).Or(a.Geq(eps))

	f := a.Recip()
	s := ray.Origin.Sub(pt.V0)
	u := f.Mul(s.Dot(h))

	zero := lane.Zero()
	one := lane.Broadcast(1)
	uInRange := u.Geq(zero).And(u.Leq(one))

	q := s.Cross(edge1)
	v := f.Mul(ray.Direction.Dot(q))
	uv := u.Add(v)
	vInRange := v.Geq(zero).And(uv.Leq(one))

	dist := f.Mul(edge2.Dot(q))
	distValid := dist.Geq(eps).And(dist.Geq(isect.Distance).Not())

	hitMask := notParallel.And(uInRange).And(vInRange).And(distValid)

	hitPos := PVec3{
		X: ray.Direction.X.MulAdd(dist, ray.Origin.X),
		Y: ray.Direction.Y.MulAdd(dist, ray.Origin.Y),
		Z: ray.Direction.Z.MulAdd(dist, ray.Origin.Z),
	}
	normal := edge1.Cross(edge2).Normalize()

	hit := PacketIntersection{
		Position: hitPos,
		Normal:   normal,
		Distance: dist,
		Material: pt.Material,
		U:        u,
		V:        v,
	}
	return hit.Pick(isect, hitMask)
}
