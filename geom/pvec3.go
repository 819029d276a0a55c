package geom

import "github.com/Michaelangel007/convector/internal/lane"

// PVec3 is eight 3D vectors stored as three lanes (one per axis), the
// structure-of-arrays layout the rest of the packet pipeline (BVH traversal,
// triangle intersection, shading) is built around.
type PVec3 struct {
	X, Y, Z lane.F32x8
}

func BroadcastVec3(v Vec3) PVec3 {
	return PVec3{X: lane.Broadcast(v.X), Y: lane.Broadcast(v.Y), Z: lane.Broadcast(v.Z)}
}

// GeneratePVec3 builds a packet vector by evaluating f for each of the 8
// lanes. This is effectively a transpose and should be avoided in hot paths.
func GeneratePVec3(f func(i int) Vec3) PVec3 {
	var p PVec3
	for i := 0; i < lane.Width; i++ {
		v := f(i)
		p.X[i], p.Y[i], p.Z[i] = v.X, v.Y, v.Z
	}
	return p
}

func (p PVec3) Lane(i int) Vec3 { return Vec3{X: p.X[i], Y: p.Y[i], Z: p.Z[i]} }

func (p PVec3) Add(o PVec3) PVec3 {
	return PVec3{X: p.X.Add(o.X), Y: p.Y.Add(o.Y), Z: p.Z.Add(o.Z)}
}

func (p PVec3) Sub(o PVec3) PVec3 {
	return PVec3{X: p.X.Sub(o.X), Y: p.Y.Sub(o.Y), Z: p.Z.Sub(o.Z)}
}

func (p PVec3) MulLane(s lane.F32x8) PVec3 {
	return PVec3{X: p.X.Mul(s), Y: p.Y.Mul(s), Z: p.Z.Mul(s)}
}

// MulAdd computes p*factor + term component-wise, with factor/term broadcast
// per-lane scalars (used to advance a ray origin by a scalar distance).
func (p PVec3) MulAdd(factor lane.F32x8, term PVec3) PVec3 {
	return PVec3{
		X: p.X.MulAdd(factor, term.X),
		Y: p.Y.MulAdd(factor, term.Y),
		Z: p.Z.MulAdd(factor, term.Z),
	}
}

func (p PVec3) Cross(o PVec3) PVec3 {
	return PVec3{
		X: p.Y.Mul(o.Z).Sub(p.Z.Mul(o.Y)),
		Y: p.Z.Mul(o.X).Sub(p.X.Mul(o.Z)),
		Z: p.X.Mul(o.Y).Sub(p.Y.Mul(o.X)),
	}
}

func (p PVec3) Dot(o PVec3) lane.F32x8 {
	return p.X.Mul(o.X).Add(p.Y.Mul(o.Y)).Add(p.Z.Mul(o.Z))
}

func (p PVec3) NormSqr() lane.F32x8 { return p.Dot(p) }

func (p PVec3) Normalize() PVec3 {
	invLen := p.NormSqr().Rsqrt()
	return p.MulLane(invLen)
}

// Pick selects, per lane, p's components where mask is true and o's
// components where mask is false.
func (p PVec3) Pick(o PVec3, mask lane.Mask8) PVec3 {
	return PVec3{
		X: lane.Pick(o.X, p.X, mask),
		Y: lane.Pick(o.Y, p.Y, mask),
		Z: lane.Pick(o.Z, p.Z, mask),
	}
}

// PQuaternion is a quaternion broadcast across all 8 lanes, used to rotate a
// PVec3 packet of rays in one shot instead of looping per lane.
type PQuaternion struct {
	X, Y, Z, W lane.F32x8
}

func BroadcastQuaternion(q Quaternion) PQuaternion {
	return PQuaternion{
		X: lane.Broadcast(q.X),
		Y: lane.Broadcast(q.Y),
		Z: lane.Broadcast(q.Z),
		W: lane.Broadcast(q.W),
	}
}

// RotateVector applies the two-step q*v*q^-1 reduction lane-wise, mirroring
// Quaternion.RotateVector but operating on all 8 rays at once.
func (q PQuaternion) RotateVector(v PVec3) PVec3 {
	pa := q.X.Mul(v.X).Add(q.Y.Mul(v.Y)).Add(q.Z.Mul(v.Z))
	pb := q.X.Mul(v.X).Sub(q.Y.Mul(v.Y)).Add(q.Z.Mul(v.Z)).
		Add(q.W.Sub(q.X).Mul(v.X)).
		Add(q.Y.Sub(q.Z).Mul(v.Y.Add(v.Z)))
	pc := q.Z.Mul(v.X).Add(q.W.Mul(v.Y)).Sub(q.X.Mul(v.Z))
	pd := q.Z.Mul(v.X).Sub(q.W.Mul(v.Y)).Sub(q.X.Mul(v.Z)).
		Sub(q.Y.Add(q.Z).Mul(v.X)).
		Add(q.W.Add(q.X).Mul(v.Y.Add(v.Z)))

	qaqb := q.W.Add(q.X)
	qcqd := q.Y.Add(q.Z)

	rx := pa.Add(pb).Mul(qaqb).
		Sub(pc.Sub(pd).Mul(qcqd)).
		Sub(pa.Mul(q.W)).Sub(pb.Mul(q.X)).
		Add(pc.Mul(q.Y)).Sub(pd.Mul(q.Z))
	ry := pc.Mul(q.W).Sub(pd.Mul(q.X)).Add(pa.Mul(q.Y)).Add(pb.Mul(q.Z))
	rz := pc.Add(pd).Mul(qaqb).
		Add(pa.Sub(pb).Mul(qcqd)).
		Sub(pc.Mul(q.W)).Sub(pd.Mul(q.X)).
		Sub(pa.Mul(q.Y)).Add(pb.Mul(q.Z))

	return PVec3{X: rx, Y: ry, Z: rz}
}
