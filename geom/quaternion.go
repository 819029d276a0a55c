package geom

import "math"

// Quaternion represents a rotation, adapted from the engine's scalar
// quaternion type.
type Quaternion struct {
	X, Y, Z, W float32
}

func QuaternionIdentity() Quaternion { return Quaternion{X: 0, Y: 0, Z: 0, W: 1} }

func QuaternionFromAxisAngle(axis Vec3, angle float32) Quaternion {
	half := angle / 2
	s := float32(math.Sin(float64(half)))
	c := float32(math.Cos(float64(half)))
	axis = axis.Normalize()
	return Quaternion{X: axis.X * s, Y: axis.Y * s, Z: axis.Z * s, W: c}
}

func (q Quaternion) Conjugate() Quaternion {
	return Quaternion{X: -q.X, Y: -q.Y, Z: -q.Z, W: q.W}
}

func (q Quaternion) Normalize() Quaternion {
	length := float32(math.Sqrt(float64(q.X*q.X + q.Y*q.Y + q.Z*q.Z + q.W*q.W)))
	if length == 0 {
		return q
	}
	inv := 1 / length
	return Quaternion{X: q.X * inv, Y: q.Y * inv, Z: q.Z * inv, W: q.W * inv}
}

// RotateVector applies q to v as q * v * q^-1, using the two-step reduction
// that avoids building the intermediate quaternion's real component (the
// vector being rotated is pure imaginary, and so is the result).
func (q Quaternion) RotateVector(v Vec3) Vec3 {
	pa := q.X*v.X + q.Y*v.Y + q.Z*v.Z
	pb := q.X*v.X - q.Y*v.Y + q.Z*v.Z + (q.W-q.X)*v.X + (q.Y-q.Z)*(v.Y+v.Z)
	pc := q.Z*v.X + q.W*v.Y - q.X*v.Z
	pd := q.Z*v.X - q.W*v.Y - q.X*v.Z - (q.Y+q.Z)*v.X + (q.W+q.X)*(v.Y+v.Z)

	rx := (pa+pb)*(q.W+q.X) - (pc-pd)*(q.Y+q.Z) - pa*q.W - pb*q.X + pc*q.Y - pd*q.Z
	ry := pc*q.W - pd*q.X + pa*q.Y + pb*q.Z
	rz := (pc+pd)*(q.W+q.X) + (pa-pb)*(q.Y+q.Z) - pc*q.W - pd*q.X - pa*q.Y + pb*q.Z
	return Vec3{X: rx, Y: ry, Z: rz}
}
