package geom

import (
	"math"
	"testing"

	"github.com/Michaelangel007/convector/internal/lane"
)

func approxEqual(a, b, margin float32) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d <= margin
}

func vecApproxEqual(a, b Vec3, margin float32) bool {
	return approxEqual(a.X, b.X, margin) && approxEqual(a.Y, b.Y, margin) && approxEqual(a.Z, b.Z, margin)
}

func TestVec3Basics(t *testing.T) {
	a := NewVec3(1, 2, 3)
	b := NewVec3(4, 5, 6)
	if got := a.Add(b); got != (Vec3{5, 7, 9}) {
		t.Fatalf("Add: got %v", got)
	}
	if got := a.Dot(b); got != 32 {
		t.Fatalf("Dot: got %v, want 32", got)
	}
	cross := a.Cross(b)
	if !vecApproxEqual(cross, Vec3{-3, 6, -3}, 1e-6) {
		t.Fatalf("Cross: got %v", cross)
	}
}

func TestVec3Normalize(t *testing.T) {
	v := NewVec3(3, 0, 4)
	n := v.Normalize()
	if !approxEqual(n.Length(), 1, 1e-6) {
		t.Fatalf("Normalize: length = %v, want 1", n.Length())
	}
}

// Quaternion rotation around the principal axes should match the closed-form
// axis swaps, mirroring original_source/src/quaternion.rs's rotate_x/y/z tests.
func TestQuaternionRotateX(t *testing.T) {
	halfSqrt2 := float32(0.5 * math.Sqrt2)
	q := Quaternion{X: halfSqrt2, Y: 0, Z: 0, W: halfSqrt2}
	points := []Vec3{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}, {1, 2, 3}}
	for _, v := range points {
		got := q.RotateVector(v)
		want := Vec3{X: v.X, Y: -v.Z, Z: v.Y}
		if !vecApproxEqual(got, want, 1e-5) {
			t.Errorf("rotate_x(%v) = %v, want %v", v, got, want)
		}
	}
}

func TestQuaternionRotateIdentity(t *testing.T) {
	q := QuaternionIdentity()
	v := Vec3{1, 2, 3}
	got := q.RotateVector(v)
	if !vecApproxEqual(got, v, 1e-6) {
		t.Fatalf("identity rotation changed vector: got %v, want %v", got, v)
	}
}

func TestPQuaternionMatchesScalar(t *testing.T) {
	q := QuaternionFromAxisAngle(Vec3{0, 1, 0}, 1.234)
	pq := BroadcastQuaternion(q)
	v := GeneratePVec3(func(i int) Vec3 {
		return Vec3{X: float32(i), Y: float32(i) * 2, Z: float32(i) * 3}
	})
	got := pq.RotateVector(v)
	for i := 0; i < lane.Width; i++ {
		want := q.RotateVector(v.Lane(i))
		if !vecApproxEqual(got.Lane(i), want, 1e-4) {
			t.Errorf("lane %d: packet rotate = %v, scalar = %v", i, got.Lane(i), want)
		}
	}
}

func TestAABBEnclosePoints(t *testing.T) {
	pts := []Vec3{{1, -2, 3}, {-4, 5, 0}, {2, 2, -7}}
	b := EnclosePoints(pts)
	want := AABB{Min: Vec3{-4, -2, -7}, Max: Vec3{2, 5, 3}}
	if b != want {
		t.Fatalf("EnclosePoints: got %v, want %v", b, want)
	}
}

func TestAABBEncloseAABBs(t *testing.T) {
	a := AABB{Min: Vec3{0, 0, 0}, Max: Vec3{1, 1, 1}}
	b := AABB{Min: Vec3{-1, -1, -1}, Max: Vec3{0.5, 0.5, 0.5}}
	got := EncloseAABBs([]AABB{a, b})
	want := AABB{Min: Vec3{-1, -1, -1}, Max: Vec3{1, 1, 1}}
	if got != want {
		t.Fatalf("EncloseAABBs: got %v, want %v", got, want)
	}
}

func TestAABBArea(t *testing.T) {
	b := AABB{Min: Vec3{0, 0, 0}, Max: Vec3{2, 3, 4}}
	want := float32(2 * (2*3 + 3*4 + 4*2))
	if got := b.Area(); got != want {
		t.Fatalf("Area: got %v, want %v", got, want)
	}
}

func TestPacketAABBIntersectAgreesWithSlabTest(t *testing.T) {
	box := AABB{Min: Vec3{-1, -1, -1}, Max: Vec3{1, 1, 1}}
	pbox := BroadcastAABB(box)

	rays := []Ray{
		{Origin: Vec3{-5, 0, 0}, Direction: Vec3{1, 0, 0}},  // hits
		{Origin: Vec3{-5, 5, 0}, Direction: Vec3{1, 0, 0}},  // misses, parallel offset
		{Origin: Vec3{0, 0, 0}, Direction: Vec3{1, 0, 0}},   // starts inside
		{Origin: Vec3{5, 0, 0}, Direction: Vec3{1, 0, 0}},   // points away
	}
	pray := GeneratePacketRay(func(i int) Ray {
		if i < len(rays) {
			return rays[i]
		}
		return rays[0]
	})

	far := lane.Broadcast(math32Max)
	_, hit := pbox.Intersect(pray, far)
	wantHit := []bool{true, false, true, false}
	for i, want := range wantHit {
		if got := hit[i] != 0; got != want {
			t.Errorf("ray %d: hit = %v, want %v", i, got, want)
		}
	}
}

func TestTriangleIntersectScalarVsPacket(t *testing.T) {
	tri := Triangle{
		V0: Vec3{-1, -1, 0},
		V1: Vec3{1, -1, 0},
		V2: Vec3{0, 1, 0},
	}
	r := Ray{Origin: Vec3{0, 0, -5}, Direction: Vec3{0, 0, 1}}

	dist, _, _, hit := tri.Intersect(r)
	if !hit {
		t.Fatal("scalar intersect: expected hit")
	}

	pt := BroadcastTriangle(tri)
	pray := GeneratePacketRay(func(i int) Ray { return r })
	isect := pt.IntersectPacket(pray, NoIntersection())
	for i := 0; i < lane.Width; i++ {
		if !approxEqual(isect.Distance[i], dist, 1e-5) {
			t.Errorf("lane %d: packet distance = %v, scalar = %v", i, isect.Distance[i], dist)
		}
	}
}

func TestTriangleIntersectMissBehindRay(t *testing.T) {
	tri := Triangle{V0: Vec3{-1, -1, 0}, V1: Vec3{1, -1, 0}, V2: Vec3{0, 1, 0}}
	r := Ray{Origin: Vec3{0, 0, -5}, Direction: Vec3{0, 0, -1}}
	_, _, _, hit := tri.Intersect(r)
	if hit {
		t.Fatal("ray pointing away from the triangle should not hit")
	}
}

func TestMaterialIndexBits(t *testing.T) {
	m := NewMaterialIndex(true, 5)
	if !m.Emissive() {
		t.Fatal("expected emissive bit set")
	}
	if m.TextureIndex() != 5 {
		t.Fatalf("texture index = %d, want 5", m.TextureIndex())
	}
	if MaterialIndexFromLane(m.Lane()) != m {
		t.Fatal("lane bitcast round trip failed")
	}
}
