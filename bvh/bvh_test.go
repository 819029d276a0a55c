package bvh

import (
	"math/rand"
	"testing"

	"github.com/Michaelangel007/convector/geom"
	"github.com/Michaelangel007/convector/internal/lane"
)

func cubeTriangles(origin geom.Vec3, size float32) []geom.Triangle {
	o := origin
	s := size
	v := func(x, y, z float32) geom.Vec3 { return geom.Vec3{X: o.X + x*s, Y: o.Y + y*s, Z: o.Z + z*s} }
	corners := [8]geom.Vec3{
		v(0, 0, 0), v(1, 0, 0), v(1, 1, 0), v(0, 1, 0),
		v(0, 0, 1), v(1, 0, 1), v(1, 1, 1), v(0, 1, 1),
	}
	faces := [6][4]int{
		{0, 1, 2, 3}, {4, 5, 6, 7}, {0, 1, 5, 4},
		{2, 3, 7, 6}, {1, 2, 6, 5}, {0, 3, 7, 4},
	}
	var tris []geom.Triangle
	for _, f := range faces {
		tris = append(tris,
			geom.Triangle{V0: corners[f[0]], V1: corners[f[1]], V2: corners[f[2]]},
			geom.Triangle{V0: corners[f[0]], V1: corners[f[2]], V2: corners[f[3]]},
		)
	}
	return tris
}

func TestBuildProducesSiblingPairs(t *testing.T) {
	tris := cubeTriangles(geom.Vec3{}, 1)
	b, stats := Build(tris)
	if len(b.Nodes)%2 != 0 {
		t.Fatalf("node count must be even for sibling pairs, got %d", len(b.Nodes))
	}
	if stats.NumNodes != len(b.Nodes) {
		t.Fatalf("stats.NumNodes = %d, len(Nodes) = %d", stats.NumNodes, len(b.Nodes))
	}
	if len(b.Triangles) != len(tris) {
		t.Fatalf("expected %d triangles in sorted buffer, got %d", len(tris), len(b.Triangles))
	}
}

func TestBuildSingleTriangle(t *testing.T) {
	tris := []geom.Triangle{{V0: geom.Vec3{0, 0, 0}, V1: geom.Vec3{1, 0, 0}, V2: geom.Vec3{0, 1, 0}}}
	b, _ := Build(tris)
	if len(b.Nodes) == 0 {
		t.Fatal("expected at least the root sibling pair")
	}
}

func TestIntersectNearestAgreesWithScalarTriangleTest(t *testing.T) {
	tris := cubeTriangles(geom.Vec3{-0.5, -0.5, -0.5}, 1)
	b, _ := Build(tris)

	r := geom.Ray{Origin: geom.Vec3{0, 0, -5}, Direction: geom.Vec3{0, 0, 1}}
	pray := geom.GeneratePacketRay(func(i int) geom.Ray { return r })

	isect := b.IntersectNearest(pray, geom.NoIntersection())

	var bestDist float32 = 1e30
	hitAny := false
	for _, tri := range tris {
		if d, _, _, hit := tri.Intersect(r); hit && d < bestDist {
			bestDist = d
			hitAny = true
		}
	}

	if !hitAny {
		t.Fatal("reference scalar scan found no hit")
	}
	for i := 0; i < lane.Width; i++ {
		got := isect.Distance[i]
		if got > bestDist+1e-3 || got < bestDist-1e-3 {
			t.Errorf("lane %d: bvh distance = %v, scalar reference = %v", i, got, bestDist)
		}
	}
}

func TestIntersectAnyMatchesNearest(t *testing.T) {
	tris := cubeTriangles(geom.Vec3{-0.5, -0.5, -0.5}, 1)
	b, _ := Build(tris)

	r := geom.Ray{Origin: geom.Vec3{0, 0, -5}, Direction: geom.Vec3{0, 0, 1}}
	pray := geom.GeneratePacketRay(func(i int) geom.Ray { return r })
	maxDist := lane.Broadcast(10)

	blocked := b.IntersectAny(pray, maxDist)
	if !blocked.Any() {
		t.Fatal("expected the ray to be blocked by the cube")
	}

	missRay := geom.Ray{Origin: geom.Vec3{100, 100, 100}, Direction: geom.Vec3{0, 0, 1}}
	pmiss := geom.GeneratePacketRay(func(i int) geom.Ray { return missRay })
	clear := b.IntersectAny(pmiss, maxDist)
	if clear.Any() {
		t.Fatal("expected the ray far from the cube to be unblocked")
	}
}

func TestBuildRandomSoupHasNoLostTriangles(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	var tris []geom.Triangle
	for i := 0; i < 500; i++ {
		center := geom.Vec3{X: rng.Float32()*20 - 10, Y: rng.Float32()*20 - 10, Z: rng.Float32()*20 - 10}
		tris = append(tris, cubeTriangles(center, 0.1)...)
	}
	b, _ := Build(tris)
	if len(b.Triangles) != len(tris) {
		t.Fatalf("expected %d triangles preserved, got %d", len(tris), len(b.Triangles))
	}
}
