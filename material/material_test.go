package material

import (
	"testing"

	"github.com/Michaelangel007/convector/geom"
	"github.com/Michaelangel007/convector/internal/lane"
	"github.com/Michaelangel007/convector/internal/prng"
)

func TestContinuePathStopsOnEmissive(t *testing.T) {
	emissive := geom.NewMaterialIndex(true, 0).Lane()
	matLane := lane.Broadcast(emissive)

	isect := geom.PacketIntersection{
		Normal:   geom.PVec3{X: lane.Zero(), Y: lane.Zero(), Z: lane.Broadcast(1)},
		Position: geom.PVec3{},
	}
	rng := prng.New(0, 0, 0)
	_, continueMask, _ := ContinuePath(Diffuse{Reflectance: 0.8}, matLane, isect, rng)
	if continueMask.Any() {
		t.Fatal("emissive material should not continue the path")
	}
}

func TestContinuePathContinuesOnDiffuse(t *testing.T) {
	diffuse := geom.NewMaterialIndex(false, 2).Lane()
	matLane := lane.Broadcast(diffuse)

	isect := geom.PacketIntersection{
		Normal:   geom.PVec3{X: lane.Zero(), Y: lane.Zero(), Z: lane.Broadcast(1)},
		Position: geom.PVec3{},
	}
	rng := prng.New(0, 0, 0)
	weight, continueMask, bounce := ContinuePath(Diffuse{Reflectance: 0.8}, matLane, isect, rng)
	if !continueMask.All() {
		t.Fatal("non-emissive material should continue every lane")
	}
	for i := 0; i < lane.Width; i++ {
		dir := bounce.Direction.Lane(i)
		// The bounce direction should stay within the hemisphere around the
		// surface normal (0, 0, 1): non-negative z.
		if dir.Z < -1e-4 {
			t.Errorf("lane %d: bounce direction %v left the hemisphere", i, dir)
		}
		w := weight.Lane(i)
		if w.X < 0 || w.X > 1.01 {
			t.Errorf("lane %d: weight %v out of plausible [0,1] range", i, w)
		}
	}
}

func TestDiffusePDFMatchesCosineWeighting(t *testing.T) {
	d := Diffuse{Reflectance: 1}
	n := geom.PVec3{X: lane.Zero(), Y: lane.Zero(), Z: lane.Broadcast(1)}
	straightUp := geom.PVec3{X: lane.Zero(), Y: lane.Zero(), Z: lane.Broadcast(1)}
	pdf := d.PDF(n, straightUp)
	want := float32(1.0 / 3.14159265)
	for i := 0; i < lane.Width; i++ {
		if diff := pdf[i] - want; diff > 1e-4 || diff < -1e-4 {
			t.Errorf("lane %d: pdf = %v, want %v", i, pdf[i], want)
		}
	}
}

func TestSkyIntensityIsNonNegative(t *testing.T) {
	dir := geom.PVec3{X: lane.Broadcast(0.3), Y: lane.Broadcast(0.5), Z: lane.Broadcast(0.8)}
	sky := SkyIntensity(dir)
	for i := 0; i < lane.Width; i++ {
		c := sky.Lane(i)
		if c.X < 0 || c.Y < 0 || c.Z < 0 {
			t.Errorf("lane %d: negative sky color %v", i, c)
		}
	}
}
