package render

import (
	"github.com/Michaelangel007/convector/bvh"
	"github.com/Michaelangel007/convector/material"
)

// Scene bundles the immutable, read-only-after-build geometry (the BVH and
// its triangle buffer) with the camera that turns pixels into rays and the
// BRDF new bounces are sampled from. Every worker tile shares the same Scene;
// nothing in it is mutated once rendering starts (spec.md §5 "Shared-resource
// policy").
type Scene struct {
	BVH    *bvh.BVH
	Camera Camera
	BRDF   material.BRDF
}
