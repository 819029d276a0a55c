package bvh

import (
	"github.com/Michaelangel007/convector/geom"
	"github.com/Michaelangel007/convector/internal/lane"
)

type stackEntry struct {
	node    *Node
	near    lane.F32x8
	hitMask lane.Mask8
}

// IntersectNearest traverses the BVH with a LIFO stack, folding the closest
// hit across all 8 rays in the packet into isect. A node is skipped once its
// AABB is further away than the current nearest intersection for every lane
// still in flight.
func (b *BVH) IntersectNearest(ray geom.PacketRay, isect geom.PacketIntersection) geom.PacketIntersection {
	// A BVH built over no triangles holds only empty leaves, which the
	// Len == 0 interior-node test below cannot tell apart from interior
	// nodes; nothing can be hit, so the intersection is returned unchanged.
	if len(b.Triangles) == 0 {
		return isect
	}

	stack := make([]stackEntry, 0, 32)

	pushChild := func(idx uint32) {
		node := &b.Nodes[idx]
		pbox := geom.BroadcastAABB(node.AABB)
		near, hit := pbox.Intersect(ray, isect.Distance)
		if hit.Any() {
			stack = append(stack, stackEntry{node: node, near: near, hitMask: hit})
		}
	}

	pushChild(0)
	pushChild(1)

	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if !top.hitMask.And(isect.Distance.Geq(top.near)).Any() {
			continue
		}

		node := top.node
		if node.Len == 0 {
			pushChild(node.Index + 0)
			pushChild(node.Index + 1)
			continue
		}

		for i := node.Index; i < node.Index+node.Len; i++ {
			pt := geom.BroadcastTriangle(b.Triangles[i])
			isect = pt.IntersectPacket(ray, isect)
		}
	}

	return isect
}

// IntersectAny reports, per lane, whether the ray hits anything closer than
// maxDist. It is implemented in terms of IntersectNearest with a sentinel
// intersection seeded at maxDist, matching the epsilon-threshold comparison
// the core traversal uses to decide "did anything block this ray".
func (b *BVH) IntersectAny(ray geom.PacketRay, maxDist lane.F32x8) lane.Mask8 {
	sentinel := geom.PacketIntersection{
		Position: ray.Direction.MulAdd(maxDist, ray.Origin),
		Normal:   ray.Direction,
		Distance: maxDist,
	}
	isect := b.IntersectNearest(ray, sentinel)
	epsilon := lane.Broadcast(1e-5)
	// A lane is blocked (hit something) when its returned distance fell
	// short of the sentinel; a lane whose distance is still >= maxDist-eps
	// never found anything closer than maxDist and counts as a miss.
	return isect.Distance.Geq(maxDist.Sub(epsilon)).Not()
}
