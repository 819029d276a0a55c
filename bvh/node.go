// Package bvh implements binned-SAH BVH construction and packet-ray
// traversal over a triangle soup.
package bvh

import (
	"unsafe"

	"github.com/Michaelangel007/convector/geom"
	"github.com/Michaelangel007/convector/internal/align"
)

// Node is one node of the linearized BVH, 32 bytes so that a sibling pair
// (the traversal loop always visits two nodes allocated back to back) fits
// in exactly one 64-byte cache line.
type Node struct {
	AABB geom.AABB
	// Index is, for an internal node, the index of its first child (the
	// second child is always Index+1); for a leaf, the index of its first
	// triangle in the BVH's triangle buffer.
	Index uint32
	// Len is the number of triangles in a leaf, or zero for an internal node.
	Len uint32
}

const nodeSize = unsafe.Sizeof(Node{})

// newNodeSlab allocates a cache-line-aligned array of n nodes, backed by a
// byte slab so that node pairs never straddle a cache line boundary.
func newNodeSlab(n int) []Node {
	if n == 0 {
		return nil
	}
	slab := align.NewSlab(n * int(nodeSize))
	return unsafe.Slice((*Node)(slab.Base()), n)
}
