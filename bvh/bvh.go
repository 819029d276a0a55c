package bvh

import (
	"github.com/Michaelangel007/convector/geom"
	"github.com/Michaelangel007/convector/internal/logx"
)

// BVH is a bounding volume hierarchy over a triangle soup: a linearized,
// cache-aligned node array plus the triangle buffer reordered for locality
// during crystallization.
type BVH struct {
	Nodes     []Node
	Triangles []geom.Triangle
}

// Stats summarizes a freshly built BVH, logged once at startup the way the
// construction routine it's grounded on prints its own build report.
type Stats struct {
	NumNodes          int
	NumLeaves         int
	TrianglesPerLeaf  float32
	AvgChildAreaRatio float32
}

// Build constructs a BVH over the given triangles using the tree-SAH cost
// heuristic.
func Build(triangles []geom.Triangle) (*BVH, Stats) {
	return BuildWithHeuristic(triangles, treeSAH{cAABB: DefaultCAABB, cTri: DefaultCTri, p: DefaultP})
}

func BuildWithHeuristic(triangles []geom.Triangle, h treeSAH) (*BVH, Stats) {
	logx.Infof("building bvh over %d triangles", len(triangles))

	refs := make([]triangleRef, len(triangles))
	for i, t := range triangles {
		refs[i] = triangleRefFrom(i, t)
	}

	root := interimFromRefs(refs)
	root.splitRecursive(h)

	if len(root.children) != 2 {
		// The cost-guided split declined to split the root at all (too few
		// or too coincident triangles); force an index-based split so
		// crystallize always finds the sibling pair it requires.
		root.forceSplit()
		for _, c := range root.children {
			c.splitRecursive(h)
		}
	}

	left, right := root.children[0], root.children[1]
	numNodes := left.countNodes() + right.countNodes()
	numTris := left.countTriangles() + right.countTriangles()

	nodes := newNodeSlab(numNodes)
	sortedTriangles := make([]geom.Triangle, 0, numTris)

	next := uint32(2)
	left.crystallize(triangles, nodes, &sortedTriangles, 0, &next)
	right.crystallize(triangles, nodes, &sortedTriangles, 1, &next)

	numLeaves := left.countLeaves() + right.countLeaves()
	trisPerLeaf := float32(numTris) / float32(numLeaves)
	avgRatio := (left.summedAreaRatio() + right.summedAreaRatio()) / float32(numNodes)

	stats := Stats{
		NumNodes:          numNodes,
		NumLeaves:         numLeaves,
		TrianglesPerLeaf:  trisPerLeaf,
		AvgChildAreaRatio: avgRatio,
	}
	logx.Infof("bvh built: %d nodes, %.2f triangles/leaf, %.2f avg child/parent area", stats.NumNodes, stats.TrianglesPerLeaf, stats.AvgChildAreaRatio)

	return &BVH{Nodes: nodes, Triangles: sortedTriangles}, stats
}
