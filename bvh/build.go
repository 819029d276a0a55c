package bvh

import (
	"math"

	"github.com/Michaelangel007/convector/geom"
	"github.com/Michaelangel007/convector/internal/logx"
)

// Cost model tuning constants for TreeSAH, carried over from the benchmark
// results that picked them.
const (
	DefaultCAABB = 40.0
	DefaultCTri  = 120.0
	DefaultP     = 0.1
)

const binCount = 64

// treeSAH is an improvement on the classic surface-area heuristic: instead
// of assuming every triangle under a node gets tested, it assumes the
// triangles are organized into a balanced sub-BVH with p as the
// per-level probability of actually entering a child.
type treeSAH struct {
	cAABB float32
	cTri  float32
	p     float32
}

func (h treeSAH) trisCost(numTris int) float32 {
	return float32(numTris) * h.cTri
}

func (h treeSAH) aabbCost(parent, aabb geom.AABB, numTris int) float32 {
	acap := aabb.Area() / parent.Area()
	p := h.p
	n := float32(numTris)
	m := log2(n)

	aabbTerm := 1.0 + acap*(2.0*p-n*powf(p, m))/(p-2.0*p*p)
	triTerm := n * powf(p, m-1.0) * acap

	return aabbTerm*h.cAABB + triTerm*h.cTri
}

func log2(x float32) float32  { return float32(math.Log2(float64(x))) }
func powf(x, y float32) float32 { return float32(math.Pow(float64(x), float64(y))) }

// triangleRef is a lightweight reference used during construction: the
// triangle's bounding box and barycenter, without duplicating its vertices.
type triangleRef struct {
	aabb       geom.AABB
	barycenter geom.Vec3
	index      int
}

func triangleRefFrom(index int, t geom.Triangle) triangleRef {
	return triangleRef{
		aabb:       t.Bounds(),
		barycenter: t.Barycenter(),
		index:      index,
	}
}

// bin collects the triangle refs that fall into one SAH bin along some axis.
type bin struct {
	refs []triangleRef
	aabb geom.AABB
	has  bool
}

func (b *bin) push(ref triangleRef) {
	if !b.has {
		b.aabb = ref.aabb
		b.has = true
	} else {
		b.aabb = b.aabb.Union(ref.aabb)
	}
	b.refs = append(b.refs, ref)
}

// interimNode is the tree representation used only during construction; it
// is flattened into the cache-aligned Node array by crystallize.
type interimNode struct {
	outerAABB geom.AABB
	innerAABB geom.AABB
	children  []*interimNode
	triangles []triangleRef
}

func interimFromRefs(refs []triangleRef) *interimNode {
	outer := geom.EmptyAABB()
	points := make([]geom.Vec3, len(refs))
	for i, r := range refs {
		outer = outer.Union(r.aabb)
		points[i] = r.barycenter
	}
	return &interimNode{
		outerAABB: outer,
		innerAABB: geom.EnclosePoints(points),
		triangles: refs,
	}
}

func (n *interimNode) innerOriginAndSize(axis geom.Axis) (float32, float32) {
	lo, hi := n.innerAABB.Coord(axis)
	return lo, hi - lo
}

func (n *interimNode) binTriangles(bins []bin, axis geom.Axis) {
	min, size := n.innerOriginAndSize(axis)
	for _, ref := range n.triangles {
		coord := ref.barycenter.Coord(axis)
		idx := int(float32(len(bins)) * (coord - min) / size)
		if idx >= len(bins) {
			idx = len(bins) - 1
		}
		if idx < 0 {
			idx = 0
		}
		bins[idx].push(ref)
	}
}

func encloseBins(bins []bin) geom.AABB {
	b := geom.EmptyAABB()
	for _, bn := range bins {
		if len(bn.refs) > 0 {
			b = b.Union(bn.aabb)
		}
	}
	return b
}

func areBinsValid(bins []bin) bool {
	nonEmpty := 0
	for _, bn := range bins {
		if len(bn.refs) > 0 {
			nonEmpty++
		}
	}
	return nonEmpty > 1
}

// findCheapestSplit returns the bin index such that, for the cheapest split,
// all bins below that index go to the left child, plus the split's cost.
func (n *interimNode) findCheapestSplit(h treeSAH, bins []bin) (int, float32) {
	first, last := -1, -1
	for i, bn := range bins {
		if len(bn.refs) > 0 {
			if first == -1 {
				first = i
			}
			last = i
		}
	}
	first++

	bestAt := 0
	bestCost := float32(0)
	isFirst := true

	for i := first; i <= last; i++ {
		leftAABB := encloseBins(bins[:i])
		leftCount := 0
		for _, bn := range bins[:i] {
			leftCount += len(bn.refs)
		}
		rightAABB := encloseBins(bins[i:])
		rightCount := 0
		for _, bn := range bins[i:] {
			rightCount += len(bn.refs)
		}

		cost := h.aabbCost(n.outerAABB, leftAABB, leftCount) + h.aabbCost(n.outerAABB, rightAABB, rightCount)
		if cost < bestCost || isFirst {
			bestCost = cost
			bestAt = i
			isFirst = false
		}
	}

	return bestAt, bestCost
}

// split decides whether splitting this node is worthwhile under h, and if
// so, partitions its triangles into two new children.
func (n *interimNode) split(h treeSAH) {
	if len(n.triangles) <= 1 {
		return
	}

	var bestAxis geom.Axis
	var bestAt float32
	bestCost := float32(0)
	isFirst := true

	for _, axis := range []geom.Axis{geom.AxisX, geom.AxisY, geom.AxisZ} {
		bins := make([]bin, binCount)
		n.binTriangles(bins, axis)

		if !areBinsValid(bins) {
			continue
		}

		index, cost := n.findCheapestSplit(h, bins)
		if cost < bestCost || isFirst {
			min, size := n.innerOriginAndSize(axis)
			bestAxis = axis
			bestAt = min + size/float32(binCount)*float32(index)
			bestCost = cost
			isFirst = false
		}
	}

	if isFirst {
		// No axis produced more than one non-empty bin; the triangles are
		// coincident enough that splitting cannot help.
		logx.Warnf("bvh: binning found no split for %d triangles with clustered barycenters; keeping them in one leaf", len(n.triangles))
		return
	}

	noSplitCost := h.trisCost(len(n.triangles))
	if noSplitCost <= bestCost {
		return
	}

	var leftRefs, rightRefs []triangleRef
	for _, ref := range n.triangles {
		if ref.barycenter.Coord(bestAxis) <= bestAt {
			leftRefs = append(leftRefs, ref)
		} else {
			rightRefs = append(rightRefs, ref)
		}
	}
	if len(leftRefs) == 0 || len(rightRefs) == 0 {
		return
	}

	n.triangles = nil
	n.children = []*interimNode{interimFromRefs(leftRefs), interimFromRefs(rightRefs)}
}

// forceSplit partitions the node's triangles into two children by index,
// ignoring the cost heuristic; a single triangle is placed in both children. It is the fallback for the rare case where
// splitRecursive's cost-guided split declines to split the top-level node at
// all (too few, too coincident, or zero triangles), since crystallize always
// needs a sibling pair at the root, even an empty one.
func (n *interimNode) forceSplit() {
	if len(n.triangles) == 1 {
		only := n.triangles
		n.children = []*interimNode{interimFromRefs(only), interimFromRefs(only)}
		n.triangles = nil
		return
	}
	mid := len(n.triangles) / 2
	left := append([]triangleRef(nil), n.triangles[:mid]...)
	right := append([]triangleRef(nil), n.triangles[mid:]...)
	n.children = []*interimNode{interimFromRefs(left), interimFromRefs(right)}
	n.triangles = nil
}

func (n *interimNode) splitRecursive(h treeSAH) {
	n.split(h)
	for _, child := range n.children {
		child.splitRecursive(h)
	}
}

func (n *interimNode) countTriangles() int {
	total := len(n.triangles)
	for _, c := range n.children {
		total += c.countTriangles()
	}
	return total
}

func (n *interimNode) countNodes() int {
	total := 1
	for _, c := range n.children {
		total += c.countNodes()
	}
	return total
}

func (n *interimNode) countLeaves() int {
	if len(n.children) == 0 {
		return 1
	}
	total := 0
	for _, c := range n.children {
		total += c.countLeaves()
	}
	return total
}

func (n *interimNode) summedAreaRatio() float32 {
	var sum float32
	selfArea := n.outerAABB.Area()
	for _, c := range n.children {
		sum += c.outerAABB.Area() / selfArea
		sum += c.summedAreaRatio()
	}
	return sum
}

// crystallize flattens this interim node into nodes[intoIndex], recursively
// allocating child slots via next, and appends leaf triangles (reordered for
// locality) into sortedTriangles.
func (n *interimNode) crystallize(source []geom.Triangle, nodes []Node, sortedTriangles *[]geom.Triangle, intoIndex uint32, next *uint32) {
	nodes[intoIndex].AABB = n.outerAABB

	if len(n.children) == 2 {
		childIndex := *next
		*next += 2

		n.children[0].crystallize(source, nodes, sortedTriangles, childIndex+0, next)
		n.children[1].crystallize(source, nodes, sortedTriangles, childIndex+1, next)

		nodes[intoIndex].Index = childIndex
		nodes[intoIndex].Len = 0
	} else {
		nodes[intoIndex].Index = uint32(len(*sortedTriangles))
		nodes[intoIndex].Len = uint32(len(n.triangles))
		for _, ref := range n.triangles {
			*sortedTriangles = append(*sortedTriangles, source[ref.index])
		}
	}
}
