package mesh

import "github.com/Michaelangel007/convector/geom"

// ToTriangles flattens a set of loaded meshes into the single triangle
// buffer the BVH builder expects.
func ToTriangles(meshes ...*Mesh) []geom.Triangle {
	var total int
	for _, m := range meshes {
		total += len(m.Triangles)
	}
	tris := make([]geom.Triangle, 0, total)
	for _, m := range meshes {
		tris = append(tris, m.Triangles...)
	}
	return tris
}
