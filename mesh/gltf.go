package mesh

import (
	"fmt"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/Michaelangel007/convector/geom"
)

// LoadGLTF opens a .glb or .gltf file and flattens every mesh primitive's
// position/index accessors into triangles, tagged with a single material.
func LoadGLTF(path string, material geom.MaterialIndex) (*Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("mesh: gltf open %q: %w", path, err)
	}

	var tris []geom.Triangle
	for _, m := range doc.Meshes {
		for _, prim := range m.Primitives {
			primTris, err := loadPrimitive(doc, prim, material)
			if err != nil {
				return nil, fmt.Errorf("mesh: %q mesh %q: %w", path, m.Name, err)
			}
			tris = append(tris, primTris...)
		}
	}

	return &Mesh{Name: path, Triangles: tris}, nil
}

func loadPrimitive(doc *gltf.Document, prim *gltf.Primitive, material geom.MaterialIndex) ([]geom.Triangle, error) {
	posIdx, ok := prim.Attributes[gltf.POSITION]
	if !ok {
		return nil, fmt.Errorf("primitive has no POSITION attribute")
	}

	positionsRaw, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
	if err != nil {
		return nil, fmt.Errorf("read positions: %w", err)
	}

	positions := make([]geom.Vec3, len(positionsRaw))
	for i, p := range positionsRaw {
		v := geom.NewVec3(p[0], p[1], p[2])
		if isNaNVec3(v) {
			panic("mesh: NaN vertex coordinate in gltf primitive")
		}
		positions[i] = v
	}

	var indices []uint32
	if prim.Indices != nil {
		indices, err = modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
		if err != nil {
			return nil, fmt.Errorf("read indices: %w", err)
		}
	} else {
		indices = make([]uint32, len(positions))
		for i := range indices {
			indices[i] = uint32(i)
		}
	}

	var tris []geom.Triangle
	for i := 0; i+2 < len(indices); i += 3 {
		i0, i1, i2 := indices[i], indices[i+1], indices[i+2]
		if int(i0) >= len(positions) || int(i1) >= len(positions) || int(i2) >= len(positions) {
			continue
		}
		tris = append(tris, geom.Triangle{
			V0:       positions[i0],
			V1:       positions[i1],
			V2:       positions[i2],
			Material: material,
		})
	}
	return tris, nil
}
