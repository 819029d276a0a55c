// Package mesh loads triangle soups from disk (Wavefront OBJ and glTF) and
// converts them into the flat []geom.Triangle buffer the BVH builder and
// render kernel consume. It is the renderer's one external collaborator for
// content authoring.
package mesh

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/Michaelangel007/convector/geom"
)

// Mesh is a loaded, triangulated piece of geometry with one material index
// applied uniformly (this renderer doesn't do per-face material lookup
// tables; see SPEC_FULL.md §9).
type Mesh struct {
	Name      string
	Triangles []geom.Triangle
}

// LoadOBJ parses a Wavefront .obj file, triangulating any polygonal faces
// with a fan from the first vertex, and tags every triangle with material.
func LoadOBJ(path string, material geom.MaterialIndex) (*Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("mesh: open obj %q: %w", path, err)
	}
	defer f.Close()

	var positions []geom.Vec3
	var faceIndices [][]int

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "v":
			if len(fields) < 4 {
				continue
			}
			x, _ := strconv.ParseFloat(fields[1], 32)
			y, _ := strconv.ParseFloat(fields[2], 32)
			z, _ := strconv.ParseFloat(fields[3], 32)
			v := geom.NewVec3(float32(x), float32(y), float32(z))
			if isNaNVec3(v) {
				panic(fmt.Sprintf("mesh: NaN vertex coordinate in %q", path))
			}
			positions = append(positions, v)
		case "f":
			idx := make([]int, 0, len(fields)-1)
			for _, tok := range fields[1:] {
				vstr := strings.SplitN(tok, "/", 2)[0]
				vi, err := strconv.Atoi(vstr)
				if err != nil {
					continue
				}
				if vi < 0 {
					vi = len(positions) + vi + 1
				}
				idx = append(idx, vi-1)
			}
			if len(idx) >= 3 {
				faceIndices = append(faceIndices, idx)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("mesh: scan obj %q: %w", path, err)
	}

	var tris []geom.Triangle
	for _, face := range faceIndices {
		for i := 1; i+1 < len(face); i++ {
			v0, v1, v2 := face[0], face[i], face[i+1]
			if v0 < 0 || v0 >= len(positions) || v1 < 0 || v1 >= len(positions) || v2 < 0 || v2 >= len(positions) {
				continue
			}
			tris = append(tris, geom.Triangle{
				V0:       positions[v0],
				V1:       positions[v1],
				V2:       positions[v2],
				Material: material,
			})
		}
	}

	return &Mesh{Name: path, Triangles: tris}, nil
}

func isNaNVec3(v geom.Vec3) bool {
	return v.X != v.X || v.Y != v.Y || v.Z != v.Z
}
