package mesh

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Michaelangel007/convector/geom"
)

const sampleOBJ = `
# a simple quad, to be triangulated by fan
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
f 1 2 3 4
`

func writeTempOBJ(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "quad.obj")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write temp obj: %v", err)
	}
	return path
}

func TestLoadOBJTriangulatesQuad(t *testing.T) {
	path := writeTempOBJ(t, sampleOBJ)
	m, err := LoadOBJ(path, geom.NewMaterialIndex(false, 0))
	if err != nil {
		t.Fatalf("LoadOBJ: %v", err)
	}
	if len(m.Triangles) != 2 {
		t.Fatalf("expected a quad to fan-triangulate into 2 triangles, got %d", len(m.Triangles))
	}
}

func TestLoadOBJMissingFile(t *testing.T) {
	_, err := LoadOBJ("/nonexistent/path/does-not-exist.obj", geom.NewMaterialIndex(false, 0))
	if err == nil {
		t.Fatal("expected an error for a missing file")
	}
}

func TestLoadOBJNegativeIndices(t *testing.T) {
	content := `
v 0 0 0
v 1 0 0
v 0 1 0
f -3 -2 -1
`
	path := writeTempOBJ(t, content)
	m, err := LoadOBJ(path, geom.NewMaterialIndex(false, 0))
	if err != nil {
		t.Fatalf("LoadOBJ: %v", err)
	}
	if len(m.Triangles) != 1 {
		t.Fatalf("expected 1 triangle from relative indices, got %d", len(m.Triangles))
	}
}

func TestToTrianglesFlattensMeshes(t *testing.T) {
	path := writeTempOBJ(t, sampleOBJ)
	m1, _ := LoadOBJ(path, geom.NewMaterialIndex(false, 0))
	m2, _ := LoadOBJ(path, geom.NewMaterialIndex(true, 1))
	tris := ToTriangles(m1, m2)
	if len(tris) != len(m1.Triangles)+len(m2.Triangles) {
		t.Fatalf("expected combined triangle count, got %d", len(tris))
	}
}
