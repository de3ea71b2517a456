package sdfx

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/chazu/vrep/pkg/kernel"
)

// testCells keeps marching cubes fast in tests.
const testCells = 48

func mustSolid(t *testing.T, s kernel.Solid, err error) kernel.Solid {
	t.Helper()
	if err != nil {
		t.Fatalf("primitive failed: %v", err)
	}
	return s
}

func TestBox(t *testing.T) {
	k := NewWithCells(testCells)
	box := mustSolid(t, k.Box(100, 50, 25))
	mesh, err := k.ToMesh(box)
	if err != nil {
		t.Fatalf("ToMesh failed: %v", err)
	}
	if mesh.IsEmpty() {
		t.Fatal("mesh is empty")
	}
	triCount := mesh.TriangleCount()
	if triCount == 0 {
		t.Fatal("expected non-zero triangle count")
	}
	// Verify vertex and index array sizes are consistent.
	if len(mesh.Vertices) != len(mesh.Normals) {
		t.Fatalf("vertices length %d != normals length %d", len(mesh.Vertices), len(mesh.Normals))
	}
	if len(mesh.Indices) != triCount*3 {
		t.Fatalf("indices length %d != triCount*3 %d", len(mesh.Indices), triCount*3)
	}
}

func TestSphere(t *testing.T) {
	k := NewWithCells(testCells)
	s := mustSolid(t, k.Sphere(10))
	mesh, err := k.ToMesh(s)
	if err != nil {
		t.Fatalf("ToMesh failed: %v", err)
	}
	if mesh.IsEmpty() {
		t.Fatal("mesh is empty")
	}
	min, max := mesh.Bounds()
	for i := 0; i < 3; i++ {
		if math.Abs(float64(min[i])+10) > 1 || math.Abs(float64(max[i])-10) > 1 {
			t.Errorf("axis %d: mesh spans %v..%v, want about -10..10", i, min[i], max[i])
		}
	}
}

func TestSphereRejectsZeroRadius(t *testing.T) {
	k := New()
	if _, err := k.Sphere(0); err == nil {
		t.Fatal("expected error for zero radius")
	}
}

func TestDifference(t *testing.T) {
	k := NewWithCells(testCells)

	box := mustSolid(t, k.Box(100, 100, 100))
	boxMesh, err := k.ToMesh(box)
	if err != nil {
		t.Fatalf("ToMesh(box) failed: %v", err)
	}

	hole := mustSolid(t, k.Sphere(40))
	diff := k.Difference(box, k.Translate(hole, 50, 0, 0))
	diffMesh, err := k.ToMesh(diff)
	if err != nil {
		t.Fatalf("ToMesh(diff) failed: %v", err)
	}
	if diffMesh.IsEmpty() {
		t.Fatal("difference mesh is empty")
	}
	// A box with a bite taken out needs more triangles than a plain box.
	if diffMesh.TriangleCount() <= boxMesh.TriangleCount() {
		t.Fatalf("difference (%d triangles) should have more triangles than box (%d triangles)",
			diffMesh.TriangleCount(), boxMesh.TriangleCount())
	}
}

func TestUnion(t *testing.T) {
	k := NewWithCells(testCells)
	box1 := mustSolid(t, k.Box(50, 50, 50))
	box2 := k.Translate(mustSolid(t, k.Box(50, 50, 50)), 30, 0, 0)
	ball := k.Translate(mustSolid(t, k.Sphere(10)), 0, 0, 40)
	u := k.Union(box1, box2, ball)

	min, max := u.BoundingBox()
	const tol = 0.5
	if math.Abs(min[0]+25) > tol || math.Abs(max[0]-55) > tol || math.Abs(max[2]-50) > tol {
		t.Errorf("union bounds = %v..%v", min, max)
	}

	mesh, err := k.ToMesh(u)
	if err != nil {
		t.Fatalf("ToMesh failed: %v", err)
	}
	if mesh.IsEmpty() {
		t.Fatal("union mesh is empty")
	}
}

func TestUnionSingle(t *testing.T) {
	k := New()
	box := mustSolid(t, k.Box(1, 1, 1))
	if k.Union(box) != box {
		t.Error("union of one solid should be that solid")
	}
}

func TestTranslate(t *testing.T) {
	k := New()
	box := mustSolid(t, k.Box(10, 10, 10))
	translated := k.Translate(box, 100, 200, 300)

	min, max := translated.BoundingBox()

	// Translated box(10,10,10) by (100,200,300) should be centered at (100,200,300).
	const tol = 0.5
	expectMin := [3]float64{95, 195, 295}
	expectMax := [3]float64{105, 205, 305}

	for i := 0; i < 3; i++ {
		if math.Abs(min[i]-expectMin[i]) > tol {
			t.Errorf("min[%d] = %f, expected ~%f", i, min[i], expectMin[i])
		}
		if math.Abs(max[i]-expectMax[i]) > tol {
			t.Errorf("max[%d] = %f, expected ~%f", i, max[i], expectMax[i])
		}
	}
}

func TestBoundingBox(t *testing.T) {
	k := New()
	box := mustSolid(t, k.Box(100, 50, 25))
	min, max := box.BoundingBox()

	const tol = 0.01
	expectMin := [3]float64{-50, -25, -12.5}
	expectMax := [3]float64{50, 25, 12.5}

	for i := 0; i < 3; i++ {
		if math.Abs(min[i]-expectMin[i]) > tol {
			t.Errorf("min[%d] = %f, expected %f", i, min[i], expectMin[i])
		}
		if math.Abs(max[i]-expectMax[i]) > tol {
			t.Errorf("max[%d] = %f, expected %f", i, max[i], expectMax[i])
		}
	}
}

func TestIntersection(t *testing.T) {
	k := NewWithCells(testCells)
	box1 := mustSolid(t, k.Box(100, 100, 100))
	box2 := k.Translate(mustSolid(t, k.Box(100, 100, 100)), 50, 0, 0)
	inter := k.Intersection(box1, box2)
	mesh, err := k.ToMesh(inter)
	if err != nil {
		t.Fatalf("ToMesh failed: %v", err)
	}
	if mesh.IsEmpty() {
		t.Fatal("intersection mesh is empty")
	}
}

func TestWriteSTL(t *testing.T) {
	k := NewWithCells(24)
	path := filepath.Join(t.TempDir(), "ball.stl")
	if err := k.WriteSTL(mustSolid(t, k.Sphere(5)), path); err != nil {
		t.Fatalf("WriteSTL failed: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	// Binary STL: 80 byte header + 4 byte count + 50 bytes per triangle.
	if info.Size() <= 84 || (info.Size()-84)%50 != 0 {
		t.Errorf("unexpected STL size %d", info.Size())
	}
}

func TestNewWithCells(t *testing.T) {
	if got := NewWithCells(0).Cells(); got != DefaultMeshCells {
		t.Errorf("Cells() = %d, want default %d", got, DefaultMeshCells)
	}
	if got := NewWithCells(64).Cells(); got != 64 {
		t.Errorf("Cells() = %d, want 64", got)
	}
}
