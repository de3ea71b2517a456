package main

import (
	"context"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/chazu/vrep/pkg/codec"
	"github.com/chazu/vrep/pkg/config"
	"github.com/chazu/vrep/pkg/solid"
)

// newTestApp returns an App with a coarse mesh and a small sampling grid
// so end-to-end tests stay fast.
func newTestApp(t *testing.T) *App {
	t.Helper()
	cfg := config.Default()
	cfg.Mesh.Cells = 32
	cfg.Mesh.ClipExtent = 3
	cfg.Sample.Resolution = 5
	return NewApp(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// TestE2EShapeExample exercises the full pipeline: script → engine → solid
// → document + mesh.
func TestE2EShapeExample(t *testing.T) {
	app := newTestApp(t)

	source, err := os.ReadFile("examples/shape.vrep")
	if err != nil {
		t.Fatalf("failed to read shape.vrep: %v", err)
	}

	result := app.Evaluate(string(source))

	// No errors expected.
	if len(result.Errors) > 0 {
		for _, e := range result.Errors {
			t.Errorf("eval error (line %d): %s", e.Line, e.Message)
		}
		t.FailNow()
	}
	if len(result.Warnings) > 0 {
		t.Errorf("unexpected warnings: %v", result.Warnings)
	}

	if len(result.Meshes) != 1 {
		t.Fatalf("expected 1 mesh, got %d", len(result.Meshes))
	}
	m := result.Meshes[0]
	if len(m.Vertices) == 0 || len(m.Normals) == 0 || len(m.Indices) == 0 {
		t.Error("mesh must have non-empty geometry")
	}
	if m.Name != "Subtraction" {
		t.Errorf("expected mesh name %q, got %q", "Subtraction", m.Name)
	}

	typ, _ := result.Document.Type()
	if typ != "Subtraction" {
		t.Errorf("expected Subtraction document, got %q", typ)
	}
}

// TestE2EScriptMatchesDocument checks that the script and the JSON
// document in examples/ describe the same solid.
func TestE2EScriptMatchesDocument(t *testing.T) {
	app := newTestApp(t)

	fromScript, err := app.LoadSolid("examples/shape.vrep")
	if err != nil {
		t.Fatalf("LoadSolid(script): %v", err)
	}
	fromDoc, err := app.LoadSolid("examples/shape.json")
	if err != nil {
		t.Fatalf("LoadSolid(document): %v", err)
	}

	for x := -2.5; x <= 2.5; x += 0.25 {
		for y := -2.5; y <= 2.5; y += 0.25 {
			p := r3.Vec{X: x, Y: y, Z: 0.3}
			if fromScript.IsInside(p) != fromDoc.IsInside(p) {
				t.Fatalf("membership differs at %v", p)
			}
		}
	}
}

// TestE2EEmptySource ensures the pipeline handles empty input gracefully.
func TestE2EEmptySource(t *testing.T) {
	app := newTestApp(t)
	result := app.Evaluate("")

	if len(result.Errors) > 0 {
		t.Errorf("unexpected errors for empty source: %v", result.Errors)
	}
	if len(result.Meshes) != 0 {
		t.Errorf("expected 0 meshes for empty source, got %d", len(result.Meshes))
	}
	if result.Document != nil {
		t.Errorf("expected no document, got %v", result.Document)
	}
}

// TestE2ESyntaxError ensures eval errors are reported, not fatal errors.
func TestE2ESyntaxError(t *testing.T) {
	app := newTestApp(t)
	result := app.Evaluate("(sphere :radius 1")

	if len(result.Errors) == 0 {
		t.Fatal("expected eval errors for syntax error")
	}
	if len(result.Meshes) != 0 {
		t.Errorf("expected 0 meshes on error, got %d", len(result.Meshes))
	}
}

// TestE2ESingleSphere ensures a minimal source renders one mesh.
func TestE2ESingleSphere(t *testing.T) {
	app := newTestApp(t)
	result := app.Evaluate(`(sphere :center (vec3 1 0 0) :radius 2)`)

	if len(result.Errors) > 0 {
		for _, e := range result.Errors {
			t.Errorf("eval error: %s", e.Message)
		}
		t.FailNow()
	}
	if len(result.Meshes) != 1 {
		t.Fatalf("expected 1 mesh, got %d", len(result.Meshes))
	}
	if result.Meshes[0].Name != "Sphere" {
		t.Errorf("expected mesh name 'Sphere', got %q", result.Meshes[0].Name)
	}
}

func TestLoadSolidErrors(t *testing.T) {
	app := newTestApp(t)
	dir := t.TempDir()

	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
		return path
	}

	tests := []struct {
		name    string
		path    string
		wantErr string
	}{
		{"missing file", filepath.Join(dir, "none.json"), "no such file"},
		{"missing script", filepath.Join(dir, "none.vrep"), "no such file"},
		{"bad document", write("bad.json", `{"type": "Cone"}`), "Cone"},
		{"script error", write("bad.vrep", `(sphere :radius -1)`), "negative"},
		{"empty script", write("empty.vrep", ""), "empty"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := app.LoadSolid(tt.path)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestQueryUsesConfiguredMedia(t *testing.T) {
	app := newTestApp(t)
	s := solid.Must(solid.NewSphere(r3.Vec{}, 1))

	in := app.Query(s, r3.Vec{X: 0.5})
	if in.Name != "glass" || math.Abs(in.Epsilon-2.25) > 1e-12 {
		t.Errorf("inside medium = %v, want glass(2.25)", in)
	}
	out := app.Query(s, r3.Vec{X: 1.5})
	if out.Name != "air" || out.Epsilon != 1 {
		t.Errorf("outside medium = %v, want air(1)", out)
	}
}

func TestCheckReport(t *testing.T) {
	app := newTestApp(t)
	s, err := app.LoadSolid("examples/shape.json")
	if err != nil {
		t.Fatal(err)
	}
	r := app.Check(s)
	if r.Stats.Nodes != 9 {
		t.Errorf("expected 9 nodes, got %d", r.Stats.Nodes)
	}
	if len(r.Findings) != 0 {
		t.Errorf("expected no findings, got %v", r.Findings)
	}
	if !math.IsInf(r.Bounds.Max.Z, 1) {
		t.Errorf("expected unbounded z, got %v", r.Bounds)
	}
}

func TestSampleFillFraction(t *testing.T) {
	app := newTestApp(t)
	s := solid.Must(solid.NewSphere(r3.Vec{}, 2))

	m, err := app.Sample(context.Background(), s)
	if err != nil {
		t.Fatalf("Sample: %v", err)
	}
	if m.Nx != 20 || m.Ny != 20 || m.Nz != 20 {
		t.Fatalf("unexpected dims %dx%dx%d", m.Nx, m.Ny, m.Nz)
	}
	// A sphere inscribed in the sampling cube fills about π/6 of it.
	got := m.Fraction(app.cfg.Material.Foreground.Medium())
	if math.Abs(got-math.Pi/6) > 0.03 {
		t.Errorf("fill fraction = %.4f, want about %.4f", got, math.Pi/6)
	}
}

func TestWriteSTL(t *testing.T) {
	app := newTestApp(t)
	s, err := app.LoadSolid("examples/shape.json")
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "shape.stl")
	if err := app.WriteSTL(s, path); err != nil {
		t.Fatalf("WriteSTL: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("stl not written: %v", err)
	}

	// Round trip through the codec keeps the tree meshable.
	data, err := codec.Marshal(s)
	if err != nil {
		t.Fatal(err)
	}
	back, err := codec.Unmarshal(data)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := app.Mesh(back, "back"); err != nil {
		t.Fatalf("Mesh after round trip: %v", err)
	}
}
