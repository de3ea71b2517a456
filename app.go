package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/chazu/vrep/pkg/codec"
	"github.com/chazu/vrep/pkg/config"
	"github.com/chazu/vrep/pkg/engine"
	"github.com/chazu/vrep/pkg/kernel"
	"github.com/chazu/vrep/pkg/kernel/sdfx"
	"github.com/chazu/vrep/pkg/material"
	"github.com/chazu/vrep/pkg/solid"
	"github.com/chazu/vrep/pkg/tessellate"
)

// scriptExts are the file extensions evaluated as scene scripts rather
// than decoded as documents.
var scriptExts = map[string]bool{".vrep": true, ".lisp": true}

// App wires the engine, codec, kernel and material layers together. The
// CLI commands are thin wrappers around its methods.
type App struct {
	engine *engine.Engine
	kernel kernel.Kernel
	cfg    *config.Config
	log    *slog.Logger
}

// MeshData is the JSON-serializable mesh format.
type MeshData struct {
	Vertices []float32 `json:"vertices"`
	Normals  []float32 `json:"normals"`
	Indices  []uint32  `json:"indices"`
	Name     string    `json:"name"`
}

// EvalErrorData is a JSON-serializable eval error.
type EvalErrorData struct {
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Message string `json:"message"`
}

// EvalResult is the full result of evaluating a scene script.
type EvalResult struct {
	Document codec.Document  `json:"document,omitempty"`
	Meshes   []MeshData      `json:"meshes"`
	Errors   []EvalErrorData `json:"errors"`
	Warnings []EvalErrorData `json:"warnings"`
}

// NewApp creates a new App with an engine and the sdfx kernel. A nil cfg
// uses config.Default and a nil logger uses slog.Default.
func NewApp(cfg *config.Config, logger *slog.Logger) *App {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &App{
		engine: engine.NewEngine(),
		kernel: sdfx.NewWithCells(cfg.Mesh.Cells),
		cfg:    cfg,
		log:    logger,
	}
}

func (a *App) tessellateOptions(name string) tessellate.Options {
	return tessellate.Options{ClipExtent: a.cfg.Mesh.ClipExtent, Name: name}
}

// Evaluate takes scene source and returns the encoded document, the mesh
// and any errors. Eval errors are reported in the result, never returned.
func (a *App) Evaluate(source string) EvalResult {
	result := EvalResult{
		Meshes:   []MeshData{},
		Errors:   []EvalErrorData{},
		Warnings: []EvalErrorData{},
	}

	// Step 1: Evaluate the script into a solid.
	s, evalErrs, err := a.engine.Evaluate(source)
	if err != nil {
		// Fatal error (panic, timeout, etc.)
		a.log.Error("evaluate fatal error", "err", err)
		result.Errors = append(result.Errors, EvalErrorData{Message: err.Error()})
		return result
	}

	// Step 2: Convert eval errors.
	if len(evalErrs) > 0 {
		for _, e := range evalErrs {
			result.Errors = append(result.Errors, EvalErrorData{
				Line:    e.Line,
				Col:     e.Col,
				Message: e.Message,
			})
		}
		return result
	}
	if s == nil {
		return result
	}

	result.Document = codec.Encode(s)
	for _, f := range solid.Lint(s) {
		result.Warnings = append(result.Warnings, EvalErrorData{Message: f.String()})
	}

	// Step 3: Tessellate the solid into a triangle mesh.
	mesh, err := tessellate.Tessellate(s, a.kernel, a.tessellateOptions(s.Kind().String()))
	if errors.Is(err, tessellate.ErrEmpty) {
		result.Warnings = append(result.Warnings, EvalErrorData{Message: err.Error()})
		return result
	}
	if err != nil {
		a.log.Error("tessellate error", "err", err)
		result.Errors = append(result.Errors, EvalErrorData{
			Message: "tessellation failed: " + err.Error(),
		})
		return result
	}

	result.Meshes = append(result.Meshes, MeshData{
		Vertices: mesh.Vertices,
		Normals:  mesh.Normals,
		Indices:  mesh.Indices,
		Name:     mesh.Name,
	})
	return result
}

// LoadSolid reads a solid from path. Scene scripts (.vrep, .lisp) are
// evaluated; everything else is decoded as a JSON or YAML document.
func (a *App) LoadSolid(path string) (solid.Solid, error) {
	if !scriptExts[strings.ToLower(filepath.Ext(path))] {
		s, err := codec.Load(path)
		if err != nil {
			return nil, err
		}
		a.log.Debug("decoded document", "path", path, "kind", s.Kind())
		return s, nil
	}

	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	s, evalErrs, err := a.engine.Evaluate(string(src))
	if err != nil {
		return nil, fmt.Errorf("evaluate %s: %w", path, err)
	}
	if len(evalErrs) > 0 {
		errs := make([]error, len(evalErrs))
		for i, e := range evalErrs {
			errs[i] = e
		}
		return nil, fmt.Errorf("evaluate %s: %w", path, errors.Join(errs...))
	}
	if s == nil {
		return nil, fmt.Errorf("evaluate %s: script is empty", path)
	}
	a.log.Debug("evaluated script", "path", path, "kind", s.Kind())
	return s, nil
}

// Report summarizes a solid for the check command.
type Report struct {
	Stats    solid.TreeStats
	Bounds   r3.Box
	Findings []solid.Finding
}

// Check computes statistics and lint findings for s.
func (a *App) Check(s solid.Solid) Report {
	r := Report{Stats: solid.Stats(s), Bounds: s.Bounds(), Findings: solid.Lint(s)}
	for _, f := range r.Findings {
		a.log.Warn("lint", "path", f.Path, "kind", f.Kind, "msg", f.Message)
	}
	return r
}

// MaterialFunction returns the configured material function for s.
func (a *App) MaterialFunction(s solid.Solid) material.Func {
	return material.Function(s,
		a.cfg.Material.Foreground.Medium(),
		a.cfg.Material.Background.Medium())
}

// Query returns the medium at p.
func (a *App) Query(s solid.Solid, p r3.Vec) material.Medium {
	return a.MaterialFunction(s)(p)
}

// Mesh tessellates s.
func (a *App) Mesh(s solid.Solid, name string) (*kernel.Mesh, error) {
	return tessellate.Tessellate(s, a.kernel, a.tessellateOptions(name))
}

// WriteSTL tessellates s and writes it to path.
func (a *App) WriteSTL(s solid.Solid, path string) error {
	if err := tessellate.WriteSTL(s, a.kernel, path, a.tessellateOptions(filepath.Base(path))); err != nil {
		return err
	}
	a.log.Info("wrote stl", "path", path)
	return nil
}

// Sample evaluates the material function of s over the configured grid.
func (a *App) Sample(ctx context.Context, s solid.Solid) (*material.Map, error) {
	g := a.cfg.Sample.Grid()
	nx, ny, nz := g.Dims()
	a.log.Debug("sampling", "nx", nx, "ny", ny, "nz", nz, "workers", a.cfg.Sample.Workers)
	return material.Sample(ctx, a.MaterialFunction(s), g, a.cfg.Sample.Workers)
}
