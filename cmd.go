package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/chazu/vrep/pkg/codec"
	"github.com/chazu/vrep/pkg/config"
	"github.com/chazu/vrep/pkg/engine"
	"github.com/chazu/vrep/pkg/solid"
)

// invalidInputError marks input that was read but rejected.
type invalidInputError struct {
	err error
}

func (e *invalidInputError) Error() string { return e.err.Error() }
func (e *invalidInputError) Unwrap() error { return e.err }

// rootOptions holds the persistent flags.
type rootOptions struct {
	configPath string
	verbose    bool
	app        *App
}

// newRootCmd builds the command tree. Output goes to the command's out
// writer so tests can capture it.
func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "vrep",
		Short:         "Build, inspect and sample CSG volume representations",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Default()
			if opts.configPath != "" {
				var err error
				if cfg, err = config.Load(opts.configPath); err != nil {
					return err
				}
			}
			level := cfg.Level()
			if opts.verbose {
				level = slog.LevelDebug
			}
			logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
			opts.app = NewApp(cfg, logger)
			return nil
		},
	}
	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "YAML or TOML config file")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		newEncodeCmd(opts),
		newCheckCmd(opts),
		newQueryCmd(opts),
		newMeshCmd(opts),
		newSampleCmd(opts),
	)
	return root
}

// load reads the solid named by path, marking rejected input.
func (o *rootOptions) load(path string) (solid.Solid, error) {
	s, err := o.app.LoadSolid(path)
	if err == nil {
		return s, nil
	}
	var evalErr engine.EvalError
	if errors.As(err, &evalErr) {
		return nil, &invalidInputError{err: err}
	}
	return nil, err
}

func newEncodeCmd(opts *rootOptions) *cobra.Command {
	var output string
	var yamlOut bool
	cmd := &cobra.Command{
		Use:   "encode <input>",
		Short: "Encode a scene script or document as a canonical document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.load(args[0])
			if err != nil {
				return err
			}
			if output != "" {
				return codec.Save(output, s)
			}
			format := codec.JSON
			if yamlOut {
				format = codec.YAML
			}
			data, err := codec.MarshalFormat(s, format)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to file, format chosen by extension")
	cmd.Flags().BoolVar(&yamlOut, "yaml", false, "write YAML to stdout instead of JSON")
	return cmd
}

func newCheckCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check <input>",
		Short: "Decode a solid and report its structure and lint findings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.load(args[0])
			if err != nil {
				return err
			}
			r := opts.app.Check(s)
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "nodes: %d\ndepth: %d\n", r.Stats.Nodes, r.Stats.Depth)
			for _, k := range solid.Kinds {
				if n := r.Stats.ByKind[k]; n > 0 {
					fmt.Fprintf(w, "  %s: %d\n", k, n)
				}
			}
			fmt.Fprintf(w, "bounds: %v .. %v\n", fmtVec(r.Bounds.Min), fmtVec(r.Bounds.Max))
			for _, f := range r.Findings {
				fmt.Fprintf(w, "warning: %s\n", f)
			}
			return nil
		},
	}
}

func newQueryCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "query <input> <x> <y> <z>",
		Short: "Report whether a point is inside the solid and the medium there",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			var p [3]float64
			for i, a := range args[1:] {
				v, err := strconv.ParseFloat(a, 64)
				if err != nil {
					return fmt.Errorf("coordinate %d: %w", i, err)
				}
				p[i] = v
			}
			s, err := opts.load(args[0])
			if err != nil {
				return err
			}
			pt := r3.Vec{X: p[0], Y: p[1], Z: p[2]}
			fmt.Fprintf(cmd.OutOrStdout(), "inside: %t\nmedium: %s\n", s.IsInside(pt), opts.app.Query(s, pt))
			return nil
		},
	}
}

func newMeshCmd(opts *rootOptions) *cobra.Command {
	var output string
	var jsonOut bool
	cmd := &cobra.Command{
		Use:   "mesh <input>",
		Short: "Tessellate a solid and write an STL file or JSON mesh",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.load(args[0])
			if err != nil {
				return err
			}
			if jsonOut {
				m, err := opts.app.Mesh(s, args[0])
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), MeshData{
					Vertices: m.Vertices, Normals: m.Normals, Indices: m.Indices, Name: m.Name,
				})
			}
			if output == "" {
				return errors.New("mesh: --output is required unless --json is set")
			}
			return opts.app.WriteSTL(s, output)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "STL file to write")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "write the mesh as JSON to stdout")
	return cmd
}

func newSampleCmd(opts *rootOptions) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "sample <input>",
		Short: "Sample the material function over the configured grid",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.load(args[0])
			if err != nil {
				return err
			}
			m, err := opts.app.Sample(cmd.Context(), s)
			if err != nil {
				return err
			}
			fg := opts.app.cfg.Material.Foreground.Medium()
			fmt.Fprintf(cmd.OutOrStdout(), "grid: %dx%dx%d\nfill: %.4f %s\n", m.Nx, m.Ny, m.Nz, m.Fraction(fg), fg)
			if output == "" {
				return nil
			}
			f, err := os.Create(output)
			if err != nil {
				return err
			}
			if err := writeJSON(f, m); err != nil {
				f.Close()
				return err
			}
			return f.Close()
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the permittivity map as JSON")
	return cmd
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	return enc.Encode(v)
}

func fmtVec(v r3.Vec) string {
	return fmt.Sprintf("(%g, %g, %g)", v.X, v.Y, v.Z)
}
