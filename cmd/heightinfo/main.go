// heightinfo is a headless CLI for inspecting heightmap images as terrain.
package main

import (
	"flag"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"strconv"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/astria/internal/config"
	"github.com/Faultbox/astria/internal/engine/gpu/gputest"
	"github.com/Faultbox/astria/internal/engine/lighting"
	"github.com/Faultbox/astria/internal/engine/terrain"
	"github.com/Faultbox/astria/internal/logger"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		printUsage(stderr)
		return 1
	}

	command := args[0]
	args = args[1:]

	var err error
	switch command {
	case "info":
		err = cmdInfo(args, stdout)
	case "query", "q":
		err = cmdQuery(args, stdout)
	case "dump":
		err = cmdDump(args, stdout)
	case "shade":
		err = cmdShade(args, stdout)
	case "help", "-h", "--help":
		printUsage(stdout)
		return 0
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n", command)
		printUsage(stderr)
		return 1
	}

	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, `heightinfo - heightmap terrain inspector

Usage:
  heightinfo <command> [options] <image> [args]

Commands:
  info  <image>                  Show grid, mesh and buffer statistics
  query <image> <x> <z> [...]    Print the terrain height at world X/Z pairs
  dump  <image>                  Print vertices, normals or strip indices
  shade <image> <out.png>        Write a hillshade of the vertex normals

Size options (info, query):
  -width, -depth, -height        World extents (default from config)
  -quad <size>                   Size of one grid cell, overrides -width/-depth

Examples:
  heightinfo info data/heightmap.png
  heightinfo query -quad 2 -height 40 data/heightmap.png 0 0 12.5 -3
  heightinfo dump -what normals -n 10 data/heightmap.png
  heightinfo shade -lon 315 -lat 45 data/heightmap.png shade.png`)
}

// sizeFlags registers the terrain size options shared by several commands.
func sizeFlags(fs *flag.FlagSet) *config.TerrainConfig {
	tc := config.Default().Terrain
	fs.Func("width", "World width (X)", floatSetter(&tc.Width))
	fs.Func("depth", "World depth (Z)", floatSetter(&tc.Depth))
	fs.Func("height", "World height of a full-intensity sample", floatSetter(&tc.Height))
	fs.Func("quad", "Size of one grid cell in world units", func(s string) error {
		tc.SizeMode = config.SizeModeQuad
		return floatSetter(&tc.QuadSize)(s)
	})
	return &tc
}

func floatSetter(dst *float32) func(string) error {
	return func(s string) error {
		v, err := strconv.ParseFloat(s, 32)
		if err != nil {
			return err
		}
		*dst = float32(v)
		return nil
	}
}

func commonFlags(fs *flag.FlagSet) *bool {
	return fs.Bool("v", false, "Verbose logging")
}

// loadHeightmap initializes logging and loads path into a heightmap backed by
// a recording device, so buffer sizes can be reported without a GPU.
func loadHeightmap(path string, verbose bool, tc *config.TerrainConfig) (*terrain.HeightMap, *gputest.Device, error) {
	level := "warn"
	if verbose {
		level = "debug"
	}
	if err := logger.Init(level, ""); err != nil {
		return nil, nil, err
	}

	dev := gputest.NewDevice()
	hm := terrain.New(dev)
	if err := hm.Load(path); err != nil {
		return nil, nil, err
	}
	if tc != nil {
		tc.Apply(hm)
	}
	logger.Debug("terrain sized", zap.String("source", path), zap.Any("size", hm.Size()))
	return hm, dev, nil
}

func cmdInfo(args []string, w io.Writer) error {
	fs := flag.NewFlagSet("info", flag.ContinueOnError)
	verbose := commonFlags(fs)
	tc := sizeFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("usage: heightinfo info <image>")
	}

	hm, dev, err := loadHeightmap(fs.Arg(0), *verbose, tc)
	if err != nil {
		return err
	}
	defer hm.Release()

	mesh := hm.Mesh()
	lo, hi, mean := hm.Grid().Stats()

	size := hm.Size()
	b := hm.WorldBounds()
	fmt.Fprintf(w, "Heightmap: %s\n", hm.Source())
	fmt.Fprintf(w, "Grid:      %d cols x %d rows\n", hm.Cols(), hm.Rows())
	fmt.Fprintf(w, "Samples:   min %.4f  max %.4f  mean %.4f\n", lo, hi, mean)
	fmt.Fprintf(w, "Size:      %g x %g x %g\n", size.X(), size.Y(), size.Z())
	fmt.Fprintf(w, "Bounds:    (%g, %g, %g) - (%g, %g, %g)\n", b.Min.X(), b.Min.Y(), b.Min.Z(), b.Max.X(), b.Max.Y(), b.Max.Z())
	fmt.Fprintf(w, "Vertices:  %d\n", mesh.VertexCount())
	fmt.Fprintf(w, "Indices:   %d (restart %d)\n", hm.IndexCount(), terrain.RestartIndex(hm.Rows(), hm.Cols()))
	fmt.Fprintf(w, "Triangles: %d\n", 2*(hm.Rows()-1)*(hm.Cols()-1))
	for i, buf := range dev.Buffers {
		fmt.Fprintf(w, "Buffer %d:  %s %d bytes (%s)\n", i, buf.Target, len(buf.Uploaded), buf.Usage)
	}
	return nil
}

func cmdQuery(args []string, w io.Writer) error {
	fs := flag.NewFlagSet("query", flag.ContinueOnError)
	verbose := commonFlags(fs)
	tc := sizeFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 3 || (fs.NArg()-1)%2 != 0 {
		return fmt.Errorf("usage: heightinfo query <image> <x> <z> [<x> <z> ...]")
	}

	points := make([]mgl32.Vec3, 0, (fs.NArg()-1)/2)
	for k := 1; k < fs.NArg(); k += 2 {
		x, err := strconv.ParseFloat(fs.Arg(k), 32)
		if err != nil {
			return fmt.Errorf("invalid x %q: %w", fs.Arg(k), err)
		}
		z, err := strconv.ParseFloat(fs.Arg(k+1), 32)
		if err != nil {
			return fmt.Errorf("invalid z %q: %w", fs.Arg(k+1), err)
		}
		points = append(points, mgl32.Vec3{float32(x), 0, float32(z)})
	}

	hm, _, err := loadHeightmap(fs.Arg(0), *verbose, tc)
	if err != nil {
		return err
	}
	defer hm.Release()

	for _, p := range points {
		row, col := hm.CellAt(p)
		fmt.Fprintf(w, "x=%g z=%g row=%d col=%d height=%g\n", p.X(), p.Z(), row, col, hm.HeightAt(p))
	}
	return nil
}

func cmdDump(args []string, w io.Writer) error {
	fs := flag.NewFlagSet("dump", flag.ContinueOnError)
	verbose := commonFlags(fs)
	what := fs.String("what", "vertices", "vertices, normals or indices")
	limit := fs.Int("n", 0, "Limit output to N entries (0 = all)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("usage: heightinfo dump [-what vertices|normals|indices] [-n N] <image>")
	}

	hm, _, err := loadHeightmap(fs.Arg(0), *verbose, nil)
	if err != nil {
		return err
	}
	defer hm.Release()
	mesh := hm.Mesh()

	count := 0
	more := func() bool {
		count++
		return *limit <= 0 || count <= *limit
	}

	switch *what {
	case "vertices":
		for k, v := range mesh.Vertices() {
			if !more() {
				break
			}
			fmt.Fprintf(w, "%d (%d,%d) pos=(%.4f, %.4f, %.4f) uv=(%.4f, %.4f) n=(%.4f, %.4f, %.4f)\n",
				k, k/mesh.Cols, k%mesh.Cols,
				v.Position.X(), v.Position.Y(), v.Position.Z(),
				v.TexCoord.X(), v.TexCoord.Y(),
				v.Normal.X(), v.Normal.Y(), v.Normal.Z())
		}
	case "normals":
	rows:
		for i := 0; i < mesh.Rows; i++ {
			for j := 0; j < mesh.Cols; j++ {
				if !more() {
					break rows
				}
				refs := terrain.NormalContributions(i, j, mesh.Rows, mesh.Cols)
				n := mesh.Normals[i][j]
				fmt.Fprintf(w, "(%d,%d) faces=%d n=(%.4f, %.4f, %.4f)\n", i, j, len(refs), n.X(), n.Y(), n.Z())
			}
		}
	case "indices":
		restart := terrain.RestartIndex(mesh.Rows, mesh.Cols)
		for _, idx := range terrain.BuildStripIndices(mesh.Rows, mesh.Cols) {
			if !more() {
				break
			}
			if idx == restart {
				fmt.Fprintln(w, "restart")
				continue
			}
			fmt.Fprintln(w, idx)
		}
	default:
		return fmt.Errorf("unknown dump target %q", *what)
	}
	return nil
}

func cmdShade(args []string, w io.Writer) error {
	fs := flag.NewFlagSet("shade", flag.ContinueOnError)
	verbose := commonFlags(fs)
	tc := sizeFlags(fs)
	lon := fs.Float64("lon", 315, "Sun longitude in degrees")
	lat := fs.Float64("lat", 45, "Sun elevation in degrees")
	ambient := fs.Float64("ambient", 0.2, "Ambient term in [0, 1]")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 2 {
		return fmt.Errorf("usage: heightinfo shade [options] <image> <out.png>")
	}

	hm, _, err := loadHeightmap(fs.Arg(0), *verbose, tc)
	if err != nil {
		return err
	}
	defer hm.Release()

	img := hillshade(hm, lighting.SunDirection(float32(*lon), float32(*lat)), float32(*ambient))

	f, err := os.Create(fs.Arg(1))
	if err != nil {
		return err
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("encoding PNG: %w", err)
	}
	fmt.Fprintf(w, "wrote %s (%dx%d)\n", fs.Arg(1), img.Bounds().Dx(), img.Bounds().Dy())
	return nil
}

// hillshade lights every vertex normal, after the heightmap's normal scale,
// with a directional sun and returns one gray pixel per grid sample.
func hillshade(hm *terrain.HeightMap, toSun mgl32.Vec3, ambient float32) *image.Gray {
	mesh := hm.Mesh()
	img := image.NewGray(image.Rect(0, 0, mesh.Cols, mesh.Rows))
	nm := hm.NormalScaleMatrix()
	for i := 0; i < mesh.Rows; i++ {
		for j := 0; j < mesh.Cols; j++ {
			n := nm.Mul3x1(mesh.Normals[i][j]).Normalize()
			l := lighting.Lambert(n, toSun, ambient)
			img.SetGray(j, i, color.Gray{Y: uint8(mgl32.Clamp(l, 0, 1)*255 + 0.5)})
		}
	}
	return img
}
