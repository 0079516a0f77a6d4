package main

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// writeGradient writes a w×h gray PNG whose sample at (x, y) is y*w+x.
func writeGradient(t *testing.T, w, h int) string {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetGray(x, y, color.Gray{Y: uint8(y*w + x)})
		}
	}
	path := filepath.Join(t.TempDir(), "hm.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	return path
}

func runOK(t *testing.T, args ...string) string {
	t.Helper()
	var stdout, stderr bytes.Buffer
	if code := run(args, &stdout, &stderr); code != 0 {
		t.Fatalf("run(%v) = %d, stderr: %s", args, code, stderr.String())
	}
	return stdout.String()
}

func TestInfo(t *testing.T) {
	path := writeGradient(t, 3, 2)
	out := runOK(t, "info", "-width", "30", "-depth", "20", "-height", "5", path)

	for _, want := range []string{
		"Grid:      3 cols x 2 rows",
		"Samples:   min 0.0000  max 0.0196  mean 0.0098",
		"Size:      30 x 5 x 20",
		"Vertices:  6",
		"Indices:   7 (restart 6)",
		"Triangles: 4",
		"Buffer 0:  array 192 bytes (static)",
		"Buffer 1:  element 28 bytes (static)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("info output missing %q:\n%s", want, out)
		}
	}
}

func TestInfoQuadSize(t *testing.T) {
	path := writeGradient(t, 4, 2)
	out := runOK(t, "info", "-quad", "2.5", "-height", "1", path)
	if !strings.Contains(out, "Size:      10 x 1 x 5") {
		t.Errorf("info output:\n%s", out)
	}
}

func TestQuery(t *testing.T) {
	path := writeGradient(t, 3, 3)
	out := runOK(t, "query", "-width", "9", "-depth", "9", "-height", "255", path, "0", "0", "100", "-100")

	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2:\n%s", len(lines), out)
	}
	if want := "x=0 z=0 row=1 col=1 height=4"; lines[0] != want {
		t.Errorf("line 0 = %q, want %q", lines[0], want)
	}
	if want := "x=100 z=-100 row=0 col=2 height=2"; lines[1] != want {
		t.Errorf("line 1 = %q, want %q", lines[1], want)
	}
}

func TestQueryBadArgs(t *testing.T) {
	path := writeGradient(t, 2, 2)
	var stdout, stderr bytes.Buffer
	if code := run([]string{"query", path, "1"}, &stdout, &stderr); code == 0 {
		t.Error("odd coordinate count accepted")
	}
	if code := run([]string{"query", path, "a", "1"}, &stdout, &stderr); code == 0 {
		t.Error("non-numeric coordinate accepted")
	}
}

func TestDumpIndices(t *testing.T) {
	path := writeGradient(t, 2, 3)
	out := runOK(t, "dump", "-what", "indices", path)
	want := "2\n0\n3\n1\nrestart\n4\n2\n5\n3\nrestart\n"
	if out != want {
		t.Errorf("dump indices = %q, want %q", out, want)
	}
}

func TestDumpLimit(t *testing.T) {
	path := writeGradient(t, 4, 4)
	out := runOK(t, "dump", "-what", "normals", "-n", "3", path)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3:\n%s", len(lines), out)
	}
	if !strings.HasPrefix(lines[0], "(0,0) faces=2 ") || !strings.HasPrefix(lines[2], "(0,2) faces=3 ") {
		t.Errorf("unexpected normals dump:\n%s", out)
	}

	out = runOK(t, "dump", "-n", "2", path)
	if n := strings.Count(out, "\n"); n != 2 {
		t.Errorf("vertices dump has %d lines, want 2", n)
	}
}

func TestShadeFlat(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "flat.png")
	f, err := os.Create(src)
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(f, image.NewGray(image.Rect(0, 0, 4, 3))); err != nil {
		t.Fatal(err)
	}
	f.Close()

	dst := filepath.Join(dir, "shade.png")
	out := runOK(t, "shade", "-lat", "90", src, dst)
	if !strings.Contains(out, "(4x3)") {
		t.Errorf("shade output = %q", out)
	}

	rf, err := os.Open(dst)
	if err != nil {
		t.Fatal(err)
	}
	defer rf.Close()
	img, err := png.Decode(rf)
	if err != nil {
		t.Fatal(err)
	}
	gray, ok := img.(*image.Gray)
	if !ok {
		t.Fatalf("shade image is %T", img)
	}
	for _, p := range gray.Pix {
		if p != 255 {
			t.Fatalf("flat terrain under a zenith sun should be fully lit, got %d", p)
		}
	}
}

// A zero height flattens the terrain, so every normal must come out as up.
func TestShadeZeroHeight(t *testing.T) {
	src := writeGradient(t, 4, 3)
	dst := filepath.Join(t.TempDir(), "shade.png")
	runOK(t, "shade", "-lat", "90", "-height", "0", src, dst)

	rf, err := os.Open(dst)
	if err != nil {
		t.Fatal(err)
	}
	defer rf.Close()
	img, err := png.Decode(rf)
	if err != nil {
		t.Fatal(err)
	}
	gray, ok := img.(*image.Gray)
	if !ok {
		t.Fatalf("shade image is %T", img)
	}
	for i, p := range gray.Pix {
		if p != 255 {
			t.Fatalf("pixel %d = %d, want 255 for a zero-height terrain", i, p)
		}
	}
}

func TestErrors(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := run(nil, &stdout, &stderr); code != 1 {
		t.Errorf("no args exit code = %d, want 1", code)
	}
	if code := run([]string{"bogus"}, &stdout, &stderr); code != 1 {
		t.Errorf("unknown command exit code = %d, want 1", code)
	}

	stderr.Reset()
	missing := filepath.Join(t.TempDir(), "missing.png")
	if code := run([]string{"info", missing}, &stdout, &stderr); code != 1 {
		t.Errorf("missing file exit code = %d, want 1", code)
	}
	if !strings.Contains(stderr.String(), "error loading heightmap") {
		t.Errorf("stderr = %q", stderr.String())
	}

	stdout.Reset()
	if code := run([]string{"help"}, &stdout, &stderr); code != 0 || !strings.Contains(stdout.String(), "Commands:") {
		t.Errorf("help: code=%d out=%q", code, stdout.String())
	}
}
