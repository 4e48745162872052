// Package obj reads Wavefront OBJ meshes. Only geometry is kept: vertex
// positions from "v" records, faces from "f" records and polylines from "l"
// records. Texture and normal references are accepted and ignored.
package obj

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"scanline-renderer/internal/geom"
	"scanline-renderer/internal/mathutil"
	"scanline-renderer/internal/scene"
)

// Loading fails with exactly one of these, wrapped with detail.
var (
	ErrOpen  = errors.New("cannot open file")
	ErrRead  = errors.New("cannot read file")
	ErrClose = errors.New("cannot close file")
	ErrParse = errors.New("malformed obj")
)

// NormalizedExtent is the sum of the three box extents of a loaded model.
const NormalizedExtent = 6.0

// Load reads an OBJ file, centres it on the mean of its vertices and scales
// it so that its box extents sum to NormalizedExtent.
func Load(path string) (m *scene.Model, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("obj: open %s: %w: %w", path, ErrOpen, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			m, err = nil, fmt.Errorf("obj: close %s: %w: %w", path, ErrClose, cerr)
		}
	}()

	m, err = Parse(f, filepath.Base(path))
	if err != nil {
		return nil, fmt.Errorf("obj: load %s: %w", path, err)
	}
	Normalize(m)
	return m, nil
}

// Parse reads OBJ records from r. Vertex indices are resolved to zero-based
// indices; negative indices count back from the latest vertex.
func Parse(r io.Reader, name string) (*scene.Model, error) {
	m := scene.NewModel(name)
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var face []uint32
	line := 0
	for sc.Scan() {
		line++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}
		switch fields[0] {
		case "v":
			v, err := parseVertex(fields[1:])
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: %w", ErrParse, line, err)
			}
			m.Vertices = append(m.Vertices, v)
		case "f", "l":
			face = face[:0]
			for _, ref := range fields[1:] {
				idx, err := resolve(ref, len(m.Vertices))
				if err != nil {
					return nil, fmt.Errorf("%w: line %d: %w", ErrParse, line, err)
				}
				face = append(face, idx)
			}
			if err := addFace(m, fields[0], face); err != nil {
				return nil, fmt.Errorf("%w: line %d: %w", ErrParse, line, err)
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRead, err)
	}
	for _, idx := range m.Indices {
		if int(idx) >= len(m.Vertices) {
			return nil, fmt.Errorf("%w: vertex index %d out of range (%d vertices)", ErrParse, idx+1, len(m.Vertices))
		}
	}
	return m, nil
}

func parseVertex(args []string) (geom.Vertex, error) {
	var v geom.Vertex
	if len(args) < 3 {
		return v, fmt.Errorf("vertex needs 3 coordinates, got %d", len(args))
	}
	for i := range 3 {
		f, err := strconv.ParseFloat(args[i], 64)
		if err != nil {
			return v, err
		}
		v[i] = f
	}
	return v, nil
}

// resolve turns one "v", "v/vt", "v//vn" or "v/vt/vn" reference into a
// zero-based vertex index.
func resolve(ref string, count int) (uint32, error) {
	head, _, _ := strings.Cut(ref, "/")
	i, err := strconv.Atoi(head)
	switch {
	case err != nil:
		return 0, fmt.Errorf("bad vertex reference %q", ref)
	case i == 0:
		return 0, errors.New("vertex index 0")
	case i < 0:
		i += count
		if i < 0 {
			return 0, fmt.Errorf("relative vertex reference %q before first vertex", ref)
		}
		return uint32(i), nil
	}
	return uint32(i - 1), nil
}

func addFace(m *scene.Model, kind string, idx []uint32) error {
	if kind == "f" {
		if len(idx) == 0 {
			return errors.New("face without vertices")
		}
		m.AddFace(idx...)
		return nil
	}
	if len(idx) < 2 {
		return errors.New("line needs at least 2 vertices")
	}
	for k := 0; k+1 < len(idx); k++ {
		m.AddFace(idx[k], idx[k+1])
	}
	return nil
}

// Normalize moves the mean of the vertices to the origin and scales the
// model so that its box extents sum to NormalizedExtent. Models with no
// extent are only moved.
func Normalize(m *scene.Model) {
	if len(m.Vertices) == 0 {
		return
	}
	var center mathutil.Vec3
	for _, v := range m.Vertices {
		center = center.Add(v)
	}
	center = center.Scale(1 / float64(len(m.Vertices)))

	ext := m.Bounds().Max.Sub(m.Bounds().Min)
	scale := 1.0
	if sum := ext[0] + ext[1] + ext[2]; sum > 0 {
		scale = NormalizedExtent / sum
	}
	for i, v := range m.Vertices {
		m.Vertices[i] = v.Sub(center).Scale(scale)
	}
}
