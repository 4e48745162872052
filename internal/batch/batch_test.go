package batch

import (
	"encoding/json"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/webp"

	"scanline-renderer/internal/geom"
	"scanline-renderer/internal/mathutil"
	"scanline-renderer/internal/pipeline"
	"scanline-renderer/internal/scene"
	"scanline-renderer/internal/shade"
)

func cubeScene() *scene.Scene {
	m := scene.NewModel("cube")
	for _, z := range []float64{-0.5, 0.5} {
		for _, y := range []float64{-0.5, 0.5} {
			for _, x := range []float64{-0.5, 0.5} {
				m.Vertices = append(m.Vertices, geom.Vertex{x, y, z})
			}
		}
	}
	// Vertex i has x = bit 0, y = bit 1, z = bit 2. Faces wind outward.
	m.AddFace(0, 2, 3, 1)
	m.AddFace(4, 5, 7, 6)
	m.AddFace(0, 1, 5, 4)
	m.AddFace(2, 6, 7, 3)
	m.AddFace(0, 4, 6, 2)
	m.AddFace(1, 3, 7, 5)
	return &scene.Scene{
		Models:      []*scene.Model{m},
		PointLights: []shade.PointLight{{Position: mathutil.Vec3{0, 2, 2}, Color: mathutil.Splat(1)}},
	}
}

func testConfig(t *testing.T, frames int) Config {
	return Config{
		OutputDir:       t.TempDir(),
		Scene:           cubeScene(),
		Camera:          scene.DefaultCamera(),
		Setting:         pipeline.Setting{Algorithm: pipeline.ScanLineHZ, Cull: true, Clip: true},
		Shading:         shade.DefaultConfig(),
		Width:           40,
		Height:          30,
		Background:      color.NRGBA{A: 255},
		BackgroundDepth: 1.0,
		Upscale:         2,
		Frames:          frames,
		Workers:         3,
	}
}

func TestRunTurntable(t *testing.T) {
	cfg := testConfig(t, 8)
	results := Run(cfg)
	if len(results) != 8 {
		t.Fatalf("got %d results", len(results))
	}
	for i, r := range results {
		if !r.Success {
			t.Fatalf("frame %d failed: %s", i, r.Error)
		}
		if r.Frame != i || r.Stats.Rasterized == 0 {
			t.Errorf("frame %d: %+v", i, r)
		}
		// A cube seen from outside never shows more than three faces.
		if r.Stats.Culled < 3 {
			t.Errorf("frame %d culled %d faces, want at least 3", i, r.Stats.Culled)
		}
	}
	if results[2].Angle != 90 {
		t.Errorf("frame 2 angle = %v, want 90", results[2].Angle)
	}

	f, err := os.Open(filepath.Join(cfg.OutputDir, results[0].Image))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := webp.Decode(f)
	if err != nil {
		t.Fatalf("decode frame: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 80 || b.Dy() != 60 {
		t.Errorf("frame size = %v, want 80x60", b)
	}
}

func TestWriteManifest(t *testing.T) {
	cfg := testConfig(t, 2)
	cfg.Upscale = 1
	results := Run(cfg)
	results = append(results, Result{Frame: 2, Error: "boom"})

	path := filepath.Join(cfg.OutputDir, "manifest.json")
	if err := WriteManifest(path, cfg, results); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var entries []ManifestEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[1].Image != "frame_0001.webp" || entries[1].Algorithm != "scanline-hz" {
		t.Errorf("entry = %+v", entries[1])
	}
}
