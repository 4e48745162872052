package config

import (
	"image/color"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"scanline-renderer/internal/mathutil"
	"scanline-renderer/internal/pipeline"
	"scanline-renderer/internal/shade"
)

func TestResolveDefaults(t *testing.T) {
	var c Config
	c.Resolve(Flags{})

	if c.Width != 640 || c.Height != 480 || c.BackgroundDepth != 1.0 || c.Frames != 1 || c.Upscale != 1 {
		t.Errorf("canvas defaults = %dx%d depth %v frames %d upscale %d", c.Width, c.Height, c.BackgroundDepth, c.Frames, c.Upscale)
	}
	if c.Workers != runtime.NumCPU() {
		t.Errorf("Workers = %d", c.Workers)
	}
	if *c.Shading != shade.DefaultConfig() {
		t.Errorf("Shading = %+v", *c.Shading)
	}

	set, err := c.Setting()
	if err != nil {
		t.Fatal(err)
	}
	want := pipeline.Setting{Algorithm: pipeline.ScanLineZ, Cull: true, Clip: true}
	if set != want {
		t.Errorf("Setting = %+v, want %+v", set, want)
	}

	cam := c.SceneCamera()
	if cam.Position != (mathutil.Vec3{0, 0, 2}) || cam.Yaw != 180 || cam.FOV != 75 || cam.Near != 1 || cam.Far != 10 {
		t.Errorf("camera = %+v", cam)
	}
	if cam.Aspect != 640.0/480.0 {
		t.Errorf("Aspect = %v", cam.Aspect)
	}

	par, pts := c.SceneLights()
	if len(par) != 0 || len(pts) != 1 || pts[0].Position != (mathutil.Vec3{0, 2, 2}) {
		t.Errorf("lights = %+v %+v", par, pts)
	}

	bg, err := c.BackgroundNRGBA()
	if err != nil || bg != (color.NRGBA{A: 255}) {
		t.Errorf("background = %v, %v", bg, err)
	}
}

func TestFlagsOverride(t *testing.T) {
	c := Config{Width: 100, Algorithm: "interval", Cull: ptr(true)}
	c.Resolve(Flags{Width: 320, Algorithm: "scanline-bvh", NoCull: true, ShowBoxes: true, Frames: 12})

	if c.Width != 320 || c.Frames != 12 {
		t.Errorf("Width %d Frames %d", c.Width, c.Frames)
	}
	set, err := c.Setting()
	if err != nil {
		t.Fatal(err)
	}
	if set.Algorithm != pipeline.ScanLineHierarchy || set.Cull || !set.Clip || !set.ShowBoxes {
		t.Errorf("Setting = %+v", set)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	data := `{
  "model": "models/bunny.obj",
  "algorithm": "scanline-hz",
  "clip": false,
  "background_color": "#102030",
  "camera": {"position": [0, 1, 3], "yaw": 0, "fov": 60},
  "lights": [{"direction": [0, -1, 0], "color": [1, 0.5, 0.5]}],
  "shading": {"ka": 0.2, "kd": 0.6, "ks": 0.2, "ps": 8}
}`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	c, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(dir, "models", "bunny.obj"); c.Model != want {
		t.Errorf("Model = %q, want %q", c.Model, want)
	}
	c.Resolve(Flags{})

	set, err := c.Setting()
	if err != nil {
		t.Fatal(err)
	}
	if set.Algorithm != pipeline.ScanLineHZ || set.Clip || !set.Cull {
		t.Errorf("Setting = %+v", set)
	}
	cam := c.SceneCamera()
	if cam.Yaw != 0 || cam.FOV != 60 || cam.Position != (mathutil.Vec3{0, 1, 3}) {
		t.Errorf("camera = %+v", cam)
	}
	par, pts := c.SceneLights()
	if len(par) != 1 || len(pts) != 0 {
		t.Errorf("lights = %+v %+v", par, pts)
	}
	if c.Shading.Ps != 8 {
		t.Errorf("Shading = %+v", *c.Shading)
	}
	if bg, _ := c.BackgroundNRGBA(); bg != (color.NRGBA{R: 0x10, G: 0x20, B: 0x30, A: 255}) {
		t.Errorf("background = %v", bg)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Error("missing file accepted")
	}
	path := filepath.Join(t.TempDir(), "bad.json")
	os.WriteFile(path, []byte("{"), 0o644)
	if _, err := Load(path); err == nil {
		t.Error("malformed file accepted")
	}

	c := Config{Algorithm: "bogus"}
	if _, err := c.Setting(); err == nil {
		t.Error("unknown algorithm accepted")
	}
	c.BackgroundColor = "#12"
	if _, err := c.BackgroundNRGBA(); err == nil {
		t.Error("short colour accepted")
	}
}

func TestDepthViewNeedsDepthBuffer(t *testing.T) {
	tests := []struct {
		algorithm string
		ok        bool
	}{
		{"scanline-z", true},
		{"scanline-hz", true},
		{"scanline-bvh", true},
		{"interval", false},
	}
	for _, tt := range tests {
		t.Run(tt.algorithm, func(t *testing.T) {
			c := Config{Algorithm: tt.algorithm, ShowDepth: true}
			set, err := c.Setting()
			if tt.ok && (err != nil || !set.ShowDepth) {
				t.Errorf("Setting = %+v, %v", set, err)
			}
			if !tt.ok && err == nil {
				t.Error("depth view with interval accepted")
			}
		})
	}
	c := Config{Algorithm: "interval"}
	if _, err := c.Setting(); err != nil {
		t.Errorf("interval without depth view: %v", err)
	}
}
