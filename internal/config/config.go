package config

import (
	"encoding/json"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"scanline-renderer/internal/mathutil"
	"scanline-renderer/internal/pipeline"
	"scanline-renderer/internal/scene"
	"scanline-renderer/internal/shade"
)

// Config holds the model, output and render settings of a run.
type Config struct {
	// Paths
	Model      string `json:"model"`
	OutputDir  string `json:"output_dir"`
	Background string `json:"background_image"`

	// Canvas
	Width           int     `json:"width"`
	Height          int     `json:"height"`
	BackgroundColor string  `json:"background_color"` // "#rrggbb"
	BackgroundDepth float64 `json:"background_depth"`
	Upscale         int     `json:"upscale"`

	// Render settings
	Algorithm   string `json:"algorithm"`
	Cull        *bool  `json:"cull"`
	Clip        *bool  `json:"clip"`
	Wireframe   bool   `json:"wireframe"`
	ShowNormals bool   `json:"show_normals"`
	ShowBoxes   bool   `json:"show_boxes"`
	ShowDepth   bool   `json:"show_depth"`

	Camera  CameraConfig  `json:"camera"`
	Lights  []LightConfig `json:"lights"`
	Shading *shade.Config `json:"shading"`

	// Turntable
	Frames  int `json:"frames"`
	Workers int `json:"workers"`
}

// CameraConfig places the camera. Zero fields take the defaults of
// scene.DefaultCamera; Yaw and Pitch are taken as given.
type CameraConfig struct {
	Position *[3]float64 `json:"position"`
	Yaw      *float64    `json:"yaw"`
	Pitch    float64     `json:"pitch"`
	FOV      float64     `json:"fov"`
	Near     float64     `json:"near"`
	Far      float64     `json:"far"`
}

// LightConfig is a point light when Position is set, otherwise a parallel
// light shining along Direction.
type LightConfig struct {
	Position  *[3]float64 `json:"position"`
	Direction *[3]float64 `json:"direction"`
	Color     [3]float64  `json:"color"`
}

// Load reads a JSON config file and returns Config.
// Fields not set in the file keep their zero values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	// Paths in the file are relative to the file.
	dir := filepath.Dir(path)
	for _, p := range []*string{&cfg.Model, &cfg.OutputDir, &cfg.Background} {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(dir, *p)
		}
	}
	return cfg, nil
}

// Flags holds CLI flag values that override config file settings. Zero
// values leave the config untouched; the boolean switches only turn
// features on, except NoCull and NoClip.
type Flags struct {
	Model      string
	OutputDir  string
	Background string
	Algorithm  string
	Width      int
	Height     int
	Frames     int
	Workers    int
	Upscale    int

	NoCull      bool
	NoClip      bool
	Wireframe   bool
	ShowNormals bool
	ShowBoxes   bool
	ShowDepth   bool
}

// Resolve applies flags and fills in defaults for everything still unset.
func (c *Config) Resolve(flags Flags) {
	// CLI flags override config file
	if flags.Model != "" {
		c.Model = flags.Model
	}
	if flags.OutputDir != "" {
		c.OutputDir = flags.OutputDir
	}
	if flags.Background != "" {
		c.Background = flags.Background
	}
	if flags.Algorithm != "" {
		c.Algorithm = flags.Algorithm
	}
	if flags.Width > 0 {
		c.Width = flags.Width
	}
	if flags.Height > 0 {
		c.Height = flags.Height
	}
	if flags.Frames > 0 {
		c.Frames = flags.Frames
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}
	if flags.Upscale > 0 {
		c.Upscale = flags.Upscale
	}
	if flags.NoCull {
		c.Cull = ptr(false)
	}
	if flags.NoClip {
		c.Clip = ptr(false)
	}
	c.Wireframe = c.Wireframe || flags.Wireframe
	c.ShowNormals = c.ShowNormals || flags.ShowNormals
	c.ShowBoxes = c.ShowBoxes || flags.ShowBoxes
	c.ShowDepth = c.ShowDepth || flags.ShowDepth

	// Defaults
	if c.OutputDir == "" {
		c.OutputDir = "renders"
	}
	if c.Width <= 0 {
		c.Width = 640
	}
	if c.Height <= 0 {
		c.Height = 480
	}
	if c.BackgroundColor == "" {
		c.BackgroundColor = "#000000"
	}
	if c.BackgroundDepth == 0 {
		c.BackgroundDepth = 1.0
	}
	if c.Upscale <= 0 {
		c.Upscale = 1
	}
	if c.Algorithm == "" {
		c.Algorithm = pipeline.ScanLineZ.String()
	}
	if c.Cull == nil {
		c.Cull = ptr(true)
	}
	if c.Clip == nil {
		c.Clip = ptr(true)
	}
	if len(c.Lights) == 0 {
		c.Lights = []LightConfig{{Position: &[3]float64{0, 2, 2}, Color: [3]float64{1, 1, 1}}}
	}
	if c.Shading == nil {
		s := shade.DefaultConfig()
		c.Shading = &s
	}
	if c.Frames <= 0 {
		c.Frames = 1
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
}

func ptr[T any](v T) *T { return &v }

// Setting converts the render switches for the pipeline.
func (c *Config) Setting() (pipeline.Setting, error) {
	alg, err := pipeline.ParseAlgorithm(c.Algorithm)
	if err != nil {
		return pipeline.Setting{}, fmt.Errorf("config: %w", err)
	}
	if c.ShowDepth && alg == pipeline.Interval {
		return pipeline.Setting{}, fmt.Errorf("config: depth view needs a depth-buffered algorithm, not %s", alg)
	}
	return pipeline.Setting{
		Algorithm:   alg,
		Cull:        c.Cull == nil || *c.Cull,
		Clip:        c.Clip == nil || *c.Clip,
		Wireframe:   c.Wireframe,
		ShowNormals: c.ShowNormals,
		ShowBoxes:   c.ShowBoxes,
		ShowDepth:   c.ShowDepth,
	}, nil
}

// SceneCamera returns the configured camera for the canvas aspect ratio.
func (c *Config) SceneCamera() scene.Camera {
	cam := scene.DefaultCamera()
	cc := c.Camera
	if cc.Position != nil {
		cam.Position = mathutil.Vec3(*cc.Position)
	}
	if cc.Yaw != nil {
		cam.Yaw = *cc.Yaw
	}
	cam.Pitch = cc.Pitch
	if cc.FOV > 0 {
		cam.FOV = cc.FOV
	}
	if cc.Near > 0 {
		cam.Near = cc.Near
	}
	if cc.Far > cam.Near {
		cam.Far = cc.Far
	}
	if c.Height > 0 {
		cam.Aspect = float64(c.Width) / float64(c.Height)
	}
	return cam
}

// SceneLights splits the configured lights by kind.
func (c *Config) SceneLights() ([]shade.ParallelLight, []shade.PointLight) {
	var par []shade.ParallelLight
	var pts []shade.PointLight
	for _, l := range c.Lights {
		col := mathutil.Vec3(l.Color)
		switch {
		case l.Position != nil:
			pts = append(pts, shade.PointLight{Position: mathutil.Vec3(*l.Position), Color: col})
		case l.Direction != nil:
			par = append(par, shade.ParallelLight{Direction: mathutil.Vec3(*l.Direction), Color: col})
		}
	}
	return par, pts
}

// BackgroundNRGBA parses BackgroundColor.
func (c *Config) BackgroundNRGBA() (color.NRGBA, error) {
	s := strings.TrimPrefix(c.BackgroundColor, "#")
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil || len(s) != 6 {
		return color.NRGBA{}, fmt.Errorf("config: bad background colour %q", c.BackgroundColor)
	}
	return color.NRGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, nil
}
