package pipeline

import (
	"bytes"
	"image"
	"image/color"
	"log/slog"
	"slices"
	"strings"
	"testing"

	"scanline-renderer/internal/buffer"
	"scanline-renderer/internal/geom"
	"scanline-renderer/internal/mathutil"
	"scanline-renderer/internal/raster"
	"scanline-renderer/internal/scene"
	"scanline-renderer/internal/shade"
)

const width, height = 64, 48

var bg = color.NRGBA{A: 255}

func newContext() *Context {
	frame := buffer.NewFrameBuffer(width, height)
	depth := buffer.NewDepthBuffer(width, height, 1.0)
	return NewContext(raster.NewCanvas(frame, depth))
}

// quad returns a square facing +Z, centred on (x, y, z).
func quad(x, y, z, half float64) *scene.Model {
	m := scene.NewModel("quad")
	m.Vertices = []geom.Vertex{
		{x - half, y - half, z}, {x + half, y - half, z},
		{x + half, y + half, z}, {x - half, y + half, z},
	}
	m.AddFace(0, 1, 2, 3)
	return m
}

func lit(models ...*scene.Model) *scene.Scene {
	return &scene.Scene{
		Models:      models,
		PointLights: []shade.PointLight{{Position: mathutil.Vec3{0, 2, 2}, Color: mathutil.Splat(1)}},
	}
}

func render(t *testing.T, set Setting, sc *scene.Scene) (*Context, Stats) {
	t.Helper()
	ctx := newContext()
	cam := scene.DefaultCamera()
	ctx.BeginFrame(bg)
	return ctx, ctx.Render(set, shade.DefaultConfig(), &cam, sc)
}

func TestParseAlgorithm(t *testing.T) {
	for _, a := range []Algorithm{ScanLineZ, ScanLineHZ, ScanLineHierarchy, Interval} {
		got, err := ParseAlgorithm(a.String())
		if err != nil || got != a {
			t.Errorf("ParseAlgorithm(%q) = %v, %v", a.String(), got, err)
		}
	}
	if _, err := ParseAlgorithm("raytrace"); err == nil {
		t.Error("unknown algorithm accepted")
	}
	if s := Algorithm(42).String(); s != "Algorithm(42)" {
		t.Errorf("String() = %q", s)
	}
}

func TestRenderSingleQuad(t *testing.T) {
	ctx, st := render(t, Setting{Cull: true, Clip: true}, lit(quad(0, 0, 0, 0.5)))
	if st.Polygons != 1 || st.Rasterized != 1 || st.Culled != 0 || st.Clipped != 0 {
		t.Fatalf("stats = %+v", st)
	}
	if got := ctx.Canvas.Frame.At(width/2, height/2); got == bg {
		t.Error("centre pixel not drawn")
	}
	if got := ctx.Canvas.Frame.At(0, 0); got != bg {
		t.Errorf("corner pixel = %v, want background", got)
	}
	if z := ctx.Canvas.Depth.At(width/2, height/2); !(z > -1 && z < 1) {
		t.Errorf("centre depth = %v, want inside (-1, 1)", z)
	}
}

func TestCullAndClip(t *testing.T) {
	back := quad(0, 0, 0, 0.5)
	back.Rotate = mathutil.Vec3{0, 3.14159, 0}
	aside := quad(30, 0, 0, 0.5)
	behind := quad(0, 0, 3, 0.5)

	_, st := render(t, Setting{Cull: true, Clip: true}, lit(back, aside, behind))
	if st.Polygons != 3 || st.Culled != 1 || st.Clipped != 2 || st.Rasterized != 0 {
		t.Errorf("stats = %+v, want 1 culled and 2 clipped of 3", st)
	}

	_, st = render(t, Setting{}, lit(back))
	if st.Culled != 0 || st.Rasterized != 1 {
		t.Errorf("culling off: stats = %+v", st)
	}
}

func TestAlgorithmsAgree(t *testing.T) {
	sc := lit(quad(0, 0, 0, 0.5), quad(0.3, 0.2, -1, 0.8), quad(-0.6, -0.4, 0.5, 0.2))
	ref, _ := render(t, Setting{Algorithm: ScanLineZ, Cull: true, Clip: true}, sc)
	for _, a := range []Algorithm{ScanLineHZ, ScanLineHierarchy, Interval} {
		t.Run(a.String(), func(t *testing.T) {
			ctx, st := render(t, Setting{Algorithm: a, Cull: true, Clip: true}, sc)
			if !slices.Equal(ref.Canvas.Frame.Pix, ctx.Canvas.Frame.Pix) {
				t.Error("image differs from scanline-z")
			}
			if st.Rasterized == 0 {
				t.Errorf("stats = %+v", st)
			}
		})
	}
}

func hasPixel(fb *buffer.FrameBuffer, c color.NRGBA) bool {
	for y := 0; y < fb.Height; y++ {
		for x := 0; x < fb.Width; x++ {
			if fb.At(x, y) == c {
				return true
			}
		}
	}
	return false
}

func TestOverlays(t *testing.T) {
	sc := lit(quad(0, 0, 0, 0.5))

	ctx, _ := render(t, Setting{Algorithm: ScanLineHierarchy, ShowBoxes: true}, sc)
	if !hasPixel(ctx.Canvas.Frame, boxColor) {
		t.Error("no bounding box outline drawn")
	}

	ctx, _ = render(t, Setting{ShowNormals: true}, sc)
	if !hasPixel(ctx.Canvas.Frame, raster.MapColor(normalColor)) {
		t.Error("no normal drawn")
	}

	ctx, _ = render(t, Setting{Wireframe: true}, sc)
	if got := ctx.Canvas.Frame.At(width/2, height/2); got != bg {
		t.Errorf("wireframe filled the centre: %v", got)
	}
	if z := ctx.Canvas.Depth.At(width/2, height/2); z != 1.0 {
		t.Errorf("wireframe wrote depth %v", z)
	}

	ctx, _ = render(t, Setting{ShowDepth: true}, sc)
	if got := ctx.Canvas.Frame.At(width/2, height/2); got.R != got.G || got.R == 0 {
		t.Errorf("depth view centre = %v, want a grey level", got)
	}
}

func TestBoxOverlayOutlinesGroups(t *testing.T) {
	// Two polygons share one group whose box spans the gap between them.
	sc := lit(quad(-0.6, 0, 0, 0.2), quad(0.6, 0, 0, 0.2))
	ctx, _ := render(t, Setting{Cull: true, Clip: true, ShowBoxes: true}, sc)
	if len(ctx.polygons) != 2 {
		t.Fatalf("kept %d polygons, want 2", len(ctx.polygons))
	}
	group := geom.AABBOf(ctx.vertices, &ctx.polygons[0]).Union(geom.AABBOf(ctx.vertices, &ctx.polygons[1]))
	if got := ctx.tree.Enclosing(0); got != group {
		t.Fatalf("Enclosing(0) = %+v, want %+v", got, group)
	}
	r, ok := ctx.Canvas.Clamp(group)
	if !ok {
		t.Fatal("group box is off the canvas")
	}
	for _, p := range [][2]int{{r.XMin, r.YMin}, {r.XMax, r.YMax}, {(r.XMin + r.XMax) / 2, r.YMin}} {
		if got := ctx.Canvas.Frame.At(p[0], p[1]); got != boxColor {
			t.Errorf("pixel %v = %v, want box outline", p, got)
		}
	}
}

func TestBeginFrameBackdrop(t *testing.T) {
	ctx := newContext()
	blue := color.NRGBA{B: 255, A: 255}
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i+2], img.Pix[i+3] = 255, 255
	}
	ctx.SetBackdrop(img)
	ctx.Canvas.Depth.Set(3, 3, 0)
	ctx.BeginFrame(bg)
	if got := ctx.Canvas.Frame.At(5, 5); got != blue {
		t.Errorf("pixel = %v, want backdrop blue", got)
	}
	if z := ctx.Canvas.Depth.At(3, 3); z != 1.0 {
		t.Errorf("depth not cleared: %v", z)
	}
}

func TestContextReuse(t *testing.T) {
	ctx := newContext()
	cam := scene.DefaultCamera()
	sc := lit(quad(0, 0, 0, 0.5), quad(0.3, 0.2, -1, 0.8))
	set := Setting{Algorithm: ScanLineHZ, Cull: true, Clip: true}

	ctx.BeginFrame(bg)
	first := ctx.Render(set, shade.DefaultConfig(), &cam, sc)
	img := slices.Clone(ctx.Canvas.Frame.Pix)
	ctx.BeginFrame(bg)
	second := ctx.Render(set, shade.DefaultConfig(), &cam, sc)
	if first != second || !slices.Equal(img, ctx.Canvas.Frame.Pix) {
		t.Errorf("second frame differs: %+v vs %+v", first, second)
	}
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	defer SetLogger(nil)

	render(t, Setting{Algorithm: Interval}, lit(quad(0, 0, 0, 0.5)))
	if out := buf.String(); !strings.Contains(out, "frame rendered") || !strings.Contains(out, "algorithm=interval") {
		t.Errorf("log output = %q", out)
	}
}
