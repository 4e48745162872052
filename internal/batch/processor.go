package batch

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/HugoSmits86/nativewebp"
	"golang.org/x/image/draw"

	"scanline-renderer/internal/buffer"
	"scanline-renderer/internal/mathutil"
	"scanline-renderer/internal/pipeline"
	"scanline-renderer/internal/raster"
	"scanline-renderer/internal/scene"
	"scanline-renderer/internal/shade"
)

// Config holds everything shared by the frames of a run.
type Config struct {
	OutputDir string
	Scene     *scene.Scene
	Camera    scene.Camera
	Setting   pipeline.Setting
	Shading   shade.Config

	Width, Height   int
	Background      color.NRGBA
	BackgroundDepth float64
	Backdrop        *image.NRGBA // already fitted to Width×Height, may be nil
	Upscale         int

	Frames  int
	Workers int
}

// Result holds the outcome of one frame.
type Result struct {
	Frame   int
	Angle   float64 // camera orbit angle in degrees
	Image   string  // path relative to OutputDir
	Success bool
	Error   string
	Stats   pipeline.Stats
	Elapsed time.Duration
}

// worker owns the buffers of one goroutine.
type worker struct {
	ctx *pipeline.Context
}

func newWorker(cfg *Config) *worker {
	frame := buffer.NewFrameBuffer(cfg.Width, cfg.Height)
	depth := buffer.NewDepthBuffer(cfg.Width, cfg.Height, cfg.BackgroundDepth)
	ctx := pipeline.NewContext(raster.NewCanvas(frame, depth))
	ctx.SetBackdrop(cfg.Backdrop)
	return &worker{ctx: ctx}
}

// Run renders all frames using a worker pool. With more than one frame the
// camera orbits the origin at its configured distance and height, one full
// turn over the run.
func Run(cfg Config) []Result {
	total := cfg.Frames
	results := make([]Result, total)
	var processed atomic.Int64

	start := time.Now()

	// Progress reporter
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(2 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				p := processed.Load()
				if p > 0 {
					elapsed := time.Since(start).Seconds()
					rate := float64(p) / elapsed
					fmt.Printf("  [%d/%d] %.1f frames/sec\n", p, total, rate)
				}
			}
		}
	}()

	// Worker pool
	frameChan := make(chan int, cfg.Workers*2)
	var wg sync.WaitGroup

	for w := 0; w < cfg.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			wk := newWorker(&cfg)
			for idx := range frameChan {
				results[idx] = wk.renderFrame(&cfg, idx)
				processed.Add(1)
			}
		}()
	}

	// Send work
	for i := 0; i < total; i++ {
		frameChan <- i
	}
	close(frameChan)

	wg.Wait()
	close(done)

	return results
}

// orbit returns the camera for frame idx.
func orbit(cfg *Config, idx int) (scene.Camera, float64) {
	cam := cfg.Camera
	if cfg.Frames <= 1 {
		return cam, 0
	}
	p := cam.Position
	base := mathutil.Rad2Deg(math.Atan2(p[0], p[2]))
	angle := base + 360*float64(idx)/float64(cfg.Frames)
	cam.Orbit(mathutil.Vec3{}, math.Hypot(p[0], p[2]), angle)
	return cam, angle
}

func (w *worker) renderFrame(cfg *Config, idx int) Result {
	t0 := time.Now()
	cam, angle := orbit(cfg, idx)
	res := Result{
		Frame: idx,
		Angle: angle,
		Image: fmt.Sprintf("frame_%04d.webp", idx),
	}

	w.ctx.BeginFrame(cfg.Background)
	res.Stats = w.ctx.Render(cfg.Setting, cfg.Shading, &cam, cfg.Scene)

	frame := w.ctx.Canvas.Frame.Image()
	var img image.Image = frame
	if cfg.Upscale > 1 {
		img = upscale(frame, cfg.Upscale)
	}

	outPath := filepath.Join(cfg.OutputDir, res.Image)
	if err := writeWebP(outPath, img); err != nil {
		res.Error = err.Error()
		return res
	}

	res.Success = true
	res.Elapsed = time.Since(t0)
	return res
}

// upscale enlarges img by an integer factor keeping hard pixel edges.
func upscale(img *image.NRGBA, factor int) *image.NRGBA {
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx()*factor, b.Dy()*factor))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

func writeWebP(path string, img image.Image) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := nativewebp.Encode(f, img, nil); err != nil {
		f.Close()
		return fmt.Errorf("WebP encode: %w", err)
	}
	return f.Close()
}
