package main

import (
	"flag"
	"fmt"
	"image"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"scanline-renderer/internal/backdrop"
	"scanline-renderer/internal/batch"
	"scanline-renderer/internal/config"
	"scanline-renderer/internal/obj"
	"scanline-renderer/internal/pipeline"
	"scanline-renderer/internal/scene"
)

func main() {
	// CLI flags
	configFile := flag.String("config", "", "Path to config.json file")
	model := flag.String("model", "", "Wavefront OBJ model to render")
	outputDir := flag.String("output", "", "Output directory (default: renders)")
	background := flag.String("background", "", "Backdrop image (png, jpeg, tga or webp)")
	frames := flag.Int("frames", 0, "Number of turntable frames (default: 1)")
	workers := flag.Int("workers", 0, "Number of worker goroutines (default: NumCPU)")
	algorithm := flag.String("algorithm", "", "scanline-z, scanline-hz, scanline-bvh or interval (default: scanline-z)")
	width := flag.Int("width", 0, "Canvas width in pixels (default: 640)")
	height := flag.Int("height", 0, "Canvas height in pixels (default: 480)")
	upscale := flag.Int("upscale", 0, "Integer upscale factor for the written images (default: 1)")
	noCull := flag.Bool("no-cull", false, "Disable back-face culling")
	noClip := flag.Bool("no-clip", false, "Disable view-volume clipping")
	wireframe := flag.Bool("wireframe", false, "Draw polygon outlines")
	normals := flag.Bool("normals", false, "Draw face normals")
	boxes := flag.Bool("boxes", false, "Draw bounding-volume tree boxes")
	depth := flag.Bool("depth", false, "Write the depth buffer instead of the shaded image")
	verbose := flag.Bool("v", false, "Log per-frame statistics")

	flag.Parse()

	if *verbose {
		pipeline.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	// Load config
	var cfg config.Config
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}

	// CLI flags override config file
	cfg.Resolve(config.Flags{
		Model:       *model,
		OutputDir:   *outputDir,
		Background:  *background,
		Algorithm:   *algorithm,
		Width:       *width,
		Height:      *height,
		Frames:      *frames,
		Workers:     *workers,
		Upscale:     *upscale,
		NoCull:      *noCull,
		NoClip:      *noClip,
		Wireframe:   *wireframe,
		ShowNormals: *normals,
		ShowBoxes:   *boxes,
		ShowDepth:   *depth,
	})

	if cfg.Model == "" {
		fmt.Fprintln(os.Stderr, "Error: no model given. Use -model flag or config.json.")
		os.Exit(1)
	}

	setting, err := cfg.Setting()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	bg, err := cfg.BackgroundNRGBA()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Load model
	m, err := obj.Load(cfg.Model)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading model: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Model: %s (%d vertices, %d faces)\n", m.Name, len(m.Vertices), len(m.Sides))

	// Load backdrop
	var back *image.NRGBA
	if cfg.Background != "" {
		img, err := backdrop.Load(cfg.Background)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: backdrop: %v\n", err)
		} else {
			back = backdrop.Fit(img, cfg.Width, cfg.Height)
			fmt.Printf("Backdrop: %s\n", cfg.Background)
		}
	}

	parallel, point := cfg.SceneLights()
	sc := &scene.Scene{
		Models:         []*scene.Model{m},
		ParallelLights: parallel,
		PointLights:    point,
	}

	fmt.Printf("Scanline Renderer → WebP (%s)\n", setting.Algorithm)
	fmt.Printf("Frames: %d, Canvas: %dx%d, Workers: %d\n", cfg.Frames, cfg.Width, cfg.Height, cfg.Workers)
	fmt.Printf("Output: %s\n", cfg.OutputDir)
	fmt.Println("------------------------------------------------------------")

	start := time.Now()

	// Run batch
	batchCfg := batch.Config{
		OutputDir:       cfg.OutputDir,
		Scene:           sc,
		Camera:          cfg.SceneCamera(),
		Setting:         setting,
		Shading:         *cfg.Shading,
		Width:           cfg.Width,
		Height:          cfg.Height,
		Background:      bg,
		BackgroundDepth: cfg.BackgroundDepth,
		Backdrop:        back,
		Upscale:         cfg.Upscale,
		Frames:          cfg.Frames,
		Workers:         cfg.Workers,
	}

	results := batch.Run(batchCfg)

	elapsed := time.Since(start)
	fmt.Println("------------------------------------------------------------")
	fmt.Printf("Done in %.1fs\n", elapsed.Seconds())

	// Count results
	success, failed := 0, 0
	var total pipeline.Stats
	var errors []batch.Result
	for _, r := range results {
		if r.Success {
			success++
			total.Add(r.Stats)
		} else {
			failed++
			errors = append(errors, r)
		}
	}

	fmt.Printf("Rendered: %d/%d\n", success, len(results))
	fmt.Printf("Polygons: %d, culled %d, clipped %d, rasterized %d, rejected %d\n",
		total.Polygons, total.Culled, total.Clipped, total.Rasterized, total.Rejected)

	if len(errors) > 0 {
		fmt.Printf("\nFailed (%d):\n", failed)
		limit := 20
		if len(errors) < limit {
			limit = len(errors)
		}
		for _, e := range errors[:limit] {
			fmt.Printf("  frame %d: %s\n", e.Frame, e.Error)
		}
	}

	// Write manifest
	manifestPath := filepath.Join(cfg.OutputDir, "manifest.json")
	os.MkdirAll(cfg.OutputDir, 0755)
	if err := batch.WriteManifest(manifestPath, batchCfg, results); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: manifest write failed: %v\n", err)
	} else {
		fmt.Printf("Manifest: %s\n", manifestPath)
	}

	if failed > 0 {
		os.Exit(1)
	}
}
