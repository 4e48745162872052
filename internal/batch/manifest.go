package batch

import (
	"encoding/json"
	"os"

	"scanline-renderer/internal/pipeline"
)

// ManifestEntry represents one frame in the output manifest.
type ManifestEntry struct {
	Frame     int            `json:"frame"`
	Angle     float64        `json:"angle"`
	Image     string         `json:"image"`
	Algorithm string         `json:"algorithm"`
	Stats     pipeline.Stats `json:"stats"`
	Millis    float64        `json:"render_ms"`
}

// WriteManifest writes manifest.json listing every successful frame.
func WriteManifest(path string, cfg Config, results []Result) error {
	entries := make([]ManifestEntry, 0, len(results))
	for _, r := range results {
		if !r.Success {
			continue
		}
		entries = append(entries, ManifestEntry{
			Frame:     r.Frame,
			Angle:     r.Angle,
			Image:     r.Image,
			Algorithm: cfg.Setting.Algorithm.String(),
			Stats:     r.Stats,
			Millis:    float64(r.Elapsed.Microseconds()) / 1000,
		})
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
