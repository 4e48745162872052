// Package backdrop loads the image drawn behind a rendered scene and fits
// it to the canvas.
package backdrop

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/draw"
	"golang.org/x/image/webp"
)

// format is a decoder recognised by its leading bytes. '?' matches any byte.
type format struct {
	name   string
	magic  string
	decode func(io.Reader) (image.Image, error)
}

var formats = []format{
	{"png", "\x89PNG\r\n\x1a\n", png.Decode},
	{"jpeg", "\xff\xd8", jpeg.Decode},
	{"webp", "RIFF????WEBPVP8", webp.Decode},
}

func match(magic string, b []byte) bool {
	if len(b) < len(magic) {
		return false
	}
	for i, c := range []byte(magic) {
		if c != '?' && b[i] != c {
			return false
		}
	}
	return true
}

// sniff picks the decoder for raw. TGA files carry no signature, so they are
// recognised by extension only.
func sniff(path string, raw []byte) (string, func(io.Reader) (image.Image, error), error) {
	for _, f := range formats {
		if match(f.magic, raw) {
			return f.name, f.decode, nil
		}
	}
	if strings.ToLower(filepath.Ext(path)) == ".tga" {
		return "tga", tga.Decode, nil
	}
	return "", nil, image.ErrFormat
}

// Load decodes a JPEG, PNG, TGA or WebP file.
func Load(path string) (*image.NRGBA, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("backdrop: read %s: %w", path, err)
	}
	name, decode, err := sniff(path, raw)
	if err != nil {
		return nil, fmt.Errorf("backdrop: decode %s: %w", path, err)
	}
	img, err := decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("backdrop: decode %s %s: %w", name, path, err)
	}
	if img.Bounds().Empty() {
		return nil, fmt.Errorf("backdrop: %s image %s is empty", name, path)
	}
	return toNRGBA(img), nil
}

// toNRGBA converts any image to NRGBA with its origin at (0,0).
func toNRGBA(src image.Image) *image.NRGBA {
	if n, ok := src.(*image.NRGBA); ok && n.Rect.Min == (image.Point{}) {
		return n
	}
	b := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	return dst
}

// Fit scales img to cover a w×h canvas, keeping its aspect ratio and
// cropping the overhang equally on both sides. The result is always a new
// w×h image.
func Fit(img *image.NRGBA, w, h int) *image.NRGBA {
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	b := img.Bounds()
	if w <= 0 || h <= 0 || b.Empty() {
		return dst
	}

	src := b
	if b.Dx()*h > b.Dy()*w {
		cw := b.Dy() * w / h
		src.Min.X += (b.Dx() - cw) / 2
		src.Max.X = src.Min.X + cw
	} else {
		ch := b.Dx() * h / w
		src.Min.Y += (b.Dy() - ch) / 2
		src.Max.Y = src.Min.Y + ch
	}

	// Scale in premultiplied space so transparent edges do not darken.
	premul := image.NewRGBA(dst.Bounds())
	draw.CatmullRom.Scale(premul, premul.Bounds(), img, src, draw.Src, nil)
	draw.Draw(dst, dst.Bounds(), premul, image.Point{}, draw.Src)
	return dst
}
