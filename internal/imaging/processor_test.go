// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package imaging

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/gif"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// createTestImage creates a simple test image with the given dimensions.
func createTestImage(width, height int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	return img
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	return buf.Bytes()
}

func newTestProcessor(t *testing.T) *Processor {
	p := NewProcessor(t.TempDir())
	p.now = func() time.Time { return time.Unix(0, 1700000000000000000) }
	return p
}

func TestSave_PNGWithThumbnail(t *testing.T) {
	p := newTestProcessor(t)

	res, err := p.Save(bytes.NewReader(encodePNG(t, createTestImage(960, 300))), "Team Photo.PNG")
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	if res.Name != "1700000000000000000-team-photo.png" {
		t.Errorf("Name = %q", res.Name)
	}
	if res.ThumbName != "thumbs/"+res.Name {
		t.Errorf("ThumbName = %q", res.ThumbName)
	}
	if res.MimeType != "image/png" || res.Width != 960 || res.Height != 300 {
		t.Errorf("Result = %+v", res)
	}

	f, err := os.Open(filepath.Join(p.uploadDir, "thumbs", res.Name))
	if err != nil {
		t.Fatalf("thumbnail missing: %v", err)
	}
	defer func() { _ = f.Close() }()
	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		t.Fatalf("DecodeConfig: %v", err)
	}
	if cfg.Width != DefaultThumbWidth || cfg.Height != 150 {
		t.Errorf("thumbnail = %dx%d, want %dx150", cfg.Width, cfg.Height, DefaultThumbWidth)
	}
}

func TestSave_SmallImageKeepsSize(t *testing.T) {
	p := newTestProcessor(t)

	res, err := p.Save(bytes.NewReader(encodePNG(t, createTestImage(100, 50))), "logo.png")
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	f, err := os.Open(filepath.Join(p.uploadDir, filepath.FromSlash(res.ThumbName)))
	if err != nil {
		t.Fatalf("thumbnail missing: %v", err)
	}
	defer func() { _ = f.Close() }()
	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		t.Fatalf("DecodeConfig: %v", err)
	}
	if cfg.Width != 100 {
		t.Errorf("thumbnail width = %d, want 100", cfg.Width)
	}
}

func TestSave_GIFStoredVerbatim(t *testing.T) {
	p := newTestProcessor(t)

	var buf bytes.Buffer
	pal := image.NewPaletted(image.Rect(0, 0, 10, 10), []color.Color{color.Black, color.White})
	if err := gif.Encode(&buf, pal, nil); err != nil {
		t.Fatalf("gif.Encode: %v", err)
	}
	original := buf.Bytes()

	res, err := p.Save(bytes.NewReader(original), "anim.gif")
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	stored, err := os.ReadFile(filepath.Join(p.uploadDir, res.Name))
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !bytes.Equal(stored, original) {
		t.Error("GIF was re-encoded")
	}
	if res.MimeType != "image/gif" {
		t.Errorf("MimeType = %q", res.MimeType)
	}
}

func TestSave_RejectsNonImages(t *testing.T) {
	p := newTestProcessor(t)

	inputs := map[string][]byte{
		"svg":  []byte(`<?xml version="1.0"?><svg xmlns="http://www.w3.org/2000/svg"><script>alert(1)</script></svg>`),
		"html": []byte("<html><body>hi</body></html>"),
		"text": []byte("plain text"),
	}
	for name, data := range inputs {
		t.Run(name, func(t *testing.T) {
			if _, err := p.Save(bytes.NewReader(data), "x.png"); !errors.Is(err, ErrUnsupportedFormat) {
				t.Errorf("Save error = %v, want ErrUnsupportedFormat", err)
			}
		})
	}

	entries, _ := os.ReadDir(p.uploadDir)
	if len(entries) != 0 {
		t.Errorf("rejected uploads left %d files", len(entries))
	}
}

func TestWithExtension(t *testing.T) {
	tests := map[string]string{
		"photo.webp|webp": "photo.jpg",
		"photo.jpeg|jpeg": "photo.jpg",
		"photo|png":       "photo.png",
		"anim.GIF|gif":    "anim.gif",
	}
	for in, want := range tests {
		parts := strings.SplitN(in, "|", 2)
		if got := withExtension(parts[0], parts[1]); got != want {
			t.Errorf("withExtension(%q, %q) = %q, want %q", parts[0], parts[1], got, want)
		}
	}
}

func TestApplyOrientation(t *testing.T) {
	img := createTestImage(40, 20)
	for orientation, want := range map[int]image.Point{1: {40, 20}, 3: {40, 20}, 6: {20, 40}, 8: {20, 40}} {
		got := applyOrientation(img, orientation).Bounds().Size()
		if got != want {
			t.Errorf("orientation %d size = %v, want %v", orientation, got, want)
		}
	}
}
