// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package imaging validates, normalizes and thumbnails uploaded images.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/rwcarlsen/goexif/exif"
	_ "golang.org/x/image/webp" // WebP decoder

	"github.com/olegiv/agency-go/internal/util"
)

// ThumbDir is the uploads subdirectory holding thumbnails.
const ThumbDir = "thumbs"

// DefaultThumbWidth is the maximum thumbnail width in pixels.
const DefaultThumbWidth = 480

// ErrUnsupportedFormat is returned for content that is not a JPEG, PNG, GIF or WebP image.
var ErrUnsupportedFormat = errors.New("unsupported image format")

// Result describes a stored upload. Names are relative to the uploads directory.
type Result struct {
	Name      string
	ThumbName string
	MimeType  string
	Width     int
	Height    int
	Size      int64
}

// Processor stores uploaded images under uploadDir.
type Processor struct {
	uploadDir  string
	thumbWidth int
	now        func() time.Time
}

// NewProcessor creates a new image processor.
func NewProcessor(uploadDir string) *Processor {
	return &Processor{
		uploadDir:  uploadDir,
		thumbWidth: DefaultThumbWidth,
		now:        time.Now,
	}
}

// Save validates data as an image and stores it as <unix-nanos>-<sanitized
// name> together with a thumbnail. JPEG, PNG and WebP are decoded, rotated
// per EXIF orientation and re-encoded, which strips metadata; WebP is
// re-encoded as JPEG. GIFs are stored verbatim to keep animation.
func (p *Processor) Save(r io.Reader, filename string) (*Result, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading image data: %w", err)
	}

	format := DetectFormat(data)
	if format == "" {
		return nil, ErrUnsupportedFormat
	}

	safe, err := util.SanitizeFilename(filename)
	if err != nil {
		return nil, fmt.Errorf("invalid filename: %w", err)
	}
	name := fmt.Sprintf("%d-%s", p.now().UnixNano(), withExtension(safe, format))

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedFormat, err)
	}

	stored := data
	if format != "gif" {
		img = applyOrientation(img, readExifOrientation(bytes.NewReader(data)))
		if stored, err = encodeImage(img, format, 90); err != nil {
			return nil, fmt.Errorf("encoding image: %w", err)
		}
	}

	if err := p.write(name, stored); err != nil {
		return nil, err
	}

	thumb := img
	if img.Bounds().Dx() > p.thumbWidth {
		thumb = imaging.Resize(img, p.thumbWidth, 0, imaging.Lanczos)
	}
	thumbData, err := encodeImage(thumb, format, 80)
	if err != nil {
		return nil, fmt.Errorf("encoding thumbnail: %w", err)
	}
	thumbName := ThumbDir + "/" + name
	if err := p.write(thumbName, thumbData); err != nil {
		return nil, err
	}

	b := img.Bounds()
	return &Result{
		Name:      name,
		ThumbName: thumbName,
		MimeType:  MimeType(format),
		Width:     b.Dx(),
		Height:    b.Dy(),
		Size:      int64(len(stored)),
	}, nil
}

func (p *Processor) write(name string, data []byte) error {
	path, err := util.SafeJoinPath(p.uploadDir, filepath.FromSlash(name))
	if err != nil {
		return fmt.Errorf("resolving upload path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating upload directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("saving %s: %w", name, err)
	}
	return nil
}

// DetectFormat sniffs data and returns "jpeg", "png", "gif", "webp" or ""
// for anything else, SVG and TIFF included.
func DetectFormat(data []byte) string {
	contentType := http.DetectContentType(data)
	switch {
	case strings.HasPrefix(contentType, "image/jpeg"):
		return "jpeg"
	case strings.HasPrefix(contentType, "image/png"):
		return "png"
	case strings.HasPrefix(contentType, "image/gif"):
		return "gif"
	case strings.HasPrefix(contentType, "image/webp"):
		return "webp"
	default:
		return ""
	}
}

// MimeType returns the MIME type of the stored form of format.
func MimeType(format string) string {
	switch format {
	case "png":
		return "image/png"
	case "gif":
		return "image/gif"
	default:
		return "image/jpeg"
	}
}

// withExtension replaces the extension of name with the one matching the
// stored format.
func withExtension(name, format string) string {
	stem := strings.TrimSuffix(name, filepath.Ext(name))
	switch format {
	case "png":
		return stem + ".png"
	case "gif":
		return stem + ".gif"
	default:
		return stem + ".jpg"
	}
}

// readExifOrientation reads the EXIF orientation tag from image data.
// Returns 1 (normal) if orientation cannot be determined.
func readExifOrientation(r io.Reader) int {
	x, err := exif.Decode(r)
	if err != nil {
		return 1
	}
	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return 1
	}
	orientation, err := tag.Int(0)
	if err != nil {
		return 1
	}
	return orientation
}

// applyOrientation applies an EXIF orientation (1-8) to img.
func applyOrientation(img image.Image, orientation int) image.Image {
	switch orientation {
	case 2:
		return imaging.FlipH(img)
	case 3:
		return imaging.Rotate180(img)
	case 4:
		return imaging.FlipV(img)
	case 5:
		return imaging.FlipH(imaging.Rotate270(img))
	case 6:
		return imaging.Rotate270(img)
	case 7:
		return imaging.FlipH(imaging.Rotate90(img))
	case 8:
		return imaging.Rotate90(img)
	default:
		return img
	}
}

func encodeImage(img image.Image, format string, quality int) ([]byte, error) {
	var buf bytes.Buffer
	var err error
	switch format {
	case "png":
		err = png.Encode(&buf, img)
	case "gif":
		err = gif.Encode(&buf, img, nil)
	default:
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality})
	}
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
