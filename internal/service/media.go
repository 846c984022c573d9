// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package service holds the operations shared by the JSON API and the
// rendered pages: login, contact relay, uploads and cached public reads.
package service

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path"
	"strings"

	"github.com/olegiv/agency-go/internal/imaging"
	"github.com/olegiv/agency-go/internal/util"
)

// MaxUploadSize is the largest accepted upload.
const MaxUploadSize = 10 << 20

// UploadURLPrefix is the public path under which uploads are served.
const UploadURLPrefix = "/uploads/"

// Upload rejection reasons.
var (
	ErrFileTooLarge = errors.New("file must be at most 10 MiB")
	ErrNotAnImage   = errors.New("file must be a JPEG, PNG, GIF or WebP image")
	ErrBadFilename  = errors.New("file name is invalid")
)

// UploadResult describes a stored image.
type UploadResult struct {
	URL          string `json:"url"`
	ThumbnailURL string `json:"thumbnail_url"`
	MimeType     string `json:"mime_type"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	Size         int64  `json:"size"`
}

// MediaService validates and stores uploaded images.
type MediaService struct {
	processor *imaging.Processor
}

// NewMediaService creates a MediaService storing files under uploadDir.
func NewMediaService(uploadDir string) *MediaService {
	return &MediaService{processor: imaging.NewProcessor(uploadDir)}
}

// Upload checks the declared and sniffed content type of an uploaded file
// and stores it with a thumbnail. SVG is refused even though browsers label
// it image/*, since it can carry script.
func (s *MediaService) Upload(file multipart.File, header *multipart.FileHeader) (*UploadResult, error) {
	if header.Size > MaxUploadSize {
		return nil, ErrFileTooLarge
	}

	declared := strings.ToLower(header.Header.Get("Content-Type"))
	if !strings.HasPrefix(declared, "image/") || strings.Contains(declared, "svg") {
		return nil, ErrNotAnImage
	}
	if strings.EqualFold(path.Ext(header.Filename), ".svg") {
		return nil, ErrNotAnImage
	}
	if _, err := util.SanitizeFilename(header.Filename); err != nil {
		return nil, ErrBadFilename
	}

	data, err := io.ReadAll(io.LimitReader(file, MaxUploadSize+1))
	if err != nil {
		return nil, fmt.Errorf("reading upload: %w", err)
	}
	if len(data) > MaxUploadSize {
		return nil, ErrFileTooLarge
	}
	if sniffed := http.DetectContentType(data); !strings.HasPrefix(sniffed, "image/") {
		return nil, ErrNotAnImage
	}

	res, err := s.processor.Save(bytes.NewReader(data), header.Filename)
	if err != nil {
		if errors.Is(err, imaging.ErrUnsupportedFormat) {
			return nil, ErrNotAnImage
		}
		return nil, fmt.Errorf("storing upload: %w", err)
	}

	return &UploadResult{
		URL:          UploadURLPrefix + res.Name,
		ThumbnailURL: UploadURLPrefix + res.ThumbName,
		MimeType:     res.MimeType,
		Width:        res.Width,
		Height:       res.Height,
		Size:         res.Size,
	}, nil
}
