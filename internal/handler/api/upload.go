// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/olegiv/agency-go/internal/service"
)

// multipartOverhead allows for form boundaries around the file part.
const multipartOverhead = 1 << 20

// Upload handles POST /api/upload with a multipart "file" field.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, service.MaxUploadSize+multipartOverhead)
	if err := r.ParseMultipartForm(service.MaxUploadSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			WriteError(w, http.StatusBadRequest, "validation failed", map[string]string{
				"file": service.ErrFileTooLarge.Error(),
			})
			return
		}
		WriteError(w, http.StatusBadRequest, "validation failed", map[string]string{
			"file": "body must be multipart/form-data",
		})
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	file, header, err := r.FormFile("file")
	if err != nil {
		WriteError(w, http.StatusBadRequest, "validation failed", map[string]string{
			"file": "file is required",
		})
		return
	}
	defer func() { _ = file.Close() }()

	res, err := h.media.Upload(file, header)
	switch {
	case errors.Is(err, service.ErrFileTooLarge),
		errors.Is(err, service.ErrNotAnImage),
		errors.Is(err, service.ErrBadFilename):
		WriteError(w, http.StatusBadRequest, "validation failed", map[string]string{
			"file": err.Error(),
		})
		return
	case err != nil:
		writeError(w, r, "upload", err)
		return
	}

	slog.Info("image uploaded", "url", res.URL, "size", res.Size, "mime_type", res.MimeType)
	WriteCreated(w, res)
}
