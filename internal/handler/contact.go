// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"
	"strings"

	"github.com/olegiv/agency-go/internal/i18n"
	"github.com/olegiv/agency-go/internal/model"
	"github.com/olegiv/agency-go/internal/render"
)

// maxContactFormBytes bounds a contact form body.
const maxContactFormBytes = 64 << 10

// ContactData is the data for the contact page.
type ContactData struct {
	Form   model.ContactMessage
	Errors map[string]bool
}

// Contact handles GET /{locale}/contact.
func (h *FrontendHandler) Contact(w http.ResponseWriter, r *http.Request) {
	data := h.base(r, "contact.title")
	data.Data = ContactData{}
	h.render(w, r, http.StatusOK, "pages/contact", data)
}

// SubmitContact handles POST /{locale}/contact. A relayed message redirects
// back to the form with the reference in a flash message.
func (h *FrontendHandler) SubmitContact(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxContactFormBytes)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	loc := h.localeOf(r)
	msg := model.ContactMessage{
		Name:    strings.TrimSpace(r.PostFormValue("name")),
		Email:   strings.TrimSpace(r.PostFormValue("email")),
		Phone:   strings.TrimSpace(r.PostFormValue("phone")),
		Subject: strings.TrimSpace(r.PostFormValue("subject")),
		Message: strings.TrimSpace(r.PostFormValue("message")),
		Locale:  loc,
	}

	data := h.base(r, "contact.title")
	if err := formValidator.Struct(msg); err != nil {
		data.Flash = i18n.T(loc, "contact.check_fields")
		data.FlashType = render.FlashError
		data.Data = ContactData{Form: msg, Errors: fieldErrors(err)}
		h.render(w, r, http.StatusBadRequest, "pages/contact", data)
		return
	}

	ref, err := h.contact.Submit(r.Context(), msg, r.UserAgent())
	if err != nil {
		h.logger.Error("contact relay failed", "reference", ref, "error", err)
		data.Flash = i18n.T(loc, "contact.failed")
		data.FlashType = render.FlashError
		data.Data = ContactData{Form: msg}
		h.render(w, r, http.StatusInternalServerError, "pages/contact", data)
		return
	}

	h.renderer.SetFlash(r, i18n.T(loc, "contact.sent", ref), render.FlashSuccess)
	http.Redirect(w, r, render.LocalePath(loc, RouteContact), http.StatusSeeOther)
}
