// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// ContactMessage is a contact-form submission. It is relayed by email and
// not persisted.
type ContactMessage struct {
	Reference string `json:"reference"`
	Name      string `json:"name" validate:"required,max=200"`
	Email     string `json:"email" validate:"required,email,max=254"`
	Phone     string `json:"phone" validate:"omitempty,max=50"`
	Subject   string `json:"subject" validate:"omitempty,max=300"`
	Message   string `json:"message" validate:"required,min=10,max=5000"`
	Locale    string `json:"locale" validate:"omitempty,max=10"`
	Client    string `json:"-"`
}
