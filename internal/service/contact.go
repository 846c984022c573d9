// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/mileusna/useragent"

	"github.com/olegiv/agency-go/internal/mail"
	"github.com/olegiv/agency-go/internal/model"
)

// ContactService relays contact-form submissions by email.
type ContactService struct {
	sender mail.Sender
	to     string
}

// NewContactService creates a ContactService delivering to the given recipient.
func NewContactService(sender mail.Sender, to string) *ContactService {
	return &ContactService{sender: sender, to: to}
}

// Submit assigns a reference id to msg, summarizes the client from its
// User-Agent and relays it. The reference is returned even on failure so
// it can be logged.
func (s *ContactService) Submit(ctx context.Context, msg model.ContactMessage, userAgent string) (string, error) {
	msg.Reference = uuid.NewString()
	msg.Client = DescribeClient(userAgent)

	if s.to == "" {
		return msg.Reference, mail.ErrNotConfigured
	}
	if err := s.sender.Send(ctx, mail.ContactNotification(s.to, msg)); err != nil {
		return msg.Reference, fmt.Errorf("relaying contact %s: %w", msg.Reference, err)
	}

	slog.Info("contact message relayed", "reference", msg.Reference, "locale", msg.Locale)
	return msg.Reference, nil
}

// DescribeClient renders a short "Browser 1.2 on OS (device)" summary of a
// User-Agent header.
func DescribeClient(header string) string {
	if header == "" {
		return ""
	}
	ua := useragent.Parse(header)
	if ua.Name == "" {
		return ""
	}

	device := "desktop"
	switch {
	case ua.Bot:
		device = "bot"
	case ua.Tablet:
		device = "tablet"
	case ua.Mobile:
		device = "mobile"
	}

	name := ua.Name
	if ua.Version != "" {
		name += " " + ua.Version
	}
	if ua.OS != "" {
		return fmt.Sprintf("%s on %s (%s)", name, ua.OS, device)
	}
	return fmt.Sprintf("%s (%s)", name, device)
}
