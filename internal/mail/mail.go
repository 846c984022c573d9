// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package mail relays outbound email over SMTP.
package mail

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"gopkg.in/gomail.v2"

	"github.com/olegiv/agency-go/internal/config"
	"github.com/olegiv/agency-go/internal/model"
)

// ErrNotConfigured is returned when no SMTP relay is configured.
var ErrNotConfigured = errors.New("smtp relay is not configured")

// Message is a plain-text email.
type Message struct {
	To      []string
	ReplyTo string
	Subject string
	Body    string
}

// Sender delivers messages.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// SMTPSender delivers messages through one SMTP relay.
type SMTPSender struct {
	relay  config.SMTP
	dialer *gomail.Dialer
}

// NewSMTPSender creates a sender for relay.
func NewSMTPSender(relay config.SMTP) *SMTPSender {
	return &SMTPSender{
		relay:  relay,
		dialer: gomail.NewDialer(relay.Host, relay.Port, relay.User, relay.Password),
	}
}

// Send dials the relay and delivers msg. The dial is not interruptible, so
// ctx is only checked before connecting.
func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	if !s.relay.Configured() {
		return ErrNotConfigured
	}
	if len(msg.To) == 0 {
		return errors.New("mail: no recipients")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := s.dialer.DialAndSend(s.build(msg)); err != nil {
		return fmt.Errorf("sending mail via %s: %w", s.relay.Host, err)
	}
	slog.Info("mail sent", "to", strings.Join(msg.To, ","), "subject", msg.Subject)
	return nil
}

func (s *SMTPSender) build(msg Message) *gomail.Message {
	m := gomail.NewMessage()
	m.SetHeader("From", s.relay.From)
	m.SetHeader("To", msg.To...)
	if msg.ReplyTo != "" {
		m.SetHeader("Reply-To", msg.ReplyTo)
	}
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.Body)
	return m
}

// ContactNotification renders the message relayed for a contact-form
// submission.
func ContactNotification(to string, c model.ContactMessage) Message {
	subject := c.Subject
	if subject == "" {
		subject = "Website enquiry"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Reference: %s\n", c.Reference)
	fmt.Fprintf(&b, "Name: %s\n", c.Name)
	fmt.Fprintf(&b, "Email: %s\n", c.Email)
	if c.Phone != "" {
		fmt.Fprintf(&b, "Phone: %s\n", c.Phone)
	}
	if c.Locale != "" {
		fmt.Fprintf(&b, "Language: %s\n", c.Locale)
	}
	if c.Client != "" {
		fmt.Fprintf(&b, "Client: %s\n", c.Client)
	}
	b.WriteString("\n")
	b.WriteString(c.Message)
	b.WriteString("\n")

	return Message{
		To:      []string{to},
		ReplyTo: c.Email,
		Subject: fmt.Sprintf("[Contact %s] %s", shortRef(c.Reference), subject),
		Body:    b.String(),
	}
}

// TestMessage is sent by the admin test-email action.
func TestMessage(to string) Message {
	return Message{
		To:      []string{to},
		Subject: "Test email",
		Body:    "This is a test message from the site administration panel.\n",
	}
}

func shortRef(ref string) string {
	if len(ref) > 8 {
		return ref[:8]
	}
	return ref
}
