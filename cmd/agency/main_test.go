// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRateLimiters_LogsLimitsInEffect(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	login, contact := newRateLimiters(logger)
	require.NotNil(t, login)
	require.NotNil(t, contact)

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 2)

	loginLine := string(lines[0])
	assert.Contains(t, loginLine, `msg="login protection initialized"`)
	assert.Contains(t, loginLine, "ip_rate_limit=0.5")
	assert.Contains(t, loginLine, "ip_burst=5")
	assert.Contains(t, loginLine, "max_failed_attempts=5")
	assert.Contains(t, loginLine, "lockout_duration=15m0s")

	contactLine := string(lines[1])
	assert.Contains(t, contactLine, `msg="contact rate limit initialized"`)
	assert.Contains(t, contactLine, "ip_rate_limit=0.2")
	assert.Contains(t, contactLine, "ip_burst=3")
}
