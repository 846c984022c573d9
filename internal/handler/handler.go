// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package handler serves the rendered public site, the admin pages and the
// health endpoints. The JSON API lives in the api subpackage.
package handler

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Route pattern constants for chi router registration.
const (
	RouteServices = "/services"
	RouteProjects = "/projects"
	RouteBlog     = "/blog"
	RouteTeam     = "/team"
	RouteContact  = "/contact"

	// RouteParamSlug is the slug parameter pattern.
	RouteParamSlug = "/{slug}"
)

var formValidator = validator.New(validator.WithRequiredStructEnabled())

// fieldErrors converts validator failures to a set of failed JSON field names.
func fieldErrors(err error) map[string]bool {
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return nil
	}
	fields := make(map[string]bool, len(ves))
	for _, fe := range ves {
		fields[strings.ToLower(fe.Field())] = true
	}
	return fields
}
