// MotionStudio Admin Cache - Client Data Cache Engine
// Copyright 2026 DarkRiddle1212
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/DarkRiddle1212/motionstudio-sub001

package api

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// validate is the shared validator instance; validators are safe for
// concurrent use and cache struct metadata.
var validate = validator.New()

// InvalidateRequest is the request body for POST /invalidate.
//
// Fields:
//   - Pattern: required regular expression matched against cache keys
type InvalidateRequest struct {
	Pattern string `json:"pattern" validate:"required,min=1,max=1024"`
}

// validateRequest runs struct validation and normalizes the error.
func validateRequest(req interface{}) error {
	if err := validate.Struct(req); err != nil {
		return fmt.Errorf("invalid request: %w", err)
	}
	return nil
}
