// MotionStudio Admin Cache - Client Data Cache Engine
// Copyright 2026 DarkRiddle1212
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/DarkRiddle1212/motionstudio-sub001

package api

import (
	"net/http"
	"regexp"

	"github.com/goccy/go-json"
)

// errorResponse is the JSON body for non-2xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// invalidateResponse reports the outcome of a pattern invalidation.
type invalidateResponse struct {
	Pattern string `json:"pattern"`
	Removed int    `json:"removed"`
}

// sweepResponse reports the outcome of a forced sweep pass.
type sweepResponse struct {
	Removed int `json:"removed"`
}

// handleHealth reports liveness.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleStats returns engine statistics as JSON.
func (s *Server) handleStats(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, s.engine.Stats())
}

// handleInvalidate removes every cache key matching the submitted pattern.
// The admin console's deploy hook calls this after bulk data changes.
func (s *Server) handleInvalidate(w http.ResponseWriter, r *http.Request) {
	var req InvalidateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "malformed JSON body"})
		return
	}
	if err := validateRequest(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	re, err := regexp.Compile(req.Pattern)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid pattern: " + err.Error()})
		return
	}

	removed := s.engine.InvalidatePattern(re)
	s.logger.Info().Str("pattern", req.Pattern).Int("removed", removed).Msg("keys invalidated")
	respondJSON(w, http.StatusOK, invalidateResponse{Pattern: req.Pattern, Removed: removed})
}

// handleSweep forces one expired-entry sweep pass.
func (s *Server) handleSweep(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, sweepResponse{Removed: s.engine.Sweep()})
}

// respondJSON writes a JSON response with the given status code.
func respondJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	//nolint:errcheck // response writer errors leave nothing actionable
	json.NewEncoder(w).Encode(body)
}
