package api

import (
	"net/http"

	"github.com/mendapp/mend/internal/pkg/logger"
	"github.com/mendapp/mend/internal/service/pattern"
)

// PatternSnapshot returns the caller's 14-day pattern snapshot.
//
//	GET /api/patterns/snapshot
func (h *Handlers) PatternSnapshot(w http.ResponseWriter, r *http.Request) {
	snap, err := h.patterns.Snapshot(r.Context(), IdentityFrom(r.Context()).UserID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, snap)
}

// PatternInsights returns pattern cards, the recent timeline and prompt chips.
//
//	GET /api/patterns/insights
func (h *Handlers) PatternInsights(w http.ResponseWriter, r *http.Request) {
	view, err := h.patterns.Insights(r.Context(), IdentityFrom(r.Context()).UserID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

// PhaseCopy returns the phase-aware entry copy. The phase itself is never
// part of the response. A failed signal read falls back to settling copy.
//
//	GET /api/patterns/phase
func (h *Handlers) PhaseCopy(w http.ResponseWriter, r *http.Request) {
	userID := IdentityFrom(r.Context()).UserID
	phase, err := h.patterns.Phase(r.Context(), userID)
	if err != nil {
		logger.Warn("phase lookup failed", "user_id", userID, "error", err)
	}
	respondJSON(w, http.StatusOK, pattern.CopyFor(phase, userID != ""))
}
