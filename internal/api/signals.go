package api

import (
	"net/http"
	"strings"

	"github.com/mendapp/mend/internal/pkg/httputil"
	"github.com/mendapp/mend/internal/service/signals"
)

// RecordSignalRequest carries an extraction produced elsewhere.
type RecordSignalRequest struct {
	MessageID  string                `json:"message_id"`
	Extraction signals.RawExtraction `json:"extraction"`
}

// AnalyzeSignalRequest carries raw message text to extract from.
type AnalyzeSignalRequest struct {
	MessageID string `json:"message_id"`
	Content   string `json:"content"`
}

// RecordSignal normalizes and stores an extraction. Anonymous callers get
// the normalized signal back without it being stored.
//
//	POST /api/signals
func (h *Handlers) RecordSignal(w http.ResponseWriter, r *http.Request) {
	var req RecordSignalRequest
	if !httputil.Decode(w, r, &req) {
		return
	}
	id := IdentityFrom(r.Context())
	sig := h.signals.Record(r.Context(), id.UserID, req.MessageID, req.Extraction)
	if id.UserID != "" {
		h.patterns.Invalidate(r.Context(), id.UserID)
	}
	respondJSON(w, http.StatusCreated, sig)
}

// AnalyzeSignal extracts a signal from message text and stores it.
//
//	POST /api/signals/analyze
func (h *Handlers) AnalyzeSignal(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeSignalRequest
	if !httputil.Decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Content) == "" {
		respondServiceError(w, signals.ErrEmptyContent)
		return
	}
	id := IdentityFrom(r.Context())
	sig, err := h.signals.Analyze(r.Context(), id.UserID, req.MessageID, req.Content)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	h.patterns.Invalidate(r.Context(), id.UserID)
	respondJSON(w, http.StatusCreated, sig)
}
