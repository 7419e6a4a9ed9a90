package api

import (
	"net/http"

	"github.com/mendapp/mend/internal/domain"
	"github.com/mendapp/mend/internal/pkg/httputil"
	"github.com/mendapp/mend/internal/service/bucket"
)

// ModeResponse is the caller's mode and the modes on offer.
type ModeResponse struct {
	Mode  domain.Mode   `json:"mode"`
	Modes []domain.Mode `json:"modes"`
}

// SetModeRequest is the body of PUT /api/preferences/mode.
type SetModeRequest struct {
	Mode string `json:"mode"`
}

// GetMode returns the stored companion mode, or the default.
//
//	GET /api/preferences/mode
func (h *Handlers) GetMode(w http.ResponseWriter, r *http.Request) {
	mode := h.modes.Mode(r.Context(), IdentityFrom(r.Context()).UserID)
	respondJSON(w, http.StatusOK, ModeResponse{Mode: mode, Modes: bucket.Modes})
}

// SetMode stores the caller's companion mode.
//
//	PUT /api/preferences/mode
func (h *Handlers) SetMode(w http.ResponseWriter, r *http.Request) {
	var req SetModeRequest
	if !httputil.Decode(w, r, &req) {
		return
	}
	pref, err := h.modes.SetMode(r.Context(), IdentityFrom(r.Context()).UserID, req.Mode)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, pref)
}
