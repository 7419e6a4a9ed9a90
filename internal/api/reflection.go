package api

import (
	"net/http"

	"github.com/mendapp/mend/internal/domain"
	"github.com/mendapp/mend/internal/pkg/httputil"
	"github.com/mendapp/mend/internal/service/reflection"
)

// EvaluateRequest is the body of POST /api/reflection/evaluate.
type EvaluateRequest struct {
	Messages []domain.Message `json:"messages"`
	// LastAssistantIndex is the index of the newest assistant message, or -1.
	LastAssistantIndex *int `json:"last_assistant_index"`
}

// EvaluateResponse carries the trigger, if one fired.
type EvaluateResponse struct {
	Trigger *domain.ReflectionTrigger `json:"trigger"`
	State   reflection.State          `json:"state"`
}

func (h *Handlers) session(w http.ResponseWriter, r *http.Request) (*reflection.Session, Identity, bool) {
	id := IdentityFrom(r.Context())
	if id.SessionID == "" {
		respondServiceError(w, reflection.ErrSessionRequired)
		return nil, id, false
	}
	return h.sessions.Get(id.SessionID), id, true
}

// EvaluateReflection decides whether a reflection should be shown now.
//
//	POST /api/reflection/evaluate
func (h *Handlers) EvaluateReflection(w http.ResponseWriter, r *http.Request) {
	var req EvaluateRequest
	if !httputil.Decode(w, r, &req) {
		return
	}
	sess, id, ok := h.session(w, r)
	if !ok {
		return
	}
	last := lastAssistantIndex(req.Messages)
	if req.LastAssistantIndex != nil {
		last = *req.LastAssistantIndex
	}
	trigger := h.reflection.Evaluate(r.Context(), sess, id.ClientID, id.UserID, req.Messages, last)
	respondJSON(w, http.StatusOK, EvaluateResponse{Trigger: trigger, State: sess.State()})
}

// DismissReflection hides reflections for the rest of the day.
//
//	POST /api/reflection/dismiss
func (h *Handlers) DismissReflection(w http.ResponseWriter, r *http.Request) {
	sess, id, ok := h.session(w, r)
	if !ok {
		return
	}
	clientID := id.ClientID
	if clientID == "" {
		clientID = id.UserID
	}
	if err := h.reflection.SuppressToday(r.Context(), sess, clientID); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, EvaluateResponse{State: sess.State()})
}

// ResetReflection returns the session to idle. Throttle state is untouched.
//
//	POST /api/reflection/reset
func (h *Handlers) ResetReflection(w http.ResponseWriter, r *http.Request) {
	sess, _, ok := h.session(w, r)
	if !ok {
		return
	}
	h.reflection.ResetSession(sess)
	respondJSON(w, http.StatusOK, EvaluateResponse{State: sess.State()})
}

func lastAssistantIndex(msgs []domain.Message) int {
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Role == domain.RoleAssistant {
			return i
		}
	}
	return -1
}
