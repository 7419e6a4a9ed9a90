package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/mendapp/mend/internal/domain"
	"github.com/mendapp/mend/internal/pkg/httputil"
	"github.com/mendapp/mend/internal/pkg/logger"
	"github.com/mendapp/mend/internal/service/compose"
)

// ChatRequest is the body of POST /api/chat.
type ChatRequest struct {
	Messages []domain.Message `json:"messages"`
	// Mode is optional; the stored preference applies when it is empty.
	Mode string `json:"mode"`
}

type tokenEvent struct {
	Content string `json:"content"`
}

type doneEvent struct {
	Bucket domain.Bucket `json:"bucket"`
}

type errorEvent struct {
	Error string `json:"error"`
}

// Chat streams a composed reply as server-sent events.
//
//	POST /api/chat
func (h *Handlers) Chat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if !httputil.Decode(w, r, &req) {
		return
	}
	if len(req.Messages) == 0 {
		respondError(w, http.StatusBadRequest, "messages are required")
		return
	}

	id := IdentityFrom(r.Context())
	mode := domain.Mode(req.Mode)
	if mode == "" && id.UserID != "" && h.modes != nil {
		mode = h.modes.Mode(r.Context(), id.UserID)
	}

	reply, err := h.composer.Compose(r.Context(), compose.Request{
		Messages: req.Messages,
		Mode:     mode,
		UserID:   id.UserID,
	})
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		respondServiceError(w, err)
		return
	}

	w.Header().Set(HeaderBucket, string(reply.Bucket))
	stream, err := httputil.NewEventStream(w)
	if err != nil {
		respondSafeError(w, http.StatusInternalServerError, err, "streaming not supported")
		return
	}
	w.WriteHeader(http.StatusOK)

	for tok := range reply.Tokens {
		if err := stream.Send("token", tokenEvent{Content: tok}); err != nil {
			// Returning cancels the request context, which stops the relay.
			logger.Info("chat client went away", "user_id", id.UserID, "error", err)
			return
		}
	}
	if err := <-reply.Errs; err != nil {
		_ = stream.Send("error", errorEvent{Error: publicStreamMessage(err)})
		return
	}
	_ = stream.Send("done", doneEvent{Bucket: reply.Bucket})
}

func publicStreamMessage(err error) string {
	_, msg := classifyError(err)
	return msg
}
