// Package support accepts contact-form submissions and forwards them to the
// support inbox as a support-request email (ungated, sent synchronously).
package support

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"edumatch/platform-service/internal/api"
	"edumatch/platform-service/internal/model"
	"edumatch/platform-service/internal/notify"
)

// Handler implements POST /api/support.
type Handler struct {
	dispatcher *notify.Dispatcher
	inbox      string
}

// NewHandler returns a configured Handler.
func NewHandler(dispatcher *notify.Dispatcher, inbox string) *Handler {
	return &Handler{dispatcher: dispatcher, inbox: inbox}
}

// RegisterRoutes mounts the support route on mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/support", h.handleSupport)
}

func (h *Handler) handleSupport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		api.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req model.SupportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	if err := validate(req); err != "" {
		api.Error(w, err, http.StatusBadRequest)
		return
	}

	m := notify.NewMessage(notify.EventSupportRequest, "", h.inbox, map[string]string{
		"name":    req.Name,
		"email":   req.Email,
		"subject": req.Subject,
		"message": req.Message,
	})
	if err := h.dispatcher.Dispatch(r.Context(), m); err != nil {
		log.Printf("[support] Dispatch failed: %v", err)
		api.Error(w, "could not deliver support request", http.StatusBadGateway)
		return
	}

	api.OK(w, map[string]string{"status": "received"})
}

func validate(req model.SupportRequest) string {
	switch {
	case strings.TrimSpace(req.Name) == "":
		return "name is required"
	case strings.TrimSpace(req.Email) == "" || !strings.Contains(req.Email, "@"):
		return "a valid email is required"
	case strings.TrimSpace(req.Message) == "":
		return "message is required"
	}
	return ""
}
