package application

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"edumatch/platform-service/internal/api"
)

// Handler implements the application HTTP routes.
//
// All routes expect an x-user-id header forwarded by the gateway.
//
// Routes:
//
//	GET  /api/applications               → list caller's applications
//	POST /api/applications               → submit an application to a post
//	POST /api/applications/{id}/status   → move to a new lifecycle status
type Handler struct {
	svc *Service
}

// NewHandler returns a configured Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts the application routes on mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/applications", h.handleApplications)
	mux.HandleFunc("/api/applications/", h.handleStatusChange)
}

func (h *Handler) handleApplications(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.list(w, r)
	case http.MethodPost:
		h.submit(w, r)
	default:
		api.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	userID := r.Header.Get("x-user-id")
	if userID == "" {
		api.Error(w, "missing x-user-id header", http.StatusUnauthorized)
		return
	}

	apps, err := h.svc.ListApplications(r.Context(), userID)
	if err != nil {
		log.Printf("[application] list error: %v", err)
		api.Error(w, "database error", http.StatusInternalServerError)
		return
	}
	api.OK(w, apps)
}

func (h *Handler) submit(w http.ResponseWriter, r *http.Request) {
	userID := r.Header.Get("x-user-id")
	if userID == "" {
		api.Error(w, "missing x-user-id header", http.StatusUnauthorized)
		return
	}

	var body struct {
		PostID string `json:"postId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.PostID == "" {
		api.Error(w, "body must contain postId", http.StatusBadRequest)
		return
	}

	app, err := h.svc.Submit(r.Context(), userID, body.PostID)
	if err != nil {
		h.writeError(w, err, "submit")
		return
	}
	api.Created(w, app)
}

// handleStatusChange handles POST /api/applications/{id}/status
func (h *Handler) handleStatusChange(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		api.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	// Parse /api/applications/{id}/status
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if len(parts) != 4 || parts[3] != "status" {
		api.Error(w, "invalid path", http.StatusNotFound)
		return
	}
	appID := parts[2]

	var body struct {
		NewStatus string `json:"newStatus"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.NewStatus == "" {
		api.Error(w, "body must contain newStatus", http.StatusBadRequest)
		return
	}

	app, err := h.svc.UpdateStatus(r.Context(), appID, body.NewStatus)
	if err != nil {
		h.writeError(w, err, "updateStatus")
		return
	}
	api.OK(w, app)
}

func (h *Handler) writeError(w http.ResponseWriter, err error, op string) {
	var verr *ValidationError
	switch {
	case errors.Is(err, ErrNotFound):
		api.Error(w, "application not found", http.StatusNotFound)
	case errors.As(err, &verr):
		api.Error(w, verr.Msg, http.StatusBadRequest)
	default:
		log.Printf("[application] %s error: %v", op, err)
		api.Error(w, "database error", http.StatusInternalServerError)
	}
}
