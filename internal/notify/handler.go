package notify

import (
	"encoding/json"
	"log"
	"net/http"

	"edumatch/platform-service/internal/api"
)

// Handler exposes the notification plumbing over HTTP.
//
// Routes:
//
//	POST /api/notifications/process  → enqueue one notification
//	PUT  /api/notifications/process  → drain the queue synchronously
//	GET  /api/debug/queue-status     → queue depth and counters
//	POST /api/test/email             → render + send one email directly
type Handler struct {
	queue      *Queue
	worker     *Worker
	dispatcher *Dispatcher
}

// NewHandler returns a configured Handler.
func NewHandler(queue *Queue, worker *Worker, dispatcher *Dispatcher) *Handler {
	return &Handler{queue: queue, worker: worker, dispatcher: dispatcher}
}

// RegisterRoutes mounts the notification routes on mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/notifications/process", h.handleProcess)
	mux.HandleFunc("/api/debug/queue-status", h.handleQueueStatus)
	mux.HandleFunc("/api/test/email", h.handleTestEmail)
}

// enqueueRequest is the body of POST /api/notifications/process.
type enqueueRequest struct {
	Type   string            `json:"type"`
	UserID string            `json:"userId"`
	Email  string            `json:"email"`
	Meta   map[string]string `json:"meta"`
}

func (h *Handler) handleProcess(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.enqueue(w, r)
	case http.MethodPut:
		h.drain(w, r)
	default:
		api.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *Handler) enqueue(w http.ResponseWriter, r *http.Request) {
	var body enqueueRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		api.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	et, err := ParseEventType(body.Type)
	if err != nil {
		api.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if body.Email == "" {
		api.Error(w, "email is required", http.StatusBadRequest)
		return
	}

	m := NewMessage(et, body.UserID, body.Email, body.Meta)
	if err := h.queue.Enqueue(r.Context(), m); err != nil {
		log.Printf("[notify] Enqueue error: %v", err)
		api.Error(w, "queue error", http.StatusInternalServerError)
		return
	}

	api.OK(w, map[string]string{"id": m.ID, "status": "queued"})
}

func (h *Handler) drain(w http.ResponseWriter, r *http.Request) {
	const drainLimit = 100
	handled := h.worker.DrainOnce(r.Context(), drainLimit)
	api.OK(w, map[string]int{"processed": handled})
}

func (h *Handler) handleQueueStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		api.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	status, err := h.queue.QueueStatus(r.Context())
	if err != nil {
		log.Printf("[notify] Queue status error: %v", err)
		api.Error(w, "queue error", http.StatusInternalServerError)
		return
	}
	api.OK(w, status)
}

// handleTestEmail renders and sends one email synchronously, bypassing the
// queue. Intended for operators verifying SMTP configuration.
func (h *Handler) handleTestEmail(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		api.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var body enqueueRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		api.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	if body.Email == "" {
		api.Error(w, "email is required", http.StatusBadRequest)
		return
	}
	if body.Type == "" {
		body.Type = string(EventWelcome)
	}

	et, err := ParseEventType(body.Type)
	if err != nil {
		api.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	m := NewMessage(et, body.UserID, body.Email, body.Meta)
	if err := h.dispatcher.Dispatch(r.Context(), m); err != nil {
		log.Printf("[notify] Test email failed: %v", err)
		api.Error(w, "email delivery failed", http.StatusBadGateway)
		return
	}

	api.OK(w, map[string]string{"id": m.ID, "status": "sent"})
}
