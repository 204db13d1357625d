package docval

import (
	"encoding/json"
	"net/http"

	"edumatch/platform-service/internal/api"
)

// Handler exposes document validation over HTTP.
//
// Routes:
//
//	POST /api/documents/validate → classify extracted text for a document type
type Handler struct {
	validator *Validator
}

// NewHandler returns a configured Handler.
func NewHandler(validator *Validator) *Handler {
	return &Handler{validator: validator}
}

// RegisterRoutes mounts the validation route on mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/documents/validate", h.handleValidate)
}

type validateRequest struct {
	DocumentType string `json:"documentType"`
	Text         string `json:"text"`
}

func (h *Handler) handleValidate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		api.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var body validateRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		api.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	docType, err := ParseDocumentType(body.DocumentType)
	if err != nil {
		api.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if body.Text == "" {
		api.Error(w, "text is required", http.StatusBadRequest)
		return
	}

	api.OK(w, h.validator.Validate(r.Context(), docType, body.Text))
}
