package explore

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"edumatch/platform-service/internal/api"
	"edumatch/platform-service/internal/model"
)

const (
	defaultPageSize = 12
	maxPageSize     = 50
)

// Handler serves the explore listing and detail endpoints.
//
// Routes:
//
//	GET /api/explore                   → filtered/sorted/paginated cards
//	GET /api/explore/{tab}/detail?id=  → one card
type Handler struct {
	store *Store
	tf    Transformer
}

// NewHandler returns a configured Handler.
func NewHandler(store *Store) *Handler {
	return &Handler{store: store}
}

// RegisterRoutes mounts the explore routes on mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/explore", h.handleListing)
	mux.HandleFunc("/api/explore/", h.handleDetail)
}

// listingPage is the data payload of GET /api/explore.
type listingPage struct {
	Items      []Card `json:"items"`
	Total      int    `json:"total"`
	Page       int    `json:"page"`
	PageSize   int    `json:"pageSize"`
	TotalPages int    `json:"totalPages"`
	Tab        Tab    `json:"tab"`
	Sort       Sort   `json:"sort"`
	// Query is the canonical query string for this state; the client
	// reflects it into the URL bar when it differs from the current one.
	Query string `json:"query"`
}

func (h *Handler) handleListing(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		api.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	state := ParseQuery(r.URL.Query())

	pageSize := defaultPageSize
	if v, err := strconv.Atoi(r.URL.Query().Get("pageSize")); err == nil && v >= 1 {
		pageSize = v
		if pageSize > maxPageSize {
			pageSize = maxPageSize
		}
	}

	rows, err := h.store.LoadRows(r.Context(), state.Tab)
	if err != nil {
		log.Printf("[explore] load rows for %s: %v", state.Tab, err)
		api.Error(w, "database error", http.StatusInternalServerError)
		return
	}

	cards := h.tf.BuildCards(rows)
	cards = Filter(cards, state.ActiveFilters())
	SortCards(cards, state.Sort)

	total := len(cards)
	totalPages := (total + pageSize - 1) / pageSize

	api.OK(w, listingPage{
		Items:      Paginate(cards, state.Page, pageSize),
		Total:      total,
		Page:       state.Page,
		PageSize:   pageSize,
		TotalPages: totalPages,
		Tab:        state.Tab,
		Sort:       state.Sort,
		Query:      state.EncodeQuery(),
	})
}

// handleDetail handles GET /api/explore/{tab}/detail
func (h *Handler) handleDetail(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		api.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	// Parse /api/explore/{tab}/detail
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if len(parts) != 4 || parts[3] != "detail" {
		api.Error(w, "invalid path", http.StatusNotFound)
		return
	}
	tab, err := ParseTab(parts[2])
	if err != nil {
		api.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	id := r.URL.Query().Get("id")
	if id == "" {
		api.Error(w, "id query parameter is required", http.StatusBadRequest)
		return
	}

	row, err := h.store.LoadRow(r.Context(), tab, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			api.Error(w, "post not found", http.StatusNotFound)
			return
		}
		log.Printf("[explore] load %s detail %s: %v", tab, id, err)
		api.Error(w, "database error", http.StatusInternalServerError)
		return
	}

	cards := h.tf.BuildCards([]model.PostRow{*row})
	api.OK(w, cards[0])
}
