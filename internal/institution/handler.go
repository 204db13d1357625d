// Package institution serves the public institution profile endpoints.
//
// Routes:
//
//	GET /api/institution/{id}        → profile
//	GET /api/institution/{id}/posts  → the institution's published posts
package institution

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"edumatch/platform-service/internal/api"
	"edumatch/platform-service/internal/model"
)

// PostSummary is one row of the public posts listing.
type PostSummary struct {
	ID           string     `json:"id"`
	PostType     string     `json:"postType"`
	Title        string     `json:"title"`
	Deadline     *time.Time `json:"deadline,omitempty"`
	Applications int        `json:"applications"`
	CreatedAt    time.Time  `json:"createdAt"`
}

// Handler holds shared dependencies.
type Handler struct {
	pool *pgxpool.Pool
}

// NewHandler returns a configured Handler.
func NewHandler(pool *pgxpool.Pool) *Handler {
	return &Handler{pool: pool}
}

// RegisterRoutes mounts the institution routes on mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/institution/", h.handleInstitution)
}

// handleInstitution handles GET /api/institution/{id}[/posts]
func (h *Handler) handleInstitution(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		api.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	switch {
	case len(parts) == 3:
		h.profile(w, r, parts[2])
	case len(parts) == 4 && parts[3] == "posts":
		h.posts(w, r, parts[2])
	default:
		api.Error(w, "invalid path", http.StatusNotFound)
	}
}

func (h *Handler) profile(w http.ResponseWriter, r *http.Request, id string) {
	inst, err := h.loadInstitution(r.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			api.Error(w, "institution not found", http.StatusNotFound)
			return
		}
		log.Printf("[institution] profile query error: %v", err)
		api.Error(w, "database error", http.StatusInternalServerError)
		return
	}
	api.OK(w, inst)
}

func (h *Handler) posts(w http.ResponseWriter, r *http.Request, id string) {
	// Confirms the institution exists so a bad id is a 404, not an empty list.
	if _, err := h.loadInstitution(r.Context(), id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			api.Error(w, "institution not found", http.StatusNotFound)
			return
		}
		log.Printf("[institution] posts lookup error: %v", err)
		api.Error(w, "database error", http.StatusInternalServerError)
		return
	}

	rows, err := h.pool.Query(r.Context(),
		`SELECT p.id, p.post_type, p.title, p.deadline, p.created_at,
		        (SELECT COUNT(*) FROM applications a WHERE a.post_id = p.id)
		 FROM posts p
		 WHERE p.institution_id = $1 AND p.status = 'PUBLISHED'
		 ORDER BY p.created_at DESC`,
		id,
	)
	if err != nil {
		log.Printf("[institution] posts query error: %v", err)
		api.Error(w, "database error", http.StatusInternalServerError)
		return
	}
	defer rows.Close()

	out := make([]PostSummary, 0)
	for rows.Next() {
		var p PostSummary
		if err := rows.Scan(
			&p.ID, &p.PostType, &p.Title, &p.Deadline, &p.CreatedAt, &p.Applications,
		); err != nil {
			log.Printf("[institution] posts scan error: %v", err)
			api.Error(w, "database error", http.StatusInternalServerError)
			return
		}
		out = append(out, p)
	}
	api.OK(w, out)
}

func (h *Handler) loadInstitution(ctx context.Context, id string) (*model.Institution, error) {
	var inst model.Institution
	err := h.pool.QueryRow(ctx,
		`SELECT id, name, country, COALESCE(city, ''), COALESCE(website, ''),
		        COALESCE(logo_url, ''), COALESCE(about, ''), created_at
		 FROM institutions
		 WHERE id = $1`,
		id,
	).Scan(
		&inst.ID, &inst.Name, &inst.Country, &inst.City, &inst.Website,
		&inst.LogoURL, &inst.About, &inst.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &inst, nil
}
