// Package posts implements the institution-side CRUD surface for research
// and scholarship posts.
//
// All routes expect an x-user-id header identifying the institution account.
//
// Routes:
//
//	GET    /api/posts/{research|scholarships}       → list own posts
//	POST   /api/posts/{research|scholarships}       → create (starts as DRAFT)
//	PUT    /api/posts/{research|scholarships}       → update by id
//	DELETE /api/posts/{research|scholarships}?id=   → delete by id
package posts

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"edumatch/platform-service/internal/api"
	"edumatch/platform-service/internal/dates"
)

// Post is the JSON shape of one institution post with its extension fields.
type Post struct {
	ID          string    `json:"id"`
	PostType    string    `json:"postType"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      string    `json:"status"`             // DRAFT | PUBLISHED | ARCHIVED
	Deadline    *string   `json:"deadline,omitempty"` // YYYY-MM-DD
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`

	// Scholarship extension
	DegreeLevel   string `json:"degreeLevel,omitempty"`
	Amount        string `json:"amount,omitempty"`
	EssayRequired *bool  `json:"essayRequired,omitempty"`

	// Research extension
	ResearchField string `json:"researchField,omitempty"`
	ContractType  string `json:"contractType,omitempty"`
	JobType       string `json:"jobType,omitempty"`
	Salary        string `json:"salary,omitempty"`
}

// Handler holds shared dependencies.
type Handler struct {
	pool *pgxpool.Pool
}

// NewHandler returns a configured Handler.
func NewHandler(pool *pgxpool.Pool) *Handler {
	return &Handler{pool: pool}
}

// RegisterRoutes mounts the post CRUD routes on mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/posts/", h.handlePosts)
}

func (h *Handler) handlePosts(w http.ResponseWriter, r *http.Request) {
	userID := r.Header.Get("x-user-id")
	if userID == "" {
		api.Error(w, "missing x-user-id header", http.StatusUnauthorized)
		return
	}

	// Parse /api/posts/{kind}
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if len(parts) != 3 {
		api.Error(w, "invalid path", http.StatusNotFound)
		return
	}

	var postType string
	switch parts[2] {
	case "research":
		postType = "research"
	case "scholarships":
		postType = "scholarship"
	default:
		api.Error(w, fmt.Sprintf("unknown post kind %q", parts[2]), http.StatusNotFound)
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.list(w, r, userID, postType)
	case http.MethodPost:
		h.create(w, r, userID, postType)
	case http.MethodPut:
		h.update(w, r, userID, postType)
	case http.MethodDelete:
		h.delete(w, r, userID, postType)
	default:
		api.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// ── List ───────────────────────────────────────────────────────────────────

func (h *Handler) list(w http.ResponseWriter, r *http.Request, userID, postType string) {
	rows, err := h.pool.Query(r.Context(),
		`SELECT p.id, p.post_type, p.title, p.description, p.status,
		        p.deadline, p.created_at, p.updated_at,
		        COALESCE(sd.degree_level, ''), COALESCE(sd.amount, ''), sd.essay_required,
		        COALESCE(rd.research_field, ''), COALESCE(rd.contract_type, ''),
		        COALESCE(rd.job_type, ''), COALESCE(rd.salary, '')
		 FROM posts p
		 JOIN institutions i ON i.id = p.institution_id
		 LEFT JOIN scholarship_details sd ON sd.post_id = p.id
		 LEFT JOIN research_details rd ON rd.post_id = p.id
		 WHERE i.owner_id = $1 AND p.post_type = $2
		 ORDER BY p.updated_at DESC`,
		userID, postType,
	)
	if err != nil {
		log.Printf("[posts] list query error: %v", err)
		api.Error(w, "database error", http.StatusInternalServerError)
		return
	}
	defer rows.Close()

	out := make([]Post, 0)
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			log.Printf("[posts] list scan error: %v", err)
			api.Error(w, "database error", http.StatusInternalServerError)
			return
		}
		out = append(out, p)
	}
	api.OK(w, out)
}

// ── Create ─────────────────────────────────────────────────────────────────

// postInput is the request body for create and update.
type postInput struct {
	ID          string  `json:"id,omitempty"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Status      string  `json:"status,omitempty"`
	Deadline    *string `json:"deadline,omitempty"` // YYYY-MM-DD

	DegreeLevel   string `json:"degreeLevel,omitempty"`
	Amount        string `json:"amount,omitempty"`
	EssayRequired *bool  `json:"essayRequired,omitempty"`

	ResearchField string `json:"researchField,omitempty"`
	ContractType  string `json:"contractType,omitempty"`
	JobType       string `json:"jobType,omitempty"`
	Salary        string `json:"salary,omitempty"`
}

func (in *postInput) validate() error {
	if in.Title == "" {
		return fmt.Errorf("title is required")
	}
	if in.Deadline != nil {
		if _, err := time.ParseInLocation(dates.DatabaseLayout, *in.Deadline, time.UTC); err != nil {
			return fmt.Errorf("deadline must be YYYY-MM-DD")
		}
	}
	switch in.Status {
	case "", "DRAFT", "PUBLISHED", "ARCHIVED":
	default:
		return fmt.Errorf("unknown post status %q", in.Status)
	}
	return nil
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request, userID, postType string) {
	var in postInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		api.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	if err := in.validate(); err != nil {
		api.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if in.Status == "" {
		in.Status = "DRAFT"
	}

	institutionID, err := h.institutionFor(r.Context(), userID)
	if err != nil {
		api.Error(w, "no institution for this account", http.StatusForbidden)
		return
	}

	tx, err := h.pool.Begin(r.Context())
	if err != nil {
		log.Printf("[posts] begin tx error: %v", err)
		api.Error(w, "database error", http.StatusInternalServerError)
		return
	}
	defer tx.Rollback(r.Context())

	var postID string
	err = tx.QueryRow(r.Context(),
		`INSERT INTO posts (institution_id, post_type, title, description, status, deadline)
		 VALUES ($1, $2, $3, $4, $5, $6::date)
		 RETURNING id`,
		institutionID, postType, in.Title, in.Description, in.Status, in.Deadline,
	).Scan(&postID)
	if err != nil {
		log.Printf("[posts] insert post error: %v", err)
		api.Error(w, "database error", http.StatusInternalServerError)
		return
	}

	if err := upsertDetails(r.Context(), tx, postID, postType, in); err != nil {
		log.Printf("[posts] insert details error: %v", err)
		api.Error(w, "database error", http.StatusInternalServerError)
		return
	}

	if err := tx.Commit(r.Context()); err != nil {
		log.Printf("[posts] commit error: %v", err)
		api.Error(w, "database error", http.StatusInternalServerError)
		return
	}

	api.Created(w, map[string]string{"id": postID})
}

// ── Update ─────────────────────────────────────────────────────────────────

func (h *Handler) update(w http.ResponseWriter, r *http.Request, userID, postType string) {
	var in postInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil || in.ID == "" {
		api.Error(w, "body must contain id", http.StatusBadRequest)
		return
	}
	if err := in.validate(); err != nil {
		api.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	tx, err := h.pool.Begin(r.Context())
	if err != nil {
		log.Printf("[posts] begin tx error: %v", err)
		api.Error(w, "database error", http.StatusInternalServerError)
		return
	}
	defer tx.Rollback(r.Context())

	tag, err := tx.Exec(r.Context(),
		`UPDATE posts p
		 SET title = $1, description = $2,
		     status = COALESCE(NULLIF($3, ''), p.status),
		     deadline = $4::date,
		     updated_at = NOW()
		 FROM institutions i
		 WHERE p.id = $5 AND p.post_type = $6
		   AND i.id = p.institution_id AND i.owner_id = $7`,
		in.Title, in.Description, in.Status, in.Deadline, in.ID, postType, userID,
	)
	if err != nil {
		log.Printf("[posts] update post error: %v", err)
		api.Error(w, "database error", http.StatusInternalServerError)
		return
	}
	if tag.RowsAffected() == 0 {
		api.Error(w, "post not found", http.StatusNotFound)
		return
	}

	if err := upsertDetails(r.Context(), tx, in.ID, postType, in); err != nil {
		log.Printf("[posts] update details error: %v", err)
		api.Error(w, "database error", http.StatusInternalServerError)
		return
	}

	if err := tx.Commit(r.Context()); err != nil {
		log.Printf("[posts] commit error: %v", err)
		api.Error(w, "database error", http.StatusInternalServerError)
		return
	}

	api.OK(w, map[string]string{"id": in.ID})
}

// ── Delete ─────────────────────────────────────────────────────────────────

func (h *Handler) delete(w http.ResponseWriter, r *http.Request, userID, postType string) {
	id := r.URL.Query().Get("id")
	if id == "" {
		api.Error(w, "id query parameter is required", http.StatusBadRequest)
		return
	}

	// Detail rows cascade via FK.
	tag, err := h.pool.Exec(r.Context(),
		`DELETE FROM posts p
		 USING institutions i
		 WHERE p.id = $1 AND p.post_type = $2
		   AND i.id = p.institution_id AND i.owner_id = $3`,
		id, postType, userID,
	)
	if err != nil {
		log.Printf("[posts] delete error: %v", err)
		api.Error(w, "database error", http.StatusInternalServerError)
		return
	}
	if tag.RowsAffected() == 0 {
		api.Error(w, "post not found", http.StatusNotFound)
		return
	}

	api.OK(w, map[string]string{"id": id, "status": "deleted"})
}

// ── Helpers ────────────────────────────────────────────────────────────────

func (h *Handler) institutionFor(ctx context.Context, userID string) (string, error) {
	var id string
	err := h.pool.QueryRow(ctx,
		`SELECT id FROM institutions WHERE owner_id = $1`, userID,
	).Scan(&id)
	return id, err
}

func upsertDetails(ctx context.Context, tx pgx.Tx, postID, postType string, in postInput) error {
	switch postType {
	case "scholarship":
		_, err := tx.Exec(ctx,
			`INSERT INTO scholarship_details (post_id, degree_level, amount, essay_required)
			 VALUES ($1, $2, $3, COALESCE($4, false))
			 ON CONFLICT (post_id) DO UPDATE
			 SET degree_level = EXCLUDED.degree_level,
			     amount = EXCLUDED.amount,
			     essay_required = EXCLUDED.essay_required`,
			postID, in.DegreeLevel, in.Amount, in.EssayRequired,
		)
		return err
	case "research":
		_, err := tx.Exec(ctx,
			`INSERT INTO research_details (post_id, research_field, contract_type, job_type, salary)
			 VALUES ($1, $2, $3, $4, $5)
			 ON CONFLICT (post_id) DO UPDATE
			 SET research_field = EXCLUDED.research_field,
			     contract_type = EXCLUDED.contract_type,
			     job_type = EXCLUDED.job_type,
			     salary = EXCLUDED.salary`,
			postID, in.ResearchField, in.ContractType, in.JobType, in.Salary,
		)
		return err
	}
	return fmt.Errorf("unknown post type %q", postType)
}

func scanPost(rows pgx.Rows) (Post, error) {
	var p Post
	var deadline *time.Time
	err := rows.Scan(
		&p.ID, &p.PostType, &p.Title, &p.Description, &p.Status,
		&deadline, &p.CreatedAt, &p.UpdatedAt,
		&p.DegreeLevel, &p.Amount, &p.EssayRequired,
		&p.ResearchField, &p.ContractType, &p.JobType, &p.Salary,
	)
	if deadline != nil {
		d := deadline.UTC().Format(dates.DatabaseLayout)
		p.Deadline = &d
	}
	return p, err
}
