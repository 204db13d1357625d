package application

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"edumatch/platform-service/internal/notify"
)

// Application is the JSON shape returned to clients.
type Application struct {
	ID            string          `json:"id"`
	PostID        string          `json:"postId"`
	PostTitle     string          `json:"postTitle"`
	CurrentStatus string          `json:"currentStatus"`
	HistoryLog    json.RawMessage `json:"historyLog"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// Service encapsulates the application lifecycle. It is transport-agnostic:
// handlers call it, and a status change fans out to the notification queue
// and a Redis event for listening clients.
type Service struct {
	pool  *pgxpool.Pool
	rdb   *redis.Client
	queue *notify.Queue
}

// NewService returns a configured Service.
func NewService(pool *pgxpool.Pool, rdb *redis.Client, queue *notify.Queue) *Service {
	return &Service{pool: pool, rdb: rdb, queue: queue}
}

// ── Sentinel errors ────────────────────────────────────────────────────────

// ErrNotFound is returned when an application is missing or does not belong
// to the caller.
var ErrNotFound = fmt.Errorf("application not found")

// ValidationError wraps a user-facing validation message.
type ValidationError struct{ Msg string }

func (e *ValidationError) Error() string { return e.Msg }

// ── Business logic ─────────────────────────────────────────────────────────

const applicationColumns = `
	a.id, a.post_id, p.title, a.current_status, a.history_log,
	a.created_at, a.updated_at`

// ListApplications returns all of the user's applications, newest first.
func (s *Service) ListApplications(ctx context.Context, userID string) ([]Application, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT`+applicationColumns+`
		 FROM applications a
		 JOIN posts p ON p.id = a.post_id
		 WHERE a.user_id = $1
		 ORDER BY a.updated_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("listApplications query: %w", err)
	}
	defer rows.Close()

	apps := make([]Application, 0)
	for rows.Next() {
		var a Application
		if err := rows.Scan(
			&a.ID, &a.PostID, &a.PostTitle, &a.CurrentStatus, &a.HistoryLog,
			&a.CreatedAt, &a.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("listApplications scan: %w", err)
		}
		apps = append(apps, a)
	}
	return apps, rows.Err()
}

// Submit creates an application in SUBMITTED state for the given post. A
// duplicate (user, post) pair is a validation error. The applicant gets an
// application-submitted email (ungated) via the queue.
func (s *Service) Submit(ctx context.Context, userID, postID string) (*Application, error) {
	var a Application
	err := s.pool.QueryRow(ctx,
		`WITH ins AS (
		   INSERT INTO applications (user_id, post_id, current_status, history_log)
		   VALUES ($1, $2, 'SUBMITTED', '[]'::jsonb)
		   ON CONFLICT (user_id, post_id) DO NOTHING
		   RETURNING *
		 )
		 SELECT ins.id, ins.post_id, p.title, ins.current_status, ins.history_log,
		        ins.created_at, ins.updated_at
		 FROM ins JOIN posts p ON p.id = ins.post_id`,
		userID, postID,
	).Scan(
		&a.ID, &a.PostID, &a.PostTitle, &a.CurrentStatus, &a.HistoryLog,
		&a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, &ValidationError{Msg: "application already exists for this post"}
	}

	s.enqueueEmail(ctx, userID, notify.EventApplicationSubmitted, map[string]string{
		"postTitle": a.PostTitle,
	})
	s.publishEvent(ctx, "EVENT_APPLICATION_SUBMITTED", map[string]string{
		"applicationId": a.ID, "userId": userID, "postId": postID,
	})

	return &a, nil
}

// UpdateStatus transitions an application to a new status on behalf of the
// owning institution. Returns ErrNotFound when the application does not
// exist, and a ValidationError when the state machine rejects the move.
func (s *Service) UpdateStatus(ctx context.Context, appID, newStatusStr string) (*Application, error) {
	newStatus, err := ParseStatus(newStatusStr)
	if err != nil {
		return nil, &ValidationError{Msg: err.Error()}
	}

	var currentStatusStr, applicantID string
	err = s.pool.QueryRow(ctx,
		`SELECT current_status, user_id FROM applications WHERE id = $1`,
		appID,
	).Scan(&currentStatusStr, &applicantID)
	if err != nil {
		return nil, ErrNotFound
	}

	currentStatus, _ := ParseStatus(currentStatusStr)
	if !IsTransitionAllowed(currentStatus, newStatus) {
		return nil, &ValidationError{
			Msg: fmt.Sprintf("transition %s to %s is not allowed", currentStatus, newStatus),
		}
	}

	historyEntry, _ := json.Marshal(map[string]string{
		"from": string(currentStatus),
		"to":   string(newStatus),
		"at":   time.Now().UTC().Format(time.RFC3339),
	})

	var a Application
	err = s.pool.QueryRow(ctx,
		`WITH upd AS (
		   UPDATE applications
		   SET current_status = $1::application_status,
		       history_log    = history_log || $2::jsonb,
		       updated_at     = NOW()
		   WHERE id = $3
		   RETURNING *
		 )
		 SELECT upd.id, upd.post_id, p.title, upd.current_status, upd.history_log,
		        upd.created_at, upd.updated_at
		 FROM upd JOIN posts p ON p.id = upd.post_id`,
		string(newStatus),
		fmt.Sprintf("[%s]", historyEntry),
		appID,
	).Scan(
		&a.ID, &a.PostID, &a.PostTitle, &a.CurrentStatus, &a.HistoryLog,
		&a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("updateStatus: %w", err)
	}

	if Notifies(newStatus) {
		s.enqueueEmail(ctx, applicantID, notify.EventApplicationStatus, map[string]string{
			"postTitle": a.PostTitle,
			"status":    string(newStatus),
		})
	}
	s.publishEvent(ctx, "EVENT_APPLICATION_STATUS", map[string]string{
		"applicationId": appID,
		"userId":        applicantID,
		"from":          string(currentStatus),
		"to":            string(newStatus),
	})

	return &a, nil
}

// enqueueEmail looks up the applicant's address and queues a notification.
// Non-fatal: a queue or lookup failure is logged, never surfaced.
func (s *Service) enqueueEmail(ctx context.Context, userID string, et notify.EventType, meta map[string]string) {
	var email string
	err := s.pool.QueryRow(ctx, `SELECT email FROM users WHERE id = $1`, userID).Scan(&email)
	if err != nil {
		slog.Warn("applicant email lookup failed", "userId", userID, "err", err)
		return
	}

	if err := s.queue.Enqueue(ctx, notify.NewMessage(et, userID, email, meta)); err != nil {
		slog.Warn("enqueue notification failed", "type", et, "userId", userID, "err", err)
	}
}

// publishEvent publishes a client-facing event to Redis (non-fatal).
func (s *Service) publishEvent(ctx context.Context, channel string, payload map[string]string) {
	event, _ := json.Marshal(payload)
	if err := s.rdb.Publish(ctx, channel, event).Err(); err != nil {
		slog.Warn("publish event failed", "channel", channel, "err", err)
	}
}
