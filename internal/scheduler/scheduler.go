// Package scheduler wires up the cron job that reminds users about wishlist
// deadlines falling inside the reminder window.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/robfig/cron/v3"

	"edumatch/platform-service/internal/api"
	"edumatch/platform-service/internal/dates"
	"edumatch/platform-service/internal/model"
	"edumatch/platform-service/internal/notify"
)

// Scheduler wraps robfig/cron and manages the wishlist-deadline sweep. The
// sweep is also exposed at GET /api/cron/wishlist-deadlines so an external
// trigger (or an operator) can run it on demand.
type Scheduler struct {
	cron         *cron.Cron
	pool         *pgxpool.Pool
	queue        *notify.Queue
	spec         string
	reminderDays int
}

// New creates a Scheduler firing on the given cron spec.
func New(pool *pgxpool.Pool, queue *notify.Queue, spec string, reminderDays int) *Scheduler {
	return &Scheduler{
		cron:         cron.New(cron.WithLogger(cron.DefaultLogger)),
		pool:         pool,
		queue:        queue,
		spec:         spec,
		reminderDays: reminderDays,
	}
}

// Start registers the job and starts the scheduler.
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.spec, func() {
		if _, err := s.RunSweep(ctx); err != nil {
			log.Printf("[scheduler] Sweep error: %v", err)
		}
	})
	if err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}

	s.cron.Start()
	log.Printf("[scheduler] Cron started — spec: %s", s.spec)
	return nil
}

// Stop gracefully shuts down the scheduler.
func (s *Scheduler) Stop() {
	s.cron.Stop()
	log.Println("[scheduler] Cron stopped")
}

// RunSweep loads every wishlisted post whose deadline is inside the reminder
// window and enqueues a wishlist-deadline notification per (user, post).
// Returns the number of reminders enqueued.
func (s *Scheduler) RunSweep(ctx context.Context) (int, error) {
	log.Println("[scheduler] Wishlist sweep started")

	entries, err := s.loadDueEntries(ctx)
	if err != nil {
		return 0, fmt.Errorf("load wishlist entries: %w", err)
	}

	if len(entries) == 0 {
		log.Println("[scheduler] No wishlist deadlines in window")
		return 0, nil
	}

	enqueued := 0
	for _, e := range entries {
		daysLeft := dates.CalculateDaysLeft(e.Deadline, time.Now())
		m := notify.NewMessage(notify.EventWishlistDeadline, e.UserID, e.UserEmail, map[string]string{
			"postTitle": e.PostTitle,
			"deadline":  e.Deadline.UTC().Format(dates.DisplayLayout),
			"daysLeft":  strconv.Itoa(daysLeft),
		})
		if err := s.queue.Enqueue(ctx, m); err != nil {
			log.Printf("[scheduler] Enqueue for user %s post %s failed: %v — continuing",
				e.UserID, e.PostID, err)
			continue
		}
		enqueued++
	}

	log.Printf("[scheduler] Wishlist sweep complete — enqueued=%d of %d", enqueued, len(entries))
	return enqueued, nil
}

// loadDueEntries fetches wishlist rows whose post deadline falls within the
// next reminderDays days and has not passed yet.
func (s *Scheduler) loadDueEntries(ctx context.Context) ([]model.WishlistEntry, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT w.user_id, u.email, p.id, p.title, p.deadline
		 FROM wishlists w
		 JOIN users u ON u.id = w.user_id
		 JOIN posts p ON p.id = w.post_id
		 WHERE p.status = 'PUBLISHED'
		   AND p.deadline IS NOT NULL
		   AND p.deadline >= CURRENT_DATE
		   AND p.deadline <= CURRENT_DATE + $1 * INTERVAL '1 day'`,
		s.reminderDays,
	)
	if err != nil {
		return nil, fmt.Errorf("query wishlists: %w", err)
	}
	defer rows.Close()

	var entries []model.WishlistEntry
	for rows.Next() {
		var e model.WishlistEntry
		if err := rows.Scan(&e.UserID, &e.UserEmail, &e.PostID, &e.PostTitle, &e.Deadline); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// RegisterRoutes mounts the manual trigger on mux.
func (s *Scheduler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/cron/wishlist-deadlines", s.handleTrigger)
}

// handleTrigger handles GET /api/cron/wishlist-deadlines
func (s *Scheduler) handleTrigger(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		api.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	enqueued, err := s.RunSweep(r.Context())
	if err != nil {
		log.Printf("[scheduler] Manual sweep error: %v", err)
		api.Error(w, "sweep failed", http.StatusInternalServerError)
		return
	}
	api.OK(w, map[string]int{"enqueued": enqueued})
}
