// edumatch-platform-service
//
// Backend for the EduMatch education marketplace:
//   - explore listings (programmes / scholarships / research) with
//     URL-addressable filter, sort and pagination state
//   - institution post CRUD and public institution profiles
//   - application lifecycle with a status state machine
//   - notification queue + SMTP dispatch, gated by per-user settings
//   - OCR-assisted document validation with a keyword fallback
//   - cron-driven wishlist-deadline reminders
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"edumatch/platform-service/internal/application"
	"edumatch/platform-service/internal/config"
	"edumatch/platform-service/internal/db"
	"edumatch/platform-service/internal/docval"
	"edumatch/platform-service/internal/explore"
	"edumatch/platform-service/internal/institution"
	"edumatch/platform-service/internal/notify"
	"edumatch/platform-service/internal/posts"
	"edumatch/platform-service/internal/scheduler"
	"edumatch/platform-service/internal/support"
)

const version = "1.0.0"

func main() {
	// ── Config ──────────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[platform] Config error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ── PostgreSQL ───────────────────────────────────────────────────────────
	log.Println("[platform] Connecting to PostgreSQL…")
	pool, err := db.NewPostgresPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("[platform] PostgreSQL: %v", err)
	}
	defer pool.Close()
	log.Println("[platform] PostgreSQL connected ✓")

	// ── Redis ────────────────────────────────────────────────────────────────
	log.Println("[platform] Connecting to Redis…")
	rdb, err := db.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatalf("[platform] Redis: %v", err)
	}
	defer rdb.Close()
	log.Println("[platform] Redis connected ✓")

	// ── Notification pipeline ────────────────────────────────────────────────
	mailer := notify.NewMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.SMTPFrom)
	settings := notify.NewPostgresSettings(pool)
	dispatcher := notify.NewDispatcher(settings, mailer)
	queue := notify.NewQueue(rdb)
	worker := notify.NewWorker(queue, dispatcher)
	go worker.Run(ctx)

	// ── Wishlist deadline sweep ──────────────────────────────────────────────
	sched := scheduler.New(pool, queue, cfg.WishlistCronSpec, cfg.WishlistReminderDays)
	if err := sched.Start(ctx); err != nil {
		log.Fatalf("[platform] Scheduler: %v", err)
	}
	defer sched.Stop()

	// ── HTTP server ──────────────────────────────────────────────────────────
	mux := http.NewServeMux()
	mux.HandleFunc("/health", healthHandler)

	explore.NewHandler(explore.NewStore(pool)).RegisterRoutes(mux)
	posts.NewHandler(pool).RegisterRoutes(mux)
	institution.NewHandler(pool).RegisterRoutes(mux)
	application.NewHandler(application.NewService(pool, rdb, queue)).RegisterRoutes(mux)
	notify.NewHandler(queue, worker, dispatcher).RegisterRoutes(mux)
	docval.NewHandler(docval.NewValidator(cfg.OCREndpoint, cfg.OCRAPIKey)).RegisterRoutes(mux)
	support.NewHandler(dispatcher, cfg.SupportInbox).RegisterRoutes(mux)
	sched.RegisterRoutes(mux)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("[platform] v%s listening on :%s", version, cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("[platform] HTTP server error: %v", err)
		}
	}()

	// ── Graceful shutdown ────────────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("[platform] Shutting down…")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[platform] Shutdown error: %v", err)
	}
	log.Println("[platform] Stopped.")
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"status":  "ok",
		"service": "platform-service",
		"version": version,
	})
}
