// Package config loads and validates environment variables at startup.
// Fail-fast: if a required variable is missing, the process exits with an error.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all runtime configuration for the platform service.
type Config struct {
	Port        string
	DatabaseURL string
	RedisURL    string

	// SMTP transport for outbound notification email.
	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	SMTPFrom     string

	// OCR model-serving endpoint used for document validation.
	// Empty means the keyword fallback is used for every request.
	OCREndpoint string
	OCRAPIKey   string

	// Address support-request email is delivered to.
	SupportInbox string

	// Cron spec for the wishlist-deadline sweep, e.g. "@daily".
	WishlistCronSpec string
	// How many days before a deadline the reminder fires.
	WishlistReminderDays int
}

// Load reads environment variables and returns a validated Config.
func Load() (*Config, error) {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		return nil, fmt.Errorf("REDIS_URL is required")
	}

	port := os.Getenv("PLATFORM_PORT")
	if port == "" {
		port = "8080"
	}

	smtpPort := 587
	if s := os.Getenv("SMTP_PORT"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 1 {
			return nil, fmt.Errorf("SMTP_PORT must be a positive integer, got %q", s)
		}
		smtpPort = v
	}

	from := os.Getenv("SMTP_FROM")
	if from == "" {
		from = "no-reply@edumatch.app"
	}

	supportInbox := os.Getenv("SUPPORT_INBOX")
	if supportInbox == "" {
		supportInbox = "support@edumatch.app"
	}

	cronSpec := os.Getenv("WISHLIST_CRON_SPEC")
	if cronSpec == "" {
		cronSpec = "@daily"
	}

	reminderDays := 7
	if s := os.Getenv("WISHLIST_REMINDER_DAYS"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 1 {
			return nil, fmt.Errorf("WISHLIST_REMINDER_DAYS must be a positive integer, got %q", s)
		}
		reminderDays = v
	}

	return &Config{
		Port:                 port,
		DatabaseURL:          dbURL,
		RedisURL:             redisURL,
		SMTPHost:             os.Getenv("SMTP_HOST"),
		SMTPPort:             smtpPort,
		SMTPUser:             os.Getenv("SMTP_USER"),
		SMTPPassword:         os.Getenv("SMTP_PASSWORD"),
		SMTPFrom:             from,
		OCREndpoint:          os.Getenv("OCR_ENDPOINT"),
		OCRAPIKey:            os.Getenv("OCR_API_KEY"),
		SupportInbox:         supportInbox,
		WishlistCronSpec:     cronSpec,
		WishlistReminderDays: reminderDays,
	}, nil
}
