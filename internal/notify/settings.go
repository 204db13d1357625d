package notify

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// SettingsLookup answers whether a user receives email for a category.
type SettingsLookup interface {
	Enabled(ctx context.Context, userID, category string) (bool, error)
}

// PostgresSettings reads the notification_settings table. A user with no row
// for a category is treated as opted in.
type PostgresSettings struct {
	pool *pgxpool.Pool
}

// NewPostgresSettings returns a PostgresSettings over the given pool.
func NewPostgresSettings(pool *pgxpool.Pool) *PostgresSettings {
	return &PostgresSettings{pool: pool}
}

// Enabled reports whether email for the category is enabled for the user.
func (s *PostgresSettings) Enabled(ctx context.Context, userID, category string) (bool, error) {
	var enabled bool
	err := s.pool.QueryRow(ctx,
		`SELECT COALESCE(
		   (SELECT enabled FROM notification_settings
		    WHERE user_id = $1 AND category = $2),
		   true)`,
		userID, category,
	).Scan(&enabled)
	if err != nil {
		return false, fmt.Errorf("settings lookup (%s, %s): %w", userID, category, err)
	}
	return enabled, nil
}
