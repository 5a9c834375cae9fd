package prefs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository is a PostgreSQL implementation of Repository.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL preferences repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Get retrieves the preferences record for a user.
func (r *PostgresRepository) Get(ctx context.Context, userID string) (*Record, error) {
	query := `
		SELECT user_id, preferences, created_at, updated_at
		FROM user_preferences
		WHERE user_id = $1
	`

	var (
		rec     Record
		payload []byte
	)
	err := r.pool.QueryRow(ctx, query, userID).Scan(
		&rec.UserID,
		&payload,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPreferencesNotFound
		}
		return nil, err
	}

	if err := json.Unmarshal(payload, &rec.Preferences); err != nil {
		return nil, fmt.Errorf("unmarshal stored preferences: %w", err)
	}

	return &rec, nil
}

// Upsert stores the preferences record for a user.
func (r *PostgresRepository) Upsert(ctx context.Context, rec *Record) error {
	payload, err := json.Marshal(rec.Preferences)
	if err != nil {
		return fmt.Errorf("marshal preferences: %w", err)
	}

	query := `
		INSERT INTO user_preferences (user_id, preferences, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id) DO UPDATE SET preferences = $2, updated_at = $4
	`

	_, err = r.pool.Exec(ctx, query, rec.UserID, payload, rec.CreatedAt, rec.UpdatedAt)
	return err
}

// Delete removes a user's saved preferences.
func (r *PostgresRepository) Delete(ctx context.Context, userID string) error {
	query := `DELETE FROM user_preferences WHERE user_id = $1`
	_, err := r.pool.Exec(ctx, query, userID)
	return err
}

// Ensure PostgresRepository implements Repository interface.
var _ Repository = (*PostgresRepository)(nil)
