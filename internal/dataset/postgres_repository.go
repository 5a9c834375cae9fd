package dataset

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository is a PostgreSQL implementation of Repository. Bundles
// are stored whole as JSONB; the dataset is read-once per process, so there
// is no row-level access pattern to optimize for.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL dataset repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// SaveBundle stores a validated bundle as the latest dataset.
func (r *PostgresRepository) SaveBundle(ctx context.Context, b *Bundle) error {
	payload, err := json.Marshal(b)
	if err != nil {
		return fmt.Errorf("marshal bundle: %w", err)
	}

	query := `
		INSERT INTO dataset_bundles (version, payload, stored_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (version) DO UPDATE SET payload = $2, stored_at = $3
	`

	_, err = r.pool.Exec(ctx, query, b.Version, payload, time.Now())
	return err
}

// LatestBundle retrieves the most recently stored bundle.
func (r *PostgresRepository) LatestBundle(ctx context.Context) (*Bundle, error) {
	query := `
		SELECT payload
		FROM dataset_bundles
		ORDER BY stored_at DESC
		LIMIT 1
	`

	var payload []byte
	err := r.pool.QueryRow(ctx, query).Scan(&payload)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNoSnapshot
		}
		return nil, err
	}

	var b Bundle
	if err := json.Unmarshal(payload, &b); err != nil {
		return nil, fmt.Errorf("unmarshal stored bundle: %w", err)
	}
	return &b, nil
}

// Ensure PostgresRepository implements Repository interface.
var _ Repository = (*PostgresRepository)(nil)
