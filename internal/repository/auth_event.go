package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/tradegate/tradegate/internal/model"
)

// AuthEventRepository provides database access for audit events.
type AuthEventRepository struct {
	repo *Repository
}

// NewAuthEventRepository creates a new AuthEventRepository.
func NewAuthEventRepository(repo *Repository) *AuthEventRepository {
	return &AuthEventRepository{repo: repo}
}

// BulkInsert inserts multiple audit events with idempotency via
// ON CONFLICT DO NOTHING on the stream message ID.
func (r *AuthEventRepository) BulkInsert(ctx context.Context, events []*model.AuthEvent) error {
	if len(events) == 0 {
		return nil
	}

	batch := &pgx.Batch{}

	query := `
		INSERT INTO auth_events (
			id, event_id, kind, outcome, email_hash, occurred_at, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, NOW())
		ON CONFLICT (event_id) DO NOTHING
	`

	for _, event := range events {
		batch.Queue(query,
			event.ID,
			event.EventID,
			event.Kind,
			event.Outcome,
			event.EmailHash,
			event.OccurredAt,
		)
	}

	results := r.repo.pool.SendBatch(ctx, batch)
	defer results.Close()

	for i := 0; i < len(events); i++ {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("batch insert event %d: %w", i, err)
		}
	}

	return nil
}

// CountAuthEvents returns the number of persisted audit events.
func (r *AuthEventRepository) CountAuthEvents(ctx context.Context) (int64, error) {
	var count int64
	if err := r.repo.pool.QueryRow(ctx, `SELECT COUNT(*) FROM auth_events`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count auth events: %w", err)
	}
	return count, nil
}
