//go:build integration

package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/tradegate/tradegate/internal/model"
	"github.com/tradegate/tradegate/internal/testutil"
)

func newAuthEventTestEnv(t *testing.T) (context.Context, *AuthEventRepository) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration tests in short mode")
	}

	ctx := context.Background()
	dbURL := testutil.RequireEnv(t, "DATABASE_URL")

	repo, err := New(ctx, dbURL)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	t.Cleanup(repo.Close)

	unlock, err := testutil.AcquireDBLock(ctx, repo.Pool())
	if err != nil {
		t.Fatalf("acquire db lock: %v", err)
	}
	t.Cleanup(func() {
		_ = unlock()
	})

	if err := testutil.ResetAuthEventsSchema(ctx, repo.Pool()); err != nil {
		t.Fatalf("reset auth_events schema: %v", err)
	}

	return ctx, NewAuthEventRepository(repo)
}

func makeAuthEvents(n int) []*model.AuthEvent {
	events := make([]*model.AuthEvent, 0, n)
	now := time.Now().UTC()
	for i := 0; i < n; i++ {
		events = append(events, &model.AuthEvent{
			ID:         ulid.Make().String(),
			EventID:    fmt.Sprintf("%d-%d", now.UnixMilli(), i),
			Kind:       model.AuthEventLogin,
			Outcome:    model.OutcomeSuccess,
			EmailHash:  "0123456789abcdef",
			OccurredAt: now,
		})
	}
	return events
}

func TestIntegrationAuthEventRepository_BulkInsert(t *testing.T) {
	ctx, repo := newAuthEventTestEnv(t)

	events := makeAuthEvents(5)
	if err := repo.BulkInsert(ctx, events); err != nil {
		t.Fatalf("BulkInsert failed: %v", err)
	}

	count, err := repo.CountAuthEvents(ctx)
	if err != nil {
		t.Fatalf("CountAuthEvents failed: %v", err)
	}
	if count != 5 {
		t.Errorf("CountAuthEvents = %d, want 5", count)
	}
}

// Replaying a batch after a crash-before-ack must not duplicate rows;
// the stream message ID is the idempotency key.
func TestIntegrationAuthEventRepository_BulkInsert_Idempotent(t *testing.T) {
	ctx, repo := newAuthEventTestEnv(t)

	events := makeAuthEvents(4)
	if err := repo.BulkInsert(ctx, events); err != nil {
		t.Fatalf("BulkInsert (first) failed: %v", err)
	}

	// Same event IDs, fresh row IDs, as a reprocessed batch would have.
	for _, event := range events {
		event.ID = ulid.Make().String()
	}
	if err := repo.BulkInsert(ctx, events); err != nil {
		t.Fatalf("BulkInsert (replay) failed: %v", err)
	}

	count, err := repo.CountAuthEvents(ctx)
	if err != nil {
		t.Fatalf("CountAuthEvents failed: %v", err)
	}
	if count != 4 {
		t.Errorf("CountAuthEvents = %d, want 4 after replay", count)
	}
}

func TestIntegrationAuthEventRepository_BulkInsert_Empty(t *testing.T) {
	ctx, repo := newAuthEventTestEnv(t)

	if err := repo.BulkInsert(ctx, nil); err != nil {
		t.Fatalf("BulkInsert with no events should be a no-op, got %v", err)
	}
}
