//go:build integration

package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/tradegate/tradegate/internal/testutil"
)

func newUserTestEnv(t *testing.T) (context.Context, *Repository) {
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

	if err := testutil.ResetUsersSchema(ctx, repo.Pool()); err != nil {
		t.Fatalf("reset users schema: %v", err)
	}

	return ctx, repo
}

func TestIntegrationUserRepository_CreateAndGet(t *testing.T) {
	ctx, repo := newUserTestEnv(t)

	user := testutil.NewTestUser(t, "create")

	if err := repo.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	retrieved, err := repo.GetUserByEmail(ctx, user.Email)
	if err != nil {
		t.Fatalf("GetUserByEmail failed: %v", err)
	}

	if retrieved.ID != user.ID {
		t.Errorf("ID mismatch: got %q, want %q", retrieved.ID, user.ID)
	}
	if retrieved.PasswordHash != user.PasswordHash {
		t.Error("PasswordHash mismatch")
	}
	if retrieved.Phone != user.Phone {
		t.Errorf("Phone mismatch: got %q, want %q", retrieved.Phone, user.Phone)
	}
	if retrieved.CreatedAt.IsZero() {
		t.Error("CreatedAt should be set")
	}
}

func TestIntegrationUserRepository_DuplicateEmail(t *testing.T) {
	ctx, repo := newUserTestEnv(t)

	first := testutil.NewTestUser(t, "dupemail")
	if err := repo.CreateUser(ctx, first); err != nil {
		t.Fatalf("CreateUser (first) failed: %v", err)
	}

	second := testutil.NewTestUser(t, "dupemail2")
	second.Email = first.Email // same email, different phone

	err := repo.CreateUser(ctx, second)
	if !errors.Is(err, ErrEmailExists) {
		t.Errorf("Expected ErrEmailExists, got: %v", err)
	}
}

func TestIntegrationUserRepository_DuplicatePhone(t *testing.T) {
	ctx, repo := newUserTestEnv(t)

	first := testutil.NewTestUser(t, "dupphone")
	if err := repo.CreateUser(ctx, first); err != nil {
		t.Fatalf("CreateUser (first) failed: %v", err)
	}

	second := testutil.NewTestUser(t, "dupphone2")
	second.Phone = first.Phone // same phone, different email

	err := repo.CreateUser(ctx, second)
	if !errors.Is(err, ErrPhoneExists) {
		t.Errorf("Expected ErrPhoneExists, got: %v", err)
	}
}

func TestIntegrationUserRepository_GetByEmail_NotFound(t *testing.T) {
	ctx, repo := newUserTestEnv(t)

	_, err := repo.GetUserByEmail(ctx, "nobody@example.com")
	if !errors.Is(err, ErrUserNotFound) {
		t.Errorf("Expected ErrUserNotFound, got: %v", err)
	}
}

func TestIntegrationUserRepository_CountUsers(t *testing.T) {
	ctx, repo := newUserTestEnv(t)

	before, err := repo.CountUsers(ctx)
	if err != nil {
		t.Fatalf("CountUsers failed: %v", err)
	}

	for i := 0; i < 3; i++ {
		if err := repo.CreateUser(ctx, testutil.NewTestUser(t, "count")); err != nil {
			t.Fatalf("CreateUser failed: %v", err)
		}
	}

	after, err := repo.CountUsers(ctx)
	if err != nil {
		t.Fatalf("CountUsers failed: %v", err)
	}
	if after != before+3 {
		t.Errorf("CountUsers = %d, want %d", after, before+3)
	}
}
