package repositories

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/blogem/tmoid/database"
	"github.com/blogem/tmoid/models"
	_ "github.com/mattn/go-sqlite3"
)

func setupTestDB(t *testing.T) *sql.DB {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	// Initialize test database using the actual migration system
	db, err := database.Open(context.Background(), dbPath)
	if err != nil {
		t.Fatalf("Failed to initialize test database: %v", err)
	}
	t.Cleanup(func() {
		db.Close()
	})

	return db
}

func TestUserRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	expires := time.Now().Add(time.Hour).Truncate(time.Second)
	user := &models.User{
		Provider:       "tmoid",
		ProviderID:     "u42",
		AccessToken:    "tok1",
		TokenType:      "Bearer",
		TokenExpiresAt: &expires,
		Scope:          "TMO_ID_profile",
	}

	// Test Create
	if err := repo.Create(ctx, user); err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}
	if user.ID == 0 {
		t.Error("Expected user ID to be set after creation")
	}

	// Test GetByProviderID
	found, err := repo.GetByProviderID(ctx, "tmoid", "u42")
	if err != nil {
		t.Fatalf("Failed to get user by provider id: %v", err)
	}
	if found.ID != user.ID {
		t.Errorf("Expected ID %d, got %d", user.ID, found.ID)
	}
	if found.AccessToken != "tok1" {
		t.Errorf("Expected access token tok1, got %s", found.AccessToken)
	}
	if found.TokenExpiresAt == nil || !found.TokenExpiresAt.Equal(expires) {
		t.Errorf("Expected expiry %v, got %v", expires, found.TokenExpiresAt)
	}
	if found.LastLoginAt != nil {
		t.Errorf("Expected no last login, got %v", found.LastLoginAt)
	}

	// Duplicate provider identity is rejected
	if err := repo.Create(ctx, &models.User{Provider: "tmoid", ProviderID: "u42"}); err == nil {
		t.Error("Expected error when creating duplicate provider identity")
	}

	// Test UpdateToken
	now := time.Now().Truncate(time.Second)
	user.AccessToken = "tok2"
	user.LastLoginAt = &now
	if err := repo.UpdateToken(ctx, user); err != nil {
		t.Fatalf("Failed to update token: %v", err)
	}

	updated, err := repo.GetByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("Failed to get updated user: %v", err)
	}
	if updated.AccessToken != "tok2" {
		t.Errorf("Expected updated access token tok2, got %s", updated.AccessToken)
	}
	if updated.LastLoginAt == nil || !updated.LastLoginAt.Equal(now) {
		t.Errorf("Expected last login %v, got %v", now, updated.LastLoginAt)
	}

	// Test not found
	if _, err := repo.GetByProviderID(ctx, "tmoid", "nobody"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
	if err := repo.UpdateToken(ctx, &models.User{ID: 9999}); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound on update, got %v", err)
	}
}

func TestAuditRepository(t *testing.T) {
	db := setupTestDB(t)
	users := NewUserRepository(db)
	repo := NewAuditRepository(db)
	ctx := context.Background()

	user := &models.User{Provider: "tmoid", ProviderID: "u1"}
	other := &models.User{Provider: "tmoid", ProviderID: "u2"}
	for _, u := range []*models.User{user, other} {
		if err := users.Create(ctx, u); err != nil {
			t.Fatalf("Failed to create user: %v", err)
		}
	}

	base := time.Now().UTC()
	attempts := []*models.LoginAttempt{
		{AttemptID: "a1", Timestamp: base, Provider: "tmoid", Outcome: "fail", Reason: "missing code", StatusCode: 400},
		{AttemptID: "a2", Timestamp: base.Add(time.Second), Provider: "tmoid", Outcome: "success", StatusCode: 200, UserID: &user.ID, IPAddress: "192.0.2.1"},
		{AttemptID: "a3", Timestamp: base.Add(2 * time.Second), Provider: "tmoid", Outcome: "success", StatusCode: 200, UserID: &other.ID, IPAddress: "198.51.100.7"},
		{AttemptID: "a4", Timestamp: base.Add(3 * time.Second), Provider: "tmoid", Outcome: "success", StatusCode: 200, UserID: &user.ID, IPAddress: "192.0.2.1"},
	}
	for _, a := range attempts {
		if err := repo.Create(ctx, a); err != nil {
			t.Fatalf("Failed to create login attempt: %v", err)
		}
		if a.ID == 0 {
			t.Error("Expected attempt ID to be set after creation")
		}
	}

	recent, err := repo.RecentForUser(ctx, user.ID, 10)
	if err != nil {
		t.Fatalf("Failed to get recent attempts: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("Expected 2 attempts, got %d", len(recent))
	}
	if recent[0].AttemptID != "a4" || recent[1].AttemptID != "a2" {
		t.Errorf("Expected a4, a2 newest first, got %s, %s", recent[0].AttemptID, recent[1].AttemptID)
	}
	for _, a := range recent {
		if a.UserID == nil || *a.UserID != user.ID {
			t.Errorf("Expected only attempts of user %d, got %v", user.ID, a.UserID)
		}
	}

	// Another user's attempts stay out of the result
	recent, err = repo.RecentForUser(ctx, other.ID, 10)
	if err != nil {
		t.Fatalf("Failed to get recent attempts: %v", err)
	}
	if len(recent) != 1 || recent[0].AttemptID != "a3" {
		t.Errorf("Expected only a3 for the other user, got %v", recent)
	}

	limited, err := repo.RecentForUser(ctx, user.ID, 1)
	if err != nil {
		t.Fatalf("Failed to get recent attempts: %v", err)
	}
	if len(limited) != 1 {
		t.Errorf("Expected limit to apply, got %d attempts", len(limited))
	}
}
