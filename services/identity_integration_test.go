package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/guardian-portal/api/model"
	"github.com/guardian-portal/api/utils/auth"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupIntegrationDB(t *testing.T) *gorm.DB {
	t.Helper()

	if os.Getenv("RUN_INTEGRATION_TESTS") != "true" {
		t.Skip("Skipping integration test. Set RUN_INTEGRATION_TESTS=true to run.")
	}

	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		os.Getenv("DB_HOST"), os.Getenv("DB_USER_NAME"), os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"), os.Getenv("DB_PORT"),
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}

	if err := db.AutoMigrate(&model.User{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	return db
}

func seedAccount(t *testing.T, db *gorm.DB, username, email, phone, password string) *model.User {
	t.Helper()

	hash, err := auth.HashPassword(password)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &model.User{
		Username:     username,
		Email:        email,
		Phone:        phone,
		PasswordHash: hash,
		Role:         model.RoleStudent,
		IsActive:     true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to seed account: %v", err)
	}

	t.Cleanup(func() {
		db.Unscoped().Delete(user)
	})

	return user
}

func TestResolveByEachIdentifier(t *testing.T) {
	db := setupIntegrationDB(t)
	svc := NewIdentityService(db)
	ctx := context.Background()

	seeded := seedAccount(t, db, "resolve_target", "resolve@test.local", "9876500001", "correct-horse-1")

	for _, identifier := range []string{"resolve@test.local", "9876500001", "resolve_target"} {
		user, claims, err := svc.Resolve(ctx, identifier, "correct-horse-1")
		if err != nil {
			t.Fatalf("Resolve(%q) failed: %v", identifier, err)
		}
		if user.ID != seeded.ID {
			t.Errorf("Resolve(%q) found user %d, want %d", identifier, user.ID, seeded.ID)
		}
		if claims.Username != "resolve_target" {
			t.Errorf("claims username = %q", claims.Username)
		}
	}
}

func TestResolveUsernameFallbackForNumericUsername(t *testing.T) {
	db := setupIntegrationDB(t)
	svc := NewIdentityService(db)
	ctx := context.Background()

	// Username that looks like a phone number: the phone lookup misses,
	// the username fallback must still find it
	seeded := seedAccount(t, db, "7000000001", "numeric@test.local", "9876500002", "correct-horse-2")

	user, _, err := svc.Resolve(ctx, "7000000001", "correct-horse-2")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if user.ID != seeded.ID {
		t.Errorf("found user %d, want %d", user.ID, seeded.ID)
	}
}

func TestResolveErrorOrder(t *testing.T) {
	db := setupIntegrationDB(t)
	svc := NewIdentityService(db)
	ctx := context.Background()

	seeded := seedAccount(t, db, "error_order", "errors@test.local", "9876500003", "correct-horse-3")

	t.Run("unknown identifier", func(t *testing.T) {
		_, _, err := svc.Resolve(ctx, "nobody@test.local", "whatever")
		if !errors.Is(err, ErrAccountNotFound) {
			t.Errorf("err = %v, want ErrAccountNotFound", err)
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		_, _, err := svc.Resolve(ctx, "errors@test.local", "wrong")
		if !errors.Is(err, ErrBadCredential) {
			t.Errorf("err = %v, want ErrBadCredential", err)
		}
	})

	t.Run("suspended beats correct credential", func(t *testing.T) {
		db.Model(seeded).Update("is_suspended", true)
		defer db.Model(seeded).Update("is_suspended", false)

		_, _, err := svc.Resolve(ctx, "errors@test.local", "correct-horse-3")
		if !errors.Is(err, ErrAccountSuspended) {
			t.Errorf("err = %v, want ErrAccountSuspended", err)
		}
	})

	t.Run("disabled account", func(t *testing.T) {
		db.Model(seeded).Update("is_active", false)
		defer db.Model(seeded).Update("is_active", true)

		_, _, err := svc.Resolve(ctx, "errors@test.local", "correct-horse-3")
		if !errors.Is(err, ErrAccountDisabled) {
			t.Errorf("err = %v, want ErrAccountDisabled", err)
		}
	})
}
