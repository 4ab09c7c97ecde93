package usecase

import (
	"context"
	"errors"
	"testing"

	"famdo/model"
	"famdo/services"
)

const testPassword = "hunter42!?"

func TestCreateUser(t *testing.T) {
	ctx := context.Background()

	t.Run("Password Hashed And ID Assigned", func(t *testing.T) {
		users := newFakeUserStore()
		svc := NewUsersService(users)

		user := &model.User{Username: "alice", Email: "alice@example.com", Password: testPassword}
		if err := svc.CreateUser(ctx, user); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if user.UserID == "" {
			t.Error("expected generated user ID")
		}
		if user.Password == testPassword {
			t.Error("password must not be stored in plain text")
		}
		if match, _ := services.VerifyPassword(user.Password, testPassword); !match {
			t.Error("stored hash should verify against the original password")
		}
	})

	t.Run("Duplicate Username Conflicts", func(t *testing.T) {
		users := newFakeUserStore()
		svc := NewUsersService(users)

		first := &model.User{Username: "alice", Password: testPassword}
		if err := svc.CreateUser(ctx, first); err != nil {
			t.Fatalf("first create: %v", err)
		}

		err := svc.CreateUser(ctx, &model.User{Username: "alice", Password: testPassword})
		if !errors.Is(err, ErrConflict) {
			t.Errorf("error = %v, want ErrConflict", err)
		}
	})

	t.Run("Weak Password Rejected", func(t *testing.T) {
		users := newFakeUserStore()
		svc := NewUsersService(users)

		err := svc.CreateUser(ctx, &model.User{Username: "bob", Password: "short"})
		if !errors.Is(err, ErrInvalidOperation) {
			t.Errorf("error = %v, want ErrInvalidOperation", err)
		}
	})
}

func TestAuthenticate(t *testing.T) {
	ctx := context.Background()
	users := newFakeUserStore()
	svc := NewUsersService(users)

	seeded := &model.User{Username: "alice", Password: testPassword}
	if err := svc.CreateUser(ctx, seeded); err != nil {
		t.Fatalf("seeding user: %v", err)
	}

	t.Run("Valid Credentials", func(t *testing.T) {
		user, err := svc.Authenticate(ctx, "alice", testPassword)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if user.UserID != seeded.UserID {
			t.Errorf("user = %q, want %q", user.UserID, seeded.UserID)
		}
	})

	t.Run("Wrong Password", func(t *testing.T) {
		_, err := svc.Authenticate(ctx, "alice", "wrong99!!")
		if !errors.Is(err, ErrForbidden) {
			t.Errorf("error = %v, want ErrForbidden", err)
		}
	})

	t.Run("Unknown Username", func(t *testing.T) {
		_, err := svc.Authenticate(ctx, "ghost", testPassword)
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("error = %v, want ErrNotFound", err)
		}
	})
}
