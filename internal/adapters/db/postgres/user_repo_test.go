package postgres

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	customErrors "github.com/oleksiikond/contactdeck/internal/domain/auth/errors"
	"github.com/oleksiikond/contactdeck/internal/domain/user/model"
)

func setupDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&model.User{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func testUser() model.User {
	return model.User{
		ID:           uuid.New(),
		Username:     "agent007",
		Email:        "agent007@gmail.com",
		PasswordHash: "h",
		Role:         model.RoleUser,
	}
}

func TestUserRepo_CreateAndLookups(t *testing.T) {
	repo := NewUserRepo(setupDB(t))
	ctx := context.Background()
	user := testUser()

	id, err := repo.CreateUser(ctx, user)
	if err != nil || id != user.ID {
		t.Fatalf("create: %v", err)
	}

	got, err := repo.GetUserByUsername(ctx, "agent007")
	if err != nil || got.ID != user.ID {
		t.Fatalf("by username: %v", err)
	}
	got, err = repo.GetUserByEmail(ctx, "agent007@gmail.com")
	if err != nil || got.ID != user.ID {
		t.Fatalf("by email: %v", err)
	}
	got, err = repo.GetUserByID(ctx, user.ID)
	if err != nil || got.Username != "agent007" {
		t.Fatalf("by id: %v", err)
	}
	if got.Confirmed {
		t.Fatal("new user must be unconfirmed")
	}

	if _, err := repo.GetUserByUsername(ctx, "nobody"); !customErrors.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUserRepo_SetRefreshToken(t *testing.T) {
	repo := NewUserRepo(setupDB(t))
	ctx := context.Background()
	user := testUser()
	_, _ = repo.CreateUser(ctx, user)

	if err := repo.SetRefreshToken(ctx, user.ID, "tok-1"); err != nil {
		t.Fatal(err)
	}
	if err := repo.SetRefreshToken(ctx, user.ID, "tok-2"); err != nil {
		t.Fatal(err)
	}

	got, _ := repo.GetUserByID(ctx, user.ID)
	if got.RefreshToken != "tok-2" {
		t.Fatalf("want tok-2 got %q", got.RefreshToken)
	}

	if err := repo.SetRefreshToken(ctx, uuid.New(), "x"); !customErrors.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUserRepo_ConfirmAndSetPassword(t *testing.T) {
	repo := NewUserRepo(setupDB(t))
	ctx := context.Background()
	user := testUser()
	_, _ = repo.CreateUser(ctx, user)

	if err := repo.ConfirmEmail(ctx, user.Email); err != nil {
		t.Fatal(err)
	}
	got, _ := repo.GetUserByEmail(ctx, user.Email)
	if !got.Confirmed {
		t.Fatal("expected confirmed")
	}

	if err := repo.SetPassword(ctx, user.Email, "new-hash"); err != nil {
		t.Fatal(err)
	}
	got, _ = repo.GetUserByEmail(ctx, user.Email)
	if got.PasswordHash != "new-hash" {
		t.Fatalf("want new-hash got %q", got.PasswordHash)
	}

	if err := repo.SetPassword(ctx, "ghost@example.com", "h"); !customErrors.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUserRepo_Delete(t *testing.T) {
	repo := NewUserRepo(setupDB(t))
	ctx := context.Background()
	user := testUser()
	_, _ = repo.CreateUser(ctx, user)

	deleted, err := repo.DeleteUser(ctx, user.ID)
	if err != nil || deleted.Username != user.Username {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.GetUserByID(ctx, user.ID); !customErrors.IsNotFound(err) {
		t.Fatal("expected not found after delete")
	}
	if _, err := repo.DeleteUser(ctx, user.ID); !customErrors.IsNotFound(err) {
		t.Fatal("expected not found on second delete")
	}
}
