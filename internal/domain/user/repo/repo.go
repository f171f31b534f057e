package repo

import (
	"context"

	"github.com/google/uuid"

	"github.com/oleksiikond/contactdeck/internal/domain/user/model"
)

// UserRepo is the durable user directory. Lookups return ErrNotFound when no
// row matches; CreateUser returns ErrAlreadyExists on a unique violation.
type UserRepo interface {
	CreateUser(ctx context.Context, user model.User) (uuid.UUID, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (model.User, error)
	GetUserByUsername(ctx context.Context, username string) (model.User, error)
	GetUserByEmail(ctx context.Context, email string) (model.User, error)
	SetRefreshToken(ctx context.Context, id uuid.UUID, token string) error
	ConfirmEmail(ctx context.Context, email string) error
	SetPassword(ctx context.Context, email string, passwordHash string) error
	DeleteUser(ctx context.Context, id uuid.UUID) (model.User, error)
}

// UserCache fronts username lookups. It is best effort: callers treat errors
// as a miss and must never depend on it for correctness.
type UserCache interface {
	Get(ctx context.Context, username string) (model.User, error)
	Put(ctx context.Context, username string, user model.User) error
	Invalidate(ctx context.Context, username string) error
}
