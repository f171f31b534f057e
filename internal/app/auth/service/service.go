package service

import (
	"context"
	"crypto/md5"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/oleksiikond/contactdeck/internal/adapters/transport/http/dto"
	"github.com/oleksiikond/contactdeck/internal/app/auth/password"
	"github.com/oleksiikond/contactdeck/internal/app/auth/token"
	"github.com/oleksiikond/contactdeck/internal/app/auth/verify"
	customErrors "github.com/oleksiikond/contactdeck/internal/domain/auth/errors"
	"github.com/oleksiikond/contactdeck/internal/domain/user/model"
	"github.com/oleksiikond/contactdeck/internal/domain/user/repo"
)

type authService struct {
	users  repo.UserRepo
	cache  repo.UserCache
	codec  *token.Codec
	hasher password.Hasher
	flow   *verify.Flow
	v      *validator.Validate
	log    *zap.Logger
}

type Service interface {
	Register(ctx context.Context, in dto.RegisterDTO) (model.User, error)
	Login(ctx context.Context, in dto.LoginDTO) (model.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (model.TokenPair, error)
	CurrentUser(ctx context.Context, accessToken string) (model.User, error)
	RequireAdmin(user model.User) (model.User, error)
	DeleteUser(ctx context.Context, id uuid.UUID) (model.User, error)
}

func New(
	users repo.UserRepo,
	cache repo.UserCache,
	codec *token.Codec,
	hasher password.Hasher,
	flow *verify.Flow,
	v *validator.Validate,
	log *zap.Logger,
) Service {
	return &authService{
		users: users, cache: cache, codec: codec,
		hasher: hasher, flow: flow, v: v, log: log,
	}
}

// Register creates an unconfirmed user and schedules the confirmation email.
// Email is checked before username so the duplicate message matches what the
// caller collided on first.
func (a *authService) Register(ctx context.Context, in dto.RegisterDTO) (model.User, error) {
	if err := a.v.Struct(in); err != nil {
		return model.User{}, customErrors.NewInvalidArgument(err.Error())
	}

	if _, err := a.users.GetUserByEmail(ctx, in.Email); err == nil {
		return model.User{}, customErrors.NewAlreadyExists("email already exists")
	} else if !errors.Is(err, customErrors.ErrNotFound) {
		return model.User{}, customErrors.WrapInternal(err, "Register")
	}

	if _, err := a.users.GetUserByUsername(ctx, in.Username); err == nil {
		return model.User{}, customErrors.NewAlreadyExists("User name already exists")
	} else if !errors.Is(err, customErrors.ErrNotFound) {
		return model.User{}, customErrors.WrapInternal(err, "Register")
	}

	hash, err := a.hasher.Hash(in.Password)
	if err != nil {
		return model.User{}, err
	}

	user := model.User{
		ID:           uuid.New(),
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         model.RoleUser,
		Avatar:       gravatarURL(in.Email),
	}
	if _, err := a.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, customErrors.ErrAlreadyExists) {
			return model.User{}, customErrors.NewAlreadyExists("email already exists")
		}
		return model.User{}, customErrors.WrapInternal(err, "Register")
	}

	a.flow.DispatchConfirmation(user)
	return user, nil
}

// Login checks existence and password before the confirmation flag, then
// issues both tokens. The refresh token is written to the user row before
// returning: Refresh compares against exactly that value. Concurrent logins
// race and the last write wins.
func (a *authService) Login(ctx context.Context, in dto.LoginDTO) (model.TokenPair, error) {
	if err := a.v.Struct(in); err != nil {
		return model.TokenPair{}, customErrors.NewInvalidArgument(err.Error())
	}

	user, err := a.users.GetUserByUsername(ctx, in.Username)
	switch {
	case errors.Is(err, customErrors.ErrNotFound):
		return model.TokenPair{}, customErrors.NewUnauthorized("Incorrect login or password")
	case err != nil:
		return model.TokenPair{}, customErrors.WrapInternal(err, "Login")
	}

	ok, err := a.hasher.Verify(in.Password, user.PasswordHash)
	if err != nil {
		return model.TokenPair{}, err
	}
	if !ok {
		return model.TokenPair{}, customErrors.NewUnauthorized("Incorrect login or password")
	}

	if !user.Confirmed {
		return model.TokenPair{}, customErrors.NewUnauthorized("Email is not confirmed")
	}

	access, _, err := a.codec.IssueAccess(user.Username)
	if err != nil {
		return model.TokenPair{}, err
	}
	refresh, _, err := a.codec.IssueRefresh(user.Username)
	if err != nil {
		return model.TokenPair{}, err
	}

	if err := a.users.SetRefreshToken(ctx, user.ID, refresh); err != nil {
		return model.TokenPair{}, customErrors.WrapInternal(err, "Login")
	}
	a.invalidate(ctx, user.Username)

	return model.TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		AccessTTL:    a.codec.AccessTTL(),
		RefreshTTL:   a.codec.RefreshTTL(),
	}, nil
}

// Refresh exchanges a refresh token for a new access token. The presented
// token must byte-for-byte equal the one stored on the user, which rejects
// tokens superseded by a later login. The refresh token is not rotated.
func (a *authService) Refresh(ctx context.Context, refreshToken string) (model.TokenPair, error) {
	claims, err := a.codec.Decode(refreshToken)
	if err != nil || claims.TokenType != token.PurposeRefresh || claims.Subject == "" {
		return model.TokenPair{}, customErrors.NewUnauthorized("Invalid or expired refresh token")
	}

	user, err := a.users.GetUserByUsername(ctx, claims.Subject)
	switch {
	case errors.Is(err, customErrors.ErrNotFound):
		return model.TokenPair{}, customErrors.NewUnauthorized("Invalid or expired refresh token")
	case err != nil:
		return model.TokenPair{}, customErrors.WrapInternal(err, "Refresh")
	}

	if user.RefreshToken != refreshToken {
		return model.TokenPair{}, customErrors.NewUnauthorized("Invalid or expired refresh token")
	}

	access, _, err := a.codec.IssueAccess(user.Username)
	if err != nil {
		return model.TokenPair{}, err
	}

	return model.TokenPair{
		AccessToken:  access,
		RefreshToken: refreshToken,
		AccessTTL:    a.codec.AccessTTL(),
		RefreshTTL:   time.Until(claims.ExpiresAt.Time),
	}, nil
}

// CurrentUser resolves the subject of an access token, cache first. A cache
// error is only a miss; the directory stays authoritative.
func (a *authService) CurrentUser(ctx context.Context, accessToken string) (model.User, error) {
	claims, err := a.codec.Decode(accessToken)
	if err != nil || claims.TokenType != token.PurposeAccess || claims.Subject == "" {
		return model.User{}, customErrors.NewUnauthorized("Could not validate credentials")
	}
	username := claims.Subject

	cached, err := a.cache.Get(ctx, username)
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, customErrors.ErrNotFound) {
		a.log.Warn("user cache read failed", zap.Error(err), zap.String("user", username))
	}

	user, err := a.users.GetUserByUsername(ctx, username)
	switch {
	case errors.Is(err, customErrors.ErrNotFound):
		return model.User{}, customErrors.NewUnauthorized("Could not validate credentials")
	case err != nil:
		return model.User{}, customErrors.WrapInternal(err, "CurrentUser")
	}

	if err := a.cache.Put(ctx, username, user); err != nil {
		a.log.Warn("user cache write failed", zap.Error(err), zap.String("user", username))
	}
	return user, nil
}

// RequireAdmin is a passthrough gate over an already authenticated user.
func (a *authService) RequireAdmin(user model.User) (model.User, error) {
	if !user.IsAdmin() {
		return model.User{}, customErrors.NewForbidden("Insufficient access rights")
	}
	return user, nil
}

func (a *authService) DeleteUser(ctx context.Context, id uuid.UUID) (model.User, error) {
	user, err := a.users.DeleteUser(ctx, id)
	switch {
	case errors.Is(err, customErrors.ErrNotFound):
		return model.User{}, fmt.Errorf("%w: User not found", customErrors.ErrNotFound)
	case err != nil:
		return model.User{}, customErrors.WrapInternal(err, "DeleteUser")
	}
	a.invalidate(ctx, user.Username)
	return user, nil
}

func (a *authService) invalidate(ctx context.Context, username string) {
	if err := a.cache.Invalidate(ctx, username); err != nil {
		a.log.Warn("invalidate user cache", zap.Error(err), zap.String("user", username))
	}
}

// gravatarURL derives the default avatar from the email, the same scheme the
// registration flow has always used.
func gravatarURL(email string) string {
	sum := md5.Sum([]byte(strings.ToLower(strings.TrimSpace(email))))
	return fmt.Sprintf("https://www.gravatar.com/avatar/%x", sum)
}
