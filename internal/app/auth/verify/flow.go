package verify

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/oleksiikond/contactdeck/internal/app/auth/password"
	"github.com/oleksiikond/contactdeck/internal/app/auth/token"
	customErrors "github.com/oleksiikond/contactdeck/internal/domain/auth/errors"
	"github.com/oleksiikond/contactdeck/internal/domain/user/model"
	"github.com/oleksiikond/contactdeck/internal/domain/user/repo"
)

const (
	MsgAlreadyConfirmed = "Email already confirmed"
	MsgConfirmed        = "Email confirmed successfully"
	MsgCheckEmail       = "Check your email for confirm registration"
	MsgShowResetForm    = "Show form for reset a password"
)

const mailTimeout = 10 * time.Second

// Mailer delivers rendered account emails. Sends are fire-and-forget: the
// flow never lets a delivery failure reach a response.
type Mailer interface {
	SendConfirmation(ctx context.Context, to, username, token string) error
	SendPasswordReset(ctx context.Context, to, username, token string) error
}

// Flow drives the email-possession workflows: address confirmation and
// password reset, both riding on 7-day email-purpose tokens.
type Flow struct {
	users  repo.UserRepo
	cache  repo.UserCache
	codec  *token.Codec
	hasher password.Hasher
	mailer Mailer
	v      *validator.Validate
	log    *zap.Logger
}

func New(
	users repo.UserRepo,
	cache repo.UserCache,
	codec *token.Codec,
	hasher password.Hasher,
	mailer Mailer,
	v *validator.Validate,
	log *zap.Logger,
) *Flow {
	return &Flow{
		users: users, cache: cache, codec: codec,
		hasher: hasher, mailer: mailer, v: v, log: log,
	}
}

// DispatchConfirmation issues a fresh verification token and schedules the
// confirmation email. It returns before the send happens.
func (f *Flow) DispatchConfirmation(user model.User) {
	raw, _, err := f.codec.IssueEmail(user.Email)
	if err != nil {
		f.log.Error("issue confirmation token", zap.Error(err))
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), mailTimeout)
		defer cancel()
		if err := f.mailer.SendConfirmation(ctx, user.Email, user.Username, raw); err != nil {
			f.log.Error("send confirmation email", zap.Error(err), zap.String("user", user.Username))
		}
	}()
}

func (f *Flow) dispatchReset(user model.User) error {
	raw, _, err := f.codec.IssueEmail(user.Email)
	if err != nil {
		return err
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), mailTimeout)
		defer cancel()
		if err := f.mailer.SendPasswordReset(ctx, user.Email, user.Username, raw); err != nil {
			f.log.Error("send reset email", zap.Error(err), zap.String("user", user.Username))
		}
	}()
	return nil
}

// ConfirmEmail flips the user behind the token to confirmed. Confirming an
// already confirmed address is reported as success without touching the row.
func (f *Flow) ConfirmEmail(ctx context.Context, raw string) (string, error) {
	email, err := f.emailFromToken(raw)
	if err != nil {
		return "", err
	}

	user, err := f.users.GetUserByEmail(ctx, email)
	switch {
	case errors.Is(err, customErrors.ErrNotFound):
		return "", customErrors.NewInvalidArgument("Verification error")
	case err != nil:
		return "", customErrors.WrapInternal(err, "ConfirmEmail")
	}

	if user.Confirmed {
		return MsgAlreadyConfirmed, nil
	}

	if err := f.users.ConfirmEmail(ctx, email); err != nil {
		return "", customErrors.WrapInternal(err, "ConfirmEmail")
	}
	f.invalidate(ctx, user.Username)

	return MsgConfirmed, nil
}

// RequestConfirmation re-sends the confirmation link. Unknown addresses get
// the same generic answer so the endpoint cannot be used to enumerate users.
func (f *Flow) RequestConfirmation(ctx context.Context, email string) (string, error) {
	if err := f.v.Var(email, "required,email"); err != nil {
		return "", customErrors.NewInvalidArgument("invalid email")
	}

	user, err := f.users.GetUserByEmail(ctx, email)
	switch {
	case errors.Is(err, customErrors.ErrNotFound):
		return MsgCheckEmail, nil
	case err != nil:
		return "", customErrors.WrapInternal(err, "RequestConfirmation")
	}

	if user.Confirmed {
		return MsgAlreadyConfirmed, nil
	}

	f.DispatchConfirmation(user)
	return MsgCheckEmail, nil
}

// RequestPasswordReset mails a reset link. Only confirmed accounts may reset.
func (f *Flow) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := f.users.GetUserByEmail(ctx, email)
	switch {
	case errors.Is(err, customErrors.ErrNotFound):
		return customErrors.NewUnauthorized("User not found or email is not confirmed")
	case err != nil:
		return customErrors.WrapInternal(err, "RequestPasswordReset")
	}
	if !user.Confirmed {
		return customErrors.NewUnauthorized("User not found or email is not confirmed")
	}

	if err := f.dispatchReset(user); err != nil {
		return customErrors.WrapInternal(err, "RequestPasswordReset")
	}
	return nil
}

// ProbeReset checks a reset token without mutating anything, backing the
// GET form endpoint.
func (f *Flow) ProbeReset(ctx context.Context, raw string) (string, error) {
	email, err := f.emailFromToken(raw)
	if err != nil {
		return "", err
	}

	user, err := f.users.GetUserByEmail(ctx, email)
	if err == nil && user.Confirmed {
		return MsgShowResetForm, nil
	}
	if err != nil && !errors.Is(err, customErrors.ErrNotFound) {
		return "", customErrors.WrapInternal(err, "ProbeReset")
	}
	return "", customErrors.NewUnauthorized("User not found or email is not confirmed")
}

// CompleteReset sets a new password for the user behind the token. The token
// is validated before any mutation; a user that vanishes between the check
// and the write is a distinct terminal failure.
func (f *Flow) CompleteReset(ctx context.Context, raw, newPassword string) (model.User, error) {
	email, err := f.emailFromToken(raw)
	if err != nil {
		return model.User{}, err
	}

	user, err := f.users.GetUserByEmail(ctx, email)
	switch {
	case errors.Is(err, customErrors.ErrNotFound):
		return model.User{}, customErrors.NewUnauthorized("User not found or email is not confirmed")
	case err != nil:
		return model.User{}, customErrors.WrapInternal(err, "CompleteReset")
	}
	if !user.Confirmed {
		return model.User{}, customErrors.NewUnauthorized("User not found or email is not confirmed")
	}

	hash, err := f.hasher.Hash(newPassword)
	if err != nil {
		return model.User{}, err
	}

	if err := f.users.SetPassword(ctx, user.Email, hash); err != nil {
		if errors.Is(err, customErrors.ErrNotFound) {
			return model.User{}, customErrors.NewUnprocessable("Incorrect user data")
		}
		return model.User{}, customErrors.WrapInternal(err, "CompleteReset")
	}
	f.invalidate(ctx, user.Username)

	user.PasswordHash = hash
	return user, nil
}

// emailFromToken decodes a verification token and validates the embedded
// address. All failures look the same to the caller.
func (f *Flow) emailFromToken(raw string) (string, error) {
	claims, err := f.codec.Decode(raw)
	if err != nil {
		return "", customErrors.NewUnprocessable("Token incorrect")
	}
	if err := f.v.Var(claims.Subject, "required,email"); err != nil {
		return "", customErrors.NewUnprocessable("Token incorrect")
	}
	return claims.Subject, nil
}

func (f *Flow) invalidate(ctx context.Context, username string) {
	if err := f.cache.Invalidate(ctx, username); err != nil {
		f.log.Warn("invalidate user cache", zap.Error(err), zap.String("user", username))
	}
}
