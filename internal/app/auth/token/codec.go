package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	customErrors "github.com/oleksiikond/contactdeck/internal/domain/auth/errors"
)

const (
	PurposeAccess  = "access"
	PurposeRefresh = "refresh"

	// Email verification tokens carry no purpose claim and always live 7 days;
	// the consuming endpoint decides whether it confirms an address or resets
	// a password.
	emailTokenTTL = 7 * 24 * time.Hour
)

// Claims is the wire shape of every token: sub/iat/exp plus the token_type
// purpose tag. Email tokens omit token_type.
type Claims struct {
	TokenType string `json:"token_type,omitempty"`
	jwt.RegisteredClaims
}

type Codec struct {
	secret     []byte
	method     jwt.SigningMethod
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewCodec(secret, algorithm string, accessTTL, refreshTTL time.Duration) (*Codec, error) {
	if secret == "" {
		return nil, customErrors.NewInvalidArgument("empty JWT secret")
	}
	method := jwt.GetSigningMethod(algorithm)
	if _, ok := method.(*jwt.SigningMethodHMAC); !ok {
		return nil, customErrors.NewInvalidArgument("JWT algorithm must be an HMAC variant")
	}
	return &Codec{
		secret:     []byte(secret),
		method:     method,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}, nil
}

func (c *Codec) IssueAccess(subject string) (string, time.Time, error) {
	return c.issue(subject, PurposeAccess, c.accessTTL)
}

func (c *Codec) IssueRefresh(subject string) (string, time.Time, error) {
	return c.issue(subject, PurposeRefresh, c.refreshTTL)
}

func (c *Codec) IssueEmail(subjectEmail string) (string, time.Time, error) {
	return c.issue(subjectEmail, "", emailTokenTTL)
}

func (c *Codec) AccessTTL() time.Duration  { return c.accessTTL }
func (c *Codec) RefreshTTL() time.Duration { return c.refreshTTL }

func (c *Codec) issue(subject, purpose string, ttl time.Duration) (string, time.Time, error) {
	now := time.Now().UTC()
	exp := now.Add(ttl)

	claims := Claims{
		TokenType: purpose,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}

	signed, err := jwt.NewWithClaims(c.method, claims).SignedString(c.secret)
	if err != nil {
		return "", time.Time{}, customErrors.WrapInternal(err, "sign token")
	}
	return signed, exp, nil
}

// Decode verifies the signature and expiry. Any failure collapses into
// ErrInvalidToken; the purpose claim is left for the caller to check.
func (c *Codec) Decode(raw string) (Claims, error) {
	token, err := jwt.ParseWithClaims(raw, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != c.method.Alg() {
			return nil, customErrors.ErrInvalidToken
		}
		return c.secret, nil
	}, jwt.WithIssuedAt(), jwt.WithExpirationRequired())

	if err != nil || !token.Valid {
		return Claims{}, customErrors.ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok {
		return Claims{}, customErrors.ErrInvalidToken
	}
	return *claims, nil
}
