package password

import (
	"github.com/alexedwards/argon2id"

	customErrors "github.com/oleksiikond/contactdeck/internal/domain/auth/errors"
)

var params = &argon2id.Params{
	Memory:      64 * 1024, // 64 MiB
	Iterations:  2,
	Parallelism: 4,
	SaltLength:  16,
	KeyLength:   32,
}

// Hasher wraps argon2id. A mismatch is a boolean, never an error; an error
// from Verify means the stored hash is malformed, which is a data integrity
// failure and surfaces as internal.
type Hasher struct{}

func NewHasher() Hasher {
	return Hasher{}
}

func (Hasher) Hash(plain string) (string, error) {
	hash, err := argon2id.CreateHash(plain, params)
	if err != nil {
		return "", customErrors.WrapInternal(err, "hash password")
	}
	return hash, nil
}

func (Hasher) Verify(plain, hash string) (bool, error) {
	ok, err := argon2id.ComparePasswordAndHash(plain, hash)
	if err != nil {
		return false, customErrors.WrapInternal(err, "verify password")
	}
	return ok, nil
}
