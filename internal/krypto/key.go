package krypto

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"

	"github.com/awnumar/memguard"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"golang.org/x/crypto/pbkdf2"
)

const (
	MinKeyLength                = 16
	MaxKeyLength                = 64
	MinSaltLength               = 16
	MaxSaltLength               = 255
	DefaultPBKDF2Iterations int = 200_000
	MaxPBKDF2Iterations     int = 10_000_000
)

// PBKDF2Params are the work-factor settings for PBKDF2-HMAC-SHA256.
type PBKDF2Params struct {
	NumIterations int
}

func (p PBKDF2Params) Validate(ctx context.Context) error {
	return validation.ValidateStructWithContext(ctx, &p,
		validation.Field(&p.NumIterations, validation.Required, validation.Min(1), validation.Max(MaxPBKDF2Iterations)),
	)
}

// DefaultPBKDF2Params returns the parameters every container version 1 is written with.
// They are not stored in the container, so changing them breaks existing files.
func DefaultPBKDF2Params() PBKDF2Params {
	return PBKDF2Params{
		NumIterations: DefaultPBKDF2Iterations,
	}
}

func GenerateSalt(length uint32) ([]byte, error) {
	if length < MinSaltLength {
		return nil, fmt.Errorf("salt size must be at least %d bytes, got %d", MinSaltLength, length)
	}

	if length > MaxSaltLength {
		return nil, fmt.Errorf("salt size exceeds maximum of %d bytes, got %d", MaxSaltLength, length)
	}

	salt := make([]byte, length)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("random salt: %w", err)
	}

	return salt, nil
}

// DeriveKeyFromPassword derives a key using PBKDF2 with HMAC-SHA256.
// An empty password is accepted; rejecting it is up to the caller.
func DeriveKeyFromPassword(ctx context.Context, password []byte, salt []byte, params PBKDF2Params, keyLengthInBytes uint32) ([]byte, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	if salt == nil {
		return nil, errors.New("salt cannot be nil")
	}

	if len(salt) < MinSaltLength {
		return nil, fmt.Errorf("salt size must be at least %d bytes, got %d", MinSaltLength, len(salt))
	}

	if len(salt) > MaxSaltLength {
		return nil, fmt.Errorf("salt size exceeds maximum of %d bytes, got %d", MaxSaltLength, len(salt))
	}

	if keyLengthInBytes < MinKeyLength {
		return nil, fmt.Errorf("key length must be at least %d bytes, got %d", MinKeyLength, keyLengthInBytes)
	}

	if keyLengthInBytes > MaxKeyLength {
		return nil, fmt.Errorf("key length exceeds maximum of %d bytes, got %d", MaxKeyLength, keyLengthInBytes)
	}

	if err := params.Validate(ctx); err != nil {
		return nil, fmt.Errorf("invalid PBKDF2 parameters: %w", err)
	}

	return pbkdf2.Key(password, salt, params.NumIterations, int(keyLengthInBytes), sha256.New), nil
}

// Wipe overwrites secret material such as passwords and derived keys with zeroes.
func Wipe(secret []byte) {
	memguard.WipeBytes(secret)
}
