package vault

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/HallyG/filelocker/internal/krypto"
	"github.com/HallyG/filelocker/internal/vault/format"
)

const (
	opEncrypt = "encrypt"
	opDecrypt = "decrypt"
)

type Vault struct {
	logger    *slog.Logger
	kdfParams krypto.PBKDF2Params
}

func WithLogger(logger *slog.Logger) func(*Vault) {
	return func(v *Vault) {
		v.logger = logger
	}
}

func New(opts ...func(*Vault)) (*Vault, error) {
	v := &Vault{
		kdfParams: krypto.DefaultPBKDF2Params(),
	}

	for _, opt := range opts {
		opt(v)
	}

	if v.logger == nil {
		v.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	v.logger = v.logger.
		WithGroup("vault").
		With(slog.String("version", format.VersionV1.String()))
	return v, nil
}

func (v *Vault) Version() format.Version {
	return format.VersionV1
}

// Encrypt seals plainText under a key derived from password and writes the
// resulting container to output. A fresh salt and nonce are drawn for every call.
func (v *Vault) Encrypt(ctx context.Context, output io.Writer, password []byte, plainText []byte) error {
	if output == nil {
		return &Error{Op: opEncrypt, Err: ErrNilWriter}
	}

	v.logger.DebugContext(ctx, "encrypting data", slog.Int("plaintext.size", len(plainText)))

	salt, err := krypto.GenerateSalt(format.SaltLen)
	if err != nil {
		return &Error{Op: opEncrypt, Err: fmt.Errorf("generate salt: %w", err)}
	}

	cipher, err := v.newCipher(ctx, password, salt)
	if err != nil {
		return &Error{Op: opEncrypt, Err: err}
	}

	cipherText, nonce, err := cipher.Encrypt(ctx, plainText, nil)
	if err != nil {
		return &Error{Op: opEncrypt, Err: fmt.Errorf("seal plaintext: %w", err)}
	}

	v.logger.DebugContext(ctx, "encrypted plaintext", slog.Int("nonce.size", len(nonce)), slog.Int("ciphertext.size", len(cipherText)))

	if err := format.Encode(output, [format.SaltLen]byte(salt), [format.NonceLen]byte(nonce), cipherText); err != nil {
		return &Error{Op: opEncrypt, Err: err}
	}

	return nil
}

// Decrypt parses a container from input and returns the plaintext. Format
// problems wrap ErrInvalidFormat; any tag mismatch is ErrAuthenticationFailed
// and no plaintext is returned.
func (v *Vault) Decrypt(ctx context.Context, input io.Reader, password []byte) ([]byte, error) {
	if input == nil {
		return nil, &Error{Op: opDecrypt, Err: ErrNilReader}
	}

	v.logger.DebugContext(ctx, "parsing header")

	header, r, err := format.ParseHeader(input)
	if err != nil {
		return nil, &Error{Op: opDecrypt, Err: err}
	}

	cipherText, err := format.ReadCipherText(r)
	if err != nil {
		return nil, &Error{Op: opDecrypt, Err: err}
	}

	cipher, err := v.newCipher(ctx, password, header.Salt[:])
	if err != nil {
		return nil, &Error{Op: opDecrypt, Err: err}
	}

	v.logger.DebugContext(ctx, "decrypting ciphertext", slog.Int("ciphertext.size", len(cipherText)))

	plainText, err := cipher.Decrypt(ctx, cipherText, header.Nonce[:], nil)
	if err != nil {
		if errors.Is(err, krypto.ErrMessageAuthentication) {
			return nil, &Error{Op: opDecrypt, Err: ErrAuthenticationFailed}
		}

		return nil, &Error{Op: opDecrypt, Err: fmt.Errorf("open ciphertext: %w", err)}
	}

	return plainText, nil
}

// newCipher derives the container key and wipes it once the AEAD has been keyed.
func (v *Vault) newCipher(ctx context.Context, password []byte, salt []byte) (krypto.Krypto, error) {
	v.logger.DebugContext(ctx, "deriving encryption key", slog.Group("key.encryption",
		slog.String("alg", "aes-256-gcm"),
		slog.Int("size", krypto.AES256KeySize),
		slog.Int("salt.size", len(salt)),
		slog.Group("pbkdf2",
			slog.String("hash", "sha256"),
			slog.Int("num_iterations", v.kdfParams.NumIterations),
		)),
	)

	key, err := krypto.DeriveKeyFromPassword(ctx, password, salt, v.kdfParams, krypto.AES256KeySize)
	if err != nil {
		return nil, fmt.Errorf("derive key: %w", err)
	}
	defer krypto.Wipe(key)

	cipher, err := krypto.NewAESGCMCrypto(key)
	if err != nil {
		return nil, fmt.Errorf("initialize cipher: %w", err)
	}

	return cipher, nil
}
