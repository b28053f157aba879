package krypto

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"
)

const (
	AES256KeySize   = 32
	AESGCMNonceSize = 12
	AESGCMTagSize   = 16
)

var (
	ErrMessageAuthentication = errors.New("message authentication failed")
)

var _ Krypto = (*AESGCMCrypto)(nil)

type AESGCMCrypto struct {
	cipher cipher.AEAD
}

// NewAESGCMCrypto creates a new AES-256-GCM cipher with the given key.
func NewAESGCMCrypto(key []byte) (*AESGCMCrypto, error) {
	if key == nil {
		return nil, fmt.Errorf("key cannot be nil")
	}

	if len(key) != AES256KeySize {
		return nil, fmt.Errorf("key size must be %d bytes, got %d", AES256KeySize, len(key))
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("create aes cipher: %w", err)
	}

	aead, err := cipher.NewGCMWithTagSize(block, AESGCMTagSize)
	if err != nil {
		return nil, fmt.Errorf("create gcm: %w", err)
	}

	return &AESGCMCrypto{
		cipher: aead,
	}, nil
}

// Encrypt seals the plaintext under a freshly generated random nonce.
// The returned ciphertext carries the authentication tag as its last 16 bytes.
func (c *AESGCMCrypto) Encrypt(ctx context.Context, plainText []byte, additionalData []byte) (cipherText []byte, nonce []byte, err error) {
	select {
	case <-ctx.Done():
		return nil, nil, ctx.Err()
	default:
	}

	nonce = make([]byte, c.cipher.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, nil, fmt.Errorf("random nonce: %w", err)
	}

	cipherText = c.cipher.Seal(nil, nonce, plainText, additionalData)

	return cipherText, nonce, nil
}

// Decrypt opens ciphertext produced by Encrypt. Any tag mismatch is reported
// as ErrMessageAuthentication and no plaintext is returned.
func (c *AESGCMCrypto) Decrypt(ctx context.Context, cipherText []byte, nonce []byte, additionalData []byte) (plainText []byte, err error) {
	if cipherText == nil {
		return nil, fmt.Errorf("ciphertext cannot be nil")
	}

	if len(cipherText) < c.cipher.Overhead() {
		return nil, fmt.Errorf("ciphertext must be at least %d bytes, got %d", c.cipher.Overhead(), len(cipherText))
	}

	if nonce == nil {
		return nil, fmt.Errorf("nonce cannot be nil")
	}

	if len(nonce) != c.cipher.NonceSize() {
		return nil, fmt.Errorf("nonce size must be %d bytes, got %d", c.cipher.NonceSize(), len(nonce))
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	plainText, err = c.cipher.Open(nil, nonce, cipherText, additionalData)
	if err != nil {
		return nil, ErrMessageAuthentication
	}

	return plainText, nil
}
