package krypto_test

import (
	"context"
	"testing"

	"github.com/HallyG/filelocker/internal/krypto"
	"github.com/stretchr/testify/require"
)

func TestNewAESGCMCrypto(t *testing.T) {
	t.Parallel()

	t.Run("returns error when key too short", func(t *testing.T) {
		t.Parallel()

		_, err := krypto.NewAESGCMCrypto(make([]byte, 16))
		require.EqualError(t, err, "key size must be 32 bytes, got 16")
	})

	t.Run("returns error when nil key", func(t *testing.T) {
		t.Parallel()

		_, err := krypto.NewAESGCMCrypto(nil)
		require.EqualError(t, err, "key cannot be nil")
	})

	t.Run("implements krypto.Krypto interface", func(t *testing.T) {
		t.Parallel()

		var _ krypto.Krypto = (*krypto.AESGCMCrypto)(nil)
	})
}

func TestAESGCMCryptoEncrypt(t *testing.T) {
	t.Parallel()

	t.Run("returns error when context canceled", func(t *testing.T) {
		t.Parallel()

		cipher := setupCipher(t)

		ctx, cancel := context.WithCancel(t.Context())
		cancel()

		cipherText, nonce, err := cipher.Encrypt(ctx, []byte("Hello, World!"), nil)
		require.ErrorIs(t, err, context.Canceled)
		require.Nil(t, cipherText)
		require.Nil(t, nonce)
	})

	t.Run("appends tag and uses 12 byte nonce", func(t *testing.T) {
		t.Parallel()

		plainText := []byte("Hello, World!")
		cipher := setupCipher(t)

		cipherText, nonce, err := cipher.Encrypt(t.Context(), plainText, nil)
		require.NoError(t, err)
		require.Len(t, nonce, krypto.AESGCMNonceSize)
		require.Len(t, cipherText, len(plainText)+krypto.AESGCMTagSize)
	})

	t.Run("empty plaintext produces tag only", func(t *testing.T) {
		t.Parallel()

		cipher := setupCipher(t)

		cipherText, _, err := cipher.Encrypt(t.Context(), nil, nil)
		require.NoError(t, err)
		require.Len(t, cipherText, krypto.AESGCMTagSize)
	})

	t.Run("nonces are fresh per call", func(t *testing.T) {
		t.Parallel()

		cipher := setupCipher(t)

		seen := make(map[string]struct{})
		for range 1000 {
			_, nonce, err := cipher.Encrypt(t.Context(), []byte("same"), nil)
			require.NoError(t, err)

			_, dup := seen[string(nonce)]
			require.False(t, dup)
			seen[string(nonce)] = struct{}{}
		}
	})
}

func TestAESGCMCryptoDecrypt(t *testing.T) {
	t.Parallel()

	t.Run("returns error when nil ciphertext", func(t *testing.T) {
		t.Parallel()

		cipher := setupCipher(t)

		plainText, err := cipher.Decrypt(t.Context(), nil, make([]byte, krypto.AESGCMNonceSize), nil)
		require.EqualError(t, err, "ciphertext cannot be nil")
		require.Nil(t, plainText)
	})

	t.Run("returns error when ciphertext shorter than tag", func(t *testing.T) {
		t.Parallel()

		cipher := setupCipher(t)

		plainText, err := cipher.Decrypt(t.Context(), make([]byte, krypto.AESGCMTagSize-1), make([]byte, krypto.AESGCMNonceSize), nil)
		require.EqualError(t, err, "ciphertext must be at least 16 bytes, got 15")
		require.Nil(t, plainText)
	})

	t.Run("returns error when nil nonce", func(t *testing.T) {
		t.Parallel()

		cipher := setupCipher(t)

		plainText, err := cipher.Decrypt(t.Context(), make([]byte, 32), nil, nil)
		require.EqualError(t, err, "nonce cannot be nil")
		require.Nil(t, plainText)
	})

	t.Run("returns error when unexpected nonce length", func(t *testing.T) {
		t.Parallel()

		cipher := setupCipher(t)

		plainText, err := cipher.Decrypt(t.Context(), make([]byte, 32), []byte("nonce"), nil)
		require.EqualError(t, err, "nonce size must be 12 bytes, got 5")
		require.Nil(t, plainText)
	})

	t.Run("returns error when context canceled", func(t *testing.T) {
		t.Parallel()

		cipher := setupCipher(t)

		ctx, cancel := context.WithCancel(t.Context())
		cancel()

		plainText, err := cipher.Decrypt(ctx, make([]byte, 32), make([]byte, krypto.AESGCMNonceSize), nil)
		require.ErrorIs(t, err, context.Canceled)
		require.Nil(t, plainText)
	})
}

func TestAESGCMCrypto(t *testing.T) {
	t.Parallel()

	t.Run("can decrypt encrypted plaintext", func(t *testing.T) {
		t.Parallel()

		plainText := []byte("Hello, World!")
		cipher := setupCipher(t)

		cipherText, nonce, err := cipher.Encrypt(t.Context(), plainText, nil)
		require.NoError(t, err)

		decrypted, err := cipher.Decrypt(t.Context(), cipherText, nonce, nil)
		require.NoError(t, err)
		require.Equal(t, plainText, decrypted)
	})

	t.Run("returns error when decrypt with different additional auth data", func(t *testing.T) {
		t.Parallel()

		cipher := setupCipher(t)

		cipherText, nonce, err := cipher.Encrypt(t.Context(), []byte("Hello, World!"), []byte("auth-data"))
		require.NoError(t, err)

		plainText, err := cipher.Decrypt(t.Context(), cipherText, nonce, []byte("different-auth-data"))
		require.ErrorIs(t, err, krypto.ErrMessageAuthentication)
		require.Nil(t, plainText)
	})

	t.Run("returns error when tag modified", func(t *testing.T) {
		t.Parallel()

		cipher := setupCipher(t)

		cipherText, nonce, err := cipher.Encrypt(t.Context(), []byte("Hello, World!"), nil)
		require.NoError(t, err)

		cipherText[len(cipherText)-1] ^= 0x01

		plainText, err := cipher.Decrypt(t.Context(), cipherText, nonce, nil)
		require.ErrorIs(t, err, krypto.ErrMessageAuthentication)
		require.Nil(t, plainText)
	})

	t.Run("returns error when decrypt with different key", func(t *testing.T) {
		t.Parallel()

		cipherText, nonce, err := setupCipher(t).Encrypt(t.Context(), []byte("Hello, World!"), nil)
		require.NoError(t, err)

		other, err := krypto.NewAESGCMCrypto(make([]byte, krypto.AES256KeySize))
		require.NoError(t, err)

		plainText, err := other.Decrypt(t.Context(), cipherText, nonce, nil)
		require.ErrorIs(t, err, krypto.ErrMessageAuthentication)
		require.Nil(t, plainText)
	})
}

func setupCipher(t *testing.T) krypto.Krypto {
	t.Helper()

	password := []byte("securepassword")
	salt := []byte("randomsaltrandomsalt")
	params := krypto.PBKDF2Params{
		NumIterations: 1,
	}

	key, err := krypto.DeriveKeyFromPassword(t.Context(), password, salt, params, krypto.AES256KeySize)
	require.NoError(t, err)

	cipher, err := krypto.NewAESGCMCrypto(key)
	require.NoError(t, err)

	return cipher
}
