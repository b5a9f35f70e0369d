//go:build unit
// +build unit

package cryptography

import (
	"testing"

	"github.com/MGTheTrain/record-vault/internal/domain/cryptoalg"
	"github.com/MGTheTrain/record-vault/internal/pkg/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupSecretBoxProcessor(t *testing.T) cryptoalg.SecretBoxProcessor {
	t.Helper()
	processor, err := NewSecretBoxProcessor(testutil.SetupTestLogger(t))
	require.NoError(t, err)
	return processor
}

func TestSecretBoxProcessor(t *testing.T) {
	processor := setupSecretBoxProcessor(t)

	t.Run("EncryptDecrypt", func(t *testing.T) {
		key, err := processor.GenerateKey(cryptoalg.SecretBoxKeySize)
		require.NoError(t, err)

		ciphertext, err := processor.Encrypt([]byte("jane@acme.test"), key)
		require.NoError(t, err)
		assert.Len(t, ciphertext, secretBoxNonceSize+16+len("jane@acme.test"))

		plaintext, err := processor.Decrypt(ciphertext, key)
		require.NoError(t, err)
		assert.Equal(t, "jane@acme.test", string(plaintext))
	})

	t.Run("EmptyPlaintext", func(t *testing.T) {
		key, err := processor.GenerateKey(cryptoalg.SecretBoxKeySize)
		require.NoError(t, err)

		ciphertext, err := processor.Encrypt(nil, key)
		require.NoError(t, err)

		plaintext, err := processor.Decrypt(ciphertext, key)
		require.NoError(t, err)
		assert.Empty(t, plaintext)
	})

	t.Run("InvalidKeySize", func(t *testing.T) {
		_, err := processor.GenerateKey(16)
		assert.Error(t, err)

		_, err = processor.Encrypt([]byte("x"), make([]byte, 16))
		assert.Error(t, err)
	})

	t.Run("TamperedBox", func(t *testing.T) {
		key, err := processor.GenerateKey(cryptoalg.SecretBoxKeySize)
		require.NoError(t, err)

		ciphertext, err := processor.Encrypt([]byte("Acme"), key)
		require.NoError(t, err)
		ciphertext[len(ciphertext)-1] ^= 0xff

		_, err = processor.Decrypt(ciphertext, key)
		assert.Error(t, err)
	})

	t.Run("ShortCiphertext", func(t *testing.T) {
		key, err := processor.GenerateKey(cryptoalg.SecretBoxKeySize)
		require.NoError(t, err)

		_, err = processor.Decrypt(make([]byte, secretBoxNonceSize), key)
		assert.Error(t, err)
	})
}
