//go:build unit
// +build unit

package cryptography

import (
	"errors"
	"testing"

	"github.com/MGTheTrain/record-vault/internal/domain/records"
	"github.com/MGTheTrain/record-vault/internal/pkg/config"
	"github.com/MGTheTrain/record-vault/internal/pkg/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFieldCipher(t *testing.T) {
	logger := testutil.SetupTestLogger(t)

	tests := []struct {
		name     string
		settings config.EncryptionSettings
		wantKind records.ErrorKind
		wantErr  bool
	}{
		{"secretbox", testutil.EncryptionSettings(), 0, false},
		{"aes-gcm 256", config.EncryptionSettings{Key: testutil.TestEncryptionKey, Algorithm: config.AlgorithmAESGCM}, 0, false},
		{"aes-gcm 128", config.EncryptionSettings{Key: "MDEyMzQ1Njc4OWFiY2RlZg==", Algorithm: config.AlgorithmAESGCM}, 0, false},
		{"missing key", config.EncryptionSettings{Algorithm: config.AlgorithmSecretBox}, records.KindKey, true},
		{"not base64", config.EncryptionSettings{Key: "not base64!", Algorithm: config.AlgorithmSecretBox}, records.KindKey, true},
		{"wrong length for secretbox", config.EncryptionSettings{Key: "MDEyMzQ1Njc4OWFiY2RlZg==", Algorithm: config.AlgorithmSecretBox}, records.KindKey, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cipher, err := NewFieldCipher(&tt.settings, logger)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, tt.wantKind, records.KindOf(err))
				assert.True(t, errors.Is(err, records.ErrKey))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.settings.Algorithm, cipher.Algorithm())
		})
	}
}

func TestFieldCipher_RoundTrip(t *testing.T) {
	logger := testutil.SetupTestLogger(t)

	for _, algorithm := range []string{config.AlgorithmSecretBox, config.AlgorithmAESGCM} {
		t.Run(algorithm, func(t *testing.T) {
			settings := config.EncryptionSettings{Key: testutil.TestEncryptionKey, Algorithm: algorithm}
			cipher, err := NewFieldCipher(&settings, logger)
			require.NoError(t, err)

			for _, plaintext := range []string{"Acme Inc", "", "Jürgen Müller", "jane@acme.test"} {
				ciphertext, err := cipher.EncryptField(plaintext)
				require.NoError(t, err)
				if plaintext != "" {
					assert.NotContains(t, ciphertext, plaintext)
				}

				decrypted, err := cipher.DecryptField(ciphertext)
				require.NoError(t, err)
				assert.Equal(t, plaintext, decrypted)
			}
		})
	}
}

func TestFieldCipher_WrongKey(t *testing.T) {
	logger := testutil.SetupTestLogger(t)

	settings := testutil.EncryptionSettings()
	writer, err := NewFieldCipher(&settings, logger)
	require.NoError(t, err)

	settings.Key = testutil.OtherEncryptionKey
	reader, err := NewFieldCipher(&settings, logger)
	require.NoError(t, err)

	ciphertext, err := writer.EncryptField("Acme")
	require.NoError(t, err)

	_, err = reader.DecryptField(ciphertext)
	assert.Error(t, err)

	_, err = reader.DecryptField("plain text, not base64")
	assert.Error(t, err)
}

func TestGenerateEncodedKey(t *testing.T) {
	logger := testutil.SetupTestLogger(t)
	secretBox, err := NewSecretBoxProcessor(logger)
	require.NoError(t, err)
	aes, err := NewAESProcessor(logger)
	require.NoError(t, err)

	for _, algorithm := range []string{config.AlgorithmSecretBox, config.AlgorithmAESGCM} {
		encoded, err := GenerateEncodedKey(algorithm, secretBox, aes)
		require.NoError(t, err)

		key, err := DecodeKey(encoded, algorithm)
		require.NoError(t, err)
		assert.Len(t, key, 32)
	}

	_, err = GenerateEncodedKey("des", secretBox, aes)
	assert.Error(t, err)
}
