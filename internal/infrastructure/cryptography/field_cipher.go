package cryptography

import (
	"encoding/base64"
	"fmt"

	"github.com/MGTheTrain/record-vault/internal/domain/cryptoalg"
	"github.com/MGTheTrain/record-vault/internal/pkg/config"
	"github.com/MGTheTrain/record-vault/internal/pkg/logger"
)

type byteCipher interface {
	Encrypt(data, key []byte) ([]byte, error)
	Decrypt(ciphertext, key []byte) ([]byte, error)
}

// fieldCipher binds a processor to a decoded key and encodes ciphertexts as base64 text
type fieldCipher struct {
	algorithm string
	processor byteCipher
	key       []byte
}

// NewFieldCipher decodes the configured key and returns a cipher for the configured algorithm.
// A missing or malformed key fails with a records KindKey error.
func NewFieldCipher(settings *config.EncryptionSettings, logger logger.Logger) (cryptoalg.FieldCipher, error) {
	key, err := DecodeKey(settings.Key, settings.Algorithm)
	if err != nil {
		return nil, err
	}

	var processor byteCipher
	switch settings.Algorithm {
	case config.AlgorithmSecretBox:
		processor, err = NewSecretBoxProcessor(logger)
	case config.AlgorithmAESGCM:
		processor, err = NewAESProcessor(logger)
	default:
		return nil, fmt.Errorf("unsupported algorithm: %s", settings.Algorithm)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create %s processor: %w", settings.Algorithm, err)
	}

	logger.Info("Field encryption uses ", settings.Algorithm)
	return &fieldCipher{
		algorithm: settings.Algorithm,
		processor: processor,
		key:       key,
	}, nil
}

func (c *fieldCipher) Algorithm() string {
	return c.algorithm
}

func (c *fieldCipher) EncryptField(plaintext string) (string, error) {
	sealed, err := c.processor.Encrypt([]byte(plaintext), c.key)
	if err != nil {
		return "", fmt.Errorf("failed to encrypt field: %w", err)
	}
	return base64.StdEncoding.EncodeToString(sealed), nil
}

func (c *fieldCipher) DecryptField(ciphertext string) (string, error) {
	sealed, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", fmt.Errorf("field is not a ciphertext: %w", err)
	}
	plaintext, err := c.processor.Decrypt(sealed, c.key)
	if err != nil {
		return "", fmt.Errorf("failed to decrypt field: %w", err)
	}
	return string(plaintext), nil
}
