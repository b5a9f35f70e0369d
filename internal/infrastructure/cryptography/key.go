package cryptography

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/MGTheTrain/record-vault/internal/domain/cryptoalg"
	"github.com/MGTheTrain/record-vault/internal/domain/records"
	"github.com/MGTheTrain/record-vault/internal/pkg/config"
	"github.com/MGTheTrain/record-vault/internal/pkg/validators"

	"github.com/go-playground/validator/v10"
)

// ErrNoKey is returned when no encryption key was configured
var ErrNoKey = errors.New("no encryption key configured")

type keyMaterial struct {
	Algorithm string `validate:"required,oneof=secretbox aes-gcm"`
	Key       []byte `validate:"secretKeyLength"`
}

// DecodeKey decodes a base64 key and checks its length for algorithm.
// Every failure is a records KindKey error.
func DecodeKey(encoded, algorithm string) ([]byte, error) {
	encoded = strings.TrimSpace(encoded)
	if encoded == "" {
		return nil, records.NewError(records.KindKey, "decode key", ErrNoKey)
	}

	key, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, records.NewError(records.KindKey, "decode key", fmt.Errorf("key is not valid base64: %w", err))
	}

	validate := validator.New()
	if err := validate.RegisterValidation("secretKeyLength", validators.SecretKeyLengthValidation); err != nil {
		return nil, fmt.Errorf("failed to register custom validator: %w", err)
	}
	if err := validate.Struct(keyMaterial{Algorithm: algorithm, Key: key}); err != nil {
		return nil, records.NewError(records.KindKey, "decode key",
			fmt.Errorf("%d-byte key does not fit algorithm %q", len(key), algorithm))
	}

	return key, nil
}

// GenerateEncodedKey returns a fresh random key for algorithm in base64
func GenerateEncodedKey(algorithm string, secretBox cryptoalg.SecretBoxProcessor, aes cryptoalg.AESProcessor) (string, error) {
	var (
		key []byte
		err error
	)
	switch algorithm {
	case config.AlgorithmSecretBox:
		key, err = secretBox.GenerateKey(cryptoalg.SecretBoxKeySize)
	case config.AlgorithmAESGCM:
		key, err = aes.GenerateKey(32)
	default:
		return "", fmt.Errorf("unsupported algorithm: %s", algorithm)
	}
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(key), nil
}
