package cryptography

import (
	"crypto/rand"
	"fmt"
	"io"

	"github.com/MGTheTrain/record-vault/internal/domain/cryptoalg"
	"github.com/MGTheTrain/record-vault/internal/pkg/logger"

	"golang.org/x/crypto/nacl/secretbox"
)

const secretBoxNonceSize = 24

// secretBoxProcessor struct that implements the SecretBoxProcessor interface
type secretBoxProcessor struct {
	logger logger.Logger
}

// NewSecretBoxProcessor creates and returns a new instance of secretBoxProcessor
func NewSecretBoxProcessor(logger logger.Logger) (cryptoalg.SecretBoxProcessor, error) {
	return &secretBoxProcessor{
		logger: logger,
	}, nil
}

// GenerateKey generates a random 32-byte secretbox key
func (s *secretBoxProcessor) GenerateKey(keySize int) ([]byte, error) {
	if keySize != cryptoalg.SecretBoxKeySize {
		return nil, fmt.Errorf("invalid secretbox key size %d: must be %d bytes", keySize, cryptoalg.SecretBoxKeySize)
	}

	key := make([]byte, keySize)
	if _, err := io.ReadFull(rand.Reader, key); err != nil {
		return nil, fmt.Errorf("failed to generate secretbox key: %w", err)
	}

	s.logger.Debug("Generated secretbox key")
	return key, nil
}

// Encrypt seals data; the output is nonce || box
func (s *secretBoxProcessor) Encrypt(data, key []byte) ([]byte, error) {
	k, err := toSecretBoxKey(key)
	if err != nil {
		return nil, err
	}

	var nonce [secretBoxNonceSize]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	return secretbox.Seal(nonce[:], data, &nonce, k), nil
}

// Decrypt opens nonce || box
func (s *secretBoxProcessor) Decrypt(ciphertext, key []byte) ([]byte, error) {
	k, err := toSecretBoxKey(key)
	if err != nil {
		return nil, err
	}

	if len(ciphertext) < secretBoxNonceSize+secretbox.Overhead {
		return nil, fmt.Errorf("ciphertext too short")
	}

	var nonce [secretBoxNonceSize]byte
	copy(nonce[:], ciphertext[:secretBoxNonceSize])

	plaintext, ok := secretbox.Open(nil, ciphertext[secretBoxNonceSize:], &nonce, k)
	if !ok {
		return nil, fmt.Errorf("failed to decrypt: message authentication failed")
	}
	return plaintext, nil
}

func toSecretBoxKey(key []byte) (*[cryptoalg.SecretBoxKeySize]byte, error) {
	if len(key) != cryptoalg.SecretBoxKeySize {
		return nil, fmt.Errorf("invalid secretbox key size %d: must be %d bytes", len(key), cryptoalg.SecretBoxKeySize)
	}
	var k [cryptoalg.SecretBoxKeySize]byte
	copy(k[:], key)
	return &k, nil
}
