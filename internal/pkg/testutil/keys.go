package testutil

import (
	"github.com/MGTheTrain/record-vault/internal/pkg/config"
)

// TestEncryptionKey is a fixed 32-byte key ("0123456789abcdef0123456789abcdef") in base64
const TestEncryptionKey = "MDEyMzQ1Njc4OWFiY2RlZjAxMjM0NTY3ODlhYmNkZWY="

// OtherEncryptionKey is a second valid 32-byte key ("fedcba9876543210fedcba9876543210") in base64
const OtherEncryptionKey = "ZmVkY2JhOTg3NjU0MzIxMGZlZGNiYTk4NzY1NDMyMTA="

// EncryptionSettings returns secretbox settings with the default secret columns
func EncryptionSettings() config.EncryptionSettings {
	return config.EncryptionSettings{
		Key:       TestEncryptionKey,
		Algorithm: config.AlgorithmSecretBox,
		Fields:    config.DefaultEncryptedFields(),
	}
}
