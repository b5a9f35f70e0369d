package config

// AlgorithmSecretBox selects XSalsa20-Poly1305 field encryption (32-byte key)
const AlgorithmSecretBox = "secretbox"

// AlgorithmAESGCM selects AES-GCM field encryption (16, 24 or 32-byte key)
const AlgorithmAESGCM = "aes-gcm"

// BuildKey is the base64 record encryption key baked in at build time:
//
//	go build -ldflags "-X github.com/MGTheTrain/record-vault/internal/pkg/config.BuildKey=<base64>"
//
// It is the default for encryption.key and may be overridden by RV_ENCRYPTION_KEY.
var BuildKey = ""

// DefaultEncryptedFields lists the secret columns per table
func DefaultEncryptedFields() map[string][]string {
	return map[string][]string{
		"companies": {"name"},
		"users":     {"name", "email"},
	}
}
