package cryptoalg

// AESProcessor handles AES-GCM authenticated encryption of record fields.
type AESProcessor interface {
	// GenerateKey generates a random AES key of the specified size.
	// Supported key sizes: 16 (AES-128), 24 (AES-192), 32 (AES-256) bytes.
	GenerateKey(keySize int) ([]byte, error)

	// Encrypt seals data with the symmetric key. The random nonce is prepended to the result.
	Encrypt(data, key []byte) ([]byte, error)

	// Decrypt opens a nonce-prefixed ciphertext produced by Encrypt.
	// Tampered data or a wrong key yields an error.
	Decrypt(ciphertext, key []byte) ([]byte, error)
}
