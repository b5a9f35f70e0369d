package cryptoalg

// SecretBoxKeySize is the only key size of the XSalsa20-Poly1305 secretbox
const SecretBoxKeySize = 32

// SecretBoxProcessor handles NaCl secretbox (XSalsa20-Poly1305) encryption of record fields.
type SecretBoxProcessor interface {
	// GenerateKey generates a random key; keySize must be SecretBoxKeySize.
	GenerateKey(keySize int) ([]byte, error)

	// Encrypt seals data with the key. The 24-byte random nonce is prepended to the box.
	Encrypt(data, key []byte) ([]byte, error)

	// Decrypt opens a nonce-prefixed box produced by Encrypt.
	Decrypt(ciphertext, key []byte) ([]byte, error)
}
