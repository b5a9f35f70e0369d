package cryptoalg

// FieldCipher encrypts single text fields with a key bound at construction.
// Ciphertexts are printable so they fit the text columns of the store, and two
// encryptions of the same plaintext differ.
type FieldCipher interface {
	Algorithm() string
	EncryptField(plaintext string) (string, error)
	DecryptField(ciphertext string) (string, error)
}
