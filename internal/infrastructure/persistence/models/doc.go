// Package models holds the GORM rows of the record store: companies, users and the
// schema meta row. Encrypted columns hold base64 ciphertext, so every text column is
// declared as text regardless of the plaintext length.
package models
