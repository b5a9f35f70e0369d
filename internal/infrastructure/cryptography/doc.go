// Package cryptography implements the symmetric processors used for field encryption
// (NaCl secretbox and AES-GCM), base64 key decoding, and the key-bound field cipher.
package cryptography
