// Package cryptoalg defines the symmetric encryption contracts used to protect
// secret record fields at rest: key generation, sealing and opening of raw bytes,
// and a key-bound field cipher that works on text values.
package cryptoalg
