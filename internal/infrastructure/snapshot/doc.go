// Package snapshot encodes record snapshots in the Dexie export format
// (formatName "dexie", formatVersion 1) and validates imported documents
// against an embedded JSON schema before decoding them.
package snapshot
