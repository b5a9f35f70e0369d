// Package records defines the two record collections of the vault (companies and users),
// the change notifications emitted when they are written, the portable snapshot of the
// whole store, and the closed set of error kinds surfaced to callers.
package records
