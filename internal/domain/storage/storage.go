// Package storage describes how much space the record store and its host use,
// and whether the store survives storage pressure.
package storage

import (
	"context"
	"errors"
	"time"
)

// ErrUnsupported is returned when the backend cannot be introspected, e.g. in-memory stores
var ErrUnsupported = errors.New("storage estimation is not supported for this store")

// Item names of a report
const (
	ItemQuota         = "Quota"
	ItemUsage         = "Usage"
	ItemDatabaseUsage = "Usage on database"
)

// Report messages
const (
	MessagePersisted    = "Storage will not be cleared except by explicit user action."
	MessageNotPersisted = "Storage may be cleared by the host under storage pressure, please move the database to persistent storage."
	MessageUnsupported  = "Oops.. the configured database doesn't support storage estimation"
)

// Severity grades a report message
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Estimate holds byte counts of the volume holding the store and of the store itself
type Estimate struct {
	Quota         uint64
	Usage         uint64
	DatabaseUsage uint64
}

// Estimator measures storage usage
type Estimator interface {
	// Estimate fails with ErrUnsupported when the store has no measurable location
	Estimate(ctx context.Context) (*Estimate, error)
}

// PersistenceGranter reports and requests the persistence guarantee of the store
type PersistenceGranter interface {
	Persisted(ctx context.Context) (bool, error)
	// Persist asks for the guarantee and reports whether it is held afterwards
	Persist(ctx context.Context) (bool, error)
}

// Item is one measured quantity of a report
type Item struct {
	Name      string `json:"name" yaml:"name"`
	Size      uint64 `json:"size" yaml:"size"`
	Formatted string `json:"formatted" yaml:"formatted"`
}

// Report is the latest storage introspection result
type Report struct {
	Supported bool      `json:"supported" yaml:"supported"`
	Items     []Item    `json:"items" yaml:"items"`
	Persisted bool      `json:"persisted" yaml:"persisted"`
	Severity  Severity  `json:"severity" yaml:"severity"`
	Message   string    `json:"message" yaml:"message"`
	UpdatedAt time.Time `json:"updatedAt" yaml:"updatedAt"`
}
