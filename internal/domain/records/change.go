package records

import (
	"time"
)

// Operation is the kind of mutation a Change describes
type Operation string

const (
	// OperationCreate marks an inserted record
	OperationCreate Operation = "create"
	// OperationUpdate marks a modified record
	OperationUpdate Operation = "update"
	// OperationDelete marks a removed record
	OperationDelete Operation = "delete"
	// OperationClear marks a collection that was emptied or dropped; Key is zero
	OperationClear Operation = "clear"
)

// Change describes a single committed mutation
type Change struct {
	Table     string    `json:"table" yaml:"table"`
	Operation Operation `json:"operation" yaml:"operation"`
	Key       int64     `json:"key,omitempty" yaml:"key,omitempty"`
}

// ChangeEvent groups the changes of one committed write.
// Seq increases by one per event on a given bus.
type ChangeEvent struct {
	ID          string    `json:"id" yaml:"id"`
	Seq         uint64    `json:"seq" yaml:"seq"`
	Changes     []Change  `json:"changes" yaml:"changes"`
	CommittedAt time.Time `json:"committedAt" yaml:"committedAt"`
}

// Touches reports whether any change of the event concerns table
func (e ChangeEvent) Touches(table string) bool {
	for _, c := range e.Changes {
		if c.Table == table {
			return true
		}
	}
	return false
}

// Tables returns the distinct tables touched by the event
func (e ChangeEvent) Tables() []string {
	seen := make(map[string]bool, 2)
	var tables []string
	for _, c := range e.Changes {
		if !seen[c.Table] {
			seen[c.Table] = true
			tables = append(tables, c.Table)
		}
	}
	return tables
}

// Subscription delivers change events until Unsubscribe is called
type Subscription interface {
	// Events returns the delivery channel. It is closed after Unsubscribe.
	Events() <-chan ChangeEvent
	// Unsubscribe stops delivery; calling it more than once is a no-op.
	Unsubscribe()
}

// ChangeFeed broadcasts committed changes to every subscriber, including
// subscribers in the process that made the change.
type ChangeFeed interface {
	Subscribe() Subscription
	Publish(changes ...Change) ChangeEvent
}
