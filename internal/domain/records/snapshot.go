package records

// DatabaseName identifies the store in snapshots
const DatabaseName = "RecordVault"

// SchemaVersion is the only schema version this build reads and writes
const SchemaVersion = 1

// Snapshot is a full, plaintext copy of both collections
type Snapshot struct {
	DatabaseName string
	Version      int
	Companies    []*Company
	Users        []*User
}

// ImportOptions controls how a snapshot is applied
type ImportOptions struct {
	// ClearBeforeImport empties both collections before inserting the snapshot rows
	ClearBeforeImport bool
}

// SnapshotCodec converts snapshots to and from their portable byte form
type SnapshotCodec interface {
	Encode(snapshot *Snapshot) ([]byte, error)
	// Decode fails with a KindImport error on malformed or incompatible input
	Decode(data []byte) (*Snapshot, error)
}
