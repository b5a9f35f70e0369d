package records

import (
	"context"
)

// CompanyRepository defines the persistence operations on the company collection
type CompanyRepository interface {
	// Create inserts c and sets c.ID to the assigned key
	Create(ctx context.Context, c *Company) error
	// CreateBatch inserts companies keeping any non-zero ID verbatim
	CreateBatch(ctx context.Context, companies []*Company) error
	List(ctx context.Context, query *ListQuery) ([]*Company, error)
	// GetByIDs returns the existing companies among ids; absent ids are skipped
	GetByIDs(ctx context.Context, ids []int64) ([]*Company, error)
	Count(ctx context.Context) (int64, error)
	// GetAt returns the company at offset in ascending key order
	GetAt(ctx context.Context, offset int) (*Company, error)
	// DeleteByID reports whether a row was removed
	DeleteByID(ctx context.Context, id int64) (bool, error)
	DeleteAll(ctx context.Context) error
}

// UserRepository defines the persistence operations on the user collection
type UserRepository interface {
	// Create inserts u and sets u.ID to the assigned key
	Create(ctx context.Context, u *User) error
	// CreateBatch inserts users keeping any non-zero ID verbatim
	CreateBatch(ctx context.Context, users []*User) error
	List(ctx context.Context, query *ListQuery) ([]*User, error)
	// DeleteByID reports whether a row was removed
	DeleteByID(ctx context.Context, id int64) (bool, error)
	DeleteAll(ctx context.Context) error
}

// RecordStore is an open, encrypted record store. Secret fields are encrypted on
// write and decrypted on read, so callers only ever see plaintext. Every method
// fails with ErrStoreUnavailable once the store is closed or wiped.
type RecordStore interface {
	InsertCompany(ctx context.Context, c *Company) (int64, error)
	InsertUser(ctx context.Context, u *User) (int64, error)
	ListCompanies(ctx context.Context, query *ListQuery) ([]*Company, error)
	ListUsers(ctx context.Context, query *ListQuery) ([]*User, error)
	CompaniesByIDs(ctx context.Context, ids []int64) ([]*Company, error)
	CountCompanies(ctx context.Context) (int64, error)
	CompanyAt(ctx context.Context, offset int) (*Company, error)
	// DeleteByID is a no-op when no record of table has the key
	DeleteByID(ctx context.Context, table string, id int64) error
	Export(ctx context.Context) ([]byte, error)
	Import(ctx context.Context, data []byte, opts ImportOptions) error
	// Wipe drops both collections and the schema, then closes the store
	Wipe(ctx context.Context) error
	Close() error
}

// StoreProvider hands out the currently open store
type StoreProvider interface {
	// Store fails with ErrStoreUnavailable unless a store is open
	Store() (RecordStore, error)
}

// Generator produces placeholder record content
type Generator interface {
	CompanyName() string
	PersonName() string
	Email() string
	// Intn returns a uniformly distributed integer in [0, n)
	Intn(n int) int
}

// CompanyService defines the user-facing actions on companies
type CompanyService interface {
	List(ctx context.Context) ([]*Company, error)
	Add(ctx context.Context) (*Company, error)
	Remove(ctx context.Context, id int64) error
}

// UserService defines the user-facing actions on users
type UserService interface {
	List(ctx context.Context) ([]UserWithCompany, error)
	Add(ctx context.Context) (*User, error)
	Remove(ctx context.Context, id int64) error
}

// SnapshotService defines the whole-store actions
type SnapshotService interface {
	Export(ctx context.Context) ([]byte, error)
	Import(ctx context.Context, data []byte, opts ImportOptions) error
	// Reset wipes the store and reopens it empty
	Reset(ctx context.Context) error
}
