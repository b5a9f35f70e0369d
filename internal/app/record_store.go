package app

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/MGTheTrain/record-vault/internal/domain/records"
	"github.com/MGTheTrain/record-vault/internal/infrastructure/cryptography"
	"github.com/MGTheTrain/record-vault/internal/infrastructure/persistence"
	"github.com/MGTheTrain/record-vault/internal/pkg/config"
	"github.com/MGTheTrain/record-vault/internal/pkg/logger"

	"gorm.io/gorm"
)

// recordStore implements records.RecordStore over an encrypted GORM connection.
// Writes hold mu exclusively and publish their change event before releasing it,
// so subscribers observe events in commit order.
type recordStore struct {
	mu          sync.RWMutex
	closed      bool
	conn        *persistence.Connection
	companyRepo records.CompanyRepository
	userRepo    records.UserRepository
	codec       records.SnapshotCodec
	feed        records.ChangeFeed
	logger      logger.Logger
}

// OpenRecordStore connects to the database, installs field encryption and opens the schema.
// A missing, malformed or mismatching key fails with a KindKey error.
func OpenRecordStore(
	ctx context.Context,
	dbSettings config.DatabaseSettings,
	encSettings config.EncryptionSettings,
	codec records.SnapshotCodec,
	feed records.ChangeFeed,
	logger logger.Logger,
) (records.RecordStore, error) {
	if encSettings.Key == "" {
		return nil, records.NewError(records.KindKey, "open store", cryptography.ErrNoKey)
	}
	if err := encSettings.Validate(); err != nil {
		return nil, records.NewError(records.KindUnknown, "open store", err)
	}

	cipher, err := cryptography.NewFieldCipher(&encSettings, logger)
	if err != nil {
		return nil, records.Classify("open store", err)
	}

	conn, err := persistence.NewConnection(dbSettings, logger)
	if err != nil {
		return nil, records.NewError(records.KindUnknown, "open store", err)
	}

	if err := conn.Install(persistence.NewFieldEncryption(cipher, encSettings.Fields, logger)); err != nil {
		_ = conn.Close()
		return nil, records.NewError(records.KindUnknown, "open store", err)
	}

	if err := conn.Open(ctx); err != nil {
		_ = conn.Close()
		if errors.Is(err, persistence.ErrKeyMismatch) {
			return nil, records.NewError(records.KindKey, "open store", err)
		}
		return nil, records.NewError(records.KindUnknown, "open store", err)
	}

	db, err := conn.DB()
	if err != nil {
		_ = conn.Close()
		return nil, records.NewError(records.KindUnknown, "open store", err)
	}

	companyRepo, err := persistence.NewGormCompanyRepository(db, logger)
	if err != nil {
		_ = conn.Close()
		return nil, records.NewError(records.KindUnknown, "open store", err)
	}
	userRepo, err := persistence.NewGormUserRepository(db, logger)
	if err != nil {
		_ = conn.Close()
		return nil, records.NewError(records.KindUnknown, "open store", err)
	}

	return &recordStore{
		conn:        conn,
		companyRepo: companyRepo,
		userRepo:    userRepo,
		codec:       codec,
		feed:        feed,
		logger:      logger,
	}, nil
}

// readLock takes the shared lock of an open store; callers must RUnlock on success
func (s *recordStore) readLock(op string) error {
	s.mu.RLock()
	if s.closed {
		s.mu.RUnlock()
		return records.NewError(records.KindStoreUnavailable, op, nil)
	}
	return nil
}

// writeLock takes the exclusive lock of an open store; callers must Unlock on success
func (s *recordStore) writeLock(op string) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return records.NewError(records.KindStoreUnavailable, op, nil)
	}
	return nil
}

func (s *recordStore) classify(op string, err error) error {
	if errors.Is(err, persistence.ErrConnectionClosed) {
		return records.NewError(records.KindStoreUnavailable, op, err)
	}
	return records.Classify(op, err)
}

func (s *recordStore) InsertCompany(ctx context.Context, c *records.Company) (int64, error) {
	c.Normalize()

	if err := s.writeLock("insert company"); err != nil {
		return 0, err
	}
	defer s.mu.Unlock()

	if err := s.companyRepo.Create(ctx, c); err != nil {
		return 0, s.classify("insert company", err)
	}
	s.feed.Publish(records.Change{Table: records.TableCompanies, Operation: records.OperationCreate, Key: c.ID})
	return c.ID, nil
}

func (s *recordStore) InsertUser(ctx context.Context, u *records.User) (int64, error) {
	u.Normalize()

	if err := s.writeLock("insert user"); err != nil {
		return 0, err
	}
	defer s.mu.Unlock()

	if err := s.userRepo.Create(ctx, u); err != nil {
		return 0, s.classify("insert user", err)
	}
	s.feed.Publish(records.Change{Table: records.TableUsers, Operation: records.OperationCreate, Key: u.ID})
	return u.ID, nil
}

func (s *recordStore) ListCompanies(ctx context.Context, query *records.ListQuery) ([]*records.Company, error) {
	if err := s.readLock("list companies"); err != nil {
		return nil, err
	}
	defer s.mu.RUnlock()

	companies, err := s.companyRepo.List(ctx, query)
	if err != nil {
		return nil, s.classify("list companies", err)
	}
	return companies, nil
}

func (s *recordStore) ListUsers(ctx context.Context, query *records.ListQuery) ([]*records.User, error) {
	if err := s.readLock("list users"); err != nil {
		return nil, err
	}
	defer s.mu.RUnlock()

	users, err := s.userRepo.List(ctx, query)
	if err != nil {
		return nil, s.classify("list users", err)
	}
	return users, nil
}

func (s *recordStore) CompaniesByIDs(ctx context.Context, ids []int64) ([]*records.Company, error) {
	if err := s.readLock("companies by ids"); err != nil {
		return nil, err
	}
	defer s.mu.RUnlock()

	companies, err := s.companyRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, s.classify("companies by ids", err)
	}
	return companies, nil
}

func (s *recordStore) CountCompanies(ctx context.Context) (int64, error) {
	if err := s.readLock("count companies"); err != nil {
		return 0, err
	}
	defer s.mu.RUnlock()

	count, err := s.companyRepo.Count(ctx)
	if err != nil {
		return 0, s.classify("count companies", err)
	}
	return count, nil
}

func (s *recordStore) CompanyAt(ctx context.Context, offset int) (*records.Company, error) {
	if err := s.readLock("company at"); err != nil {
		return nil, err
	}
	defer s.mu.RUnlock()

	company, err := s.companyRepo.GetAt(ctx, offset)
	if err != nil {
		return nil, s.classify("company at", err)
	}
	return company, nil
}

func (s *recordStore) DeleteByID(ctx context.Context, table string, id int64) error {
	var deleteFn func(context.Context, int64) (bool, error)
	switch table {
	case records.TableCompanies:
		deleteFn = s.companyRepo.DeleteByID
	case records.TableUsers:
		deleteFn = s.userRepo.DeleteByID
	default:
		return records.NewError(records.KindUnknown, "delete", fmt.Errorf("unknown table %q", table))
	}

	if err := s.writeLock("delete"); err != nil {
		return err
	}
	defer s.mu.Unlock()

	deleted, err := deleteFn(ctx, id)
	if err != nil {
		return s.classify("delete", err)
	}
	if deleted {
		s.feed.Publish(records.Change{Table: table, Operation: records.OperationDelete, Key: id})
	}
	return nil
}

// Export reads both collections in one transaction, in ascending key order
func (s *recordStore) Export(ctx context.Context) ([]byte, error) {
	if err := s.readLock("export"); err != nil {
		return nil, err
	}
	defer s.mu.RUnlock()

	snapshot := &records.Snapshot{
		DatabaseName: records.DatabaseName,
		Version:      records.SchemaVersion,
	}
	query := &records.ListQuery{SortOrder: records.SortAscending}

	err := s.conn.Transaction(ctx, func(tx *gorm.DB) error {
		companyRepo, err := persistence.NewGormCompanyRepository(tx, s.logger)
		if err != nil {
			return err
		}
		userRepo, err := persistence.NewGormUserRepository(tx, s.logger)
		if err != nil {
			return err
		}

		if snapshot.Companies, err = companyRepo.List(ctx, query); err != nil {
			return err
		}
		snapshot.Users, err = userRepo.List(ctx, query)
		return err
	})
	if err != nil {
		return nil, s.classify("export", err)
	}

	data, err := s.codec.Encode(snapshot)
	if err != nil {
		return nil, s.classify("export", err)
	}

	s.logger.Info("Exported ", len(snapshot.Companies), " companies and ", len(snapshot.Users), " users")
	return data, nil
}

// Import applies a snapshot in one transaction: either every row lands, or the
// store keeps its previous content, cleared collections included.
func (s *recordStore) Import(ctx context.Context, data []byte, opts records.ImportOptions) error {
	snapshot, err := s.codec.Decode(data)
	if err != nil {
		return records.Classify("import", err)
	}

	if err := s.writeLock("import"); err != nil {
		return err
	}
	defer s.mu.Unlock()

	err = s.conn.Transaction(ctx, func(tx *gorm.DB) error {
		companyRepo, err := persistence.NewGormCompanyRepository(tx, s.logger)
		if err != nil {
			return err
		}
		userRepo, err := persistence.NewGormUserRepository(tx, s.logger)
		if err != nil {
			return err
		}

		if opts.ClearBeforeImport {
			if err := userRepo.DeleteAll(ctx); err != nil {
				return err
			}
			if err := companyRepo.DeleteAll(ctx); err != nil {
				return err
			}
		}
		if err := companyRepo.CreateBatch(ctx, snapshot.Companies); err != nil {
			return err
		}
		if err := userRepo.CreateBatch(ctx, snapshot.Users); err != nil {
			return err
		}
		return persistence.ResyncSequences(tx)
	})
	if err != nil {
		if errors.Is(err, persistence.ErrConnectionClosed) {
			return s.classify("import", err)
		}
		return records.NewError(records.KindImport, "import", err)
	}

	s.feed.Publish(importChanges(snapshot, opts)...)
	s.logger.Info("Imported ", len(snapshot.Companies), " companies and ", len(snapshot.Users), " users")
	return nil
}

func importChanges(snapshot *records.Snapshot, opts records.ImportOptions) []records.Change {
	changes := make([]records.Change, 0, len(snapshot.Companies)+len(snapshot.Users)+2)
	if opts.ClearBeforeImport {
		changes = append(changes,
			records.Change{Table: records.TableCompanies, Operation: records.OperationClear},
			records.Change{Table: records.TableUsers, Operation: records.OperationClear})
	}
	for _, c := range snapshot.Companies {
		changes = append(changes, records.Change{Table: records.TableCompanies, Operation: records.OperationCreate, Key: c.ID})
	}
	for _, u := range snapshot.Users {
		changes = append(changes, records.Change{Table: records.TableUsers, Operation: records.OperationCreate, Key: u.ID})
	}
	return changes
}

// Wipe drops the store; every later call fails with ErrStoreUnavailable
func (s *recordStore) Wipe(ctx context.Context) error {
	if err := s.writeLock("wipe"); err != nil {
		return err
	}
	defer s.mu.Unlock()

	if err := s.conn.Drop(ctx); err != nil {
		return s.classify("wipe", err)
	}
	s.closed = true

	s.feed.Publish(
		records.Change{Table: records.TableCompanies, Operation: records.OperationClear},
		records.Change{Table: records.TableUsers, Operation: records.OperationClear})
	s.logger.Info("Store wiped")
	return nil
}

// Close releases the connection; closing twice is a no-op
func (s *recordStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	if err := s.conn.Close(); err != nil {
		return s.classify("close", err)
	}
	return nil
}
