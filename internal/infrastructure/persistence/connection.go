package persistence

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/MGTheTrain/record-vault/internal/infrastructure/persistence/models"
	"github.com/MGTheTrain/record-vault/internal/pkg/config"
	"github.com/MGTheTrain/record-vault/internal/pkg/logger"

	"gorm.io/gorm"
)

var (
	// ErrInstallAfterOpen is returned when field encryption is installed on an open store
	ErrInstallAfterOpen = errors.New("field encryption must be installed before the store is opened")
	// ErrNotInstalled is returned when a store is opened without field encryption
	ErrNotInstalled = errors.New("field encryption is not installed")
	// ErrConnectionClosed is returned by every operation after Close or Drop
	ErrConnectionClosed = errors.New("connection is closed")
)

// Connection owns the database handle of one record store and enforces its lifecycle:
// field encryption is installed first, then the schema is opened, then the handle is used.
type Connection struct {
	mu         sync.Mutex
	db         *gorm.DB
	settings   config.DatabaseSettings
	encryption *FieldEncryption
	opened     bool
	closed     bool
	logger     logger.Logger
}

// NewConnection connects to the database described by settings without touching the schema
func NewConnection(settings config.DatabaseSettings, logger logger.Logger) (*Connection, error) {
	db, err := NewDBConnection(settings)
	if err != nil {
		return nil, err
	}
	return &Connection{
		db:       db,
		settings: settings,
		logger:   logger,
	}, nil
}

// Install registers the field encryption plugin. It must precede Open.
func (c *Connection) Install(encryption *FieldEncryption) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrConnectionClosed
	}
	if c.opened {
		return ErrInstallAfterOpen
	}
	if err := c.db.Use(encryption); err != nil {
		return fmt.Errorf("failed to install field encryption: %w", err)
	}
	c.encryption = encryption
	return nil
}

// Open creates or verifies the schema. A store written with another key fails with
// ErrKeyMismatch, a store of another schema version with ErrSchemaMismatch.
func (c *Connection) Open(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrConnectionClosed
	}
	if c.encryption == nil {
		return ErrNotInstalled
	}
	if c.opened {
		return nil
	}

	if err := ensureSchema(ctx, c.db, c.encryption.Cipher()); err != nil {
		return err
	}

	c.opened = true
	c.logger.Info("Opened ", c.settings.Type, " store")
	return nil
}

// DB returns the handle of an open connection
func (c *Connection) DB() (*gorm.DB, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, ErrConnectionClosed
	}
	if !c.opened {
		return nil, fmt.Errorf("connection is not open")
	}
	return c.db, nil
}

// Transaction runs fn in a database transaction; fn must only use tx
func (c *Connection) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	db, err := c.DB()
	if err != nil {
		return err
	}
	return db.WithContext(ctx).Transaction(fn)
}

// Settings returns the database settings the connection was made with
func (c *Connection) Settings() config.DatabaseSettings {
	return c.settings
}

// Drop removes both collections and the schema meta, then closes the connection
func (c *Connection) Drop(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrConnectionClosed
	}

	tables := models.All()
	// reverse creation order
	for i, j := 0, len(tables)-1; i < j; i, j = i+1, j-1 {
		tables[i], tables[j] = tables[j], tables[i]
	}
	if err := c.db.WithContext(ctx).Migrator().DropTable(tables...); err != nil {
		return fmt.Errorf("failed to drop store: %w", err)
	}
	c.logger.Info("Dropped store tables")

	return c.closeLocked()
}

// Close releases the database handle; closing twice is a no-op
func (c *Connection) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	return c.closeLocked()
}

func (c *Connection) closeLocked() error {
	c.closed = true
	c.opened = false
	if err := CloseDB(c.db); err != nil {
		return err
	}
	c.logger.Info("Closed ", c.settings.Type, " store")
	return nil
}

// ResyncSequences moves PostgreSQL id sequences past rows inserted with explicit keys.
// SQLite AUTOINCREMENT tracks explicit keys by itself.
func ResyncSequences(tx *gorm.DB) error {
	if tx.Dialector.Name() != config.PostgresDbType {
		return nil
	}
	for _, table := range []string{models.CompanyModel{}.TableName(), models.UserModel{}.TableName()} {
		query := fmt.Sprintf(
			"SELECT setval(pg_get_serial_sequence('%s', 'id'), COALESCE((SELECT MAX(id) FROM %s), 0) + 1, false)",
			table, table)
		if err := tx.Exec(query).Error; err != nil {
			return fmt.Errorf("failed to resync %s sequence: %w", table, err)
		}
	}
	return nil
}
