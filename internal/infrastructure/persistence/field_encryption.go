package persistence

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/MGTheTrain/record-vault/internal/domain/cryptoalg"
	"github.com/MGTheTrain/record-vault/internal/pkg/logger"

	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

const (
	fieldEncryptionName = "record_vault:field_encryption"
	restoreKey          = "record_vault:field_encryption:restore"
)

var (
	// ErrFieldDecrypt is added to a query whose stored ciphertext cannot be opened
	ErrFieldDecrypt = errors.New("failed to decrypt stored field")
	// ErrUnencryptedUpdate is added to column-map updates touching an encrypted column
	ErrUnencryptedUpdate = errors.New("column updates bypass field encryption")
	// ErrUnknownEncryptedField is added when a configured column does not exist on the model
	ErrUnknownEncryptedField = errors.New("encrypted field is not a string column of the model")
)

// FieldEncryption is a GORM plugin that encrypts configured text columns on insert and
// update, and decrypts them after every query. Models passed to Create or Save keep their
// plaintext once the statement returns.
type FieldEncryption struct {
	cipher cryptoalg.FieldCipher
	fields map[string][]string
	logger logger.Logger
}

type fieldRestore struct {
	record    reflect.Value
	field     *schema.Field
	plaintext string
}

// NewFieldEncryption creates the plugin for the table -> column selection in fields
func NewFieldEncryption(cipher cryptoalg.FieldCipher, fields map[string][]string, logger logger.Logger) *FieldEncryption {
	selected := make(map[string][]string, len(fields))
	for table, columns := range fields {
		selected[table] = append([]string(nil), columns...)
	}
	return &FieldEncryption{
		cipher: cipher,
		fields: selected,
		logger: logger,
	}
}

// Name implements gorm.Plugin
func (p *FieldEncryption) Name() string {
	return fieldEncryptionName
}

// Cipher returns the key-bound cipher the plugin encrypts with
func (p *FieldEncryption) Cipher() cryptoalg.FieldCipher {
	return p.cipher
}

// Initialize implements gorm.Plugin by registering the encryption callbacks
func (p *FieldEncryption) Initialize(db *gorm.DB) error {
	callbacks := db.Callback()

	if err := callbacks.Create().Before("gorm:create").Register(fieldEncryptionName+":encrypt_create", p.encryptBeforeWrite); err != nil {
		return fmt.Errorf("failed to register create encryption: %w", err)
	}
	if err := callbacks.Create().After("gorm:create").Register(fieldEncryptionName+":restore_create", p.restoreAfterWrite); err != nil {
		return fmt.Errorf("failed to register create restore: %w", err)
	}
	if err := callbacks.Update().Before("gorm:update").Register(fieldEncryptionName+":encrypt_update", p.encryptBeforeWrite); err != nil {
		return fmt.Errorf("failed to register update encryption: %w", err)
	}
	if err := callbacks.Update().After("gorm:update").Register(fieldEncryptionName+":restore_update", p.restoreAfterWrite); err != nil {
		return fmt.Errorf("failed to register update restore: %w", err)
	}
	if err := callbacks.Query().After("gorm:query").Register(fieldEncryptionName+":decrypt_query", p.decryptAfterQuery); err != nil {
		return fmt.Errorf("failed to register query decryption: %w", err)
	}

	p.logger.Info("Field encryption installed for ", len(p.fields), " tables")
	return nil
}

func (p *FieldEncryption) encryptBeforeWrite(db *gorm.DB) {
	if db.Error != nil {
		return
	}
	fields := p.encryptedFields(db)
	if len(fields) == 0 {
		return
	}

	if updates, ok := db.Statement.Dest.(map[string]interface{}); ok {
		for _, f := range fields {
			if _, touched := updates[f.DBName]; touched {
				_ = db.AddError(fmt.Errorf("%w: %s.%s", ErrUnencryptedUpdate, db.Statement.Schema.Table, f.DBName))
				return
			}
		}
	}

	ctx := db.Statement.Context
	var restores []fieldRestore
	err := forEachRecord(db, func(record reflect.Value) error {
		for _, f := range fields {
			value, _ := f.ValueOf(ctx, record)
			plaintext, _ := value.(string)

			ciphertext, err := p.cipher.EncryptField(plaintext)
			if err != nil {
				return fmt.Errorf("failed to encrypt %s: %w", f.DBName, err)
			}
			if err := f.Set(ctx, record, ciphertext); err != nil {
				return fmt.Errorf("failed to set %s: %w", f.DBName, err)
			}
			restores = append(restores, fieldRestore{record: record, field: f, plaintext: plaintext})
		}
		return nil
	})

	// restore whatever was encrypted, even on partial failure
	db.InstanceSet(restoreKey, restores)
	if err != nil {
		_ = db.AddError(err)
	}
}

func (p *FieldEncryption) restoreAfterWrite(db *gorm.DB) {
	value, ok := db.InstanceGet(restoreKey)
	if !ok {
		return
	}
	restores, _ := value.([]fieldRestore)

	ctx := db.Statement.Context
	for _, r := range restores {
		if err := r.field.Set(ctx, r.record, r.plaintext); err != nil {
			_ = db.AddError(fmt.Errorf("failed to restore %s: %w", r.field.DBName, err))
		}
	}
	db.InstanceSet(restoreKey, []fieldRestore(nil))
}

func (p *FieldEncryption) decryptAfterQuery(db *gorm.DB) {
	if db.Error != nil || db.RowsAffected == 0 {
		return
	}
	fields := p.encryptedFields(db)
	if len(fields) == 0 {
		return
	}

	ctx := db.Statement.Context
	err := forEachRecord(db, func(record reflect.Value) error {
		for _, f := range fields {
			value, zero := f.ValueOf(ctx, record)
			if zero {
				continue
			}
			ciphertext, _ := value.(string)

			plaintext, err := p.cipher.DecryptField(ciphertext)
			if err != nil {
				return fmt.Errorf("%w %s.%s: %v", ErrFieldDecrypt, db.Statement.Schema.Table, f.DBName, err)
			}
			if err := f.Set(ctx, record, plaintext); err != nil {
				return fmt.Errorf("failed to set %s: %w", f.DBName, err)
			}
		}
		return nil
	})
	if err != nil {
		_ = db.AddError(err)
	}
}

// encryptedFields resolves the configured columns of the statement's table
func (p *FieldEncryption) encryptedFields(db *gorm.DB) []*schema.Field {
	s := db.Statement.Schema
	if s == nil {
		return nil
	}
	columns := p.fields[s.Table]
	if len(columns) == 0 {
		return nil
	}

	fields := make([]*schema.Field, 0, len(columns))
	for _, column := range columns {
		f := s.LookUpField(column)
		if f == nil || f.FieldType.Kind() != reflect.String {
			_ = db.AddError(fmt.Errorf("%w: %s.%s", ErrUnknownEncryptedField, s.Table, column))
			return nil
		}
		fields = append(fields, f)
	}
	return fields
}

// forEachRecord calls fn for every model struct held by the statement
func forEachRecord(db *gorm.DB, fn func(record reflect.Value) error) error {
	rv := db.Statement.ReflectValue
	modelType := db.Statement.Schema.ModelType

	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		for i := 0; i < rv.Len(); i++ {
			record := reflect.Indirect(rv.Index(i))
			if record.Kind() != reflect.Struct || record.Type() != modelType {
				continue
			}
			if err := fn(record); err != nil {
				return err
			}
		}
	case reflect.Struct:
		if rv.Type() == modelType {
			return fn(rv)
		}
	}
	return nil
}
