package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/MGTheTrain/record-vault/internal/domain/cryptoalg"
	"github.com/MGTheTrain/record-vault/internal/domain/records"
	"github.com/MGTheTrain/record-vault/internal/infrastructure/persistence/models"

	"gorm.io/gorm"
)

const keyCheckPlaintext = "record-vault key check"

var (
	// ErrSchemaMismatch is returned when a store was written by another schema version
	ErrSchemaMismatch = errors.New("schema version mismatch")
	// ErrKeyMismatch is returned when a store was written with another encryption key
	ErrKeyMismatch = errors.New("encryption key does not match the store")
)

// ensureSchema creates the schema of a fresh store or verifies an existing one
func ensureSchema(ctx context.Context, db *gorm.DB, cipher cryptoalg.FieldCipher) error {
	tx := db.WithContext(ctx)

	if err := tx.AutoMigrate(&models.SchemaMetaModel{}); err != nil {
		return fmt.Errorf("failed to migrate schema meta: %w", err)
	}

	var metas []models.SchemaMetaModel
	if err := tx.Where("name = ?", records.DatabaseName).Limit(1).Find(&metas).Error; err != nil {
		return fmt.Errorf("failed to read schema meta: %w", err)
	}

	if len(metas) == 0 {
		return createSchema(tx, cipher)
	}

	meta := metas[0]
	if meta.Version != records.SchemaVersion {
		return fmt.Errorf("%w: store has version %d, this build reads %d", ErrSchemaMismatch, meta.Version, records.SchemaVersion)
	}

	plaintext, err := cipher.DecryptField(meta.KeyCheck)
	if err != nil || plaintext != keyCheckPlaintext {
		return ErrKeyMismatch
	}

	if err := tx.AutoMigrate(&models.CompanyModel{}, &models.UserModel{}); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

func createSchema(tx *gorm.DB, cipher cryptoalg.FieldCipher) error {
	check, err := cipher.EncryptField(keyCheckPlaintext)
	if err != nil {
		return fmt.Errorf("failed to seal key check: %w", err)
	}

	return tx.Transaction(func(tx *gorm.DB) error {
		if err := tx.AutoMigrate(&models.CompanyModel{}, &models.UserModel{}); err != nil {
			return fmt.Errorf("failed to migrate schema: %w", err)
		}
		meta := &models.SchemaMetaModel{
			Name:     records.DatabaseName,
			Version:  records.SchemaVersion,
			KeyCheck: check,
		}
		if err := tx.Create(meta).Error; err != nil {
			return fmt.Errorf("failed to write schema meta: %w", err)
		}
		return nil
	})
}
