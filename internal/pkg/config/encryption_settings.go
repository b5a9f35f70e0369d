package config

import (
	"fmt"

	"github.com/MGTheTrain/record-vault/internal/pkg/validators"
	"github.com/go-playground/validator/v10"
)

// EncryptionSettings configures the field encryption middleware of the record store
type EncryptionSettings struct {
	Key       string              `mapstructure:"key" validate:"required"`
	Algorithm string              `mapstructure:"algorithm" validate:"required,oneof=secretbox aes-gcm"`
	Fields    map[string][]string `mapstructure:"fields" validate:"encryptableColumns"`
}

// Validate checks that all fields in EncryptionSettings are valid.
// A missing key is reported here so that startup fails before any store is opened.
func (s *EncryptionSettings) Validate() error {
	validate := validator.New()

	if err := validate.RegisterValidation("encryptableColumns", validators.EncryptableColumnsValidation); err != nil {
		return fmt.Errorf("failed to register custom validator: %w", err)
	}

	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("validation failed for EncryptionSettings: %w", err)
	}

	return nil
}
