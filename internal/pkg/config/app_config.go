package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. RV_ENCRYPTION_KEY
const EnvPrefix = "RV"

// StorageSettings configures the storage introspection poller
type StorageSettings struct {
	PollInterval time.Duration `mapstructure:"poll_interval" validate:"required,min=100000000"`
}

// ScannerSettings configures the directory backed camera of the QR scanner
type ScannerSettings struct {
	FramesDir     string        `mapstructure:"frames_dir"`
	FrameInterval time.Duration `mapstructure:"frame_interval" validate:"required,min=1000000"`
}

// AppConfig is the complete configuration shared by the REST server and the CLI
type AppConfig struct {
	Port       string             `mapstructure:"port" validate:"required,numeric"`
	Logger     LoggerSettings     `mapstructure:"logger"`
	Database   DatabaseSettings   `mapstructure:"database"`
	Encryption EncryptionSettings `mapstructure:"encryption"`
	Storage    StorageSettings    `mapstructure:"storage"`
	Scanner    ScannerSettings    `mapstructure:"scanner"`
}

// Validate checks the configuration and every nested settings block
func (c *AppConfig) Validate() error {
	validate := validator.New()
	if err := validate.Var(c.Port, "required,numeric"); err != nil {
		return fmt.Errorf("validation failed for port: %w", err)
	}
	if err := validate.Struct(c.Storage); err != nil {
		return fmt.Errorf("validation failed for StorageSettings: %w", err)
	}
	if err := validate.Struct(c.Scanner); err != nil {
		return fmt.Errorf("validation failed for ScannerSettings: %w", err)
	}

	if err := c.Logger.Validate(); err != nil {
		return err
	}
	if err := c.Database.Validate(); err != nil {
		return err
	}
	if err := c.Encryption.Validate(); err != nil {
		return err
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("logger.log_level", LogLevelInfo)
	v.SetDefault("logger.log_type", LogTypeConsole)
	// zero values keep the keys bound to RV_LOGGER_*; ApplyDefaults fills them for file logging
	v.SetDefault("logger.file_path", "")
	v.SetDefault("logger.max_size", 0)
	v.SetDefault("logger.max_backups", 0)
	v.SetDefault("logger.max_age", 0)
	v.SetDefault("database.type", SqliteDbType)
	v.SetDefault("database.dsn", "record-vault.db")
	v.SetDefault("database.name", "")
	v.SetDefault("encryption.key", BuildKey)
	v.SetDefault("encryption.algorithm", AlgorithmSecretBox)
	v.SetDefault("encryption.fields", DefaultEncryptedFields())
	v.SetDefault("storage.poll_interval", time.Second)
	v.SetDefault("scanner.frames_dir", "frames")
	v.SetDefault("scanner.frame_interval", 200*time.Millisecond)
}

// Initialize loads the configuration from the YAML file at path (optional, may be empty)
// and applies RV_-prefixed environment overrides on top of the defaults.
func Initialize(path string) (*AppConfig, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	var cfg AppConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.Logger.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}
