package commands

import (
	"fmt"
	"io"

	"github.com/MGTheTrain/record-vault/internal/infrastructure/cryptography"
	"github.com/MGTheTrain/record-vault/internal/pkg/config"

	"github.com/spf13/cobra"
)

// KeyCommandHandler encapsulates logic for handling encryption key operations via CLI.
type KeyCommandHandler struct{}

// generatedKey is the output of keygen
type generatedKey struct {
	Algorithm string `json:"algorithm" yaml:"algorithm"`
	Key       string `json:"key" yaml:"key"`
}

// GenerateKeyCmd prints a fresh base64 encryption key for the selected algorithm
func (commandHandler *KeyCommandHandler) GenerateKeyCmd(cmd *cobra.Command, _ []string) {
	log, err := commandLogger(cmd)
	if err != nil {
		cmd.PrintErrln("Error:", err)
		return
	}

	algorithm, err := cmd.Flags().GetString("algorithm")
	if err != nil {
		fail(cmd, log, fmt.Errorf("invalid algorithm flag: %w", err))
		return
	}

	secretBox, err := cryptography.NewSecretBoxProcessor(log)
	if err != nil {
		fail(cmd, log, err)
		return
	}
	aes, err := cryptography.NewAESProcessor(log)
	if err != nil {
		fail(cmd, log, err)
		return
	}

	key, err := cryptography.GenerateEncodedKey(algorithm, secretBox, aes)
	if err != nil {
		fail(cmd, log, err)
		return
	}

	result := generatedKey{Algorithm: algorithm, Key: key}
	err = render(cmd, result, func(w io.Writer) error {
		_, err := fmt.Fprintln(w, key)
		return err
	})
	if err != nil {
		fail(cmd, log, err)
	}
}

// InitKeyCommands registers the key commands
func InitKeyCommands(rootCmd *cobra.Command) error {
	handler := &KeyCommandHandler{}

	var keygenCmd = &cobra.Command{
		Use:   "keygen",
		Short: "Generate a base64 encryption key for the store",
		Long: `Generate a random encryption key. Provide it as RV_ENCRYPTION_KEY, as encryption.key
in the config file, or at build time with
-ldflags "-X github.com/MGTheTrain/record-vault/internal/pkg/config.BuildKey=<key>".`,
		Run: handler.GenerateKeyCmd,
	}
	keygenCmd.Flags().StringP("algorithm", "", config.AlgorithmSecretBox, "Key algorithm: secretbox or aes-gcm")
	rootCmd.AddCommand(keygenCmd)

	return nil
}
