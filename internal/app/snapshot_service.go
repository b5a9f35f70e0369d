package app

import (
	"context"

	"github.com/MGTheTrain/record-vault/internal/domain/records"
	"github.com/MGTheTrain/record-vault/internal/pkg/logger"
)

// Wiper deletes the store and reopens it empty
type Wiper interface {
	Wipe(ctx context.Context) error
}

// snapshotService implements records.SnapshotService
type snapshotService struct {
	provider records.StoreProvider
	wiper    Wiper
	notifier Notifier
	logger   logger.Logger
}

// NewSnapshotService creates a new instance of SnapshotService
func NewSnapshotService(provider records.StoreProvider, wiper Wiper, notifier Notifier, logger logger.Logger) (records.SnapshotService, error) {
	return &snapshotService{
		provider: provider,
		wiper:    wiper,
		notifier: notifier,
		logger:   logger,
	}, nil
}

// Export returns the whole store as a Dexie export document
func (s *snapshotService) Export(ctx context.Context) ([]byte, error) {
	store, err := s.provider.Store()
	if err != nil {
		notify(s.notifier, VariantError, MsgSomethingWentWrong, err.Error())
		return nil, err
	}

	data, err := store.Export(ctx)
	if err != nil {
		notify(s.notifier, VariantError, MsgSomethingWentWrong, err.Error())
		return nil, err
	}
	return data, nil
}

// Import applies an exported document. A failed import leaves the store unchanged.
func (s *snapshotService) Import(ctx context.Context, data []byte, opts records.ImportOptions) error {
	store, err := s.provider.Store()
	if err != nil {
		notify(s.notifier, VariantError, err.Error(), "")
		return err
	}

	if err := store.Import(ctx, data, opts); err != nil {
		s.logger.Error("Import failed: ", err)
		notify(s.notifier, VariantError, err.Error(), "")
		return err
	}

	notify(s.notifier, VariantSuccess, MsgImportSuccess, "")
	return nil
}

// Reset wipes the store and reopens it empty
func (s *snapshotService) Reset(ctx context.Context) error {
	if err := s.wiper.Wipe(ctx); err != nil {
		s.logger.Error("Reset failed: ", err)
		notify(s.notifier, VariantError, MsgSomethingWentWrong, err.Error())
		return err
	}

	notify(s.notifier, VariantSuccess, MsgResetSuccess, "")
	return nil
}
