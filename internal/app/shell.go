package app

import (
	"context"
	"fmt"
	"sync"

	"github.com/MGTheTrain/record-vault/internal/domain/records"
	"github.com/MGTheTrain/record-vault/internal/infrastructure/changefeed"
	"github.com/MGTheTrain/record-vault/internal/pkg/config"
	"github.com/MGTheTrain/record-vault/internal/pkg/logger"
)

// ShellState is the lifecycle state of the store connection
type ShellState string

const (
	StateUninitialized ShellState = "uninitialized"
	StateOpening       ShellState = "opening"
	StateOpen          ShellState = "open"
	StateFatal         ShellState = "fatal"
	StateClosed        ShellState = "closed"
)

// StoreOpener opens a record store that publishes its changes to feed
type StoreOpener func(ctx context.Context, feed records.ChangeFeed) (records.RecordStore, error)

// NewStoreOpener returns a StoreOpener for the database and encryption settings of cfg
func NewStoreOpener(cfg *config.AppConfig, codec records.SnapshotCodec, logger logger.Logger) StoreOpener {
	return func(ctx context.Context, feed records.ChangeFeed) (records.RecordStore, error) {
		return OpenRecordStore(ctx, cfg.Database, cfg.Encryption, codec, feed, logger)
	}
}

// Shell owns the single store connection of the process and the change bus shared
// by every view. Nothing may use the store unless the shell is Open.
type Shell struct {
	mu     sync.RWMutex
	state  ShellState
	store  records.RecordStore
	err    error
	opener StoreOpener
	bus    *changefeed.Bus
	logger logger.Logger
}

// NewShell creates an uninitialized shell
func NewShell(opener StoreOpener, bus *changefeed.Bus, logger logger.Logger) *Shell {
	return &Shell{
		state:  StateUninitialized,
		opener: opener,
		bus:    bus,
		logger: logger,
	}
}

// Open opens the store. It is only valid from Uninitialized; a failure moves the
// shell to Fatal, where it stays.
func (s *Shell) Open(ctx context.Context) error {
	s.mu.Lock()
	if s.state != StateUninitialized {
		state := s.state
		s.mu.Unlock()
		return fmt.Errorf("cannot open store in state %s", state)
	}
	s.setState(StateOpening)
	s.mu.Unlock()

	store, err := s.opener(ctx, s.bus)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.err = err
		s.setState(StateFatal)
		s.logger.Error("Failed to open store: ", err)
		return err
	}
	s.store = store
	s.err = nil
	s.setState(StateOpen)
	return nil
}

func (s *Shell) setState(state ShellState) {
	s.logger.Info("Shell ", s.state, " -> ", state)
	s.state = state
}

// State returns the current lifecycle state
func (s *Shell) State() ShellState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Err returns the cause of the Fatal state
func (s *Shell) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

// Store implements records.StoreProvider
func (s *Shell) Store() (records.RecordStore, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.state != StateOpen {
		return nil, records.NewError(records.KindStoreUnavailable, "store", fmt.Errorf("store is %s", s.state))
	}
	return s.store, nil
}

// Changes returns the change feed of the process
func (s *Shell) Changes() records.ChangeFeed {
	return s.bus
}

// Wipe deletes the store and opens a fresh, empty one
func (s *Shell) Wipe(ctx context.Context) error {
	s.mu.Lock()
	if s.state != StateOpen {
		state := s.state
		s.mu.Unlock()
		return records.NewError(records.KindStoreUnavailable, "wipe", fmt.Errorf("store is %s", state))
	}
	store := s.store
	if err := store.Wipe(ctx); err != nil {
		s.mu.Unlock()
		return err
	}
	s.store = nil
	s.setState(StateClosed)
	s.setState(StateUninitialized)
	s.mu.Unlock()

	if err := s.Open(ctx); err != nil {
		return err
	}

	// views listing during the reopen saw an unavailable store
	s.bus.Publish(
		records.Change{Table: records.TableCompanies, Operation: records.OperationClear},
		records.Change{Table: records.TableUsers, Operation: records.OperationClear})
	return nil
}

// Close closes the store and the change bus
func (s *Shell) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateClosed {
		return nil
	}

	var err error
	if s.store != nil {
		err = s.store.Close()
		s.store = nil
	}
	s.setState(StateClosed)
	s.bus.Close()
	return err
}
