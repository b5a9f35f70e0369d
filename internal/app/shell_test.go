//go:build unit
// +build unit

package app

import (
	"context"
	"testing"

	"github.com/MGTheTrain/record-vault/internal/domain/records"
	"github.com/MGTheTrain/record-vault/internal/infrastructure/changefeed"
	"github.com/MGTheTrain/record-vault/internal/pkg/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubStore only supports Wipe and Close
type stubStore struct {
	records.RecordStore
	wiped  bool
	closed bool
}

func (s *stubStore) Wipe(_ context.Context) error {
	s.wiped = true
	return nil
}

func (s *stubStore) Close() error {
	s.closed = true
	return nil
}

func TestShell_Transitions(t *testing.T) {
	logger := testutil.SetupTestLogger(t)
	var opened []*stubStore
	opener := func(_ context.Context, _ records.ChangeFeed) (records.RecordStore, error) {
		store := &stubStore{}
		opened = append(opened, store)
		return store, nil
	}

	shell := NewShell(opener, changefeed.NewBus(logger), logger)
	assert.Equal(t, StateUninitialized, shell.State())

	_, err := shell.Store()
	require.ErrorIs(t, err, records.ErrStoreUnavailable)

	require.NoError(t, shell.Open(context.Background()))
	assert.Equal(t, StateOpen, shell.State())

	store, err := shell.Store()
	require.NoError(t, err)
	assert.Same(t, opened[0], store)

	require.NoError(t, shell.Wipe(context.Background()))
	require.Len(t, opened, 2)
	assert.True(t, opened[0].wiped)
	assert.Equal(t, StateOpen, shell.State())

	require.NoError(t, shell.Close())
	assert.True(t, opened[1].closed)
	assert.Equal(t, StateClosed, shell.State())
	require.NoError(t, shell.Close())
}

func TestShell_OpenFailureIsFatal(t *testing.T) {
	logger := testutil.SetupTestLogger(t)
	keyErr := records.NewError(records.KindKey, "open store", nil)
	opener := func(_ context.Context, _ records.ChangeFeed) (records.RecordStore, error) {
		return nil, keyErr
	}

	shell := NewShell(opener, changefeed.NewBus(logger), logger)
	require.ErrorIs(t, shell.Open(context.Background()), records.ErrKey)
	assert.Equal(t, StateFatal, shell.State())
	assert.Equal(t, keyErr, shell.Err())

	require.Error(t, shell.Open(context.Background()), "fatal is terminal")
	require.ErrorIs(t, shell.Wipe(context.Background()), records.ErrStoreUnavailable)
}

func TestShell_WipePublishesClear(t *testing.T) {
	logger := testutil.SetupTestLogger(t)
	opener := func(_ context.Context, _ records.ChangeFeed) (records.RecordStore, error) {
		return &stubStore{}, nil
	}

	bus := changefeed.NewBus(logger)
	shell := NewShell(opener, bus, logger)
	require.NoError(t, shell.Open(context.Background()))

	sub := shell.Changes().Subscribe()
	defer sub.Unsubscribe()

	require.NoError(t, shell.Wipe(context.Background()))

	event := <-sub.Events()
	assert.ElementsMatch(t, []string{records.TableCompanies, records.TableUsers}, event.Tables())
	for _, change := range event.Changes {
		assert.Equal(t, records.OperationClear, change.Operation)
	}
}
