//go:build unit
// +build unit

package changefeed

import (
	"context"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/MGTheTrain/record-vault/internal/domain/records"
	"github.com/MGTheTrain/record-vault/internal/pkg/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errStop = errors.New("stop")

func TestHandlerAndWatch_StreamEvents(t *testing.T) {
	logger := testutil.SetupTestLogger(t)
	bus := NewBus(logger)
	defer bus.Close()

	server := httptest.NewServer(Handler(bus, logger))
	defer server.Close()
	url := "ws" + strings.TrimPrefix(server.URL, "http")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	received := make(chan records.ChangeEvent, 2)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, url, func(event records.ChangeEvent) error {
			received <- event
			if len(received) == 2 {
				return errStop
			}
			return nil
		})
	}()

	require.Eventually(t, func() bool { return bus.Subscribers() == 1 }, 2*time.Second, 10*time.Millisecond)

	bus.Publish(records.Change{Table: records.TableCompanies, Operation: records.OperationCreate, Key: 1})
	bus.Publish(records.Change{Table: records.TableUsers, Operation: records.OperationDelete, Key: 9})

	assert.ErrorIs(t, <-done, errStop)

	first := <-received
	second := <-received
	assert.Equal(t, records.TableCompanies, first.Changes[0].Table)
	assert.Equal(t, records.OperationDelete, second.Changes[0].Operation)
	assert.Equal(t, int64(9), second.Changes[0].Key)

	// subscription is released once the client goes away
	assert.Eventually(t, func() bool { return bus.Subscribers() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestWatch_ReturnsOnContextCancel(t *testing.T) {
	logger := testutil.SetupTestLogger(t)
	bus := NewBus(logger)
	defer bus.Close()

	server := httptest.NewServer(Handler(bus, logger))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, "ws"+strings.TrimPrefix(server.URL, "http"), func(records.ChangeEvent) error { return nil })
	}()

	require.Eventually(t, func() bool { return bus.Subscribers() == 1 }, 2*time.Second, 10*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Watch did not return")
	}
}

func TestWatch_ConnectFailure(t *testing.T) {
	err := Watch(context.Background(), "ws://127.0.0.1:1/changes", func(records.ChangeEvent) error { return nil })
	assert.Error(t, err)
}
