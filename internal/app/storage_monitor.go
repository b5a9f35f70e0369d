package app

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/MGTheTrain/record-vault/internal/domain/storage"
	"github.com/MGTheTrain/record-vault/internal/pkg/config"
	"github.com/MGTheTrain/record-vault/internal/pkg/logger"
	"github.com/MGTheTrain/record-vault/internal/pkg/strutil"
)

// StorageMonitor polls storage usage at a fixed interval and keeps the latest report
type StorageMonitor struct {
	estimator storage.Estimator
	granter   storage.PersistenceGranter
	interval  time.Duration
	logger    logger.Logger

	mu        sync.RWMutex
	latest    storage.Report
	persisted bool
	cancel    context.CancelFunc
	done      chan struct{}
}

// NewStorageMonitor creates a stopped monitor
func NewStorageMonitor(estimator storage.Estimator, granter storage.PersistenceGranter, settings config.StorageSettings, logger logger.Logger) *StorageMonitor {
	return &StorageMonitor{
		estimator: estimator,
		granter:   granter,
		interval:  settings.PollInterval,
		logger:    logger,
		persisted: true,
	}
}

// Start refreshes once, checks the persistence guarantee, asking for it once if it is
// not held, and then refreshes every interval until Stop or until ctx is done
func (m *StorageMonitor) Start(ctx context.Context) {
	m.mu.Lock()
	if m.cancel != nil {
		m.mu.Unlock()
		return
	}
	runCtx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	m.done = make(chan struct{})
	done := m.done
	m.mu.Unlock()

	m.checkPersistence(runCtx)
	m.Refresh(runCtx)

	go func() {
		defer close(done)
		ticker := time.NewTicker(m.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				m.Refresh(runCtx)
			case <-runCtx.Done():
				return
			}
		}
	}()
	m.logger.Info("Storage monitor started, polling every ", m.interval)
}

// Stop cancels polling and waits for the poller to exit
func (m *StorageMonitor) Stop() {
	m.mu.Lock()
	cancel, done := m.cancel, m.done
	m.cancel = nil
	m.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
	m.logger.Info("Storage monitor stopped")
}

func (m *StorageMonitor) checkPersistence(ctx context.Context) {
	persisted, err := m.granter.Persisted(ctx)
	if err == nil && !persisted {
		persisted, err = m.granter.Persist(ctx)
	}
	if err != nil {
		if !errors.Is(err, storage.ErrUnsupported) {
			m.logger.Warn("Failed to check storage persistence: ", err)
		}
		return
	}

	m.mu.Lock()
	m.persisted = persisted
	m.mu.Unlock()
}

// Refresh measures storage now and returns the new report. Transient failures keep
// the previous report.
func (m *StorageMonitor) Refresh(ctx context.Context) storage.Report {
	estimate, err := m.estimator.Estimate(ctx)

	m.mu.Lock()
	defer m.mu.Unlock()

	switch {
	case errors.Is(err, storage.ErrUnsupported):
		m.latest = storage.Report{
			Supported: false,
			Items:     []storage.Item{},
			Severity:  storage.SeverityError,
			Message:   storage.MessageUnsupported,
			UpdatedAt: time.Now().UTC(),
		}
	case err != nil:
		if ctx.Err() == nil {
			m.logger.Warn("Failed to estimate storage: ", err)
		}
	default:
		m.latest = buildReport(estimate, m.persisted)
	}
	return m.latest
}

// Latest returns the most recent report
func (m *StorageMonitor) Latest() storage.Report {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.latest
}

func buildReport(estimate *storage.Estimate, persisted bool) storage.Report {
	item := func(name string, size uint64) storage.Item {
		return storage.Item{Name: name, Size: size, Formatted: strutil.FormatBytes(size)}
	}

	report := storage.Report{
		Supported: true,
		Items: []storage.Item{
			item(storage.ItemQuota, estimate.Quota),
			item(storage.ItemUsage, estimate.Usage),
			item(storage.ItemDatabaseUsage, estimate.DatabaseUsage),
		},
		Persisted: persisted,
		Severity:  storage.SeverityInfo,
		Message:   storage.MessagePersisted,
		UpdatedAt: time.Now().UTC(),
	}
	if !persisted {
		report.Severity = storage.SeverityWarning
		report.Message = storage.MessageNotPersisted
	}
	return report
}
