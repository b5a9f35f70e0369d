package app

import (
	"context"
	"fmt"
	"sync"

	"github.com/MGTheTrain/record-vault/internal/domain/records"
	"github.com/MGTheTrain/record-vault/internal/pkg/logger"
)

// tableView keeps the rows of one table and re-lists them whenever the change
// feed reports a change on that table. Events are hints only; rows always come
// from a fresh listing.
type tableView[T any] struct {
	table  string
	list   func(ctx context.Context) ([]T, error)
	key    func(T) int64
	feed   records.ChangeFeed
	logger logger.Logger

	mu      sync.RWMutex
	rows    []T
	mounted bool
	sub     records.Subscription
	cancel  context.CancelFunc
	done    chan struct{}
	updates chan struct{}
}

func newTableView[T any](table string, list func(context.Context) ([]T, error), key func(T) int64, feed records.ChangeFeed, logger logger.Logger) *tableView[T] {
	return &tableView[T]{
		table:   table,
		list:    list,
		key:     key,
		feed:    feed,
		logger:  logger,
		updates: make(chan struct{}, 1),
	}
}

// Mount lists the table once and starts following the change feed until Unmount
// or until ctx is done
func (v *tableView[T]) Mount(ctx context.Context) error {
	v.mu.Lock()
	if v.mounted {
		v.mu.Unlock()
		return fmt.Errorf("%s view is already mounted", v.table)
	}
	v.mounted = true
	// subscribe before the first listing so no change in between is missed
	v.sub = v.feed.Subscribe()
	runCtx, cancel := context.WithCancel(ctx)
	v.cancel = cancel
	v.done = make(chan struct{})
	v.mu.Unlock()

	v.refresh(runCtx)
	go v.follow(runCtx, v.sub, v.done)

	v.logger.Info("Mounted ", v.table, " view")
	return nil
}

func (v *tableView[T]) follow(ctx context.Context, sub records.Subscription, done chan<- struct{}) {
	defer close(done)
	for {
		select {
		case event, ok := <-sub.Events():
			if !ok {
				return
			}
			if event.Touches(v.table) {
				v.refresh(ctx)
			}
		case <-ctx.Done():
			return
		}
	}
}

func (v *tableView[T]) refresh(ctx context.Context) {
	rows, err := v.list(ctx)
	if err != nil {
		if ctx.Err() == nil {
			v.logger.Warn("Failed to refresh ", v.table, " view: ", err)
		}
		return
	}

	v.mu.Lock()
	v.rows = rows
	v.mu.Unlock()

	select {
	case v.updates <- struct{}{}:
	default:
	}
}

// Rows returns the last listed rows
func (v *tableView[T]) Rows() []T {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return append([]T(nil), v.rows...)
}

// Updates signals after every refresh; signals coalesce while nobody reads
func (v *tableView[T]) Updates() <-chan struct{} {
	return v.updates
}

// find looks up id among the last listed rows
func (v *tableView[T]) find(id int64) (T, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	for _, row := range v.rows {
		if v.key(row) == id {
			return row, true
		}
	}
	var zero T
	return zero, false
}

// Unmount stops following the feed and releases the subscription
func (v *tableView[T]) Unmount() {
	v.mu.Lock()
	if !v.mounted {
		v.mu.Unlock()
		return
	}
	v.mounted = false
	sub, cancel, done := v.sub, v.cancel, v.done
	v.mu.Unlock()

	sub.Unsubscribe()
	cancel()
	<-done
	v.logger.Info("Unmounted ", v.table, " view")
}

// CompaniesView is the live company listing
type CompaniesView struct {
	*tableView[*records.Company]
	service  records.CompanyService
	notifier Notifier
}

// NewCompaniesView creates an unmounted companies view
func NewCompaniesView(service records.CompanyService, feed records.ChangeFeed, notifier Notifier, logger logger.Logger) *CompaniesView {
	return &CompaniesView{
		tableView: newTableView(records.TableCompanies, service.List,
			func(c *records.Company) int64 { return c.ID }, feed, logger),
		service:  service,
		notifier: notifier,
	}
}

// Add inserts a generated company; the view refreshes through the feed
func (v *CompaniesView) Add(ctx context.Context) (*records.Company, error) {
	return v.service.Add(ctx)
}

// Remove deletes a company shown by the view; ids absent from the rows fail with NotFound
func (v *CompaniesView) Remove(ctx context.Context, id int64) error {
	if _, ok := v.find(id); !ok {
		notify(v.notifier, VariantError, MsgCompanyNotFound, "")
		return records.NewError(records.KindNotFound, "remove company", fmt.Errorf("company %d", id))
	}
	return v.service.Remove(ctx, id)
}

// UsersView is the live user listing, joined with companies
type UsersView struct {
	*tableView[records.UserWithCompany]
	service  records.UserService
	notifier Notifier
}

// NewUsersView creates an unmounted users view
func NewUsersView(service records.UserService, feed records.ChangeFeed, notifier Notifier, logger logger.Logger) *UsersView {
	return &UsersView{
		tableView: newTableView(records.TableUsers, service.List,
			func(u records.UserWithCompany) int64 { return u.ID }, feed, logger),
		service:  service,
		notifier: notifier,
	}
}

// Add inserts a generated user; the view refreshes through the feed
func (v *UsersView) Add(ctx context.Context) (*records.User, error) {
	return v.service.Add(ctx)
}

// Remove deletes a user shown by the view; ids absent from the rows fail with NotFound
func (v *UsersView) Remove(ctx context.Context, id int64) error {
	if _, ok := v.find(id); !ok {
		notify(v.notifier, VariantError, MsgUserNotFound, "")
		return records.NewError(records.KindNotFound, "remove user", fmt.Errorf("user %d", id))
	}
	return v.service.Remove(ctx, id)
}
