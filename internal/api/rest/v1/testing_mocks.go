//go:build unit
// +build unit

package v1

import (
	"context"

	"github.com/MGTheTrain/record-vault/internal/app"
	"github.com/MGTheTrain/record-vault/internal/domain/records"
	"github.com/MGTheTrain/record-vault/internal/domain/scanning"
	"github.com/MGTheTrain/record-vault/internal/domain/storage"

	"github.com/stretchr/testify/mock"
)

// MockCompanyService is a mock implementation of CompanyService
type MockCompanyService struct {
	mock.Mock
}

func (m *MockCompanyService) List(ctx context.Context) ([]*records.Company, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*records.Company), args.Error(1)
}

func (m *MockCompanyService) Add(ctx context.Context) (*records.Company, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*records.Company), args.Error(1)
}

func (m *MockCompanyService) Remove(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockUserService is a mock implementation of UserService
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) List(ctx context.Context) ([]records.UserWithCompany, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]records.UserWithCompany), args.Error(1)
}

func (m *MockUserService) Add(ctx context.Context) (*records.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*records.User), args.Error(1)
}

func (m *MockUserService) Remove(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockSnapshotService is a mock implementation of SnapshotService
type MockSnapshotService struct {
	mock.Mock
}

func (m *MockSnapshotService) Export(ctx context.Context) ([]byte, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockSnapshotService) Import(ctx context.Context, data []byte, opts records.ImportOptions) error {
	args := m.Called(ctx, data, opts)
	return args.Error(0)
}

func (m *MockSnapshotService) Reset(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockShellStatus is a mock implementation of ShellStatus
type MockShellStatus struct {
	mock.Mock
}

func (m *MockShellStatus) State() app.ShellState {
	args := m.Called()
	return args.Get(0).(app.ShellState)
}

func (m *MockShellStatus) Err() error {
	args := m.Called()
	return args.Error(0)
}

// MockStorageReporter is a mock implementation of StorageReporter
type MockStorageReporter struct {
	mock.Mock
}

func (m *MockStorageReporter) Latest() storage.Report {
	args := m.Called()
	return args.Get(0).(storage.Report)
}

func (m *MockStorageReporter) Refresh(ctx context.Context) storage.Report {
	args := m.Called(ctx)
	return args.Get(0).(storage.Report)
}

// MockScannerController is a mock implementation of ScannerController
type MockScannerController struct {
	mock.Mock
}

func (m *MockScannerController) Start(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockScannerController) Stop() {
	m.Called()
}

func (m *MockScannerController) Status() scanning.Status {
	args := m.Called()
	return args.Get(0).(scanning.Status)
}

// MockNotificationSource is a mock implementation of NotificationSource
type MockNotificationSource struct {
	mock.Mock
}

func (m *MockNotificationSource) Recent() []app.Notification {
	args := m.Called()
	return args.Get(0).([]app.Notification)
}
