package v1

import (
	"fmt"
	"time"

	"github.com/MGTheTrain/record-vault/internal/app"
	"github.com/MGTheTrain/record-vault/internal/domain/records"
	"github.com/MGTheTrain/record-vault/internal/domain/scanning"
	"github.com/MGTheTrain/record-vault/internal/domain/storage"

	"github.com/go-playground/validator/v10"
)

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Message string `json:"message"`
}

// InfoResponse is the body of a successful request without payload
type InfoResponse struct {
	Message string `json:"message"`
}

// CompanyResponse represents a company
type CompanyResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func newCompanyResponse(c *records.Company) CompanyResponse {
	return CompanyResponse{ID: c.ID, Name: c.Name}
}

// UserResponse represents a user joined with its company
type UserResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	CompanyID   *int64 `json:"companyId,omitempty"`
	CompanyName string `json:"companyName,omitempty"`
}

func newUserResponse(u records.UserWithCompany) UserResponse {
	return UserResponse{
		ID:          u.ID,
		Name:        u.Name,
		Email:       u.Email,
		CompanyID:   u.CompanyID,
		CompanyName: u.CompanyName(),
	}
}

// ImportRequest holds the query parameters of a snapshot import
type ImportRequest struct {
	Clear bool `form:"clear"`
}

// IDRequest holds the record key of a path
type IDRequest struct {
	ID int64 `uri:"id" validate:"required,min=1"`
}

// Validate for validating IDRequest struct
func (r *IDRequest) Validate() error {
	validate := validator.New()
	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("invalid id: %w", err)
	}
	return nil
}

// StatusResponse describes the store connection and the running version
type StatusResponse struct {
	State   string `json:"state"`
	Error   string `json:"error,omitempty"`
	Version string `json:"version"`
}

// StorageItemResponse is one measured storage figure
type StorageItemResponse struct {
	Name      string `json:"name"`
	Size      uint64 `json:"size"`
	Formatted string `json:"formatted"`
}

// StorageResponse is the latest storage report
type StorageResponse struct {
	Supported bool                  `json:"supported"`
	Items     []StorageItemResponse `json:"items"`
	Persisted bool                  `json:"persisted"`
	Severity  string                `json:"severity"`
	Message   string                `json:"message"`
	UpdatedAt time.Time             `json:"updatedAt"`
}

func newStorageResponse(report storage.Report) StorageResponse {
	items := make([]StorageItemResponse, 0, len(report.Items))
	for _, item := range report.Items {
		items = append(items, StorageItemResponse{Name: item.Name, Size: item.Size, Formatted: item.Formatted})
	}
	return StorageResponse{
		Supported: report.Supported,
		Items:     items,
		Persisted: report.Persisted,
		Severity:  string(report.Severity),
		Message:   report.Message,
		UpdatedAt: report.UpdatedAt,
	}
}

// ScannerResponse is the state of the QR scanner
type ScannerResponse struct {
	State     string `json:"state"`
	SessionID string `json:"sessionId,omitempty"`
	Result    string `json:"result,omitempty"`
	Error     string `json:"error,omitempty"`
	Message   string `json:"message,omitempty"`
}

func newScannerResponse(status scanning.Status) ScannerResponse {
	return ScannerResponse{
		State:     string(status.State),
		SessionID: status.SessionID,
		Result:    status.Result,
		Error:     status.Error,
		Message:   status.Message,
	}
}

// NotificationResponse is a user notification
type NotificationResponse struct {
	Variant string    `json:"variant"`
	Title   string    `json:"title"`
	Message string    `json:"message,omitempty"`
	At      time.Time `json:"at"`
}

func newNotificationResponse(n app.Notification) NotificationResponse {
	return NotificationResponse{Variant: string(n.Variant), Title: n.Title, Message: n.Message, At: n.At}
}
