package v1

import (
	"context"
	"errors"
	"net/http"

	"github.com/MGTheTrain/record-vault/internal/app"
	"github.com/MGTheTrain/record-vault/internal/domain/scanning"
	"github.com/MGTheTrain/record-vault/internal/domain/storage"
	"github.com/MGTheTrain/record-vault/internal/pkg/buildinfo"

	"github.com/gin-gonic/gin"
)

// ShellStatus reports the lifecycle of the store connection
type ShellStatus interface {
	State() app.ShellState
	Err() error
}

// StorageReporter hands out storage reports
type StorageReporter interface {
	Latest() storage.Report
	Refresh(ctx context.Context) storage.Report
}

// ScannerController drives QR scan sessions
type ScannerController interface {
	Start(ctx context.Context) error
	Stop()
	Status() scanning.Status
}

// NotificationSource lists recent notifications
type NotificationSource interface {
	Recent() []app.Notification
}

// SystemHandler defines the interface for status, storage, scanner and notification operations
type SystemHandler interface {
	Status(ctx *gin.Context)
	Storage(ctx *gin.Context)
	Scanner(ctx *gin.Context)
	StartScan(ctx *gin.Context)
	StopScan(ctx *gin.Context)
	Notifications(ctx *gin.Context)
}

// systemHandler struct holds the components
type systemHandler struct {
	shell         ShellStatus
	storage       StorageReporter
	scanner       ScannerController
	notifications NotificationSource
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler(shell ShellStatus, storage StorageReporter, scanner ScannerController, notifications NotificationSource) SystemHandler {
	return &systemHandler{
		shell:         shell,
		storage:       storage,
		scanner:       scanner,
		notifications: notifications,
	}
}

// Status handles the GET request for the store state
// @Summary Store status
// @Description Report the state of the store connection and the running version.
// @Tags System
// @Produce json
// @Success 200 {object} StatusResponse
// @Router /status [get]
func (handler *systemHandler) Status(ctx *gin.Context) {
	response := StatusResponse{
		State:   string(handler.shell.State()),
		Version: buildinfo.String(),
	}
	if err := handler.shell.Err(); err != nil {
		response.Error = err.Error()
	}
	ctx.JSON(http.StatusOK, response)
}

// Storage handles the GET request for the storage report
// @Summary Storage report
// @Description Report quota, usage and database usage. Pass refresh=true to measure now.
// @Tags System
// @Produce json
// @Param refresh query bool false "Measure before answering"
// @Success 200 {object} StorageResponse
// @Router /storage [get]
func (handler *systemHandler) Storage(ctx *gin.Context) {
	report := handler.storage.Latest()
	if ctx.Query("refresh") == "true" {
		report = handler.storage.Refresh(ctx)
	}
	ctx.JSON(http.StatusOK, newStorageResponse(report))
}

// Scanner handles the GET request for the scanner state
// @Summary Scanner state
// @Tags Scanner
// @Produce json
// @Success 200 {object} ScannerResponse
// @Router /scanner [get]
func (handler *systemHandler) Scanner(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, newScannerResponse(handler.scanner.Status()))
}

// StartScan handles the POST request to start a scan session
// @Summary Start scanning
// @Description Start a single-shot scan session. The session ends after the first decoded payload.
// @Tags Scanner
// @Produce json
// @Success 202 {object} ScannerResponse
// @Failure 409 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /scanner/start [post]
func (handler *systemHandler) StartScan(ctx *gin.Context) {
	if err := handler.scanner.Start(ctx); err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, scanning.ErrAlreadyScanning):
			status = http.StatusConflict
		case errors.Is(err, scanning.ErrNoCamera):
			status = http.StatusServiceUnavailable
		}
		ctx.JSON(status, ErrorResponse{Message: err.Error()})
		return
	}
	ctx.JSON(http.StatusAccepted, newScannerResponse(handler.scanner.Status()))
}

// StopScan handles the POST request to stop the scan session
// @Summary Stop scanning
// @Tags Scanner
// @Produce json
// @Success 200 {object} ScannerResponse
// @Router /scanner/stop [post]
func (handler *systemHandler) StopScan(ctx *gin.Context) {
	handler.scanner.Stop()
	ctx.JSON(http.StatusOK, newScannerResponse(handler.scanner.Status()))
}

// Notifications handles the GET request for recent notifications
// @Summary Recent notifications
// @Tags System
// @Produce json
// @Success 200 {array} NotificationResponse
// @Router /notifications [get]
func (handler *systemHandler) Notifications(ctx *gin.Context) {
	var listResponse = []NotificationResponse{}
	for _, notification := range handler.notifications.Recent() {
		listResponse = append(listResponse, newNotificationResponse(notification))
	}
	ctx.JSON(http.StatusOK, listResponse)
}
