package v1

import (
	"github.com/MGTheTrain/record-vault/internal/domain/records"
	"github.com/MGTheTrain/record-vault/internal/infrastructure/changefeed"
	"github.com/MGTheTrain/record-vault/internal/pkg/logger"

	"github.com/gin-gonic/gin"
)

// SetupRoutes sets up all the API routes for version 1.
func SetupRoutes(r *gin.Engine,
	shell ShellStatus,
	changes records.ChangeFeed,
	companyService records.CompanyService,
	userService records.UserService,
	snapshotService records.SnapshotService,
	storage StorageReporter,
	scanner ScannerController,
	notifications NotificationSource,
	logger logger.Logger) {

	v1 := r.Group(BasePath) // lookup in version file

	// System Routes
	systemHandler := NewSystemHandler(shell, storage, scanner, notifications)
	v1.GET("/status", systemHandler.Status)
	v1.GET("/storage", systemHandler.Storage)
	v1.GET("/scanner", systemHandler.Scanner)
	v1.POST("/scanner/start", systemHandler.StartScan)
	v1.POST("/scanner/stop", systemHandler.StopScan)
	v1.GET("/notifications", systemHandler.Notifications)
	v1.GET("/changes", gin.WrapH(changefeed.Handler(changes, logger)))

	store := v1.Group("", RequireOpenStore(shell))

	// Companies Routes
	companyHandler := NewCompanyHandler(companyService)
	store.GET("/companies", companyHandler.List)
	store.POST("/companies", companyHandler.Add)
	store.DELETE("/companies/:id", companyHandler.DeleteByID)

	// Users Routes
	userHandler := NewUserHandler(userService)
	store.GET("/users", userHandler.List)
	store.POST("/users", userHandler.Add)
	store.DELETE("/users/:id", userHandler.DeleteByID)

	// Snapshot Routes
	snapshotHandler := NewSnapshotHandler(snapshotService)
	store.GET("/snapshot", snapshotHandler.Export)
	store.POST("/snapshot", snapshotHandler.Import)
	store.POST("/reset", snapshotHandler.Reset)
}
