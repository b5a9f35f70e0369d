// cmd/record-vault-rest-api/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	v1 "github.com/MGTheTrain/record-vault/internal/api/rest/v1"
	"github.com/MGTheTrain/record-vault/internal/app"
	"github.com/MGTheTrain/record-vault/internal/domain/records"
	"github.com/MGTheTrain/record-vault/internal/infrastructure/camera"
	"github.com/MGTheTrain/record-vault/internal/infrastructure/changefeed"
	"github.com/MGTheTrain/record-vault/internal/infrastructure/diskusage"
	"github.com/MGTheTrain/record-vault/internal/infrastructure/fakedata"
	"github.com/MGTheTrain/record-vault/internal/infrastructure/qrdecode"
	"github.com/MGTheTrain/record-vault/internal/infrastructure/snapshot"
	"github.com/MGTheTrain/record-vault/internal/pkg/config"
	"github.com/MGTheTrain/record-vault/internal/pkg/logger"
	"github.com/gin-contrib/cors"

	"github.com/gin-gonic/gin"
)

// notificationLimit bounds the notifications kept for GET /notifications
const notificationLimit = 100

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Application error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Parse configuration
	configPath := os.Getenv("CONFIG_PATH")

	appConfig, err := config.Initialize(configPath)
	if err != nil {
		return fmt.Errorf("failed to initialize config: %w", err)
	}

	// Initialize logger
	if err := logger.InitLogger(&appConfig.Logger); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	log, err := logger.GetLogger()
	if err != nil {
		return fmt.Errorf("failed to get logger: %w", err)
	}
	defer func() {
		if err := logger.CloseLogger(); err != nil {
			fmt.Fprintf(os.Stderr, "failed to close log file: %v\n", err)
		}
	}()

	// Initialize application dependencies
	deps, err := initializeDependencies(appConfig, log)
	if err != nil {
		return fmt.Errorf("failed to initialize dependencies: %w", err)
	}
	defer deps.close(log)

	// Setup and start server with graceful shutdown
	return startServerWithGracefulShutdown(appConfig, deps, log)
}

// appDependencies holds all initialized application components
type appDependencies struct {
	shell         *app.Shell
	bus           *changefeed.Bus
	notifications *app.NotificationLog
	services      *appServices
	monitor       *app.StorageMonitor
	scanner       *app.Scanner
}

type appServices struct {
	company  records.CompanyService
	user     records.UserService
	snapshot records.SnapshotService
}

// initializeDependencies sets up all application components
func initializeDependencies(cfg *config.AppConfig, log logger.Logger) (*appDependencies, error) {
	ctx := context.Background()

	codec, err := snapshot.NewDexieCodec()
	if err != nil {
		return nil, fmt.Errorf("failed to create snapshot codec: %w", err)
	}

	// Open the store; a failure leaves the shell Fatal and the store routes answer 503
	bus := changefeed.NewBus(log)
	shell := app.NewShell(app.NewStoreOpener(cfg, codec, log), bus, log)
	if err := shell.Open(ctx); err != nil {
		log.Error("Store is unavailable: ", err)
	} else {
		log.Info("Store opened successfully")
	}

	notifications := app.NewNotificationLog(notificationLimit, app.NewLogNotifier(log))

	services, err := initializeApplicationServices(shell, notifications, log)
	if err != nil {
		_ = shell.Close()
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	monitor := app.NewStorageMonitor(
		diskusage.NewEstimator(cfg.Database, log),
		diskusage.NewPersistenceGranter(cfg.Database, log),
		cfg.Storage, log)
	monitor.Start(ctx)

	scanner := app.NewScanner(camera.NewDirectoryCamera(cfg.Scanner, log), qrdecode.NewDecoder(), log)
	if err := scanner.Detect(ctx); err != nil {
		log.Warn("Camera detection failed: ", err)
	}

	return &appDependencies{
		shell:         shell,
		bus:           bus,
		notifications: notifications,
		services:      services,
		monitor:       monitor,
		scanner:       scanner,
	}, nil
}

// initializeApplicationServices sets up all application services
func initializeApplicationServices(shell *app.Shell, notifier app.Notifier, log logger.Logger) (*appServices, error) {
	generator := fakedata.NewGenerator(time.Now().UnixNano())

	companyService, err := app.NewCompanyService(shell, generator, notifier, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create company service: %w", err)
	}

	userService, err := app.NewUserService(shell, generator, notifier, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create user service: %w", err)
	}

	snapshotService, err := app.NewSnapshotService(shell, shell, notifier, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create snapshot service: %w", err)
	}

	log.Info("Application services initialized successfully")
	return &appServices{
		company:  companyService,
		user:     userService,
		snapshot: snapshotService,
	}, nil
}

func (deps *appDependencies) close(log logger.Logger) {
	deps.scanner.Stop()
	deps.monitor.Stop()
	if err := deps.shell.Close(); err != nil {
		log.Error("Failed to close store: ", err)
	}
}

// startServerWithGracefulShutdown starts the HTTP server and handles graceful shutdown
func startServerWithGracefulShutdown(cfg *config.AppConfig, deps *appDependencies, log logger.Logger) error {
	// Setup router
	r := gin.Default()

	// Configure CORS
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders:    []string{"Content-Length", "Content-Type", "Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	// Setup API routes
	v1.SetupRoutes(r,
		deps.shell,
		deps.bus,
		deps.services.company,
		deps.services.user,
		deps.services.snapshot,
		deps.monitor,
		deps.scanner,
		deps.notifications,
		log,
	)

	// Create HTTP server
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second, // Prevent Slowloris attack
	}

	// Channel to listen for errors from the server
	serverErrors := make(chan error, 1)

	// Start server in goroutine
	go func() {
		log.Info("Starting server on port ", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrors <- fmt.Errorf("server failed to start: %w", err)
		}
	}()

	// Channel to listen for interrupt signals
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	// Block until we receive a signal or server error
	select {
	case err := <-serverErrors:
		return err
	case sig := <-quit:
		log.Info("Received signal ", sig, ", initiating graceful shutdown")
	}

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	// WebSocket streams are hijacked; closing the bus ends them
	deps.bus.Close()

	log.Info("Shutting down server...")
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info("Server stopped gracefully")
	return nil
}
