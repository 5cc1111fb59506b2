package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/frahmantamala/course-platform/internal"
	"github.com/frahmantamala/course-platform/internal/access"
	accessRepo "github.com/frahmantamala/course-platform/internal/access/postgres"
	"github.com/frahmantamala/course-platform/internal/admin"
	adminRepo "github.com/frahmantamala/course-platform/internal/admin/postgres"
	"github.com/frahmantamala/course-platform/internal/auth"
	authRepo "github.com/frahmantamala/course-platform/internal/auth/postgres"
	"github.com/frahmantamala/course-platform/internal/checkout"
	checkoutRepo "github.com/frahmantamala/course-platform/internal/checkout/postgres"
	"github.com/frahmantamala/course-platform/internal/core/events"
	"github.com/frahmantamala/course-platform/internal/course"
	courseRepo "github.com/frahmantamala/course-platform/internal/course/postgres"
	"github.com/frahmantamala/course-platform/internal/entitlement"
	entitlementRepo "github.com/frahmantamala/course-platform/internal/entitlement/postgres"
	"github.com/frahmantamala/course-platform/internal/event"
	eventRepo "github.com/frahmantamala/course-platform/internal/event/postgres"
	"github.com/frahmantamala/course-platform/internal/gateway"
	"github.com/frahmantamala/course-platform/internal/inquiry"
	inquiryRepo "github.com/frahmantamala/course-platform/internal/inquiry/postgres"
	"github.com/frahmantamala/course-platform/internal/notification"
	notificationRepo "github.com/frahmantamala/course-platform/internal/notification/postgres"
	"github.com/frahmantamala/course-platform/internal/receipt"
	receiptRepo "github.com/frahmantamala/course-platform/internal/receipt/postgres"
	"github.com/frahmantamala/course-platform/internal/testimonial"
	testimonialRepo "github.com/frahmantamala/course-platform/internal/testimonial/postgres"
	"github.com/frahmantamala/course-platform/internal/transport/rest"
	"github.com/frahmantamala/course-platform/pkg/logger"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config   *internal.Config
	DB       *sqlx.DB
	GormDB   *gorm.DB
	Router   *chi.Mux
	Handlers rest.Handlers
	Worker   *notification.RetryWorker
	Logger   *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	rest.RegisterAllRoutes(deps.Router, deps.DB.DB, deps.Handlers, deps.Logger)

	workerCtx, stopWorker := context.WithCancel(context.Background())
	go deps.Worker.Run(workerCtx)

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	slog.Info("Starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:         addr,
		Handler:      deps.Router,
		ReadTimeout:  deps.Config.Server.ReadTimeout,
		WriteTimeout: deps.Config.Server.WriteTimeout,
		IdleTimeout:  deps.Config.Server.IdleTimeout,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		slog.Info("Received signal, shutting down...", "signal", sig)
		stopWorker()
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}
		if err := deps.DB.Close(); err != nil {
			slog.Error("Database close error", "error", err)
		}
	case err := <-serverErrChan:
		stopWorker()
		if err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}

	slog.Info("Server stopped")
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	lg := logger.LoggerWrapper()

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gormDB, err := gorm.Open(gormpostgres.New(gormpostgres.Config{Conn: db.DB}), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to open gorm connection: %w", err)
	}

	eventBus := events.NewEventBus(lg)

	mailer := notification.NewSMTPMailer(config.Mail, lg)

	tokenGen := auth.NewJWTTokenGenerator(
		config.Security.AccessTokenSecret,
		config.Security.RefreshTokenSecret,
		config.Security.SessionDuration,
		config.Security.ShortTokenDuration,
	)
	authService := auth.NewService(
		authRepo.NewRepository(gormDB),
		tokenGen,
		mailer,
		config.Security.BCryptCost,
		config.Security.OTPDuration,
		lg,
	)

	gatewayClient := gateway.NewClient(gateway.Config{
		BaseURL:   config.Gateway.BaseURL,
		KeyID:     config.Gateway.KeyID,
		KeySecret: config.Gateway.KeySecret,
		Timeout:   config.Gateway.Timeout,
	}, lg)

	accessGate := access.NewGate(accessRepo.NewRepository(gormDB), lg)

	courseService := course.NewService(courseRepo.NewRepository(gormDB), accessGate, lg)
	eventService := event.NewService(eventRepo.NewRepository(gormDB), lg)
	checkoutService := checkout.NewService(checkoutRepo.NewOrderRepository(gormDB), gatewayClient, lg)
	entitlementService := entitlement.NewService(
		entitlementRepo.NewRepository(gormDB),
		mailer,
		eventBus,
		config.Gateway.KeySecret,
		lg,
	)
	receiptService := receipt.NewService(receiptRepo.NewRepository(gormDB), config.Security.ReceiptSecret, lg)
	testimonialService := testimonial.NewService(testimonialRepo.NewRepository(gormDB), lg)
	inquiryService := inquiry.NewService(inquiryRepo.NewRepository(gormDB), lg)
	adminService := admin.NewService(adminRepo.NewRepository(gormDB), lg)

	worker := notification.NewRetryWorker(
		notificationRepo.NewRepository(gormDB),
		mailer,
		notification.DefaultRetryInterval,
		lg,
	)

	return &Dependencies{
		Config: config,
		Logger: lg,
		DB:     db,
		GormDB: gormDB,
		Router: chi.NewRouter(),
		Worker: worker,
		Handlers: rest.Handlers{
			Auth:        auth.NewHandler(authService),
			Course:      course.NewHandler(courseService),
			Event:       event.NewHandler(eventService),
			Checkout:    checkout.NewHandler(checkoutService),
			Entitlement: entitlement.NewHandler(entitlementService),
			Receipt:     receipt.NewHandler(receiptService),
			Testimonial: testimonial.NewHandler(testimonialService),
			Inquiry:     inquiry.NewHandler(inquiryService),
			Admin:       admin.NewHandler(adminService),
		},
	}, nil
}

// initDB initializes the database connection
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}
