package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/frahmantamala/course-platform/internal/core/events"
	"github.com/frahmantamala/course-platform/internal/notification"
	notificationRepo "github.com/frahmantamala/course-platform/internal/notification/postgres"
	"github.com/frahmantamala/course-platform/pkg/logger"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Start background workers",
	Long:  `Start background workers such as the notification retry sweeper.`,
}

// Notification retry worker command
var notificationWorkerCmd = &cobra.Command{
	Use:   "notifications",
	Short: "Start notification retry worker",
	Long:  `Resend receipts and join links for paid orders whose confirmation mail failed`,
	Run: func(cmd *cobra.Command, args []string) {
		startNotificationWorker()
	},
}

// Event Bus worker command
var eventWorkerCmd = &cobra.Command{
	Use:   "events",
	Short: "Start event bus worker",
	Long:  `Start the event bus `,
	Run: func(cmd *cobra.Command, args []string) {
		startEventWorker()
	},
}

var retryInterval time.Duration

func startNotificationWorker() {
	config, err := loadConfig(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	lg := logger.LoggerWrapper()

	sqlxDB, err := initDB(config.Database)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize database: %v\n", err)
		os.Exit(1)
	}

	gormDB, err := gorm.Open(gormpostgres.New(gormpostgres.Config{Conn: sqlxDB.DB}), &gorm.Config{})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open gorm connection: %v\n", err)
		os.Exit(1)
	}

	mailer := notification.NewSMTPMailer(config.Mail, lg)
	worker := notification.NewRetryWorker(notificationRepo.NewRepository(gormDB), mailer, retryInterval, lg)

	ctx, cancel := context.WithCancel(context.Background())
	go worker.Run(ctx)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	lg.Info("notification worker is running. Press Ctrl+C to stop.")

	sig := <-sigChan
	lg.Info("received signal, shutting down notification worker", "signal", sig)
	cancel()

	if err := sqlxDB.Close(); err != nil {
		lg.Error("database close error", "error", err)
	}
	lg.Info("notification worker shutdown complete")
}

func startEventWorker() {
	_, err := loadConfig(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	lg := logger.LoggerWrapper()

	eventBus := events.NewEventBus(lg)

	eventBus.Subscribe(events.EventTypeNotificationFailed, func(ctx context.Context, event events.Event) error {
		lg.Warn("notification failure observed",
			"event_id", event.EventID(),
			"payload", event.Payload())
		return nil
	})

	lg.Info("event bus worker started. Waiting for events...")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	lg.Info("event bus is running. Press Ctrl+C to stop.")

	sig := <-sigChan
	lg.Info("received signal, shutting down event bus", "signal", sig)
	lg.Info("event bus shutdown complete")
}

func init() {
	notificationWorkerCmd.Flags().DurationVar(&retryInterval, "interval", notification.DefaultRetryInterval, "Sweep interval for the notification retry worker")

	workerCmd.AddCommand(notificationWorkerCmd)
	workerCmd.AddCommand(eventWorkerCmd)

	rootCmd.AddCommand(workerCmd)
}
