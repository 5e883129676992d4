package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Manemax937/HostelApp/internal/application/retention"
	"github.com/Manemax937/HostelApp/internal/config"
	"github.com/Manemax937/HostelApp/internal/infrastructure/dynamo"
	"github.com/Manemax937/HostelApp/internal/infrastructure/fcm"
	"github.com/Manemax937/HostelApp/internal/infrastructure/smtp"
	"github.com/Manemax937/HostelApp/internal/scheduler"
	transporthttp "github.com/Manemax937/HostelApp/internal/transport/http"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}

	cfg := config.Load()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dynamoClient, err := dynamo.NewClient(ctx, cfg)
	if err != nil {
		log.Fatalf("dynamodb: %v", err)
	}
	// Creates the tables if they don't exist yet.
	dynamo.Bootstrap(ctx, dynamoClient, cfg.DynamoTables)

	fcmClient, err := fcm.NewClient(ctx, cfg)
	if err != nil {
		log.Fatalf("firebase messaging: %v", err)
	}

	userRepo := dynamo.NewUserRepo(dynamoClient, cfg.DynamoTables.Users)
	notificationRepo := dynamo.NewNotificationRepo(dynamoClient, cfg.DynamoTables.Notifications)
	retentionSvc := retention.NewService(notificationRepo, cfg.RetentionDays)

	deps := &transporthttp.Deps{
		UserRepo:         userRepo,
		NotificationRepo: notificationRepo,
		PushSender:       fcm.NewSender(fcmClient),
		Mailer:           smtp.NewMailer(cfg),
		Retention:        retentionSvc,
	}
	router := transporthttp.NewRouter(cfg, deps)

	// Daily retention sweep at local midnight.
	daily, err := scheduler.NewDaily(retentionSvc, cfg.CleanupTimezone)
	if err != nil {
		log.Fatalf("scheduler: %v", err)
	}
	go daily.Run(ctx)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Worker starting on :%s (env=%s)", cfg.AppPort, cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-ctx.Done()

	log.Println("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("forced shutdown: %v", err)
	}
	log.Println("Worker stopped")
}
