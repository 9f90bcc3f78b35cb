package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"go-leaveflow/internal/directory"
	"go-leaveflow/internal/engine"
	"go-leaveflow/internal/events"
	"go-leaveflow/internal/leaverequest"
	"go-leaveflow/internal/mailer"
	"go-leaveflow/internal/saga"
	"go-leaveflow/internal/shared/connection"

	"go.uber.org/zap"
)

// RunEngine hosts the execution-engine runtime: it consumes saga start
// commands and decision signals and drives the saga event processor.
func RunEngine() error {
	logger := zap.L().Named("app.engine")

	gormDB, err := connection.ConnectGORMWithRetry(
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_SSLMODE"),
		5,
	)
	if err != nil {
		return err
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	rdb, err := connection.ConnectRedisWithRetry(os.Getenv("REDIS_ADDR"), 5)
	if err != nil {
		return err
	}

	kafkaBroker := os.Getenv("KAFKA_BROKER")
	if kafkaBroker == "" {
		return fmt.Errorf("KAFKA_BROKER is required")
	}

	smtpPort, err := strconv.Atoi(os.Getenv("SMTP_PORT"))
	if err != nil {
		return fmt.Errorf("SMTP_PORT is required: %w", err)
	}
	dispatcher, err := mailer.NewSMTPDispatcher(mailer.SMTPConfig{
		Host:     os.Getenv("SMTP_HOST"),
		Port:     smtpPort,
		Username: os.Getenv("SMTP_USERNAME"),
		Password: os.Getenv("SMTP_PASSWORD"),
	})
	if err != nil {
		return err
	}

	sender := os.Getenv("MAIL_SENDER")
	baseURL := os.Getenv("PUBLIC_BASE_URL")
	if sender == "" || baseURL == "" {
		return fmt.Errorf("MAIL_SENDER and PUBLIC_BASE_URL are required")
	}

	leaveRepo := leaverequest.NewRepository(gormDB)
	directoryService := directory.NewService(directory.NewRepository(gormDB), rdb)
	processor := saga.NewProcessor(leaveRepo, directoryService, dispatcher, sender, baseURL)

	commands := connection.NewKafkaReader(kafkaBroker, events.ApprovalCommandsTopic, "leaveflow-engine")
	defer commands.Close()
	decisions := connection.NewKafkaReader(kafkaBroker, events.ApprovalDecisionsTopic, "leaveflow-engine")
	defer decisions.Close()

	runtime := engine.NewRuntime(commands, decisions, engine.NewTokenStore(rdb), processor)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		logger.Info("engine shutting down")
		cancel()
	}()

	runtime.Run(ctx)
	return nil
}
