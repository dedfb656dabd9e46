package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fieldserve/internal/messaging/kafka"
	"fieldserve/internal/messaging/kafka/producer"
	"fieldserve/internal/payroll"
	"fieldserve/internal/shared/connection"

	"go.uber.org/zap"
)

// RunWorker hosts the outbox relay and the payroll auto-run scheduler in one
// process. Both loops stop on SIGINT/SIGTERM.
func RunWorker() error {
	logger := zap.L().Named("app.worker")

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

	kafkaBroker := os.Getenv("KAFKA_BROKER")
	if kafkaBroker == "" {
		return fmt.Errorf("KAFKA_BROKER is required")
	}

	kafkaWriter, err := connection.ConnectKafkaWithRetry(kafkaBroker, 5)
	if err != nil {
		return err
	}
	defer kafkaWriter.Close()

	outboxRepo := kafka.NewOutboxRepository(sqlDB)
	payrollRepo := payroll.NewRepository(gormDB)
	payrollService := payroll.NewServiceWithOutbox(sqlDB, payrollRepo, outboxRepo)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go producer.ProcessOutboxEvents(
		ctx,
		outboxRepo,
		kafkaWriter,
		logger,
		3*time.Second,
	)

	go runAutoRunScheduler(ctx, payrollService, logger, autoRunInterval())

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("worker shutting down")
	cancel()

	return nil
}

func autoRunInterval() time.Duration {
	if v := os.Getenv("AUTO_RUN_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return time.Hour
}

// runAutoRunScheduler sweeps every company with auto-generation enabled. The
// sweep is safe to run on multiple workers: the period overlap guard rejects
// a duplicate run generated by a racing instance.
func runAutoRunScheduler(
	ctx context.Context,
	payrollService payroll.Service,
	logger *zap.Logger,
	interval time.Duration,
) {
	log := logger.Named("payroll.autorun")
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log.Info("auto run scheduler started", zap.Duration("interval", interval))

	for {
		select {
		case <-ctx.Done():
			log.Info("auto run scheduler stopped")
			return
		case <-ticker.C:
			results, err := payrollService.AutoRunSweep(ctx)
			if err != nil {
				log.Error("auto run sweep failed", zap.Error(err))
				continue
			}

			created, skipped, failed := 0, 0, 0
			for _, res := range results {
				switch res.Status {
				case payroll.AutoRunCreated:
					created++
				case payroll.AutoRunSkipped:
					skipped++
				default:
					failed++
				}
			}
			if created > 0 || failed > 0 {
				log.Info("auto run sweep finished",
					zap.Int("created", created),
					zap.Int("skipped", skipped),
					zap.Int("failed", failed),
				)
			}
		}
	}
}
