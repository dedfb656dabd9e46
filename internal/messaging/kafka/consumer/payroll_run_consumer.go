package consumer

import (
	"context"
	"encoding/json"
	"errors"

	"fieldserve/internal/events"
	"fieldserve/internal/payroll"
	payrollerrors "fieldserve/internal/payroll/errors"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// ConsumePayrollRunCreated builds pay stubs for every freshly generated run.
// Stub building is idempotent, so redelivered messages are harmless.
func ConsumePayrollRunCreated(
	ctx context.Context,
	reader *kafkago.Reader,
	stubService payroll.StubService,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.payroll_run")
	log.Info("payroll run consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("payroll run consumer stopped")
				return
			}
			log.Error("fetch payroll run message failed", zap.Error(err))
			continue
		}

		var event events.PayrollRunCreatedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode payroll run created event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		_, err = stubService.BuildStubs(ctx, event.CompanyID, event.PayrollRunID)
		if err != nil {
			// A deleted draft run is stale, not retryable.
			if errors.Is(err, payrollerrors.ErrRunNotFound) {
				log.Warn("payroll run gone, skipping stub build",
					zap.String("payroll_run_id", event.PayrollRunID),
					zap.String("company_id", event.CompanyID),
				)
				_ = reader.CommitMessages(ctx, msg)
				continue
			}

			log.Error("build pay stubs failed",
				zap.String("payroll_run_id", event.PayrollRunID),
				zap.String("company_id", event.CompanyID),
				zap.Error(err),
			)
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit payroll run message failed", zap.Error(err))
			continue
		}

		log.Info("pay stubs built from run created event",
			zap.String("payroll_run_id", event.PayrollRunID),
			zap.String("company_id", event.CompanyID),
		)
	}
}
