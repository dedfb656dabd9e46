package payroll

import (
	"context"
	"errors"
	"time"

	payrollerrors "fieldserve/internal/payroll/errors"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AutoRunTick evaluates one company's auto-generation state and produces a
// draft run for the most recent completed period when one is due. A tick
// never returns a hard failure for business conditions; they come back as a
// skipped or error result so the sweep can keep going.
func (s *service) AutoRunTick(ctx context.Context, companyID string) (AutoRunResult, error) {
	settings, err := s.repo.FindSettings(ctx, companyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AutoRunResult{Status: AutoRunSkipped, Reason: "no payroll settings"}, nil
		}
		return AutoRunResult{}, err
	}
	if !settings.AutoGenerate {
		return AutoRunResult{Status: AutoRunSkipped, Reason: "auto generation disabled"}, nil
	}

	periodStart, periodEnd := ResolvePeriod(
		s.now(),
		time.Weekday(settings.PeriodStartDay),
		time.Weekday(settings.PeriodEndDay),
	)

	if settings.LastGeneratedEndDate != nil && !settings.LastGeneratedEndDate.Before(periodEnd) {
		return AutoRunResult{Status: AutoRunSkipped, Reason: "period already generated"}, nil
	}

	exists, err := s.repo.RunExistsEndingOn(ctx, companyID, periodEnd)
	if err != nil {
		return AutoRunResult{}, err
	}
	if exists {
		return AutoRunResult{Status: AutoRunSkipped, Reason: "run already exists for period"}, nil
	}

	run, err := s.GenerateRun(ctx, companyID, settings.CompanyID.String(), GenerateRunRequest{
		PeriodStart: periodStart.Format("2006-01-02"),
		PeriodEnd:   periodEnd.Format("2006-01-02"),
	})
	if err != nil {
		// An empty period is a normal weekly outcome, not a failure. The same
		// goes for ticking on the end day itself, before the period closes.
		if errors.Is(err, payrollerrors.ErrNoEligibleEntries) {
			return AutoRunResult{Status: AutoRunSkipped, Reason: "no eligible entries"}, nil
		}
		if errors.Is(err, payrollerrors.ErrPeriodNotComplete) {
			return AutoRunResult{Status: AutoRunSkipped, Reason: "period not complete"}, nil
		}
		if errors.Is(err, payrollerrors.ErrRunOverlap) {
			return AutoRunResult{Status: AutoRunSkipped, Reason: "overlapping run exists"}, nil
		}
		s.logger.Warn("auto run generation failed",
			zap.String("company_id", companyID),
			zap.String("period_end", periodEnd.Format("2006-01-02")),
			zap.Error(err),
		)
		return AutoRunResult{Status: AutoRunError, Reason: err.Error()}, nil
	}

	// Progress advances only after a successful generation, so a failed tick
	// is retried on the next sweep.
	settings.LastGeneratedEndDate = &periodEnd
	if err := s.repo.UpsertSettings(ctx, settings); err != nil {
		return AutoRunResult{}, err
	}

	s.logger.Info("auto run generated",
		zap.String("company_id", companyID),
		zap.String("run_id", run.ID),
	)
	return AutoRunResult{Status: AutoRunCreated, Run: &run}, nil
}

// AutoRunSweep ticks every company with auto-generation enabled.
func (s *service) AutoRunSweep(ctx context.Context) ([]AutoRunResult, error) {
	companies, err := s.repo.FindAutoGenerateCompanies(ctx)
	if err != nil {
		return nil, err
	}

	results := make([]AutoRunResult, 0, len(companies))
	for _, settings := range companies {
		if ctx.Err() != nil {
			return results, ctx.Err()
		}
		res, err := s.AutoRunTick(ctx, settings.CompanyID.String())
		if err != nil {
			res = AutoRunResult{Status: AutoRunError, Reason: err.Error()}
		}
		results = append(results, res)
	}
	return results, nil
}
