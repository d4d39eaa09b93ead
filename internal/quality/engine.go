package quality

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"epiqc/pkg/contracts/domain"
)

// Engine evaluates every enabled quality check over an in-memory snapshot
// of records. It holds no state between runs: records and configuration
// are supplied fresh on each invocation and issue lists are regenerated
// wholesale, so callers own dismissal bookkeeping (keyed by issue
// fingerprint, since IDs are fresh each run).
type Engine struct {
	logger *slog.Logger
	now    func() time.Time
}

// NewEngine creates a check engine. A nil logger falls back to the
// default slog logger.
func NewEngine(logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		logger: logger.With(slog.String("component", "quality_engine")),
		now:    time.Now,
	}
}

// RunChecks evaluates all enabled checks and returns their findings in a
// fixed arrival order: duplicates, date order, future dates, numeric
// ranges, missing values. The checks are independent and run in parallel;
// order within each check's output is preserved.
func (e *Engine) RunChecks(ctx context.Context, records []domain.CaseRecord, columns []domain.DataColumn, cfg domain.DataQualityConfig) []domain.DataQualityIssue {
	start := e.now()
	cs := domain.NewColumnSet(columns)

	results := make([][]domain.DataQualityIssue, len(domain.AllCheckTypes))
	g, _ := errgroup.WithContext(ctx)

	for slot, check := range domain.AllCheckTypes {
		if !cfg.CheckEnabled(check) {
			continue
		}
		slot, check := slot, check
		g.Go(func() error {
			results[slot] = e.runCheck(check, records, cs, cfg)
			return nil
		})
	}
	// The checks never return errors; malformed data degrades to "no
	// assertion" inside each check.
	_ = g.Wait()

	issues := []domain.DataQualityIssue{}
	for _, part := range results {
		issues = append(issues, part...)
	}

	e.logger.InfoContext(ctx, "quality checks completed",
		slog.Int("records", len(records)),
		slog.Int("issues", len(issues)),
		slog.Duration("duration", time.Since(start)),
	)

	return issues
}

func (e *Engine) runCheck(check domain.CheckType, records []domain.CaseRecord, columns *domain.ColumnSet, cfg domain.DataQualityConfig) []domain.DataQualityIssue {
	switch check {
	case domain.CheckDuplicates:
		return GroupDuplicates(records, cfg, columns)
	case domain.CheckDateOrder:
		return CheckDateOrder(records, cfg.DateOrderRules)
	case domain.CheckFutureDates:
		if !cfg.CheckFutureDates {
			return nil
		}
		return checkFutureDates(records, columns, e.now())
	case domain.CheckNumericRanges:
		return CheckNumericRanges(records, cfg.NumericRangeRules)
	case domain.CheckMissingValues:
		return CheckMissingValues(records, cfg.MissingValueFields, columns)
	default:
		return nil
	}
}
