package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/minibank/internal/domain"
	"github.com/iho/minibank/internal/infrastructure/metrics"
)

// FraudRules holds the tunable thresholds of the rule engine.
type FraudRules struct {
	LargeAmountThreshold decimal.Decimal
	MaxTransfersPerHour  int64
	SuspiciousHourStart  int
	SuspiciousHourEnd    int
}

// FraudUseCase scores transfer requests against the fraud rules, records
// an audit trace, and publishes the validation or rejection event. The
// scoring itself is a pure function of the event and the per-account
// counters.
type FraudUseCase struct {
	counters  CounterStore
	auditRepo AuditRepository
	bus       EventBus
	idGen     IDGenerator
	rules     FraudRules
	metrics   *metrics.Metrics
	logger    *slog.Logger
	now       func() time.Time
}

// FraudUseCaseConfig holds dependencies for FraudUseCase.
type FraudUseCaseConfig struct {
	Counters  CounterStore
	AuditRepo AuditRepository
	Bus       EventBus
	IDGen     IDGenerator
	Rules     FraudRules
	Metrics   *metrics.Metrics
	Logger    *slog.Logger
	Now       func() time.Time
}

// NewFraudUseCase creates a new FraudUseCase.
func NewFraudUseCase(cfg FraudUseCaseConfig) *FraudUseCase {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Now == nil {
		cfg.Now = func() time.Time { return time.Now().UTC() }
	}

	return &FraudUseCase{
		counters:  cfg.Counters,
		auditRepo: cfg.AuditRepo,
		bus:       cfg.Bus,
		idGen:     cfg.IDGen,
		rules:     cfg.Rules,
		metrics:   cfg.Metrics,
		logger:    cfg.Logger,
		now:       cfg.Now,
	}
}

// Screen scores a transfer request, persists the audit trace, and emits
// the result event. Safe to re-run for the same event: counters drift by
// one increment on redelivery but the settlement guard keeps the outcome
// applied at most once.
func (uc *FraudUseCase) Screen(ctx context.Context, ev domain.TransferRequestedEvent) (domain.FraudResult, error) {
	result := uc.score(ctx, ev)

	// Counters update after scoring, regardless of outcome.
	uc.recordCounters(ctx, ev)

	// The audit trace must be durable before the result event exists.
	audit := &domain.FraudAudit{
		ID:            uc.idGen.Generate(),
		TransactionID: ev.TransactionID,
		ReferenceNo:   ev.ReferenceNo,
		FromAccountID: ev.FromAccountID,
		ToAccountID:   ev.ToAccountID,
		Amount:        ev.Amount,
		RiskScore:     result.RiskScore,
		RiskLevel:     result.RiskLevel,
		RulesFired:    result.RulesFired,
		Details:       result.Details,
		Outcome:       domain.AuditOutcomeValidated,
		CreatedAt:     uc.now(),
	}
	if result.IsFraud {
		audit.Outcome = domain.AuditOutcomeRejected
	}

	if err := uc.auditRepo.Create(ctx, audit); err != nil {
		return result, fmt.Errorf("persist fraud audit for %s: %w", ev.TransactionID, err)
	}

	if err := uc.publishResult(ctx, ev.TransactionID, result); err != nil {
		return result, err
	}

	if uc.metrics != nil {
		uc.metrics.FraudChecks.WithLabelValues(string(result.RiskLevel)).Inc()
	}

	uc.logger.InfoContext(ctx, "fraud analysis complete",
		slog.String("transaction_id", ev.TransactionID),
		slog.Int("risk_score", result.RiskScore),
		slog.String("risk_level", string(result.RiskLevel)),
		slog.Bool("is_fraud", result.IsFraud))

	return result, nil
}

func (uc *FraudUseCase) score(ctx context.Context, ev domain.TransferRequestedEvent) domain.FraudResult {
	score := 0

	var rules, details []string

	if ev.Amount.GreaterThan(uc.rules.LargeAmountThreshold) {
		score += domain.ScoreLargeAmount
		rules = append(rules, domain.RuleLargeAmount)
		details = append(details, fmt.Sprintf("%s: transfer %s exceeds threshold %s.",
			domain.RuleLargeAmount, ev.Amount, uc.rules.LargeAmountThreshold))
	}

	recentCount, err := uc.counters.Count(ctx, transferCountKey(ev.FromAccountID))
	if err != nil {
		// Counter state is best-effort: treat a read failure as no signal.
		uc.logger.WarnContext(ctx, "transfer counter read failed", slog.Any("error", err))
		recentCount = 0
	}
	if recentCount >= uc.rules.MaxTransfersPerHour {
		score += domain.ScoreHighFrequency
		rules = append(rules, domain.RuleHighFrequency)
		details = append(details, fmt.Sprintf("%s: %d transfers in the last hour (max: %d).",
			domain.RuleHighFrequency, recentCount, uc.rules.MaxTransfersPerHour))
	}

	hour := uc.now().Hour()
	if hour >= uc.rules.SuspiciousHourStart && hour < uc.rules.SuspiciousHourEnd {
		score += domain.ScoreSuspiciousHour
		rules = append(rules, domain.RuleSuspiciousHour)
		details = append(details, fmt.Sprintf("%s: transfer at %02d:00.", domain.RuleSuspiciousHour, hour))
	}

	lastTarget, found, err := uc.counters.Get(ctx, lastTargetKey(ev.FromAccountID))
	if err != nil {
		uc.logger.WarnContext(ctx, "last target read failed", slog.Any("error", err))
	}
	if found && lastTarget == ev.ToAccountID {
		score += domain.ScoreRepeatTarget
		rules = append(rules, domain.RuleRepeatTarget)
		details = append(details, fmt.Sprintf("%s: repeated transfer to same destination recently.",
			domain.RuleRepeatTarget))
	}

	return domain.NewFraudResult(score, rules, details)
}

func (uc *FraudUseCase) recordCounters(ctx context.Context, ev domain.TransferRequestedEvent) {
	if _, err := uc.counters.Increment(ctx, transferCountKey(ev.FromAccountID), TransferCountTTL); err != nil {
		uc.logger.WarnContext(ctx, "transfer counter increment failed", slog.Any("error", err))
	}

	if err := uc.counters.Set(ctx, lastTargetKey(ev.FromAccountID), ev.ToAccountID, LastTargetTTL); err != nil {
		uc.logger.WarnContext(ctx, "last target update failed", slog.Any("error", err))
	}
}

func (uc *FraudUseCase) publishResult(ctx context.Context, transactionID string, result domain.FraudResult) error {
	now := uc.now()

	var (
		stream string
		values map[string]string
	)

	if result.IsFraud {
		stream = domain.StreamTransferRejected
		values = domain.TransferRejectedEvent{
			TransactionID: transactionID,
			RiskScore:     result.RiskScore,
			RiskLevel:     result.RiskLevel,
			Reason:        result.Details,
			Timestamp:     now,
		}.Values()
	} else {
		stream = domain.StreamTransferValidated
		values = domain.TransferValidatedEvent{
			TransactionID: transactionID,
			RiskScore:     result.RiskScore,
			RiskLevel:     result.RiskLevel,
			Details:       result.Details,
			Timestamp:     now,
		}.Values()
	}

	if _, err := uc.bus.Publish(ctx, stream, values); err != nil {
		return fmt.Errorf("publish fraud result for %s: %w", transactionID, err)
	}

	if uc.metrics != nil {
		uc.metrics.EventsPublished.WithLabelValues(stream).Inc()
	}

	return nil
}
