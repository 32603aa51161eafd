package arbitrage

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/mselser95/sportsbook-arb/pkg/oddsmath"
	"github.com/mselser95/sportsbook-arb/pkg/types"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DefaultReferenceStake is the total hypothetical bet used when none is configured.
const DefaultReferenceStake = 100.0

// Storage is the interface for persisting pipeline results.
type Storage interface {
	StoreResults(ctx context.Context, set *ResultSet) error
	Close() error
}

// Config holds pipeline configuration.
type Config struct {
	ReferenceStake float64         // Total stake spread across the outcomes
	PriceFormat    oddsmath.Format // Display format of reported prices
	MarketKey      string          // Market to compare; empty uses each bookmaker's first market
	Workers        int             // Events evaluated concurrently
	Logger         *zap.Logger
}

// Pipeline runs best-price selection, evaluation, stake allocation and price
// conversion over a batch of events.
type Pipeline struct {
	config Config
	logger *zap.Logger
}

// NewPipeline creates a pipeline, applying defaults for zero values.
func NewPipeline(cfg Config) (*Pipeline, error) {
	if cfg.ReferenceStake == 0 {
		cfg.ReferenceStake = DefaultReferenceStake
	}

	if cfg.ReferenceStake < 0 || math.IsNaN(cfg.ReferenceStake) || math.IsInf(cfg.ReferenceStake, 0) {
		return nil, fmt.Errorf("reference stake must be positive, got %v", cfg.ReferenceStake)
	}

	format, err := oddsmath.ParseFormat(string(cfg.PriceFormat))
	if err != nil {
		return nil, err
	}
	cfg.PriceFormat = format

	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}

	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	return &Pipeline{
		config: cfg,
		logger: cfg.Logger,
	}, nil
}

// Config returns the effective configuration.
func (p *Pipeline) Config() Config {
	return p.config
}

// Run evaluates every event and returns the exploitable ones in input order.
// A failing event is recorded in Excluded and never stops the batch.
func (p *Pipeline) Run(events []types.Event) *ResultSet {
	start := time.Now()

	results := make([]*Result, len(events))
	errs := make([]error, len(events))

	// Events share no state; each goroutine writes only its own index.
	var g errgroup.Group
	g.SetLimit(p.config.Workers)
	for i := range events {
		i := i
		g.Go(func() error {
			results[i], errs[i] = p.ProcessEvent(events[i])
			return nil
		})
	}
	_ = g.Wait()

	set := &ResultSet{
		ScanID:          uuid.New().String(),
		GeneratedAt:     start,
		ReferenceStake:  p.config.ReferenceStake,
		PriceFormat:     p.config.PriceFormat,
		EventsProcessed: len(events),
		Results:         make([]*Result, 0),
	}

	for i := range events {
		EventsProcessedTotal.Inc()

		if errs[i] != nil {
			reason := rejectReason(errs[i])
			EventsRejectedTotal.WithLabelValues(reason).Inc()
			set.Excluded = append(set.Excluded, ExcludedEvent{
				EventID: events[i].ID,
				Reason:  reason,
				Err:     errs[i],
			})

			if !errors.Is(errs[i], ErrNoExploitableOutcome) {
				p.logger.Debug("event-excluded",
					zap.String("event-id", events[i].ID),
					zap.String("reason", reason),
					zap.Error(errs[i]))
			}
			continue
		}

		set.Results = append(set.Results, results[i])
		if n := len(results[i].Outcomes); n > set.MaxOutcomes {
			set.MaxOutcomes = n
		}
	}
	set.Count = len(set.Results)

	PipelineDurationSeconds.Observe(time.Since(start).Seconds())

	p.logger.Info("pipeline-complete",
		zap.String("scan-id", set.ScanID),
		zap.Int("events", set.EventsProcessed),
		zap.Int("opportunities", set.Count),
		zap.Int("excluded", len(set.Excluded)),
		zap.Int("max-outcomes", set.MaxOutcomes),
		zap.Duration("duration", time.Since(start)))

	return set
}

// ProcessEvent runs one event through the pipeline. Events that are not
// exploitable return an error wrapping ErrNoBookmakerData or ErrNoExploitableOutcome.
func (p *Pipeline) ProcessEvent(event types.Event) (*Result, error) {
	best, err := SelectBest(event, p.config.MarketKey)
	p.recordSkipped(event.ID, best.Skipped)
	if err != nil {
		return nil, err
	}

	eval, err := Evaluate(best, p.config.ReferenceStake)
	if err != nil {
		return nil, err
	}

	if !eval.Exploitable {
		return nil, fmt.Errorf("%w: event %s implied probability %.4f", ErrNotExploitable, event.ID, eval.ImpliedProbability)
	}

	stakes, err := Allocate(best, eval.ImpliedProbability, p.config.ReferenceStake)
	if err != nil {
		return nil, fmt.Errorf("event %s: %w", event.ID, err)
	}

	format, display, warning := p.display(event.ID, best)

	outcomes := make([]OutcomeStake, len(best.Slots))
	for i, slot := range best.Slots {
		outcomes[i] = OutcomeStake{
			Bookmaker:    slot.Bookmaker,
			Outcome:      slot.Outcome,
			DecimalPrice: slot.Price,
			DisplayPrice: display[i],
			Stake:        stakes[i],
			Payout:       oddsmath.Round2(stakes[i] * slot.Price),
		}
	}

	result := &Result{
		ID:                 uuid.New().String(),
		EventID:            event.ID,
		SportKey:           event.SportKey,
		SportTitle:         event.SportTitle,
		HomeTeam:           event.HomeTeam,
		AwayTeam:           event.AwayTeam,
		CommenceTime:       event.CommenceTime,
		ImpliedProbability: eval.ImpliedProbability,
		ProfitMargin:       eval.ProfitMargin,
		ProfitBPS:          int(eval.ProfitMargin * 10000),
		ReferenceStake:     p.config.ReferenceStake,
		ExpectedProfit:     eval.ExpectedProfit,
		PriceFormat:        format,
		Outcomes:           outcomes,
		DetectedAt:         time.Now(),
	}
	if warning != "" {
		result.Warnings = append(result.Warnings, warning)
	}

	OpportunitiesDetectedTotal.Inc()
	OpportunityProfitBPS.Observe(float64(result.ProfitBPS))
	OpportunityOutcomeCount.Observe(float64(len(outcomes)))

	p.logger.Info("arbitrage-opportunity-detected",
		zap.String("event-id", event.ID),
		zap.String("sport-key", event.SportKey),
		zap.Float64("implied-probability", eval.ImpliedProbability),
		zap.Float64("expected-profit", eval.ExpectedProfit),
		zap.Int("outcome-count", len(outcomes)))

	return result, nil
}

// display converts the best prices to the configured format. If any price cannot
// be converted the whole event falls back to decimal and a warning is returned.
func (p *Pipeline) display(eventID string, best BestOdds) (oddsmath.Format, []float64, string) {
	prices := make([]float64, len(best.Slots))
	for i, slot := range best.Slots {
		prices[i] = slot.Price
	}

	if p.config.PriceFormat == oddsmath.FormatDecimal {
		return oddsmath.FormatDecimal, prices, ""
	}

	converted := make([]float64, len(prices))
	for i, price := range prices {
		v, err := p.config.PriceFormat.Display(price)
		if err != nil {
			ConversionFailuresTotal.Inc()
			p.logger.Warn("price-conversion-failed",
				zap.String("event-id", eventID),
				zap.Int("outcome-index", i),
				zap.Float64("price", price),
				zap.String("format", string(p.config.PriceFormat)),
				zap.Error(err))
			return oddsmath.FormatDecimal, prices, fmt.Sprintf("%s conversion failed, prices shown as decimal: %v", p.config.PriceFormat, err)
		}
		converted[i] = v
	}

	return p.config.PriceFormat, converted, ""
}

func (p *Pipeline) recordSkipped(eventID string, skipped []error) {
	for _, err := range skipped {
		BookmakersSkippedTotal.Inc()
		p.logger.Debug("bookmaker-skipped",
			zap.String("event-id", eventID),
			zap.Error(err))
	}
}
