package arbitrage

import (
	"fmt"
	"strings"
	"time"

	"github.com/mselser95/sportsbook-arb/pkg/oddsmath"
)

// OutcomeStake is one leg of an arbitrage: where to bet, at what price and how much.
type OutcomeStake struct {
	Bookmaker    string  `json:"bookmaker"`
	Outcome      string  `json:"outcome"`
	DecimalPrice float64 `json:"decimal_price"`
	DisplayPrice float64 `json:"display_price"` // DecimalPrice in Result.PriceFormat
	Stake        float64 `json:"stake"`
	Payout       float64 `json:"payout"` // Stake * DecimalPrice
}

// Result is the finished arbitrage computation for one exploitable event.
// It is not modified after the pipeline returns it.
type Result struct {
	ID                 string          `json:"id"`
	EventID            string          `json:"event_id"`
	SportKey           string          `json:"sport_key"`
	SportTitle         string          `json:"sport_title,omitempty"`
	HomeTeam           string          `json:"home_team,omitempty"`
	AwayTeam           string          `json:"away_team,omitempty"`
	CommenceTime       time.Time       `json:"commence_time"`
	ImpliedProbability float64         `json:"implied_probability"`
	ProfitMargin       float64         `json:"profit_margin"`
	ProfitBPS          int             `json:"profit_bps"`
	ReferenceStake     float64         `json:"reference_stake"`
	ExpectedProfit     float64         `json:"expected_profit"`
	PriceFormat        oddsmath.Format `json:"price_format"`
	Outcomes           []OutcomeStake  `json:"outcomes"`
	Warnings           []string        `json:"warnings,omitempty"`
	DetectedAt         time.Time       `json:"detected_at"`
}

// String returns a human-readable summary of the result.
func (r *Result) String() string {
	legs := make([]string, len(r.Outcomes))
	for i, o := range r.Outcomes {
		legs[i] = fmt.Sprintf("%s@%s=%.2f stake=%.2f", o.Outcome, o.Bookmaker, o.DecimalPrice, o.Stake)
	}

	return fmt.Sprintf(
		"Arbitrage[%s] Sport=%s Implied=%.4f Profit=$%.2f (%dbps) Legs=[%s]",
		r.EventID,
		r.SportKey,
		r.ImpliedProbability,
		r.ExpectedProfit,
		r.ProfitBPS,
		strings.Join(legs, ", "),
	)
}

// ExcludedEvent records why an event did not make it into the result set.
type ExcludedEvent struct {
	EventID string `json:"event_id"`
	Reason  string `json:"reason"`
	Err     error  `json:"-"`
}

// ResultSet is the output of one pipeline run.
type ResultSet struct {
	ScanID          string          `json:"scan_id"`
	GeneratedAt     time.Time       `json:"generated_at"`
	ReferenceStake  float64         `json:"reference_stake"`
	PriceFormat     oddsmath.Format `json:"price_format"`
	EventsProcessed int             `json:"events_processed"`
	Count           int             `json:"count"`        // Number of exploitable events
	MaxOutcomes     int             `json:"max_outcomes"` // Widest outcome count among Results
	Results         []*Result       `json:"results"`
	Excluded        []ExcludedEvent `json:"excluded,omitempty"`
}
