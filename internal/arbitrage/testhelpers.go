package arbitrage

import (
	"time"

	"github.com/mselser95/sportsbook-arb/pkg/oddsmath"
	"github.com/mselser95/sportsbook-arb/pkg/types"
)

// CreateTestBookmaker builds a bookmaker with a single h2h market.
// Outcome names are taken from names, prices from prices.
func CreateTestBookmaker(title string, names []string, prices []float64) types.Bookmaker {
	outcomes := make([]types.Outcome, len(prices))
	for i, price := range prices {
		outcomes[i] = types.Outcome{Name: names[i], Price: price}
	}

	return types.Bookmaker{
		Key:   title,
		Title: title,
		Markets: []types.Market{
			{Key: "h2h", Outcomes: outcomes},
		},
	}
}

// CreateTestEvent builds the two-bookmaker, two-outcome arbitrage scenario:
// A offers 2.10/1.80, B offers 1.95/2.05.
func CreateTestEvent(id string) types.Event {
	names := []string{"Home", "Away"}
	return types.Event{
		ID:           id,
		SportKey:     "soccer_epl",
		SportTitle:   "EPL",
		HomeTeam:     "Home",
		AwayTeam:     "Away",
		CommenceTime: time.Date(2026, 10, 18, 14, 0, 0, 0, time.UTC),
		Bookmakers: []types.Bookmaker{
			CreateTestBookmaker("A", names, []float64{2.10, 1.80}),
			CreateTestBookmaker("B", names, []float64{1.95, 2.05}),
		},
	}
}

// CreateTestResultSet builds a result set with a two-way and a three-way opportunity.
func CreateTestResultSet() *ResultSet {
	twoWay := &Result{
		ID:                 "result-1",
		EventID:            "evt-1",
		SportKey:           "soccer_epl",
		HomeTeam:           "Home",
		AwayTeam:           "Away",
		CommenceTime:       time.Date(2026, 10, 18, 14, 0, 0, 0, time.UTC),
		ImpliedProbability: 0.9640,
		ProfitMargin:       0.0360,
		ProfitBPS:          360,
		ReferenceStake:     100,
		ExpectedProfit:     3.73,
		PriceFormat:        oddsmath.FormatDecimal,
		Outcomes: []OutcomeStake{
			{Bookmaker: "A", Outcome: "Home", DecimalPrice: 2.10, DisplayPrice: 2.10, Stake: 49.40, Payout: 103.74},
			{Bookmaker: "B", Outcome: "Away", DecimalPrice: 2.05, DisplayPrice: 2.05, Stake: 50.60, Payout: 103.73},
		},
		DetectedAt: time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC),
	}

	threeWay := &Result{
		ID:                 "result-2",
		EventID:            "evt-2",
		SportKey:           "soccer_epl",
		ImpliedProbability: 0.9524,
		ProfitMargin:       0.0476,
		ProfitBPS:          476,
		ReferenceStake:     100,
		ExpectedProfit:     5.0,
		PriceFormat:        oddsmath.FormatDecimal,
		Outcomes: []OutcomeStake{
			{Bookmaker: "A", Outcome: "Home", DecimalPrice: 3.15, DisplayPrice: 3.15, Stake: 33.33, Payout: 105.0},
			{Bookmaker: "B", Outcome: "Draw", DecimalPrice: 3.15, DisplayPrice: 3.15, Stake: 33.33, Payout: 105.0},
			{Bookmaker: "C", Outcome: "Away", DecimalPrice: 3.15, DisplayPrice: 3.15, Stake: 33.33, Payout: 105.0},
		},
		DetectedAt: time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC),
	}

	return &ResultSet{
		ScanID:          "scan-1",
		GeneratedAt:     time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC),
		ReferenceStake:  100,
		PriceFormat:     oddsmath.FormatDecimal,
		EventsProcessed: 3,
		Count:           2,
		MaxOutcomes:     3,
		Results:         []*Result{twoWay, threeWay},
	}
}
