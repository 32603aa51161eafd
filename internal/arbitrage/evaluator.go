package arbitrage

import (
	"fmt"
)

// Evaluation is the arbitrage verdict for one event.
type Evaluation struct {
	ImpliedProbability float64 // Sum of 1/price over all outcomes
	Exploitable        bool    // ImpliedProbability < 1.0
	ProfitMargin       float64 // 1 - ImpliedProbability
	ExpectedProfit     float64 // Guaranteed profit for the reference stake
}

// Evaluate computes the total implied probability of the best prices and the
// guaranteed profit on referenceStake when staking proportionally.
// Every outcome slot must be filled.
func Evaluate(best BestOdds, referenceStake float64) (Evaluation, error) {
	if !best.Complete() {
		return Evaluation{}, fmt.Errorf("%w: event %s", ErrUncoveredOutcome, best.EventID)
	}

	implied := 0.0
	for _, slot := range best.Slots {
		implied += 1.0 / slot.Price
	}

	return Evaluation{
		ImpliedProbability: implied,
		Exploitable:        implied < 1.0,
		ProfitMargin:       1.0 - implied,
		ExpectedProfit:     referenceStake/implied - referenceStake,
	}, nil
}
