package arbitrage

import (
	"fmt"

	"github.com/mselser95/sportsbook-arb/pkg/oddsmath"
)

// Allocate splits referenceStake across the outcomes so that every outcome pays
// the same amount: stake_i = referenceStake * (1/p_i) / impliedProbability,
// rounded to cents. The result is in slot order.
func Allocate(best BestOdds, impliedProbability float64, referenceStake float64) ([]float64, error) {
	if !best.Complete() {
		return nil, fmt.Errorf("%w: event %s", ErrUncoveredOutcome, best.EventID)
	}

	if impliedProbability <= 0 {
		return nil, fmt.Errorf("allocate stakes: implied probability must be positive, got %v", impliedProbability)
	}

	if referenceStake <= 0 {
		return nil, fmt.Errorf("allocate stakes: reference stake must be positive, got %v", referenceStake)
	}

	stakes := make([]float64, len(best.Slots))
	for i, slot := range best.Slots {
		stakes[i] = oddsmath.Round2(referenceStake * (1.0 / slot.Price) / impliedProbability)
	}

	return stakes, nil
}
