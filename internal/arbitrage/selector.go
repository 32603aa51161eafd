package arbitrage

import (
	"fmt"
	"math"
	"strings"

	"github.com/mselser95/sportsbook-arb/pkg/types"
)

// Quote is a bookmaker's decimal price for one outcome.
type Quote struct {
	Bookmaker string
	Outcome   string
	Price     float64
}

// PriceSlot holds the best quote for one outcome index.
// Filled is false when no bookmaker priced the outcome.
type PriceSlot struct {
	Quote
	Filled bool
}

// BestOdds is the best available price per outcome for one event.
type BestOdds struct {
	EventID  string
	SportKey string
	Slots    []PriceSlot

	// Skipped lists the bookmakers that were ignored, each wrapping ErrMalformedBookmaker.
	Skipped []error
}

// Complete reports whether every outcome slot has a price.
func (b BestOdds) Complete() bool {
	if len(b.Slots) == 0 {
		return false
	}

	for _, slot := range b.Slots {
		if !slot.Filled {
			return false
		}
	}

	return true
}

// SelectBest scans every bookmaker of the event and keeps, per outcome, the
// highest decimal price and the bookmaker offering it. Ties keep the bookmaker seen
// first. marketKey picks the market to read; empty means each bookmaker's first market.
//
// The first well-formed bookmaker fixes the outcomes and their order. Other
// bookmakers are matched to it by outcome name and line, so a bookmaker listing
// the same outcomes in another order is realigned, and one quoting a different
// outcome set or line is skipped.
func SelectBest(event types.Event, marketKey string) (BestOdds, error) {
	best := BestOdds{
		EventID:  event.ID,
		SportKey: event.SportKey,
	}

	if len(event.Bookmakers) == 0 {
		return best, fmt.Errorf("%w: event %s has no bookmakers", ErrNoBookmakerData, event.ID)
	}

	var reference []outcomeKey
	var rejected []error
	for i := range event.Bookmakers {
		outcomes, err := validOutcomes(&event.Bookmakers[i], marketKey, nil)
		if err != nil {
			rejected = append(rejected, err)
			continue
		}
		reference = make([]outcomeKey, len(outcomes))
		for idx, outcome := range outcomes {
			reference[idx] = keyOf(outcome)
		}
		break
	}

	if reference == nil {
		best.Skipped = rejected
		return best, fmt.Errorf("%w: event %s has no well-formed bookmaker", ErrNoBookmakerData, event.ID)
	}

	best.Slots = make([]PriceSlot, len(reference))

	for i := range event.Bookmakers {
		bookmaker := &event.Bookmakers[i]

		outcomes, err := validOutcomes(bookmaker, marketKey, reference)
		if err != nil {
			best.Skipped = append(best.Skipped, err)
			continue
		}

		for idx, outcome := range outcomes {
			slot := &best.Slots[idx]
			if slot.Filled && outcome.Price <= slot.Price {
				continue
			}

			slot.Quote = Quote{
				Bookmaker: bookmaker.Name(),
				Outcome:   outcome.Name,
				Price:     outcome.Price,
			}
			slot.Filled = true
		}
	}

	return best, nil
}

// outcomeKey identifies an outcome across bookmakers. Names compare case
// insensitively; spreads and totals also compare the line.
type outcomeKey struct {
	name     string
	point    float64
	hasPoint bool
}

func keyOf(outcome types.Outcome) outcomeKey {
	key := outcomeKey{name: strings.ToLower(strings.TrimSpace(outcome.Name))}
	if outcome.Point != nil {
		key.point = *outcome.Point
		key.hasPoint = true
	}
	return key
}

func (k outcomeKey) String() string {
	if k.hasPoint {
		return fmt.Sprintf("%s %+g", k.name, k.point)
	}
	return k.name
}

// validOutcomes returns the bookmaker's outcomes for the market if they are usable.
// With a nil reference any non-empty set of distinct outcomes is accepted; otherwise
// the outcomes must match reference exactly and are returned in its order.
func validOutcomes(bookmaker *types.Bookmaker, marketKey string, reference []outcomeKey) ([]types.Outcome, error) {
	if bookmaker.DecodeErr != nil {
		return nil, fmt.Errorf("%w: bookmaker %q: %v", ErrMalformedBookmaker, bookmaker.Name(), bookmaker.DecodeErr)
	}

	market, ok := bookmaker.MarketByKey(marketKey)
	if !ok {
		if marketKey == "" {
			return nil, fmt.Errorf("%w: bookmaker %q: no markets", ErrMalformedBookmaker, bookmaker.Name())
		}
		return nil, fmt.Errorf("%w: bookmaker %q: no %q market", ErrMalformedBookmaker, bookmaker.Name(), marketKey)
	}

	if len(market.Outcomes) == 0 {
		return nil, fmt.Errorf("%w: bookmaker %q: market %q has no outcomes", ErrMalformedBookmaker, bookmaker.Name(), market.Key)
	}

	if reference != nil && len(market.Outcomes) != len(reference) {
		return nil, fmt.Errorf("%w: bookmaker %q: %d outcomes, expected %d",
			ErrMalformedBookmaker, bookmaker.Name(), len(market.Outcomes), len(reference))
	}

	byKey := make(map[outcomeKey]types.Outcome, len(market.Outcomes))
	for _, outcome := range market.Outcomes {
		if math.IsNaN(outcome.Price) || math.IsInf(outcome.Price, 0) || outcome.Price < 1.0 {
			return nil, fmt.Errorf("%w: bookmaker %q: outcome %q has price %v",
				ErrMalformedBookmaker, bookmaker.Name(), outcome.Name, outcome.Price)
		}

		key := keyOf(outcome)
		if _, dup := byKey[key]; dup {
			return nil, fmt.Errorf("%w: bookmaker %q: outcome %q listed twice",
				ErrMalformedBookmaker, bookmaker.Name(), key)
		}
		byKey[key] = outcome
	}

	if reference == nil {
		return market.Outcomes, nil
	}

	aligned := make([]types.Outcome, len(reference))
	for idx, key := range reference {
		outcome, found := byKey[key]
		if !found {
			return nil, fmt.Errorf("%w: bookmaker %q: no quote for outcome %q",
				ErrMalformedBookmaker, bookmaker.Name(), key)
		}
		aligned[idx] = outcome
	}

	return aligned, nil
}
