package arbitrage

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedBookmaker marks a bookmaker whose quotes do not have the expected shape.
	// The bookmaker is skipped and the event continues.
	ErrMalformedBookmaker = errors.New("malformed bookmaker data")

	// ErrNoBookmakerData is returned when an event has no usable bookmaker.
	ErrNoBookmakerData = errors.New("no bookmaker data")

	// ErrNoExploitableOutcome is returned for events that cannot be arbitraged.
	ErrNoExploitableOutcome = errors.New("no exploitable outcome")

	// ErrUncoveredOutcome is returned when an outcome slot has no price from any bookmaker.
	ErrUncoveredOutcome = fmt.Errorf("%w: outcome not covered by any bookmaker", ErrNoExploitableOutcome)

	// ErrNotExploitable is returned when the implied probability is 1.0 or more.
	ErrNotExploitable = fmt.Errorf("%w: implied probability not below 1.0", ErrNoExploitableOutcome)
)

// rejectReason maps an event error to a metrics label.
func rejectReason(err error) string {
	switch {
	case errors.Is(err, ErrNoBookmakerData):
		return "no_bookmaker_data"
	case errors.Is(err, ErrUncoveredOutcome):
		return "uncovered_outcome"
	case errors.Is(err, ErrNotExploitable):
		return "not_exploitable"
	default:
		return "other"
	}
}
