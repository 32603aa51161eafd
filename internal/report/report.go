// Package report flattens arbitrage results into fixed-width tabular rows.
package report

import (
	"fmt"
	"strconv"

	"github.com/mselser95/sportsbook-arb/internal/arbitrage"
	"github.com/mselser95/sportsbook-arb/pkg/oddsmath"
)

// NotAvailable pads slots beyond an event's outcome count.
const NotAvailable = "N/A"

// fixedColumns precede the per-outcome columns.
var fixedColumns = []string{"ID", "Sport Key", "Expected Earnings"}

// columnsPerOutcome is the number of columns emitted for each outcome slot.
const columnsPerOutcome = 4

// Header returns the column names for a report covering maxOutcomes slots.
func Header(maxOutcomes int) []string {
	header := make([]string, 0, Width(maxOutcomes))
	header = append(header, fixedColumns...)

	for i := 1; i <= maxOutcomes; i++ {
		header = append(header,
			fmt.Sprintf("Bookmaker #%d", i),
			fmt.Sprintf("Name #%d", i),
			fmt.Sprintf("Odds #%d", i),
			fmt.Sprintf("Amount to Buy #%d", i),
		)
	}

	return header
}

// Width returns the number of columns in a report covering maxOutcomes slots.
func Width(maxOutcomes int) int {
	return len(fixedColumns) + columnsPerOutcome*maxOutcomes
}

// Row flattens one result. Slots past len(result.Outcomes) are filled with
// NotAvailable up to maxOutcomes.
func Row(result *arbitrage.Result, maxOutcomes int) []string {
	width := Width(maxOutcomes)
	if n := len(result.Outcomes); n > maxOutcomes {
		width = Width(n)
	}

	row := make([]string, 0, width)
	row = append(row,
		result.EventID,
		result.SportKey,
		FormatAmount(result.ExpectedProfit),
	)

	for _, o := range result.Outcomes {
		row = append(row,
			o.Bookmaker,
			o.Outcome,
			FormatPrice(o.DisplayPrice, result.PriceFormat),
			FormatAmount(o.Stake),
		)
	}

	for len(row) < width {
		row = append(row, NotAvailable)
	}

	return row
}

// Rows flattens every result in the set, in order, without the header.
func Rows(set *arbitrage.ResultSet) [][]string {
	rows := make([][]string, 0, len(set.Results))
	for _, result := range set.Results {
		rows = append(rows, Row(result, set.MaxOutcomes))
	}

	return rows
}

// Table returns the header followed by every row.
func Table(set *arbitrage.ResultSet) [][]string {
	table := make([][]string, 0, len(set.Results)+1)
	table = append(table, Header(set.MaxOutcomes))
	return append(table, Rows(set)...)
}

// FormatAmount renders a currency amount with two decimals.
func FormatAmount(v float64) string {
	return strconv.FormatFloat(oddsmath.Round2(v), 'f', 2, 64)
}

// FormatPrice renders a price in the given format. Positive moneyline prices
// carry an explicit sign.
func FormatPrice(price float64, format oddsmath.Format) string {
	s := strconv.FormatFloat(price, 'f', 2, 64)
	if format == oddsmath.FormatMoneyline && price > 0 {
		return "+" + s
	}

	return s
}
