package report

import (
	"testing"

	"github.com/mselser95/sportsbook-arb/internal/arbitrage"
	"github.com/mselser95/sportsbook-arb/pkg/oddsmath"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeader(t *testing.T) {
	assert.Equal(t, []string{"ID", "Sport Key", "Expected Earnings"}, Header(0))

	header := Header(2)
	assert.Equal(t, []string{
		"ID", "Sport Key", "Expected Earnings",
		"Bookmaker #1", "Name #1", "Odds #1", "Amount to Buy #1",
		"Bookmaker #2", "Name #2", "Odds #2", "Amount to Buy #2",
	}, header)
	assert.Len(t, header, Width(2))
}

func TestRows_PadsShortEvents(t *testing.T) {
	set := arbitrage.CreateTestResultSet()

	rows := Rows(set)
	require.Len(t, rows, 2)

	for _, row := range rows {
		assert.Len(t, row, Width(set.MaxOutcomes), "rows must have uniform width")
	}

	twoWay := rows[0]
	assert.Equal(t, "evt-1", twoWay[0])
	assert.Equal(t, NotAvailable, twoWay[len(twoWay)-1])
	assert.Equal(t, []string{NotAvailable, NotAvailable, NotAvailable, NotAvailable}, twoWay[11:15])

	threeWay := rows[1]
	assert.NotContains(t, threeWay, NotAvailable)
}

func TestRow_Values(t *testing.T) {
	result := &arbitrage.Result{
		EventID:        "evt-9",
		SportKey:       "tennis_atp",
		ExpectedProfit: 3.734940,
		PriceFormat:    oddsmath.FormatMoneyline,
		Outcomes: []arbitrage.OutcomeStake{
			{Bookmaker: "Book A", Outcome: "Home", DecimalPrice: 2.10, DisplayPrice: 110, Stake: 49.40},
			{Bookmaker: "Book B", Outcome: "Away", DecimalPrice: 2.05, DisplayPrice: 105, Stake: 50.60},
		},
	}

	row := Row(result, 2)
	assert.Equal(t, []string{
		"evt-9", "tennis_atp", "3.73",
		"Book A", "Home", "+110.00", "49.40",
		"Book B", "Away", "+105.00", "50.60",
	}, row)
}

func TestRow_MoreOutcomesThanMax(t *testing.T) {
	result := &arbitrage.Result{
		EventID:  "evt",
		Outcomes: make([]arbitrage.OutcomeStake, 3),
	}

	assert.Len(t, Row(result, 2), Width(3))
}

func TestTable(t *testing.T) {
	set := arbitrage.CreateTestResultSet()

	table := Table(set)
	require.Len(t, table, 3)
	assert.Equal(t, Header(set.MaxOutcomes), table[0])

	empty := Table(&arbitrage.ResultSet{})
	require.Len(t, empty, 1)
	assert.Equal(t, []string{"ID", "Sport Key", "Expected Earnings"}, empty[0])
}

func TestFormatPrice(t *testing.T) {
	tests := []struct {
		name   string
		price  float64
		format oddsmath.Format
		want   string
	}{
		{"positive moneyline", 110, oddsmath.FormatMoneyline, "+110.00"},
		{"negative moneyline", -125, oddsmath.FormatMoneyline, "-125.00"},
		{"decimal", 2.1, oddsmath.FormatDecimal, "2.10"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatPrice(tt.price, tt.format))
		})
	}
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "3.73", FormatAmount(3.734940))
	assert.Equal(t, "0.00", FormatAmount(0))
	assert.Equal(t, "100.00", FormatAmount(100))
}
