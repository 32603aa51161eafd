package cmd

import (
	"fmt"
	"strconv"

	"github.com/mselser95/sportsbook-arb/internal/report"
	"github.com/mselser95/sportsbook-arb/pkg/oddsmath"
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var convertCmd = &cobra.Command{
	Use:   "convert <price>",
	Short: "Convert a price between decimal and moneyline odds",
	Long: `Converts a decimal price to moneyline odds, or with --from moneyline a
moneyline price to decimal odds. The implied probability is printed too.

Negative moneyline prices must follow "--", e.g.:
  sportsbook-arb convert --from moneyline -- -125`,
	Args: cobra.ExactArgs(1),
	RunE: runConvert,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(convertCmd)
	convertCmd.Flags().String("from", string(oddsmath.FormatDecimal), "Format of the given price: decimal or moneyline")
}

func runConvert(cmd *cobra.Command, args []string) error {
	fromFlag, _ := cmd.Flags().GetString("from")

	from, err := oddsmath.ParseFormat(fromFlag)
	if err != nil {
		return err
	}

	value, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return fmt.Errorf("parse price %q: %w", args[0], err)
	}

	line, err := convertPrice(value, from)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), line)
	return nil
}

// convertPrice renders value (given in from) in the other format along with
// its implied probability.
func convertPrice(value float64, from oddsmath.Format) (string, error) {
	decimal := value
	if from == oddsmath.FormatMoneyline {
		d, err := oddsmath.MoneylineToDecimal(value)
		if err != nil {
			return "", err
		}
		decimal = d
	}

	moneyline, err := oddsmath.DecimalToMoneyline(decimal)
	if err != nil {
		return "", err
	}

	implied, err := oddsmath.ImpliedProbability(decimal)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("decimal %s  moneyline %s  implied %.2f%%",
		report.FormatPrice(oddsmath.Round2(decimal), oddsmath.FormatDecimal),
		report.FormatPrice(moneyline, oddsmath.FormatMoneyline),
		implied*100), nil
}
