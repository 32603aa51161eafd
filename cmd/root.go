package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var rootCmd = &cobra.Command{
	Use:   "sportsbook-arb",
	Short: "Sportsbook arbitrage scanner",
	Long: `Sportsbook arbitrage scanner that pulls odds for upcoming events from
many bookmakers, picks the best price for every outcome across bookmakers,
and reports events where backing every outcome guarantees a profit.

For each opportunity it shows where to place each bet, at what price and
how much to stake so that every outcome pays out the same amount.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
