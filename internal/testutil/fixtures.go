package testutil

import (
	"os"
	"path/filepath"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/mselser95/sportsbook-arb/pkg/types"
)

// CreateEfficientEvent creates a two-way event whose best prices still carry
// the bookmaker margin, so no arbitrage exists.
func CreateEfficientEvent(id string) types.Event {
	return types.Event{
		ID:       id,
		SportKey: "basketball_nba",
		HomeTeam: "Home",
		AwayTeam: "Away",
		Bookmakers: []types.Bookmaker{
			{
				Key:   "booka",
				Title: "BookA",
				Markets: []types.Market{
					{Key: "h2h", Outcomes: []types.Outcome{
						{Name: "Home", Price: 1.90},
						{Name: "Away", Price: 1.90},
					}},
				},
			},
		},
	}
}

// WriteEventsFile writes events as a JSON array under t.TempDir and returns
// the file path.
func WriteEventsFile(t *testing.T, events []types.Event) string {
	t.Helper()

	data, err := json.Marshal(events)
	if err != nil {
		t.Fatalf("marshal events: %v", err)
	}

	path := filepath.Join(t.TempDir(), "events.json")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write events file: %v", err)
	}
	return path
}
