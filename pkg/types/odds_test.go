package types

import (
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvent_UnmarshalJSON(t *testing.T) {
	payload := `{
		"id": "evt-1",
		"sport_key": "soccer_epl",
		"sport_title": "EPL",
		"commence_time": "2026-10-18T14:00:00Z",
		"home_team": "Arsenal",
		"away_team": "Chelsea",
		"bookmakers": [
			{"key": "a", "title": "Book A", "markets": [{"key": "h2h", "outcomes": [{"name": "Arsenal", "price": 2.1}, {"name": "Chelsea", "price": 1.8}]}]},
			{"key": "b", "title": "Book B", "markets": "not-a-list"},
			{"key": "c", "title": "Book C"}
		]
	}`

	var event Event
	err := json.Unmarshal([]byte(payload), &event)
	require.NoError(t, err)

	assert.Equal(t, "evt-1", event.ID)
	assert.Equal(t, "soccer_epl", event.SportKey)
	assert.Equal(t, 2026, event.CommenceTime.Year())
	require.Len(t, event.Bookmakers, 3)

	assert.NoError(t, event.Bookmakers[0].DecodeErr)
	require.Len(t, event.Bookmakers[0].Markets, 1)
	assert.InDelta(t, 2.1, event.Bookmakers[0].Markets[0].Outcomes[0].Price, 1e-9)

	assert.Error(t, event.Bookmakers[1].DecodeErr)
	assert.Equal(t, "Book B", event.Bookmakers[1].Title)
	assert.Empty(t, event.Bookmakers[1].Markets)

	assert.NoError(t, event.Bookmakers[2].DecodeErr)
	assert.Nil(t, event.Bookmakers[2].Markets)
}

func TestBookmaker_MarketByKey(t *testing.T) {
	b := Bookmaker{
		Key: "a",
		Markets: []Market{
			{Key: "h2h"},
			{Key: "totals"},
		},
	}

	tests := []struct {
		name    string
		key     string
		wantKey string
		wantOK  bool
	}{
		{name: "empty-key-selects-first", key: "", wantKey: "h2h", wantOK: true},
		{name: "exact-key", key: "totals", wantKey: "totals", wantOK: true},
		{name: "missing-key", key: "spreads", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, ok := b.MarketByKey(tt.key)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.wantKey, m.Key)
			}
		})
	}

	empty := Bookmaker{Key: "x"}
	_, ok := empty.MarketByKey("")
	assert.False(t, ok)
}

func TestBookmaker_Name(t *testing.T) {
	assert.Equal(t, "Book A", (&Bookmaker{Key: "a", Title: "Book A"}).Name())
	assert.Equal(t, "a", (&Bookmaker{Key: "a"}).Name())
}
