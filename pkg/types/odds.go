package types

import (
	"time"

	json "github.com/goccy/go-json"
)

// Event is one sporting event as published by the odds API, with every
// bookmaker's quotes for it.
type Event struct {
	ID           string      `json:"id"`
	SportKey     string      `json:"sport_key"`
	SportTitle   string      `json:"sport_title"`
	CommenceTime time.Time   `json:"commence_time"`
	HomeTeam     string      `json:"home_team"`
	AwayTeam     string      `json:"away_team"`
	Bookmakers   []Bookmaker `json:"bookmakers"`
}

// Bookmaker is a single bookmaker's quote set for an event.
type Bookmaker struct {
	Key        string    `json:"key"`
	Title      string    `json:"title"`
	LastUpdate time.Time `json:"last_update"`
	Markets    []Market  `json:"markets"`

	// DecodeErr is set when the bookmaker's JSON did not match the expected
	// shape. The bookmaker is kept so the event still decodes.
	DecodeErr error `json:"-"`
}

// Market is one betting market (h2h, spreads, totals) offered by a bookmaker.
type Market struct {
	Key      string    `json:"key"`
	Outcomes []Outcome `json:"outcomes"`
}

// Outcome is a named outcome and its decimal price.
type Outcome struct {
	Name  string   `json:"name"`
	Price float64  `json:"price"`
	Point *float64 `json:"point,omitempty"`
}

// UnmarshalJSON decodes a bookmaker without ever failing the enclosing event.
// Malformed input is recorded in DecodeErr.
func (b *Bookmaker) UnmarshalJSON(data []byte) error {
	type Alias Bookmaker
	aux := &struct {
		*Alias
	}{
		Alias: (*Alias)(b),
	}

	err := json.Unmarshal(data, &aux)
	if err != nil {
		*b = Bookmaker{DecodeErr: err}

		// Keep whatever identifies the bookmaker for logging.
		var id struct {
			Key   string `json:"key"`
			Title string `json:"title"`
		}
		if json.Unmarshal(data, &id) == nil {
			b.Key = id.Key
			b.Title = id.Title
		}
	}

	return nil
}

// Name returns the display name of the bookmaker, falling back to its key.
func (b *Bookmaker) Name() string {
	if b.Title != "" {
		return b.Title
	}
	return b.Key
}

// MarketByKey returns the bookmaker's market with the given key.
// An empty key selects the first market.
func (b *Bookmaker) MarketByKey(key string) (*Market, bool) {
	if len(b.Markets) == 0 {
		return nil, false
	}

	if key == "" {
		return &b.Markets[0], true
	}

	for i := range b.Markets {
		if b.Markets[i].Key == key {
			return &b.Markets[i], true
		}
	}

	return nil, false
}
