package oddsapi

import (
	"fmt"
	"os"

	json "github.com/goccy/go-json"
	"github.com/mselser95/sportsbook-arb/pkg/types"
	"go.uber.org/zap"
)

// DecodeEvents decodes an odds API response. The payload must be a JSON array;
// elements that fail to decode are dropped and logged so one bad event cannot
// sink the batch.
func DecodeEvents(data []byte, source string, logger *zap.Logger) ([]types.Event, error) {
	var raw []json.RawMessage
	err := json.Unmarshal(data, &raw)
	if err != nil {
		return nil, &types.UpstreamParseError{Source: source, Err: err}
	}

	events := make([]types.Event, 0, len(raw))
	for i, msg := range raw {
		var event types.Event
		err := json.Unmarshal(msg, &event)
		if err != nil {
			EventsDroppedTotal.Inc()
			logger.Warn("event-decode-failed",
				zap.String("source", source),
				zap.Int("index", i),
				zap.Error(err))
			continue
		}
		events = append(events, event)
	}

	return events, nil
}

// LoadEvents reads a saved odds API response from disk.
func LoadEvents(path string, logger *zap.Logger) ([]types.Event, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read events file: %w", err)
	}

	return DecodeEvents(data, path, logger)
}
