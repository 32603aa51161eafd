package arbitrage

import (
	"testing"

	"github.com/mselser95/sportsbook-arb/pkg/types"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

// TestMetrics_Registration tests all metrics are initialized
func TestMetrics_Registration(t *testing.T) {
	assert.NotNil(t, EventsProcessedTotal)
	assert.NotNil(t, OpportunitiesDetectedTotal)
	assert.NotNil(t, EventsRejectedTotal)
	assert.NotNil(t, BookmakersSkippedTotal)
	assert.NotNil(t, ConversionFailuresTotal)
	assert.NotNil(t, OpportunityProfitBPS)
	assert.NotNil(t, OpportunityOutcomeCount)
	assert.NotNil(t, PipelineDurationSeconds)
}

// TestMetrics_RejectReasons tests each sentinel maps to its own label
func TestMetrics_RejectReasons(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{err: ErrNoBookmakerData, want: "no_bookmaker_data"},
		{err: ErrUncoveredOutcome, want: "uncovered_outcome"},
		{err: ErrNotExploitable, want: "not_exploitable"},
		{err: ErrMalformedBookmaker, want: "other"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, rejectReason(tt.err))
	}
}

// TestMetrics_PipelineUpdatesCounters tests a run moves the counters
func TestMetrics_PipelineUpdatesCounters(t *testing.T) {
	p, err := NewPipeline(Config{})
	assert.NoError(t, err)

	processedBefore := testutil.ToFloat64(EventsProcessedTotal)
	detectedBefore := testutil.ToFloat64(OpportunitiesDetectedTotal)
	rejectedBefore := testutil.ToFloat64(EventsRejectedTotal.WithLabelValues("no_bookmaker_data"))

	p.Run(nil)
	p.Run([]types.Event{
		CreateTestEvent("metrics-1"),
		{ID: "metrics-2"},
	})

	assert.Equal(t, processedBefore+2, testutil.ToFloat64(EventsProcessedTotal))
	assert.Equal(t, detectedBefore+1, testutil.ToFloat64(OpportunitiesDetectedTotal))
	assert.Equal(t, rejectedBefore+1, testutil.ToFloat64(EventsRejectedTotal.WithLabelValues("no_bookmaker_data")))
}
