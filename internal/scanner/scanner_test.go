package scanner

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mselser95/sportsbook-arb/internal/arbitrage"
	"github.com/mselser95/sportsbook-arb/internal/oddsapi"
	"github.com/mselser95/sportsbook-arb/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type fakeFetcher struct {
	mu     sync.Mutex
	events []types.Event
	err    error
	calls  atomic.Int32
	block  chan struct{}
	gotReq oddsapi.OddsRequest
}

func (f *fakeFetcher) FetchOdds(ctx context.Context, req oddsapi.OddsRequest) ([]types.Event, error) {
	f.calls.Add(1)

	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.gotReq = req
	return f.events, f.err
}

func newTestService(t *testing.T, fetcher Fetcher, storage arbitrage.Storage) *Service {
	t.Helper()

	pipeline, err := arbitrage.NewPipeline(arbitrage.Config{
		ReferenceStake: 100,
		PriceFormat:    "decimal",
		MarketKey:      "h2h",
		Workers:        2,
		Logger:         zap.NewNop(),
	})
	require.NoError(t, err)

	return New(&Config{
		Fetcher:  fetcher,
		Pipeline: pipeline,
		Storage:  storage,
		Request:  oddsapi.OddsRequest{Sport: "upcoming", Regions: "us", Markets: "h2h"},
		Interval: 20 * time.Millisecond,
		Logger:   zap.NewNop(),
	})
}

func TestService_ScanOnce(t *testing.T) {
	fetcher := &fakeFetcher{
		events: []types.Event{
			arbitrage.CreateTestEvent("evt-1"),
			{ID: "evt-empty"},
		},
	}
	storage := arbitrage.NewMockStorage()
	svc := newTestService(t, fetcher, storage)

	assert.Nil(t, svc.Latest())

	set, err := svc.ScanOnce(context.Background())
	require.NoError(t, err)
	require.NotNil(t, set)

	assert.Equal(t, 2, set.EventsProcessed)
	assert.Equal(t, 1, set.Count)
	assert.Equal(t, "evt-1", set.Results[0].EventID)
	assert.Equal(t, "upcoming", fetcher.gotReq.Sport)

	assert.Same(t, set, svc.Latest())
	require.Len(t, storage.GetSets(), 1)
	assert.Same(t, set, storage.GetSets()[0])

	status := svc.Status()
	assert.Equal(t, set.ScanID, status.LastScanID)
	assert.Equal(t, 1, status.Opportunities)
	assert.Empty(t, status.LastError)
	assert.False(t, status.Scanning)
}

func TestService_ScanOnce_FetchError(t *testing.T) {
	fetcher := &fakeFetcher{err: &types.UpstreamFetchError{URL: "http://odds", StatusCode: 500}}
	storage := arbitrage.NewMockStorage()
	svc := newTestService(t, fetcher, storage)

	set, err := svc.ScanOnce(context.Background())
	require.Error(t, err)
	assert.Nil(t, set)

	var fetchErr *types.UpstreamFetchError
	assert.True(t, errors.As(err, &fetchErr))
	assert.Empty(t, storage.GetSets())
	assert.Nil(t, svc.Latest())

	status := svc.Status()
	assert.Contains(t, status.LastError, "fetch odds")
	assert.False(t, status.LastErrorAt.IsZero())

	// A successful scan clears the error.
	fetcher.mu.Lock()
	fetcher.err = nil
	fetcher.mu.Unlock()

	_, err = svc.ScanOnce(context.Background())
	require.NoError(t, err)
	assert.Empty(t, svc.Status().LastError)
}

func TestService_ScanOnce_StoreError(t *testing.T) {
	fetcher := &fakeFetcher{events: []types.Event{arbitrage.CreateTestEvent("evt-1")}}
	storage := arbitrage.NewMockStorage()
	storage.Err = errors.New("disk full")
	svc := newTestService(t, fetcher, storage)

	set, err := svc.ScanOnce(context.Background())
	require.Error(t, err)
	require.NotNil(t, set, "result set is returned even when storage fails")
	assert.Equal(t, 1, set.Count)
	assert.Same(t, set, svc.Latest())
	assert.Contains(t, svc.Status().LastError, "disk full")
}

func TestService_ScanOnce_NoStorage(t *testing.T) {
	fetcher := &fakeFetcher{events: []types.Event{arbitrage.CreateTestEvent("evt-1")}}
	svc := newTestService(t, fetcher, nil)

	set, err := svc.ScanOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, set.Count)
}

func TestService_ScanOnce_InProgress(t *testing.T) {
	fetcher := &fakeFetcher{block: make(chan struct{})}
	svc := newTestService(t, fetcher, nil)

	done := make(chan error, 1)
	go func() {
		_, err := svc.ScanOnce(context.Background())
		done <- err
	}()

	require.Eventually(t, func() bool { return fetcher.calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	assert.True(t, svc.Status().Scanning)

	_, err := svc.ScanOnce(context.Background())
	assert.ErrorIs(t, err, ErrScanInProgress)

	close(fetcher.block)
	require.NoError(t, <-done)
}

func TestService_Run(t *testing.T) {
	fetcher := &fakeFetcher{events: []types.Event{arbitrage.CreateTestEvent("evt-1")}}
	storage := arbitrage.NewMockStorage()
	svc := newTestService(t, fetcher, storage)

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- svc.Run(ctx)
	}()

	require.Eventually(t, func() bool { return len(storage.GetSets()) >= 3 }, 2*time.Second, 10*time.Millisecond)

	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("scanner did not stop after cancel")
	}

	assert.NotNil(t, svc.Latest())
}

func TestService_Run_KeepsGoingAfterErrors(t *testing.T) {
	fetcher := &fakeFetcher{err: errors.New("boom")}
	svc := newTestService(t, fetcher, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() { _ = svc.Run(ctx) }()

	require.Eventually(t, func() bool { return fetcher.calls.Load() >= 3 }, 2*time.Second, 10*time.Millisecond)
}

func TestService_Process(t *testing.T) {
	svc := newTestService(t, &fakeFetcher{}, nil)

	set := svc.Process([]types.Event{arbitrage.CreateTestEvent("offline")})
	assert.Equal(t, 1, set.Count)
	assert.Same(t, set, svc.Latest())
}

type staticGate bool

func (g staticGate) Allow() bool { return bool(g) }

func TestService_ScanOnce_Gate(t *testing.T) {
	fetcher := &fakeFetcher{events: []types.Event{arbitrage.CreateTestEvent("evt-1")}}
	svc := newTestService(t, fetcher, nil)

	svc.gate = staticGate(false)
	_, err := svc.ScanOnce(context.Background())
	assert.ErrorIs(t, err, ErrScanSuppressed)
	assert.Equal(t, int32(0), fetcher.calls.Load())
	assert.False(t, svc.Status().Scanning)

	svc.gate = staticGate(true)
	_, err = svc.ScanOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(1), fetcher.calls.Load())
}

func TestService_LogScanError(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		wantMsg   string
		wantLevel zapcore.Level
	}{
		{name: "suppressed", err: ErrScanSuppressed, wantMsg: "scan-suppressed", wantLevel: zapcore.DebugLevel},
		{name: "in-progress", err: ErrScanInProgress, wantMsg: "scan-skipped-in-progress", wantLevel: zapcore.DebugLevel},
		{name: "fetch-failure", err: errors.New("fetch odds: boom"), wantMsg: "scan-failed", wantLevel: zapcore.ErrorLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zapcore.DebugLevel)
			svc := newTestService(t, &fakeFetcher{}, nil)
			svc.logger = zap.New(core)

			svc.logScanError("scan-failed", tt.err)

			entries := logs.All()
			require.Len(t, entries, 1)
			assert.Equal(t, tt.wantMsg, entries[0].Message)
			assert.Equal(t, tt.wantLevel, entries[0].Level)
		})
	}
}

func TestService_Run_OverlappingManualScanIsNotAnError(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	fetcher := &fakeFetcher{block: make(chan struct{})}
	svc := newTestService(t, fetcher, nil)
	svc.logger = zap.New(core)

	manual := make(chan error, 1)
	go func() {
		_, err := svc.ScanOnce(context.Background())
		manual <- err
	}()
	require.Eventually(t, func() bool { return fetcher.calls.Load() == 1 }, time.Second, 5*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	runDone := make(chan error, 1)
	go func() { runDone <- svc.Run(ctx) }()

	require.Eventually(t, func() bool {
		return logs.FilterMessage("scan-skipped-in-progress").Len() >= 2
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	<-runDone
	close(fetcher.block)
	require.NoError(t, <-manual)

	assert.Zero(t, logs.FilterLevelExact(zapcore.ErrorLevel).Len())
}
