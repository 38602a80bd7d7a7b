package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domrepo "HurstLab/internal/domain/repository"
)

type fakeRefresher struct {
	mu    sync.Mutex
	calls []Target
	fail  map[string]bool
}

func (f *fakeRefresher) Refresh(ctx context.Context, symbol string, freq domrepo.Frequency) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, Target{Symbol: symbol, Frequency: freq})
	if _, ok := ctx.Deadline(); !ok {
		return 0, errors.New("no deadline")
	}
	if f.fail[symbol] {
		return 0, errors.New("upstream down")
	}
	return 10, nil
}

func TestTargets(t *testing.T) {
	got := Targets([]string{"EURUSD", "BTCUSDT"}, []string{"daily", "TIME_SERIES_WEEKLY"})
	assert.Equal(t, []Target{
		{"EURUSD", domrepo.FreqDaily},
		{"EURUSD", domrepo.FreqWeekly},
		{"BTCUSDT", domrepo.FreqDaily},
		{"BTCUSDT", domrepo.FreqWeekly},
	}, got)
}

func TestRefreshScheduler_RunOnce(t *testing.T) {
	r := &fakeRefresher{fail: map[string]bool{"BAD": true}}
	s, err := NewRefreshScheduler("@daily", r, Targets([]string{"EURUSD", "BAD", "MSFT"}, []string{"daily"}), Options{Timeout: time.Second}, nil)
	require.NoError(t, err)

	assert.Equal(t, 2, s.RunOnce(context.Background()))
	assert.Len(t, r.calls, 3)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Equal(t, 0, s.RunOnce(ctx))
	assert.Len(t, r.calls, 3)
}

func TestRefreshScheduler_RunOnceConcurrent(t *testing.T) {
	r := &fakeRefresher{}
	symbols := []string{"A", "B", "C", "D", "E", "F"}
	s, err := NewRefreshScheduler("@hourly", r, Targets(symbols, []string{"daily", "weekly"}), Options{Timeout: time.Second, Concurrency: 3}, nil)
	require.NoError(t, err)

	assert.Equal(t, 12, s.RunOnce(context.Background()))
	assert.Len(t, r.calls, 12)
}

func TestRefreshScheduler_StartStop(t *testing.T) {
	_, err := NewRefreshScheduler("whenever", &fakeRefresher{}, nil, Options{}, nil)
	assert.Error(t, err)

	s, err := NewRefreshScheduler("0 6 * * 1-5", &fakeRefresher{}, nil, Options{}, nil)
	require.NoError(t, err)
	s.Start()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, s.Stop(ctx))
}
