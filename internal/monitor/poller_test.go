package monitor

import (
	"context"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func waitPass(t *testing.T, passes <-chan int) int {
	t.Helper()
	select {
	case n := <-passes:
		return n
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for pass")
		return 0
	}
}

func TestPollerSinglePass(t *testing.T) {
	calls := 0
	p := NewPoller(clock.NewMock(), 0, 0, func(ctx context.Context, n int) {
		calls++
		assert.Equal(t, 1, n)
	})

	require.NoError(t, p.Run(context.Background()))
	assert.Equal(t, 1, calls)
}

func TestPollerRepeatsOnInterval(t *testing.T) {
	mock := clock.NewMock()
	passes := make(chan int, 10)
	p := NewPoller(mock, time.Minute, 0, func(ctx context.Context, n int) { passes <- n })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()

	assert.Equal(t, 1, waitPass(t, passes))

	// The ticker is created right after the first pass returns.
	require.Eventually(t, func() bool {
		mock.Add(time.Minute)
		select {
		case n := <-passes:
			return n == 2
		default:
			return false
		}
	}, 2*time.Second, 5*time.Millisecond)

	mock.Add(time.Minute)
	assert.Equal(t, 3, waitPass(t, passes))

	cancel()
	require.NoError(t, <-done)
}

func TestPollerStopsAfterMaxPasses(t *testing.T) {
	mock := clock.NewMock()
	passes := make(chan int, 10)
	p := NewPoller(mock, time.Second, 2, func(ctx context.Context, n int) { passes <- n })

	done := make(chan error, 1)
	go func() { done <- p.Run(context.Background()) }()

	assert.Equal(t, 1, waitPass(t, passes))
	require.Eventually(t, func() bool {
		mock.Add(time.Second)
		select {
		case err := <-done:
			assert.NoError(t, err)
			return true
		default:
			return false
		}
	}, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, 2, waitPass(t, passes))
}

func TestPollerMaxPassesOfOne(t *testing.T) {
	calls := 0
	p := NewPoller(clock.NewMock(), time.Hour, 1, func(ctx context.Context, n int) { calls++ })
	require.NoError(t, p.Run(context.Background()))
	assert.Equal(t, 1, calls)
}

func TestPollerCancelledBeforeTick(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	p := NewPoller(clock.NewMock(), time.Hour, 0, func(ctx context.Context, n int) { cancel() })
	require.NoError(t, p.Run(ctx))
}
