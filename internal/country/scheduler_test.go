package country

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewScheduler_Constructs(t *testing.T) {
	svc, _ := newTestService(t)
	s := NewScheduler(svc, 10*time.Second)
	require.NotNil(t, s)
	require.Nil(t, s.sched)
}

func TestNewScheduler_UsesProvidedInterval(t *testing.T) {
	svc, _ := newTestService(t)
	s := NewScheduler(svc, 42*time.Second)
	require.Equal(t, 42*time.Second, s.refreshInterval)
}

func TestNewScheduler_DefaultsIntervalWhenInvalid(t *testing.T) {
	svc, _ := newTestService(t)
	s := NewScheduler(svc, 0)
	require.Equal(t, defaultRefreshInterval, s.refreshInterval)
}

func TestScheduler_Shutdown_NoScheduler_ReturnsNil(t *testing.T) {
	svc, _ := newTestService(t)
	s := NewScheduler(svc, 10*time.Second)
	require.NoError(t, s.Shutdown())
	require.Nil(t, s.sched)
}

func TestScheduler_Start_And_ContextCancel_ShutsDown(t *testing.T) {
	svc, _ := newTestService(t)
	s := NewScheduler(svc, time.Hour)
	ctx, cancel := context.WithCancel(context.Background())

	require.NoError(t, s.Start(ctx))
	require.NotNil(t, s.sched)

	cancel()

	// Wait until s.sched becomes nil (Shutdown sets it to nil)
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if s.sched == nil {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}

	require.Nil(t, s.sched, "expected scheduler to be shutdown after ctx cancel")
}

func TestScheduler_Shutdown_AfterStart_Idempotent(t *testing.T) {
	svc, _ := newTestService(t)
	s := NewScheduler(svc, time.Hour)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, s.Start(ctx))
	require.NotNil(t, s.sched)

	require.NoError(t, s.Shutdown())
	require.Nil(t, s.sched)

	require.NoError(t, s.Shutdown())
}
