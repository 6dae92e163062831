package service

import (
	"context"
	"testing"
	"time"

	"github.com/go-kit/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTrackedRegistry(t *testing.T) (*Registry, *HealthTracker) {
	t.Helper()
	r := NewRegistry(RegistryConfig{
		HealthyTimeout: 15 * time.Second,
		DeleteTimeout:  30 * time.Second,
		SweepInterval:  time.Second,
	}, log.NewNopLogger())
	t.Cleanup(r.Close)
	return r, NewHealthTracker(r, log.NewNopLogger())
}

func TestHealthTracker_FreshInstanceIsLeftAlone(t *testing.T) {
	ctx := context.Background()
	r, tracker := newTrackedRegistry(t)
	key := testKey("orders")
	require.NoError(t, r.Register(ctx, key, testInstance("10.0.0.1", 8080, "DEFAULT")))

	tracker.Sweep(time.Now())

	instances, err := r.GetAllInstances(ctx, key)
	require.NoError(t, err)
	require.Len(t, instances, 1)
	assert.True(t, instances[0].Healthy)
}

func TestHealthTracker_LapsedBeatMarksUnhealthy(t *testing.T) {
	ctx := context.Background()
	r, tracker := newTrackedRegistry(t)
	key := testKey("orders")
	require.NoError(t, r.Register(ctx, key, testInstance("10.0.0.1", 8080, "DEFAULT")))

	tracker.Sweep(time.Now().Add(20 * time.Second))

	instances, err := r.GetAllInstances(ctx, key)
	require.NoError(t, err)
	require.Len(t, instances, 1)
	assert.False(t, instances[0].Healthy)
}

func TestHealthTracker_LongLapsedBeatEvicts(t *testing.T) {
	ctx := context.Background()
	r, tracker := newTrackedRegistry(t)
	key := testKey("orders")
	require.NoError(t, r.Register(ctx, key, testInstance("10.0.0.1", 8080, "DEFAULT")))

	tracker.Sweep(time.Now().Add(40 * time.Second))

	instances, err := r.GetAllInstances(ctx, key)
	require.NoError(t, err)
	assert.Empty(t, instances)
}

func TestHealthTracker_PersistentInstanceIsExempt(t *testing.T) {
	ctx := context.Background()
	r, tracker := newTrackedRegistry(t)
	key := testKey("orders")

	persistent := testInstance("10.0.0.1", 8080, "DEFAULT")
	persistent.Ephemeral = false
	require.NoError(t, r.Register(ctx, key, persistent))

	tracker.Sweep(time.Now().Add(time.Hour))

	instances, err := r.GetAllInstances(ctx, key)
	require.NoError(t, err)
	require.Len(t, instances, 1)
	assert.True(t, instances[0].Healthy)
}

func TestHealthTracker_HeartbeatBetweenSnapshotAndApplyWins(t *testing.T) {
	ctx := context.Background()
	r, tracker := newTrackedRegistry(t)
	key := testKey("orders")
	require.NoError(t, r.Register(ctx, key, testInstance("10.0.0.1", 8080, "DEFAULT")))

	// The transition re-checks the beat under the lock: a beat refreshed to
	// "now" is no longer lapsed at apply time.
	require.NoError(t, r.Heartbeat(ctx, key, "10.0.0.1", 8080, "DEFAULT"))
	tracker.markUnhealthy(key, "10.0.0.1:8080@DEFAULT", time.Now())

	instances, err := r.GetAllInstances(ctx, key)
	require.NoError(t, err)
	require.Len(t, instances, 1)
	assert.True(t, instances[0].Healthy)
}

func TestHealthTracker_TransitionsNotifySubscribers(t *testing.T) {
	ctx := context.Background()
	r, tracker := newTrackedRegistry(t)
	key := testKey("orders")
	require.NoError(t, r.Register(ctx, key, testInstance("10.0.0.1", 8080, "DEFAULT")))

	rec := &eventRecorder{}
	_, err := r.Subscriptions().Subscribe("conn-1", key, nil, rec.callback)
	require.NoError(t, err)
	waitForEvents(t, rec, 1)

	tracker.Sweep(time.Now().Add(20 * time.Second))
	waitForEvents(t, rec, 2)
	ev := rec.last()
	require.Len(t, ev.Instances, 1)
	assert.False(t, ev.Instances[0].Healthy)

	tracker.Sweep(time.Now().Add(40 * time.Second))
	waitForEvents(t, rec, 3)
	assert.Empty(t, rec.last().Instances)
}

func TestHealthTracker_RunStopsOnContextCancel(t *testing.T) {
	_, tracker := newTrackedRegistry(t)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- tracker.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("tracker did not stop after cancel")
	}
}
