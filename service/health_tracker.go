package service

import (
	"context"
	"time"

	"myregistry/domain"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

// HealthTracker drives the liveness state machine of ephemeral instances:
// no heartbeat within HealthyTimeout marks an instance unhealthy, none within
// DeleteTimeout removes it. Persistent instances are exempt; their health only
// changes through explicit re-registration.
type HealthTracker struct {
	registry *Registry
	logger   log.Logger
}

// NewHealthTracker creates a tracker bound to the registry's timeouts.
func NewHealthTracker(registry *Registry, logger log.Logger) *HealthTracker {
	return &HealthTracker{
		registry: registry,
		logger:   log.WithPrefix(logger, "component", "HealthTracker"),
	}
}

// Run sweeps on the configured interval until ctx is cancelled.
func (t *HealthTracker) Run(ctx context.Context) error {
	ticker := time.NewTicker(t.registry.cfg.SweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			t.Sweep(time.Now())
		}
	}
}

type beatCandidate struct {
	key      domain.ServiceKey
	id       string
	lastBeat time.Time
	healthy  bool
}

// Sweep runs one pass: it first collects candidate (instance, lastBeat)
// pairs from the published snapshots without holding any store lock, then
// applies transitions one instance at a time, re-checking the beat timestamp
// under the service lock since a heartbeat may have landed in between.
func (t *HealthTracker) Sweep(now time.Time) {
	cfg := t.registry.cfg

	var candidates []beatCandidate
	for _, key := range t.registry.store.keys() {
		instances, _, ok := t.registry.store.snapshot(key)
		if !ok {
			continue
		}
		for _, inst := range instances {
			if !inst.Ephemeral {
				continue
			}
			if now.Sub(inst.LastBeat) >= cfg.HealthyTimeout {
				candidates = append(candidates, beatCandidate{
					key:      key,
					id:       inst.Key(),
					lastBeat: inst.LastBeat,
					healthy:  inst.Healthy,
				})
			}
		}
	}

	for _, c := range candidates {
		if now.Sub(c.lastBeat) >= cfg.DeleteTimeout {
			t.evict(c.key, c.id, now)
			continue
		}
		if c.healthy {
			t.markUnhealthy(c.key, c.id, now)
		}
	}
}

// markUnhealthy flips an ephemeral instance to unhealthy if its beat is still
// lapsed under the lock.
func (t *HealthTracker) markUnhealthy(key domain.ServiceKey, id string, now time.Time) {
	err := t.registry.store.apply(key, false, func(current []domain.Instance) ([]domain.Instance, bool, error) {
		for idx, inst := range current {
			if inst.Key() != id || !inst.Ephemeral || !inst.Healthy {
				continue
			}
			if now.Sub(inst.LastBeat) < t.registry.cfg.HealthyTimeout {
				return current, false, nil
			}
			next := copyInstances(current)
			next[idx].Healthy = false
			return next, true, nil
		}
		return current, false, nil
	}, t.registry.subs.Publish)
	if err != nil {
		level.Error(t.logger).Log("msg", "failed to mark instance unhealthy", "service", key.String(), "instance", id, "err", err)
		return
	}
	level.Info(t.logger).Log("msg", "instance marked unhealthy", "service", key.String(), "instance", id)
}

// evict removes an ephemeral instance whose beat lapsed past DeleteTimeout.
// Routine lifecycle, not an error.
func (t *HealthTracker) evict(key domain.ServiceKey, id string, now time.Time) {
	removed := false
	err := t.registry.store.apply(key, false, func(current []domain.Instance) ([]domain.Instance, bool, error) {
		for _, inst := range current {
			if inst.Key() != id || !inst.Ephemeral {
				continue
			}
			if now.Sub(inst.LastBeat) < t.registry.cfg.DeleteTimeout {
				return current, false, nil
			}
			removed = true
			return removeInstances(current, map[string]struct{}{id: {}}), true, nil
		}
		return current, false, nil
	}, t.registry.subs.Publish)
	if err != nil {
		level.Error(t.logger).Log("msg", "failed to evict instance", "service", key.String(), "instance", id, "err", err)
		return
	}
	if removed {
		level.Info(t.logger).Log("msg", "ephemeral instance evicted", "service", key.String(), "instance", id)
	}
}
