package service

import (
	"context"
	"sync"
	"time"

	"myregistry/domain"
	"myregistry/interfaces"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

const snapshotWriteTimeout = 5 * time.Second

// Snapshotter is the snapshot/cache layer: it consumes the registry's
// committed change stream and persists the last-known-good instance set per
// service to durable storage. Each set is written as one value under the
// service key, so cache readers see either the old or the new complete
// snapshot, never a mix.
// persistedState is what the snapshotter last wrote for a service: the set
// checksum for dedup and the committed version it carried.
type persistedState struct {
	sum     uint64
	version uint64
}

type Snapshotter struct {
	cache  interfaces.Cache[domain.ServiceSnapshot]
	logger log.Logger

	mu   sync.Mutex
	last map[string]persistedState
}

var _ interfaces.ChangeSink = (*Snapshotter)(nil)

// NewSnapshotter creates the layer on top of a snapshot cache.
func NewSnapshotter(cache interfaces.Cache[domain.ServiceSnapshot], logger log.Logger) *Snapshotter {
	return &Snapshotter{
		cache:  cache,
		logger: log.WithPrefix(logger, "component", "Snapshotter"),
		last:   make(map[string]persistedState),
	}
}

// OnChange implements interfaces.ChangeSink. Write failures are logged and
// retried implicitly by the next change to the same service; the cache is a
// fallback, not the source of truth.
func (s *Snapshotter) OnChange(ev domain.ChangeEvent) {
	s.persist(ev.Key, ev.Instances, ev.Version)
}

// persist writes the set under the service key unless it matches the last
// persisted one.
func (s *Snapshotter) persist(key domain.ServiceKey, instances []domain.Instance, version uint64) {
	sum := domain.Checksum(instances)
	s.mu.Lock()
	if prev, ok := s.last[key.String()]; ok && prev.sum == sum {
		s.mu.Unlock()
		return
	}
	s.last[key.String()] = persistedState{sum: sum, version: version}
	s.mu.Unlock()

	snap := domain.ServiceSnapshot{
		Key:       key,
		Instances: instances,
		Version:   version,
		Taken:     time.Now(),
	}
	ctx, cancel := context.WithTimeout(context.Background(), snapshotWriteTimeout)
	defer cancel()
	if err := s.cache.WriteValue(ctx, key.String(), snap, 0); err != nil {
		level.Warn(s.logger).Log("msg", "failed to persist snapshot", "service", key.String(), "err", err)
	}
}

// Restore re-registers the persistent instances of every cached snapshot into
// the registry. Ephemeral instances are not restored: their owners must
// heartbeat again. An empty cache is not an error.
func (s *Snapshotter) Restore(ctx context.Context, registry interfaces.Registry) error {
	snaps, err := s.cache.ListAllValues(ctx)
	if err != nil {
		if IsEntityNotFoundError(err) {
			return nil
		}
		return err
	}
	restored := 0
	for _, snap := range snaps {
		persistent := make([]domain.Instance, 0, len(snap.Instances))
		for _, inst := range snap.Instances {
			if !inst.Ephemeral {
				persistent = append(persistent, inst)
			}
		}
		if len(persistent) == 0 {
			continue
		}
		if err := registry.RegisterBatch(ctx, snap.Key, persistent); err != nil {
			return err
		}
		restored += len(persistent)
	}
	if restored > 0 {
		level.Info(s.logger).Log("msg", "restored persistent instances from snapshots", "count", restored)
	}
	return nil
}

// Resolve returns the live instance set of the service, refreshing the cached
// snapshot on success and falling back to it when the registry read fails.
// Read paths never surface a hard failure while a snapshot exists.
func (s *Snapshotter) Resolve(ctx context.Context, registry interfaces.Registry, key domain.ServiceKey) ([]domain.Instance, error) {
	instances, err := registry.GetAllInstances(ctx, key)
	if err == nil {
		// A pushed event may be dropped under load (the sink queue is best
		// effort); every successful read re-syncs the cache.
		s.mu.Lock()
		version := s.last[key.String()].version
		s.mu.Unlock()
		s.persist(key, instances, version)
		return instances, nil
	}
	level.Warn(s.logger).Log("msg", "registry read failed, serving cached snapshot", "service", key.String(), "err", err)

	snap, cacheErr := s.cache.ReadValue(ctx, key.String())
	if cacheErr != nil {
		if IsEntityNotFoundError(cacheErr) {
			return nil, err
		}
		return nil, cacheErr
	}
	return snap.Instances, nil
}
