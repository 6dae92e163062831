package service

import (
	"context"
	"sort"
	"time"

	"myregistry/domain"
	"myregistry/interfaces"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

// RegistryConfig carries the liveness timeouts of the ephemeral instance
// state machine and the sweep interval of the health tracker.
type RegistryConfig struct {
	// HealthyTimeout is how long an ephemeral instance may go without a
	// heartbeat before it is marked unhealthy.
	HealthyTimeout time.Duration
	// DeleteTimeout is how long an ephemeral instance may go without a
	// heartbeat before it is removed.
	DeleteTimeout time.Duration
	// SweepInterval is how often the health tracker scans for lapsed beats.
	SweepInterval time.Duration
}

const (
	DefaultHealthyTimeout = 15 * time.Second
	DefaultDeleteTimeout  = 30 * time.Second
	DefaultSweepInterval  = 5 * time.Second
)

func (c RegistryConfig) withDefaults() RegistryConfig {
	if c.HealthyTimeout <= 0 {
		c.HealthyTimeout = DefaultHealthyTimeout
	}
	if c.DeleteTimeout <= 0 {
		c.DeleteTimeout = DefaultDeleteTimeout
	}
	if c.SweepInterval <= 0 {
		c.SweepInterval = DefaultSweepInterval
	}
	return c
}

// Registry implements interfaces.Registry: the single mutation path into the
// instance store, feeding every committed change to the subscription engine.
// It owns no background goroutines itself; the health tracker drives eviction
// through it (see health_tracker.go).
type Registry struct {
	cfg    RegistryConfig
	store  *store
	subs   *SubscriptionEngine
	logger log.Logger
}

var _ interfaces.Registry = (*Registry)(nil)

// NewRegistry creates a registry with its own store and subscription engine.
func NewRegistry(cfg RegistryConfig, logger log.Logger) *Registry {
	st := newStore()
	source := func(key domain.ServiceKey) ([]domain.Instance, uint64) {
		instances, version, _ := st.snapshot(key)
		return copyInstances(instances), version
	}
	return &Registry{
		cfg:    cfg.withDefaults(),
		store:  st,
		subs:   NewSubscriptionEngine(source, logger),
		logger: log.WithPrefix(logger, "component", "Registry"),
	}
}

// Subscriptions returns the engine backing Subscribe/Unsubscribe and the
// console subscriber listing.
func (r *Registry) Subscriptions() *SubscriptionEngine {
	return r.subs
}

// AddChangeSink registers a sink for the unfiltered committed change stream.
func (r *Registry) AddChangeSink(sink interfaces.ChangeSink) {
	r.subs.AddSink(sink)
}

// Close stops subscription delivery. The store itself has nothing to stop.
func (r *Registry) Close() {
	r.subs.Close()
}

// normalizeInstance validates identity fields and fills the cluster default.
func normalizeInstance(inst domain.Instance) (domain.Instance, error) {
	if inst.IP == "" {
		return domain.Instance{}, NewBadParameterError("ip is required", nil)
	}
	if inst.Port <= 0 || inst.Port > 65535 {
		return domain.Instance{}, NewBadParameterError("port must be in (0, 65535]", nil)
	}
	if inst.Weight < 0 {
		return domain.Instance{}, NewBadParameterError("weight must not be negative", nil)
	}
	if inst.ClusterName == "" {
		inst.ClusterName = domain.DefaultCluster
	}
	return inst, nil
}

// Register implements interfaces.Registry.
func (r *Registry) Register(ctx context.Context, key domain.ServiceKey, inst domain.Instance) error {
	inst, err := normalizeInstance(inst)
	if err != nil {
		return err
	}
	if inst.Ephemeral {
		inst.LastBeat = time.Now()
	}
	return r.store.apply(key, true, func(current []domain.Instance) ([]domain.Instance, bool, error) {
		if err := checkEphemeralFlip(current, inst); err != nil {
			return nil, false, err
		}
		return upsertInstance(current, inst), true, nil
	}, r.subs.Publish)
}

// checkEphemeralFlip rejects a re-registration that changes the ephemeral
// flag of an existing identity: the instance must be deregistered first.
func checkEphemeralFlip(current []domain.Instance, inst domain.Instance) error {
	for _, existing := range current {
		if existing.Key() == inst.Key() && existing.Ephemeral != inst.Ephemeral {
			return NewConflictError("cannot change the ephemeral flag of a registered instance "+inst.Key(), nil)
		}
	}
	return nil
}

// Deregister implements interfaces.Registry. Unknown identities and unknown
// services are a no-op.
func (r *Registry) Deregister(ctx context.Context, key domain.ServiceKey, inst domain.Instance) error {
	inst, err := normalizeInstance(inst)
	if err != nil {
		return err
	}
	ids := map[string]struct{}{inst.Key(): {}}
	return r.store.apply(key, false, func(current []domain.Instance) ([]domain.Instance, bool, error) {
		next := removeInstances(current, ids)
		return next, len(next) != len(current), nil
	}, r.subs.Publish)
}

// RegisterBatch implements interfaces.Registry. The batch is fully validated
// up front and committed as a single snapshot swap, so readers observe either
// none or all of it.
func (r *Registry) RegisterBatch(ctx context.Context, key domain.ServiceKey, instances []domain.Instance) error {
	if len(instances) == 0 {
		return NewBadParameterError("instances must not be empty", nil)
	}
	now := time.Now()
	normalized := make([]domain.Instance, 0, len(instances))
	for _, inst := range instances {
		n, err := normalizeInstance(inst)
		if err != nil {
			return err
		}
		if n.Ephemeral {
			n.LastBeat = now
		}
		normalized = append(normalized, n)
	}
	return r.store.apply(key, true, func(current []domain.Instance) ([]domain.Instance, bool, error) {
		for _, inst := range normalized {
			if err := checkEphemeralFlip(current, inst); err != nil {
				return nil, false, err
			}
		}
		next := current
		for _, inst := range normalized {
			next = upsertInstance(next, inst)
		}
		return next, true, nil
	}, r.subs.Publish)
}

// DeregisterBatch implements interfaces.Registry. Only identity is matched
// against the registered set; submitted attribute values are ignored.
func (r *Registry) DeregisterBatch(ctx context.Context, key domain.ServiceKey, instances []domain.Instance) error {
	if len(instances) == 0 {
		return NewBadParameterError("instances must not be empty", nil)
	}
	ids := make(map[string]struct{}, len(instances))
	for _, inst := range instances {
		n, err := normalizeInstance(inst)
		if err != nil {
			return err
		}
		ids[n.Key()] = struct{}{}
	}
	return r.store.apply(key, false, func(current []domain.Instance) ([]domain.Instance, bool, error) {
		next := removeInstances(current, ids)
		return next, len(next) != len(current), nil
	}, r.subs.Publish)
}

// Heartbeat implements interfaces.Registry. A beat for an unknown identity
// re-registers a default ephemeral instance, so a client that outlived a
// registry restart heals itself on its next beat.
func (r *Registry) Heartbeat(ctx context.Context, key domain.ServiceKey, ip string, port int, cluster string) error {
	beat, err := normalizeInstance(domain.Instance{
		IP:          ip,
		Port:        port,
		ClusterName: cluster,
		Weight:      domain.DefaultWeight,
		Healthy:     true,
		Enabled:     true,
		Ephemeral:   true,
	})
	if err != nil {
		return err
	}
	now := time.Now()
	beat.LastBeat = now
	return r.store.apply(key, true, func(current []domain.Instance) ([]domain.Instance, bool, error) {
		for idx, existing := range current {
			if existing.Key() != beat.Key() {
				continue
			}
			if !existing.Ephemeral {
				return nil, false, NewBadParameterError("instance "+beat.Key()+" is persistent and does not accept heartbeats", nil)
			}
			recovered := !existing.Healthy
			existing.LastBeat = now
			existing.Healthy = true
			next := copyInstances(current)
			next[idx] = existing
			return next, recovered, nil
		}
		return upsertInstance(current, beat), true, nil
	}, r.subs.Publish)
}

// GetAllInstances implements interfaces.Registry: healthy and unhealthy
// alike; unknown services yield an empty slice.
func (r *Registry) GetAllInstances(ctx context.Context, key domain.ServiceKey) ([]domain.Instance, error) {
	instances, _, ok := r.store.snapshot(key)
	if !ok {
		return []domain.Instance{}, nil
	}
	return sortedCopy(instances), nil
}

// SelectInstances implements interfaces.Registry.
func (r *Registry) SelectInstances(ctx context.Context, key domain.ServiceKey, clusters []string, healthyOnly bool) ([]domain.Instance, error) {
	instances, _, ok := r.store.snapshot(key)
	if !ok {
		return []domain.Instance{}, nil
	}
	_, clusterSet := normalizeClusters(clusters)
	out := make([]domain.Instance, 0, len(instances))
	for _, inst := range filterClusters(instances, clusterSet) {
		if healthyOnly && !inst.Healthy {
			continue
		}
		out = append(out, inst)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key() < out[j].Key() })
	return out, nil
}

// ListServices implements interfaces.Registry. Every row is built from one
// service's immutable snapshot, so a page never shows a half-applied batch.
func (r *Registry) ListServices(ctx context.Context, pageNo, pageSize int, namespace, group string) (int, []domain.ServiceInfo, error) {
	if namespace == "" {
		namespace = domain.DefaultNamespace
	}
	if group == "" {
		group = domain.DefaultGroup
	}
	infos := make([]domain.ServiceInfo, 0)
	for _, key := range r.store.keys() {
		if key.Namespace != namespace || key.Group != group {
			continue
		}
		if info, ok := r.serviceInfo(key); ok {
			infos = append(infos, info)
		}
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Key.Name < infos[j].Key.Name })
	return len(infos), pageSlice(infos, pageNo, pageSize), nil
}

// GetService implements interfaces.Registry.
func (r *Registry) GetService(ctx context.Context, key domain.ServiceKey) (domain.ServiceInfo, error) {
	info, ok := r.serviceInfo(key)
	if !ok {
		return domain.ServiceInfo{}, NewEntityNotFoundError("service "+key.String()+" not found", nil)
	}
	return info, nil
}

func (r *Registry) serviceInfo(key domain.ServiceKey) (domain.ServiceInfo, bool) {
	instances, _, ok := r.store.snapshot(key)
	if !ok {
		return domain.ServiceInfo{}, false
	}
	clusters := make(map[string]struct{})
	healthy := 0
	for _, inst := range instances {
		clusters[inst.ClusterName] = struct{}{}
		if inst.Healthy {
			healthy++
		}
	}
	names := make([]string, 0, len(clusters))
	for c := range clusters {
		names = append(names, c)
	}
	sort.Strings(names)
	return domain.ServiceInfo{
		Key:           key,
		ClusterCount:  len(names),
		InstanceCount: len(instances),
		HealthyCount:  healthy,
		Clusters:      names,
	}, true
}

// RemoveService implements interfaces.Registry. Empty services are retained
// until removed here; subscribers observe the removal as an empty set.
func (r *Registry) RemoveService(ctx context.Context, key domain.ServiceKey) error {
	if !r.store.drop(key, r.subs.Publish) {
		return NewEntityNotFoundError("service "+key.String()+" not found", nil)
	}
	level.Info(r.logger).Log("msg", "service removed", "service", key.String())
	return nil
}

// Stats implements interfaces.Registry.
func (r *Registry) Stats(ctx context.Context) (domain.RegistryStats, error) {
	stats := domain.RegistryStats{}
	for _, key := range r.store.keys() {
		instances, _, ok := r.store.snapshot(key)
		if !ok {
			continue
		}
		stats.ServiceCount++
		stats.InstanceCount += len(instances)
		for _, inst := range instances {
			if inst.Healthy {
				stats.HealthyCount++
			}
		}
	}
	return stats, nil
}

func sortedCopy(instances []domain.Instance) []domain.Instance {
	out := copyInstances(instances)
	if out == nil {
		out = []domain.Instance{}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key() < out[j].Key() })
	return out
}
