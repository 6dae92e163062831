package interfaces

import (
	"context"

	"myregistry/domain"
)

// Registry is the authoritative service registry: it owns the instance
// store and is the single mutation path for registrations, heartbeats and
// health transitions.
//
//go:generate moq -stub -out mock/registry.go -pkg mock . Registry
type Registry interface {
	// Register upserts one instance. Re-registering an existing identity
	// (ip, port, cluster) replaces its attributes wholesale; it never
	// creates a duplicate.
	// Returns:
	// 1) nil on success;
	// 2) bad_parameter when ip/port are missing or invalid;
	// 3) conflict when the call tries to flip the ephemeral flag of an
	//    existing identity.
	Register(ctx context.Context, key domain.ServiceKey, inst domain.Instance) error

	// Deregister removes one instance by identity. Removing an unknown
	// identity is not an error.
	Deregister(ctx context.Context, key domain.ServiceKey, inst domain.Instance) error

	// RegisterBatch upserts several instances atomically with respect to
	// readers: no partial view of the batch is observable. The whole batch
	// is validated before any mutation.
	RegisterBatch(ctx context.Context, key domain.ServiceKey, instances []domain.Instance) error

	// DeregisterBatch removes instances whose identity exactly matches a
	// previously registered one; attribute mismatches are ignored, unknown
	// identities are skipped.
	DeregisterBatch(ctx context.Context, key domain.ServiceKey, instances []domain.Instance) error

	// Heartbeat refreshes the liveness timestamp of an ephemeral instance.
	// A beat for an unknown identity re-registers a default ephemeral
	// instance at that address. Beating a persistent instance is bad_parameter.
	Heartbeat(ctx context.Context, key domain.ServiceKey, ip string, port int, cluster string) error

	// GetAllInstances returns every instance of the service, healthy and
	// unhealthy. An unknown service yields an empty slice, not an error.
	GetAllInstances(ctx context.Context, key domain.ServiceKey) ([]domain.Instance, error)

	// SelectInstances returns instances restricted to the union of the named
	// clusters (all clusters when empty) and, when healthyOnly is set,
	// filtered by the Healthy flag only — Enabled is not consulted.
	// Unknown clusters contribute nothing; the result may be empty.
	SelectInstances(ctx context.Context, key domain.ServiceKey, clusters []string, healthyOnly bool) ([]domain.Instance, error)

	// ListServices returns the total service count for the namespace/group
	// and one stable page of summaries. A page beyond the total yields an
	// empty slice.
	ListServices(ctx context.Context, pageNo, pageSize int, namespace, group string) (int, []domain.ServiceInfo, error)

	// GetService returns the summary of one service.
	// Returns entity_not_found when the service does not exist.
	GetService(ctx context.Context, key domain.ServiceKey) (domain.ServiceInfo, error)

	// RemoveService drops a service entry and all its instances.
	RemoveService(ctx context.Context, key domain.ServiceKey) error

	// Stats returns operator-facing counters.
	Stats(ctx context.Context) (domain.RegistryStats, error)
}
