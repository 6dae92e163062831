package domain

import (
	"fmt"
	"hash/fnv"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Defaults applied when a client omits the corresponding field.
const (
	DefaultNamespace = "public"
	DefaultGroup     = "DEFAULT_GROUP"
	DefaultCluster   = "DEFAULT"
	DefaultWeight    = 1.0
)

// ServiceKey identifies a service: one service holds many instances
// partitioned into clusters.
type ServiceKey struct {
	Namespace string
	Group     string
	Name      string
}

// NewServiceKey builds a ServiceKey, filling empty namespace/group with defaults.
func NewServiceKey(namespace, group, name string) ServiceKey {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	if group == "" {
		group = DefaultGroup
	}
	return ServiceKey{Namespace: namespace, Group: group, Name: name}
}

// String renders the key in "namespace/group/name" form, used as map and cache key.
func (k ServiceKey) String() string {
	return k.Namespace + "/" + k.Group + "/" + k.Name
}

// Instance represents a registered service instance.
// Identity within a service is (IP, Port, ClusterName); everything else is
// a mutable attribute replaced wholesale on re-registration.
type Instance struct {
	IP          string            `json:"ip"`
	Port        int               `json:"port"`
	ClusterName string            `json:"cluster_name"`
	Weight      float64           `json:"weight"`
	Healthy     bool              `json:"healthy"`
	Enabled     bool              `json:"enabled"`
	Ephemeral   bool              `json:"ephemeral"`
	Metadata    map[string]string `json:"metadata,omitempty"`
	LastBeat    time.Time         `json:"last_beat,omitempty"`
}

// Key returns the instance identity "ip:port@cluster", unique within a service.
func (i Instance) Key() string {
	return i.IP + ":" + strconv.Itoa(i.Port) + "@" + i.ClusterName
}

// Addr returns the "ip:port" endpoint of the instance.
func (i Instance) Addr() string {
	return i.IP + ":" + strconv.Itoa(i.Port)
}

// ChangeEvent is the payload pushed to subscribers: the full current
// instance set of a service, never a delta.
type ChangeEvent struct {
	Key       ServiceKey
	Instances []Instance
	Version   uint64
}

// ServiceInfo is a console listing row summarizing one service.
type ServiceInfo struct {
	Key           ServiceKey
	ClusterCount  int
	InstanceCount int
	HealthyCount  int
	Clusters      []string
}

// ServiceSnapshot is the durable last-known-good instance set of a service,
// persisted by the snapshot layer and used for fallback and restore.
type ServiceSnapshot struct {
	Key       ServiceKey `json:"key"`
	Instances []Instance `json:"instances"`
	Version   uint64     `json:"version"`
	Taken     time.Time  `json:"taken"`
}

// SubscriberInfo is a console listing row for one active subscription.
type SubscriberInfo struct {
	Handle       string
	SubscriberID string
	Key          ServiceKey
	Clusters     []string
}

// RegistryStats is the operator-facing counters snapshot.
type RegistryStats struct {
	ServiceCount  int `json:"service_count"`
	InstanceCount int `json:"instance_count"`
	HealthyCount  int `json:"healthy_count"`
}

// Checksum computes an order-independent fingerprint of an instance set,
// covering identity and the attributes a subscriber can observe. Two sets
// with equal checksums are treated as the same pushed state.
func Checksum(instances []Instance) uint64 {
	lines := make([]string, 0, len(instances))
	for _, inst := range instances {
		keys := make([]string, 0, len(inst.Metadata))
		for k := range inst.Metadata {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		var meta strings.Builder
		for _, k := range keys {
			meta.WriteString(k)
			meta.WriteByte('=')
			meta.WriteString(inst.Metadata[k])
			meta.WriteByte(';')
		}
		lines = append(lines, fmt.Sprintf("%s|%g|%t|%t|%t|%s",
			inst.Key(), inst.Weight, inst.Healthy, inst.Enabled, inst.Ephemeral, meta.String()))
	}
	sort.Strings(lines)

	h := fnv.New64a()
	for _, l := range lines {
		h.Write([]byte(l))
		h.Write([]byte{'\n'})
	}
	return h.Sum64()
}
