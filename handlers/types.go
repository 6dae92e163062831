package handlers

// Request and response bodies of the console API. Optional attribute fields
// are pointers so that an absent field can be told apart from a zero value
// and filled with its documented default.

// InstanceItem is one instance in a register/deregister payload.
type InstanceItem struct {
	IP          string            `json:"ip"`
	Port        int               `json:"port"`
	ClusterName string            `json:"cluster_name,omitempty"`
	Weight      *float64          `json:"weight,omitempty"`
	Healthy     *bool             `json:"healthy,omitempty"`
	Enabled     *bool             `json:"enabled,omitempty"`
	Ephemeral   *bool             `json:"ephemeral,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// RegisterInstanceRequest is the body of POST /v1/ns/instance and
// DELETE /v1/ns/instance.
type RegisterInstanceRequest struct {
	Namespace   string            `json:"namespace,omitempty"`
	Group       string            `json:"group,omitempty"`
	ServiceName string            `json:"service_name"`
	IP          string            `json:"ip"`
	Port        int               `json:"port"`
	ClusterName string            `json:"cluster_name,omitempty"`
	Weight      *float64          `json:"weight,omitempty"`
	Healthy     *bool             `json:"healthy,omitempty"`
	Enabled     *bool             `json:"enabled,omitempty"`
	Ephemeral   *bool             `json:"ephemeral,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// BatchInstanceRequest is the body of POST /v1/ns/instance/batch and
// DELETE /v1/ns/instance/batch.
type BatchInstanceRequest struct {
	Namespace   string         `json:"namespace,omitempty"`
	Group       string         `json:"group,omitempty"`
	ServiceName string         `json:"service_name"`
	Instances   []InstanceItem `json:"instances"`
}

// BeatRequest is the body of PUT /v1/ns/instance/beat.
type BeatRequest struct {
	Namespace   string `json:"namespace,omitempty"`
	Group       string `json:"group,omitempty"`
	ServiceName string `json:"service_name"`
	IP          string `json:"ip"`
	Port        int    `json:"port"`
	ClusterName string `json:"cluster_name,omitempty"`
}

// InstanceInfo is one instance in a query response.
type InstanceInfo struct {
	IP          string            `json:"ip"`
	Port        int               `json:"port"`
	ClusterName string            `json:"cluster_name"`
	Weight      float64           `json:"weight"`
	Healthy     bool              `json:"healthy"`
	Enabled     bool              `json:"enabled"`
	Ephemeral   bool              `json:"ephemeral"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// InstancesResponse is the body of GET /v1/ns/instance/list.
type InstancesResponse struct {
	Namespace   string         `json:"namespace"`
	Group       string         `json:"group"`
	ServiceName string         `json:"service_name"`
	Instances   []InstanceInfo `json:"instances"`
}

// ServiceItem is one service in a listing response.
type ServiceItem struct {
	Namespace     string   `json:"namespace"`
	Group         string   `json:"group"`
	ServiceName   string   `json:"service_name"`
	ClusterCount  int      `json:"cluster_count"`
	InstanceCount int      `json:"instance_count"`
	HealthyCount  int      `json:"healthy_count"`
	Clusters      []string `json:"clusters"`
}

// ServicesResponse is the body of GET /v1/ns/service/list.
type ServicesResponse struct {
	Total    int           `json:"total"`
	Services []ServiceItem `json:"services"`
}

// SubscriberItem is one subscription in a listing response.
type SubscriberItem struct {
	Handle      string   `json:"handle"`
	Subscriber  string   `json:"subscriber"`
	Namespace   string   `json:"namespace"`
	Group       string   `json:"group"`
	ServiceName string   `json:"service_name"`
	Clusters    []string `json:"clusters,omitempty"`
}

// SubscribersResponse is the body of GET /v1/ns/subscriber/list.
type SubscribersResponse struct {
	Total       int              `json:"total"`
	Subscribers []SubscriberItem `json:"subscribers"`
}

// MetricsResponse is the body of GET /v1/ns/operator/metrics.
type MetricsResponse struct {
	ServiceCount  int `json:"service_count"`
	InstanceCount int `json:"instance_count"`
	HealthyCount  int `json:"healthy_count"`
}
