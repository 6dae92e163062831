package handlers

import (
	"strings"

	"myregistry/domain"
	"myregistry/service"
)

// fromInstanceItem converts an InstanceItem to domain.Instance, filling
// documented defaults for absent optional fields.
// Returns service.BadParameterError on validation failure.
func fromInstanceItem(item InstanceItem) (domain.Instance, error) {
	if item.IP == "" {
		return domain.Instance{}, service.NewBadParameterError("ip is required", nil)
	}
	if item.Port == 0 {
		return domain.Instance{}, service.NewBadParameterError("port is required", nil)
	}

	weight := domain.DefaultWeight
	if item.Weight != nil {
		weight = *item.Weight
	}
	return domain.Instance{
		IP:          item.IP,
		Port:        item.Port,
		ClusterName: item.ClusterName,
		Weight:      weight,
		Healthy:     item.Healthy == nil || *item.Healthy,
		Enabled:     item.Enabled == nil || *item.Enabled,
		Ephemeral:   item.Ephemeral == nil || *item.Ephemeral,
		Metadata:    item.Metadata,
	}, nil
}

// fromRegisterInstanceRequest converts the single-instance payload to a
// service key and instance.
func fromRegisterInstanceRequest(req RegisterInstanceRequest) (domain.ServiceKey, domain.Instance, error) {
	if req.ServiceName == "" {
		return domain.ServiceKey{}, domain.Instance{}, service.NewBadParameterError("service_name is required", nil)
	}
	inst, err := fromInstanceItem(InstanceItem{
		IP:          req.IP,
		Port:        req.Port,
		ClusterName: req.ClusterName,
		Weight:      req.Weight,
		Healthy:     req.Healthy,
		Enabled:     req.Enabled,
		Ephemeral:   req.Ephemeral,
		Metadata:    req.Metadata,
	})
	if err != nil {
		return domain.ServiceKey{}, domain.Instance{}, err
	}
	return domain.NewServiceKey(req.Namespace, req.Group, req.ServiceName), inst, nil
}

// fromBatchInstanceRequest converts the batch payload. The whole batch is
// validated here so that a bad element rejects the request before any
// registry mutation.
func fromBatchInstanceRequest(req BatchInstanceRequest) (domain.ServiceKey, []domain.Instance, error) {
	if req.ServiceName == "" {
		return domain.ServiceKey{}, nil, service.NewBadParameterError("service_name is required", nil)
	}
	if len(req.Instances) == 0 {
		return domain.ServiceKey{}, nil, service.NewBadParameterError("instances is required", nil)
	}
	instances := make([]domain.Instance, 0, len(req.Instances))
	for _, item := range req.Instances {
		inst, err := fromInstanceItem(item)
		if err != nil {
			return domain.ServiceKey{}, nil, err
		}
		instances = append(instances, inst)
	}
	return domain.NewServiceKey(req.Namespace, req.Group, req.ServiceName), instances, nil
}

// fromBeatRequest converts the heartbeat payload.
func fromBeatRequest(req BeatRequest) (domain.ServiceKey, BeatRequest, error) {
	if req.ServiceName == "" {
		return domain.ServiceKey{}, BeatRequest{}, service.NewBadParameterError("service_name is required", nil)
	}
	if req.IP == "" {
		return domain.ServiceKey{}, BeatRequest{}, service.NewBadParameterError("ip is required", nil)
	}
	if req.Port == 0 {
		return domain.ServiceKey{}, BeatRequest{}, service.NewBadParameterError("port is required", nil)
	}
	return domain.NewServiceKey(req.Namespace, req.Group, req.ServiceName), req, nil
}

// fromClustersParam splits the comma-separated clusters query parameter.
func fromClustersParam(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	clusters := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			clusters = append(clusters, trimmed)
		}
	}
	return clusters
}
