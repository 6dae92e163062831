package handlers

import (
	"myregistry/domain"
)

// toInstancesResponse converts domain instances to API response.
func toInstancesResponse(key domain.ServiceKey, instances []domain.Instance) InstancesResponse {
	out := make([]InstanceInfo, 0, len(instances))
	for _, i := range instances {
		out = append(out, InstanceInfo{
			IP:          i.IP,
			Port:        i.Port,
			ClusterName: i.ClusterName,
			Weight:      i.Weight,
			Healthy:     i.Healthy,
			Enabled:     i.Enabled,
			Ephemeral:   i.Ephemeral,
			Metadata:    i.Metadata,
		})
	}
	return InstancesResponse{
		Namespace:   key.Namespace,
		Group:       key.Group,
		ServiceName: key.Name,
		Instances:   out,
	}
}

func toServiceItem(info domain.ServiceInfo) ServiceItem {
	return ServiceItem{
		Namespace:     info.Key.Namespace,
		Group:         info.Key.Group,
		ServiceName:   info.Key.Name,
		ClusterCount:  info.ClusterCount,
		InstanceCount: info.InstanceCount,
		HealthyCount:  info.HealthyCount,
		Clusters:      info.Clusters,
	}
}

// toServicesResponse converts a service listing page to API response.
func toServicesResponse(total int, infos []domain.ServiceInfo) ServicesResponse {
	out := make([]ServiceItem, 0, len(infos))
	for _, info := range infos {
		out = append(out, toServiceItem(info))
	}
	return ServicesResponse{Total: total, Services: out}
}

// toSubscribersResponse converts a subscriber listing page to API response.
func toSubscribersResponse(total int, rows []domain.SubscriberInfo) SubscribersResponse {
	out := make([]SubscriberItem, 0, len(rows))
	for _, row := range rows {
		out = append(out, SubscriberItem{
			Handle:      row.Handle,
			Subscriber:  row.SubscriberID,
			Namespace:   row.Key.Namespace,
			Group:       row.Key.Group,
			ServiceName: row.Key.Name,
			Clusters:    row.Clusters,
		})
	}
	return SubscribersResponse{Total: total, Subscribers: out}
}

// toMetricsResponse converts registry counters to API response.
func toMetricsResponse(stats domain.RegistryStats) MetricsResponse {
	return MetricsResponse{
		ServiceCount:  stats.ServiceCount,
		InstanceCount: stats.InstanceCount,
		HealthyCount:  stats.HealthyCount,
	}
}
