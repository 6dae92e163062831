package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"myregistry/domain"
	"myregistry/interfaces/mock"
	"myregistry/service"

	"github.com/go-kit/log"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func registerHandlers(e *echo.Echo, server ServerInterface) {
	RegisterHandlers(e, server)
	service.RegisterErrorHandler(e, log.NewNopLogger())
}

func newTestServer(registry *mock.RegistryMock, subs *mock.SubscriptionsMock) *echo.Echo {
	e := echo.New()
	registerHandlers(e, NewHTTPServer(registry, subs, log.NewNopLogger()))
	return e
}

func assertErrorBody(t *testing.T, rec *httptest.ResponseRecorder) {
	t.Helper()
	var errBody struct {
		Error *struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&errBody))
	require.NotNil(t, errBody.Error)
	assert.NotEmpty(t, errBody.Error.Code)
	assert.NotEmpty(t, errBody.Error.Message)
}

func TestHTTPServer_RegisterInstance(t *testing.T) {
	validBody := `{"namespace":"prod","group":"payments","service_name":"orders","ip":"10.0.0.1","port":8080,"cluster_name":"edge","weight":2.0}`

	tests := []struct {
		name           string
		body           string
		registry       *mock.RegistryMock
		expectedStatus int
		emptyBody      bool
	}{
		{
			name: "ok",
			body: validBody,
			registry: &mock.RegistryMock{
				RegisterFunc: func(ctx context.Context, key domain.ServiceKey, inst domain.Instance) error {
					assert.Equal(t, domain.NewServiceKey("prod", "payments", "orders"), key)
					assert.Equal(t, "10.0.0.1", inst.IP)
					assert.Equal(t, 8080, inst.Port)
					assert.Equal(t, "edge", inst.ClusterName)
					assert.Equal(t, 2.0, inst.Weight)
					assert.True(t, inst.Ephemeral)
					return nil
				},
			},
			expectedStatus: http.StatusOK,
			emptyBody:      true,
		},
		{
			name:           "400 invalid JSON",
			body:           `{invalid`,
			registry:       &mock.RegistryMock{},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "400 missing service_name",
			body:           `{"ip":"10.0.0.1","port":8080}`,
			registry:       &mock.RegistryMock{},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "400 missing ip",
			body:           `{"service_name":"orders","port":8080}`,
			registry:       &mock.RegistryMock{},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "409 ephemeral flag conflict",
			body: validBody,
			registry: &mock.RegistryMock{
				RegisterFunc: func(ctx context.Context, key domain.ServiceKey, inst domain.Instance) error {
					return service.NewConflictError("instance is registered as persistent", nil)
				},
			},
			expectedStatus: http.StatusConflict,
		},
		{
			name: "500 Register error",
			body: validBody,
			registry: &mock.RegistryMock{
				RegisterFunc: func(ctx context.Context, key domain.ServiceKey, inst domain.Instance) error {
					return assert.AnError
				},
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestServer(tt.registry, &mock.SubscriptionsMock{})
			req := httptest.NewRequest(http.MethodPost, "/v1/ns/instance", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			if tt.emptyBody {
				assert.Empty(t, rec.Body.Bytes())
			} else {
				assertErrorBody(t, rec)
			}
		})
	}
}

func TestHTTPServer_DeregisterInstance(t *testing.T) {
	registry := &mock.RegistryMock{
		DeregisterFunc: func(ctx context.Context, key domain.ServiceKey, inst domain.Instance) error {
			assert.Equal(t, "orders", key.Name)
			assert.Equal(t, "10.0.0.1", inst.IP)
			return nil
		},
	}
	e := newTestServer(registry, &mock.SubscriptionsMock{})

	body := `{"service_name":"orders","ip":"10.0.0.1","port":8080}`
	req := httptest.NewRequest(http.MethodDelete, "/v1/ns/instance", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, registry.DeregisterCalls(), 1)
}

func TestHTTPServer_RegisterInstanceBatch(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		registry       *mock.RegistryMock
		expectedStatus int
	}{
		{
			name: "ok",
			body: `{"service_name":"orders","instances":[{"ip":"10.0.0.1","port":8080},{"ip":"10.0.0.2","port":8080}]}`,
			registry: &mock.RegistryMock{
				RegisterBatchFunc: func(ctx context.Context, key domain.ServiceKey, instances []domain.Instance) error {
					assert.Len(t, instances, 2)
					return nil
				},
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "400 empty instances",
			body:           `{"service_name":"orders","instances":[]}`,
			registry:       &mock.RegistryMock{},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "400 bad element",
			body:           `{"service_name":"orders","instances":[{"ip":"10.0.0.1","port":8080},{"port":8080}]}`,
			registry:       &mock.RegistryMock{},
			expectedStatus: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestServer(tt.registry, &mock.SubscriptionsMock{})
			req := httptest.NewRequest(http.MethodPost, "/v1/ns/instance/batch", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			if tt.expectedStatus != http.StatusOK {
				assert.Empty(t, tt.registry.RegisterBatchCalls())
			}
		})
	}
}

func TestHTTPServer_DeregisterInstanceBatch(t *testing.T) {
	registry := &mock.RegistryMock{
		DeregisterBatchFunc: func(ctx context.Context, key domain.ServiceKey, instances []domain.Instance) error {
			assert.Len(t, instances, 2)
			return nil
		},
	}
	e := newTestServer(registry, &mock.SubscriptionsMock{})

	body := `{"service_name":"orders","instances":[{"ip":"10.0.0.1","port":8080},{"ip":"10.0.0.2","port":8080}]}`
	req := httptest.NewRequest(http.MethodDelete, "/v1/ns/instance/batch", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, registry.DeregisterBatchCalls(), 1)
}

func TestHTTPServer_Heartbeat(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		registry       *mock.RegistryMock
		expectedStatus int
	}{
		{
			name: "ok",
			body: `{"service_name":"orders","ip":"10.0.0.1","port":8080,"cluster_name":"edge"}`,
			registry: &mock.RegistryMock{
				HeartbeatFunc: func(ctx context.Context, key domain.ServiceKey, ip string, port int, cluster string) error {
					assert.Equal(t, "orders", key.Name)
					assert.Equal(t, "10.0.0.1", ip)
					assert.Equal(t, 8080, port)
					assert.Equal(t, "edge", cluster)
					return nil
				},
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "400 missing ip",
			body:           `{"service_name":"orders","port":8080}`,
			registry:       &mock.RegistryMock{},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "400 beat on persistent instance",
			body: `{"service_name":"orders","ip":"10.0.0.1","port":8080}`,
			registry: &mock.RegistryMock{
				HeartbeatFunc: func(ctx context.Context, key domain.ServiceKey, ip string, port int, cluster string) error {
					return service.NewBadParameterError("instance is persistent", nil)
				},
			},
			expectedStatus: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestServer(tt.registry, &mock.SubscriptionsMock{})
			req := httptest.NewRequest(http.MethodPut, "/v1/ns/instance/beat", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
		})
	}
}

func TestHTTPServer_ListInstances(t *testing.T) {
	tests := []struct {
		name           string
		target         string
		registry       *mock.RegistryMock
		expectedStatus int
		wantInstances  int
	}{
		{
			name:   "ok with clusters and healthy_only",
			target: "/v1/ns/instance/list?service_name=orders&clusters=edge,core&healthy_only=true",
			registry: &mock.RegistryMock{
				SelectInstancesFunc: func(ctx context.Context, key domain.ServiceKey, clusters []string, healthyOnly bool) ([]domain.Instance, error) {
					assert.Equal(t, "orders", key.Name)
					assert.Equal(t, []string{"edge", "core"}, clusters)
					assert.True(t, healthyOnly)
					return []domain.Instance{{IP: "10.0.0.1", Port: 8080, ClusterName: "edge", Healthy: true}}, nil
				},
			},
			expectedStatus: http.StatusOK,
			wantInstances:  1,
		},
		{
			name:   "ok unknown service yields empty list",
			target: "/v1/ns/instance/list?service_name=ghost",
			registry: &mock.RegistryMock{
				SelectInstancesFunc: func(ctx context.Context, key domain.ServiceKey, clusters []string, healthyOnly bool) ([]domain.Instance, error) {
					return []domain.Instance{}, nil
				},
			},
			expectedStatus: http.StatusOK,
			wantInstances:  0,
		},
		{
			name:           "400 missing service_name",
			target:         "/v1/ns/instance/list",
			registry:       &mock.RegistryMock{},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "400 invalid healthy_only",
			target:         "/v1/ns/instance/list?service_name=orders&healthy_only=banana",
			registry:       &mock.RegistryMock{},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:   "500 SelectInstances error",
			target: "/v1/ns/instance/list?service_name=orders",
			registry: &mock.RegistryMock{
				SelectInstancesFunc: func(ctx context.Context, key domain.ServiceKey, clusters []string, healthyOnly bool) ([]domain.Instance, error) {
					return nil, assert.AnError
				},
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestServer(tt.registry, &mock.SubscriptionsMock{})
			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			if tt.expectedStatus == http.StatusOK {
				var resp InstancesResponse
				require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
				assert.Len(t, resp.Instances, tt.wantInstances)
			}
		})
	}
}

func TestHTTPServer_ListServices(t *testing.T) {
	tests := []struct {
		name           string
		target         string
		registry       *mock.RegistryMock
		expectedStatus int
		wantTotal      int
	}{
		{
			name:   "ok with explicit paging",
			target: "/v1/ns/service/list?page_no=2&page_size=5",
			registry: &mock.RegistryMock{
				ListServicesFunc: func(ctx context.Context, pageNo, pageSize int, namespace, group string) (int, []domain.ServiceInfo, error) {
					assert.Equal(t, 2, pageNo)
					assert.Equal(t, 5, pageSize)
					return 7, []domain.ServiceInfo{{Key: domain.NewServiceKey("", "", "orders")}}, nil
				},
			},
			expectedStatus: http.StatusOK,
			wantTotal:      7,
		},
		{
			name:   "ok defaults",
			target: "/v1/ns/service/list",
			registry: &mock.RegistryMock{
				ListServicesFunc: func(ctx context.Context, pageNo, pageSize int, namespace, group string) (int, []domain.ServiceInfo, error) {
					assert.Equal(t, 1, pageNo)
					assert.Equal(t, 20, pageSize)
					return 0, nil, nil
				},
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "400 page_no zero",
			target:         "/v1/ns/service/list?page_no=0",
			registry:       &mock.RegistryMock{},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "400 page_size not a number",
			target:         "/v1/ns/service/list?page_size=lots",
			registry:       &mock.RegistryMock{},
			expectedStatus: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestServer(tt.registry, &mock.SubscriptionsMock{})
			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			if tt.expectedStatus == http.StatusOK {
				var resp ServicesResponse
				require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
				assert.Equal(t, tt.wantTotal, resp.Total)
			}
		})
	}
}

func TestHTTPServer_GetService(t *testing.T) {
	tests := []struct {
		name           string
		target         string
		registry       *mock.RegistryMock
		expectedStatus int
	}{
		{
			name:   "ok",
			target: "/v1/ns/service?service_name=orders",
			registry: &mock.RegistryMock{
				GetServiceFunc: func(ctx context.Context, key domain.ServiceKey) (domain.ServiceInfo, error) {
					return domain.ServiceInfo{Key: key, InstanceCount: 2, HealthyCount: 1}, nil
				},
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:   "404 unknown service",
			target: "/v1/ns/service?service_name=ghost",
			registry: &mock.RegistryMock{
				GetServiceFunc: func(ctx context.Context, key domain.ServiceKey) (domain.ServiceInfo, error) {
					return domain.ServiceInfo{}, service.NewEntityNotFoundError("service not found", nil)
				},
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "400 missing service_name",
			target:         "/v1/ns/service",
			registry:       &mock.RegistryMock{},
			expectedStatus: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestServer(tt.registry, &mock.SubscriptionsMock{})
			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			if tt.expectedStatus == http.StatusOK {
				var resp ServiceItem
				require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
				assert.Equal(t, "orders", resp.ServiceName)
			}
		})
	}
}

func TestHTTPServer_RemoveService(t *testing.T) {
	tests := []struct {
		name           string
		target         string
		registry       *mock.RegistryMock
		expectedStatus int
	}{
		{
			name:   "ok",
			target: "/v1/ns/service?service_name=orders",
			registry: &mock.RegistryMock{
				RemoveServiceFunc: func(ctx context.Context, key domain.ServiceKey) error {
					assert.Equal(t, "orders", key.Name)
					return nil
				},
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:   "404 unknown service",
			target: "/v1/ns/service?service_name=ghost",
			registry: &mock.RegistryMock{
				RemoveServiceFunc: func(ctx context.Context, key domain.ServiceKey) error {
					return service.NewEntityNotFoundError("service not found", nil)
				},
			},
			expectedStatus: http.StatusNotFound,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestServer(tt.registry, &mock.SubscriptionsMock{})
			req := httptest.NewRequest(http.MethodDelete, tt.target, nil)
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
		})
	}
}

func TestHTTPServer_ListSubscribers(t *testing.T) {
	subs := &mock.SubscriptionsMock{
		SubscribersFunc: func(pageNo, pageSize int) (int, []domain.SubscriberInfo) {
			assert.Equal(t, 1, pageNo)
			assert.Equal(t, 20, pageSize)
			return 1, []domain.SubscriberInfo{{
				Handle:       "sub-1",
				SubscriberID: "conn-1",
				Key:          domain.NewServiceKey("", "", "orders"),
			}}
		},
	}
	e := newTestServer(&mock.RegistryMock{}, subs)

	req := httptest.NewRequest(http.MethodGet, "/v1/ns/subscriber/list", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp SubscribersResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, 1, resp.Total)
	require.Len(t, resp.Subscribers, 1)
	assert.Equal(t, "conn-1", resp.Subscribers[0].Subscriber)
}

func TestHTTPServer_Metrics(t *testing.T) {
	registry := &mock.RegistryMock{
		StatsFunc: func(ctx context.Context) (domain.RegistryStats, error) {
			return domain.RegistryStats{ServiceCount: 2, InstanceCount: 5, HealthyCount: 4}, nil
		},
	}
	e := newTestServer(registry, &mock.SubscriptionsMock{})

	req := httptest.NewRequest(http.MethodGet, "/v1/ns/operator/metrics", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp MetricsResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, MetricsResponse{ServiceCount: 2, InstanceCount: 5, HealthyCount: 4}, resp)
}
