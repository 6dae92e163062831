// Package handlers contains http handlers for the myregistry console.
package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"myregistry/domain"
	"myregistry/interfaces"
	"myregistry/service"

	"github.com/go-kit/log"
	"github.com/labstack/echo/v4"
)

const (
	defaultPageNo   = 1
	defaultPageSize = 20
)

// HTTPServer implements ServerInterface on top of the registry and the
// subscription engine. It is a thin translation layer: every read and write
// goes through the same registry, there is no separate data path.
type HTTPServer struct {
	registry interfaces.Registry
	subs     interfaces.Subscriptions
	logger   log.Logger
}

// NewHTTPServer creates a new HTTPServer.
func NewHTTPServer(registry interfaces.Registry, subs interfaces.Subscriptions, logger log.Logger) *HTTPServer {
	logger = log.WithPrefix(logger, "component", "HTTPServer")
	return &HTTPServer{
		registry: registry,
		subs:     subs,
		logger:   logger,
	}
}

// RegisterInstance (POST /v1/ns/instance) registers or updates one instance.
// Returns 200 on success, 400 on parse/validation error, 409 on an ephemeral
// flag conflict.
func (h *HTTPServer) RegisterInstance(ectx echo.Context) error {
	var req RegisterInstanceRequest
	if err := ectx.Bind(&req); err != nil {
		return service.NewBadParameterError("invalid request body", err)
	}

	key, inst, err := fromRegisterInstanceRequest(req)
	if err != nil {
		return fmt.Errorf("registerInstance failed to convert request to instance, err: %w", err)
	}

	ctx := ectx.Request().Context()
	if err := h.registry.Register(ctx, key, inst); err != nil {
		return fmt.Errorf("registerInstance failed to register instance, err: %w", err)
	}

	return ectx.NoContent(http.StatusOK)
}

// DeregisterInstance (DELETE /v1/ns/instance) removes one instance.
// Removing an unknown instance still returns 200.
func (h *HTTPServer) DeregisterInstance(ectx echo.Context) error {
	var req RegisterInstanceRequest
	if err := ectx.Bind(&req); err != nil {
		return service.NewBadParameterError("invalid request body", err)
	}

	key, inst, err := fromRegisterInstanceRequest(req)
	if err != nil {
		return fmt.Errorf("deregisterInstance failed to convert request to instance, err: %w", err)
	}

	ctx := ectx.Request().Context()
	if err := h.registry.Deregister(ctx, key, inst); err != nil {
		return fmt.Errorf("deregisterInstance failed to deregister instance, err: %w", err)
	}

	return ectx.NoContent(http.StatusOK)
}

// RegisterInstanceBatch (POST /v1/ns/instance/batch) registers several
// instances as one atomically visible batch.
func (h *HTTPServer) RegisterInstanceBatch(ectx echo.Context) error {
	var req BatchInstanceRequest
	if err := ectx.Bind(&req); err != nil {
		return service.NewBadParameterError("invalid request body", err)
	}

	key, instances, err := fromBatchInstanceRequest(req)
	if err != nil {
		return fmt.Errorf("registerInstanceBatch failed to convert request, err: %w", err)
	}

	ctx := ectx.Request().Context()
	if err := h.registry.RegisterBatch(ctx, key, instances); err != nil {
		return fmt.Errorf("registerInstanceBatch failed to register instances, err: %w", err)
	}

	return ectx.NoContent(http.StatusOK)
}

// DeregisterInstanceBatch (DELETE /v1/ns/instance/batch) removes the
// submitted identities; attribute mismatches and unknown identities are
// ignored.
func (h *HTTPServer) DeregisterInstanceBatch(ectx echo.Context) error {
	var req BatchInstanceRequest
	if err := ectx.Bind(&req); err != nil {
		return service.NewBadParameterError("invalid request body", err)
	}

	key, instances, err := fromBatchInstanceRequest(req)
	if err != nil {
		return fmt.Errorf("deregisterInstanceBatch failed to convert request, err: %w", err)
	}

	ctx := ectx.Request().Context()
	if err := h.registry.DeregisterBatch(ctx, key, instances); err != nil {
		return fmt.Errorf("deregisterInstanceBatch failed to deregister instances, err: %w", err)
	}

	return ectx.NoContent(http.StatusOK)
}

// Heartbeat (PUT /v1/ns/instance/beat) refreshes an ephemeral instance.
func (h *HTTPServer) Heartbeat(ectx echo.Context) error {
	var req BeatRequest
	if err := ectx.Bind(&req); err != nil {
		return service.NewBadParameterError("invalid request body", err)
	}

	key, beat, err := fromBeatRequest(req)
	if err != nil {
		return fmt.Errorf("heartbeat failed to convert request, err: %w", err)
	}

	ctx := ectx.Request().Context()
	if err := h.registry.Heartbeat(ctx, key, beat.IP, beat.Port, beat.ClusterName); err != nil {
		return fmt.Errorf("heartbeat failed, err: %w", err)
	}

	return ectx.NoContent(http.StatusOK)
}

// ListInstances (GET /v1/ns/instance/list) queries instances of a service,
// optionally restricted to clusters and to healthy ones. An unknown service
// yields 200 with an empty list.
func (h *HTTPServer) ListInstances(ectx echo.Context) error {
	serviceName := ectx.QueryParam("service_name")
	if serviceName == "" {
		return service.NewBadParameterError("service_name is required", nil)
	}
	key := domain.NewServiceKey(ectx.QueryParam("namespace"), ectx.QueryParam("group"), serviceName)
	clusters := fromClustersParam(ectx.QueryParam("clusters"))
	healthyOnly, err := parseBoolParam(ectx.QueryParam("healthy_only"), false)
	if err != nil {
		return service.NewBadParameterError("invalid healthy_only", err)
	}

	ctx := ectx.Request().Context()
	instances, err := h.registry.SelectInstances(ctx, key, clusters, healthyOnly)
	if err != nil {
		return fmt.Errorf("listInstances failed to query instances, err: %w", err)
	}

	return ectx.JSON(http.StatusOK, toInstancesResponse(key, instances))
}

// ListServices (GET /v1/ns/service/list) lists services page by page. A page
// beyond the total yields 200 with an empty list.
func (h *HTTPServer) ListServices(ectx echo.Context) error {
	pageNo, pageSize, err := parsePageParams(ectx)
	if err != nil {
		return err
	}

	ctx := ectx.Request().Context()
	total, infos, err := h.registry.ListServices(ctx, pageNo, pageSize, ectx.QueryParam("namespace"), ectx.QueryParam("group"))
	if err != nil {
		return fmt.Errorf("listServices failed, err: %w", err)
	}

	return ectx.JSON(http.StatusOK, toServicesResponse(total, infos))
}

// GetService (GET /v1/ns/service) returns one service summary, 404 when the
// service does not exist.
func (h *HTTPServer) GetService(ectx echo.Context) error {
	serviceName := ectx.QueryParam("service_name")
	if serviceName == "" {
		return service.NewBadParameterError("service_name is required", nil)
	}
	key := domain.NewServiceKey(ectx.QueryParam("namespace"), ectx.QueryParam("group"), serviceName)

	ctx := ectx.Request().Context()
	info, err := h.registry.GetService(ctx, key)
	if err != nil {
		return fmt.Errorf("getService failed, err: %w", err)
	}

	return ectx.JSON(http.StatusOK, toServiceItem(info))
}

// RemoveService (DELETE /v1/ns/service) drops a service entry, 404 when the
// service does not exist.
func (h *HTTPServer) RemoveService(ectx echo.Context) error {
	serviceName := ectx.QueryParam("service_name")
	if serviceName == "" {
		return service.NewBadParameterError("service_name is required", nil)
	}
	key := domain.NewServiceKey(ectx.QueryParam("namespace"), ectx.QueryParam("group"), serviceName)

	ctx := ectx.Request().Context()
	if err := h.registry.RemoveService(ctx, key); err != nil {
		return fmt.Errorf("removeService failed, err: %w", err)
	}

	return ectx.NoContent(http.StatusOK)
}

// ListSubscribers (GET /v1/ns/subscriber/list) lists active subscriptions
// page by page.
func (h *HTTPServer) ListSubscribers(ectx echo.Context) error {
	pageNo, pageSize, err := parsePageParams(ectx)
	if err != nil {
		return err
	}

	total, rows := h.subs.Subscribers(pageNo, pageSize)
	return ectx.JSON(http.StatusOK, toSubscribersResponse(total, rows))
}

// Metrics (GET /v1/ns/operator/metrics) returns registry counters.
func (h *HTTPServer) Metrics(ectx echo.Context) error {
	ctx := ectx.Request().Context()
	stats, err := h.registry.Stats(ctx)
	if err != nil {
		return fmt.Errorf("metrics failed, err: %w", err)
	}

	return ectx.JSON(http.StatusOK, toMetricsResponse(stats))
}

func parsePageParams(ectx echo.Context) (int, int, error) {
	pageNo, err := parseIntParam(ectx.QueryParam("page_no"), defaultPageNo)
	if err != nil || pageNo < 1 {
		return 0, 0, service.NewBadParameterError("invalid page_no", err)
	}
	pageSize, err := parseIntParam(ectx.QueryParam("page_size"), defaultPageSize)
	if err != nil || pageSize < 1 {
		return 0, 0, service.NewBadParameterError("invalid page_size", err)
	}
	return pageNo, pageSize, nil
}

func parseIntParam(raw string, def int) (int, error) {
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}

func parseBoolParam(raw string, def bool) (bool, error) {
	if raw == "" {
		return def, nil
	}
	return strconv.ParseBool(raw)
}
