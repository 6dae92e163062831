package handlers

import (
	"github.com/labstack/echo/v4"
)

// ServerInterface lists the console API operations.
type ServerInterface interface {
	// RegisterInstance (POST /v1/ns/instance) registers or updates one instance.
	RegisterInstance(ectx echo.Context) error
	// DeregisterInstance (DELETE /v1/ns/instance) removes one instance by identity.
	DeregisterInstance(ectx echo.Context) error
	// RegisterInstanceBatch (POST /v1/ns/instance/batch) registers several instances atomically.
	RegisterInstanceBatch(ectx echo.Context) error
	// DeregisterInstanceBatch (DELETE /v1/ns/instance/batch) removes instances by identity.
	DeregisterInstanceBatch(ectx echo.Context) error
	// Heartbeat (PUT /v1/ns/instance/beat) refreshes the liveness of an ephemeral instance.
	Heartbeat(ectx echo.Context) error
	// ListInstances (GET /v1/ns/instance/list) queries instances of a service.
	ListInstances(ectx echo.Context) error
	// ListServices (GET /v1/ns/service/list) lists services page by page.
	ListServices(ectx echo.Context) error
	// GetService (GET /v1/ns/service) returns one service summary.
	GetService(ectx echo.Context) error
	// RemoveService (DELETE /v1/ns/service) drops a service entry.
	RemoveService(ectx echo.Context) error
	// ListSubscribers (GET /v1/ns/subscriber/list) lists active subscriptions page by page.
	ListSubscribers(ectx echo.Context) error
	// Metrics (GET /v1/ns/operator/metrics) returns registry counters.
	Metrics(ectx echo.Context) error
}

// RegisterHandlers wires the console routes to the server implementation.
func RegisterHandlers(e *echo.Echo, si ServerInterface) {
	e.POST("/v1/ns/instance", si.RegisterInstance)
	e.DELETE("/v1/ns/instance", si.DeregisterInstance)
	e.POST("/v1/ns/instance/batch", si.RegisterInstanceBatch)
	e.DELETE("/v1/ns/instance/batch", si.DeregisterInstanceBatch)
	e.PUT("/v1/ns/instance/beat", si.Heartbeat)
	e.GET("/v1/ns/instance/list", si.ListInstances)
	e.GET("/v1/ns/service/list", si.ListServices)
	e.GET("/v1/ns/service", si.GetService)
	e.DELETE("/v1/ns/service", si.RemoveService)
	e.GET("/v1/ns/subscriber/list", si.ListSubscribers)
	e.GET("/v1/ns/operator/metrics", si.Metrics)
}
