package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"myregistry/adapters/myredis"
	"myregistry/service"
)

type MyRegistryConfig struct {
	Redis    myredis.RedisConfig
	HTTPPort int
	Registry service.RegistryConfig
}

// LoadConfig loads configuration from environment variables.
// REDIS_ADDR and SERVICE_PORT_HTTP are required; the liveness timeouts
// default to HEALTHY_TIMEOUT_MS=15000, DELETE_TIMEOUT_MS=30000,
// SWEEP_INTERVAL_MS=5000.
func LoadConfig() (*MyRegistryConfig, error) {
	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		return nil, fmt.Errorf("REDIS_ADDR is required")
	}

	httpPortStr := os.Getenv("SERVICE_PORT_HTTP")
	if httpPortStr == "" {
		return nil, fmt.Errorf("SERVICE_PORT_HTTP is required")
	}
	httpPort, err := strconv.Atoi(httpPortStr)
	if err != nil {
		return nil, fmt.Errorf("invalid SERVICE_PORT_HTTP: %w", err)
	}

	healthyTimeout, err := loadDurationMs("HEALTHY_TIMEOUT_MS", service.DefaultHealthyTimeout)
	if err != nil {
		return nil, err
	}
	deleteTimeout, err := loadDurationMs("DELETE_TIMEOUT_MS", service.DefaultDeleteTimeout)
	if err != nil {
		return nil, err
	}
	sweepInterval, err := loadDurationMs("SWEEP_INTERVAL_MS", service.DefaultSweepInterval)
	if err != nil {
		return nil, err
	}

	return &MyRegistryConfig{
		Redis: myredis.RedisConfig{
			Addr: redisAddr,
		},
		HTTPPort: httpPort,
		Registry: service.RegistryConfig{
			HealthyTimeout: healthyTimeout,
			DeleteTimeout:  deleteTimeout,
			SweepInterval:  sweepInterval,
		},
	}, nil
}

func loadDurationMs(name string, def time.Duration) (time.Duration, error) {
	raw := os.Getenv(name)
	if raw == "" {
		return def, nil
	}
	ms, err := strconv.Atoi(raw)
	if err != nil || ms <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", name, raw)
	}
	return time.Duration(ms) * time.Millisecond, nil
}
