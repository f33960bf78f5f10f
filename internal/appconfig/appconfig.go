// Package appconfig maps raw env values into the typed application config
package appconfig

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/UnendingLoop/ImageDerivatives/internal/storage/miniostorage"
	"github.com/UnendingLoop/ImageDerivatives/internal/telemetry"
	"github.com/wb-go/wbf/retry"
)

const (
	BackendMinio  = "minio"
	BackendMemory = "memory"
)

// Getter is satisfied by *config.Config from wbf
type Getter interface {
	GetString(key string) string
}

type Config struct {
	Port     string
	GinMode  string
	LogLevel string

	StorageBackend string
	Minio          miniostorage.Config
	Connect        retry.Strategy

	DerivativeTimeout time.Duration
	Tracing           telemetry.TraceConfig
}

func FromEnv(env Getter) (Config, error) {
	cfg := Config{
		Port:           stringOr(env, "APP_PORT", "8080"),
		GinMode:        stringOr(env, "GIN_MODE", "release"),
		LogLevel:       stringOr(env, "LOG_LEVEL", "info"),
		StorageBackend: strings.ToLower(stringOr(env, "STORAGE_BACKEND", BackendMinio)),
		Minio: miniostorage.Config{
			Endpoint:      stringOr(env, "MINIO_ENDPOINT", "localhost:9000"),
			User:          env.GetString("MINIO_USER"),
			Pass:          env.GetString("MINIO_PASS"),
			Bucket:        stringOr(env, "BUCKET_NAME", "photos"),
			PublicBaseURL: env.GetString("PUBLIC_BASE_URL"),
		},
		Connect: retry.Strategy{Backoff: 1.5},
		Tracing: telemetry.TraceConfig{
			ServiceName:  stringOr(env, "SERVICE_NAME", "image-derivatives"),
			Exporter:     stringOr(env, "TRACE_EXPORTER", "none"),
			OTLPEndpoint: env.GetString("OTLP_ENDPOINT"),
		},
	}

	switch cfg.StorageBackend {
	case BackendMinio, BackendMemory:
	default:
		return Config{}, fmt.Errorf("STORAGE_BACKEND: unsupported value %q", cfg.StorageBackend)
	}

	var err error
	if cfg.Minio.UseSSL, err = boolOr(env, "MINIO_USE_SSL", false); err != nil {
		return Config{}, err
	}
	if cfg.Tracing.OTLPInsecure, err = boolOr(env, "OTLP_INSECURE", false); err != nil {
		return Config{}, err
	}
	if cfg.DerivativeTimeout, err = durationOr(env, "DERIVATIVE_TIMEOUT", 0); err != nil {
		return Config{}, err
	}
	if cfg.Connect.Delay, err = durationOr(env, "STORAGE_CONNECT_DELAY", 2*time.Second); err != nil {
		return Config{}, err
	}
	attempts, err := intOr(env, "STORAGE_CONNECT_ATTEMPTS", 5)
	if err != nil {
		return Config{}, err
	}
	if attempts < 1 {
		return Config{}, fmt.Errorf("STORAGE_CONNECT_ATTEMPTS: must be positive, got %d", attempts)
	}
	cfg.Connect.Attempts = attempts

	return cfg, nil
}

func stringOr(env Getter, key, def string) string {
	if v := strings.TrimSpace(env.GetString(key)); v != "" {
		return v
	}
	return def
}

func boolOr(env Getter, key string, def bool) (bool, error) {
	raw := strings.TrimSpace(env.GetString(key))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%s: invalid bool %q: %w", key, raw, err)
	}
	return v, nil
}

func intOr(env Getter, key string, def int) (int, error) {
	raw := strings.TrimSpace(env.GetString(key))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid int %q: %w", key, raw, err)
	}
	return v, nil
}

func durationOr(env Getter, key string, def time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(env.GetString(key))
	if raw == "" {
		return def, nil
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid duration %q: %w", key, raw, err)
	}
	if v < 0 {
		return 0, fmt.Errorf("%s: negative duration %q", key, raw)
	}
	return v, nil
}
