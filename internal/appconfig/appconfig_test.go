package appconfig

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type mapEnv map[string]string

func (m mapEnv) GetString(key string) string { return m[key] }

func TestFromEnv_Defaults(t *testing.T) {
	cfg, err := FromEnv(mapEnv{})
	require.NoError(t, err)

	require.Equal(t, "8080", cfg.Port)
	require.Equal(t, "release", cfg.GinMode)
	require.Equal(t, "info", cfg.LogLevel)
	require.Equal(t, BackendMinio, cfg.StorageBackend)
	require.Equal(t, "photos", cfg.Minio.Bucket)
	require.Equal(t, "localhost:9000", cfg.Minio.Endpoint)
	require.False(t, cfg.Minio.UseSSL)
	require.Zero(t, cfg.DerivativeTimeout)
	require.Equal(t, 5, cfg.Connect.Attempts)
	require.Equal(t, 2*time.Second, cfg.Connect.Delay)
	require.Equal(t, "none", cfg.Tracing.Exporter)
	require.Equal(t, "image-derivatives", cfg.Tracing.ServiceName)
}

func TestFromEnv_Overrides(t *testing.T) {
	cfg, err := FromEnv(mapEnv{
		"APP_PORT":                 "9090",
		"STORAGE_BACKEND":          "Memory",
		"BUCKET_NAME":              "media",
		"MINIO_USE_SSL":            "true",
		"PUBLIC_BASE_URL":          "https://cdn.example.com",
		"DERIVATIVE_TIMEOUT":       "30s",
		"STORAGE_CONNECT_ATTEMPTS": "2",
		"TRACE_EXPORTER":           "otlp",
		"OTLP_ENDPOINT":            "collector:4318",
		"OTLP_INSECURE":            "1",
	})
	require.NoError(t, err)

	require.Equal(t, "9090", cfg.Port)
	require.Equal(t, BackendMemory, cfg.StorageBackend)
	require.Equal(t, "media", cfg.Minio.Bucket)
	require.True(t, cfg.Minio.UseSSL)
	require.Equal(t, "https://cdn.example.com", cfg.Minio.PublicBaseURL)
	require.Equal(t, 30*time.Second, cfg.DerivativeTimeout)
	require.Equal(t, 2, cfg.Connect.Attempts)
	require.Equal(t, "collector:4318", cfg.Tracing.OTLPEndpoint)
	require.True(t, cfg.Tracing.OTLPInsecure)
}

func TestFromEnv_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		env     mapEnv
		wantKey string
	}{
		{"bad bool", mapEnv{"MINIO_USE_SSL": "sure"}, "MINIO_USE_SSL"},
		{"bad duration", mapEnv{"DERIVATIVE_TIMEOUT": "10"}, "DERIVATIVE_TIMEOUT"},
		{"negative duration", mapEnv{"STORAGE_CONNECT_DELAY": "-1s"}, "STORAGE_CONNECT_DELAY"},
		{"bad int", mapEnv{"STORAGE_CONNECT_ATTEMPTS": "many"}, "STORAGE_CONNECT_ATTEMPTS"},
		{"zero attempts", mapEnv{"STORAGE_CONNECT_ATTEMPTS": "0"}, "STORAGE_CONNECT_ATTEMPTS"},
		{"unknown backend", mapEnv{"STORAGE_BACKEND": "gcs"}, "STORAGE_BACKEND"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromEnv(tt.env)
			require.ErrorContains(t, err, tt.wantKey)
		})
	}
}
