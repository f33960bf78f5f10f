package mwlogger

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"github.com/wb-go/wbf/zlog"
)

func TestNewMWLogger_PropagatesRequestID(t *testing.T) {
	var buf bytes.Buffer
	prev := zlog.Logger
	zlog.Logger = zerolog.New(&buf)
	t.Cleanup(func() { zlog.Logger = prev })

	h := NewMWLogger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		l := LoggerFromContext(r.Context())
		l.Info().Msg("inside")
	}))

	req := httptest.NewRequest(http.MethodPost, "/derivatives", nil)
	req.Header.Set(RequestIDHeader, "req-1")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, "req-1", rec.Header().Get(RequestIDHeader))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	require.Equal(t, "req-1", entry["request_id"])
	require.Equal(t, "POST", entry["method"])
	require.Equal(t, "/derivatives", entry["path"])
}

func TestNewMWLogger_GeneratesRequestID(t *testing.T) {
	h := NewMWLogger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))

	require.NotEmpty(t, rec.Header().Get(RequestIDHeader))
}

func TestWithLogger(t *testing.T) {
	var buf bytes.Buffer
	ctx := WithLogger(context.Background(), zerolog.New(&buf))

	l := LoggerFromContext(ctx)
	l.Warn().Msg("hello")
	require.Contains(t, buf.String(), "hello")
}
