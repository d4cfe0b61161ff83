package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCorrelationID(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, ExtractCorrelationID(ctx))

	ctx, id := EnsureCorrelationID(ctx)
	require.NotEmpty(t, id)
	assert.Equal(t, id, ExtractCorrelationID(ctx))

	again, same := EnsureCorrelationID(ctx)
	assert.Equal(t, id, same)
	assert.Equal(t, id, ExtractCorrelationID(again))
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel(""))
}

func TestAPILoggerWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	l := &APILogger{service: "gamerhub-api", logger: &Logger{Logger: slog.New(slog.NewJSONHandler(&buf, nil))}}

	ctx := WithCorrelationID(context.Background(), "abc")
	l.LogError(ctx, "GET", "/api/posts", errors.New("connection refused"))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "api error", entry["msg"])
	assert.Equal(t, "abc", entry["correlation_id"])
	assert.Equal(t, "/api/posts", entry["path"])
	assert.Equal(t, "connection refused", entry["error"])
}

func TestObserveAPICall(t *testing.T) {
	before := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/test/observe", "error"))
	ObserveAPICall("GET", "/test/observe", 0, time.Now())
	after := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/test/observe", "error"))
	assert.Equal(t, before+1, after)
}

func TestTracingDisabledIsNoop(t *testing.T) {
	shutdown, err := InitTracing(TracingConfig{ServiceName: "test", Enabled: false})
	require.NoError(t, err)
	require.NoError(t, shutdown(context.Background()))

	span, ctx := NewSpan(context.Background(), "noop")
	span.SetError(errors.New("ignored"))
	span.End()

	h := http.Header{}
	InjectHeaders(ctx, h)
	assert.NotNil(t, ExtractHeaders(context.Background(), h))
}
