package telemetry

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.34.0"
)

func TestInitExposesMetrics(t *testing.T) {
	reg := promclient.NewRegistry()
	p, err := Init(context.Background(), Config{ServiceName: "fintrack-test", Registry: reg})
	require.NoError(t, err)
	defer p.Shutdown(context.Background())

	counter, err := otel.Meter("telemetry_test").Int64Counter("fintrack_test_events")
	require.NoError(t, err)
	counter.Add(context.Background(), 2)

	h := Middleware("fintrack-test")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/healthz", nil))

	rec := httptest.NewRecorder()
	p.MetricsHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, _ := io.ReadAll(rec.Body)
	assert.Contains(t, string(body), "fintrack_test_events")
}

func TestNilProviderIsSafe(t *testing.T) {
	var p *Provider
	assert.NoError(t, p.Shutdown(context.Background()))
	assert.NotNil(t, p.MetricsHandler())
}

func TestNewResourceMatchesSDKSchema(t *testing.T) {
	res, err := newResource("fintrack-test")
	require.NoError(t, err)

	assert.Equal(t, resource.Default().SchemaURL(), res.SchemaURL())

	name, ok := res.Set().Value(semconv.ServiceNameKey)
	require.True(t, ok)
	assert.Equal(t, "fintrack-test", name.AsString())
}
