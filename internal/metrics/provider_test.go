package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T, provider *Provider) string {
	t.Helper()
	w := httptest.NewRecorder()
	provider.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	return w.Body.String()
}

func TestNewProvider(t *testing.T) {
	provider, err := NewProvider("credstore_test")
	require.NoError(t, err)

	assert.NotNil(t, provider.MeterProvider())
	assert.NotNil(t, provider.registry)
	assert.Equal(t, "credstore_test", provider.Namespace())
}

func TestProvider_ResourceAttributes(t *testing.T) {
	provider, err := NewProvider("credstore_test")
	require.NoError(t, err)

	bm, err := NewBusinessMetrics(provider.MeterProvider(), provider.Namespace())
	require.NoError(t, err)
	bm.RecordOperation(context.Background(), "credentials", "credential_save", StatusSuccess)

	output := scrape(t, provider)
	assert.Contains(t, output, `service_name="credstore"`)
	assert.Contains(t, output, `service_namespace="credstore_test"`)
}

func TestProvider_Shutdown(t *testing.T) {
	t.Run("flushes provider", func(t *testing.T) {
		provider, err := NewProvider("credstore_test")
		require.NoError(t, err)
		assert.NoError(t, provider.Shutdown(context.Background()))
	})

	t.Run("nil meter provider", func(t *testing.T) {
		provider := &Provider{}
		assert.NoError(t, provider.Shutdown(context.Background()))
	})
}
