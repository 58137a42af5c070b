package geo

import (
	"Pulse-Backend/internal/config"
	"Pulse-Backend/internal/domain"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client := NewClient(&config.Geo{
		Endpoint: srv.URL,
		Timeout:  2 * time.Second,
	}, zap.NewNop())

	return client, srv
}

func TestLookup_Success(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/8.8.8.8/json/", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"ip": "8.8.8.8",
			"city": "Mountain View",
			"region": "California",
			"country_name": "United States",
			"country_code": "US"
		}`))
	})

	location := client.Lookup(context.Background(), "8.8.8.8")
	require.NotNil(t, location)
	assert.Equal(t, "United States", location.Country)
	assert.Equal(t, "US", location.CountryCode)
	assert.Equal(t, "Mountain View", location.City)
	assert.Equal(t, "California", location.Region)
	assert.Equal(t, "8.8.8.8", location.IP)
}

func TestLookup_MissingFieldsGetDefaults(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"ip": "8.8.8.8"}`))
	})

	location := client.Lookup(context.Background(), "8.8.8.8")
	require.NotNil(t, location)
	assert.Equal(t, domain.UnknownValue, location.Country)
	assert.Equal(t, domain.UnknownCountryCode, location.CountryCode)
	assert.Equal(t, domain.UnknownValue, location.City)
	assert.Equal(t, domain.UnknownValue, location.Region)
}

func TestLookup_MalformedResponse(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json at all`))
	})

	assert.Nil(t, client.Lookup(context.Background(), "8.8.8.8"))
}

func TestLookup_UpstreamError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	assert.Nil(t, client.Lookup(context.Background(), "8.8.8.8"))
}

func TestLookup_UpstreamRejection(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"error": true, "reason": "Reserved IP Address"}`))
	})

	assert.Nil(t, client.Lookup(context.Background(), "8.8.8.8"))
}

func TestLookup_TimeoutIsBounded(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
		_, _ = w.Write([]byte(`{"ip": "8.8.8.8"}`))
	}))
	t.Cleanup(srv.Close)

	client := NewClient(&config.Geo{Endpoint: srv.URL, Timeout: 50 * time.Millisecond}, zap.NewNop())

	start := time.Now()
	location := client.Lookup(context.Background(), "8.8.8.8")
	assert.Nil(t, location)
	assert.Less(t, time.Since(start), 400*time.Millisecond)
}

func TestLookup_SkipsNonPublicAddresses(t *testing.T) {
	called := false
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	assert.Nil(t, client.Lookup(context.Background(), "127.0.0.1"))
	assert.Nil(t, client.Lookup(context.Background(), "192.168.1.10"))
	assert.Nil(t, client.Lookup(context.Background(), "not-an-ip"))
	assert.Nil(t, client.Lookup(context.Background(), ""))
	assert.False(t, called)
}
