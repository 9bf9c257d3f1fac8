package common

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHTTPClient(t *testing.T) {
	t.Run("should apply the wrappers in the given order", func(t *testing.T) {
		var order []string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			order = append(order, "server")
			assert.Equal(t, "dependabot-jira-sync/test", r.Header.Get("User-Agent"))
			w.WriteHeader(http.StatusNoContent)
		}))
		defer server.Close()

		trace := func(name string) func(req *http.Request, next http.RoundTripper) (*http.Response, error) {
			return func(req *http.Request, next http.RoundTripper) (*http.Response, error) {
				order = append(order, name)
				return next.RoundTrip(req)
			}
		}

		client := NewHTTPClient(trace("first"), UserAgent("dependabot-jira-sync/test"), trace("second"))
		resp, err := client.Get(server.URL)
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, []string{"first", "second", "server"}, order)
	})
}

func TestRateLimitTransport(t *testing.T) {
	t.Run("should abort the request if the context is already cancelled", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("the request should never reach the server")
		}))
		defer server.Close()

		client := NewHTTPClient(NewRateLimitTransport(1).Handler())
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, server.URL, nil)
		require.NoError(t, err)

		_, err = client.Do(req) // nolint:bodyclose
		assert.Error(t, err)
	})

	t.Run("should let requests through if no limit is configured", func(t *testing.T) {
		calls := 0
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls++
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		client := NewHTTPClient(NewRateLimitTransport(0).Handler())
		for i := 0; i < 10; i++ {
			resp, err := client.Get(server.URL)
			require.NoError(t, err)
			resp.Body.Close()
		}
		assert.Equal(t, 10, calls)
	})
}
