package shipstation

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(serverURL string) *Client {
	c := NewClient(serverURL, "test-key", "test-secret")
	c.pageDelay = 0
	c.rateLimitBackoff = time.Millisecond
	c.networkBackoff = time.Millisecond
	return c
}

func TestClient_FetchOrders_SinglePage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "test-key", user)
		assert.Equal(t, "test-secret", pass)
		assert.Equal(t, "100", r.URL.Query().Get("pageSize"))
		assert.Equal(t, "ModifyDate", r.URL.Query().Get("sortBy"))
		assert.Equal(t, "DESC", r.URL.Query().Get("sortDir"))

		json.NewEncoder(w).Encode(ordersPage{
			Orders: []Order{{OrderID: 1, OrderNumber: "1001"}, {OrderID: 2, OrderNumber: "1002"}},
			Total:  2, Page: 1, Pages: 1,
		})
	}))
	defer server.Close()

	orders, err := testClient(server.URL).FetchOrders(time.Now().Add(-time.Hour))
	require.NoError(t, err)
	assert.Len(t, orders, 2)
	assert.Equal(t, "1001", orders[0].OrderNumber)
}

func TestClient_FetchOrders_Paginates(t *testing.T) {
	var pagesServed []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page := r.URL.Query().Get("page")
		pagesServed = append(pagesServed, page)
		n := 1
		if page == "2" {
			n = 2
		}
		json.NewEncoder(w).Encode(ordersPage{
			Orders: []Order{{OrderID: int64(n), OrderNumber: fmt.Sprintf("100%d", n)}},
			Total:  2, Page: n, Pages: 2,
		})
	}))
	defer server.Close()

	orders, err := testClient(server.URL).FetchOrders(time.Now().Add(-time.Hour))
	require.NoError(t, err)
	assert.Len(t, orders, 2)
	assert.Equal(t, []string{"1", "2"}, pagesServed)
}

func TestClient_FetchOrders_RetriesAfterRateLimit(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		json.NewEncoder(w).Encode(ordersPage{
			Orders: []Order{{OrderID: 1, OrderNumber: "1001"}},
			Total:  1, Page: 1, Pages: 1,
		})
	}))
	defer server.Close()

	orders, err := testClient(server.URL).FetchOrders(time.Now().Add(-time.Hour))
	require.NoError(t, err)
	assert.Len(t, orders, 1)
	assert.Equal(t, 2, calls)
}

func TestClient_FetchOrders_RateLimitExhausted(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	_, err := testClient(server.URL).FetchOrders(time.Now().Add(-time.Hour))
	assert.ErrorIs(t, err, ErrRateLimited)
}

func TestClient_FetchOrders_InvalidCredentialsNoRetry(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	_, err := testClient(server.URL).FetchOrders(time.Now().Add(-time.Hour))
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Equal(t, 1, calls)
}

func TestClient_FetchOrders_NotConfigured(t *testing.T) {
	c := NewClient("https://ssapi.test", "", "")
	_, err := c.FetchOrders(time.Now())
	assert.ErrorIs(t, err, ErrNotConfigured)
	assert.False(t, c.Configured())
}

func TestClient_VerifyCredentials(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/stores", r.URL.Path)
		w.Header().Set("X-Rate-Limit-Remaining", "39")
		json.NewEncoder(w).Encode([]Store{{StoreID: 1, StoreName: "Main"}})
	}))
	defer server.Close()

	check := testClient(server.URL).VerifyCredentials()
	assert.True(t, check.Valid)
	assert.Len(t, check.Stores, 1)
}

func TestClient_VerifyCredentials_Invalid(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	check := testClient(server.URL).VerifyCredentials()
	assert.False(t, check.Valid)
	assert.Equal(t, "invalid_credentials", check.ErrorCode)
}
