package moviedb

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryTokens is an in-memory TokenStore for tests.
type memoryTokens struct {
	mu    sync.Mutex
	token string
	has   bool
}

func (m *memoryTokens) Token() (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token, m.has
}

func (m *memoryTokens) SaveToken(token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
	m.has = true
	return nil
}

func (m *memoryTokens) ClearToken() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = ""
	m.has = false
	return nil
}

var alwaysOnline = ConnectivityFunc(func() bool { return true })

func newTestClient(t *testing.T, serverURL string, opts ...Option) *Client {
	t.Helper()
	opts = append([]Option{WithConnectivity(alwaysOnline)}, opts...)
	client, err := New(serverURL, opts...)
	require.NoError(t, err)
	return client
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		baseURL string
		wantErr bool
		errMsg  string
	}{
		{
			name:    "valid config",
			baseURL: "http://localhost:5000",
			wantErr: false,
		},
		{
			name:    "trailing slash trimmed",
			baseURL: "http://localhost:5000/",
			wantErr: false,
		},
		{
			name:    "missing URL",
			baseURL: "",
			wantErr: true,
			errMsg:  "base URL is required",
		},
		{
			name:    "missing scheme",
			baseURL: "localhost:5000",
			wantErr: true,
			errMsg:  "scheme and host",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := New(tt.baseURL)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidConfig)
				assert.Contains(t, err.Error(), tt.errMsg)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "http://localhost:5000", client.baseURL)
			assert.NotNil(t, client.Movies())
			assert.NotNil(t, client.Auth())
		})
	}
}

func TestClientOptions(t *testing.T) {
	t.Run("default timeout", func(t *testing.T) {
		client, err := New("http://localhost:5000")
		require.NoError(t, err)
		assert.Equal(t, 15*time.Second, client.httpClient.Timeout)
	})

	t.Run("with timeout", func(t *testing.T) {
		client, err := New("http://localhost:5000", WithTimeout(5*time.Second))
		require.NoError(t, err)
		assert.Equal(t, 5*time.Second, client.httpClient.Timeout)
	})

	t.Run("with custom http client", func(t *testing.T) {
		custom := &http.Client{Timeout: 10 * time.Second}
		client, err := New("http://localhost:5000", WithHTTPClient(custom))
		require.NoError(t, err)
		assert.Equal(t, custom, client.httpClient)
	})

	t.Run("with platform", func(t *testing.T) {
		client, err := New("http://localhost:5000", WithPlatform("android"))
		require.NoError(t, err)
		assert.Equal(t, "android", client.platform)
	})

	t.Run("connectivity checker exposed", func(t *testing.T) {
		client, err := New("http://localhost:5000")
		require.NoError(t, err)
		assert.NotNil(t, client.Connectivity(), "default dial checker must be available for sharing")

		checker := ConnectivityFunc(func() bool { return true })
		client, err = New("http://localhost:5000", WithConnectivity(checker))
		require.NoError(t, err)
		assert.NotNil(t, client.Connectivity())
		assert.True(t, client.Connectivity().Online())
	})
}

func TestRequestHeaders(t *testing.T) {
	t.Run("bearer token attached when stored", func(t *testing.T) {
		var gotAuth, gotPlatform, gotRequestID, gotVersion string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotAuth = r.Header.Get("Authorization")
			gotPlatform = r.Header.Get("Platform")
			gotRequestID = r.Header.Get("X-Request-ID")
			gotVersion = r.URL.Query().Get("version")
			json.NewEncoder(w).Encode(emptyMoviePage())
		}))
		defer server.Close()

		tokens := &memoryTokens{}
		require.NoError(t, tokens.SaveToken("abc123"))

		client := newTestClient(t, server.URL, WithTokenStore(tokens))
		_, err := client.Movies().List(context.Background(), 1, 10)
		require.NoError(t, err)

		assert.Equal(t, "Bearer abc123", gotAuth)
		assert.Equal(t, "cli", gotPlatform)
		assert.NotEmpty(t, gotRequestID)
		assert.Equal(t, "1", gotVersion)
	})

	t.Run("no bearer token without store entry", func(t *testing.T) {
		var gotAuth string
		authHeaderSeen := false
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotAuth = r.Header.Get("Authorization")
			_, authHeaderSeen = r.Header["Authorization"]
			json.NewEncoder(w).Encode(emptyMoviePage())
		}))
		defer server.Close()

		client := newTestClient(t, server.URL, WithTokenStore(&memoryTokens{}))
		_, err := client.Movies().List(context.Background(), 1, 10)
		require.NoError(t, err)

		assert.Empty(t, gotAuth)
		assert.False(t, authHeaderSeen)
	})
}

func TestUnauthorizedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"message": "token expired"})
	}))
	defer server.Close()

	tokens := &memoryTokens{}
	require.NoError(t, tokens.SaveToken("stale-token"))

	var fired atomic.Int32
	client := newTestClient(t, server.URL, WithTokenStore(tokens))
	client.OnUnauthorized(func() { fired.Add(1) })

	_, err := client.Movies().List(context.Background(), 1, 10)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSessionExpired)

	_, ok := tokens.Token()
	assert.False(t, ok, "token should be cleared after an unauthorized response")
	assert.Equal(t, int32(1), fired.Load())
}

func TestUnauthorizedWithoutToken(t *testing.T) {
	// A 401 on an unauthenticated call (failed login) is a plain API error
	// carrying the server's message, not a session expiry.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"message": "invalid username or password"})
	}))
	defer server.Close()

	var fired atomic.Int32
	client := newTestClient(t, server.URL, WithTokenStore(&memoryTokens{}))
	client.OnUnauthorized(func() { fired.Add(1) })

	_, err := client.Auth().Login(context.Background(), "alice", "wrong")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrSessionExpired)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, "invalid username or password", apiErr.Message)
	assert.Equal(t, int32(0), fired.Load())
}

func TestOfflineFailsFast(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		json.NewEncoder(w).Encode(emptyMoviePage())
	}))
	defer server.Close()

	client, err := New(server.URL, WithConnectivity(ConnectivityFunc(func() bool { return false })))
	require.NoError(t, err)

	_, err = client.Movies().List(context.Background(), 1, 10)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrOffline)
	assert.Equal(t, int32(0), hits.Load(), "no request should be dispatched while offline")
}

func TestNotFoundResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"message": "movie not found"})
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	_, err := client.Movies().Get(context.Background(), 99)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.True(t, apiErr.IsNotFound())
	assert.Equal(t, "movie not found", apiErr.Message)
}

func TestServerErrorResponse(t *testing.T) {
	t.Run("json error payload", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(map[string]string{"message": "database unavailable"})
		}))
		defer server.Close()

		client := newTestClient(t, server.URL)
		_, err := client.Movies().List(context.Background(), 1, 10)
		require.Error(t, err)

		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
		assert.Equal(t, "database unavailable", apiErr.Message)
		assert.True(t, apiErr.IsServerError())
	})

	t.Run("non-json error payload", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
			w.Write([]byte("upstream broke"))
		}))
		defer server.Close()

		client := newTestClient(t, server.URL)
		_, err := client.Movies().List(context.Background(), 1, 10)
		require.Error(t, err)

		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusText(http.StatusBadGateway), apiErr.Message)
		assert.Equal(t, "upstream broke", apiErr.Body)
	})
}

func TestPing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/genres", r.URL.Path)
		assert.Equal(t, "1", r.URL.Query().Get("pageSize"))
		json.NewEncoder(w).Encode(GenrePage{
			Items:    []Genre{},
			PageInfo: NewPageInfo(1, 1, 0),
		})
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	require.NoError(t, client.Ping(context.Background()))
}

func TestAPIError(t *testing.T) {
	t.Run("error message", func(t *testing.T) {
		err := &APIError{StatusCode: 404, Message: "Not Found"}
		assert.Equal(t, "catalog API error: status 404: Not Found", err.Error())
	})

	t.Run("sentinel mapping", func(t *testing.T) {
		err := &APIError{StatusCode: 404}
		assert.True(t, errors.Is(err, ErrNotFound))

		err.StatusCode = 500
		assert.False(t, errors.Is(err, ErrNotFound))
	})
}

func emptyMoviePage() MoviePage {
	return MoviePage{
		Items:    []Movie{},
		PageInfo: NewPageInfo(1, 10, 0),
	}
}
