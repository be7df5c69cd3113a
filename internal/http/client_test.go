package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	halohttp "github.com/fivetwenty-io/halo-client/internal/http"
	"github.com/fivetwenty-io/halo-client/pkg/halo"
	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockTokenManager for testing.
type MockTokenManager struct {
	token string
	err   error
}

func (m *MockTokenManager) GetToken(ctx context.Context) (string, error) {
	return m.token, m.err
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestClient_Do(t *testing.T) {
	t.Parallel()
	t.Run("successful request", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "/apis/content.halo.run/v1alpha1/tags", request.URL.Path)
			assert.Equal(t, "GET", request.Method)
			assert.Equal(t, "Bearer test-token", request.Header.Get("Authorization"))
			assert.Equal(t, "application/json", request.Header.Get("Accept"))

			response := map[string]string{"name": "tag-1", "displayName": "Go"}
			_ = json.NewEncoder(writer).Encode(response)
		}))
		defer server.Close()

		tokenManager := &MockTokenManager{token: "test-token"}
		client := halohttp.NewClient(server.URL, tokenManager)

		req := &halohttp.Request{
			Method: "GET",
			Path:   "/apis/content.halo.run/v1alpha1/tags",
		}

		resp, err := client.Do(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)

		var result map[string]string

		err = json.Unmarshal(resp.Body, &result)
		require.NoError(t, err)
		assert.Equal(t, "tag-1", result["name"])
		assert.Equal(t, "Go", result["displayName"])
	})

	t.Run("no authorization header without token", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Empty(t, request.Header.Get("Authorization"))
			writer.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		client := halohttp.NewClient(server.URL, &MockTokenManager{})

		_, err := client.Get(context.Background(), "/x", nil)
		require.NoError(t, err)
	})

	t.Run("token error aborts before sending", func(t *testing.T) {
		t.Parallel()

		var hits atomic.Int32

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			hits.Add(1)
		}))
		defer server.Close()

		tokenErr := errors.New("no token")
		client := halohttp.NewClient(server.URL, &MockTokenManager{err: tokenErr})

		_, err := client.Get(context.Background(), "/x", nil)
		require.ErrorIs(t, err, tokenErr)
		assert.Equal(t, int32(0), hits.Load())
	})

	t.Run("array query parameters are repeated", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, []string{"image/*", "video/*"}, request.URL.Query()["accepts"])
			assert.Equal(t, "2", request.URL.Query().Get("page"))
			writer.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		client := halohttp.NewClient(server.URL, nil)

		req := &halohttp.Request{
			Method: "GET",
			Path:   "/apis/api.console.halo.run/v1alpha1/attachments",
			Query:  url.Values{"page": []string{"2"}, "accepts": []string{"image/*", "video/*"}},
		}

		resp, err := client.Do(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
	})

	t.Run("request with body", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "POST", request.Method)
			assert.Equal(t, "application/json", request.Header.Get("Content-Type"))

			var body map[string]string

			_ = json.NewDecoder(request.Body).Decode(&body)
			assert.Equal(t, "Go", body["displayName"])

			writer.WriteHeader(http.StatusCreated)
		}))
		defer server.Close()

		client := halohttp.NewClient(server.URL, nil)

		req := &halohttp.Request{
			Method: "POST",
			Path:   "/apis/content.halo.run/v1alpha1/tags",
			Body:   map[string]string{"displayName": "Go"},
		}

		resp, err := client.Do(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, 201, resp.StatusCode)
	})

	t.Run("custom headers", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "custom-value", request.Header.Get("X-Custom-Header"))
			assert.Equal(t, "halo-test", request.Header.Get("User-Agent"))
			writer.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		client := halohttp.NewClient(server.URL, nil, halohttp.WithUserAgent("halo-test"))

		req := &halohttp.Request{
			Method: "GET",
			Path:   "/x",
			Headers: map[string]string{
				"X-Custom-Header": "custom-value",
			},
		}

		resp, err := client.Do(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
	})

	t.Run("with debug logging", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			writer.WriteHeader(http.StatusOK)
			_ = json.NewEncoder(writer).Encode(map[string]string{"result": "ok"})
		}))
		defer server.Close()

		var buf bytes.Buffer

		logger := hclog.New(&hclog.LoggerOptions{Output: &buf, Level: hclog.Debug})
		client := halohttp.NewClient(server.URL, nil, halohttp.WithLogger(logger), halohttp.WithDebug(true))

		_, err := client.Get(context.Background(), "/x", nil)
		require.NoError(t, err)

		assert.Contains(t, buf.String(), "HTTP Request")
		assert.Contains(t, buf.String(), "HTTP Response")
	})
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestClient_StatusMapping(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		status int
		body   string
		check  func(t *testing.T, err error)
	}{
		{
			name:   "401 is an authentication error",
			status: http.StatusUnauthorized,
			body:   `{"detail":"token expired"}`,
			check: func(t *testing.T, err error) {
				t.Helper()

				var authErr *halo.AuthenticationError
				require.ErrorAs(t, err, &authErr)
				assert.Equal(t, "token expired", authErr.Message)
			},
		},
		{
			name:   "403 is an authorization error",
			status: http.StatusForbidden,
			check: func(t *testing.T, err error) {
				t.Helper()
				assert.True(t, halo.IsForbidden(err))
			},
		},
		{
			name:   "404 is a not found error",
			status: http.StatusNotFound,
			check: func(t *testing.T, err error) {
				t.Helper()

				var notFound *halo.ResourceNotFoundError
				require.ErrorAs(t, err, &notFound)
				assert.Equal(t, "attachments", notFound.Resource)
				assert.Equal(t, "/apis/storage.halo.run/v1alpha1/attachments/missing", notFound.Path)
			},
		},
		{
			name:   "400 carries message detail",
			status: http.StatusBadRequest,
			body:   `{"title":"Bad Request","message":"slug already exists"}`,
			check: func(t *testing.T, err error) {
				t.Helper()

				var netErr *halo.NetworkError
				require.ErrorAs(t, err, &netErr)
				assert.Equal(t, 400, netErr.StatusCode)
				assert.Equal(t, "slug already exists", netErr.Detail)
			},
		},
		{
			name:   "500 carries raw text",
			status: http.StatusInternalServerError,
			body:   "upstream exploded",
			check: func(t *testing.T, err error) {
				t.Helper()

				var netErr *halo.NetworkError
				require.ErrorAs(t, err, &netErr)
				assert.Equal(t, 500, netErr.StatusCode)
				assert.Equal(t, "upstream exploded", netErr.Detail)
			},
		},
		{
			name:   "200 with invalid json is malformed",
			status: http.StatusOK,
			body:   "<html>ok</html>",
			check: func(t *testing.T, err error) {
				t.Helper()

				var malformed *halo.MalformedResponseError
				require.ErrorAs(t, err, &malformed)
				assert.Equal(t, "<html>ok</html>", malformed.Body)
				require.ErrorIs(t, err, halohttp.ErrInvalidJSON)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
				writer.WriteHeader(tt.status)
				_, _ = writer.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := halohttp.NewClient(server.URL, nil)

			resp, err := client.Get(context.Background(), "/apis/storage.halo.run/v1alpha1/attachments/missing", nil)
			require.Error(t, err)
			require.NotNil(t, resp)
			assert.Equal(t, tt.status, resp.StatusCode)
			tt.check(t, err)
		})
	}
}

func TestClient_EmptySuccessBody(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := halohttp.NewClient(server.URL, nil)

	resp, err := client.Delete(context.Background(), "/x")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestClient_Methods(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		method string
		fn     func(*halohttp.Client, context.Context) (*halohttp.Response, error)
	}{
		{
			name:   "GET",
			method: "GET",
			fn: func(c *halohttp.Client, ctx context.Context) (*halohttp.Response, error) {
				return c.Get(ctx, "/test", nil)
			},
		},
		{
			name:   "POST",
			method: "POST",
			fn: func(c *halohttp.Client, ctx context.Context) (*halohttp.Response, error) {
				return c.Post(ctx, "/test", map[string]string{"key": "value"})
			},
		},
		{
			name:   "PUT",
			method: "PUT",
			fn: func(c *halohttp.Client, ctx context.Context) (*halohttp.Response, error) {
				return c.Put(ctx, "/test", map[string]string{"key": "value"})
			},
		},
		{
			name:   "PATCH",
			method: "PATCH",
			fn: func(c *halohttp.Client, ctx context.Context) (*halohttp.Response, error) {
				return c.Patch(ctx, "/test", map[string]string{"key": "value"})
			},
		},
		{
			name:   "DELETE",
			method: "DELETE",
			fn: func(c *halohttp.Client, ctx context.Context) (*halohttp.Response, error) {
				return c.Delete(ctx, "/test")
			},
		},
		{
			name:   "POST raw",
			method: "POST",
			fn: func(c *halohttp.Client, ctx context.Context) (*halohttp.Response, error) {
				return c.PostRaw(ctx, "/test", []byte("a=b"), "application/x-www-form-urlencoded")
			},
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
				assert.Equal(t, testCase.method, request.Method)
				assert.Equal(t, "/test", request.URL.Path)
				writer.WriteHeader(http.StatusOK)
			}))
			defer server.Close()

			client := halohttp.NewClient(server.URL, nil)
			resp, err := testCase.fn(client, context.Background())
			require.NoError(t, err)
			assert.Equal(t, 200, resp.StatusCode)
		})
	}
}

func TestClient_NeverRetries(t *testing.T) {
	t.Parallel()

	for _, status := range []int{http.StatusInternalServerError, http.StatusTooManyRequests, http.StatusBadGateway} {
		var attempts atomic.Int32

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			attempts.Add(1)
			writer.WriteHeader(status)
		}))

		client := halohttp.NewClient(server.URL, nil)

		resp, err := client.Get(context.Background(), "/test", nil)
		require.Error(t, err)
		assert.Equal(t, status, resp.StatusCode)
		assert.Equal(t, int32(1), attempts.Load())

		server.Close()
	}
}

func TestClient_TransportErrors(t *testing.T) {
	t.Parallel()

	t.Run("connection refused", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
		baseURL := server.URL
		server.Close()

		client := halohttp.NewClient(baseURL, nil)

		resp, err := client.Get(context.Background(), "/test", nil)
		require.Error(t, err)
		assert.Nil(t, resp)

		var transportErr *halo.TransportError
		require.ErrorAs(t, err, &transportErr)
	})

	t.Run("context cancellation", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			select {
			case <-request.Context().Done():
			case <-time.After(2 * time.Second):
			}
		}))
		defer server.Close()

		client := halohttp.NewClient(server.URL, nil)

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		_, err := client.Get(ctx, "/slow", nil)
		require.ErrorIs(t, err, context.DeadlineExceeded)
	})
}

func TestClient_DoJSON(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		_, _ = writer.Write([]byte(`{"access_token":"abc"}`))
	}))
	defer server.Close()

	client := halohttp.NewClient(server.URL, nil)

	var out struct {
		AccessToken string `json:"access_token"`
	}

	err := client.DoJSON(context.Background(), &halohttp.Request{Method: "POST", Path: "/login", Body: map[string]string{}}, &out)
	require.NoError(t, err)
	assert.Equal(t, "abc", out.AccessToken)
	assert.Equal(t, server.URL, client.BaseURL())
}

func TestClient_DoJSONRejectsUnfollowedStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		status int
	}{
		{name: "not modified", status: http.StatusNotModified},
		{name: "redirect without location", status: http.StatusFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
				writer.WriteHeader(tt.status)
			}))
			defer server.Close()

			client := halohttp.NewClient(server.URL, nil)

			var out struct {
				Name string `json:"name"`
			}

			err := client.DoJSON(context.Background(), &halohttp.Request{Method: "GET", Path: "/apis/content.halo.run/v1alpha1/tags"}, &out)
			require.Error(t, err)

			var netErr *halo.NetworkError
			require.ErrorAs(t, err, &netErr)
			assert.Equal(t, tt.status, netErr.StatusCode)
			assert.Equal(t, fmt.Sprintf("unexpected status code %d", tt.status), netErr.Detail)
			assert.Empty(t, out.Name)
		})
	}
}
