package haloclient_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fivetwenty-io/halo-client/pkg/halo"
	"github.com/fivetwenty-io/halo-client/pkg/haloclient"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryPersister struct {
	mu     sync.Mutex
	tokens map[string]string
}

func (m *memoryPersister) SaveToken(baseURL, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.tokens == nil {
		m.tokens = map[string]string{}
	}

	m.tokens[baseURL] = token

	return nil
}

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("nil config", func(t *testing.T) {
		t.Parallel()

		_, err := haloclient.New(nil)
		require.ErrorIs(t, err, halo.ErrConfigRequired)
	})

	t.Run("missing credentials", func(t *testing.T) {
		t.Parallel()

		_, err := haloclient.New(&halo.Config{BaseURL: "https://blog.example.com"})
		assert.True(t, halo.IsConfigurationError(err))
	})

	t.Run("does not modify config", func(t *testing.T) {
		t.Parallel()

		config := &halo.Config{BaseURL: "blog.example.com/", Token: "pat"}

		client, err := haloclient.New(config)
		require.NoError(t, err)
		assert.NotNil(t, client)
		assert.Equal(t, "blog.example.com/", config.BaseURL)
	})
}

func TestNewWithToken(t *testing.T) {
	t.Parallel()

	client, err := haloclient.NewWithToken("https://blog.example.com", "pat")
	require.NoError(t, err)
	assert.NotNil(t, client)
}

func TestNewWithPassword(t *testing.T) {
	t.Parallel()

	client, err := haloclient.NewWithPassword("https://blog.example.com", "admin", "secret")
	require.NoError(t, err)
	assert.NotNil(t, client)
}

func TestClientIntegration(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		switch request.URL.Path {
		case "/apis/api.console.halo.run/v1alpha1/auth/login":
			_ = json.NewEncoder(writer).Encode(map[string]string{"access_token": "jwt"})
		case "/apis/content.halo.run/v1alpha1/tags":
			if request.Header.Get("Authorization") != "Bearer jwt" {
				writer.WriteHeader(http.StatusUnauthorized)

				return
			}

			_, _ = writer.Write([]byte(`{"total":1,"items":[{"metadata":{"name":"tag-1"},"spec":{"displayName":"Go","slug":"go"}}]}`))
		default:
			writer.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	persister := &memoryPersister{}

	client, err := haloclient.New(&halo.Config{
		BaseURL:  server.URL,
		Username: "admin",
		Password: "secret",
	}, haloclient.WithTokenPersister(persister))
	require.NoError(t, err)

	tags, err := client.Tags().List(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 1, tags.Total)
	assert.Equal(t, "jwt", persister.tokens[server.URL])
}

func TestNew_TokenWithLeftoverUsername(t *testing.T) {
	t.Parallel()

	var logins atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if request.URL.Path == "/apis/api.console.halo.run/v1alpha1/auth/login" {
			logins.Add(1)
		}

		assert.Equal(t, "Bearer tok", request.Header.Get("Authorization"))
		_, _ = writer.Write([]byte(`{"total":0,"items":[]}`))
	}))
	defer server.Close()

	client, err := haloclient.New(&halo.Config{BaseURL: server.URL, Token: "tok", Username: "leftover"})
	require.NoError(t, err)

	_, err = client.Tags().List(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, int32(0), logins.Load())
}

func TestNew_UploadRetriesServerErrorsByDefault(t *testing.T) {
	t.Parallel()

	var attempts atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		attempts.Add(1)
		writer.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client, err := haloclient.New(&halo.Config{BaseURL: server.URL, Token: "tok", RetryDelay: time.Millisecond})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("hi"), 0o600))

	_, err = client.Attachments().Upload(context.Background(), &halo.UploadTarget{FilePath: path})
	require.Error(t, err)
	assert.Equal(t, 500, halo.StatusCode(err))
	assert.Equal(t, int32(halo.DefaultMaxRetries+1), attempts.Load())
}
