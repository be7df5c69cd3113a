package client

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/fivetwenty-io/halo-client/internal/resilience"
	"github.com/fivetwenty-io/halo-client/pkg/halo"
	"github.com/stretchr/testify/require"
)

const testToken = "pat_test"

// instantTimer fires immediately and records requested delays.
type instantTimer struct {
	mu     sync.Mutex
	delays []time.Duration
	c      chan time.Time
}

func (t *instantTimer) Start(duration time.Duration) {
	t.mu.Lock()
	t.delays = append(t.delays, duration)
	t.mu.Unlock()
	t.c <- time.Now()
}

func (t *instantTimer) Stop() {}

func (t *instantTimer) C() <-chan time.Time { return t.c }

func (t *instantTimer) Delays() []time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()

	return append([]time.Duration(nil), t.delays...)
}

// NewTestClient starts a server running handler and returns a token
// authenticated client pointed at it.
func NewTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *instantTimer) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	timer := &instantTimer{c: make(chan time.Time, 1)}

	client, err := New(&halo.Config{
		BaseURL:    server.URL,
		Token:      testToken,
		MaxRetries: halo.Retries(3),
		RetryDelay: time.Second,
	}, WithExecutorOptions(resilience.WithTimer(func() backoff.Timer { return timer })))
	require.NoError(t, err)

	return client, timer
}

func writeJSON(writer http.ResponseWriter, status int, body string) {
	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(status)
	_, _ = writer.Write([]byte(body))
}
