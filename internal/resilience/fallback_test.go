package resilience_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	halohttp "github.com/fivetwenty-io/halo-client/internal/http"
	"github.com/fivetwenty-io/halo-client/internal/resilience"
	"github.com/fivetwenty-io/halo-client/pkg/halo"
	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func leg(name string, value string, err error, calls *atomic.Int32) resilience.Leg[string] {
	return resilience.Leg[string]{
		Name: name,
		Call: func(context.Context) (string, error) {
			calls.Add(1)

			return value, err
		},
	}
}

func TestFallback_PrimarySucceeds(t *testing.T) {
	t.Parallel()

	var primaryCalls, secondaryCalls atomic.Int32

	result, err := resilience.Fallback(context.Background(), nil, "upload-from-url",
		leg("uc", "primary", nil, &primaryCalls),
		leg("console", "secondary", nil, &secondaryCalls),
	)

	require.NoError(t, err)
	assert.Equal(t, "primary", result)
	assert.Equal(t, int32(1), primaryCalls.Load())
	assert.Equal(t, int32(0), secondaryCalls.Load())
}

func TestFallback_SecondaryRescues(t *testing.T) {
	t.Parallel()

	var primaryCalls, secondaryCalls atomic.Int32

	var buf bytes.Buffer

	logger := hclog.New(&hclog.LoggerOptions{Output: &buf, Level: hclog.Warn})

	result, err := resilience.Fallback(context.Background(), logger, "upload-from-url",
		leg("uc", "", &halo.NetworkError{StatusCode: 400, Detail: "unsupported"}, &primaryCalls),
		leg("console", "secondary", nil, &secondaryCalls),
	)

	require.NoError(t, err)
	assert.Equal(t, "secondary", result)
	assert.Equal(t, int32(1), primaryCalls.Load())
	assert.Equal(t, int32(1), secondaryCalls.Load())
	assert.Contains(t, buf.String(), "unsupported")
}

func TestFallback_BothFail(t *testing.T) {
	t.Parallel()

	var primaryCalls, secondaryCalls atomic.Int32

	primaryErr := &halo.NetworkError{StatusCode: 400, Detail: "bad url"}
	secondaryErr := &halo.ResourceNotFoundError{Resource: "attachments", Path: "/legacy"}

	_, err := resilience.Fallback(context.Background(), nil, "upload-from-url",
		leg("uc", "", primaryErr, &primaryCalls),
		leg("console", "", secondaryErr, &secondaryCalls),
	)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad url")
	assert.Contains(t, err.Error(), "/legacy")
	assert.Contains(t, err.Error(), "primary uc")
	assert.Contains(t, err.Error(), "secondary console")

	var fallbackErr *resilience.FallbackError
	require.ErrorAs(t, err, &fallbackErr)
	assert.Len(t, fallbackErr.Causes(), 2)
	assert.Equal(t, "uc", fallbackErr.Primary)
	assert.Equal(t, "console", fallbackErr.Secondary)

	require.ErrorIs(t, err, primaryErr)
	assert.True(t, halo.IsNotFound(err))
	assert.Equal(t, int32(1), primaryCalls.Load())
	assert.Equal(t, int32(1), secondaryCalls.Load())
}

func TestFallback_CancelledAfterPrimary(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())

	var secondaryCalls atomic.Int32

	primary := resilience.Leg[string]{
		Name: "uc",
		Call: func(context.Context) (string, error) {
			cancel()

			return "", errors.New("interrupted")
		},
	}

	_, err := resilience.Fallback(ctx, nil, "upload-from-url", primary, leg("console", "x", nil, &secondaryCalls))
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, int32(0), secondaryCalls.Load())
}

func TestFallback_OverHTTP(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		var body map[string]string

		_ = json.NewDecoder(request.Body).Decode(&body)

		switch request.URL.Path {
		case "/primary":
			assert.NotContains(t, body, "policyName")
			writer.WriteHeader(http.StatusBadRequest)
			_, _ = writer.Write([]byte(`{"detail":"not supported"}`))
		case "/secondary":
			assert.Equal(t, "default-policy", body["policyName"])
			_, _ = writer.Write([]byte(`{"metadata":{"name":"from-secondary"}}`))
		}
	}))
	defer server.Close()

	client := halohttp.NewClient(server.URL, nil)

	call := func(path string, body map[string]string) func(context.Context) ([]byte, error) {
		return func(ctx context.Context) ([]byte, error) {
			resp, err := client.Post(ctx, path, body)
			if err != nil {
				return nil, err
			}

			return resp.Body, nil
		}
	}

	result, err := resilience.Fallback(context.Background(), nil, "upload-from-url",
		resilience.Leg[[]byte]{Name: "uc", Call: call("/primary", map[string]string{"url": "u", "filename": "f"})},
		resilience.Leg[[]byte]{Name: "console", Call: call("/secondary", map[string]string{
			"url": "u", "filename": "f", "policyName": "default-policy",
		})},
	)

	require.NoError(t, err)
	assert.JSONEq(t, `{"metadata":{"name":"from-secondary"}}`, string(result))
}
