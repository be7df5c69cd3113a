package resilience

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	halohttp "github.com/fivetwenty-io/halo-client/internal/http"
	"github.com/fivetwenty-io/halo-client/pkg/halo"
)

// DegradedStatus marks a 2xx payload whose body could not be parsed.
const DegradedStatus = halo.UploadStatusNoJSON

// DegradedPayload is returned in place of a body that is not JSON. The
// upstream side effect happened, so the call still counts as a success.
type DegradedPayload struct {
	Status string `json:"status"`
	Text   string `json:"text"`
}

// Classify turns the result of one transport call into an Outcome carrying
// the JSON body.
//
//   - 2xx: success; a body that is not JSON becomes a DegradedPayload.
//   - 401, 403, 404: permanent.
//   - 5xx: retryable.
//   - other 4xx: permanent.
//   - any other status: permanent.
//   - transport faults and unexpected errors: retryable.
//   - configuration errors and context cancellation: permanent.
func Classify(resp *halohttp.Response, err error) Outcome[json.RawMessage] {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return Permanent[json.RawMessage](err)
	}

	var malformed *halo.MalformedResponseError
	if errors.As(err, &malformed) {
		return Success(degraded(malformed.Body))
	}

	if resp == nil {
		return classifyError(err)
	}

	switch code := resp.StatusCode; {
	case code >= 200 && code < 300:
		if err != nil {
			return classifyError(err)
		}

		if !resp.JSON() {
			return Success(degraded(string(resp.Body)))
		}

		return Success(json.RawMessage(resp.Body))
	case code == http.StatusUnauthorized, code == http.StatusForbidden, code == http.StatusNotFound:
		return Permanent[json.RawMessage](errOrStatus(err, resp))
	case code >= 500:
		return Retryable[json.RawMessage](errOrStatus(err, resp))
	case code >= 400:
		return Permanent[json.RawMessage](errOrStatus(err, resp))
	default:
		return Permanent[json.RawMessage](&halo.NetworkError{
			StatusCode: code,
			Detail:     fmt.Sprintf("unexpected status code %d", code),
		})
	}
}

func classifyError(err error) Outcome[json.RawMessage] {
	if err == nil {
		return Permanent[json.RawMessage](ErrNoResponse)
	}

	var (
		cfgErr   *halo.ConfigurationError
		authErr  *halo.AuthenticationError
		authzErr *halo.AuthorizationError
		notFound *halo.ResourceNotFoundError
	)

	switch {
	case errors.As(err, &cfgErr), errors.As(err, &authErr), errors.As(err, &authzErr), errors.As(err, &notFound):
		return Permanent[json.RawMessage](err)
	default:
		return Retryable[json.RawMessage](err)
	}
}

func errOrStatus(err error, resp *halohttp.Response) error {
	if err != nil {
		return err
	}

	return &halo.NetworkError{StatusCode: resp.StatusCode, Detail: halo.ParseErrorDetail(resp.Body)}
}

func degraded(text string) json.RawMessage {
	data, _ := json.Marshal(DegradedPayload{Status: DegradedStatus, Text: text})

	return data
}

// ErrNoResponse is reported when a transport call returned neither a
// response nor an error.
var ErrNoResponse = errors.New("no response received")
