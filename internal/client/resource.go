package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/fivetwenty-io/halo-client/internal/http"
	"github.com/fivetwenty-io/halo-client/internal/resilience"
)

// resource holds what every resource client needs: a transport and the
// session that must be authenticated before each call.
type resource struct {
	httpClient *http.Client
	session    resilience.Authenticator
}

func (r resource) ensureAuthenticated(ctx context.Context) error {
	if r.session == nil {
		return nil
	}

	return r.session.EnsureAuthenticated(ctx)
}

func (r resource) getJSON(ctx context.Context, path string, query url.Values, out interface{}, action string) error {
	err := r.ensureAuthenticated(ctx)
	if err != nil {
		return err
	}

	resp, err := r.httpClient.Get(ctx, path, query)
	if err != nil {
		return fmt.Errorf("%s: %w", action, err)
	}

	return decode(resp.Body, out, action)
}

func (r resource) sendJSON(ctx context.Context, method, path string, body, out interface{}, action string) error {
	err := r.ensureAuthenticated(ctx)
	if err != nil {
		return err
	}

	resp, err := r.httpClient.Do(ctx, &http.Request{Method: method, Path: path, Body: body})
	if err != nil {
		return fmt.Errorf("%s: %w", action, err)
	}

	return decode(resp.Body, out, action)
}

func (r resource) delete(ctx context.Context, path, action string) error {
	err := r.ensureAuthenticated(ctx)
	if err != nil {
		return err
	}

	_, err = r.httpClient.Delete(ctx, path)
	if err != nil {
		return fmt.Errorf("%s: %w", action, err)
	}

	return nil
}

func decode(body []byte, out interface{}, action string) error {
	if out == nil || len(body) == 0 {
		return nil
	}

	err := json.Unmarshal(body, out)
	if err != nil {
		return fmt.Errorf("%s: parsing response: %w", action, err)
	}

	return nil
}
