package haloclient

import (
	"fmt"
	"strings"

	"github.com/fivetwenty-io/halo-client/internal/client"
	"github.com/fivetwenty-io/halo-client/pkg/halo"
)

// TokenPersister receives tokens issued by a password login so they can be
// reused by later processes.
type TokenPersister interface {
	SaveToken(baseURL, token string) error
}

// Option configures the client built by New.
type Option func(*[]client.Option)

// WithTokenPersister saves every token obtained by password login.
func WithTokenPersister(persister TokenPersister) Option {
	return func(opts *[]client.Option) {
		*opts = append(*opts, client.WithTokenPersister(persister))
	}
}

// New creates a new Halo API client. The endpoint gets an https scheme when
// it has none. No network call is made until the first operation.
func New(config *halo.Config, opts ...Option) (halo.Client, error) {
	if config == nil {
		return nil, halo.ErrConfigRequired
	}

	cfg := *config
	if cfg.BaseURL != "" {
		cfg.BaseURL = normalizeBaseURL(cfg.BaseURL)
	}

	var clientOpts []client.Option
	for _, opt := range opts {
		opt(&clientOpts)
	}

	c, err := client.New(&cfg, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create new client: %w", err)
	}

	return c, nil
}

func normalizeBaseURL(baseURL string) string {
	baseURL = strings.TrimSuffix(strings.TrimSpace(baseURL), "/")
	if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		baseURL = "https://" + baseURL
	}

	return baseURL
}

// NewWithToken creates a new client authenticated by a personal access token.
func NewWithToken(baseURL, token string) (halo.Client, error) {
	return New(&halo.Config{
		BaseURL: baseURL,
		Token:   token,
	})
}

// NewWithPassword creates a new client that logs in with username and
// password on first use.
func NewWithPassword(baseURL, username, password string) (halo.Client, error) {
	return New(&halo.Config{
		BaseURL:  baseURL,
		Username: username,
		Password: password,
	})
}
