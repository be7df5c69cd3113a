package client

import (
	"context"

	"github.com/fivetwenty-io/halo-client/internal/auth"
	"github.com/fivetwenty-io/halo-client/internal/http"
	"github.com/fivetwenty-io/halo-client/internal/resilience"
	"github.com/fivetwenty-io/halo-client/pkg/halo"
	"github.com/hashicorp/go-hclog"
)

// Client implements the halo.Client interface.
type Client struct {
	httpClient *http.Client
	session    *auth.Manager
	executor   *resilience.Executor
	baseURL    string
	logger     hclog.Logger

	// Resource clients
	attachments *AttachmentsClient
	categories  *CategoriesClient
	tags        *TagsClient
	posts       *PostsClient
}

// Option configures a Client beyond halo.Config.
type Option func(*options)

type options struct {
	persister     auth.TokenPersister
	executorOpts  []resilience.ExecutorOption
	strategy      auth.Strategy
	skipResolving bool
}

// WithTokenPersister saves tokens obtained by password login.
func WithTokenPersister(persister auth.TokenPersister) Option {
	return func(o *options) {
		o.persister = persister
	}
}

// WithExecutorOptions passes options to the retry executor.
func WithExecutorOptions(opts ...resilience.ExecutorOption) Option {
	return func(o *options) {
		o.executorOpts = append(o.executorOpts, opts...)
	}
}

// WithStrategy uses strategy instead of resolving one from the config
// credentials. A nil strategy builds a client whose every call fails with a
// configuration error.
func WithStrategy(strategy auth.Strategy) Option {
	return func(o *options) {
		o.strategy = strategy
		o.skipResolving = true
	}
}

// createHTTPClientOptions builds HTTP client options from config.
func createHTTPClientOptions(config *halo.Config) []http.Option {
	httpOpts := []http.Option{
		http.WithLogger(config.Logger.Named("http")),
		http.WithTimeout(config.Timeout),
	}

	if config.Debug {
		httpOpts = append(httpOpts, http.WithDebug(true))
	}

	if config.UserAgent != "" {
		httpOpts = append(httpOpts, http.WithUserAgent(config.UserAgent))
	}

	return httpOpts
}

// New creates a new Halo API client. Credentials are resolved here, once; a
// config without a token or a username/password pair is rejected with a
// *halo.ConfigurationError.
func New(config *halo.Config, opts ...Option) (*Client, error) {
	if config == nil {
		return nil, halo.ErrConfigRequired
	}

	cfg := *config
	cfg.ApplyDefaults()

	err := cfg.Validate()
	if err != nil {
		return nil, err
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	strategy := o.strategy
	if !o.skipResolving {
		strategy, err = auth.ResolveStrategy(auth.Credentials{
			Token:    cfg.Token,
			Username: cfg.Username,
			Password: cfg.Password,
		})
		if err != nil {
			return nil, err
		}
	}

	httpOpts := createHTTPClientOptions(&cfg)

	sessionOpts := []auth.ManagerOption{auth.WithLogger(cfg.Logger.Named("auth"))}
	if o.persister != nil {
		sessionOpts = append(sessionOpts, auth.WithPersister(o.persister, cfg.BaseURL))
	}

	// The login call must go out without a bearer token.
	loginClient := http.NewClient(cfg.BaseURL, nil, httpOpts...)
	session := auth.NewManager(strategy, loginClient, sessionOpts...)

	httpClient := http.NewClient(cfg.BaseURL, session, httpOpts...)

	executorOpts := append([]resilience.ExecutorOption{resilience.WithLogger(cfg.Logger.Named("retry"))}, o.executorOpts...)

	executor, err := resilience.NewExecutor(
		resilience.Policy{MaxRetries: *cfg.MaxRetries, BaseDelay: cfg.RetryDelay},
		session,
		executorOpts...,
	)
	if err != nil {
		return nil, err
	}

	client := &Client{
		httpClient: httpClient,
		session:    session,
		executor:   executor,
		baseURL:    cfg.BaseURL,
		logger:     cfg.Logger,
	}

	client.initializeResourceClients()

	return client, nil
}

func (c *Client) initializeResourceClients() {
	c.attachments = NewAttachmentsClient(c.httpClient, c.session, c.executor, c.logger.Named("attachments"))
	c.categories = NewCategoriesClient(c.httpClient, c.session)
	c.tags = NewTagsClient(c.httpClient, c.session)
	c.posts = NewPostsClient(c.httpClient, c.session)
}

// Session returns the credential manager of this client.
func (c *Client) Session() *auth.Manager {
	return c.session
}

// BaseURL returns the Halo site root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Authenticate implements halo.Client.Authenticate.
func (c *Client) Authenticate(ctx context.Context) error {
	return c.session.Authenticate(ctx)
}

// EnsureAuthenticated implements halo.Client.EnsureAuthenticated.
func (c *Client) EnsureAuthenticated(ctx context.Context) error {
	return c.session.EnsureAuthenticated(ctx)
}

// Attachments implements halo.Client.Attachments.
func (c *Client) Attachments() halo.AttachmentsClient {
	return c.attachments
}

// Categories implements halo.Client.Categories.
func (c *Client) Categories() halo.CategoriesClient {
	return c.categories
}

// Tags implements halo.Client.Tags.
func (c *Client) Tags() halo.TagsClient {
	return c.tags
}

// Posts implements halo.Client.Posts.
func (c *Client) Posts() halo.PostsClient {
	return c.posts
}
