package halo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/hashicorp/go-hclog"
)

// Defaults applied by Config.ApplyDefaults.
const (
	DefaultBaseURL    = "http://localhost:8091"
	DefaultTimeout    = 30 * time.Second
	DefaultMaxRetries = 3
	DefaultRetryDelay = time.Second
	DefaultPolicyName = "default-policy"
	DefaultUserAgent  = "halo-client/dev"
)

// AttachmentsClient manages attachments, attachment groups and storage policies.
type AttachmentsClient interface {
	List(ctx context.Context, params *AttachmentListParams) (*ListResponse[Attachment], error)
	Get(ctx context.Context, name string) (*Attachment, error)
	Upload(ctx context.Context, target *UploadTarget) (*UploadResult, error)
	UploadFromURL(ctx context.Context, target *UploadTarget) (*Attachment, error)
	Delete(ctx context.Context, name string) error
	ListGroups(ctx context.Context, params *ListParams) (*ListResponse[Group], error)
	CreateGroup(ctx context.Context, displayName string) (*Group, error)
	ListPolicies(ctx context.Context) (*ListResponse[Policy], error)
}

// CategoriesClient manages post categories.
type CategoriesClient interface {
	List(ctx context.Context, params *ListParams) (*ListResponse[Category], error)
	Get(ctx context.Context, name string) (*Category, error)
	Create(ctx context.Context, request *CategoryCreateRequest) (*Category, error)
	Delete(ctx context.Context, name string) error
}

// TagsClient manages post tags.
type TagsClient interface {
	List(ctx context.Context, params *ListParams) (*ListResponse[Tag], error)
	Get(ctx context.Context, name string) (*Tag, error)
	Create(ctx context.Context, request *TagCreateRequest) (*Tag, error)
	Delete(ctx context.Context, name string) error
}

// PostsClient manages posts.
type PostsClient interface {
	List(ctx context.Context, params *PostListParams) (*ListResponse[ListedPost], error)
	Get(ctx context.Context, name string) (*Post, error)
	Create(ctx context.Context, request *PostCreateRequest) (*Post, error)
	Publish(ctx context.Context, name string) (*Post, error)
	Unpublish(ctx context.Context, name string) (*Post, error)
	Delete(ctx context.Context, name string) error
}

// Client provides access to every resource client.
type Client interface {
	Attachments() AttachmentsClient
	Categories() CategoriesClient
	Tags() TagsClient
	Posts() PostsClient

	// Authenticate forces a fresh credential exchange.
	Authenticate(ctx context.Context) error
	// EnsureAuthenticated authenticates only if no token is installed yet.
	EnsureAuthenticated(ctx context.Context) error
}

// Config represents client configuration for building a halo.Client.
//
// # Authentication precedence
//
// Credentials are resolved once, when the client is built:
//  1. Token: if set, it is used directly as a static Bearer token.
//  2. Username/Password: exchanged for a token through the console login
//     endpoint on first use.
//  3. Neither: building the client fails with a ConfigurationError.
//
// # Retries
//
// MaxRetries and RetryDelay govern operations that run through the retry
// executor (attachment upload). Delays double after every attempt.
type Config struct {
	// BaseURL is the Halo site root, e.g. "https://blog.example.com".
	BaseURL string `validate:"required,url"`

	// Token is a personal access token. When set, Username and Password
	// are ignored.
	Token string
	// Username and Password are exchanged for a token when Token is empty.
	Username string
	Password string

	// Timeout bounds every HTTP request.
	Timeout time.Duration `validate:"gt=0"`
	// MaxRetries is the number of retries after the first attempt. Nil
	// means DefaultMaxRetries; use Retries(0) to disable retrying.
	MaxRetries *int `validate:"omitempty,gte=0,lte=16"`
	// RetryDelay is the delay before the first retry.
	RetryDelay time.Duration `validate:"gt=0,lte=1h"`

	UserAgent string
	// Debug enables request/response logging at DEBUG level.
	Debug bool
	// Logger receives structured logs. Nil disables logging.
	Logger hclog.Logger `validate:"-"`
}

// ApplyDefaults fills zero values with the package defaults.
func (c *Config) ApplyDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}

	c.BaseURL = strings.TrimSuffix(c.BaseURL, "/")

	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}

	if c.MaxRetries == nil {
		c.MaxRetries = Retries(DefaultMaxRetries)
	}

	if c.RetryDelay == 0 {
		c.RetryDelay = DefaultRetryDelay
	}

	if c.UserAgent == "" {
		c.UserAgent = DefaultUserAgent
	}

	if c.Logger == nil {
		c.Logger = hclog.NewNullLogger()
	}
}

// Retries returns a retry count for Config.MaxRetries.
func Retries(n int) *int {
	return &n
}

// Validate checks the structural constraints of the configuration.
// Credential resolution is done separately by the auth package.
func (c *Config) Validate() error {
	if c == nil {
		return ErrConfigRequired
	}

	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validating config: %w", err)
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Field(), fe.Tag()))
	}

	return &ConfigurationError{Message: strings.Join(msgs, "; ")}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validator returns the shared struct validator.
func Validator() *validator.Validate {
	return validate
}
