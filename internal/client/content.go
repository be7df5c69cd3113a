package client

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"unicode"

	internalhttp "github.com/fivetwenty-io/halo-client/internal/http"
	"github.com/fivetwenty-io/halo-client/internal/resilience"
	"github.com/fivetwenty-io/halo-client/pkg/halo"
)

// ContentClient is a generic client for simple content extensions that are
// listed, fetched, created from a request type and deleted by name.
type ContentClient[T any, R any] struct {
	resource

	path  string
	kind  string
	build func(request *R) *T
}

// NewContentClient creates a client for the extension stored under path.
func NewContentClient[T any, R any](httpClient *internalhttp.Client, session resilience.Authenticator, path, kind string, build func(*R) *T) *ContentClient[T, R] {
	return &ContentClient[T, R]{
		resource: resource{httpClient: httpClient, session: session},
		path:     path,
		kind:     kind,
		build:    build,
	}
}

// List lists extensions.
func (c *ContentClient[T, R]) List(ctx context.Context, params *halo.ListParams) (*halo.ListResponse[T], error) {
	var result halo.ListResponse[T]

	err := c.getJSON(ctx, c.path, params.ToValues(), &result, "listing "+c.kind+"s")
	if err != nil {
		return nil, err
	}

	return &result, nil
}

// Get retrieves one extension by name.
func (c *ContentClient[T, R]) Get(ctx context.Context, name string) (*T, error) {
	if name == "" {
		return nil, halo.ErrNameRequired
	}

	var item T

	err := c.getJSON(ctx, c.path+"/"+name, nil, &item, "getting "+c.kind)
	if err != nil {
		return nil, err
	}

	return &item, nil
}

// Create validates request and creates the extension built from it.
func (c *ContentClient[T, R]) Create(ctx context.Context, request *R) (*T, error) {
	if request == nil {
		return nil, halo.ErrDisplayNameRequired
	}

	err := halo.Validator().Struct(request)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", c.kind, err)
	}

	var created T

	err = c.sendJSON(ctx, http.MethodPost, c.path, c.build(request), &created, "creating "+c.kind)
	if err != nil {
		return nil, err
	}

	return &created, nil
}

// Delete deletes an extension by name.
func (c *ContentClient[T, R]) Delete(ctx context.Context, name string) error {
	if name == "" {
		return halo.ErrNameRequired
	}

	return c.delete(ctx, c.path+"/"+name, "deleting "+c.kind)
}

// Slugify derives a URL slug from a display name. Letters of any script are
// kept; everything else collapses into single hyphens.
func Slugify(displayName string) string {
	var builder strings.Builder

	pendingHyphen := false

	for _, r := range strings.ToLower(strings.TrimSpace(displayName)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingHyphen && builder.Len() > 0 {
				builder.WriteByte('-')
			}

			builder.WriteRune(r)

			pendingHyphen = false

			continue
		}

		pendingHyphen = true
	}

	return builder.String()
}

func slugOrDefault(slug, displayName string) string {
	if slug != "" {
		return slug
	}

	return Slugify(displayName)
}
