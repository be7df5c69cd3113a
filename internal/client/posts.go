package client

import (
	"bytes"
	"context"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/fivetwenty-io/halo-client/internal/constants"
	internalhttp "github.com/fivetwenty-io/halo-client/internal/http"
	"github.com/fivetwenty-io/halo-client/internal/resilience"
	"github.com/fivetwenty-io/halo-client/pkg/halo"
)

const rawTypeMarkdown = "markdown"

// PostsClient implements the halo.PostsClient interface.
type PostsClient struct {
	resource

	markdown goldmark.Markdown
}

// NewPostsClient creates a new PostsClient.
func NewPostsClient(httpClient *internalhttp.Client, session resilience.Authenticator) *PostsClient {
	return &PostsClient{
		resource: resource{httpClient: httpClient, session: session},
		markdown: goldmark.New(goldmark.WithExtensions(extension.GFM)),
	}
}

// List lists posts through the console API, with their categories and tags.
func (c *PostsClient) List(ctx context.Context, params *halo.PostListParams) (*halo.ListResponse[halo.ListedPost], error) {
	var result halo.ListResponse[halo.ListedPost]

	err := c.getJSON(ctx, constants.PathConsolePosts, params.ToValues(), &result, "listing posts")
	if err != nil {
		return nil, err
	}

	return &result, nil
}

// Get retrieves a post by name.
func (c *PostsClient) Get(ctx context.Context, name string) (*halo.Post, error) {
	if name == "" {
		return nil, halo.ErrNameRequired
	}

	var post halo.Post

	err := c.getJSON(ctx, constants.PathPosts+"/"+name, nil, &post, "getting post")
	if err != nil {
		return nil, err
	}

	return &post, nil
}

// Create creates a draft post and publishes it when request.Publish is set.
// Markdown content is rendered to HTML before it is sent.
func (c *PostsClient) Create(ctx context.Context, request *halo.PostCreateRequest) (*halo.Post, error) {
	if request == nil {
		return nil, halo.ErrTitleRequired
	}

	err := halo.Validator().Struct(request)
	if err != nil {
		return nil, fmt.Errorf("invalid post: %w", err)
	}

	body, err := c.buildPostRequest(request)
	if err != nil {
		return nil, err
	}

	var created halo.Post

	err = c.sendJSON(ctx, http.MethodPost, constants.PathConsolePosts, body, &created, "creating post")
	if err != nil {
		return nil, err
	}

	if !request.Publish {
		return &created, nil
	}

	return c.Publish(ctx, created.Metadata.Name)
}

// Publish publishes a post.
func (c *PostsClient) Publish(ctx context.Context, name string) (*halo.Post, error) {
	return c.action(ctx, name, "publish", "publishing post")
}

// Unpublish takes a post offline.
func (c *PostsClient) Unpublish(ctx context.Context, name string) (*halo.Post, error) {
	return c.action(ctx, name, "unpublish", "unpublishing post")
}

// Delete moves a post to the recycle bin.
func (c *PostsClient) Delete(ctx context.Context, name string) error {
	_, err := c.action(ctx, name, "recycle", "deleting post")

	return err
}

func (c *PostsClient) action(ctx context.Context, name, verb, description string) (*halo.Post, error) {
	if name == "" {
		return nil, halo.ErrNameRequired
	}

	var post halo.Post

	path := constants.PathConsolePosts + "/" + name + "/" + verb

	err := c.sendJSON(ctx, http.MethodPut, path, nil, &post, description)
	if err != nil {
		return nil, err
	}

	return &post, nil
}

func (c *PostsClient) buildPostRequest(request *halo.PostCreateRequest) (*halo.PostRequest, error) {
	rawType := request.RawType
	if rawType == "" {
		rawType = rawTypeMarkdown
	}

	rendered := request.Content

	if rawType == rawTypeMarkdown {
		var buf bytes.Buffer

		err := c.markdown.Convert([]byte(request.Content), &buf)
		if err != nil {
			return nil, fmt.Errorf("rendering markdown: %w", err)
		}

		rendered = buf.String()
	}

	return &halo.PostRequest{
		Post: halo.Post{
			TypeMeta: halo.TypeMeta{APIVersion: constants.ContentAPIVersion, Kind: "Post"},
			Metadata: halo.Metadata{Name: uuid.NewString()},
			Spec: halo.PostSpec{
				Title:        request.Title,
				Slug:         slugOrDefault(request.Slug, request.Title),
				Cover:        request.Cover,
				AllowComment: true,
				Visible:      "PUBLIC",
				Excerpt: halo.PostExcerpt{
					AutoGenerate: request.Excerpt == "",
					Raw:          request.Excerpt,
				},
				Categories: request.Categories,
				Tags:       request.Tags,
			},
		},
		Content: halo.PostContent{
			Raw:     request.Content,
			Content: rendered,
			RawType: rawType,
		},
	}, nil
}
