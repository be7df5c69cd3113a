package tools

import (
	"context"
	"fmt"

	"github.com/fivetwenty-io/halo-client/pkg/halo"
)

const defaultPostPageSize = 20

type listPostsArgs struct {
	PageArgs `mapstructure:",squash"`

	Keyword      string `mapstructure:"keyword"`
	Category     string `mapstructure:"category"`
	Tag          string `mapstructure:"tag"`
	PublishPhase string `mapstructure:"publish_phase"`
}

type createPostArgs struct {
	Title      string   `mapstructure:"title"`
	Slug       string   `mapstructure:"slug"`
	Content    string   `mapstructure:"content"`
	RawType    string   `mapstructure:"raw_type"`
	Excerpt    string   `mapstructure:"excerpt"`
	Categories []string `mapstructure:"categories"`
	Tags       []string `mapstructure:"tags"`
	Cover      string   `mapstructure:"cover"`
	Publish    bool     `mapstructure:"publish"`
}

func (r *Registry) registerPostTools() {
	posts := r.client.Posts()

	register(r, Tool{
		Name:        "list_posts",
		Description: "List posts with their categories, tags and stats.",
		InputSchema: object(nil, with(pageProperties(defaultPostPageSize), map[string]Property{
			"keyword":       str("Search keyword"),
			"category":      str("Category name"),
			"tag":           str("Tag name"),
			"publish_phase": str("DRAFT, PENDING_APPROVAL, PUBLISHED or FAILED"),
		})),
	}, func(ctx context.Context, args listPostsArgs) (string, any, error) {
		result, err := posts.List(ctx, &halo.PostListParams{
			ListParams:   args.params(defaultPostPageSize),
			Keyword:      args.Keyword,
			Category:     args.Category,
			Tag:          args.Tag,
			PublishPhase: args.PublishPhase,
		})
		if err != nil {
			return "", nil, err
		}

		return fmt.Sprintf("Found %d posts", result.Total), result, nil
	})

	register(r, Tool{
		Name:        "get_post",
		Description: "Get a post by name.",
		InputSchema: object([]string{"name"}, map[string]Property{"name": str("Post name (required)")}),
	}, func(ctx context.Context, args nameArgs) (string, any, error) {
		post, err := posts.Get(ctx, args.Name)
		if err != nil {
			return "", nil, err
		}

		return "Post " + args.Name, post, nil
	})

	register(r, Tool{
		Name:        "create_post",
		Description: "Create a draft post from markdown or HTML content and optionally publish it.",
		InputSchema: object([]string{"title"}, map[string]Property{
			"title":      str("Title (required)"),
			"slug":       str("URL slug"),
			"content":    str("Post body"),
			"raw_type":   {Type: "string", Description: "markdown or html", Default: "markdown"},
			"excerpt":    str("Excerpt, generated when omitted"),
			"categories": stringList("Category names"),
			"tags":       stringList("Tag names"),
			"cover":      str("Cover image URL"),
			"publish":    boolean("Publish right after creation"),
		}),
	}, func(ctx context.Context, args createPostArgs) (string, any, error) {
		post, err := posts.Create(ctx, &halo.PostCreateRequest{
			Title:      args.Title,
			Slug:       args.Slug,
			Content:    args.Content,
			RawType:    args.RawType,
			Excerpt:    args.Excerpt,
			Categories: args.Categories,
			Tags:       args.Tags,
			Cover:      args.Cover,
			Publish:    args.Publish,
		})
		if err != nil {
			return "", nil, err
		}

		return "Post " + post.Metadata.Name + " created", post, nil
	})

	for _, action := range []struct {
		name, description, message string
		call                       func(context.Context, string) (*halo.Post, error)
	}{
		{"publish_post", "Publish a post.", "published", posts.Publish},
		{"unpublish_post", "Take a published post offline.", "unpublished", posts.Unpublish},
	} {
		register(r, Tool{
			Name:        action.name,
			Description: action.description,
			InputSchema: object([]string{"name"}, map[string]Property{"name": str("Post name (required)")}),
		}, func(ctx context.Context, args nameArgs) (string, any, error) {
			post, err := action.call(ctx, args.Name)
			if err != nil {
				return "", nil, err
			}

			return "Post " + args.Name + " " + action.message, post, nil
		})
	}

	register(r, Tool{
		Name:        "delete_post",
		Description: "Move a post to the recycle bin.",
		InputSchema: object([]string{"name"}, map[string]Property{"name": str("Post name (required)")}),
	}, func(ctx context.Context, args nameArgs) (string, any, error) {
		err := posts.Delete(ctx, args.Name)
		if err != nil {
			return "", nil, err
		}

		return "Post " + args.Name + " moved to the recycle bin", nil, nil
	})
}
