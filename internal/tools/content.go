package tools

import (
	"context"
	"fmt"

	"github.com/fivetwenty-io/halo-client/pkg/halo"
)

const defaultContentPageSize = 100

type createCategoryArgs struct {
	DisplayName string `mapstructure:"display_name"`
	Slug        string `mapstructure:"slug"`
	Description string `mapstructure:"description"`
	Priority    int    `mapstructure:"priority"`
}

type createTagArgs struct {
	DisplayName string `mapstructure:"display_name"`
	Slug        string `mapstructure:"slug"`
	Color       string `mapstructure:"color"`
}

func (r *Registry) registerCategoryTools() {
	categories := r.client.Categories()

	register(r, Tool{
		Name:        "list_categories",
		Description: "List post categories.",
		InputSchema: object(nil, pageProperties(defaultContentPageSize)),
	}, func(ctx context.Context, args PageArgs) (string, any, error) {
		params := args.params(defaultContentPageSize)

		result, err := categories.List(ctx, &params)
		if err != nil {
			return "", nil, err
		}

		return fmt.Sprintf("Found %d categories", result.Total), result, nil
	})

	register(r, Tool{
		Name:        "get_category",
		Description: "Get a category by name.",
		InputSchema: object([]string{"name"}, map[string]Property{"name": str("Category name (required)")}),
	}, func(ctx context.Context, args nameArgs) (string, any, error) {
		category, err := categories.Get(ctx, args.Name)
		if err != nil {
			return "", nil, err
		}

		return "Category " + args.Name, category, nil
	})

	register(r, Tool{
		Name:        "create_category",
		Description: "Create a category. The slug is derived from the display name when omitted.",
		InputSchema: object([]string{"display_name"}, map[string]Property{
			"display_name": str("Display name (required)"),
			"slug":         str("URL slug"),
			"description":  str("Description"),
			"priority":     number("Sort priority", 0),
		}),
	}, func(ctx context.Context, args createCategoryArgs) (string, any, error) {
		category, err := categories.Create(ctx, &halo.CategoryCreateRequest{
			DisplayName: args.DisplayName,
			Slug:        args.Slug,
			Description: args.Description,
			Priority:    args.Priority,
		})
		if err != nil {
			return "", nil, err
		}

		return "Category " + category.Metadata.Name + " created", category, nil
	})

	register(r, Tool{
		Name:        "delete_category",
		Description: "Delete a category by name.",
		InputSchema: object([]string{"name"}, map[string]Property{"name": str("Category name (required)")}),
	}, func(ctx context.Context, args nameArgs) (string, any, error) {
		err := categories.Delete(ctx, args.Name)
		if err != nil {
			return "", nil, err
		}

		return "Category " + args.Name + " deleted", nil, nil
	})
}

func (r *Registry) registerTagTools() {
	tags := r.client.Tags()

	register(r, Tool{
		Name:        "list_tags",
		Description: "List post tags.",
		InputSchema: object(nil, pageProperties(defaultContentPageSize)),
	}, func(ctx context.Context, args PageArgs) (string, any, error) {
		params := args.params(defaultContentPageSize)

		result, err := tags.List(ctx, &params)
		if err != nil {
			return "", nil, err
		}

		return fmt.Sprintf("Found %d tags", result.Total), result, nil
	})

	register(r, Tool{
		Name:        "get_tag",
		Description: "Get a tag by name.",
		InputSchema: object([]string{"name"}, map[string]Property{"name": str("Tag name (required)")}),
	}, func(ctx context.Context, args nameArgs) (string, any, error) {
		tag, err := tags.Get(ctx, args.Name)
		if err != nil {
			return "", nil, err
		}

		return "Tag " + args.Name, tag, nil
	})

	register(r, Tool{
		Name:        "create_tag",
		Description: "Create a tag. The slug is derived from the display name when omitted.",
		InputSchema: object([]string{"display_name"}, map[string]Property{
			"display_name": str("Display name (required)"),
			"slug":         str("URL slug"),
			"color":        str("Hex color such as #3b82f6"),
		}),
	}, func(ctx context.Context, args createTagArgs) (string, any, error) {
		tag, err := tags.Create(ctx, &halo.TagCreateRequest{
			DisplayName: args.DisplayName,
			Slug:        args.Slug,
			Color:       args.Color,
		})
		if err != nil {
			return "", nil, err
		}

		return "Tag " + tag.Metadata.Name + " created", tag, nil
	})

	register(r, Tool{
		Name:        "delete_tag",
		Description: "Delete a tag by name.",
		InputSchema: object([]string{"name"}, map[string]Property{"name": str("Tag name (required)")}),
	}, func(ctx context.Context, args nameArgs) (string, any, error) {
		err := tags.Delete(ctx, args.Name)
		if err != nil {
			return "", nil, err
		}

		return "Tag " + args.Name + " deleted", nil, nil
	})
}
