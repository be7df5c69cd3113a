package commands

import (
	"context"
	"fmt"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/halo-client/pkg/halo"
)

// contentCommand describes a content resource managed through list, get,
// create and delete subcommands.
type contentCommand[T any] struct {
	use     string
	aliases []string
	kind    string
	list    func(ctx context.Context, client halo.Client, params *halo.ListParams) (*halo.ListResponse[T], error)
	get     func(ctx context.Context, client halo.Client, name string) (*T, error)
	remove  func(ctx context.Context, client halo.Client, name string) error
	header  []string
	row     func(item *T) []string
	create  func() *cobra.Command
}

func (c contentCommand[T]) build() *cobra.Command {
	cmd := &cobra.Command{
		Use:     c.use,
		Aliases: c.aliases,
		Short:   "Manage " + c.use,
		Long:    "List, create and delete " + c.use,
	}

	params := &halo.ListParams{}

	list := &cobra.Command{
		Use:   "list",
		Short: "List " + c.use,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			result, err := c.list(cmd.Context(), client, params)
			if err != nil {
				return fmt.Errorf("failed to list %s: %w", c.use, err)
			}

			return render(cmd, result, c.header, func(table *tablewriter.Table) {
				for i := range result.Items {
					_ = table.Append(c.row(&result.Items[i]))
				}
			})
		},
	}
	addPagingFlags(list, params)

	get := &cobra.Command{
		Use:   "get NAME",
		Short: "Get " + c.kind + " details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			item, err := c.get(cmd.Context(), client, args[0])
			if err != nil {
				return fmt.Errorf("failed to get %s: %w", c.kind, err)
			}

			return render(cmd, item, c.header, func(table *tablewriter.Table) {
				_ = table.Append(c.row(item))
			})
		},
	}

	remove := &cobra.Command{
		Use:   "delete NAME",
		Short: "Delete a " + c.kind,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			err = c.remove(cmd.Context(), client, args[0])
			if err != nil {
				return fmt.Errorf("failed to delete %s: %w", c.kind, err)
			}

			printf(cmd, "%s %s deleted\n", c.kind, args[0])

			return nil
		},
	}

	cmd.AddCommand(list, get, c.create(), remove)

	return cmd
}

// NewCategoriesCommand creates the categories command group.
func NewCategoriesCommand() *cobra.Command {
	return contentCommand[halo.Category]{
		use:     "categories",
		aliases: []string{"category", "cat"},
		kind:    "category",
		list: func(ctx context.Context, client halo.Client, params *halo.ListParams) (*halo.ListResponse[halo.Category], error) {
			return client.Categories().List(ctx, params)
		},
		get: func(ctx context.Context, client halo.Client, name string) (*halo.Category, error) {
			return client.Categories().Get(ctx, name)
		},
		remove: func(ctx context.Context, client halo.Client, name string) error {
			return client.Categories().Delete(ctx, name)
		},
		header: []string{"Name", "Display Name", "Slug", "Priority", "Posts"},
		row: func(item *halo.Category) []string {
			return []string{
				item.Metadata.Name,
				cell(item.Spec.DisplayName),
				cell(item.Spec.Slug),
				strconv.Itoa(item.Spec.Priority),
				strconv.Itoa(item.Status.PostCount),
			}
		},
		create: newCategoriesCreateCommand,
	}.build()
}

func newCategoriesCreateCommand() *cobra.Command {
	request := &halo.CategoryCreateRequest{}

	cmd := &cobra.Command{
		Use:   "create DISPLAY_NAME",
		Short: "Create a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			request.DisplayName = args[0]

			client, err := CreateClient()
			if err != nil {
				return err
			}

			category, err := client.Categories().Create(cmd.Context(), request)
			if err != nil {
				return fmt.Errorf("failed to create category: %w", err)
			}

			printf(cmd, "Category %s created\n", category.Metadata.Name)

			return nil
		},
	}

	cmd.Flags().StringVar(&request.Slug, "slug", "", "URL slug (derived from the name when empty)")
	cmd.Flags().StringVar(&request.Description, "description", "", "description")
	cmd.Flags().IntVar(&request.Priority, "priority", 0, "sort priority")

	return cmd
}

// NewTagsCommand creates the tags command group.
func NewTagsCommand() *cobra.Command {
	return contentCommand[halo.Tag]{
		use:     "tags",
		aliases: []string{"tag"},
		kind:    "tag",
		list: func(ctx context.Context, client halo.Client, params *halo.ListParams) (*halo.ListResponse[halo.Tag], error) {
			return client.Tags().List(ctx, params)
		},
		get: func(ctx context.Context, client halo.Client, name string) (*halo.Tag, error) {
			return client.Tags().Get(ctx, name)
		},
		remove: func(ctx context.Context, client halo.Client, name string) error {
			return client.Tags().Delete(ctx, name)
		},
		header: []string{"Name", "Display Name", "Slug", "Color", "Posts"},
		row: func(item *halo.Tag) []string {
			return []string{
				item.Metadata.Name,
				cell(item.Spec.DisplayName),
				cell(item.Spec.Slug),
				cell(item.Spec.Color),
				strconv.Itoa(item.Status.PostCount),
			}
		},
		create: newTagsCreateCommand,
	}.build()
}

func newTagsCreateCommand() *cobra.Command {
	request := &halo.TagCreateRequest{}

	cmd := &cobra.Command{
		Use:   "create DISPLAY_NAME",
		Short: "Create a tag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			request.DisplayName = args[0]

			client, err := CreateClient()
			if err != nil {
				return err
			}

			tag, err := client.Tags().Create(cmd.Context(), request)
			if err != nil {
				return fmt.Errorf("failed to create tag: %w", err)
			}

			printf(cmd, "Tag %s created\n", tag.Metadata.Name)

			return nil
		},
	}

	cmd.Flags().StringVar(&request.Slug, "slug", "", "URL slug (derived from the name when empty)")
	cmd.Flags().StringVar(&request.Color, "color", "", "hex color such as #3b82f6")

	return cmd
}
