package commands

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/halo-client/pkg/halo"
)

// NewPostsCommand creates the posts command group.
func NewPostsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "posts",
		Aliases: []string{"post"},
		Short:   "Manage posts",
		Long:    "List, create, publish and delete posts",
	}

	cmd.AddCommand(newPostsListCommand())
	cmd.AddCommand(newPostsGetCommand())
	cmd.AddCommand(newPostsCreateCommand())
	cmd.AddCommand(newPostsActionCommand("publish", "Publish a post", "published",
		func(cmd *cobra.Command, client halo.Client, name string) error {
			_, err := client.Posts().Publish(cmd.Context(), name)

			return err
		}))
	cmd.AddCommand(newPostsActionCommand("unpublish", "Take a post offline", "unpublished",
		func(cmd *cobra.Command, client halo.Client, name string) error {
			_, err := client.Posts().Unpublish(cmd.Context(), name)

			return err
		}))
	cmd.AddCommand(newPostsActionCommand("delete", "Move a post to the recycle bin", "moved to the recycle bin",
		func(cmd *cobra.Command, client halo.Client, name string) error {
			return client.Posts().Delete(cmd.Context(), name)
		}))

	return cmd
}

func newPostsListCommand() *cobra.Command {
	params := &halo.PostListParams{}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List posts",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			result, err := client.Posts().List(cmd.Context(), params)
			if err != nil {
				return fmt.Errorf("failed to list posts: %w", err)
			}

			return render(cmd, result, []string{"Name", "Title", "Phase", "Visible", "Tags", "Visits"}, func(table *tablewriter.Table) {
				for _, item := range result.Items {
					tags := make([]string, 0, len(item.Tags))
					for _, tag := range item.Tags {
						tags = append(tags, tag.Spec.DisplayName)
					}

					_ = table.Append([]string{
						item.Post.Metadata.Name,
						cell(item.Post.Spec.Title),
						cell(item.Post.Status.Phase),
						cell(item.Post.Spec.Visible),
						cell(strings.Join(tags, ", ")),
						strconv.Itoa(item.Stats.Visit),
					})
				}
			})
		},
	}

	addPagingFlags(cmd, &params.ListParams)
	cmd.Flags().StringVarP(&params.Keyword, "keyword", "k", "", "search keyword")
	cmd.Flags().StringVar(&params.Category, "category", "", "category name")
	cmd.Flags().StringVar(&params.Tag, "tag", "", "tag name")
	cmd.Flags().StringVar(&params.PublishPhase, "phase", "", "publish phase: DRAFT, PENDING_APPROVAL, PUBLISHED or FAILED")
	cmd.Flags().StringVar(&params.Visible, "visible", "", "visibility: PUBLIC, INTERNAL or PRIVATE")

	return cmd
}

func renderPost(cmd *cobra.Command, post *halo.Post) error {
	return render(cmd, post, []string{"Property", "Value"}, func(table *tablewriter.Table) {
		_ = table.Append("Name", post.Metadata.Name)
		_ = table.Append("Title", cell(post.Spec.Title))
		_ = table.Append("Slug", cell(post.Spec.Slug))
		_ = table.Append("Published", strconv.FormatBool(post.Spec.Publish))
		_ = table.Append("Phase", cell(post.Status.Phase))
		_ = table.Append("Categories", cell(strings.Join(post.Spec.Categories, ", ")))
		_ = table.Append("Tags", cell(strings.Join(post.Spec.Tags, ", ")))
		_ = table.Append("Permalink", cell(post.Status.Permalink))
	})
}

func newPostsGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get NAME",
		Short: "Get post details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			post, err := client.Posts().Get(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to get post: %w", err)
			}

			return renderPost(cmd, post)
		},
	}
}

func newPostsCreateCommand() *cobra.Command {
	var (
		request     halo.PostCreateRequest
		contentFile string
	)

	cmd := &cobra.Command{
		Use:   "create TITLE",
		Short: "Create a post",
		Long:  "Create a draft post from markdown or HTML content. Use --publish to publish it right away.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			request.Title = args[0]

			if contentFile != "" {
				// #nosec G304 -- reading a file named by the user is the point
				content, err := os.ReadFile(contentFile)
				if err != nil {
					return fmt.Errorf("failed to read content file: %w", err)
				}

				request.Content = string(content)
			}

			client, err := CreateClient()
			if err != nil {
				return err
			}

			post, err := client.Posts().Create(cmd.Context(), &request)
			if err != nil {
				return fmt.Errorf("failed to create post: %w", err)
			}

			return renderPost(cmd, post)
		},
	}

	cmd.Flags().StringVar(&request.Slug, "slug", "", "URL slug (derived from the title when empty)")
	cmd.Flags().StringVar(&request.Content, "content", "", "post body")
	cmd.Flags().StringVarP(&contentFile, "file", "f", "", "read the post body from a file")
	cmd.Flags().StringVar(&request.RawType, "raw-type", "markdown", "content type: markdown or html")
	cmd.Flags().StringVar(&request.Excerpt, "excerpt", "", "excerpt (generated when empty)")
	cmd.Flags().StringSliceVar(&request.Categories, "category", nil, "category name (repeatable)")
	cmd.Flags().StringSliceVar(&request.Tags, "tag", nil, "tag name (repeatable)")
	cmd.Flags().StringVar(&request.Cover, "cover", "", "cover image URL")
	cmd.Flags().BoolVar(&request.Publish, "publish", false, "publish after creation")

	return cmd
}

func newPostsActionCommand(use, short, done string, action func(cmd *cobra.Command, client halo.Client, name string) error) *cobra.Command {
	return &cobra.Command{
		Use:   use + " NAME",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			err = action(cmd, client, args[0])
			if err != nil {
				return fmt.Errorf("failed to %s post: %w", use, err)
			}

			printf(cmd, "Post %s %s\n", args[0], done)

			return nil
		},
	}
}
