package commands

import (
	"fmt"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/halo-client/internal/constants"
	"github.com/fivetwenty-io/halo-client/pkg/halo"
)

// NewAttachmentsCommand creates the attachments command group.
func NewAttachmentsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "attachments",
		Aliases: []string{"attachment", "att"},
		Short:   "Manage attachments",
		Long:    "List, upload and delete attachments, attachment groups and storage policies",
	}

	cmd.AddCommand(newAttachmentsListCommand())
	cmd.AddCommand(newAttachmentsGetCommand())
	cmd.AddCommand(newAttachmentsUploadCommand())
	cmd.AddCommand(newAttachmentsDeleteCommand())
	cmd.AddCommand(newAttachmentGroupsCommand())
	cmd.AddCommand(newAttachmentPoliciesCommand())

	return cmd
}

func addPagingFlags(cmd *cobra.Command, params *halo.ListParams) {
	cmd.Flags().IntVar(&params.Page, "page", 0, "page number")
	cmd.Flags().IntVar(&params.Size, "size", constants.DefaultPageSize, "results per page")
	cmd.Flags().StringSliceVar(&params.Sort, "sort", nil, "sort expression such as metadata.creationTimestamp,desc (repeatable)")
}

func newAttachmentsListCommand() *cobra.Command {
	params := &halo.AttachmentListParams{}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List attachments",
		Long:  "Search attachments by keyword, media type and group",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			result, err := client.Attachments().List(cmd.Context(), params)
			if err != nil {
				return fmt.Errorf("failed to list attachments: %w", err)
			}

			return renderAttachments(cmd, result)
		},
	}

	addPagingFlags(cmd, &params.ListParams)
	cmd.Flags().StringVarP(&params.Keyword, "keyword", "k", "", "search keyword")
	cmd.Flags().StringSliceVar(&params.Accepts, "accept", nil, "media type filter such as image/* (repeatable)")
	cmd.Flags().StringVarP(&params.GroupName, "group", "g", "", "attachment group name")
	cmd.Flags().BoolVar(&params.Ungrouped, "ungrouped", false, "only attachments outside any group")

	return cmd
}

func renderAttachments(cmd *cobra.Command, result *halo.ListResponse[halo.Attachment]) error {
	return render(cmd, result, []string{"Name", "Display Name", "Media Type", "Size", "Group", "Permalink"}, func(table *tablewriter.Table) {
		for _, item := range result.Items {
			_ = table.Append([]string{
				item.Metadata.Name,
				cell(item.Spec.DisplayName),
				cell(item.Spec.MediaType),
				strconv.FormatInt(item.Spec.Size, 10),
				cell(item.Spec.GroupName),
				cell(item.Status.Permalink),
			})
		}
	})
}

func renderAttachment(cmd *cobra.Command, attachment *halo.Attachment) error {
	return render(cmd, attachment, []string{"Property", "Value"}, func(table *tablewriter.Table) {
		_ = table.Append("Name", attachment.Metadata.Name)
		_ = table.Append("Display Name", cell(attachment.Spec.DisplayName))
		_ = table.Append("Media Type", cell(attachment.Spec.MediaType))
		_ = table.Append("Size", strconv.FormatInt(attachment.Spec.Size, 10))
		_ = table.Append("Policy", cell(attachment.Spec.PolicyName))
		_ = table.Append("Group", cell(attachment.Spec.GroupName))
		_ = table.Append("Permalink", cell(attachment.Status.Permalink))
	})
}

func newAttachmentsGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get NAME",
		Short: "Get attachment details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			attachment, err := client.Attachments().Get(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to get attachment: %w", err)
			}

			return renderAttachment(cmd, attachment)
		},
	}
}

func newAttachmentsUploadCommand() *cobra.Command {
	target := &halo.UploadTarget{}

	cmd := &cobra.Command{
		Use:   "upload [FILE]",
		Short: "Upload an attachment",
		Long:  "Upload a local file, or let the server fetch a remote one with --url",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				target.FilePath = args[0]
			}

			client, err := CreateClient()
			if err != nil {
				return err
			}

			result, err := client.Attachments().Upload(cmd.Context(), target)
			if err != nil {
				return fmt.Errorf("failed to upload attachment: %w", err)
			}

			if result.Degraded() {
				return render(cmd, result, []string{"Status", "Response"}, func(table *tablewriter.Table) {
					_ = table.Append(result.Status, cell(result.Text))
				})
			}

			return renderAttachment(cmd, result.Attachment)
		},
	}

	cmd.Flags().StringVar(&target.URL, "url", "", "remote file URL instead of a local file")
	cmd.Flags().StringVarP(&target.PolicyName, "policy", "p", constants.DefaultPolicyName, "storage policy name")
	cmd.Flags().StringVarP(&target.GroupName, "group", "g", "", "attachment group name")

	return cmd
}

func newAttachmentsDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete NAME",
		Short: "Delete an attachment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			err = client.Attachments().Delete(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to delete attachment: %w", err)
			}

			printf(cmd, "Attachment %s deleted\n", args[0])

			return nil
		},
	}
}

func newAttachmentGroupsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "groups",
		Aliases: []string{"group"},
		Short:   "Manage attachment groups",
	}

	params := &halo.ListParams{}

	list := &cobra.Command{
		Use:   "list",
		Short: "List attachment groups",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			result, err := client.Attachments().ListGroups(cmd.Context(), params)
			if err != nil {
				return fmt.Errorf("failed to list attachment groups: %w", err)
			}

			return render(cmd, result, []string{"Name", "Display Name", "Attachments"}, func(table *tablewriter.Table) {
				for _, group := range result.Items {
					_ = table.Append([]string{
						group.Metadata.Name,
						cell(group.Spec.DisplayName),
						strconv.FormatInt(group.Status.TotalAttachments, 10),
					})
				}
			})
		},
	}
	addPagingFlags(list, params)

	create := &cobra.Command{
		Use:   "create DISPLAY_NAME",
		Short: "Create an attachment group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			group, err := client.Attachments().CreateGroup(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to create attachment group: %w", err)
			}

			printf(cmd, "Attachment group %s created\n", group.Metadata.Name)

			return nil
		},
	}

	cmd.AddCommand(list, create)

	return cmd
}

func newAttachmentPoliciesCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "policies",
		Aliases: []string{"policy"},
		Short:   "List storage policies",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient()
			if err != nil {
				return err
			}

			result, err := client.Attachments().ListPolicies(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to list storage policies: %w", err)
			}

			return render(cmd, result, []string{"Name", "Display Name", "Template"}, func(table *tablewriter.Table) {
				for _, policy := range result.Items {
					_ = table.Append([]string{policy.Metadata.Name, cell(policy.Spec.DisplayName), cell(policy.Spec.TemplateName)})
				}
			})
		},
	}
}
