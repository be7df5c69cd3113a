package tools

import (
	"context"
	"fmt"

	"github.com/fivetwenty-io/halo-client/internal/constants"
	"github.com/fivetwenty-io/halo-client/pkg/halo"
)

const (
	defaultAttachmentPageSize = 50
	defaultGroupPageSize      = 100
)

type listAttachmentsArgs struct {
	PageArgs `mapstructure:",squash"`

	Keyword   string   `mapstructure:"keyword"`
	Accepts   []string `mapstructure:"accepts"`
	GroupName string   `mapstructure:"group_name"`
}

type uploadArgs struct {
	FilePath   string `mapstructure:"file_path"`
	URL        string `mapstructure:"url"`
	PolicyName string `mapstructure:"policy_name"`
	GroupName  string `mapstructure:"group_name"`
}

func (a uploadArgs) target() *halo.UploadTarget {
	return &halo.UploadTarget{
		FilePath:   a.FilePath,
		URL:        a.URL,
		PolicyName: a.PolicyName,
		GroupName:  a.GroupName,
	}
}

type createGroupArgs struct {
	DisplayName string `mapstructure:"display_name"`
}

func (r *Registry) registerAttachmentTools() {
	attachments := r.client.Attachments()

	register(r, Tool{
		Name:        "list_attachments",
		Description: "Search and list attachments with paging, keyword search and media type filters such as image/*.",
		InputSchema: object(nil, with(pageProperties(defaultAttachmentPageSize), map[string]Property{
			"keyword":    str("Search keyword"),
			"accepts":    stringList("Accepted media types, e.g. ['image/*', 'video/*']"),
			"group_name": str("Attachment group name"),
		})),
	}, func(ctx context.Context, args listAttachmentsArgs) (string, any, error) {
		result, err := attachments.List(ctx, &halo.AttachmentListParams{
			ListParams: args.params(defaultAttachmentPageSize),
			Keyword:    args.Keyword,
			Accepts:    args.Accepts,
			GroupName:  args.GroupName,
		})
		if err != nil {
			return "", nil, err
		}

		return fmt.Sprintf("Found %d attachments", result.Total), result, nil
	})

	register(r, Tool{
		Name:        "get_attachment",
		Description: "Get the details of an attachment.",
		InputSchema: object([]string{"name"}, map[string]Property{
			"name": str("Attachment name (required)"),
		}),
	}, func(ctx context.Context, args nameArgs) (string, any, error) {
		attachment, err := attachments.Get(ctx, args.Name)
		if err != nil {
			return "", nil, err
		}

		return "Attachment " + args.Name, attachment, nil
	})

	register(r, Tool{
		Name:        "upload_attachment",
		Description: "Upload a local file as an attachment. The storage policy defaults to " + constants.DefaultPolicyName + ".",
		InputSchema: object([]string{"file_path"}, map[string]Property{
			"file_path":   str("Local file path (required)"),
			"policy_name": {Type: "string", Description: "Storage policy name", Default: constants.DefaultPolicyName},
			"group_name":  str("Attachment group name"),
		}),
	}, func(ctx context.Context, args uploadArgs) (string, any, error) {
		args.URL = ""

		result, err := attachments.Upload(ctx, args.target())
		if err != nil {
			return "", nil, err
		}

		if result.Degraded() {
			return "Attachment uploaded, the server response was not JSON", result, nil
		}

		return "Attachment uploaded", result, nil
	})

	register(r, Tool{
		Name:        "upload_attachment_from_url",
		Description: "Let the server fetch a remote file into the attachment library.",
		InputSchema: object([]string{"url"}, map[string]Property{
			"url":         str("File URL (required)"),
			"policy_name": {Type: "string", Description: "Storage policy name", Default: constants.DefaultPolicyName},
			"group_name":  str("Attachment group name"),
		}),
	}, func(ctx context.Context, args uploadArgs) (string, any, error) {
		args.FilePath = ""

		attachment, err := attachments.UploadFromURL(ctx, args.target())
		if err != nil {
			return "", nil, err
		}

		return "Attachment uploaded from URL", attachment, nil
	})

	register(r, Tool{
		Name:        "delete_attachment",
		Description: "Delete an attachment. Content may still reference it.",
		InputSchema: object([]string{"name"}, map[string]Property{
			"name": str("Attachment name (required)"),
		}),
	}, func(ctx context.Context, args nameArgs) (string, any, error) {
		err := attachments.Delete(ctx, args.Name)
		if err != nil {
			return "", nil, err
		}

		return "Attachment " + args.Name + " deleted", nil, nil
	})

	register(r, Tool{
		Name:        "list_attachment_groups",
		Description: "List attachment groups.",
		InputSchema: object(nil, pageProperties(defaultGroupPageSize)),
	}, func(ctx context.Context, args PageArgs) (string, any, error) {
		params := args.params(defaultGroupPageSize)

		result, err := attachments.ListGroups(ctx, &params)
		if err != nil {
			return "", nil, err
		}

		return fmt.Sprintf("Found %d attachment groups", result.Total), result, nil
	})

	register(r, Tool{
		Name:        "create_attachment_group",
		Description: "Create an attachment group. Only a display name is needed.",
		InputSchema: object([]string{"display_name"}, map[string]Property{
			"display_name": str("Group display name (required)"),
		}),
	}, func(ctx context.Context, args createGroupArgs) (string, any, error) {
		group, err := attachments.CreateGroup(ctx, args.DisplayName)
		if err != nil {
			return "", nil, err
		}

		return "Attachment group " + group.Metadata.Name + " created", group, nil
	})

	register(r, Tool{
		Name:        "get_attachment_policies",
		Description: "List storage policies available as upload targets.",
		InputSchema: object(nil, nil),
	}, func(ctx context.Context, _ struct{}) (string, any, error) {
		result, err := attachments.ListPolicies(ctx)
		if err != nil {
			return "", nil, err
		}

		return fmt.Sprintf("Found %d storage policies", len(result.Items)), result, nil
	})
}
