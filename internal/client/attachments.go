package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/hashicorp/go-hclog"

	"github.com/fivetwenty-io/halo-client/internal/constants"
	internalhttp "github.com/fivetwenty-io/halo-client/internal/http"
	"github.com/fivetwenty-io/halo-client/internal/resilience"
	"github.com/fivetwenty-io/halo-client/pkg/halo"
)

// AttachmentsClient implements the halo.AttachmentsClient interface.
type AttachmentsClient struct {
	resource

	executor *resilience.Executor
	logger   hclog.Logger
}

// NewAttachmentsClient creates a new AttachmentsClient. Uploads run through
// executor.
func NewAttachmentsClient(httpClient *internalhttp.Client, session resilience.Authenticator, executor *resilience.Executor, logger hclog.Logger) *AttachmentsClient {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	return &AttachmentsClient{
		resource: resource{httpClient: httpClient, session: session},
		executor: executor,
		logger:   logger,
	}
}

// List searches attachments through the console API.
func (c *AttachmentsClient) List(ctx context.Context, params *halo.AttachmentListParams) (*halo.ListResponse[halo.Attachment], error) {
	var result halo.ListResponse[halo.Attachment]

	err := c.getJSON(ctx, constants.PathConsoleAttachments, params.ToValues(), &result, "listing attachments")
	if err != nil {
		return nil, err
	}

	return &result, nil
}

// Get retrieves an attachment by name.
func (c *AttachmentsClient) Get(ctx context.Context, name string) (*halo.Attachment, error) {
	if name == "" {
		return nil, halo.ErrNameRequired
	}

	var attachment halo.Attachment

	err := c.getJSON(ctx, constants.PathAttachments+"/"+name, nil, &attachment, "getting attachment")
	if err != nil {
		return nil, err
	}

	return &attachment, nil
}

// Upload sends a local file as a multipart upload, retrying transient
// failures under the executor policy. A target carrying a URL is handed to
// UploadFromURL instead.
func (c *AttachmentsClient) Upload(ctx context.Context, target *halo.UploadTarget) (*halo.UploadResult, error) {
	if target == nil {
		return nil, halo.ErrUploadSourceMissing
	}

	if target.URL != "" && target.FilePath == "" {
		attachment, err := c.UploadFromURL(ctx, target)
		if err != nil {
			return nil, err
		}

		return &halo.UploadResult{Attachment: attachment}, nil
	}

	err := halo.Validator().Struct(target)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", halo.ErrUploadSourceMissing, err)
	}

	content, err := os.ReadFile(target.FilePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", halo.ErrFileNotFound, target.FilePath)
		}

		return nil, fmt.Errorf("reading %s: %w", target.FilePath, err)
	}

	filename := filepath.Base(target.FilePath)

	body, contentType, err := buildUploadForm(filename, DetectMIMEType(filename, content), content, target)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("uploading attachment", "file", filename, "bytes", len(content), "policy", policyName(target))

	payload, err := resilience.Execute(ctx, c.executor, "upload attachment", func(ctx context.Context) resilience.Outcome[json.RawMessage] {
		return resilience.Classify(c.httpClient.PostRaw(ctx, constants.PathAttachmentUpload, body, contentType))
	})
	if err != nil {
		return nil, fmt.Errorf("uploading %s: %w", filename, err)
	}

	return decodeUploadResult(payload)
}

// UploadFromURL asks the server to fetch target.URL. The user-center
// endpoint is tried first; the console endpoint, which also takes a policy
// and group, is the fallback.
func (c *AttachmentsClient) UploadFromURL(ctx context.Context, target *halo.UploadTarget) (*halo.Attachment, error) {
	if target == nil || target.URL == "" {
		return nil, halo.ErrUploadSourceMissing
	}

	err := c.ensureAuthenticated(ctx)
	if err != nil {
		return nil, err
	}

	filename := FilenameFromURL(target.URL)

	primaryBody := map[string]string{
		"url":      target.URL,
		"filename": filename,
	}

	secondaryBody := map[string]string{
		"url":        target.URL,
		"filename":   filename,
		"policyName": policyName(target),
	}
	if target.GroupName != "" {
		secondaryBody["groupName"] = target.GroupName
	}

	return resilience.Fallback(ctx, c.logger, "upload from url",
		resilience.Leg[*halo.Attachment]{Name: "uc", Call: c.postAttachment(constants.PathUCUploadFromURL, primaryBody)},
		resilience.Leg[*halo.Attachment]{Name: "console", Call: c.postAttachment(constants.PathConsoleUploadFromURL, secondaryBody)},
	)
}

func (c *AttachmentsClient) postAttachment(path string, body map[string]string) func(context.Context) (*halo.Attachment, error) {
	return func(ctx context.Context) (*halo.Attachment, error) {
		var attachment halo.Attachment

		err := c.httpClient.DoJSON(ctx, &internalhttp.Request{Method: http.MethodPost, Path: path, Body: body}, &attachment)
		if err != nil {
			return nil, err
		}

		return &attachment, nil
	}
}

// Delete deletes an attachment by name.
func (c *AttachmentsClient) Delete(ctx context.Context, name string) error {
	if name == "" {
		return halo.ErrNameRequired
	}

	return c.delete(ctx, constants.PathAttachments+"/"+name, "deleting attachment")
}

// ListGroups lists attachment groups.
func (c *AttachmentsClient) ListGroups(ctx context.Context, params *halo.ListParams) (*halo.ListResponse[halo.Group], error) {
	var result halo.ListResponse[halo.Group]

	err := c.getJSON(ctx, constants.PathGroups, params.ToValues(), &result, "listing attachment groups")
	if err != nil {
		return nil, err
	}

	return &result, nil
}

// CreateGroup creates an attachment group with a server generated name.
func (c *AttachmentsClient) CreateGroup(ctx context.Context, displayName string) (*halo.Group, error) {
	if strings.TrimSpace(displayName) == "" {
		return nil, halo.ErrDisplayNameRequired
	}

	group := &halo.Group{
		TypeMeta: halo.TypeMeta{APIVersion: constants.StorageAPIVersion, Kind: "Group"},
		Metadata: halo.Metadata{GenerateName: constants.GroupGenerateName},
		Spec:     halo.GroupSpec{DisplayName: displayName},
	}

	var created halo.Group

	err := c.sendJSON(ctx, http.MethodPost, constants.PathGroups, group, &created, "creating attachment group")
	if err != nil {
		return nil, err
	}

	return &created, nil
}

// ListPolicies lists storage policies.
func (c *AttachmentsClient) ListPolicies(ctx context.Context) (*halo.ListResponse[halo.Policy], error) {
	var result halo.ListResponse[halo.Policy]

	err := c.getJSON(ctx, constants.PathPolicies, nil, &result, "listing storage policies")
	if err != nil {
		return nil, err
	}

	return &result, nil
}

// DetectMIMEType guesses the content type of an upload, first from the file
// extension and then from the content itself.
func DetectMIMEType(filename string, content []byte) string {
	if byExt := mime.TypeByExtension(filepath.Ext(filename)); byExt != "" {
		return byExt
	}

	if len(content) == 0 {
		return constants.DefaultMIMEType
	}

	return mimetype.Detect(content).String()
}

// FilenameFromURL returns the last path segment of rawURL without its query
// string, or a default name when that segment is empty.
func FilenameFromURL(rawURL string) string {
	segment := rawURL[strings.LastIndex(rawURL, "/")+1:]
	if idx := strings.Index(segment, "?"); idx >= 0 {
		segment = segment[:idx]
	}

	if segment == "" {
		return constants.DefaultRemoteFilename
	}

	return segment
}

func policyName(target *halo.UploadTarget) string {
	if target.PolicyName != "" {
		return target.PolicyName
	}

	return constants.DefaultPolicyName
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func buildUploadForm(filename, contentType string, content []byte, target *halo.UploadTarget) ([]byte, string, error) {
	var buf bytes.Buffer

	writer := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, quoteEscaper.Replace(filename)))
	header.Set("Content-Type", contentType)

	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, "", fmt.Errorf("creating form file: %w", err)
	}

	_, err = part.Write(content)
	if err != nil {
		return nil, "", fmt.Errorf("writing file to form: %w", err)
	}

	err = writer.WriteField("policyName", policyName(target))
	if err != nil {
		return nil, "", fmt.Errorf("writing policyName field: %w", err)
	}

	err = writer.WriteField("groupName", target.GroupName)
	if err != nil {
		return nil, "", fmt.Errorf("writing groupName field: %w", err)
	}

	err = writer.Close()
	if err != nil {
		return nil, "", fmt.Errorf("closing multipart writer: %w", err)
	}

	return buf.Bytes(), writer.FormDataContentType(), nil
}

func decodeUploadResult(payload json.RawMessage) (*halo.UploadResult, error) {
	var degraded resilience.DegradedPayload

	err := json.Unmarshal(payload, &degraded)
	if err == nil && degraded.Status == resilience.DegradedStatus {
		return &halo.UploadResult{Status: degraded.Status, Text: degraded.Text}, nil
	}

	var attachment halo.Attachment

	err = json.Unmarshal(payload, &attachment)
	if err != nil {
		return nil, fmt.Errorf("parsing upload response: %w", err)
	}

	return &halo.UploadResult{Attachment: &attachment}, nil
}
