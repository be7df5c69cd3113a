package tools_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/fivetwenty-io/halo-client/internal/client"
	"github.com/fivetwenty-io/halo-client/internal/tools"
	"github.com/fivetwenty-io/halo-client/pkg/halo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRegistry(t *testing.T, handler http.HandlerFunc) (*tools.Registry, *atomic.Int32) {
	t.Helper()

	hits := &atomic.Int32{}

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		hits.Add(1)
		handler(writer, request)
	}))
	t.Cleanup(server.Close)

	c, err := client.New(&halo.Config{BaseURL: server.URL, Token: "pat", MaxRetries: halo.Retries(0)})
	require.NoError(t, err)

	return tools.NewRegistry(c, nil), hits
}

func TestRegistry_Tools(t *testing.T) {
	t.Parallel()

	registry, _ := newTestRegistry(t, func(http.ResponseWriter, *http.Request) {})

	declared := registry.Tools()

	names := make([]string, 0, len(declared))
	for _, tool := range declared {
		names = append(names, tool.Name)

		assert.Equal(t, "object", tool.InputSchema.Type, tool.Name)
		assert.NotEmpty(t, tool.Description, tool.Name)

		for _, required := range tool.InputSchema.Required {
			assert.Contains(t, tool.InputSchema.Properties, required, tool.Name)
		}
	}

	assert.IsIncreasing(t, names)
	assert.Subset(t, names, []string{
		"list_attachments", "get_attachment", "upload_attachment", "upload_attachment_from_url",
		"delete_attachment", "list_attachment_groups", "create_attachment_group", "get_attachment_policies",
		"list_categories", "get_category", "create_category", "delete_category",
		"list_tags", "get_tag", "create_tag", "delete_tag",
		"list_posts", "get_post", "create_post", "publish_post", "unpublish_post", "delete_post",
	})
	assert.Len(t, names, 22)
}

func TestRegistry_CallRejectsBadInput(t *testing.T) {
	t.Parallel()

	registry, hits := newTestRegistry(t, func(http.ResponseWriter, *http.Request) {})

	tests := []struct {
		name     string
		tool     string
		args     tools.Arguments
		contains string
	}{
		{name: "unknown tool", tool: "drop_database", args: nil, contains: "unknown tool: drop_database"},
		{name: "missing name", tool: "get_attachment", args: tools.Arguments{}, contains: "missing parameter 'name'"},
		{name: "empty file path", tool: "upload_attachment", args: tools.Arguments{"file_path": ""}, contains: "missing parameter 'file_path'"},
		{name: "missing url", tool: "upload_attachment_from_url", args: tools.Arguments{"group_name": "g"}, contains: "missing parameter 'url'"},
		{name: "missing display name", tool: "create_attachment_group", args: nil, contains: "missing parameter 'display_name'"},
		{name: "missing title", tool: "create_post", args: tools.Arguments{"content": "x"}, contains: "missing parameter 'title'"},
		{name: "wrong type", tool: "list_attachments", args: tools.Arguments{"accepts": map[string]any{"a": 1}}, contains: "invalid arguments"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			result := registry.Call(context.Background(), tt.tool, tt.args)
			assert.False(t, result.Success)
			assert.Contains(t, result.Message, tt.contains)
			assert.Nil(t, result.Data)
		})
	}

	assert.Equal(t, int32(0), hits.Load())
}

func TestRegistry_ListAttachments(t *testing.T) {
	t.Parallel()

	registry, _ := newTestRegistry(t, func(writer http.ResponseWriter, request *http.Request) {
		query := request.URL.Query()
		assert.Equal(t, "2", query.Get("page"))
		assert.Equal(t, "10", query.Get("size"))
		assert.Equal(t, []string{"image/*", "video/*"}, query["accepts"])
		assert.Equal(t, "g-1", query.Get("groupName"))

		_, _ = writer.Write([]byte(`{"total":3,"items":[]}`))
	})

	result := registry.Call(context.Background(), "list_attachments", tools.Arguments{
		"page":       float64(2),
		"size":       "10",
		"accepts":    []any{"image/*", "video/*"},
		"group_name": "g-1",
	})
	require.True(t, result.Success, result.Message)
	assert.Equal(t, "Found 3 attachments", result.Message)
}

func TestRegistry_DefaultPageSize(t *testing.T) {
	t.Parallel()

	registry, _ := newTestRegistry(t, func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "100", request.URL.Query().Get("size"))
		_, _ = writer.Write([]byte(`{"items":[]}`))
	})

	result := registry.Call(context.Background(), "list_attachment_groups", nil)
	assert.True(t, result.Success, result.Message)
}

func TestRegistry_UploadAttachment(t *testing.T) {
	t.Parallel()

	registry, _ := newTestRegistry(t, func(writer http.ResponseWriter, request *http.Request) {
		assert.NoError(t, request.ParseMultipartForm(1<<20))
		assert.Equal(t, "s3", request.FormValue("policyName"))
		_, _ = writer.Write([]byte(`{"metadata":{"name":"attachment-1"}}`))
	})

	path := filepath.Join(t.TempDir(), "a.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0o600))

	result := registry.Call(context.Background(), "upload_attachment", tools.Arguments{
		"file_path":   path,
		"policy_name": "s3",
	})
	require.True(t, result.Success, result.Message)
	assert.Equal(t, "Attachment uploaded", result.Message)

	upload, ok := result.Data.(*halo.UploadResult)
	require.True(t, ok)
	assert.Equal(t, "attachment-1", upload.Attachment.Metadata.Name)
}

func TestRegistry_ErrorsBecomeFailures(t *testing.T) {
	t.Parallel()

	registry, _ := newTestRegistry(t, func(writer http.ResponseWriter, request *http.Request) {
		writer.WriteHeader(http.StatusNotFound)
		_, _ = writer.Write([]byte(`{"detail":"Tag not found"}`))
	})

	result := registry.Call(context.Background(), "get_tag", tools.Arguments{"name": "tag-x"})
	assert.False(t, result.Success)
	assert.True(t, strings.HasPrefix(result.Message, "error: "), result.Message)
	assert.Contains(t, result.Message, "tags")
}

func TestRegistry_MissingLocalFile(t *testing.T) {
	t.Parallel()

	registry, hits := newTestRegistry(t, func(http.ResponseWriter, *http.Request) {})

	result := registry.Call(context.Background(), "upload_attachment", tools.Arguments{
		"file_path": filepath.Join(t.TempDir(), "missing.png"),
	})
	assert.False(t, result.Success)
	assert.Contains(t, result.Message, halo.ErrFileNotFound.Error())
	assert.Equal(t, int32(0), hits.Load())
}

func TestRegistry_Serve(t *testing.T) {
	t.Parallel()

	registry, _ := newTestRegistry(t, func(writer http.ResponseWriter, request *http.Request) {
		_, _ = writer.Write([]byte(`{"total":1,"items":[{"metadata":{"name":"tag-1"}}]}`))
	})

	input := strings.Join([]string{
		`{"id":1,"tool":"list_tags","arguments":{}}`,
		``,
		`not json`,
		`{"id":"b","tool":"get_tag","arguments":{}}`,
	}, "\n")

	var out bytes.Buffer

	require.NoError(t, registry.Serve(context.Background(), strings.NewReader(input), &out))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)

	var first, second, third map[string]any

	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &second))
	require.NoError(t, json.Unmarshal([]byte(lines[2]), &third))

	assert.Equal(t, float64(1), first["id"])
	assert.Equal(t, true, first["success"])
	assert.Equal(t, "Found 1 tags", first["message"])
	assert.NotNil(t, first["data"])

	assert.Equal(t, false, second["success"])
	assert.Contains(t, second["message"], "invalid request")

	assert.Equal(t, "b", third["id"])
	assert.Equal(t, false, third["success"])
	assert.Equal(t, "missing parameter 'name'", third["message"])
}

func TestRegistry_ServeStopsOnCancel(t *testing.T) {
	t.Parallel()

	registry, hits := newTestRegistry(t, func(http.ResponseWriter, *http.Request) {})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer

	err := registry.Serve(ctx, strings.NewReader(`{"tool":"list_tags"}`+"\n"), &out)
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, out.String())
	assert.Equal(t, int32(0), hits.Load())
}

// brokenClient panics on every call.
type brokenClient struct {
	halo.Client
}

func TestRegistry_PanicBecomesFailure(t *testing.T) {
	t.Parallel()

	registry := tools.NewRegistry(brokenClient{}, nil)

	result := registry.Call(context.Background(), "list_tags", tools.Arguments{})
	assert.False(t, result.Success)
	assert.True(t, strings.HasPrefix(result.Message, "error: internal failure"), result.Message)

	var out bytes.Buffer

	input := `{"id":1,"tool":"get_tag","arguments":{"name":"t"}}` + "\n" + `{"id":2,"tool":"nope"}` + "\n"
	require.NoError(t, registry.Serve(context.Background(), strings.NewReader(input), &out))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)

	var first tools.Response

	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	assert.False(t, first.Success)
	assert.Contains(t, first.Message, "internal failure")
}
