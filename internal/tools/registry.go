// Package tools exposes the Halo client operations as named tools with JSON
// arguments and a uniform result envelope.
package tools

import (
	"context"
	"fmt"
	"sort"

	"github.com/go-viper/mapstructure/v2"
	"github.com/hashicorp/go-hclog"

	"github.com/fivetwenty-io/halo-client/internal/constants"
	"github.com/fivetwenty-io/halo-client/pkg/halo"
)

// Arguments are the decoded JSON arguments of a tool call.
type Arguments map[string]any

type handler func(ctx context.Context, args Arguments) Result

type entry struct {
	tool    Tool
	handler handler
}

// Registry maps tool names to handlers bound to one client.
type Registry struct {
	client halo.Client
	logger hclog.Logger
	tools  map[string]entry
}

// NewRegistry creates a registry holding every tool.
func NewRegistry(client halo.Client, logger hclog.Logger) *Registry {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	r := &Registry{
		client: client,
		logger: logger,
		tools:  make(map[string]entry),
	}

	r.registerAttachmentTools()
	r.registerCategoryTools()
	r.registerTagTools()
	r.registerPostTools()

	return r
}

// Tools returns the tool declarations sorted by name.
func (r *Registry) Tools() []Tool {
	tools := make([]Tool, 0, len(r.tools))
	for _, e := range r.tools {
		tools = append(tools, e.tool)
	}

	sort.Slice(tools, func(i, j int) bool { return tools[i].Name < tools[j].Name })

	return tools
}

// Call invokes the named tool. Unknown tools and missing required
// arguments produce a failure result without any network call. A panic in
// the tool is reported as a failure result as well.
func (r *Registry) Call(ctx context.Context, name string, args Arguments) (result Result) {
	e, ok := r.tools[name]
	if !ok {
		return Fail(fmt.Sprintf("%s: %s", constants.ErrUnknownTool, name))
	}

	for _, key := range e.tool.InputSchema.Required {
		if isMissing(args[key]) {
			return Fail(fmt.Sprintf("missing parameter '%s'", key))
		}
	}

	r.logger.Debug("calling tool", "tool", name)

	defer func() {
		if recovered := recover(); recovered != nil {
			r.logger.Error("tool panicked", "tool", name, "panic", recovered)
			result = Fail(fmt.Sprintf("error: internal failure: %v", recovered))
		}
	}()

	result = e.handler(ctx, args)
	if !result.Success {
		r.logger.Error("tool failed", "tool", name, "message", result.Message)
	}

	return result
}

func isMissing(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return v == ""
	default:
		return false
	}
}

// register adds a tool whose arguments decode into A.
func register[A any](r *Registry, tool Tool, call func(ctx context.Context, args A) (string, any, error)) {
	r.tools[tool.Name] = entry{
		tool: tool,
		handler: func(ctx context.Context, raw Arguments) Result {
			var args A

			err := decodeArguments(raw, &args)
			if err != nil {
				return Fail(fmt.Sprintf("invalid arguments: %v", err))
			}

			message, data, err := call(ctx, args)
			if err != nil {
				r.logger.Debug("tool call error", "tool", tool.Name, "status", halo.StatusCode(err), "retryable", halo.IsRetryable(err))

				return Fail("error: " + err.Error())
			}

			return OK(message, data)
		},
	}
}

func decodeArguments(raw Arguments, out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return err
	}

	return decoder.Decode(map[string]any(raw))
}

// PageArgs are the paging arguments shared by list tools.
type PageArgs struct {
	Page int      `mapstructure:"page"`
	Size int      `mapstructure:"size"`
	Sort []string `mapstructure:"sort"`
}

func (a PageArgs) params(defaultSize int) halo.ListParams {
	size := a.Size
	if size <= 0 {
		size = defaultSize
	}

	return halo.ListParams{Page: a.Page, Size: size, Sort: a.Sort}
}

type nameArgs struct {
	Name string `mapstructure:"name"`
}
