package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/halo-client/internal/constants"
	"github.com/fivetwenty-io/halo-client/internal/tools"
)

// NewToolsCommand creates the tools command group.
func NewToolsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tools",
		Short: "Call Halo operations as tools",
		Long:  "List tool declarations, call a tool with JSON arguments, or serve tool calls over stdin/stdout",
	}

	cmd.AddCommand(newToolsListCommand())
	cmd.AddCommand(newToolsCallCommand())
	cmd.AddCommand(newToolsServeCommand())

	return cmd
}

func newRegistry() (*tools.Registry, error) {
	client, err := CreateClient()
	if err != nil {
		return nil, err
	}

	return tools.NewRegistry(client, NewLogger().Named("tools")), nil
}

func newToolsListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List tool declarations",
		RunE: func(cmd *cobra.Command, args []string) error {
			registry, err := newRegistry()
			if err != nil {
				return err
			}

			declared := registry.Tools()

			return render(cmd, declared, []string{"Name", "Required", "Description"}, func(table *tablewriter.Table) {
				for _, tool := range declared {
					_ = table.Append([]string{
						tool.Name,
						cell(strings.Join(tool.InputSchema.Required, ", ")),
						cell(tool.Description),
					})
				}
			})
		},
	}
}

func newToolsCallCommand() *cobra.Command {
	var rawArgs string

	cmd := &cobra.Command{
		Use:   "call TOOL",
		Short: "Call a tool",
		Long:  "Call a tool with JSON arguments and print its result envelope as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			arguments := tools.Arguments{}

			if rawArgs != "" {
				err := json.Unmarshal([]byte(rawArgs), &arguments)
				if err != nil {
					return fmt.Errorf("%w: %w", constants.ErrInvalidArguments, err)
				}
			}

			registry, err := newRegistry()
			if err != nil {
				return err
			}

			result := registry.Call(cmd.Context(), args[0], arguments)

			return renderJSON(cmd.OutOrStdout(), result)
		},
	}

	cmd.Flags().StringVar(&rawArgs, "args", "", `tool arguments as a JSON object, e.g. '{"name":"a-1"}'`)

	return cmd
}

func newToolsServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve tool calls on stdin/stdout",
		Long: `Read one JSON request per line from stdin, for example
{"id":1,"tool":"list_tags","arguments":{}}, and write one JSON result per line to stdout.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			registry, err := newRegistry()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return registry.Serve(ctx, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}
