package commands

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// findSubcommand finds a subcommand by name within a cobra command.
func findSubcommand(cmd *cobra.Command, name string) *cobra.Command {
	for _, c := range cmd.Commands() {
		if c.Name() == name {
			return c
		}
	}

	return nil
}

// useConfig points the CLI at baseURL with a static token. Viper is global,
// so tests calling it must not run in parallel.
func useConfig(t *testing.T, baseURL, output string) {
	t.Helper()

	viper.Reset()
	t.Cleanup(viper.Reset)

	viper.Set("base_url", baseURL)
	viper.Set("token", "pat_cli")
	viper.Set("output", output)
	viper.Set("log_level", "off")
	viper.Set("max_retries", 0)
}

func runCommand(t *testing.T, cmd *cobra.Command, stdin string, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer

	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetIn(strings.NewReader(stdin))

	err := cmd.Execute()

	return out.String(), err
}

func commandNames(cmds []*cobra.Command) []string {
	names := make([]string, 0, len(cmds))
	for _, c := range cmds {
		names = append(names, c.Name())
	}

	return names
}
