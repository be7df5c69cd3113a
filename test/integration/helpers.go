//go:build integration

package integration

import (
	"bytes"
	"encoding/json"
	"os"
	"os/exec"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"
)

// TestConfig holds configuration for integration tests
type TestConfig struct {
	BaseURL   string
	Token     string
	Username  string
	Password  string
	HaloPath  string
	RemoteURL string
	Verbose   bool
}

// LoadTestConfig loads configuration from environment variables
func LoadTestConfig() *TestConfig {
	return &TestConfig{
		BaseURL:   os.Getenv("HALO_BASE_URL"),
		Token:     os.Getenv("HALO_TOKEN"),
		Username:  os.Getenv("HALO_USERNAME"),
		Password:  os.Getenv("HALO_PASSWORD"),
		HaloPath:  getHaloPath(),
		RemoteURL: os.Getenv("HALO_TEST_REMOTE_URL"),
		Verbose:   os.Getenv("HALO_VERBOSE") == "true",
	}
}

// getHaloPath determines the path to the halo binary
func getHaloPath() string {
	if path := os.Getenv("HALO_BINARY_PATH"); path != "" {
		return path
	}

	for _, candidate := range []string{"../../halo", "./halo", "../halo"} {
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}

	return "halo"
}

// SkipIfMissingConfig skips test if required config is missing
func (config *TestConfig) SkipIfMissingConfig(t *testing.T) {
	t.Helper()

	if config.BaseURL == "" {
		t.Skip("HALO_BASE_URL not set, skipping integration test")
	}

	if config.Token == "" && (config.Username == "" || config.Password == "") {
		t.Skip("neither HALO_TOKEN nor HALO_USERNAME/HALO_PASSWORD set, skipping integration test")
	}

	if _, err := exec.LookPath(config.HaloPath); err != nil {
		t.Skipf("halo binary not found at %s, skipping integration test", config.HaloPath)
	}
}

// CommandRunner runs halo commands against the configured site
type CommandRunner struct {
	config *TestConfig
	t      *testing.T
	home   string
}

// NewCommandRunner creates a runner with an isolated HOME so the user's
// config file is never touched
func NewCommandRunner(config *TestConfig, t *testing.T) *CommandRunner {
	t.Helper()

	return &CommandRunner{config: config, t: t, home: t.TempDir()}
}

// Run executes a halo command and returns output
func (runner *CommandRunner) Run(args ...string) (string, string, error) {
	return runner.RunWithInput("", args...)
}

// RunWithInput executes a halo command with stdin input
func (runner *CommandRunner) RunWithInput(input string, args ...string) (string, string, error) {
	// #nosec G204 -- test binary path comes from the test environment
	cmd := exec.Command(runner.config.HaloPath, args...)
	cmd.Env = append(os.Environ(),
		"HOME="+runner.home,
		"HALO_BASE_URL="+runner.config.BaseURL,
		"HALO_TOKEN="+runner.config.Token,
		"HALO_USERNAME="+runner.config.Username,
		"HALO_PASSWORD="+runner.config.Password,
	)

	var stdoutBuf, stderrBuf bytes.Buffer

	cmd.Stdout = &stdoutBuf
	cmd.Stderr = &stderrBuf
	cmd.Stdin = strings.NewReader(input)

	if runner.config.Verbose {
		runner.t.Logf("Running: %s %s", runner.config.HaloPath, strings.Join(args, " "))
	}

	err := cmd.Run()

	if runner.config.Verbose && err != nil {
		runner.t.Logf("Command failed: %v\nStdout: %s\nStderr: %s", err, stdoutBuf.String(), stderrBuf.String())
	}

	return stdoutBuf.String(), stderrBuf.String(), err
}

// GenerateTestName creates a unique test resource name
func GenerateTestName(prefix string) string {
	return prefix + "-" + time.Now().Format("20060102150405")
}

// CleanupResource attempts to delete a test resource
func (runner *CommandRunner) CleanupResource(resourceType, name string) {
	if name == "" {
		return
	}

	var args []string

	switch resourceType {
	case "attachment":
		args = []string{"attachments", "delete", name}
	case "category":
		args = []string{"categories", "delete", name}
	case "tag":
		args = []string{"tags", "delete", name}
	case "post":
		args = []string{"posts", "delete", name}
	default:
		runner.t.Logf("Unknown resource type for cleanup: %s", resourceType)

		return
	}

	stdout, stderr, err := runner.Run(args...)
	if err != nil && runner.config.Verbose {
		runner.t.Logf("Cleanup warning for %s %s: %s\nStderr: %s", resourceType, name, stdout, stderr)
	}
}

// DecodeJSON decodes command output, failing the test when it is not JSON
func DecodeJSON(t *testing.T, output string) map[string]any {
	t.Helper()

	var decoded map[string]any

	err := json.Unmarshal([]byte(output), &decoded)
	if err != nil {
		t.Fatalf("Output is not a JSON object: %v\n%s", err, output)
	}

	return decoded
}

// AssertYAMLOutput verifies command output is valid YAML
func AssertYAMLOutput(t *testing.T, output string) {
	t.Helper()

	var decoded any

	err := yaml.Unmarshal([]byte(output), &decoded)
	if err != nil {
		t.Errorf("Output is not YAML: %v\n%s", err, output)
	}
}

// MetadataName extracts metadata.name from a decoded resource
func MetadataName(resource map[string]any) string {
	metadata, _ := resource["metadata"].(map[string]any)
	name, _ := metadata["name"].(string)

	return name
}
