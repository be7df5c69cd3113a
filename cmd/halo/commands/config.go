package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/fivetwenty-io/halo-client/internal/constants"
)

// Config represents the CLI configuration file.
type Config struct {
	BaseURL    string `json:"base_url,omitempty"    yaml:"base_url,omitempty"`
	Token      string `json:"token,omitempty"       yaml:"token,omitempty"`
	Username   string `json:"username,omitempty"    yaml:"username,omitempty"`
	Output     string `json:"output,omitempty"      yaml:"output,omitempty"`
	LogLevel   string `json:"log_level,omitempty"   yaml:"log_level,omitempty"`
	Timeout    string `json:"timeout,omitempty"     yaml:"timeout,omitempty"`
	MaxRetries int    `json:"max_retries"           yaml:"max_retries"`
	RetryDelay string `json:"retry_delay,omitempty" yaml:"retry_delay,omitempty"`
}

// NewConfigCommand creates the config command group.
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage CLI configuration",
		Long:  "Show the effective Halo CLI configuration",
	}

	cmd.AddCommand(newConfigShowCommand())

	return cmd
}

func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Long:  "Display the configuration resolved from flags, environment and config file. Secrets are masked.",
		RunE: func(cmd *cobra.Command, args []string) error {
			config := loadConfig()
			config.Token = maskSecret(config.Token)

			return render(cmd, config, []string{"Property", "Value"}, func(table *tablewriter.Table) {
				_ = table.Append("Base URL", cell(config.BaseURL))
				_ = table.Append("Token", cell(config.Token))
				_ = table.Append("Username", cell(config.Username))
				_ = table.Append("Output", cell(config.Output))
				_ = table.Append("Log Level", cell(config.LogLevel))
				_ = table.Append("Timeout", cell(config.Timeout))
				_ = table.Append("Max Retries", strconv.Itoa(config.MaxRetries))
				_ = table.Append("Retry Delay", cell(config.RetryDelay))
				_ = table.Append("Config File", cell(viper.ConfigFileUsed()))
			})
		},
	}
}

func loadConfig() *Config {
	return &Config{
		BaseURL:    viper.GetString("base_url"),
		Token:      viper.GetString("token"),
		Username:   viper.GetString("username"),
		Output:     viper.GetString("output"),
		LogLevel:   viper.GetString("log_level"),
		Timeout:    viper.GetDuration("timeout").String(),
		MaxRetries: viper.GetInt("max_retries"),
		RetryDelay: viper.GetDuration("retry_delay").String(),
	}
}

func maskSecret(secret string) string {
	const visible = 4

	if len(secret) <= visible {
		if secret == "" {
			return ""
		}

		return "****"
	}

	return secret[:visible] + "****"
}

func configFilePath() (string, error) {
	configFile := viper.ConfigFileUsed()
	if configFile != "" {
		return configFile, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("%w: %w", constants.ErrNoHomeDir, err)
	}

	configDir := filepath.Join(home, constants.ConfigDirName)

	err = os.MkdirAll(configDir, constants.ConfigDirPerm)
	if err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	return filepath.Join(configDir, constants.ConfigFileName+".yml"), nil
}

func readConfigFile(path string) (*Config, error) {
	config := &Config{}

	// #nosec G304 -- path is the CLI's own config file
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return config, nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	err = yaml.Unmarshal(data, config)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

func saveConfigStruct(path string, config *Config) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config to YAML: %w", err)
	}

	err = os.WriteFile(path, data, constants.ConfigFilePerm)
	if err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ConfigPersister stores tokens issued by password login in the config file.
type ConfigPersister struct {
	mutex sync.Mutex
	path  string
}

// NewConfigPersister creates a persister writing to path, or to the default
// config file when path is empty.
func NewConfigPersister(path string) *ConfigPersister {
	return &ConfigPersister{path: path}
}

// SaveToken records token for baseURL. Passwords are never written.
func (p *ConfigPersister) SaveToken(baseURL, token string) error {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	path := p.path
	if path == "" {
		var err error

		path, err = configFilePath()
		if err != nil {
			return err
		}
	}

	config, err := readConfigFile(path)
	if err != nil {
		return err
	}

	config.BaseURL = baseURL
	config.Token = token

	return saveConfigStruct(path, config)
}
