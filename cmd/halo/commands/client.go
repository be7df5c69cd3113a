package commands

import (
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/viper"

	"github.com/fivetwenty-io/halo-client/pkg/halo"
	"github.com/fivetwenty-io/halo-client/pkg/haloclient"
)

// NewLogger builds the CLI logger. Logs go to stderr so stdout only carries
// command results.
func NewLogger() hclog.Logger {
	return hclog.New(&hclog.LoggerOptions{
		Name:   "halo",
		Level:  hclog.LevelFromString(viper.GetString("log_level")),
		Output: os.Stderr,
	})
}

// buildClientConfig assembles a halo.Config from flags, environment and the
// config file.
func buildClientConfig() *halo.Config {
	return &halo.Config{
		BaseURL:    viper.GetString("base_url"),
		Token:      viper.GetString("token"),
		Username:   viper.GetString("username"),
		Password:   viper.GetString("password"),
		Timeout:    viper.GetDuration("timeout"),
		MaxRetries: halo.Retries(viper.GetInt("max_retries")),
		RetryDelay: viper.GetDuration("retry_delay"),
		Debug:      viper.GetBool("debug"),
		Logger:     NewLogger(),
	}
}

// CreateClient creates a client from the current configuration.
func CreateClient(opts ...haloclient.Option) (halo.Client, error) {
	return haloclient.New(buildClientConfig(), opts...)
}
