package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fivetwenty-io/halo-client/cmd/halo/commands"
	"github.com/fivetwenty-io/halo-client/internal/constants"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "halo",
	Short: "Halo blog CLI",
	Long: `A command-line interface for the Halo 2.x blog platform.

It manages attachments, categories, tags and posts, and exposes the same
operations as tools that can be called with JSON arguments.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringP("config", "c", "", "config file (default is $HOME/.halo/config.yml)")
	flags.StringP("base-url", "b", "", "Halo site URL (default http://localhost:8091)")
	flags.StringP("token", "t", "", "personal access token")
	flags.StringP("username", "u", "", "username for password login")
	flags.String("password", "", "password for password login")
	flags.StringP("output", "o", constants.FormatTable, "output format (table, json, yaml)")
	flags.String("log-level", "warn", "log level (trace, debug, info, warn, error)")
	flags.Duration("timeout", constants.DefaultHTTPTimeout, "HTTP request timeout")
	flags.Int("max-retries", constants.DefaultRetryMax, "retries for uploads after the first attempt")
	flags.Duration("retry-delay", constants.DefaultRetryDelay, "delay before the first upload retry")
	flags.Bool("debug", false, "log HTTP requests and responses")

	for key, flag := range map[string]string{
		"config":      "config",
		"base_url":    "base-url",
		"token":       "token",
		"username":    "username",
		"password":    "password",
		"output":      "output",
		"log_level":   "log-level",
		"timeout":     "timeout",
		"max_retries": "max-retries",
		"retry_delay": "retry-delay",
		"debug":       "debug",
	} {
		_ = viper.BindPFlag(key, flags.Lookup(flag))
	}

	rootCmd.AddCommand(commands.NewVersionCommand(version, commit, date))
	rootCmd.AddCommand(commands.NewLoginCommand())
	rootCmd.AddCommand(commands.NewConfigCommand())
	rootCmd.AddCommand(commands.NewAttachmentsCommand())
	rootCmd.AddCommand(commands.NewCategoriesCommand())
	rootCmd.AddCommand(commands.NewTagsCommand())
	rootCmd.AddCommand(commands.NewPostsCommand())
	rootCmd.AddCommand(commands.NewToolsCommand())
}

func initConfig() {
	cfgFile := viper.GetString("config")

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		configDir := filepath.Join(home, constants.ConfigDirName)

		viper.AddConfigPath(configDir)
		viper.SetConfigType("yml")
		viper.SetConfigName(constants.ConfigFileName)
	}

	viper.SetEnvPrefix(constants.EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		commands.NewLogger().Debug("using config file", "path", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
