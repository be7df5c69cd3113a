package commands

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/fivetwenty-io/halo-client/internal/constants"
	"github.com/fivetwenty-io/halo-client/pkg/halo"
	"github.com/fivetwenty-io/halo-client/pkg/haloclient"
)

// NewLoginCommand creates the login command.
func NewLoginCommand() *cobra.Command {
	var (
		username string
		password string
		noSave   bool
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Login to Halo",
		Long:  "Exchange a username and password for an access token and save the token to the config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			config := buildClientConfig()
			config.Token = ""

			reader := bufio.NewReader(cmd.InOrStdin())

			if username == "" {
				username = config.Username
			}

			if username == "" {
				_, _ = fmt.Fprint(cmd.ErrOrStderr(), "Username: ")

				line, _ := reader.ReadString('\n')
				username = strings.TrimSpace(line)
			}

			if username == "" {
				return constants.ErrUsernameRequired
			}

			if password == "" {
				password = config.Password
			}

			if password == "" {
				secret, err := readPassword(cmd, reader)
				if err != nil {
					return err
				}

				password = secret
			}

			if password == "" {
				return constants.ErrPasswordRequired
			}

			config.Username = username
			config.Password = password

			var opts []haloclient.Option
			if !noSave {
				opts = append(opts, haloclient.WithTokenPersister(NewConfigPersister("")))
			}

			client, err := haloclient.New(config, opts...)
			if err != nil {
				return err
			}

			err = client.Authenticate(cmd.Context())
			if err != nil {
				return fmt.Errorf("login failed: %w", err)
			}

			baseURL := config.BaseURL
			if baseURL == "" {
				baseURL = halo.DefaultBaseURL
			}

			printf(cmd, "Successfully logged in to %s as %s\n", baseURL, username)

			if !noSave {
				printf(cmd, "Access token saved to the config file\n")
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&username, "user", "", "username (prompted when empty)")
	cmd.Flags().StringVar(&password, "pass", "", "password (prompted when empty)")
	cmd.Flags().BoolVar(&noSave, "no-save", false, "verify credentials without saving the token")

	return cmd
}

func readPassword(cmd *cobra.Command, reader *bufio.Reader) (string, error) {
	_, _ = fmt.Fprint(cmd.ErrOrStderr(), "Password: ")

	file, ok := cmd.InOrStdin().(*os.File)
	if !ok || !term.IsTerminal(int(file.Fd())) { // #nosec G115 -- file descriptors fit in int
		line, _ := reader.ReadString('\n')

		return strings.TrimSpace(line), nil
	}

	secret, err := term.ReadPassword(int(file.Fd())) // #nosec G115

	_, _ = fmt.Fprintln(cmd.ErrOrStderr())

	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}

	return string(secret), nil
}
