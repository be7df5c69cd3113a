package auth

import (
	"strings"

	"github.com/fivetwenty-io/halo-client/pkg/halo"
)

// Credentials are the raw authentication inputs of a client.
type Credentials struct {
	Token    string
	Username string
	Password string
}

// Strategy is the authentication method a session uses. The set of
// implementations is closed: TokenStrategy and PasswordStrategy.
type Strategy interface {
	// Name identifies the strategy in logs.
	Name() string
	isStrategy()
}

// TokenStrategy installs a pre-issued personal access token.
type TokenStrategy struct {
	Token string
}

// Name implements Strategy.
func (TokenStrategy) Name() string { return "token" }

func (TokenStrategy) isStrategy() {}

// PasswordStrategy exchanges a username and password for a token.
type PasswordStrategy struct {
	Username string
	Password string
}

// Name implements Strategy.
func (PasswordStrategy) Name() string { return "password" }

func (PasswordStrategy) isStrategy() {}

// ResolveStrategy picks the strategy for creds. A token always wins over a
// username/password pair. With neither, it returns a *halo.ConfigurationError.
func ResolveStrategy(creds Credentials) (Strategy, error) {
	if token := strings.TrimSpace(creds.Token); token != "" {
		return TokenStrategy{Token: token}, nil
	}

	if creds.Username != "" && creds.Password != "" {
		return PasswordStrategy{Username: creds.Username, Password: creds.Password}, nil
	}

	return nil, &halo.ConfigurationError{Message: halo.ErrNoAuthStrategy.Error()}
}
