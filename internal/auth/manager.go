package auth

import (
	"context"
	"net/http"
	"sync"

	"github.com/fivetwenty-io/halo-client/internal/constants"
	halohttp "github.com/fivetwenty-io/halo-client/internal/http"
	"github.com/fivetwenty-io/halo-client/pkg/halo"
	"github.com/hashicorp/go-hclog"
)

// State is the authentication state of a session.
type State int

const (
	StateUnauthenticated State = iota
	StateAuthenticated
)

// String implements fmt.Stringer.
func (s State) String() string {
	if s == StateAuthenticated {
		return "authenticated"
	}

	return "unauthenticated"
}

// LoginDoer performs the password login request. It must not attach a
// bearer token.
type LoginDoer interface {
	DoJSON(ctx context.Context, req *halohttp.Request, out interface{}) error
}

// TokenPersister saves a freshly issued token, e.g. to the CLI config file.
type TokenPersister interface {
	SaveToken(baseURL, token string) error
}

// Manager is the session of one client: it resolves credentials into a
// bearer token and hands that token to the transport.
type Manager struct {
	strategy  Strategy
	login     LoginDoer
	store     *TokenStore
	persister TokenPersister
	baseURL   string
	logger    hclog.Logger

	// authMu serialises authentication attempts.
	authMu sync.Mutex
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithLogger sets the session logger.
func WithLogger(logger hclog.Logger) ManagerOption {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithPersister saves tokens obtained through password login.
func WithPersister(persister TokenPersister, baseURL string) ManagerOption {
	return func(m *Manager) {
		m.persister = persister
		m.baseURL = baseURL
	}
}

// NewManager creates a session for strategy. A nil strategy is allowed; the
// session then fails every authentication with a configuration error.
func NewManager(strategy Strategy, login LoginDoer, opts ...ManagerOption) *Manager {
	manager := &Manager{
		strategy: strategy,
		login:    login,
		store:    NewTokenStore(),
		logger:   hclog.NewNullLogger(),
	}

	for _, opt := range opts {
		opt(manager)
	}

	return manager
}

// Strategy returns the resolved strategy, or nil.
func (m *Manager) Strategy() Strategy {
	return m.strategy
}

// State returns the current session state.
func (m *Manager) State() State {
	if m.store.Get().Valid() {
		return StateAuthenticated
	}

	return StateUnauthenticated
}

// IsAuthenticated reports whether a token is installed.
func (m *Manager) IsAuthenticated() bool {
	return m.State() == StateAuthenticated
}

// GetToken returns the installed token, or "" before authentication. It
// never triggers authentication.
func (m *Manager) GetToken(_ context.Context) (string, error) {
	token := m.store.Get()
	if token == nil {
		return "", nil
	}

	return token.AccessToken, nil
}

// Reset returns the session to the unauthenticated state.
func (m *Manager) Reset() {
	m.store.Clear()
}

// Authenticate installs a fresh token using the resolved strategy. On
// failure the session is left unauthenticated.
func (m *Manager) Authenticate(ctx context.Context) error {
	m.authMu.Lock()
	defer m.authMu.Unlock()

	return m.authenticateLocked(ctx)
}

// EnsureAuthenticated authenticates only when no token is installed.
func (m *Manager) EnsureAuthenticated(ctx context.Context) error {
	if m.IsAuthenticated() {
		return nil
	}

	m.authMu.Lock()
	defer m.authMu.Unlock()

	if m.IsAuthenticated() {
		return nil
	}

	return m.authenticateLocked(ctx)
}

func (m *Manager) authenticateLocked(ctx context.Context) error {
	switch strategy := m.strategy.(type) {
	case TokenStrategy:
		m.store.Set(&Token{AccessToken: strategy.Token, TokenType: "Bearer"})
		m.logger.Info("authenticated", "strategy", strategy.Name())

		return nil
	case PasswordStrategy:
		token, err := m.loginWithPassword(ctx, strategy)
		if err != nil {
			m.store.Clear()
			m.logger.Error("login failed", "username", strategy.Username, "error", err)

			return &halo.AuthenticationError{Message: "password login", Cause: err}
		}

		m.store.Set(token)
		m.logger.Info("authenticated", "strategy", strategy.Name(), "username", strategy.Username)
		m.persist(token)

		return nil
	default:
		m.store.Clear()

		return &halo.ConfigurationError{Message: halo.ErrNoAuthStrategy.Error()}
	}
}

func (m *Manager) loginWithPassword(ctx context.Context, strategy PasswordStrategy) (*Token, error) {
	if m.login == nil {
		return nil, halo.ErrNoLoginTransport
	}

	req := &halohttp.Request{
		Method: http.MethodPost,
		Path:   constants.PathLogin,
		Body: map[string]string{
			"username": strategy.Username,
			"password": strategy.Password,
		},
	}

	var token Token

	err := m.login.DoJSON(ctx, req, &token)
	if err != nil {
		return nil, err
	}

	if !token.Valid() {
		return nil, halo.ErrNoAccessToken
	}

	return &token, nil
}

func (m *Manager) persist(token *Token) {
	if m.persister == nil {
		return
	}

	err := m.persister.SaveToken(m.baseURL, token.AccessToken)
	if err != nil {
		m.logger.Warn("failed to persist token", "error", err)
	}
}
