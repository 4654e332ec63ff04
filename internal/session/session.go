// Package session owns the current-user identity and token lifecycle.
//
// The controller moves through LoggedOut → Authenticating → LoggedIn and
// back, gates which views are reachable, and keeps the gateway's bearer
// token in sync with the persisted state file.
package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/papajohnpapajohn12-lab/cinerate/internal/api"
	"github.com/papajohnpapajohn12-lab/cinerate/internal/models"
	"github.com/papajohnpapajohn12-lab/cinerate/internal/shared"
)

// State is the controller's position in the auth lifecycle.
type State int

const (
	LoggedOut State = iota
	Authenticating
	LoggedIn
)

func (s State) String() string {
	switch s {
	case Authenticating:
		return "authenticating"
	case LoggedIn:
		return "logged_in"
	default:
		return "logged_out"
	}
}

// MinPasswordLen is enforced locally before registration hits the network.
const MinPasswordLen = 4

// Controller owns the Session and its transitions. Constructed once and
// passed to the views that need it, never a package global.
type Controller struct {
	api     *api.Client
	store   *StateStore
	logger  *log.Logger
	state   State
	session *models.Session
}

// NewController wires the session controller to a gateway and state store.
func NewController(client *api.Client, store *StateStore, logger *log.Logger) *Controller {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Controller{api: client, store: store, logger: logger, state: LoggedOut}
}

// State returns the current lifecycle state.
func (c *Controller) State() State { return c.state }

// Current returns the active session, nil when logged out.
func (c *Controller) Current() *models.Session { return c.session }

// Resume attempts to restore a persisted session with one validation round
// trip. An invalid or expired token silently demotes to logged out and is
// discarded; transport failures are surfaced so the caller can retry.
func (c *Controller) Resume(ctx context.Context) error {
	token := c.store.Token()
	if token == "" {
		c.state = LoggedOut
		return nil
	}

	c.api.SetToken(token)
	user, err := c.api.Me(ctx)
	if err != nil {
		if errors.Is(err, api.ErrUnreachable) {
			c.api.ClearToken()
			c.state = LoggedOut
			return err
		}
		// Invalid token: demote without surfacing an error.
		c.logger.Debug("stored token rejected, logging out", "error", err)
		c.api.ClearToken()
		c.state = LoggedOut
		if err := c.store.ClearToken(); err != nil {
			c.logger.Warn("failed to clear stored token", "error", err)
		}
		return nil
	}

	c.session = &models.Session{User: *user, Token: token}
	c.state = LoggedIn
	return nil
}

// Login authenticates and, on success, installs the session and persists
// the token. A failed attempt leaves any previous session untouched.
func (c *Controller) Login(ctx context.Context, username, password string) (*models.Session, error) {
	if username == "" || password == "" {
		return nil, fmt.Errorf("%w: username and password are required", shared.ErrInvalidInput)
	}

	c.state = Authenticating
	resp, err := c.api.Login(ctx, username, password)
	if err != nil {
		// Failed attempt: stay in Authenticating so the auth form remains
		// up. The previous session and token are untouched.
		return nil, err
	}

	return c.establish(resp)
}

// Register creates an account and logs in. The password length check runs
// locally before any network call.
func (c *Controller) Register(ctx context.Context, username, password, displayName string) (*models.Session, error) {
	if username == "" {
		return nil, fmt.Errorf("%w: username is required", shared.ErrInvalidInput)
	}
	if len(password) < MinPasswordLen {
		return nil, fmt.Errorf("%w: password must be at least %d characters", shared.ErrInvalidInput, MinPasswordLen)
	}

	c.state = Authenticating
	resp, err := c.api.Register(ctx, username, password, displayName)
	if err != nil {
		// Failed attempt: stay in Authenticating, previous session intact.
		return nil, err
	}

	return c.establish(resp)
}

func (c *Controller) establish(resp *api.AuthResponse) (*models.Session, error) {
	c.session = &models.Session{User: resp.User, Token: resp.AccessToken}
	c.state = LoggedIn
	c.api.SetToken(resp.AccessToken)
	if err := c.store.SetToken(resp.AccessToken); err != nil {
		c.logger.Warn("failed to persist token", "error", err)
	}
	return c.session, nil
}

// Logout destroys the session and clears the persisted token.
func (c *Controller) Logout() error {
	c.session = nil
	c.state = LoggedOut
	c.api.ClearToken()
	return c.store.ClearToken()
}

// UpdateDisplayName updates the profile remotely and, on success, mutates
// the in-memory session. No re-fetch.
func (c *Controller) UpdateDisplayName(ctx context.Context, displayName string) error {
	if c.session == nil {
		return shared.ErrNotAuthenticated
	}
	if err := c.api.UpdateProfile(ctx, displayName); err != nil {
		return err
	}
	c.session.User.DisplayName = displayName
	return nil
}

// Handle401 demotes to logged out when a call reports an expired or
// rejected token mid-session.
func (c *Controller) Handle401(err error) bool {
	if api.IsStatus(err, http.StatusUnauthorized) {
		if logoutErr := c.Logout(); logoutErr != nil {
			c.logger.Warn("failed to clear state on 401", "error", logoutErr)
		}
		return true
	}
	return false
}

// LastPage returns the persisted last-active page identifier.
func (c *Controller) LastPage() string { return c.store.Page() }

// RememberPage persists the active page identifier across restarts.
func (c *Controller) RememberPage(page string) {
	if err := c.store.SetPage(page); err != nil {
		c.logger.Warn("failed to persist page", "error", err)
	}
}
