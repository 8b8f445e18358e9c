package rs

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/roessland/runstreak/runalyze"
)

// Credentials for an interactive login. Empty fields are prompted for.
type Credentials struct {
	Username string
	Password string
}

// AuthService handles authentication and session export
type AuthService struct {
	client   RunalyzeClient
	prompter Prompter
	logger   Logger
	now      func() time.Time
}

// NewAuthService creates a new authentication service
func NewAuthService(client RunalyzeClient, prompter Prompter, logger Logger) *AuthService {
	return &AuthService{
		client:   client,
		prompter: prompter,
		logger:   logger,
		now:      time.Now,
	}
}

// Login signs in to Runalyze, checks that the new session can read the
// activity list and returns it as a token blob
func (a *AuthService) Login(creds Credentials) (string, error) {
	creds, err := a.complete(creds)
	if err != nil {
		return "", err
	}

	a.logger.Info("attempting login", "username", creds.Username)

	if err := a.client.Login(creds.Username, creds.Password); err != nil {
		if errors.Is(err, runalyze.ErrRedirectedToLogin) {
			return "", fmt.Errorf("runalyze rejected the username or password")
		}
		return "", &RemoteServiceError{Op: "login", Err: err}
	}

	// Verify the session before handing it out
	now := a.now()
	if _, err := a.client.GetDataBrowser(now.Add(-24*time.Hour), now); err != nil {
		return "", remoteError("session check", err)
	}

	tokens, err := a.client.Tokens()
	if err != nil {
		return "", fmt.Errorf("failed to export session: %w", err)
	}

	a.logger.Info("successfully logged in to Runalyze")
	return tokens, nil
}

// complete prompts for whatever the configuration did not provide
func (a *AuthService) complete(creds Credentials) (Credentials, error) {
	var err error
	if creds.Username == "" {
		if creds.Username, err = a.prompter.Prompt("Runalyze username"); err != nil {
			return creds, fmt.Errorf("failed to read username: %w", err)
		}
	}
	if creds.Password == "" {
		if creds.Password, err = a.prompter.PromptSecret("Runalyze password"); err != nil {
			return creds, fmt.Errorf("failed to read password: %w", err)
		}
	}

	creds.Username = strings.TrimSpace(creds.Username)
	if creds.Username == "" || creds.Password == "" {
		return creds, fmt.Errorf("username and password are required")
	}
	return creds, nil
}
