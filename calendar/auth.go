// Package calendar publishes candidate events to Google Calendar.
package calendar

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/travai"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gcal "google.golang.org/api/calendar/v3"
)

// Credentials hands out an authorized HTTP client for the Calendar API.
type Credentials interface {
	// Acquire returns the cached session or establishes a new one. It fails with an
	// error matching travai.ErrCredentialsMissing when no session can be established.
	Acquire(ctx context.Context) (*http.Client, error)
	// Invalidate drops the cached session after the API rejected it.
	Invalidate()
}

// Authenticator builds a credential session from an OAuth client file (as downloaded
// from the Google Cloud console) and a previously authorized token file.
type Authenticator struct {
	credentialsFile string
	tokenFile       string

	mu     sync.Mutex
	client *http.Client
}

var _ Credentials = (*Authenticator)(nil)

// NewAuthenticator creates an Authenticator. No file is read until Acquire.
func NewAuthenticator(credentialsFile, tokenFile string) *Authenticator {
	return &Authenticator{
		credentialsFile: credentialsFile,
		tokenFile:       tokenFile,
	}
}

// Acquire implements Credentials.
func (x *Authenticator) Acquire(ctx context.Context) (*http.Client, error) {
	x.mu.Lock()
	defer x.mu.Unlock()

	if x.client != nil {
		return x.client, nil
	}

	config, err := x.loadConfig()
	if err != nil {
		return nil, err
	}
	token, err := x.loadToken()
	if err != nil {
		return nil, err
	}

	// The session outlives the request that happened to create it.
	x.client = config.Client(context.WithoutCancel(ctx), token)
	return x.client, nil
}

// Invalidate implements Credentials.
func (x *Authenticator) Invalidate() {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.client = nil
}

func (x *Authenticator) loadConfig() (*oauth2.Config, error) {
	if x.credentialsFile == "" {
		return nil, goerr.Wrap(travai.ErrCredentialsMissing, "credentials file is not configured")
	}

	raw, err := os.ReadFile(x.credentialsFile)
	if err != nil {
		return nil, goerr.Wrap(travai.ErrCredentialsMissing, "failed to read credentials file",
			goerr.V("path", x.credentialsFile),
			goerr.V("cause", err.Error()),
		)
	}

	config, err := google.ConfigFromJSON(raw, gcal.CalendarEventsScope)
	if err != nil {
		return nil, goerr.Wrap(travai.ErrCredentialsMissing, "invalid credentials file",
			goerr.V("path", x.credentialsFile),
			goerr.V("cause", err.Error()),
		)
	}
	return config, nil
}

func (x *Authenticator) loadToken() (*oauth2.Token, error) {
	if x.tokenFile == "" {
		return nil, goerr.Wrap(travai.ErrCredentialsMissing, "token file is not configured")
	}

	raw, err := os.ReadFile(x.tokenFile)
	if err != nil {
		return nil, goerr.Wrap(travai.ErrCredentialsMissing, "failed to read token file",
			goerr.V("path", x.tokenFile),
			goerr.V("cause", err.Error()),
		)
	}

	var token oauth2.Token
	if err := json.Unmarshal(raw, &token); err != nil {
		return nil, goerr.Wrap(travai.ErrCredentialsMissing, "invalid token file",
			goerr.V("path", x.tokenFile),
			goerr.V("cause", err.Error()),
		)
	}
	if token.AccessToken == "" && token.RefreshToken == "" {
		return nil, goerr.Wrap(travai.ErrCredentialsMissing, "token file has neither access nor refresh token",
			goerr.V("path", x.tokenFile),
		)
	}
	return &token, nil
}
