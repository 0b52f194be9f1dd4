package calendar_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/travai"
	"github.com/m-mizutani/travai/calendar"
)

const credentialsJSON = `{
  "installed": {
    "client_id": "test-client.apps.googleusercontent.com",
    "client_secret": "test-secret",
    "redirect_uris": ["http://localhost"],
    "auth_uri": "https://accounts.google.com/o/oauth2/auth",
    "token_uri": "https://oauth2.googleapis.com/token"
  }
}`

const tokenJSON = `{
  "access_token": "test-access-token",
  "token_type": "Bearer",
  "refresh_token": "test-refresh-token",
  "expiry": "2099-01-01T00:00:00Z"
}`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	gt.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestAuthenticatorAcquire(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	creds := writeFile(t, dir, "credentials.json", credentialsJSON)
	token := writeFile(t, dir, "token.json", tokenJSON)

	auth := calendar.NewAuthenticator(creds, token)

	first, err := auth.Acquire(ctx)
	gt.NoError(t, err)
	gt.Value(t, first).NotNil()

	second, err := auth.Acquire(ctx)
	gt.NoError(t, err)
	gt.True(t, first == second)

	auth.Invalidate()
	third, err := auth.Acquire(ctx)
	gt.NoError(t, err)
	gt.False(t, first == third)
}

func TestAuthenticatorMissingCredentials(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	creds := writeFile(t, dir, "credentials.json", credentialsJSON)
	token := writeFile(t, dir, "token.json", tokenJSON)

	testCases := map[string]struct {
		credentials string
		token       string
	}{
		"not configured": {},
		"no credentials file": {
			credentials: filepath.Join(dir, "missing.json"),
			token:       token,
		},
		"no token file": {
			credentials: creds,
			token:       filepath.Join(dir, "missing.json"),
		},
		"broken credentials": {
			credentials: writeFile(t, dir, "broken.json", "{not json"),
			token:       token,
		},
		"broken token": {
			credentials: creds,
			token:       writeFile(t, dir, "broken-token.json", "[]"),
		},
		"empty token": {
			credentials: creds,
			token:       writeFile(t, dir, "empty-token.json", `{"token_type": "Bearer"}`),
		},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			auth := calendar.NewAuthenticator(tc.credentials, tc.token)
			_, err := auth.Acquire(ctx)
			gt.Error(t, err)
			gt.True(t, errors.Is(err, travai.ErrCredentialsMissing))
		})
	}
}
