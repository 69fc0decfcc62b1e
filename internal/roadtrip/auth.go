package roadtrip

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"roadtrip/internal/adapter"
	"roadtrip/internal/credential"
	"roadtrip/internal/logging"
	"roadtrip/internal/transport"
)

// ErrNoToken is returned by Login when a successful response carried no token.
var ErrNoToken = errors.New("login response carried no token")

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func validCredentials(username, password string) (credentials, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return credentials{}, &transport.ValidationError{Field: "username", Reason: "must not be empty"}
	}
	if password == "" {
		return credentials{}, &transport.ValidationError{Field: "password", Reason: "must not be empty"}
	}
	return credentials{Username: username, Password: password}, nil
}

// Register creates an account. A taken username surfaces as a 409 *transport.HTTPError
// whose message is the backend's text.
func (c *Client) Register(ctx context.Context, username, password string) error {
	body, err := validCredentials(username, password)
	if err != nil {
		return err
	}
	if _, err := c.api.Call(ctx, transport.Request{Method: transport.MethodPost, Path: "/auth/register", Body: body}); err != nil {
		logging.AuthError("register %q: %v", body.Username, err)
		return err
	}
	logging.Auth("registered %q", body.Username)
	return nil
}

// Login exchanges credentials for a token and stores it. When Login returns, every
// request issued afterwards carries the new token.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	body, err := validCredentials(username, password)
	if err != nil {
		return "", err
	}
	out, err := c.api.Call(ctx, transport.Request{Method: transport.MethodPost, Path: "/auth/login", Body: body})
	if err != nil {
		logging.AuthError("login %q: %v", body.Username, err)
		return "", err
	}

	token, ok := tokenFrom(out)
	if !ok {
		logging.AuthError("login %q: %s response without token", body.Username, out.Kind)
		return "", ErrNoToken
	}
	if err := c.store.SetToken(token); err != nil {
		return "", fmt.Errorf("store token: %w", err)
	}
	logging.Auth("logged in as %q", body.Username)
	return token, nil
}

// Logout clears the stored token.
func (c *Client) Logout(ctx context.Context) error {
	if err := c.store.ClearToken(); err != nil {
		return fmt.Errorf("clear token: %w", err)
	}
	logging.Auth("logged out")
	return nil
}

// LoggedIn reports whether a token is currently stored.
func (c *Client) LoggedIn() bool {
	_, ok := c.store.Token()
	return ok
}

var tokenKeys = []string{"token", "accessToken", "access_token"}

func tokenFrom(out transport.Outcome) (string, bool) {
	switch out.Kind {
	case transport.JSONSuccess:
		v, ok := adapter.Decode(out.Payload)
		if !ok {
			return "", false
		}
		switch x := v.(type) {
		case string:
			return credential.Normalize(strings.TrimSpace(x))
		case map[string]any:
			for _, k := range tokenKeys {
				if s, ok := x[k].(string); ok {
					if tok, ok := credential.Normalize(strings.TrimSpace(s)); ok {
						return tok, true
					}
				}
			}
		}
	case transport.NonJSONSuccess:
		return credential.Normalize(strings.Trim(strings.TrimSpace(string(out.Raw)), `"`))
	}
	return "", false
}
