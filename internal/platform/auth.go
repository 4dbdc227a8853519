package platform

import (
	"context"
	"encoding/json"

	"github.com/tidwall/gjson"
)

// LoginResult is a successful login.
type LoginResult struct {
	Token string
	User  User
}

type loginData struct {
	AccessToken string `json:"access_token"`
	User        *User  `json:"user"`
}

// Login exchanges credentials for a token. A response without both the
// token and the user fails with ErrIncompleteResponse.
func (c *Client) Login(ctx context.Context, creds Credentials) (*LoginResult, error) {
	resp, err := c.Post(ctx, "/auth/login", creds)
	if err != nil {
		c.logFailure(ctx, "auth.login", err, "email", creds.Email)
		return nil, err
	}

	env, err := decode[Envelope[loginData]](resp)
	if err != nil {
		c.logFailure(ctx, "auth.login", err)
		return nil, err
	}
	if env.Data.AccessToken == "" || env.Data.User == nil {
		c.logFailure(ctx, "auth.login", ErrIncompleteResponse)
		return nil, ErrIncompleteResponse
	}

	return &LoginResult{Token: env.Data.AccessToken, User: *env.Data.User}, nil
}

// Logout tells the backend the session is over.
func (c *Client) Logout(ctx context.Context) error {
	if _, err := c.Post(ctx, "/auth/logout", struct{}{}); err != nil {
		c.logFailure(ctx, "auth.logout", err)
		return err
	}
	return nil
}

// Profile returns the user the current token belongs to. The backend has
// returned both a bare user and an enveloped one; both are accepted.
func (c *Client) Profile(ctx context.Context) (*User, error) {
	resp, err := c.Get(ctx, "/auth/profile")
	if err != nil {
		c.logFailure(ctx, "auth.profile", err)
		return nil, err
	}

	raw := resp.Raw
	if data := gjson.GetBytes(raw, "data"); data.IsObject() {
		raw = []byte(data.Raw)
	}

	var user User
	if err := json.Unmarshal(raw, &user); err != nil {
		c.logFailure(ctx, "auth.profile", err)
		return nil, err
	}
	return &user, nil
}
