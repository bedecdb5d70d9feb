package api

import (
	"context"
	"net/http"
)

// Login authenticates with name and email. On success the catalog sets the
// session cookie on the client's jar.
func (c *Client) Login(ctx context.Context, name, email string) error {
	body := struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	}{Name: name, Email: email}
	return c.do(ctx, request{endpoint: "auth_login", method: http.MethodPost, path: "/auth/login", body: body}, nil)
}

// Logout ends the remote session.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, request{endpoint: "auth_logout", method: http.MethodPost, path: "/auth/logout"}, nil)
}

// CheckLogin reports whether the current credential is accepted. Any
// failure counts as logged out.
func (c *Client) CheckLogin(ctx context.Context) bool {
	_, err := c.Breeds(ctx)
	return err == nil
}
