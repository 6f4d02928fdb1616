package api

import (
	"context"
	"net/http"

	"github.com/julianstephens/habitual/internal/models"
)

// Register creates an account. The backend signs the new user in, so the
// returned session cookie is kept.
func (c *Client) Register(ctx context.Context, creds models.Credentials) (*models.LoginResponse, error) {
	var out models.LoginResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/register", nil, creds, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Login(ctx context.Context, creds models.Credentials) (*models.LoginResponse, error) {
	var out models.LoginResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", nil, creds, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Logout ends the session on the backend and drops the local cookie even
// when the backend call fails.
func (c *Client) Logout(ctx context.Context) error {
	err := c.do(ctx, http.MethodPost, "/api/auth/logout", nil, nil, &models.MessageResponse{})
	c.SetToken("")
	return err
}

// Me returns the signed-in user
func (c *Client) Me(ctx context.Context) (*models.User, error) {
	var out models.UserResponse
	if err := c.do(ctx, http.MethodGet, "/api/auth/me", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}
