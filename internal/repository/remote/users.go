package remote

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"github.com/pageza/cookbook/internal/assets"
	"github.com/pageza/cookbook/internal/models"
	"github.com/pageza/cookbook/internal/repository"
	"github.com/pageza/cookbook/internal/types"
)

// Register uploads the avatar first, when given, and registers the account
// with the returned URL.
func (c *Client) Register(ctx context.Context, email, username, password string, avatar *assets.Asset) (*models.User, error) {
	email, username, err := repository.ValidateRegistration(email, username, password)
	if err != nil {
		return nil, err
	}

	var avatarURL string
	if avatar != nil {
		if avatarURL, err = c.uploadAvatar(ctx, avatar); err != nil {
			return nil, err
		}
	}

	var user models.User
	err = c.do(ctx, request{
		method: http.MethodPost,
		path:   "/auth/register",
		body:   types.RegisterRequest{Email: email, Username: username, Password: password, Avatar: avatarURL},
	}, &user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) uploadAvatar(ctx context.Context, avatar *assets.Asset) (string, error) {
	if err := avatar.Validate(); err != nil {
		return "", err
	}

	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	if err := writeFile(form, "file", avatar); err != nil {
		return "", err
	}
	if err := form.Close(); err != nil {
		return "", err
	}

	var resp types.AvatarResponse
	err := c.do(ctx, request{
		method:      http.MethodPost,
		path:        "/uploads/avatar",
		body:        &buf,
		contentType: form.FormDataContentType(),
	}, &resp)
	if err != nil {
		return "", fmt.Errorf("avatar upload failed: %w", err)
	}
	return resp.URL, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	var resp types.TokenResponse
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/auth/token",
		body:   types.TokenRequest{Email: repository.NormalizeEmail(email), Password: password},
	}, &resp)
	if err != nil {
		return "", err
	}
	if err := c.session.SetToken(ctx, resp.AccessToken); err != nil {
		return "", fmt.Errorf("failed to store session: %w", err)
	}
	return resp.AccessToken, nil
}

// CurrentUser asks the API who the session belongs to. A rejected
// credential clears the session.
func (c *Client) CurrentUser(ctx context.Context) (*models.User, error) {
	token, err := c.session.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}
	if token == "" {
		return nil, nil
	}

	var user models.User
	err = c.do(ctx, request{method: http.MethodGet, path: "/auth/me", auth: true}, &user)
	if isUnauthorized(err) {
		c.log.Debug("session rejected by api, clearing")
		if err := c.session.Clear(ctx); err != nil {
			return nil, fmt.Errorf("failed to clear session: %w", err)
		}
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) Logout(ctx context.Context) error {
	if err := c.session.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

func (c *Client) GetUser(ctx context.Context, id models.ID) (*models.User, error) {
	var user models.User
	if err := c.do(ctx, request{method: http.MethodGet, path: "/users/" + url.PathEscape(id.String())}, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) UpdateProfile(ctx context.Context, update models.ProfileUpdate) (*models.User, error) {
	update, err := repository.ValidateProfileUpdate(update)
	if err != nil {
		return nil, err
	}

	var user models.User
	err = c.do(ctx, request{method: http.MethodPatch, path: "/users/me", body: update, auth: true}, &user)
	if err != nil {
		return nil, err
	}
	c.log.Info("profile updated", zap.String("user_id", user.ID.String()))
	return &user, nil
}
