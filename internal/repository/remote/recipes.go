package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"

	"github.com/pageza/cookbook/internal/assets"
	"github.com/pageza/cookbook/internal/models"
	"github.com/pageza/cookbook/internal/repository"
)

func (c *Client) ListRecipes(ctx context.Context, skip, limit int) ([]models.Recipe, error) {
	var recipes []models.Recipe
	err := c.do(ctx, request{method: http.MethodGet, path: "/recipes/all", query: pageQuery(skip, limit)}, &recipes)
	return nonNil(recipes), err
}

func (c *Client) SearchRecipes(ctx context.Context, query string, skip, limit int) ([]models.Recipe, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return c.ListRecipes(ctx, skip, limit)
	}
	params := pageQuery(skip, limit)
	params.Set("q", q)

	var recipes []models.Recipe
	err := c.do(ctx, request{method: http.MethodGet, path: "/recipes/search", query: params}, &recipes)
	return nonNil(recipes), err
}

func (c *Client) GetRecipe(ctx context.Context, id models.ID) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := c.do(ctx, request{method: http.MethodGet, path: recipePath(id)}, &recipe); err != nil {
		return nil, err
	}
	return &recipe, nil
}

// CreateRecipe posts the draft as the "recipe" form field alongside the
// optional "image" file.
func (c *Client) CreateRecipe(ctx context.Context, draft models.RecipeDraft, image *assets.Asset) (*models.Recipe, error) {
	draft, err := repository.NormalizeDraft(draft)
	if err != nil {
		return nil, err
	}
	if image != nil {
		if err := image.Validate(); err != nil {
			return nil, err
		}
	}

	raw, err := json.Marshal(draft)
	if err != nil {
		return nil, fmt.Errorf("failed to encode recipe: %w", err)
	}

	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	if err := form.WriteField("recipe", string(raw)); err != nil {
		return nil, err
	}
	if image != nil {
		if err := writeFile(form, "image", image); err != nil {
			return nil, err
		}
	}
	if err := form.Close(); err != nil {
		return nil, err
	}

	var recipe models.Recipe
	err = c.do(ctx, request{
		method:      http.MethodPost,
		path:        "/recipes/upload",
		body:        &buf,
		contentType: form.FormDataContentType(),
		auth:        true,
	}, &recipe)
	if err != nil {
		return nil, err
	}
	return &recipe, nil
}

func (c *Client) DeleteRecipe(ctx context.Context, id models.ID) error {
	return c.do(ctx, request{method: http.MethodDelete, path: recipePath(id), auth: true}, nil)
}

func (c *Client) ListUserRecipes(ctx context.Context, userID models.ID, skip, limit int) ([]models.Recipe, error) {
	var recipes []models.Recipe
	err := c.do(ctx, request{
		method: http.MethodGet,
		path:   "/users/" + url.PathEscape(userID.String()) + "/recipes",
		query:  pageQuery(skip, limit),
	}, &recipes)
	return nonNil(recipes), err
}

func recipePath(id models.ID) string {
	return "/recipes/" + url.PathEscape(id.String())
}

// writeFile adds an asset as a multipart file part with its content type.
func writeFile(form *multipart.Writer, field string, a *assets.Asset) error {
	filename := a.Filename
	if filename == "" {
		filename = "upload" + a.Ext()
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, field, filename))
	h.Set("Content-Type", a.ContentType)
	part, err := form.CreatePart(h)
	if err != nil {
		return err
	}
	_, err = part.Write(a.Data)
	return err
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
