// Package assets stores uploaded recipe images and avatars and returns the
// reference the records keep.
package assets

import (
	"context"
	"net/http"
	"path"
	"strings"

	"github.com/pageza/cookbook/internal/apperr"
)

// Asset is an uploaded file.
type Asset struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Kind selects the folder an asset is stored under.
type Kind string

const (
	RecipeImage Kind = "recipes"
	Avatar      Kind = "avatars"
)

// Store persists an asset and returns a URL or data reference for it.
type Store interface {
	Put(ctx context.Context, kind Kind, a *Asset) (string, error)
}

// MaxSize bounds accepted uploads.
const MaxSize = 5 << 20

// Validate rejects empty, oversized or non-image payloads. A missing or
// generic content type is sniffed from the data.
func (a *Asset) Validate() error {
	if len(a.Data) == 0 {
		return apperr.Validation("image is empty")
	}
	if len(a.Data) > MaxSize {
		return apperr.Validation("image exceeds 5MB")
	}
	if a.ContentType == "" || a.ContentType == "application/octet-stream" {
		a.ContentType = http.DetectContentType(a.Data)
	}
	if !strings.HasPrefix(a.ContentType, "image/") {
		return apperr.Validation("file is not an image")
	}
	return nil
}

// Ext returns the filename extension, falling back to one derived from the
// content type.
func (a *Asset) Ext() string {
	if ext := path.Ext(a.Filename); ext != "" {
		return strings.ToLower(ext)
	}
	switch a.ContentType {
	case "image/jpeg":
		return ".jpg"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	default:
		return ".png"
	}
}
