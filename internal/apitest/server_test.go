package apitest

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/pageza/cookbook/internal/repository/local"
	"github.com/pageza/cookbook/internal/storage"
	"github.com/pageza/cookbook/internal/types"
)

func setupRouter(t *testing.T, opts Options) *gin.Engine {
	gin.SetMode(gin.TestMode)
	repo := local.New(storage.NewMemoryStore(), local.Options{Secret: []byte("s"), BcryptCost: bcrypt.MinCost})
	_, err := repo.Seed(context.Background())
	require.NoError(t, err)
	return NewServer(repo, opts).Router(opts)
}

func TestListSeededRecipes(t *testing.T) {
	router := setupRouter(t, Options{})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/recipes/all?limit=3", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var recipes []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &recipes))
	assert.Len(t, recipes, 3)
}

func TestProtectedRoutesRequireBearer(t *testing.T) {
	router := setupRouter(t, Options{})

	tests := []struct {
		header string
		detail string
	}{
		{"", "missing authorization header"},
		{"Token abc", "invalid authorization header format"},
		{"Bearer abc", "invalid or expired session"},
	}
	for _, tt := range tests {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodDelete, "/recipes/any", nil)
		if tt.header != "" {
			req.Header.Set("Authorization", tt.header)
		}
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		var body types.ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, tt.detail, body.Detail)
	}
}

func TestMeWithoutSession(t *testing.T) {
	router := setupRouter(t, Options{})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/auth/me", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestUploadAvatar(t *testing.T) {
	router := setupRouter(t, Options{})

	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	part, err := form.CreateFormFile("file", "me.png")
	require.NoError(t, err)
	_, _ = part.Write([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"))
	require.NoError(t, form.Close())

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/uploads/avatar", &buf)
	req.Header.Set("Content-Type", form.FormDataContentType())
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	var body types.AvatarResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Contains(t, body.URL, "data:image/png;base64,")
}

func TestCORSPreflight(t *testing.T) {
	router := setupRouter(t, Options{AllowOrigins: []string{"http://localhost:5173"}})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodOptions, "/recipes/all", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "GET")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
}
