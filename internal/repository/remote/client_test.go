package remote

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/pageza/cookbook/internal/apitest"
	"github.com/pageza/cookbook/internal/apperr"
	"github.com/pageza/cookbook/internal/models"
	"github.com/pageza/cookbook/internal/repository"
	"github.com/pageza/cookbook/internal/repository/local"
	"github.com/pageza/cookbook/internal/repository/repotest"
	"github.com/pageza/cookbook/internal/storage"
)

func startFixture(t *testing.T) *httptest.Server {
	base := local.New(storage.NewMemoryStore(), local.Options{
		Secret:     []byte("fixture-secret"),
		BcryptCost: bcrypt.MinCost,
	})
	return apitest.Start(t, base, apitest.Options{})
}

func newClient(t *testing.T, baseURL string) *Client {
	c, err := New(baseURL, Options{})
	require.NoError(t, err)
	return c
}

func TestContract(t *testing.T) {
	repotest.Run(t, func(t *testing.T) func() repository.Repository {
		srv := startFixture(t)
		return func() repository.Repository { return newClient(t, srv.URL) }
	})
}

func TestNewRejectsRelativeURL(t *testing.T) {
	_, err := New("/api", Options{})
	assert.Error(t, err)
}

func TestRejectedSessionIsCleared(t *testing.T) {
	ctx := context.Background()
	srv := startFixture(t)
	session := repository.NewMemorySession()
	c, err := New(srv.URL, Options{Session: session})
	require.NoError(t, err)

	require.NoError(t, session.SetToken(ctx, "stale-token"))
	user, err := c.CurrentUser(ctx)
	require.NoError(t, err)
	assert.Nil(t, user)

	token, _ := session.Token(ctx)
	assert.Empty(t, token)
}

func TestValidationNeverReachesNetwork(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)
	c := newClient(t, srv.URL)
	ctx := context.Background()

	_, err := c.CreateRecipe(ctx, models.RecipeDraft{Title: "", Description: "d"}, nil)
	assert.ErrorIs(t, err, apperr.ErrValidation)
	_, err = c.AddReview(ctx, "1", 9, "")
	assert.ErrorIs(t, err, apperr.ErrValidation)
	_, err = c.Register(ctx, "bad", "u", "p", nil)
	assert.ErrorIs(t, err, apperr.ErrValidation)

	assert.Zero(t, calls.Load())
}

func TestErrorMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/recipes/:id", func(c *gin.Context) {
		switch c.Param("id") {
		case "message":
			c.JSON(http.StatusConflict, gin.H{"message": "already there"})
		case "error":
			c.JSON(http.StatusForbidden, gin.H{"error": "not yours"})
		case "detail":
			c.JSON(http.StatusNotFound, gin.H{"detail": "Recipe not found"})
		case "unprocessable":
			c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": []gin.H{{"msg": "field required"}}})
		case "teapot":
			c.String(http.StatusTeapot, "<html>")
		}
	})
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	c := newClient(t, srv.URL)
	ctx := context.Background()

	tests := []struct {
		id   models.ID
		kind error
		msg  string
	}{
		{"message", apperr.ErrConflict, "already there"},
		{"error", apperr.ErrForbidden, "not yours"},
		{"detail", apperr.ErrNotFound, "Recipe not found"},
		{"unprocessable", apperr.ErrValidation, "field required"},
		{"teapot", apperr.ErrInternal, "I'm a teapot"},
	}
	for _, tt := range tests {
		_, err := c.GetRecipe(ctx, tt.id)
		assert.ErrorIs(t, err, tt.kind, string(tt.id))
		assert.Equal(t, tt.msg, apperr.Message(err), string(tt.id))
	}
}

func TestNumericIDsDecode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id": 7, "title": "Борщ", "author_id": 3, "rating_avg": 4, "review_count": 1}]`))
	}))
	t.Cleanup(srv.Close)

	recipes, err := newClient(t, srv.URL).ListRecipes(context.Background(), 0, 10)
	require.NoError(t, err)
	require.Len(t, recipes, 1)
	assert.Equal(t, models.ID("7"), recipes[0].ID)
	require.NotNil(t, recipes[0].AuthorID)
	assert.Equal(t, models.ID("3"), *recipes[0].AuthorID)
}

func TestPagingIsNormalizedOnTheWire(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		_, _ = w.Write([]byte(`[]`))
	}))
	t.Cleanup(srv.Close)

	recipes, err := newClient(t, srv.URL).ListRecipes(context.Background(), -1, 1000)
	require.NoError(t, err)
	assert.Empty(t, recipes)
	assert.Equal(t, "limit=100&skip=0", gotQuery)
}

func TestUnreachableServerIsInternal(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := newClient(t, url).ListRecipes(context.Background(), 0, 10)
	assert.ErrorIs(t, err, apperr.ErrInternal)
}
