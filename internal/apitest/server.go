// Package apitest serves the cookbook REST surface over a local repository.
// It backs the remote client's tests and the fixture-server command.
package apitest

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pageza/cookbook/internal/assets"
	"github.com/pageza/cookbook/internal/middleware"
	"github.com/pageza/cookbook/internal/repository/local"
)

// Options configures the fixture router.
type Options struct {
	// Assets stores avatar uploads; InlineStore when nil.
	Assets assets.Store
	// AllowOrigins enables CORS for the given browser origins.
	AllowOrigins []string
	// LoginLimiter throttles POST /auth/token per client address.
	LoginLimiter *middleware.RateLimiter
	Logger       *zap.Logger
}

// Server binds one local repository view to each request's bearer token.
type Server struct {
	repo   *local.Repository
	assets assets.Store
	log    *zap.Logger
}

func NewServer(repo *local.Repository, opts Options) *Server {
	s := &Server{repo: repo, assets: opts.Assets, log: opts.Logger}
	if s.assets == nil {
		s.assets = assets.InlineStore{}
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	return s
}

// Router configures the application routes
func (s *Server) Router(opts Options) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), s.requestLogger())

	if len(opts.AllowOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     opts.AllowOrigins,
			AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept"},
			AllowCredentials: true,
			MaxAge:           24 * time.Hour,
		}))
	}

	router.Use(s.sessionMiddleware())

	auth := router.Group("/auth")
	{
		if opts.LoginLimiter != nil {
			auth.POST("/token", opts.LoginLimiter.Middleware(middleware.ClientIP), s.Token)
		} else {
			auth.POST("/token", s.Token)
		}
		auth.POST("/register", s.Register)
		auth.GET("/me", s.Me)
	}

	router.POST("/uploads/avatar", s.UploadAvatar)

	recipes := router.Group("/recipes")
	{
		recipes.GET("/all", s.ListRecipes)
		recipes.GET("/search", s.SearchRecipes)
		recipes.POST("/upload", s.authRequired(), s.CreateRecipe)
		recipes.GET("/:id", s.GetRecipe)
		recipes.DELETE("/:id", s.authRequired(), s.DeleteRecipe)
		recipes.GET("/:id/reviews", s.ListReviews)
		recipes.POST("/:id/reviews", s.authRequired(), s.AddReview)
	}

	users := router.Group("/users")
	{
		users.PATCH("/me", s.authRequired(), s.UpdateProfile)
		users.GET("/:id", s.GetUser)
		users.GET("/:id/recipes", s.ListUserRecipes)
	}

	return router
}

// Start runs the fixture on an httptest server that is closed with the
// test.
func Start(t *testing.T, repo *local.Repository, opts Options) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	srv := httptest.NewServer(NewServer(repo, opts).Router(opts))
	t.Cleanup(srv.Close)
	return srv
}
