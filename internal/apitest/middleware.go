package apitest

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pageza/cookbook/internal/repository"
	"github.com/pageza/cookbook/internal/repository/local"
	"github.com/pageza/cookbook/internal/types"
)

const repoKey = "repo"

// sessionMiddleware binds a repository view to the request's bearer token.
// Requests without a token get an anonymous view.
func (s *Server) sessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := repository.NewMemorySession()
		if token := bearerToken(c.GetHeader("Authorization")); token != "" {
			_ = session.SetToken(c.Request.Context(), token)
		}
		c.Set(repoKey, s.repo.WithSession(session))
		c.Next()
	}
}

// authRequired rejects requests whose bearer token does not validate
func (s *Server) authRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, types.ErrorResponse{Detail: "missing authorization header"})
			return
		}

		token := bearerToken(authHeader)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, types.ErrorResponse{Detail: "invalid authorization header format"})
			return
		}

		claims, err := s.repo.ParseToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, types.ErrorResponse{Detail: err.Error()})
			return
		}

		c.Set("user_id", claims.Subject)
		c.Next()
	}
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Debug("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)))
	}
}

func bearerToken(header string) string {
	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return parts[1]
}

func repoFrom(c *gin.Context) *local.Repository {
	return c.MustGet(repoKey).(*local.Repository)
}

func ctxOf(c *gin.Context) context.Context {
	return c.Request.Context()
}
