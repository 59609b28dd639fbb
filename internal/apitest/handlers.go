package apitest

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pageza/cookbook/internal/apperr"
	"github.com/pageza/cookbook/internal/assets"
	"github.com/pageza/cookbook/internal/models"
	"github.com/pageza/cookbook/internal/types"
)

// Token exchanges credentials for a bearer token
func (s *Server) Token(c *gin.Context) {
	var req types.TokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, apperr.Validation("email and password are required"))
		return
	}

	token, err := repoFrom(c).Login(ctxOf(c), req.Email, req.Password)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, types.TokenResponse{AccessToken: token, TokenType: "bearer"})
}

func (s *Server) Register(c *gin.Context) {
	var req types.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, apperr.Validation("email, username and password are required"))
		return
	}

	user, err := repoFrom(c).RegisterWithAvatarURL(ctxOf(c), req.Email, req.Username, req.Password, req.Avatar)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

// Me returns the user behind the bearer token, 401 when there is none
func (s *Server) Me(c *gin.Context) {
	user, err := repoFrom(c).CurrentUser(ctxOf(c))
	if err != nil {
		s.fail(c, err)
		return
	}
	if user == nil {
		s.fail(c, apperr.Unauthorized("not authenticated"))
		return
	}
	c.JSON(http.StatusOK, user)
}

func (s *Server) UploadAvatar(c *gin.Context) {
	asset, err := formAsset(c, "file")
	if err != nil {
		s.fail(c, err)
		return
	}
	if asset == nil {
		s.fail(c, apperr.Validation("file is required"))
		return
	}

	url, err := s.assets.Put(ctxOf(c), assets.Avatar, asset)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, types.AvatarResponse{URL: url})
}

func (s *Server) ListRecipes(c *gin.Context) {
	skip, limit := paging(c)
	recipes, err := repoFrom(c).ListRecipes(ctxOf(c), skip, limit)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, recipes)
}

func (s *Server) SearchRecipes(c *gin.Context) {
	skip, limit := paging(c)
	recipes, err := repoFrom(c).SearchRecipes(ctxOf(c), c.Query("q"), skip, limit)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, recipes)
}

func (s *Server) GetRecipe(c *gin.Context) {
	recipe, err := repoFrom(c).GetRecipe(ctxOf(c), models.ID(c.Param("id")))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, recipe)
}

// CreateRecipe accepts a multipart form with a JSON "recipe" field and an
// optional "image" file
func (s *Server) CreateRecipe(c *gin.Context) {
	var draft models.RecipeDraft
	if err := json.Unmarshal([]byte(c.PostForm("recipe")), &draft); err != nil {
		s.fail(c, apperr.Validation("recipe must be a JSON object"))
		return
	}
	image, err := formAsset(c, "image")
	if err != nil {
		s.fail(c, err)
		return
	}

	recipe, err := repoFrom(c).CreateRecipe(ctxOf(c), draft, image)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, recipe)
}

func (s *Server) DeleteRecipe(c *gin.Context) {
	if err := repoFrom(c).DeleteRecipe(ctxOf(c), models.ID(c.Param("id"))); err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) ListReviews(c *gin.Context) {
	reviews, err := repoFrom(c).ListReviews(ctxOf(c), models.ID(c.Param("id")))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, reviews)
}

func (s *Server) AddReview(c *gin.Context) {
	var req types.ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, apperr.Validation("invalid review body"))
		return
	}

	review, err := repoFrom(c).AddReview(ctxOf(c), models.ID(c.Param("id")), req.Rating, req.Comment)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, review)
}

func (s *Server) GetUser(c *gin.Context) {
	user, err := repoFrom(c).GetUser(ctxOf(c), models.ID(c.Param("id")))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (s *Server) ListUserRecipes(c *gin.Context) {
	skip, limit := paging(c)
	recipes, err := repoFrom(c).ListUserRecipes(ctxOf(c), models.ID(c.Param("id")), skip, limit)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, recipes)
}

func (s *Server) UpdateProfile(c *gin.Context) {
	var update models.ProfileUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		s.fail(c, apperr.Validation("invalid profile body"))
		return
	}

	user, err := repoFrom(c).UpdateProfile(ctxOf(c), update)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// fail writes err as a JSON error envelope with the matching status
func (s *Server) fail(c *gin.Context, err error) {
	status := apperr.HTTPStatus(err)
	msg := apperr.Message(err)
	if status == http.StatusInternalServerError {
		s.log.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		msg = "internal server error"
	}
	c.AbortWithStatusJSON(status, types.ErrorResponse{Detail: msg})
}

func paging(c *gin.Context) (int, int) {
	skip, _ := strconv.Atoi(c.Query("skip"))
	limit, _ := strconv.Atoi(c.Query("limit"))
	return skip, limit
}

// formAsset reads an optional multipart file; nil when the field is absent.
func formAsset(c *gin.Context, field string) (*assets.Asset, error) {
	header, err := c.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.Validation("invalid multipart upload")
	}
	if header.Size > assets.MaxSize {
		return nil, apperr.Validation("image exceeds 5MB")
	}

	f, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	return &assets.Asset{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}
