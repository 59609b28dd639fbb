package local

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/pageza/cookbook/internal/apperr"
	"github.com/pageza/cookbook/internal/assets"
	"github.com/pageza/cookbook/internal/models"
	"github.com/pageza/cookbook/internal/repository"
	"github.com/pageza/cookbook/internal/types"
)

const invalidCredentials = "invalid email or password"

func (r *Repository) Register(ctx context.Context, email, username, password string, avatar *assets.Asset) (*models.User, error) {
	return r.register(ctx, email, username, password, func(ctx context.Context) (string, error) {
		if avatar == nil {
			return "", nil
		}
		return r.assets.Put(ctx, assets.Avatar, avatar)
	})
}

// RegisterWithAvatarURL registers a user whose avatar was uploaded
// separately. An empty avatarURL selects models.DefaultAvatar.
func (r *Repository) RegisterWithAvatarURL(ctx context.Context, email, username, password, avatarURL string) (*models.User, error) {
	return r.register(ctx, email, username, password, func(context.Context) (string, error) {
		return avatarURL, nil
	})
}

// register stores the avatar only once the email is known to be free, so a
// rejected registration leaves no asset behind.
func (r *Repository) register(ctx context.Context, email, username, password string, storeAvatar func(context.Context) (string, error)) (*models.User, error) {
	email, username, err := repository.ValidateRegistration(email, username, password)
	if err != nil {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), r.cost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	users, err := r.loadUsers(ctx)
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		if u.Email == email {
			return nil, apperr.Conflict("email already registered")
		}
	}

	avatarURL, err := storeAvatar(ctx)
	if err != nil {
		return nil, err
	}
	avatarRef := strings.TrimSpace(avatarURL)
	if avatarRef == "" {
		avatarRef = models.DefaultAvatar
	}

	record := userRecord{
		User: models.User{
			ID:        models.NewID(),
			Email:     email,
			Username:  username,
			Avatar:    avatarRef,
			CreatedAt: r.now().UTC(),
		},
		Password: string(hashedPassword),
	}
	users = append(users, record)
	if err := r.save(ctx, UsersKey, users); err != nil {
		return nil, err
	}

	r.log.Info("user registered", zap.String("user_id", record.ID.String()))
	return record.model(), nil
}

func (r *Repository) Login(ctx context.Context, email, password string) (string, error) {
	email = repository.NormalizeEmail(email)
	users, err := r.loadUsers(ctx)
	if err != nil {
		return "", err
	}

	var found *userRecord
	for i := range users {
		if users[i].Email == email {
			found = &users[i]
			break
		}
	}
	if found == nil {
		return "", apperr.Unauthorized(invalidCredentials)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(found.Password), []byte(password)); err != nil {
		return "", apperr.Unauthorized(invalidCredentials)
	}

	token, err := r.issueToken(found.User)
	if err != nil {
		return "", err
	}
	if err := r.session.SetToken(ctx, token); err != nil {
		return "", fmt.Errorf("failed to store session: %w", err)
	}

	r.log.Info("user logged in", zap.String("user_id", found.ID.String()))
	return token, nil
}

func (r *Repository) CurrentUser(ctx context.Context) (*models.User, error) {
	token, err := r.session.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}
	if token == "" {
		return nil, nil
	}

	user, err := r.userForToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if user == nil {
		if err := r.session.Clear(ctx); err != nil {
			return nil, fmt.Errorf("failed to clear session: %w", err)
		}
	}
	return user, nil
}

func (r *Repository) Logout(ctx context.Context) error {
	if err := r.session.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

func (r *Repository) GetUser(ctx context.Context, id models.ID) (*models.User, error) {
	users, err := r.loadUsers(ctx)
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		if u.ID == id {
			return u.model(), nil
		}
	}
	return nil, apperr.NotFound("user not found")
}

func (r *Repository) UpdateProfile(ctx context.Context, update models.ProfileUpdate) (*models.User, error) {
	update, err := repository.ValidateProfileUpdate(update)
	if err != nil {
		return nil, err
	}
	current, err := r.requireUser(ctx)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	users, err := r.loadUsers(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].ID != current.ID {
			continue
		}
		if update.Username != nil {
			users[i].Username = *update.Username
		}
		if update.Bio != nil {
			users[i].Bio = *update.Bio
		}
		if update.Avatar != nil {
			users[i].Avatar = *update.Avatar
		}
		if err := r.save(ctx, UsersKey, users); err != nil {
			return nil, err
		}
		return users[i].model(), nil
	}
	return nil, apperr.NotFound("user not found")
}

// requireUser resolves the session user or fails with Unauthorized.
func (r *Repository) requireUser(ctx context.Context) (*models.User, error) {
	user, err := r.CurrentUser(ctx)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.Unauthorized("authentication required")
	}
	return user, nil
}

func (r *Repository) issueToken(user models.User) (string, error) {
	now := r.now()
	claims := &types.TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(r.ttl)),
		},
		Email: user.Email,
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(r.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return token, nil
}

// ParseToken validates a session credential and returns its claims.
func (r *Repository) ParseToken(token string) (*types.TokenClaims, error) {
	claims := &types.TokenClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return r.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(r.now))
	if err != nil {
		return nil, apperr.Unauthorized("invalid or expired session")
	}
	return claims, nil
}

// userForToken returns nil when the token is invalid, expired or names a
// user that no longer exists.
func (r *Repository) userForToken(ctx context.Context, token string) (*models.User, error) {
	claims, err := r.ParseToken(token)
	if err != nil {
		r.log.Debug("discarding session", zap.Error(err))
		return nil, nil
	}
	user, err := r.GetUser(ctx, models.ID(claims.Subject))
	if errors.Is(err, apperr.ErrNotFound) {
		return nil, nil
	}
	return user, err
}
