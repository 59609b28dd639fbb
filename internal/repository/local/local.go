// Package local implements the repository contract over a key-value store,
// keeping every collection as a JSON array under its own key.
package local

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/pageza/cookbook/internal/assets"
	"github.com/pageza/cookbook/internal/models"
	"github.com/pageza/cookbook/internal/repository"
	"github.com/pageza/cookbook/internal/storage"
)

// Storage keys of the persisted collections.
const (
	UsersKey   = "cookbook_users"
	RecipesKey = "cookbook_recipes"
	ReviewsKey = "cookbook_reviews"
	SessionKey = "cookbook_loggedInUser"
)

const (
	DefaultTokenTTL   = 60 * time.Minute
	DefaultBcryptCost = 10
)

// Options configures a Repository. Zero values select the defaults.
type Options struct {
	Session    repository.SessionStore
	Assets     assets.Store
	Secret     []byte
	TokenTTL   time.Duration
	BcryptCost int
	Logger     *zap.Logger
	Clock      func() time.Time
}

// Repository is the local implementation of repository.Repository.
type Repository struct {
	store   storage.KeyValueStore
	session repository.SessionStore
	assets  assets.Store
	secret  []byte
	ttl     time.Duration
	cost    int
	log     *zap.Logger
	now     func() time.Time

	// mu serializes read-modify-write cycles; it is shared by every view
	// returned from WithSession.
	mu *sync.Mutex
}

var _ repository.Repository = (*Repository)(nil)

func New(store storage.KeyValueStore, opts Options) *Repository {
	r := &Repository{
		store:   store,
		session: opts.Session,
		assets:  opts.Assets,
		secret:  opts.Secret,
		ttl:     opts.TokenTTL,
		cost:    opts.BcryptCost,
		log:     opts.Logger,
		now:     opts.Clock,
		mu:      &sync.Mutex{},
	}
	if r.session == nil {
		r.session = repository.NewMemorySession()
	}
	if r.assets == nil {
		r.assets = assets.InlineStore{}
	}
	if len(r.secret) == 0 {
		r.secret = []byte("cookbook-local-secret")
	}
	if r.ttl <= 0 {
		r.ttl = DefaultTokenTTL
	}
	if r.cost == 0 {
		r.cost = DefaultBcryptCost
	}
	if r.log == nil {
		r.log = zap.NewNop()
	}
	if r.now == nil {
		r.now = time.Now
	}
	return r
}

// WithSession returns a view of the same store bound to another session.
// Views share the write lock.
func (r *Repository) WithSession(s repository.SessionStore) *Repository {
	view := *r
	view.session = s
	return &view
}

// userRecord is the persisted form of a user; it keeps the password hash
// next to the public fields.
type userRecord struct {
	models.User
	Password string `json:"password_hash"`
}

// UnmarshalJSON implements json.Unmarshaler. It shadows the promoted
// models.User decoder, which would otherwise drop the hash.
func (u *userRecord) UnmarshalJSON(data []byte) error {
	if err := json.Unmarshal(data, &u.User); err != nil {
		return err
	}
	var secret struct {
		Password string `json:"password_hash"`
	}
	if err := json.Unmarshal(data, &secret); err != nil {
		return err
	}
	u.Password = secret.Password
	return nil
}

func (u userRecord) model() *models.User {
	out := u.User
	return &out
}

func (r *Repository) loadUsers(ctx context.Context) ([]userRecord, error) {
	return loadCollection[userRecord](ctx, r, UsersKey)
}

func (r *Repository) loadRecipes(ctx context.Context) ([]models.Recipe, error) {
	return loadCollection[models.Recipe](ctx, r, RecipesKey)
}

func (r *Repository) loadReviews(ctx context.Context) ([]models.Review, error) {
	return loadCollection[models.Review](ctx, r, ReviewsKey)
}

// loadCollection decodes the JSON array under key. A missing key yields an
// empty collection; undecodable content is logged and also yields an empty
// collection.
func loadCollection[T any](ctx context.Context, r *Repository, key string) ([]T, error) {
	raw, err := r.store.Get(ctx, key)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}
	var out []T
	if err := json.Unmarshal(raw, &out); err != nil {
		r.log.Warn("ignoring corrupt collection", zap.String("key", key), zap.Error(err))
		return nil, nil
	}
	return out, nil
}

func (r *Repository) save(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	if err := r.store.Set(ctx, key, raw); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}
