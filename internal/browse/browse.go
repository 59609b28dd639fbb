// Package browse holds the interactive recipe view state: the candidate set,
// the search text, filters, favorites and the shopping cart.
//
// Fetches may complete out of order. Every fetch takes a generation number
// and its result is applied only while that generation is current and the
// Browser has not been closed.
package browse

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/pageza/cookbook/internal/logging"
	"github.com/pageza/cookbook/internal/models"
	"github.com/pageza/cookbook/internal/query"
	"github.com/pageza/cookbook/internal/repository"
	"github.com/pageza/cookbook/internal/shopping"
)

const DefaultDebounce = 300 * time.Millisecond

var ErrClosed = errors.New("browser is closed")

// Status distinguishes "nothing matched" from "failed to load".
type Status int

const (
	Idle Status = iota
	Loading
	Ready
	Empty
	Failed
)

func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Empty:
		return "empty"
	case Failed:
		return "failed"
	}
	return "unknown"
}

type Options struct {
	Debounce time.Duration
	PageSize int
	Logger   *zap.Logger
}

type Browser struct {
	repo     repository.Repository
	log      *zap.Logger
	debounce time.Duration
	pageSize int

	ctx    context.Context
	cancel context.CancelFunc

	mu          sync.Mutex
	candidates  []models.Recipe
	searched    bool
	fetchedText string
	text        string
	criteria    query.Criteria
	favorites   *query.Favorites
	cart        *shopping.List
	phase       Status
	err         error
	gen         uint64
	exhausted   bool
	loadingMore bool
	timer       *time.Timer
	timerSeq    uint64
	closed      bool
	onChange    func()
}

func New(repo repository.Repository, opts Options) *Browser {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	_, pageSize := repository.NormalizePage(0, opts.PageSize)
	ctx, cancel := context.WithCancel(context.Background())
	return &Browser{
		repo:      repo,
		log:       logging.OrNop(opts.Logger).Named("browse"),
		debounce:  opts.Debounce,
		pageSize:  pageSize,
		ctx:       ctx,
		cancel:    cancel,
		criteria:  query.DefaultCriteria(),
		favorites: query.NewFavorites(),
		cart:      shopping.NewList(),
		phase:     Idle,
	}
}

// OnChange registers fn to run after every applied state change. fn runs
// without the Browser's lock held.
func (b *Browser) OnChange(fn func()) {
	b.mu.Lock()
	b.onChange = fn
	b.mu.Unlock()
}

// Load fetches the first page of the plain listing.
func (b *Browser) Load(ctx context.Context) error {
	return b.fetch(ctx, "")
}

// Refresh repeats the fetch for the current search text.
func (b *Browser) Refresh(ctx context.Context) error {
	b.mu.Lock()
	text := b.text
	b.mu.Unlock()
	return b.fetch(ctx, text)
}

// SetQuery stores the search text and re-arms the debounce timer. When the
// input has been quiet for the debounce interval the latest text is fetched:
// blank text lists, anything else searches.
func (b *Browser) SetQuery(text string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.text = text
	if b.timer != nil {
		b.timer.Stop()
	}
	b.timerSeq++
	seq := b.timerSeq
	b.timer = time.AfterFunc(b.debounce, func() { b.fire(seq, text) })
}

// Search sets the text and fetches at once, cancelling any pending debounce.
func (b *Browser) Search(ctx context.Context, text string) error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return ErrClosed
	}
	b.text = text
	if b.timer != nil {
		b.timer.Stop()
	}
	b.timerSeq++
	b.mu.Unlock()
	return b.fetch(ctx, text)
}

func (b *Browser) fire(seq uint64, text string) {
	b.mu.Lock()
	latest := seq == b.timerSeq && !b.closed
	b.mu.Unlock()
	if !latest {
		return
	}
	if err := b.fetch(b.ctx, text); err != nil && !errors.Is(err, ErrClosed) {
		b.log.Warn("search failed", zap.String("query", text), zap.Error(err))
	}
}

func (b *Browser) fetch(ctx context.Context, text string) error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return ErrClosed
	}
	b.gen++
	gen := b.gen
	b.phase = Loading
	b.mu.Unlock()
	b.notify()

	var (
		recipes []models.Recipe
		err     error
	)
	if strings.TrimSpace(text) == "" {
		recipes, err = b.repo.ListRecipes(ctx, 0, b.pageSize)
	} else {
		recipes, err = b.repo.SearchRecipes(ctx, text, 0, b.pageSize)
	}

	b.mu.Lock()
	if b.closed || gen != b.gen {
		b.mu.Unlock()
		b.log.Debug("dropping superseded result", zap.Uint64("generation", gen), zap.String("query", text))
		return nil
	}
	if err != nil {
		b.phase = Failed
		b.err = err
	} else {
		b.candidates = recipes
		b.searched = strings.TrimSpace(text) != ""
		b.fetchedText = text
		b.exhausted = len(recipes) < b.pageSize
		b.phase = Ready
		b.err = nil
	}
	b.mu.Unlock()
	b.notify()
	return err
}

// LoadMore appends the next page for the text of the last fetch. It is a
// no-op once a short page has been seen. A page that arrives after a newer
// fetch started is dropped.
func (b *Browser) LoadMore(ctx context.Context) error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return ErrClosed
	}
	if b.phase != Ready || b.exhausted || b.loadingMore {
		b.mu.Unlock()
		return nil
	}
	b.loadingMore = true
	gen := b.gen
	skip := len(b.candidates)
	text := b.fetchedText
	b.mu.Unlock()

	var (
		page []models.Recipe
		err  error
	)
	if strings.TrimSpace(text) == "" {
		page, err = b.repo.ListRecipes(ctx, skip, b.pageSize)
	} else {
		page, err = b.repo.SearchRecipes(ctx, text, skip, b.pageSize)
	}

	b.mu.Lock()
	b.loadingMore = false
	if b.closed || gen != b.gen {
		b.mu.Unlock()
		return nil
	}
	if err != nil {
		b.err = err
	} else {
		b.candidates = append(b.candidates, page...)
		b.exhausted = len(page) < b.pageSize
		b.err = nil
	}
	b.mu.Unlock()
	b.notify()
	return err
}

// HasMore reports whether LoadMore may return further recipes.
func (b *Browser) HasMore() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.phase == Ready && !b.exhausted
}

// SetFilters replaces the structured filters. An inverted cook time range is
// rejected and leaves the previous filters in place.
func (b *Browser) SetFilters(c query.Criteria) error {
	if err := c.Validate(); err != nil {
		return err
	}
	b.mu.Lock()
	b.criteria = c
	b.mu.Unlock()
	b.notify()
	return nil
}

func (b *Browser) Filters() query.Criteria {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.criteria
}

func (b *Browser) Query() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.text
}

// ToggleFavorite flips the favorite state of id and returns the new state.
func (b *Browser) ToggleFavorite(id models.ID) bool {
	on := b.favorites.Toggle(id)
	b.notify()
	return on
}

func (b *Browser) Favorites() []models.ID {
	return b.favorites.IDs()
}

// Visible is the candidate set narrowed by the search text and filters,
// annotated with favorites. Candidates that came from a server search are
// not filtered by text a second time.
func (b *Browser) Visible() []query.RecipeView {
	b.mu.Lock()
	candidates := b.candidates
	text := b.text
	if b.searched {
		text = ""
	}
	criteria := b.criteria
	b.mu.Unlock()
	return query.Apply(candidates, text, criteria, b.favorites)
}

func (b *Browser) Status() Status {
	b.mu.Lock()
	phase := b.phase
	b.mu.Unlock()
	if phase == Ready && len(b.Visible()) == 0 {
		return Empty
	}
	return phase
}

// Err is the failure of the last fetch, cleared by the next success.
func (b *Browser) Err() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.err
}

// AddToCart merges the recipe's ingredients into the cart and returns the
// items that were new.
func (b *Browser) AddToCart(r *models.Recipe) []shopping.Item {
	added := b.cart.AddRecipe(r)
	b.notify()
	return added
}

func (b *Browser) Cart() *shopping.List {
	return b.cart
}

// Close stops the debounce timer and drops every later completion.
func (b *Browser) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	if b.timer != nil {
		b.timer.Stop()
	}
	b.cancel()
}

func (b *Browser) notify() {
	b.mu.Lock()
	fn := b.onChange
	closed := b.closed
	b.mu.Unlock()
	if fn != nil && !closed {
		fn()
	}
}
