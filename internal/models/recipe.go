package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// NoRatingsLabel is rendered instead of a numeric rating for unreviewed recipes.
const NoRatingsLabel = "no ratings"

// Ingredient is a single line of a recipe's ingredient list.
type Ingredient struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
}

// Line renders the ingredient in the free-text "name - quantity" form the
// shopping list understands.
func (i Ingredient) Line() string {
	var qty string
	if i.Quantity != 0 {
		qty = strconv.FormatFloat(i.Quantity, 'f', -1, 64)
	}
	amount := strings.TrimSpace(strings.Join([]string{qty, i.Unit}, " "))
	if amount == "" {
		return i.Name
	}
	return i.Name + " - " + amount
}

// Step is one ordered instruction of a recipe.
type Step struct {
	Order int    `json:"order"`
	Text  string `json:"text"`
}

type Recipe struct {
	ID          ID           `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Image       string       `json:"image,omitempty"`
	Category    string       `json:"category"`
	Difficulty  string       `json:"difficulty,omitempty"`
	Tags        []string     `json:"tags,omitempty"`
	CookTime    int          `json:"cook_time"`
	Servings    int          `json:"servings"`
	Rating      float64      `json:"rating_avg"`
	ReviewCount int          `json:"review_count"`
	Ingredients []Ingredient `json:"ingredients"`
	Steps       []Step       `json:"steps"`
	AuthorID    *ID          `json:"author_id"`
	CreatedAt   time.Time    `json:"created_at"`
	Reviews     []Review     `json:"reviews,omitempty"`
}

// TagSet returns the labels category, dietary and difficulty filters are
// matched against: the category, the difficulty and every tag.
func (r *Recipe) TagSet() []string {
	set := make([]string, 0, len(r.Tags)+2)
	if r.Category != "" {
		set = append(set, r.Category)
	}
	if r.Difficulty != "" {
		set = append(set, r.Difficulty)
	}
	for _, tag := range r.Tags {
		if tag != "" {
			set = append(set, tag)
		}
	}
	return set
}

// IngredientLines returns every ingredient in its free-text form.
func (r *Recipe) IngredientLines() []string {
	lines := make([]string, len(r.Ingredients))
	for i, ing := range r.Ingredients {
		lines[i] = ing.Line()
	}
	return lines
}

// IsAuthoredBy reports whether userID wrote the recipe.
func (r *Recipe) IsAuthoredBy(userID ID) bool {
	return r.AuthorID != nil && *r.AuthorID == userID && userID != ""
}

// IsRated reports whether the recipe has at least one review. Servers that
// send only rating_avg are covered by the rating itself, since review
// ratings start at 1.
func (r *Recipe) IsRated() bool {
	return r.ReviewCount > 0 || len(r.Reviews) > 0 || r.Rating > 0
}

// RatingLabel renders the aggregate rating, or NoRatingsLabel when nobody
// has reviewed the recipe yet.
func (r *Recipe) RatingLabel() string {
	if !r.IsRated() {
		return NoRatingsLabel
	}
	return fmt.Sprintf("%.1f", r.Rating)
}

// ApplyReviews sets Reviews and recomputes the aggregate rating as the mean
// of every review rating.
func (r *Recipe) ApplyReviews(reviews []Review) {
	r.Reviews = reviews
	r.ReviewCount = len(reviews)
	r.Rating = AverageRating(reviews)
}

// AverageRating is the arithmetic mean of the review ratings, 0 when empty.
func AverageRating(reviews []Review) float64 {
	if len(reviews) == 0 {
		return 0
	}
	sum := 0
	for _, rv := range reviews {
		sum += rv.Rating
	}
	return float64(sum) / float64(len(reviews))
}

// RecipeDraft is the input for creating a recipe. Identity, author, rating
// and timestamps are assigned by the repository.
type RecipeDraft struct {
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Image       string       `json:"image,omitempty"`
	Category    string       `json:"category"`
	Difficulty  string       `json:"difficulty,omitempty"`
	Tags        []string     `json:"tags,omitempty"`
	CookTime    int          `json:"cook_time"`
	Servings    int          `json:"servings"`
	Ingredients []Ingredient `json:"ingredients"`
	Steps       []Step       `json:"steps"`
}
