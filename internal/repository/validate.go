package repository

import (
	"fmt"
	"strings"

	"github.com/pageza/cookbook/internal/apperr"
	"github.com/pageza/cookbook/internal/models"
)

const (
	DefaultPageSize = 50
	MaxPageSize     = 100

	MinRating = 1
	MaxRating = 5
)

// NormalizePage clamps paging arguments: negative skip becomes 0, a
// non-positive limit becomes DefaultPageSize and limit is capped at
// MaxPageSize.
func NormalizePage(skip, limit int) (int, int) {
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	return skip, limit
}

// Page returns the normalized skip/limit window of items.
func Page[T any](items []T, skip, limit int) []T {
	skip, limit = NormalizePage(skip, limit)
	if skip >= len(items) {
		return []T{}
	}
	end := skip + limit
	if end > len(items) {
		end = len(items)
	}
	return items[skip:end]
}

// NormalizeDraft trims text fields, drops blank tags and renumbers steps
// 1..n. It fails with a Validation error naming the first missing field.
func NormalizeDraft(d models.RecipeDraft) (models.RecipeDraft, error) {
	d.Title = strings.TrimSpace(d.Title)
	d.Description = strings.TrimSpace(d.Description)
	d.Category = strings.TrimSpace(d.Category)
	d.Difficulty = strings.TrimSpace(d.Difficulty)
	d.Image = strings.TrimSpace(d.Image)

	if d.Title == "" {
		return d, apperr.Validation("title is required")
	}
	if d.Description == "" {
		return d, apperr.Validation("description is required")
	}
	if d.CookTime < 0 {
		return d, apperr.Validation("cook time must not be negative")
	}
	if d.Servings < 0 {
		return d, apperr.Validation("servings must not be negative")
	}

	tags := make([]string, 0, len(d.Tags))
	for _, tag := range d.Tags {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	d.Tags = tags

	ingredients := make([]models.Ingredient, len(d.Ingredients))
	for i, ing := range d.Ingredients {
		ing.Name = strings.TrimSpace(ing.Name)
		ing.Unit = strings.TrimSpace(ing.Unit)
		if ing.Name == "" {
			return d, apperr.Validation(fmt.Sprintf("ingredient %d has no name", i+1))
		}
		if ing.Quantity < 0 {
			return d, apperr.Validation(fmt.Sprintf("ingredient %d has a negative quantity", i+1))
		}
		ingredients[i] = ing
	}
	d.Ingredients = ingredients

	steps := make([]models.Step, len(d.Steps))
	for i, step := range d.Steps {
		text := strings.TrimSpace(step.Text)
		if text == "" {
			return d, apperr.Validation(fmt.Sprintf("step %d has no text", i+1))
		}
		steps[i] = models.Step{Order: i + 1, Text: text}
	}
	d.Steps = steps

	return d, nil
}

// ValidateRating checks the review rating bounds.
func ValidateRating(rating int) error {
	if rating < MinRating || rating > MaxRating {
		return apperr.Validation(fmt.Sprintf("rating must be between %d and %d", MinRating, MaxRating))
	}
	return nil
}

// NormalizeEmail trims and lower-cases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateRegistration normalizes the email and checks the required fields.
func ValidateRegistration(email, username, password string) (string, string, error) {
	email = NormalizeEmail(email)
	username = strings.TrimSpace(username)
	if email == "" || !strings.Contains(email, "@") {
		return "", "", apperr.Validation("a valid email is required")
	}
	if username == "" {
		return "", "", apperr.Validation("username is required")
	}
	if password == "" {
		return "", "", apperr.Validation("password is required")
	}
	return email, username, nil
}

// ValidateProfileUpdate trims the provided fields and rejects a blank
// username.
func ValidateProfileUpdate(u models.ProfileUpdate) (models.ProfileUpdate, error) {
	trim := func(p *string) *string {
		if p == nil {
			return nil
		}
		v := strings.TrimSpace(*p)
		return &v
	}
	u.Username = trim(u.Username)
	u.Bio = trim(u.Bio)
	u.Avatar = trim(u.Avatar)
	if u.Username != nil && *u.Username == "" {
		return u, apperr.Validation("username must not be empty")
	}
	return u, nil
}
