// Package query filters a candidate set of recipes by free text and
// structured criteria.
package query

import (
	"fmt"

	"github.com/pageza/cookbook/internal/apperr"
)

// Cook time slider bounds, in minutes.
const (
	MinCookTime = 5
	MaxCookTime = 180
)

// CookTimeRange is an inclusive range of minutes. The zero range is unset
// and bounds nothing.
type CookTimeRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// IsZero reports whether the range was left unset.
func (r CookTimeRange) IsZero() bool {
	return r == CookTimeRange{}
}

// Contains reports whether minutes lies in the range. An unset range
// contains everything.
func (r CookTimeRange) Contains(minutes int) bool {
	if r.IsZero() {
		return true
	}
	return minutes >= r.Min && minutes <= r.Max
}

// Criteria are the structured filters. Every non-empty set narrows the
// result; sets are matched with "any of".
type Criteria struct {
	Categories  []string      `json:"categories"`
	CookTime    CookTimeRange `json:"cook_time"`
	Dietary     []string      `json:"dietary"`
	Difficulty  []string      `json:"difficulty"`
	Ingredients []string      `json:"ingredients"`
}

// DefaultCriteria matches every recipe whose cook time lies in the slider
// range.
func DefaultCriteria() Criteria {
	return Criteria{CookTime: CookTimeRange{Min: MinCookTime, Max: MaxCookTime}}
}

// Active reports whether any filter departs from DefaultCriteria. An unset
// cook time range counts as the default one.
func (c Criteria) Active() bool {
	return len(c.Categories) > 0 ||
		len(c.Dietary) > 0 ||
		len(c.Difficulty) > 0 ||
		len(c.Ingredients) > 0 ||
		!(c.CookTime.IsZero() || c.CookTime == DefaultCriteria().CookTime)
}

// Validate rejects an inverted cook time range.
func (c Criteria) Validate() error {
	if c.CookTime.Min > c.CookTime.Max {
		return apperr.Validation(fmt.Sprintf("cook time minimum %d exceeds maximum %d", c.CookTime.Min, c.CookTime.Max))
	}
	return nil
}

// Clamp pulls both cook time bounds into [MinCookTime, MaxCookTime]. An
// unset range stays unset.
func (c Criteria) Clamp() Criteria {
	if c.CookTime.IsZero() {
		return c
	}
	c.CookTime.Min = clamp(c.CookTime.Min)
	c.CookTime.Max = clamp(c.CookTime.Max)
	return c
}

func clamp(v int) int {
	if v < MinCookTime {
		return MinCookTime
	}
	if v > MaxCookTime {
		return MaxCookTime
	}
	return v
}
