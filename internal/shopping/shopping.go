// Package shopping aggregates recipe ingredients into a categorized
// shopping list.
package shopping

import (
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/pageza/cookbook/internal/models"
)

// Category names, in the order the keyword table is consulted.
const (
	MeatPoultry = "Мясо и птица"
	Dairy       = "Молочные продукты"
	Vegetables  = "Овощи"
	GrainsBread = "Крупы и хлеб"
	Other       = "Прочее"
)

var categoryKeywords = []struct {
	category string
	keywords []string
}{
	{MeatPoultry, []string{"мясо", "курица", "говядина", "бекон"}},
	{Dairy, []string{"молоко", "сыр", "сливки", "яйца"}},
	{Vegetables, []string{"помидор", "огурец", "лук", "морковь"}},
	{GrainsBread, []string{"мука", "рис", "макароны", "хлеб"}},
}

// Item is one shopping list entry.
type Item struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Quantity string `json:"quantity"`
	Category string `json:"category"`
	Checked  bool   `json:"checked"`
}

// ParseIngredient splits a "name - quantity" line on the first " - ". The
// quantity is empty when there is no separator; the whole line is the name
// when the name part is empty.
func ParseIngredient(line string) (name, quantity string) {
	line = strings.TrimSpace(line)
	name, quantity, _ = strings.Cut(line, " - ")
	name = strings.TrimSpace(name)
	quantity = strings.TrimSpace(quantity)
	if name == "" {
		name = line
	}
	return name, quantity
}

// Categorize assigns name to the first category whose keyword it contains,
// or Other.
func Categorize(name string) string {
	lower := strings.ToLower(name)
	for _, group := range categoryKeywords {
		for _, kw := range group.keywords {
			if strings.Contains(lower, kw) {
				return group.category
			}
		}
	}
	return Other
}

// List is a shopping list safe for concurrent use. Items keep insertion
// order and are unique by name.
type List struct {
	mu    sync.Mutex
	items []Item
}

func NewList() *List {
	return &List{}
}

// Merge parses each line and appends those whose name is not yet on the
// list. Names compare case-sensitively; the first occurrence wins. It
// returns the items that were added.
func (l *List) Merge(lines []string) []Item {
	l.mu.Lock()
	defer l.mu.Unlock()

	seen := make(map[string]struct{}, len(l.items)+len(lines))
	for _, it := range l.items {
		seen[it.Name] = struct{}{}
	}

	var added []Item
	for _, line := range lines {
		name, qty := ParseIngredient(line)
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		item := Item{ID: uuid.NewString(), Name: name, Quantity: qty, Category: Categorize(name)}
		l.items = append(l.items, item)
		added = append(added, item)
	}
	return added
}

// AddRecipe merges every ingredient of r.
func (l *List) AddRecipe(r *models.Recipe) []Item {
	return l.Merge(r.IngredientLines())
}

// Toggle flips the checked state of the item and reports whether it exists.
func (l *List) Toggle(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := range l.items {
		if l.items[i].ID == id {
			l.items[i].Checked = !l.items[i].Checked
			return true
		}
	}
	return false
}

// SetQuantity replaces the quantity text of the item.
func (l *List) SetQuantity(id, quantity string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := range l.items {
		if l.items[i].ID == id {
			l.items[i].Quantity = strings.TrimSpace(quantity)
			return true
		}
	}
	return false
}

func (l *List) Remove(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := range l.items {
		if l.items[i].ID == id {
			l.items = append(l.items[:i], l.items[i+1:]...)
			return true
		}
	}
	return false
}

func (l *List) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.items = nil
}

// Items returns a copy of the list.
func (l *List) Items() []Item {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Item(nil), l.items...)
}

func (l *List) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.items)
}

// Group is the items of one category.
type Group struct {
	Category string
	Items    []Item
}

// ByCategory groups the items, ordering groups by the first item seen in
// each category.
func (l *List) ByCategory() []Group {
	var groups []Group
	index := map[string]int{}
	for _, it := range l.Items() {
		i, ok := index[it.Category]
		if !ok {
			i = len(groups)
			index[it.Category] = i
			groups = append(groups, Group{Category: it.Category})
		}
		groups[i].Items = append(groups[i].Items, it)
	}
	return groups
}

// Export renders the list as a plain-text checklist, one item per line.
func (l *List) Export() string {
	var b strings.Builder
	for i, it := range l.Items() {
		if i > 0 {
			b.WriteByte('\n')
		}
		if it.Checked {
			b.WriteString("✓ ")
		} else {
			b.WriteString("☐ ")
		}
		b.WriteString(it.Name)
		if it.Quantity != "" {
			b.WriteString(" - ")
			b.WriteString(it.Quantity)
		}
	}
	return b.String()
}
