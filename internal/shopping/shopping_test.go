package shopping

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/cookbook/internal/models"
)

func TestParseIngredient(t *testing.T) {
	tests := []struct {
		line, name, qty string
	}{
		{"Сыр - 100г", "Сыр", "100г"},
		{"  Соль - по вкусу ", "Соль", "по вкусу"},
		{"Лук", "Лук", ""},
		{"Сливки 35% - 300мл", "Сливки 35%", "300мл"},
		{"Соус - чили - 2 ст.л.", "Соус", "чили - 2 ст.л."},
		{" - 5 шт", "- 5 шт", ""},
		{"Чай-масала - 1 пакет", "Чай-масала", "1 пакет"},
	}
	for _, tt := range tests {
		name, qty := ParseIngredient(tt.line)
		assert.Equal(t, tt.name, name, tt.line)
		assert.Equal(t, tt.qty, qty, tt.line)
	}
}

func TestCategorize(t *testing.T) {
	tests := map[string]string{
		"Бекон":           MeatPoultry,
		"Куриные крылья":  Other,
		"Курица отварная": MeatPoultry,
		"Сыр пармезан":    Dairy,
		"Молоко":          Dairy,
		"Помидоры":        Vegetables,
		"Красный лук":     Vegetables,
		"Мука":            GrainsBread,
		"Рис для суши":    GrainsBread,
		"Авокадо":         Other,
		// first matching category wins
		"Мясо с рисом": MeatPoultry,
	}
	for name, want := range tests {
		assert.Equal(t, want, Categorize(name), name)
	}
}

func TestMergeDeduplicatesByName(t *testing.T) {
	l := NewList()
	added := l.Merge([]string{"Сыр - 100г", "Сыр - 50г"})

	require.Len(t, added, 1)
	items := l.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "Сыр", items[0].Name)
	assert.Equal(t, "100г", items[0].Quantity)
	assert.Equal(t, Dairy, items[0].Category)
	assert.False(t, items[0].Checked)
	assert.NotEmpty(t, items[0].ID)
}

func TestMergeKeepsExistingAndIsCaseSensitive(t *testing.T) {
	l := NewList()
	l.Merge([]string{"Мука - 200г", "Яйца - 2 шт"})
	added := l.Merge([]string{"Мука - 300г", "мука - 1кг", "Сахар - 100г"})

	assert.Len(t, added, 2)
	names := []string{}
	for _, it := range l.Items() {
		names = append(names, it.Name)
	}
	assert.Equal(t, []string{"Мука", "Яйца", "мука", "Сахар"}, names)
	assert.Equal(t, "200г", l.Items()[0].Quantity)
}

func TestAddRecipe(t *testing.T) {
	l := NewList()
	r := &models.Recipe{Ingredients: []models.Ingredient{
		{Name: "Спагетти", Quantity: 400, Unit: "г"},
		{Name: "Бекон", Quantity: 200, Unit: "г"},
	}}
	l.AddRecipe(r)
	l.AddRecipe(r)

	items := l.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "400 г", items[0].Quantity)
	assert.Equal(t, MeatPoultry, items[1].Category)
}

func TestToggleRemoveClear(t *testing.T) {
	l := NewList()
	added := l.Merge([]string{"Сыр - 100г", "Хлеб - 1 шт"})

	assert.True(t, l.Toggle(added[0].ID))
	assert.True(t, l.Items()[0].Checked)
	assert.True(t, l.Toggle(added[0].ID))
	assert.False(t, l.Items()[0].Checked)
	assert.False(t, l.Toggle("missing"))

	assert.True(t, l.SetQuantity(added[1].ID, " 2 шт "))
	assert.Equal(t, "2 шт", l.Items()[1].Quantity)

	assert.True(t, l.Remove(added[0].ID))
	assert.False(t, l.Remove(added[0].ID))
	assert.Equal(t, 1, l.Len())

	l.Clear()
	assert.Empty(t, l.Items())
}

func TestByCategory(t *testing.T) {
	l := NewList()
	l.Merge([]string{"Помидоры - 3 шт", "Сыр - 100г", "Огурец - 1 шт", "Соль"})

	groups := l.ByCategory()
	require.Len(t, groups, 3)
	assert.Equal(t, Vegetables, groups[0].Category)
	assert.Len(t, groups[0].Items, 2)
	assert.Equal(t, Dairy, groups[1].Category)
	assert.Equal(t, Other, groups[2].Category)
}

func TestExport(t *testing.T) {
	l := NewList()
	added := l.Merge([]string{"Сыр - 100г", "Соль"})
	l.Toggle(added[0].ID)

	assert.Equal(t, "✓ Сыр - 100г\n☐ Соль", l.Export())
	assert.Empty(t, NewList().Export())
}

func TestConcurrentMerge(t *testing.T) {
	l := NewList()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			l.Merge([]string{"Сыр - 100г", "Мука - 200г"})
		}()
	}
	wg.Wait()
	assert.Equal(t, 2, l.Len())
}
