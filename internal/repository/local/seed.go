package local

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/pageza/cookbook/internal/models"
)

// Seed stores SampleRecipes when the recipes collection is missing, corrupt
// or empty. It reports whether anything was written.
func (r *Repository) Seed(ctx context.Context) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	recipes, err := r.loadRecipes(ctx)
	if err != nil {
		return false, err
	}
	if len(recipes) > 0 {
		r.log.Debug("recipes already present, skipping seed", zap.Int("count", len(recipes)))
		return false, nil
	}

	base := r.now().UTC()
	seeded := make([]models.Recipe, 0, len(SampleRecipes))
	for i, draft := range SampleRecipes {
		seeded = append(seeded, models.Recipe{
			ID:          models.NewID(),
			Title:       draft.Title,
			Description: draft.Description,
			Image:       draft.Image,
			Category:    draft.Category,
			Difficulty:  draft.Difficulty,
			Tags:        draft.Tags,
			CookTime:    draft.CookTime,
			Servings:    draft.Servings,
			Ingredients: draft.Ingredients,
			Steps:       draft.Steps,
			CreatedAt:   base.Add(time.Duration(i) * time.Second),
		})
	}
	if err := r.save(ctx, RecipesKey, seeded); err != nil {
		return false, err
	}

	r.log.Info("seeded sample recipes", zap.Int("count", len(seeded)))
	return true, nil
}

func ing(name string, qty float64, unit string) models.Ingredient {
	return models.Ingredient{Name: name, Quantity: qty, Unit: unit}
}

func steps(texts ...string) []models.Step {
	out := make([]models.Step, len(texts))
	for i, text := range texts {
		out[i] = models.Step{Order: i + 1, Text: text}
	}
	return out
}

// SampleRecipes is the starter catalogue. Seeded recipes have no author and
// no reviews.
var SampleRecipes = []models.RecipeDraft{
	{
		Title:       "Паста Карбонара",
		Description: "Классическое итальянское блюдо с беконом, яйцом и пармезаном",
		Image:       "https://cooklikemary.ru/sites/default/files/styles/width_700/public/img_1357-2.jpg",
		Category:    "Паста",
		Difficulty:  "Легко",
		Tags:        []string{"Ужин", "Итальянская кухня", "Быстро"},
		CookTime:    20,
		Servings:    4,
		Ingredients: []models.Ingredient{
			ing("Спагетти", 400, "г"), ing("Бекон", 200, "г"), ing("Яйца", 4, "шт"),
			ing("Пармезан", 100, "г"), ing("Чёрный перец", 1, "щепотка"),
		},
		Steps: steps(
			"Варить спагетти в подсолённой воде 10-12 минут",
			"Нарезать и обжарить бекон",
			"Взбить яйца с пармезаном",
			"Смешать горячую пасту с беконом и яично-сырной смесью",
			"Подавать с чёрным перцем",
		),
	},
	{
		Title:       "Цезарь салат",
		Description: "Свежий салат с курицей, пармезаном и сухариками",
		Category:    "Салат",
		Difficulty:  "Легко",
		Tags:        []string{"Обед", "Быстро"},
		CookTime:    15,
		Servings:    2,
		Ingredients: []models.Ingredient{
			ing("Салат Романо", 300, "г"), ing("Курица отварная", 300, "г"), ing("Пармезан", 80, "г"),
			ing("Сухарики", 100, "г"), ing("Оливковое масло", 50, "мл"), ing("Лимонный сок", 30, "мл"),
		},
		Steps: steps(
			"Разрезать салат на кусочки",
			"Нарезать кубиками отварную курицу",
			"Смешать оливковое масло и лимонный сок",
			"Собрать салат, добавить пармезан и сухарики",
			"Полить заправкой",
		),
	},
	{
		Title:       "Борщ украинский",
		Description: "Традиционный борщ с мясом и свежей зеленью",
		Category:    "Суп",
		Difficulty:  "Средне",
		Tags:        []string{"Обед"},
		CookTime:    90,
		Servings:    6,
		Ingredients: []models.Ingredient{
			ing("Говядина", 500, "г"), ing("Свёкла", 2, "шт"), ing("Капуста", 300, "г"),
			ing("Картофель", 3, "шт"), ing("Морковь", 1, "шт"), ing("Помидоры", 2, "шт"), ing("Укроп", 20, "г"),
		},
		Steps: steps(
			"Отварить мясо в подсолённой воде 30 минут",
			"Нарезать и добавить овощи",
			"Варить до готовности овощей",
			"Добавить уксус для кислоты",
			"Подавать со свежей зеленью",
		),
	},
	{
		Title:       "Куриные крылышки в соусе терияки",
		Description: "Хрустящие крылышки в сладко-солёном соусе",
		Category:    "Мясо",
		Difficulty:  "Средне",
		Tags:        []string{"Ужин"},
		CookTime:    40,
		Servings:    4,
		Ingredients: []models.Ingredient{
			ing("Куриные крылья", 1, "кг"), ing("Соевый соус", 50, "мл"), ing("Мёд", 30, "мл"),
			ing("Чеснок", 3, "зубцов"), ing("Имбирь", 10, "г"), ing("Кунжут", 20, "г"),
		},
		Steps: steps(
			"Смешать соевый соус, мёд, чеснок и имбирь",
			"Замариновать крылья на 30 минут",
			"Запечь при 200°C 35 минут",
			"Посыпать кунжутом",
		),
	},
	{
		Title:       "Маргарита пицца",
		Description: "Классическая пицца с моцареллой и томатами",
		Category:    "Пицца",
		Difficulty:  "Средне",
		Tags:        []string{"Ужин", "Итальянская кухня", "Вегетарианское"},
		CookTime:    25,
		Servings:    2,
		Ingredients: []models.Ingredient{
			ing("Тесто пиццы", 400, "г"), ing("Соус томатный", 150, "мл"), ing("Моцарелла", 250, "г"),
			ing("Помидоры", 2, "шт"), ing("Базилик", 10, "г"), ing("Оливковое масло", 30, "мл"),
		},
		Steps: steps(
			"Раскатать тесто",
			"Смазать томатным соусом",
			"Выложить моцареллу и помидоры",
			"Запечь при 220°C 15-20 минут",
			"Украсить базиликом",
		),
	},
	{
		Title:       "Омлет с грибами",
		Description: "Пушистый омлет с лесными грибами и сыром",
		Category:    "Завтрак",
		Difficulty:  "Легко",
		Tags:        []string{"Быстро", "Вегетарианское"},
		CookTime:    10,
		Servings:    1,
		Ingredients: []models.Ingredient{
			ing("Яйца", 3, "шт"), ing("Грибы", 200, "г"), ing("Сыр", 50, "г"),
			ing("Масло сливочное", 30, "г"), ing("Соль и перец", 0, "по вкусу"),
		},
		Steps: steps(
			"Нарезать и обжарить грибы",
			"Взбить яйца с солью и перцем",
			"Вылить яйца на сковороду с маслом",
			"Добавить грибы и сыр",
			"Сложить пополам",
		),
	},
	{
		Title:       "Тирамису",
		Description: "Итальянский десерт с маскарпоне и какао",
		Category:    "Десерт",
		Difficulty:  "Средне",
		Tags:        []string{"Праздник", "Итальянская кухня"},
		CookTime:    30,
		Servings:    6,
		Ingredients: []models.Ingredient{
			ing("Печенье Ладифингер", 24, "шт"), ing("Маскарпоне", 500, "г"), ing("Эспрессо", 150, "мл"),
			ing("Какао порошок", 30, "г"), ing("Сахар", 100, "г"), ing("Яйца", 2, "шт"),
		},
		Steps: steps(
			"Взбить яйца с сахаром",
			"Смешать с маскарпоне",
			"Обмакнуть печенье в эспрессо",
			"Выложить слои печенья и крема",
			"Посыпать какао и охладить 4 часа",
		),
	},
	{
		Title:       "Том Ям",
		Description: "Острый тайский суп с морепродуктами",
		Category:    "Суп",
		Difficulty:  "Сложно",
		Tags:        []string{"Обед", "Острое"},
		CookTime:    35,
		Servings:    4,
		Ingredients: []models.Ingredient{
			ing("Креветки", 300, "г"), ing("Кокосовое молоко", 400, "мл"), ing("Лемонграсс", 2, "стебля"),
			ing("Галангал", 20, "г"), ing("Лайм", 2, "шт"), ing("Чили", 2, "шт"),
		},
		Steps: steps(
			"Сварить бульон с лемонграссом и галангалом",
			"Добавить кокосовое молоко",
			"Положить креветки",
			"Добавить сок лайма и чили",
			"Варить до готовности креветок",
		),
	},
	{
		Title:       "Греческий салат",
		Description: "Свежий салат с фетой и маслинами",
		Category:    "Салат",
		Difficulty:  "Легко",
		Tags:        []string{"Закуска", "Вегетарианское"},
		CookTime:    10,
		Servings:    4,
		Ingredients: []models.Ingredient{
			ing("Помидоры", 3, "шт"), ing("Огурцы", 2, "шт"), ing("Фета", 250, "г"),
			ing("Маслины", 100, "г"), ing("Лук красный", 1, "шт"), ing("Оливковое масло", 50, "мл"),
		},
		Steps: steps(
			"Нарезать помидоры и огурцы кубиками",
			"Нарезать лук полукольцами",
			"Смешать овощи и маслины",
			"Добавить кубики феты",
			"Полить оливковым маслом",
		),
	},
	{
		Title:       "Паста Болоньезе",
		Description: "Классическая итальянская паста с мясным соусом",
		Category:    "Паста",
		Difficulty:  "Средне",
		Tags:        []string{"Ужин", "Итальянская кухня"},
		CookTime:    60,
		Servings:    4,
		Ingredients: []models.Ingredient{
			ing("Паста", 400, "г"), ing("Говяжий фарш", 500, "г"), ing("Помидоры консервированные", 400, "г"),
			ing("Лук", 1, "шт"), ing("Чеснок", 2, "зубцов"), ing("Оливковое масло", 50, "мл"),
		},
		Steps: steps(
			"Обжарить лук и чеснок",
			"Добавить говяжий фарш",
			"Влить помидоры и томатную пасту",
			"Варить 45-50 минут на слабом огне",
			"Подать с отварной пастой",
		),
	},
}
