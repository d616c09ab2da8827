package engine

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smartprocure/ai"
	"smartprocure/classification"
	"smartprocure/comparison"
	"smartprocure/grouping"
	"smartprocure/models"
	"smartprocure/normalization"
)

// scriptedInference маршрутизирует запросы по содержимому промпта:
// классификация, конвертация единиц и сравнение узнаются по маркерам
func scriptedInference(category string) ai.Inference {
	return ai.InferenceFunc(func(ctx context.Context, system, user string) (string, error) {
		switch {
		case strings.Contains(user, "Определи категорию"):
			return category, nil
		case strings.Contains(user, "Нормализовать единицы"):
			return `{"normalized_quantity": 25, "normalized_unit": "кг", "normalized_price": 20, "confidence": 0.95}`, nil
		case strings.Contains(user, "коммерческие предложения"):
			return "", fmt.Errorf("comparison prompt not scripted")
		default:
			return "", fmt.Errorf("unexpected prompt: %s", user)
		}
	})
}

func newTestEngine(inference ai.Inference) *Engine {
	return New(
		normalization.NewUnitNormalizer(inference),
		classification.NewClassifier(inference, classification.NewCache(100, time.Hour)),
		grouping.NewGrouper(),
		comparison.NewComparator(inference, 2),
	)
}

func TestProcessQuote_FullPipeline(t *testing.T) {
	eng := newTestEngine(scriptedInference("инструменты"))

	quote := &models.Quote{
		SourceFile: "kp_supplier_a.pdf",
		Suppliers: []models.Supplier{
			{
				Name: "ООО Инструмент-Сервис",
				Items: []models.Item{
					{
						Name:         "Перфоратор Bosch GBH 2-26",
						Quantity:     2,
						Unit:         "шт",
						PricePerUnit: 15000,
						Currency:     "руб",
						Specs:        map[string]any{"power": "800 Вт", "weight": "2.7 кг"},
					},
					{
						Name:         "Цемент М500",
						Quantity:     1,
						Unit:         "мешок",
						PricePerUnit: 500,
						Currency:     "руб",
					},
				},
			},
		},
	}

	eng.ProcessQuote(context.Background(), quote)

	require.NotEmpty(t, quote.ID)
	require.False(t, quote.CreatedAt.IsZero())
	assert.Equal(t, "инструменты", quote.DetectedCategory)

	tool := quote.Suppliers[0].Items[0]
	assert.Equal(t, "шт", tool.NormalizedUnit)
	assert.Equal(t, 15000.0, tool.NormalizedPrice)
	assert.NotEmpty(t, tool.HasSpecs)
	assert.Greater(t, tool.CompletenessScore, 0.0)

	// Упаковочная единица сконвертирована внешним выводом
	bag := quote.Suppliers[0].Items[1]
	assert.Equal(t, "кг", bag.NormalizedUnit)
	assert.Equal(t, 25.0, bag.NormalizedQuantity)
	assert.Equal(t, 20.0, bag.NormalizedPrice)

	// У поставщика не заполнены гарантия и срок поставки
	assert.Contains(t, quote.MissingFields["ООО Инструмент-Сервис"], "Гарантия")
	assert.Contains(t, quote.MissingFields["ООО Инструмент-Сервис"], "Срок поставки")
}

func TestProcessQuote_InferenceFailureDegrades(t *testing.T) {
	failing := ai.InferenceFunc(func(ctx context.Context, system, user string) (string, error) {
		return "", fmt.Errorf("connection refused")
	})
	eng := newTestEngine(failing)

	quote := &models.Quote{
		Suppliers: []models.Supplier{
			{
				Name: "Поставщик",
				Items: []models.Item{
					{Name: "Краска белая", Quantity: 3, Unit: "упаковка", PricePerUnit: 900, Currency: "руб"},
				},
			},
		},
	}

	eng.ProcessQuote(context.Background(), quote)

	assert.Equal(t, classification.CategoryGeneral, quote.DetectedCategory)
	// Конвертация не удалась: единица остается как есть
	item := quote.Suppliers[0].Items[0]
	assert.Equal(t, "упаковка", item.NormalizedUnit)
	assert.Equal(t, 3.0, item.NormalizedQuantity)
	assert.Equal(t, 1.0, item.CompletenessScore) // для "общее" чек-лист пуст
}

func TestCompareProject_EndToEnd(t *testing.T) {
	faker := gofakeit.New(42)
	eng := newTestEngine(nil)

	// Два КП с пересекающимися позициями в разном порядке слов
	quoteA := models.Quote{
		SourceFile: faker.AppName() + ".pdf",
		Suppliers: []models.Supplier{
			{
				Name: faker.Company(),
				Items: []models.Item{
					{Name: "Труба стальная 50мм", NormalizedPrice: 100, NormalizedUnit: "м"},
					{Name: "Кабель ВВГ 3x2.5", NormalizedPrice: 45, NormalizedUnit: "м"},
				},
			},
		},
	}
	quoteB := models.Quote{
		SourceFile: faker.AppName() + ".pdf",
		Suppliers: []models.Supplier{
			{
				Name: faker.Company(),
				Items: []models.Item{
					{Name: "Стальная труба 50мм", NormalizedPrice: 120, NormalizedUnit: "м"},
					{Name: "Кран шаровой 1/2", NormalizedPrice: 300, NormalizedUnit: "шт"},
				},
			},
		},
	}

	result := eng.CompareProject(context.Background(), []models.Quote{quoteA, quoteB})

	require.Equal(t, models.StatusSuccess, result.Status)
	require.Len(t, result.ItemComparisons, 1)

	comp := result.ItemComparisons[0]
	assert.Equal(t, 2, comp.SuppliersCount)
	assert.Equal(t, quoteA.Suppliers[0].Name, comp.Recommendation.RecommendedSupplier)
	assert.InDelta(t, 16.7, comp.Recommendation.PriceDifferencePercent, 0.05)
	assert.True(t, comp.Recommendation.MultiSupplier)

	// Атрибуция: позиции несут имя поставщика и исходный файл
	for _, opt := range comp.AllOptions {
		assert.NotEmpty(t, opt.Supplier)
	}
}

func TestCompareProject_EmptyInput(t *testing.T) {
	eng := newTestEngine(nil)

	result := eng.CompareProject(context.Background(), nil)
	assert.Equal(t, models.StatusEmpty, result.Status)

	result = eng.CompareProject(context.Background(), []models.Quote{
		{Suppliers: []models.Supplier{{Name: "Пустой"}}},
	})
	assert.Equal(t, models.StatusEmpty, result.Status)
}

func TestCompareProject_NoMatches(t *testing.T) {
	eng := newTestEngine(nil)

	quotes := []models.Quote{
		{Suppliers: []models.Supplier{{Name: "А", Items: []models.Item{
			{Name: "Перфоратор Bosch", NormalizedPrice: 15000},
		}}}},
		{Suppliers: []models.Supplier{{Name: "Б", Items: []models.Item{
			{Name: "Цемент М500", NormalizedPrice: 20},
		}}}},
	}

	result := eng.CompareProject(context.Background(), quotes)
	assert.Equal(t, models.StatusNoMatches, result.Status)
	assert.Equal(t, 2, result.TotalUniqueItems)
}

func TestCompareProject_ManySuppliers(t *testing.T) {
	faker := gofakeit.New(7)
	eng := newTestEngine(nil)

	// Пять поставщиков с одной и той же позицией по случайным ценам
	quotes := make([]models.Quote, 0, 5)
	bestPrice := 0.0
	bestSupplier := ""
	for i := 0; i < 5; i++ {
		price := faker.Price(50, 500)
		name := faker.Company()
		if bestSupplier == "" || price < bestPrice {
			bestPrice = price
			bestSupplier = name
		}
		quotes = append(quotes, models.Quote{
			SourceFile: fmt.Sprintf("kp_%d.pdf", i),
			Suppliers: []models.Supplier{
				{Name: name, Items: []models.Item{
					{Name: "Бетон B25", NormalizedPrice: price, NormalizedUnit: "м3"},
				}},
			},
		})
	}

	result := eng.CompareProject(context.Background(), quotes)

	require.Equal(t, models.StatusSuccess, result.Status)
	require.Len(t, result.ItemComparisons, 1)

	rec := result.ItemComparisons[0].Recommendation
	assert.Equal(t, bestSupplier, rec.RecommendedSupplier)
	assert.Equal(t, bestPrice, rec.RecommendedPrice)
	assert.Len(t, rec.Alternatives, 2)
}
