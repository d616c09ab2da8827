// Package engine связывает компоненты движка нормализации и сравнения КП
// в единый конвейер: нормализация единиц -> классификация -> оценка
// полноты -> выявление пропусков, и отдельно: группировка -> сравнение.
// Все внешние вызовы изолированы: сбой обработки одной позиции или
// группы не прерывает обработку остальных.
package engine

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"smartprocure/classification"
	"smartprocure/comparison"
	"smartprocure/grouping"
	"smartprocure/models"
	"smartprocure/normalization"
	"smartprocure/quality"
)

// Engine движок нормализации и сравнения коммерческих предложений
type Engine struct {
	normalizer *normalization.UnitNormalizer
	classifier *classification.Classifier
	grouper    *grouping.Grouper
	comparator *comparison.Comparator
}

// New создает движок из готовых компонентов
func New(
	normalizer *normalization.UnitNormalizer,
	classifier *classification.Classifier,
	grouper *grouping.Grouper,
	comparator *comparison.Comparator,
) *Engine {
	return &Engine{
		normalizer: normalizer,
		classifier: classifier,
		grouper:    grouper,
		comparator: comparator,
	}
}

// ProcessQuote обрабатывает одно КП на месте: нормализует единицы
// измерения всех позиций, определяет категорию, проставляет оценку
// полноты характеристик и выявляет отсутствующие обязательные поля.
// Не возвращает ошибку: каждый внешний сбой деградирует до
// документированного fallback.
func (e *Engine) ProcessQuote(ctx context.Context, quote *models.Quote) {
	if quote.ID == "" {
		quote.ID = uuid.NewString()
	}
	if quote.CreatedAt.IsZero() {
		quote.CreatedAt = time.Now()
	}

	e.normalizer.NormalizeQuote(ctx, quote)

	category := e.classifier.DetectCategory(ctx, allItems(quote))
	quote.DetectedCategory = category

	for i := range quote.Suppliers {
		quality.EnrichItems(quote.Suppliers[i].Items, category)
	}

	quote.MissingFields = classification.DetectMissingFields(quote, category)

	log.Printf("[Engine] Quote %s processed: category=%s, suppliers=%d", quote.ID, category, len(quote.Suppliers))
}

// CompareProject сравнивает все КП проекта: собирает позиции всех
// поставщиков с атрибуцией, группирует эквивалентные и формирует
// рекомендации по каждой группе. Пустой вход дает явный статус
// "empty", а не ошибку.
func (e *Engine) CompareProject(ctx context.Context, quotes []models.Quote) *models.ComparisonResult {
	items := collectItems(quotes)
	if len(items) == 0 {
		return &models.ComparisonResult{
			Status:          models.StatusEmpty,
			Message:         "Нет цитат для сравнения",
			ItemComparisons: []models.ItemComparison{},
			GeneratedAt:     time.Now(),
		}
	}

	groups := e.grouper.Group(items)
	if len(groups) == 0 {
		return &models.ComparisonResult{
			Status:           models.StatusNoMatches,
			Message:          "Нет совпадающих товаров у разных поставщиков",
			TotalUniqueItems: len(items),
			ItemComparisons:  []models.ItemComparison{},
			GeneratedAt:      time.Now(),
		}
	}

	return e.comparator.CompareProject(ctx, groups)
}

// allItems собирает все позиции КП без атрибуции (для классификации)
func allItems(quote *models.Quote) []models.Item {
	var items []models.Item
	for _, supplier := range quote.Suppliers {
		items = append(items, supplier.Items...)
	}
	return items
}

// collectItems собирает позиции всех КП с атрибуцией поставщика
// и исходного документа
func collectItems(quotes []models.Quote) []models.Item {
	var items []models.Item
	for _, quote := range quotes {
		for _, supplier := range quote.Suppliers {
			for _, item := range supplier.Items {
				item.Supplier = supplier.Name
				item.Source = quote.SourceFile
				items = append(items, item)
			}
		}
	}
	return items
}
