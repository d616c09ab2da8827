package comparison

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"sort"
	"sync"
	"time"

	"smartprocure/ai"
	"smartprocure/models"
)

// InsufficientDataSupplier sentinel-значение рекомендации, когда ни у
// одной позиции группы нет валидной нормализованной цены
const InsufficientDataSupplier = "Данных недостаточно"

// DefaultWorkers размер пула для параллельного сравнения групп.
// Внешний сервис лимитирует частоту запросов, поэтому параллелизм
// ограничен, а не свободен.
const DefaultWorkers = 4

// Comparator сравнивает группы эквивалентных позиций и формирует
// рекомендации по закупке. Основной путь — внешний вывод,
// при любой его ошибке применяется детерминированный fallback.
type Comparator struct {
	inference ai.Inference
	workers   int
}

// NewComparator создает новый компаратор. inference может быть nil —
// тогда все рекомендации строятся детерминированным fallback.
func NewComparator(inference ai.Inference, workers int) *Comparator {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	return &Comparator{
		inference: inference,
		workers:   workers,
	}
}

// itemSummary ограниченная сводка по одному варианту для внешнего вывода
type itemSummary struct {
	N               int            `json:"№"`
	Supplier        string         `json:"Поставщик"`
	OriginalPrice   string         `json:"Цена (ориг)"`
	NormalizedPrice string         `json:"Цена (норм)"`
	Quantity        string         `json:"Количество"`
	Specs           map[string]any `json:"Характеристики"`
	Completeness    string         `json:"Полнота данных"`
}

// llmRecommendation ответ внешнего вывода по группе
type llmRecommendation struct {
	RecommendedSupplier    string   `json:"recommended_supplier"`
	RecommendedPrice       float64  `json:"recommended_price"`
	PriceUnit              string   `json:"price_unit"`
	PriceDifferencePercent float64  `json:"price_difference_percent"`
	Reasoning              string   `json:"reasoning"`
	Alternatives           []string `json:"alternatives"`
}

// CompareGroup формирует рекомендацию для одной группы эквивалентных
// позиций. Сначала пытается получить рекомендацию от внешнего вывода,
// при ошибке вызова или неразборчивом ответе применяет
// детерминированное сравнение по минимальной нормализованной цене.
// Никогда не возвращает ошибку.
func (c *Comparator) CompareGroup(ctx context.Context, itemName string, group []models.Item) models.Recommendation {
	var rec models.Recommendation

	if llm := c.compareWithLLM(ctx, itemName, group); llm != nil {
		rec = *llm
	} else {
		rec = fallbackCompare(group)
	}

	g := models.ComparisonGroup{Key: itemName, Items: group}
	rec.MultiSupplier = g.MultiSupplier()
	return rec
}

// compareWithLLM пытается получить рекомендацию от внешнего вывода.
// Возвращает nil при любой ошибке — вызов не повторяется.
func (c *Comparator) compareWithLLM(ctx context.Context, itemName string, group []models.Item) *models.Recommendation {
	if c.inference == nil {
		return nil
	}

	summaries := make([]itemSummary, 0, len(group))
	for i, item := range group {
		summaries = append(summaries, itemSummary{
			N:               i + 1,
			Supplier:        item.Supplier,
			OriginalPrice:   fmt.Sprintf("%g %s за %s", item.PricePerUnit, item.Currency, item.Unit),
			NormalizedPrice: fmt.Sprintf("%g за %s", item.NormalizedPrice, item.NormalizedUnit),
			Quantity:        fmt.Sprintf("%g %s", item.NormalizedQuantity, item.NormalizedUnit),
			Specs:           item.Specs,
			Completeness:    fmt.Sprintf("%.0f%%", item.CompletenessScore*100),
		})
	}

	summaryJSON, err := json.MarshalIndent(summaries, "", "  ")
	if err != nil {
		return nil
	}

	prompt := fmt.Sprintf(`Проанализируй коммерческие предложения разных поставщиков для товара: "%s"

Данные поставщиков:
%s

Задача:
1. Сравни нормализованные цены
2. Оцени полноту данных и характеристики
3. Учти качество предложения (полнота информации важна!)
4. Дай рекомендацию, какого поставщика выбрать

Верни СТРОГО в формате JSON:
{
  "recommended_supplier": "Название поставщика",
  "recommended_price": <нормализованная цена>,
  "price_unit": "<единица измерения>",
  "price_difference_percent": <%% разницы с худшим вариантом>,
  "reasoning": "Краткое объяснение выбора (2-3 предложения)",
  "alternatives": ["Поставщик 2", "Поставщик 3"]
}

Если все варианты плохие или данных недостаточно, укажи это в reasoning.`,
		itemName, string(summaryJSON))

	response, err := c.inference.Complete(ctx, "", prompt)
	if err != nil {
		log.Printf("[Comparator] LLM comparison error for %q: %v", itemName, err)
		return nil
	}

	var parsed llmRecommendation
	if err := ai.ExtractJSONInto(response, &parsed); err != nil {
		log.Printf("[Comparator] LLM response parse error for %q: %v", itemName, err)
		return nil
	}
	if parsed.RecommendedSupplier == "" {
		log.Printf("[Comparator] LLM response without supplier for %q", itemName)
		return nil
	}

	// Не больше двух альтернатив
	if len(parsed.Alternatives) > 2 {
		parsed.Alternatives = parsed.Alternatives[:2]
	}

	log.Printf("[Comparator] LLM recommendation for %q: %s", itemName, parsed.RecommendedSupplier)
	return &models.Recommendation{
		RecommendedSupplier:    parsed.RecommendedSupplier,
		RecommendedPrice:       parsed.RecommendedPrice,
		PriceUnit:              parsed.PriceUnit,
		PriceDifferencePercent: parsed.PriceDifferencePercent,
		Reasoning:              parsed.Reasoning,
		Alternatives:           parsed.Alternatives,
	}
}

// fallbackCompare детерминированное сравнение: побеждает минимальная
// положительная нормализованная цена. Если валидных цен нет,
// возвращается sentinel-рекомендация "данных недостаточно".
func fallbackCompare(group []models.Item) models.Recommendation {
	valid := make([]models.Item, 0, len(group))
	for _, item := range group {
		if item.NormalizedPrice > 0 {
			valid = append(valid, item)
		}
	}

	if len(valid) == 0 {
		return models.Recommendation{
			RecommendedSupplier: InsufficientDataSupplier,
			Reasoning:           "Отсутствуют нормализованные цены для сравнения",
			Alternatives:        []string{},
			Insufficient:        true,
		}
	}

	sort.SliceStable(valid, func(i, j int) bool {
		return valid[i].NormalizedPrice < valid[j].NormalizedPrice
	})

	best := valid[0]
	worst := valid[len(valid)-1]

	priceDiff := 0.0
	if worst.NormalizedPrice > 0 {
		priceDiff = (worst.NormalizedPrice - best.NormalizedPrice) / worst.NormalizedPrice * 100
	}

	alternatives := make([]string, 0, 2)
	for _, item := range valid[1:] {
		alternatives = append(alternatives, item.Supplier)
		if len(alternatives) == 2 {
			break
		}
	}

	return models.Recommendation{
		RecommendedSupplier:    best.Supplier,
		RecommendedPrice:       best.NormalizedPrice,
		PriceUnit:              best.NormalizedUnit,
		PriceDifferencePercent: round1(priceDiff),
		Reasoning:              fmt.Sprintf("Лучшая цена среди %d предложений", len(valid)),
		Alternatives:           alternatives,
	}
}

// CompareProject сравнивает все группы проекта и собирает агрегированную
// статистику. Группы сравниваются параллельно через ограниченный пул:
// сбой сравнения одной группы не прерывает остальные.
func (c *Comparator) CompareProject(ctx context.Context, groups map[string][]models.Item) *models.ComparisonResult {
	if len(groups) == 0 {
		return &models.ComparisonResult{
			Status:          models.StatusNoMatches,
			Message:         "Нет совпадающих товаров у разных поставщиков",
			ItemComparisons: []models.ItemComparison{},
			GeneratedAt:     time.Now(),
		}
	}

	// Стабильный порядок групп для воспроизводимого отчета
	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	sort.Strings(names)

	comparisons := make([]models.ItemComparison, len(names))

	var wg sync.WaitGroup
	sem := make(chan struct{}, c.workers)

	for i, name := range names {
		wg.Add(1)
		go func(i int, name string, group []models.Item) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			log.Printf("[Comparator] Comparing %q (%d options)", name, len(group))
			rec := c.CompareGroup(ctx, name, group)

			options := make([]models.ItemOption, 0, len(group))
			for _, item := range group {
				options = append(options, models.ItemOption{
					Supplier:     item.Supplier,
					Price:        item.NormalizedPrice,
					Unit:         item.NormalizedUnit,
					Completeness: item.CompletenessScore,
				})
			}

			comparisons[i] = models.ItemComparison{
				ItemName:       name,
				SuppliersCount: len(group),
				Recommendation: rec,
				AllOptions:     options,
			}
		}(i, name, groups[name])
	}
	wg.Wait()

	// Агрегат: средняя экономия считается только по группам с
	// положительной экономией (sentinel и нулевые группы не входят
	// в знаменатель), но каждая группа учитывается в items_compared
	totalSavings := 0.0
	positive := 0
	for _, comp := range comparisons {
		if savings := comp.Recommendation.PriceDifferencePercent; savings > 0 {
			totalSavings += savings
			positive++
		}
	}
	itemsCompared := len(comparisons)
	avgSavings := 0.0
	if positive > 0 {
		avgSavings = totalSavings / float64(positive)
	}

	return &models.ComparisonResult{
		Status:                models.StatusSuccess,
		Message:               fmt.Sprintf("Сравнено %d товаров", itemsCompared),
		ItemsCompared:         itemsCompared,
		AverageSavingsPercent: round1(avgSavings),
		ItemComparisons:       comparisons,
		GeneratedAt:           time.Now(),
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
