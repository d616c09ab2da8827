package comparison

import (
	"fmt"
	"strings"

	"smartprocure/models"
)

// maxSummaryItems сколько рекомендаций попадает в текстовую сводку
const maxSummaryItems = 10

// Summary строит человекочитаемую сводку результата сравнения
func Summary(result *models.ComparisonResult) string {
	if result.Status != models.StatusSuccess {
		if result.Message != "" {
			return result.Message
		}
		return "Нет данных для сравнения"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "АНАЛИЗ КОММЕРЧЕСКИХ ПРЕДЛОЖЕНИЙ\n\n")
	fmt.Fprintf(&b, "Сравнено товаров: %d\n", result.ItemsCompared)
	fmt.Fprintf(&b, "Средняя экономия: %g%%\n\n", result.AverageSavingsPercent)
	b.WriteString("РЕКОМЕНДАЦИИ:\n\n")

	for i, comp := range result.ItemComparisons {
		if i >= maxSummaryItems {
			fmt.Fprintf(&b, "... и еще %d товаров\n", len(result.ItemComparisons)-maxSummaryItems)
			break
		}
		rec := comp.Recommendation
		fmt.Fprintf(&b, "%d. %s\n", i+1, comp.ItemName)
		fmt.Fprintf(&b, "   Рекомендация: %s\n", rec.RecommendedSupplier)
		fmt.Fprintf(&b, "   Цена: %g %s\n", rec.RecommendedPrice, rec.PriceUnit)
		fmt.Fprintf(&b, "   Экономия: %g%%\n", rec.PriceDifferencePercent)
		fmt.Fprintf(&b, "   Причина: %s\n\n", rec.Reasoning)
	}

	return b.String()
}
