package quality

import (
	"math"
	"sort"

	"smartprocure/classification"
	"smartprocure/models"
)

// CompletenessResult результат оценки полноты характеристик позиции
type CompletenessResult struct {
	CompletenessScore float64  `json:"completeness_score"`
	HasSpecs          []string `json:"has_specs"`
	MissingSpecs      []string `json:"missing_specs"`
}

// ScoreItem оценивает полноту характеристик позиции относительно
// чек-листа важных полей категории. Для категории без чек-листа
// полнота равна 1.0 независимо от specs.
func ScoreItem(item *models.Item, category string) CompletenessResult {
	importantFields := classification.SuggestImportantFields(category)

	if len(importantFields) == 0 {
		return CompletenessResult{CompletenessScore: 1.0}
	}

	var has, missing []string
	for _, field := range importantFields {
		if _, ok := item.Specs[field]; ok {
			has = append(has, field)
		} else {
			missing = append(missing, field)
		}
	}
	sort.Strings(has)
	sort.Strings(missing)

	score := float64(len(has)) / float64(len(importantFields))

	return CompletenessResult{
		CompletenessScore: round2(score),
		HasSpecs:          has,
		MissingSpecs:      missing,
	}
}

// EnrichItems проставляет оценку полноты всем позициям на месте
func EnrichItems(items []models.Item, category string) {
	for i := range items {
		result := ScoreItem(&items[i], category)
		items[i].CompletenessScore = result.CompletenessScore
		items[i].HasSpecs = result.HasSpecs
		items[i].MissingSpecs = result.MissingSpecs
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
