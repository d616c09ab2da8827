package grouping

import (
	"log"

	"smartprocure/models"
)

// DefaultThreshold порог схожести имен для объединения позиций в группу
// на шкале 0-100. В истории системы встречались оба значения порога —
// 40 и 50; по умолчанию используется более строгое (см. DESIGN.md).
const DefaultThreshold = 50

// LooseThreshold более мягкий из исторических порогов
const LooseThreshold = 40

// Grouper кластеризует позиции разных поставщиков по приблизительной
// схожести имен. Кластеризация жадная, single-linkage, зависит от
// порядка поступления позиций и не является глобально оптимальной —
// это осознанное приближение, а не дефект.
type Grouper struct {
	// Threshold порог схожести на шкале 0-100
	Threshold int
	// UseStemming включает стемминг токенов при сравнении имен
	UseStemming bool
}

// NewGrouper создает группировщик с порогом по умолчанию
func NewGrouper() *Grouper {
	return &Grouper{Threshold: DefaultThreshold}
}

// Group кластеризует позиции по схожести имен. Позиции обрабатываются
// в порядке поступления: новая позиция попадает в группу с наилучшим
// совпадением ключа, если схожесть не ниже порога, иначе образует
// новую группу со своим нормализованным именем в качестве ключа.
// Группы с одним участником отбрасываются — сравнивать в них нечего,
// при этом участники одной группы могут быть как от разных поставщиков,
// так и вариантами одного поставщика.
func (g *Grouper) Group(items []models.Item) map[string][]models.Item {
	groups := make(map[string][]models.Item)
	var keys []string // ключи в порядке появления

	ratio := TokenSortRatio
	if g.UseStemming {
		ratio = TokenSortRatioStemmed
	}

	for _, item := range items {
		normalized := NormalizeName(item.Name)
		if normalized == "" {
			continue
		}

		// Точное совпадение ключа
		if _, ok := groups[normalized]; ok {
			groups[normalized] = append(groups[normalized], item)
			continue
		}

		// Лучшее приблизительное совпадение среди существующих ключей
		bestKey := ""
		bestScore := 0
		for _, key := range keys {
			if score := ratio(normalized, key); score > bestScore {
				bestScore = score
				bestKey = key
			}
		}

		if bestKey != "" && bestScore >= g.Threshold {
			groups[bestKey] = append(groups[bestKey], item)
			continue
		}

		groups[normalized] = []models.Item{item}
		keys = append(keys, normalized)
	}

	// Только группы с >= 2 участниками пригодны для сравнения
	for key, members := range groups {
		if len(members) < 2 {
			delete(groups, key)
		}
	}

	log.Printf("[Grouper] %d comparable groups from %d items (threshold %d)", len(groups), len(items), g.Threshold)
	return groups
}
