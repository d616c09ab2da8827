package classification

import (
	"context"
	"fmt"
	"log"
	"strings"

	"smartprocure/ai"
	"smartprocure/models"
)

// CategoryGeneral категория по умолчанию, когда определить
// категорию не удалось
const CategoryGeneral = "общее"

// Categories закрытый набор категорий товаров
var Categories = []string{
	"строительные материалы",
	"электроника",
	"мебель",
	"инструменты",
	"офисные товары",
	"расходные материалы",
	"сантехника",
	"электрооборудование",
}

// categoryFields важные характеристики по категориям.
// Используются для оценки полноты данных позиции.
var categoryFields = map[string][]string{
	"строительные материалы": {
		"size", "dimensions", "material", "grade", "class",
		"manufacturer", "color", "thickness", "density",
	},
	"электроника": {
		"model", "brand", "warranty", "voltage", "power",
		"frequency", "capacity", "interface", "compatibility",
	},
	"мебель": {
		"dimensions", "material", "color", "weight_capacity",
		"assembly_required", "style", "finish",
	},
	"инструменты": {
		"brand", "model", "power", "voltage", "weight",
		"warranty", "accessories_included", "max_capacity",
	},
	"офисные товары": {
		"brand", "model", "size", "color", "material",
		"capacity", "format",
	},
	"расходные материалы": {
		"brand", "model", "compatibility", "yield",
		"color", "type", "package_quantity",
	},
	"сантехника": {
		"material", "size", "connection_type", "pressure_rating",
		"manufacturer", "finish", "mounting_type",
	},
	"электрооборудование": {
		"voltage", "current", "power", "protection_class",
		"mounting_type", "brand", "certification",
	},
}

// maxSampleItems сколько первых позиций попадает в сэмпл для классификации
const maxSampleItems = 10

// Classifier определяет категорию партии товаров через внешний вывод
// с мемоизацией по содержимому сэмпла
type Classifier struct {
	inference ai.Inference
	cache     *Cache
}

// NewClassifier создает новый классификатор категорий.
// cache может быть nil — тогда каждый вызов DetectCategory
// обращается к внешнему выводу заново.
func NewClassifier(inference ai.Inference, cache *Cache) *Classifier {
	return &Classifier{
		inference: inference,
		cache:     cache,
	}
}

// DetectCategory определяет категорию партии товаров по именам первых
// позиций. Любой сбой внешнего вызова или метка вне закрытого набора
// приводятся к категории "общее".
func (c *Classifier) DetectCategory(ctx context.Context, items []models.Item) string {
	if len(items) == 0 {
		return CategoryGeneral
	}

	// Сэмпл из имен первых позиций
	limit := len(items)
	if limit > maxSampleItems {
		limit = maxSampleItems
	}
	names := make([]string, 0, limit)
	for _, item := range items[:limit] {
		names = append(names, item.Name)
	}
	sampleText := strings.Join(names, "\n")

	// Мемоизация по содержимому сэмпла
	if c.cache != nil {
		if category, found := c.cache.Get(sampleText); found {
			log.Printf("[Classifier] Category from cache: %s", category)
			return category
		}
	}

	category := c.classifyWithAI(ctx, sampleText)

	if c.cache != nil {
		c.cache.Set(sampleText, category)
	}
	return category
}

// classifyWithAI выполняет один вызов внешнего вывода и валидирует метку
func (c *Classifier) classifyWithAI(ctx context.Context, sampleText string) string {
	if c.inference == nil {
		return CategoryGeneral
	}

	prompt := fmt.Sprintf(`Определи категорию товаров из этого списка. Верни ТОЛЬКО название категории (одно из):
- %s
- %s (если не подходит ни одна категория)

Список товаров:
%s

Ответ (только название категории):`,
		strings.Join(Categories, "\n- "), CategoryGeneral, sampleText)

	response, err := c.inference.Complete(ctx, "", prompt)
	if err != nil {
		log.Printf("[Classifier] Category detection error: %v", err)
		return CategoryGeneral
	}

	category := strings.ToLower(strings.TrimSpace(response))
	if _, ok := categoryFields[category]; !ok {
		// Метка вне закрытого набора приводится к "общее"
		category = CategoryGeneral
	}

	log.Printf("[Classifier] Detected category: %s", category)
	return category
}

// SuggestImportantFields возвращает список важных характеристик
// для категории. Для неизвестной категории список пуст.
func SuggestImportantFields(category string) []string {
	return categoryFields[category]
}
