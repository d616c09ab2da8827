package models

import "time"

// Item позиция коммерческого предложения.
// Поля name/quantity/unit/price_per_unit/currency/total_price/specs
// приходят от внешнего сервиса извлечения данных и принимаются как есть:
// отсутствующие числовые поля считаются нулями, строковые — пустыми.
// Поля Normalized*, CompletenessScore и MissingSpecs заполняет движок.
type Item struct {
	Name         string         `json:"name"`
	Quantity     float64        `json:"quantity"`
	Unit         string         `json:"unit"`
	PricePerUnit float64        `json:"price_per_unit"`
	Currency     string         `json:"currency"`
	TotalPrice   float64        `json:"total_price"`
	Specs        map[string]any `json:"specs,omitempty"`

	// Производные поля (заполняются движком)
	NormalizedQuantity float64  `json:"normalized_quantity,omitempty"`
	NormalizedUnit     string   `json:"normalized_unit,omitempty"`
	NormalizedPrice    float64  `json:"normalized_price,omitempty"`
	CompletenessScore  float64  `json:"completeness_score,omitempty"`
	HasSpecs           []string `json:"has_specs,omitempty"`
	MissingSpecs       []string `json:"missing_specs,omitempty"`

	// Атрибуция: кто и откуда прислал позицию.
	// Обратная ссылка, заполняется при группировке.
	Supplier string `json:"supplier,omitempty"`
	Source   string `json:"source,omitempty"`
}

// Supplier поставщик с позициями из одного КП
type Supplier struct {
	Name  string `json:"name"`
	Items []Item `json:"items"`

	// Необязательные атрибуты уровня поставщика
	DeliveryDate string `json:"delivery_date,omitempty"`
	Warranty     string `json:"warranty,omitempty"`
	VATIncluded  bool   `json:"vat_included,omitempty"`
}

// Quote одно коммерческое предложение (один входной документ)
type Quote struct {
	ID               string              `json:"id"`
	SourceFile       string              `json:"source_file"`
	CreatedAt        time.Time           `json:"created_at"`
	DetectedCategory string              `json:"detected_category"`
	Suppliers        []Supplier          `json:"suppliers"`
	MissingFields    map[string][]string `json:"missing_fields,omitempty"`
}

// ComparisonGroup группа эквивалентных позиций разных поставщиков.
// Ключ — нормализованное имя первого участника группы.
// Инвариант: в сравнение попадают только группы с >= 2 участниками.
type ComparisonGroup struct {
	Key   string `json:"key"`
	Items []Item `json:"items"`
}

// MultiSupplier true если в группе представлено больше одного поставщика
func (g *ComparisonGroup) MultiSupplier() bool {
	seen := make(map[string]struct{})
	for _, it := range g.Items {
		seen[it.Supplier] = struct{}{}
	}
	return len(seen) > 1
}

// Recommendation рекомендация по закупке для одной группы
type Recommendation struct {
	RecommendedSupplier    string   `json:"recommended_supplier"`
	RecommendedPrice       float64  `json:"recommended_price"`
	PriceUnit              string   `json:"price_unit"`
	PriceDifferencePercent float64  `json:"price_difference_percent"`
	Reasoning              string   `json:"reasoning"`
	Alternatives           []string `json:"alternatives"`

	// MultiSupplier отличает сравнение разных поставщиков
	// от вариантов одного и того же поставщика
	MultiSupplier bool `json:"multi_supplier"`
	// Insufficient выставляется для sentinel-рекомендации,
	// когда ни у одной позиции нет валидной нормализованной цены
	Insufficient bool `json:"insufficient,omitempty"`
}

// ItemOption краткое представление одного варианта в группе
type ItemOption struct {
	Supplier     string  `json:"supplier"`
	Price        float64 `json:"price"`
	Unit         string  `json:"unit"`
	Completeness float64 `json:"completeness"`
}

// ItemComparison результат сравнения одной группы
type ItemComparison struct {
	ItemName       string         `json:"item_name"`
	SuppliersCount int            `json:"suppliers_count"`
	Recommendation Recommendation `json:"recommendation"`
	AllOptions     []ItemOption   `json:"all_options"`
}

// Статусы результата сравнения
const (
	StatusSuccess   = "success"
	StatusEmpty     = "empty"
	StatusNoMatches = "no_matches"
)

// ComparisonResult итог сравнения всех КП проекта
type ComparisonResult struct {
	Status                string           `json:"status"`
	Message               string           `json:"message"`
	ItemsCompared         int              `json:"items_compared"`
	TotalUniqueItems      int              `json:"total_unique_items,omitempty"`
	AverageSavingsPercent float64          `json:"average_savings_percent"`
	ItemComparisons       []ItemComparison `json:"item_comparisons"`
	GeneratedAt           time.Time        `json:"generated_at"`
}
