package classification

import "smartprocure/models"

// requiredField обязательное поле КП с человекочитаемой меткой
type requiredField struct {
	Key   string
	Label string
}

// requiredItemFields обязательные поля уровня позиции (для любых категорий)
var requiredItemFields = []requiredField{
	{"price_per_unit", "Цена за единицу"},
	{"unit", "Единица измерения"},
	{"quantity", "Количество"},
}

// requiredSupplierFields обязательные поля уровня поставщика по категориям
var requiredSupplierFields = map[string][]requiredField{
	"строительные материалы": {
		{"delivery_date", "Срок поставки"},
		{"vat_included", "НДС включен"},
		{"certificate", "Сертификат качества"},
	},
	"электроника": {
		{"warranty", "Гарантия"},
		{"origin_country", "Страна производства"},
		{"delivery_date", "Срок поставки"},
	},
	"мебель": {
		{"delivery_date", "Срок поставки"},
		{"assembly_required", "Требуется сборка"},
		{"warranty", "Гарантия"},
	},
	"инструменты": {
		{"warranty", "Гарантия"},
		{"delivery_date", "Срок поставки"},
		{"service_center", "Сервисный центр"},
	},
	"офисные товары": {
		{"delivery_date", "Срок поставки"},
		{"min_order", "Минимальный заказ"},
	},
	"расходные материалы": {
		{"delivery_date", "Срок поставки"},
		{"shelf_life", "Срок годности"},
		{"storage_conditions", "Условия хранения"},
	},
	"сантехника": {
		{"warranty", "Гарантия"},
		{"delivery_date", "Срок поставки"},
		{"installation_included", "Монтаж включен"},
	},
	"электрооборудование": {
		{"warranty", "Гарантия"},
		{"certification", "Сертификация"},
		{"delivery_date", "Срок поставки"},
	},
}

// DetectMissingFields определяет отсутствующие обязательные поля КП
// по каждому поставщику. Проверяется первая позиция как представитель
// поставщика (пропуски данных обычно однородны внутри одного КП).
// Возвращает отображение имени поставщика в список меток
// отсутствующих полей.
func DetectMissingFields(quote *models.Quote, category string) map[string][]string {
	missingBySupplier := make(map[string][]string)

	for i := range quote.Suppliers {
		supplier := &quote.Suppliers[i]
		if len(supplier.Items) == 0 {
			continue
		}
		sample := &supplier.Items[0]

		var missing []string

		// Поля уровня позиции
		for _, field := range requiredItemFields {
			switch field.Key {
			case "price_per_unit":
				if sample.PricePerUnit == 0 {
					missing = append(missing, field.Label)
				}
			case "unit":
				if sample.Unit == "" {
					missing = append(missing, field.Label)
				}
			case "quantity":
				if sample.Quantity == 0 {
					missing = append(missing, field.Label)
				}
			}
		}

		// Поля уровня поставщика, с запасным поиском в specs позиции
		for _, field := range requiredSupplierFields[category] {
			if supplierHasField(supplier, field.Key) {
				continue
			}
			if _, ok := sample.Specs[field.Key]; ok {
				continue
			}
			missing = append(missing, field.Label)
		}

		if len(missing) > 0 {
			missingBySupplier[supplier.Name] = missing
		}
	}

	return missingBySupplier
}

// supplierHasField проверяет заполненность атрибута уровня поставщика
func supplierHasField(supplier *models.Supplier, key string) bool {
	switch key {
	case "delivery_date":
		return supplier.DeliveryDate != ""
	case "warranty":
		return supplier.Warranty != ""
	case "vat_included":
		return supplier.VATIncluded
	default:
		return false
	}
}
