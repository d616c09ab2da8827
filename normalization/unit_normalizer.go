package normalization

import (
	"context"
	"fmt"
	"log"
	"math"
	"strings"

	"smartprocure/ai"
	"smartprocure/models"
)

// Канонические единицы измерения по семействам
const (
	UnitKilogram    = "кг"   // масса
	UnitMeter       = "м"    // длина
	UnitSquareMeter = "м2"   // площадь
	UnitCubicMeter  = "м3"   // объем
	UnitPiece       = "шт"   // количество
	UnitDay         = "день" // время
)

// conversion правило приведения единицы к канонической
type conversion struct {
	Unit   string  // каноническая единица
	Factor float64 // множитель количества
}

// unitConversions таблица приведения алиасов единиц измерения.
// Ключ — каноникализированная строка единицы (нижний регистр,
// без завершающей точки).
var unitConversions = map[string]conversion{
	// Масса -> кг
	"мг":        {UnitKilogram, 0.000001},
	"г":         {UnitKilogram, 0.001},
	"грамм":     {UnitKilogram, 0.001},
	"кг":        {UnitKilogram, 1.0},
	"килограмм": {UnitKilogram, 1.0},
	"т":         {UnitKilogram, 1000.0},
	"тонна":     {UnitKilogram, 1000.0},
	"g":         {UnitKilogram, 0.001},
	"kg":        {UnitKilogram, 1.0},

	// Длина -> м
	"мм":        {UnitMeter, 0.001},
	"миллиметр": {UnitMeter, 0.001},
	"см":        {UnitMeter, 0.01},
	"сантиметр": {UnitMeter, 0.01},
	"м":         {UnitMeter, 1.0},
	"метр":      {UnitMeter, 1.0},
	"км":        {UnitMeter, 1000.0},
	"километр":  {UnitMeter, 1000.0},
	"mm":        {UnitMeter, 0.001},
	"cm":        {UnitMeter, 0.01},
	"m":         {UnitMeter, 1.0},
	"km":        {UnitMeter, 1000.0},

	// Площадь -> м2
	"мм2":            {UnitSquareMeter, 0.000001},
	"см2":            {UnitSquareMeter, 0.0001},
	"м2":             {UnitSquareMeter, 1.0},
	"м²":             {UnitSquareMeter, 1.0},
	"кв.м":           {UnitSquareMeter, 1.0},
	"квадратный метр": {UnitSquareMeter, 1.0},
	"m2":             {UnitSquareMeter, 1.0},

	// Объем -> м3
	"мл":             {UnitCubicMeter, 0.000001},
	"л":              {UnitCubicMeter, 0.001},
	"литр":           {UnitCubicMeter, 0.001},
	"м3":             {UnitCubicMeter, 1.0},
	"м³":             {UnitCubicMeter, 1.0},
	"куб.м":          {UnitCubicMeter, 1.0},
	"кубический метр": {UnitCubicMeter, 1.0},
	"ml":             {UnitCubicMeter, 0.000001},
	"l":              {UnitCubicMeter, 0.001},
	"m3":             {UnitCubicMeter, 1.0},

	// Количество -> шт
	"шт":      {UnitPiece, 1.0},
	"штука":   {UnitPiece, 1.0},
	"штук":    {UnitPiece, 1.0},
	"ед":      {UnitPiece, 1.0},
	"единица": {UnitPiece, 1.0},
	"пара":    {UnitPiece, 2.0},
	"дюжина":  {UnitPiece, 12.0},
	"pcs":     {UnitPiece, 1.0},
	"pc":      {UnitPiece, 1.0},
	"pair":    {UnitPiece, 2.0},
	"dozen":   {UnitPiece, 12.0},

	// Время -> день
	"день":   {UnitDay, 1.0},
	"д":      {UnitDay, 1.0},
	"дн":     {UnitDay, 1.0},
	"дней":   {UnitDay, 1.0},
	"неделя": {UnitDay, 7.0},
	"нед":    {UnitDay, 7.0},
	"месяц":  {UnitDay, 30.0},
	"мес":    {UnitDay, 30.0},
	"day":    {UnitDay, 1.0},
	"week":   {UnitDay, 7.0},
	"month":  {UnitDay, 30.0},
}

// packagingMarkers маркеры составных упаковочных единиц, для которых
// словарная конверсия невозможна и требуется внешний вывод
var packagingMarkers = []string{
	"упаковка", "упак", "коробка", "короб", "рулон", "мешок",
	"паллета", "поддон", "пакет",
	"package", "box", "roll", "bag", "pallet", "sack",
}

// UnitNormalizer приводит количество/единицу/цену позиции к
// каноническому виду. Словарная конверсия для известных алиасов,
// внешний вывод для упаковочных единиц, passthrough во всех
// остальных случаях. Никогда не возвращает ошибку наружу.
type UnitNormalizer struct {
	inference ai.Inference
}

// NewUnitNormalizer создает новый нормализатор единиц измерения.
// inference может быть nil — тогда упаковочные единицы остаются
// ненормализованными (passthrough).
func NewUnitNormalizer(inference ai.Inference) *UnitNormalizer {
	return &UnitNormalizer{inference: inference}
}

// canonicalizeUnit каноникализирует строку единицы измерения:
// нижний регистр, обрезка пробелов, удаление одной завершающей точки
func canonicalizeUnit(unit string) string {
	unit = strings.ToLower(strings.TrimSpace(unit))
	unit = strings.TrimSuffix(unit, ".")
	return unit
}

// hasPackagingMarker проверяет наличие маркера упаковочной единицы
func hasPackagingMarker(unit string) bool {
	for _, marker := range packagingMarkers {
		if strings.Contains(unit, marker) {
			return true
		}
	}
	return false
}

// llmConversion ответ внешнего вывода по конверсии упаковочной единицы
type llmConversion struct {
	NormalizedQuantity float64 `json:"normalized_quantity"`
	NormalizedUnit     string  `json:"normalized_unit"`
	NormalizedPrice    float64 `json:"normalized_price"`
	Confidence         float64 `json:"confidence"`
}

// minLLMConfidence минимальная уверенность, при которой результат
// внешнего вывода принимается
const minLLMConfidence = 0.3

// NormalizeItem нормализует единицу измерения позиции и пересчитывает
// цену за каноническую единицу. Любой сбой деградирует до passthrough:
// normalized_* = исходные значения.
func (n *UnitNormalizer) NormalizeItem(ctx context.Context, item *models.Item) {
	// По умолчанию passthrough
	item.NormalizedQuantity = item.Quantity
	item.NormalizedUnit = item.Unit
	item.NormalizedPrice = item.PricePerUnit

	if item.Unit == "" || item.Quantity == 0 {
		return
	}

	canonical := canonicalizeUnit(item.Unit)

	// 1. Словарная конверсия
	if conv, ok := unitConversions[canonical]; ok {
		normalizedQuantity := item.Quantity * conv.Factor
		normalizedPrice := item.PricePerUnit
		if normalizedQuantity > 0 {
			normalizedPrice = (item.PricePerUnit * item.Quantity) / normalizedQuantity
		}
		item.NormalizedQuantity = round4(normalizedQuantity)
		item.NormalizedUnit = conv.Unit
		item.NormalizedPrice = round2(normalizedPrice)
		return
	}

	// 2. Упаковочные единицы — внешний вывод
	if n.inference != nil && hasPackagingMarker(canonical) {
		if result := n.llmConvert(ctx, item); result != nil {
			item.NormalizedQuantity = round4(result.NormalizedQuantity)
			item.NormalizedUnit = result.NormalizedUnit
			item.NormalizedPrice = round2(result.NormalizedPrice)
			return
		}
	}

	// 3. Неразрешимая единица — passthrough
	log.Printf("[UnitNormalizer] Could not normalize unit: %q", item.Unit)
}

// llmConvert пытается получить конверсию через внешний вывод.
// Возвращает nil при любой ошибке транспорта, разборе ответа или
// низкой уверенности — ошибки никогда не распространяются.
func (n *UnitNormalizer) llmConvert(ctx context.Context, item *models.Item) *llmConversion {
	prompt := fmt.Sprintf(`Задача: Нормализовать единицы измерения для сравнения цен.

Товар: %s
Количество: %g %s
Цена: %g за %s

Инструкции:
1. Если единица измерения - упаковка/коробка/рулон, попробуй определить количество штук внутри из названия товара
2. Переведи в базовую единицу (шт, кг, м, м2, м3)
3. Посчитай цену за единицу

Верни СТРОГО в формате JSON:
{
  "normalized_quantity": <число>,
  "normalized_unit": "<единица>",
  "normalized_price": <цена за единицу>,
  "confidence": <0-1, насколько уверен в конверсии>
}

Если невозможно нормализовать, верни confidence: 0 и оригинальные значения.`,
		item.Name, item.Quantity, item.Unit, item.PricePerUnit, item.Unit)

	response, err := n.inference.Complete(ctx, "", prompt)
	if err != nil {
		log.Printf("[UnitNormalizer] LLM conversion error: %v", err)
		return nil
	}

	var result llmConversion
	if err := ai.ExtractJSONInto(response, &result); err != nil {
		log.Printf("[UnitNormalizer] LLM conversion parse error: %v", err)
		return nil
	}

	if result.Confidence <= minLLMConfidence {
		log.Printf("[UnitNormalizer] LLM conversion low confidence (%.2f) for %q", result.Confidence, item.Unit)
		return nil
	}

	log.Printf("[UnitNormalizer] LLM conversion: %s -> %s", item.Unit, result.NormalizedUnit)
	return &result
}

// NormalizeSupplier нормализует все позиции поставщика
func (n *UnitNormalizer) NormalizeSupplier(ctx context.Context, supplier *models.Supplier) {
	for i := range supplier.Items {
		n.NormalizeItem(ctx, &supplier.Items[i])
	}
}

// NormalizeQuote нормализует все позиции всех поставщиков КП
func (n *UnitNormalizer) NormalizeQuote(ctx context.Context, quote *models.Quote) {
	for i := range quote.Suppliers {
		n.NormalizeSupplier(ctx, &quote.Suppliers[i])
	}
	log.Printf("[UnitNormalizer] Normalized %d suppliers", len(quote.Suppliers))
}

// round4 округляет до 4 знаков (количества)
func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}

// round2 округляет до 2 знаков (цены)
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
