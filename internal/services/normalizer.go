package services

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/codyseavey/card-proxy/internal/models"
)

// Candidate field names per attribute, probed in order. Providers in the wild
// disagree on naming (image vs image-url, a {data:[...]} wrapper or not), so
// every attribute lists every spelling we have seen.
var (
	idFields       = []string{"id", "tcgplayerId", "cardId", "code", "_id", "name"}
	nameFields     = []string{"name", "title"}
	setFields      = []string{"set", "setName", "set_name", "expansion"}
	numberFields   = []string{"number", "cardNumber", "card_number", "collectorNumber"}
	editionFields  = []string{"edition", "printing"}
	languageFields = []string{"lang", "language"}
	imageFields    = []string{"image", "image-url", "image_url", "imageUrl"}
	variantFields  = []string{"variants", "skus"}

	sourceIDFields        = []string{"id", "sku", "skuId"}
	sourceUpdatedAtFields = []string{"lastUpdated", "last_updated"}
)

// Normalizer maps provider documents onto the proxy's output schema.
type Normalizer struct {
	currency string
}

// NewNormalizer creates a normalizer that labels prices with currency.
func NewNormalizer(currency string) *Normalizer {
	if currency == "" {
		currency = models.CurrencyUSD
	}
	return &Normalizer{currency: currency}
}

// Currency returns the configured price currency label.
func (n *Normalizer) Currency() string {
	return n.currency
}

// MapSearchItem maps one provider item to a search result. It never fails:
// anything that is not a JSON object maps to the all-defaults result.
func MapSearchItem(raw any) models.SearchResultItem {
	item := asObject(raw)

	set := coalesce(item, setFields...)
	if set == "" {
		set = nestedName(item, "set")
	}

	return models.SearchResultItem{
		ID:          coalesce(item, idFields...),
		Name:        coalesceOr(item, models.UnknownName, nameFields...),
		Set:         set,
		Number:      coalesce(item, numberFields...),
		Edition:     coalesce(item, editionFields...),
		Language:    coalesceOr(item, models.DefaultLanguage, languageFields...),
		Image:       coalesce(item, imageFields...),
		RawVariants: variantList(item),
	}
}

// MapCardDetail maps a provider card document to a detail record. raw may be
// the item itself or a {data: [item, ...]} wrapper. Like MapSearchItem it
// degrades missing fields to defaults instead of failing.
func (n *Normalizer) MapCardDetail(raw any) models.CardDetail {
	item := unwrapItem(raw)
	summary := MapSearchItem(item)

	return models.CardDetail{
		ID:       summary.ID,
		Name:     summary.Name,
		Set:      summary.Set,
		Number:   summary.Number,
		Edition:  summary.Edition,
		Language: summary.Language,
		Image:    summary.Image,
		Prices:   n.mapPrices(item, summary.RawVariants),
		Sources:  mapSources(item, summary.RawVariants),
	}
}

// mapPrices prefers a canonical prices object the provider already supplies.
// Otherwise the first variant's price fills low, mid and high alike.
func (n *Normalizer) mapPrices(item map[string]any, variants []map[string]any) models.CardPrices {
	if canonical, ok := item["prices"].(map[string]any); ok {
		currency := coalesce(canonical, "currency")
		if currency == "" {
			currency = n.currency
		}
		return models.CardPrices{
			Currency: currency,
			Low:      numberPtr(canonical["low"]),
			Mid:      numberPtr(canonical["mid"]),
			High:     numberPtr(canonical["high"]),
			History:  numberList(canonical["history"]),
		}
	}

	var price *float64
	if len(variants) > 0 {
		price = numberPtr(variants[0]["price"])
	}
	return models.NewCardPrices(n.currency, price)
}

func mapSources(item map[string]any, variants []map[string]any) []models.PriceSource {
	if canonical, ok := item["sources"].([]any); ok {
		variants = objectList(canonical)
	}

	sources := make([]models.PriceSource, 0, len(variants))
	for _, v := range variants {
		sources = append(sources, mapSource(v))
	}
	return sources
}

func mapSource(v map[string]any) models.PriceSource {
	source := models.PriceSource{
		ID:        coalesce(v, sourceIDFields...),
		Condition: coalesce(v, "condition"),
		Printing:  coalesce(v, "printing"),
		Price:     v["price"],
	}

	for _, field := range sourceUpdatedAtFields {
		if ts := lastUpdated(v[field]); ts != nil {
			source.LastUpdated = ts
			break
		}
	}
	return source
}

// lastUpdated converts Unix seconds to an ISO instant. Non-numeric strings are
// assumed to already be instants and pass through.
func lastUpdated(v any) *string {
	if sec, ok := numberValue(v); ok {
		if sec == 0 {
			return nil
		}
		iso := models.FormatUnixSeconds(sec)
		return &iso
	}
	if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
		return &s
	}
	return nil
}

func unwrapItem(raw any) map[string]any {
	obj := asObject(raw)
	switch data := obj["data"].(type) {
	case []any:
		if len(data) == 0 {
			return map[string]any{}
		}
		return asObject(data[0])
	case map[string]any:
		return data
	}
	return obj
}

// coalesce returns the first field holding a usable scalar, rendered as a
// string, or "" when none does.
func coalesce(item map[string]any, fields ...string) string {
	for _, field := range fields {
		if s, ok := scalarString(item[field]); ok {
			return s
		}
	}
	return ""
}

func coalesceOr(item map[string]any, fallback string, fields ...string) string {
	if s := coalesce(item, fields...); s != "" {
		return s
	}
	return fallback
}

// scalarString accepts non-empty strings and non-zero numbers. Empty values,
// booleans, objects and arrays are skipped so the next candidate is tried.
func scalarString(v any) (string, bool) {
	switch val := v.(type) {
	case string:
		if strings.TrimSpace(val) == "" {
			return "", false
		}
		return val, true
	case json.Number:
		if f, err := val.Float64(); err == nil && f == 0 {
			return "", false
		}
		return val.String(), true
	case float64:
		if val == 0 || math.IsNaN(val) || math.IsInf(val, 0) {
			return "", false
		}
		return strconv.FormatFloat(val, 'f', -1, 64), true
	case int:
		if val == 0 {
			return "", false
		}
		return strconv.Itoa(val), true
	case int64:
		if val == 0 {
			return "", false
		}
		return strconv.FormatInt(val, 10), true
	}
	return "", false
}

// numberValue accepts JSON numbers and numeric strings.
func numberValue(v any) (float64, bool) {
	var f float64
	switch val := v.(type) {
	case float64:
		f = val
	case json.Number:
		parsed, err := val.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case int:
		f = float64(val)
	case int64:
		f = float64(val)
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func numberPtr(v any) *float64 {
	if f, ok := numberValue(v); ok {
		return &f
	}
	return nil
}

func numberList(v any) []float64 {
	out := []float64{}
	list, ok := v.([]any)
	if !ok {
		return out
	}
	for _, elem := range list {
		if f, ok := numberValue(elem); ok {
			out = append(out, f)
		}
	}
	return out
}

func nestedName(item map[string]any, field string) string {
	if obj, ok := item[field].(map[string]any); ok {
		return coalesce(obj, nameFields...)
	}
	return ""
}

func variantList(item map[string]any) []map[string]any {
	for _, field := range variantFields {
		if list, ok := item[field].([]any); ok {
			return objectList(list)
		}
	}
	return []map[string]any{}
}

func objectList(list []any) []map[string]any {
	out := make([]map[string]any, 0, len(list))
	for _, elem := range list {
		if obj, ok := elem.(map[string]any); ok {
			out = append(out, obj)
		}
	}
	return out
}

func asObject(raw any) map[string]any {
	if obj, ok := raw.(map[string]any); ok && obj != nil {
		return obj
	}
	return map[string]any{}
}
