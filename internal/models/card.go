package models

// DefaultLanguage is reported when a provider item carries no language field.
const DefaultLanguage = "EN"

// UnknownName is reported when a provider item carries no name field.
const UnknownName = "Unknown"

// SearchResultItem is the summary shape returned by card searches.
type SearchResultItem struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Set      string `json:"set"`
	Number   string `json:"number"`
	Edition  string `json:"edition"`
	Language string `json:"language"`
	Image    string `json:"image"`

	// RawVariants keeps the provider's variant list for later detail
	// resolution. Never serialized.
	RawVariants []map[string]any `json:"-"`
}

// CardDetail is the full record returned by card lookups.
type CardDetail struct {
	ID       string        `json:"id"`
	Name     string        `json:"name"`
	Set      string        `json:"set"`
	Number   string        `json:"number"`
	Edition  string        `json:"edition"`
	Language string        `json:"language"`
	Image    string        `json:"image"`
	Prices   CardPrices    `json:"prices"`
	Sources  []PriceSource `json:"sources"`
}

// Summary projects a detail record onto the search result shape.
func (c CardDetail) Summary() SearchResultItem {
	return SearchResultItem{
		ID:       c.ID,
		Name:     c.Name,
		Set:      c.Set,
		Number:   c.Number,
		Edition:  c.Edition,
		Language: c.Language,
		Image:    c.Image,
	}
}
