package services

import (
	"strings"

	"github.com/codyseavey/card-proxy/internal/models"
)

func demoPrice(v float64) *float64 { return &v }

func demoTime(iso string) *string { return &iso }

// DemoCatalog returns the fixed catalog served when no provider is
// configured. Each call returns a fresh copy.
func DemoCatalog(currency string) []models.CardDetail {
	if currency == "" {
		currency = models.CurrencyUSD
	}
	return []models.CardDetail{
		{
			ID:       "base1-4",
			Name:     "Charizard",
			Set:      "Base Set",
			Number:   "4/102",
			Edition:  "Unlimited",
			Language: "EN",
			Image:    "https://images.pokemontcg.io/base1/4_hires.png",
			Prices: models.CardPrices{
				Currency: currency, Low: demoPrice(310), Mid: demoPrice(385), High: demoPrice(520),
				History: []float64{340, 355, 372, 385},
			},
			Sources: []models.PriceSource{
				{ID: "base1-4-nm", Condition: "Near Mint", Printing: "Holofoil", Price: 385.0, LastUpdated: demoTime("2024-05-01T12:00:00.000Z")},
				{ID: "base1-4-lp", Condition: "Lightly Played", Printing: "Holofoil", Price: 310.0, LastUpdated: demoTime("2024-05-01T12:00:00.000Z")},
			},
		},
		{
			ID:       "base1-58",
			Name:     "Pikachu",
			Set:      "Base Set",
			Number:   "58/102",
			Edition:  "1st Edition",
			Language: "EN",
			Image:    "https://images.pokemontcg.io/base1/58_hires.png",
			Prices: models.CardPrices{
				Currency: currency, Low: demoPrice(45), Mid: demoPrice(62.5), High: demoPrice(90),
				History: []float64{55, 58, 62.5},
			},
			Sources: []models.PriceSource{
				{ID: "base1-58-nm", Condition: "Near Mint", Printing: "1st Edition", Price: 62.5, LastUpdated: demoTime("2024-05-02T08:30:00.000Z")},
			},
		},
		{
			ID:       "swsh4-44",
			Name:     "Pikachu VMAX",
			Set:      "Vivid Voltage",
			Number:   "44/185",
			Edition:  "",
			Language: "EN",
			Image:    "https://images.pokemontcg.io/swsh4/44_hires.png",
			Prices: models.CardPrices{
				Currency: currency, Low: demoPrice(4.1), Mid: demoPrice(5.25), High: demoPrice(8),
				History: []float64{},
			},
			Sources: []models.PriceSource{
				{ID: "swsh4-44-nm", Condition: "Near Mint", Printing: "Holofoil", Price: 5.25, LastUpdated: demoTime("2024-04-28T19:45:00.000Z")},
			},
		},
		{
			ID:       "lea-161",
			Name:     "Lightning Bolt",
			Set:      "Limited Edition Alpha",
			Number:   "161",
			Edition:  "Alpha",
			Language: "EN",
			Image:    "https://cards.scryfall.io/large/front/lea/161.jpg",
			Prices: models.CardPrices{
				Currency: currency, Low: demoPrice(410), Mid: demoPrice(475), High: demoPrice(640),
				History: []float64{450, 462, 475},
			},
			Sources: []models.PriceSource{
				{ID: "lea-161-nm", Condition: "Near Mint", Printing: "Normal", Price: 475.0, LastUpdated: demoTime("2024-05-03T10:15:00.000Z")},
			},
		},
		{
			ID:       "sv3pt5-25-ja",
			Name:     "Pikachu",
			Set:      "Pokemon Card 151",
			Number:   "025/165",
			Edition:  "",
			Language: "JA",
			Image:    "https://images.pokemontcg.io/sv3pt5/25_hires.png",
			Prices: models.CardPrices{
				Currency: currency, Low: demoPrice(1.2), Mid: demoPrice(1.8), High: demoPrice(3),
				History: []float64{},
			},
			Sources: []models.PriceSource{},
		},
		{
			ID:       "lob-001",
			Name:     "Blue-Eyes White Dragon",
			Set:      "Legend of Blue Eyes White Dragon",
			Number:   "LOB-001",
			Edition:  "1st Edition",
			Language: "EN",
			Image:    "https://images.ygoprodeck.com/images/cards/89631139.jpg",
			Prices:   models.NewCardPrices(currency, nil),
			Sources:  []models.PriceSource{},
		},
	}
}

// filterDemo matches query case-insensitively against name, set and number.
func filterDemo(catalog []models.CardDetail, query string) []models.SearchResultItem {
	needle := strings.ToLower(query)
	hits := []models.SearchResultItem{}
	for _, card := range catalog {
		haystack := strings.ToLower(card.Name + " " + card.Set + " " + card.Number)
		if strings.Contains(haystack, needle) {
			hits = append(hits, card.Summary())
		}
	}
	return hits
}

// findDemo looks a card up by id, falling back to the first catalog entry so
// demo mode always has something to show.
func findDemo(catalog []models.CardDetail, id string) models.CardDetail {
	for _, card := range catalog {
		if card.ID == id {
			return card
		}
	}
	return catalog[0]
}
