package services

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/codyseavey/card-proxy/internal/cache"
	"github.com/codyseavey/card-proxy/internal/logging"
	"github.com/codyseavey/card-proxy/internal/metrics"
	"github.com/codyseavey/card-proxy/internal/models"
)

const (
	searchKeyPrefix = "s:"
	cardKeyPrefix   = "c:"

	// MaxSearchResults caps provider search responses.
	MaxSearchResults = 50

	// CardIDPlaceholder is replaced with the escaped card id in the card URL.
	CardIDPlaceholder = "{id}"
)

// resultFields are the wrapper keys providers use around search result arrays.
var resultFields = []string{"data", "results", "items"}

// CardService answers search and card queries from the cache, the provider
// or, when no provider URL is configured, the demo catalog.
type CardService struct {
	cache      *cache.Cache
	provider   Fetcher
	normalizer *Normalizer
	searchURL  string
	cardURL    string
	demo       []models.CardDetail

	// Collapses concurrent misses on the same key into one provider call.
	inflight singleflight.Group
	logger   zerolog.Logger
}

// NewCardService wires a query service. An empty searchURL or cardURL puts
// that query kind in demo mode; provider may be nil only if both are empty.
func NewCardService(c *cache.Cache, provider Fetcher, normalizer *Normalizer, searchURL, cardURL string) *CardService {
	return &CardService{
		cache:      c,
		provider:   provider,
		normalizer: normalizer,
		searchURL:  searchURL,
		cardURL:    cardURL,
		demo:       DemoCatalog(normalizer.Currency()),
		logger:     logging.NewLogger("cards"),
	}
}

// Search returns cards matching query. It never fails: provider errors are
// logged and produce an empty result, which is not cached.
func (s *CardService) Search(ctx context.Context, query string) []models.SearchResultItem {
	query = strings.TrimSpace(query)
	if query == "" {
		metrics.QueriesTotal.WithLabelValues("search", "empty").Inc()
		return []models.SearchResultItem{}
	}

	key := searchKeyPrefix + query
	var cached []models.SearchResultItem
	if s.cache.Get(ctx, key, &cached) {
		metrics.QueriesTotal.WithLabelValues("search", "cache").Inc()
		return cached
	}

	if s.searchURL == "" {
		hits := filterDemo(s.demo, query)
		s.cache.Set(ctx, key, hits)
		metrics.QueriesTotal.WithLabelValues("search", "demo").Inc()
		metrics.SearchResultCount.Observe(float64(len(hits)))
		return hits
	}

	v, err, _ := s.inflight.Do(key, func() (any, error) {
		// One caller disconnecting must not fail the others sharing this fetch;
		// the provider client's timeout still bounds it.
		fetchCtx := context.WithoutCancel(ctx)
		results, err := s.searchProvider(fetchCtx, query)
		if err != nil {
			return nil, err
		}
		s.cache.Set(fetchCtx, key, results)
		return results, nil
	})
	if err != nil {
		metrics.QueriesTotal.WithLabelValues("search", "failed").Inc()
		s.logger.Error().Err(err).Str("query", query).Msg("provider search failed")
		return []models.SearchResultItem{}
	}

	results := v.([]models.SearchResultItem)
	metrics.QueriesTotal.WithLabelValues("search", "provider").Inc()
	metrics.SearchResultCount.Observe(float64(len(results)))
	return results
}

// GetCard returns the detail record for id. In demo mode it never fails and
// unknown ids fall back to the first demo card.
func (s *CardService) GetCard(ctx context.Context, id string) (*models.CardDetail, error) {
	key := cardKeyPrefix + id
	var cached models.CardDetail
	if s.cache.Get(ctx, key, &cached) {
		metrics.QueriesTotal.WithLabelValues("card", "cache").Inc()
		return &cached, nil
	}

	if s.cardURL == "" {
		card := findDemo(s.demo, id)
		s.cache.Set(ctx, key, card)
		metrics.QueriesTotal.WithLabelValues("card", "demo").Inc()
		return &card, nil
	}

	v, err, _ := s.inflight.Do(key, func() (any, error) {
		fetchCtx := context.WithoutCancel(ctx)
		card, err := s.fetchCard(fetchCtx, id)
		if err != nil {
			return nil, err
		}
		s.cache.Set(fetchCtx, key, card)
		return card, nil
	})
	if err != nil {
		metrics.QueriesTotal.WithLabelValues("card", "failed").Inc()
		s.logger.Error().Err(err).Str("card_id", id).Msg("provider card lookup failed")
		return nil, err
	}

	card := v.(models.CardDetail)
	metrics.QueriesTotal.WithLabelValues("card", "provider").Inc()
	return &card, nil
}

func (s *CardService) searchProvider(ctx context.Context, query string) ([]models.SearchResultItem, error) {
	reqURL, err := buildSearchURL(s.searchURL, query)
	if err != nil {
		return nil, err
	}

	body, err := s.provider.Fetch(ctx, reqURL)
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", query, err)
	}

	raw := extractResults(body)
	if len(raw) > MaxSearchResults {
		raw = raw[:MaxSearchResults]
	}

	results := make([]models.SearchResultItem, 0, len(raw))
	for _, item := range raw {
		results = append(results, MapSearchItem(item))
	}
	return results, nil
}

func (s *CardService) fetchCard(ctx context.Context, id string) (models.CardDetail, error) {
	reqURL := buildCardURL(s.cardURL, id)

	body, err := s.provider.Fetch(ctx, reqURL)
	if err != nil {
		return models.CardDetail{}, fmt.Errorf("card %q: %w", id, err)
	}
	return s.normalizer.MapCardDetail(body), nil
}

// buildSearchURL sets the q parameter on base, keeping any parameters the
// base URL already carries.
func buildSearchURL(base, query string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("invalid search url: %w", err)
	}
	params := u.Query()
	params.Set("q", query)
	u.RawQuery = params.Encode()
	return u.String(), nil
}

// buildCardURL substitutes the id escaped as a URI component, so it stays a
// single value whether the placeholder sits in the path or the query.
func buildCardURL(template, id string) string {
	return strings.Replace(template, CardIDPlaceholder, escapeComponent(id), 1)
}

func escapeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// extractResults accepts a bare array or an object wrapping the array under
// one of resultFields. Anything else yields no results.
func extractResults(body any) []any {
	switch v := body.(type) {
	case []any:
		return v
	case map[string]any:
		for _, field := range resultFields {
			if list, ok := v[field].([]any); ok {
				return list
			}
		}
	}
	return nil
}
