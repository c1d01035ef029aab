package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"golang.org/x/sync/singleflight"

	"storefront/app/models/other"
	"storefront/app/repositories"
)

const searchSuggestionsQuery = `
query SearchSuggestions($query: String!) {
  searchSuggestions(query: $query) {
    display
    slug
    type
  }
}`

const (
	minSuggestionQueryLen = 2
	maxRecentSearches     = 5
)

// SearchService fetches search suggestions from the platform. Identical
// queries hitting the server at once share a single in-flight request, and
// each session's recent searches are persisted through the KV store.
type SearchService struct {
	gateway Gateway
	kv      repositories.KVRepository
	group   singleflight.Group
}

func NewSearchService(gateway Gateway, kv repositories.KVRepository) *SearchService {
	return &SearchService{gateway: gateway, kv: kv}
}

func (s *SearchService) Suggestions(ctx context.Context, sessionID, query string) ([]other.SearchSuggestion, error) {
	query = strings.TrimSpace(query)
	if len(query) < minSuggestionQueryLen {
		return nil, nil
	}

	v, err, _ := s.group.Do(strings.ToLower(query), func() (any, error) {
		data, err := s.gateway.Execute(ctx, searchSuggestionsQuery, map[string]any{"query": query})
		if err != nil {
			return nil, fmt.Errorf("failed to fetch suggestions for %q: %w", query, err)
		}
		var decoded other.SearchSuggestionsData
		if err := json.Unmarshal(data, &decoded); err != nil {
			return nil, fetchErr(ErrKindTransport, "failed to decode suggestions response: %w", err)
		}
		return decoded.Suggestions, nil
	})
	if err != nil {
		return nil, err
	}

	if sessionID != "" {
		if recErr := s.recordRecent(ctx, sessionID, query); recErr != nil {
			log.Printf("SearchService: failed to record recent search %q: %v", query, recErr)
		}
	}

	return v.([]other.SearchSuggestion), nil
}

// RecentSearches returns the session's last queries, newest first.
func (s *SearchService) RecentSearches(ctx context.Context, sessionID string) ([]string, error) {
	raw, err := s.kv.Get(ctx, recentSearchesKey(sessionID))
	if errors.Is(err, repositories.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var recent []string
	if err := json.Unmarshal([]byte(raw), &recent); err != nil {
		return nil, fmt.Errorf("failed to decode recent searches: %w", err)
	}
	return recent, nil
}

func (s *SearchService) ClearRecentSearches(ctx context.Context, sessionID string) error {
	return s.kv.Remove(ctx, recentSearchesKey(sessionID))
}

func (s *SearchService) recordRecent(ctx context.Context, sessionID, query string) error {
	recent, err := s.RecentSearches(ctx, sessionID)
	if err != nil {
		return err
	}

	deduped := []string{query}
	for _, q := range recent {
		if !strings.EqualFold(q, query) {
			deduped = append(deduped, q)
		}
		if len(deduped) == maxRecentSearches {
			break
		}
	}

	encoded, err := json.Marshal(deduped)
	if err != nil {
		return fmt.Errorf("failed to encode recent searches: %w", err)
	}
	return s.kv.Set(ctx, recentSearchesKey(sessionID), string(encoded))
}

func recentSearchesKey(sessionID string) string {
	return "recent_searches:" + sessionID
}
