package journal

import (
	"context"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/chris-regnier/dreamctl/internal/dream"
	"github.com/chris-regnier/dreamctl/internal/storage"
)

// SearchResult is a dream ranked against a query.
type SearchResult struct {
	Entry dream.Entry `json:"entry"`
	Score int         `json:"score"`
}

// searchSource exposes entries to the fuzzy matcher.
type searchSource []dream.Entry

func (s searchSource) String(i int) string {
	e := s[i]
	return e.Title + " " + string(e.Mood) + " " + strings.Join(strings.Fields(e.DreamText), " ")
}

func (s searchSource) Len() int { return len(s) }

// Search ranks the user's dreams by how well their title, mood and text match
// query. Exact substring hits always rank above fuzzy-only hits. An empty
// query returns the newest dreams. limit <= 0 means no limit.
func (s *Service) Search(ctx context.Context, userID, query string, limit int) ([]SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		entries, err := s.List(ctx, userID, storage.ListOptions{Limit: limit})
		if err != nil {
			return nil, err
		}
		out := make([]SearchResult, 0, len(entries))
		for _, e := range entries {
			out = append(out, SearchResult{Entry: e})
		}
		return out, nil
	}

	entries, err := s.List(ctx, userID, storage.ListOptions{})
	if err != nil {
		return nil, err
	}

	var exact, loose []SearchResult
	for _, m := range fuzzy.FindFrom(query, searchSource(entries)) {
		r := SearchResult{Entry: entries[m.Index], Score: m.Score}
		if r.Entry.Matches(query) {
			exact = append(exact, r)
		} else {
			loose = append(loose, r)
		}
	}
	out := append(exact, loose...)
	if out == nil {
		out = []SearchResult{}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
