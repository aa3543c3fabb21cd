package commands

import (
	"context"
	"sort"
	"strings"

	"meshbridge/internal/domain"
	"meshbridge/internal/ports"
)

// SearchResult wraps domain.CatalogEntry with a relevance score
type SearchResult struct {
	domain.CatalogEntry
	Score int
}

// SearchCommand searches the material catalog with fuzzy matching
type SearchCommand struct {
	catalog ports.MaterialCatalog
	Query   string
}

// NewSearchCommand creates a new SearchCommand
func NewSearchCommand(catalog ports.MaterialCatalog, query string) *SearchCommand {
	return &SearchCommand{
		catalog: catalog,
		Query:   query,
	}
}

// Execute runs the search command and returns scored, sorted results
func (c *SearchCommand) Execute(ctx context.Context) ([]SearchResult, error) {
	if len(c.Query) < 2 {
		return nil, nil
	}

	// Fuzzy matches are not substrings, so rank the whole catalog
	entries, err := c.catalog.Search("")
	if err != nil {
		return nil, err
	}

	return FuzzySort(entries, c.Query), nil
}

// FuzzyScore calculates a relevance score for how well target matches query
func FuzzyScore(target, query string) int {
	target = strings.ToLower(target)
	query = strings.ToLower(query)

	if len(query) == 0 {
		return 0
	}

	// Check for exact substring match first (highest priority)
	if strings.Contains(target, query) {
		score := 100
		if strings.HasPrefix(target, query) {
			score += 50
		}
		return score
	}

	// Fuzzy match: check if chars appear in order
	score := 0
	queryIdx := 0
	prevMatchIdx := -1

	for i := 0; i < len(target) && queryIdx < len(query); i++ {
		if target[i] == query[queryIdx] {
			if prevMatchIdx == i-1 {
				score += 10 // consecutive chars
			}
			if i == 0 {
				score += 15 // start of string
			}
			if i > 0 && isSeparator(target[i-1]) {
				score += 10 // after separator
			}
			score += 1
			prevMatchIdx = i
			queryIdx++
		}
	}

	if queryIdx == len(query) {
		return score
	}
	return 0
}

func isSeparator(b byte) bool {
	switch b {
	case ' ', '.', '-', '_', '/':
		return true
	}
	return false
}

// FuzzySort ranks catalog entries by relevance to the query.
// Ties keep name order.
func FuzzySort(entries []domain.CatalogEntry, query string) []SearchResult {
	scored := make([]SearchResult, 0, len(entries))

	for _, e := range entries {
		best := max(FuzzyScore(e.Name, query), FuzzyScore(e.GUID, query), FuzzyScore(e.SourcePath, query))
		if best > 0 {
			scored = append(scored, SearchResult{
				CatalogEntry: e,
				Score:        best,
			})
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	return scored
}
