package commands

import (
	"context"
	"testing"

	"meshbridge/internal/domain"
)

func TestFuzzyScore(t *testing.T) {
	tests := []struct {
		name      string
		target    string
		query     string
		wantScore int
		wantMin   int // use this for relative comparisons
	}{
		{
			name:      "exact match",
			target:    "metal_rough",
			query:     "metal_rough",
			wantScore: 150, // 100 for contains + 50 for prefix
		},
		{
			name:      "prefix match",
			target:    "metal_rough",
			query:     "metal",
			wantScore: 150,
		},
		{
			name:      "substring match",
			target:    "brushed_metal",
			query:     "metal",
			wantScore: 100,
		},
		{
			name:    "fuzzy after separators",
			target:  "metal_rough_dark",
			query:   "mrd",
			wantMin: 30,
		},
		{
			name:      "no match",
			target:    "wood",
			query:     "xyz",
			wantScore: 0,
		},
		{
			name:      "empty query",
			target:    "wood",
			query:     "",
			wantScore: 0,
		},
		{
			name:    "case insensitive",
			target:  "WOOD_Oak",
			query:   "wood_oak",
			wantMin: 100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score := FuzzyScore(tt.target, tt.query)
			if tt.wantMin > 0 {
				if score < tt.wantMin {
					t.Errorf("FuzzyScore(%q, %q) = %d, want >= %d", tt.target, tt.query, score, tt.wantMin)
				}
				return
			}
			if score != tt.wantScore {
				t.Errorf("FuzzyScore(%q, %q) = %d, want %d", tt.target, tt.query, score, tt.wantScore)
			}
		})
	}
}

func TestFuzzySort(t *testing.T) {
	entries := []domain.CatalogEntry{
		{Name: "brushed_metal", GUID: "111"},
		{Name: "metal_rough", GUID: "222"},
		{Name: "wood", GUID: "333"},
	}

	results := FuzzySort(entries, "metal")
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Name != "metal_rough" {
		t.Errorf("prefix match should rank first, got %s", results[0].Name)
	}
}

func TestFuzzySort_MatchesGUID(t *testing.T) {
	entries := []domain.CatalogEntry{
		{Name: "wood", GUID: "9f8e7d"},
	}
	if results := FuzzySort(entries, "9f8e"); len(results) != 1 {
		t.Errorf("expected GUID match, got %d results", len(results))
	}
}

func TestSearchCommand_Execute(t *testing.T) {
	catalog := &fakeCatalog{entries: []domain.CatalogEntry{
		{Name: "metal_rough", GUID: "222"},
		{Name: "wood", GUID: "333"},
	}}

	results, err := NewSearchCommand(catalog, "m").Execute(context.Background())
	if err != nil || results != nil {
		t.Errorf("short query should return nothing, got %v, %v", results, err)
	}

	results, err = NewSearchCommand(catalog, "mtl").Execute(context.Background())
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if len(results) != 1 || results[0].Name != "metal_rough" {
		t.Errorf("unexpected results %+v", results)
	}
}
