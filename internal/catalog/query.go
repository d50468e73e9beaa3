package catalog

import (
	"fmt"
	"math"
	"strings"
)

// Relative query weights. They are normalized by their sum before quota
// computation, so they do not need to add up to 1.
const (
	weightGenre        = 0.4
	weightKeywordGenre = 0.3
	weightKeyword      = 0.2
	weightEnergy       = 0.1
)

const (
	maxQueryKeywords   = 3
	maxEnergyTermsUsed = 2
)

// energyTerms maps an energy level to search terms, strongest first.
var energyTerms = map[string][]string{
	"low":    {"chill", "ambient", "calm", "peaceful"},
	"medium": {"groovy", "steady", "flowing"},
	"high":   {"energetic", "powerful", "intense", "upbeat"},
}

// SearchQuery is one weighted catalog lookup within a batch.
type SearchQuery struct {
	Text   string
	Weight float64
}

// BuildQueries generates the weighted query batch for a mood search:
// one genre query per genre, keyword and keyword+genre queries for the
// first three keywords, and energy-term queries when the level is known.
func BuildQueries(genres, keywords []string, energyLevel string) []SearchQuery {
	var queries []SearchQuery

	for _, g := range genres {
		queries = append(queries, SearchQuery{
			Text:   "genre:" + g,
			Weight: weightGenre,
		})
	}

	primaryGenre := ""
	if len(genres) > 0 {
		primaryGenre = genres[0]
	}

	if len(keywords) > maxQueryKeywords {
		keywords = keywords[:maxQueryKeywords]
	}
	for _, kw := range keywords {
		if primaryGenre != "" {
			queries = append(queries, SearchQuery{
				Text:   fmt.Sprintf("%s genre:%s", kw, primaryGenre),
				Weight: weightKeywordGenre,
			})
		}
		queries = append(queries, SearchQuery{
			Text:   kw,
			Weight: weightKeyword,
		})
	}

	if terms, ok := energyTerms[energyLevel]; ok {
		for _, term := range terms[:min(maxEnergyTermsUsed, len(terms))] {
			queries = append(queries, SearchQuery{
				Text:   strings.TrimSpace(term + " " + primaryGenre),
				Weight: weightEnergy,
			})
		}
	}

	return queries
}

// quotas distributes limit across queries proportionally to weight.
// Every query gets at least one slot, so low-weight queries still
// contribute; totals may exceed limit by rounding, which the dedup and
// final truncation absorb.
func quotas(queries []SearchQuery, limit int) []int {
	var total float64
	for _, q := range queries {
		total += q.Weight
	}

	out := make([]int, len(queries))
	for i, q := range queries {
		n := int(math.Round(q.Weight / total * float64(limit)))
		if n < 1 {
			n = 1
		}
		out[i] = n
	}
	return out
}
