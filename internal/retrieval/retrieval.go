// Package retrieval ranks free-text study notes against a query for
// prompt augmentation. Scoring is additive term overlap, deterministic
// and dependency-free by design, not a semantic search.
package retrieval

import (
	"sort"
	"strings"

	"studyvault/internal/model"
)

// Score weights. The full query matching the title outweighs any single
// token; tags sit between title and body.
const (
	weightTitleExact = 10
	weightTitleToken = 5
	weightTag        = 4
	weightBodyToken  = 3
	weightSecondary  = 1
)

// importanceWeight is the final multiplier applied to concept scores.
func importanceWeight(imp model.Importance) float64 {
	switch imp {
	case model.ImportanceCritical:
		return 1.5
	case model.ImportanceHigh:
		return 1.2
	default:
		return 1.0
	}
}

// Concepts returns the top-k concepts ranked by relevance to query.
// Zero-scoring concepts are excluded; ties break most-recently-updated
// first, then by ID so the order is total.
func Concepts(items []model.KnowledgeConcept, query string, k int) []model.KnowledgeConcept {
	q, tokens := tokenize(query)
	if q == "" {
		return nil
	}

	type scored struct {
		item  model.KnowledgeConcept
		score float64
	}
	var results []scored
	for _, c := range items {
		secondary := c.Details
		if len(c.Examples) > 0 {
			secondary += " " + strings.Join(c.Examples, " ")
		}
		s := score(q, tokens, c.Title, c.Definition, secondary, c.Tags)
		s *= importanceWeight(c.Importance)
		if s > 0 {
			results = append(results, scored{item: c, score: s})
		}
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].score != results[j].score {
			return results[i].score > results[j].score
		}
		if !results[i].item.UpdatedAt.Equal(results[j].item.UpdatedAt) {
			return results[i].item.UpdatedAt.After(results[j].item.UpdatedAt)
		}
		return results[i].item.ID < results[j].item.ID
	})

	out := make([]model.KnowledgeConcept, 0, min(k, len(results)))
	for i := 0; i < len(results) && i < k; i++ {
		out = append(out, results[i].item)
	}
	return out
}

// Formulas returns the top-k formulas ranked by relevance to query.
// Formulas carry no importance field, so scores are unweighted.
func Formulas(items []model.Formula, query string, k int) []model.Formula {
	q, tokens := tokenize(query)
	if q == "" {
		return nil
	}

	type scored struct {
		item  model.Formula
		score float64
	}
	var results []scored
	for _, f := range items {
		s := score(q, tokens, f.Name, f.LaTeX, f.Category, f.Tags)
		if s > 0 {
			results = append(results, scored{item: f, score: s})
		}
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].score != results[j].score {
			return results[i].score > results[j].score
		}
		if !results[i].item.UpdatedAt.Equal(results[j].item.UpdatedAt) {
			return results[i].item.UpdatedAt.After(results[j].item.UpdatedAt)
		}
		return results[i].item.ID < results[j].item.ID
	})

	out := make([]model.Formula, 0, min(k, len(results)))
	for i := 0; i < len(results) && i < k; i++ {
		out = append(out, results[i].item)
	}
	return out
}

// tokenize lower-cases and whitespace-splits the query, discarding
// tokens of length <= 1. The trimmed lower-cased query is returned for
// exact-substring checks.
func tokenize(query string) (string, []string) {
	q := strings.ToLower(strings.TrimSpace(query))
	var tokens []string
	for _, t := range strings.Fields(q) {
		if len(t) > 1 {
			tokens = append(tokens, t)
		}
	}
	return q, tokens
}

// score computes the additive term-overlap score of one record.
func score(query string, tokens []string, title, body, secondary string, tags []string) float64 {
	title = strings.ToLower(title)
	body = strings.ToLower(body)
	secondary = strings.ToLower(secondary)

	var s float64
	if title != "" && strings.Contains(title, query) {
		s += weightTitleExact
	}
	for _, t := range tokens {
		if strings.Contains(title, t) {
			s += weightTitleToken
		}
		if strings.Contains(body, t) {
			s += weightBodyToken
		}
		if strings.Contains(secondary, t) {
			s += weightSecondary
		}
		for _, tag := range tags {
			if strings.Contains(strings.ToLower(tag), t) {
				s += weightTag
				break
			}
		}
	}
	return s
}
