package services

import (
	"slices"
	"strings"

	"github.com/samber/lo"

	"github.com/lehmann314159/kabyedict/internal/models"
)

// SortByWord returns a copy of entries ordered by Kabyè word, comparing raw
// code points; entries with equal words keep their relative order.
func SortByWord(entries []models.Entry) []models.Entry {
	sorted := slices.Clone(entries)
	if sorted == nil {
		sorted = []models.Entry{}
	}
	slices.SortStableFunc(sorted, func(a, b models.Entry) int {
		return strings.Compare(a.KabyeWord, b.KabyeWord)
	})
	return sorted
}

// FilterByTerm keeps the entries whose Kabyè word or French translation
// contains term, ignoring case. An empty term matches nothing.
func FilterByTerm(entries []models.Entry, term string) []models.Entry {
	needle := strings.ToLower(strings.TrimSpace(term))
	if needle == "" {
		return []models.Entry{}
	}

	return lo.Filter(entries, func(e models.Entry, _ int) bool {
		return strings.Contains(strings.ToLower(e.KabyeWord), needle) ||
			strings.Contains(strings.ToLower(e.FrenchTranslation), needle)
	})
}

// ComputeStatistics counts entries per category and per contributor
func ComputeStatistics(entries []models.Entry) *models.Statistics {
	return &models.Statistics{
		Total: len(entries),
		ByCategory: lo.CountValuesBy(entries, func(e models.Entry) string {
			if e.GrammaticalCategory == "" {
				return models.UnspecifiedCategory
			}
			return e.GrammaticalCategory
		}),
		ByContributor: lo.CountValuesBy(entries, func(e models.Entry) string {
			return e.VerifiedBy
		}),
	}
}
