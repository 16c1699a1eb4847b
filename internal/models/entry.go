package models

import (
	"time"
)

// DefaultContributor is recorded when a submission names no verifier
const DefaultContributor = "Anonymous"

// UnspecifiedCategory labels entries without a grammatical category in statistics
const UnspecifiedCategory = "Unspecified"

// Entry represents one Kabyè word with its French translation
type Entry struct {
	ID                  int64     `json:"id"`
	KabyeWord           string    `json:"kabye_word"`
	Phonetic            string    `json:"phonetic"`
	FrenchTranslation   string    `json:"french_translation"`
	GrammaticalCategory string    `json:"grammatical_category"`
	UsageExample        string    `json:"usage_example"`
	VerifiedBy          string    `json:"verified_by"`
	AddedAt             time.Time `json:"added_at"`
}

// Collection is the whole dictionary as loaded from or written to a store
type Collection struct {
	Words  []Entry `json:"words"`
	NextID int64   `json:"next_id"`
}

// Clone returns a deep copy of the collection
func (c *Collection) Clone() *Collection {
	words := make([]Entry, len(c.Words))
	copy(words, c.Words)
	return &Collection{Words: words, NextID: c.NextID}
}

// MaxID returns the highest id present, or 0 for an empty collection
func (c *Collection) MaxID() int64 {
	var max int64
	for _, e := range c.Words {
		if e.ID > max {
			max = e.ID
		}
	}
	return max
}

// CreateEntryRequest represents the raw fields posted by the submission form
type CreateEntryRequest struct {
	KabyeWord           string `json:"kabye_word" validate:"required"`
	Phonetic            string `json:"phonetic,omitempty"`
	FrenchTranslation   string `json:"french_translation" validate:"required"`
	GrammaticalCategory string `json:"grammatical_category,omitempty"`
	UsageExample        string `json:"usage_example,omitempty"`
	VerifiedBy          string `json:"verified_by,omitempty"`
}

// Statistics summarizes the collection for the statistics view
type Statistics struct {
	Total         int            `json:"total"`
	ByCategory    map[string]int `json:"by_category"`
	ByContributor map[string]int `json:"by_contributor"`
}
