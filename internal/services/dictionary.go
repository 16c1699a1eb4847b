package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/lehmann314159/kabyedict/internal/models"
	"github.com/lehmann314159/kabyedict/internal/repository"
)

var (
	// ErrMissingRequiredField is returned when the Kabyè word or the translation is empty
	ErrMissingRequiredField = errors.New("missing_required_field")

	// ErrDuplicateWord is returned when the Kabyè word is already in the dictionary
	ErrDuplicateWord = errors.New("duplicate_word")

	// ErrStorageFailure is returned when the collection cannot be loaded or saved
	ErrStorageFailure = errors.New("storage_failure")
)

// DictionaryService provides business logic for dictionary entries
type DictionaryService struct {
	store repository.EntryStore
	now   func() time.Time

	// mu serializes the load-check-save sequence of AddWord
	mu sync.Mutex
}

// NewDictionaryService creates a new dictionary service
func NewDictionaryService(store repository.EntryStore) *DictionaryService {
	return &DictionaryService{
		store: store,
		now:   time.Now,
	}
}

// AddWord validates req and appends it to the dictionary under the next id
func (s *DictionaryService) AddWord(ctx context.Context, req *models.CreateEntryRequest) (*models.Entry, error) {
	entry, err := ValidateEntry(req)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	coll, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}

	for _, existing := range coll.Words {
		if strings.EqualFold(existing.KabyeWord, entry.KabyeWord) {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateWord, entry.KabyeWord)
		}
	}

	// Never hand out an id at or below one already in use
	if max := coll.MaxID(); coll.NextID <= max {
		coll.NextID = max + 1
	}

	entry.ID = coll.NextID
	entry.AddedAt = s.now().UTC().Truncate(time.Second)
	coll.Words = append(coll.Words, *entry)
	coll.NextID++

	if err := s.store.Save(ctx, coll); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}

	return entry, nil
}

// ListWords returns every entry ordered by Kabyè word
func (s *DictionaryService) ListWords(ctx context.Context) ([]models.Entry, error) {
	coll, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return SortByWord(coll.Words), nil
}

// SearchWords returns the entries matching term, in listing order
func (s *DictionaryService) SearchWords(ctx context.Context, term string) ([]models.Entry, error) {
	if strings.TrimSpace(term) == "" {
		return []models.Entry{}, nil
	}

	coll, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return SortByWord(FilterByTerm(coll.Words, term)), nil
}

// Statistics returns the entry counts by category and contributor
func (s *DictionaryService) Statistics(ctx context.Context) (*models.Statistics, error) {
	coll, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return ComputeStatistics(coll.Words), nil
}

// Count returns the number of entries
func (s *DictionaryService) Count(ctx context.Context) (int, error) {
	coll, err := s.load(ctx)
	if err != nil {
		return 0, err
	}
	return len(coll.Words), nil
}

// Collection returns the full collection in insertion order
func (s *DictionaryService) Collection(ctx context.Context) (*models.Collection, error) {
	return s.load(ctx)
}

func (s *DictionaryService) load(ctx context.Context) (*models.Collection, error) {
	coll, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}
	return coll, nil
}
