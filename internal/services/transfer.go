package services

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/lehmann314159/kabyedict/internal/models"
	"github.com/lehmann314159/kabyedict/internal/repository"
)

// CSVHeader is the column layout written by ExportCSV
var CSVHeader = []string{"ID", "Kabyè Word", "Phonetic", "Translation", "Category", "Example", "Verified-by", "Date"}

// importColumns maps accepted header labels to entry fields
var importColumns = map[string]string{
	"kabyè word":           "kabye_word",
	"kabye word":           "kabye_word",
	"kabye_word":           "kabye_word",
	"phonetic":             "phonetic",
	"translation":          "french_translation",
	"french_translation":   "french_translation",
	"category":             "grammatical_category",
	"grammatical_category": "grammatical_category",
	"example":              "usage_example",
	"usage_example":        "usage_example",
	"verified-by":          "verified_by",
	"verified_by":          "verified_by",
}

// ErrInvalidCSV is returned when an import file has no usable header
var ErrInvalidCSV = errors.New("invalid_csv")

// ImportResult contains the results of a CSV import operation
type ImportResult struct {
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors,omitempty"`
}

// ImportCSV adds every row of r through AddWord
func (s *DictionaryService) ImportCSV(ctx context.Context, r io.Reader) (*ImportResult, error) {
	reader := csv.NewReader(r)

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read header: %v", ErrInvalidCSV, err)
	}

	colIndex := make(map[string]int)
	for i, col := range header {
		if field, ok := importColumns[strings.ToLower(strings.TrimSpace(col))]; ok {
			colIndex[field] = i
		}
	}

	for _, col := range []string{"kabye_word", "french_translation"} {
		if _, ok := colIndex[col]; !ok {
			return nil, fmt.Errorf("%w: missing required column %s", ErrInvalidCSV, col)
		}
	}

	field := func(record []string, name string) string {
		if idx, ok := colIndex[name]; ok && idx < len(record) {
			return record[idx]
		}
		return ""
	}

	result := &ImportResult{}

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// ParseError already carries its line
			result.Errors = append(result.Errors, err.Error())
			result.Skipped++
			continue
		}
		// Start line of the record; quoted fields can span several lines
		line, _ := reader.FieldPos(0)

		req := &models.CreateEntryRequest{
			KabyeWord:           field(record, "kabye_word"),
			Phonetic:            field(record, "phonetic"),
			FrenchTranslation:   field(record, "french_translation"),
			GrammaticalCategory: field(record, "grammatical_category"),
			UsageExample:        field(record, "usage_example"),
			VerifiedBy:          field(record, "verified_by"),
		}

		if _, err := s.AddWord(ctx, req); err != nil {
			if errors.Is(err, ErrStorageFailure) {
				return result, err
			}
			result.Errors = append(result.Errors, fmt.Sprintf("line %d: %v", line, err))
			result.Skipped++
			continue
		}

		result.Imported++
	}

	return result, nil
}

// ExportCSV writes every entry in id order
func (s *DictionaryService) ExportCSV(ctx context.Context, w io.Writer) error {
	coll, err := s.load(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch entries: %w", err)
	}

	writer := csv.NewWriter(w)

	if err := writer.Write(CSVHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for _, e := range coll.Words {
		record := []string{
			strconv.FormatInt(e.ID, 10),
			e.KabyeWord,
			e.Phonetic,
			e.FrenchTranslation,
			e.GrammaticalCategory,
			e.UsageExample,
			e.VerifiedBy,
			e.AddedAt.Format(time.DateTime),
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write record: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// ExportJSON writes the full collection in its persisted layout
func (s *DictionaryService) ExportJSON(ctx context.Context, w io.Writer) error {
	coll, err := s.load(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch entries: %w", err)
	}

	data, err := repository.EncodeCollection(coll)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}
