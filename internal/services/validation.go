package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/lehmann314159/kabyedict/internal/models"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidateEntry trims every field of req and checks the required ones.
// The returned entry has neither an ID nor a timestamp yet.
func ValidateEntry(req *models.CreateEntryRequest) (*models.Entry, error) {
	trimmed := models.CreateEntryRequest{
		KabyeWord:           strings.TrimSpace(req.KabyeWord),
		Phonetic:            strings.TrimSpace(req.Phonetic),
		FrenchTranslation:   strings.TrimSpace(req.FrenchTranslation),
		GrammaticalCategory: strings.TrimSpace(req.GrammaticalCategory),
		UsageExample:        strings.TrimSpace(req.UsageExample),
		VerifiedBy:          strings.TrimSpace(req.VerifiedBy),
	}

	if err := validate.Struct(&trimmed); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fe.Field())
			}
			return nil, fmt.Errorf("%w: %s", ErrMissingRequiredField, strings.Join(fields, ", "))
		}
		return nil, fmt.Errorf("failed to validate entry: %w", err)
	}

	if trimmed.VerifiedBy == "" {
		trimmed.VerifiedBy = models.DefaultContributor
	}

	return &models.Entry{
		KabyeWord:           trimmed.KabyeWord,
		Phonetic:            trimmed.Phonetic,
		FrenchTranslation:   trimmed.FrenchTranslation,
		GrammaticalCategory: trimmed.GrammaticalCategory,
		UsageExample:        trimmed.UsageExample,
		VerifiedBy:          trimmed.VerifiedBy,
	}, nil
}
