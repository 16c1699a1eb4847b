package models

import "time"

func seedTime(s string) time.Time {
	t, err := time.Parse(time.DateTime, s)
	if err != nil {
		panic(err)
	}
	return t
}

// SeedCollection returns the example entries every fresh store starts with
func SeedCollection() *Collection {
	return &Collection{
		Words: []Entry{
			{
				ID:                  1,
				KabyeWord:           "aalayu",
				Phonetic:            "[âlâyú]",
				FrenchTranslation:   "qui sera le premier",
				GrammaticalCategory: "nom",
				UsageExample:        "Aalayu tem qui sera le premier à finir",
				VerifiedBy:          "Admin",
				AddedAt:             seedTime("2024-01-15 10:00:00"),
			},
			{
				ID:                  2,
				KabyeWord:           "abaa",
				Phonetic:            "[ábaa]",
				FrenchTranslation:   "exprime la pitié, l'innocence, l'agacement",
				GrammaticalCategory: "interjection",
				UsageExample:        "Pakpa-u hayu abaa yem",
				VerifiedBy:          "Admin",
				AddedAt:             seedTime("2024-01-15 10:05:00"),
			},
			{
				ID:                  3,
				KabyeWord:           "ɛ",
				Phonetic:            "[ɛ̀]",
				FrenchTranslation:   "il, elle (pronom sujet)",
				GrammaticalCategory: "pronom",
				UsageExample:        "Ɛ wɛ təyʊ",
				VerifiedBy:          "Admin",
				AddedAt:             seedTime("2024-01-15 10:10:00"),
			},
		},
		NextID: 4,
	}
}
