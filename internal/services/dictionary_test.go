package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lehmann314159/kabyedict/internal/models"
	"github.com/lehmann314159/kabyedict/internal/repository"
)

// stubStore wraps a memory store and injects failures
type stubStore struct {
	*repository.MemoryStore
	loadErr error
	saveErr error
	saves   int
}

func (s *stubStore) Load(ctx context.Context) (*models.Collection, error) {
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	return s.MemoryStore.Load(ctx)
}

func (s *stubStore) Save(ctx context.Context, coll *models.Collection) error {
	s.saves++
	if s.saveErr != nil {
		return s.saveErr
	}
	return s.MemoryStore.Save(ctx, coll)
}

func setupTestService(t *testing.T) (*DictionaryService, *stubStore) {
	t.Helper()
	store := &stubStore{MemoryStore: repository.NewMemoryStore()}
	svc := NewDictionaryService(store)
	svc.now = func() time.Time { return time.Date(2024, 6, 1, 12, 30, 45, 123, time.UTC) }
	return svc, store
}

func TestDictionaryService_AddWord(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		req     *models.CreateEntryRequest
		wantErr error
	}{
		{
			name: "valid word",
			req:  &models.CreateEntryRequest{KabyeWord: "kedu", FrenchTranslation: "comment"},
		},
		{
			name:    "missing kabye word",
			req:     &models.CreateEntryRequest{FrenchTranslation: "comment", VerifiedBy: "Admin"},
			wantErr: ErrMissingRequiredField,
		},
		{
			name:    "missing translation",
			req:     &models.CreateEntryRequest{KabyeWord: "kedu", GrammaticalCategory: "adverbe"},
			wantErr: ErrMissingRequiredField,
		},
		{
			name:    "duplicate in another case",
			req:     &models.CreateEntryRequest{KabyeWord: "AALAYU", FrenchTranslation: "x"},
			wantErr: ErrDuplicateWord,
		},
		{
			name:    "duplicate with surrounding spaces",
			req:     &models.CreateEntryRequest{KabyeWord: "  Abaa ", FrenchTranslation: "x"},
			wantErr: ErrDuplicateWord,
		},
		{
			name:    "duplicate non-ascii word",
			req:     &models.CreateEntryRequest{KabyeWord: "Ɛ", FrenchTranslation: "x"},
			wantErr: ErrDuplicateWord,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store := setupTestService(t)

			got, err := svc.AddWord(ctx, tt.req)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
				assert.Zero(t, store.saves, "a rejected word must not be saved")

				count, err := svc.Count(ctx)
				require.NoError(t, err)
				assert.Equal(t, 3, count)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, int64(4), got.ID)
			assert.Equal(t, "kedu", got.KabyeWord)
			assert.Equal(t, models.DefaultContributor, got.VerifiedBy)
			assert.Equal(t, time.Date(2024, 6, 1, 12, 30, 45, 0, time.UTC), got.AddedAt)
		})
	}
}

func TestDictionaryService_AddWord_IDsIncrease(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()

	var last int64 = 3
	for i := 0; i < 5; i++ {
		entry, err := svc.AddWord(ctx, &models.CreateEntryRequest{
			KabyeWord:         fmt.Sprintf("mot%d", i),
			FrenchTranslation: "traduction",
		})
		require.NoError(t, err)
		assert.Greater(t, entry.ID, last)
		last = entry.ID
	}

	coll, err := svc.Collection(ctx)
	require.NoError(t, err)
	assert.Equal(t, last+1, coll.NextID)
}

func TestDictionaryService_AddWord_RepairsStaleCounter(t *testing.T) {
	store := &stubStore{MemoryStore: repository.NewMemoryStoreWith(&models.Collection{
		Words:  []models.Entry{{ID: 7, KabyeWord: "kedu", FrenchTranslation: "comment"}},
		NextID: 2,
	})}
	svc := NewDictionaryService(store)

	entry, err := svc.AddWord(context.Background(), &models.CreateEntryRequest{KabyeWord: "lɩm", FrenchTranslation: "eau"})
	require.NoError(t, err)
	assert.Equal(t, int64(8), entry.ID)
}

func TestDictionaryService_AddWord_Concurrent(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := svc.AddWord(ctx, &models.CreateEntryRequest{
				KabyeWord:         fmt.Sprintf("mot%02d", i),
				FrenchTranslation: "traduction",
			})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	coll, err := svc.Collection(ctx)
	require.NoError(t, err)
	require.Len(t, coll.Words, 23)

	seen := make(map[int64]bool)
	for _, e := range coll.Words {
		assert.False(t, seen[e.ID], "id %d assigned twice", e.ID)
		seen[e.ID] = true
	}
}

func TestDictionaryService_AddWord_StorageFailure(t *testing.T) {
	ctx := context.Background()

	t.Run("save fails", func(t *testing.T) {
		svc, store := setupTestService(t)
		store.saveErr = repository.ErrStorageWrite

		_, err := svc.AddWord(ctx, &models.CreateEntryRequest{KabyeWord: "kedu", FrenchTranslation: "comment"})
		assert.ErrorIs(t, err, ErrStorageFailure)
		assert.Equal(t, 1, store.saves)
	})

	t.Run("load fails", func(t *testing.T) {
		svc, store := setupTestService(t)
		store.loadErr = errors.New("disk unplugged")

		_, err := svc.AddWord(ctx, &models.CreateEntryRequest{KabyeWord: "kedu", FrenchTranslation: "comment"})
		assert.ErrorIs(t, err, ErrStorageFailure)
		assert.Zero(t, store.saves)
	})
}

func TestDictionaryService_ListWords(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()

	entry, err := svc.AddWord(ctx, &models.CreateEntryRequest{KabyeWord: "kedu", FrenchTranslation: "comment"})
	require.NoError(t, err)
	assert.Equal(t, int64(4), entry.ID)

	got, err := svc.ListWords(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"aalayu", "abaa", "kedu", "ɛ"}, words(got))
}

func TestDictionaryService_SearchWords(t *testing.T) {
	svc, store := setupTestService(t)
	ctx := context.Background()

	_, err := svc.AddWord(ctx, &models.CreateEntryRequest{KabyeWord: "kedu", FrenchTranslation: "comment"})
	require.NoError(t, err)

	tests := []struct {
		name string
		term string
		want []string
	}{
		{name: "empty term", term: "", want: []string{}},
		{name: "by kabye word", term: "KE", want: []string{"kedu"}},
		{name: "by translation", term: "Comment", want: []string{"kedu"}},
		{name: "several results sorted", term: "a", want: []string{"aalayu", "abaa"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.SearchWords(ctx, tt.term)
			require.NoError(t, err)
			assert.Equal(t, tt.want, words(got))
		})
	}

	t.Run("empty term skips storage", func(t *testing.T) {
		store.loadErr = errors.New("unreachable")
		got, err := svc.SearchWords(ctx, " ")
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

func TestDictionaryService_Statistics(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()

	_, err := svc.AddWord(ctx, &models.CreateEntryRequest{KabyeWord: "kedu", FrenchTranslation: "comment", VerifiedBy: "Kodjo"})
	require.NoError(t, err)

	stats, err := svc.Statistics(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, stats.Total)
	assert.Equal(t, 1, stats.ByCategory[models.UnspecifiedCategory])
	assert.Equal(t, 1, stats.ByContributor["Kodjo"])
	assert.Equal(t, 3, stats.ByContributor["Admin"])
}

func TestDictionaryService_ReadErrors(t *testing.T) {
	svc, store := setupTestService(t)
	store.loadErr = errors.New("boom")
	ctx := context.Background()

	_, err := svc.ListWords(ctx)
	assert.ErrorIs(t, err, ErrStorageFailure)

	_, err = svc.SearchWords(ctx, "a")
	assert.ErrorIs(t, err, ErrStorageFailure)

	_, err = svc.Statistics(ctx)
	assert.ErrorIs(t, err, ErrStorageFailure)

	_, err = svc.Count(ctx)
	assert.ErrorIs(t, err, ErrStorageFailure)
}

// newKVServer serves the Replit DB protocol from a map
func newKVServer(t *testing.T) *httptest.Server {
	t.Helper()
	var mu sync.Mutex
	values := make(map[string]string)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()

		switch r.Method {
		case http.MethodGet:
			value, ok := values[strings.TrimPrefix(r.URL.Path, "/")]
			if !ok {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			w.Write([]byte(value))
		case http.MethodPost:
			if err := r.ParseForm(); err != nil {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			for key := range r.PostForm {
				values[key] = r.PostForm.Get(key)
			}
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestDictionaryService_Backends(t *testing.T) {
	tests := []struct {
		name string
		// open returns a store and a function reopening the same data
		open func(t *testing.T) (repository.EntryStore, func() repository.EntryStore)
	}{
		{
			name: "memory",
			open: func(t *testing.T) (repository.EntryStore, func() repository.EntryStore) {
				store := repository.NewMemoryStore()
				return store, func() repository.EntryStore { return store }
			},
		},
		{
			name: "file",
			open: func(t *testing.T) (repository.EntryStore, func() repository.EntryStore) {
				path := filepath.Join(t.TempDir(), "dictionnaire_kabye.json")
				return repository.NewFileStore(path), func() repository.EntryStore { return repository.NewFileStore(path) }
			},
		},
		{
			name: "kv",
			open: func(t *testing.T) (repository.EntryStore, func() repository.EntryStore) {
				srv := newKVServer(t)
				reopen := func() repository.EntryStore {
					return repository.NewKVStore(srv.URL, "dictionnaire_kabye", time.Second)
				}
				return reopen(), reopen
			},
		},
		{
			name: "sqlite",
			open: func(t *testing.T) (repository.EntryStore, func() repository.EntryStore) {
				db, err := repository.OpenSQLite(filepath.Join(t.TempDir(), "dictionnaire_kabye.db"))
				require.NoError(t, err)
				t.Cleanup(func() { db.Close() })
				return repository.NewSQLiteStore(db), func() repository.EntryStore { return repository.NewSQLiteStore(db) }
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			store, reopen := tt.open(t)
			svc := NewDictionaryService(store)

			entry, err := svc.AddWord(ctx, &models.CreateEntryRequest{KabyeWord: "kedu", FrenchTranslation: "comment"})
			require.NoError(t, err)
			assert.Equal(t, int64(4), entry.ID)

			list, err := svc.ListWords(ctx)
			require.NoError(t, err)
			assert.Equal(t, []string{"aalayu", "abaa", "kedu", "ɛ"}, words(list))

			_, err = svc.AddWord(ctx, &models.CreateEntryRequest{KabyeWord: "AALAYU", FrenchTranslation: "x"})
			assert.ErrorIs(t, err, ErrDuplicateWord)

			// A fresh service on the same data sees the same dictionary
			again := NewDictionaryService(reopen())

			count, err := again.Count(ctx)
			require.NoError(t, err)
			assert.Equal(t, 4, count)

			next, err := again.AddWord(ctx, &models.CreateEntryRequest{KabyeWord: "lɩm", FrenchTranslation: "eau"})
			require.NoError(t, err)
			assert.Equal(t, int64(5), next.ID)

			found, err := again.SearchWords(ctx, "COMMENT")
			require.NoError(t, err)
			assert.Equal(t, []string{"kedu"}, words(found))
		})
	}
}
