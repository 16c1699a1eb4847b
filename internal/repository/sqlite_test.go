package repository

import (
	"context"
	"errors"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lehmann314159/kabyedict/internal/models"
)

func setupTestStore(t *testing.T) (*SQLiteStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dictionnaire_kabye.db")
	db, err := OpenSQLite(path)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewSQLiteStore(db), path
}

func TestSQLiteStore_Seed(t *testing.T) {
	store, _ := setupTestStore(t)

	coll, err := store.Load(context.Background())
	require.NoError(t, err)

	seed := models.SeedCollection()
	require.Len(t, coll.Words, len(seed.Words))
	assert.Equal(t, seed.NextID, coll.NextID)
	for i, want := range seed.Words {
		got := coll.Words[i]
		assert.Equal(t, want.ID, got.ID)
		assert.Equal(t, want.KabyeWord, got.KabyeWord)
		assert.Equal(t, want.Phonetic, got.Phonetic)
		assert.Equal(t, want.FrenchTranslation, got.FrenchTranslation)
		assert.Equal(t, want.UsageExample, got.UsageExample)
		assert.Equal(t, want.VerifiedBy, got.VerifiedBy)
		assert.True(t, want.AddedAt.Equal(got.AddedAt), "added_at of %s", want.KabyeWord)
	}
}

func TestSQLiteStore_SaveInsertsNewEntries(t *testing.T) {
	store, path := setupTestStore(t)
	ctx := context.Background()

	coll, err := store.Load(ctx)
	require.NoError(t, err)

	added := time.Date(2024, 6, 1, 12, 30, 45, 0, time.UTC)
	coll.Words = append(coll.Words, models.Entry{
		ID:                coll.NextID,
		KabyeWord:         "kedu",
		FrenchTranslation: "comment",
		VerifiedBy:        "Anonymous",
		AddedAt:           added,
	})
	coll.NextID++
	require.NoError(t, store.Save(ctx, coll))

	// Saving the same collection again inserts nothing
	require.NoError(t, store.Save(ctx, coll))

	got, err := store.Load(ctx)
	require.NoError(t, err)
	require.Len(t, got.Words, 4)
	assert.Equal(t, int64(4), got.Words[3].ID)
	assert.Equal(t, "kedu", got.Words[3].KabyeWord)
	assert.Equal(t, "", got.Words[3].Phonetic)
	assert.True(t, added.Equal(got.Words[3].AddedAt))
	assert.Equal(t, int64(5), got.NextID)

	// Migrations are idempotent on an existing file
	db, err := OpenSQLite(path)
	require.NoError(t, err)
	defer db.Close()

	reopened, err := NewSQLiteStore(db).Load(ctx)
	require.NoError(t, err)
	assert.Len(t, reopened.Words, 4)
}

func TestSQLiteStore_DuplicateRejectedByTable(t *testing.T) {
	store, _ := setupTestStore(t)
	ctx := context.Background()

	coll, err := store.Load(ctx)
	require.NoError(t, err)
	coll.Words = append(coll.Words, models.Entry{ID: 4, KabyeWord: "ABAA", FrenchTranslation: "x"})

	err = store.Save(ctx, coll)
	assert.ErrorIs(t, err, ErrStorageWrite)
}

func TestSQLiteStore_InsertFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COALESCE(MAX(id), 0) FROM entries")).
		WillReturnRows(sqlmock.NewRows([]string{"max"}).AddRow(3))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO entries")).
		WillReturnError(errors.New("disk I/O error"))

	coll := models.SeedCollection()
	coll.Words = append(coll.Words, models.Entry{ID: 4, KabyeWord: "kedu", FrenchTranslation: "comment"})

	err = NewSQLiteStore(db).Save(context.Background(), coll)
	assert.ErrorIs(t, err, ErrStorageWrite)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLiteStore_MaxIDFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COALESCE(MAX(id), 0) FROM entries")).
		WillReturnError(errors.New("database is locked"))

	err = NewSQLiteStore(db).Save(context.Background(), models.SeedCollection())
	assert.ErrorIs(t, err, ErrStorageWrite)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLiteStore_LoadFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM entries ORDER BY id").
		WillReturnError(errors.New("no such table: entries"))

	_, err = NewSQLiteStore(db).Load(context.Background())
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
