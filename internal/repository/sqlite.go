package repository

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/mattn/go-sqlite3"

	"github.com/lehmann314159/kabyedict/internal/models"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

var entryColumns = []string{
	"id", "kabye_word", "phonetic", "french_translation",
	"grammatical_category", "usage_example", "verified_by", "added_at",
}

// SQLiteStore implements EntryStore with one row per entry
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite store on an already migrated database
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// OpenSQLite opens the database file at path and applies the migrations
func OpenSQLite(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// SQLite allows a single writer; sharing one connection avoids SQLITE_BUSY
	db.SetMaxOpenConns(1)

	if err := Migrate(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// Migrate creates the entries table and its seed rows
func Migrate(db *sql.DB) error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("failed to load migrations: %w", err)
	}

	driver, err := migratesqlite.WithInstance(db, &migratesqlite.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "sqlite3", driver)
	if err != nil {
		return fmt.Errorf("failed to create migrator: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	return nil
}

// Load retrieves every row in insertion order
func (s *SQLiteStore) Load(ctx context.Context) (*models.Collection, error) {
	query, args, err := sq.Select(entryColumns...).From("entries").OrderBy("id").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query entries: %w", err)
	}
	defer rows.Close()

	coll := &models.Collection{Words: []models.Entry{}}
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		coll.Words = append(coll.Words, *entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	coll.NextID = coll.MaxID() + 1
	return coll, nil
}

// Save inserts the entries of coll that are not yet stored, one INSERT each
func (s *SQLiteStore) Save(ctx context.Context, coll *models.Collection) error {
	maxID, err := s.maxID(ctx)
	if err != nil {
		return err
	}

	for _, entry := range coll.Words {
		if entry.ID <= maxID {
			continue
		}
		if err := s.insert(ctx, entry); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteStore) maxID(ctx context.Context) (int64, error) {
	query, args, err := sq.Select("COALESCE(MAX(id), 0)").From("entries").ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build query: %w", err)
	}

	var maxID int64
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&maxID); err != nil {
		return 0, fmt.Errorf("%w: failed to read max id: %v", ErrStorageWrite, err)
	}
	return maxID, nil
}

func (s *SQLiteStore) insert(ctx context.Context, e models.Entry) error {
	query, args, err := sq.Insert("entries").
		Columns(entryColumns...).
		Values(e.ID, e.KabyeWord, e.Phonetic, e.FrenchTranslation,
			e.GrammaticalCategory, e.UsageExample, e.VerifiedBy, e.AddedAt.UTC()).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: failed to insert entry %q: %v", ErrStorageWrite, e.KabyeWord, err)
	}
	return nil
}

// scanEntry scans a row from sql.Rows into an Entry
func scanEntry(rows *sql.Rows) (*models.Entry, error) {
	var e models.Entry
	err := rows.Scan(
		&e.ID, &e.KabyeWord, &e.Phonetic, &e.FrenchTranslation,
		&e.GrammaticalCategory, &e.UsageExample, &e.VerifiedBy, &e.AddedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan entry: %w", err)
	}
	e.AddedAt = e.AddedAt.UTC()
	return &e, nil
}
