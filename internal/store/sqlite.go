package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"bugtracker/internal/bugs"
	"bugtracker/internal/store/migrations"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

const bugColumns = "id, title, description, priority, status, created_at, updated_at"

// SQLiteStore implements bugs.Store on an in-memory SQLite database.
// AUTOINCREMENT keeps ids from being reused after a delete.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens a fresh in-memory database and migrates it to the
// latest schema. The data lives as long as the store.
func NewSQLiteStore() (*SQLiteStore, error) {
	db, err := OpenConnection(":memory:")
	if err != nil {
		return nil, err
	}

	if err := migrations.MigrateUp(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating schema: %w", err)
	}
	if err := migrations.CheckDBMigrationStatus(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("database schema out of date: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// OpenConnection opens a SQLite connection pool of size one. Every pooled
// connection to ":memory:" would otherwise get its own empty database.
func OpenConnection(dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(0)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

func (s *SQLiteStore) Insert(ctx context.Context, bug *bugs.Bug) (*bugs.Bug, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO bugs (title, description, priority, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		bug.Title, bug.Description, bug.Priority, bug.Status, bug.CreatedAt, nullTime(bug.UpdatedAt),
	)
	if err != nil {
		return nil, fmt.Errorf("inserting bug: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("reading inserted id: %w", err)
	}

	stored := bug.Clone()
	stored.ID = id
	return stored, nil
}

func (s *SQLiteStore) List(ctx context.Context) ([]*bugs.Bug, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+bugColumns+" FROM bugs ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("listing bugs: %w", err)
	}
	defer rows.Close()

	var list []*bugs.Bug
	for rows.Next() {
		b, err := scanBug(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating bugs: %w", err)
	}
	return list, nil
}

func (s *SQLiteStore) Get(ctx context.Context, id int64) (*bugs.Bug, error) {
	return getBug(ctx, s.db, id)
}

func (s *SQLiteStore) Update(ctx context.Context, id int64, update bugs.BugUpdate, now time.Time) (*bugs.Bug, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	b, err := getBug(ctx, tx, id)
	if err != nil || b == nil {
		return nil, err
	}

	update.ApplyTo(b, now)
	_, err = tx.ExecContext(ctx,
		`UPDATE bugs SET title = ?, description = ?, priority = ?, status = ?, updated_at = ? WHERE id = ?`,
		b.Title, b.Description, b.Priority, b.Status, nullTime(b.UpdatedAt), id,
	)
	if err != nil {
		return nil, fmt.Errorf("updating bug: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing transaction: %w", err)
	}
	return b, nil
}

func (s *SQLiteStore) Delete(ctx context.Context, id int64) (*bugs.Bug, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	b, err := getBug(ctx, tx, id)
	if err != nil || b == nil {
		return nil, err
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM bugs WHERE id = ?", id); err != nil {
		return nil, fmt.Errorf("deleting bug: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing transaction: %w", err)
	}
	return b, nil
}

// Close closes the database; its contents are discarded.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// queryer is satisfied by both *sql.DB and *sql.Tx.
type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func getBug(ctx context.Context, q queryer, id int64) (*bugs.Bug, error) {
	row := q.QueryRowContext(ctx, "SELECT "+bugColumns+" FROM bugs WHERE id = ?", id)
	b, err := scanBug(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanBug(sc scanner) (*bugs.Bug, error) {
	var (
		b         bugs.Bug
		updatedAt sql.NullTime
	)
	err := sc.Scan(&b.ID, &b.Title, &b.Description, &b.Priority, &b.Status, &b.CreatedAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("scanning bug: %w", err)
	}
	b.CreatedAt = b.CreatedAt.UTC()
	if updatedAt.Valid {
		t := updatedAt.Time.UTC()
		b.UpdatedAt = &t
	}
	return &b, nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
