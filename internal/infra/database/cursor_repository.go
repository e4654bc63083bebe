package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// ErrPersistence marks every cursor read/write failure.
var ErrPersistence = errors.New("cursor persistence failed")

// cursorRowKey addresses the single cursor row.
const cursorRowKey = 0

// CursorRepository stores the last delivered notice number in table last_id.
type CursorRepository struct {
	db      *sql.DB
	dialect Dialect
}

func NewCursorRepository(db *sql.DB, dialect Dialect) *CursorRepository {
	return &CursorRepository{db: db, dialect: dialect}
}

// EnsureSchema creates the cursor table when it does not exist yet.
func (r *CursorRepository) EnsureSchema(ctx context.Context) error {
	query := `CREATE TABLE IF NOT EXISTS last_id (
               pk INTEGER PRIMARY KEY,
               id BIGINT NOT NULL
             )`
	if _, err := r.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("%w: create last_id table: %w", ErrPersistence, err)
	}
	return nil
}

// GetLastDelivered returns the stored cursor; ok is false when none has been written.
func (r *CursorRepository) GetLastDelivered(ctx context.Context) (int64, bool, error) {
	query := `SELECT id FROM last_id WHERE pk = ` + r.dialect.Placeholder(1)
	var id int64
	err := r.db.QueryRowContext(ctx, query, cursorRowKey).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("%w: read cursor: %w", ErrPersistence, err)
	}
	return id, true, nil
}

// SetLastDelivered upserts the cursor row. Repeating a call with the same id is harmless.
func (r *CursorRepository) SetLastDelivered(ctx context.Context, id int64) error {
	query := fmt.Sprintf(`INSERT INTO last_id (pk, id) VALUES (%s, %s)
               ON CONFLICT (pk) DO UPDATE SET id = excluded.id`,
		r.dialect.Placeholder(1), r.dialect.Placeholder(2))
	if _, err := r.db.ExecContext(ctx, query, cursorRowKey, id); err != nil {
		return fmt.Errorf("%w: write cursor %d: %w", ErrPersistence, id, err)
	}
	return nil
}
