package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/aurasat/backend/internal/model"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// Timestamps are stored as unix nanoseconds so ORDER BY is exact.
const sqliteSchema = `
CREATE TABLE IF NOT EXISTS contacts (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	email      TEXT NOT NULL,
	subject    TEXT NOT NULL,
	message    TEXT NOT NULL,
	status     TEXT NOT NULL DEFAULT 'new',
	created_at INTEGER NOT NULL,
	updated_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS contacts_created_at_idx ON contacts (created_at DESC);
`

// SQLiteContactRepository is an embedded ContactRepository for single-node
// deployments and tests.
type SQLiteContactRepository struct {
	db *sqlx.DB
}

var _ Store = (*SQLiteContactRepository)(nil)

type sqliteContactRow struct {
	ID        string `db:"id"`
	Name      string `db:"name"`
	Email     string `db:"email"`
	Subject   string `db:"subject"`
	Message   string `db:"message"`
	Status    string `db:"status"`
	CreatedAt int64  `db:"created_at"`
	UpdatedAt int64  `db:"updated_at"`
}

func (row sqliteContactRow) contact() *model.Contact {
	return &model.Contact{
		ID:        row.ID,
		Name:      row.Name,
		Email:     row.Email,
		Subject:   row.Subject,
		Message:   row.Message,
		Status:    model.ContactStatus(row.Status),
		CreatedAt: time.Unix(0, row.CreatedAt).UTC(),
		UpdatedAt: time.Unix(0, row.UpdatedAt).UTC(),
	}
}

// OpenSQLite opens (creating if needed) the database at dsn and applies the
// schema. Use ":memory:" for a throwaway store.
func OpenSQLite(ctx context.Context, dsn string) (*SQLiteContactRepository, error) {
	db, err := sqlx.ConnectContext(ctx, "sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// A single connection keeps ":memory:" databases shared and serialises writers.
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLiteContactRepository{db: db}, nil
}

func (r *SQLiteContactRepository) Create(ctx context.Context, c *model.Contact) error {
	id := uuid.NewString()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO contacts (id, name, email, subject, message, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, c.Name, c.Email, c.Subject, c.Message, string(c.Status),
		c.CreatedAt.UnixNano(), c.UpdatedAt.UnixNano())
	if err != nil {
		return err
	}
	c.ID = id
	return nil
}

// List returns every contact, newest first. Rows created in the same
// nanosecond fall back to insertion order.
func (r *SQLiteContactRepository) List(ctx context.Context) ([]*model.Contact, error) {
	var rows []sqliteContactRow
	if err := r.db.SelectContext(ctx, &rows,
		`SELECT `+contactSelectCols+` FROM contacts ORDER BY created_at DESC, rowid DESC`); err != nil {
		return nil, err
	}
	list := make([]*model.Contact, 0, len(rows))
	for _, row := range rows {
		list = append(list, row.contact())
	}
	return list, nil
}

func (r *SQLiteContactRepository) Get(ctx context.Context, id string) (*model.Contact, error) {
	if !validID(id) {
		return nil, ErrNotFound
	}
	var row sqliteContactRow
	err := r.db.GetContext(ctx, &row, `SELECT `+contactSelectCols+` FROM contacts WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return row.contact(), nil
}

func (r *SQLiteContactRepository) UpdateStatus(ctx context.Context, id string, status model.ContactStatus, updatedAt time.Time) (*model.Contact, error) {
	if !validID(id) {
		return nil, ErrNotFound
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE contacts SET status = ?, updated_at = ? WHERE id = ?`,
		string(status), updatedAt.UnixNano(), id)
	if err != nil {
		return nil, err
	}
	if n, err := res.RowsAffected(); err != nil {
		return nil, err
	} else if n == 0 {
		return nil, ErrNotFound
	}
	return r.Get(ctx, id)
}

func (r *SQLiteContactRepository) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return ErrNotFound
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM contacts WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SQLiteContactRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *SQLiteContactRepository) Close() {
	_ = r.db.Close()
}
